package http

import (
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// extrasFields are the optional category attributes accepted by every write
// endpoint.
type extrasFields struct {
	ShelfLocation   *string  `json:"shelf_location"`
	FileSizeMB      *float64 `json:"file_size_mb"`
	FileFormat      *string  `json:"file_format"`
	DurationMinutes *int     `json:"duration_minutes"`
	Narrator        *string  `json:"narrator"`
}

func (f extrasFields) extras() entities.Extras {
	return entities.Extras{
		ShelfLocation:   f.ShelfLocation,
		FileSizeMB:      f.FileSizeMB,
		FileFormat:      f.FileFormat,
		DurationMinutes: f.DurationMinutes,
		Narrator:        f.Narrator,
	}
}

type addBookRequest struct {
	ISBN     string `json:"isbn" binding:"required,min=10,max=17"`
	BookType string `json:"book_type"`
	extrasFields
}

type manualBookRequest struct {
	ISBN     string   `json:"isbn" binding:"required"`
	Title    string   `json:"title" binding:"required"`
	Authors  []string `json:"authors"`
	BookType string   `json:"book_type"`
	extrasFields
}

type updateBookRequest struct {
	Title      *string  `json:"title"`
	Authors    []string `json:"authors"`
	IsBorrowed *bool    `json:"is_borrowed"`
	BookType   *string  `json:"book_type"`
	extrasFields
}

type borrowRequest struct {
	Action string `json:"action" binding:"required"`
}

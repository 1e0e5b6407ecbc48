package database

import (
	"encoding/json"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookcatalog/internal/storage"
)

// bookRecord is one catalog row. Position keeps insertion order, since the
// table is rewritten on every save.
type bookRecord struct {
	Position        int     `gorm:"primaryKey;autoIncrement:false"`
	ISBN            string  `gorm:"uniqueIndex;size:32"`
	Title           string  `gorm:"size:512"`
	Authors         string  `gorm:"type:text"` // JSON-encoded list
	Author          string  `gorm:"size:256"`
	Borrowed        bool
	BookType        string  `gorm:"size:16"`
	ShelfLocation   string  `gorm:"size:128"`
	FileSizeMB      float64
	FileFormat      string  `gorm:"size:32"`
	DurationMinutes int
	Narrator        string  `gorm:"size:256"`
}

func (bookRecord) TableName() string {
	return "catalog_books"
}

// Database keeps the catalog in a SQLite file. It implements storage.Backend.
type Database struct {
	DB   *gorm.DB
	path string
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&bookRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{DB: db, path: dbPath}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the underlying connection is usable.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) Location() string {
	return "sqlite:" + d.path
}

// Load returns all rows ordered by position. Rows whose author list cannot be
// decoded make the whole table count as corrupt.
func (d *Database) Load() ([]storage.Row, error) {
	var records []bookRecord
	if err := d.DB.Order("position").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load catalog rows: %w", err)
	}

	rows := make([]storage.Row, 0, len(records))
	for _, rec := range records {
		row, err := rec.toRow()
		if err != nil {
			return nil, fmt.Errorf("%w: row %d (%s): %v", storage.ErrCorrupt, rec.Position, rec.ISBN, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Save replaces the table contents with rows in a single transaction.
func (d *Database) Save(rows []storage.Row) error {
	records := make([]bookRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := fromRow(i, row)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}

	return d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&bookRecord{}).Error; err != nil {
			return fmt.Errorf("clear catalog rows: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(records, 100).Error; err != nil {
			return fmt.Errorf("insert catalog rows: %w", err)
		}
		return nil
	})
}

func fromRow(position int, row storage.Row) (bookRecord, error) {
	rec := bookRecord{
		Position:        position,
		ISBN:            row.ISBN,
		Title:           row.Title,
		Borrowed:        row.Borrowed,
		BookType:        row.BookType,
		ShelfLocation:   row.ShelfLocation,
		FileSizeMB:      row.FileSizeMB,
		FileFormat:      row.FileFormat,
		DurationMinutes: row.DurationMinutes,
		Narrator:        row.Narrator,
	}
	if row.Authors != nil {
		encoded, err := json.Marshal(*row.Authors)
		if err != nil {
			return bookRecord{}, fmt.Errorf("encode authors for %s: %w", row.ISBN, err)
		}
		rec.Authors = string(encoded)
	}
	if row.Author != nil {
		rec.Author = *row.Author
	}
	return rec, nil
}

func (rec bookRecord) toRow() (storage.Row, error) {
	row := storage.Row{
		ISBN:            rec.ISBN,
		Title:           rec.Title,
		Borrowed:        rec.Borrowed,
		BookType:        rec.BookType,
		ShelfLocation:   rec.ShelfLocation,
		FileSizeMB:      rec.FileSizeMB,
		FileFormat:      rec.FileFormat,
		DurationMinutes: rec.DurationMinutes,
		Narrator:        rec.Narrator,
	}
	if rec.Authors != "" {
		var authors []string
		if err := json.Unmarshal([]byte(rec.Authors), &authors); err != nil {
			return storage.Row{}, err
		}
		if authors == nil {
			authors = []string{}
		}
		row.Authors = &authors
	}
	if rec.Author != "" {
		author := rec.Author
		row.Author = &author
	}
	return row, nil
}

package http

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/logging"
)

// lookupTimeout bounds a single add-by-ISBN request, author lookups included.
const lookupTimeout = 30 * time.Second

// BookService is the catalog as seen by the HTTP layer.
type BookService interface {
	AddByISBN(ctx context.Context, isbn string, category entities.Category, extras entities.Extras) (*entities.Book, error)
	AddManual(book *entities.Book) (*entities.Book, error)
	Get(isbn string) (*entities.Book, error)
	List() []*entities.Book
	Update(isbn string, u entities.BookUpdate) (*entities.Book, error)
	Borrow(isbn string) (*entities.Book, error)
	Return(isbn string) (*entities.Book, error)
	Remove(isbn string) error
	Stats() catalog.Stats
	Location() string
}

type BooksController struct {
	books  BookService
	logger *log.Logger
}

func NewBooksController(books BookService, logger *log.Logger) *BooksController {
	return &BooksController{
		books:  books,
		logger: logging.OrDefault(logger).WithPrefix("http"),
	}
}

func (controller *BooksController) ListBooks(c *gin.Context) {
	c.JSON(http.StatusOK, controller.books.List())
}

func (controller *BooksController) AddBook(c *gin.Context) {
	var req addBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	category, err := entities.ParseCategory(req.BookType)
	if err != nil {
		respondCatalogError(c, controller.logger, err, "parse book type")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), lookupTimeout)
	defer cancel()

	book, err := controller.books.AddByISBN(ctx, req.ISBN, category, req.extras())
	if err != nil {
		respondCatalogError(c, controller.logger, err, "add book by ISBN")
		return
	}
	respondCreated(c, book)
}

func (controller *BooksController) AddManualBook(c *gin.Context) {
	var req manualBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	authors := catalog.CleanAuthors(req.Authors)
	if len(authors) == 0 {
		respondBadRequest(c, "at least one author is required")
		return
	}

	category, err := entities.ParseCategory(req.BookType)
	if err != nil {
		respondCatalogError(c, controller.logger, err, "parse book type")
		return
	}

	book := entities.NewBook(req.ISBN, req.Title, authors...)
	book.Category = category
	req.extras().ForCategory(category).Apply(book)

	added, err := controller.books.AddManual(book)
	if err != nil {
		respondCatalogError(c, controller.logger, err, "add manual book")
		return
	}
	respondCreated(c, added)
}

func (controller *BooksController) GetBook(c *gin.Context) {
	book, err := controller.books.Get(c.Param("isbn"))
	if err != nil {
		respondCatalogError(c, controller.logger, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

func (controller *BooksController) UpdateBook(c *gin.Context) {
	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	update := entities.BookUpdate{
		Title:    req.Title,
		Authors:  req.Authors,
		Borrowed: req.IsBorrowed,
		Extras:   req.extras(),
	}
	if req.BookType != nil {
		category, err := entities.ParseCategory(*req.BookType)
		if err != nil {
			respondCatalogError(c, controller.logger, err, "parse book type")
			return
		}
		update.Category = &category
	}

	book, err := controller.books.Update(c.Param("isbn"), update)
	if err != nil {
		respondCatalogError(c, controller.logger, err, "update book")
		return
	}
	c.JSON(http.StatusOK, book)
}

func (controller *BooksController) DeleteBook(c *gin.Context) {
	if err := controller.books.Remove(c.Param("isbn")); err != nil {
		respondCatalogError(c, controller.logger, err, "delete book")
		return
	}
	c.Status(http.StatusNoContent)
}

// BorrowOrReturn handles {"action": "borrow"} and {"action": "return"}.
func (controller *BooksController) BorrowOrReturn(c *gin.Context) {
	var req borrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	isbn := c.Param("isbn")
	var (
		book *entities.Book
		err  error
	)
	switch req.Action {
	case "borrow":
		book, err = controller.books.Borrow(isbn)
	case "return":
		book, err = controller.books.Return(isbn)
	default:
		respondBadRequest(c, "Invalid action. Use 'borrow' or 'return'")
		return
	}
	if err != nil {
		respondCatalogError(c, controller.logger, err, req.Action+" book")
		return
	}
	c.JSON(http.StatusOK, book)
}

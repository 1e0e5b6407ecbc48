package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	books := NewBooksController(cfg.Catalog, cfg.Logger)
	health := NewHealthController(cfg.Catalog, cfg.Pinger, cfg.Version)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Book Catalog API",
			"version": cfg.Version,
			"features": []string{
				"OpenLibrary integration",
				"ISBN-based book addition",
				"Full CRUD operations",
			},
		})
	})

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	if cfg.MetricsGatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.MetricsGatherer, promhttp.HandlerOpts{})))
	}

	// Books API endpoints
	router.GET("/books", books.ListBooks)
	router.POST("/books", books.AddBook)
	router.POST("/books/manual", books.AddManualBook)
	router.GET("/books/:isbn", books.GetBook)
	router.PUT("/books/:isbn", books.UpdateBook)
	router.DELETE("/books/:isbn", books.DeleteBook)
	router.POST("/books/:isbn/borrow", books.BorrowOrReturn)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Endpoint not found", Code: CodeNotFound})
	})

	return router
}

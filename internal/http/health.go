package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/catalog"
)

// Pinger checks that a persistence backend is reachable.
type Pinger interface {
	Ping() error
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Storage string            `json:"storage"`
	Books   catalog.Stats     `json:"books"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	books   BookService
	pinger  Pinger
	version string
}

func NewHealthController(books BookService, pinger Pinger, version string) *HealthController {
	return &HealthController{
		books:   books,
		pinger:  pinger,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.pinger != nil {
		if err := h.pinger.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Storage: h.books.Location(),
		Books:   h.books.Stats(),
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

package http

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/logging"
)

// Machine-readable error codes.
const (
	CodeNotFound      = "not_found"
	CodeAlreadyExists = "already_exists"
	CodeInvalidState  = "invalid_state"
	CodeValidation    = "validation"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeValidation})
}

// respondInvalidBody sends a 400 for a request body that failed to bind. The
// binding error goes in Details.
func respondInvalidBody(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid request body",
		Code:    CodeValidation,
		Details: err.Error(),
	})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, logger *log.Logger, err error, context string) {
	logging.OrDefault(logger).Error("internal error", "context", context, "err", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondCatalogError maps a catalog error to its status code. Errors that
// are not domain errors become a 500.
func respondCatalogError(c *gin.Context, logger *log.Logger, err error, context string) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		respondInternalError(c, logger, err, context)
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, entities.ErrAlreadyExists):
		return http.StatusConflict, CodeAlreadyExists
	case errors.Is(err, entities.ErrInvalidState):
		return http.StatusConflict, CodeInvalidState
	case errors.Is(err, entities.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	}
	return http.StatusInternalServerError, ""
}

// --- Success Response Helpers ---

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

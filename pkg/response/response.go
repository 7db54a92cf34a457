package response

import (
	"errors"
	"net/http"
	"os"

	"hidetrade/pkg/apperr"

	"github.com/gin-gonic/gin"
)

// Pagination describes the page window of a list response.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Response is the standard API envelope for every endpoint.
type Response struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Data       interface{}         `json:"data,omitempty"`
	Pagination *Pagination         `json:"pagination,omitempty"`
	Errors     []apperr.FieldError `json:"errors,omitempty"`
}

// OK returns a success response wrapping the data.
func OK(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Paginated returns a success response with pagination metadata.
func Paginated(message string, data interface{}, page, limit int, total int64) Response {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Response{
		Success: true,
		Message: message,
		Data:    data,
		Pagination: &Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

// Fail returns an error response with the given message.
func Fail(message string) Response {
	return Response{Success: false, Message: message}
}

// Error maps a service error onto the envelope and writes it.
// Internal detail is masked in release mode.
func Error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Message: err.Error(),
			Errors:  apperr.FieldsOf(err),
		})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, Fail(err.Error()))
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, Fail(err.Error()))
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, Fail(err.Error()))
	case errors.Is(err, apperr.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, Fail(err.Error()))
	default:
		msg := "internal server error"
		if os.Getenv("GIN_MODE") != "release" {
			msg = err.Error()
		}
		c.JSON(http.StatusInternalServerError, Fail(msg))
	}
}

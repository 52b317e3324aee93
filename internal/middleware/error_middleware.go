package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// ErrorTemplate renders every error page
const ErrorTemplate = "error.html"

// ErrorPageFor maps an error onto the page shown to the user.
// Internal details never reach the page.
func ErrorPageFor(err error) dto.ErrorPage {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return dto.ErrorPage{Status: http.StatusNotFound, Title: "Page not found",
			Message: "The page or record you are looking for does not exist."}
	case errors.Is(err, apperrors.ErrBadRequest):
		return dto.ErrorPage{Status: http.StatusBadRequest, Title: "Bad request",
			Message: "The request could not be understood."}
	default:
		return dto.ErrorPage{Status: http.StatusInternalServerError, Title: "Server error",
			Message: "Something went wrong on our side. Please try again later."}
	}
}

// HandleError renders the error page matching err and aborts the chain
func HandleError(c *gin.Context, err error) {
	page := ErrorPageFor(err)
	if page.Status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Str("requestID", c.GetString(RequestIDKey)).
			Msg("Request failed")
	}

	Render(c, page.Status, ErrorTemplate, gin.H{"Error": page, "Title": page.Title})
	c.Abort()
}

// NotFound is the router's fallback handler
func NotFound(c *gin.Context) {
	HandleError(c, apperrors.ErrResourceNotFound)
}

// Recovery renders the 500 page for a panicking handler
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		HandleError(c, errors.New("panic while handling request"))
	})
}

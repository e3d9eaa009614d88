package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevent/internal/models"
)

func statusForKind(err error) int {
	switch models.KindOf(err) {
	case models.KindInvalidInput,
		models.KindInvalidFormat,
		models.KindMissingImage,
		models.KindMissingField,
		models.KindInvalidJSON,
		models.KindTypeError:
		return http.StatusBadRequest
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindUploadError:
		return http.StatusBadGateway
	case models.KindPersistError:
		if errors.Is(err, models.ErrDuplicateSlug) {
			return http.StatusConflict
		}
		return http.StatusInternalServerError
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}

// respondError writes the error envelope. Server-side failures are also
// attached to the gin context so ErrorHandler logs them.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusForKind(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		c.JSON(status, models.KindErrorResponse(appErr.Kind, appErr.Message))
		return
	}
	c.JSON(status, models.ErrorResponse(fallback))
}

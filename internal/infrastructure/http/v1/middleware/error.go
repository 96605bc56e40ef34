package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/internal/core/apperror"
	"backoffice/pkg/logger"
)

// ErrorHandler middleware transforms errors into the {"detail": ...} body
// the API clients expect. Lifecycle conflicts get a structured detail with a
// "status" discriminator; every other error carries a human message.
// Internal causes are logged and never exposed.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		appErr, ok := apperror.AsAppError(err)
		if !ok {
			logger.Error(c.Request.Context(), "unhandled error", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
			return
		}

		if appErr.Err != nil {
			logger.Error(c.Request.Context(), "request error",
				"code", appErr.Code,
				"cause", appErr.Err,
			)
		}

		c.JSON(appErr.HTTPStatus, gin.H{"detail": Detail(appErr)})
	}
}

// Detail builds the "detail" member for appErr.
func Detail(appErr *apperror.AppError) any {
	if !appErr.IsLifecycleConflict() {
		return appErr.Message
	}

	detail := gin.H{"status": appErr.Code}
	for _, key := range []string{apperror.DetailInactiveID, apperror.DetailField, apperror.DetailMessage} {
		if v, ok := appErr.Details[key]; ok {
			detail[key] = v
		}
	}
	if _, ok := detail[apperror.DetailMessage]; !ok {
		detail[apperror.DetailMessage] = appErr.Message
	}
	return detail
}

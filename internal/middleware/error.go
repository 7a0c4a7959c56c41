package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dia-app/dia/backend/internal/apperrors"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ErrorHandler renders the last error attached to the context as JSON and
// turns panics into 500s.
func ErrorHandler(handler *apperrors.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := apperrors.NewInternalError(fmt.Errorf("panic: %v", r))
				handler.Handle(c.Request.Context(), err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error: "Internal Server Error",
					Code:  apperrors.CodeInternal,
				})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		handler.Handle(c.Request.Context(), err)
		if c.Writer.Written() {
			return
		}

		status, body := render(err)
		c.JSON(status, body)
	}
}

func render(err error) (int, ErrorResponse) {
	appErr, ok := apperrors.As(err)
	if !ok {
		return http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error", Code: apperrors.CodeInternal}
	}

	msg := appErr.Message
	switch appErr.Type {
	case apperrors.TypeInternal, apperrors.TypeDatabase:
		// details stay in the logs
		msg = "Internal Server Error"
	}
	return appErr.HTTPStatus(), ErrorResponse{Error: msg, Code: appErr.Code}
}

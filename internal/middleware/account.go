package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dia-app/dia/backend/internal/apperrors"
	"github.com/dia-app/dia/backend/internal/models"
	"github.com/dia-app/dia/backend/internal/session"
)

// RequireAccount rejects tokens whose user no longer exists or whose role
// changed since the token was issued. It must run after AuthMiddleware.
func RequireAccount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := session.FromContext(c)
		if !ok {
			abort(c, apperrors.NewUnauthorizedError("Not authenticated"))
			return
		}

		var user models.User
		err := db.WithContext(c.Request.Context()).
			Select("id", "role").
			Where("id = ?", sess.UserID).
			First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			abort(c, apperrors.NewUnauthorizedError("Account no longer exists"))
			return
		}
		if err != nil {
			abort(c, apperrors.NewDatabaseError(err))
			return
		}

		if user.Role != sess.Role {
			abort(c, apperrors.NewUnauthorizedError("Session is out of date, sign in again"))
			return
		}

		c.Next()
	}
}

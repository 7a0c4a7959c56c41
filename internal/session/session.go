// Package session carries the authenticated identity through a request and
// tracks revoked tokens.
package session

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dia-app/dia/backend/internal/models"
)

const (
	contextKey  = "session"
	userIDKey   = "user_id"
	userRoleKey = "user_role"
)

// Session is the identity behind a validated access token.
type Session struct {
	UserID    uuid.UUID
	Email     string
	Role      models.Role
	TokenID   string
	ExpiresAt time.Time
}

func (s Session) IsDoctor() bool  { return s.Role == models.RoleDoctor }
func (s Session) IsPatient() bool { return s.Role == models.RolePatient }

// Set stores s on the gin context. user_id and user_role are kept as plain
// keys for request logging.
func Set(c *gin.Context, s Session) {
	c.Set(contextKey, s)
	c.Set(userIDKey, s.UserID.String())
	c.Set(userRoleKey, string(s.Role))
}

// FromContext returns the session stored by the auth middleware.
func FromContext(c *gin.Context) (Session, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}

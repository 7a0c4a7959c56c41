package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dia-app/dia/backend/internal/service"
	"github.com/dia-app/dia/backend/internal/types"
)

type listSubject struct {
	userID uuid.UUID
	limit  int
}

// resolveSubject reads ?userId= and ?limit= and checks the caller may read
// that user's records.
func resolveSubject(c *gin.Context, care service.ICareService) (listSubject, bool) {
	sess, ok := currentSession(c)
	if !ok {
		return listSubject{}, false
	}

	userID, err := care.ResolveSubject(c.Request.Context(), sess, c.Query("userId"))
	if err != nil {
		respondError(c, err)
		return listSubject{}, false
	}
	return listSubject{
		userID: userID,
		limit:  types.ParseLimit(c.Query("limit"), service.DefaultListLimit),
	}, true
}

func (h *RecordHandler) subject(c *gin.Context) (listSubject, bool) {
	return resolveSubject(c, h.careService)
}

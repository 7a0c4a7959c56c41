package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dia-app/dia/backend/internal/apperrors"
	"github.com/dia-app/dia/backend/internal/service"
	"github.com/dia-app/dia/backend/internal/types"
)

type MessageHandler struct {
	messageService service.IMessageService
}

func NewMessageHandler(messageService service.IMessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) RegisterRoutes(router *gin.RouterGroup) {
	messages := router.Group("/messages")
	{
		messages.GET("/:peerId", h.List)
		messages.POST("/:peerId", h.Send)
	}
}

func (h *MessageHandler) List(c *gin.Context) {
	userID, peerID, ok := h.peer(c)
	if !ok {
		return
	}

	limit := types.ParseLimit(c.Query("limit"), service.DefaultListLimit)
	messages, err := h.messageService.List(c.Request.Context(), userID, peerID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *MessageHandler) Send(c *gin.Context) {
	userID, peerID, ok := h.peer(c)
	if !ok {
		return
	}
	var req types.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.messageService.Send(c.Request.Context(), userID, peerID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// peer returns the caller ID and the :peerId path parameter.
func (h *MessageHandler) peer(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	sess, ok := currentSession(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	peerID, err := uuid.Parse(c.Param("peerId"))
	if err != nil {
		respondError(c, apperrors.NewValidationError("peerId must be a UUID"))
		return uuid.Nil, uuid.Nil, false
	}
	return sess.UserID, peerID, true
}

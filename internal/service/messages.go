package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dia-app/dia/backend/internal/apperrors"
	"github.com/dia-app/dia/backend/internal/models"
)

const maxMessageLength = 4000

// MessageService exchanges messages between a patient and a linked doctor.
type MessageService struct {
	db   *gorm.DB
	care *CareService
}

func NewMessageService(db *gorm.DB, care *CareService) *MessageService {
	return &MessageService{db: db, care: care}
}

// List returns the conversation with peerID, oldest first.
func (s *MessageService) List(ctx context.Context, userID, peerID uuid.UUID, limit int) ([]models.Message, error) {
	link, err := s.care.LinkBetween(ctx, userID, peerID)
	if err != nil {
		return nil, err
	}

	var messages []models.Message
	err = s.db.WithContext(ctx).
		Where("link_id = ?", link.ID).
		Order("created_at DESC").
		Limit(clampLimit(limit)).
		Find(&messages).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// Send stores a message from userID to peerID.
func (s *MessageService) Send(ctx context.Context, userID, peerID uuid.UUID, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" || utf8.RuneCountInString(body) > maxMessageLength {
		return nil, apperrors.NewValidationError("body must have between 1 and 4000 characters")
	}

	link, err := s.care.LinkBetween(ctx, userID, peerID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{LinkID: link.ID, SenderID: userID, Body: body}
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return msg, nil
}

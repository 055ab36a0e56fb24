package services

import (
	"database/sql"
	"fmt"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain"
	"taskerhub/internal/domain/models"
	"taskerhub/internal/repositories"
	"taskerhub/internal/utils"
)

// MessageService handles direct messages between a customer and a tasker,
// with cursor paging and read-receipt synchronization.
type MessageService struct {
	DB          *sql.DB
	MessageRepo repositories.MessageRepo
	UserRepo    repositories.UserRepo
	RequestID   string
}

func (s MessageService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s MessageService) messages() repositories.MessageRepo {
	if s.MessageRepo.DB != nil {
		return s.MessageRepo
	}
	return repositories.MessageRepo{DB: s.db()}
}

func (s MessageService) users() repositories.UserRepo {
	if s.UserRepo.DB != nil {
		return s.UserRepo
	}
	return repositories.UserRepo{DB: s.db()}
}

func (s MessageService) Send(senderID, recipientID int64, bookingID, jobID *int64, body string) (int64, error) {
	body = utils.TrimOrEmpty(body)
	if body == "" {
		return 0, domain.ValidationError{Field: "body", Msg: "required"}
	}
	if len(body) > 4000 {
		return 0, domain.ValidationError{Field: "body", Msg: "too long"}
	}
	if recipientID == senderID {
		return 0, domain.ValidationError{Field: "recipient_id", Msg: "cannot message yourself"}
	}
	if _, err := s.users().GetByID(recipientID); err != nil {
		return 0, err
	}

	id, err := s.messages().Insert(models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		BookingID:   bookingID,
		JobID:       jobID,
		Body:        body,
	})
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "message", "send", fmt.Sprintf("message_id=%d", id))
	return id, nil
}

// Conversation pages the thread with one counterpart, newest first. beforeID
// is the cursor from the previous page (0 for the first page).
func (s MessageService) Conversation(callerID, otherID, beforeID int64, limit int) ([]models.Message, error) {
	if otherID <= 0 {
		return nil, domain.ValidationError{Field: "other_id", Msg: "invalid id"}
	}
	msgs, err := s.messages().Conversation(callerID, otherID, beforeID, limit)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return msgs, nil
}

// MarkRead flags everything the counterpart sent as read and returns the count.
func (s MessageService) MarkRead(callerID, otherID int64) (int64, error) {
	n, err := s.messages().MarkRead(callerID, otherID)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return n, nil
}

func (s MessageService) Inbox(callerID int64) ([]models.Conversation, error) {
	out, err := s.messages().ListConversations(callerID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

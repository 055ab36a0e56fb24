package services

import (
	"database/sql"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain"
	"taskerhub/internal/domain/models"
	"taskerhub/internal/repositories"
)

type NotificationService struct {
	DB               *sql.DB
	NotificationRepo repositories.NotificationRepo
	RequestID        string
}

func (s NotificationService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s NotificationService) repo() repositories.NotificationRepo {
	if s.NotificationRepo.DB != nil {
		return s.NotificationRepo
	}
	return repositories.NotificationRepo{DB: s.db()}
}

func (s NotificationService) List(userID int64, unreadOnly bool, limit, offset int) ([]models.Notification, int, error) {
	list, err := s.repo().List(userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	unread, err := s.repo().UnreadCount(userID)
	if err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	return list, unread, nil
}

func (s NotificationService) MarkRead(userID, id int64) error {
	ok, err := s.repo().MarkRead(userID, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if !ok {
		return domain.NotFoundError{Resource: "notification"}
	}
	return nil
}

func (s NotificationService) MarkAllRead(userID int64) (int64, error) {
	n, err := s.repo().MarkAllRead(userID)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return n, nil
}

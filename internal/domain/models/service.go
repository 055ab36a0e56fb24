package models

import "time"

const (
	ServiceActive   = "active"
	ServiceInactive = "inactive"
)

type TaskerService struct {
	ID          int64      `json:"id"`
	TaskerID    int64      `json:"tasker_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Price       float64    `json:"price"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`

	TaskerName   string  `json:"tasker_name,omitempty"`
	TaskerRating float64 `json:"tasker_rating,omitempty"`
}

type ServiceUpdate struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

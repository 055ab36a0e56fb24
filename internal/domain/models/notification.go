package models

import "time"

type Notification struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	Type             string    `json:"type"`
	Title            string    `json:"title"`
	Body             string    `json:"body"`
	RelatedBookingID *int64    `json:"related_booking_id,omitempty"`
	RelatedJobID     *int64    `json:"related_job_id,omitempty"`
	IsRead           bool      `json:"is_read"`
	CreatedAt        time.Time `json:"created_at"`
}

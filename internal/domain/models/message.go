package models

import "time"

type Message struct {
	ID          int64      `json:"id"`
	SenderID    int64      `json:"sender_id"`
	RecipientID int64      `json:"recipient_id"`
	BookingID   *int64     `json:"booking_id,omitempty"`
	JobID       *int64     `json:"job_id,omitempty"`
	Body        string     `json:"body"`
	IsRead      bool       `json:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Conversation is the inbox row: the latest message exchanged with one
// counterpart plus the caller's unread count.
type Conversation struct {
	OtherID     int64     `json:"other_id"`
	OtherName   string    `json:"other_name"`
	LastMessage string    `json:"last_message"`
	LastAt      time.Time `json:"last_at"`
	UnreadCount int       `json:"unread_count"`
}

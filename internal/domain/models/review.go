package models

import "time"

type Review struct {
	ID         int64      `json:"id"`
	ReviewerID int64      `json:"reviewer_id"`
	RevieweeID int64      `json:"reviewee_id"`
	BookingID  *int64     `json:"booking_id,omitempty"`
	JobID      *int64     `json:"job_id,omitempty"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment"`
	Reply      string     `json:"reply,omitempty"`
	ReplyAt    *time.Time `json:"reply_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	ReviewerName string `json:"reviewer_name,omitempty"`
}

type ReviewCreate struct {
	BookingID *int64 `json:"booking_id,omitempty"`
	JobID     *int64 `json:"job_id,omitempty"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// ReviewSummary is the aggregate shown on a tasker profile.
type ReviewSummary struct {
	TaskerRating float64 `json:"tasker_rating"`
	TotalReviews int     `json:"total_reviews"`
}

package models

import "time"

const (
	JobOpen      = "open"
	JobAssigned  = "assigned"
	JobCompleted = "completed"
	JobCancelled = "cancelled"
)

const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

type Job struct {
	ID               int64      `json:"id"`
	CustomerID       int64      `json:"customer_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Category         string     `json:"category"`
	Budget           float64    `json:"budget"`
	Currency         string     `json:"currency"`
	Location         string     `json:"location"`
	ScheduledDate    string     `json:"scheduled_date"`
	Status           string     `json:"status"`
	AssignedTaskerID *int64     `json:"assigned_tasker_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`

	CustomerName     string `json:"customer_name,omitempty"`
	ApplicationCount int    `json:"application_count,omitempty"`
}

type JobApplication struct {
	ID                int64     `json:"id"`
	JobID             int64     `json:"job_id"`
	TaskerID          int64     `json:"tasker_id"`
	ProposedPrice     float64   `json:"proposed_price"`
	EstimatedDuration string    `json:"estimated_duration"`
	Message           string    `json:"message"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`

	TaskerName   string  `json:"tasker_name,omitempty"`
	TaskerRating float64 `json:"tasker_rating,omitempty"`
}

type JobCreate struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Budget        float64 `json:"budget"`
	Currency      string  `json:"currency"`
	Location      string  `json:"location"`
	ScheduledDate string  `json:"scheduled_date"`
}

type ApplicationCreate struct {
	JobID             int64   `json:"job_id"`
	ProposedPrice     float64 `json:"proposed_price"`
	EstimatedDuration string  `json:"estimated_duration"`
	Message           string  `json:"message"`
}

package models

import "time"

type Address struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Label     string    `json:"label"`
	Line1     string    `json:"line1"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

package models

import "time"

const (
	RoleCustomer = "customer"
	RoleTasker   = "tasker"
)

type User struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	WalletBalance float64    `json:"wallet_balance"`
	Locale        string     `json:"locale"`
	AvatarURL     string     `json:"avatar_url"`
	Bio           string     `json:"bio"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// UserStats mirrors the per-user aggregate row kept alongside users.
type UserStats struct {
	UserID            int64   `json:"user_id"`
	TaskerRating      float64 `json:"tasker_rating"`
	TotalReviews      int     `json:"total_reviews"`
	CompletedBookings int     `json:"completed_bookings"`
	TotalEarned       float64 `json:"total_earned"`
}

// UserUpdate performs PATCH-style updates based on field presence.
type UserUpdate struct {
	Name      *string `json:"name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Locale    *string `json:"locale,omitempty"`
}

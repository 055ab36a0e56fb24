package models

import "time"

// Booking statuses. The lifecycle only moves forward:
// pending -> accepted -> confirmed -> in_progress -> completed,
// with cancelled reachable from pending/accepted/confirmed.
const (
	BookingPending    = "pending"
	BookingAccepted   = "accepted"
	BookingConfirmed  = "confirmed"
	BookingInProgress = "in_progress"
	BookingCompleted  = "completed"
	BookingCancelled  = "cancelled"
)

const (
	BookingTypeInstant   = "instant"
	BookingTypeScheduled = "scheduled"
	BookingTypeRecurring = "recurring"
)

const (
	PaymentCash    = "cash"
	PaymentOnline  = "online"
	PaymentWallet  = "wallet"
	PaymentPending = "pending"
)

var bookingNext = map[string]map[string]bool{
	BookingPending:    {BookingAccepted: true, BookingCancelled: true},
	BookingAccepted:   {BookingConfirmed: true, BookingCancelled: true},
	BookingConfirmed:  {BookingInProgress: true, BookingCancelled: true},
	BookingInProgress: {BookingCompleted: true},
	BookingCompleted:  {},
	BookingCancelled:  {},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	next, ok := bookingNext[from]
	if !ok {
		return false
	}
	return next[to]
}

// CanCancel reports whether a booking in the given status may still be cancelled.
func CanCancel(status string) bool {
	return CanTransition(status, BookingCancelled)
}

// IsBookingStatus reports whether s is one of the known booking statuses.
func IsBookingStatus(s string) bool {
	_, ok := bookingNext[s]
	return ok
}

type ServiceBooking struct {
	ID                  int64      `json:"id"`
	CustomerID          int64      `json:"customer_id"`
	TaskerID            int64      `json:"tasker_id"`
	TaskerServiceID     int64      `json:"tasker_service_id"`
	BookingType         string     `json:"booking_type"`
	ScheduledDate       string     `json:"scheduled_date"`
	ScheduledTime       string     `json:"scheduled_time"`
	AgreedPrice         float64    `json:"agreed_price"`
	Currency            string     `json:"currency"`
	Status              string     `json:"status"`
	PaymentMethod       string     `json:"payment_method"`
	Notes               string     `json:"notes"`
	AddressID           *int64     `json:"address_id,omitempty"`
	AcceptedAt          *time.Time `json:"accepted_at,omitempty"`
	ConfirmedAt         *time.Time `json:"confirmed_at,omitempty"`
	StartedAt           *time.Time `json:"started_at,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	CustomerConfirmedAt *time.Time `json:"customer_confirmed_at,omitempty"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason  string     `json:"cancellation_reason,omitempty"`
	CancelledBy         string     `json:"cancelled_by,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`

	// Joined for list/detail pages.
	ServiceTitle string `json:"service_title,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
	TaskerName   string `json:"tasker_name,omitempty"`
}

type BookingCreate struct {
	TaskerServiceID int64  `json:"tasker_service_id"`
	BookingType     string `json:"booking_type"`
	ScheduledDate   string `json:"scheduled_date"`
	ScheduledTime   string `json:"scheduled_time"`
	PaymentMethod   string `json:"payment_method"`
	Notes           string `json:"notes"`
	AddressID       *int64 `json:"address_id,omitempty"`
}

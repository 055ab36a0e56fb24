package models

import "time"

const (
	TxTypeBookingPayment = "booking_payment"
	TxTypeJobPayment     = "job_payment"
	TxTypeTopUp          = "wallet_topup"
)

const (
	TxStatusPending = "pending"
	TxStatusPaid    = "paid"
)

const (
	WalletFeeDeduction = "fee_deduction"
	WalletTopUp        = "topup"
	WalletPayout       = "payout"
	WalletRefund       = "refund"
)

// PlatformFeeRate is deducted from the tasker's wallet when a booking is accepted.
const PlatformFeeRate = 0.10

// MinWalletBalance gates accepting or starting a booking.
const MinWalletBalance = 10.0

type Transaction struct {
	ID              int64      `json:"id"`
	BookingID       *int64     `json:"booking_id,omitempty"`
	JobID           *int64     `json:"job_id,omitempty"`
	PayerID         int64      `json:"payer_id"`
	PayeeID         int64      `json:"payee_id"`
	Amount          float64    `json:"amount"`
	PlatformFee     float64    `json:"platform_fee"`
	PaymentStatus   string     `json:"payment_status"`
	PaymentMethod   string     `json:"payment_method"`
	TransactionType string     `json:"transaction_type"`
	Reference       string     `json:"reference"`
	CreatedAt       time.Time  `json:"created_at"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
}

type WalletTransaction struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	Type             string    `json:"type"`
	Amount           float64   `json:"amount"`
	BalanceAfter     float64   `json:"balance_after"`
	RelatedBookingID *int64    `json:"related_booking_id,omitempty"`
	Description      string    `json:"description"`
	CreatedAt        time.Time `json:"created_at"`
}

// EarningsReport summarizes a tasker's completed work over a period.
type EarningsReport struct {
	TaskerID     int64          `json:"tasker_id"`
	From         string         `json:"from"`
	To           string         `json:"to"`
	GrossEarned  float64        `json:"gross_earned"`
	PlatformFees float64        `json:"platform_fees"`
	NetEarned    float64        `json:"net_earned"`
	ByStatus     map[string]int `json:"by_status"`
}

package repositories

import (
	"database/sql"
	"errors"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain/models"
)

type TransactionRepo struct {
	DB *sql.DB
}

func (r TransactionRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func scanTransaction(scan func(dest ...any) error) (models.Transaction, error) {
	var t models.Transaction
	var bookingID, jobID sql.NullInt64
	var paidAt sql.NullTime
	err := scan(
		&t.ID, &bookingID, &jobID, &t.PayerID, &t.PayeeID,
		&t.Amount, &t.PlatformFee, &t.PaymentStatus, &t.PaymentMethod,
		&t.TransactionType, &t.Reference, &t.CreatedAt, &paidAt,
	)
	if err != nil {
		return models.Transaction{}, err
	}
	t.BookingID = nullInt64Ptr(bookingID)
	t.JobID = nullInt64Ptr(jobID)
	t.PaidAt = nullTimePtr(paidAt)
	return t, nil
}

const transactionColumns = `id, booking_id, job_id, payer_id, payee_id,
		amount, platform_fee, payment_status, payment_method,
		transaction_type, COALESCE(reference,''), created_at, paid_at`

// PaidExistsForBooking reports whether the booking already settled.
func (r TransactionRepo) PaidExistsForBooking(bookingID int64) (bool, error) {
	var count int
	err := r.db().QueryRow(`
		SELECT COUNT(*) FROM transactions
		WHERE booking_id=? AND payment_status=?
	`, bookingID, models.TxStatusPaid).Scan(&count)
	return count > 0, err
}

func (r TransactionRepo) GetByBooking(bookingID int64) (models.Transaction, error) {
	row := r.db().QueryRow(`
		SELECT `+transactionColumns+` FROM transactions
		WHERE booking_id=? ORDER BY id DESC LIMIT 1
	`, bookingID)
	t, err := scanTransaction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, sql.ErrNoRows
	}
	return t, err
}

// ListForUser lists transactions where the user is payer or payee.
func (r TransactionRepo) ListForUser(userID int64, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db().Query(`
		SELECT `+transactionColumns+` FROM transactions
		WHERE payer_id=? OR payee_id=?
		ORDER BY id DESC LIMIT ? OFFSET ?
	`, userID, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type WalletRepo struct {
	DB *sql.DB
}

func (r WalletRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r WalletRepo) ListForUser(userID int64, limit, offset int) ([]models.WalletTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db().Query(`
		SELECT id, user_id, type, amount, balance_after, related_booking_id, COALESCE(description,''), created_at
		FROM wallet_transactions
		WHERE user_id=?
		ORDER BY id DESC LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.WalletTransaction{}
	for rows.Next() {
		var w models.WalletTransaction
		var related sql.NullInt64
		if err := rows.Scan(&w.ID, &w.UserID, &w.Type, &w.Amount, &w.BalanceAfter, &related, &w.Description, &w.CreatedAt); err != nil {
			return nil, err
		}
		w.RelatedBookingID = nullInt64Ptr(related)
		out = append(out, w)
	}
	return out, rows.Err()
}

// TopUp credits the wallet and records the ledger row in one transaction.
func (r WalletRepo) TopUp(userID int64, amount float64, reference string) (float64, error) {
	tx, err := r.db().Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var balance float64
	if err := tx.QueryRow(`SELECT wallet_balance FROM users WHERE id=? FOR UPDATE`, userID).Scan(&balance); err != nil {
		return 0, err
	}
	newBalance := balance + amount
	if _, err := tx.Exec(`UPDATE users SET wallet_balance=?, updated_at=NOW() WHERE id=?`, newBalance, userID); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(`
		INSERT INTO wallet_transactions (user_id, type, amount, balance_after, description, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())
	`, userID, models.WalletTopUp, amount, newBalance, "wallet top-up "+reference); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newBalance, nil
}

package repositories

import (
	"database/sql"
	"errors"
	"time"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain"
)

// OTPRow is a staged signup (or resend) awaiting verification. The pending
// account fields live here until the code is verified, at which point the
// users row is materialized.
type OTPRow struct {
	ID           int64
	Email        string
	CodeHash     string
	Purpose      string
	Name         string
	Phone        string
	Role         string
	PasswordHash string
	Attempts     int
	ExpiresAt    time.Time
	ConsumedAt   *time.Time
	CreatedAt    time.Time
}

type OTPRepo struct {
	DB *sql.DB
}

func (r OTPRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r OTPRepo) Create(row OTPRow) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO otp_codes (email, code_hash, purpose, name, phone, role, password_hash, attempts, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, NOW())
	`, row.Email, row.CodeHash, row.Purpose, row.Name, row.Phone, row.Role, row.PasswordHash, row.ExpiresAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CountRecent counts codes issued for an email since a cutoff, consumed or not.
// Used for rate limiting.
func (r OTPRepo) CountRecent(email string, since time.Time) (int, error) {
	var count int
	err := r.db().QueryRow(`
		SELECT COUNT(*) FROM otp_codes WHERE email=? AND created_at >= ?
	`, email, since).Scan(&count)
	return count, err
}

// LatestActive returns the newest unconsumed code for an email.
func (r OTPRepo) LatestActive(email string) (OTPRow, error) {
	var row OTPRow
	var consumedAt sql.NullTime
	err := r.db().QueryRow(`
		SELECT id, email, code_hash, purpose, COALESCE(name,''), COALESCE(phone,''), COALESCE(role,''),
			COALESCE(password_hash,''), attempts, expires_at, consumed_at, created_at
		FROM otp_codes
		WHERE email=? AND consumed_at IS NULL
		ORDER BY id DESC LIMIT 1
	`, email).Scan(
		&row.ID, &row.Email, &row.CodeHash, &row.Purpose, &row.Name, &row.Phone, &row.Role,
		&row.PasswordHash, &row.Attempts, &row.ExpiresAt, &consumedAt, &row.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return OTPRow{}, domain.NotFoundError{Resource: "verification code"}
	}
	if err != nil {
		return OTPRow{}, err
	}
	row.ConsumedAt = nullTimePtr(consumedAt)
	return row, nil
}

func (r OTPRepo) IncrementAttempts(id int64) error {
	_, err := r.db().Exec(`UPDATE otp_codes SET attempts = attempts + 1 WHERE id=?`, id)
	return err
}

func (r OTPRepo) Consume(id int64) error {
	_, err := r.db().Exec(`UPDATE otp_codes SET consumed_at=NOW() WHERE id=? AND consumed_at IS NULL`, id)
	return err
}

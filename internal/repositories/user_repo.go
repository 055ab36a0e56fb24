package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain"
	"taskerhub/internal/domain/models"
)

type UserRepo struct {
	DB *sql.DB
}

func (r UserRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const userColumns = `id, name, email, COALESCE(phone,''), role, status,
		wallet_balance, COALESCE(locale,'fr'), COALESCE(avatar_url,''), COALESCE(bio,''),
		created_at, updated_at`

func scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	var updatedAt sql.NullTime
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.Status,
		&u.WalletBalance, &u.Locale, &u.AvatarURL, &u.Bio,
		&u.CreatedAt, &updatedAt,
	)
	if err != nil {
		return models.User{}, err
	}
	u.UpdatedAt = nullTimePtr(updatedAt)
	return u, nil
}

func (r UserRepo) GetByID(id int64) (models.User, error) {
	row := r.db().QueryRow(`SELECT `+userColumns+` FROM users WHERE id=? LIMIT 1`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, err
}

func (r UserRepo) GetByEmail(email string) (models.User, string, error) {
	var u models.User
	var updatedAt sql.NullTime
	var passwordHash string
	err := r.db().QueryRow(`
		SELECT id, name, email, COALESCE(phone,''), role, status,
			wallet_balance, COALESCE(locale,'fr'), COALESCE(avatar_url,''), COALESCE(bio,''),
			created_at, updated_at, password_hash
		FROM users WHERE email=? LIMIT 1
	`, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.Status,
		&u.WalletBalance, &u.Locale, &u.AvatarURL, &u.Bio,
		&u.CreatedAt, &updatedAt, &passwordHash,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, "", domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return models.User{}, "", err
	}
	u.UpdatedAt = nullTimePtr(updatedAt)
	return u, passwordHash, nil
}

func (r UserRepo) EmailExists(email string) (bool, error) {
	var count int
	err := r.db().QueryRow(`SELECT COUNT(*) FROM users WHERE email=?`, email).Scan(&count)
	return count > 0, err
}

// Create inserts the user plus its default user_stats row.
func (r UserRepo) Create(name, email, phone, passwordHash, role string) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO users (name, email, phone, password_hash, role, status, wallet_balance, locale, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 'active', 0, 'fr', NOW(), NOW())
	`, name, email, phone, passwordHash, role)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := r.EnsureStats(id); err != nil {
		return 0, err
	}
	return id, nil
}

// EnsureStats creates the aggregate row when missing (idempotent).
func (r UserRepo) EnsureStats(userID int64) error {
	_, err := r.db().Exec(`
		INSERT IGNORE INTO user_stats (user_id, tasker_rating, total_reviews, completed_bookings, total_earned)
		VALUES (?, 0, 0, 0, 0)
	`, userID)
	return err
}

func (r UserRepo) GetStats(userID int64) (models.UserStats, error) {
	var s models.UserStats
	err := r.db().QueryRow(`
		SELECT user_id, tasker_rating, total_reviews, completed_bookings, total_earned
		FROM user_stats WHERE user_id=? LIMIT 1
	`, userID).Scan(&s.UserID, &s.TaskerRating, &s.TotalReviews, &s.CompletedBookings, &s.TotalEarned)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserStats{UserID: userID}, nil
	}
	return s, err
}

// UpdateProfile performs PATCH-style updates based on field presence.
func (r UserRepo) UpdateProfile(id int64, upd models.UserUpdate) error {
	sets := []string{}
	args := []any{}

	if upd.Name != nil {
		sets = append(sets, "name=?")
		args = append(args, strings.TrimSpace(*upd.Name))
	}
	if upd.Phone != nil {
		sets = append(sets, "phone=?")
		args = append(args, strings.TrimSpace(*upd.Phone))
	}
	if upd.AvatarURL != nil {
		sets = append(sets, "avatar_url=?")
		args = append(args, strings.TrimSpace(*upd.AvatarURL))
	}
	if upd.Bio != nil {
		sets = append(sets, "bio=?")
		args = append(args, strings.TrimSpace(*upd.Bio))
	}
	if upd.Locale != nil {
		sets = append(sets, "locale=?")
		args = append(args, strings.TrimSpace(*upd.Locale))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)
	_, err := r.db().Exec(`UPDATE users SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	return err
}

func (r UserRepo) WalletBalance(userID int64) (float64, error) {
	var balance float64
	err := r.db().QueryRow(`SELECT wallet_balance FROM users WHERE id=?`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NotFoundError{Resource: "user"}
	}
	return balance, err
}

package repositories

import (
	"database/sql"
	"errors"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain"
	"taskerhub/internal/domain/models"
)

type AddressRepo struct {
	DB *sql.DB
}

func (r AddressRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r AddressRepo) GetByID(id int64) (models.Address, error) {
	var a models.Address
	var lat, lng sql.NullFloat64
	err := r.db().QueryRow(`
		SELECT id, user_id, COALESCE(label,''), line1, city, country, lat, lng, is_default, created_at
		FROM addresses WHERE id=? LIMIT 1
	`, id).Scan(&a.ID, &a.UserID, &a.Label, &a.Line1, &a.City, &a.Country, &lat, &lng, &a.IsDefault, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Address{}, domain.NotFoundError{Resource: "address"}
	}
	if err != nil {
		return models.Address{}, err
	}
	a.Lat = nullFloatPtr(lat)
	a.Lng = nullFloatPtr(lng)
	return a, nil
}

func (r AddressRepo) ListForUser(userID int64) ([]models.Address, error) {
	rows, err := r.db().Query(`
		SELECT id, user_id, COALESCE(label,''), line1, city, country, lat, lng, is_default, created_at
		FROM addresses WHERE user_id=?
		ORDER BY is_default DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Address{}
	for rows.Next() {
		var a models.Address
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&a.ID, &a.UserID, &a.Label, &a.Line1, &a.City, &a.Country, &lat, &lng, &a.IsDefault, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Lat = nullFloatPtr(lat)
		a.Lng = nullFloatPtr(lng)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create inserts an address; making it the default clears the previous one in
// the same transaction so the user ends up with at most one default.
func (r AddressRepo) Create(a models.Address) (int64, error) {
	tx, err := r.db().Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if a.IsDefault {
		if _, err := tx.Exec(`UPDATE addresses SET is_default=0 WHERE user_id=?`, a.UserID); err != nil {
			return 0, err
		}
	}
	res, err := tx.Exec(`
		INSERT INTO addresses (user_id, label, line1, city, country, lat, lng, is_default, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`, a.UserID, a.Label, a.Line1, a.City, a.Country, a.Lat, a.Lng, a.IsDefault)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

func (r AddressRepo) SetDefault(userID, id int64) error {
	tx, err := r.db().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE addresses SET is_default=0 WHERE user_id=?`, userID); err != nil {
		return err
	}
	res, err := tx.Exec(`UPDATE addresses SET is_default=1 WHERE id=? AND user_id=?`, id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return domain.NotFoundError{Resource: "address"}
	}
	return tx.Commit()
}

func (r AddressRepo) Delete(userID, id int64) (bool, error) {
	res, err := r.db().Exec(`DELETE FROM addresses WHERE id=? AND user_id=?`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain"
	"taskerhub/internal/domain/models"
)

type ServiceRepo struct {
	DB *sql.DB
}

func (r ServiceRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const serviceColumns = `s.id, s.tasker_id, s.title, COALESCE(s.description,''), s.category,
		s.price, s.currency, s.status, s.created_at, s.updated_at,
		COALESCE(u.name,''), COALESCE(st.tasker_rating, 0)`

const serviceJoins = `
		FROM tasker_services s
		LEFT JOIN users u ON u.id = s.tasker_id
		LEFT JOIN user_stats st ON st.user_id = s.tasker_id`

func scanService(scan func(dest ...any) error) (models.TaskerService, error) {
	var s models.TaskerService
	var updatedAt sql.NullTime
	err := scan(
		&s.ID, &s.TaskerID, &s.Title, &s.Description, &s.Category,
		&s.Price, &s.Currency, &s.Status, &s.CreatedAt, &updatedAt,
		&s.TaskerName, &s.TaskerRating,
	)
	if err != nil {
		return models.TaskerService{}, err
	}
	s.UpdatedAt = nullTimePtr(updatedAt)
	return s, nil
}

func (r ServiceRepo) GetByID(id int64) (models.TaskerService, error) {
	row := r.db().QueryRow(`SELECT `+serviceColumns+serviceJoins+` WHERE s.id=? LIMIT 1`, id)
	s, err := scanService(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TaskerService{}, domain.NotFoundError{Resource: "service"}
	}
	return s, err
}

func (r ServiceRepo) Create(s models.TaskerService) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO tasker_services (tasker_id, title, description, category, price, currency, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`, s.TaskerID, s.Title, s.Description, s.Category, s.Price, s.Currency, models.ServiceActive)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r ServiceRepo) ListByTasker(taskerID int64) ([]models.TaskerService, error) {
	rows, err := r.db().Query(`
		SELECT `+serviceColumns+serviceJoins+`
		WHERE s.tasker_id=?
		ORDER BY s.created_at DESC, s.id DESC
	`, taskerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectServices(rows)
}

// ListActive pages active listings for customer browsing, optionally filtered
// by category and a title search term.
func (r ServiceRepo) ListActive(category, search string, limit, offset int) ([]models.TaskerService, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + serviceColumns + serviceJoins + ` WHERE s.status=?`
	args := []any{models.ServiceActive}
	if strings.TrimSpace(category) != "" {
		query += ` AND s.category=?`
		args = append(args, category)
	}
	if strings.TrimSpace(search) != "" {
		query += ` AND s.title LIKE ?`
		args = append(args, "%"+strings.TrimSpace(search)+"%")
	}
	query += ` ORDER BY st.tasker_rating DESC, s.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectServices(rows)
}

func collectServices(rows *sql.Rows) ([]models.TaskerService, error) {
	out := []models.TaskerService{}
	for rows.Next() {
		s, err := scanService(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update performs PATCH-style updates based on field presence.
func (r ServiceRepo) Update(id int64, upd models.ServiceUpdate) error {
	sets := []string{}
	args := []any{}

	if upd.Title != nil {
		sets = append(sets, "title=?")
		args = append(args, strings.TrimSpace(*upd.Title))
	}
	if upd.Description != nil {
		sets = append(sets, "description=?")
		args = append(args, strings.TrimSpace(*upd.Description))
	}
	if upd.Category != nil {
		sets = append(sets, "category=?")
		args = append(args, strings.TrimSpace(*upd.Category))
	}
	if upd.Price != nil {
		sets = append(sets, "price=?")
		args = append(args, *upd.Price)
	}
	if upd.Status != nil {
		sets = append(sets, "status=?")
		args = append(args, strings.TrimSpace(*upd.Status))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)
	_, err := r.db().Exec(`UPDATE tasker_services SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	return err
}

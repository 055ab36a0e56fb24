package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain"
	"taskerhub/internal/domain/models"
)

type JobRepo struct {
	DB *sql.DB
}

func (r JobRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const jobColumns = `j.id, j.customer_id, j.title, COALESCE(j.description,''), j.category,
		j.budget, j.currency, COALESCE(j.location,''), COALESCE(j.scheduled_date,''),
		j.status, j.assigned_tasker_id, j.created_at, j.updated_at, COALESCE(u.name,'')`

func scanJob(scan func(dest ...any) error) (models.Job, error) {
	var j models.Job
	var assigned sql.NullInt64
	var updatedAt sql.NullTime
	err := scan(
		&j.ID, &j.CustomerID, &j.Title, &j.Description, &j.Category,
		&j.Budget, &j.Currency, &j.Location, &j.ScheduledDate,
		&j.Status, &assigned, &j.CreatedAt, &updatedAt, &j.CustomerName,
	)
	if err != nil {
		return models.Job{}, err
	}
	j.AssignedTaskerID = nullInt64Ptr(assigned)
	j.UpdatedAt = nullTimePtr(updatedAt)
	return j, nil
}

func (r JobRepo) GetByID(id int64) (models.Job, error) {
	if id <= 0 {
		return models.Job{}, domain.ValidationError{Field: "job_id", Msg: "invalid id"}
	}
	row := r.db().QueryRow(`
		SELECT `+jobColumns+`
		FROM jobs j LEFT JOIN users u ON u.id = j.customer_id
		WHERE j.id=? LIMIT 1
	`, id)
	j, err := scanJob(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Job{}, domain.NotFoundError{Resource: "job"}
	}
	return j, err
}

func (r JobRepo) Create(j models.Job) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO jobs (customer_id, title, description, category, budget, currency, location, scheduled_date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`, j.CustomerID, j.Title, j.Description, j.Category, j.Budget, j.Currency, j.Location, j.ScheduledDate, models.JobOpen)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListOpen pages open jobs for tasker browsing, newest first.
func (r JobRepo) ListOpen(category string, limit, offset int) ([]models.Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `
		SELECT ` + jobColumns + `, COUNT(a.id)
		FROM jobs j
		LEFT JOIN users u ON u.id = j.customer_id
		LEFT JOIN job_applications a ON a.job_id = j.id
		WHERE j.status=?`
	args := []any{models.JobOpen}
	if strings.TrimSpace(category) != "" {
		query += ` AND j.category=?`
		args = append(args, category)
	}
	query += ` GROUP BY j.id ORDER BY j.created_at DESC, j.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Job{}
	for rows.Next() {
		var j models.Job
		var assigned sql.NullInt64
		var updatedAt sql.NullTime
		if err := rows.Scan(
			&j.ID, &j.CustomerID, &j.Title, &j.Description, &j.Category,
			&j.Budget, &j.Currency, &j.Location, &j.ScheduledDate,
			&j.Status, &assigned, &j.CreatedAt, &updatedAt, &j.CustomerName,
			&j.ApplicationCount,
		); err != nil {
			return nil, err
		}
		j.AssignedTaskerID = nullInt64Ptr(assigned)
		j.UpdatedAt = nullTimePtr(updatedAt)
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r JobRepo) ListForCustomer(customerID int64, limit, offset int) ([]models.Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db().Query(`
		SELECT `+jobColumns+`
		FROM jobs j LEFT JOIN users u ON u.id = j.customer_id
		WHERE j.customer_id=?
		ORDER BY j.created_at DESC, j.id DESC LIMIT ? OFFSET ?
	`, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Job{}
	for rows.Next() {
		j, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// CancelOpen cancels a job only while it is still open and unassigned.
func (r JobRepo) CancelOpen(id int64) (bool, error) {
	res, err := r.db().Exec(`
		UPDATE jobs SET status=?, updated_at=NOW()
		WHERE id=? AND status=? AND assigned_tasker_id IS NULL
	`, models.JobCancelled, id, models.JobOpen)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

package repositories

import (
	"database/sql"
	"errors"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain"
	"taskerhub/internal/domain/models"
)

type ApplicationRepo struct {
	DB *sql.DB
}

func (r ApplicationRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const applicationColumns = `a.id, a.job_id, a.tasker_id, a.proposed_price,
		COALESCE(a.estimated_duration,''), COALESCE(a.message,''), a.status, a.created_at,
		COALESCE(u.name,''), COALESCE(s.tasker_rating, 0)`

const applicationJoins = `
		FROM job_applications a
		LEFT JOIN users u ON u.id = a.tasker_id
		LEFT JOIN user_stats s ON s.user_id = a.tasker_id`

func scanApplication(scan func(dest ...any) error) (models.JobApplication, error) {
	var a models.JobApplication
	err := scan(
		&a.ID, &a.JobID, &a.TaskerID, &a.ProposedPrice,
		&a.EstimatedDuration, &a.Message, &a.Status, &a.CreatedAt,
		&a.TaskerName, &a.TaskerRating,
	)
	return a, err
}

func (r ApplicationRepo) GetByID(id int64) (models.JobApplication, error) {
	row := r.db().QueryRow(`SELECT `+applicationColumns+applicationJoins+` WHERE a.id=? LIMIT 1`, id)
	a, err := scanApplication(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.JobApplication{}, domain.NotFoundError{Resource: "application"}
	}
	return a, err
}

func (r ApplicationRepo) Create(a models.JobApplication) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO job_applications (job_id, tasker_id, proposed_price, estimated_duration, message, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW())
	`, a.JobID, a.TaskerID, a.ProposedPrice, a.EstimatedDuration, a.Message, models.ApplicationPending)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r ApplicationRepo) HasApplied(jobID, taskerID int64) (bool, error) {
	var count int
	err := r.db().QueryRow(`
		SELECT COUNT(*) FROM job_applications WHERE job_id=? AND tasker_id=?
	`, jobID, taskerID).Scan(&count)
	return count > 0, err
}

// ListByJob returns all applications of a job. When the parent job already has
// an assigned tasker, every non-accepted application reads as rejected so the
// list reflects the outcome even if a cascade write was missed.
func (r ApplicationRepo) ListByJob(jobID int64, jobAssigned bool) ([]models.JobApplication, error) {
	rows, err := r.db().Query(`
		SELECT `+applicationColumns+applicationJoins+`
		WHERE a.job_id=?
		ORDER BY a.created_at ASC, a.id ASC
	`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.JobApplication{}
	for rows.Next() {
		a, err := scanApplication(rows.Scan)
		if err != nil {
			return nil, err
		}
		if jobAssigned && a.Status != models.ApplicationAccepted {
			a.Status = models.ApplicationRejected
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r ApplicationRepo) ListForTasker(taskerID int64, limit, offset int) ([]models.JobApplication, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db().Query(`
		SELECT `+applicationColumns+applicationJoins+`
		WHERE a.tasker_id=?
		ORDER BY a.created_at DESC, a.id DESC LIMIT ? OFFSET ?
	`, taskerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.JobApplication{}
	for rows.Next() {
		a, err := scanApplication(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Reject flips a pending application to rejected.
func (r ApplicationRepo) Reject(id int64) (bool, error) {
	res, err := r.db().Exec(`
		UPDATE job_applications SET status=? WHERE id=? AND status=?
	`, models.ApplicationRejected, id, models.ApplicationPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Accept assigns the tasker to the job, accepts this application, and rejects
// every other pending application of the job in one transaction. Returns the
// tasker ids whose applications were rejected, for notification fanout.
func (r ApplicationRepo) Accept(appID, jobID, taskerID int64) ([]int64, error) {
	tx, err := r.db().Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE jobs SET status=?, assigned_tasker_id=?, updated_at=NOW()
		WHERE id=? AND status=? AND assigned_tasker_id IS NULL
	`, models.JobAssigned, taskerID, jobID, models.JobOpen)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, domain.ConflictError{Resource: "job", Msg: "job is no longer open"}
	}

	res, err = tx.Exec(`
		UPDATE job_applications SET status=? WHERE id=? AND status=?
	`, models.ApplicationAccepted, appID, models.ApplicationPending)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, domain.ConflictError{Resource: "application", Msg: "application is no longer pending"}
	}

	rows, err := tx.Query(`
		SELECT tasker_id FROM job_applications WHERE job_id=? AND id<>? AND status=?
	`, jobID, appID, models.ApplicationPending)
	if err != nil {
		return nil, err
	}
	rejected := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		rejected = append(rejected, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if _, err := tx.Exec(`
		UPDATE job_applications SET status=? WHERE job_id=? AND id<>? AND status=?
	`, models.ApplicationRejected, jobID, appID, models.ApplicationPending); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rejected, nil
}

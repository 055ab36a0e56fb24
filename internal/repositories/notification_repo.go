package repositories

import (
	"database/sql"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain/models"
)

type NotificationRepo struct {
	DB *sql.DB
}

func (r NotificationRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r NotificationRepo) Insert(n models.Notification) error {
	_, err := r.db().Exec(`
		INSERT INTO notifications (user_id, type, title, body, related_booking_id, related_job_id, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, NOW())
	`, n.UserID, n.Type, n.Title, n.Body, n.RelatedBookingID, n.RelatedJobID)
	return err
}

func (r NotificationRepo) List(userID int64, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `
		SELECT id, user_id, type, title, COALESCE(body,''), related_booking_id, related_job_id, is_read, created_at
		FROM notifications WHERE user_id=?`
	args := []any{userID}
	if unreadOnly {
		query += ` AND is_read=0`
	}
	query += ` ORDER BY id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		var bookingID, jobID sql.NullInt64
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &bookingID, &jobID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.RelatedBookingID = nullInt64Ptr(bookingID)
		n.RelatedJobID = nullInt64Ptr(jobID)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r NotificationRepo) UnreadCount(userID int64) (int, error) {
	var count int
	err := r.db().QueryRow(`SELECT COUNT(*) FROM notifications WHERE user_id=? AND is_read=0`, userID).Scan(&count)
	return count, err
}

// MarkRead flips one notification; the user_id guard keeps it owner-scoped.
func (r NotificationRepo) MarkRead(userID, id int64) (bool, error) {
	res, err := r.db().Exec(`UPDATE notifications SET is_read=1 WHERE id=? AND user_id=?`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r NotificationRepo) MarkAllRead(userID int64) (int64, error) {
	res, err := r.db().Exec(`UPDATE notifications SET is_read=1 WHERE user_id=? AND is_read=0`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

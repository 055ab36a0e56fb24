package repositories

import (
	"database/sql"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain/models"
)

type MessageRepo struct {
	DB *sql.DB
}

func (r MessageRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r MessageRepo) Insert(m models.Message) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO messages (sender_id, recipient_id, booking_id, job_id, body, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, 0, NOW())
	`, m.SenderID, m.RecipientID, m.BookingID, m.JobID, m.Body)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Conversation pages messages between two users, newest first. beforeID is a
// cursor: only messages older than it are returned (0 means from the top).
func (r MessageRepo) Conversation(userID, otherID, beforeID int64, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	query := `
		SELECT id, sender_id, recipient_id, booking_id, job_id, body, is_read, read_at, created_at
		FROM messages
		WHERE ((sender_id=? AND recipient_id=?) OR (sender_id=? AND recipient_id=?))`
	args := []any{userID, otherID, otherID, userID}
	if beforeID > 0 {
		query += ` AND id < ?`
		args = append(args, beforeID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Message{}
	for rows.Next() {
		var m models.Message
		var bookingID, jobID sql.NullInt64
		var readAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &bookingID, &jobID, &m.Body, &m.IsRead, &readAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.BookingID = nullInt64Ptr(bookingID)
		m.JobID = nullInt64Ptr(jobID)
		m.ReadAt = nullTimePtr(readAt)
		out = append(out, m)
	}
	return out, rows.Err()
}

// MarkRead flags everything the counterpart sent to the caller as read and
// returns how many rows flipped, so the client can sync its receipt state.
func (r MessageRepo) MarkRead(callerID, otherID int64) (int64, error) {
	res, err := r.db().Exec(`
		UPDATE messages SET is_read=1, read_at=NOW()
		WHERE recipient_id=? AND sender_id=? AND is_read=0
	`, callerID, otherID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListConversations returns the inbox: one row per counterpart with the latest
// message and the caller's unread count.
func (r MessageRepo) ListConversations(callerID int64) ([]models.Conversation, error) {
	rows, err := r.db().Query(`
		SELECT
			other_id,
			COALESCE(u.name, ''),
			m.body,
			m.created_at,
			(SELECT COUNT(*) FROM messages x
			 WHERE x.recipient_id=? AND x.sender_id=other_id AND x.is_read=0)
		FROM (
			SELECT
				CASE WHEN sender_id=? THEN recipient_id ELSE sender_id END AS other_id,
				MAX(id) AS last_id
			FROM messages
			WHERE sender_id=? OR recipient_id=?
			GROUP BY other_id
		) t
		JOIN messages m ON m.id = t.last_id
		LEFT JOIN users u ON u.id = t.other_id
		ORDER BY m.id DESC
	`, callerID, callerID, callerID, callerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Conversation{}
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.OtherID, &c.OtherName, &c.LastMessage, &c.LastAt, &c.UnreadCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

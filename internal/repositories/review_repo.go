package repositories

import (
	"database/sql"
	"errors"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain"
	"taskerhub/internal/domain/models"
)

type ReviewRepo struct {
	DB *sql.DB
}

func (r ReviewRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const reviewColumns = `v.id, v.reviewer_id, v.reviewee_id, v.booking_id, v.job_id,
		v.rating, COALESCE(v.comment,''), COALESCE(v.reply,''), v.reply_at, v.created_at,
		COALESCE(u.name,'')`

func scanReview(scan func(dest ...any) error) (models.Review, error) {
	var v models.Review
	var bookingID, jobID sql.NullInt64
	var replyAt sql.NullTime
	err := scan(
		&v.ID, &v.ReviewerID, &v.RevieweeID, &bookingID, &jobID,
		&v.Rating, &v.Comment, &v.Reply, &replyAt, &v.CreatedAt,
		&v.ReviewerName,
	)
	if err != nil {
		return models.Review{}, err
	}
	v.BookingID = nullInt64Ptr(bookingID)
	v.JobID = nullInt64Ptr(jobID)
	v.ReplyAt = nullTimePtr(replyAt)
	return v, nil
}

func (r ReviewRepo) GetByID(id int64) (models.Review, error) {
	row := r.db().QueryRow(`
		SELECT `+reviewColumns+`
		FROM reviews v LEFT JOIN users u ON u.id = v.reviewer_id
		WHERE v.id=? LIMIT 1
	`, id)
	v, err := scanReview(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Review{}, domain.NotFoundError{Resource: "review"}
	}
	return v, err
}

// Create inserts the review and recomputes the reviewee's aggregate stats in
// the same transaction, so tasker_rating/total_reviews never drift from the
// review rows.
func (r ReviewRepo) Create(v models.Review) (int64, error) {
	tx, err := r.db().Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO reviews (reviewer_id, reviewee_id, booking_id, job_id, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW())
	`, v.ReviewerID, v.RevieweeID, v.BookingID, v.JobID, v.Rating, v.Comment)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(`
		INSERT IGNORE INTO user_stats (user_id, tasker_rating, total_reviews, completed_bookings, total_earned)
		VALUES (?, 0, 0, 0, 0)
	`, v.RevieweeID); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(`
		UPDATE user_stats SET
			tasker_rating = (SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE reviewee_id=?),
			total_reviews = (SELECT COUNT(*) FROM reviews WHERE reviewee_id=?)
		WHERE user_id=?
	`, v.RevieweeID, v.RevieweeID, v.RevieweeID); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func (r ReviewRepo) ExistsForBooking(bookingID, reviewerID int64) (bool, error) {
	var count int
	err := r.db().QueryRow(`
		SELECT COUNT(*) FROM reviews WHERE booking_id=? AND reviewer_id=?
	`, bookingID, reviewerID).Scan(&count)
	return count > 0, err
}

func (r ReviewRepo) ExistsForJob(jobID, reviewerID int64) (bool, error) {
	var count int
	err := r.db().QueryRow(`
		SELECT COUNT(*) FROM reviews WHERE job_id=? AND reviewer_id=?
	`, jobID, reviewerID).Scan(&count)
	return count > 0, err
}

func (r ReviewRepo) ListForReviewee(revieweeID int64, limit, offset int) ([]models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db().Query(`
		SELECT `+reviewColumns+`
		FROM reviews v LEFT JOIN users u ON u.id = v.reviewer_id
		WHERE v.reviewee_id=?
		ORDER BY v.created_at DESC, v.id DESC LIMIT ? OFFSET ?
	`, revieweeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Review{}
	for rows.Next() {
		v, err := scanReview(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// SetReply stores the reviewee's single reply; returns false when already replied.
func (r ReviewRepo) SetReply(id int64, reply string) (bool, error) {
	res, err := r.db().Exec(`
		UPDATE reviews SET reply=?, reply_at=NOW()
		WHERE id=? AND (reply IS NULL OR reply='')
	`, reply, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

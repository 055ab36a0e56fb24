package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain"
	"taskerhub/internal/domain/models"
)

type BookingRepo struct {
	DB *sql.DB
}

func (r BookingRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `b.id, b.customer_id, b.tasker_id, b.tasker_service_id, b.booking_type,
		COALESCE(b.scheduled_date,''), COALESCE(b.scheduled_time,''),
		b.agreed_price, b.currency, b.status, b.payment_method, COALESCE(b.notes,''),
		b.address_id,
		b.accepted_at, b.confirmed_at, b.started_at, b.completed_at,
		b.customer_confirmed_at, b.cancelled_at,
		COALESCE(b.cancellation_reason,''), COALESCE(b.cancelled_by,''),
		b.created_at, b.updated_at,
		COALESCE(ts.title,''), COALESCE(cu.name,''), COALESCE(tu.name,'')`

const bookingJoins = `
		FROM service_bookings b
		LEFT JOIN tasker_services ts ON ts.id = b.tasker_service_id
		LEFT JOIN users cu ON cu.id = b.customer_id
		LEFT JOIN users tu ON tu.id = b.tasker_id`

func scanBooking(scan func(dest ...any) error) (models.ServiceBooking, error) {
	var b models.ServiceBooking
	var addressID sql.NullInt64
	var acceptedAt, confirmedAt, startedAt, completedAt, customerConfirmedAt, cancelledAt, updatedAt sql.NullTime
	err := scan(
		&b.ID, &b.CustomerID, &b.TaskerID, &b.TaskerServiceID, &b.BookingType,
		&b.ScheduledDate, &b.ScheduledTime,
		&b.AgreedPrice, &b.Currency, &b.Status, &b.PaymentMethod, &b.Notes,
		&addressID,
		&acceptedAt, &confirmedAt, &startedAt, &completedAt,
		&customerConfirmedAt, &cancelledAt,
		&b.CancellationReason, &b.CancelledBy,
		&b.CreatedAt, &updatedAt,
		&b.ServiceTitle, &b.CustomerName, &b.TaskerName,
	)
	if err != nil {
		return models.ServiceBooking{}, err
	}
	b.AddressID = nullInt64Ptr(addressID)
	b.AcceptedAt = nullTimePtr(acceptedAt)
	b.ConfirmedAt = nullTimePtr(confirmedAt)
	b.StartedAt = nullTimePtr(startedAt)
	b.CompletedAt = nullTimePtr(completedAt)
	b.CustomerConfirmedAt = nullTimePtr(customerConfirmedAt)
	b.CancelledAt = nullTimePtr(cancelledAt)
	b.UpdatedAt = nullTimePtr(updatedAt)
	return b, nil
}

func (r BookingRepo) GetByID(id int64) (models.ServiceBooking, error) {
	if id <= 0 {
		return models.ServiceBooking{}, domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}
	row := r.db().QueryRow(`SELECT `+bookingColumns+bookingJoins+` WHERE b.id=? LIMIT 1`, id)
	b, err := scanBooking(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ServiceBooking{}, domain.NotFoundError{Resource: "booking"}
	}
	return b, err
}

func (r BookingRepo) Create(b models.ServiceBooking) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO service_bookings
			(customer_id, tasker_id, tasker_service_id, booking_type, scheduled_date, scheduled_time,
			 agreed_price, currency, status, payment_method, notes, address_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`, b.CustomerID, b.TaskerID, b.TaskerServiceID, b.BookingType, b.ScheduledDate, b.ScheduledTime,
		b.AgreedPrice, b.Currency, b.Status, b.PaymentMethod, b.Notes, b.AddressID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListForParty lists bookings where the caller is the customer or the tasker.
// party is "customer_id" or "tasker_id"; status filters when non-empty.
func (r BookingRepo) ListForParty(party string, userID int64, status string, limit, offset int) ([]models.ServiceBooking, error) {
	if party != "customer_id" && party != "tasker_id" {
		return nil, fmt.Errorf("invalid party column %q", party)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + bookingColumns + bookingJoins + ` WHERE b.` + party + `=?`
	args := []any{userID}
	if strings.TrimSpace(status) != "" {
		query += ` AND b.status=?`
		args = append(args, status)
	}
	query += ` ORDER BY b.created_at DESC, b.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ServiceBooking{}
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Cancel marks the booking cancelled with reason and party. The status guard
// is repeated in SQL so a racing transition cannot cancel past the allowed set.
func (r BookingRepo) Cancel(id int64, reason, cancelledBy string) (bool, error) {
	res, err := r.db().Exec(`
		UPDATE service_bookings
		SET status=?, cancellation_reason=?, cancelled_by=?, cancelled_at=NOW(), updated_at=NOW()
		WHERE id=? AND status IN (?, ?, ?)
	`, models.BookingCancelled, reason, cancelledBy, id,
		models.BookingPending, models.BookingAccepted, models.BookingConfirmed)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ConfirmCompletion sets customer_confirmed_at once. Returns false when the
// booking was already confirmed (the WHERE clause makes the guard atomic).
func (r BookingRepo) ConfirmCompletion(id int64) (bool, error) {
	res, err := r.db().Exec(`
		UPDATE service_bookings
		SET customer_confirmed_at=NOW(), updated_at=NOW()
		WHERE id=? AND customer_confirmed_at IS NULL
	`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// statusTimestampColumn maps a target status to the timestamp column set on entry.
func statusTimestampColumn(status string) string {
	switch status {
	case models.BookingAccepted:
		return "accepted_at"
	case models.BookingConfirmed:
		return "confirmed_at"
	case models.BookingInProgress:
		return "started_at"
	case models.BookingCompleted:
		return "completed_at"
	default:
		return ""
	}
}

// SetStatus updates status and its entry timestamp, guarded by the expected
// current status so concurrent transitions cannot skip or repeat steps.
func (r BookingRepo) SetStatus(id int64, from, to string) (bool, error) {
	col := statusTimestampColumn(to)
	query := `UPDATE service_bookings SET status=?, updated_at=NOW()`
	if col != "" {
		query += `, ` + col + `=NOW()`
	}
	query += ` WHERE id=? AND status=?`
	res, err := r.db().Exec(query, to, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

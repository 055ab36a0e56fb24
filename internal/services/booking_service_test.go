package services

import (
	"testing"
	"time"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain"
	"taskerhub/internal/domain/models"
	"taskerhub/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
)

func pendingBooking() models.ServiceBooking {
	return models.ServiceBooking{
		ID:            7,
		CustomerID:    1,
		TaskerID:      2,
		AgreedPrice:   100,
		Currency:      "EUR",
		Status:        models.BookingPending,
		PaymentMethod: models.PaymentCash,
	}
}

func TestSettleAcceptanceDeductsFeeOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM service_bookings").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.BookingPending))
	mock.ExpectQuery("SELECT wallet_balance FROM users").WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow(50.0))
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT IGNORE INTO wallet_transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE users SET wallet_balance").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE service_bookings SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := BookingService{DB: db}
	fee, err := svc.settleAcceptance(pendingBooking())
	if err != nil {
		t.Fatalf("settle error: %v", err)
	}
	if fee != 10 {
		t.Fatalf("fee = %v, want 10", fee)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettleAcceptanceSkipsDebitWhenLedgerRowExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM service_bookings").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.BookingPending))
	mock.ExpectQuery("SELECT wallet_balance FROM users").WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow(50.0))
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// INSERT IGNORE hits the unique key: no row written, so no debit either.
	mock.ExpectExec("INSERT IGNORE INTO wallet_transactions").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE service_bookings SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := BookingService{DB: db}
	if _, err := svc.settleAcceptance(pendingBooking()); err != nil {
		t.Fatalf("settle error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettleAcceptanceNoopWhenAlreadyAccepted(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM service_bookings").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.BookingAccepted))
	mock.ExpectRollback()

	svc := BookingService{DB: db}
	fee, err := svc.settleAcceptance(pendingBooking())
	if err != nil {
		t.Fatalf("expected no error for a concurrently settled booking, got %v", err)
	}
	if fee != 0 {
		t.Fatalf("fee = %v, want 0", fee)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettleAcceptanceRejectsWhenBalanceBelowFee(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM service_bookings").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.BookingPending))
	mock.ExpectQuery("SELECT wallet_balance FROM users").WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow(4.0))
	mock.ExpectRollback()

	svc := BookingService{DB: db}
	_, err = svc.settleAcceptance(pendingBooking())
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func bookingRow(status string) *sqlmock.Rows {
	cols := []string{
		"id", "customer_id", "tasker_id", "tasker_service_id", "booking_type",
		"scheduled_date", "scheduled_time", "agreed_price", "currency", "status",
		"payment_method", "notes", "address_id",
		"accepted_at", "confirmed_at", "started_at", "completed_at",
		"customer_confirmed_at", "cancelled_at",
		"cancellation_reason", "cancelled_by", "created_at", "updated_at",
		"service_title", "customer_name", "tasker_name",
	}
	return sqlmock.NewRows(cols).AddRow(
		int64(7), int64(1), int64(2), int64(3), "instant",
		"", "", 100.0, "EUR", status,
		"cash", "", nil,
		nil, nil, nil, nil,
		nil, nil,
		"", "", time.Now(), nil,
		"Deep cleaning", "Alice", "Karim",
	)
}

func TestUpdateStatusWalletGateUsesLocale(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectQuery("SELECT b.id, b.customer_id").WithArgs(int64(7)).
		WillReturnRows(bookingRow(models.BookingPending))
	mock.ExpectQuery("SELECT wallet_balance FROM users").WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow(5.0))

	svc := BookingService{DB: db}
	_, err = svc.UpdateStatus(2, "ar", 7, models.BookingAccepted)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != utils.InsufficientBalanceMessage("ar") {
		t.Fatalf("message not localized: %q", err.Error())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusOnlyTaskerMayMove(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectQuery("SELECT b.id, b.customer_id").WithArgs(int64(7)).
		WillReturnRows(bookingRow(models.BookingPending))

	svc := BookingService{DB: db}
	_, err = svc.UpdateStatus(1, "fr", 7, models.BookingAccepted)
	if !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden error for the customer, got %v", err)
	}
}

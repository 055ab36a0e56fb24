package services

import (
	"testing"
	"time"

	"taskerhub/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"
)

var otpCols = []string{
	"id", "email", "code_hash", "purpose", "name", "phone", "role",
	"password_hash", "attempts", "expires_at", "consumed_at", "created_at",
}

func otpRow(codeHash string, attempts int, expiresAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(otpCols).AddRow(
		int64(1), "amina@example.com", codeHash, "signup", "Amina", "", "customer",
		"pwhash", attempts, expiresAt, nil, time.Now(),
	)
}

func TestVerifyOTPTooManyAttemptsIsRateLimited(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, email, code_hash").WithArgs("amina@example.com").
		WillReturnRows(otpRow("irrelevant", otpMaxAttempts, time.Now().Add(otpTTL)))

	svc := AuthService{DB: db}
	_, err = svc.VerifyOTP("amina@example.com", "123456")
	otpErr, ok := domain.AsOTP(err)
	if !ok || otpErr.Kind != "rate_limit" {
		t.Fatalf("expected rate_limit otp error, got %v", err)
	}
}

func TestVerifyOTPExpiredCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, email, code_hash").WithArgs("amina@example.com").
		WillReturnRows(otpRow("irrelevant", 0, time.Now().Add(-time.Minute)))

	svc := AuthService{DB: db}
	_, err = svc.VerifyOTP("amina@example.com", "123456")
	otpErr, ok := domain.AsOTP(err)
	if !ok || otpErr.Kind != "expired" {
		t.Fatalf("expected expired otp error, got %v", err)
	}
}

func TestVerifyOTPWrongCodeCountsAttempt(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("654321"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}

	mock.ExpectQuery("SELECT id, email, code_hash").WithArgs("amina@example.com").
		WillReturnRows(otpRow(string(hash), 0, time.Now().Add(otpTTL)))
	mock.ExpectExec("UPDATE otp_codes SET attempts").WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := AuthService{DB: db}
	_, err = svc.VerifyOTP("amina@example.com", "000000")
	otpErr, ok := domain.AsOTP(err)
	if !ok || otpErr.Kind != "invalid" {
		t.Fatalf("expected invalid otp error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyOTPUnknownEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, email, code_hash").WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(otpCols))

	svc := AuthService{DB: db}
	_, err = svc.VerifyOTP("nobody@example.com", "123456")
	otpErr, ok := domain.AsOTP(err)
	if !ok || otpErr.Kind != "invalid" {
		t.Fatalf("expected invalid otp error, got %v", err)
	}
}

func TestGenerateOTPIsSixDigits(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := generateOTP()
		if err != nil {
			t.Fatalf("generate error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not six digits", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains a non-digit", code)
			}
		}
	}
}

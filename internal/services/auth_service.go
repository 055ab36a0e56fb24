package services

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"
	"strings"
	"time"

	intauth "taskerhub/internal/auth"
	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain"
	"taskerhub/internal/domain/models"
	"taskerhub/internal/repositories"
	"taskerhub/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// OTPSender delivers one-time codes. The default implementation only logs;
// mail/SMS delivery is an external collaborator.
type OTPSender interface {
	SendOTP(email, code string) error
}

type logOTPSender struct{}

func (logOTPSender) SendOTP(email, code string) error {
	// The code itself is never logged.
	utils.LogEvent("", "auth", "send_otp", "otp issued for "+email)
	return nil
}

const (
	otpTTL           = 10 * time.Minute
	otpMaxPerHour    = 3
	otpMaxAttempts   = 5
	otpPurposeSignup = "signup"
)

// AuthService covers signup with OTP verification and password login.
type AuthService struct {
	DB        *sql.DB
	UserRepo  repositories.UserRepo
	OTPRepo   repositories.OTPRepo
	JWTSecret string
	Sender    OTPSender
	RequestID string
}

func (s AuthService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s AuthService) users() repositories.UserRepo {
	if s.UserRepo.DB != nil {
		return s.UserRepo
	}
	return repositories.UserRepo{DB: s.db()}
}

func (s AuthService) otps() repositories.OTPRepo {
	if s.OTPRepo.DB != nil {
		return s.OTPRepo
	}
	return repositories.OTPRepo{DB: s.db()}
}

func (s AuthService) sender() OTPSender {
	if s.Sender != nil {
		return s.Sender
	}
	return logOTPSender{}
}

// SignUp stages an account and sends a verification code. The users row is
// only materialized once the code is verified.
func (s AuthService) SignUp(name, email, phone, password, role string) error {
	name = utils.NormalizeSpace(name)
	email = utils.NormalizeEmail(email)

	if name == "" {
		return domain.ValidationError{Field: "name", Msg: "required"}
	}
	if email == "" || !strings.Contains(email, "@") {
		return domain.ValidationError{Field: "email", Msg: "invalid email address"}
	}
	if len(password) < 8 {
		return domain.ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}
	if role != models.RoleCustomer && role != models.RoleTasker {
		return domain.ValidationError{Field: "role", Msg: "must be customer or tasker"}
	}

	exists, err := s.users().EmailExists(email)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if exists {
		return domain.ConflictError{Resource: "account", Msg: "email already registered"}
	}

	if err := s.checkOTPRate(email); err != nil {
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.InternalError{Err: err}
	}

	if _, err := s.otps().Create(repositories.OTPRow{
		Email:        email,
		CodeHash:     string(codeHash),
		Purpose:      otpPurposeSignup,
		Name:         name,
		Phone:        utils.TrimOrEmpty(phone),
		Role:         role,
		PasswordHash: string(passwordHash),
		ExpiresAt:    time.Now().Add(otpTTL),
	}); err != nil {
		return domain.InternalError{Err: err}
	}

	if err := s.sender().SendOTP(email, code); err != nil {
		utils.LogEvent(s.RequestID, "auth", "signup", "otp delivery failed: "+err.Error())
	}
	utils.LogEvent(s.RequestID, "auth", "signup", "staged signup for "+email)
	return nil
}

// AuthResult is returned on successful verification or login.
type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// VerifyOTP validates the code and materializes the account. Repeated calls
// after the account exists are harmless: a fresh valid code simply logs the
// user in.
func (s AuthService) VerifyOTP(email, code string) (AuthResult, error) {
	email = utils.NormalizeEmail(email)
	code = utils.TrimOrEmpty(code)
	if email == "" || code == "" {
		return AuthResult{}, domain.ValidationError{Msg: "email and code are required"}
	}

	row, err := s.otps().LatestActive(email)
	if err != nil {
		if domain.IsNotFound(err) {
			return AuthResult{}, domain.OTPError{Kind: "invalid", Msg: "no pending verification for this email"}
		}
		return AuthResult{}, domain.InternalError{Err: err}
	}
	if row.Attempts >= otpMaxAttempts {
		return AuthResult{}, domain.OTPError{Kind: "rate_limit", Msg: "too many attempts, request a new code"}
	}
	if time.Now().After(row.ExpiresAt) {
		return AuthResult{}, domain.OTPError{Kind: "expired", Msg: "verification code expired"}
	}
	if bcrypt.CompareHashAndPassword([]byte(row.CodeHash), []byte(code)) != nil {
		if err := s.otps().IncrementAttempts(row.ID); err != nil {
			utils.LogEvent(s.RequestID, "auth", "verify_otp", "attempt count update failed: "+err.Error())
		}
		return AuthResult{}, domain.OTPError{Kind: "invalid", Msg: "incorrect verification code"}
	}

	if err := s.otps().Consume(row.ID); err != nil {
		return AuthResult{}, domain.InternalError{Err: err}
	}

	users := s.users()
	user, _, err := users.GetByEmail(email)
	if domain.IsNotFound(err) {
		id, createErr := users.Create(row.Name, email, row.Phone, row.PasswordHash, row.Role)
		if createErr != nil {
			return AuthResult{}, domain.InternalError{Err: createErr}
		}
		user, err = users.GetByID(id)
	}
	if err != nil {
		return AuthResult{}, domain.InternalError{Err: err}
	}

	token, err := intauth.IssueToken(s.JWTSecret, user.ID, user.Role)
	if err != nil {
		return AuthResult{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "verify_otp", fmt.Sprintf("verified user_id=%d", user.ID))
	return AuthResult{Token: token, User: user}, nil
}

// ResendOTP issues a fresh code for a staged signup.
func (s AuthService) ResendOTP(email string) error {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return domain.ValidationError{Field: "email", Msg: "required"}
	}

	row, err := s.otps().LatestActive(email)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.OTPError{Kind: "invalid", Msg: "no pending verification for this email"}
		}
		return domain.InternalError{Err: err}
	}
	if err := s.checkOTPRate(email); err != nil {
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if _, err := s.otps().Create(repositories.OTPRow{
		Email:        email,
		CodeHash:     string(codeHash),
		Purpose:      row.Purpose,
		Name:         row.Name,
		Phone:        row.Phone,
		Role:         row.Role,
		PasswordHash: row.PasswordHash,
		ExpiresAt:    time.Now().Add(otpTTL),
	}); err != nil {
		return domain.InternalError{Err: err}
	}

	if err := s.sender().SendOTP(email, code); err != nil {
		utils.LogEvent(s.RequestID, "auth", "resend_otp", "otp delivery failed: "+err.Error())
	}
	return nil
}

// Login authenticates with email and password.
func (s AuthService) Login(email, password string) (AuthResult, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return AuthResult{}, domain.ValidationError{Msg: "email and password are required"}
	}

	user, passwordHash, err := s.users().GetByEmail(email)
	if err != nil {
		if domain.IsNotFound(err) {
			return AuthResult{}, domain.UnauthorizedError{Msg: "invalid email or password"}
		}
		return AuthResult{}, domain.InternalError{Err: err}
	}
	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) != nil {
		return AuthResult{}, domain.UnauthorizedError{Msg: "invalid email or password"}
	}
	if user.Status != "active" {
		return AuthResult{}, domain.ForbiddenError{Msg: "account is " + user.Status}
	}

	token, err := intauth.IssueToken(s.JWTSecret, user.ID, user.Role)
	if err != nil {
		return AuthResult{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "login", fmt.Sprintf("user_id=%d", user.ID))
	return AuthResult{Token: token, User: user}, nil
}

func (s AuthService) checkOTPRate(email string) error {
	count, err := s.otps().CountRecent(email, time.Now().Add(-time.Hour))
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if count >= otpMaxPerHour {
		return domain.OTPError{Kind: "rate_limit", Msg: "too many codes requested, try again later"}
	}
	return nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

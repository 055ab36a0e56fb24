package services

import (
	"database/sql"
	"fmt"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain"
	"taskerhub/internal/domain/models"
	"taskerhub/internal/repositories"
	"taskerhub/internal/utils"

	"github.com/google/uuid"
)

// FinanceService covers the wallet (balance, ledger, top-up) and the tasker
// earnings report.
type FinanceService struct {
	DB              *sql.DB
	UserRepo        repositories.UserRepo
	WalletRepo      repositories.WalletRepo
	TransactionRepo repositories.TransactionRepo
	RequestID       string
}

func (s FinanceService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s FinanceService) users() repositories.UserRepo {
	if s.UserRepo.DB != nil {
		return s.UserRepo
	}
	return repositories.UserRepo{DB: s.db()}
}

func (s FinanceService) wallets() repositories.WalletRepo {
	if s.WalletRepo.DB != nil {
		return s.WalletRepo
	}
	return repositories.WalletRepo{DB: s.db()}
}

func (s FinanceService) transactions() repositories.TransactionRepo {
	if s.TransactionRepo.DB != nil {
		return s.TransactionRepo
	}
	return repositories.TransactionRepo{DB: s.db()}
}

// WalletOverview is the wallet page payload.
type WalletOverview struct {
	Balance float64                    `json:"balance"`
	Ledger  []models.WalletTransaction `json:"ledger"`
}

func (s FinanceService) Wallet(userID int64, limit, offset int) (WalletOverview, error) {
	balance, err := s.users().WalletBalance(userID)
	if err != nil {
		return WalletOverview{}, err
	}
	ledger, err := s.wallets().ListForUser(userID, limit, offset)
	if err != nil {
		return WalletOverview{}, domain.InternalError{Err: err}
	}
	return WalletOverview{Balance: balance, Ledger: ledger}, nil
}

// TopUp credits the wallet. Payment capture is an external collaborator; this
// records the result.
func (s FinanceService) TopUp(userID int64, amount float64) (WalletOverview, error) {
	if amount <= 0 {
		return WalletOverview{}, domain.ValidationError{Field: "amount", Msg: "must be positive"}
	}
	if amount > 10000 {
		return WalletOverview{}, domain.ValidationError{Field: "amount", Msg: "exceeds single top-up limit"}
	}
	if _, err := s.users().GetByID(userID); err != nil {
		return WalletOverview{}, err
	}

	reference := uuid.NewString()
	balance, err := s.wallets().TopUp(userID, utils.Round2(amount), reference)
	if err != nil {
		return WalletOverview{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "finance", "topup",
		fmt.Sprintf("user_id=%d amount=%s ref=%s", userID, utils.FormatMoney(amount), reference))

	ledger, err := s.wallets().ListForUser(userID, 20, 0)
	if err != nil {
		return WalletOverview{}, domain.InternalError{Err: err}
	}
	return WalletOverview{Balance: balance, Ledger: ledger}, nil
}

func (s FinanceService) Transactions(userID int64, limit, offset int) ([]models.Transaction, error) {
	out, err := s.transactions().ListForUser(userID, limit, offset)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

// Earnings aggregates a tasker's settled bookings over [from, to] (inclusive,
// YYYY-MM-DD). Empty bounds mean all time.
func (s FinanceService) Earnings(taskerID int64, from, to string) (models.EarningsReport, error) {
	if from != "" {
		if _, err := utils.ParseDate(from); err != nil {
			return models.EarningsReport{}, domain.ValidationError{Field: "from", Msg: "expected YYYY-MM-DD"}
		}
	}
	if to != "" {
		if _, err := utils.ParseDate(to); err != nil {
			return models.EarningsReport{}, domain.ValidationError{Field: "to", Msg: "expected YYYY-MM-DD"}
		}
	}

	report := models.EarningsReport{TaskerID: taskerID, From: from, To: to, ByStatus: map[string]int{}}

	query := `
		SELECT COALESCE(SUM(amount),0), COALESCE(SUM(platform_fee),0)
		FROM transactions
		WHERE payee_id=? AND payment_status=?`
	args := []any{taskerID, models.TxStatusPaid}
	if from != "" {
		query += ` AND created_at >= ?`
		args = append(args, from+" 00:00:00")
	}
	if to != "" {
		query += ` AND created_at <= ?`
		args = append(args, to+" 23:59:59")
	}
	if err := s.db().QueryRow(query, args...).Scan(&report.GrossEarned, &report.PlatformFees); err != nil {
		return models.EarningsReport{}, domain.InternalError{Err: err}
	}
	report.NetEarned = utils.Round2(report.GrossEarned - report.PlatformFees)

	statusQuery := `SELECT status, COUNT(*) FROM service_bookings WHERE tasker_id=?`
	statusArgs := []any{taskerID}
	if from != "" {
		statusQuery += ` AND created_at >= ?`
		statusArgs = append(statusArgs, from+" 00:00:00")
	}
	if to != "" {
		statusQuery += ` AND created_at <= ?`
		statusArgs = append(statusArgs, to+" 23:59:59")
	}
	statusQuery += ` GROUP BY status`

	rows, err := s.db().Query(statusQuery, statusArgs...)
	if err != nil {
		return models.EarningsReport{}, domain.InternalError{Err: err}
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return models.EarningsReport{}, domain.InternalError{Err: err}
		}
		report.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return models.EarningsReport{}, domain.InternalError{Err: err}
	}
	return report, nil
}

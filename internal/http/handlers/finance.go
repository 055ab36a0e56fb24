package handlers

import (
	"fmt"
	"net/http"

	"taskerhub/internal/http/middleware"
	"taskerhub/internal/services"

	"github.com/gin-gonic/gin"
)

func financeService(c *gin.Context) services.FinanceService {
	return services.FinanceService{RequestID: middleware.GetRequestID(c)}
}

func docsService(c *gin.Context) services.DocsService {
	return services.DocsService{RequestID: middleware.GetRequestID(c)}
}

// GET /api/wallet
func GetWallet(c *gin.Context) {
	limit, offset := paging(c)
	overview, err := financeService(c).Wallet(middleware.UserID(c), limit, offset)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": overview})
}

type topUpRequest struct {
	Amount float64 `json:"amount"`
}

// POST /api/wallet/topup
func TopUpWallet(c *gin.Context) {
	var req topUpRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	overview, err := financeService(c).TopUp(middleware.UserID(c), req.Amount)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": overview})
}

// GET /api/transactions
func ListTransactions(c *gin.Context) {
	limit, offset := paging(c)
	txs, err := financeService(c).Transactions(middleware.UserID(c), limit, offset)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

// GET /api/earnings?from=2026-01-01&to=2026-01-31 (tasker only)
func GetEarnings(c *gin.Context) {
	report, err := financeService(c).Earnings(middleware.UserID(c), c.Query("from"), c.Query("to"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// GET /api/bookings/:id/invoice
func DownloadBookingInvoice(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		return
	}
	pdfBytes, filename, err := docsService(c).BookingInvoice(middleware.UserID(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// GET /api/earnings/report?from=...&to=... (tasker only, PDF)
func DownloadEarningsReport(c *gin.Context) {
	pdfBytes, filename, err := docsService(c).EarningsReport(middleware.UserID(c), c.Query("from"), c.Query("to"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

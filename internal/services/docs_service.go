package services

import (
	"bytes"
	"database/sql"
	"fmt"
	"strings"
	"time"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain"
	"taskerhub/internal/domain/models"
	"taskerhub/internal/repositories"
	"taskerhub/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders booking invoices and earnings reports as PDFs.
type DocsService struct {
	DB          *sql.DB
	BookingRepo repositories.BookingRepo
	FinanceSvc  FinanceService
	RequestID   string
}

func (s DocsService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s DocsService) bookings() repositories.BookingRepo {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepo{DB: s.db()}
}

// BookingInvoice renders the invoice for a booking the caller is party to.
func (s DocsService) BookingInvoice(callerID, bookingID int64) ([]byte, string, error) {
	booking, err := s.bookings().GetByID(bookingID)
	if err != nil {
		return nil, "", err
	}
	if booking.CustomerID != callerID && booking.TaskerID != callerID {
		return nil, "", domain.ForbiddenError{Msg: "not a party to this booking"}
	}
	utils.LogEvent(s.RequestID, "docs", "booking_invoice", fmt.Sprintf("booking_id=%d", bookingID))
	return buildBookingInvoicePDF(booking)
}

// EarningsReport renders the tasker earnings summary for a period.
func (s DocsService) EarningsReport(taskerID int64, from, to string) ([]byte, string, error) {
	fin := s.FinanceSvc
	if fin.DB == nil {
		fin = FinanceService{DB: s.db(), RequestID: s.RequestID}
	}
	report, err := fin.Earnings(taskerID, from, to)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "earnings_report", fmt.Sprintf("tasker_id=%d", taskerID))
	return buildEarningsPDF(report)
}

func buildBookingInvoicePDF(b models.ServiceBooking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	invNo := fmt.Sprintf("INV-B%d", b.ID)
	fee := utils.PlatformFee(b.AgreedPrice, models.PlatformFeeRate)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Invoice no : "+invNo)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date       : "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Customer : "+safe(b.CustomerName, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Tasker   : "+safe(b.TaskerName, "-"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Details:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	desc := fmt.Sprintf("1) %s (%s %s), booking #%d, status %s",
		safe(b.ServiceTitle, "service"),
		safe(b.ScheduledDate, "-"), safe(b.ScheduledTime, "-"),
		b.ID, b.Status,
	)
	pdf.MultiCell(0, 6, desc, "", "", false)
	pdf.Ln(2)

	pdf.Cell(0, 6, fmt.Sprintf("Agreed price  : %s %s", utils.FormatMoney(b.AgreedPrice), b.Currency))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Platform fee  : %s %s (charged to tasker)", utils.FormatMoney(fee), b.Currency))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %s %s", utils.FormatMoney(b.AgreedPrice), b.Currency))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Payment method: "+safe(b.PaymentMethod, "-"), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("INVOICE_B%d_%s.pdf", b.ID, safeFilenamePart(b.ServiceTitle))
	return buf.Bytes(), filename, nil
}

func buildEarningsPDF(r models.EarningsReport) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Earnings report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "EARNINGS REPORT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	period := "all time"
	if r.From != "" || r.To != "" {
		period = safe(r.From, "...") + " to " + safe(r.To, "...")
	}
	lines := []string{
		fmt.Sprintf("Tasker        : #%d", r.TaskerID),
		fmt.Sprintf("Period        : %s", period),
		fmt.Sprintf("Gross earned  : %s", utils.FormatMoney(r.GrossEarned)),
		fmt.Sprintf("Platform fees : %s", utils.FormatMoney(r.PlatformFees)),
		fmt.Sprintf("Net earned    : %s", utils.FormatMoney(r.NetEarned)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Bookings by status:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, status := range []string{
		models.BookingPending, models.BookingAccepted, models.BookingConfirmed,
		models.BookingInProgress, models.BookingCompleted, models.BookingCancelled,
	} {
		if count, ok := r.ByStatus[status]; ok {
			pdf.Cell(0, 6, fmt.Sprintf("%-12s : %d", status, count))
			pdf.Ln(6)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("EARNINGS_%d.pdf", r.TaskerID)
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}

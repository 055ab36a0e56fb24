package services

import (
	"bytes"
	"strings"
	"testing"

	"taskerhub/internal/domain/models"
)

func TestBuildBookingInvoicePDF(t *testing.T) {
	b := models.ServiceBooking{
		ID:            42,
		CustomerID:    1,
		TaskerID:      2,
		AgreedPrice:   120.50,
		Currency:      "EUR",
		Status:        models.BookingCompleted,
		PaymentMethod: models.PaymentCash,
		ServiceTitle:  "Garden maintenance",
		CustomerName:  "Alice",
		TaskerName:    "Karim",
	}
	data, filename, err := buildBookingInvoicePDF(b)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	if !strings.HasPrefix(filename, "INVOICE_B42_") || !strings.HasSuffix(filename, ".pdf") {
		t.Fatalf("unexpected filename %q", filename)
	}
}

func TestBuildEarningsPDF(t *testing.T) {
	r := models.EarningsReport{
		TaskerID:     2,
		From:         "2026-01-01",
		To:           "2026-01-31",
		GrossEarned:  540,
		PlatformFees: 54,
		NetEarned:    486,
		ByStatus: map[string]int{
			models.BookingCompleted: 4,
			models.BookingCancelled: 1,
		},
	}
	data, filename, err := buildEarningsPDF(r)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	if filename != "EARNINGS_2.pdf" {
		t.Fatalf("unexpected filename %q", filename)
	}
}

func TestSafeFilenamePart(t *testing.T) {
	if got := safeFilenamePart("deep / clean: home"); strings.ContainsAny(got, " /:") {
		t.Fatalf("unsafe characters left in %q", got)
	}
	if got := safeFilenamePart("   "); got != "NA" {
		t.Fatalf("blank input should become NA, got %q", got)
	}
}

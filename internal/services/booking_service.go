package services

import (
	"database/sql"
	"fmt"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain"
	"taskerhub/internal/domain/models"
	"taskerhub/internal/events"
	"taskerhub/internal/repositories"
	"taskerhub/internal/utils"

	"github.com/google/uuid"
)

// BookingService owns the booking lifecycle: creation, status transitions with
// wallet-fee settlement on acceptance, customer cancellation, and completion
// confirmation.
type BookingService struct {
	DB               *sql.DB
	BookingRepo      repositories.BookingRepo
	UserRepo         repositories.UserRepo
	TransactionRepo  repositories.TransactionRepo
	ServiceRepo      repositories.ServiceRepo
	NotificationRepo repositories.NotificationRepo
	Publisher        *events.Publisher
	RequestID        string
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) bookings() repositories.BookingRepo {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepo{DB: s.db()}
}

func (s BookingService) users() repositories.UserRepo {
	if s.UserRepo.DB != nil {
		return s.UserRepo
	}
	return repositories.UserRepo{DB: s.db()}
}

func (s BookingService) services() repositories.ServiceRepo {
	if s.ServiceRepo.DB != nil {
		return s.ServiceRepo
	}
	return repositories.ServiceRepo{DB: s.db()}
}

func (s BookingService) transactions() repositories.TransactionRepo {
	if s.TransactionRepo.DB != nil {
		return s.TransactionRepo
	}
	return repositories.TransactionRepo{DB: s.db()}
}

func (s BookingService) notifications() repositories.NotificationRepo {
	if s.NotificationRepo.DB != nil {
		return s.NotificationRepo
	}
	return repositories.NotificationRepo{DB: s.db()}
}

// Create books a tasker service for a customer. The price is snapshotted from
// the listing at booking time.
func (s BookingService) Create(customerID int64, in models.BookingCreate) (models.ServiceBooking, error) {
	if in.TaskerServiceID <= 0 {
		return models.ServiceBooking{}, domain.ValidationError{Field: "tasker_service_id", Msg: "invalid id"}
	}
	switch in.BookingType {
	case models.BookingTypeInstant, models.BookingTypeScheduled, models.BookingTypeRecurring:
	default:
		return models.ServiceBooking{}, domain.ValidationError{Field: "booking_type", Msg: "must be instant, scheduled or recurring"}
	}
	if in.BookingType != models.BookingTypeInstant && utils.TrimOrEmpty(in.ScheduledDate) == "" {
		return models.ServiceBooking{}, domain.ValidationError{Field: "scheduled_date", Msg: "required for scheduled bookings"}
	}
	switch in.PaymentMethod {
	case "":
		in.PaymentMethod = models.PaymentPending
	case models.PaymentCash, models.PaymentOnline, models.PaymentWallet, models.PaymentPending:
	default:
		return models.ServiceBooking{}, domain.ValidationError{Field: "payment_method", Msg: "unknown payment method"}
	}

	listing, err := s.services().GetByID(in.TaskerServiceID)
	if err != nil {
		return models.ServiceBooking{}, err
	}
	if listing.Status != models.ServiceActive {
		return models.ServiceBooking{}, domain.ConflictError{Resource: "service", Msg: "listing is not active"}
	}
	if listing.TaskerID == customerID {
		return models.ServiceBooking{}, domain.ValidationError{Field: "tasker_service_id", Msg: "cannot book your own service"}
	}

	b := models.ServiceBooking{
		CustomerID:      customerID,
		TaskerID:        listing.TaskerID,
		TaskerServiceID: listing.ID,
		BookingType:     in.BookingType,
		ScheduledDate:   utils.TrimOrEmpty(in.ScheduledDate),
		ScheduledTime:   utils.TrimOrEmpty(in.ScheduledTime),
		AgreedPrice:     listing.Price,
		Currency:        listing.Currency,
		Status:          models.BookingPending,
		PaymentMethod:   in.PaymentMethod,
		Notes:           utils.TrimOrEmpty(in.Notes),
		AddressID:       in.AddressID,
	}
	id, err := s.bookings().Create(b)
	if err != nil {
		return models.ServiceBooking{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "booking", "create", fmt.Sprintf("booking_id=%d service_id=%d", id, listing.ID))

	s.notifyQuiet(models.Notification{
		UserID:           listing.TaskerID,
		Type:             "booking_request",
		Title:            "New booking request",
		Body:             fmt.Sprintf("You have a new booking request for %q.", listing.Title),
		RelatedBookingID: &id,
	})

	return s.bookings().GetByID(id)
}

// UpdateStatus moves a booking through its lifecycle. Only the assigned tasker
// may call it; customer-side mutations go through Cancel and ConfirmCompletion.
// The pending->accepted transition settles payment and deducts the platform fee
// from the tasker's wallet in a single database transaction.
func (s BookingService) UpdateStatus(callerID int64, locale string, bookingID int64, target string) (models.ServiceBooking, error) {
	if !models.IsBookingStatus(target) {
		return models.ServiceBooking{}, domain.ValidationError{Field: "status", Msg: "unknown status"}
	}

	booking, err := s.bookings().GetByID(bookingID)
	if err != nil {
		return models.ServiceBooking{}, err
	}
	if booking.TaskerID != callerID {
		return models.ServiceBooking{}, domain.ForbiddenError{Msg: "only the assigned tasker can update this booking"}
	}
	if !models.CanTransition(booking.Status, target) {
		return models.ServiceBooking{}, domain.ConflictError{
			Resource: "booking",
			Msg:      fmt.Sprintf("cannot move from %s to %s", booking.Status, target),
		}
	}

	// Accepting or starting work requires a minimum wallet balance so the
	// platform fee can always be collected.
	if target == models.BookingAccepted || target == models.BookingInProgress {
		balance, err := s.users().WalletBalance(booking.TaskerID)
		if err != nil {
			return models.ServiceBooking{}, err
		}
		if balance < models.MinWalletBalance {
			return models.ServiceBooking{}, domain.ValidationError{Msg: utils.InsufficientBalanceMessage(locale)}
		}
	}

	var settledFee float64
	if target == models.BookingAccepted && booking.Status == models.BookingPending {
		settledFee, err = s.settleAcceptance(booking)
		if err != nil {
			return models.ServiceBooking{}, err
		}
	} else {
		ok, err := s.bookings().SetStatus(bookingID, booking.Status, target)
		if err != nil {
			return models.ServiceBooking{}, domain.InternalError{Err: err}
		}
		if !ok {
			return models.ServiceBooking{}, domain.ConflictError{Resource: "booking", Msg: "booking changed concurrently, retry"}
		}
	}

	utils.LogEvent(s.RequestID, "booking", "update_status",
		fmt.Sprintf("booking_id=%d %s->%s", bookingID, booking.Status, target))

	if target == models.BookingAccepted {
		s.notifyQuiet(models.Notification{
			UserID:           booking.TaskerID,
			Type:             "payment_confirmed",
			Title:            "Payment confirmed",
			Body:             fmt.Sprintf("Payment of %s %s for %q is confirmed. A platform fee of %s was deducted from your wallet.", utils.FormatMoney(booking.AgreedPrice), booking.Currency, booking.ServiceTitle, utils.FormatMoney(settledFee)),
			RelatedBookingID: &booking.ID,
		})
	}
	s.notifyQuiet(models.Notification{
		UserID:           booking.CustomerID,
		Type:             "booking_" + target,
		Title:            "Booking " + target,
		Body:             fmt.Sprintf("Your booking for %q is now %s.", booking.ServiceTitle, target),
		RelatedBookingID: &booking.ID,
	})
	s.Publisher.Publish(events.KeyBookingStatus, events.BookingStatusEvent{
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		TaskerID:   booking.TaskerID,
		Status:     target,
		Amount:     booking.AgreedPrice,
		Fee:        settledFee,
	})

	return s.bookings().GetByID(bookingID)
}

// settleAcceptance runs the payment settlement for pending->accepted:
// exactly one paid transaction and exactly one wallet fee deduction per
// booking, enforced by unique keys so retries and races cannot double-charge.
func (s BookingService) settleAcceptance(booking models.ServiceBooking) (float64, error) {
	db := s.db()
	tx, err := db.Begin()
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	var status string
	if err := tx.QueryRow(`SELECT status FROM service_bookings WHERE id=? FOR UPDATE`, booking.ID).Scan(&status); err != nil {
		return 0, domain.InternalError{Err: err}
	}
	if status != models.BookingPending {
		if status == models.BookingAccepted {
			// A concurrent accept already settled; nothing left to do.
			return 0, nil
		}
		return 0, domain.ConflictError{Resource: "booking", Msg: fmt.Sprintf("cannot move from %s to accepted", status)}
	}

	var balance float64
	if err := tx.QueryRow(`SELECT wallet_balance FROM users WHERE id=? FOR UPDATE`, booking.TaskerID).Scan(&balance); err != nil {
		return 0, domain.InternalError{Err: err}
	}

	fee := utils.PlatformFee(booking.AgreedPrice, models.PlatformFeeRate)
	if balance < fee {
		return 0, domain.ValidationError{Msg: "Tasker wallet balance is insufficient to cover platform fee"}
	}

	// UNIQUE(booking_id, transaction_type) makes this an upsert: a leftover
	// pending transaction flips to paid, otherwise a new paid row is created.
	if _, err := tx.Exec(`
		INSERT INTO transactions
			(booking_id, payer_id, payee_id, amount, platform_fee, payment_status, payment_method, transaction_type, reference, created_at, paid_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			payment_status=VALUES(payment_status),
			amount=VALUES(amount),
			platform_fee=VALUES(platform_fee),
			paid_at=NOW()
	`, booking.ID, booking.CustomerID, booking.TaskerID, booking.AgreedPrice, fee,
		models.TxStatusPaid, booking.PaymentMethod, models.TxTypeBookingPayment, uuid.NewString()); err != nil {
		return 0, domain.InternalError{Err: err}
	}

	if fee > 0 {
		// UNIQUE(user_id, type, related_booking_id): the ledger insert only
		// takes effect once, and the wallet is debited only when it does.
		res, err := tx.Exec(`
			INSERT IGNORE INTO wallet_transactions
				(user_id, type, amount, balance_after, related_booking_id, description, created_at)
			VALUES (?, ?, ?, ?, ?, ?, NOW())
		`, booking.TaskerID, models.WalletFeeDeduction, -fee, balance-fee, booking.ID,
			fmt.Sprintf("platform fee for booking #%d", booking.ID))
		if err != nil {
			return 0, domain.InternalError{Err: err}
		}
		if n, err := res.RowsAffected(); err != nil {
			return 0, domain.InternalError{Err: err}
		} else if n > 0 {
			if _, err := tx.Exec(`UPDATE users SET wallet_balance = wallet_balance - ?, updated_at=NOW() WHERE id=?`, fee, booking.TaskerID); err != nil {
				return 0, domain.InternalError{Err: err}
			}
		}
	}

	if _, err := tx.Exec(`
		UPDATE service_bookings SET status=?, accepted_at=NOW(), updated_at=NOW() WHERE id=?
	`, models.BookingAccepted, booking.ID); err != nil {
		return 0, domain.InternalError{Err: err}
	}

	if err := tx.Commit(); err != nil {
		return 0, domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "booking", "settle",
		fmt.Sprintf("booking_id=%d amount=%s fee=%s", booking.ID, utils.FormatMoney(booking.AgreedPrice), utils.FormatMoney(fee)))
	return fee, nil
}

// Cancel is the customer-side exit from the lifecycle, allowed while the
// booking has not started yet.
func (s BookingService) Cancel(callerID, bookingID int64, reason string) (models.ServiceBooking, error) {
	booking, err := s.bookings().GetByID(bookingID)
	if err != nil {
		return models.ServiceBooking{}, err
	}
	if booking.CustomerID != callerID {
		return models.ServiceBooking{}, domain.ForbiddenError{Msg: "only the customer can cancel this booking"}
	}
	if !models.CanCancel(booking.Status) {
		return models.ServiceBooking{}, domain.ConflictError{
			Resource: "booking",
			Msg:      fmt.Sprintf("a %s booking can no longer be cancelled", booking.Status),
		}
	}

	ok, err := s.bookings().Cancel(bookingID, utils.TrimOrEmpty(reason), models.RoleCustomer)
	if err != nil {
		return models.ServiceBooking{}, domain.InternalError{Err: err}
	}
	if !ok {
		return models.ServiceBooking{}, domain.ConflictError{Resource: "booking", Msg: "booking changed concurrently, retry"}
	}
	utils.LogEvent(s.RequestID, "booking", "cancel", fmt.Sprintf("booking_id=%d", bookingID))

	s.notifyQuiet(models.Notification{
		UserID:           booking.TaskerID,
		Type:             "booking_cancelled",
		Title:            "Booking cancelled",
		Body:             fmt.Sprintf("The booking for %q was cancelled by the customer.", booking.ServiceTitle),
		RelatedBookingID: &booking.ID,
	})
	s.Publisher.Publish(events.KeyBookingStatus, events.BookingStatusEvent{
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		TaskerID:   booking.TaskerID,
		Status:     models.BookingCancelled,
	})

	return s.bookings().GetByID(bookingID)
}

// ConfirmCompletion records the customer's sign-off exactly once. As a safety
// net it settles a paid transaction if acceptance somehow never did.
func (s BookingService) ConfirmCompletion(callerID, bookingID int64) (models.ServiceBooking, error) {
	booking, err := s.bookings().GetByID(bookingID)
	if err != nil {
		return models.ServiceBooking{}, err
	}
	if booking.CustomerID != callerID {
		return models.ServiceBooking{}, domain.ForbiddenError{Msg: "only the customer can confirm this booking"}
	}

	ok, err := s.bookings().ConfirmCompletion(bookingID)
	if err != nil {
		return models.ServiceBooking{}, domain.InternalError{Err: err}
	}
	if !ok {
		return models.ServiceBooking{}, domain.ConflictError{Resource: "booking", Msg: "booking already confirmed"}
	}

	// Normally settlement happened at acceptance and this is a no-op.
	paid, err := s.transactions().PaidExistsForBooking(bookingID)
	if err == nil && !paid {
		if _, err := s.db().Exec(`
			INSERT INTO transactions
				(booking_id, payer_id, payee_id, amount, platform_fee, payment_status, payment_method, transaction_type, reference, created_at, paid_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
			ON DUPLICATE KEY UPDATE payment_status=VALUES(payment_status), paid_at=NOW()
		`, booking.ID, booking.CustomerID, booking.TaskerID, booking.AgreedPrice,
			utils.PlatformFee(booking.AgreedPrice, models.PlatformFeeRate),
			models.TxStatusPaid, booking.PaymentMethod, models.TxTypeBookingPayment, uuid.NewString()); err != nil {
			utils.LogEvent(s.RequestID, "booking", "confirm", "fallback settlement failed: "+err.Error())
		}
	}

	utils.LogEvent(s.RequestID, "booking", "confirm", fmt.Sprintf("booking_id=%d", bookingID))
	return s.bookings().GetByID(bookingID)
}

// GetByID returns the booking when the caller is one of its parties.
func (s BookingService) GetByID(callerID, bookingID int64) (models.ServiceBooking, error) {
	booking, err := s.bookings().GetByID(bookingID)
	if err != nil {
		return models.ServiceBooking{}, err
	}
	if booking.CustomerID != callerID && booking.TaskerID != callerID {
		return models.ServiceBooking{}, domain.ForbiddenError{Msg: "not a party to this booking"}
	}
	return booking, nil
}

func (s BookingService) ListForCustomer(customerID int64, status string, limit, offset int) ([]models.ServiceBooking, error) {
	return s.bookings().ListForParty("customer_id", customerID, status, limit, offset)
}

func (s BookingService) ListForTasker(taskerID int64, status string, limit, offset int) ([]models.ServiceBooking, error) {
	return s.bookings().ListForParty("tasker_id", taskerID, status, limit, offset)
}

// notifyQuiet inserts a notification; failures are logged, never propagated.
func (s BookingService) notifyQuiet(n models.Notification) {
	if err := s.notifications().Insert(n); err != nil {
		utils.LogEvent(s.RequestID, "booking", "notify", "notification insert failed: "+err.Error())
	}
}

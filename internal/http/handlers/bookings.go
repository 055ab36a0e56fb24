package handlers

import (
	"net/http"

	"taskerhub/internal/domain/models"
	"taskerhub/internal/http/middleware"
	"taskerhub/internal/services"

	"github.com/gin-gonic/gin"
)

func bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{
		Publisher: publisher,
		RequestID: middleware.GetRequestID(c),
	}
}

// POST /api/bookings
func CreateBooking(c *gin.Context) {
	var req models.BookingCreate
	if !BindJSONOrError(c, &req) {
		return
	}
	booking, err := bookingService(c).Create(middleware.UserID(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// GET /api/bookings/:id
func GetBooking(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		return
	}
	booking, err := bookingService(c).GetByID(middleware.UserID(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// GET /api/bookings/customer
func ListCustomerBookings(c *gin.Context) {
	limit, offset := paging(c)
	bookings, err := bookingService(c).ListForCustomer(middleware.UserID(c), c.Query("status"), limit, offset)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GET /api/bookings/tasker
func ListTaskerBookings(c *gin.Context) {
	limit, offset := paging(c)
	bookings, err := bookingService(c).ListForTasker(middleware.UserID(c), c.Query("status"), limit, offset)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// PUT /api/bookings/:id/status (tasker only)
func UpdateBookingStatus(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		return
	}
	var req updateStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	booking, err := bookingService(c).UpdateStatus(middleware.UserID(c), middleware.GetLocale(c), id, req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

// POST /api/bookings/:id/cancel (customer only)
func CancelBooking(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		return
	}
	var req cancelBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	booking, err := bookingService(c).Cancel(middleware.UserID(c), id, req.Reason)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

// POST /api/bookings/:id/confirm (customer only)
func ConfirmBookingCompletion(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		return
	}
	booking, err := bookingService(c).ConfirmCompletion(middleware.UserID(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

package handlers

import (
	"net/http"
	"strconv"

	"taskerhub/internal/http/middleware"
	"taskerhub/internal/services"

	"github.com/gin-gonic/gin"
)

func messageService(c *gin.Context) services.MessageService {
	return services.MessageService{RequestID: middleware.GetRequestID(c)}
}

type sendMessageRequest struct {
	RecipientID int64  `json:"recipient_id"`
	BookingID   *int64 `json:"booking_id,omitempty"`
	JobID       *int64 `json:"job_id,omitempty"`
	Body        string `json:"body"`
}

// POST /api/messages
func SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	id, err := messageService(c).Send(middleware.UserID(c), req.RecipientID, req.BookingID, req.JobID, req.Body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message_id": id})
}

// GET /api/messages/conversations
func ListConversations(c *gin.Context) {
	conversations, err := messageService(c).Inbox(middleware.UserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// GET /api/messages/with/:id?before=<message_id>&limit=30
func GetConversation(c *gin.Context) {
	otherID := pathID(c, "id")
	if otherID == 0 {
		return
	}
	before, _ := strconv.ParseInt(c.DefaultQuery("before", "0"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))

	messages, err := messageService(c).Conversation(middleware.UserID(c), otherID, before, limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// POST /api/messages/with/:id/read
func MarkConversationRead(c *gin.Context) {
	otherID := pathID(c, "id")
	if otherID == 0 {
		return
	}
	count, err := messageService(c).MarkRead(middleware.UserID(c), otherID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked_read": count})
}

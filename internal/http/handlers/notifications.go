package handlers

import (
	"net/http"

	"taskerhub/internal/http/middleware"
	"taskerhub/internal/services"

	"github.com/gin-gonic/gin"
)

func notificationService(c *gin.Context) services.NotificationService {
	return services.NotificationService{RequestID: middleware.GetRequestID(c)}
}

// GET /api/notifications?unread=true
func ListNotifications(c *gin.Context) {
	limit, offset := paging(c)
	unreadOnly := c.Query("unread") == "true"
	items, unread, err := notificationService(c).List(middleware.UserID(c), unreadOnly, limit, offset)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items, "unread_count": unread})
}

// PUT /api/notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		return
	}
	if err := notificationService(c).MarkRead(middleware.UserID(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PUT /api/notifications/read-all
func MarkAllNotificationsRead(c *gin.Context) {
	count, err := notificationService(c).MarkAllRead(middleware.UserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked_read": count})
}

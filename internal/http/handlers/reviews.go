package handlers

import (
	"net/http"

	"taskerhub/internal/domain/models"
	"taskerhub/internal/http/middleware"
	"taskerhub/internal/services"

	"github.com/gin-gonic/gin"
)

func reviewService(c *gin.Context) services.ReviewService {
	return services.ReviewService{RequestID: middleware.GetRequestID(c)}
}

// POST /api/reviews
func CreateReview(c *gin.Context) {
	var req models.ReviewCreate
	if !BindJSONOrError(c, &req) {
		return
	}
	review, err := reviewService(c).Create(middleware.UserID(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

type replyRequest struct {
	Reply string `json:"reply"`
}

// POST /api/reviews/:id/reply
func ReplyToReview(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		return
	}
	var req replyRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	review, err := reviewService(c).Reply(middleware.UserID(c), id, req.Reply)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}

// GET /api/taskers/:id/reviews
func ListTaskerReviews(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		return
	}
	limit, offset := paging(c)
	reviews, summary, err := reviewService(c).ListForTasker(id, limit, offset)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "summary": summary})
}

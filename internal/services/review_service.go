package services

import (
	"database/sql"
	"fmt"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain"
	"taskerhub/internal/domain/models"
	"taskerhub/internal/repositories"
	"taskerhub/internal/utils"
)

// ReviewService handles ratings tied to completed engagements.
type ReviewService struct {
	DB               *sql.DB
	ReviewRepo       repositories.ReviewRepo
	BookingRepo      repositories.BookingRepo
	JobRepo          repositories.JobRepo
	UserRepo         repositories.UserRepo
	NotificationRepo repositories.NotificationRepo
	RequestID        string
}

func (s ReviewService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s ReviewService) reviews() repositories.ReviewRepo {
	if s.ReviewRepo.DB != nil {
		return s.ReviewRepo
	}
	return repositories.ReviewRepo{DB: s.db()}
}

func (s ReviewService) bookings() repositories.BookingRepo {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepo{DB: s.db()}
}

func (s ReviewService) jobs() repositories.JobRepo {
	if s.JobRepo.DB != nil {
		return s.JobRepo
	}
	return repositories.JobRepo{DB: s.db()}
}

func (s ReviewService) users() repositories.UserRepo {
	if s.UserRepo.DB != nil {
		return s.UserRepo
	}
	return repositories.UserRepo{DB: s.db()}
}

func (s ReviewService) notificationsRepo() repositories.NotificationRepo {
	if s.NotificationRepo.DB != nil {
		return s.NotificationRepo
	}
	return repositories.NotificationRepo{DB: s.db()}
}

// Create posts a review against exactly one of a booking or a job.
func (s ReviewService) Create(reviewerID int64, in models.ReviewCreate) (models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return models.Review{}, domain.ValidationError{Field: "rating", Msg: "must be between 1 and 5"}
	}
	if (in.BookingID == nil) == (in.JobID == nil) {
		return models.Review{}, domain.ValidationError{Msg: "exactly one of booking_id or job_id is required"}
	}

	var revieweeID int64
	switch {
	case in.BookingID != nil:
		booking, err := s.bookings().GetByID(*in.BookingID)
		if err != nil {
			return models.Review{}, err
		}
		if booking.CustomerID != reviewerID && booking.TaskerID != reviewerID {
			return models.Review{}, domain.ForbiddenError{Msg: "not a party to this booking"}
		}
		if booking.Status != models.BookingCompleted {
			return models.Review{}, domain.ConflictError{Resource: "booking", Msg: "only completed bookings can be reviewed"}
		}
		exists, err := s.reviews().ExistsForBooking(*in.BookingID, reviewerID)
		if err != nil {
			return models.Review{}, domain.InternalError{Err: err}
		}
		if exists {
			return models.Review{}, domain.ConflictError{Resource: "review", Msg: "booking already reviewed"}
		}
		if booking.CustomerID == reviewerID {
			revieweeID = booking.TaskerID
		} else {
			revieweeID = booking.CustomerID
		}
	default:
		job, err := s.jobs().GetByID(*in.JobID)
		if err != nil {
			return models.Review{}, err
		}
		if job.AssignedTaskerID == nil {
			return models.Review{}, domain.ConflictError{Resource: "job", Msg: "job has no assigned tasker"}
		}
		if job.CustomerID != reviewerID && *job.AssignedTaskerID != reviewerID {
			return models.Review{}, domain.ForbiddenError{Msg: "not a party to this job"}
		}
		if job.Status != models.JobCompleted {
			return models.Review{}, domain.ConflictError{Resource: "job", Msg: "only completed jobs can be reviewed"}
		}
		exists, err := s.reviews().ExistsForJob(*in.JobID, reviewerID)
		if err != nil {
			return models.Review{}, domain.InternalError{Err: err}
		}
		if exists {
			return models.Review{}, domain.ConflictError{Resource: "review", Msg: "job already reviewed"}
		}
		if job.CustomerID == reviewerID {
			revieweeID = *job.AssignedTaskerID
		} else {
			revieweeID = job.CustomerID
		}
	}

	id, err := s.reviews().Create(models.Review{
		ReviewerID: reviewerID,
		RevieweeID: revieweeID,
		BookingID:  in.BookingID,
		JobID:      in.JobID,
		Rating:     in.Rating,
		Comment:    utils.TrimOrEmpty(in.Comment),
	})
	if err != nil {
		return models.Review{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "review", "create", fmt.Sprintf("review_id=%d reviewee_id=%d", id, revieweeID))

	if err := s.notificationsRepo().Insert(models.Notification{
		UserID: revieweeID,
		Type:   "review_received",
		Title:  "New review",
		Body:   fmt.Sprintf("You received a %d-star review.", in.Rating),
	}); err != nil {
		utils.LogEvent(s.RequestID, "review", "notify", "notification insert failed: "+err.Error())
	}

	return s.reviews().GetByID(id)
}

// Reply lets the reviewee answer a review once.
func (s ReviewService) Reply(callerID, reviewID int64, reply string) (models.Review, error) {
	reply = utils.TrimOrEmpty(reply)
	if reply == "" {
		return models.Review{}, domain.ValidationError{Field: "reply", Msg: "required"}
	}
	review, err := s.reviews().GetByID(reviewID)
	if err != nil {
		return models.Review{}, err
	}
	if review.RevieweeID != callerID {
		return models.Review{}, domain.ForbiddenError{Msg: "only the reviewee can reply"}
	}

	ok, err := s.reviews().SetReply(reviewID, reply)
	if err != nil {
		return models.Review{}, domain.InternalError{Err: err}
	}
	if !ok {
		return models.Review{}, domain.ConflictError{Resource: "review", Msg: "review already has a reply"}
	}
	return s.reviews().GetByID(reviewID)
}

// ListForTasker returns a tasker's reviews plus the aggregate summary.
func (s ReviewService) ListForTasker(taskerID int64, limit, offset int) ([]models.Review, models.ReviewSummary, error) {
	reviews, err := s.reviews().ListForReviewee(taskerID, limit, offset)
	if err != nil {
		return nil, models.ReviewSummary{}, domain.InternalError{Err: err}
	}
	stats, err := s.users().GetStats(taskerID)
	if err != nil {
		return nil, models.ReviewSummary{}, domain.InternalError{Err: err}
	}
	return reviews, models.ReviewSummary{
		TaskerRating: stats.TaskerRating,
		TotalReviews: stats.TotalReviews,
	}, nil
}

package handlers

import (
	"net/http"

	"taskerhub/internal/domain/models"
	"taskerhub/internal/http/middleware"
	"taskerhub/internal/services"

	"github.com/gin-gonic/gin"
)

func jobService(c *gin.Context) services.JobService {
	return services.JobService{
		Publisher: publisher,
		RequestID: middleware.GetRequestID(c),
	}
}

// POST /api/jobs (customer only)
func CreateJob(c *gin.Context) {
	var req models.JobCreate
	if !BindJSONOrError(c, &req) {
		return
	}
	job, err := jobService(c).Create(middleware.UserID(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"job": job})
}

// GET /api/jobs (open jobs, tasker browsing)
func ListOpenJobs(c *gin.Context) {
	limit, offset := paging(c)
	jobs, err := jobService(c).ListOpen(c.Query("category"), limit, offset)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// GET /api/jobs/mine (customer only)
func ListMyJobs(c *gin.Context) {
	limit, offset := paging(c)
	jobs, err := jobService(c).ListForCustomer(middleware.UserID(c), limit, offset)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// GET /api/jobs/:id
func GetJob(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		return
	}
	job, err := jobService(c).GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

// POST /api/jobs/:id/cancel (customer only)
func CancelJob(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		return
	}
	if err := jobService(c).Cancel(middleware.UserID(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/jobs/:id/applications (tasker only)
func ApplyToJob(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		return
	}
	var req models.ApplicationCreate
	if !BindJSONOrError(c, &req) {
		return
	}
	req.JobID = id
	app, err := jobService(c).Apply(middleware.UserID(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"application": app})
}

// GET /api/jobs/:id/applications (customer only)
func ListJobApplications(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		return
	}
	apps, err := jobService(c).ListApplications(middleware.UserID(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// GET /api/applications/mine (tasker only)
func ListMyApplications(c *gin.Context) {
	limit, offset := paging(c)
	apps, err := jobService(c).ListMyApplications(middleware.UserID(c), limit, offset)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// PUT /api/applications/:id/accept (customer only)
func AcceptJobApplication(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		return
	}
	app, err := jobService(c).Accept(middleware.UserID(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "application": app})
}

// PUT /api/applications/:id/reject (customer only)
func RejectJobApplication(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		return
	}
	app, err := jobService(c).Reject(middleware.UserID(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "application": app})
}

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
)

// JobService covers customer job postings and tasker applications, including
// the accept cascade that rejects all competing applications atomically.
type JobService struct {
	DB               *sql.DB
	JobRepo          repositories.JobRepo
	ApplicationRepo  repositories.ApplicationRepo
	NotificationRepo repositories.NotificationRepo
	Publisher        *events.Publisher
	RequestID        string
}

func (s JobService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s JobService) jobs() repositories.JobRepo {
	if s.JobRepo.DB != nil {
		return s.JobRepo
	}
	return repositories.JobRepo{DB: s.db()}
}

func (s JobService) applications() repositories.ApplicationRepo {
	if s.ApplicationRepo.DB != nil {
		return s.ApplicationRepo
	}
	return repositories.ApplicationRepo{DB: s.db()}
}

func (s JobService) notifications() repositories.NotificationRepo {
	if s.NotificationRepo.DB != nil {
		return s.NotificationRepo
	}
	return repositories.NotificationRepo{DB: s.db()}
}

func (s JobService) Create(customerID int64, in models.JobCreate) (models.Job, error) {
	title := utils.NormalizeSpace(in.Title)
	if title == "" {
		return models.Job{}, domain.ValidationError{Field: "title", Msg: "required"}
	}
	if utils.TrimOrEmpty(in.Category) == "" {
		return models.Job{}, domain.ValidationError{Field: "category", Msg: "required"}
	}
	if in.Budget <= 0 {
		return models.Job{}, domain.ValidationError{Field: "budget", Msg: "must be positive"}
	}
	currency := utils.TrimOrEmpty(in.Currency)
	if currency == "" {
		currency = "EUR"
	}

	id, err := s.jobs().Create(models.Job{
		CustomerID:    customerID,
		Title:         title,
		Description:   utils.TrimOrEmpty(in.Description),
		Category:      utils.TrimOrEmpty(in.Category),
		Budget:        in.Budget,
		Currency:      currency,
		Location:      utils.TrimOrEmpty(in.Location),
		ScheduledDate: utils.TrimOrEmpty(in.ScheduledDate),
	})
	if err != nil {
		return models.Job{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "job", "create", fmt.Sprintf("job_id=%d", id))
	return s.jobs().GetByID(id)
}

func (s JobService) ListOpen(category string, limit, offset int) ([]models.Job, error) {
	return s.jobs().ListOpen(category, limit, offset)
}

func (s JobService) ListForCustomer(customerID int64, limit, offset int) ([]models.Job, error) {
	return s.jobs().ListForCustomer(customerID, limit, offset)
}

func (s JobService) GetByID(id int64) (models.Job, error) {
	return s.jobs().GetByID(id)
}

// Cancel closes an open job; assigned or finished jobs stay untouched.
func (s JobService) Cancel(customerID, jobID int64) error {
	job, err := s.jobs().GetByID(jobID)
	if err != nil {
		return err
	}
	if job.CustomerID != customerID {
		return domain.ForbiddenError{Msg: "only the job owner can cancel it"}
	}
	ok, err := s.jobs().CancelOpen(jobID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if !ok {
		return domain.ConflictError{Resource: "job", Msg: "job is no longer open"}
	}
	utils.LogEvent(s.RequestID, "job", "cancel", fmt.Sprintf("job_id=%d", jobID))
	return nil
}

// Apply submits a tasker's bid on an open job.
func (s JobService) Apply(taskerID int64, in models.ApplicationCreate) (models.JobApplication, error) {
	if in.ProposedPrice <= 0 {
		return models.JobApplication{}, domain.ValidationError{Field: "proposed_price", Msg: "must be positive"}
	}
	job, err := s.jobs().GetByID(in.JobID)
	if err != nil {
		return models.JobApplication{}, err
	}
	if job.Status != models.JobOpen || job.AssignedTaskerID != nil {
		return models.JobApplication{}, domain.ConflictError{Resource: "job", Msg: "job is not open for applications"}
	}
	if job.CustomerID == taskerID {
		return models.JobApplication{}, domain.ValidationError{Field: "job_id", Msg: "cannot apply to your own job"}
	}

	applied, err := s.applications().HasApplied(in.JobID, taskerID)
	if err != nil {
		return models.JobApplication{}, domain.InternalError{Err: err}
	}
	if applied {
		return models.JobApplication{}, domain.ConflictError{Resource: "application", Msg: "already applied to this job"}
	}

	id, err := s.applications().Create(models.JobApplication{
		JobID:             in.JobID,
		TaskerID:          taskerID,
		ProposedPrice:     in.ProposedPrice,
		EstimatedDuration: utils.TrimOrEmpty(in.EstimatedDuration),
		Message:           utils.TrimOrEmpty(in.Message),
	})
	if err != nil {
		return models.JobApplication{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "job", "apply", fmt.Sprintf("job_id=%d application_id=%d", in.JobID, id))

	s.notifyQuiet(models.Notification{
		UserID:       job.CustomerID,
		Type:         "job_application",
		Title:        "New application",
		Body:         fmt.Sprintf("A tasker applied to %q.", job.Title),
		RelatedJobID: &job.ID,
	})

	return s.applications().GetByID(id)
}

// ListApplications returns a job's applications to its owner. The effective
// status override for assigned jobs happens in the repository read path.
func (s JobService) ListApplications(callerID, jobID int64) ([]models.JobApplication, error) {
	job, err := s.jobs().GetByID(jobID)
	if err != nil {
		return nil, err
	}
	if job.CustomerID != callerID {
		return nil, domain.ForbiddenError{Msg: "only the job owner can list applications"}
	}
	return s.applications().ListByJob(jobID, job.AssignedTaskerID != nil)
}

func (s JobService) ListMyApplications(taskerID int64, limit, offset int) ([]models.JobApplication, error) {
	return s.applications().ListForTasker(taskerID, limit, offset)
}

// Accept assigns the applicant to the job and rejects every other pending
// application in one database transaction.
func (s JobService) Accept(customerID, applicationID int64) (models.JobApplication, error) {
	app, err := s.applications().GetByID(applicationID)
	if err != nil {
		return models.JobApplication{}, err
	}
	job, err := s.jobs().GetByID(app.JobID)
	if err != nil {
		return models.JobApplication{}, err
	}
	if job.CustomerID != customerID {
		return models.JobApplication{}, domain.ForbiddenError{Msg: "only the job owner can accept applications"}
	}
	if app.Status != models.ApplicationPending {
		return models.JobApplication{}, domain.ConflictError{Resource: "application", Msg: "application is no longer pending"}
	}

	rejected, err := s.applications().Accept(applicationID, job.ID, app.TaskerID)
	if err != nil {
		return models.JobApplication{}, err
	}
	utils.LogEvent(s.RequestID, "job", "accept_application",
		fmt.Sprintf("job_id=%d application_id=%d rejected=%d", job.ID, applicationID, len(rejected)))

	s.notifyQuiet(models.Notification{
		UserID:       app.TaskerID,
		Type:         "application_accepted",
		Title:        "Application accepted",
		Body:         fmt.Sprintf("You were selected for %q.", job.Title),
		RelatedJobID: &job.ID,
	})
	for _, taskerID := range rejected {
		s.notifyQuiet(models.Notification{
			UserID:       taskerID,
			Type:         "application_rejected",
			Title:        "Application not selected",
			Body:         fmt.Sprintf("The customer chose another tasker for %q.", job.Title),
			RelatedJobID: &job.ID,
		})
	}
	s.Publisher.Publish(events.KeyApplicationDecided, events.ApplicationDecidedEvent{
		JobID:         job.ID,
		ApplicationID: applicationID,
		TaskerID:      app.TaskerID,
		Decision:      models.ApplicationAccepted,
	})

	return s.applications().GetByID(applicationID)
}

// Reject declines a single pending application.
func (s JobService) Reject(customerID, applicationID int64) (models.JobApplication, error) {
	app, err := s.applications().GetByID(applicationID)
	if err != nil {
		return models.JobApplication{}, err
	}
	job, err := s.jobs().GetByID(app.JobID)
	if err != nil {
		return models.JobApplication{}, err
	}
	if job.CustomerID != customerID {
		return models.JobApplication{}, domain.ForbiddenError{Msg: "only the job owner can reject applications"}
	}

	ok, err := s.applications().Reject(applicationID)
	if err != nil {
		return models.JobApplication{}, domain.InternalError{Err: err}
	}
	if !ok {
		return models.JobApplication{}, domain.ConflictError{Resource: "application", Msg: "application is no longer pending"}
	}
	utils.LogEvent(s.RequestID, "job", "reject_application",
		fmt.Sprintf("job_id=%d application_id=%d", job.ID, applicationID))

	s.notifyQuiet(models.Notification{
		UserID:       app.TaskerID,
		Type:         "application_rejected",
		Title:        "Application not selected",
		Body:         fmt.Sprintf("Your application to %q was declined.", job.Title),
		RelatedJobID: &job.ID,
	})
	s.Publisher.Publish(events.KeyApplicationDecided, events.ApplicationDecidedEvent{
		JobID:         job.ID,
		ApplicationID: applicationID,
		TaskerID:      app.TaskerID,
		Decision:      models.ApplicationRejected,
	})

	return s.applications().GetByID(applicationID)
}

func (s JobService) notifyQuiet(n models.Notification) {
	if err := s.notifications().Insert(n); err != nil {
		utils.LogEvent(s.RequestID, "job", "notify", "notification insert failed: "+err.Error())
	}
}

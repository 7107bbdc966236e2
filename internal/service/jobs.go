package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/evaselfe/entrepedia-7/internal/domain"
	"github.com/evaselfe/entrepedia-7/internal/repository"
)

// JobService exposes the marketplace operations over jobs and applications.
type JobService struct {
	jobs   repository.JobRepository
	apps   repository.ApplicationRepository
	logger *zap.Logger
}

func NewJobService(jobs repository.JobRepository, apps repository.ApplicationRepository, logger *zap.Logger) *JobService {
	return &JobService{jobs: jobs, apps: apps, logger: logger}
}

// JobView is the read model of a job. EffectiveStatus folds expiry and the
// application cap into the stored status at read time.
type JobView struct {
	ID               uuid.UUID        `json:"id"`
	CreatorID        uuid.UUID        `json:"creator_id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Conditions       string           `json:"conditions"`
	Location         string           `json:"location"`
	Status           domain.JobStatus `json:"status"`
	EffectiveStatus  domain.JobStatus `json:"effective_status"`
	ExpiresAt        time.Time        `json:"expires_at"`
	MaxApplications  int              `json:"max_applications"`
	ApplicationCount int              `json:"application_count"`
	CreatedAt        time.Time        `json:"created_at"`
}

// ApplicationView is the read model of a job application.
type ApplicationView struct {
	ID          uuid.UUID `json:"id"`
	JobID       uuid.UUID `json:"job_id"`
	ApplicantID uuid.UUID `json:"applicant_id"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

// JobDetail is a job together with its applications.
type JobDetail struct {
	JobView
	Applications []ApplicationView `json:"applications"`
}

// CreateJobInput carries the fields of a new posting.
type CreateJobInput struct {
	CreatorID       uuid.UUID
	Title           string
	Description     string
	Conditions      string
	Location        string
	ExpiresAt       time.Time
	MaxApplications int
}

// ApplyInput carries one application attempt.
type ApplyInput struct {
	JobID       uuid.UUID
	ApplicantID uuid.UUID
	Message     string
}

// ListJobs returns every posting with its derived status.
func (s *JobService) ListJobs(ctx context.Context) ([]JobView, error) {
	ctx, span := tracer.Start(ctx, "JobService.ListJobs")
	defer span.End()

	jobs, err := s.jobs.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	now := time.Now()
	views := make([]JobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, newJobView(job, now))
	}
	return views, nil
}

// GetJob returns one posting with its applications.
func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*JobDetail, error) {
	ctx, span := tracer.Start(ctx, "JobService.GetJob")
	defer span.End()

	job, err := s.getJob(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	apps, err := s.apps.ListByJob(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list applications: %w", err)
	}

	detail := &JobDetail{
		JobView:      newJobView(job, time.Now()),
		Applications: make([]ApplicationView, 0, len(apps)),
	}
	for _, app := range apps {
		detail.Applications = append(detail.Applications, newApplicationView(app))
	}
	return detail, nil
}

// CreateJob validates and stores a new posting. Postings start open.
func (s *JobService) CreateJob(ctx context.Context, input CreateJobInput) (*JobView, error) {
	ctx, span := tracer.Start(ctx, "JobService.CreateJob")
	defer span.End()

	if strings.TrimSpace(input.Title) == "" {
		return nil, newAPIError("invalid_request", "Title is required.", http.StatusBadRequest)
	}
	if input.CreatorID == uuid.Nil {
		return nil, newAPIError("invalid_request", "Creator is required.", http.StatusBadRequest)
	}
	if !input.ExpiresAt.After(time.Now()) {
		return nil, newAPIError("invalid_request", "Expiry must be in the future.", http.StatusBadRequest)
	}
	if input.MaxApplications < 0 {
		return nil, newAPIError("invalid_request", "Application cap cannot be negative.", http.StatusBadRequest)
	}

	job := domain.Job{
		ID:              uuid.New(),
		CreatorID:       input.CreatorID,
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		Conditions:      input.Conditions,
		Location:        input.Location,
		Status:          domain.JobStatusOpen,
		ExpiresAt:       input.ExpiresAt,
		MaxApplications: input.MaxApplications,
	}

	created, err := s.jobs.Create(ctx, job)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.audit("jobs.created", "job_id", created.ID.String(), "creator_id", created.CreatorID.String())
	view := newJobView(created, time.Now())
	return &view, nil
}

// Apply submits an application. The open/expiry/cap check here is advisory;
// the table store's uniqueness constraint is what actually prevents the
// duplicate race.
func (s *JobService) Apply(ctx context.Context, input ApplyInput) (*ApplicationView, error) {
	ctx, span := tracer.Start(ctx, "JobService.Apply")
	defer span.End()

	if input.ApplicantID == uuid.Nil {
		return nil, newAPIError("invalid_request", "Applicant is required.", http.StatusBadRequest)
	}

	job, err := s.getJob(ctx, input.JobID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !job.AcceptingApplications(time.Now()) {
		return nil, newAPIError("job_closed", "This job is no longer accepting applications.", http.StatusBadRequest)
	}

	app := domain.JobApplication{
		ID:          uuid.New(),
		JobID:       input.JobID,
		ApplicantID: input.ApplicantID,
		Message:     input.Message,
	}
	created, err := s.apps.Create(ctx, app)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateApplication) {
			return nil, newAPIError("duplicate_application", "You have already applied to this job.", http.StatusConflict)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("create application: %w", err)
	}

	// The stored count is advisory; readers derive closure from it but the
	// increment is a separate statement from the insert.
	if err := s.jobs.IncrementApplicationCount(ctx, input.JobID); err != nil {
		s.logger.Warn("application count increment failed",
			zap.String("job_id", input.JobID.String()), zap.Error(err))
	}

	s.audit("jobs.application_created", "job_id", input.JobID.String(), "applicant_id", input.ApplicantID.String())
	view := newApplicationView(created)
	return &view, nil
}

// UpdateStatus lets the creator close or reopen their posting.
func (s *JobService) UpdateStatus(ctx context.Context, jobID, requesterID uuid.UUID, status domain.JobStatus) (*JobView, error) {
	ctx, span := tracer.Start(ctx, "JobService.UpdateStatus")
	defer span.End()

	if status != domain.JobStatusOpen && status != domain.JobStatusClosed {
		return nil, newAPIError("invalid_request", "Status must be open or closed.", http.StatusBadRequest)
	}

	job, err := s.getJob(ctx, jobID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if job.CreatorID != requesterID {
		return nil, newAPIError("forbidden", "Only the creator may change a job's status.", http.StatusForbidden)
	}

	if err := s.jobs.UpdateStatus(ctx, jobID, status); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update job status: %w", err)
	}

	s.audit("jobs.status_updated", "job_id", jobID.String(), "status", string(status))
	job.Status = status
	view := newJobView(job, time.Now())
	return &view, nil
}

func (s *JobService) getJob(ctx context.Context, id uuid.UUID) (domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, newAPIError("not_found", "Job not found.", http.StatusNotFound)
		}
		return domain.Job{}, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

func (s *JobService) audit(event string, kv ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Sugar().Infow("audit: "+event, kv...)
}

func newJobView(job domain.Job, now time.Time) JobView {
	return JobView{
		ID:               job.ID,
		CreatorID:        job.CreatorID,
		Title:            job.Title,
		Description:      job.Description,
		Conditions:       job.Conditions,
		Location:         job.Location,
		Status:           job.Status,
		EffectiveStatus:  job.EffectiveStatus(now),
		ExpiresAt:        job.ExpiresAt,
		MaxApplications:  job.MaxApplications,
		ApplicationCount: job.ApplicationCount,
		CreatedAt:        job.CreatedAt,
	}
}

func newApplicationView(app domain.JobApplication) ApplicationView {
	return ApplicationView{
		ID:          app.ID,
		JobID:       app.JobID,
		ApplicantID: app.ApplicantID,
		Message:     app.Message,
		CreatedAt:   app.CreatedAt,
	}
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/evaselfe/entrepedia-7/internal/domain"
	"github.com/evaselfe/entrepedia-7/internal/repository"
	"github.com/evaselfe/entrepedia-7/internal/service"
)

func newJobFixture(t *testing.T) (*service.JobService, *memoryJobRepo, *memoryApplicationRepo) {
	t.Helper()
	jobs := &memoryJobRepo{jobs: map[uuid.UUID]domain.Job{}}
	apps := &memoryApplicationRepo{}
	return service.NewJobService(jobs, apps, zap.NewNop()), jobs, apps
}

func seedJob(repo *memoryJobRepo, job domain.Job) domain.Job {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = domain.JobStatusOpen
	}
	job.CreatedAt = time.Now()
	repo.jobs[job.ID] = job
	repo.order = append(repo.order, job.ID)
	return job
}

func TestApplyTwiceIsDuplicateConflict(t *testing.T) {
	svc, jobs, _ := newJobFixture(t)
	job := seedJob(jobs, domain.Job{CreatorID: uuid.New(), Title: "Farm hand", ExpiresAt: time.Now().Add(time.Hour)})
	applicant := uuid.New()

	_, err := svc.Apply(context.Background(), service.ApplyInput{JobID: job.ID, ApplicantID: applicant, Message: "hello"})
	require.NoError(t, err)
	require.Equal(t, 1, jobs.jobs[job.ID].ApplicationCount)

	_, err = svc.Apply(context.Background(), service.ApplyInput{JobID: job.ID, ApplicantID: applicant})
	var apiErr *service.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 409, apiErr.Status)
	require.Equal(t, "duplicate_application", apiErr.Code)
	require.Equal(t, 1, jobs.jobs[job.ID].ApplicationCount, "failed insert must not bump the count")
}

func TestApplyToExpiredJobRejected(t *testing.T) {
	svc, jobs, _ := newJobFixture(t)
	job := seedJob(jobs, domain.Job{CreatorID: uuid.New(), Title: "Old gig", ExpiresAt: time.Now().Add(-time.Hour)})

	_, err := svc.Apply(context.Background(), service.ApplyInput{JobID: job.ID, ApplicantID: uuid.New()})
	var apiErr *service.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "job_closed", apiErr.Code)
}

func TestApplyAtCapRejected(t *testing.T) {
	svc, jobs, _ := newJobFixture(t)
	job := seedJob(jobs, domain.Job{
		CreatorID:        uuid.New(),
		Title:            "Limited",
		ExpiresAt:        time.Now().Add(time.Hour),
		MaxApplications:  2,
		ApplicationCount: 2,
	})

	_, err := svc.Apply(context.Background(), service.ApplyInput{JobID: job.ID, ApplicantID: uuid.New()})
	var apiErr *service.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "job_closed", apiErr.Code)
}

func TestExpiredJobRendersClosed(t *testing.T) {
	svc, jobs, _ := newJobFixture(t)
	seedJob(jobs, domain.Job{CreatorID: uuid.New(), Title: "Stale", Status: domain.JobStatusOpen, ExpiresAt: time.Now().Add(-time.Minute)})

	views, err := svc.ListJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, domain.JobStatusOpen, views[0].Status, "stored status is untouched")
	require.Equal(t, domain.JobStatusClosed, views[0].EffectiveStatus)
}

func TestUpdateStatusCreatorOnly(t *testing.T) {
	svc, jobs, _ := newJobFixture(t)
	creator := uuid.New()
	job := seedJob(jobs, domain.Job{CreatorID: creator, Title: "Mine", ExpiresAt: time.Now().Add(time.Hour)})

	_, err := svc.UpdateStatus(context.Background(), job.ID, uuid.New(), domain.JobStatusClosed)
	var apiErr *service.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 403, apiErr.Status)

	view, err := svc.UpdateStatus(context.Background(), job.ID, creator, domain.JobStatusClosed)
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusClosed, view.Status)
	require.Equal(t, domain.JobStatusClosed, jobs.jobs[job.ID].Status)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc, jobs, _ := newJobFixture(t)
	creator := uuid.New()
	job := seedJob(jobs, domain.Job{CreatorID: creator, Title: "Mine", ExpiresAt: time.Now().Add(time.Hour)})

	_, err := svc.UpdateStatus(context.Background(), job.ID, creator, domain.JobStatus("paused"))
	var apiErr *service.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 400, apiErr.Status)
}

func TestGetJobNotFound(t *testing.T) {
	svc, _, _ := newJobFixture(t)

	_, err := svc.GetJob(context.Background(), uuid.New())
	var apiErr *service.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 404, apiErr.Status)
}

func TestGetJobIncludesApplications(t *testing.T) {
	svc, jobs, _ := newJobFixture(t)
	job := seedJob(jobs, domain.Job{CreatorID: uuid.New(), Title: "Busy", ExpiresAt: time.Now().Add(time.Hour)})

	for i := 0; i < 3; i++ {
		_, err := svc.Apply(context.Background(), service.ApplyInput{JobID: job.ID, ApplicantID: uuid.New()})
		require.NoError(t, err)
	}

	detail, err := svc.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	require.Len(t, detail.Applications, 3)
	require.Equal(t, 3, detail.ApplicationCount)
}

func TestCreateJobValidation(t *testing.T) {
	svc, _, _ := newJobFixture(t)

	cases := []struct {
		name  string
		input service.CreateJobInput
	}{
		{"empty title", service.CreateJobInput{CreatorID: uuid.New(), Title: "  ", ExpiresAt: time.Now().Add(time.Hour)}},
		{"missing creator", service.CreateJobInput{Title: "Job", ExpiresAt: time.Now().Add(time.Hour)}},
		{"past expiry", service.CreateJobInput{CreatorID: uuid.New(), Title: "Job", ExpiresAt: time.Now().Add(-time.Hour)}},
		{"negative cap", service.CreateJobInput{CreatorID: uuid.New(), Title: "Job", ExpiresAt: time.Now().Add(time.Hour), MaxApplications: -1}},
	}
	for _, tc := range cases {
		_, err := svc.CreateJob(context.Background(), tc.input)
		var apiErr *service.APIError
		require.ErrorAs(t, err, &apiErr, tc.name)
		require.Equal(t, 400, apiErr.Status, tc.name)
	}
}

func TestCreateJobStartsOpen(t *testing.T) {
	svc, _, _ := newJobFixture(t)

	view, err := svc.CreateJob(context.Background(), service.CreateJobInput{
		CreatorID: uuid.New(),
		Title:     "Fresh",
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusOpen, view.Status)
	require.Equal(t, domain.JobStatusOpen, view.EffectiveStatus)
	require.NotEqual(t, uuid.Nil, view.ID)
}

// In-memory fakes.

type memoryJobRepo struct {
	jobs  map[uuid.UUID]domain.Job
	order []uuid.UUID
}

type memoryApplicationRepo struct {
	apps []domain.JobApplication
}

var (
	_ repository.JobRepository         = (*memoryJobRepo)(nil)
	_ repository.ApplicationRepository = (*memoryApplicationRepo)(nil)
)

func (m *memoryJobRepo) List(ctx context.Context) ([]domain.Job, error) {
	jobs := make([]domain.Job, 0, len(m.order))
	for _, id := range m.order {
		jobs = append(jobs, m.jobs[id])
	}
	return jobs, nil
}

func (m *memoryJobRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Job, error) {
	job, ok := m.jobs[id]
	if !ok {
		return domain.Job{}, pgx.ErrNoRows
	}
	return job, nil
}

func (m *memoryJobRepo) Create(ctx context.Context, job domain.Job) (domain.Job, error) {
	job.CreatedAt = time.Now()
	m.jobs[job.ID] = job
	m.order = append(m.order, job.ID)
	return job, nil
}

func (m *memoryJobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus) error {
	job, ok := m.jobs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	job.Status = status
	m.jobs[id] = job
	return nil
}

func (m *memoryJobRepo) IncrementApplicationCount(ctx context.Context, id uuid.UUID) error {
	job, ok := m.jobs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	job.ApplicationCount++
	m.jobs[id] = job
	return nil
}

func (m *memoryApplicationRepo) ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.JobApplication, error) {
	var apps []domain.JobApplication
	for _, app := range m.apps {
		if app.JobID == jobID {
			apps = append(apps, app)
		}
	}
	return apps, nil
}

func (m *memoryApplicationRepo) Create(ctx context.Context, app domain.JobApplication) (domain.JobApplication, error) {
	for _, existing := range m.apps {
		if existing.JobID == app.JobID && existing.ApplicantID == app.ApplicantID {
			return domain.JobApplication{}, domain.ErrDuplicateApplication
		}
	}
	app.CreatedAt = time.Now()
	m.apps = append(m.apps, app)
	return app, nil
}

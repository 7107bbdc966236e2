package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/evaselfe/entrepedia-7/internal/domain"
	httphandler "github.com/evaselfe/entrepedia-7/internal/http/handler"
	"github.com/evaselfe/entrepedia-7/internal/repository"
	"github.com/evaselfe/entrepedia-7/internal/service"
)

func newJobHandler(t *testing.T) (*httphandler.JobHandler, *stubJobRepo) {
	t.Helper()
	jobs := &stubJobRepo{jobs: map[uuid.UUID]domain.Job{}}
	svc := service.NewJobService(jobs, &stubApplicationRepo{}, zap.NewNop())
	return httphandler.NewJobHandler(svc), jobs
}

func doRequest(t *testing.T, handle gin.HandlerFunc, method, target, body string, params gin.Params) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params

	handle(c)
	return w
}

func TestGetJobRejectsMalformedID(t *testing.T) {
	handler, _ := newJobHandler(t)

	w := doRequest(t, handler.Get, http.MethodGet, "/jobs/not-a-uuid", "", gin.Params{{Key: "id", Value: "not-a-uuid"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetJobNotFoundStatus(t *testing.T) {
	handler, _ := newJobHandler(t)
	id := uuid.New()

	w := doRequest(t, handler.Get, http.MethodGet, "/jobs/"+id.String(), "", gin.Params{{Key: "id", Value: id.String()}})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "not_found")
}

func TestApplyReturnsCreated(t *testing.T) {
	handler, jobs := newJobHandler(t)
	job := domain.Job{
		ID:        uuid.New(),
		CreatorID: uuid.New(),
		Title:     "Picker",
		Status:    domain.JobStatusOpen,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	jobs.jobs[job.ID] = job

	body := `{"applicant_id":"` + uuid.NewString() + `","message":"hi"}`
	w := doRequest(t, handler.Apply, http.MethodPost, "/jobs/"+job.ID.String()+"/applications", body, gin.Params{{Key: "id", Value: job.ID.String()}})
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateJobRejectsMissingFields(t *testing.T) {
	handler, _ := newJobHandler(t)

	w := doRequest(t, handler.Create, http.MethodPost, "/jobs", `{"title":"no creator"}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

// Stub repositories.

type stubJobRepo struct {
	jobs map[uuid.UUID]domain.Job
}

type stubApplicationRepo struct {
	apps []domain.JobApplication
}

var (
	_ repository.JobRepository         = (*stubJobRepo)(nil)
	_ repository.ApplicationRepository = (*stubApplicationRepo)(nil)
)

func (s *stubJobRepo) List(ctx context.Context) ([]domain.Job, error) {
	var jobs []domain.Job
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (s *stubJobRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Job, error) {
	job, ok := s.jobs[id]
	if !ok {
		return domain.Job{}, pgx.ErrNoRows
	}
	return job, nil
}

func (s *stubJobRepo) Create(ctx context.Context, job domain.Job) (domain.Job, error) {
	s.jobs[job.ID] = job
	return job, nil
}

func (s *stubJobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus) error {
	job, ok := s.jobs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	job.Status = status
	s.jobs[id] = job
	return nil
}

func (s *stubJobRepo) IncrementApplicationCount(ctx context.Context, id uuid.UUID) error {
	job, ok := s.jobs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	job.ApplicationCount++
	s.jobs[id] = job
	return nil
}

func (s *stubApplicationRepo) ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.JobApplication, error) {
	var apps []domain.JobApplication
	for _, app := range s.apps {
		if app.JobID == jobID {
			apps = append(apps, app)
		}
	}
	return apps, nil
}

func (s *stubApplicationRepo) Create(ctx context.Context, app domain.JobApplication) (domain.JobApplication, error) {
	for _, existing := range s.apps {
		if existing.JobID == app.JobID && existing.ApplicantID == app.ApplicantID {
			return domain.JobApplication{}, domain.ErrDuplicateApplication
		}
	}
	s.apps = append(s.apps, app)
	return app, nil
}

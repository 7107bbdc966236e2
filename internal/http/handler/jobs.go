package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/evaselfe/entrepedia-7/internal/domain"
	"github.com/evaselfe/entrepedia-7/internal/service"
)

// JobHandler exposes the marketplace endpoints.
type JobHandler struct {
	Jobs *service.JobService
}

// NewJobHandler creates the handler.
func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{Jobs: jobs}
}

// List returns every job with its derived status.
func (h *JobHandler) List(c *gin.Context) {
	views, err := h.Jobs.ListJobs(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": views})
}

// Get returns one job with its applications.
func (h *JobHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	detail, err := h.Jobs.GetJob(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Create stores a new posting.
func (h *JobHandler) Create(c *gin.Context) {
	var req struct {
		CreatorID       uuid.UUID `json:"creator_id" binding:"required"`
		Title           string    `json:"title" binding:"required"`
		Description     string    `json:"description"`
		Conditions      string    `json:"conditions"`
		Location        string    `json:"location"`
		ExpiresAt       time.Time `json:"expires_at" binding:"required"`
		MaxApplications int       `json:"max_applications"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid request body."})
		return
	}

	view, err := h.Jobs.CreateJob(c.Request.Context(), service.CreateJobInput{
		CreatorID:       req.CreatorID,
		Title:           req.Title,
		Description:     req.Description,
		Conditions:      req.Conditions,
		Location:        req.Location,
		ExpiresAt:       req.ExpiresAt,
		MaxApplications: req.MaxApplications,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Apply submits an application to a job.
func (h *JobHandler) Apply(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		ApplicantID uuid.UUID `json:"applicant_id" binding:"required"`
		Message     string    `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid request body."})
		return
	}

	view, err := h.Jobs.Apply(c.Request.Context(), service.ApplyInput{
		JobID:       id,
		ApplicantID: req.ApplicantID,
		Message:     req.Message,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// UpdateStatus lets a job's creator close or reopen it.
func (h *JobHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		RequesterID uuid.UUID `json:"requester_id" binding:"required"`
		Status      string    `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid request body."})
		return
	}

	view, err := h.Jobs.UpdateStatus(c.Request.Context(), id, req.RequesterID, domain.JobStatus(req.Status))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid job id."})
		return uuid.Nil, false
	}
	return id, true
}

package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fixlane/marketplace-api/internal/domain"
	"github.com/fixlane/marketplace-api/internal/mapper"
	"github.com/fixlane/marketplace-api/internal/repository"
	"github.com/fixlane/marketplace-api/internal/service"
)

var jobNumberPattern = regexp.MustCompile(`^JOB\d{13}[A-Z0-9]{4}$`)

// JobHandler serves job creation and read endpoints
type JobHandler struct {
	jobService *service.JobService
	logger     *zap.Logger
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(jobService *service.JobService, logger *zap.Logger) *JobHandler {
	return &JobHandler{jobService: jobService, logger: logger}
}

// Create godoc
// @Summary Create a job
// @Description Creates a new service request in PENDING status with a generated job number.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body domain.CreateJobRequest true "Job details"
// @Success 201 {object} domain.JobDTO "Created job"
// @Failure 400 {object} domain.APIError "Validation failed"
// @Failure 403 {object} domain.APIError "Caller is not a customer"
// @Security BearerAuth
// @Router /jobs [post]
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	job, err := h.jobService.CreateJob(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create job", zap.Error(err))
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, mapper.ToJobDTO(job))
}

// Get godoc
// @Summary Get a job
// @Description Returns a job by ID or job number, scoped to the caller's role.
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID or job number"
// @Success 200 {object} domain.JobDTO "Job"
// @Failure 404 {object} domain.APIError "Job not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /jobs/{id} [get]
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "id")

	var (
		job *domain.Job
		err error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		job, err = h.jobService.GetJob(r.Context(), id)
	} else if jobNumberPattern.MatchString(ref) {
		job, err = h.jobService.GetJobByNumber(r.Context(), ref)
	} else {
		respondWithError(w, http.StatusBadRequest, "Invalid job reference")
		return
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToJobDTO(job))
}

// List godoc
// @Summary List jobs
// @Description Returns a paginated list of jobs visible to the caller, with optional filters.
// @Tags Jobs
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param pageSize query int false "Page size (max 200)"
// @Param status query string false "Filter by status"
// @Param category query string false "Filter by category"
// @Param priority query string false "Filter by priority"
// @Param search query string false "Free-text search in title and job number"
// @Param sort query string false "Sort field"
// @Param order query string false "Sort order (asc or desc)"
// @Success 200 {object} domain.JobListResponse "Page of jobs"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /jobs [get]
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	filters := &repository.JobFilters{}
	if status := q.Get("status"); status != "" {
		s := domain.JobStatus(status)
		if !s.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		filters.Status = &s
	}
	if category := q.Get("category"); category != "" {
		c := domain.JobCategory(category)
		if !c.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid category filter")
			return
		}
		filters.Category = &c
	}
	if priority := q.Get("priority"); priority != "" {
		p := domain.JobPriority(priority)
		if !p.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid priority filter")
			return
		}
		filters.Priority = &p
	}
	if search := q.Get("search"); search != "" {
		filters.SearchQuery = &search
	}

	sort := repository.DefaultSortConfig()
	if field := q.Get("sort"); field != "" {
		sort.Field = field
	}
	if order := q.Get("order"); order != "" {
		sort.Order = repository.ParseSortOrder(order)
	}

	jobs, total, err := h.jobService.ListJobs(r.Context(), page, pageSize, filters, sort)
	if err != nil {
		h.logger.Error("failed to list jobs", zap.Error(err))
		handleServiceError(w, err)
		return
	}

	page, pageSize = repository.NormalizePage(page, pageSize)
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	respondJSON(w, http.StatusOK, domain.JobListResponse{
		Jobs:       mapper.ToJobDTOs(jobs),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// Summary godoc
// @Summary Job status summary
// @Description Returns the number of jobs in each status, scoped to the caller.
// @Tags Jobs
// @Produce json
// @Success 200 {object} domain.StatusSummaryResponse "Counts per status"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /jobs/summary [get]
func (h *JobHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.jobService.GetStatusSummary(r.Context())
	if err != nil {
		h.logger.Error("failed to build status summary", zap.Error(err))
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Statuses godoc
// @Summary Status metadata
// @Description Returns every job status with its display label and the actions available from it.
// @Tags Jobs
// @Produce json
// @Success 200 {array} domain.StatusMetadata "Status metadata"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /jobs/statuses [get]
func (h *JobHandler) Statuses(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.jobService.GetStatusMetadata())
}

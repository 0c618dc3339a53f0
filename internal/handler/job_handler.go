package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"jobportal/internal/service"
)

// JobHandler handles job posting endpoints.
type JobHandler struct {
	jobService service.JobService
}

// NewJobHandler creates a new job handler.
func NewJobHandler(jobService service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// PostJobRequest represents a new job posting. Numeric fields accept either
// JSON numbers or numeric strings.
type PostJobRequest struct {
	Title        string      `json:"title" form:"title" validate:"required"`
	Description  string      `json:"description" form:"description" validate:"required"`
	Requirements string      `json:"requirements" form:"requirements" validate:"required"`
	Salary       json.Number `json:"salary" form:"salary" validate:"required" swaggertype:"string"`
	Location     string      `json:"location" form:"location" validate:"required"`
	JobType      string      `json:"jobType" form:"jobType" validate:"required"`
	Experience   json.Number `json:"experience" form:"experience" validate:"required" swaggertype:"string"`
	Position     json.Number `json:"position" form:"position" validate:"required" swaggertype:"string"`
	CompanyID    string      `json:"companyId" form:"companyId" validate:"required"`
}

// Post godoc
// @Summary Post a job
// @Tags job
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body PostJobRequest true "Job posting"
// @Success 201 {object} JobResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /job/post [post]
func (h *JobHandler) Post(c echo.Context) error {
	var req PostJobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	job, err := h.jobService.Post(c.Request().Context(), SessionUserID(c), service.JobInput{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Salary:       req.Salary.String(),
		Location:     req.Location,
		JobType:      req.JobType,
		Experience:   req.Experience.String(),
		Position:     req.Position.String(),
		CompanyID:    req.CompanyID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, JobResponse{
		Success: true,
		Message: "New job created successfully.",
		Job:     job,
	})
}

// List godoc
// @Summary Search jobs
// @Tags job
// @Produce json
// @Security CookieAuth
// @Param keyword query string false "Matches title or description"
// @Success 200 {object} JobsResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /job/get [get]
func (h *JobHandler) List(c echo.Context) error {
	jobs, err := h.jobService.List(c.Request().Context(), c.QueryParam("keyword"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, JobsResponse{Success: true, Jobs: jobs})
}

// Get godoc
// @Summary Get a job by id
// @Tags job
// @Produce json
// @Security CookieAuth
// @Param id path string true "Job ID"
// @Success 200 {object} JobResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /job/get/{id} [get]
func (h *JobHandler) Get(c echo.Context) error {
	id, err := parseID(c, "Invalid job ID")
	if err != nil {
		return err
	}
	job, err := h.jobService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, JobResponse{Success: true, Job: job})
}

// ListMine godoc
// @Summary List jobs posted by the caller
// @Tags job
// @Produce json
// @Security CookieAuth
// @Success 200 {object} JobsResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /job/getadminjobs [get]
func (h *JobHandler) ListMine(c echo.Context) error {
	jobs, err := h.jobService.ListByCreator(c.Request().Context(), SessionUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, JobsResponse{Success: true, Jobs: jobs})
}

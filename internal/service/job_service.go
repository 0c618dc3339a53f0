package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobportal/internal/errors"
	"jobportal/internal/model"
	"jobportal/internal/repository"
)

const jobCacheTTL = 5 * time.Minute

// JobInput carries a job posting as submitted by a recruiter. Numeric
// fields arrive as form strings.
type JobInput struct {
	Title        string
	Description  string
	Requirements string
	Salary       string
	Location     string
	JobType      string
	Experience   string
	Position     string
	CompanyID    string
}

// JobService handles job postings.
type JobService interface {
	Post(ctx context.Context, userID uuid.UUID, in JobInput) (*model.Job, error)
	List(ctx context.Context, keyword string) ([]model.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Job, error)
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]model.Job, error)
}

type jobService struct {
	jobs      repository.JobRepository
	companies repository.CompanyRepository
	deps      Deps
}

// NewJobService creates a new job service.
func NewJobService(jobs repository.JobRepository, companies repository.CompanyRepository, deps Deps) JobService {
	return &jobService{jobs: jobs, companies: companies, deps: deps.withDefaults()}
}

func (s *jobService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("job:%s", id.String())
}

// Post publishes a job for one of the recruiter's companies.
func (s *jobService) Post(ctx context.Context, userID uuid.UUID, in JobInput) (*model.Job, error) {
	if userID == uuid.Nil {
		return nil, errors.ErrUnauthenticated
	}
	if blank(in.Title, in.Description, in.Requirements, in.Salary, in.Location,
		in.JobType, in.Experience, in.Position, in.CompanyID) {
		return nil, errors.ErrMissingFields
	}

	salary, err := strconv.ParseInt(strings.TrimSpace(in.Salary), 10, 64)
	if err != nil || salary < 0 {
		return nil, errors.Validation("Salary must be a non-negative number.")
	}
	experience, err := strconv.Atoi(strings.TrimSpace(in.Experience))
	if err != nil || experience < 0 {
		return nil, errors.Validation("Experience level must be a non-negative number.")
	}
	position, err := strconv.Atoi(strings.TrimSpace(in.Position))
	if err != nil || position < 1 {
		return nil, errors.Validation("Position must be a positive number.")
	}
	companyID, err := uuid.Parse(strings.TrimSpace(in.CompanyID))
	if err != nil {
		return nil, errors.Validation("Invalid company ID")
	}
	requirements := model.ParseList(in.Requirements)
	if len(requirements) == 0 {
		return nil, errors.ErrMissingFields
	}

	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.ErrCompanyNotFound
		}
		return nil, errors.Internal(err, "find company")
	}
	if company.UserID != userID {
		return nil, errors.ErrNotCompanyOwner
	}

	job := &model.Job{
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		Requirements:    requirements,
		Salary:          salary,
		Location:        strings.TrimSpace(in.Location),
		JobType:         strings.TrimSpace(in.JobType),
		ExperienceLevel: experience,
		Position:        position,
		CompanyID:       companyID,
		CreatedBy:       userID,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, errors.Internal(err, "create job")
	}

	s.deps.Logger.InfoContext(ctx, "job posted", "job_id", job.ID, "company_id", companyID)
	return job, nil
}

// List returns jobs whose title or description contains keyword, newest first.
func (s *jobService) List(ctx context.Context, keyword string) ([]model.Job, error) {
	jobs, err := s.jobs.Search(ctx, keyword)
	if err != nil {
		return nil, errors.Internal(err, "search jobs")
	}
	if len(jobs) == 0 {
		return nil, errors.NotFound("Jobs not found")
	}
	return jobs, nil
}

// Get retrieves a job by ID with caching.
func (s *jobService) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var cached model.Job
	if s.deps.Cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.ErrJobNotFound
		}
		return nil, errors.Internal(err, "find job")
	}

	s.deps.Cache.SetJSON(ctx, s.cacheKey(id), job, jobCacheTTL)
	return job, nil
}

// ListByCreator returns the jobs posted by a recruiter.
func (s *jobService) ListByCreator(ctx context.Context, userID uuid.UUID) ([]model.Job, error) {
	jobs, err := s.jobs.ListByCreator(ctx, userID)
	if err != nil {
		return nil, errors.Internal(err, "list jobs")
	}
	if len(jobs) == 0 {
		return nil, errors.NotFound("Jobs not found")
	}
	return jobs, nil
}

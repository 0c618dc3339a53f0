package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobportal/internal/errors"
	"jobportal/internal/media"
	"jobportal/internal/model"
	"jobportal/internal/repository"
)

const companyCacheTTL = 5 * time.Minute

// CompanyUpdate carries the company fields a recruiter may change.
type CompanyUpdate struct {
	Name        string
	Description string
	Website     string
	Location    string
}

// CompanyService handles company records.
type CompanyService interface {
	Register(ctx context.Context, userID uuid.UUID, name string) (*model.Company, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Company, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Company, error)
	Update(ctx context.Context, userID, id uuid.UUID, in CompanyUpdate, logo *media.File) (*model.Company, error)
}

type companyService struct {
	repo repository.CompanyRepository
	deps Deps
}

// NewCompanyService creates a new company service.
func NewCompanyService(repo repository.CompanyRepository, deps Deps) CompanyService {
	return &companyService{repo: repo, deps: deps.withDefaults()}
}

func (s *companyService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("company:%s", id.String())
}

// Register creates a company owned by userID. Names are unique.
func (s *companyService) Register(ctx context.Context, userID uuid.UUID, name string) (*model.Company, error) {
	if userID == uuid.Nil {
		return nil, errors.ErrUnauthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("Company name is required.")
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err == nil && existing != nil {
		return nil, errors.ErrCompanyExists
	}
	if err != nil && err != repository.ErrNotFound {
		return nil, errors.Internal(err, "check company existence")
	}

	company := &model.Company{Name: name, UserID: userID}
	if err := s.repo.Create(ctx, company); err != nil {
		if err == repository.ErrDuplicate {
			return nil, errors.ErrCompanyExists
		}
		return nil, errors.Internal(err, "create company")
	}

	s.deps.Logger.InfoContext(ctx, "company registered", "company_id", company.ID, "user_id", userID)
	return company, nil
}

// List returns the companies registered by userID, newest first.
func (s *companyService) List(ctx context.Context, userID uuid.UUID) ([]model.Company, error) {
	companies, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Internal(err, "list companies")
	}
	if len(companies) == 0 {
		return nil, errors.NotFound("Companies not found")
	}
	return companies, nil
}

// Get retrieves a company by ID with caching.
func (s *companyService) Get(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var cached model.Company
	if s.deps.Cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.ErrCompanyNotFound
		}
		return nil, errors.Internal(err, "find company")
	}

	s.deps.Cache.SetJSON(ctx, s.cacheKey(id), company, companyCacheTTL)
	return company, nil
}

// Update applies the non-empty fields of in and, when given, uploads a new
// logo. Only the recruiter who registered the company may change it. A failed
// logo upload does not fail the update.
func (s *companyService) Update(ctx context.Context, userID, id uuid.UUID, in CompanyUpdate, logo *media.File) (*model.Company, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.ErrCompanyNotFound
		}
		return nil, errors.Internal(err, "find company")
	}
	if existing.UserID != userID {
		return nil, errors.ErrNotCompanyOwner
	}

	patch := model.CompanyPatch{
		Name:        nonEmpty(in.Name),
		Description: nonEmpty(in.Description),
		Website:     nonEmpty(in.Website),
		Location:    nonEmpty(in.Location),
	}
	if url := s.deps.storeOptional(ctx, logo, media.FolderCompanyLogos); url != "" {
		patch.Logo = strPtr(url)
	}

	company, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			return nil, errors.ErrCompanyNotFound
		case repository.ErrDuplicate:
			return nil, errors.ErrCompanyExists
		default:
			return nil, errors.Internal(err, "update company")
		}
	}

	_ = s.deps.Cache.Delete(ctx, s.cacheKey(id))
	return company, nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobportal/internal/model"
)

// CompanyRepository defines company persistence operations.
type CompanyRepository interface {
	Create(ctx context.Context, company *model.Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error)
	FindByName(ctx context.Context, name string) (*model.Company, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Company, error)
	Update(ctx context.Context, id uuid.UUID, patch model.CompanyPatch) (*model.Company, error)
}

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company repository.
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

// Create creates a new company.
func (r *companyRepository) Create(ctx context.Context, company *model.Company) error {
	return translate(r.db.WithContext(ctx).Create(company).Error)
}

// FindByID finds a company by ID.
func (r *companyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var company model.Company
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&company).Error; err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

// FindByName finds a company by its unique name.
func (r *companyRepository) FindByName(ctx context.Context, name string) (*model.Company, error) {
	var company model.Company
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&company).Error; err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

// ListByUser lists the companies registered by a recruiter.
func (r *companyRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Company, error) {
	var companies []model.Company
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&companies).Error; err != nil {
		return nil, translate(err)
	}
	return companies, nil
}

// Update applies a partial update and returns the stored company.
func (r *companyRepository) Update(ctx context.Context, id uuid.UUID, patch model.CompanyPatch) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !patch.Empty() {
			if err := tx.Model(&model.Company{}).Where("id = ?", id).Updates(patch.Columns()).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", id).First(&company).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

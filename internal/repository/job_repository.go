package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobportal/internal/model"
)

// likeEscaper makes keyword metacharacters literal under ESCAPE '!'.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// JobRepository defines job persistence operations.
type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Job, error)
	// Search returns jobs whose title or description contains keyword,
	// case-insensitively, newest first. An empty keyword matches everything.
	Search(ctx context.Context, keyword string) ([]model.Job, error)
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]model.Job, error)
}

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository.
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// Create creates a new job.
func (r *jobRepository) Create(ctx context.Context, job *model.Job) error {
	return translate(r.db.WithContext(ctx).Create(job).Error)
}

// FindByID finds a job by ID together with its company.
func (r *jobRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	if err := r.db.WithContext(ctx).Preload("Company").Where("id = ?", id).First(&job).Error; err != nil {
		return nil, translate(err)
	}
	return &job, nil
}

func (r *jobRepository) Search(ctx context.Context, keyword string) ([]model.Job, error) {
	q := r.db.WithContext(ctx).Preload("Company")
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(keyword)) + "%"
		q = q.Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", pattern, pattern)
	}
	var jobs []model.Job
	if err := q.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, translate(err)
	}
	return jobs, nil
}

func (r *jobRepository) ListByCreator(ctx context.Context, userID uuid.UUID) ([]model.Job, error) {
	var jobs []model.Job
	if err := r.db.WithContext(ctx).Preload("Company").Where("created_by = ?", userID).
		Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, translate(err)
	}
	return jobs, nil
}

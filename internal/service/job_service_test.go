package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"jobportal/internal/cache"
	apperrors "jobportal/internal/errors"
	"jobportal/internal/model"
	"jobportal/internal/repository"
)

func validJobInput(companyID uuid.UUID) JobInput {
	return JobInput{
		Title:        "Backend Engineer",
		Description:  "Build APIs",
		Requirements: "Go, SQL ,Redis",
		Salary:       "120000",
		Location:     "Remote",
		JobType:      "Full-time",
		Experience:   "3",
		Position:     "2",
		CompanyID:    companyID.String(),
	}
}

func TestJobService_Post(t *testing.T) {
	userID := uuid.New()
	companyID := uuid.New()

	tests := []struct {
		name         string
		input        func() JobInput
		setupMock    func(*MockJobRepository, *MockCompanyRepository)
		expectedCode string
	}{
		{
			name:  "successful post",
			input: func() JobInput { return validJobInput(companyID) },
			setupMock: func(jobs *MockJobRepository, companies *MockCompanyRepository) {
				companies.On("FindByID", mock.Anything, companyID).Return(&model.Company{ID: companyID, UserID: userID}, nil)
				jobs.On("Create", mock.Anything, mock.MatchedBy(func(j *model.Job) bool {
					return j.Salary == 120000 && j.ExperienceLevel == 3 && j.Position == 2 &&
						len(j.Requirements) == 3 && j.Requirements[1] == "SQL" &&
						j.CreatedBy == userID && j.CompanyID == companyID
				})).Return(nil)
			},
		},
		{
			name: "missing title",
			input: func() JobInput {
				in := validJobInput(companyID)
				in.Title = ""
				return in
			},
			setupMock:    func(*MockJobRepository, *MockCompanyRepository) {},
			expectedCode: apperrors.CodeValidation,
		},
		{
			name: "salary not a number",
			input: func() JobInput {
				in := validJobInput(companyID)
				in.Salary = "lots"
				return in
			},
			setupMock:    func(*MockJobRepository, *MockCompanyRepository) {},
			expectedCode: apperrors.CodeValidation,
		},
		{
			name: "malformed company id",
			input: func() JobInput {
				in := validJobInput(companyID)
				in.CompanyID = "abc"
				return in
			},
			setupMock:    func(*MockJobRepository, *MockCompanyRepository) {},
			expectedCode: apperrors.CodeValidation,
		},
		{
			name:  "unknown company",
			input: func() JobInput { return validJobInput(companyID) },
			setupMock: func(jobs *MockJobRepository, companies *MockCompanyRepository) {
				companies.On("FindByID", mock.Anything, companyID).Return(nil, repository.ErrNotFound)
			},
			expectedCode: apperrors.CodeNotFound,
		},
		{
			name:  "company owned by another recruiter",
			input: func() JobInput { return validJobInput(companyID) },
			setupMock: func(jobs *MockJobRepository, companies *MockCompanyRepository) {
				companies.On("FindByID", mock.Anything, companyID).Return(&model.Company{ID: companyID, UserID: uuid.New()}, nil)
			},
			expectedCode: apperrors.CodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := new(MockJobRepository)
			companies := new(MockCompanyRepository)
			tt.setupMock(jobs, companies)

			job, err := NewJobService(jobs, companies, Deps{}).Post(context.Background(), userID, tt.input())

			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, apperrors.CodeOf(err))
				assert.Nil(t, job)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Backend Engineer", job.Title)
			}
			jobs.AssertExpectations(t)
			companies.AssertExpectations(t)
		})
	}
}

func TestJobService_List(t *testing.T) {
	jobs := new(MockJobRepository)
	jobs.On("Search", mock.Anything, "go").Return([]model.Job{{Title: "Go dev"}}, nil)
	jobs.On("Search", mock.Anything, "cobol").Return([]model.Job{}, nil)
	svc := NewJobService(jobs, new(MockCompanyRepository), Deps{})

	found, err := svc.List(context.Background(), "go")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = svc.List(context.Background(), "cobol")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestJobService_GetCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rc.Close() })

	id := uuid.New()
	jobs := new(MockJobRepository)
	jobs.On("FindByID", mock.Anything, id).
		Return(&model.Job{ID: id, Title: "Go dev", Requirements: model.StringList{"go"}}, nil).Once()
	svc := NewJobService(jobs, new(MockCompanyRepository), Deps{Cache: rc})

	first, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	second, err := svc.Get(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Requirements, second.Requirements)
	assert.True(t, mr.Exists("job:"+id.String()))
	jobs.AssertExpectations(t)
}

func TestJobService_GetMissing(t *testing.T) {
	id := uuid.New()
	jobs := new(MockJobRepository)
	jobs.On("FindByID", mock.Anything, id).Return(nil, repository.ErrNotFound)

	_, err := NewJobService(jobs, new(MockCompanyRepository), Deps{}).Get(context.Background(), id)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestJobService_ListByCreator(t *testing.T) {
	userID := uuid.New()
	jobs := new(MockJobRepository)
	jobs.On("ListByCreator", mock.Anything, userID).Return([]model.Job{{Title: "A"}, {Title: "B"}}, nil)

	found, err := NewJobService(jobs, new(MockCompanyRepository), Deps{}).ListByCreator(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

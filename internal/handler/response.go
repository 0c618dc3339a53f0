package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "jobportal/internal/errors"
	"jobportal/internal/media"
	"jobportal/internal/model"
)

// MessageResponse is returned by endpoints that only report an outcome.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UserResponse wraps the client view of a user.
type UserResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	User    *model.SafeUser `json:"user"`
}

// CompanyResponse wraps a single company.
type CompanyResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Company *model.Company `json:"company"`
}

// CompaniesResponse wraps a list of companies.
type CompaniesResponse struct {
	Success   bool            `json:"success"`
	Companies []model.Company `json:"companies"`
}

// JobResponse wraps a single job.
type JobResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Job     *model.Job `json:"job"`
}

// JobsResponse wraps a list of jobs.
type JobsResponse struct {
	Success bool        `json:"success"`
	Jobs    []model.Job `json:"jobs"`
}

const (
	sessionUserIDKey = "session_user_id"
	sessionRoleKey   = "session_role"
)

// SetSession stores the authenticated caller on the request context.
func SetSession(c echo.Context, userID uuid.UUID, role model.Role) {
	c.Set(sessionUserIDKey, userID)
	c.Set(sessionRoleKey, role)
}

// SessionUserID returns the authenticated caller, or uuid.Nil.
func SessionUserID(c echo.Context) uuid.UUID {
	id, _ := c.Get(sessionUserIDKey).(uuid.UUID)
	return id
}

// SessionRole returns the role of the authenticated caller.
func SessionRole(c echo.Context) model.Role {
	role, _ := c.Get(sessionRoleKey).(model.Role)
	return role
}

// bindAndValidate binds the request and maps validator failures to
// caller-facing errors.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Validation("Invalid request body.")
	}
	if err := c.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Tag() == "required" {
					return apperrors.ErrMissingFields
				}
			}
			return apperrors.Validation("Invalid %s.", strings.ToLower(verrs[0].Field()))
		}
		return apperrors.Validation("Invalid request body.")
	}
	return nil
}

// formFile reads an optional multipart file. A missing or empty part yields
// a nil file.
func formFile(c echo.Context, field string, limit int64) (*media.File, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil
	}
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperrors.Validation("Invalid file upload.")
	}
	if fh.Size > limit {
		return nil, apperrors.Validation("File is too large. Maximum size is %d bytes.", limit)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, apperrors.Internal(err, "open upload")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, apperrors.Internal(err, "read upload")
	}
	if int64(len(data)) > limit {
		return nil, apperrors.Validation("File is too large. Maximum size is %d bytes.", limit)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &media.File{Filename: fh.Filename, Data: data}, nil
}

func parseID(c echo.Context, invalidMessage string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.Validation("%s", invalidMessage)
	}
	return id, nil
}

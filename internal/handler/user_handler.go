package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobportal/internal/service"
)

// UserHandler serves the authenticated user's own profile.
type UserHandler struct {
	svc            service.AuthService
	maxUploadBytes int64
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.AuthService, maxUploadBytes int64) *UserHandler {
	return &UserHandler{svc: svc, maxUploadBytes: maxUploadBytes}
}

// UpdateProfileRequest lists the profile fields a user may change. Empty
// fields are ignored.
type UpdateProfileRequest struct {
	Fullname    string `json:"fullname" form:"fullname"`
	Email       string `json:"email" form:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
	Bio         string `json:"bio" form:"bio"`
	Skills      string `json:"skills" form:"skills"`
	Password    string `json:"password" form:"password"`
}

// GetProfile godoc
// @Summary Get the logged in user's profile
// @Tags user
// @Produce json
// @Security CookieAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.svc.GetProfile(c.Request().Context(), SessionUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UserResponse{Success: true, User: user})
}

// UpdateProfile godoc
// @Summary Update the logged in user's profile
// @Tags user
// @Accept json,mpfd
// @Produce json
// @Security CookieAuth
// @Param request body UpdateProfileRequest false "Fields to change"
// @Param file formData file false "Resume"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/profile/update [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	file, err := formFile(c, "file", h.maxUploadBytes)
	if err != nil {
		return err
	}

	user, err := h.svc.UpdateProfile(c.Request().Context(), SessionUserID(c), service.ProfileUpdate{
		Fullname:    req.Fullname,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Bio:         req.Bio,
		Skills:      req.Skills,
		Password:    req.Password,
	}, file)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, UserResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    user,
	})
}

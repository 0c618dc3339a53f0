package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobportal/internal/auth"
	"jobportal/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService    service.AuthService
	secureCookie   bool
	maxUploadBytes int64
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, secureCookie bool, maxUploadBytes int64) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		secureCookie:   secureCookie,
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Fullname    string `json:"fullname" form:"fullname" validate:"required"`
	Email       string `json:"email" form:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber" validate:"required"`
	Password    string `json:"password" form:"password" validate:"required"`
	Role        string `json:"role" form:"role" validate:"required"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
	Role     string `json:"role" form:"role" validate:"required"`
}

// Register godoc
// @Summary Register a new user
// @Tags user
// @Accept json,mpfd
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Param file formData file false "Profile photo"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	file, err := formFile(c, "file", h.maxUploadBytes)
	if err != nil {
		return err
	}

	if _, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Fullname:    req.Fullname,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Role:        req.Role,
		File:        file,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, MessageResponse{
		Success: true,
		Message: "Account created successfully.",
	})
}

// Login godoc
// @Summary Log in and receive a session cookie
// @Tags user
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    result.Session.Token,
		Path:     "/",
		Expires:  result.Session.ExpiresAt,
		MaxAge:   int(auth.SessionExpiry / time.Second),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})

	return c.JSON(http.StatusOK, UserResponse{
		Success: true,
		Message: fmt.Sprintf("Welcome back %s!", result.User.Fullname),
		User:    result.User,
	})
}

// Logout godoc
// @Summary Log out and clear the session cookie
// @Tags user
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /user/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(auth.CookieName); err == nil {
		token = cookie.Value
	}
	h.authService.Logout(c.Request().Context(), token)

	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})

	return c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: "Logged out successfully.",
	})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobportal/internal/service"
)

const invalidCompanyID = "Invalid company ID"

// CompanyHandler handles company endpoints.
type CompanyHandler struct {
	companyService service.CompanyService
	maxUploadBytes int64
}

// NewCompanyHandler creates a new company handler.
func NewCompanyHandler(companyService service.CompanyService, maxUploadBytes int64) *CompanyHandler {
	return &CompanyHandler{companyService: companyService, maxUploadBytes: maxUploadBytes}
}

// RegisterCompanyRequest represents a company registration request.
type RegisterCompanyRequest struct {
	CompanyName string `json:"companyName" form:"companyName" validate:"required"`
}

// UpdateCompanyRequest lists the company fields that may change.
type UpdateCompanyRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Website     string `json:"website" form:"website" validate:"omitempty,url"`
	Location    string `json:"location" form:"location"`
}

// Register godoc
// @Summary Register a company
// @Tags company
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body RegisterCompanyRequest true "Company name"
// @Success 201 {object} CompanyResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /company/register [post]
func (h *CompanyHandler) Register(c echo.Context) error {
	var req RegisterCompanyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	company, err := h.companyService.Register(c.Request().Context(), SessionUserID(c), req.CompanyName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, CompanyResponse{
		Success: true,
		Message: "Company registered successfully.",
		Company: company,
	})
}

// List godoc
// @Summary List the caller's companies
// @Tags company
// @Produce json
// @Security CookieAuth
// @Success 200 {object} CompaniesResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /company/get [get]
func (h *CompanyHandler) List(c echo.Context) error {
	companies, err := h.companyService.List(c.Request().Context(), SessionUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CompaniesResponse{Success: true, Companies: companies})
}

// Get godoc
// @Summary Get a company by id
// @Tags company
// @Produce json
// @Security CookieAuth
// @Param id path string true "Company ID"
// @Success 200 {object} CompanyResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /company/get/{id} [get]
func (h *CompanyHandler) Get(c echo.Context) error {
	id, err := parseID(c, invalidCompanyID)
	if err != nil {
		return err
	}
	company, err := h.companyService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CompanyResponse{Success: true, Company: company})
}

// Update godoc
// @Summary Update a company
// @Tags company
// @Accept json,mpfd
// @Produce json
// @Security CookieAuth
// @Param id path string true "Company ID"
// @Param request body UpdateCompanyRequest false "Fields to change"
// @Param file formData file false "Logo"
// @Success 200 {object} CompanyResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /company/update/{id} [put]
func (h *CompanyHandler) Update(c echo.Context) error {
	id, err := parseID(c, invalidCompanyID)
	if err != nil {
		return err
	}
	var req UpdateCompanyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	logo, err := formFile(c, "file", h.maxUploadBytes)
	if err != nil {
		return err
	}

	company, err := h.companyService.Update(c.Request().Context(), SessionUserID(c), id, service.CompanyUpdate{
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
		Location:    req.Location,
	}, logo)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CompanyResponse{
		Success: true,
		Message: "Company information updated successfully",
		Company: company,
	})
}

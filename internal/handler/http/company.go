package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/danupra/hrisgo/internal/domain"
	"github.com/danupra/hrisgo/internal/service"
	"github.com/danupra/hrisgo/pkg/httputil"
	"github.com/danupra/hrisgo/pkg/pagination"
	"github.com/danupra/hrisgo/pkg/validator"
)

// companySortable maps sort query values to company columns.
var companySortable = map[string]string{
	"name":       "name",
	"expired_at": "expired_at",
	"created_at": "created_at",
}

// CompanyHandler handles company endpoints.
type CompanyHandler struct {
	companies *service.CompanyService
	logger    *slog.Logger
}

// NewCompanyHandler creates a new company HTTP handler.
func NewCompanyHandler(companies *service.CompanyService, logger *slog.Logger) *CompanyHandler {
	return &CompanyHandler{companies: companies, logger: logger}
}

// CreateCompanyRequest is the JSON request body for creating a company.
type CreateCompanyRequest struct {
	Name      string     `json:"name" validate:"required"`
	Address   string     `json:"address" validate:"required"`
	ExpiredAt *time.Time `json:"expired_at"`
}

// UpdateCompanyRequest is the JSON request body for updating a company and
// its detail.
type UpdateCompanyRequest struct {
	Name        string     `json:"name" validate:"required"`
	Address     string     `json:"address" validate:"required"`
	ExpiredAt   *time.Time `json:"expired_at"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phone_number"`
	Logo        string     `json:"logo"`
	SPR         string     `json:"spr"`
	SPKMandor   string     `json:"spk_mandor"`
}

// List handles GET /api/v1/companies
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r, companySortable)
	if params.Sort == "" {
		params.Sort = "name"
	}

	list, paging, err := h.companies.List(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteList(w, list, paging, "ok")
}

// Get handles GET /api/v1/companies/{id}
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.companies.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, http.StatusOK, c, "ok")
}

// Create handles POST /api/v1/companies
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req CreateCompanyRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	c, err := h.companies.Create(r.Context(), service.CreateCompanyInput{
		Name:      req.Name,
		Address:   req.Address,
		ExpiredAt: req.ExpiredAt,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, http.StatusCreated, c, "company created")
}

// Update handles PUT /api/v1/companies/{id}
func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req UpdateCompanyRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	c := &domain.CompanyWithDetail{
		Company: domain.Company{
			ID:        id,
			Name:      req.Name,
			Address:   req.Address,
			ExpiredAt: req.ExpiredAt,
		},
	}
	if req.Email != "" || req.PhoneNumber != "" || req.Logo != "" || req.SPR != "" || req.SPKMandor != "" {
		c.Detail = &domain.CompanyDetail{
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
			Logo:        req.Logo,
			SPR:         req.SPR,
			SPKMandor:   req.SPKMandor,
		}
	}

	if err := h.companies.Update(r.Context(), c); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, http.StatusOK, map[string]string{"id": id}, "company updated")
}

// Delete handles DELETE /api/v1/companies/{id}
func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.companies.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, http.StatusOK, map[string]string{"id": id}, "company deleted")
}

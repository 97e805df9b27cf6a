package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danupra/hrisgo/internal/domain"
	"github.com/danupra/hrisgo/internal/service"
	"github.com/danupra/hrisgo/pkg/httputil"
	"github.com/danupra/hrisgo/pkg/pagination"
	"github.com/danupra/hrisgo/pkg/validator"
)

// pekerjaSortable maps sort query values to pekerja columns.
var pekerjaSortable = map[string]string{
	"name":       "name",
	"created_at": "created_at",
}

// PekerjaHandler handles field worker endpoints.
type PekerjaHandler struct {
	pekerja *service.PekerjaService
	logger  *slog.Logger
}

// NewPekerjaHandler creates a new pekerja HTTP handler.
func NewPekerjaHandler(pekerja *service.PekerjaService, logger *slog.Logger) *PekerjaHandler {
	return &PekerjaHandler{pekerja: pekerja, logger: logger}
}

// PekerjaRequest is the JSON request body for create and update.
type PekerjaRequest struct {
	Name        string  `json:"name" validate:"required"`
	Address     string  `json:"address"`
	PhoneNumber string  `json:"phone_number" validate:"required"`
	UserID      *string `json:"user_id"`
}

// List handles GET /api/v1/pekerja
func (h *PekerjaHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r, pekerjaSortable)
	if params.Sort == "" {
		params.Sort = "created_at"
	}

	list, paging, err := h.pekerja.List(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteList(w, list, paging, "ok")
}

// Get handles GET /api/v1/pekerja/{id}
func (h *PekerjaHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.pekerja.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, http.StatusOK, p, "ok")
}

// Create handles POST /api/v1/pekerja
func (h *PekerjaHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req PekerjaRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	p, err := h.pekerja.Create(r.Context(), &domain.Pekerja{
		Name:        req.Name,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		UserID:      req.UserID,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, http.StatusCreated, map[string]string{"id": p.ID}, "pekerja created")
}

// Update handles PUT /api/v1/pekerja/{id}
func (h *PekerjaHandler) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req PekerjaRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	err := h.pekerja.Update(r.Context(), &domain.Pekerja{
		ID:          id,
		Name:        req.Name,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		UserID:      req.UserID,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, http.StatusOK, map[string]string{"id": id}, "pekerja updated")
}

// Delete handles DELETE /api/v1/pekerja/{id}
func (h *PekerjaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.pekerja.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, http.StatusOK, map[string]string{"id": id}, "pekerja deleted")
}

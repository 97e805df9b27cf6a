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

// pegawaiSortable maps sort query values to pegawai columns. Anything not in
// this map falls back to created_at.
var pegawaiSortable = map[string]string{
	"name":       "name",
	"email":      "email",
	"job_status": "job_status",
	"created_at": "created_at",
}

// PegawaiHandler handles staff employee endpoints.
type PegawaiHandler struct {
	pegawai *service.PegawaiService
	logger  *slog.Logger
}

// NewPegawaiHandler creates a new pegawai HTTP handler.
func NewPegawaiHandler(pegawai *service.PegawaiService, logger *slog.Logger) *PegawaiHandler {
	return &PegawaiHandler{pegawai: pegawai, logger: logger}
}

// PegawaiRequest is the JSON request body for create and update.
type PegawaiRequest struct {
	Name          string     `json:"name" validate:"required"`
	Email         string     `json:"email" validate:"required,email"`
	PhoneNumber   string     `json:"phone_number" validate:"required"`
	Gender        string     `json:"gender" validate:"required"`
	Rek           string     `json:"rek"`
	DateOfBirth   time.Time  `json:"date_of_birth" validate:"required"`
	PlaceOfBirth  string     `json:"place_of_birth" validate:"required"`
	Religion      string     `json:"religion"`
	MarriedStatus string     `json:"married_status"`
	BloodType     string     `json:"blood_type"`
	FatherName    string     `json:"father_name"`
	MotherName    string     `json:"mother_name"`
	Province      string     `json:"province"`
	City          string     `json:"city"`
	District      string     `json:"district"`
	SubDistrict   string     `json:"sub_district"`
	RT            string     `json:"rt"`
	RW            string     `json:"rw"`
	PostalCode    string     `json:"postal_code"`
	Address       string     `json:"address"`
	Picture       string     `json:"picture"`
	BankName      string     `json:"bank_name"`
	BankRekening  string     `json:"bank_rekening"`
	BankAccount   string     `json:"bank_account"`
	JobStatus     string     `json:"job_status" validate:"required"`
	JobPIC        string     `json:"job_pic"`
	JobStartDate  time.Time  `json:"job_start_date" validate:"required"`
	JobEndDate    *time.Time `json:"job_end_date"`
	UserID        *string    `json:"user_id"`
}

func (req *PegawaiRequest) toDomain(id string) *domain.Pegawai {
	return &domain.Pegawai{
		ID:            id,
		Name:          req.Name,
		Email:         req.Email,
		PhoneNumber:   req.PhoneNumber,
		Gender:        req.Gender,
		Rek:           req.Rek,
		DateOfBirth:   req.DateOfBirth,
		PlaceOfBirth:  req.PlaceOfBirth,
		Religion:      req.Religion,
		MarriedStatus: req.MarriedStatus,
		BloodType:     req.BloodType,
		FatherName:    req.FatherName,
		MotherName:    req.MotherName,
		Province:      req.Province,
		City:          req.City,
		District:      req.District,
		SubDistrict:   req.SubDistrict,
		RT:            req.RT,
		RW:            req.RW,
		PostalCode:    req.PostalCode,
		Address:       req.Address,
		Picture:       req.Picture,
		BankName:      req.BankName,
		BankRekening:  req.BankRekening,
		BankAccount:   req.BankAccount,
		JobStatus:     req.JobStatus,
		JobPIC:        req.JobPIC,
		JobStartDate:  req.JobStartDate,
		JobEndDate:    req.JobEndDate,
		UserID:        req.UserID,
	}
}

// List handles GET /api/v1/pegawai
func (h *PegawaiHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r, pegawaiSortable)
	if params.Sort == "" {
		params.Sort = "created_at"
	}

	list, paging, err := h.pegawai.List(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteList(w, list, paging, "ok")
}

// Get handles GET /api/v1/pegawai/{id}
func (h *PegawaiHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.pegawai.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, http.StatusOK, p, "ok")
}

// Create handles POST /api/v1/pegawai
func (h *PegawaiHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req PegawaiRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	p, err := h.pegawai.Create(r.Context(), req.toDomain(""))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, http.StatusCreated, map[string]string{"id": p.ID}, "pegawai created")
}

// Update handles PUT /api/v1/pegawai/{id}
func (h *PegawaiHandler) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req PegawaiRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.pegawai.Update(r.Context(), req.toDomain(id)); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, http.StatusOK, map[string]string{"id": id}, "pegawai updated")
}

// Delete handles DELETE /api/v1/pegawai/{id}
func (h *PegawaiHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.pegawai.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, http.StatusOK, map[string]string{"id": id}, "pegawai deleted")
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/techsplot/smart-health-backend/internal/delivery/dto"
	"github.com/techsplot/smart-health-backend/internal/delivery/http/middleware"
	"github.com/techsplot/smart-health-backend/internal/usecase"
	"github.com/techsplot/smart-health-backend/pkg/response"
	"github.com/techsplot/smart-health-backend/pkg/validator"
)

type AccountHandler struct {
	accountUsecase usecase.AccountUsecase
	validator      *validator.CustomValidator
}

func NewAccountHandler(accountUsecase usecase.AccountUsecase, validator *validator.CustomValidator) *AccountHandler {
	return &AccountHandler{
		accountUsecase: accountUsecase,
		validator:      validator,
	}
}

// CreateDoctor handles admin-driven doctor account creation
// @Summary Create a doctor account
// @Description Create a new doctor account with a specialization
// @Tags Accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateDoctorRequest true "Create Doctor Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/doctors [post]
func (h *AccountHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.accountUsecase.CreateDoctor(r.Context(), actor, &req)
	if err != nil {
		switch err {
		case usecase.ErrEmailAlreadyExists:
			response.Error(w, http.StatusConflict, "Email already exists", nil)
		default:
			response.InternalServerError(w, "Failed to create doctor")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Doctor created successfully", doctor)
}

// ListDoctors handles listing doctor accounts
// @Summary List doctors
// @Description List doctor accounts, optionally filtered by specialization
// @Tags Accounts
// @Produce json
// @Param specialization query string false "Specialization filter"
// @Success 200 {object} response.Response
// @Router /doctors [get]
func (h *AccountHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	specialization := r.URL.Query().Get("specialization")

	doctors, err := h.accountUsecase.ListDoctors(r.Context(), specialization)
	if err != nil {
		response.InternalServerError(w, "Failed to list doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

// ListPatients handles listing patient accounts
// @Summary List patients
// @Description List all patient accounts
// @Tags Accounts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/patients [get]
func (h *AccountHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.accountUsecase.ListPatients(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list patients")
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}

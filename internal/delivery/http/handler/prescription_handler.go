package handler

import (
	"encoding/json"
	"net/http"

	"github.com/techsplot/smart-health-backend/internal/delivery/dto"
	"github.com/techsplot/smart-health-backend/internal/delivery/http/middleware"
	"github.com/techsplot/smart-health-backend/internal/domain/entity"
	"github.com/techsplot/smart-health-backend/internal/usecase"
	"github.com/techsplot/smart-health-backend/pkg/response"
	"github.com/techsplot/smart-health-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type PrescriptionHandler struct {
	prescriptionUsecase usecase.PrescriptionUsecase
	validator           *validator.CustomValidator
}

func NewPrescriptionHandler(prescriptionUsecase usecase.PrescriptionUsecase, validator *validator.CustomValidator) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionUsecase: prescriptionUsecase,
		validator:           validator,
	}
}

// Issue handles prescription issuance by a doctor
// @Summary Issue a prescription
// @Description Issue the prescription for a completed appointment
// @Tags Prescriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.IssuePrescriptionRequest true "Issue Prescription Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /prescriptions [post]
func (h *PrescriptionHandler) Issue(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.IssuePrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	prescription, err := h.prescriptionUsecase.Issue(r.Context(), actor, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParticipant:
			response.Forbidden(w, "Appointment does not belong to you")
		case usecase.ErrAppointmentNotCompleted:
			response.Error(w, http.StatusUnprocessableEntity, "Appointment is not completed", nil)
		case usecase.ErrPrescriptionAlreadyExists:
			response.Conflict(w, "Prescription already issued for this appointment")
		default:
			response.InternalServerError(w, "Failed to issue prescription")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Prescription issued successfully", prescription)
}

// GetByAppointment handles fetching the prescription of an appointment
// @Summary Get a prescription by appointment
// @Description Get the prescription issued for a given appointment
// @Tags Prescriptions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments/{id}/prescription [get]
func (h *PrescriptionHandler) GetByAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	prescription, err := h.prescriptionUsecase.GetByAppointment(r.Context(), actor, appointmentID)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParticipant:
			response.Forbidden(w, "Appointment does not belong to you")
		case usecase.ErrPrescriptionNotFound:
			response.NotFound(w, "Prescription not found")
		default:
			response.InternalServerError(w, "Failed to get prescription")
		}
		return
	}

	response.Success(w, http.StatusOK, "Prescription retrieved successfully", prescription)
}

// List handles listing the actor's own prescriptions
// @Summary List my prescriptions
// @Description List prescriptions issued by the doctor or issued to the patient
// @Tags Prescriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /prescriptions [get]
func (h *PrescriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var (
		prescriptions *dto.PrescriptionListResponse
		err           error
	)
	if actor.Is(entity.RoleDoctor) {
		prescriptions, err = h.prescriptionUsecase.ListForDoctor(r.Context(), actor)
	} else {
		prescriptions, err = h.prescriptionUsecase.ListForPatient(r.Context(), actor)
	}
	if err != nil {
		response.InternalServerError(w, "Failed to list prescriptions")
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions)
}

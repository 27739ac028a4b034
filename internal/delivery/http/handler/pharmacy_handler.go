package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/techsplot/smart-health-backend/internal/delivery/dto"
	"github.com/techsplot/smart-health-backend/internal/delivery/http/middleware"
	"github.com/techsplot/smart-health-backend/internal/domain/entity"
	"github.com/techsplot/smart-health-backend/internal/usecase"
	"github.com/techsplot/smart-health-backend/pkg/response"
	"github.com/techsplot/smart-health-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type PharmacyHandler struct {
	pharmacyUsecase usecase.PharmacyUsecase
	validator       *validator.CustomValidator
}

func NewPharmacyHandler(pharmacyUsecase usecase.PharmacyUsecase, validator *validator.CustomValidator) *PharmacyHandler {
	return &PharmacyHandler{
		pharmacyUsecase: pharmacyUsecase,
		validator:       validator,
	}
}

// PlaceOrder handles drug order placement by a patient
// @Summary Place a drug order
// @Description Order the drugs on one of the patient's prescriptions
// @Tags Pharmacy
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.PlaceOrderRequest true "Place Order Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /orders [post]
func (h *PharmacyHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	order, err := h.pharmacyUsecase.PlaceOrder(r.Context(), actor, &req)
	if err != nil {
		var outOfStock *usecase.OutOfStockError
		switch {
		case errors.As(err, &outOfStock):
			response.Conflict(w, fmt.Sprintf("Out of stock: %s", strings.Join(outOfStock.Drugs, ", ")))
		case errors.Is(err, usecase.ErrPrescriptionNotFound):
			response.NotFound(w, "Prescription not found")
		case errors.Is(err, usecase.ErrNotPrescriptionOwner):
			response.Forbidden(w, "Prescription does not belong to you")
		case errors.Is(err, usecase.ErrOrderAlreadyExists):
			response.Conflict(w, "Order already placed for this prescription")
		case errors.Is(err, usecase.ErrEmptyDrugList), errors.Is(err, entity.ErrMalformedDrugList):
			response.Error(w, http.StatusUnprocessableEntity, "Prescription drug list is empty or malformed", nil)
		default:
			response.InternalServerError(w, "Failed to place order")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Order placed successfully", order)
}

// UpdateOrderStatus handles payment/fulfillment status updates
// @Summary Update order status
// @Description Update the payment and/or fulfillment status of a drug order
// @Tags Pharmacy
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body dto.UpdateOrderStatusRequest true "Update Order Status Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders/{id}/status [patch]
func (h *PharmacyHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	orderID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	order, err := h.pharmacyUsecase.UpdateOrderStatus(r.Context(), actor, orderID, &req)
	if err != nil {
		switch err {
		case usecase.ErrOrderNotFound:
			response.NotFound(w, "Order not found")
		case usecase.ErrNotOrderOwner:
			response.Forbidden(w, "Order does not belong to you")
		case usecase.ErrInvalidOrderStatus:
			response.BadRequest(w, "Unknown order or payment status")
		default:
			response.InternalServerError(w, "Failed to update order")
		}
		return
	}

	response.Success(w, http.StatusOK, "Order updated successfully", order)
}

// ListOrders handles listing drug orders
// @Summary List drug orders
// @Description List the patient's own orders, or all orders for admins
// @Tags Pharmacy
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /orders [get]
func (h *PharmacyHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var (
		orders *dto.DrugOrderListResponse
		err    error
	)
	if actor.Is(entity.RoleAdmin) {
		orders, err = h.pharmacyUsecase.ListAllOrders(r.Context())
	} else {
		orders, err = h.pharmacyUsecase.ListMyOrders(r.Context(), actor)
	}
	if err != nil {
		response.InternalServerError(w, "Failed to list orders")
		return
	}

	response.Success(w, http.StatusOK, "Orders retrieved successfully", orders)
}

// CreateInventoryItem handles admin inventory creation
// @Summary Create an inventory item
// @Description Add a drug with an initial quantity to the pharmacy inventory
// @Tags Pharmacy
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateInventoryItemRequest true "Create Inventory Item Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/inventory [post]
func (h *PharmacyHandler) CreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateInventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	item, err := h.pharmacyUsecase.CreateInventoryItem(r.Context(), actor, &req)
	if err != nil {
		switch err {
		case usecase.ErrInventoryNameTaken:
			response.Conflict(w, "Inventory item name already in use")
		default:
			response.InternalServerError(w, "Failed to create inventory item")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Inventory item created successfully", item)
}

// UpdateInventoryItem handles admin inventory updates
// @Summary Update an inventory item
// @Description Update the name or quantity of an inventory item
// @Tags Pharmacy
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Inventory Item ID"
// @Param request body dto.UpdateInventoryItemRequest true "Update Inventory Item Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/inventory/{id} [patch]
func (h *PharmacyHandler) UpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	itemID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid inventory item ID")
		return
	}

	var req dto.UpdateInventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	item, err := h.pharmacyUsecase.UpdateInventoryItem(r.Context(), actor, itemID, &req)
	if err != nil {
		switch err {
		case usecase.ErrInventoryItemNotFound:
			response.NotFound(w, "Inventory item not found")
		case usecase.ErrInventoryNameTaken:
			response.Conflict(w, "Inventory item name already in use")
		default:
			response.InternalServerError(w, "Failed to update inventory item")
		}
		return
	}

	response.Success(w, http.StatusOK, "Inventory item updated successfully", item)
}

// DeleteInventoryItem handles admin inventory deletion
// @Summary Delete an inventory item
// @Description Remove a drug from the pharmacy inventory
// @Tags Pharmacy
// @Security BearerAuth
// @Produce json
// @Param id path string true "Inventory Item ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/inventory/{id} [delete]
func (h *PharmacyHandler) DeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	itemID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid inventory item ID")
		return
	}

	if err := h.pharmacyUsecase.DeleteInventoryItem(r.Context(), actor, itemID); err != nil {
		switch err {
		case usecase.ErrInventoryItemNotFound:
			response.NotFound(w, "Inventory item not found")
		default:
			response.InternalServerError(w, "Failed to delete inventory item")
		}
		return
	}

	response.Success(w, http.StatusOK, "Inventory item deleted", nil)
}

// ListInventory handles listing the pharmacy inventory
// @Summary List inventory
// @Description List all drugs and quantities in the pharmacy inventory
// @Tags Pharmacy
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /inventory [get]
func (h *PharmacyHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.pharmacyUsecase.ListInventory(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list inventory")
		return
	}

	response.Success(w, http.StatusOK, "Inventory retrieved successfully", items)
}

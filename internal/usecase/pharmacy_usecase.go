package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/techsplot/smart-health-backend/internal/converter"
	"github.com/techsplot/smart-health-backend/internal/delivery/dto"
	"github.com/techsplot/smart-health-backend/internal/domain/entity"
	"github.com/techsplot/smart-health-backend/internal/domain/repository"
	"github.com/techsplot/smart-health-backend/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound         = errors.New("drug order not found")
	ErrOrderAlreadyExists    = errors.New("order already placed for prescription")
	ErrEmptyDrugList         = errors.New("prescription has no drugs")
	ErrInvalidOrderStatus    = errors.New("unknown order or payment status")
	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrInventoryNameTaken    = errors.New("inventory item name already in use")
	ErrNotOrderOwner         = errors.New("order does not belong to you")
)

// drugUnitPrice is the flat per-drug price charged on every order.
var drugUnitPrice = decimal.NewFromInt(1500)

// OutOfStockError names every prescribed drug that could not be reserved,
// so a single failed order reports the complete shortage.
type OutOfStockError struct {
	Drugs []string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("out of stock: %s", strings.Join(e.Drugs, ", "))
}

type PharmacyUsecase interface {
	PlaceOrder(ctx context.Context, actor entity.Actor, req *dto.PlaceOrderRequest) (*dto.DrugOrderResponse, error)
	UpdateOrderStatus(ctx context.Context, actor entity.Actor, orderID uuid.UUID, req *dto.UpdateOrderStatusRequest) (*dto.DrugOrderResponse, error)
	ListMyOrders(ctx context.Context, actor entity.Actor) (*dto.DrugOrderListResponse, error)
	ListAllOrders(ctx context.Context) (*dto.DrugOrderListResponse, error)
	CreateInventoryItem(ctx context.Context, actor entity.Actor, req *dto.CreateInventoryItemRequest) (*dto.InventoryItemResponse, error)
	UpdateInventoryItem(ctx context.Context, actor entity.Actor, itemID uuid.UUID, req *dto.UpdateInventoryItemRequest) (*dto.InventoryItemResponse, error)
	DeleteInventoryItem(ctx context.Context, actor entity.Actor, itemID uuid.UUID) error
	ListInventory(ctx context.Context) (*dto.InventoryListResponse, error)
}

type pharmacyUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	orderRepo        repository.DrugOrderRepository
	prescriptionRepo repository.PrescriptionRepository
	appointmentRepo  repository.AppointmentRepository
	inventoryRepo    repository.PharmacyInventoryRepository
	audit            service.AuditService
	dispatcher       *service.NotificationDispatcher
}

func NewPharmacyUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	orderRepo repository.DrugOrderRepository,
	prescriptionRepo repository.PrescriptionRepository,
	appointmentRepo repository.AppointmentRepository,
	inventoryRepo repository.PharmacyInventoryRepository,
	audit service.AuditService,
	dispatcher *service.NotificationDispatcher,
) PharmacyUsecase {
	return &pharmacyUsecase{
		db:               db,
		log:              log,
		orderRepo:        orderRepo,
		prescriptionRepo: prescriptionRepo,
		appointmentRepo:  appointmentRepo,
		inventoryRepo:    inventoryRepo,
		audit:            audit,
		dispatcher:       dispatcher,
	}
}

// PlaceOrder creates the single drug order for the patient's own
// prescription. One unit of every prescribed drug is reserved inside the
// transaction; if any drug cannot be reserved the whole order is rolled
// back and every missing drug is reported at once.
func (u *pharmacyUsecase) PlaceOrder(ctx context.Context, actor entity.Actor, req *dto.PlaceOrderRequest) (*dto.DrugOrderResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	prescription, err := u.prescriptionRepo.FindByID(tx, req.PrescriptionID)
	if err != nil {
		if errors.Is(err, entity.ErrMalformedDrugList) {
			return nil, entity.ErrMalformedDrugList
		}
		u.log.Warnf("Failed to find prescription %s: %+v", req.PrescriptionID, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}

	appointment, err := u.appointmentRepo.FindByID(tx, prescription.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", prescription.AppointmentID, err)
		return nil, err
	}
	if appointment == nil || appointment.PatientID != actor.ID {
		return nil, ErrNotPrescriptionOwner
	}

	existing, err := u.orderRepo.FindByPrescriptionID(tx, req.PrescriptionID)
	if err != nil {
		u.log.Warnf("Failed to check existing order: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrOrderAlreadyExists
	}

	if len(prescription.Drugs) == 0 {
		return nil, ErrEmptyDrugList
	}

	var outOfStock []string
	for _, drug := range prescription.Drugs {
		affected, err := u.inventoryRepo.ReserveUnit(tx, drug.Name)
		if err != nil {
			u.log.Warnf("Failed to reserve stock for %q: %+v", drug.Name, err)
			return nil, err
		}
		if affected == 0 {
			outOfStock = append(outOfStock, drug.Name)
		}
	}
	if len(outOfStock) > 0 {
		return nil, &OutOfStockError{Drugs: outOfStock}
	}

	order := &entity.DrugOrder{
		PrescriptionID:  req.PrescriptionID,
		PatientID:       actor.ID,
		DeliveryAddress: req.DeliveryAddress,
		TotalAmount:     drugUnitPrice.Mul(decimal.NewFromInt(int64(len(prescription.Drugs)))),
		PaymentStatus:   entity.PaymentStatusPending,
		OrderStatus:     entity.OrderStatusPending,
	}

	if err := u.orderRepo.Create(tx, order); err != nil {
		if isDuplicateKeyError(err, "prescription_id") {
			return nil, ErrOrderAlreadyExists
		}
		u.log.Warnf("Failed to create drug order: %+v", err)
		return nil, err
	}

	if err := u.audit.Record(tx, &actor.ID, entity.AuditActionOrderPlace, entity.JSON{
		"order_id":        order.ID.String(),
		"prescription_id": order.PrescriptionID.String(),
		"total_amount":    order.TotalAmount.String(),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.dispatcher.Dispatch(service.NotificationEvent{
		UserID:  actor.ID,
		Message: fmt.Sprintf("Your drug order has been placed. Total: %s.", order.TotalAmount.StringFixed(2)),
	})

	u.log.Infof("Drug order placed: id=%s, prescription=%s, total=%s", order.ID, order.PrescriptionID, order.TotalAmount)
	return converter.DrugOrderToResponse(order), nil
}

// UpdateOrderStatus overwrites the payment and/or order status. Patients may
// update their own orders; admins may update any.
func (u *pharmacyUsecase) UpdateOrderStatus(ctx context.Context, actor entity.Actor, orderID uuid.UUID, req *dto.UpdateOrderStatusRequest) (*dto.DrugOrderResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	order, err := u.orderRepo.FindByID(tx, orderID)
	if err != nil {
		u.log.Warnf("Failed to find drug order %s: %+v", orderID, err)
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if !actor.Is(entity.RoleAdmin) && order.PatientID != actor.ID {
		return nil, ErrNotOrderOwner
	}

	changes := entity.JSON{"order_id": order.ID.String()}

	if req.PaymentStatus != nil {
		status, ok := entity.ParsePaymentStatus(*req.PaymentStatus)
		if !ok {
			return nil, ErrInvalidOrderStatus
		}
		order.PaymentStatus = status
		changes["payment_status"] = string(status)
	}
	if req.OrderStatus != nil {
		status, ok := entity.ParseOrderStatus(*req.OrderStatus)
		if !ok {
			return nil, ErrInvalidOrderStatus
		}
		order.OrderStatus = status
		changes["order_status"] = string(status)
	}

	if err := u.orderRepo.Update(tx, order); err != nil {
		u.log.Warnf("Failed to update drug order: %+v", err)
		return nil, err
	}

	if err := u.audit.Record(tx, &actor.ID, entity.AuditActionOrderStatus, changes); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DrugOrderToResponse(order), nil
}

func (u *pharmacyUsecase) ListMyOrders(ctx context.Context, actor entity.Actor) (*dto.DrugOrderListResponse, error) {
	orders, err := u.orderRepo.FindByPatientID(u.db.WithContext(ctx), actor.ID)
	if err != nil {
		u.log.Warnf("Failed to find orders for patient %s: %+v", actor.ID, err)
		return nil, err
	}

	return &dto.DrugOrderListResponse{
		Orders: converter.DrugOrdersToResponses(orders),
		Total:  len(orders),
	}, nil
}

func (u *pharmacyUsecase) ListAllOrders(ctx context.Context) (*dto.DrugOrderListResponse, error) {
	orders, err := u.orderRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list drug orders: %+v", err)
		return nil, err
	}

	return &dto.DrugOrderListResponse{
		Orders: converter.DrugOrdersToResponses(orders),
		Total:  len(orders),
	}, nil
}

func (u *pharmacyUsecase) CreateInventoryItem(ctx context.Context, actor entity.Actor, req *dto.CreateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.inventoryRepo.FindByName(tx, req.Name)
	if err != nil {
		u.log.Warnf("Failed to check inventory name %q: %+v", req.Name, err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrInventoryNameTaken
	}

	item := &entity.PharmacyInventory{
		Name:     req.Name,
		Quantity: req.Quantity,
	}

	if err := u.inventoryRepo.Create(tx, item); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrInventoryNameTaken
		}
		u.log.Warnf("Failed to create inventory item: %+v", err)
		return nil, err
	}

	if err := u.audit.Record(tx, &actor.ID, entity.AuditActionInventoryCreate, entity.JSON{
		"item_id":  item.ID.String(),
		"name":     item.Name,
		"quantity": item.Quantity,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.InventoryItemToResponse(item), nil
}

func (u *pharmacyUsecase) UpdateInventoryItem(ctx context.Context, actor entity.Actor, itemID uuid.UUID, req *dto.UpdateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	item, err := u.inventoryRepo.FindByID(tx, itemID)
	if err != nil {
		u.log.Warnf("Failed to find inventory item %s: %+v", itemID, err)
		return nil, err
	}
	if item == nil {
		return nil, ErrInventoryItemNotFound
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}

	if err := u.inventoryRepo.Update(tx, item); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrInventoryNameTaken
		}
		u.log.Warnf("Failed to update inventory item: %+v", err)
		return nil, err
	}

	if err := u.audit.Record(tx, &actor.ID, entity.AuditActionInventoryUpdate, entity.JSON{
		"item_id":  item.ID.String(),
		"name":     item.Name,
		"quantity": item.Quantity,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.InventoryItemToResponse(item), nil
}

func (u *pharmacyUsecase) DeleteInventoryItem(ctx context.Context, actor entity.Actor, itemID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	item, err := u.inventoryRepo.FindByID(tx, itemID)
	if err != nil {
		u.log.Warnf("Failed to find inventory item %s: %+v", itemID, err)
		return err
	}
	if item == nil {
		return ErrInventoryItemNotFound
	}

	if err := u.inventoryRepo.Delete(tx, itemID); err != nil {
		u.log.Warnf("Failed to delete inventory item: %+v", err)
		return err
	}

	if err := u.audit.Record(tx, &actor.ID, entity.AuditActionInventoryDelete, entity.JSON{
		"item_id": item.ID.String(),
		"name":    item.Name,
	}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (u *pharmacyUsecase) ListInventory(ctx context.Context) (*dto.InventoryListResponse, error) {
	items, err := u.inventoryRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list inventory: %+v", err)
		return nil, err
	}

	return &dto.InventoryListResponse{
		Items: converter.InventoryItemsToResponses(items),
		Total: len(items),
	}, nil
}

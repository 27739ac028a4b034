package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/techsplot/smart-health-backend/internal/delivery/dto"
	"github.com/techsplot/smart-health-backend/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pharmacyFixture struct {
	patientID       uuid.UUID
	appointment     *entity.Appointment
	prescription    *entity.Prescription
	appointmentRepo *fakeAppointmentRepo
	prescriptions   *fakePrescriptionRepo
	orders          *fakeDrugOrderRepo
	inventory       *fakeInventoryRepo
	audit           *fakeAuditService
}

func newPharmacyFixture(drugs entity.DrugList, stock map[string]int) *pharmacyFixture {
	patientID := uuid.New()
	appointment := &entity.Appointment{
		ID:        uuid.New(),
		DoctorID:  uuid.New(),
		PatientID: patientID,
		Status:    entity.AppointmentStatusCompleted,
	}
	prescription := &entity.Prescription{
		ID:            uuid.New(),
		AppointmentID: appointment.ID,
		DoctorID:      appointment.DoctorID,
		Drugs:         drugs,
	}

	return &pharmacyFixture{
		patientID:       patientID,
		appointment:     appointment,
		prescription:    prescription,
		appointmentRepo: newFakeAppointmentRepo(appointment),
		prescriptions:   newFakePrescriptionRepo(prescription),
		orders:          newFakeDrugOrderRepo(),
		inventory:       newFakeInventoryRepo(stock),
		audit:           &fakeAuditService{},
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	fixture := newPharmacyFixture(
		entity.DrugList{
			{Name: "Amoxicillin", Dosage: "500mg"},
			{Name: "Ibuprofen", Dosage: "200mg"},
			{Name: "Cetirizine", Dosage: "10mg"},
		},
		map[string]int{"Amoxicillin": 5, "Ibuprofen": 2, "Cetirizine": 1},
	)

	db, mock := setupMockDB(t)
	uc := NewPharmacyUsecase(db, testLogger(), fixture.orders, fixture.prescriptions, fixture.appointmentRepo, fixture.inventory, fixture.audit, testDispatcher(&fakeNotificationRepo{}))

	mock.ExpectBegin()
	mock.ExpectCommit()

	actor := entity.Actor{ID: fixture.patientID, Role: entity.RolePatient}
	resp, err := uc.PlaceOrder(context.Background(), actor, &dto.PlaceOrderRequest{
		PrescriptionID:  fixture.prescription.ID,
		DeliveryAddress: "12 Harbor Street",
	})

	require.NoError(t, err)
	assert.Equal(t, fixture.prescription.ID, resp.PrescriptionID)
	assert.Equal(t, string(entity.PaymentStatusPending), resp.PaymentStatus)
	assert.Equal(t, string(entity.OrderStatusPending), resp.OrderStatus)

	// Flat unit price, three drugs
	assert.Equal(t, "4500", resp.TotalAmount.String())

	// One unit of every drug reserved
	assert.Equal(t, []string{"Amoxicillin", "Ibuprofen", "Cetirizine"}, fixture.inventory.reserved)
	assert.Equal(t, 4, fixture.inventory.stock["Amoxicillin"])
	assert.Equal(t, 0, fixture.inventory.stock["Cetirizine"])

	assert.Equal(t, []string{entity.AuditActionOrderPlace}, fixture.audit.actions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrder_OutOfStockNamesEveryMissingDrug(t *testing.T) {
	fixture := newPharmacyFixture(
		entity.DrugList{
			{Name: "Amoxicillin", Dosage: "500mg"},
			{Name: "Ibuprofen", Dosage: "200mg"},
			{Name: "Cetirizine", Dosage: "10mg"},
		},
		map[string]int{"Ibuprofen": 3},
	)

	db, mock := setupMockDB(t)
	uc := NewPharmacyUsecase(db, testLogger(), fixture.orders, fixture.prescriptions, fixture.appointmentRepo, fixture.inventory, fixture.audit, testDispatcher(&fakeNotificationRepo{}))

	mock.ExpectBegin()
	mock.ExpectRollback()

	actor := entity.Actor{ID: fixture.patientID, Role: entity.RolePatient}
	_, err := uc.PlaceOrder(context.Background(), actor, &dto.PlaceOrderRequest{
		PrescriptionID:  fixture.prescription.ID,
		DeliveryAddress: "12 Harbor Street",
	})

	var outOfStock *OutOfStockError
	require.ErrorAs(t, err, &outOfStock)
	assert.Equal(t, []string{"Amoxicillin", "Cetirizine"}, outOfStock.Drugs)

	// No order was created
	assert.Empty(t, fixture.orders.orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrder_SecondOrderRefused(t *testing.T) {
	fixture := newPharmacyFixture(
		entity.DrugList{{Name: "Amoxicillin", Dosage: "500mg"}},
		map[string]int{"Amoxicillin": 5},
	)
	fixture.orders = newFakeDrugOrderRepo(&entity.DrugOrder{
		ID:             uuid.New(),
		PrescriptionID: fixture.prescription.ID,
		PatientID:      fixture.patientID,
	})

	db, mock := setupMockDB(t)
	uc := NewPharmacyUsecase(db, testLogger(), fixture.orders, fixture.prescriptions, fixture.appointmentRepo, fixture.inventory, fixture.audit, testDispatcher(&fakeNotificationRepo{}))

	mock.ExpectBegin()
	mock.ExpectRollback()

	actor := entity.Actor{ID: fixture.patientID, Role: entity.RolePatient}
	_, err := uc.PlaceOrder(context.Background(), actor, &dto.PlaceOrderRequest{
		PrescriptionID:  fixture.prescription.ID,
		DeliveryAddress: "12 Harbor Street",
	})

	assert.ErrorIs(t, err, ErrOrderAlreadyExists)

	// Nothing was reserved
	assert.Empty(t, fixture.inventory.reserved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrder_ForeignPrescriptionForbidden(t *testing.T) {
	fixture := newPharmacyFixture(
		entity.DrugList{{Name: "Amoxicillin", Dosage: "500mg"}},
		map[string]int{"Amoxicillin": 5},
	)

	db, mock := setupMockDB(t)
	uc := NewPharmacyUsecase(db, testLogger(), fixture.orders, fixture.prescriptions, fixture.appointmentRepo, fixture.inventory, fixture.audit, testDispatcher(&fakeNotificationRepo{}))

	mock.ExpectBegin()
	mock.ExpectRollback()

	actor := entity.Actor{ID: uuid.New(), Role: entity.RolePatient}
	_, err := uc.PlaceOrder(context.Background(), actor, &dto.PlaceOrderRequest{
		PrescriptionID:  fixture.prescription.ID,
		DeliveryAddress: "12 Harbor Street",
	})

	assert.ErrorIs(t, err, ErrNotPrescriptionOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrder_EmptyDrugList(t *testing.T) {
	fixture := newPharmacyFixture(nil, nil)

	db, mock := setupMockDB(t)
	uc := NewPharmacyUsecase(db, testLogger(), fixture.orders, fixture.prescriptions, fixture.appointmentRepo, fixture.inventory, fixture.audit, testDispatcher(&fakeNotificationRepo{}))

	mock.ExpectBegin()
	mock.ExpectRollback()

	actor := entity.Actor{ID: fixture.patientID, Role: entity.RolePatient}
	_, err := uc.PlaceOrder(context.Background(), actor, &dto.PlaceOrderRequest{
		PrescriptionID:  fixture.prescription.ID,
		DeliveryAddress: "12 Harbor Street",
	})

	assert.ErrorIs(t, err, ErrEmptyDrugList)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatus_PatientOwnOrder(t *testing.T) {
	db, mock := setupMockDB(t)

	patientID := uuid.New()
	order := &entity.DrugOrder{
		ID:             uuid.New(),
		PrescriptionID: uuid.New(),
		PatientID:      patientID,
		PaymentStatus:  entity.PaymentStatusPending,
		OrderStatus:    entity.OrderStatusPending,
	}
	orders := newFakeDrugOrderRepo(order)

	uc := NewPharmacyUsecase(db, testLogger(), orders, newFakePrescriptionRepo(), newFakeAppointmentRepo(), newFakeInventoryRepo(nil), &fakeAuditService{}, testDispatcher(&fakeNotificationRepo{}))

	mock.ExpectBegin()
	mock.ExpectCommit()

	paid := string(entity.PaymentStatusPaid)
	actor := entity.Actor{ID: patientID, Role: entity.RolePatient}
	resp, err := uc.UpdateOrderStatus(context.Background(), actor, order.ID, &dto.UpdateOrderStatusRequest{PaymentStatus: &paid})

	require.NoError(t, err)
	assert.Equal(t, paid, resp.PaymentStatus)
	assert.Equal(t, string(entity.OrderStatusPending), resp.OrderStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatus_OtherPatientForbidden(t *testing.T) {
	db, mock := setupMockDB(t)

	order := &entity.DrugOrder{
		ID:             uuid.New(),
		PrescriptionID: uuid.New(),
		PatientID:      uuid.New(),
	}

	uc := NewPharmacyUsecase(db, testLogger(), newFakeDrugOrderRepo(order), newFakePrescriptionRepo(), newFakeAppointmentRepo(), newFakeInventoryRepo(nil), &fakeAuditService{}, testDispatcher(&fakeNotificationRepo{}))

	mock.ExpectBegin()
	mock.ExpectRollback()

	delivered := string(entity.OrderStatusDelivered)
	actor := entity.Actor{ID: uuid.New(), Role: entity.RolePatient}
	_, err := uc.UpdateOrderStatus(context.Background(), actor, order.ID, &dto.UpdateOrderStatusRequest{OrderStatus: &delivered})

	assert.ErrorIs(t, err, ErrNotOrderOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatus_AdminCanOverride(t *testing.T) {
	db, mock := setupMockDB(t)

	order := &entity.DrugOrder{
		ID:             uuid.New(),
		PrescriptionID: uuid.New(),
		PatientID:      uuid.New(),
		PaymentStatus:  entity.PaymentStatusPaid,
		OrderStatus:    entity.OrderStatusApproved,
	}

	uc := NewPharmacyUsecase(db, testLogger(), newFakeDrugOrderRepo(order), newFakePrescriptionRepo(), newFakeAppointmentRepo(), newFakeInventoryRepo(nil), &fakeAuditService{}, testDispatcher(&fakeNotificationRepo{}))

	mock.ExpectBegin()
	mock.ExpectCommit()

	delivered := string(entity.OrderStatusDelivered)
	actor := entity.Actor{ID: uuid.New(), Role: entity.RoleAdmin}
	resp, err := uc.UpdateOrderStatus(context.Background(), actor, order.ID, &dto.UpdateOrderStatusRequest{OrderStatus: &delivered})

	require.NoError(t, err)
	assert.Equal(t, delivered, resp.OrderStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInventoryItem_DuplicateName(t *testing.T) {
	db, mock := setupMockDB(t)

	inventory := newFakeInventoryRepo(map[string]int{"Amoxicillin": 5})
	uc := NewPharmacyUsecase(db, testLogger(), newFakeDrugOrderRepo(), newFakePrescriptionRepo(), newFakeAppointmentRepo(), inventory, &fakeAuditService{}, testDispatcher(&fakeNotificationRepo{}))

	mock.ExpectBegin()
	mock.ExpectRollback()

	actor := entity.Actor{ID: uuid.New(), Role: entity.RoleAdmin}
	_, err := uc.CreateInventoryItem(context.Background(), actor, &dto.CreateInventoryItemRequest{Name: "Amoxicillin", Quantity: 10})

	assert.ErrorIs(t, err, ErrInventoryNameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutOfStockErrorMessage(t *testing.T) {
	err := &OutOfStockError{Drugs: []string{"Amoxicillin", "Cetirizine"}}
	assert.Equal(t, "out of stock: Amoxicillin, Cetirizine", err.Error())

	var target *OutOfStockError
	assert.True(t, errors.As(error(err), &target))
}

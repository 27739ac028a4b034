package usecase

import (
	"testing"
	"time"

	"github.com/techsplot/smart-health-backend/config"
	"github.com/techsplot/smart-health-backend/internal/domain/entity"
	"github.com/techsplot/smart-health-backend/internal/service"
	"github.com/techsplot/smart-health-backend/pkg/jwt"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB opens a gorm handle over sqlmock. Repositories are faked in
// these tests, so the mock only sees transaction control statements.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newTestJWTService() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
		ResetExpiry:   15 * time.Minute,
	})
}

// testDispatcher returns a dispatcher that is never started, so dispatched
// events stay buffered where tests can count them.
func testDispatcher(repo *fakeNotificationRepo) *service.NotificationDispatcher {
	return service.NewNotificationDispatcher(nil, testLogger(), repo)
}

// --- fakes ---

type fakeUserRepo struct {
	users     map[uuid.UUID]*entity.User
	createErr error
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) Create(db *gorm.DB, user *entity.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByIDAndRole(db *gorm.DB, id uuid.UUID, role entity.Role) (*entity.User, error) {
	user := f.users[id]
	if user == nil || user.Role != role {
		return nil, nil
	}
	return user, nil
}

func (f *fakeUserRepo) FindByRole(db *gorm.DB, role entity.Role, specialization string) ([]entity.User, error) {
	var users []entity.User
	for _, user := range f.users {
		if user.Role != role {
			continue
		}
		if specialization != "" && (user.Specialization == nil || *user.Specialization != specialization) {
			continue
		}
		users = append(users, *user)
	}
	return users, nil
}

func (f *fakeUserRepo) Update(db *gorm.DB, user *entity.User) error {
	f.users[user.ID] = user
	return nil
}

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*entity.Appointment
	createErr    error
	deleted      []uuid.UUID
}

func newFakeAppointmentRepo(appointments ...*entity.Appointment) *fakeAppointmentRepo {
	repo := &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*entity.Appointment)}
	for _, a := range appointments {
		repo.appointments[a.ID] = a
	}
	return repo
}

func (f *fakeAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	f.appointments[appointment.ID] = appointment
	return nil
}

func (f *fakeAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	return f.appointments[id], nil
}

func (f *fakeAppointmentRepo) FindActiveByDoctorAndTime(db *gorm.DB, doctorID uuid.UUID, scheduledAt time.Time) (*entity.Appointment, error) {
	for _, a := range f.appointments {
		if a.DoctorID == doctorID && a.ScheduledAt.Equal(scheduledAt) && !a.Status.IsCancelled() {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAppointmentRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	for _, a := range f.appointments {
		if a.PatientID == patientID {
			appointments = append(appointments, *a)
		}
	}
	return appointments, nil
}

func (f *fakeAppointmentRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	for _, a := range f.appointments {
		if a.DoctorID == doctorID {
			appointments = append(appointments, *a)
		}
	}
	return appointments, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) error {
	if a, ok := f.appointments[id]; ok {
		a.Status = status
	}
	return nil
}

func (f *fakeAppointmentRepo) Delete(db *gorm.DB, id uuid.UUID) error {
	delete(f.appointments, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakePrescriptionRepo struct {
	prescriptions map[uuid.UUID]*entity.Prescription
	createErr     error
}

func newFakePrescriptionRepo(prescriptions ...*entity.Prescription) *fakePrescriptionRepo {
	repo := &fakePrescriptionRepo{prescriptions: make(map[uuid.UUID]*entity.Prescription)}
	for _, p := range prescriptions {
		repo.prescriptions[p.ID] = p
	}
	return repo
}

func (f *fakePrescriptionRepo) Create(db *gorm.DB, prescription *entity.Prescription) error {
	if f.createErr != nil {
		return f.createErr
	}
	if prescription.ID == uuid.Nil {
		prescription.ID = uuid.New()
	}
	f.prescriptions[prescription.ID] = prescription
	return nil
}

func (f *fakePrescriptionRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Prescription, error) {
	return f.prescriptions[id], nil
}

func (f *fakePrescriptionRepo) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Prescription, error) {
	for _, p := range f.prescriptions {
		if p.AppointmentID == appointmentID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePrescriptionRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Prescription, error) {
	var prescriptions []entity.Prescription
	for _, p := range f.prescriptions {
		if p.DoctorID == doctorID {
			prescriptions = append(prescriptions, *p)
		}
	}
	return prescriptions, nil
}

func (f *fakePrescriptionRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Prescription, error) {
	return nil, nil
}

type fakeDrugOrderRepo struct {
	orders    map[uuid.UUID]*entity.DrugOrder
	createErr error
}

func newFakeDrugOrderRepo(orders ...*entity.DrugOrder) *fakeDrugOrderRepo {
	repo := &fakeDrugOrderRepo{orders: make(map[uuid.UUID]*entity.DrugOrder)}
	for _, o := range orders {
		repo.orders[o.ID] = o
	}
	return repo
}

func (f *fakeDrugOrderRepo) Create(db *gorm.DB, order *entity.DrugOrder) error {
	if f.createErr != nil {
		return f.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeDrugOrderRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.DrugOrder, error) {
	return f.orders[id], nil
}

func (f *fakeDrugOrderRepo) FindByPrescriptionID(db *gorm.DB, prescriptionID uuid.UUID) (*entity.DrugOrder, error) {
	for _, o := range f.orders {
		if o.PrescriptionID == prescriptionID {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeDrugOrderRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.DrugOrder, error) {
	var orders []entity.DrugOrder
	for _, o := range f.orders {
		if o.PatientID == patientID {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (f *fakeDrugOrderRepo) FindAll(db *gorm.DB) ([]entity.DrugOrder, error) {
	var orders []entity.DrugOrder
	for _, o := range f.orders {
		orders = append(orders, *o)
	}
	return orders, nil
}

func (f *fakeDrugOrderRepo) Update(db *gorm.DB, order *entity.DrugOrder) error {
	f.orders[order.ID] = order
	return nil
}

type fakeInventoryRepo struct {
	stock    map[string]int
	items    map[uuid.UUID]*entity.PharmacyInventory
	reserved []string
}

func newFakeInventoryRepo(stock map[string]int) *fakeInventoryRepo {
	repo := &fakeInventoryRepo{
		stock: stock,
		items: make(map[uuid.UUID]*entity.PharmacyInventory),
	}
	if repo.stock == nil {
		repo.stock = make(map[string]int)
	}
	for name, quantity := range repo.stock {
		item := &entity.PharmacyInventory{ID: uuid.New(), Name: name, Quantity: quantity}
		repo.items[item.ID] = item
	}
	return repo
}

func (f *fakeInventoryRepo) Create(db *gorm.DB, item *entity.PharmacyInventory) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.items[item.ID] = item
	f.stock[item.Name] = item.Quantity
	return nil
}

func (f *fakeInventoryRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.PharmacyInventory, error) {
	return f.items[id], nil
}

func (f *fakeInventoryRepo) FindByName(db *gorm.DB, name string) (*entity.PharmacyInventory, error) {
	for _, item := range f.items {
		if item.Name == name {
			return item, nil
		}
	}
	return nil, nil
}

func (f *fakeInventoryRepo) FindAll(db *gorm.DB) ([]entity.PharmacyInventory, error) {
	var items []entity.PharmacyInventory
	for _, item := range f.items {
		items = append(items, *item)
	}
	return items, nil
}

func (f *fakeInventoryRepo) Update(db *gorm.DB, item *entity.PharmacyInventory) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeInventoryRepo) Delete(db *gorm.DB, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

func (f *fakeInventoryRepo) ReserveUnit(db *gorm.DB, name string) (int64, error) {
	if f.stock[name] < 1 {
		return 0, nil
	}
	f.stock[name]--
	f.reserved = append(f.reserved, name)
	return 1, nil
}

type fakeNotificationRepo struct {
	notifications []entity.Notification
	markReadRows  int64
	nextID        int64
}

func (f *fakeNotificationRepo) Create(db *gorm.DB, notification *entity.Notification) error {
	f.nextID++
	notification.ID = f.nextID
	f.notifications = append(f.notifications, *notification)
	return nil
}

func (f *fakeNotificationRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Notification, error) {
	var notifications []entity.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			notifications = append(notifications, n)
		}
	}
	return notifications, nil
}

func (f *fakeNotificationRepo) MarkRead(db *gorm.DB, id int64, userID uuid.UUID) (int64, error) {
	return f.markReadRows, nil
}

type fakeAuditService struct {
	actions []string
}

func (f *fakeAuditService) Record(tx *gorm.DB, userID *uuid.UUID, action string, metadata entity.JSON) error {
	f.actions = append(f.actions, action)
	return nil
}

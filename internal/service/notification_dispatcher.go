package service

import (
	"sync"

	"github.com/techsplot/smart-health-backend/internal/domain/entity"
	"github.com/techsplot/smart-health-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NotificationEvent is a pending inbox message produced by a business
// operation. Events are handed to the dispatcher after the operation's
// transaction commits, keeping delivery out of the transaction itself.
type NotificationEvent struct {
	UserID  uuid.UUID
	Message string
}

// NotificationDispatcher drains queued events on a background goroutine and
// persists them best-effort. A failed delivery is logged, never retried, and
// never fails the operation that produced the event.
type NotificationDispatcher struct {
	db               *gorm.DB
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository

	events chan NotificationEvent
	done   chan struct{}
	once   sync.Once
}

func NewNotificationDispatcher(
	db *gorm.DB,
	log *logrus.Logger,
	notificationRepo repository.NotificationRepository,
) *NotificationDispatcher {
	return &NotificationDispatcher{
		db:               db,
		log:              log,
		notificationRepo: notificationRepo,
		events:           make(chan NotificationEvent, 256),
		done:             make(chan struct{}),
	}
}

// Start launches the drain loop. Call once from bootstrap.
func (d *NotificationDispatcher) Start() {
	go d.run()
}

func (d *NotificationDispatcher) run() {
	for event := range d.events {
		d.deliver(event)
	}
	close(d.done)
}

func (d *NotificationDispatcher) deliver(event NotificationEvent) {
	notification := &entity.Notification{
		UserID:  event.UserID,
		Message: event.Message,
	}
	if err := d.notificationRepo.Create(d.db, notification); err != nil {
		d.log.Warnf("Failed to deliver notification to user %s: %+v", event.UserID, err)
	}
}

// Dispatch queues events without blocking the caller. When the buffer is
// full the event is dropped and logged; inbox messages are best-effort.
func (d *NotificationDispatcher) Dispatch(events ...NotificationEvent) {
	for _, event := range events {
		select {
		case d.events <- event:
		default:
			d.log.Warnf("Notification buffer full, dropping event for user %s", event.UserID)
		}
	}
}

// Stop closes the queue and waits for in-flight events to be persisted.
func (d *NotificationDispatcher) Stop() {
	d.once.Do(func() {
		close(d.events)
	})
	<-d.done
}

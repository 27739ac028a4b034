package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAppointmentStatus(t *testing.T) {
	for _, raw := range []string{"pending", "confirmed", "cancelled", "cancelled_by_doctor", "completed"} {
		status, ok := ParseAppointmentStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, AppointmentStatus(raw), status)
	}

	_, ok := ParseAppointmentStatus("rescheduled")
	assert.False(t, ok)

	_, ok = ParseAppointmentStatus("")
	assert.False(t, ok)
}

func TestAppointmentStatusIsTerminal(t *testing.T) {
	assert.False(t, AppointmentStatusPending.IsTerminal())
	assert.False(t, AppointmentStatusConfirmed.IsTerminal())
	assert.True(t, AppointmentStatusCancelled.IsTerminal())
	assert.True(t, AppointmentStatusCancelledByDoctor.IsTerminal())
	assert.True(t, AppointmentStatusCompleted.IsTerminal())
}

func TestAppointmentStatusIsCancelled(t *testing.T) {
	assert.True(t, AppointmentStatusCancelled.IsCancelled())
	assert.True(t, AppointmentStatusCancelledByDoctor.IsCancelled())
	assert.False(t, AppointmentStatusCompleted.IsCancelled())
	assert.False(t, AppointmentStatusPending.IsCancelled())
}

func TestCanTransitionTo_Patient(t *testing.T) {
	tests := []struct {
		name    string
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{"pending to cancelled", AppointmentStatusPending, AppointmentStatusCancelled, true},
		{"confirmed to cancelled", AppointmentStatusConfirmed, AppointmentStatusCancelled, true},
		{"pending to confirmed", AppointmentStatusPending, AppointmentStatusConfirmed, false},
		{"pending to completed", AppointmentStatusPending, AppointmentStatusCompleted, false},
		{"pending to cancelled_by_doctor", AppointmentStatusPending, AppointmentStatusCancelledByDoctor, false},
		{"completed is immutable", AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{"cancelled is immutable", AppointmentStatusCancelled, AppointmentStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Appointment{Status: tt.from}
			assert.Equal(t, tt.allowed, a.CanTransitionTo(tt.to, RolePatient))
		})
	}
}

func TestCanTransitionTo_Doctor(t *testing.T) {
	tests := []struct {
		name    string
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{"pending to confirmed", AppointmentStatusPending, AppointmentStatusConfirmed, true},
		{"pending to completed", AppointmentStatusPending, AppointmentStatusCompleted, true},
		{"pending to cancelled_by_doctor", AppointmentStatusPending, AppointmentStatusCancelledByDoctor, true},
		{"confirmed to completed", AppointmentStatusConfirmed, AppointmentStatusCompleted, true},
		{"confirmed to cancelled_by_doctor", AppointmentStatusConfirmed, AppointmentStatusCancelledByDoctor, true},
		{"confirmed to confirmed", AppointmentStatusConfirmed, AppointmentStatusConfirmed, false},
		{"doctor cannot use patient cancel", AppointmentStatusPending, AppointmentStatusCancelled, false},
		{"completed is immutable", AppointmentStatusCompleted, AppointmentStatusCancelledByDoctor, false},
		{"cancelled_by_doctor is immutable", AppointmentStatusCancelledByDoctor, AppointmentStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Appointment{Status: tt.from}
			assert.Equal(t, tt.allowed, a.CanTransitionTo(tt.to, RoleDoctor))
		})
	}
}

func TestCanTransitionTo_Admin(t *testing.T) {
	a := &Appointment{Status: AppointmentStatusPending}
	assert.False(t, a.CanTransitionTo(AppointmentStatusConfirmed, RoleAdmin))
	assert.False(t, a.CanTransitionTo(AppointmentStatusCancelled, RoleAdmin))
}

package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestActorIs(t *testing.T) {
	actor := Actor{ID: uuid.New(), Email: "doc@clinic.test", Role: RoleDoctor}

	assert.True(t, actor.Is(RoleDoctor))
	assert.False(t, actor.Is(RolePatient))
	assert.False(t, actor.Is(RoleAdmin))
}

func TestActorHasAnyRole(t *testing.T) {
	actor := Actor{ID: uuid.New(), Role: RolePatient}

	assert.True(t, actor.HasAnyRole(RolePatient))
	assert.True(t, actor.HasAnyRole(RoleDoctor, RolePatient))
	assert.False(t, actor.HasAnyRole(RoleDoctor, RoleAdmin))
	assert.False(t, actor.HasAnyRole())
}

package entity

import "github.com/google/uuid"

// Actor is the authenticated identity an operation runs as. It carries just
// the claims needed for authorization decisions, never the full account row.
type Actor struct {
	ID    uuid.UUID
	Email string
	Role  Role
}

// Is reports whether the actor holds the given role
func (a Actor) Is(role Role) bool {
	return a.Role == role
}

// HasAnyRole reports whether the actor holds any of the given roles
func (a Actor) HasAnyRole(roles ...Role) bool {
	for _, role := range roles {
		if a.Role == role {
			return true
		}
	}
	return false
}

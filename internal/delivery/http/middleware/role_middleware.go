package middleware

import (
	"net/http"

	"github.com/techsplot/smart-health-backend/internal/domain/entity"
	"github.com/techsplot/smart-health-backend/pkg/response"
)

// RequireRole creates a middleware that checks if the actor holds any of the
// allowed roles. Role is read from context (set by AuthMiddleware from JWT claims).
func RequireRole(allowedRoles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActorFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			if !actor.HasAnyRole(allowedRoles...) {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)(next)
}

// RequireDoctor is a convenience middleware for doctor-only endpoints
func RequireDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleDoctor)(next)
}

// RequirePatient is a convenience middleware for patient-only endpoints
func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RolePatient)(next)
}

// RequirePatientOrAdmin is a convenience middleware for order-status endpoints
func RequirePatientOrAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RolePatient, entity.RoleAdmin)(next)
}

// RequirePatientOrDoctor is a convenience middleware for shared appointment endpoints
func RequirePatientOrDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RolePatient, entity.RoleDoctor)(next)
}

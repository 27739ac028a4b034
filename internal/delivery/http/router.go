package http

import (
	"net/http"

	"github.com/techsplot/smart-health-backend/internal/delivery/http/handler"
	"github.com/techsplot/smart-health-backend/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	accountHandler      *handler.AccountHandler
	appointmentHandler  *handler.AppointmentHandler
	prescriptionHandler *handler.PrescriptionHandler
	pharmacyHandler     *handler.PharmacyHandler
	notificationHandler *handler.NotificationHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	accountHandler *handler.AccountHandler,
	appointmentHandler *handler.AppointmentHandler,
	prescriptionHandler *handler.PrescriptionHandler,
	pharmacyHandler *handler.PharmacyHandler,
	notificationHandler *handler.NotificationHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		accountHandler:      accountHandler,
		appointmentHandler:  appointmentHandler,
		prescriptionHandler: prescriptionHandler,
		pharmacyHandler:     pharmacyHandler,
		notificationHandler: notificationHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)
	auth.HandleFunc("/forgot-password", r.authHandler.ForgotPassword).Methods(http.MethodPost)
	auth.HandleFunc("/reset-password", r.authHandler.ResetPassword).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Doctor directory (public)
	api.HandleFunc("/doctors", r.accountHandler.ListDoctors).Methods(http.MethodGet)

	// Appointment routes (patients and doctors)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.Use(middleware.RequirePatientOrDoctor)
	appointments.HandleFunc("", r.appointmentHandler.List).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}/status", r.appointmentHandler.UpdateStatus).Methods(http.MethodPatch)
	appointments.HandleFunc("/{id}/prescription", r.prescriptionHandler.GetByAppointment).Methods(http.MethodGet)

	// Booking and deletion are patient-only
	appointmentsPatient := api.PathPrefix("/appointments").Subrouter()
	appointmentsPatient.Use(r.authMiddleware.Authenticate)
	appointmentsPatient.Use(middleware.RequirePatient)
	appointmentsPatient.HandleFunc("", r.appointmentHandler.Book).Methods(http.MethodPost)
	appointmentsPatient.HandleFunc("/{id}", r.appointmentHandler.Delete).Methods(http.MethodDelete)

	// Completion and cancellation shortcuts are doctor-only
	appointmentsDoctor := api.PathPrefix("/appointments").Subrouter()
	appointmentsDoctor.Use(r.authMiddleware.Authenticate)
	appointmentsDoctor.Use(middleware.RequireDoctor)
	appointmentsDoctor.HandleFunc("/{id}/complete", r.appointmentHandler.Complete).Methods(http.MethodPost)
	appointmentsDoctor.HandleFunc("/{id}/cancel", r.appointmentHandler.Cancel).Methods(http.MethodPost)

	// Prescription routes
	prescriptions := api.PathPrefix("/prescriptions").Subrouter()
	prescriptions.Use(r.authMiddleware.Authenticate)
	prescriptions.Use(middleware.RequirePatientOrDoctor)
	prescriptions.HandleFunc("", r.prescriptionHandler.List).Methods(http.MethodGet)

	prescriptionsDoctor := api.PathPrefix("/prescriptions").Subrouter()
	prescriptionsDoctor.Use(r.authMiddleware.Authenticate)
	prescriptionsDoctor.Use(middleware.RequireDoctor)
	prescriptionsDoctor.HandleFunc("", r.prescriptionHandler.Issue).Methods(http.MethodPost)

	// Drug order routes
	orders := api.PathPrefix("/orders").Subrouter()
	orders.Use(r.authMiddleware.Authenticate)
	orders.HandleFunc("", r.pharmacyHandler.ListOrders).Methods(http.MethodGet)
	orders.HandleFunc("/{id}/status", r.pharmacyHandler.UpdateOrderStatus).Methods(http.MethodPatch)

	ordersPatient := api.PathPrefix("/orders").Subrouter()
	ordersPatient.Use(r.authMiddleware.Authenticate)
	ordersPatient.Use(middleware.RequirePatient)
	ordersPatient.HandleFunc("", r.pharmacyHandler.PlaceOrder).Methods(http.MethodPost)

	// Inventory browsing (any authenticated user)
	inventory := api.PathPrefix("/inventory").Subrouter()
	inventory.Use(r.authMiddleware.Authenticate)
	inventory.HandleFunc("", r.pharmacyHandler.ListInventory).Methods(http.MethodGet)

	// Notification routes
	notifications := api.PathPrefix("/notifications").Subrouter()
	notifications.Use(r.authMiddleware.Authenticate)
	notifications.HandleFunc("", r.notificationHandler.List).Methods(http.MethodGet)
	notifications.HandleFunc("/{id}/read", r.notificationHandler.MarkRead).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Account management (admin)
	admin.HandleFunc("/doctors", r.accountHandler.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/patients", r.accountHandler.ListPatients).Methods(http.MethodGet)

	// Inventory management (admin)
	admin.HandleFunc("/inventory", r.pharmacyHandler.CreateInventoryItem).Methods(http.MethodPost)
	admin.HandleFunc("/inventory/{id}", r.pharmacyHandler.UpdateInventoryItem).Methods(http.MethodPatch)
	admin.HandleFunc("/inventory/{id}", r.pharmacyHandler.DeleteInventoryItem).Methods(http.MethodDelete)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

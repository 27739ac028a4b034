package dto

// CreateDoctorRequest is the admin-driven doctor account creation payload
type CreateDoctorRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	FullName       string `json:"full_name" validate:"required,min=2,max=255"`
	Specialization string `json:"specialization" validate:"required,min=2,max=100"`
}

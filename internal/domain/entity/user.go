package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role represents an account role in the system
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// User represents the centralized account table for patients, doctors and admins
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"type:text;not null" json:"-"`
	FullName       string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Role           Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	Specialization *string   `gorm:"type:varchar(100)" json:"specialization,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsDoctor checks if the user holds the doctor role
func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}

// IsPatient checks if the user holds the patient role
func (u *User) IsPatient() bool {
	return u.Role == RolePatient
}

// IsAdmin checks if the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrMalformedDrugList is returned when a stored drug list cannot be decoded
var ErrMalformedDrugList = errors.New("malformed drug list")

// DrugItem is a single entry on a prescription
type DrugItem struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Instructions string `json:"instructions,omitempty"`
}

// DrugList is the ordered list of prescribed drugs, stored as JSONB
type DrugList []DrugItem

// Value returns the JSONB value, implements driver.Valuer
func (d DrugList) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// Scan decodes a JSONB value into the list, implements sql.Scanner
func (d *DrugList) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("%w: unexpected type %T", ErrMalformedDrugList, value)
	}

	var list []DrugItem
	if err := json.Unmarshal(bytes, &list); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDrugList, err)
	}
	*d = list
	return nil
}

// Prescription represents the drugs a doctor issued for a completed
// appointment. At most one prescription exists per appointment and it is
// immutable once created.
type Prescription struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"appointment_id"`
	DoctorID      uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Drugs         DrugList  `gorm:"type:jsonb;not null" json:"drugs"`
	IssuedAt      time.Time `gorm:"autoCreateTime" json:"issued_at"`

	// Relationships
	Appointment *Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
	Doctor      *User        `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

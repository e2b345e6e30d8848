package note

import (
	"time"

	"github.com/google/uuid"
)

// Note is a clinical note. AppointmentID links the note to the visit it
// documents; standalone notes leave it nil.
type Note struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	Author        string     `db:"author" json:"author"`
	Body          string     `db:"body" json:"body"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

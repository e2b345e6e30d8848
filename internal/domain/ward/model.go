package ward

import (
	"time"

	"github.com/google/uuid"
)

// BedStatus is the closed set of states a bed can be in.
type BedStatus string

const (
	BedEmpty    BedStatus = "empty"
	BedOccupied BedStatus = "occupied"
	BedCleaning BedStatus = "cleaning"
)

func (s BedStatus) Valid() bool {
	switch s {
	case BedEmpty, BedOccupied, BedCleaning:
		return true
	}
	return false
}

type Ward struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Occupant identifies who holds a bed. All fields are set together on
// admit and cleared together on discharge.
type Occupant struct {
	PatientID   uuid.UUID `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	Provider    string    `json:"provider"`
}

type Bed struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	WardID              uuid.UUID  `db:"ward_id" json:"ward_id"`
	Name                string     `db:"name" json:"name"`
	Status              BedStatus  `db:"status" json:"status"`
	OccupantPatientID   *uuid.UUID `db:"occupant_patient_id" json:"occupant_patient_id,omitempty"`
	OccupantPatientName *string    `db:"occupant_patient_name" json:"occupant_patient_name,omitempty"`
	OccupantProvider    *string    `db:"occupant_provider" json:"occupant_provider,omitempty"`
	AdmittedAt          *time.Time `db:"admitted_at" json:"admitted_at,omitempty"`
	DischargedAt        *time.Time `db:"discharged_at" json:"discharged_at,omitempty"`
	Version             int        `db:"version" json:"version"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
}

// Occupant returns the current holder, or nil for a bed that is not
// occupied.
func (b *Bed) Occupant() *Occupant {
	if b.Status != BedOccupied || b.OccupantPatientID == nil {
		return nil
	}
	occ := &Occupant{PatientID: *b.OccupantPatientID}
	if b.OccupantPatientName != nil {
		occ.PatientName = *b.OccupantPatientName
	}
	if b.OccupantProvider != nil {
		occ.Provider = *b.OccupantProvider
	}
	return occ
}

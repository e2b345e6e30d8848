package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Status is the closed set of appointment lifecycle states.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusArrived   Status = "arrived"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusArrived, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Terminal reports whether no further lifecycle transition is permitted.
// Deletion is not a transition and remains possible from any state.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// CanTransition reports whether the edge s -> to exists in the lifecycle
// graph. no-show is representable (staff mark it for reporting) but no
// service operation produces it.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusScheduled:
		return to == StatusArrived || to == StatusCancelled || to == StatusNoShow
	case StatusArrived:
		return to == StatusCompleted || to == StatusCancelled
	default:
		return false
	}
}

// Priority is the booking priority shown on the day list.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
)

// Valid reports whether p is a known priority value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

// Appointment maps to the appointment table.
type Appointment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	PatientName string    `db:"patient_name" json:"patient_name"`
	Provider    string    `db:"provider" json:"provider"`
	Type        string    `db:"type" json:"type"`
	Date        time.Time `db:"date" json:"date"`
	TimeOfDay   string    `db:"time_of_day" json:"time_of_day"`
	Status      Status    `db:"status" json:"status"`
	Priority    Priority  `db:"priority" json:"priority"`
	Notes       string    `db:"notes" json:"notes"`
	Version     int       `db:"version" json:"version"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// StatusChange maps to the appointment_status_history table. One row is
// recorded per lifecycle transition.
type StatusChange struct {
	ID            uuid.UUID `db:"id" json:"id"`
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	From          Status    `db:"from_status" json:"from_status"`
	To            Status    `db:"to_status" json:"to_status"`
	ChangedAt     time.Time `db:"changed_at" json:"changed_at"`
}

// Package episode ties appointments to the clinical records they
// produce: saving a visit note closes out the appointment, and ward
// admissions can borrow patient details from a booked appointment.
package episode

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/carenet/hms/internal/domain/appointment"
	"github.com/carenet/hms/internal/domain/note"
	"github.com/carenet/hms/internal/domain/ward"
	"github.com/carenet/hms/internal/platform/db"
	"github.com/carenet/hms/internal/platform/hmserr"
)

type Service struct {
	notes *note.Service
	appts *appointment.Service
	wards *ward.Service
	tx    db.TxRunner
}

func NewService(notes *note.Service, appts *appointment.Service, wards *ward.Service, tx db.TxRunner) *Service {
	return &Service{notes: notes, appts: appts, wards: wards, tx: tx}
}

// SaveNote persists a clinical note. A note linked to an appointment
// also completes that appointment; the note write and the completion
// commit or roll back together, so a visible note always implies a
// completed appointment.
func (s *Service) SaveNote(ctx context.Context, n *note.Note) (*note.Note, error) {
	if n.AppointmentID == nil {
		if err := s.notes.Create(ctx, n); err != nil {
			return nil, err
		}
		return s.notes.Get(ctx, n.ID)
	}

	if err := s.NoteEligible(ctx, *n.AppointmentID); err != nil {
		return nil, err
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.notes.Create(ctx, n); err != nil {
			return err
		}
		if _, err := s.appts.Complete(ctx, *n.AppointmentID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("note_id", n.ID.String()).
		Str("appointment_id", n.AppointmentID.String()).
		Msg("visit note saved, appointment completed")
	return s.notes.Get(ctx, n.ID)
}

// NoteEligible reports whether a visit note may be written against the
// appointment: the patient must have arrived and the visit must still
// be open.
func (s *Service) NoteEligible(ctx context.Context, appointmentID uuid.UUID) error {
	a, err := s.appts.Get(ctx, appointmentID)
	if err != nil {
		return err
	}
	if a.Status != appointment.StatusArrived {
		return hmserr.NewInvalidTransition("appointment", appointmentID.String(), string(a.Status), "write note for")
	}
	return nil
}

// RetryCompletion re-issues the completion for an appointment whose
// note committed but whose status write was lost. Already-completed
// appointments pass through untouched.
func (s *Service) RetryCompletion(ctx context.Context, appointmentID uuid.UUID) (*appointment.Appointment, error) {
	a, err := s.appts.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if a.Status == appointment.StatusCompleted {
		return a, nil
	}
	notes, err := s.notes.ListByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, hmserr.NewInvalidTransition("appointment", appointmentID.String(), string(a.Status), "retry completion of")
	}
	return s.appts.Complete(ctx, appointmentID)
}

// AdmissionRequest carries a bed-admit request. Either the occupant
// fields are supplied directly or AppointmentID names a booking to
// copy them from.
type AdmissionRequest struct {
	WardID        uuid.UUID  `json:"ward_id"`
	BedID         uuid.UUID  `json:"bed_id"`
	PatientID     uuid.UUID  `json:"patient_id"`
	PatientName   string     `json:"patient_name"`
	Provider      string     `json:"provider"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
}

// AdmitToWard places a patient into a bed. Admission and appointment
// lifecycle stay independent: linking an appointment only fills in the
// occupant details, it never moves the appointment's status.
func (s *Service) AdmitToWard(ctx context.Context, req AdmissionRequest) (*ward.Bed, error) {
	occ := ward.Occupant{
		PatientID:   req.PatientID,
		PatientName: strings.TrimSpace(req.PatientName),
		Provider:    strings.TrimSpace(req.Provider),
	}
	if req.AppointmentID != nil {
		a, err := s.appts.Get(ctx, *req.AppointmentID)
		if err != nil {
			return nil, err
		}
		if occ.PatientID == uuid.Nil {
			occ.PatientID = a.PatientID
		}
		if occ.PatientName == "" {
			occ.PatientName = a.PatientName
		}
		if occ.Provider == "" {
			occ.Provider = a.Provider
		}
	}
	return s.wards.Admit(ctx, req.WardID, req.BedID, occ)
}

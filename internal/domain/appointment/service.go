package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/carenet/hms/internal/platform/hmserr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// BookInput carries the client-supplied fields for a new appointment.
type BookInput struct {
	PatientID   uuid.UUID `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	Provider    string    `json:"provider"`
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
	TimeOfDay   string    `json:"time_of_day"`
	Priority    Priority  `json:"priority"`
	Notes       string    `json:"notes"`
}

func (s *Service) Book(ctx context.Context, in BookInput) (*Appointment, error) {
	if in.PatientID == uuid.Nil {
		return nil, hmserr.NewValidation("patient_id", "is required")
	}
	if strings.TrimSpace(in.PatientName) == "" {
		return nil, hmserr.NewValidation("patient_name", "is required")
	}
	if strings.TrimSpace(in.Provider) == "" {
		return nil, hmserr.NewValidation("provider", "is required")
	}
	if in.Date.IsZero() {
		return nil, hmserr.NewValidation("date", "is required")
	}
	if strings.TrimSpace(in.TimeOfDay) == "" {
		return nil, hmserr.NewValidation("time_of_day", "is required")
	}
	if in.Priority == "" {
		in.Priority = PriorityNormal
	}
	if !in.Priority.Valid() {
		return nil, hmserr.NewValidation("priority", "must be one of Low, Normal, High")
	}

	a := &Appointment{
		PatientID:   in.PatientID,
		PatientName: strings.TrimSpace(in.PatientName),
		Provider:    strings.TrimSpace(in.Provider),
		Type:        strings.TrimSpace(in.Type),
		Date:        calendarDay(in.Date),
		TimeOfDay:   strings.TrimSpace(in.TimeOfDay),
		Status:      StatusScheduled,
		Priority:    in.Priority,
		Notes:       in.Notes,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	log.Info().
		Str("appointment_id", a.ID.String()).
		Str("provider", a.Provider).
		Time("date", a.Date).
		Msg("appointment booked")
	return s.repo.GetByID(ctx, a.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// DayList returns the schedule for one calendar day, arrived patients
// first, then everyone else in booking order.
func (s *Service) DayList(ctx context.Context, date time.Time, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByDate(ctx, calendarDay(date), limit, offset)
}

// calendarDay keeps the wall-clock date the caller named, whatever zone
// the input arrived in.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Service) Arrive(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.transition(ctx, id, "arrive", StatusArrived, StatusScheduled)
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.transition(ctx, id, "cancel", StatusCancelled, StatusScheduled, StatusArrived)
}

func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.transition(ctx, id, "complete", StatusCompleted, StatusArrived)
}

// transition applies one guarded status change. The conditional update
// only succeeds from an allowed prior status, so two racing callers
// cannot both move the same appointment.
func (s *Service) transition(ctx context.Context, id uuid.UUID, action string, to Status, from ...Status) (*Appointment, error) {
	prior, ok, err := s.repo.TransitionStatus(ctx, id, to, from...)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The guard missed: either the row is gone or it sits in a
		// state the action does not apply to. Re-read to tell which.
		cur, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, hmserr.NewInvalidTransition("appointment", id.String(), string(cur.Status), action)
	}

	sc := &StatusChange{
		AppointmentID: id,
		From:          prior,
		To:            to,
		ChangedAt:     time.Now().UTC(),
	}
	if err := s.repo.AddStatusChange(ctx, sc); err != nil {
		log.Warn().Err(err).
			Str("appointment_id", id.String()).
			Msg("status history write failed")
	}

	log.Info().
		Str("appointment_id", id.String()).
		Str("from", string(prior)).
		Str("to", string(to)).
		Msg("appointment transitioned")
	return s.repo.GetByID(ctx, id)
}

// Delete removes an appointment permanently, whatever its status. The
// caller must pass confirmed=true; this is the only way out for
// records in a terminal state.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return hmserr.NewPermissionDenied("delete appointment without confirmation")
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return hmserr.NewNotFound("appointment", id.String())
	}
	log.Info().Str("appointment_id", id.String()).Msg("appointment deleted")
	return nil
}

func (s *Service) History(ctx context.Context, id uuid.UUID) ([]*StatusChange, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.GetStatusHistory(ctx, id)
}

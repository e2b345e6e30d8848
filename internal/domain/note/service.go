package note

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/carenet/hms/internal/platform/hmserr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, n *Note) error {
	if n.PatientID == uuid.Nil {
		return hmserr.NewValidation("patient_id", "is required")
	}
	if strings.TrimSpace(n.Body) == "" {
		return hmserr.NewValidation("body", "is required")
	}
	if strings.TrimSpace(n.Author) == "" {
		return hmserr.NewValidation("author", "is required")
	}
	return s.repo.Create(ctx, n)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Note, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Note, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*Note, error) {
	return s.repo.ListByAppointment(ctx, appointmentID)
}

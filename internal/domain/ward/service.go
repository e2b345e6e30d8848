package ward

import (
	"context"
	"fmt"
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

func (s *Service) CreateWard(ctx context.Context, name string) (*Ward, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, hmserr.NewValidation("name", "is required")
	}
	w := &Ward{Name: name}
	if err := s.repo.CreateWard(ctx, w); err != nil {
		return nil, err
	}
	log.Info().Str("ward_id", w.ID.String()).Str("name", w.Name).Msg("ward created")
	return s.repo.GetWard(ctx, w.ID)
}

func (s *Service) GetWard(ctx context.Context, id uuid.UUID) (*Ward, error) {
	return s.repo.GetWard(ctx, id)
}

func (s *Service) ListWards(ctx context.Context, limit, offset int) ([]*Ward, int, error) {
	return s.repo.ListWards(ctx, limit, offset)
}

// AddBed appends a new empty bed to a ward. Beds are never removed;
// the pool only grows.
func (s *Service) AddBed(ctx context.Context, wardID uuid.UUID, name string) (*Bed, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, hmserr.NewValidation("name", "is required")
	}
	if _, err := s.repo.GetWard(ctx, wardID); err != nil {
		return nil, err
	}
	b := &Bed{WardID: wardID, Name: name}
	if err := s.repo.AddBed(ctx, b); err != nil {
		return nil, err
	}
	return s.repo.GetBed(ctx, wardID, b.ID)
}

// Beds returns the bed board for one ward.
func (s *Service) Beds(ctx context.Context, wardID uuid.UUID) ([]*Bed, error) {
	if _, err := s.repo.GetWard(ctx, wardID); err != nil {
		return nil, err
	}
	return s.repo.ListBeds(ctx, wardID)
}

// Admit places an occupant into a specific bed. The bed row is claimed
// with a conditional update, so only one of two concurrent admits can
// win; the loser gets a ConflictError naming who holds the bed. A
// single retry covers the case where the bed was freed between the
// failed claim and the re-read.
func (s *Service) Admit(ctx context.Context, wardID, bedID uuid.UUID, occ Occupant) (*Bed, error) {
	if occ.PatientID == uuid.Nil {
		return nil, hmserr.NewValidation("patient_id", "is required")
	}
	if strings.TrimSpace(occ.PatientName) == "" {
		return nil, hmserr.NewValidation("patient_name", "is required")
	}
	occ.PatientName = strings.TrimSpace(occ.PatientName)
	occ.Provider = strings.TrimSpace(occ.Provider)

	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.repo.OccupyBed(ctx, wardID, bedID, occ, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		if ok {
			log.Info().
				Str("ward_id", wardID.String()).
				Str("bed_id", bedID.String()).
				Str("patient_id", occ.PatientID.String()).
				Msg("patient admitted")
			return s.repo.GetBed(ctx, wardID, bedID)
		}

		b, err := s.repo.GetBed(ctx, wardID, bedID)
		if err != nil {
			return nil, err
		}
		if b.Status != BedEmpty {
			return nil, hmserr.NewConflict("bed", bedID.String(), describeBed(b))
		}
		// The bed reads empty again: the claim lost to a writer that
		// has since released. Loop for one more attempt.
	}
	return nil, hmserr.NewConflict("bed", bedID.String(), "contended")
}

// Discharge frees an occupied bed.
func (s *Service) Discharge(ctx context.Context, wardID, bedID uuid.UUID) (*Bed, error) {
	ok, err := s.repo.ReleaseBed(ctx, wardID, bedID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		b, err := s.repo.GetBed(ctx, wardID, bedID)
		if err != nil {
			return nil, err
		}
		return nil, hmserr.NewInvalidTransition("bed", bedID.String(), string(b.Status), "discharge")
	}
	log.Info().
		Str("ward_id", wardID.String()).
		Str("bed_id", bedID.String()).
		Msg("patient discharged")
	return s.repo.GetBed(ctx, wardID, bedID)
}

// MarkCleaning takes an empty bed out of the admittable pool.
func (s *Service) MarkCleaning(ctx context.Context, wardID, bedID uuid.UUID) (*Bed, error) {
	return s.flip(ctx, wardID, bedID, BedEmpty, BedCleaning, "mark cleaning")
}

// FinishCleaning returns a cleaned bed to the pool.
func (s *Service) FinishCleaning(ctx context.Context, wardID, bedID uuid.UUID) (*Bed, error) {
	return s.flip(ctx, wardID, bedID, BedCleaning, BedEmpty, "finish cleaning")
}

func (s *Service) flip(ctx context.Context, wardID, bedID uuid.UUID, from, to BedStatus, action string) (*Bed, error) {
	ok, err := s.repo.SetBedStatus(ctx, wardID, bedID, from, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		b, err := s.repo.GetBed(ctx, wardID, bedID)
		if err != nil {
			return nil, err
		}
		return nil, hmserr.NewInvalidTransition("bed", bedID.String(), string(b.Status), action)
	}
	return s.repo.GetBed(ctx, wardID, bedID)
}

func describeBed(b *Bed) string {
	if occ := b.Occupant(); occ != nil {
		return fmt.Sprintf("%s by %s", b.Status, occ.PatientName)
	}
	return string(b.Status)
}

package ward

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists wards and beds. The bed mutators are conditional
// updates keyed on the expected current status; they report whether the
// update applied so the service can distinguish a lost race from a
// missing row.
type Repository interface {
	CreateWard(ctx context.Context, w *Ward) error
	GetWard(ctx context.Context, id uuid.UUID) (*Ward, error)
	ListWards(ctx context.Context, limit, offset int) ([]*Ward, int, error)

	AddBed(ctx context.Context, b *Bed) error
	GetBed(ctx context.Context, wardID, bedID uuid.UUID) (*Bed, error)
	ListBeds(ctx context.Context, wardID uuid.UUID) ([]*Bed, error)

	// OccupyBed moves an empty bed to occupied with the given occupant.
	OccupyBed(ctx context.Context, wardID, bedID uuid.UUID, occ Occupant, at time.Time) (bool, error)
	// ReleaseBed moves an occupied bed back to empty, clearing the occupant.
	ReleaseBed(ctx context.Context, wardID, bedID uuid.UUID, at time.Time) (bool, error)
	// SetBedStatus flips a bed between non-occupied states.
	SetBedStatus(ctx context.Context, wardID, bedID uuid.UUID, from, to BedStatus) (bool, error)
}

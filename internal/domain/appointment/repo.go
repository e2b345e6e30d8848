package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*Appointment, int, error)
	// ListByDate returns the day list, arrived entries first, natural
	// booking order otherwise.
	ListByDate(ctx context.Context, date time.Time, limit, offset int) ([]*Appointment, int, error)

	// TransitionStatus atomically moves the appointment to the target
	// status if (and only if) its current status is one of from. It
	// returns the prior status and whether the update applied; a miss
	// with ok=false and no error means the precondition did not hold.
	TransitionStatus(ctx context.Context, id uuid.UUID, to Status, from ...Status) (Status, bool, error)

	AddStatusChange(ctx context.Context, sc *StatusChange) error
	GetStatusHistory(ctx context.Context, appointmentID uuid.UUID) ([]*StatusChange, error)
}

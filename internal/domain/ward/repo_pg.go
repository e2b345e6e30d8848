package ward

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carenet/hms/internal/platform/db"
	"github.com/carenet/hms/internal/platform/hmserr"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) CreateWard(ctx context.Context, w *Ward) error {
	w.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO ward (id, name) VALUES ($1, $2)`, w.ID, w.Name)
	return err
}

func (r *repoPG) GetWard(ctx context.Context, id uuid.UUID) (*Ward, error) {
	var w Ward
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, created_at FROM ward WHERE id = $1`, id,
	).Scan(&w.ID, &w.Name, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, hmserr.NewNotFound("ward", id.String())
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *repoPG) ListWards(ctx context.Context, limit, offset int) ([]*Ward, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM ward`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, name, created_at FROM ward ORDER BY name LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var wards []*Ward
	for rows.Next() {
		var w Ward
		if err := rows.Scan(&w.ID, &w.Name, &w.CreatedAt); err != nil {
			return nil, 0, err
		}
		wards = append(wards, &w)
	}
	return wards, total, rows.Err()
}

const bedCols = `id, ward_id, name, status, occupant_patient_id, occupant_patient_name,
	occupant_provider, admitted_at, discharged_at, version, created_at`

func (r *repoPG) AddBed(ctx context.Context, b *Bed) error {
	b.ID = uuid.New()
	b.Status = BedEmpty
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO bed (id, ward_id, name, status) VALUES ($1, $2, $3, $4)`,
		b.ID, b.WardID, b.Name, b.Status)
	return err
}

func (r *repoPG) GetBed(ctx context.Context, wardID, bedID uuid.UUID) (*Bed, error) {
	b, err := scanBed(r.conn(ctx).QueryRow(ctx,
		`SELECT `+bedCols+` FROM bed WHERE id = $1 AND ward_id = $2`, bedID, wardID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, hmserr.NewNotFound("bed", bedID.String())
	}
	return b, err
}

func (r *repoPG) ListBeds(ctx context.Context, wardID uuid.UUID) ([]*Bed, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+bedCols+` FROM bed WHERE ward_id = $1 ORDER BY name`, wardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var beds []*Bed
	for rows.Next() {
		b, err := scanBed(rows)
		if err != nil {
			return nil, err
		}
		beds = append(beds, b)
	}
	return beds, rows.Err()
}

// OccupyBed is the allocation CAS: the update applies only while the
// bed row still reads empty, so two racing admits resolve to exactly
// one winner at the database.
func (r *repoPG) OccupyBed(ctx context.Context, wardID, bedID uuid.UUID, occ Occupant, at time.Time) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bed SET
			status = $3,
			occupant_patient_id = $4,
			occupant_patient_name = $5,
			occupant_provider = $6,
			admitted_at = $7,
			discharged_at = NULL,
			version = version + 1
		WHERE id = $1 AND ward_id = $2 AND status = $8`,
		bedID, wardID, BedOccupied,
		occ.PatientID, occ.PatientName, occ.Provider, at, BedEmpty)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) ReleaseBed(ctx context.Context, wardID, bedID uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bed SET
			status = $3,
			occupant_patient_id = NULL,
			occupant_patient_name = NULL,
			occupant_provider = NULL,
			admitted_at = NULL,
			discharged_at = $4,
			version = version + 1
		WHERE id = $1 AND ward_id = $2 AND status = $5`,
		bedID, wardID, BedEmpty, at, BedOccupied)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) SetBedStatus(ctx context.Context, wardID, bedID uuid.UUID, from, to BedStatus) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bed SET status = $3, version = version + 1
		WHERE id = $1 AND ward_id = $2 AND status = $4`,
		bedID, wardID, to, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanBed(row pgx.Row) (*Bed, error) {
	var b Bed
	err := row.Scan(
		&b.ID, &b.WardID, &b.Name, &b.Status,
		&b.OccupantPatientID, &b.OccupantPatientName, &b.OccupantProvider,
		&b.AdmittedAt, &b.DischargedAt, &b.Version, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

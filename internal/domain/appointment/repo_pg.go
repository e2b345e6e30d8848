package appointment

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

const apptCols = `id, patient_id, patient_name, provider, type, date, time_of_day,
	status, priority, notes, version, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointment (
			id, patient_id, patient_name, provider, type, date, time_of_day,
			status, priority, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.PatientID, a.PatientName, a.Provider, a.Type, a.Date, a.TimeOfDay,
		a.Status, a.Priority, a.Notes,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppt(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, hmserr.NewNotFound("appointment", id.String())
	}
	return a, err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointment`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+apptCols+` FROM appointment ORDER BY date, created_at LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAppts(rows, total)
}

func (r *repoPG) ListByDate(ctx context.Context, date time.Time, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointment WHERE date = $1`, date).Scan(&total); err != nil {
		return nil, 0, err
	}
	// Patients physically present take queue precedence; among the rest
	// the stable booking order holds.
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE date = $1
		ORDER BY CASE WHEN status = 'arrived' THEN 0 ELSE 1 END, created_at
		LIMIT $2 OFFSET $3`,
		date, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAppts(rows, total)
}

func (r *repoPG) TransitionStatus(ctx context.Context, id uuid.UUID, to Status, from ...Status) (Status, bool, error) {
	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	// The subselect in RETURNING evaluates against the statement's
	// snapshot, yielding the status the row held before this update.
	var prior string
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE appointment
		SET status = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)
		RETURNING (SELECT status FROM appointment WHERE id = $1)`,
		id, to, allowed,
	).Scan(&prior)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return Status(prior), true, nil
}

func (r *repoPG) AddStatusChange(ctx context.Context, sc *StatusChange) error {
	sc.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointment_status_history (id, appointment_id, from_status, to_status, changed_at)
		VALUES ($1,$2,$3,$4,$5)`,
		sc.ID, sc.AppointmentID, sc.From, sc.To, sc.ChangedAt,
	)
	return err
}

func (r *repoPG) GetStatusHistory(ctx context.Context, appointmentID uuid.UUID) ([]*StatusChange, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, appointment_id, from_status, to_status, changed_at
		FROM appointment_status_history WHERE appointment_id = $1 ORDER BY changed_at`,
		appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []*StatusChange
	for rows.Next() {
		var sc StatusChange
		if err := rows.Scan(&sc.ID, &sc.AppointmentID, &sc.From, &sc.To, &sc.ChangedAt); err != nil {
			return nil, err
		}
		changes = append(changes, &sc)
	}
	return changes, rows.Err()
}

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID, &a.PatientID, &a.PatientName, &a.Provider, &a.Type, &a.Date, &a.TimeOfDay,
		&a.Status, &a.Priority, &a.Notes, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectAppts(rows pgx.Rows, total int) ([]*Appointment, int, error) {
	var appts []*Appointment
	for rows.Next() {
		var a Appointment
		err := rows.Scan(
			&a.ID, &a.PatientID, &a.PatientName, &a.Provider, &a.Type, &a.Date, &a.TimeOfDay,
			&a.Status, &a.Priority, &a.Notes, &a.Version, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		appts = append(appts, &a)
	}
	return appts, total, rows.Err()
}

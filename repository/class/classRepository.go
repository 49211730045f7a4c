// repository/class/classRepository.go
package class

import (
	"context"
	"database/sql"

	"github.com/8clublagree/8clublagree/model"
)

type Repo interface {
	Create(ctx context.Context, c *model.Class) error
	List(ctx context.Context, offeredOnly bool) ([]model.Class, error)
	ByID(ctx context.Context, id int64) (*model.Class, error)

	// GetForUpdate locks the class row for the duration of the transaction.
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Class, error)

	// ReserveSlot is the capacity check and increment as one conditional
	// write; returns false when the class is full.
	ReserveSlot(ctx context.Context, tx *sql.Tx, classID int64) (bool, error)

	// ReleaseSlot decrements taken_slots, floored at zero.
	ReleaseSlot(ctx context.Context, tx *sql.Tx, classID int64) error

	// RecountTakenSlots rewrites the counter from the authoritative booking
	// rows; used by the reconciliation job.
	RecountTakenSlots(ctx context.Context, classID int64) (int, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, c *model.Class) error {
	const q = `
		INSERT INTO classes
			(instructor_id, instructor_name, class_date, start_time, end_time,
			 available_slots, taken_slots, offered_to_clients)
		VALUES ($1,$2,$3,$4,$5,$6,0,$7)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		c.InstructorID, c.InstructorName, c.ClassDate, c.StartTime, c.EndTime,
		c.AvailableSlots, c.OfferedToClients,
	).Scan(&c.ID, &c.CreatedAt)
}

const classCols = `
	id, instructor_id, instructor_name, class_date, start_time, end_time,
	available_slots, taken_slots, offered_to_clients, created_at`

func (r *repo) List(ctx context.Context, offeredOnly bool) ([]model.Class, error) {
	q := `SELECT ` + classCols + ` FROM classes`
	if offeredOnly {
		q += ` WHERE offered_to_clients = TRUE`
	}
	q += ` ORDER BY class_date, start_time`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Class
	for rows.Next() {
		var c model.Class
		if err := scanClass(rows.Scan, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Class, error) {
	c := &model.Class{}
	err := scanClass(r.db.QueryRowContext(ctx,
		`SELECT `+classCols+` FROM classes WHERE id = $1`, id).Scan, c)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Class, error) {
	c := &model.Class{}
	err := scanClass(tx.QueryRowContext(ctx,
		`SELECT `+classCols+` FROM classes WHERE id = $1 FOR UPDATE`, id).Scan, c)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repo) ReserveSlot(ctx context.Context, tx *sql.Tx, classID int64) (bool, error) {
	const q = `
		UPDATE classes
		SET taken_slots = taken_slots + 1
		WHERE id = $1
		AND taken_slots < available_slots`
	res, err := tx.ExecContext(ctx, q, classID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

func (r *repo) ReleaseSlot(ctx context.Context, tx *sql.Tx, classID int64) error {
	const q = `
		UPDATE classes
		SET taken_slots = GREATEST(taken_slots - 1, 0)
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, classID)
	return err
}

func (r *repo) RecountTakenSlots(ctx context.Context, classID int64) (int, error) {
	const q = `
		UPDATE classes c
		SET taken_slots = (
			SELECT COUNT(*)
			FROM class_bookings b
			WHERE b.class_id = c.id
			AND b.attendance_status <> 'cancelled'
		)
		WHERE c.id = $1
		RETURNING taken_slots`
	var n int
	err := r.db.QueryRowContext(ctx, q, classID).Scan(&n)
	return n, err
}

func scanClass(scan func(...any) error, c *model.Class) error {
	return scan(
		&c.ID, &c.InstructorID, &c.InstructorName, &c.ClassDate, &c.StartTime,
		&c.EndTime, &c.AvailableSlots, &c.TakenSlots, &c.OfferedToClients, &c.CreatedAt,
	)
}

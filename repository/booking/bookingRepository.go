// repository/booking/bookingRepository.go
package booking

import (
	"context"
	"database/sql"
	"time"

	"github.com/8clublagree/8clublagree/model"
)

// AttendeeRow is the per-class roster shape joined with booker identity.
type AttendeeRow struct {
	BookingID        int64                  `json:"booking_id"`
	BookerID         *int64                 `json:"booker_id,omitempty"`
	FirstName        string                 `json:"first_name"`
	LastName         string                 `json:"last_name"`
	Email            *string                `json:"email,omitempty"`
	IsWalkIn         bool                   `json:"is_walk_in"`
	AttendanceStatus model.AttendanceStatus `json:"attendance_status"`
}

// ReminderRow carries what the reminder email needs.
type ReminderRow struct {
	BookingID      int64
	Email          string
	FirstName      string
	ClassDate      time.Time
	StartTime      time.Time
	InstructorName string
}

type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, b *model.Booking) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Booking, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, st model.AttendanceStatus) error
	UpdateClass(ctx context.Context, tx *sql.Tx, id, newClassID int64, classDate time.Time) error

	ListByUser(ctx context.Context, userID int64) ([]model.Booking, error)
	ListAttendees(ctx context.Context, classID int64) ([]AttendeeRow, error)

	DueReminders(ctx context.Context, from, until time.Time) ([]ReminderRow, error)
	MarkReminded(ctx context.Context, ids []int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `
		INSERT INTO class_bookings
			(class_id, booker_id, is_walk_in, walk_in_first_name, walk_in_last_name,
			 walk_in_client_email, walk_in_client_contact_number, class_date,
			 attendance_status, credit_deducted, sent_email_reminder)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at`
	return tx.QueryRowContext(ctx, q,
		b.ClassID, b.BookerID, b.IsWalkIn, b.WalkInFirstName, b.WalkInLastName,
		b.WalkInEmail, b.WalkInContactNo, b.ClassDate,
		b.AttendanceStatus, b.CreditDeducted, b.SentEmailReminder,
	).Scan(&b.ID, &b.CreatedAt)
}

const bookingCols = `
	id, class_id, booker_id, is_walk_in, walk_in_first_name, walk_in_last_name,
	walk_in_client_email, walk_in_client_contact_number, class_date,
	attendance_status, credit_deducted, sent_email_reminder, created_at`

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Booking, error) {
	b := &model.Booking{}
	err := tx.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM class_bookings WHERE id = $1 FOR UPDATE`, id,
	).Scan(
		&b.ID, &b.ClassID, &b.BookerID, &b.IsWalkIn, &b.WalkInFirstName,
		&b.WalkInLastName, &b.WalkInEmail, &b.WalkInContactNo, &b.ClassDate,
		&b.AttendanceStatus, &b.CreditDeducted, &b.SentEmailReminder, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, st model.AttendanceStatus) error {
	const q = `
		UPDATE class_bookings
		SET attendance_status = $2
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, st)
	return err
}

func (r *repo) UpdateClass(ctx context.Context, tx *sql.Tx, id, newClassID int64, classDate time.Time) error {
	const q = `
		UPDATE class_bookings
		SET class_id = $2,
			class_date = $3
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, newClassID, classDate)
	return err
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingCols+`
		FROM class_bookings
		WHERE booker_id = $1
		ORDER BY class_date DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(
			&b.ID, &b.ClassID, &b.BookerID, &b.IsWalkIn, &b.WalkInFirstName,
			&b.WalkInLastName, &b.WalkInEmail, &b.WalkInContactNo, &b.ClassDate,
			&b.AttendanceStatus, &b.CreditDeducted, &b.SentEmailReminder, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) ListAttendees(ctx context.Context, classID int64) ([]AttendeeRow, error) {
	const q = `
		SELECT
			b.id,
			b.booker_id,
			COALESCE(u.first_name, b.walk_in_first_name, ''),
			COALESCE(u.last_name, b.walk_in_last_name, ''),
			COALESCE(u.email, b.walk_in_client_email),
			b.is_walk_in,
			b.attendance_status
		FROM class_bookings b
		LEFT JOIN users u ON u.id = b.booker_id
		WHERE b.class_id = $1
		ORDER BY b.id`
	rows, err := r.db.QueryContext(ctx, q, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AttendeeRow
	for rows.Next() {
		var a AttendeeRow
		if err := rows.Scan(
			&a.BookingID, &a.BookerID, &a.FirstName, &a.LastName,
			&a.Email, &a.IsWalkIn, &a.AttendanceStatus,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repo) DueReminders(ctx context.Context, from, until time.Time) ([]ReminderRow, error) {
	// Walk-ins are same-day bookings and never get a reminder.
	const q = `
		SELECT b.id, u.email, u.first_name, b.class_date, c.start_time, c.instructor_name
		FROM class_bookings b
		JOIN users u   ON u.id = b.booker_id
		JOIN classes c ON c.id = b.class_id
		WHERE b.class_date >= $1
		AND b.class_date <= $2
		AND b.attendance_status = 'reserved'
		AND b.is_walk_in = FALSE
		AND b.sent_email_reminder = FALSE`
	rows, err := r.db.QueryContext(ctx, q, from, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReminderRow
	for rows.Next() {
		var rr ReminderRow
		if err := rows.Scan(
			&rr.BookingID, &rr.Email, &rr.FirstName, &rr.ClassDate,
			&rr.StartTime, &rr.InstructorName,
		); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

func (r *repo) MarkReminded(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	const q = `
		UPDATE class_bookings
		SET sent_email_reminder = TRUE
		WHERE id = ANY($1)`
	_, err := r.db.ExecContext(ctx, q, ids)
	return err
}

package reminder

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/8clublagree/8clublagree/model"
	bookingrepo "github.com/8clublagree/8clublagree/repository/booking"
	"github.com/8clublagree/8clublagree/repository/mailer"
)

type mockBookings struct {
	dueFn    func(ctx context.Context, from, until time.Time) ([]bookingrepo.ReminderRow, error)
	markedFn func(ctx context.Context, ids []int64) error
}

var _ bookingrepo.Repo = (*mockBookings)(nil)

func (m *mockBookings) Insert(ctx context.Context, tx *sql.Tx, b *model.Booking) error { return nil }

func (m *mockBookings) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Booking, error) {
	return nil, sql.ErrNoRows
}

func (m *mockBookings) UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, st model.AttendanceStatus) error {
	return nil
}

func (m *mockBookings) UpdateClass(ctx context.Context, tx *sql.Tx, id, newClassID int64, classDate time.Time) error {
	return nil
}

func (m *mockBookings) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	return nil, nil
}

func (m *mockBookings) ListAttendees(ctx context.Context, classID int64) ([]bookingrepo.AttendeeRow, error) {
	return nil, nil
}

func (m *mockBookings) DueReminders(ctx context.Context, from, until time.Time) ([]bookingrepo.ReminderRow, error) {
	return m.dueFn(ctx, from, until)
}

func (m *mockBookings) MarkReminded(ctx context.Context, ids []int64) error {
	if m.markedFn == nil {
		return nil
	}
	return m.markedFn(ctx, ids)
}

type mockMailer struct {
	sendFn func(ctx context.Context, e mailer.Email) error
	sent   []mailer.Email
}

func (m *mockMailer) Send(ctx context.Context, e mailer.Email) error {
	if m.sendFn != nil {
		if err := m.sendFn(ctx, e); err != nil {
			return err
		}
	}
	m.sent = append(m.sent, e)
	return nil
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func row(id int64, email string) bookingrepo.ReminderRow {
	return bookingrepo.ReminderRow{
		BookingID:      id,
		Email:          email,
		FirstName:      "Ana",
		ClassDate:      time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		StartTime:      time.Date(2000, 1, 1, 18, 0, 0, 0, time.UTC),
		InstructorName: "Mika",
	}
}

func TestRun_NothingDue(t *testing.T) {
	br := &mockBookings{
		dueFn: func(ctx context.Context, from, until time.Time) ([]bookingrepo.ReminderRow, error) {
			require.Equal(t, 24*time.Hour, until.Sub(from))
			return nil, nil
		},
	}
	m := &mockMailer{}
	s := NewSender(br, m, discard())

	res, err := s.Run(context.Background(), time.Now())
	require.NoError(t, err)
	require.Equal(t, 0, res.Sent)
	require.Empty(t, m.sent)
}

func TestRun_SendsAndFlags(t *testing.T) {
	var flagged []int64
	br := &mockBookings{
		dueFn: func(ctx context.Context, from, until time.Time) ([]bookingrepo.ReminderRow, error) {
			return []bookingrepo.ReminderRow{row(1, "a@x.com"), row(2, "b@x.com")}, nil
		},
		markedFn: func(ctx context.Context, ids []int64) error {
			flagged = ids
			return nil
		},
	}
	m := &mockMailer{}
	s := NewSender(br, m, discard())

	res, err := s.Run(context.Background(), time.Now())
	require.NoError(t, err)
	require.Equal(t, 2, res.Sent)
	require.Equal(t, []int64{1, 2}, flagged)
	require.Len(t, m.sent, 2)
	require.Equal(t, "a@x.com", m.sent[0].To)
}

func TestRun_FailedSendSkipsFlag(t *testing.T) {
	var flagged []int64
	br := &mockBookings{
		dueFn: func(ctx context.Context, from, until time.Time) ([]bookingrepo.ReminderRow, error) {
			return []bookingrepo.ReminderRow{row(1, "dead@x.com"), row(2, "ok@x.com")}, nil
		},
		markedFn: func(ctx context.Context, ids []int64) error {
			flagged = ids
			return nil
		},
	}
	m := &mockMailer{
		sendFn: func(ctx context.Context, e mailer.Email) error {
			if e.To == "dead@x.com" {
				return errors.New("smtp refused")
			}
			return nil
		},
	}
	s := NewSender(br, m, discard())

	res, err := s.Run(context.Background(), time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, res.Sent)
	// Only the delivered reminder is flagged; the failed one retries next run.
	require.Equal(t, []int64{2}, flagged)
}

func TestRun_QueryError(t *testing.T) {
	br := &mockBookings{
		dueFn: func(ctx context.Context, from, until time.Time) ([]bookingrepo.ReminderRow, error) {
			return nil, errors.New("db down")
		},
	}
	s := NewSender(br, &mockMailer{}, discard())

	_, err := s.Run(context.Background(), time.Now())
	require.Error(t, err)
}

package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/8clublagree/8clublagree/model"
)

func TestTransitionDelta(t *testing.T) {
	cases := []struct {
		name string
		from model.AttendanceStatus
		to   model.AttendanceStatus
		want int
	}{
		{"reserved to attended", model.BookingReserved, model.BookingAttended, 0},
		{"reserved to no-show", model.BookingReserved, model.BookingNoShow, 0},
		{"attended to no-show", model.BookingAttended, model.BookingNoShow, 0},
		{"reserved to cancelled", model.BookingReserved, model.BookingCancelled, -1},
		{"attended to cancelled", model.BookingAttended, model.BookingCancelled, -1},
		{"no-show to cancelled", model.BookingNoShow, model.BookingCancelled, -1},
		{"cancelled to attended", model.BookingCancelled, model.BookingAttended, +1},
		{"cancelled to no-show", model.BookingCancelled, model.BookingNoShow, +1},
		{"same status", model.BookingAttended, model.BookingAttended, 0},
		{"cancelled to cancelled", model.BookingCancelled, model.BookingCancelled, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, transitionDelta(tc.from, tc.to))
		})
	}
}

func TestCancelAllowed(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// More than 24h before start: allowed.
	require.True(t, cancelAllowed(now.Add(25*time.Hour), now, false))
	// Exactly 24h is still inside policy.
	require.True(t, cancelAllowed(now.Add(24*time.Hour), now, false))
	// Under 24h: rejected for clients.
	require.False(t, cancelAllowed(now.Add(23*time.Hour), now, false))
	// Class already started: rejected for clients.
	require.False(t, cancelAllowed(now.Add(-time.Hour), now, false))
	// Admins are never restricted.
	require.True(t, cancelAllowed(now.Add(-time.Hour), now, true))
}

func TestStartAt(t *testing.T) {
	classDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	startTime := time.Date(2000, 1, 1, 18, 30, 0, 0, time.UTC)

	got := startAt(classDate, startTime)
	require.Equal(t, time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC), got)
}

func TestBook_WalkInMissingName(t *testing.T) {
	svc := New(nil, nil, nil, nil, nil, nil, nil)

	_, err := svc.Book(context.Background(), BookReq{
		ClassID:     1,
		WalkInFirst: "Ana",
		// last name missing
	})
	require.Error(t, err)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestBook_BothIdentities(t *testing.T) {
	svc := New(nil, nil, nil, nil, nil, nil, nil)

	uid := int64(7)
	_, err := svc.Book(context.Background(), BookReq{
		ClassID:     1,
		BookerID:    &uid,
		WalkInFirst: "Ana",
		WalkInLast:  "Reyes",
	})
	require.Error(t, err)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestBook_MissingClass(t *testing.T) {
	svc := New(nil, nil, nil, nil, nil, nil, nil)

	uid := int64(7)
	_, err := svc.Book(context.Background(), BookReq{
		BookerID: &uid,
	})
	require.Error(t, err)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestNewBooking_DateFromClass(t *testing.T) {
	class := &model.Class{
		ID:        4,
		ClassDate: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
	}

	uid := int64(7)
	b := newBooking(BookReq{ClassID: 4, BookerID: &uid, DeductCredits: true}, class)
	// The stored date is the class's own, whatever the payload claimed.
	require.Equal(t, class.ClassDate, b.ClassDate)
	require.Equal(t, int64(4), b.ClassID)
	require.True(t, b.CreditDeducted)
	require.False(t, b.IsWalkIn)
	require.False(t, b.SentEmailReminder)
	require.Equal(t, model.BookingReserved, b.AttendanceStatus)
}

func TestNewBooking_WalkInFlags(t *testing.T) {
	class := &model.Class{
		ID:        4,
		ClassDate: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
	}

	b := newBooking(BookReq{
		ClassID:       4,
		WalkInFirst:   "Ana",
		WalkInLast:    "Reyes",
		WalkInEmail:   "ana@x.com",
		DeductCredits: true,
	}, class)
	require.True(t, b.IsWalkIn)
	// No account, so no credit hold and no reminder.
	require.False(t, b.CreditDeducted)
	require.True(t, b.SentEmailReminder)
	require.Equal(t, class.ClassDate, b.ClassDate)
	require.Equal(t, "Ana", *b.WalkInFirstName)
	require.Equal(t, "ana@x.com", *b.WalkInEmail)
	require.Nil(t, b.WalkInContactNo)
}

func TestMarkAttendance_RejectsReserved(t *testing.T) {
	svc := New(nil, nil, nil, nil, nil, nil, nil)

	err := svc.MarkAttendance(context.Background(), 1, model.BookingReserved)
	require.Error(t, err)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestMarkAttendance_RejectsUnknownStatus(t *testing.T) {
	svc := New(nil, nil, nil, nil, nil, nil, nil)

	err := svc.MarkAttendance(context.Background(), 1, model.AttendanceStatus("vanished"))
	require.Error(t, err)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestRebook_BadDestination(t *testing.T) {
	svc := New(nil, nil, nil, nil, nil, nil, nil)

	err := svc.Rebook(context.Background(), 1, 0)
	require.Error(t, err)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestCodeExtractor(t *testing.T) {
	require.Equal(t, ErrClassFull, Code(makeErr(ErrClassFull)))
	require.Equal(t, ErrCode(""), Code(context.Canceled))
}

package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/8clublagree/8clublagree/model"
	bookingrepo "github.com/8clublagree/8clublagree/repository/booking"
	classrepo "github.com/8clublagree/8clublagree/repository/class"
	creditrepo "github.com/8clublagree/8clublagree/repository/credit"
	"github.com/8clublagree/8clublagree/repository/mailer"
)

// errors used by controllers

type ErrCode string

const (
	ErrBadInput            ErrCode = "VALIDATION_ERROR"
	ErrClassFull           ErrCode = "CLASS_FULL"
	ErrInsufficientCredits ErrCode = "INSUFFICIENT_CREDITS"
	ErrTooLateToCancel     ErrCode = "TOO_LATE_TO_CANCEL"
	ErrNotFound            ErrCode = "NOT_FOUND"
	ErrConflict            ErrCode = "CONFLICT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// BookReq is the booking request; exactly one of BookerID or the walk-in
// identity fields must be present. The session date is taken from the class
// row, never from the caller.
type BookReq struct {
	ClassID       int64
	BookerID      *int64
	WalkInFirst   string
	WalkInLast    string
	WalkInEmail   string
	WalkInContact string
	DeductCredits bool
}

// newBooking builds the row to insert. The stored class date comes from the
// locked class record so the cancellation window and reminder batching cannot
// be skewed by the payload.
func newBooking(req BookReq, class *model.Class) *model.Booking {
	walkIn := req.BookerID == nil
	b := &model.Booking{
		ClassID:          class.ID,
		BookerID:         req.BookerID,
		IsWalkIn:         walkIn,
		ClassDate:        class.ClassDate,
		AttendanceStatus: model.BookingReserved,
		// Walk-ins have no account; credits never apply to them.
		CreditDeducted: req.DeductCredits && !walkIn,
		// Walk-ins book same-day and never get a reminder.
		SentEmailReminder: walkIn,
	}
	if walkIn {
		b.WalkInFirstName = &req.WalkInFirst
		b.WalkInLastName = &req.WalkInLast
		if req.WalkInEmail != "" {
			b.WalkInEmail = &req.WalkInEmail
		}
		if req.WalkInContact != "" {
			b.WalkInContactNo = &req.WalkInContact
		}
	}
	return b
}

type users interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
}

type Service interface {
	// Book reserves a slot, deducts a credit when asked, and records the
	// booking — one atomic unit.
	Book(ctx context.Context, req BookReq) (*model.Booking, error)

	// Cancel releases the slot and restores the credit. Client-initiated
	// cancellations are rejected inside the 24h window.
	Cancel(ctx context.Context, bookingID int64, actingAsAdmin bool) error

	// MarkAttendance applies the transition from the booking's stored status
	// to newStatus, including the correction path out of cancelled.
	MarkAttendance(ctx context.Context, bookingID int64, newStatus model.AttendanceStatus) error

	// Rebook moves a reserved booking to another class.
	Rebook(ctx context.Context, bookingID, toClassID int64) error

	MyBookings(ctx context.Context, userID int64) ([]model.Booking, error)
	Attendees(ctx context.Context, classID int64) ([]bookingrepo.AttendeeRow, error)
}

type service struct {
	db *sql.DB
	br bookingrepo.Repo
	cr classrepo.Repo
	cl creditrepo.Repo
	ur users
	m  mailer.Mailer
	lg *slog.Logger
}

func New(db *sql.DB, br bookingrepo.Repo, cr classrepo.Repo, cl creditrepo.Repo, ur users, m mailer.Mailer, lg *slog.Logger) Service {
	return &service{db: db, br: br, cr: cr, cl: cl, ur: ur, m: m, lg: lg}
}

func (s *service) Book(ctx context.Context, req BookReq) (b *model.Booking, err error) {
	walkIn := req.BookerID == nil
	if walkIn && (req.WalkInFirst == "" || req.WalkInLast == "") {
		return nil, makeErr(ErrBadInput)
	}
	if !walkIn && (req.WalkInFirst != "" || req.WalkInLast != "" || req.WalkInEmail != "" || req.WalkInContact != "") {
		return nil, makeErr(ErrBadInput)
	}
	if req.ClassID <= 0 {
		return nil, makeErr(ErrBadInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	class, err := s.cr.GetForUpdate(ctx, tx, req.ClassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = makeErr(ErrNotFound)
		}
		return nil, err
	}
	b = newBooking(req, class)

	reserved, err := s.cr.ReserveSlot(ctx, tx, req.ClassID)
	if err != nil {
		return nil, err
	}
	if !reserved {
		return nil, makeErr(ErrClassFull)
	}

	if b.CreditDeducted {
		ok, aerr := s.cl.Adjust(ctx, tx, *req.BookerID, -1)
		if aerr != nil {
			err = aerr
			return nil, err
		}
		if !ok {
			err = makeErr(ErrInsufficientCredits)
			return nil, err
		}
	}

	if err = s.br.Insert(ctx, tx, b); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	s.notifyBooked(ctx, b)
	return b, nil
}

func (s *service) Cancel(ctx context.Context, bookingID int64, actingAsAdmin bool) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	b, err := s.br.GetForUpdate(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if b.AttendanceStatus == model.BookingCancelled {
		// Already cancelled; nothing to undo.
		return tx.Commit()
	}

	class, err := s.cr.GetForUpdate(ctx, tx, b.ClassID)
	if err != nil {
		return err
	}
	// The window is computed from the locked class row, not the booking's
	// stored copy of the date.
	if !cancelAllowed(startAt(class.ClassDate, class.StartTime), time.Now(), actingAsAdmin) {
		return makeErr(ErrTooLateToCancel)
	}

	if err = s.br.UpdateStatus(ctx, tx, b.ID, model.BookingCancelled); err != nil {
		return err
	}
	if err = s.cr.ReleaseSlot(ctx, tx, b.ClassID); err != nil {
		return err
	}
	if b.CreditDeducted && b.BookerID != nil {
		if _, err = s.cl.Adjust(ctx, tx, *b.BookerID, +1); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *service) MarkAttendance(ctx context.Context, bookingID int64, newStatus model.AttendanceStatus) (err error) {
	if !model.ValidAttendance(newStatus) || newStatus == model.BookingReserved {
		return makeErr(ErrBadInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	b, err := s.br.GetForUpdate(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if b.AttendanceStatus == newStatus {
		return tx.Commit()
	}

	switch transitionDelta(b.AttendanceStatus, newStatus) {
	case +1:
		// Correcting out of cancelled competes with fresh bookings for the
		// slot, so capacity is re-validated here.
		reserved, rerr := s.cr.ReserveSlot(ctx, tx, b.ClassID)
		if rerr != nil {
			err = rerr
			return err
		}
		if !reserved {
			err = makeErr(ErrClassFull)
			return err
		}
		if b.CreditDeducted && b.BookerID != nil {
			ok, aerr := s.cl.Adjust(ctx, tx, *b.BookerID, -1)
			if aerr != nil {
				err = aerr
				return err
			}
			if !ok {
				err = makeErr(ErrInsufficientCredits)
				return err
			}
		}
	case -1:
		if err = s.cr.ReleaseSlot(ctx, tx, b.ClassID); err != nil {
			return err
		}
		if b.CreditDeducted && b.BookerID != nil {
			if _, err = s.cl.Adjust(ctx, tx, *b.BookerID, +1); err != nil {
				return err
			}
		}
	}

	if err = s.br.UpdateStatus(ctx, tx, b.ID, newStatus); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) Rebook(ctx context.Context, bookingID, toClassID int64) (err error) {
	if toClassID <= 0 {
		return makeErr(ErrBadInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	b, err := s.br.GetForUpdate(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if b.AttendanceStatus == model.BookingCancelled {
		return makeErr(ErrConflict)
	}
	if b.ClassID == toClassID {
		return makeErr(ErrBadInput)
	}

	dest, err := s.cr.GetForUpdate(ctx, tx, toClassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}

	reserved, err := s.cr.ReserveSlot(ctx, tx, toClassID)
	if err != nil {
		return err
	}
	if !reserved {
		return makeErr(ErrClassFull)
	}
	if err = s.cr.ReleaseSlot(ctx, tx, b.ClassID); err != nil {
		return err
	}
	if err = s.br.UpdateClass(ctx, tx, b.ID, toClassID, dest.ClassDate); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) MyBookings(ctx context.Context, userID int64) ([]model.Booking, error) {
	return s.br.ListByUser(ctx, userID)
}

func (s *service) Attendees(ctx context.Context, classID int64) ([]bookingrepo.AttendeeRow, error) {
	return s.br.ListAttendees(ctx, classID)
}

// notifyBooked sends the booking confirmation. Best-effort: a dead SMTP
// server must not fail a committed booking.
func (s *service) notifyBooked(ctx context.Context, b *model.Booking) {
	if s.m == nil || b.BookerID == nil {
		return
	}
	u, err := s.ur.ByID(ctx, *b.BookerID)
	if err != nil {
		s.lg.Error("booking notify: load user", "user_id", *b.BookerID, "err", err)
		return
	}
	e := mailer.Email{
		To:      u.Email,
		Subject: "Your class is booked!",
		HTML: fmt.Sprintf(
			"<p>Hey %s!</p><p>Your class on <b>%s</b> is confirmed. See you in the studio.</p>",
			u.FirstName, b.ClassDate.Format("Monday, Jan 2")),
	}
	if err := s.m.Send(ctx, e); err != nil {
		s.lg.Error("booking notify: send", "to", u.Email, "err", err)
	}
}

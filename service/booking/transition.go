package booking

import (
	"time"

	"github.com/8clublagree/8clublagree/model"
)

// transitionDelta returns the slot delta a status change applies to the
// booking's class. Credit effects follow the same sign but are applied only
// when the booking holds a credit (see service methods). Derived from the
// stored previous status, never from what the caller believes it was.
func transitionDelta(from, to model.AttendanceStatus) int {
	if from == to {
		return 0
	}
	switch {
	case from != model.BookingCancelled && to == model.BookingCancelled:
		return -1
	case from == model.BookingCancelled && to != model.BookingCancelled:
		return +1
	default:
		// reserved <-> attended/no-show: informational only.
		return 0
	}
}

// cancelWindow is the client-side cancellation policy.
const cancelWindow = 24 * time.Hour

// cancelAllowed reports whether a client-initiated cancellation is still
// inside policy. Admin cancellations are unrestricted.
func cancelAllowed(startsAt, now time.Time, actingAsAdmin bool) bool {
	if actingAsAdmin {
		return true
	}
	return startsAt.Sub(now) >= cancelWindow
}

// startAt combines the booking's class date with the class's start-of-day
// time into the concrete session start.
func startAt(classDate, startTime time.Time) time.Time {
	return time.Date(
		classDate.Year(), classDate.Month(), classDate.Day(),
		startTime.Hour(), startTime.Minute(), 0, 0, classDate.Location(),
	)
}

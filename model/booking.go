// model/booking.go
package model

import "time"

type AttendanceStatus string

const (
	BookingReserved  AttendanceStatus = "reserved"
	BookingAttended  AttendanceStatus = "attended"
	BookingNoShow    AttendanceStatus = "no-show"
	BookingCancelled AttendanceStatus = "cancelled"
)

// ValidAttendance reports whether s is one of the known booking states.
func ValidAttendance(s AttendanceStatus) bool {
	switch s {
	case BookingReserved, BookingAttended, BookingNoShow, BookingCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID                int64            `json:"id"`
	ClassID           int64            `json:"class_id"`
	BookerID          *int64           `json:"booker_id,omitempty"`
	IsWalkIn          bool             `json:"is_walk_in"`
	WalkInFirstName   *string          `json:"walk_in_first_name,omitempty"`
	WalkInLastName    *string          `json:"walk_in_last_name,omitempty"`
	WalkInEmail       *string          `json:"walk_in_client_email,omitempty"`
	WalkInContactNo   *string          `json:"walk_in_client_contact_number,omitempty"`
	ClassDate         time.Time        `json:"class_date"`
	AttendanceStatus  AttendanceStatus `json:"attendance_status"`
	CreditDeducted    bool             `json:"credit_deducted"`
	SentEmailReminder bool             `json:"sent_email_reminder"`
	CreatedAt         time.Time        `json:"created_at"`
}

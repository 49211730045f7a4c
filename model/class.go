// model/class.go
package model

import "time"

type Class struct {
	ID               int64     `json:"id"`
	InstructorID     int64     `json:"instructor_id"`
	InstructorName   string    `json:"instructor_name"`
	ClassDate        time.Time `json:"class_date"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	AvailableSlots   int       `json:"available_slots"`
	TakenSlots       int       `json:"taken_slots"`
	OfferedToClients bool      `json:"offered_to_clients"`
	CreatedAt        time.Time `json:"created_at"`
}

package class

import "time"

type CreateClassReq struct {
	InstructorID     int64     `json:"instructor_id" validate:"required,gt=0"`
	InstructorName   string    `json:"instructor_name" validate:"required"`
	ClassDate        time.Time `json:"class_date" validate:"required"`
	StartTime        time.Time `json:"start_time" validate:"required"`
	EndTime          time.Time `json:"end_time" validate:"required"`
	AvailableSlots   int       `json:"available_slots" validate:"required,gt=0"`
	OfferedToClients bool      `json:"offered_to_clients"`
}

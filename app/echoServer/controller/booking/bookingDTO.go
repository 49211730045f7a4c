package booking

type BookClassReq struct {
	ClassID                   int64  `json:"class_id" validate:"required,gt=0"`
	BookerID                  *int64 `json:"booker_id"`
	IsWalkIn                  bool   `json:"is_walk_in"`
	WalkInFirstName           string `json:"walk_in_first_name"`
	WalkInLastName            string `json:"walk_in_last_name"`
	WalkInClientEmail         string `json:"walk_in_client_email" validate:"omitempty,email"`
	WalkInClientContactNumber string `json:"walk_in_client_contact_number"`
	DeductCredits             bool   `json:"deduct_credits"`
}

type MarkAttendanceReq struct {
	Status string `json:"status" validate:"required,oneof=attended no-show cancelled"`
}

type RebookReq struct {
	NewClassID int64 `json:"new_class_id" validate:"required,gt=0"`
}

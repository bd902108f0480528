package reservation

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Reservation is a booked lesson slot. Approval costs the student exactly one
// study hour.
type Reservation struct {
	ID               int       `db:"id" json:"id"`
	StudentID        int       `db:"student_id" json:"student_id"`
	StartTime        time.Time `db:"start_time" json:"start_time"`
	EndTime          time.Time `db:"end_time" json:"end_time"`
	Status           string    `db:"status" json:"status"`
	HiddenForStudent bool      `db:"hidden_for_student" json:"hidden_for_student"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// ReservationWithUser carries the student's username for the staff panel.
type ReservationWithUser struct {
	Reservation
	Username string `db:"username" json:"username"`
}

type CreateReservationRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

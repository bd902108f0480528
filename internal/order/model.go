package order

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Order is a request to purchase a block of study hours. Status is the source
// of truth; Approved is a legacy mirror kept in sync for older clients.
type Order struct {
	ID            int       `db:"id" json:"id"`
	StudentID     int       `db:"student_id" json:"student_id"`
	FirstName     string    `db:"first_name" json:"first_name"`
	LastName      string    `db:"last_name" json:"last_name"`
	Email         string    `db:"email" json:"email"`
	Phone         string    `db:"phone" json:"phone"`
	Address       string    `db:"address" json:"address"`
	Hours         int       `db:"hours" json:"hours"`
	TermsAccepted bool      `db:"terms_accepted" json:"terms_accepted"`
	GDPRAccepted  bool      `db:"gdpr_accepted" json:"gdpr_accepted"`
	Status        string    `db:"status" json:"status"`
	Approved      bool      `db:"approved" json:"approved"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type CreateOrderRequest struct {
	FirstName     string `json:"first_name" binding:"required,max=50"`
	LastName      string `json:"last_name" binding:"required,max=50"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone" binding:"max=20"`
	Address       string `json:"address" binding:"max=255"`
	Hours         int    `json:"hours" binding:"required"`
	TermsAccepted bool   `json:"terms_accepted"`
	GDPRAccepted  bool   `json:"gdpr_accepted"`
}

type CreateHourOrderRequest struct {
	Hours int `json:"hours" binding:"required"`
}

// ProfileSummary backs GET /user/profile: whether the student has ever had an
// order approved and whether one is waiting for review.
type ProfileSummary struct {
	Username       string `json:"username"`
	OrderCompleted bool   `json:"order_completed"`
	OrderPending   bool   `json:"order_pending"`
}

package ledger

import "time"

// Account holds a student's study-hour balance. One row per user, created
// lazily on first read or mutation. BalanceHours never goes below zero.
type Account struct {
	ID             int       `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"user_id"`
	BalanceHours   int       `db:"balance_hours" json:"balance_hours"`
	OrderCompleted bool      `db:"order_completed" json:"order_completed"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Entry is one ledger mutation. Amounts are signed: credits positive,
// debits negative.
type Entry struct {
	ID           int       `db:"id" json:"id"`
	AccountID    int       `db:"account_id" json:"account_id"`
	AmountHours  int       `db:"amount_hours" json:"amount_hours"`
	Type         string    `db:"type" json:"type"`
	BalanceAfter int       `db:"balance_after" json:"balance_after"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

const (
	EntryOrderCredit      = "order_credit"
	EntryReservationDebit = "reservation_debit"
	EntryAdjustment       = "adjustment"
)

type AccountWithUser struct {
	Account
	Username string `db:"username" json:"username"`
}

type BalanceResponse struct {
	StudyHours int `json:"study_hours" example:"12"`
}

package reservation

import "context"

type Repository interface {
	Create(ctx context.Context, r *Reservation) (*Reservation, error)
	GetByID(ctx context.Context, id int) (*Reservation, error)
	// Approve flips a reservation to approved and debits one study hour from
	// the student's ledger in the same transaction. Already-approved
	// reservations return ErrAlreadyProcessed with the current record; when
	// the student has no hours left the reservation is untouched and the
	// error is ledger.ErrInsufficientHours.
	Approve(ctx context.Context, id int) (*Reservation, error)
	// Reject works from any state. An approved reservation loses its slot
	// without a refund.
	Reject(ctx context.Context, id int) (*Reservation, error)
	// Delete removes the student's own pending reservation. Non-pending own
	// records return ErrNotDeletable, foreign or missing ones ErrReservationNotFound.
	Delete(ctx context.Context, id, studentID int) error
	// HideRejected marks every rejected reservation of the student as hidden.
	// Safe to repeat.
	HideRejected(ctx context.Context, studentID int) (int, error)
	ListAll(ctx context.Context) ([]ReservationWithUser, error)
	ListForStudent(ctx context.Context, studentID int) ([]Reservation, error)
}

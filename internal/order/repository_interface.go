package order

import "context"

type Repository interface {
	Create(ctx context.Context, o *Order) (*Order, error)
	GetByID(ctx context.Context, id int) (*Order, error)
	// Approve flips a pending order to approved and credits the student's
	// ledger in the same transaction. Terminal orders return
	// ErrAlreadyProcessed with the current record.
	Approve(ctx context.Context, id int) (*Order, error)
	Reject(ctx context.Context, id int) (*Order, error)
	RejectPending(ctx context.Context, ids []int) (int, error)
	ListAll(ctx context.Context) ([]Order, error)
	ListByStudent(ctx context.Context, studentID int) ([]Order, error)
	HasOrderWithStatus(ctx context.Context, studentID int, status string) (bool, error)
}

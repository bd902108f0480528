package ledger

import "context"

type Repository interface {
	GetOrCreateAccount(ctx context.Context, userID int) (*Account, error)
	GetBalance(ctx context.Context, userID int) (int, error)
	Credit(ctx context.Context, userID, hours int) (int, error)
	Debit(ctx context.Context, userID, hours int) (int, error)
	SetBalance(ctx context.Context, userID, hours int) (*Account, error)
	ListAccounts(ctx context.Context) ([]AccountWithUser, error)
	GetEntries(ctx context.Context, userID int, limit, offset int) ([]Entry, error)
}

package ledger

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrInsufficientHours = errors.New("insufficient study hours")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrNegativeBalance   = errors.New("balance cannot be negative")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreateAccount(ctx context.Context, userID int) (*Account, error) {
	a := &Account{}
	err := r.db.GetContext(ctx, a,
		`SELECT id, user_id, balance_hours, order_completed, created_at, updated_at
		 FROM ledger_accounts WHERE user_id = $1`, userID)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO ledger_accounts (user_id)
		 VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		 RETURNING id, user_id, balance_hours, order_completed, created_at, updated_at`,
		userID,
	).StructScan(a)
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (r *repository) GetBalance(ctx context.Context, userID int) (int, error) {
	a, err := r.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return 0, err
	}
	return a.BalanceHours, nil
}

func (r *repository) Credit(ctx context.Context, userID, hours int) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	newBalance, err := CreditTx(ctx, tx, userID, hours, EntryOrderCredit)
	if err != nil {
		return 0, err
	}

	return newBalance, tx.Commit()
}

func (r *repository) Debit(ctx context.Context, userID, hours int) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	newBalance, err := DebitTx(ctx, tx, userID, hours, EntryReservationDebit)
	if err != nil {
		return 0, err
	}

	return newBalance, tx.Commit()
}

// CreditTx adds hours inside the caller's transaction so a workflow state
// transition and its credit commit as one unit. Creates the account on first
// use.
func CreditTx(ctx context.Context, tx *sqlx.Tx, userID, hours int, entryType string) (int, error) {
	if hours <= 0 {
		return 0, ErrInvalidAmount
	}

	var accountID, newBalance int
	err := tx.QueryRowxContext(ctx,
		`INSERT INTO ledger_accounts (user_id, balance_hours)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE
		 SET balance_hours = ledger_accounts.balance_hours + EXCLUDED.balance_hours,
		     updated_at = NOW()
		 RETURNING id, balance_hours`,
		userID, hours,
	).Scan(&accountID, &newBalance)
	if err != nil {
		return 0, err
	}

	if err := insertEntry(ctx, tx, accountID, hours, entryType, newBalance); err != nil {
		return 0, err
	}

	return newBalance, nil
}

// DebitTx subtracts hours inside the caller's transaction. The check and the
// subtraction are a single conditional UPDATE: when the balance is too low no
// row matches and nothing changes. Never read-check-write this in application
// code.
func DebitTx(ctx context.Context, tx *sqlx.Tx, userID, hours int, entryType string) (int, error) {
	if hours <= 0 {
		return 0, ErrInvalidAmount
	}

	// Lazy account creation keeps the conditional update the only gate.
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ledger_accounts (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	); err != nil {
		return 0, err
	}

	var accountID, newBalance int
	err := tx.QueryRowxContext(ctx,
		`UPDATE ledger_accounts
		 SET balance_hours = balance_hours - $1, updated_at = NOW()
		 WHERE user_id = $2 AND balance_hours >= $1
		 RETURNING id, balance_hours`,
		hours, userID,
	).Scan(&accountID, &newBalance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrInsufficientHours
		}
		return 0, err
	}

	if err := insertEntry(ctx, tx, accountID, -hours, entryType, newBalance); err != nil {
		return 0, err
	}

	return newBalance, nil
}

// MarkOrderCompletedTx flips the informational flag set on first order
// approval. Callers run it after CreditTx, so the account row exists.
func MarkOrderCompletedTx(ctx context.Context, tx *sqlx.Tx, userID int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE ledger_accounts SET order_completed = TRUE, updated_at = NOW() WHERE user_id = $1`,
		userID,
	)
	return err
}

func insertEntry(ctx context.Context, tx *sqlx.Tx, accountID, amount int, entryType string, balanceAfter int) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (account_id, amount_hours, type, balance_after)
		 VALUES ($1, $2, $3, $4)`,
		accountID, amount, entryType, balanceAfter,
	)
	return err
}

// SetBalance is the staff adjustment path: it overwrites the balance and
// records the difference as an adjustment entry.
func (r *repository) SetBalance(ctx context.Context, userID, hours int) (*Account, error) {
	if hours < 0 {
		return nil, ErrNegativeBalance
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	a := &Account{}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO ledger_accounts (user_id)
		 VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		 RETURNING id, user_id, balance_hours, order_completed, created_at, updated_at`,
		userID,
	).StructScan(a)
	if err != nil {
		return nil, err
	}

	delta := hours - a.BalanceHours
	if delta != 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE ledger_accounts SET balance_hours = $1, updated_at = NOW() WHERE id = $2`,
			hours, a.ID,
		); err != nil {
			return nil, err
		}
		if err := insertEntry(ctx, tx, a.ID, delta, EntryAdjustment, hours); err != nil {
			return nil, err
		}
	}
	a.BalanceHours = hours

	return a, tx.Commit()
}

func (r *repository) ListAccounts(ctx context.Context) ([]AccountWithUser, error) {
	var accounts []AccountWithUser
	err := r.db.SelectContext(ctx, &accounts, `
		SELECT a.id, a.user_id, a.balance_hours, a.order_completed, a.created_at, a.updated_at,
		       u.username
		FROM ledger_accounts a
		JOIN users u ON a.user_id = u.id
		ORDER BY u.username
	`)
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *repository) GetEntries(ctx context.Context, userID int, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	var accountID int
	err := r.db.GetContext(ctx, &accountID, `SELECT id FROM ledger_accounts WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []Entry{}, nil
		}
		return nil, err
	}

	var entries []Entry
	err = r.db.SelectContext(ctx, &entries, `
		SELECT id, account_id, amount_hours, type, balance_after, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

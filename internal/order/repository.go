package order

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"tutorhours/internal/ledger"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrAlreadyProcessed = errors.New("order already processed")
)

const orderColumns = `id, student_id, first_name, last_name, email, phone, address,
	hours, terms_accepted, gdpr_accepted, status, approved, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, o *Order) (*Order, error) {
	query := `
		INSERT INTO orders (student_id, first_name, last_name, email, phone, address,
			hours, terms_accepted, gdpr_accepted, status, approved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'pending', FALSE)
		RETURNING ` + orderColumns

	var created Order
	err := r.db.GetContext(ctx, &created, query,
		o.StudentID, o.FirstName, o.LastName, o.Email, o.Phone, o.Address,
		o.Hours, o.TermsAccepted, o.GDPRAccepted,
	)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Order, error) {
	var o Order
	err := r.db.GetContext(ctx, &o, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// Approve commits the pending→approved transition, the ledger credit and the
// order_completed flag as one unit. Re-approval is a no-op: the guarded UPDATE
// matches nothing, so the ledger is credited at most once per order.
func (r *repository) Approve(ctx context.Context, id int) (*Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var o Order
	err = tx.GetContext(ctx, &o,
		`UPDATE orders SET status = 'approved', approved = TRUE
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+orderColumns, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.currentState(ctx, tx, id)
		}
		return nil, err
	}

	if _, err := ledger.CreditTx(ctx, tx, o.StudentID, o.Hours, ledger.EntryOrderCredit); err != nil {
		return nil, err
	}

	if err := ledger.MarkOrderCompletedTx(ctx, tx, o.StudentID); err != nil {
		return nil, err
	}

	return &o, tx.Commit()
}

func (r *repository) Reject(ctx context.Context, id int) (*Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var o Order
	err = tx.GetContext(ctx, &o,
		`UPDATE orders SET status = 'rejected', approved = FALSE
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+orderColumns, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.currentState(ctx, tx, id)
		}
		return nil, err
	}

	return &o, tx.Commit()
}

// currentState resolves a guarded UPDATE that matched nothing into either
// not-found or an already-terminal record.
func (r *repository) currentState(ctx context.Context, tx *sqlx.Tx, id int) (*Order, error) {
	var o Order
	err := tx.GetContext(ctx, &o, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, ErrAlreadyProcessed
}

func (r *repository) RejectPending(ctx context.Context, ids []int) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = 'rejected', approved = FALSE
		 WHERE id = ANY($1) AND status = 'pending'`,
		pq.Array(ids),
	)
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(rowsAffected), nil
}

func (r *repository) ListAll(ctx context.Context) ([]Order, error) {
	var orders []Order
	err := r.db.SelectContext(ctx, &orders,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListByStudent(ctx context.Context, studentID int) ([]Order, error) {
	var orders []Order
	err := r.db.SelectContext(ctx, &orders,
		`SELECT `+orderColumns+` FROM orders WHERE student_id = $1 ORDER BY created_at DESC`,
		studentID)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) HasOrderWithStatus(ctx context.Context, studentID int, status string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE student_id = $1 AND status = $2)`,
		studentID, status)
	if err != nil {
		return false, err
	}
	return exists, nil
}

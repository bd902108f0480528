package reservation

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"tutorhours/internal/ledger"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrAlreadyProcessed    = errors.New("reservation already processed")
	ErrNotDeletable        = errors.New("only pending reservations can be deleted")
)

// Approval costs this many study hours regardless of slot length.
const hoursPerReservation = 1

const reservationColumns = `id, student_id, start_time, end_time, status, hidden_for_student, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, res *Reservation) (*Reservation, error) {
	query := `
		INSERT INTO reservations (student_id, start_time, end_time, status, hidden_for_student)
		VALUES ($1, $2, $3, 'pending', FALSE)
		RETURNING ` + reservationColumns

	var created Reservation
	err := r.db.GetContext(ctx, &created, query, res.StudentID, res.StartTime, res.EndTime)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Reservation, error) {
	var res Reservation
	err := r.db.GetContext(ctx, &res,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// Approve commits the status flip and the one-hour debit as one unit. The
// guard skips already-approved rows, so re-approval never debits twice. A
// failed debit rolls the flip back and the reservation stays as it was.
func (r *repository) Approve(ctx context.Context, id int) (*Reservation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var res Reservation
	err = tx.GetContext(ctx, &res,
		`UPDATE reservations SET status = 'approved'
		 WHERE id = $1 AND status <> 'approved'
		 RETURNING `+reservationColumns, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.currentState(ctx, tx, id)
		}
		return nil, err
	}

	if _, err := ledger.DebitTx(ctx, tx, res.StudentID, hoursPerReservation, ledger.EntryReservationDebit); err != nil {
		return nil, err
	}

	return &res, tx.Commit()
}

func (r *repository) Reject(ctx context.Context, id int) (*Reservation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var res Reservation
	err = tx.GetContext(ctx, &res,
		`UPDATE reservations SET status = 'rejected'
		 WHERE id = $1 AND status <> 'rejected'
		 RETURNING `+reservationColumns, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.currentState(ctx, tx, id)
		}
		return nil, err
	}

	return &res, tx.Commit()
}

func (r *repository) currentState(ctx context.Context, tx *sqlx.Tx, id int) (*Reservation, error) {
	var res Reservation
	err := tx.GetContext(ctx, &res,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, ErrAlreadyProcessed
}

func (r *repository) Delete(ctx context.Context, id, studentID int) error {
	var res Reservation
	err := r.db.GetContext(ctx, &res,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1 AND student_id = $2`,
		id, studentID)
	if err != nil {
		// Foreign reservations are indistinguishable from missing ones.
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReservationNotFound
		}
		return err
	}

	if res.Status != StatusPending {
		return ErrNotDeletable
	}

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM reservations WHERE id = $1 AND student_id = $2 AND status = 'pending'`,
		id, studentID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		// Processed between the check and the delete.
		return ErrNotDeletable
	}

	return nil
}

func (r *repository) HideRejected(ctx context.Context, studentID int) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET hidden_for_student = TRUE
		 WHERE student_id = $1 AND status = 'rejected'`,
		studentID)
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(rowsAffected), nil
}

func (r *repository) ListAll(ctx context.Context) ([]ReservationWithUser, error) {
	var reservations []ReservationWithUser
	err := r.db.SelectContext(ctx, &reservations, `
		SELECT r.id, r.student_id, r.start_time, r.end_time, r.status, r.hidden_for_student, r.created_at,
		       u.username
		FROM reservations r
		JOIN users u ON r.student_id = u.id
		ORDER BY r.start_time DESC
	`)
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *repository) ListForStudent(ctx context.Context, studentID int) ([]Reservation, error) {
	var reservations []Reservation
	err := r.db.SelectContext(ctx, &reservations,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE student_id = $1 AND hidden_for_student = FALSE
		 ORDER BY start_time DESC`,
		studentID)
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

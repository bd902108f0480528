package workflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tutorhours/internal/ledger"
	"tutorhours/internal/reservation"
)

func createTestReservation(t *testing.T, repo reservation.Repository, studentID int) *reservation.Reservation {
	start := time.Now().Add(24 * time.Hour)

	res, err := repo.Create(context.Background(), &reservation.Reservation{
		StudentID: studentID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, reservation.StatusPending, res.Status)
	return res
}

func TestReservationApprove_DebitsOneHour_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	cleanTables(t, db)

	resRepo := reservation.NewRepository(db)
	ledgerRepo := ledger.NewRepository(db)
	ctx := context.Background()

	studentID := createTestStudent(t, db, "res_student")
	_, err := ledgerRepo.Credit(ctx, studentID, 2)
	require.NoError(t, err)

	res := createTestReservation(t, resRepo, studentID)

	approved, err := resRepo.Approve(ctx, res.ID)
	require.NoError(t, err)
	require.Equal(t, reservation.StatusApproved, approved.Status)

	balance, err := ledgerRepo.GetBalance(ctx, studentID)
	require.NoError(t, err)
	require.Equal(t, 1, balance)

	// Re-approving is a no-op and costs nothing
	_, err = resRepo.Approve(ctx, res.ID)
	require.ErrorIs(t, err, reservation.ErrAlreadyProcessed)

	balance, err = ledgerRepo.GetBalance(ctx, studentID)
	require.NoError(t, err)
	require.Equal(t, 1, balance)
}

func TestReservationApprove_InsufficientHours_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	cleanTables(t, db)

	resRepo := reservation.NewRepository(db)
	_ = ledger.NewRepository(db)
	ctx := context.Background()

	studentID := createTestStudent(t, db, "no_hours_student")
	res := createTestReservation(t, resRepo, studentID)

	_, err := resRepo.Approve(ctx, res.ID)
	require.ErrorIs(t, err, ledger.ErrInsufficientHours)

	// The failed approval left the reservation pending
	unchanged, err := resRepo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	require.Equal(t, reservation.StatusPending, unchanged.Status)
}

func TestReservationRejectAfterApprove_NoRefund_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	cleanTables(t, db)

	resRepo := reservation.NewRepository(db)
	ledgerRepo := ledger.NewRepository(db)
	ctx := context.Background()

	studentID := createTestStudent(t, db, "refund_student")
	_, err := ledgerRepo.Credit(ctx, studentID, 1)
	require.NoError(t, err)

	res := createTestReservation(t, resRepo, studentID)

	_, err = resRepo.Approve(ctx, res.ID)
	require.NoError(t, err)

	rejected, err := resRepo.Reject(ctx, res.ID)
	require.NoError(t, err)
	require.Equal(t, reservation.StatusRejected, rejected.Status)

	// The hour spent on approval is gone
	balance, err := ledgerRepo.GetBalance(ctx, studentID)
	require.NoError(t, err)
	require.Equal(t, 0, balance)
}

func TestReservationDeleteAndHide_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	cleanTables(t, db)

	resRepo := reservation.NewRepository(db)
	ctx := context.Background()

	studentID := createTestStudent(t, db, "hide_student")
	otherID := createTestStudent(t, db, "other_student")

	pending := createTestReservation(t, resRepo, studentID)
	toReject := createTestReservation(t, resRepo, studentID)

	// Foreign reservations look like they do not exist
	err := resRepo.Delete(ctx, pending.ID, otherID)
	require.ErrorIs(t, err, reservation.ErrReservationNotFound)

	err = resRepo.Delete(ctx, pending.ID, studentID)
	require.NoError(t, err)

	_, err = resRepo.Reject(ctx, toReject.ID)
	require.NoError(t, err)

	// Rejected reservations cannot be deleted, only hidden
	err = resRepo.Delete(ctx, toReject.ID, studentID)
	require.ErrorIs(t, err, reservation.ErrNotDeletable)

	hidden, err := resRepo.HideRejected(ctx, studentID)
	require.NoError(t, err)
	require.Equal(t, 1, hidden)

	visible, err := resRepo.ListForStudent(ctx, studentID)
	require.NoError(t, err)
	require.Empty(t, visible)
}

package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tutorhours/internal/ledger"
)

type MockReservationRepo struct{ mock.Mock }

func (m *MockReservationRepo) Create(ctx context.Context, r *Reservation) (*Reservation, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Reservation), args.Error(1)
}

func (m *MockReservationRepo) GetByID(ctx context.Context, id int) (*Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Reservation), args.Error(1)
}

func (m *MockReservationRepo) Approve(ctx context.Context, id int) (*Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Reservation), args.Error(1)
}

func (m *MockReservationRepo) Reject(ctx context.Context, id int) (*Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Reservation), args.Error(1)
}

func (m *MockReservationRepo) Delete(ctx context.Context, id, studentID int) error {
	return m.Called(ctx, id, studentID).Error(0)
}

func (m *MockReservationRepo) HideRejected(ctx context.Context, studentID int) (int, error) {
	args := m.Called(ctx, studentID)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepo) ListAll(ctx context.Context) ([]ReservationWithUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ReservationWithUser), args.Error(1)
}

func (m *MockReservationRepo) ListForStudent(ctx context.Context, studentID int) ([]Reservation, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Reservation), args.Error(1)
}

func slot(offset time.Duration) (time.Time, time.Time) {
	start := time.Now().Add(offset).Truncate(time.Minute)
	return start, start.Add(time.Hour)
}

func TestCreate_RejectsEndBeforeStart(t *testing.T) {
	repo := new(MockReservationRepo)
	svc := NewService(repo)

	start, end := slot(24 * time.Hour)

	_, err := svc.Create(context.Background(), 5, CreateReservationRequest{
		StartTime: end,
		EndTime:   start,
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_RejectsZeroLengthSlot(t *testing.T) {
	repo := new(MockReservationRepo)
	svc := NewService(repo)

	start, _ := slot(24 * time.Hour)

	_, err := svc.Create(context.Background(), 5, CreateReservationRequest{
		StartTime: start,
		EndTime:   start,
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestCreate_Success(t *testing.T) {
	repo := new(MockReservationRepo)
	svc := NewService(repo)
	ctx := context.Background()

	start, end := slot(24 * time.Hour)

	repo.On("Create", ctx, mock.MatchedBy(func(r *Reservation) bool {
		return r.StudentID == 5 && r.EndTime.After(r.StartTime)
	})).Return(&Reservation{ID: 1, StudentID: 5, StartTime: start, EndTime: end, Status: StatusPending}, nil)

	res, err := svc.Create(ctx, 5, CreateReservationRequest{StartTime: start, EndTime: end})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, res.Status)
}

func TestApprove_Success(t *testing.T) {
	repo := new(MockReservationRepo)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("Approve", ctx, 1).
		Return(&Reservation{ID: 1, StudentID: 5, Status: StatusApproved}, nil)

	res, changed, err := svc.Approve(ctx, 1)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusApproved, res.Status)
}

func TestApprove_AlreadyApprovedIsNoOp(t *testing.T) {
	repo := new(MockReservationRepo)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("Approve", ctx, 1).
		Return(&Reservation{ID: 1, Status: StatusApproved}, ErrAlreadyProcessed)

	res, changed, err := svc.Approve(ctx, 1)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, StatusApproved, res.Status)
}

func TestApprove_InsufficientHoursPropagates(t *testing.T) {
	repo := new(MockReservationRepo)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("Approve", ctx, 1).Return(nil, ledger.ErrInsufficientHours)

	_, _, err := svc.Approve(ctx, 1)
	assert.ErrorIs(t, err, ledger.ErrInsufficientHours)
}

func TestReject_AfterApprove_NoRefund(t *testing.T) {
	repo := new(MockReservationRepo)
	svc := NewService(repo)
	ctx := context.Background()

	// Rejecting an approved reservation succeeds. The hour spent on approval
	// is not returned; the repository performs no ledger call on reject.
	repo.On("Reject", ctx, 1).
		Return(&Reservation{ID: 1, StudentID: 5, Status: StatusRejected}, nil)

	res, changed, err := svc.Reject(ctx, 1)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusRejected, res.Status)
}

func TestBulkApprove_SkipsBrokeStudents(t *testing.T) {
	repo := new(MockReservationRepo)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("Approve", ctx, 1).
		Return(&Reservation{ID: 1, Status: StatusApproved}, nil)
	repo.On("Approve", ctx, 2).Return(nil, ledger.ErrInsufficientHours)
	repo.On("Approve", ctx, 3).Return(nil, ErrReservationNotFound)
	repo.On("Approve", ctx, 4).
		Return(&Reservation{ID: 4, Status: StatusApproved}, ErrAlreadyProcessed)
	repo.On("Approve", ctx, 5).
		Return(&Reservation{ID: 5, Status: StatusApproved}, nil)

	updated, err := svc.BulkApprove(ctx, []int{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, 2, updated)
}

func TestBulkReject_CountsOnlyChanged(t *testing.T) {
	repo := new(MockReservationRepo)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("Reject", ctx, 1).
		Return(&Reservation{ID: 1, Status: StatusRejected}, nil)
	repo.On("Reject", ctx, 2).
		Return(&Reservation{ID: 2, Status: StatusRejected}, ErrAlreadyProcessed)

	updated, err := svc.BulkReject(ctx, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
}

func TestDelete_PassesThroughOwnership(t *testing.T) {
	repo := new(MockReservationRepo)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("Delete", ctx, 1, 5).Return(ErrNotDeletable)

	err := svc.Delete(ctx, 1, 5)
	assert.ErrorIs(t, err, ErrNotDeletable)
}

func TestHideRejected_ReportsCount(t *testing.T) {
	repo := new(MockReservationRepo)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("HideRejected", ctx, 5).Return(3, nil)

	hidden, err := svc.HideRejected(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, hidden)
}

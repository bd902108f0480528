package reservation

import (
	"context"
	"errors"

	"tutorhours/internal/ledger"
	"tutorhours/internal/metrics"
)

var ErrInvalidTimeRange = errors.New("end time must be after start time")

type Service interface {
	Create(ctx context.Context, studentID int, req CreateReservationRequest) (*Reservation, error)
	Approve(ctx context.Context, id int) (*Reservation, bool, error)
	Reject(ctx context.Context, id int) (*Reservation, bool, error)
	BulkApprove(ctx context.Context, ids []int) (int, error)
	BulkReject(ctx context.Context, ids []int) (int, error)
	Delete(ctx context.Context, id, studentID int) error
	HideRejected(ctx context.Context, studentID int) (int, error)
	ListAll(ctx context.Context) ([]ReservationWithUser, error)
	ListForStudent(ctx context.Context, studentID int) ([]Reservation, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, studentID int, req CreateReservationRequest) (*Reservation, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	res, err := s.repo.Create(ctx, &Reservation{
		StudentID: studentID,
		StartTime: req.StartTime.UTC(),
		EndTime:   req.EndTime.UTC(),
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordReservation(StatusPending)
	return res, nil
}

// Approve reports whether the reservation actually changed. A repeat approval
// is a no-op with changed=false; a student without hours gets
// ledger.ErrInsufficientHours and the reservation stays put.
func (s *service) Approve(ctx context.Context, id int) (*Reservation, bool, error) {
	res, err := s.repo.Approve(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			return res, false, nil
		}
		if errors.Is(err, ledger.ErrInsufficientHours) {
			metrics.RecordInsufficientHours()
		}
		return nil, false, err
	}

	metrics.RecordReservation(StatusApproved)
	metrics.RecordDebit(1)
	return res, true, nil
}

func (s *service) Reject(ctx context.Context, id int) (*Reservation, bool, error) {
	res, err := s.repo.Reject(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			return res, false, nil
		}
		return nil, false, err
	}

	metrics.RecordReservation(StatusRejected)
	return res, true, nil
}

// BulkApprove applies the per-record rule and reports how many changed.
// Missing records and students without hours are skipped so one broke student
// cannot fail the whole batch.
func (s *service) BulkApprove(ctx context.Context, ids []int) (int, error) {
	updated := 0
	for _, id := range ids {
		_, changed, err := s.Approve(ctx, id)
		if err != nil {
			if errors.Is(err, ErrReservationNotFound) || errors.Is(err, ledger.ErrInsufficientHours) {
				continue
			}
			return updated, err
		}
		if changed {
			updated++
		}
	}
	return updated, nil
}

func (s *service) BulkReject(ctx context.Context, ids []int) (int, error) {
	updated := 0
	for _, id := range ids {
		_, changed, err := s.Reject(ctx, id)
		if err != nil {
			if errors.Is(err, ErrReservationNotFound) {
				continue
			}
			return updated, err
		}
		if changed {
			updated++
		}
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id, studentID int) error {
	return s.repo.Delete(ctx, id, studentID)
}

func (s *service) HideRejected(ctx context.Context, studentID int) (int, error) {
	return s.repo.HideRejected(ctx, studentID)
}

func (s *service) ListAll(ctx context.Context) ([]ReservationWithUser, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) ListForStudent(ctx context.Context, studentID int) ([]Reservation, error) {
	return s.repo.ListForStudent(ctx, studentID)
}

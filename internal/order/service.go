package order

import (
	"context"
	"errors"

	"tutorhours/internal/logger"
	"tutorhours/internal/metrics"
	"tutorhours/internal/user"
)

var (
	ErrInvalidHours     = errors.New("hours must be positive")
	ErrTermsNotAccepted = errors.New("terms and conditions must be accepted")
	ErrGDPRNotAccepted  = errors.New("gdpr policy must be accepted")
	ErrEmailInUse       = errors.New("email address is already in use")
)

// Notifier delivers workflow events. Implementations are best-effort: the
// workflows log failures and never roll back on them.
type Notifier interface {
	SendOrderReceived(ctx context.Context, to, name string, hours int) error
	SendOrderApproved(ctx context.Context, to, name string, hours int) error
}

type Service interface {
	Create(ctx context.Context, studentID int, req CreateOrderRequest) (*Order, error)
	CreateHourOrder(ctx context.Context, studentID, hours int) (*Order, error)
	Approve(ctx context.Context, id int) (*Order, bool, error)
	Reject(ctx context.Context, id int) (*Order, bool, error)
	BulkApprove(ctx context.Context, ids []int) (int, error)
	BulkReject(ctx context.Context, ids []int) (int, error)
	ListAll(ctx context.Context) ([]Order, error)
	ListByStudent(ctx context.Context, studentID int) ([]Order, error)
	GetProfileSummary(ctx context.Context, userID int) (*ProfileSummary, error)
}

type service struct {
	repo     Repository
	userRepo user.Repository
	notifier Notifier
}

func NewService(repo Repository, userRepo user.Repository, notifier Notifier) Service {
	return &service{
		repo:     repo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

func (s *service) Create(ctx context.Context, studentID int, req CreateOrderRequest) (*Order, error) {
	if req.Hours <= 0 {
		return nil, ErrInvalidHours
	}
	if !req.TermsAccepted {
		return nil, ErrTermsNotAccepted
	}
	if !req.GDPRAccepted {
		return nil, ErrGDPRNotAccepted
	}

	used, err := s.userRepo.EmailUsedByOther(ctx, req.Email, studentID)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, ErrEmailInUse
	}

	o, err := s.repo.Create(ctx, &Order{
		StudentID:     studentID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Hours:         req.Hours,
		TermsAccepted: req.TermsAccepted,
		GDPRAccepted:  req.GDPRAccepted,
	})
	if err != nil {
		return nil, err
	}

	// Orders double as the profile form: keep the user's contact fields in
	// sync with what they entered.
	if err := s.userRepo.UpdateContactInfo(ctx, studentID, req.FirstName, req.LastName, req.Email); err != nil {
		return nil, err
	}

	metrics.RecordOrder(StatusPending)
	s.notifyReceived(ctx, o)

	return o, nil
}

func (s *service) CreateHourOrder(ctx context.Context, studentID, hours int) (*Order, error) {
	if hours <= 0 {
		return nil, ErrInvalidHours
	}

	u, err := s.userRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	o, err := s.repo.Create(ctx, &Order{
		StudentID:     studentID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		Hours:         hours,
		TermsAccepted: true,
		GDPRAccepted:  true,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordOrder(StatusPending)
	s.notifyReceived(ctx, o)

	return o, nil
}

// Approve returns the order and whether anything changed. Repeated approvals
// of the same order report changed=false and leave the ledger untouched.
func (s *service) Approve(ctx context.Context, id int) (*Order, bool, error) {
	o, err := s.repo.Approve(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			return o, false, nil
		}
		return nil, false, err
	}

	metrics.RecordOrder(StatusApproved)
	metrics.RecordCredit(o.Hours)

	if o.Email != "" {
		if err := s.notifier.SendOrderApproved(ctx, o.Email, o.FirstName, o.Hours); err != nil {
			logger.Error("Failed to send order approved notification", "order_id", o.ID, "error", err)
		}
	}

	return o, true, nil
}

func (s *service) Reject(ctx context.Context, id int) (*Order, bool, error) {
	o, err := s.repo.Reject(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			return o, false, nil
		}
		return nil, false, err
	}

	metrics.RecordOrder(StatusRejected)
	return o, true, nil
}

// BulkApprove applies the per-record approval rule to each id and reports how
// many actually changed. Already-processed and missing records are skipped,
// never an error: "approve all selected" must not fail the whole batch.
func (s *service) BulkApprove(ctx context.Context, ids []int) (int, error) {
	updated := 0
	for _, id := range ids {
		_, changed, err := s.Approve(ctx, id)
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
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
	updated, err := s.repo.RejectPending(ctx, ids)
	if err != nil {
		return 0, err
	}
	for i := 0; i < updated; i++ {
		metrics.RecordOrder(StatusRejected)
	}
	return updated, nil
}

func (s *service) ListAll(ctx context.Context) ([]Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) ListByStudent(ctx context.Context, studentID int) ([]Order, error) {
	return s.repo.ListByStudent(ctx, studentID)
}

func (s *service) GetProfileSummary(ctx context.Context, userID int) (*ProfileSummary, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	pending, err := s.repo.HasOrderWithStatus(ctx, userID, StatusPending)
	if err != nil {
		return nil, err
	}

	completed, err := s.repo.HasOrderWithStatus(ctx, userID, StatusApproved)
	if err != nil {
		return nil, err
	}

	return &ProfileSummary{
		Username:       u.Username,
		OrderCompleted: completed,
		OrderPending:   pending,
	}, nil
}

func (s *service) notifyReceived(ctx context.Context, o *Order) {
	if o.Email == "" {
		return
	}
	if err := s.notifier.SendOrderReceived(ctx, o.Email, o.FirstName, o.Hours); err != nil {
		logger.Error("Failed to send order received notification", "order_id", o.ID, "error", err)
	}
}

package admin

import (
	"context"
	"errors"

	"tutorhours/internal/order"
	"tutorhours/internal/reservation"
)

const (
	TargetOrders       = "orders"
	TargetReservations = "reservations"

	ActionApprove = "approve"
	ActionReject  = "reject"
)

var (
	ErrUnknownTarget = errors.New("unknown target")
	ErrUnknownAction = errors.New("unknown action")
)

// Summary reports the outcome of a bulk action. Skipped covers records that
// were missing, already terminal, or blocked by an empty ledger.
type Summary struct {
	Requested int `json:"requested"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
}

// Dispatcher routes tagged bulk commands to the owning workflow service, so
// the staff panel stays a single endpoint no matter how many workflows exist.
type Dispatcher struct {
	orders       order.Service
	reservations reservation.Service
}

func NewDispatcher(orders order.Service, reservations reservation.Service) *Dispatcher {
	return &Dispatcher{orders: orders, reservations: reservations}
}

func (d *Dispatcher) Apply(ctx context.Context, target, action string, ids []int) (*Summary, error) {
	var (
		updated int
		err     error
	)

	switch target {
	case TargetOrders:
		switch action {
		case ActionApprove:
			updated, err = d.orders.BulkApprove(ctx, ids)
		case ActionReject:
			updated, err = d.orders.BulkReject(ctx, ids)
		default:
			return nil, ErrUnknownAction
		}
	case TargetReservations:
		switch action {
		case ActionApprove:
			updated, err = d.reservations.BulkApprove(ctx, ids)
		case ActionReject:
			updated, err = d.reservations.BulkReject(ctx, ids)
		default:
			return nil, ErrUnknownAction
		}
	default:
		return nil, ErrUnknownTarget
	}

	if err != nil {
		return nil, err
	}

	return &Summary{
		Requested: len(ids),
		Updated:   updated,
		Skipped:   len(ids) - updated,
	}, nil
}

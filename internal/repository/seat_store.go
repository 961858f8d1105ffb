package repository

import (
	"context"

	"github.com/iliyamo/airline-seat-booking/internal/model"
)

// SeatReader exposes the pure reads of the seat store.
type SeatReader interface {
	// Status returns AVAILABLE or BOOKED, or INVALID when no such seat
	// exists.  The error is reserved for storage failures.
	Status(ctx context.Context, seatID string) (model.Status, error)
	// Category returns the passenger tag, CategoryNone when the seat is
	// untagged or does not exist.
	Category(ctx context.Context, seatID string) (model.Category, error)
}

// SeatTx is the view of the store handed to a transaction body.
type SeatTx interface {
	SeatReader
	// Set writes status and category unconditionally.  It returns
	// ErrSeatNotFound when the seat does not exist.
	Set(ctx context.Context, seatID string, status model.Status, category model.Category) error
}

// SeatStore is the durable mapping from seat identifier to state.
type SeatStore interface {
	SeatTx
	// Init creates every listed seat that is missing, as AVAILABLE with no
	// category.  Existing seats keep their state.
	Init(ctx context.Context, seatIDs []string) error
	// LoadAll returns the state of every stored seat.
	LoadAll(ctx context.Context) (map[string]model.SeatState, error)
	// InTx runs fn inside one transaction.  The transaction commits when
	// fn returns nil and rolls back otherwise, including on panic.
	InTx(ctx context.Context, fn func(tx SeatTx) error) error
}

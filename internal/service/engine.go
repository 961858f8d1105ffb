// Package service implements the seat allocation engine: booking,
// cancellation, fare calculation, preference based auto-assignment and
// adjacent seat group search over a grid of seats.
//
// The engine holds no seat state of its own.  Every operation re-reads the
// store inside a single store transaction, so decisions are never taken on
// data read by an earlier call.  Concurrent sessions are not coordinated
// beyond what that transaction gives.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/airline-seat-booking/internal/grid"
	"github.com/iliyamo/airline-seat-booking/internal/metrics"
	"github.com/iliyamo/airline-seat-booking/internal/model"
	"github.com/iliyamo/airline-seat-booking/internal/queue"
	"github.com/iliyamo/airline-seat-booking/internal/repository"
)

// Options gate the optional capabilities and carry pricing constants.
type Options struct {
	BaseFare         float64 // fare before discount, e.g. 5000
	CategoryPricing  bool    // apply category discounts
	GroupSearch      bool    // enable FindAdjacentGroup
	PreferredColumns string  // aisle-adjacent labels for ELDERLY/DISABLED, e.g. "CD"
}

// DefaultOptions enables every capability with a base fare of 5000.
func DefaultOptions() Options {
	return Options{BaseFare: 5000, CategoryPricing: true, GroupSearch: true, PreferredColumns: "CD"}
}

// EventPublisher receives an event after each committed booking change.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.SeatEvent) error
}

// Engine is constructed once per process and shared by all handlers.
type Engine struct {
	grid    *grid.Grid
	store   repository.SeatStore
	opts    Options
	events  EventPublisher
	log     *zap.Logger
	metrics *metrics.Recorder
}

// Option customizes an Engine.
type Option func(*Engine)

// WithPublisher sends seat events to p.
func WithPublisher(p EventPublisher) Option { return func(e *Engine) { e.events = p } }

// WithLogger replaces the no-op logger.
func WithLogger(l *zap.Logger) Option { return func(e *Engine) { e.log = l } }

// WithMetrics counts operation outcomes on r.
func WithMetrics(r *metrics.Recorder) Option { return func(e *Engine) { e.metrics = r } }

// NewEngine wires an engine over g and store.  It does not initialize the
// store; see Init.
func NewEngine(g *grid.Grid, store repository.SeatStore, opts Options, options ...Option) *Engine {
	e := &Engine{grid: g, store: store, opts: opts, log: zap.NewNop()}
	for _, o := range options {
		o(e)
	}
	return e
}

// Grid returns the engine's seat grid.
func (e *Engine) Grid() *grid.Grid { return e.grid }

// Options returns the configured options.
func (e *Engine) Options() Options { return e.opts }

// Init creates any seat of the grid missing from the store.
func (e *Engine) Init(ctx context.Context) error {
	ids := make([]string, 0, e.grid.Size())
	for id := range e.grid.All() {
		ids = append(ids, id)
	}
	if err := e.store.Init(ctx, ids); err != nil {
		return fmt.Errorf("init seat store: %w", err)
	}
	return nil
}

// Status classifies one identifier.  Identifiers off the grid are INVALID.
func (e *Engine) Status(ctx context.Context, seatID string) (model.SeatView, error) {
	id, ok := e.grid.Normalize(seatID)
	if !ok {
		return model.SeatView{ID: seatID, Status: model.StatusInvalid}, nil
	}
	st, err := e.store.Status(ctx, id)
	if err != nil {
		return model.SeatView{}, err
	}
	view := model.SeatView{ID: id, Status: st}
	if st == model.StatusBooked {
		if view.Category, err = e.store.Category(ctx, id); err != nil {
			return model.SeatView{}, err
		}
	}
	return view, nil
}

// Book marks an available seat as booked with the given category.
func (e *Engine) Book(ctx context.Context, seatID string, category model.Category) (Result, error) {
	res, err := e.book(ctx, seatID, category)
	e.finish(ctx, "book", res, err, category)
	return res, err
}

func (e *Engine) book(ctx context.Context, seatID string, category model.Category) (Result, error) {
	id, ok := e.grid.Normalize(seatID)
	if !ok {
		return invalidSeat(seatID), nil
	}
	var res Result
	err := e.store.InTx(ctx, func(tx repository.SeatTx) error {
		st, err := tx.Status(ctx, id)
		if err != nil {
			return err
		}
		switch st {
		case model.StatusAvailable:
			if err := tx.Set(ctx, id, model.StatusBooked, category); err != nil {
				return err
			}
			res = success(fmt.Sprintf("seat %s booked successfully", id))
		case model.StatusBooked:
			res = failure(CodeAlreadyBooked, fmt.Sprintf("seat %s is already booked", id))
		default:
			res = invalidSeat(id)
		}
		return nil
	})
	if err != nil {
		return Result{}, storeError("book", err)
	}
	res.SeatID = id
	return res, nil
}

// Cancel returns a booked seat to available and clears its category.
func (e *Engine) Cancel(ctx context.Context, seatID string) (Result, error) {
	res, err := e.cancel(ctx, seatID)
	e.finish(ctx, "cancel", res, err, model.CategoryNone)
	return res, err
}

func (e *Engine) cancel(ctx context.Context, seatID string) (Result, error) {
	id, ok := e.grid.Normalize(seatID)
	if !ok {
		return invalidSeat(seatID), nil
	}
	var res Result
	err := e.store.InTx(ctx, func(tx repository.SeatTx) error {
		st, err := tx.Status(ctx, id)
		if err != nil {
			return err
		}
		switch st {
		case model.StatusBooked:
			if err := tx.Set(ctx, id, model.StatusAvailable, model.CategoryNone); err != nil {
				return err
			}
			res = success(fmt.Sprintf("seat %s has been cancelled and is now available", id))
		case model.StatusAvailable:
			res = failure(CodeNotBooked, fmt.Sprintf("seat %s is not booked", id))
		default:
			res = invalidSeat(id)
		}
		return nil
	})
	if err != nil {
		return Result{}, storeError("cancel", err)
	}
	res.SeatID = id
	return res, nil
}

// Snapshot lists every seat in grid order.  A grid seat missing from the
// store is reported INVALID.
func (e *Engine) Snapshot(ctx context.Context) ([]model.SeatView, error) {
	all, err := e.store.LoadAll(ctx)
	if err != nil {
		return nil, storeError("snapshot", err)
	}
	out := make([]model.SeatView, 0, e.grid.Size())
	for id := range e.grid.All() {
		st, ok := all[id]
		if !ok {
			out = append(out, model.SeatView{ID: id, Status: model.StatusInvalid})
			continue
		}
		out = append(out, model.SeatView{ID: id, Status: st.Status, Category: st.Category})
	}
	return out, nil
}

// finish logs, counts and, for committed changes, publishes the outcome.
func (e *Engine) finish(ctx context.Context, op string, res Result, err error, category model.Category) {
	if err != nil {
		e.metrics.Observe(op, "error")
		e.log.Error("seat operation failed", zap.String("op", op), zap.Error(err))
		return
	}
	e.metrics.Observe(op, string(res.Code))
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("code", string(res.Code)),
		zap.String("seat_id", res.SeatID),
		zap.Stringer("category", category),
	}
	if !res.OK || op == "group" {
		e.log.Debug("seat operation", fields...)
		return
	}
	e.log.Info("seat operation", fields...)

	if e.events == nil {
		return
	}
	ev := queue.NewSeatEvent(queue.SeatCancelled, res.SeatID, "", 0, ActorFrom(ctx))
	if op != "cancel" {
		ev = queue.NewSeatEvent(queue.SeatBooked, res.SeatID, string(category), e.CalculatePrice(category), ActorFrom(ctx))
	}
	if perr := e.events.Publish(ctx, ev); perr != nil {
		e.log.Warn("seat event not published", zap.String("seat_id", res.SeatID), zap.Error(perr))
	}
}

func invalidSeat(seatID string) Result {
	return failure(CodeInvalidSeat, fmt.Sprintf("invalid seat number: %s", seatID))
}

// ErrStore wraps every storage failure surfaced by the engine.
var ErrStore = errors.New("seat store failure")

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}

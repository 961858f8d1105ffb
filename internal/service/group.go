package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/airline-seat-booking/internal/grid"
	"github.com/iliyamo/airline-seat-booking/internal/model"
	"github.com/iliyamo/airline-seat-booking/internal/repository"
)

// FindAdjacentGroup runs a breadth-first search from startID and returns
// the first size available seats it dequeues, in discovery order.
// Neighbours are enqueued up, down, left, right; each coordinate is
// visited at most once.  Booked seats are passed through but not
// collected.  Nothing is booked.
//
// The returned seats are each reachable from the start, but they need not
// form one contiguous block.
// TODO: add a contiguous-block mode once the product rules for group
// seating (same row only, or any connected shape) are settled.
func (e *Engine) FindAdjacentGroup(ctx context.Context, startID string, size int) (Result, error) {
	res, err := e.findAdjacentGroup(ctx, startID, size)
	e.finish(ctx, "group", res, err, model.CategoryNone)
	return res, err
}

func (e *Engine) findAdjacentGroup(ctx context.Context, startID string, size int) (Result, error) {
	if !e.opts.GroupSearch {
		return failure(CodeFeatureDisabled, "group search is disabled"), nil
	}
	start, ok := e.grid.Coord(startID)
	if !ok {
		return invalidSeat(startID), nil
	}
	if size < 1 {
		return failure(CodeInvalidGroupSize, fmt.Sprintf("group size must be at least 1, got %d", size)), nil
	}

	var found []string
	err := e.store.InTx(ctx, func(tx repository.SeatTx) error {
		visited := map[grid.Coord]bool{start: true}
		queue := []grid.Coord{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]

			id, _ := e.grid.SeatID(cur.Row, cur.Col)
			st, err := tx.Status(ctx, id)
			if err != nil {
				return err
			}
			if st == model.StatusAvailable {
				found = append(found, id)
				if len(found) == size {
					return nil
				}
			}
			for _, n := range e.grid.Neighbors(cur) {
				if !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, storeError("group", err)
	}

	startNorm, _ := e.grid.SeatID(start.Row, start.Col)
	if len(found) < size {
		res := failure(CodeNoSuitableSeat, fmt.Sprintf("fewer than %d available seats reachable from %s", size, startNorm))
		res.SeatID = startNorm
		return res, nil
	}
	res := success(fmt.Sprintf("found %d seats near %s", size, startNorm))
	res.SeatID = startNorm
	res.Seats = found
	return res, nil
}

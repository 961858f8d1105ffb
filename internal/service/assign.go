package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/airline-seat-booking/internal/model"
	"github.com/iliyamo/airline-seat-booking/internal/repository"
)

// windowRows is how many rows the front and back preference windows span.
const windowRows = 3

// window is the set of seats an AutoAssign call may choose from, as rows
// in scan order and column indexes in scan order.
type window struct {
	rows []int
	cols []int
}

// windowFor maps a category to its preference window:
//
//	ELDERLY, DISABLED  first 3 rows, preferred (aisle) columns only
//	INFANT             first 3 rows, every column
//	SILENT             last 3 rows, every column
//	anything else      every row, every column
//
// Preferred labels missing from the grid are skipped, so the window can be
// empty.
func (e *Engine) windowFor(category model.Category) window {
	n := e.grid.Rows()
	first := span(1, min(windowRows, n))
	last := span(max(1, n-windowRows+1), n)
	every := span(0, len(e.grid.Columns())-1)

	switch category {
	case model.CategoryElderly, model.CategoryDisabled:
		cols := make([]int, 0, len(e.opts.PreferredColumns))
		for i := 0; i < len(e.opts.PreferredColumns); i++ {
			if c, ok := e.grid.ColumnIndex(e.opts.PreferredColumns[i]); ok {
				cols = append(cols, c)
			}
		}
		return window{rows: first, cols: cols}
	case model.CategoryInfant:
		return window{rows: first, cols: every}
	case model.CategorySilent:
		return window{rows: last, cols: every}
	default:
		return window{rows: span(1, n), cols: every}
	}
}

func span(from, to int) []int {
	out := make([]int, 0, max(0, to-from+1))
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

// AutoAssign books the first available seat inside the category's
// preference window, scanning rows in ascending order and, within a row,
// the window's columns in order.  It never widens the search beyond the
// window: when the window is full the result is CodeNoSuitableSeat even if
// seats are free elsewhere.
func (e *Engine) AutoAssign(ctx context.Context, category model.Category) (Result, error) {
	res, err := e.autoAssign(ctx, category)
	e.finish(ctx, "auto_assign", res, err, category)
	return res, err
}

func (e *Engine) autoAssign(ctx context.Context, category model.Category) (Result, error) {
	w := e.windowFor(category)
	var res Result
	err := e.store.InTx(ctx, func(tx repository.SeatTx) error {
		for _, r := range w.rows {
			for _, c := range w.cols {
				id, _ := e.grid.SeatID(r, c)
				st, err := tx.Status(ctx, id)
				if err != nil {
					return err
				}
				if st != model.StatusAvailable {
					continue
				}
				if err := tx.Set(ctx, id, model.StatusBooked, category); err != nil {
					return err
				}
				res = success(fmt.Sprintf("seat %s assigned", id))
				res.SeatID = id
				return nil
			}
		}
		res = failure(CodeNoSuitableSeat, fmt.Sprintf("no suitable seat for category %s", category))
		return nil
	})
	if err != nil {
		return Result{}, storeError("auto_assign", err)
	}
	return res, nil
}

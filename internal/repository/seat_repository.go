package repository // repository defines data access for seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparison
	"fmt"
	"strings"

	"github.com/iliyamo/airline-seat-booking/internal/database"
	"github.com/iliyamo/airline-seat-booking/internal/model"
)

// initChunk bounds the number of rows per bulk insert.
const initChunk = 500

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SeatRepo stores seats in the `seats` table of MySQL or SQLite.  The
// handle is long-lived; transactions are acquired per InTx call.
type SeatRepo struct {
	db     *sql.DB
	driver string
	seatQueries
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.  driver is
// database.DriverMySQL or database.DriverSQLite and selects the dialect.
func NewSeatRepo(db *sql.DB, driver string) *SeatRepo {
	return &SeatRepo{db: db, driver: driver, seatQueries: seatQueries{q: db}}
}

// DB exposes the underlying handle.
func (r *SeatRepo) DB() *sql.DB { return r.db }

// Init inserts missing seats in bulk, leaving existing rows untouched.
func (r *SeatRepo) Init(ctx context.Context, seatIDs []string) error {
	verb := "INSERT IGNORE INTO"
	if r.driver == database.DriverSQLite {
		verb = "INSERT OR IGNORE INTO"
	}
	for start := 0; start < len(seatIDs); start += initChunk {
		end := min(start+initChunk, len(seatIDs))
		batch := seatIDs[start:end]

		var b strings.Builder
		b.WriteString(verb)
		b.WriteString(" seats (seat_id, status, category) VALUES ")
		args := make([]any, 0, len(batch)*2)
		for i, id := range batch {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString("(?, ?, '')")
			args = append(args, id, string(model.StatusAvailable))
		}
		if _, err := r.db.ExecContext(ctx, b.String(), args...); err != nil {
			return fmt.Errorf("init seats: %w", err)
		}
	}
	return nil
}

// LoadAll reads every seat row.
func (r *SeatRepo) LoadAll(ctx context.Context) (map[string]model.SeatState, error) {
	const q = `SELECT seat_id, status, category FROM seats`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]model.SeatState)
	for rows.Next() {
		var id, status, category string
		if err := rows.Scan(&id, &status, &category); err != nil {
			return nil, err
		}
		out[id] = model.SeatState{Status: model.Status(status), Category: model.Category(category)}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// InTx runs fn against a transaction-bound view of the store.
func (r *SeatRepo) InTx(ctx context.Context, fn func(tx SeatTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(seatQueries{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// seatQueries implements SeatTx over either the pool or a transaction.
type seatQueries struct {
	q querier
}

func (s seatQueries) Status(ctx context.Context, seatID string) (model.Status, error) {
	st, err := s.get(ctx, seatID)
	if err != nil {
		return model.StatusInvalid, err
	}
	return st.Status, nil
}

func (s seatQueries) Category(ctx context.Context, seatID string) (model.Category, error) {
	st, err := s.get(ctx, seatID)
	if err != nil {
		return model.CategoryNone, err
	}
	return st.Category, nil
}

// get returns an INVALID state without error when the row is missing.
func (s seatQueries) get(ctx context.Context, seatID string) (model.SeatState, error) {
	const q = `SELECT status, category FROM seats WHERE seat_id = ?`
	var status, category string
	err := s.q.QueryRowContext(ctx, q, seatID).Scan(&status, &category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SeatState{Status: model.StatusInvalid}, nil
		}
		return model.SeatState{}, err
	}
	return model.SeatState{Status: model.Status(status), Category: model.Category(category)}, nil
}

func (s seatQueries) Set(ctx context.Context, seatID string, status model.Status, category model.Category) error {
	const q = `UPDATE seats SET status = ?, category = ?, updated_at = CURRENT_TIMESTAMP WHERE seat_id = ?`
	res, err := s.q.ExecContext(ctx, q, string(status), string(category), seatID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSeatNotFound
	}
	return nil
}

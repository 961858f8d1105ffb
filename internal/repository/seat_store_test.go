package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/airline-seat-booking/internal/database"
	"github.com/iliyamo/airline-seat-booking/internal/model"
)

var testSeats = []string{"1A", "1B", "2A", "2B"}

func openSQLite(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db, database.DriverSQLite))
	return db
}

func newSQLiteStore(t *testing.T) SeatStore {
	t.Helper()
	db := openSQLite(t, filepath.Join(t.TempDir(), "seats.db"))
	t.Cleanup(func() { _ = db.Close() })
	return NewSeatRepo(db, database.DriverSQLite)
}

func storeFactories() map[string]func(t *testing.T) SeatStore {
	return map[string]func(t *testing.T) SeatStore{
		"memory": func(*testing.T) SeatStore { return NewMemSeatStore() },
		"sqlite": newSQLiteStore,
	}
}

func TestSeatStore_Contract(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)
			require.NoError(t, s.Init(ctx, testSeats))

			t.Run("initial state", func(t *testing.T) {
				all, err := s.LoadAll(ctx)
				require.NoError(t, err)
				assert.Len(t, all, len(testSeats))
				for _, id := range testSeats {
					assert.Equal(t, model.SeatState{Status: model.StatusAvailable}, all[id], id)
				}
			})

			t.Run("unknown seat is invalid, not an error", func(t *testing.T) {
				st, err := s.Status(ctx, "99Z")
				require.NoError(t, err)
				assert.Equal(t, model.StatusInvalid, st)

				cat, err := s.Category(ctx, "99Z")
				require.NoError(t, err)
				assert.Equal(t, model.CategoryNone, cat)
			})

			t.Run("set and read back", func(t *testing.T) {
				require.NoError(t, s.Set(ctx, "1B", model.StatusBooked, model.CategoryInfant))

				st, err := s.Status(ctx, "1B")
				require.NoError(t, err)
				assert.Equal(t, model.StatusBooked, st)

				cat, err := s.Category(ctx, "1B")
				require.NoError(t, err)
				assert.Equal(t, model.CategoryInfant, cat)
			})

			t.Run("set outside the grid", func(t *testing.T) {
				err := s.Set(ctx, "99Z", model.StatusBooked, model.CategoryNone)
				assert.ErrorIs(t, err, ErrSeatNotFound)
			})

			t.Run("init keeps existing state", func(t *testing.T) {
				require.NoError(t, s.Init(ctx, testSeats))
				st, err := s.Status(ctx, "1B")
				require.NoError(t, err)
				assert.Equal(t, model.StatusBooked, st)
			})

			t.Run("tx commits", func(t *testing.T) {
				err := s.InTx(ctx, func(tx SeatTx) error {
					return tx.Set(ctx, "2A", model.StatusBooked, model.CategorySilent)
				})
				require.NoError(t, err)
				st, err := s.Status(ctx, "2A")
				require.NoError(t, err)
				assert.Equal(t, model.StatusBooked, st)
			})

			t.Run("tx rolls back on error", func(t *testing.T) {
				boom := errors.New("boom")
				err := s.InTx(ctx, func(tx SeatTx) error {
					require.NoError(t, tx.Set(ctx, "2B", model.StatusBooked, model.CategoryElderly))
					st, err := tx.Status(ctx, "2B")
					require.NoError(t, err)
					assert.Equal(t, model.StatusBooked, st, "write visible inside the tx")
					return boom
				})
				assert.ErrorIs(t, err, boom)

				st, err := s.Status(ctx, "2B")
				require.NoError(t, err)
				assert.Equal(t, model.StatusAvailable, st)
			})

			t.Run("tx rolls back on panic", func(t *testing.T) {
				assert.Panics(t, func() {
					_ = s.InTx(ctx, func(tx SeatTx) error {
						_ = tx.Set(ctx, "1A", model.StatusBooked, model.CategoryNone)
						panic("boom")
					})
				})
				st, err := s.Status(ctx, "1A")
				require.NoError(t, err)
				assert.Equal(t, model.StatusAvailable, st)
			})
		})
	}
}

func TestSeatRepo_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "seats.db")

	db := openSQLite(t, path)
	repo := NewSeatRepo(db, database.DriverSQLite)
	require.NoError(t, repo.Init(ctx, testSeats))
	require.NoError(t, repo.Set(ctx, "2B", model.StatusBooked, model.CategoryDisabled))
	require.NoError(t, db.Close())

	db = openSQLite(t, path)
	defer db.Close()
	repo = NewSeatRepo(db, database.DriverSQLite)
	require.NoError(t, repo.Init(ctx, testSeats))

	all, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SeatState{Status: model.StatusBooked, Category: model.CategoryDisabled}, all["2B"])
	assert.Equal(t, model.SeatState{Status: model.StatusAvailable}, all["1A"])
}

func TestSeatRepo_InitChunks(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteStore(t)

	ids := make([]string, 0, initChunk+10)
	for i := 1; i <= initChunk+10; i++ {
		ids = append(ids, fmt.Sprintf("S%d", i))
	}
	require.NoError(t, repo.Init(ctx, ids))

	all, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(ids))
}

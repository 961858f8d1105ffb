package repository

import (
	"context"
	"maps"
	"sync"

	"github.com/iliyamo/airline-seat-booking/internal/model"
)

// MemSeatStore keeps seats in process memory.  It backs DB_DRIVER=memory
// and the engine tests.  InTx serializes transaction bodies with the
// store's mutex; a failed body has its writes undone.
type MemSeatStore struct {
	mu    sync.Mutex
	seats map[string]model.SeatState
}

// NewMemSeatStore returns an empty store; call Init to create seats.
func NewMemSeatStore() *MemSeatStore {
	return &MemSeatStore{seats: make(map[string]model.SeatState)}
}

func (m *MemSeatStore) Init(_ context.Context, seatIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range seatIDs {
		if _, ok := m.seats[id]; !ok {
			m.seats[id] = model.SeatState{Status: model.StatusAvailable}
		}
	}
	return nil
}

func (m *MemSeatStore) LoadAll(_ context.Context) (map[string]model.SeatState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.seats), nil
}

func (m *MemSeatStore) Status(ctx context.Context, seatID string) (model.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memView{m.seats}.Status(ctx, seatID)
}

func (m *MemSeatStore) Category(ctx context.Context, seatID string) (model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memView{m.seats}.Category(ctx, seatID)
}

func (m *MemSeatStore) Set(ctx context.Context, seatID string, status model.Status, category model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memView{m.seats}.Set(ctx, seatID, status, category)
}

func (m *MemSeatStore) InTx(_ context.Context, fn func(tx SeatTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := maps.Clone(m.seats)
	if err := fn(memView{work}); err != nil {
		return err
	}
	m.seats = work
	return nil
}

// memView reads and writes a map the caller has already locked.
type memView struct {
	seats map[string]model.SeatState
}

func (v memView) Status(_ context.Context, seatID string) (model.Status, error) {
	st, ok := v.seats[seatID]
	if !ok {
		return model.StatusInvalid, nil
	}
	return st.Status, nil
}

func (v memView) Category(_ context.Context, seatID string) (model.Category, error) {
	return v.seats[seatID].Category, nil
}

func (v memView) Set(_ context.Context, seatID string, status model.Status, category model.Category) error {
	if _, ok := v.seats[seatID]; !ok {
		return ErrSeatNotFound
	}
	v.seats[seatID] = model.SeatState{Status: status, Category: category}
	return nil
}

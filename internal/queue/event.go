// Package queue defines message payloads exchanged over the message broker.
package queue

import (
    "time"

    "github.com/google/uuid"
)

// SeatEventsQueue is the durable queue seat events are routed to.
const SeatEventsQueue = "seat.events"

// Event types.
const (
    SeatBooked    = "seat.booked"
    SeatCancelled = "seat.cancelled"
)

// SeatEvent is published after a booking or cancellation commits.  It
// carries enough for downstream consumers to log or notify without
// reading the seat store.
type SeatEvent struct {
    EventID    string  `json:"event_id"`
    Type       string  `json:"type"`
    SeatID     string  `json:"seat_id"`
    Category   string  `json:"category,omitempty"`
    Fare       float64 `json:"fare,omitempty"`
    Actor      string  `json:"actor,omitempty"`
    OccurredAt string  `json:"occurred_at"`
}

// NewSeatEvent stamps a fresh event id and the current UTC time.
func NewSeatEvent(typ, seatID, category string, fare float64, actor string) SeatEvent {
    return SeatEvent{
        EventID:    uuid.NewString(),
        Type:       typ,
        SeatID:     seatID,
        Category:   category,
        Fare:       fare,
        Actor:      actor,
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    }
}

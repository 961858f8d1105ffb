package model

import "strings"

// Status is the booking state of a seat.  A seat is either AVAILABLE or
// BOOKED.  INVALID is not a state; it classifies an identifier that does
// not name a seat on the grid.
type Status string

const (
    StatusAvailable Status = "AVAILABLE" // seats.status
    StatusBooked    Status = "BOOKED"    // seats.status
    StatusInvalid   Status = "INVALID"   // never stored
)

// Category tags a booked seat with a passenger preference.  The empty
// category means no tag.
type Category string

const (
    CategoryNone     Category = ""
    CategoryElderly  Category = "ELDERLY"
    CategoryDisabled Category = "DISABLED"
    CategoryInfant   Category = "INFANT"
    CategorySilent   Category = "SILENT"
)

// Categories lists the tagged categories in display order.
var Categories = []Category{CategoryElderly, CategoryDisabled, CategoryInfant, CategorySilent}

// ParseCategory normalizes a user supplied category.  Empty input and
// "NONE" map to CategoryNone.  The second return value is false when the
// input names no known category; the returned category is then
// CategoryNone.
func ParseCategory(s string) (Category, bool) {
    c := Category(strings.ToUpper(strings.TrimSpace(s)))
    switch c {
    case CategoryNone, "NONE":
        return CategoryNone, true
    case CategoryElderly, CategoryDisabled, CategoryInfant, CategorySilent:
        return c, true
    }
    return CategoryNone, false
}

// String returns "NONE" for the empty category so log lines stay readable.
func (c Category) String() string {
    if c == CategoryNone {
        return "NONE"
    }
    return string(c)
}

// SeatState is the persisted pair owned by the seat store.
//
// Fields:
//  Status   – AVAILABLE or BOOKED.
//  Category – passenger tag; CategoryNone while the seat is available.
type SeatState struct {
    Status   Status   // seats.status
    Category Category // seats.category
}

// SeatView is one entry of an ordered seat snapshot.
type SeatView struct {
    ID       string   `json:"id"`
    Status   Status   `json:"status"`
    Category Category `json:"category,omitempty"`
}

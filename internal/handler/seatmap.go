package handler

import (
    "strconv"
    "strings"

    "github.com/iliyamo/airline-seat-booking/internal/grid"
    "github.com/iliyamo/airline-seat-booking/internal/model"
)

const aisleGap = "    "

// RenderSeatMap draws one line per row.  Available seats show their
// identifier, booked seats are masked with "X" and anything else with
// "?".  Cells are padded to the widest identifier and aisles add a gap.
//
//	1A   1B   1C       1D   1E   1F
//	2A   XX   2C       2D   2E   2F
func RenderSeatMap(g *grid.Grid, seats []model.SeatView) string {
    width := len(strconv.Itoa(g.Rows())) + 1
    cols := len(g.Columns())

    var b strings.Builder
    for i, s := range seats {
        col := i % cols
        cell := s.ID
        switch s.Status {
        case model.StatusBooked:
            cell = strings.Repeat("X", len(s.ID))
        case model.StatusAvailable:
        default:
            cell = strings.Repeat("?", len(s.ID))
        }
        b.WriteString(cell)
        if col == cols-1 {
            b.WriteByte('\n')
            continue
        }
        b.WriteString(strings.Repeat(" ", width-len(cell)+2))
        if g.AisleAfter(col) {
            b.WriteString(aisleGap)
        }
    }
    return b.String()
}

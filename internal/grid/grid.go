// Package grid defines the seat identifier space of the cabin: a fixed
// number of rows and an ordered alphabet of column labels.  A seat
// identifier is the decimal row followed by one column label, e.g. "1A".
package grid

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// Coord is a grid position.  Row is 1-based, Col is the 0-based index into
// the column alphabet.
type Coord struct {
	Row int
	Col int
}

// Grid is immutable once constructed.
type Grid struct {
	rows    int
	columns string
	aisles  []int
}

var (
	ErrNoRows    = errors.New("grid needs at least one row")
	ErrNoColumns = errors.New("grid needs at least one column label")
)

// New builds a grid of rows × columns.  Column labels must be distinct
// uppercase ASCII letters.  Aisles lists 1-based column positions after
// which a display gap is drawn; it has no effect on adjacency.
func New(rows int, columns string, aisles []int) (*Grid, error) {
	if rows < 1 {
		return nil, ErrNoRows
	}
	columns = strings.ToUpper(strings.TrimSpace(columns))
	if columns == "" {
		return nil, ErrNoColumns
	}
	seen := make(map[byte]bool, len(columns))
	for i := 0; i < len(columns); i++ {
		ch := columns[i]
		if ch < 'A' || ch > 'Z' {
			return nil, fmt.Errorf("invalid column label %q", ch)
		}
		if seen[ch] {
			return nil, fmt.Errorf("duplicate column label %q", ch)
		}
		seen[ch] = true
	}
	gaps := make([]int, 0, len(aisles))
	for _, a := range aisles {
		if a < 1 || a >= len(columns) {
			return nil, fmt.Errorf("aisle position %d outside 1..%d", a, len(columns)-1)
		}
		gaps = append(gaps, a)
	}
	return &Grid{rows: rows, columns: columns, aisles: gaps}, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Columns returns the column alphabet in seat order.
func (g *Grid) Columns() string { return g.columns }

// Aisles returns the display gap positions.
func (g *Grid) Aisles() []int { return append([]int(nil), g.aisles...) }

// Size is the number of seats on the grid.
func (g *Grid) Size() int { return g.rows * len(g.columns) }

// AisleAfter reports whether a display gap follows the 0-based column.
func (g *Grid) AisleAfter(col int) bool {
	for _, a := range g.aisles {
		if a == col+1 {
			return true
		}
	}
	return false
}

// ColumnIndex returns the 0-based position of a column label.
func (g *Grid) ColumnIndex(label byte) (int, bool) {
	i := strings.IndexByte(g.columns, label)
	return i, i >= 0
}

// All yields every seat identifier, row by row and left to right within a
// row.  The sequence can be ranged over any number of times.
func (g *Grid) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for r := 1; r <= g.rows; r++ {
			for c := 0; c < len(g.columns); c++ {
				if !yield(g.format(r, c)) {
					return
				}
			}
		}
	}
}

// Coord converts a seat identifier to its position.  Input is trimmed and
// upper-cased first.  It never fails loudly: malformed identifiers, zero
// padded rows, unknown labels and out of range rows all return false.
func (g *Grid) Coord(id string) (Coord, bool) {
	s := strings.ToUpper(strings.TrimSpace(id))
	if len(s) < 2 {
		return Coord{}, false
	}
	digits, label := s[:len(s)-1], s[len(s)-1]
	if digits[0] == '0' {
		return Coord{}, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return Coord{}, false
		}
	}
	row, err := strconv.Atoi(digits)
	if err != nil || row < 1 || row > g.rows {
		return Coord{}, false
	}
	col, ok := g.ColumnIndex(label)
	if !ok {
		return Coord{}, false
	}
	return Coord{Row: row, Col: col}, true
}

// SeatID converts a position back to its identifier.
func (g *Grid) SeatID(row, col int) (string, bool) {
	if !g.Contains(Coord{Row: row, Col: col}) {
		return "", false
	}
	return g.format(row, col), true
}

// Normalize returns the canonical form of an identifier, e.g. " 1a" -> "1A".
func (g *Grid) Normalize(id string) (string, bool) {
	c, ok := g.Coord(id)
	if !ok {
		return "", false
	}
	return g.format(c.Row, c.Col), true
}

// Contains reports whether c lies on the grid.
func (g *Grid) Contains(c Coord) bool {
	return c.Row >= 1 && c.Row <= g.rows && c.Col >= 0 && c.Col < len(g.columns)
}

// directions in traversal order: up, down, left, right.
var directions = [4]Coord{{Row: -1}, {Row: 1}, {Col: -1}, {Col: 1}}

// Neighbors returns the in-bounds positions adjacent to c, in the order
// up, down, left, right.  There is no wraparound and no diagonal.
func (g *Grid) Neighbors(c Coord) []Coord {
	out := make([]Coord, 0, len(directions))
	for _, d := range directions {
		n := Coord{Row: c.Row + d.Row, Col: c.Col + d.Col}
		if g.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

func (g *Grid) format(row, col int) string {
	return strconv.Itoa(row) + string(g.columns[col])
}

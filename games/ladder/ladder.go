/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package ladder implements the ladder lottery: splitting participants into
// teams, drawing a random ladder, and tracing every participant down it to
// the column that decides their team.
//
// Everything here is a pure function over plain values. Randomness comes in
// through a Source so callers (and tests) decide how it is seeded.
package ladder

import (
	"math/rand"
)

// MaxParticipants is the hard ceiling on players in a single game.
const MaxParticipants = 100

// Participant is one player on the ladder. Name and Character together
// identify a participant within a game.
type Participant struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Color     string `json:"color"`
}

// Same reports whether p and o refer to the same player.
func (p Participant) Same(o Participant) bool {
	return p.Name == o.Name && p.Character == o.Character
}

// Point is a position on the ladder: X is the vertical line, Y the row
// boundary (0 is the top, Rows() the bottom).
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Path is the full descent of one participant, one point per row boundary.
type Path []Point

// Start is the column the path begins on.
func (p Path) Start() int {
	if len(p) == 0 {
		return 0
	}
	return p[0].X
}

// End is the column the path finishes on.
func (p Path) End() int {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1].X
}

// Grid holds the rungs of a ladder. Rungs[y][x] is true when a rung joins
// line x and line x+1 on row y. Columns is the number of gaps between lines,
// which is one less than the number of participants.
type Grid struct {
	Columns int      `json:"columns"`
	Rungs   [][]bool `json:"rungs"`
}

// NewGrid returns an empty grid of the given size.
func NewGrid(rows, columns int) Grid {
	if rows < 0 {
		rows = 0
	}
	if columns < 0 {
		columns = 0
	}

	rungs := make([][]bool, rows)
	for y := range rungs {
		rungs[y] = make([]bool, columns)
	}

	return Grid{Columns: columns, Rungs: rungs}
}

// Rows is the number of rung rows.
func (g Grid) Rows() int {
	return len(g.Rungs)
}

// HasRung reports whether a rung joins x and x+1 on row y. Out of range
// coordinates have no rung.
func (g Grid) HasRung(y, x int) bool {
	if y < 0 || y >= len(g.Rungs) || x < 0 || x >= len(g.Rungs[y]) {
		return false
	}
	return g.Rungs[y][x]
}

// RungCount returns the total number of rungs.
func (g Grid) RungCount() int {
	n := 0
	for _, row := range g.Rungs {
		for _, r := range row {
			if r {
				n++
			}
		}
	}
	return n
}

// Validate checks that every row is Columns wide and that no row holds two
// rungs side by side.
func (g Grid) Validate() error {
	for y, row := range g.Rungs {
		if len(row) != g.Columns {
			return &GridError{Row: y, Column: len(row), Err: ErrGridMismatch}
		}
		for x := 1; x < len(row); x++ {
			if row[x-1] && row[x] {
				return &GridError{Row: y, Column: x, Err: ErrAdjacentRungs}
			}
		}
	}
	return nil
}

// Source is a uniform pseudo-random generator. *rand.Rand satisfies it.
type Source interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// Intn returns a value in [0, n). It panics if n <= 0.
	Intn(n int) int
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }
func (globalSource) Intn(n int) int   { return rand.Intn(n) }

// DefaultSource returns a Source backed by the package-level math/rand
// generator, which is safe for concurrent use.
func DefaultSource() Source {
	return globalSource{}
}

func orDefault(src Source) Source {
	if src == nil {
		return DefaultSource()
	}
	return src
}

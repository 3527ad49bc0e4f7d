/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package ladder

import (
	"math"
)

const (
	maxRows         = 100
	baseProbability = 0.5
	minProbability  = 0.2
	probabilityStep = 0.003
)

// RungProbability is the chance of any free cell receiving a rung. Small
// groups get denser ladders; it never drops below 20%.
func RungProbability(participants int) float64 {
	return math.Max(minProbability, baseProbability-float64(participants)*probabilityStep)
}

// RowCount is the number of rung rows drawn for a ladder.
func RowCount(participants int) int {
	if participants <= 0 {
		return 0
	}
	return min(participants*2, maxRows)
}

// Generate draws a random ladder for the given number of participants.
//
// Each cell is tried independently, scanning left to right, and a cell whose
// left neighbour already holds a rung is left empty, so no two rungs on a row
// ever touch. teamSizes is accepted for callers that size ladders by team but
// does not affect this layout.
func Generate(participants int, teamSizes []int, src Source) Grid {
	if participants <= 0 {
		return NewGrid(0, 0)
	}

	src = orDefault(src)
	p := RungProbability(participants)
	grid := NewGrid(RowCount(participants), participants-1)

	for y := range grid.Rungs {
		row := grid.Rungs[y]
		for x := range row {
			if x > 0 && row[x-1] {
				continue
			}
			row[x] = src.Float64() < p
		}
	}

	return grid
}

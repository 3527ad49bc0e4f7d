/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package ladder

import (
	"fmt"
)

// Partition splits participants into teams of membersPerTeam and returns the
// size of each team in order.
//
// Participants beyond MaxParticipants are ignored. A single full team with
// leftovers becomes two teams. Otherwise leftovers of at least half a team
// form their own smaller team, and smaller leftovers are spread one each over
// the leading teams, wrapping around when there are more leftovers than
// teams.
func Partition(participants, membersPerTeam int) ([]int, error) {
	if membersPerTeam <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTeamSize, membersPerTeam)
	}
	if participants < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidParticipantCount, participants)
	}

	n := min(participants, MaxParticipants)
	full := n / membersPerTeam
	remainder := n % membersPerTeam

	if full == 1 && remainder > 0 {
		return []int{membersPerTeam, remainder}, nil
	}

	sizes := make([]int, full, full+1)
	for i := range sizes {
		sizes[i] = membersPerTeam
	}

	if remainder == 0 {
		return sizes, nil
	}

	// 2*remainder >= membersPerTeam is remainder >= membersPerTeam/2 without
	// truncating odd team sizes.
	if full == 0 || 2*remainder >= membersPerTeam {
		return append(sizes, remainder), nil
	}

	for i := 0; i < remainder; i++ {
		sizes[i%full]++
	}

	return sizes, nil
}

// Boundaries returns the running totals of sizes. Team i covers terminal
// columns from Boundaries[i-1] (or 0) up to, not including, Boundaries[i].
func Boundaries(sizes []int) []int {
	bounds := make([]int, len(sizes))

	total := 0
	for i, size := range sizes {
		total += size
		bounds[i] = total
	}

	return bounds
}

// TeamIndex returns the zero-based team for a terminal column: the first
// boundary strictly greater than column. Columns past every boundary fall
// back to team 0.
func TeamIndex(bounds []int, column int) int {
	for i, b := range bounds {
		if column < b {
			return i
		}
	}
	return 0
}

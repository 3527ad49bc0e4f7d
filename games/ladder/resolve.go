/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package ladder

import (
	"fmt"
	"sort"
	"strconv"
)

// ParticipantResult is where one participant ended up.
type ParticipantResult struct {
	Participant Participant `json:"participant"`
	Team        string      `json:"team"`
	TeamIndex   int         `json:"team_index"`
	Start       int         `json:"start"`
	End         int         `json:"end"`
	Path        Path        `json:"path"`
}

// Team lists the members that landed in one team, left to right.
type Team struct {
	Name    string        `json:"name"`
	Size    int           `json:"size"`
	Members []Participant `json:"members"`
}

// Result is the outcome of one ladder: one entry per participant in start
// order, and one entry per team in team order.
type Result struct {
	Participants []ParticipantResult `json:"participants"`
	Teams        []Team              `json:"teams"`
}

// Team returns the team with the given label.
func (r Result) Team(name string) (Team, bool) {
	for _, t := range r.Teams {
		if t.Name == name {
			return t, true
		}
	}
	return Team{}, false
}

// TeamOf returns the label of the team p was assigned to.
func (r Result) TeamOf(p Participant) (string, bool) {
	for _, pr := range r.Participants {
		if pr.Participant.Same(p) {
			return pr.Team, true
		}
	}
	return "", false
}

// TeamLabel is the external name of the zero-based team index.
func TeamLabel(index int) string {
	return strconv.Itoa(index + 1)
}

// Trace follows a participant starting on column start down every row of
// the grid. A rung on the left is taken before a rung on the right.
func Trace(grid Grid, start int) Path {
	last := grid.Columns
	current := start

	path := make(Path, 0, grid.Rows()+1)
	path = append(path, Point{X: current, Y: 0})

	for y := range grid.Rungs {
		switch {
		case current > 0 && grid.HasRung(y, current-1):
			current--
		case current < last && grid.HasRung(y, current):
			current++
		}
		path = append(path, Point{X: current, Y: y + 1})
	}

	return path
}

// Resolve traces every participant down grid and groups them into teams by
// terminal column.
//
// The grid must have one column fewer than there are participants. Team
// sizes that do not add up to the participant count are tolerated: columns
// beyond the last boundary land in the first team. A team size below one is
// rejected with ErrInvalidTeamSize.
func Resolve(grid Grid, participants []Participant, teamSizes []int) (Result, error) {
	if len(participants) == 0 {
		return Result{Participants: []ParticipantResult{}, Teams: []Team{}}, nil
	}

	if grid.Columns != len(participants)-1 {
		return Result{}, fmt.Errorf("%w: grid has %d columns, %d participants need %d",
			ErrGridMismatch, grid.Columns, len(participants), len(participants)-1)
	}
	for y, row := range grid.Rungs {
		if len(row) != grid.Columns {
			return Result{}, &GridError{Row: y, Column: len(row), Err: ErrGridMismatch}
		}
	}

	for i, size := range teamSizes {
		if size < 1 {
			return Result{}, fmt.Errorf("%w: team %s has size %d", ErrInvalidTeamSize, TeamLabel(i), size)
		}
	}

	if len(teamSizes) == 0 {
		teamSizes = []int{len(participants)}
	}
	bounds := Boundaries(teamSizes)

	results := make([]ParticipantResult, len(participants))
	for start, p := range participants {
		path := Trace(grid, start)
		end := path.End()
		idx := TeamIndex(bounds, end)

		results[start] = ParticipantResult{
			Participant: p,
			Team:        TeamLabel(idx),
			TeamIndex:   idx,
			Start:       start,
			End:         end,
			Path:        path,
		}
	}

	teams := make([]Team, len(teamSizes))
	for i, size := range teamSizes {
		teams[i] = Team{Name: TeamLabel(i), Size: size, Members: []Participant{}}
	}

	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return results[order[a]].End < results[order[b]].End
	})

	for _, i := range order {
		r := results[i]
		teams[r.TeamIndex].Members = append(teams[r.TeamIndex].Members, r.Participant)
	}

	return Result{Participants: results, Teams: teams}, nil
}

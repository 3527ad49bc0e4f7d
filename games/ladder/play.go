/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package ladder

// Game is one complete round: who played, how teams were sized, the ladder
// that was drawn and where everybody landed.
type Game struct {
	Participants   []Participant `json:"participants"`
	MembersPerTeam int           `json:"members_per_team"`
	TeamSizes      []int         `json:"team_sizes"`
	Truncated      bool          `json:"truncated"`
	Grid           Grid          `json:"grid"`
	Result         Result        `json:"result"`
}

// Play runs a full round for participants: partition, draw, resolve.
// Participants past MaxParticipants are dropped and Truncated is set.
func Play(participants []Participant, membersPerTeam int, src Source) (Game, error) {
	truncated := false
	if len(participants) > MaxParticipants {
		participants = participants[:MaxParticipants]
		truncated = true
	}

	roster := make([]Participant, len(participants))
	copy(roster, participants)

	sizes, err := Partition(len(roster), membersPerTeam)
	if err != nil {
		return Game{}, err
	}

	grid := Generate(len(roster), sizes, src)

	result, err := Resolve(grid, roster, sizes)
	if err != nil {
		return Game{}, err
	}

	return Game{
		Participants:   roster,
		MembersPerTeam: membersPerTeam,
		TeamSizes:      sizes,
		Truncated:      truncated,
		Grid:           grid,
		Result:         result,
	}, nil
}

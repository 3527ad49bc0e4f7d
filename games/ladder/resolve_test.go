/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package ladder_test

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/Seednode/sadari/games/ladder"
	. "github.com/smartystreets/goconvey/convey"
)

func players(n int) []ladder.Participant {
	ps := make([]ladder.Participant, n)
	for i := range ps {
		ps[i] = ladder.Participant{
			Name:      "player" + strconv.Itoa(i),
			Character: ladder.Characters[i%len(ladder.Characters)],
			Color:     "#aabbcc",
		}
	}
	return ps
}

func TestTrace(t *testing.T) {
	Convey("Given a four line ladder with one rung between lines 1 and 2", t, func() {
		grid := ladder.Grid{Columns: 3, Rungs: [][]bool{{false, true, false}}}

		Convey("Then line 0 stays put", func() {
			So(ladder.Trace(grid, 0), ShouldResemble, ladder.Path{{X: 0, Y: 0}, {X: 0, Y: 1}})
		})

		Convey("Then line 1 crosses right", func() {
			So(ladder.Trace(grid, 1), ShouldResemble, ladder.Path{{X: 1, Y: 0}, {X: 2, Y: 1}})
		})

		Convey("Then line 2 crosses left", func() {
			So(ladder.Trace(grid, 2), ShouldResemble, ladder.Path{{X: 2, Y: 0}, {X: 1, Y: 1}})
		})

		Convey("Then line 3 stays put", func() {
			So(ladder.Trace(grid, 3), ShouldResemble, ladder.Path{{X: 3, Y: 0}, {X: 3, Y: 1}})
		})
	})

	Convey("Given a malformed row with rungs on both sides", t, func() {
		grid := ladder.Grid{Columns: 2, Rungs: [][]bool{{true, true}}}

		Convey("Then the left rung wins", func() {
			So(ladder.Trace(grid, 1).End(), ShouldEqual, 0)
		})
	})
}

func TestResolve(t *testing.T) {
	Convey("Given a hand-built ladder", t, func() {
		// 0 1 2 3
		// |-| | |   row 0
		// | |-| |   row 1
		grid := ladder.Grid{Columns: 3, Rungs: [][]bool{
			{true, false, false},
			{false, true, false},
		}}
		ps := players(4)

		Convey("When resolving into teams of two", func() {
			result, err := ladder.Resolve(grid, ps, []int{2, 2})
			So(err, ShouldBeNil)

			Convey("Then each participant ends where the rungs lead", func() {
				So(result.Participants[0].End, ShouldEqual, 2)
				So(result.Participants[1].End, ShouldEqual, 0)
				So(result.Participants[2].End, ShouldEqual, 1)
				So(result.Participants[3].End, ShouldEqual, 3)
			})

			Convey("Then teams are assigned by terminal column", func() {
				So(result.Participants[0].Team, ShouldEqual, "2")
				So(result.Participants[1].Team, ShouldEqual, "1")
				So(result.Participants[2].Team, ShouldEqual, "1")
				So(result.Participants[3].Team, ShouldEqual, "2")
			})

			Convey("Then members are ordered by terminal column", func() {
				one, ok := result.Team("1")
				So(ok, ShouldBeTrue)
				So(one.Members, ShouldResemble, []ladder.Participant{ps[1], ps[2]})

				two, ok := result.Team("2")
				So(ok, ShouldBeTrue)
				So(two.Members, ShouldResemble, []ladder.Participant{ps[0], ps[3]})
			})

			Convey("Then participants can be looked up by identity", func() {
				team, ok := result.TeamOf(ps[2])
				So(ok, ShouldBeTrue)
				So(team, ShouldEqual, "1")

				_, ok = result.TeamOf(ladder.Participant{Name: "nobody"})
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When team sizes fall short of the participants", func() {
			result, err := ladder.Resolve(grid, ps, []int{1, 1})
			So(err, ShouldBeNil)

			Convey("Then overflow columns land in the first team", func() {
				So(result.Participants[0].Team, ShouldEqual, "1")
				So(result.Participants[3].Team, ShouldEqual, "1")
				So(result.Participants[1].Team, ShouldEqual, "1")
				So(result.Participants[2].Team, ShouldEqual, "2")
			})
		})

		Convey("When no team sizes are given", func() {
			result, err := ladder.Resolve(grid, ps, nil)
			So(err, ShouldBeNil)

			Convey("Then everybody shares one team", func() {
				So(result.Teams, ShouldHaveLength, 1)
				So(result.Teams[0].Members, ShouldHaveLength, 4)
			})
		})

		Convey("When the grid does not match the participants", func() {
			_, err := ladder.Resolve(grid, players(3), []int{3})
			So(err, ShouldWrap, ladder.ErrGridMismatch)
		})

		Convey("When a team size is not positive", func() {
			_, err := ladder.Resolve(grid, ps, []int{-3, 5})
			So(err, ShouldWrap, ladder.ErrInvalidTeamSize)

			_, err = ladder.Resolve(grid, ps, []int{4, 0})
			So(err, ShouldWrap, ladder.ErrInvalidTeamSize)
		})

		Convey("When a grid row is ragged", func() {
			bad := ladder.Grid{Columns: 3, Rungs: [][]bool{{true}}}

			_, err := ladder.Resolve(bad, ps, []int{4})
			So(err, ShouldWrap, ladder.ErrGridMismatch)
		})
	})

	Convey("Given no participants", t, func() {
		sizes, err := ladder.Partition(0, 3)
		So(err, ShouldBeNil)

		result, err := ladder.Resolve(ladder.Generate(0, sizes, nil), nil, sizes)

		Convey("Then both results are empty", func() {
			So(err, ShouldBeNil)
			So(result.Participants, ShouldBeEmpty)
			So(result.Teams, ShouldBeEmpty)
		})
	})

	Convey("Given random ladders of every size", t, func() {
		rng := rand.New(rand.NewSource(42))

		for n := 1; n <= ladder.MaxParticipants; n += 3 {
			ps := players(n)
			sizes, err := ladder.Partition(n, 1+n%10)
			So(err, ShouldBeNil)

			grid := ladder.Generate(n, sizes, rng)
			result, err := ladder.Resolve(grid, ps, sizes)
			So(err, ShouldBeNil)

			bounds := ladder.Boundaries(sizes)
			seenEnds := map[int]bool{}
			malformed := 0
			misplaced := 0

			for _, pr := range result.Participants {
				if len(pr.Path) != grid.Rows()+1 {
					malformed++
				}
				for i := 1; i < len(pr.Path); i++ {
					dx := pr.Path[i].X - pr.Path[i-1].X
					if pr.Path[i].Y-pr.Path[i-1].Y != 1 || dx < -1 || dx > 1 {
						malformed++
					}
				}

				lo := 0
				if pr.TeamIndex > 0 {
					lo = bounds[pr.TeamIndex-1]
				}
				if pr.End < lo || pr.End >= bounds[pr.TeamIndex] {
					misplaced++
				}
				seenEnds[pr.End] = true
			}

			So(malformed, ShouldEqual, 0)
			So(misplaced, ShouldEqual, 0)

			So(len(seenEnds), ShouldEqual, n)

			members := map[string]int{}
			total := 0
			for _, team := range result.Teams {
				for _, m := range team.Members {
					members[m.Name]++
					total++
				}
			}

			So(total, ShouldEqual, n)
			So(len(members), ShouldEqual, n)
			for _, count := range members {
				So(count, ShouldEqual, 1)
			}

			for i, team := range result.Teams {
				So(len(team.Members), ShouldEqual, sizes[i])
			}
		}
	})
}

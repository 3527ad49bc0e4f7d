/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package ladder_test

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/Seednode/sadari/games/ladder"
	. "github.com/smartystreets/goconvey/convey"
)

var pastel = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestParseNames(t *testing.T) {
	Convey("Given a comma-separated list", t, func() {
		names, truncated := ladder.ParseNames(" alice, bob,,  ,carol ")

		Convey("Then names are trimmed and blanks dropped", func() {
			So(names, ShouldResemble, []string{"alice", "bob", "carol"})
			So(truncated, ShouldBeFalse)
		})
	})

	Convey("Given an empty list", t, func() {
		names, truncated := ladder.ParseNames("")

		So(names, ShouldBeEmpty)
		So(truncated, ShouldBeFalse)
	})

	Convey("Given more names than the maximum", t, func() {
		raw := make([]string, 120)
		for i := range raw {
			raw[i] = "p" + strconv.Itoa(i)
		}

		names, truncated := ladder.ParseNames(strings.Join(raw, ","))

		Convey("Then the list is cut to the first hundred", func() {
			So(truncated, ShouldBeTrue)
			So(names, ShouldHaveLength, ladder.MaxParticipants)
			So(names[99], ShouldEqual, "p99")
		})
	})
}

func TestAssignCharacters(t *testing.T) {
	Convey("Given a list of names", t, func() {
		rng := rand.New(rand.NewSource(3))
		names := []string{"alice", "bob", "carol", "dave"}

		ps := ladder.AssignCharacters(names, rng)

		Convey("Then every name gets a distinct character and a pastel colour", func() {
			So(ps, ShouldHaveLength, 4)

			seen := map[string]bool{}
			for i, p := range ps {
				So(p.Name, ShouldEqual, names[i])
				So(ladder.Characters, ShouldContain, p.Character)
				So(pastel.MatchString(p.Color), ShouldBeTrue)
				seen[p.Character] = true
			}
			So(len(seen), ShouldEqual, 4)
		})

		Convey("Then the names round-trip through the share format", func() {
			parsed, _ := ladder.ParseNames(ladder.FormatNames(ps))
			So(parsed, ShouldResemble, names)
		})
	})

	Convey("Given more names than characters", t, func() {
		names := make([]string, len(ladder.Characters)+5)
		for i := range names {
			names[i] = "n" + strconv.Itoa(i)
		}

		ps := ladder.AssignCharacters(names, rand.New(rand.NewSource(1)))

		Convey("Then characters repeat in the same shuffled order", func() {
			So(ps[len(ladder.Characters)].Character, ShouldEqual, ps[0].Character)
		})
	})
}

func TestPastelColor(t *testing.T) {
	Convey("Given the lowest and highest draws", t, func() {
		So(ladder.PastelColor(constSource(0)), ShouldEqual, "#a0a0a0")
		So(ladder.PastelColor(constSource(0.999)), ShouldEqual, "#f9f9f9")
	})
}

func TestNewParticipant(t *testing.T) {
	Convey("Given a manually added name", t, func() {
		p := ladder.NewParticipant("  erin ", rand.New(rand.NewSource(5)))

		So(p.Name, ShouldEqual, "erin")
		So(ladder.Characters, ShouldContain, p.Character)
		So(pastel.MatchString(p.Color), ShouldBeTrue)
	})
}

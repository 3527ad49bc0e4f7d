/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package ladder

import (
	"fmt"
	"strings"
)

// Characters are the icons handed out to participants.
var Characters = []string{
	// animals
	"🐶", "🐱", "🐭", "🐹", "🐰", "🦊", "🐻", "🐼", "🐻‍❄️", "🐨",
	"🐯", "🦁", "🐮", "🐷", "🐸", "🐵", "🐔", "🐧", "🐦", "🐤",
	"🦄", "🦋", "🐢", "🐙", "🦀", "🦞", "🦐", "🦑", "🐠", "🐬",
	"🐋", "🦈", "🦭", "🐝", "🪱", "🐛", "🦗", "🦟", "🪰", "🪲",
	"🐞", "🦂", "🕷️", "🦔", "🦇", "🐅", "🐆", "🦓", "🦍", "🦧",
	"🐘", "🦛", "🦏", "🐪", "🐫", "🦒", "🦘", "🦬", "🐃", "🦙",
	"🦣",

	// faces
	"😀", "😃", "😄", "😁", "😆", "😅", "🤣", "😂", "🙂", "🙃",
	"😉", "😊", "😇", "🥰", "😍", "🤩", "😘", "😗",

	// fruit
	"🍎", "🍐", "🍊", "🍋", "🍌", "🍉", "🍇", "🍓", "🫐", "🍈",
	"🍒", "🍑", "🥭",

	// misc
	"🌟", "⭐", "🌈", "🌞", "🌝", "🌚", "🔥", "💫", "✨", "💥",
	"🎵", "🎶", "🎸", "🥁", "🏆",
}

const (
	pastelBase  = 160
	pastelRange = 90
)

// PastelColor returns a light "#rrggbb" colour with every channel in
// [160, 250).
func PastelColor(src Source) string {
	src = orDefault(src)

	r := pastelBase + src.Intn(pastelRange)
	g := pastelBase + src.Intn(pastelRange)
	b := pastelBase + src.Intn(pastelRange)

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// ParseNames splits a comma-separated list of names, trimming each one and
// dropping blanks. Lists longer than MaxParticipants are cut short and
// truncated is set.
func ParseNames(data string) (names []string, truncated bool) {
	names = []string{}

	for _, name := range strings.Split(data, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		names = append(names, name)
	}

	if len(names) > MaxParticipants {
		return names[:MaxParticipants], true
	}

	return names, false
}

// FormatNames joins participant names into the form ParseNames reads.
func FormatNames(participants []Participant) string {
	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = p.Name
	}
	return strings.Join(names, ",")
}

// AssignCharacters gives each name a character from a shuffled copy of
// Characters and a pastel colour. Characters repeat only once every icon has
// been used.
func AssignCharacters(names []string, src Source) []Participant {
	src = orDefault(src)

	icons := make([]string, len(Characters))
	copy(icons, Characters)
	for i := len(icons) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		icons[i], icons[j] = icons[j], icons[i]
	}

	participants := make([]Participant, len(names))
	for i, name := range names {
		participants[i] = Participant{
			Name:      name,
			Character: icons[i%len(icons)],
			Color:     PastelColor(src),
		}
	}

	return participants
}

// NewParticipant creates a participant with a random character and colour.
func NewParticipant(name string, src Source) Participant {
	src = orDefault(src)

	return Participant{
		Name:      strings.TrimSpace(name),
		Character: Characters[src.Intn(len(Characters))],
		Color:     PastelColor(src),
	}
}

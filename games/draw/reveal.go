/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package draw

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	Spins          = 40
	FirstSpinDelay = 40 * time.Millisecond
	LastSpinDelay  = 120 * time.Millisecond
)

// RevealFrame is one tick of the reveal. Slot is the position of the number
// being revealed; Value is what the slot shows; Locked marks the frame that
// settles on the drawn number.
type RevealFrame struct {
	Slot   int           `json:"slot"`
	Value  int           `json:"value"`
	Locked bool          `json:"locked"`
	Delay  time.Duration `json:"delay"`
}

// spinDelays eases the wait between spins from FirstSpinDelay up to
// LastSpinDelay so each slot visibly slows down before it locks.
func spinDelays() []time.Duration {
	tween := gween.New(
		float32(FirstSpinDelay.Milliseconds()),
		float32(LastSpinDelay.Milliseconds()),
		float32(Spins),
		ease.InQuad,
	)

	delays := make([]time.Duration, Spins+1)
	for i := range delays {
		ms, _ := tween.Set(float32(i))
		delays[i] = time.Duration(ms * float32(time.Millisecond))
	}

	return delays
}

// Reveal plans the announcement of numbers drawn from [lo, hi]: each slot
// spins through Spins random values from the range and then locks on its
// number. Slots are revealed in order.
func Reveal(numbers []int, lo, hi int, src Source) []RevealFrame {
	if len(numbers) == 0 || lo > hi {
		return []RevealFrame{}
	}
	if src == nil {
		src = DefaultSource()
	}

	delays := spinDelays()
	span := hi - lo + 1

	frames := make([]RevealFrame, 0, len(numbers)*(Spins+1))
	for slot, n := range numbers {
		for s := 0; s < Spins; s++ {
			frames = append(frames, RevealFrame{
				Slot:  slot,
				Value: lo + src.Intn(span),
				Delay: delays[s],
			})
		}
		frames = append(frames, RevealFrame{
			Slot:   slot,
			Value:  n,
			Locked: true,
			Delay:  delays[Spins],
		})
	}

	return frames
}

// Duration is the total playing time of frames.
func Duration(frames []RevealFrame) time.Duration {
	var total time.Duration
	for _, f := range frames {
		total += f.Delay
	}
	return total
}

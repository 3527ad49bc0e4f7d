/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package ladder

import (
	"time"
)

// PlaybackMode selects how participants walk down the ladder on screen.
type PlaybackMode int

const (
	// OneByOne walks participants down one after another in start order.
	OneByOne PlaybackMode = iota
	// AllAtOnce moves every participant one row per frame.
	AllAtOnce
)

const (
	StepDelay      = 175 * time.Millisecond
	PlayerGap      = 250 * time.Millisecond
	AllAtOnceDelay = 350 * time.Millisecond
)

func (m PlaybackMode) String() string {
	switch m {
	case OneByOne:
		return "one_by_one"
	case AllAtOnce:
		return "all_at_once"
	}
	return "unknown"
}

// Move is one participant stepping from one row boundary to the next.
type Move struct {
	Participant int   `json:"participant"`
	From        Point `json:"from"`
	To          Point `json:"to"`
	Arrived     bool  `json:"arrived"`
}

// Frame is one tick of playback. Delay is how long to wait before showing it.
type Frame struct {
	Step  int           `json:"step"`
	Delay time.Duration `json:"delay"`
	Moves []Move        `json:"moves"`
}

// Playback turns resolved paths into an ordered list of frames. The plan is
// computed up front; players only ever read it.
func Playback(result Result, mode PlaybackMode) []Frame {
	if mode == AllAtOnce {
		return playAllAtOnce(result)
	}
	return playOneByOne(result)
}

func playAllAtOnce(result Result) []Frame {
	steps := 0
	for _, pr := range result.Participants {
		steps = max(steps, len(pr.Path)-1)
	}

	frames := make([]Frame, 0, steps)
	for s := 0; s < steps; s++ {
		moves := make([]Move, 0, len(result.Participants))
		for i, pr := range result.Participants {
			if s >= len(pr.Path)-1 {
				continue
			}
			moves = append(moves, Move{
				Participant: i,
				From:        pr.Path[s],
				To:          pr.Path[s+1],
				Arrived:     s == len(pr.Path)-2,
			})
		}
		frames = append(frames, Frame{Step: s, Delay: AllAtOnceDelay, Moves: moves})
	}

	return frames
}

func playOneByOne(result Result) []Frame {
	var frames []Frame

	step := 0
	for i, pr := range result.Participants {
		for s := 0; s < len(pr.Path)-1; s++ {
			delay := StepDelay
			if s == 0 && i > 0 {
				delay += PlayerGap
			}
			frames = append(frames, Frame{
				Step:  step,
				Delay: delay,
				Moves: []Move{{
					Participant: i,
					From:        pr.Path[s],
					To:          pr.Path[s+1],
					Arrived:     s == len(pr.Path)-2,
				}},
			})
			step++
		}
	}

	return frames
}

/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package draw picks random numbers from a range without repeats and plans
// the slot-machine style reveal shown while they are announced.
package draw

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

const (
	DefaultMin   = 1
	DefaultMax   = 10
	DefaultCount = 1

	// Limit bounds both ends of a range.
	Limit = 1_000_000_000
	// MaxCount bounds how many numbers one draw may return.
	MaxCount = 1000
)

var (
	ErrInvalidRange      = errors.New("minimum must not be greater than maximum")
	ErrInvalidCount      = errors.New("at least one number must be drawn")
	ErrCountExceedsRange = errors.New("cannot draw more numbers than the range holds")
	ErrOutOfBounds       = errors.New("range exceeds the supported limits")
	ErrTooMany           = errors.New("too many numbers requested")
)

// Source is a uniform pseudo-random generator. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

type globalSource struct{}

func (globalSource) Intn(n int) int { return rand.Intn(n) }

// DefaultSource is backed by the package-level math/rand generator.
func DefaultSource() Source {
	return globalSource{}
}

// Validate reports whether count distinct numbers can be drawn from
// [lo, hi].
func Validate(lo, hi, count int) error {
	switch {
	case lo < -Limit || hi > Limit:
		return fmt.Errorf("%w: %d..%d", ErrOutOfBounds, lo, hi)
	case lo > hi:
		return fmt.Errorf("%w: %d > %d", ErrInvalidRange, lo, hi)
	case count < 1:
		return fmt.Errorf("%w: %d", ErrInvalidCount, count)
	case count > MaxCount:
		return fmt.Errorf("%w: %d > %d", ErrTooMany, count, MaxCount)
	case count > hi-lo+1:
		return fmt.Errorf("%w: %d from %d..%d", ErrCountExceedsRange, count, lo, hi)
	}
	return nil
}

// Draw returns count distinct numbers from [lo, hi] in ascending order.
//
// It runs the first count steps of a Fisher-Yates shuffle over the range,
// keeping only displaced slots in a map, so wide ranges cost no more than
// narrow ones.
func Draw(lo, hi, count int, src Source) ([]int, error) {
	if err := Validate(lo, hi, count); err != nil {
		return nil, err
	}
	if src == nil {
		src = DefaultSource()
	}

	size := hi - lo + 1
	swapped := make(map[int]int, count)
	at := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}

	picked := make([]int, count)
	for i := 0; i < count; i++ {
		j := i + src.Intn(size-i)
		vi, vj := at(i), at(j)
		swapped[i], swapped[j] = vj, vi
		picked[i] = lo + vj
	}

	sort.Ints(picked)

	return picked, nil
}

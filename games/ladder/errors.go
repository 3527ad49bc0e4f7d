/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package ladder

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTeamSize         = errors.New("members per team must be positive")
	ErrInvalidParticipantCount = errors.New("participant count must not be negative")
	ErrGridMismatch            = errors.New("grid does not match participants")
	ErrAdjacentRungs           = errors.New("adjacent rungs on the same row")
)

// GridError locates a malformed grid cell.
type GridError struct {
	Row    int
	Column int
	Err    error
}

func (e *GridError) Error() string {
	return fmt.Sprintf("row %d, column %d: %v", e.Row, e.Column, e.Err)
}

func (e *GridError) Unwrap() error {
	return e.Err
}

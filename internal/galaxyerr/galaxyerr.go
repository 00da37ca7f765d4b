// Package galaxyerr implements the error taxonomy of spec §7 as plain Go
// error values, in place of the teacher's osmo_errors exit-code scheme:
// this is an in-process actor simulation, not a CLI process that exits
// per failure class, so the taxonomy surfaces through returned errors
// instead.
package galaxyerr

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors identifying each taxonomy class from spec §7. Wrap
// these with fmt.Errorf("...: %w", ErrX) to preserve errors.Is checks
// while attaching call-site detail.
var (
	// ErrProtocolViolation: message received in an impossible state, or
	// a malformed payload.
	ErrProtocolViolation = errors.New("protocol violation")
	// ErrChannelClosed: send or receive on a closed endpoint.
	ErrChannelClosed = errors.New("channel disconnected")
	// ErrResourceFailure: generate with no cells, combine with missing
	// ingredients, travel to a non-neighbor or dead planet.
	ErrResourceFailure = errors.New("resource failure")
	// ErrTimeout: an orchestrator barrier exceeded its bound.
	ErrTimeout = errors.New("timeout")
	// ErrInitialization: missing env var, unreadable/malformed topology
	// file, or unknown planet type — fatal at startup.
	ErrInitialization = errors.New("initialization failure")
)

// Timeout wraps ErrTimeout with the duration that was exceeded, per
// spec §7.4 ("surfaces as an explicit error with the timeout duration
// in its message").
func Timeout(op string, d time.Duration) error {
	return fmt.Errorf("%s: exceeded timeout of %s: %w", op, d, ErrTimeout)
}

// Protocol wraps ErrProtocolViolation with the offending state/message.
func Protocol(actor, state, msg string) error {
	return fmt.Errorf("actor %s received %s while in state %s: %w", actor, msg, state, ErrProtocolViolation)
}

// Resource wraps ErrResourceFailure with a human reason.
func Resource(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrResourceFailure)
}

// Init wraps ErrInitialization with a human reason.
func Init(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrInitialization)
}

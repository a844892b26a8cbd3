package robot

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned when a polled operation does not reach a terminal
// state within its bounded window. Timeouts consume retries upstream rather
// than failing a mission outright.
var ErrTimeout = errors.New("operation timed out")

// OfflineError wraps a network-level failure talking to the device: refused
// connection, DNS failure, transport timeout. Distinguishing these from
// device-reported failures is the core contract the mission queue depends on.
type OfflineError struct {
	Op  string
	Err error
}

func (e *OfflineError) Error() string {
	return fmt.Sprintf("robot offline (%s): %v", e.Op, e.Err)
}

func (e *OfflineError) Unwrap() error { return e.Err }

// DeviceError is a failure reported by the device itself: a non-zero envelope
// code, an HTTP error status, or a move that ended failed/cancelled. These are
// terminal and never retried automatically.
type DeviceError struct {
	Op     string
	Code   int
	Detail string
}

func (e *DeviceError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("device error (%s) code %d: %s", e.Op, e.Code, e.Detail)
	}
	return fmt.Sprintf("device error (%s) code %d", e.Op, e.Code)
}

// IsOffline reports whether err stems from a connectivity failure.
func IsOffline(err error) bool {
	var oe *OfflineError
	return errors.As(err, &oe)
}

// IsTransient reports whether err should be retried (connectivity loss or a
// bounded-window timeout) as opposed to a device-reported terminal failure.
func IsTransient(err error) bool {
	return IsOffline(err) || errors.Is(err, ErrTimeout)
}

package adb

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConnection marks failures to reach ADB at all: the server socket did not
// answer, or the adb binary could not be spawned. Wrapped errors carry the
// transport detail.
var ErrConnection = errors.New("cannot reach ADB")

// DeviceNotFoundError is returned when a requested serial is absent from the
// device enumeration. Available holds the serials that were attached at the
// time, so the message is actionable.
type DeviceNotFoundError struct {
	Serial    string
	Available []string
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("device '%s' not found. Available: %s",
		e.Serial, strings.Join(e.Available, ", "))
}

// CommandError is a failure reported by ADB or the device itself. Output is
// the backend-sourced message verbatim; for the system backend that is stdout
// when non-empty, else stderr.
type CommandError struct {
	Output string
}

func (e *CommandError) Error() string { return e.Output }

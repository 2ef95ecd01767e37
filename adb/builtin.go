package adb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/universal-debloater-alliance/uad-go/adb/wire"
)

// builtinExecutor drives the local ADB server directly over its socket
// protocol. No persistent session: every call opens its own connection.
type builtinExecutor struct {
	addr string
}

func (e builtinExecutor) devices() ([]DeviceEntry, error) {
	out, err := wire.HostDevices(e.addr)
	if err != nil {
		log.Error().Err(err).Msg("listing devices via ADB server failed")
		return nil, wrapWireErr(err, "cannot connect to ADB server")
	}
	return parseDeviceLines(out), nil
}

func (e builtinExecutor) version() (string, error) {
	v, err := wire.HostVersion(e.addr)
	if err != nil {
		log.Error().Err(err).Msg("querying ADB server version failed")
		return "", wrapWireErr(err, "cannot get ADB server version")
	}
	// Render the internal protocol number the way adb itself reports it.
	return fmt.Sprintf("ADB Server Version: 1.0.%d", v), nil
}

func (e builtinExecutor) shell(serial, action string) (string, error) {
	if strings.TrimSpace(action) == "" {
		return "", &CommandError{Output: "empty shell command"}
	}

	// Validate the requested serial against the live enumeration, so a typo
	// surfaces as a clear error instead of the server's default pick.
	if serial != "" {
		attached, err := e.devices()
		if err != nil {
			return "", fmt.Errorf("cannot get device list: %w", err)
		}
		if !lo.ContainsBy(attached, func(d DeviceEntry) bool { return d.Serial == serial }) {
			return "", &DeviceNotFoundError{
				Serial:    serial,
				Available: lo.Map(attached, func(d DeviceEntry, _ int) string { return d.Serial }),
			}
		}
	}

	log.Debug().Str("cmd", "adb shell "+action).Msg("run builtin")
	out, err := wire.ShellCommand(e.addr, serial, action)
	if err != nil {
		log.Error().Err(err).Msg("ADB shell command failed")
		return "", wrapWireErr(err, "shell command failed")
	}
	return toTrimmedUTF8(out), nil
}

// wrapWireErr sorts wire failures into the error taxonomy: a FAIL reply is a
// command-level failure with the server's message, anything else means the
// server was unreachable.
func wrapWireErr(err error, context string) error {
	var fail *wire.FailError
	if errors.As(err, &fail) {
		return &CommandError{Output: fail.Msg}
	}
	return fmt.Errorf("%w: %s: %v", ErrConnection, context, err)
}

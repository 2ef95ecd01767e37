package adb

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

const adbPath = "adb"

// systemExecutor shells out to the adb binary on PATH, one subprocess per
// call.
type systemExecutor struct{}

func (systemExecutor) devices() ([]DeviceEntry, error) {
	out, err := runSystem(adbPath, "devices")
	if err != nil {
		return nil, err
	}
	return ParseDeviceList(out), nil
}

func (systemExecutor) version() (string, error) {
	// Raw multi-line banner; its shape varies by installation.
	return runSystem(adbPath, "version")
}

func (systemExecutor) shell(serial, action string) (string, error) {
	args := make([]string, 0, 4)
	if serial != "" {
		args = append(args, "-s", serial)
	}
	// The action is one argv entry; the remote shell splits it.
	args = append(args, "shell", action)
	return runSystem(adbPath, args...)
}

// systemErrorMessage picks the error text for a non-zero adb exit.
// adb sometimes outputs errors to stdout instead of stderr, so stdout wins
// when non-empty.
func systemErrorMessage(stdout, stderr []byte) string {
	if s := toTrimmedUTF8(stdout); s != "" {
		return s
	}
	return toTrimmedUTF8(stderr)
}

// runSystem spawns the adb binary and captures stdout and stderr separately.
func runSystem(name string, args ...string) (string, error) {
	log.Debug().Str("cmd", name+" "+strings.Join(args, " ")).Msg("run system")

	cmd := exec.Command(name, args...)
	hideConsoleWindow(cmd)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if err == nil {
		return toTrimmedUTF8(outBuf.Bytes()), nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		log.Error().Err(err).Msg("ADB binary failed to run")
		return "", fmt.Errorf("%w: cannot run ADB, likely not found: %v", ErrConnection, err)
	}
	return "", &CommandError{Output: systemErrorMessage(outBuf.Bytes(), errBuf.Bytes())}
}

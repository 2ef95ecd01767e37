// Package adb groups everything that is "intrinsic" of the Android Debug
// Bridge.
//
// The *Command builders are thin wrappers around either the local ADB server
// protocol or the system adb CLI, which implies:
//   - no custom commands
//   - no chaining ("piping") of existing commands
//
// Every exposed method maps 1-to-1 onto a single underlying device command.
// Composing round-trips client-side (list, filter, then act) can observe a
// device state that changes between the round-trips, so any such composition
// is left to callers who can reason about the race.
//
// Despite being low-level, the builders still pre-parse and validate output
// into types with invariants, and each stage only exposes the operations that
// are legal at that point. If an ADB feature these APIs don't expose is ever
// needed, extend them consistently instead of shelling out ad hoc.
//
// For comprehensive info about ADB,
// see https://android.googlesource.com/platform/packages/modules/adb/+/refs/heads/master/docs/
package adb

import (
	"github.com/universal-debloater-alliance/uad-go/adb/wire"
)

// DeviceEntry is one attached device: the transport serial plus its opaque
// status string ("device", "unauthorized", "offline", ...).
type DeviceEntry struct {
	Serial string `json:"serial"`
	Status string `json:"status"`
}

// executor is the per-backend transport contract. Implementations are
// stateless; every call opens its own connection or subprocess, so
// independent builders can be driven concurrently.
type executor interface {
	devices() ([]DeviceEntry, error)
	version() (string, error)
	shell(serial, action string) (string, error)
}

// ACommand is the root builder for an ADB command. It does not model the
// entire ADB surface, only the subset this project needs.
//
// Builders are consumed by value on every transition and terminal operation:
// once a command ran, the builder is gone and cannot be accidentally reused.
type ACommand struct {
	serial  string
	backend Backend
	exec    executor
}

// New returns an adb command builder on the default backend.
func New() ACommand {
	return WithBackend(BackendBuiltin)
}

// WithBackend returns an adb command builder on a specific backend.
// The executor is fixed here and never re-dispatched mid-operation.
func WithBackend(b Backend) ACommand {
	var ex executor
	switch b {
	case BackendSystem:
		ex = systemExecutor{}
	default:
		ex = builtinExecutor{addr: wire.DefaultAddr}
	}
	return ACommand{backend: b, exec: ex}
}

// withExecutor substitutes the transport, for tests.
func withExecutor(ex executor) ACommand {
	return ACommand{exec: ex}
}

// Backend reports which backend this builder was constructed with.
func (c ACommand) Backend() Backend { return c.backend }

// Devices returns the header-less list of attached devices (serials and
// their statuses). Covers USB, TCP/IP and local emulators. Status can be,
// but is not limited to, "device" and "unauthorized".
func (c ACommand) Devices() ([]DeviceEntry, error) {
	return c.exec.devices()
}

// Version returns version information from the ADB server or binary.
//
// The builtin backend synthesizes a single line:
//
//	ADB Server Version: 1.0.41
//
// The system backend returns the full multi-line `adb version` banner, whose
// shape varies by installation.
func (c ACommand) Version() (string, error) {
	return c.exec.version()
}

// Shell narrows the builder to the device's default sh implementation
// (typically MKSH). An empty deviceSerial lets ADB choose the default device.
func (c ACommand) Shell(deviceSerial string) ShellCommand {
	if deviceSerial != "" {
		c.serial = deviceSerial
	}
	return ShellCommand{cmd: c}
}

// ShellCommand builds a command that runs on the device's default shell.
//
// More info:
// https://chromium.googlesource.com/aosp/platform/system/core/+/refs/heads/upstream/shell_and_utilities
type ShellCommand struct {
	cmd ACommand
}

// Pm narrows the builder to the Android package manager.
func (s ShellCommand) Pm() PmCommand {
	return PmCommand{shell: s}
}

// GetProp queries a device property value by its key. Properties can hold
// booleans, ints or arbitrary chars, so the raw string is returned to avoid
// lossy conversions.
func (s ShellCommand) GetProp(key string) (string, error) {
	return s.run("getprop " + key)
}

// Reboot reboots the device.
func (s ShellCommand) Reboot() (string, error) {
	return s.run("reboot")
}

// Raw executes an arbitrary action string on the device's default shell.
// The string is passed through verbatim; the remote shell performs its own
// whitespace splitting.
func (s ShellCommand) Raw(action string) (string, error) {
	return s.run(action)
}

func (s ShellCommand) run(action string) (string, error) {
	return s.cmd.exec.shell(s.cmd.serial, action)
}

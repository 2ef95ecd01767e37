package adb

import (
	"fmt"
	"strings"
)

// Backend selects how commands reach the device.
type Backend uint8

const (
	// BackendBuiltin talks to the local ADB server over its socket protocol.
	// This is the default and requires no adb binary on the host.
	BackendBuiltin Backend = iota
	// BackendSystem shells out to the adb binary found on PATH.
	// Useful if you prefer your own ADB installation.
	BackendSystem
)

// Backends lists every backend variant, for UI/CLI enumeration.
var Backends = [...]Backend{BackendBuiltin, BackendSystem}

func (b Backend) String() string {
	switch b {
	case BackendSystem:
		return "System (adb)"
	default:
		return "Builtin"
	}
}

// ParseBackend maps a CLI/config token to a Backend.
// The empty string means the default backend.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(s) {
	case "", "builtin":
		return BackendBuiltin, nil
	case "system", "adb":
		return BackendSystem, nil
	default:
		return BackendBuiltin, fmt.Errorf("unknown adb backend %q (want builtin or system)", s)
	}
}

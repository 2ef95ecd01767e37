package adb

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// Parsing here is deliberately defensive: device output drifts across Android
// versions and OEM builds, so every line is handled independently and a
// malformed line is dropped rather than failing the whole listing.

// toTrimmedUTF8 converts raw ADB output bytes to a string with trailing
// whitespace removed. Invalid UTF-8 from certain OEMs is replaced lossily
// instead of propagated.
func toTrimmedUTF8(b []byte) string {
	return strings.TrimRightFunc(strings.ToValidUTF8(string(b), "�"), unicode.IsSpace)
}

// parseDeviceLines parses header-less "serial\tstatus" lines, the payload
// shape of the ADB server's host:devices service.
func parseDeviceLines(out string) []DeviceEntry {
	return lo.FilterMap(strings.Split(out, "\n"), func(line string, _ int) (DeviceEntry, bool) {
		serial, status, found := strings.Cut(line, "\t")
		if !found {
			return DeviceEntry{}, false
		}
		return DeviceEntry{Serial: serial, Status: status}, true
	})
}

// ParseDeviceList parses `adb devices` output: a header line followed by
// "serial\tstatus" lines. Lines without a tab are skipped.
func ParseDeviceList(out string) []DeviceEntry {
	_, rest, found := strings.Cut(out, "\n") // header
	if !found {
		return nil
	}
	return parseDeviceLines(rest)
}

// ParsePackageList strips the "package:" prefix from each line of
// `pm list packages` output; lines without the prefix are dropped.
func ParsePackageList(out string) []string {
	return lo.FilterMap(strings.Split(out, "\n"), func(line string, _ int) (string, bool) {
		return strings.CutPrefix(line, packPrefix)
	})
}

// ParseUserList extracts user IDs from `pm list users` output.
// Expected line shape: "UserInfo{<id>:<name>:<flags>}[ running]".
// Lines that don't yield an integer ID are dropped.
func ParseUserList(out string) []UserInfo {
	_, rest, found := strings.Cut(out, "\n") // omit header
	if !found {
		return nil
	}
	return lo.FilterMap(strings.Split(rest, "\n"), func(line string, _ int) (UserInfo, bool) {
		s := strings.TrimSpace(line)
		s = strings.TrimPrefix(s, "UserInfo{")
		s = strings.TrimSuffix(s, "running")
		s = strings.TrimRightFunc(s, unicode.IsSpace)
		s = strings.TrimSuffix(s, "}")
		idStr, _, _ := strings.Cut(s, ":")
		id, err := strconv.ParseUint(idStr, 10, 16)
		if err != nil {
			return UserInfo{}, false
		}
		return UserInfo{id: uint16(id)}, true
	})
}

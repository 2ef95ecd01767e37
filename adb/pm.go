package adb

import (
	"fmt"
	"strings"
)

// PmListFlag narrows a `pm list packages` query.
type PmListFlag uint8

const (
	// PmListAny applies no narrowing flag.
	PmListAny PmListFlag = iota
	// PmListIncludeUninstalled is `-u`, not to be confused with `-a`.
	PmListIncludeUninstalled
	// PmListOnlyEnabled is `-e`.
	PmListOnlyEnabled
	// PmListOnlyDisabled is `-d`.
	PmListOnlyDisabled
)

func (f PmListFlag) String() string {
	switch f {
	case PmListIncludeUninstalled:
		return "-u"
	case PmListOnlyEnabled:
		return "-e"
	case PmListOnlyDisabled:
		return "-d"
	default:
		return ""
	}
}

const packPrefix = "package:"

// PmClearPack is the single pm sub-command that wipes a package's data.
const PmClearPack = "pm clear"

// PmCommand builds an Android package manager command.
// https://developer.android.com/tools/adb#pm
type PmCommand struct {
	shell ShellCommand
}

// ListPackagesSys is the `pm list packages -s` sub-command with the
// "package:" prefix stripped from each line. PmListAny skips the narrowing
// flag; a negative userID skips `--user`.
//
// The returned names:
//   - aren't guaranteed to be valid package IDs, as "android" can be printed
//     but fails the grammar
//   - aren't sorted
//   - duplicates never seem to happen, but don't assume uniqueness
func (p PmCommand) ListPackagesSys(flag PmListFlag, userID int) ([]string, error) {
	var b strings.Builder
	b.WriteString("pm list packages -s")
	if f := flag.String(); f != "" {
		b.WriteByte(' ')
		b.WriteString(f)
	}
	if userID >= 0 {
		fmt.Fprintf(&b, " --user %d", userID)
	}

	out, err := p.shell.Raw(b.String())
	if err != nil {
		return nil, err
	}
	return ParsePackageList(out), nil
}

// ListUsers is the `pm list users` sub-command, parsed.
//
//   - https://source.android.com/docs/devices/admin/multi-user-testing
//   - https://stackoverflow.com/questions/37495126/android-get-list-of-users-and-profile-name
func (p PmCommand) ListUsers() ([]UserInfo, error) {
	out, err := p.shell.Raw("pm list users")
	if err != nil {
		return nil, err
	}
	return ParseUserList(out), nil
}

// Enable re-enables a package. One pm round-trip; a negative userID applies
// to all users.
func (p PmCommand) Enable(pkg PackageID, userID int) error {
	return p.expectState("pm enable", pkg, userID, "new state: enabled")
}

// Disable is `pm disable-user`, which keeps the package's data but prevents
// execution. A negative userID applies to the current user.
func (p PmCommand) Disable(pkg PackageID, userID int) error {
	return p.expectState("pm disable-user", pkg, userID, "new state: disabled")
}

// Uninstall removes a package for the given user (negative for all users).
// pm prints "Success" or "Failure [REASON]".
func (p PmCommand) Uninstall(pkg PackageID, userID int) error {
	return p.expectState("pm uninstall", pkg, userID, "Success")
}

// Clear wipes a package's data. pm prints "Success" on, well, success.
func (p PmCommand) Clear(pkg PackageID) error {
	return p.expectState(PmClearPack, pkg, -1, "Success")
}

// expectState issues a single pm sub-command for one package and checks the
// output for the marker pm prints on success. Anything else comes back as a
// CommandError carrying the device's message.
func (p PmCommand) expectState(subCmd string, pkg PackageID, userID int, marker string) error {
	var b strings.Builder
	b.WriteString(subCmd)
	if userID >= 0 {
		fmt.Fprintf(&b, " --user %d", userID)
	}
	b.WriteByte(' ')
	b.WriteString(pkg.String())

	out, err := p.shell.Raw(b.String())
	if err != nil {
		return err
	}
	if strings.Contains(out, marker) {
		return nil
	}
	return &CommandError{Output: out}
}

// UserInfo mirrors the id field of the AOSP UserInfo Java class.
// Name, flags and the running marker are parsed positions in the serialized
// record, currently discarded.
//
// https://android.googlesource.com/platform/frameworks/base/+/refs/heads/main/core/java/android/content/pm/UserInfo.java
type UserInfo struct {
	id uint16
}

// ID returns the numeric user identifier.
func (u UserInfo) ID() uint16 { return u.id }

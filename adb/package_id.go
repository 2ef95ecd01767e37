package adb

import (
	"strings"

	"github.com/universal-debloater-alliance/uad-go/utils"
)

// isPkgComponent reports whether one dot-separated component of a package ID
// is legal: non-empty, starting with an ASCII letter, with only ASCII word
// characters after it. Byte-level checks, so arbitrary Unicode input simply
// fails instead of panicking.
func isPkgComponent(s string) bool {
	if s == "" {
		return false
	}
	if b := s[0]; !(b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z') {
		return false
	}
	return utils.IsAllWordChars(s[1:])
}

// PackageID is a string with the invariant of being a valid package name.
// See NewPackageID for validation details. The zero value is not a valid ID
// and can only come from ignoring the ok result.
type PackageID struct {
	id string
}

// AndroidPackage is the bare "android" framework package. It fails the
// application-ID grammar yet shows up in pm listings, so call sites that need
// it use this pre-built value; the validator itself never special-cases it.
var AndroidPackage = PackageID{id: "android"}

// NewPackageID validates candidate against
// https://developer.android.com/build/configure-app-module#set-application-id:
// at least three dot-separated components, each matching
// [A-Za-z][A-Za-z0-9_]*. Invalid input returns ok=false, never a panic.
func NewPackageID(candidate string) (PackageID, bool) {
	rest := candidate
	for i := 0; i < 2; i++ {
		comp, tail, found := strings.Cut(rest, ".")
		if !found || !isPkgComponent(comp) {
			return PackageID{}, false
		}
		rest = tail
	}
	for {
		comp, tail, found := strings.Cut(rest, ".")
		if !isPkgComponent(comp) {
			return PackageID{}, false
		}
		if !found {
			return PackageID{id: candidate}, true
		}
		rest = tail
	}
}

func (p PackageID) String() string { return p.id }

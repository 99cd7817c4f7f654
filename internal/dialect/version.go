package dialect

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrInvalidVersion is returned for version strings outside the
// MAJOR.MINOR[.PATCH][{a|b|rc}N] family.
var ErrInvalidVersion = errors.New("invalid version")

var versionRe = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?(?:(a|b|rc)(\d+))?$`)

// Version is a parsed AiiDA version. Raw keeps the string as given, canonical
// is the equivalent semantic version used for ordering (1.0.0b6 -> v1.0.0-b.6).
type Version struct {
	raw       string
	canonical string
}

// ParseVersion parses an AiiDA release string such as "0.12.4", "1.0.0b6" or "2.6.1".
func ParseVersion(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	m := versionRe.FindStringSubmatch(raw)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	nums := make([]int, 0, 4)
	for _, part := range []string{m[1], m[2], m[3], m[5]} {
		if part == "" {
			nums = append(nums, 0)
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, s, err)
		}
		nums = append(nums, n)
	}

	canonical := fmt.Sprintf("v%d.%d.%d", nums[0], nums[1], nums[2])
	if m[4] != "" {
		canonical += fmt.Sprintf("-%s.%d", m[4], nums[3])
	}
	if !semver.IsValid(canonical) {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	return Version{raw: raw, canonical: canonical}, nil
}

// MustParseVersion is ParseVersion for package-level tables.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as it was given.
func (v Version) String() string { return v.raw }

// Canonical returns the semantic-version form.
func (v Version) Canonical() string { return v.canonical }

// IsZero reports whether v is the zero Version.
func (v Version) IsZero() bool { return v.canonical == "" }

// Compare returns -1, 0 or +1. Pre-releases sort before the final release
// and a < b < rc.
func (v Version) Compare(other Version) int {
	return semver.Compare(v.canonical, other.canonical)
}

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

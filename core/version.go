package core

import (
	"strings"

	"golang.org/x/mod/semver"
)

// DefaultStoredVersion is assumed when no schema version marker exists.
const DefaultStoredVersion = "0"

type parsedVersion struct {
	release string   // vMAJOR.MINOR.PATCH
	extra   []string // numeric segments past patch, leading zeros trimmed
	suffix  string   // prerelease and build, "-rc1+meta"
}

// CompareVersions orders dot separated versions numerically per segment,
// for any number of segments. Missing segments count as zero and a
// prerelease sorts before its release. Unparsable versions sort below every
// valid version.
func CompareVersions(a, b string) int {
	pa, okA := parseVersion(a)
	pb, okB := parseVersion(b)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	}

	if cmp := semver.Compare(pa.release, pb.release); cmp != 0 {
		return cmp
	}
	if cmp := compareSegments(pa.extra, pb.extra); cmp != 0 {
		return cmp
	}
	return semver.Compare("v0.0.0"+pa.suffix, "v0.0.0"+pb.suffix)
}

func IsValidVersion(version string) bool {
	_, ok := parseVersion(version)
	return ok
}

// VersionBefore reports whether stored must be migrated to reach current.
// An unparsable stored marker is never migrated over, so the marker cannot
// move backwards from a value this engine does not understand.
func VersionBefore(stored, current string) bool {
	if !IsValidVersion(stored) || !IsValidVersion(current) {
		return false
	}
	return CompareVersions(stored, current) < 0
}

// parseVersion accepts "4", "4.0", "v4.0.0-rc1" or "4.1.0.2".
func parseVersion(version string) (parsedVersion, bool) {
	version = strings.TrimSpace(version)
	version = strings.TrimPrefix(strings.TrimPrefix(version, "v"), "V")
	if version == "" {
		return parsedVersion{}, false
	}

	numeric, suffix := version, ""
	if idx := strings.IndexAny(version, "-+"); idx >= 0 {
		numeric, suffix = version[:idx], version[idx:]
	}
	segments := strings.Split(numeric, ".")
	for i, segment := range segments {
		if segment == "" || strings.Trim(segment, "0123456789") != "" {
			return parsedVersion{}, false
		}
		trimmed := strings.TrimLeft(segment, "0")
		if trimmed == "" {
			trimmed = "0"
		}
		segments[i] = trimmed
	}
	for len(segments) < 3 {
		segments = append(segments, "0")
	}

	parsed := parsedVersion{
		release: "v" + strings.Join(segments[:3], "."),
		extra:   segments[3:],
		suffix:  suffix,
	}
	if !semver.IsValid(parsed.release) || !semver.IsValid("v0.0.0"+suffix) {
		return parsedVersion{}, false
	}
	return parsed, true
}

func compareSegments(a, b []string) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		left, right := "0", "0"
		if i < len(a) {
			left = a[i]
		}
		if i < len(b) {
			right = b[i]
		}
		if len(left) != len(right) {
			if len(left) < len(right) {
				return -1
			}
			return 1
		}
		if cmp := strings.Compare(left, right); cmp != 0 {
			return cmp
		}
	}
	return 0
}

package matcher

import (
	"regexp"
	"strings"
)

// reportPrefix is the boilerplate the payroll system prepends to facility
// names in report workbooks.
const reportPrefix = "Total Nursing Wrkd - "

var (
	nonAlnumSpace = regexp.MustCompile(`[^a-z0-9\s]`)
	spaceRun      = regexp.MustCompile(`\s+`)
	siteCode      = regexp.MustCompile(`\s+PA\d+_\d+`)
)

// Normalize canonicalizes a facility display name into a matching key:
// lowercase, alphanumerics and spaces only, single-spaced, trimmed.
// Any input is accepted; unusable input yields "".
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.ToLower(raw)
	s = nonAlnumSpace.ReplaceAllString(s, "")
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ReportCore strips the report-only decorations from a facility name, the
// "Total Nursing Wrkd - " prefix and the trailing site code ("PA12_3"
// style), then normalizes the remainder.
func ReportCore(raw string) string {
	if raw == "" {
		return ""
	}
	s := raw
	if len(s) >= len(reportPrefix) && strings.EqualFold(s[:len(reportPrefix)], reportPrefix) {
		s = s[len(reportPrefix):]
	}
	s = siteCode.ReplaceAllString(s, "")
	return Normalize(s)
}

package model

import "strings"

// SkipRecord explains why an input file produced no entry. Every walked file
// that yields nothing ends up in exactly one skip list.
type SkipRecord struct {
	File   string
	Reason string
}

// Coarse categories shown in the diagnostic sheets.
const (
	CategoryHiddenFile   = "Mac OS Hidden File"
	CategoryInvalidData  = "Invalid Data"
	CategoryNameMatching = "Name Matching Issue"
	CategoryFileError    = "File Error"
)

// TemplateSkipCategory maps a template skip reason to its coarse category.
func TemplateSkipCategory(reason string) string {
	switch {
	case strings.Contains(reason, "Mac OS hidden"):
		return CategoryHiddenFile
	case strings.Contains(reason, "Invalid"):
		return CategoryInvalidData
	default:
		return CategoryFileError
	}
}

// ReportSkipCategory maps a report skip reason to its coarse category.
func ReportSkipCategory(reason string) string {
	switch {
	case strings.Contains(reason, "Mac OS hidden"):
		return CategoryHiddenFile
	case strings.Contains(reason, "No matched facility"):
		return CategoryNameMatching
	default:
		return CategoryFileError
	}
}

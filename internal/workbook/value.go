package workbook

import (
	"strconv"
	"strings"
	"time"
)

// excelEpoch anchors the 1900 date system. The two-day offset from
// 1900-01-01 absorbs the phantom 1900 leap day, which every serial in a
// modern workbook has already passed.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// SerialDate converts an Excel serial day count to a calendar date.
// Fractional time-of-day is discarded.
func SerialDate(serial float64) time.Time {
	return excelEpoch.AddDate(0, 0, int(serial))
}

// dateLayouts covers the date spellings seen across both workbook families.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2-Jan-2006",
	"02-Jan-06",
}

// ParseDate interprets a raw cell value as a date. Numeric values are
// treated as Excel serials; strings are tried against known layouts.
// The result is truncated to midnight UTC.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		return SerialDate(serial), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return DateOnly(t), true
		}
	}
	return time.Time{}, false
}

// DateOnly drops the time-of-day component, keeping the UTC calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseFloat coerces a raw cell value to a number. Blank, non-numeric or
// otherwise malformed input yields 0 rather than an error; thousands
// separators are tolerated.
func ParseFloat(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	raw = strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

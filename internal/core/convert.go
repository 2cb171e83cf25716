package core

// convert.go turns spreadsheet cells into typed record values.
//
// These functions handle the messy reality of user-provided spreadsheets:
//   - Multiple date formats (US, EU, ISO, etc.)
//   - Currency symbols and thousand separators in numbers
//   - Various boolean representations (yes/no, true/false, 1/0)
//   - Excel formula prefixes (="value")
//
// Coercers receive a cleaned, non-empty cell and return either the typed
// value or an error whose message is shown to the user as-is.

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would land more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// timeNow is swapped in tests to pin the 2-digit year pivot.
var timeNow = time.Now

var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "2 Jan 2006", "January 2, 2006", "2 January 2006",
		"20060102",
	}
	// Spreadsheet exports of date cells sometimes carry a midnight time part.
	timestampLayouts = []string{
		time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05",
	}
)

// currencySymbols are stripped from numeric cells before parsing.
var currencySymbols = []string{"$", "€", "£", "₹", "¥"}

var (
	errInvalidNumber = errors.New(MsgInvalidNumber)
	errInvalidDate   = errors.New(MsgInvalidDate)
	errInvalidBool   = errors.New(MsgInvalidBool)
)

// CoerceText returns the trimmed cell.
func CoerceText(s string) (any, error) {
	return strings.TrimSpace(s), nil
}

// CoerceNumber parses a numeric cell into a decimal.Decimal.
// Handles currency symbols, thousands separators, and accounting format (parentheses for negative).
func CoerceNumber(s string) (any, error) {
	d, ok := ParseDecimal(s)
	if !ok {
		return nil, errInvalidNumber
	}
	return d, nil
}

// ParseDecimal is the boolean form of CoerceNumber, used by filters and sorting.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return decimal.Decimal{}, false
	}

	// decimal does not accept a bare trailing point ("99.").
	s = strings.Replace(s, ".e", "e", 1)
	s = strings.Replace(s, ".E", "E", 1)
	s = strings.TrimSuffix(s, ".")
	s = strings.TrimPrefix(s, "+")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// CoerceBoolean accepts true/false, yes/no, t/f, y/n, 1/0 in any case.
func CoerceBoolean(s string) (any, error) {
	b, ok := ParseBool(s)
	if !ok {
		return nil, errInvalidBool
	}
	return b, nil
}

// ParseBool is the boolean form of CoerceBoolean.
func ParseBool(s string) (bool, bool) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "true", "t", "yes", "y", "1":
		return true, true
	case "false", "f", "no", "n", "0":
		return false, true
	default:
		return false, false
	}
}

// CoerceDate parses a date cell into a time.Time at UTC midnight.
// Supports multiple date formats and handles 2-digit years with pivot.
func CoerceDate(s string) (any, error) {
	t, ok := ParseDate(s)
	if !ok {
		return nil, errInvalidDate
	}
	return t, nil
}

// ParseDate is the boolean form of CoerceDate.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}

	pivotYear := timeNow().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// CoerceEnum matches s case-insensitively against allowed and returns the
// canonical spelling.
func CoerceEnum(s string, allowed []string) (any, error) {
	s = strings.TrimSpace(s)
	for _, v := range allowed {
		if strings.EqualFold(v, s) {
			return v, nil
		}
	}
	return nil, errors.New("value must be one of: " + strings.Join(allowed, ", "))
}

// HeaderIndex maps normalized header text to its column position.
type HeaderIndex map[string]int

// NormalizeHeader lowercases a header cell and strips the trailing
// required marker added by templates ("Code *" -> "code").
func NormalizeHeader(h string) string {
	h = strings.ToLower(CleanCell(h))
	h = strings.TrimSpace(strings.TrimSuffix(h, "*"))
	return h
}

// MakeHeaderIndex creates a HeaderIndex from a header row.
// The first occurrence of a repeated header wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := NormalizeHeader(h)
		if key == "" {
			continue
		}
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

// Lookup finds a field's column by key first, then by label.
func (idx HeaderIndex) Lookup(f Field) (int, bool) {
	if pos, ok := idx[strings.ToLower(f.Key)]; ok {
		return pos, true
	}
	if f.Label != "" {
		if pos, ok := idx[strings.ToLower(strings.TrimSpace(f.Label))]; ok {
			return pos, true
		}
	}
	return 0, false
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes one matched pair of surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}

	return strings.TrimSpace(s)
}

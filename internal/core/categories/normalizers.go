package categories

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/LabMaster/internal/core"
)

// Currencies maps currency names to their ISO 4217 codes.
var Currencies = map[string]string{
	"indian rupee":       "INR",
	"rupee":              "INR",
	"us dollar":          "USD",
	"dollar":             "USD",
	"euro":               "EUR",
	"pound sterling":     "GBP",
	"british pound":      "GBP",
	"uae dirham":         "AED",
	"dirham":             "AED",
	"saudi riyal":        "SAR",
	"qatari riyal":       "QAR",
	"omani rial":         "OMR",
	"kuwaiti dinar":      "KWD",
	"bahraini dinar":     "BHD",
	"nepalese rupee":     "NPR",
	"sri lankan rupee":   "LKR",
	"bangladeshi taka":   "BDT",
	"pakistani rupee":    "PKR",
	"singapore dollar":   "SGD",
	"malaysian ringgit":  "MYR",
	"kenyan shilling":    "KES",
	"nigerian naira":     "NGN",
	"south african rand": "ZAR",
	"japanese yen":       "JPY",
	"australian dollar":  "AUD",
	"canadian dollar":    "CAD",
}

// NormalizeCurrency converts currency names to their ISO codes.
// If the input is already a code or not recognized, returns it upper-cased.
func NormalizeCurrency(s string) string {
	s = strings.TrimSpace(s)
	sLower := strings.ToLower(s)

	// Check if it's a full name
	if code, ok := Currencies[sLower]; ok {
		return code
	}

	// Symbols seen in exported price lists
	switch s {
	case "₹", "Rs", "Rs.":
		return "INR"
	case "$":
		return "USD"
	case "€":
		return "EUR"
	case "£":
		return "GBP"
	}

	return strings.ToUpper(s)
}

// NormalizeCode upper-cases a short identifier and joins inner whitespace
// with hyphens: "cbc  panel" -> "CBC-PANEL".
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), "-"))
}

// NormalizePhone strips formatting characters, keeping digits and a
// leading plus sign.
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

var (
	errPercentRange = errors.New("must be between 0 and 100")
	hundred         = decimal.NewFromInt(100)
)

// CoercePercent parses a number between 0 and 100. A trailing "%" is allowed.
func CoercePercent(raw string) (any, error) {
	v, err := core.CoerceNumber(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if err != nil {
		return nil, err
	}
	d := v.(decimal.Decimal)
	if d.IsNegative() || d.GreaterThan(hundred) {
		return nil, errPercentRange
	}
	return d, nil
}

package ledger

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney parses monetary input such as "$131.34", "131.34", "1,234.56"
// or a plain number into a float64. It returns NaN on unparseable input and
// never panics. When both comma and period appear, commas are treated as
// thousands separators. When only commas appear, a trailing group whose
// length is not 3 makes the first comma the decimal point.
func ParseMoney(v any) float64 {
	if v == nil {
		return math.NaN()
	}
	s := strings.TrimSpace(stringify(v))
	if s == "" {
		return math.NaN()
	}
	cleaned := keepRunes(s, "0123456789.,-")
	if cleaned == "" {
		return math.NaN()
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasDot:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case hasComma:
		parts := strings.Split(cleaned, ",")
		if len(parts[len(parts)-1]) != 3 {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

// ToCents converts monetary input into integer cents, rounding to the
// nearest cent. Unlike ParseMoney it reads only a leading numeric prefix
// and maps unparseable input to 0; both behaviors are relied on by display
// formatting and must not be unified with ParseMoney.
func ToCents(v any) int64 {
	if v == nil {
		return 0
	}
	cleaned := keepRunes(stringify(v), "0123456789.-")
	prefix := numericPrefix(cleaned)
	if prefix == "" {
		return 0
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return 0
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FormatUSD renders integer cents as localized USD, e.g. 123456 -> "$1,234.56".
func FormatUSD(cents int64) string {
	d := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(2)

	intPart := fixed[:len(fixed)-3]
	frac := fixed[len(fixed)-3:]
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "$" + b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

// FormatAmount renders a float with exactly two decimals, matching the
// wording of conservation error messages ("150.00").
func FormatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatCell renders a parsed amount the way it is written back into a
// ledger cell: minimal digits, no trailing zeros ("60", "131.34").
func formatCell(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return formatCell(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return ""
	}
}

func keepRunes(s, allowed string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(allowed, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// numericPrefix returns the longest leading substring that parses as a
// signed decimal number, mirroring parseFloat-style prefix reads.
func numericPrefix(s string) string {
	end := 0
	seenDot := false
	seenDigit := false
	for i, r := range s {
		switch {
		case r == '-' && i == 0:
		case r == '.' && !seenDot:
			seenDot = true
		case r >= '0' && r <= '9':
			seenDigit = true
		default:
			goto done
		}
		end = i + 1
	}
done:
	if !seenDigit {
		return ""
	}
	return strings.TrimSuffix(s[:end], ".")
}

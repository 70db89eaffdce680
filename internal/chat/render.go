package chat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// formatMoney renders "$1,234.56". Negative values keep the sign outside the
// dollar: "-$12.30".
func formatMoney(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + "$" + groupThousands(d.StringFixed(2))
}

// formatMoneyDecimal is formatMoney for values already held as decimals.
func formatMoneyDecimal(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + "$" + groupThousands(d.StringFixed(2))
}

// formatCount renders an integer with thousands separators.
func formatCount(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = groupThousands(s)
	if neg {
		s = "-" + s
	}
	return s
}

func groupThousands(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	var sb strings.Builder
	n := len(intPart)
	for i, r := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	if hasFrac {
		sb.WriteByte('.')
		sb.WriteString(frac)
	}
	return sb.String()
}

// formatPct renders a value already in percent units, signed, two decimals.
func formatPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// formatRatioPct renders broker P/L percentages, which arrive either as raw
// ratios (0.042) or percent units (4.2) depending on the endpoint. Values
// with absolute value below 2 are treated as ratios and scaled.
func formatRatioPct(v float64) string {
	if v > -2 && v < 2 {
		v *= 100
	}
	return formatPct(v)
}

// formatBare renders a price without the dollar sign or grouping, trimming
// trailing zeros: 189.5 not 189.50.
func formatBare(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

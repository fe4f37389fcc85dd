package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Constants
const (
	CLOCK_LAYOUT    = "15:04"
	DATETIME_LAYOUT = "2006-01-02T15:04:05"
)

// FormatDuration renders a flight duration as "2h 30m".
func FormatDuration(d time.Duration) string {
	minutes := int(d.Round(time.Minute).Minutes())
	if minutes <= 0 {
		return ""
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// FormatMoney renders an amount with two decimals and thousands separators,
// e.g. "INR 4,365.00".
func FormatMoney(amount decimal.Decimal, currency string) string {
	value := amount.StringFixed(2)
	negative := strings.HasPrefix(value, "-")
	value = strings.TrimPrefix(value, "-")

	whole, frac, _ := strings.Cut(value, ".")
	for i := len(whole) - 3; i > 0; i -= 3 {
		whole = whole[:i] + "," + whole[i:]
	}
	value = whole + "." + frac
	if negative {
		value = "-" + value
	}
	if currency == "" {
		return value
	}
	return currency + " " + value
}

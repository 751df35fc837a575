// Package common provides shared utilities for the Viktory dashboard.
package common

import (
	"fmt"
	"strings"
)

// FormatMoney formats a float as a dollar amount with comma separators
func FormatMoney(v float64) string {
	negative := v < 0
	if negative {
		v = -v
	}
	whole := int64(v)
	cents := int64((v-float64(whole))*100 + 0.5)
	if cents >= 100 {
		whole++
		cents -= 100
	}

	s := fmt.Sprintf("%d", whole)
	if len(s) > 3 {
		var parts []string
		for len(s) > 3 {
			parts = append([]string{s[len(s)-3:]}, parts...)
			s = s[:len(s)-3]
		}
		parts = append([]string{s}, parts...)
		s = strings.Join(parts, ",")
	}

	if negative {
		return fmt.Sprintf("-$%s.%02d", s, cents)
	}
	return fmt.Sprintf("$%s.%02d", s, cents)
}

// FormatSignedMoney formats a dollar amount with +/- prefix
func FormatSignedMoney(v float64) string {
	if v >= 0 {
		return "+" + FormatMoney(v)
	}
	return FormatMoney(v)
}

// FormatPct formats a percentage with one decimal place
func FormatPct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatFracPct formats a 0..1 fraction as a percentage with one decimal place
func FormatFracPct(v float64) string {
	return FormatPct(v * 100)
}

// FormatSignedPct formats a percentage with +/- prefix
func FormatSignedPct(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.1f%%", v)
	}
	return fmt.Sprintf("%.1f%%", v)
}

// Delta returns the percentage change from previous to current.
// Returns 0 when previous is 0 to avoid a divide-by-zero on empty periods.
func Delta(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

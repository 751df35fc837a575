// Package models defines data structures for the Viktory dashboard.
package models

import (
	"fmt"
	"time"
)

// Period identifies a reporting window on the dashboard.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a period string from a request. An empty string
// defaults to today.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return PeriodToday, nil
	case PeriodToday, PeriodWeek, PeriodMonth:
		return Period(s), nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Comparison returns the label of the period this one is compared against.
func (p Period) Comparison() string {
	switch p {
	case PeriodWeek:
		return "last_week"
	case PeriodMonth:
		return "last_month"
	default:
		return "yesterday"
	}
}

// Window returns the [after, before) UTC time range covered by the period,
// anchored at now.
func (p Period) Window(now time.Time) (after, before time.Time) {
	now = now.UTC()
	before = now
	switch p {
	case PeriodWeek:
		after = now.AddDate(0, 0, -7)
	case PeriodMonth:
		after = now.AddDate(0, -1, 0)
	default:
		after = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return after, before
}

// PreviousWindow returns the comparison period's [after, before) UTC range,
// immediately preceding Window.
func (p Period) PreviousWindow(now time.Time) (after, before time.Time) {
	start, _ := p.Window(now)
	switch p {
	case PeriodWeek:
		return start.AddDate(0, 0, -7), start
	case PeriodMonth:
		return start.AddDate(0, -1, 0), start
	default:
		return start.AddDate(0, 0, -1), start
	}
}

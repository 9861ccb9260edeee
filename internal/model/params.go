package model

import (
	"math"
	"time"
)

// Bounds of the uptime target, in percent.
const (
	MinTargetUptime = 50.0
	MaxTargetUptime = 100.0
)

// ValidateTargetUptime rejects targets outside [50, 100] or that are not numbers.
func ValidateTargetUptime(target float64) error {
	switch {
	case math.IsNaN(target) || math.IsInf(target, 0):
		return &InvalidParameterError{Param: "target_uptime_percent", Value: target, Reason: ReasonNotANumber}
	case target < MinTargetUptime:
		return &InvalidParameterError{Param: "target_uptime_percent", Value: target, Reason: ReasonTooLow,
			Detail: "must be at least 50"}
	case target > MaxTargetUptime:
		return &InvalidParameterError{Param: "target_uptime_percent", Value: target, Reason: ReasonTooHigh,
			Detail: "must be at most 100"}
	}
	return nil
}

// TargetBasisPoints converts a percent target with two-decimal precision to
// basis points (97.25% -> 9725).
func TargetBasisPoints(target float64) int {
	return int(math.Round(target * 100))
}

// AllowedDowntimeHours is floor(totalHours * (1 - target/100)), computed in
// integer basis points so that e.g. 100h at 90% is exactly 10.
func AllowedDowntimeHours(totalHours int, target float64) int {
	bp := TargetBasisPoints(target)
	if bp >= 10000 || totalHours <= 0 {
		return 0
	}
	return totalHours * (10000 - bp) / 10000
}

// Window is a half-open time range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// LastNDays returns the window covering the N days up to now.
func LastNDays(now time.Time, days int) Window {
	return Window{Start: now.Add(-time.Duration(days) * 24 * time.Hour), End: now}
}

// Contains reports whether t falls inside the window. A zero bound is open.
func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && !t.Before(w.End) {
		return false
	}
	return true
}

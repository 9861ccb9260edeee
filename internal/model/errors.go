package model

import (
	"fmt"
	"time"
)

// InsufficientDataError means no usable prices exist for the requested window.
type InsufficientDataError struct {
	Start  time.Time
	End    time.Time
	Points int
	Reason string
}

func (e *InsufficientDataError) Error() string {
	if e.Start.IsZero() && e.End.IsZero() {
		return fmt.Sprintf("insufficient price data: %s (points=%d)", e.Reason, e.Points)
	}
	return fmt.Sprintf("insufficient price data for %s..%s: %s (points=%d)",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339), e.Reason, e.Points)
}

// Reasons carried by InvalidParameterError.
const (
	ReasonTooLow     = "too_low"
	ReasonTooHigh    = "too_high"
	ReasonNotANumber = "not_a_number"
	ReasonInvalid    = "invalid"
)

// InvalidParameterError rejects a parameter before any computation runs.
type InvalidParameterError struct {
	Param  string
	Value  any
	Reason string
	Detail string
}

func (e *InvalidParameterError) Error() string {
	msg := fmt.Sprintf("invalid %s=%v (%s)", e.Param, e.Value, e.Reason)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// ComputationInvariantError is raised when curtailment fails to lower the
// average price. The run yields no result.
type ComputationInvariantError struct {
	TargetUptimePercent float64
	SeriesLength        int
	ShutdownHours       int
	ShutdownSavings     float64
	OriginalAverage     float64
	OptimizedAverage    float64
	TopShutdownPrices   []float64
	BottomRunningPrices []float64
}

func (e *ComputationInvariantError) Error() string {
	return fmt.Sprintf(
		"optimized average %.6f is not below original average %.6f (target=%.2f%%, hours=%d, shutdown=%d)",
		e.OptimizedAverage, e.OriginalAverage, e.TargetUptimePercent, e.SeriesLength, e.ShutdownHours,
	)
}

// ExternalDependencyError wraps a failure of the price source or currency service.
type ExternalDependencyError struct {
	Service string
	Err     error
}

func (e *ExternalDependencyError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *ExternalDependencyError) Unwrap() error { return e.Err }

package strategy

import (
	"fmt"
	"strings"

	"uptime-optimizer/internal/model"
)

// ScheduleParams implements a fixed daily curtailment window:
// - Curtail during [WindowStart, WindowEnd), e.g. the evening peak
// - Otherwise RUNNING
// - Stop curtailing once the downtime allowed by TargetUptimePercent is used
//
// Times are interpreted in the series' local time. A window that starts
// after it ends wraps across midnight.
type ScheduleParams struct {
	WindowStart         string // "HH:MM"
	WindowEnd           string // "HH:MM"
	TargetUptimePercent float64
	TransmissionAdder   float64
}

// Window used when ScheduleParams leaves it empty.
const (
	DefaultWindowStart = "17:00"
	DefaultWindowEnd   = "20:00"
)

// ScheduleStrategy is the no-foresight reference: it curtails the same
// hours every day regardless of price.
type ScheduleStrategy struct {
	plan
	Params  ScheduleParams
	allowed int
	sum     summary
}

func NewScheduleStrategy(points []model.PricePoint, params ScheduleParams) (*ScheduleStrategy, error) {
	if err := model.ValidateTargetUptime(params.TargetUptimePercent); err != nil {
		return nil, err
	}
	if err := requirePoints(points); err != nil {
		return nil, err
	}
	if params.WindowStart == "" && params.WindowEnd == "" {
		params.WindowStart, params.WindowEnd = DefaultWindowStart, DefaultWindowEnd
	}
	start, err := parseHHMM(params.WindowStart)
	if err != nil {
		return nil, &model.InvalidParameterError{Param: "window_start", Value: params.WindowStart, Reason: model.ReasonInvalid, Detail: err.Error()}
	}
	end, err := parseHHMM(params.WindowEnd)
	if err != nil {
		return nil, &model.InvalidParameterError{Param: "window_end", Value: params.WindowEnd, Reason: model.ReasonInvalid, Detail: err.Error()}
	}

	s := &ScheduleStrategy{
		plan: plan{
			points:    points,
			curtailed: make([]bool, len(points)),
		},
		Params:  params,
		allowed: model.AllowedDowntimeHours(len(points), params.TargetUptimePercent),
	}

	used := 0
	for i, p := range points {
		if used >= s.allowed {
			break
		}
		mins := p.Datetime.Hour()*60 + p.Datetime.Minute()
		if inWindow(mins, start, end) {
			s.curtailed[i] = true
			used++
		}
	}
	s.events = runsToEvents(points, s.curtailed, params.TransmissionAdder)
	s.sum = s.summarize(params.TransmissionAdder)
	return s, nil
}

func (s *ScheduleStrategy) Name() string { return "schedule" }
func (s *ScheduleStrategy) Kind() Kind   { return KindSchedule }

func (s *ScheduleStrategy) Result() *model.AnalysisResult {
	return s.result(s.Name(), s.Params.TargetUptimePercent, s.allowed, s.sum)
}

// runsToEvents turns each run of consecutive curtailed hours into one event.
func runsToEvents(points []model.PricePoint, curtailed []bool, adder float64) []model.ShutdownEvent {
	var out []model.ShutdownEvent
	for i := 0; i < len(points); {
		if !curtailed[i] {
			i++
			continue
		}
		j := i
		for j < len(points) && curtailed[j] && j-i < model.MaxEventHours {
			if j > i && points[j].Datetime.Sub(points[j-1].Datetime) != hour {
				break
			}
			j++
		}
		out = append(out, model.NewEvent(points[i:j], nil, adder))
		i = j
	}
	return out
}

func parseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0], "%d", &h); err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &m); err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}

// inWindow checks whether tMins is in [start, end) on a 24h clock.
// If start == end, the window is empty (always false).
// If start > end, it wraps across midnight.
func inWindow(tMins, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return tMins >= start && tMins < end
	}
	return tMins >= start || tMins < end
}

package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uptime-optimizer/internal/analysis"
	"uptime-optimizer/internal/model"
)

var start = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC) // a Monday

func series(prices ...float64) []model.PricePoint {
	out := make([]model.PricePoint, len(prices))
	for i, p := range prices {
		t := start.Add(time.Duration(i) * time.Hour)
		out[i] = model.NewPricePoint(t, t.Hour(), p)
	}
	return out
}

func flat(n int, price float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}
	return out
}

func deterministic(t *testing.T, points []model.PricePoint, target float64) *DeterministicStrategy {
	t.Helper()
	s, err := NewDeterministicStrategy(points, DeterministicParams{
		TargetUptimePercent: target,
		TransmissionAdder:   DefaultTransmissionAdder,
	})
	require.NoError(t, err)
	return s
}

func TestDeterministic_RanksByPrice(t *testing.T) {
	prices := make([]float64, 24)
	for i := range prices {
		prices[i] = float64(10 * (i + 1))
	}
	res := deterministic(t, series(prices...), 50).Result()

	assert.Equal(t, 12, res.AllowedDowntimeHours)
	assert.Equal(t, 12, res.TotalShutdownHours)
	assert.InDelta(t, 2220, res.TotalSavings, 1e-9)
	assert.InDelta(t, 65, res.NewAveragePrice, 1e-9)
	assert.InDelta(t, 125, res.OriginalAverage, 1e-9)
	assert.InDelta(t, 2220+12*DefaultTransmissionAdder, res.TotalAllInSavings, 1e-9)
	assert.Equal(t, 50.0, res.DowntimePercentage)

	require.Len(t, res.Events, 12)
	for i, ev := range res.Events {
		assert.Equal(t, 1, ev.DurationHours)
		assert.Equal(t, 12+i, ev.StartHour, "events are chronological")
	}
}

func TestDeterministic_FlatMarketFailsInvariant(t *testing.T) {
	_, err := NewDeterministicStrategy(series(flat(100, 50)...), DeterministicParams{TargetUptimePercent: 90})

	var inv *model.ComputationInvariantError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, 10, inv.ShutdownHours)
	assert.Equal(t, 500.0, inv.ShutdownSavings)
	assert.Equal(t, 50.0, inv.OriginalAverage)
	assert.Equal(t, 50.0, inv.OptimizedAverage)
	assert.Equal(t, []float64{50, 50, 50, 50, 50}, inv.TopShutdownPrices)
	assert.Len(t, inv.BottomRunningPrices, 5)
}

func TestDeterministic_FullUptime(t *testing.T) {
	s := deterministic(t, series(flat(10, 50)...), 100)
	res := s.Result()
	assert.Zero(t, res.TotalShutdownHours)
	assert.Empty(t, res.Events)
	assert.Equal(t, 50.0, res.NewAveragePrice)
	assert.Equal(t, model.ActionRunning, s.Decide(Context{Index: 3}))
}

func TestDeterministic_TiesKeepChronologicalOrder(t *testing.T) {
	s := deterministic(t, series(50, 80, 80, 10), 75)
	assert.True(t, s.Curtailed(1))
	assert.False(t, s.Curtailed(2))
	assert.Equal(t, model.ActionCurtailed, s.Decide(Context{Index: 1}))
}

func TestDeterministic_Validation(t *testing.T) {
	_, err := NewDeterministicStrategy(series(1, 2, 3), DeterministicParams{TargetUptimePercent: 49})
	var ipe *model.InvalidParameterError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, model.ReasonTooLow, ipe.Reason)

	_, err = NewDeterministicStrategy(nil, DeterministicParams{TargetUptimePercent: 90})
	var ide *model.InsufficientDataError
	assert.ErrorAs(t, err, &ide)
}

func TestDeterministic_Properties(t *testing.T) {
	prices := make([]float64, 24*10)
	for i := range prices {
		prices[i] = float64((i*37)%113) - 5 // includes negative prices
	}
	points := series(prices...)

	prevHours, prevSavings := -1, -1e18
	for _, target := range []float64{100, 97, 96, 95, 90, 85, 80} {
		s := deterministic(t, points, target)
		res := s.Result()

		// lower targets never curtail fewer hours or save less
		assert.GreaterOrEqual(t, res.TotalShutdownHours, prevHours)
		assert.GreaterOrEqual(t, res.TotalSavings, prevSavings)
		prevHours, prevSavings = res.TotalShutdownHours, res.TotalSavings

		// partition: every hour is exactly one of running or curtailed
		var curtailed int
		for i := range points {
			switch s.Decide(Context{Index: i}) {
			case model.ActionCurtailed:
				curtailed++
			case model.ActionRunning:
			default:
				t.Fatalf("unexpected action at %d", i)
			}
		}
		assert.Equal(t, model.AllowedDowntimeHours(len(points), target), curtailed)

		// idempotence
		again := deterministic(t, points, target).Result()
		assert.Equal(t, res, again)
	}
}

func TestDeterministic_NewAverageNeverDecreasesWithTarget(t *testing.T) {
	prices := make([]float64, 24*10)
	for i := range prices {
		prices[i] = float64((i*37)%113) - 5
	}
	points := series(prices...)

	prev := -1e18
	for _, target := range []float64{80, 85, 90, 95, 96, 97, 100} {
		res := deterministic(t, points, target).Result()
		assert.GreaterOrEqual(t, res.NewAveragePrice, prev-1e-9, "target %.0f", target)
		assert.LessOrEqual(t, res.NewAveragePrice, res.OriginalAverage+1e-9, "target %.0f", target)
		prev = res.NewAveragePrice
	}
	assert.InDelta(t, deterministic(t, points, 100).Result().OriginalAverage, prev, 1e-9)
}

func TestDeterministic_SavingsNonNegative(t *testing.T) {
	res := deterministic(t, series(5, 0, 12, 7, 3, 9, 1, 4), 75).Result()
	assert.GreaterOrEqual(t, res.TotalSavings, 0.0)
	assert.Less(t, res.NewAveragePrice, res.OriginalAverage)
}

// spikes returns two days at $40 with a three-hour spike on day one and a
// single-hour spike on day two.
func spikes() []model.PricePoint {
	prices := flat(48, 40)
	prices[17], prices[18], prices[19] = 150, 150, 150
	prices[41] = 200
	return series(prices...)
}

func constrained(t *testing.T, points []model.PricePoint, mutate func(*ConstrainedParams)) *ConstrainedStrategy {
	t.Helper()
	p := ConstrainedParams{
		TargetUptimePercent: 90,
		MaxShutdownHours:    10,
		Constraints:         model.DefaultConstraints(),
		TransmissionAdder:   DefaultTransmissionAdder,
	}
	if mutate != nil {
		mutate(&p)
	}
	s, err := NewConstrainedStrategy(points, analysis.Baseline{Average: 50}, p)
	require.NoError(t, err)
	return s
}

func TestConstrained_BuildsEventsAroundSpikes(t *testing.T) {
	s := constrained(t, spikes(), nil)
	events := s.Events()
	require.Len(t, events, 2)

	assert.Equal(t, 17, events[0].StartHour)
	assert.Equal(t, 3, events[0].DurationHours)
	assert.Equal(t, 450.0, events[0].EnergySavings)
	assert.Equal(t, 50.0, events[0].BaselinePrice)
	assert.InDelta(t, 0.2, events[0].OperationalCost, 1e-12)

	// a single-hour spike is stretched to the minimum duration
	assert.Equal(t, start.Add(41*time.Hour), events[1].Start)
	assert.Equal(t, 2, events[1].DurationHours)
	assert.Equal(t, 240.0, events[1].EnergySavings)

	assert.Equal(t, 5, s.TotalShutdownHours())
	assert.Empty(t, s.Violations())
	res := s.Result()
	assert.Equal(t, 5, res.TotalShutdownHours)
	assert.Equal(t, 690.0, res.TotalSavings)
}

func TestConstrained_RespectsBudget(t *testing.T) {
	s := constrained(t, spikes(), func(p *ConstrainedParams) { p.MaxShutdownHours = 3 })
	assert.LessOrEqual(t, s.TotalShutdownHours(), 3)
	require.Len(t, s.Events(), 1)
	assert.Equal(t, 41, s.Events()[0].StartHour+24)
}

func TestConstrained_WeeklyLimit(t *testing.T) {
	s := constrained(t, spikes(), func(p *ConstrainedParams) { p.Constraints.MaximumShutdownsPerWeek = 1 })
	require.Len(t, s.Events(), 1)
	require.NotEmpty(t, s.Violations())
	assert.Contains(t, s.Violations()[0], "limit of 1 shutdowns")
	assert.Contains(t, s.Violations()[0], "2024-W27")
}

func TestConstrained_EventPastEndOfSeries(t *testing.T) {
	prices := flat(24, 40)
	prices[23] = 300
	s := constrained(t, series(prices...), nil)
	assert.Empty(t, s.Events())
	require.Len(t, s.Violations(), 1)
	assert.Contains(t, s.Violations()[0], "past the end")
}

func TestConstrained_NothingAboveBaseline(t *testing.T) {
	s := constrained(t, series(flat(48, 50)...), nil)
	assert.Empty(t, s.Events())
	assert.Zero(t, s.TotalShutdownHours())
}

func TestConstrained_CapsEventLength(t *testing.T) {
	prices := flat(48, 40)
	for i := 6; i < 20; i++ {
		prices[i] = 120
	}
	s := constrained(t, series(prices...), func(p *ConstrainedParams) { p.MaxShutdownHours = 30 })
	for _, ev := range s.Events() {
		assert.LessOrEqual(t, ev.DurationHours, model.MaxEventHours)
	}
	// 14 high hours become an 8h and a 6h event
	assert.Equal(t, 14, s.TotalShutdownHours())
}

func TestConstrained_DefaultsBudgetFromTarget(t *testing.T) {
	s := constrained(t, spikes(), func(p *ConstrainedParams) {
		p.MaxShutdownHours = 0
		p.TargetUptimePercent = 95 // floor(48 * 0.05) = 2
	})
	assert.Equal(t, 2, s.Result().AllowedDowntimeHours)
	assert.LessOrEqual(t, s.TotalShutdownHours(), 2)
}

func TestConstrained_InvalidConstraints(t *testing.T) {
	c := model.DefaultConstraints()
	c.MinimumShutdownDurationHours = 0
	_, err := NewConstrainedStrategy(spikes(), analysis.Baseline{Average: 50}, ConstrainedParams{TargetUptimePercent: 90, Constraints: c})
	var ipe *model.InvalidParameterError
	assert.ErrorAs(t, err, &ipe)
}

func TestSchedule_FixedWindow(t *testing.T) {
	s, err := NewScheduleStrategy(series(flat(48, 40)...), ScheduleParams{
		WindowStart:         "17:00",
		WindowEnd:           "20:00",
		TargetUptimePercent: 90,
	})
	require.NoError(t, err)
	events := s.Events()
	require.Len(t, events, 2)
	assert.Equal(t, 3, events[0].DurationHours)
	assert.Equal(t, 1, events[1].DurationHours)
	assert.Equal(t, 41, events[1].StartHour+24)
	assert.Equal(t, 4, s.Result().TotalShutdownHours)
}

func TestSchedule_DefaultWindow(t *testing.T) {
	s, err := NewScheduleStrategy(series(flat(24, 40)...), ScheduleParams{TargetUptimePercent: 50})
	require.NoError(t, err)
	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, 17, events[0].StartHour)
	assert.Equal(t, 3, events[0].DurationHours)
}

func TestSchedule_WrapsMidnight(t *testing.T) {
	assert.True(t, inWindow(23*60, 22*60, 2*60))
	assert.True(t, inWindow(60, 22*60, 2*60))
	assert.False(t, inWindow(12*60, 22*60, 2*60))
	assert.False(t, inWindow(60, 60, 60))

	_, err := NewScheduleStrategy(series(1, 2), ScheduleParams{WindowStart: "25:00", WindowEnd: "01:00", TargetUptimePercent: 90})
	var ipe *model.InvalidParameterError
	assert.ErrorAs(t, err, &ipe)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindDeterministic, k)

	k, err = ParseKind(" Constrained ")
	require.NoError(t, err)
	assert.Equal(t, KindConstrained, k)

	_, err = ParseKind("random")
	assert.Error(t, err)
}

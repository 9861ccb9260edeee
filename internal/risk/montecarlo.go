package risk

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"

	"uptime-optimizer/internal/metrics"
	"uptime-optimizer/internal/model"
)

const (
	DefaultIterations = 1000
	DefaultChunkSize  = 250
)

// Uncertainty ranges applied per event and iteration.
const (
	priceLow, priceHigh           = 0.80, 1.20
	baselineLow, baselineHigh     = 0.85, 1.15
	efficiencyLow, efficiencyHigh = 0.85, 1.00
)

// MonteCarloSummary describes the distribution of the simulated premium
// over baseline: per event (price - baseline) * hours * efficiency, net of
// operational costs. It is not the same quantity as Assessment.NetSavings,
// which starts from each event's full energy savings (price * hours), so the
// two are not comparable. ProbabilityOfProfit is the share of iterations
// whose premium is positive.
type MonteCarloSummary struct {
	Iterations          int     `json:"iterations"`
	Seed                int64   `json:"seed"`
	Mean                float64 `json:"mean"`
	StdDev              float64 `json:"std_dev"`
	P5                  float64 `json:"p5"`
	P95                 float64 `json:"p95"`
	ProbabilityOfProfit float64 `json:"probability_of_profit"`
}

// Simulate perturbs each event's price, baseline and curtailment efficiency
// and sums (price' - baseline') * hours * efficiency - operationalCost over
// events. Iterations are split into chunks seeded with seed+chunk, so the
// outcome depends only on the inputs and not on scheduling.
func Simulate(ctx context.Context, events []model.ShutdownEvent, iterations, chunkSize int, seed int64) (MonteCarloSummary, error) {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	out := MonteCarloSummary{Iterations: iterations, Seed: seed}
	values := make([]float64, iterations)

	var wg sync.WaitGroup
	chunks := (iterations + chunkSize - 1) / chunkSize
	for c := 0; c < chunks; c++ {
		lo := c * chunkSize
		hi := min(lo+chunkSize, iterations)
		wg.Add(1)
		go func(c int, dst []float64) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			rng := rand.New(rand.NewSource(seed + int64(c)))
			for i := range dst {
				dst[i] = simulateOnce(rng, events)
			}
		}(c, values[lo:hi])
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return out, err
	}
	metrics.AddMonteCarloIterations(iterations)

	sort.Float64s(values)
	out.Mean, out.StdDev = stat.MeanStdDev(values, nil)
	if iterations == 1 {
		out.StdDev = 0
	}
	out.P5 = stat.Quantile(0.05, stat.LinInterp, values, nil)
	out.P95 = stat.Quantile(0.95, stat.LinInterp, values, nil)

	profitable := 0
	for _, v := range values {
		if v > 0 {
			profitable++
		}
	}
	out.ProbabilityOfProfit = float64(profitable) / float64(iterations)
	return out, nil
}

func simulateOnce(rng *rand.Rand, events []model.ShutdownEvent) float64 {
	var total float64
	for _, ev := range events {
		price := ev.AveragePrice * uniform(rng, priceLow, priceHigh)
		base := ev.BaselinePrice * uniform(rng, baselineLow, baselineHigh)
		eff := uniform(rng, efficiencyLow, efficiencyHigh)
		total += (price-base)*float64(ev.DurationHours)*eff - ev.OperationalCost
	}
	return total
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

package analysis

import (
	"fmt"
	"math"

	"uptime-optimizer/internal/model"
)

const (
	bucketWidth = 10.0
	bucketCap   = 150.0
)

// PriceDistribution buckets prices into "$0" (<= 0), "$1-10" ... "$141-150"
// in $10 steps, and "$151+". Empty buckets are included so the shape is
// stable across runs.
func PriceDistribution(points []model.PricePoint) []model.PriceBucket {
	n := int(bucketCap / bucketWidth)
	buckets := make([]model.PriceBucket, 0, n+2)
	buckets = append(buckets, model.PriceBucket{Label: "$0", Min: math.Inf(-1), Max: 0})
	for i := 0; i < n; i++ {
		lo := float64(i) * bucketWidth
		buckets = append(buckets, model.PriceBucket{
			Label: fmt.Sprintf("$%d-%d", int(lo)+1, int(lo+bucketWidth)),
			Min:   lo,
			Max:   lo + bucketWidth,
		})
	}
	buckets = append(buckets, model.PriceBucket{Label: fmt.Sprintf("$%d+", int(bucketCap)+1), Min: bucketCap, Max: math.Inf(1)})

	for _, p := range points {
		if !p.HasPrice() {
			continue
		}
		buckets[bucketIndex(p.Price, n)].Count++
	}

	// JSON cannot carry infinities; the open ends are reported as 0.
	buckets[0].Min = 0
	buckets[len(buckets)-1].Max = 0
	return buckets
}

func bucketIndex(price float64, n int) int {
	if price <= 0 {
		return 0
	}
	if price > bucketCap {
		return n + 1
	}
	return int(math.Ceil(price/bucketWidth)-1) + 1
}

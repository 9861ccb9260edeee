package risk

import "uptime-optimizer/internal/model"

// Price bands that scale the static transmission adder.
const (
	highPriceBand   = 150.0
	mediumPriceBand = 75.0
	lowPriceBand    = 25.0
)

// DynamicTransmission scales the static adder by the price level of the
// hours it applies to and rounds the result to cents:
// >150 x1.3, >75 x1.15, <25 x0.8, otherwise unchanged.
func DynamicTransmission(price, staticAdder float64) float64 {
	factor := 1.0
	switch {
	case price > highPriceBand:
		factor = 1.3
	case price > mediumPriceBand:
		factor = 1.15
	case price < lowPriceBand:
		factor = 0.8
	}
	return model.RoundCents(staticAdder * factor)
}

package data

import (
	"bytes"
	"encoding/csv"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uptime-optimizer/internal/model"
)

func TestWritePricesCSV(t *testing.T) {
	points := []model.PricePoint{
		model.NewPricePoint(day0, 0, 12.5),
		model.NewPricePoint(day0, 1, math.NaN()),
	}
	var buf bytes.Buffer
	require.NoError(t, WritePricesCSV(&buf, points))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"date", "hour", "datetime", "price"}, rows[0])
	assert.Equal(t, []string{"2024-07-01", "0", "2024-07-01T00:00:00Z", "12.5000"}, rows[1])
	assert.Equal(t, "", rows[2][3])
}

package data

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"uptime-optimizer/internal/model"
)

// WritePricesCSV writes an hourly series as date,hour,datetime,price.
// Missing prices are written as empty cells.
func WritePricesCSV(out io.Writer, points []model.PricePoint) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"date", "hour", "datetime", "price"}); err != nil {
		return err
	}
	for _, p := range points {
		price := ""
		if p.HasPrice() {
			price = strconv.FormatFloat(p.Price, 'f', 4, 64)
		}
		row := []string{
			p.Date.Format("2006-01-02"),
			strconv.Itoa(p.Hour),
			p.Datetime.Format(time.RFC3339),
			price,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

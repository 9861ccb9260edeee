package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uptime-optimizer/internal/model"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadPricePoints_Records(t *testing.T) {
	path := writeFile(t, `[
		{"date":"2024-07-01","hour":0,"price":12.5},
		{"date":"2024-07-01","hour":1,"price":null},
		{"date":"2024-07-01","hour":2,"price":0}
	]`)
	points, err := LoadPricePoints(path)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, 12.5, points[0].Price)
	assert.False(t, points[1].HasPrice(), "null price must not become zero")
	assert.True(t, points[2].HasPrice())
}

func TestLoadPricePoints_BadDate(t *testing.T) {
	path := writeFile(t, `[{"date":"07/01/2024","hour":0,"price":1}]`)
	_, err := LoadPricePoints(path)
	assert.ErrorContains(t, err, "record 0")
}

func TestFileSource_FiltersWindow(t *testing.T) {
	path := writeFile(t, `{"status_code":200,"data":[
		{"interval_start_local":"2024-07-01T00:00:00Z","lmp":10},
		{"interval_start_local":"2024-07-02T00:00:00Z","lmp":20}
	]}`)
	src := FileSource{Path: path}
	points, err := src.FetchHourly(context.Background(), model.Window{End: day0.AddDate(0, 0, 1)})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 10.0, points[0].Price)

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}.FetchHourly(context.Background(), model.Window{})
	var dep *model.ExternalDependencyError
	assert.ErrorAs(t, err, &dep)
}

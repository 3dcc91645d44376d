// Package attenuation provides a lookup table for one-way specific rain
// attenuation (dB/km) as a function of radar frequency and rain rate.
//
// The dataset is derived from the ITU-R P.838-3 power-law model for
// horizontal polarization and is embedded with the binary, the same way
// the database schema is. Queries outside the grid are clamped to the
// nearest edge; queries between grid lines are bilinearly interpolated.
package attenuation

import (
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

//go:embed data/rain_attenuation.csv
var datasetFS embed.FS

// ErrTableNotLoaded is returned when a lookup is attempted against a table
// that has not loaded its dataset.
var ErrTableNotLoaded = errors.New("attenuation: table not loaded")

// Table holds the (frequency GHz, rain rate mm/h) attenuation grid.
// The zero value is unusable; construct with Load or LoadDefault.
type Table struct {
	// frequencies are the grid rows, evenly spaced in GHz.
	frequencies []float64

	// rainRates are the grid columns, a fixed non-uniform mm/h scale.
	rainRates []float64

	// values[i][j] is the specific attenuation in dB/km at
	// frequencies[i] and rainRates[j].
	values [][]float64
}

// LoadDefault loads the embedded rain attenuation dataset.
func LoadDefault() (*Table, error) {
	data, err := datasetFS.ReadFile("data/rain_attenuation.csv")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded dataset: %w", err)
	}
	return Parse(string(data))
}

// Parse builds a Table from CSV text. The first row lists the rain-rate
// columns; each following row starts with its frequency in GHz.
func Parse(csv string) (*Table, error) {
	t := &Table{}

	for lineNo, line := range strings.Split(csv, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		if t.rainRates == nil {
			// Header row: "freq,<rate>,<rate>,..."
			for _, f := range fields[1:] {
				r, err := strconv.ParseFloat(f, 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: bad rain rate %q: %w", lineNo+1, f, err)
				}
				t.rainRates = append(t.rainRates, r)
			}
			continue
		}

		if len(fields) != len(t.rainRates)+1 {
			return nil, fmt.Errorf("line %d: expected %d columns, got %d", lineNo+1, len(t.rainRates)+1, len(fields))
		}

		freq, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad frequency %q: %w", lineNo+1, fields[0], err)
		}
		t.frequencies = append(t.frequencies, freq)

		row := make([]float64, 0, len(t.rainRates))
		for _, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad value %q: %w", lineNo+1, f, err)
			}
			row = append(row, v)
		}
		t.values = append(t.values, row)
	}

	if len(t.frequencies) < 2 || len(t.rainRates) < 2 {
		return nil, fmt.Errorf("dataset too small: %d frequencies, %d rain rates", len(t.frequencies), len(t.rainRates))
	}

	return t, nil
}

// Lookup returns the one-way specific attenuation in dB/km for the given
// frequency (GHz) and rain rate (mm/h).
//
// Both coordinates are clamped to the dataset range. Between grid lines
// the value is bilinearly interpolated; a query exactly on a grid line
// degenerates to a direct lookup along that axis.
func (t *Table) Lookup(frequencyGHz, rainRateMmPerHr float64) (float64, error) {
	if t == nil || len(t.values) == 0 {
		return 0, ErrTableNotLoaded
	}

	fi, ff := bracket(t.frequencies, frequencyGHz)
	ri, rf := bracket(t.rainRates, rainRateMmPerHr)

	v00 := t.values[fi][ri]
	v01 := t.values[fi][ri+1]
	v10 := t.values[fi+1][ri]
	v11 := t.values[fi+1][ri+1]

	low := v00 + (v01-v00)*rf
	high := v10 + (v11-v10)*rf
	return low + (high-low)*ff, nil
}

// bracket finds the index i and fraction f such that
// axis[i] + f·(axis[i+1]-axis[i]) == v, clamping v to the axis range.
// i is always a valid left index (i+1 in range).
func bracket(axis []float64, v float64) (int, float64) {
	if v <= axis[0] {
		return 0, 0
	}
	last := len(axis) - 1
	if v >= axis[last] {
		return last - 1, 1
	}

	for i := 0; i < last; i++ {
		if v < axis[i+1] {
			return i, (v - axis[i]) / (axis[i+1] - axis[i])
		}
	}
	return last - 1, 1
}

// FrequencyRange returns the dataset's frequency bounds in GHz.
// An unloaded table reports (0, 0).
func (t *Table) FrequencyRange() (min, max float64) {
	if t == nil || len(t.frequencies) == 0 {
		return 0, 0
	}
	return t.frequencies[0], t.frequencies[len(t.frequencies)-1]
}

// RainRateRange returns the dataset's rain-rate bounds in mm/h.
// An unloaded table reports (0, 0).
func (t *Table) RainRateRange() (min, max float64) {
	if t == nil || len(t.rainRates) == 0 {
		return 0, 0
	}
	return t.rainRates[0], t.rainRates[len(t.rainRates)-1]
}

package attenuation

import (
	"errors"
	"math"
	"testing"
)

func loadTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() failed: %v", err)
	}
	return tbl
}

// TestLookupNotLoaded tests the fail-fast behavior of an unloaded table.
func TestLookupNotLoaded(t *testing.T) {
	var tbl *Table
	if _, err := tbl.Lookup(10, 25); !errors.Is(err, ErrTableNotLoaded) {
		t.Errorf("nil table lookup error = %v, want ErrTableNotLoaded", err)
	}

	empty := &Table{}
	if _, err := empty.Lookup(10, 25); !errors.Is(err, ErrTableNotLoaded) {
		t.Errorf("empty table lookup error = %v, want ErrTableNotLoaded", err)
	}
}

// TestRangeAccessorsNotLoaded tests that the bounds accessors tolerate a
// nil or zero-value table instead of panicking.
func TestRangeAccessorsNotLoaded(t *testing.T) {
	var nilTable *Table
	for _, tbl := range []*Table{nilTable, {}} {
		if lo, hi := tbl.FrequencyRange(); lo != 0 || hi != 0 {
			t.Errorf("unloaded FrequencyRange = (%v, %v), want (0, 0)", lo, hi)
		}
		if lo, hi := tbl.RainRateRange(); lo != 0 || hi != 0 {
			t.Errorf("unloaded RainRateRange = (%v, %v), want (0, 0)", lo, hi)
		}
	}
}

// TestRangeAccessors tests the bounds of the embedded dataset.
func TestRangeAccessors(t *testing.T) {
	tbl := loadTable(t)

	fLo, fHi := tbl.FrequencyRange()
	if fLo <= 0 || fHi <= fLo {
		t.Errorf("FrequencyRange = (%v, %v), want increasing positive bounds", fLo, fHi)
	}
	rLo, rHi := tbl.RainRateRange()
	if rLo <= 0 || rHi <= rLo {
		t.Errorf("RainRateRange = (%v, %v), want increasing positive bounds", rLo, rHi)
	}
}

// TestLookupGridNodes tests that sampling exactly on a grid node returns
// the stored value.
func TestLookupGridNodes(t *testing.T) {
	tbl := loadTable(t)

	tests := []struct {
		freq float64
		rate float64
	}{
		{2, 0.25},
		{10, 25},
		{20, 200},
		{12, 50},
	}

	for _, tt := range tests {
		fi := indexOf(tbl.frequencies, tt.freq)
		ri := indexOf(tbl.rainRates, tt.rate)
		if fi < 0 || ri < 0 {
			t.Fatalf("test coordinates (%v, %v) not on the grid", tt.freq, tt.rate)
		}
		want := tbl.values[fi][ri]

		got, err := tbl.Lookup(tt.freq, tt.rate)
		if err != nil {
			t.Fatalf("Lookup(%v, %v) failed: %v", tt.freq, tt.rate, err)
		}
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("Lookup(%v, %v) = %v, want stored %v", tt.freq, tt.rate, got, want)
		}
	}
}

// TestLookupMidpoints tests that the midpoint of two adjacent nodes
// returns their arithmetic mean (bilinear continuity).
func TestLookupMidpoints(t *testing.T) {
	tbl := loadTable(t)

	// Frequency midpoint at a fixed rain-rate column.
	got, err := tbl.Lookup(11, 25)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	fi := indexOf(tbl.frequencies, 10)
	ri := indexOf(tbl.rainRates, 25)
	want := (tbl.values[fi][ri] + tbl.values[fi+1][ri]) / 2
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("frequency midpoint = %v, want mean %v", got, want)
	}

	// Rain-rate midpoint at a fixed frequency row.
	got, err = tbl.Lookup(10, 37.5)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	want = (tbl.values[fi][ri] + tbl.values[fi][ri+1]) / 2
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("rain-rate midpoint = %v, want mean %v", got, want)
	}
}

// TestLookupClamping tests edge clamping outside the dataset range.
func TestLookupClamping(t *testing.T) {
	tbl := loadTable(t)

	low, err := tbl.Lookup(0.5, 0.01)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if math.Abs(low-tbl.values[0][0]) > 1e-12 {
		t.Errorf("below-range lookup = %v, want corner %v", low, tbl.values[0][0])
	}

	high, err := tbl.Lookup(100, 500)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	last := tbl.values[len(tbl.values)-1]
	if math.Abs(high-last[len(last)-1]) > 1e-12 {
		t.Errorf("above-range lookup = %v, want corner %v", high, last[len(last)-1])
	}
}

// TestMonotonicInRainRate tests that attenuation increases with rain rate
// at every frequency row of the embedded dataset.
func TestMonotonicInRainRate(t *testing.T) {
	tbl := loadTable(t)

	for i, freq := range tbl.frequencies {
		for j := 1; j < len(tbl.rainRates); j++ {
			if tbl.values[i][j] < tbl.values[i][j-1] {
				t.Errorf("attenuation at %v GHz not monotonic: %v mm/h -> %v dB/km after %v dB/km",
					freq, tbl.rainRates[j], tbl.values[i][j], tbl.values[i][j-1])
			}
		}
	}
}

func indexOf(axis []float64, v float64) int {
	for i, a := range axis {
		if a == v {
			return i
		}
	}
	return -1
}

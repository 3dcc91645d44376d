package radar

import (
	"math"
	"testing"

	"github.com/skyshield-sim/skyshield/pkg/attenuation"
	"github.com/skyshield-sim/skyshield/pkg/geometry"
	"github.com/skyshield-sim/skyshield/pkg/precip"
)

// TestDBConversions tests round-tripping between dB and linear ratios.
func TestDBConversions(t *testing.T) {
	tests := []struct {
		db     float64
		linear float64
	}{
		{0, 1},
		{10, 10},
		{20, 100},
		{3, 1.9953},
		{-10, 0.1},
	}

	for _, tt := range tests {
		if got := DBToLinear(tt.db); math.Abs(got-tt.linear) > 1e-3 {
			t.Errorf("DBToLinear(%v) = %v, want %v", tt.db, got, tt.linear)
		}
		if got := LinearToDB(tt.linear); math.Abs(got-tt.db) > 1e-3 {
			t.Errorf("LinearToDB(%v) = %v, want %v", tt.linear, got, tt.db)
		}
	}
}

// TestMinRequiredSNRSinglePulse tests the Albersheim approximation at the
// classic pd=0.9, pfa=1e-6 operating point, which lands near 20.6 dB.
func TestMinRequiredSNRSinglePulse(t *testing.T) {
	snr, err := MinRequiredSNR(0.9, 1e-6, Swerling0, 1)
	if err != nil {
		t.Fatalf("MinRequiredSNR failed: %v", err)
	}

	a := math.Log(0.62 / 1e-6)
	b := math.Log(0.9 / 0.1)
	want := a + 0.12*a*b + 1.7*b
	if math.Abs(snr-want) > 1e-12 {
		t.Errorf("MinRequiredSNR = %v, want %v", snr, want)
	}
	if snr < 20 || snr > 21.5 {
		t.Errorf("MinRequiredSNR = %v dB, expected near 20.6 dB", snr)
	}
}

// TestMinRequiredSNRIntegration tests that integrating more pulses lowers
// the requirement, with the reduction ordered by the Swerling exponent.
func TestMinRequiredSNRIntegration(t *testing.T) {
	single, err := MinRequiredSNR(0.9, 1e-6, Swerling0, 1)
	if err != nil {
		t.Fatalf("MinRequiredSNR failed: %v", err)
	}

	models := []struct {
		model Fluctuation
		k     float64
	}{
		{Swerling0, 1.0},
		{SwerlingI, 0.5},
		{SwerlingII, 0.7},
		{SwerlingIII, 0.55},
		{SwerlingIV, 0.75},
	}

	const n = 16
	for _, m := range models {
		got, err := MinRequiredSNR(0.9, 1e-6, m.model, n)
		if err != nil {
			t.Fatalf("MinRequiredSNR(%v) failed: %v", m.model, err)
		}
		want := single - 10*math.Log10(math.Pow(n, m.k))
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("%v with %d pulses = %v dB, want %v dB", m.model, n, got, want)
		}
		if got >= single {
			t.Errorf("%v integration gain did not lower the requirement (%v >= %v)", m.model, got, single)
		}
	}
}

// TestMinRequiredSNRValidation tests rejection of out-of-range probabilities.
func TestMinRequiredSNRValidation(t *testing.T) {
	bad := []struct {
		pd, pfa float64
	}{
		{0, 1e-6},
		{1, 1e-6},
		{0.9, 0},
		{0.9, 1},
		{-0.5, 1e-6},
	}
	for _, tt := range bad {
		if _, err := MinRequiredSNR(tt.pd, tt.pfa, Swerling0, 1); err == nil {
			t.Errorf("MinRequiredSNR(pd=%v, pfa=%v) accepted invalid input", tt.pd, tt.pfa)
		}
	}
}

// TestPulseIntegrationGain tests both integration modes.
func TestPulseIntegrationGain(t *testing.T) {
	tests := []struct {
		n    int
		mode IntegrationMode
		want float64
	}{
		{1, Coherent, 0},
		{1, NonCoherent, 0},
		{100, Coherent, 10},      // 10*log10(sqrt(100))
		{10, NonCoherent, 7},     // 10*log10(10^0.7)
		{16, Coherent, 6.0206},   // 10*log10(4)
		{16, NonCoherent, 8.4288}, // 10*log10(16^0.7)
	}

	for _, tt := range tests {
		if got := PulseIntegrationGain(tt.n, tt.mode); math.Abs(got-tt.want) > 1e-3 {
			t.Errorf("PulseIntegrationGain(%d, %v) = %v, want %v", tt.n, tt.mode, got, tt.want)
		}
	}

	// Clamped below one pulse.
	if got := PulseIntegrationGain(0, NonCoherent); got != 0 {
		t.Errorf("PulseIntegrationGain(0) = %v, want 0", got)
	}
}

// TestFreeSpaceDetectionRange tests RCS fourth-root scaling against the
// calibrated 1 m^2 baseline.
func TestFreeSpaceDetectionRange(t *testing.T) {
	m := &Model{BaseRangeKm: 100, Mode: NonCoherent}

	// Reference target, single pulse: exactly the baseline.
	if got := m.FreeSpaceDetectionRange(1, 1); math.Abs(got-100) > 1e-9 {
		t.Errorf("reference range = %v, want 100", got)
	}

	// 16x the RCS doubles the range.
	if got := m.FreeSpaceDetectionRange(16, 1); math.Abs(got-200) > 1e-9 {
		t.Errorf("16 m^2 range = %v, want 200", got)
	}

	// Monotonic in RCS and pulse count.
	prev := 0.0
	for _, rcs := range []float64{0.01, 0.1, 1, 5, 25, 100} {
		r := m.FreeSpaceDetectionRange(rcs, 1)
		if r <= prev {
			t.Errorf("range not monotonic in RCS: %v m^2 -> %v km after %v km", rcs, r, prev)
		}
		prev = r
	}
	prev = 0.0
	for _, n := range []int{1, 2, 4, 8, 16} {
		r := m.FreeSpaceDetectionRange(1, n)
		if r <= prev {
			t.Errorf("range not monotonic in pulse count: %d pulses -> %v km after %v km", n, r, prev)
		}
		prev = r
	}

	// Degenerate inputs collapse to zero instead of NaN.
	if got := m.FreeSpaceDetectionRange(0, 1); got != 0 {
		t.Errorf("zero RCS range = %v, want 0", got)
	}
	if got := m.FreeSpaceDetectionRange(-3, 1); got != 0 {
		t.Errorf("negative RCS range = %v, want 0", got)
	}
}

func testModel(t *testing.T) *Model {
	t.Helper()
	tbl, err := attenuation.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}
	return &Model{
		FrequencyGHz: 10,
		BaseRangeKm:  100,
		Mode:         NonCoherent,
		Table:        tbl,
	}
}

func uniformField(t *testing.T, rate float64) *precip.Field {
	t.Helper()
	cells := make([][]float64, 401)
	for y := range cells {
		cells[y] = make([]float64, 401)
		for x := range cells[y] {
			cells[y][x] = rate
		}
	}
	f, err := precip.NewField(cells, -200, -200, 1.0, 200)
	if err != nil {
		t.Fatalf("NewField failed: %v", err)
	}
	return f
}

// TestDetectionRangeNoField tests the no-field fast path.
func TestDetectionRangeNoField(t *testing.T) {
	m := testModel(t)
	free := m.FreeSpaceDetectionRange(1, 1)
	got, degraded := m.DetectionRangeWithAttenuation(1, geometry.Point{}, 45, nil, 1)
	if got != free {
		t.Errorf("range without field = %v, want free-space %v", got, free)
	}
	if degraded {
		t.Error("degraded reported without a field")
	}
}

// TestDetectionRangeClearAir tests marching through a dry field.
func TestDetectionRangeClearAir(t *testing.T) {
	m := testModel(t)
	free := m.FreeSpaceDetectionRange(1, 1)
	field := uniformField(t, 0)

	got, degraded := m.DetectionRangeWithAttenuation(1, geometry.Point{}, 0, field, 1)
	if degraded {
		t.Error("degraded reported in clear air")
	}
	// The march quantizes to cell-sized steps but must land within one
	// step of the free-space range.
	if got > free || got < free-field.CellSizeKm() {
		t.Errorf("clear-air range = %v, want within one cell of %v", got, free)
	}
}

// TestDetectionRangeHeavyRain tests that rain shortens the range and that
// harder rain shortens it more.
func TestDetectionRangeHeavyRain(t *testing.T) {
	m := testModel(t)
	free := m.FreeSpaceDetectionRange(1, 1)
	origin := geometry.Point{}

	light, degraded := m.DetectionRangeWithAttenuation(1, origin, 90, uniformField(t, 5), 1)
	if !degraded {
		t.Error("degraded not reported in rain")
	}
	if light >= free {
		t.Errorf("range in 5 mm/h rain = %v, want < free-space %v", light, free)
	}

	heavy, _ := m.DetectionRangeWithAttenuation(1, origin, 90, uniformField(t, 50), 1)
	if heavy >= light {
		t.Errorf("range in 50 mm/h rain = %v, want < %v (5 mm/h)", heavy, light)
	}
	if heavy <= 0 {
		t.Errorf("range in 50 mm/h rain = %v, want > 0", heavy)
	}
}

// TestDetectionRangeNilTable tests the degrade-gracefully fallback when
// the attenuation table is missing. The range falls back to free space,
// and the degraded flag distinguishes that fallback from clear air: rain
// was sampled but could not be converted to path loss.
func TestDetectionRangeNilTable(t *testing.T) {
	m := testModel(t)
	m.Table = nil
	free := m.FreeSpaceDetectionRange(1, 1)

	got, degraded := m.DetectionRangeWithAttenuation(1, geometry.Point{}, 180, uniformField(t, 25), 1)
	if got != free {
		t.Errorf("range with nil table = %v, want free-space fallback %v", got, free)
	}
	if !degraded {
		t.Error("degraded not reported when rain was sampled without an attenuation table")
	}

	// A dry field with a nil table never needs the table, so the result
	// is a genuine clear-air range.
	got, degraded = m.DetectionRangeWithAttenuation(1, geometry.Point{}, 180, uniformField(t, 0), 1)
	if got <= 0 || degraded {
		t.Errorf("dry field with nil table = (%v, %v), want clear-air range with degraded=false", got, degraded)
	}
}

// TestDetectionRangeCoarseField tests a field whose cells are larger than
// the entire march; the range collapses to free space instead of zero.
func TestDetectionRangeCoarseField(t *testing.T) {
	m := testModel(t)
	m.BaseRangeKm = 10

	cells := [][]float64{
		{30, 30, 30},
		{30, 30, 30},
		{30, 30, 30},
	}
	// 20 km cells: one step overshoots the 15 km march cap.
	field, err := precip.NewField(cells, -20, -20, 0.05, 200)
	if err != nil {
		t.Fatalf("NewField failed: %v", err)
	}

	free := m.FreeSpaceDetectionRange(1, 1)
	got, degraded := m.DetectionRangeWithAttenuation(1, geometry.Point{}, 0, field, 1)
	if got != free {
		t.Errorf("range with coarse field = %v, want free-space %v", got, free)
	}
	if degraded {
		t.Error("degraded reported when no field cell was sampled")
	}
}

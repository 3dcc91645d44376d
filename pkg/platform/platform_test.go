package platform

import (
	"math"
	"testing"

	"github.com/skyshield-sim/skyshield/pkg/attenuation"
	"github.com/skyshield-sim/skyshield/pkg/geometry"
	"github.com/skyshield-sim/skyshield/pkg/precip"
)

var testProfile = RCSProfile{
	NoseM2:   1.5,
	TailM2:   4.0,
	SideM2:   25.0,
	TopM2:    30.0,
	BottomM2: 30.0,
}

// TestRCSAtAspect tests the nose/tail/side sector bucketing.
func TestRCSAtAspect(t *testing.T) {
	tests := []struct {
		name   string
		aspect float64
		want   float64
	}{
		{"Nose on", 0, testProfile.NoseM2},
		{"Nose sector edge", 30, testProfile.NoseM2},
		{"Nose sector negative", -25, testProfile.NoseM2},
		{"Just past nose", 31, testProfile.SideM2},
		{"Beam", 90, testProfile.SideM2},
		{"Far beam", 270, testProfile.SideM2},
		{"Just before tail", 149, testProfile.SideM2},
		{"Tail sector edge", 150, testProfile.TailM2},
		{"Tail on", 180, testProfile.TailM2},
		{"Tail sector far side", 210, testProfile.TailM2},
		{"Wrapped nose", 360, testProfile.NoseM2},
		{"Wrapped past full turn", 725, testProfile.NoseM2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testProfile.AtAspect(tt.aspect); got != tt.want {
				t.Errorf("AtAspect(%v) = %v, want %v", tt.aspect, got, tt.want)
			}
		})
	}
}

// TestRCSValidate tests rejection of non-physical profiles.
func TestRCSValidate(t *testing.T) {
	if err := testProfile.Validate(); err != nil {
		t.Errorf("valid profile rejected: %v", err)
	}

	bad := testProfile
	bad.SideM2 = 0
	if err := bad.Validate(); err == nil {
		t.Error("zero side RCS accepted")
	}
	bad = testProfile
	bad.NoseM2 = math.NaN()
	if err := bad.Validate(); err == nil {
		t.Error("NaN nose RCS accepted")
	}
}

func testSiteSpec() RadarSiteSpec {
	return RadarSiteSpec{
		Name:                  "test-site",
		FrequencyGHz:          10,
		AntennaGainDB:         35,
		TransmitPowerW:        250e3,
		NoiseFloorDB:          -110,
		DetectionProbability:  0.9,
		FalseAlarmProbability: 1e-6,
		NumPulses:             1,
		BaseRangeKm:           100,
		MaxEffectiveRangeKm:   80,
		AcquisitionTimeS:      3,
		LaunchIntervalS:       10,
		Interceptors:          4,
		InterceptorSpeedKmS:   1.0,
		InterceptorMaxRangeKm: 60,
		KillRadiusKm:          0.5,
	}
}

func newTestSite(t *testing.T) *RadarSite {
	t.Helper()
	tbl, err := attenuation.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}
	site, err := NewRadarSite(testSiteSpec(), geometry.Point{}, tbl)
	if err != nil {
		t.Fatalf("NewRadarSite failed: %v", err)
	}
	return site
}

// TestSiteSpecDefaults tests wavelength derivation and azimuth defaulting.
func TestSiteSpecDefaults(t *testing.T) {
	spec := testSiteSpec()

	// 10 GHz is a 3 cm wavelength.
	if wl := spec.WavelengthM(); math.Abs(wl-0.03) > 1e-3 {
		t.Errorf("WavelengthM() = %v, want ~0.03", wl)
	}

	if n := spec.numAzimuths(); n != DefaultNumAzimuths {
		t.Errorf("numAzimuths() = %d, want default %d", n, DefaultNumAzimuths)
	}
	spec.NumAzimuths = 360
	if n := spec.numAzimuths(); n != 360 {
		t.Errorf("numAzimuths() = %d, want 360", n)
	}

	snr, err := spec.MinRequiredSNRDB()
	if err != nil {
		t.Fatalf("MinRequiredSNRDB failed: %v", err)
	}
	if snr < 20 || snr > 21.5 {
		t.Errorf("MinRequiredSNRDB() = %v, expected near 20.6", snr)
	}
}

// TestRangeAtAzimuthQuantization tests bucket rounding and wrap-around.
func TestRangeAtAzimuthQuantization(t *testing.T) {
	site := newTestSite(t)
	n := float64(len(site.refRanges))

	bucketWidth := 360 / n

	// Azimuths within half a bucket of a bucket center resolve the same.
	a := site.RangeAtAzimuth(45, 1)
	b := site.RangeAtAzimuth(45+0.4*bucketWidth, 1)
	if a != b {
		t.Errorf("sub-bucket azimuths resolved differently: %v vs %v", a, b)
	}

	// The last bucket wraps to bucket zero.
	if got, want := site.RangeAtAzimuth(359.9, 1), site.RangeAtAzimuth(0, 1); got != want {
		t.Errorf("wrap-around bucket = %v, want %v", got, want)
	}

	// Negative azimuth maps into range.
	if got, want := site.RangeAtAzimuth(-90, 1), site.RangeAtAzimuth(270, 1); got != want {
		t.Errorf("negative azimuth = %v, want %v", got, want)
	}
}

// TestRangeAtAzimuthRCSScaling tests the fourth-root RCS scaling of
// cached reference ranges.
func TestRangeAtAzimuthRCSScaling(t *testing.T) {
	site := newTestSite(t)

	ref := site.RangeAtAzimuth(0, 1)
	if ref <= 0 {
		t.Fatalf("reference range = %v, want > 0", ref)
	}
	if got := site.RangeAtAzimuth(0, 16); math.Abs(got-2*ref) > 1e-9 {
		t.Errorf("16 m^2 range = %v, want doubled %v", got, 2*ref)
	}
	if got := site.RangeAtAzimuth(0, 0); got != 0 {
		t.Errorf("zero RCS range = %v, want 0", got)
	}
}

// TestLoadFieldDegradesRanges tests that loading a rain field shortens
// cached ranges and that reloading nil restores clear air.
func TestLoadFieldDegradesRanges(t *testing.T) {
	site := newTestSite(t)
	clear := site.RangeAtAzimuth(0, 1)
	if site.Degraded() {
		t.Error("Degraded() true in clear air")
	}

	cells := make([][]float64, 301)
	for y := range cells {
		cells[y] = make([]float64, 301)
		for x := range cells[y] {
			cells[y][x] = 40
		}
	}
	field, err := precip.NewField(cells, -150, -150, 1.0, 200)
	if err != nil {
		t.Fatalf("NewField failed: %v", err)
	}

	site.LoadField(field)
	wet := site.RangeAtAzimuth(0, 1)
	if wet >= clear {
		t.Errorf("range under 40 mm/h rain = %v, want < clear-air %v", wet, clear)
	}
	if !site.Degraded() {
		t.Error("Degraded() false under uniform rain")
	}

	site.LoadField(nil)
	if got := site.RangeAtAzimuth(0, 1); got != clear {
		t.Errorf("range after field unload = %v, want clear-air %v", got, clear)
	}
}

// TestSiteSpecValidation tests fatal configuration errors.
func TestSiteSpecValidation(t *testing.T) {
	mutations := []struct {
		name string
		mut  func(*RadarSiteSpec)
	}{
		{"zero frequency", func(s *RadarSiteSpec) { s.FrequencyGHz = 0 }},
		{"zero base range", func(s *RadarSiteSpec) { s.BaseRangeKm = 0 }},
		{"pd at one", func(s *RadarSiteSpec) { s.DetectionProbability = 1 }},
		{"pfa at zero", func(s *RadarSiteSpec) { s.FalseAlarmProbability = 0 }},
		{"zero effective range", func(s *RadarSiteSpec) { s.MaxEffectiveRangeKm = 0 }},
		{"negative interceptors", func(s *RadarSiteSpec) { s.Interceptors = -1 }},
	}
	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			spec := testSiteSpec()
			tt.mut(&spec)
			if err := spec.Validate(); err == nil {
				t.Errorf("%s accepted", tt.name)
			}
		})
	}
}

// TestShouldLaunchAirToGround tests the hold-fire launch geometry.
func TestShouldLaunchAirToGround(t *testing.T) {
	f := FighterSpec{
		Name:          "strike-1",
		RCS:           testProfile,
		SpeedMach:     0.9,
		WeaponRangeKm: 20,
		Weapons:       2,
	}
	if err := f.Validate(); err != nil {
		t.Fatalf("valid fighter rejected: %v", err)
	}

	tests := []struct {
		name     string
		distance float64
		maxRange float64
		tracking bool
		want     bool
	}{
		{"Committed inside envelope", 50, 80, true, true},
		{"Not tracked", 50, 80, false, false},
		{"Outside site envelope", 100, 80, true, false},
		{"Closer than own weapon range", 15, 80, true, false},
		{"At exact weapon range", 20, 80, true, false},
		{"Just past weapon range", 20.1, 80, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.ShouldLaunchAirToGround(tt.distance, tt.maxRange, tt.tracking)
			if got != tt.want {
				t.Errorf("ShouldLaunchAirToGround(%v, %v, %v) = %v, want %v",
					tt.distance, tt.maxRange, tt.tracking, got, tt.want)
			}
		})
	}
}

// TestFighterSpecValidation tests fatal fighter configuration errors.
func TestFighterSpecValidation(t *testing.T) {
	f := FighterSpec{Name: "bad", RCS: testProfile, SpeedMach: 0, Weapons: 0}
	if err := f.Validate(); err == nil {
		t.Error("zero speed accepted")
	}

	f = FighterSpec{Name: "bad", RCS: testProfile, SpeedMach: 1, Weapons: 2, WeaponRangeKm: 0}
	if err := f.Validate(); err == nil {
		t.Error("armed fighter with zero weapon range accepted")
	}

	f = FighterSpec{Name: "ok", RCS: testProfile, SpeedMach: 1, Weapons: 0}
	if err := f.Validate(); err != nil {
		t.Errorf("unarmed fighter rejected: %v", err)
	}
	if got := f.SpeedKmS(); math.Abs(got-machKmS) > 1e-12 {
		t.Errorf("SpeedKmS() = %v, want %v", got, machKmS)
	}
}

package engagement

import (
	"math"
	"reflect"
	"testing"

	"github.com/skyshield-sim/skyshield/pkg/geometry"
	"github.com/skyshield-sim/skyshield/pkg/platform"
	"github.com/skyshield-sim/skyshield/pkg/radar"
)

func uniformRCS(m2 float64) platform.RCSProfile {
	return platform.RCSProfile{NoseM2: m2, TailM2: m2, SideM2: m2, TopM2: m2, BottomM2: m2}
}

func baseSiteSpec() platform.RadarSiteSpec {
	return platform.RadarSiteSpec{
		Name:                  "sam-1",
		FrequencyGHz:          10,
		AntennaGainDB:         35,
		TransmitPowerW:        250e3,
		NoiseFloorDB:          -110,
		DetectionProbability:  0.9,
		FalseAlarmProbability: 1e-6,
		Fluctuation:           radar.SwerlingI,
		NumPulses:             1,
		BaseRangeKm:           100,
		MaxEffectiveRangeKm:   80,
		AcquisitionTimeS:      0,
		LaunchIntervalS:       10,
		Interceptors:          1,
		InterceptorSpeedKmS:   1.0,
		InterceptorMaxRangeKm: 60,
		KillRadiusKm:          1.0,
	}
}

// TestScenarioValidation tests fatal configuration errors.
func TestScenarioValidation(t *testing.T) {
	fighter := FighterPlacement{
		Spec: platform.FighterSpec{Name: "f-1", RCS: uniformRCS(5), SpeedMach: 0.9},
	}
	site := SitePlacement{Spec: baseSiteSpec()}

	if _, err := NewScenario(Config{TimeStepS: 0, Sites: []SitePlacement{site}, Fighters: []FighterPlacement{fighter}}); err == nil {
		t.Error("zero time step accepted")
	}
	if _, err := NewScenario(Config{TimeStepS: 1, Fighters: []FighterPlacement{fighter}}); err == nil {
		t.Error("scenario without sites accepted")
	}
	if _, err := NewScenario(Config{TimeStepS: 1, Sites: []SitePlacement{site}}); err == nil {
		t.Error("scenario without fighters accepted")
	}
}

// TestInterceptAtFiveKm tests the canonical intercept: a 1 km/s
// interceptor launched at a near-stationary target 5 km out must kill at
// about 5 seconds of simulated time.
func TestInterceptAtFiveKm(t *testing.T) {
	cfg := Config{
		TimeStepS: 1.0,
		Sites:     []SitePlacement{{Spec: baseSiteSpec()}},
		Fighters: []FighterPlacement{{
			Spec: platform.FighterSpec{
				Name:      "target",
				RCS:       uniformRCS(25),
				SpeedMach: 0.0001,
			},
			Position: geometry.Point{X: 0, Y: 5},
		}},
	}

	s, err := NewScenario(cfg)
	if err != nil {
		t.Fatalf("NewScenario failed: %v", err)
	}

	steps := 0
	for !s.Advance() {
		steps++
		if steps > 20 {
			t.Fatal("no intercept after 20 steps")
		}
	}

	res := s.Result()
	if len(res.Missiles) != 1 {
		t.Fatalf("launched %d missiles, want 1", len(res.Missiles))
	}
	rec := res.Missiles[0]
	if rec.Status != "kill" {
		t.Fatalf("missile status = %q, want kill", rec.Status)
	}
	if rec.ImpactTimeS == nil || math.Abs(*rec.ImpactTimeS-5.0) > 1.0 {
		t.Errorf("impact time = %v, want ~5.0 s", rec.ImpactTimeS)
	}

	snap := s.Snapshot()
	target := snap.Fighters[0]
	if !target.Destroyed {
		t.Error("target not destroyed after kill")
	}
	if rec.ImpactPos == nil {
		t.Fatal("kill record missing impact position")
	}
	if d := rec.ImpactPos.DistanceTo(target.Position); d > cfg.Sites[0].Spec.KillRadiusKm {
		t.Errorf("impact %v km from target, want within kill radius %v", d, cfg.Sites[0].Spec.KillRadiusKm)
	}

	if res.Success {
		t.Error("success reported with the site intact and the fighter destroyed")
	}
}

// TestTurnRateClamp tests that a 90 degree correction at 1000 m/s under
// the 30 g limit takes several bounded steps.
func TestTurnRateClamp(t *testing.T) {
	const dt = 1.0
	m := &Missile{SpeedKmS: 1.0, HeadingRad: 0}
	limit := m.maxTurnRad(dt)

	want := missileGLimit * gravityMS2 / 1000.0
	if math.Abs(limit-want) > 1e-12 {
		t.Fatalf("maxTurnRad = %v, want %v", limit, want)
	}

	desired := math.Pi / 2
	steps := 0
	for math.Abs(geometry.WrapToPi(desired-m.HeadingRad)) > 1e-9 {
		before := m.HeadingRad
		m.steer(desired, dt)
		change := math.Abs(geometry.WrapToPi(m.HeadingRad - before))
		if change > limit+1e-12 {
			t.Fatalf("step %d heading change %v exceeds limit %v", steps, change, limit)
		}
		steps++
		if steps > 20 {
			t.Fatal("missile never aligned")
		}
	}

	if steps < 2 {
		t.Errorf("aligned in %d steps, expected a multi-step turn", steps)
	}
}

// TestZeroWeaponsTermination tests that a disarmed engagement runs out
// the clock and ends unsuccessful with no launches.
func TestZeroWeaponsTermination(t *testing.T) {
	spec := baseSiteSpec()
	spec.Interceptors = 0

	cfg := Config{
		TimeStepS: 1.0,
		Sites:     []SitePlacement{{Spec: spec}},
		Fighters: []FighterPlacement{{
			Spec: platform.FighterSpec{
				Name:      "f-1",
				RCS:       uniformRCS(5),
				SpeedMach: 0.9,
			},
			Position:   geometry.Point{X: 0, Y: 40},
			HeadingRad: math.Pi / 2,
		}},
	}

	s, err := NewScenario(cfg)
	if err != nil {
		t.Fatalf("NewScenario failed: %v", err)
	}

	for i := 0; !s.Advance(); i++ {
		if i > 1000 {
			t.Fatal("engagement never terminated")
		}
	}

	res := s.Result()
	if res.ElapsedS < maxDurationS {
		t.Errorf("terminated at %v s, want the %v s cap", res.ElapsedS, maxDurationS)
	}
	if res.Success {
		t.Error("success reported with no weapons expended")
	}
	if len(res.Missiles) != 0 {
		t.Errorf("%d missiles launched from a disarmed scenario", len(res.Missiles))
	}
}

// TestTrackDropIsImmediate tests that one step outside detection range
// drops the track with no lag.
func TestTrackDropIsImmediate(t *testing.T) {
	spec := baseSiteSpec()
	spec.BaseRangeKm = 4 // detection range ~8.94 km against 25 m^2
	spec.Interceptors = 0

	cfg := Config{
		TimeStepS: 1.0,
		Sites:     []SitePlacement{{Spec: spec}},
		Fighters: []FighterPlacement{{
			Spec: platform.FighterSpec{
				Name:      "runner",
				RCS:       uniformRCS(25),
				SpeedMach: 3.0, // ~1.03 km/s, exits coverage in one step
			},
			Position:   geometry.Point{X: 0, Y: 8},
			HeadingRad: math.Pi / 2, // due north, straight away
		}},
	}

	s, err := NewScenario(cfg)
	if err != nil {
		t.Fatalf("NewScenario failed: %v", err)
	}

	s.Advance()
	if n := len(s.Snapshot().Sites[0].Tracks); n != 1 {
		t.Fatalf("tracks after step 1 = %d, want 1", n)
	}

	s.Advance()
	if n := len(s.Snapshot().Sites[0].Tracks); n != 0 {
		t.Fatalf("tracks after step 2 = %d, want 0 (immediate drop)", n)
	}
}

// TestFighterLaunchSharedAwareness tests the launch quirk: a fighter may
// fire on a site that is tracking any target, not necessarily itself.
func TestFighterLaunchSharedAwareness(t *testing.T) {
	spec := baseSiteSpec()
	spec.BaseRangeKm = 4 // detection range ~8.94 km against 25 m^2
	spec.Interceptors = 0

	decoy := FighterPlacement{
		Spec: platform.FighterSpec{
			Name:      "decoy",
			RCS:       uniformRCS(25),
			SpeedMach: 0.0001,
		},
		Position: geometry.Point{X: 0, Y: 8}, // inside detection range
	}
	shooter := FighterPlacement{
		Spec: platform.FighterSpec{
			Name:               "shooter",
			RCS:                uniformRCS(25),
			SpeedMach:          0.0001,
			Weapons:            1,
			WeaponRangeKm:      40,
			WeaponSpeedKmS:     1.0,
			WeaponKillRadiusKm: 0.5,
		},
		Position: geometry.Point{X: 0, Y: 30}, // untracked, in weapon range
	}

	s, err := NewScenario(Config{
		TimeStepS: 1.0,
		Sites:     []SitePlacement{{Spec: spec}},
		Fighters:  []FighterPlacement{decoy, shooter},
	})
	if err != nil {
		t.Fatalf("NewScenario failed: %v", err)
	}

	s.Advance()
	snap := s.Snapshot()
	if len(snap.Missiles) != 1 {
		t.Fatalf("missiles after step 1 = %d, want 1 (shared-awareness launch)", len(snap.Missiles))
	}
	if snap.Missiles[0].Side != "fighter" {
		t.Errorf("missile side = %q, want fighter", snap.Missiles[0].Side)
	}
	if snap.Fighters[1].WeaponsRemaining != 0 {
		t.Errorf("shooter weapons remaining = %d, want 0", snap.Fighters[1].WeaponsRemaining)
	}

	for i := 0; !s.Advance(); i++ {
		if i > 100 {
			t.Fatal("strike never resolved")
		}
	}

	res := s.Result()
	if !res.Success {
		t.Error("success not reported after the site was destroyed")
	}
	if !s.Snapshot().Sites[0].Destroyed {
		t.Error("site not destroyed by the strike")
	}
}

// TestDeterministicRuns tests that two scenarios built from the same
// config produce identical step-by-step snapshots.
func TestDeterministicRuns(t *testing.T) {
	build := func() *Scenario {
		spec := baseSiteSpec()
		spec.Interceptors = 2
		s, err := NewScenario(Config{
			TimeStepS: 0.5,
			Seed:      1234,
			Sites:     []SitePlacement{{Spec: spec}},
			Fighters: []FighterPlacement{{
				Spec: platform.FighterSpec{
					Name:      "f-1",
					RCS:       uniformRCS(10),
					SpeedMach: 1.5,
				},
				Position:   geometry.Point{X: 0, Y: 60},
				HeadingRad: -math.Pi / 2, // inbound
				Evasive:    true,
			}},
		})
		if err != nil {
			t.Fatalf("NewScenario failed: %v", err)
		}
		return s
	}

	a := build()
	b := build()

	for i := 0; i < 200; i++ {
		doneA := a.Advance()
		doneB := b.Advance()
		if doneA != doneB {
			t.Fatalf("step %d: completion diverged (%v vs %v)", i, doneA, doneB)
		}
		if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
			t.Fatalf("step %d: snapshots diverged", i)
		}
		if doneA {
			break
		}
	}
}

package engagement

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/skyshield-sim/skyshield/pkg/attenuation"
	"github.com/skyshield-sim/skyshield/pkg/geometry"
	"github.com/skyshield-sim/skyshield/pkg/platform"
	"github.com/skyshield-sim/skyshield/pkg/precip"
)

// SitePlacement positions one radar site for a run.
type SitePlacement struct {
	Spec     platform.RadarSiteSpec
	Position geometry.Point
}

// FighterPlacement positions one fighter for a run.
type FighterPlacement struct {
	Spec       platform.FighterSpec
	Position   geometry.Point
	HeadingRad float64
	Evasive    bool
}

// Config assembles everything a Scenario needs. Table and Field may be
// nil; detection then runs unattenuated.
type Config struct {
	TimeStepS float64
	Seed      int64

	Table *attenuation.Table
	Field *precip.Field

	Sites    []SitePlacement
	Fighters []FighterPlacement
}

// Scenario is the engagement coordinator: it exclusively owns all
// per-run entity state and mutates it in place, one step per Advance
// call. A Scenario must not be shared across concurrent runs.
type Scenario struct {
	timeStepS float64
	elapsedS  float64

	rng *rand.Rand

	sites    []*SiteState
	fighters []*FighterState
	missiles []*Missile

	launchedAny bool
	complete    bool
}

// NewScenario validates the configuration and builds the initial entity
// state, including each site's attenuation-sampled azimuth cache.
func NewScenario(cfg Config) (*Scenario, error) {
	if cfg.TimeStepS <= 0 {
		return nil, fmt.Errorf("engagement: time step %v s must be > 0", cfg.TimeStepS)
	}
	if len(cfg.Sites) == 0 {
		return nil, fmt.Errorf("engagement: scenario has no radar sites")
	}
	if len(cfg.Fighters) == 0 {
		return nil, fmt.Errorf("engagement: scenario has no fighters")
	}

	s := &Scenario{
		timeStepS: cfg.TimeStepS,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
	}

	for _, p := range cfg.Sites {
		site, err := platform.NewRadarSite(p.Spec, p.Position, cfg.Table)
		if err != nil {
			return nil, err
		}
		if cfg.Field != nil {
			site.LoadField(cfg.Field)
		}
		s.sites = append(s.sites, &SiteState{
			Site:      site,
			Remaining: p.Spec.Interceptors,
			Tracks:    make(map[int]*Track),
		})
	}

	for _, p := range cfg.Fighters {
		if err := p.Spec.Validate(); err != nil {
			return nil, err
		}
		s.fighters = append(s.fighters, &FighterState{
			Spec:             p.Spec,
			Position:         p.Position,
			HeadingRad:       p.HeadingRad,
			Evasive:          p.Evasive,
			WeaponsRemaining: p.Spec.Weapons,
		})
	}

	return s, nil
}

// ElapsedS returns the simulation clock in seconds.
func (s *Scenario) ElapsedS() float64 { return s.elapsedS }

// Complete reports whether the engagement has ended.
func (s *Scenario) Complete() bool { return s.complete }

// Advance runs one simulation step and reports whether the engagement is
// complete. Calling Advance on a completed scenario is a no-op.
func (s *Scenario) Advance() bool {
	if s.complete {
		return true
	}
	dt := s.timeStepS
	s.elapsedS += dt

	s.updateTracks(dt)
	s.siteLaunches()
	s.fighterLaunches()
	s.guideMissiles(dt)
	s.flyMissiles(dt)
	s.evade(dt)
	s.flyFighters(dt)
	s.evaluateKills()

	s.complete = s.checkComplete()
	return s.complete
}

// updateTracks recomputes every (site, fighter) detection pair and
// upserts or drops tracks accordingly.
func (s *Scenario) updateTracks(dt float64) {
	for _, site := range s.sites {
		if site.Destroyed {
			continue
		}
		for fi, f := range s.fighters {
			if f.Destroyed {
				delete(site.Tracks, fi)
				continue
			}

			dist := site.Site.Position.DistanceTo(f.Position)
			az := site.Site.Position.AzimuthTo(f.Position)

			// Aspect angle: bearing from the fighter's nose to the site.
			bearingAz := f.Position.AzimuthTo(site.Site.Position)
			aspect := bearingAz - geometry.HeadingToAzimuth(f.HeadingRad)
			rcs := f.Spec.RCS.AtAspect(aspect)

			if dist <= site.Site.RangeAtAzimuth(az, rcs) {
				tr, ok := site.Tracks[fi]
				if !ok {
					tr = &Track{AcquiredAtS: s.elapsedS}
					site.Tracks[fi] = tr
				}
				tr.TimeInTrackS += dt
				tr.LastDistanceKm = dist
				tr.LastAzimuthDeg = az
			} else {
				delete(site.Tracks, fi)
			}
		}
	}
}

// siteLaunches spawns interceptors against established tracks inside the
// engagement envelope, gated by acquisition time and launch interval.
func (s *Scenario) siteLaunches() {
	for si, site := range s.sites {
		if site.Destroyed {
			continue
		}
		// Fighter order, not map order, for reproducibility.
		for fi := range s.fighters {
			tr, ok := site.Tracks[fi]
			if !ok {
				continue
			}
			if tr.LastDistanceKm > site.Site.Spec.MaxEffectiveRangeKm {
				continue
			}
			if tr.TimeInTrackS < site.Site.Spec.AcquisitionTimeS {
				continue
			}
			if !site.canLaunchAt(s.elapsedS) {
				continue
			}

			s.spawnMissile(&Missile{
				Side:         SideSite,
				Position:     site.Site.Position,
				HeadingRad:   site.Site.Position.HeadingTo(s.fighters[fi].Position),
				SpeedKmS:     site.Site.Spec.InterceptorSpeedKmS,
				Target:       TargetRef{Kind: TargetFighter, Index: fi},
				Launcher:     si,
				MaxRangeKm:   site.Site.Spec.InterceptorMaxRangeKm,
				KillRadiusKm: site.Site.Spec.KillRadiusKm,
			})
			site.recordLaunch(s.elapsedS)
		}
	}
}

// fighterLaunches spawns air-to-ground missiles at sites inside weapon
// range. Launch requires only that the site is tracking something, not
// necessarily the launching fighter.
func (s *Scenario) fighterLaunches() {
	for fi, f := range s.fighters {
		if f.Destroyed || f.WeaponsRemaining <= 0 {
			continue
		}
		for si, site := range s.sites {
			if site.Destroyed || len(site.Tracks) == 0 {
				continue
			}
			if f.Position.DistanceTo(site.Site.Position) > f.Spec.WeaponRangeKm {
				continue
			}
			if f.WeaponsRemaining <= 0 {
				break
			}

			s.spawnMissile(&Missile{
				Side:         SideFighter,
				Position:     f.Position,
				HeadingRad:   f.Position.HeadingTo(site.Site.Position),
				SpeedKmS:     f.Spec.WeaponSpeedKmS,
				Target:       TargetRef{Kind: TargetSite, Index: si},
				Launcher:     fi,
				KillRadiusKm: f.Spec.WeaponKillRadiusKm,
			})
			f.WeaponsRemaining--
		}
	}
}

func (s *Scenario) spawnMissile(m *Missile) {
	m.ID = len(s.missiles) + 1
	m.Status = MissileActive
	m.LaunchTimeS = s.elapsedS
	m.prevPosition = m.Position
	s.missiles = append(s.missiles, m)
	s.launchedAny = true
}

// guideMissiles steers every active missile. A site-launched missile
// whose site has lost the track gets a bounded random heading
// perturbation instead of guidance; aircraft-launched missiles home on
// fixed site positions and never lose guidance.
func (s *Scenario) guideMissiles(dt float64) {
	for _, m := range s.missiles {
		if m.Status != MissileActive {
			continue
		}

		if m.Side == SideSite {
			site := s.sites[m.Launcher]
			_, tracked := site.Tracks[m.Target.Index]
			if site.Destroyed || !tracked {
				jitter := (s.rng.Float64()*2 - 1) * unguidedPerturbRad
				m.HeadingRad = geometry.WrapToPi(m.HeadingRad + jitter)
				continue
			}
		}

		m.steer(m.Position.HeadingTo(s.targetPos(m.Target)), dt)
	}
}

func (s *Scenario) flyMissiles(dt float64) {
	for _, m := range s.missiles {
		if m.Status == MissileActive {
			m.fly(dt)
		}
	}
}

// evade steers evasive fighters directly away from the nearest surviving
// site under the fighter g limit.
func (s *Scenario) evade(dt float64) {
	for _, f := range s.fighters {
		if f.Destroyed || !f.Evasive {
			continue
		}

		nearest := -1
		best := math.Inf(1)
		for si, site := range s.sites {
			if site.Destroyed {
				continue
			}
			if d := f.Position.DistanceTo(site.Site.Position); d < best {
				best = d
				nearest = si
			}
		}
		if nearest < 0 {
			continue
		}

		away := geometry.WrapToPi(f.Position.HeadingTo(s.sites[nearest].Site.Position) + math.Pi)
		delta := geometry.WrapToPi(away - f.HeadingRad)
		limit := f.maxTurnRad(dt)
		if delta > limit {
			delta = limit
		} else if delta < -limit {
			delta = -limit
		}
		f.HeadingRad = geometry.WrapToPi(f.HeadingRad + delta)
	}
}

func (s *Scenario) flyFighters(dt float64) {
	for _, f := range s.fighters {
		if f.Destroyed {
			continue
		}
		f.Position = f.Position.Advance(f.HeadingRad, f.Spec.SpeedKmS()*dt)
	}
}

// evaluateKills runs the capsule intercept test for every active missile
// and expires site-launched missiles past their max range.
func (s *Scenario) evaluateKills() {
	for _, m := range s.missiles {
		if m.Status != MissileActive {
			continue
		}

		if !s.targetDestroyed(m.Target) {
			if impact, hit := m.intercepts(s.targetPos(m.Target)); hit {
				m.Status = MissileKill
				m.ImpactTimeS = s.elapsedS
				m.ImpactPos = impact
				s.destroyTarget(m.Target)
				continue
			}
		}

		if m.MaxRangeKm > 0 && m.TraveledKm > m.MaxRangeKm {
			m.Status = MissileMissed
		}
	}
}

func (s *Scenario) targetPos(ref TargetRef) geometry.Point {
	if ref.Kind == TargetFighter {
		return s.fighters[ref.Index].Position
	}
	return s.sites[ref.Index].Site.Position
}

func (s *Scenario) targetDestroyed(ref TargetRef) bool {
	if ref.Kind == TargetFighter {
		return s.fighters[ref.Index].Destroyed
	}
	return s.sites[ref.Index].Destroyed
}

func (s *Scenario) destroyTarget(ref TargetRef) {
	if ref.Kind == TargetFighter {
		s.fighters[ref.Index].Destroyed = true
	} else {
		s.sites[ref.Index].Destroyed = true
	}
}

// checkComplete applies the three termination conditions: a destroyed
// platform, all launched missiles resolved, or the simulation time cap.
func (s *Scenario) checkComplete() bool {
	for _, site := range s.sites {
		if site.Destroyed {
			return true
		}
	}
	for _, f := range s.fighters {
		if f.Destroyed {
			return true
		}
	}

	if s.launchedAny {
		resolved := true
		for _, m := range s.missiles {
			if m.Status == MissileActive {
				resolved = false
				break
			}
		}
		if resolved {
			return true
		}
	}

	return s.elapsedS >= maxDurationS
}

package engagement

import (
	"github.com/skyshield-sim/skyshield/pkg/geometry"
)

// TrackSnapshot is the observable state of one live track.
type TrackSnapshot struct {
	FighterIndex   int     `json:"fighter_index"`
	TimeInTrackS   float64 `json:"time_in_track_s"`
	LastDistanceKm float64 `json:"last_distance_km"`
	LastAzimuthDeg float64 `json:"last_azimuth_deg"`
}

// SiteSnapshot is the observable state of one radar site.
type SiteSnapshot struct {
	Name      string          `json:"name"`
	Position  geometry.Point  `json:"position"`
	Remaining int             `json:"remaining_interceptors"`
	Launched  int             `json:"launched_interceptors"`
	Destroyed bool            `json:"destroyed"`
	Degraded  bool            `json:"degraded"`
	Tracks    []TrackSnapshot `json:"tracks"`
}

// FighterSnapshot is the observable state of one fighter.
type FighterSnapshot struct {
	Name             string         `json:"name"`
	Position         geometry.Point `json:"position"`
	HeadingRad       float64        `json:"heading_rad"`
	SpeedKmS         float64        `json:"speed_km_s"`
	Evasive          bool           `json:"evasive"`
	WeaponsRemaining int            `json:"weapons_remaining"`
	Destroyed        bool           `json:"destroyed"`

	// InLaunchWindow reports whether the hold-fire launch geometry
	// against the nearest tracking site is currently satisfied.
	InLaunchWindow bool `json:"in_launch_window"`
}

// MissileSnapshot is the observable state of one missile.
type MissileSnapshot struct {
	ID         int            `json:"id"`
	Side       string         `json:"side"`
	Position   geometry.Point `json:"position"`
	HeadingRad float64        `json:"heading_rad"`
	SpeedKmS   float64        `json:"speed_km_s"`
	Status     string         `json:"status"`
	Target     TargetRef      `json:"target"`
}

// Snapshot is a caller-facing copy of the full engagement state after a
// step, sufficient to render or log progress without touching simulation
// internals.
type Snapshot struct {
	TimeS    float64           `json:"time_s"`
	Complete bool              `json:"complete"`
	Sites    []SiteSnapshot    `json:"sites"`
	Fighters []FighterSnapshot `json:"fighters"`
	Missiles []MissileSnapshot `json:"missiles"`
}

// Snapshot captures the current engagement state.
func (s *Scenario) Snapshot() Snapshot {
	snap := Snapshot{
		TimeS:    s.elapsedS,
		Complete: s.complete,
	}

	for _, site := range s.sites {
		ss := SiteSnapshot{
			Name:      site.Site.Spec.Name,
			Position:  site.Site.Position,
			Remaining: site.Remaining,
			Launched:  site.Launched,
			Destroyed: site.Destroyed,
			Degraded:  site.Site.Degraded(),
		}
		for fi := range s.fighters {
			if tr, ok := site.Tracks[fi]; ok {
				ss.Tracks = append(ss.Tracks, TrackSnapshot{
					FighterIndex:   fi,
					TimeInTrackS:   tr.TimeInTrackS,
					LastDistanceKm: tr.LastDistanceKm,
					LastAzimuthDeg: tr.LastAzimuthDeg,
				})
			}
		}
		snap.Sites = append(snap.Sites, ss)
	}

	for fi, f := range s.fighters {
		snap.Fighters = append(snap.Fighters, FighterSnapshot{
			Name:             f.Spec.Name,
			Position:         f.Position,
			HeadingRad:       f.HeadingRad,
			SpeedKmS:         f.Spec.SpeedKmS(),
			Evasive:          f.Evasive,
			WeaponsRemaining: f.WeaponsRemaining,
			Destroyed:        f.Destroyed,
			InLaunchWindow:   s.inLaunchWindow(fi),
		})
	}

	for _, m := range s.missiles {
		snap.Missiles = append(snap.Missiles, MissileSnapshot{
			ID:         m.ID,
			Side:       m.Side.String(),
			Position:   m.Position,
			HeadingRad: m.HeadingRad,
			SpeedKmS:   m.SpeedKmS,
			Status:     m.Status.String(),
			Target:     m.Target,
		})
	}

	return snap
}

// inLaunchWindow evaluates the fighter's hold-fire launch geometry
// against the nearest surviving site.
func (s *Scenario) inLaunchWindow(fi int) bool {
	f := s.fighters[fi]
	if f.Destroyed {
		return false
	}

	nearest := -1
	best := 0.0
	for si, site := range s.sites {
		if site.Destroyed {
			continue
		}
		d := f.Position.DistanceTo(site.Site.Position)
		if nearest < 0 || d < best {
			best = d
			nearest = si
		}
	}
	if nearest < 0 {
		return false
	}

	_, tracked := s.sites[nearest].Tracks[fi]
	return f.Spec.ShouldLaunchAirToGround(best, s.sites[nearest].Site.Spec.MaxEffectiveRangeKm, tracked)
}

// MissileRecord is the terminal per-missile outcome.
type MissileRecord struct {
	ID          int             `json:"id"`
	Launcher    string          `json:"launcher"`
	LaunchTimeS float64         `json:"launch_time_s"`
	Status      string          `json:"status"`
	ImpactTimeS *float64        `json:"impact_time_s,omitempty"`
	ImpactPos   *geometry.Point `json:"impact_pos,omitempty"`
}

// Result is the terminal outcome of an engagement. Success means at
// least one site was destroyed while the fighters survived.
type Result struct {
	Complete bool            `json:"complete"`
	ElapsedS float64         `json:"elapsed_s"`
	Success  bool            `json:"success"`
	Missiles []MissileRecord `json:"missiles"`
}

// Result summarizes the engagement outcome. It is meaningful once the
// scenario reports complete, but can be called at any time.
func (s *Scenario) Result() Result {
	res := Result{
		Complete: s.complete,
		ElapsedS: s.elapsedS,
	}

	siteDestroyed := false
	for _, site := range s.sites {
		if site.Destroyed {
			siteDestroyed = true
			break
		}
	}
	fighterDestroyed := false
	for _, f := range s.fighters {
		if f.Destroyed {
			fighterDestroyed = true
			break
		}
	}
	res.Success = siteDestroyed && !fighterDestroyed

	for _, m := range s.missiles {
		rec := MissileRecord{
			ID:          m.ID,
			Launcher:    m.Side.String(),
			LaunchTimeS: m.LaunchTimeS,
			Status:      m.Status.String(),
		}
		if m.Status == MissileKill {
			t := m.ImpactTimeS
			p := m.ImpactPos
			rec.ImpactTimeS = &t
			rec.ImpactPos = &p
		}
		res.Missiles = append(res.Missiles, rec)
	}

	return res
}

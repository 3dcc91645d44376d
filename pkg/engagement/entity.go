package engagement

import (
	"github.com/skyshield-sim/skyshield/pkg/geometry"
	"github.com/skyshield-sim/skyshield/pkg/platform"
)

// Track is one site's live track on one fighter. Tracks are created on
// first detection, refreshed every step the target stays inside the
// instantaneous detection range, and deleted the step it falls outside.
// There is no hysteresis: a single missed step drops the track.
type Track struct {
	AcquiredAtS    float64
	TimeInTrackS   float64
	LastDistanceKm float64
	LastAzimuthDeg float64
}

// SiteState is the mutable per-run state of one radar site. The
// coordinator owns it exclusively for the duration of a run.
type SiteState struct {
	Site *platform.RadarSite

	Remaining int
	Launched  int

	// lastLaunchS gates the launch interval. hasLaunched distinguishes
	// "never fired" from a launch at t=0.
	lastLaunchS float64
	hasLaunched bool

	Destroyed bool

	// Tracks is keyed by fighter index in the coordinator's collection.
	Tracks map[int]*Track
}

func (s *SiteState) canLaunchAt(nowS float64) bool {
	if s.Destroyed || s.Remaining <= 0 {
		return false
	}
	if !s.hasLaunched {
		return true
	}
	return nowS-s.lastLaunchS >= s.Site.Spec.LaunchIntervalS
}

func (s *SiteState) recordLaunch(nowS float64) {
	s.Remaining--
	s.Launched++
	s.lastLaunchS = nowS
	s.hasLaunched = true
}

// FighterState is the mutable per-run state of one strike aircraft.
// Destroyed is terminal and freezes all further kinematics.
type FighterState struct {
	Spec platform.FighterSpec

	Position   geometry.Point
	HeadingRad float64

	// Evasive switches the maneuver model from straight flight to
	// steering away from the nearest surviving site.
	Evasive bool

	WeaponsRemaining int
	Destroyed        bool
}

// maxTurnRad returns the largest heading change the fighter can make in
// one step of dt seconds under its g limit.
func (f *FighterState) maxTurnRad(dt float64) float64 {
	speedMS := f.Spec.SpeedKmS() * 1000
	if speedMS <= 0 {
		return 0
	}
	return fighterGLimit * gravityMS2 / speedMS * dt
}

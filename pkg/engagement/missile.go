// Package engagement runs one ground-radar versus strike-aircraft
// engagement as a single-threaded, step-driven state machine: tracking,
// launch decisions, missile guidance and kinematics, evasive maneuvers,
// and capsule intercept tests, advanced one fixed time step at a time.
package engagement

import (
	"github.com/skyshield-sim/skyshield/pkg/geometry"
)

// Physics and policy constants shared across the step machine.
const (
	// gravityMS2 converts g-force limits to turn rates.
	gravityMS2 = 9.8

	// missileGLimit and fighterGLimit bound per-step heading changes.
	missileGLimit = 30.0
	fighterGLimit = 6.0

	// unguidedPerturbRad bounds the random heading jitter applied to a
	// missile whose launcher has lost track of the target.
	unguidedPerturbRad = 0.05

	// maxDurationS caps the simulation clock.
	maxDurationS = 600.0
)

// Side identifies which platform type launched a missile.
type Side int

const (
	SideSite Side = iota
	SideFighter
)

func (s Side) String() string {
	if s == SideSite {
		return "site"
	}
	return "fighter"
}

// MissileStatus is a missile lifecycle state. Kill and Missed are terminal.
type MissileStatus int

const (
	MissileActive MissileStatus = iota
	MissileKill
	MissileMissed
)

func (s MissileStatus) String() string {
	switch s {
	case MissileActive:
		return "active"
	case MissileKill:
		return "kill"
	default:
		return "missed"
	}
}

// TargetKind selects which entity collection a TargetRef indexes.
type TargetKind int

const (
	TargetFighter TargetKind = iota
	TargetSite
)

// TargetRef addresses a target by identity within the coordinator's owned
// collections, so a missile always guides on the target's current
// position rather than a stale copy.
type TargetRef struct {
	Kind  TargetKind `json:"kind"`
	Index int        `json:"index"`
}

// Missile is one in-flight weapon. The coordinator mutates it every step
// until it reaches a terminal status.
type Missile struct {
	ID   int
	Side Side

	Position     geometry.Point
	prevPosition geometry.Point
	HeadingRad   float64
	SpeedKmS     float64

	Status      MissileStatus
	LaunchTimeS float64
	Target      TargetRef

	// Launcher indexes the launching site or fighter on Side's collection.
	Launcher int

	// MaxRangeKm bounds cumulative travel for site-launched interceptors.
	// Zero means unlimited.
	MaxRangeKm   float64
	TraveledKm   float64
	KillRadiusKm float64

	// Impact fields are valid only when Status is MissileKill.
	ImpactTimeS float64
	ImpactPos   geometry.Point
}

// maxTurnRad returns the largest heading change the missile can make in
// one step of dt seconds under its g limit at its current speed.
func (m *Missile) maxTurnRad(dt float64) float64 {
	speedMS := m.SpeedKmS * 1000
	if speedMS <= 0 {
		return 0
	}
	return missileGLimit * gravityMS2 / speedMS * dt
}

// steer turns the missile toward the desired heading, bounded by the turn
// limit for this step.
func (m *Missile) steer(desiredRad, dt float64) {
	delta := geometry.WrapToPi(desiredRad - m.HeadingRad)
	limit := m.maxTurnRad(dt)
	if delta > limit {
		delta = limit
	} else if delta < -limit {
		delta = -limit
	}
	m.HeadingRad = geometry.WrapToPi(m.HeadingRad + delta)
}

// fly integrates position forward one step and tracks cumulative travel.
func (m *Missile) fly(dt float64) {
	m.prevPosition = m.Position
	dist := m.SpeedKmS * dt
	m.Position = m.Position.Advance(m.HeadingRad, dist)
	m.TraveledKm += dist
}

// intercepts tests the capsule between the missile's previous and current
// position against the target's current position. The direct check
// catches slow closures; the segment check catches skip-overs between
// discrete steps.
func (m *Missile) intercepts(target geometry.Point) (geometry.Point, bool) {
	if m.Position.DistanceTo(target) < m.KillRadiusKm {
		return m.Position, true
	}
	if geometry.DistanceToSegment(target, m.prevPosition, m.Position) < m.KillRadiusKm {
		return geometry.ClosestPointOnSegment(target, m.prevPosition, m.Position), true
	}
	return geometry.Point{}, false
}

// Package platform holds the immutable platform descriptions used by an
// engagement: radar site specs with their per-azimuth detection-range
// cache, fighter specs with aspect-dependent RCS profiles, and the launch
// geometry rules tied to each platform type.
package platform

import (
	"fmt"
	"math"
)

// aspectHalfWidthDeg is the half-width of the nose and tail RCS sectors.
const aspectHalfWidthDeg = 30.0

// RCSProfile describes a target's radar cross section by aspect, m^2.
// Top and bottom are carried for completeness; the planar engagement
// geometry only ever presents nose, tail and side aspects.
type RCSProfile struct {
	NoseM2   float64 `json:"nose_m2"`
	TailM2   float64 `json:"tail_m2"`
	SideM2   float64 `json:"side_m2"`
	TopM2    float64 `json:"top_m2"`
	BottomM2 float64 `json:"bottom_m2"`
}

// Validate rejects profiles with any non-positive cross section.
func (p RCSProfile) Validate() error {
	aspects := []struct {
		name string
		val  float64
	}{
		{"nose", p.NoseM2},
		{"tail", p.TailM2},
		{"side", p.SideM2},
		{"top", p.TopM2},
		{"bottom", p.BottomM2},
	}
	for _, a := range aspects {
		if a.val <= 0 || math.IsNaN(a.val) || math.IsInf(a.val, 0) {
			return fmt.Errorf("platform: %s RCS %v m^2 must be > 0", a.name, a.val)
		}
	}
	return nil
}

// AtAspect returns the cross section presented at the given aspect angle
// in degrees, where 0 is directly nose-on and 180 directly tail-on.
// Nose and tail sectors span +/-30 degrees; everything else is side.
func (p RCSProfile) AtAspect(aspectDeg float64) float64 {
	a := math.Mod(aspectDeg, 360)
	if a < 0 {
		a += 360
	}
	// Fold to [0, 180]: aspect is symmetric about the bore axis.
	if a > 180 {
		a = 360 - a
	}

	switch {
	case a <= aspectHalfWidthDeg:
		return p.NoseM2
	case a >= 180-aspectHalfWidthDeg:
		return p.TailM2
	default:
		return p.SideM2
	}
}

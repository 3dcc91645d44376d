// Package geometry provides the planar 2D math used throughout the
// engagement simulator.
//
// The simulation world is a flat cartesian plane measured in kilometers.
// Headings are stored in radians measured counterclockwise from the +X axis;
// azimuths exposed to radar code are compass degrees (0 = +Y "north",
// 90 = +X "east") to match the convention of the radar range caches.
package geometry

import (
	"math"
)

// Constants for angle conversions.
const (
	// DegreesToRadians converts degrees to radians
	DegreesToRadians = math.Pi / 180.0

	// RadiansToDegrees converts radians to degrees
	RadiansToDegrees = 180.0 / math.Pi
)

// Point is a position on the simulation plane, in kilometers.
type Point struct {
	X float64
	Y float64
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// DistanceTo returns the straight-line distance to q in kilometers.
func (p Point) DistanceTo(q Point) float64 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	return math.Hypot(dx, dy)
}

// HeadingTo returns the heading from p to q in radians
// (counterclockwise from +X).
func (p Point) HeadingTo(q Point) float64 {
	return math.Atan2(q.Y-p.Y, q.X-p.X)
}

// AzimuthTo returns the compass azimuth from p to q in degrees [0, 360),
// where 0 = +Y (north) and 90 = +X (east).
func (p Point) AzimuthTo(q Point) float64 {
	az := math.Atan2(q.X-p.X, q.Y-p.Y) * RadiansToDegrees
	if az < 0 {
		az += 360.0
	}
	return az
}

// Advance returns the point reached by travelling distanceKm along the
// given heading (radians) from p.
func (p Point) Advance(headingRad, distanceKm float64) Point {
	return Point{
		X: p.X + distanceKm*math.Cos(headingRad),
		Y: p.Y + distanceKm*math.Sin(headingRad),
	}
}

// WrapToPi normalizes an angle to [-π, π].
// Implemented as atan2(sin a, cos a) so it is exact at the boundary and
// safe for arbitrarily large inputs.
func WrapToPi(a float64) float64 {
	return math.Atan2(math.Sin(a), math.Cos(a))
}

// BlendHeading moves prev toward target along the shortest angular path,
// preserving continuity across the ±π boundary. The result is not wrapped;
// callers that need a bounded turn clamp the delta first.
func BlendHeading(prev, target float64) float64 {
	return prev + WrapToPi(target-prev)
}

// NormalizeAzimuth ensures a compass azimuth is in the range [0, 360).
func NormalizeAzimuth(azimuth float64) float64 {
	az := math.Mod(azimuth, 360.0)
	if az < 0 {
		az += 360.0
	}
	return az
}

// AzimuthToHeading converts a compass azimuth in degrees (0 = north = +Y)
// to a heading in radians (0 = +X, counterclockwise).
func AzimuthToHeading(azimuthDeg float64) float64 {
	return (90.0 - azimuthDeg) * DegreesToRadians
}

// HeadingToAzimuth converts a heading in radians to a compass azimuth
// in degrees [0, 360).
func HeadingToAzimuth(headingRad float64) float64 {
	return NormalizeAzimuth(90.0 - headingRad*RadiansToDegrees)
}

// ClosestPointOnSegment returns the point on segment ab nearest to p,
// with the projection parameter clamped to t ∈ [0, 1].
func ClosestPointOnSegment(p, a, b Point) Point {
	abx := b.X - a.X
	aby := b.Y - a.Y
	lenSq := abx*abx + aby*aby

	// Degenerate segment: a and b coincide.
	if lenSq == 0 {
		return a
	}

	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	return Point{X: a.X + t*abx, Y: a.Y + t*aby}
}

// DistanceToSegment returns the minimum distance from point p to the
// segment ab. Used by the intercept test to catch targets a missile
// skips over between discrete steps.
func DistanceToSegment(p, a, b Point) float64 {
	return p.DistanceTo(ClosestPointOnSegment(p, a, b))
}

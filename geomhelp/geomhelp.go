// Package geomhelp holds the small planar primitives shared by the
// algorithm packages: distances, orientation tests, the shoelace formula
// and a point-in-triangle check.
package geomhelp

import (
	"math"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/wkt"
	"github.com/muesli/reflow/truncate"
)

// Epsilon is the tolerance below which a cross product is considered zero,
// i.e. the three points involved are treated as collinear.
const Epsilon = 1e-10

// Distance returns the Euclidean distance between p1 and p2.
func Distance(p1, p2 [2]float64) float64 {
	dx := p2[0] - p1[0]
	dy := p2[1] - p1[1]
	return math.Sqrt(dx*dx + dy*dy)
}

// CrossProduct returns twice the signed area of the triangle o-a-b.
// Positive means the turn o->a->b is counterclockwise, negative clockwise,
// ~zero (within Epsilon) collinear.
func CrossProduct(o, a, b [2]float64) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// Collinear reports whether o, a and b lie on one line, within Epsilon.
func Collinear(o, a, b [2]float64) bool {
	return math.Abs(CrossProduct(o, a, b)) < Epsilon
}

// PointInTriangle reports whether p lies in the triangle v1-v2-v3.
// Points on the triangle's boundary count as inside.
func PointInTriangle(p, v1, v2, v3 [2]float64) bool {
	d1 := CrossProduct(p, v1, v2)
	d2 := CrossProduct(p, v2, v3)
	d3 := CrossProduct(p, v3, v1)

	hasNeg := d1 < -Epsilon || d2 < -Epsilon || d3 < -Epsilon
	hasPos := d1 > Epsilon || d2 > Epsilon || d3 > Epsilon

	return !(hasNeg && hasPos)
}

// SignedArea returns the signed area of the ring formed by pts.
// Positive for counterclockwise winding, negative for clockwise.
// The closing point may but need not be repeated.
func SignedArea(pts [][2]float64) float64 {
	sum := 0.
	if len(pts) == 0 {
		return 0.
	}

	p0 := pts[len(pts)-1]
	for _, p1 := range pts {
		sum += p0[0]*p1[1] - p0[1]*p1[0]
		p0 = p1
	}
	return sum / 2
}

// https://en.wikipedia.org/wiki/Shoelace_formula
func Shoelace(pts [][2]float64) float64 {
	return math.Abs(SignedArea(pts))
}

// from paulmach/orb
// Original implementation: http://rosettacode.org/wiki/Ray-casting_algorithm#Go
//
//nolint:cyclop,nestif
func RayIntersect(pt, start, end [2]float64) (intersects, on bool) {
	if start[0] > end[0] {
		start, end = end, start
	}

	if pt[0] == start[0] {
		if pt[1] == start[1] {
			// pt == start
			return false, true
		} else if start[0] == end[0] {
			// vertical segment (start -> end)
			// return true if within the line, check to see if start or end is greater.
			if start[1] > end[1] && start[1] >= pt[1] && pt[1] >= end[1] {
				return false, true
			}

			if end[1] > start[1] && end[1] >= pt[1] && pt[1] >= start[1] {
				return false, true
			}
		}

		// Move the y coordinate to deal with degenerate case
		pt[0] = math.Nextafter(pt[0], math.Inf(1))
	} else if pt[0] == end[0] {
		if pt[1] == end[1] {
			// matching the end point
			return false, true
		}

		pt[0] = math.Nextafter(pt[0], math.Inf(1))
	}

	if pt[0] < start[0] || pt[0] > end[0] {
		return false, false
	}

	if start[1] > end[1] {
		if pt[1] > start[1] {
			return false, false
		} else if pt[1] < end[1] {
			return true, false
		}
	} else {
		if pt[1] > end[1] {
			return false, false
		} else if pt[1] < start[1] {
			return true, false
		}
	}

	rs := (pt[1] - start[1]) / (pt[0] - start[0])
	ds := (end[1] - start[1]) / (end[0] - start[0])

	if rs == ds {
		return false, true
	}

	return rs <= ds, false
}

// PointInRing reports whether pt lies in the ring, via ray casting.
// Points on the ring's boundary count as inside.
func PointInRing(pt [2]float64, ring [][2]float64) bool {
	if len(ring) < 3 {
		return false
	}
	intersections := 0
	p0 := ring[len(ring)-1]
	for _, p1 := range ring {
		intersects, on := RayIntersect(pt, p0, p1)
		if on {
			return true
		}
		if intersects {
			intersections++
		}
		p0 = p1
	}
	return intersections%2 == 1
}

// WktMustEncode encodes a geometry as WKT for logging, truncated to maxLen.
// A maxLen of 0 means no truncation.
func WktMustEncode(g geom.Geometry, maxLen uint) string {
	if maxLen == 0 {
		return wkt.MustEncode(g)
	}
	return truncate.StringWithTail(wkt.MustEncode(g), maxLen, "...")
}

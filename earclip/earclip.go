// Package earclip triangulates simple polygons by repeatedly clipping ears.
//
// An ear is a strictly convex vertex whose triangle with its two neighbours
// contains no other remaining vertex. Clipping the first ear found each pass
// keeps the scan simple; the result is n-2 triangles for an n-vertex ring in
// O(n^2). Input that leaves no clippable ear (self-intersecting or
// numerically degenerate rings) yields an explicit ErrNoEar instead of a
// silently truncated triangulation.
package earclip

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-spatial/geom"

	"github.com/geosketch/geosketch/geomhelp"
	"github.com/geosketch/geosketch/processing"
)

var (
	ErrTooFewPoints = errors.New("a ring needs at least 3 points to triangulate")
	ErrNoEar        = errors.New("no ear found, ring is degenerate or self-intersecting")
	ErrHasHoles     = errors.New("polygons with interior rings are not supported")
)

// ToTriangles triangulates every polygon feature read from source and writes
// the triangles as MultiPolygon features to target.
func ToTriangles(source processing.Source, target processing.Target) {
	processing.ProcessFeatures(source, target, GeometryOp)
}

// GeometryOp triangulates a single feature geometry.
func GeometryOp(g geom.Geometry) (geom.Geometry, error) {
	switch p := g.(type) {
	case geom.Polygon:
		return polygonToTriangles(p)
	case geom.MultiPolygon:
		var mp geom.MultiPolygon
		for _, rings := range p {
			triangles, err := polygonToTriangles(rings)
			if err != nil {
				return nil, err
			}
			mp = append(mp, triangles...)
		}
		return mp, nil
	default:
		return nil, fmt.Errorf("cannot triangulate geometry type %T", g)
	}
}

func polygonToTriangles(p geom.Polygon) (geom.MultiPolygon, error) {
	rings := p.LinearRings()
	if len(rings) == 0 {
		return nil, fmt.Errorf("%w: got an empty polygon", ErrTooFewPoints)
	}
	if len(rings) > 1 {
		return nil, ErrHasHoles
	}
	triangles, err := Triangulate(rings[0])
	if err != nil {
		return nil, err
	}
	mp := make(geom.MultiPolygon, len(triangles))
	for i, triangle := range triangles {
		mp[i] = [][][2]float64{{triangle[0], triangle[1], triangle[2]}}
	}
	return mp, nil
}

// Triangulate decomposes the simple ring into exactly len(ring)-2 triangles
// whose union covers the ring. The closing point may but need not be
// repeated. Clockwise rings are reversed first, so the triangles always wind
// counterclockwise.
func Triangulate(ring [][2]float64) ([]geom.Triangle, error) {
	working := slices.Clone(ring)
	// LinearRings() repeats the closing point in some sources, drop it.
	if n := len(working); n > 1 && working[0] == working[n-1] {
		working = working[:n-1]
	}
	if len(working) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(working))
	}
	if geomhelp.SignedArea(working) < 0 {
		slices.Reverse(working)
	}

	triangles := make([]geom.Triangle, 0, len(working)-2)
	for len(working) > 3 {
		ear := findEar(working)
		if ear < 0 {
			return nil, fmt.Errorf("%w (%d vertices left)", ErrNoEar, len(working))
		}
		n := len(working)
		triangles = append(triangles, geom.Triangle{
			working[(ear+n-1)%n],
			working[ear],
			working[(ear+1)%n],
		})
		working = slices.Delete(working, ear, ear+1)
	}
	triangles = append(triangles, geom.Triangle{working[0], working[1], working[2]})

	return triangles, nil
}

// findEar returns the index of the first ear on the ring, or -1 if none is
// left. The ring must wind counterclockwise.
func findEar(ring [][2]float64) int {
	n := len(ring)
	for curr := 0; curr < n; curr++ {
		prev := ring[(curr+n-1)%n]
		next := ring[(curr+1)%n]

		// the turn at an ear tip is strictly counterclockwise
		if geomhelp.CrossProduct(prev, ring[curr], next) <= geomhelp.Epsilon {
			continue
		}

		if earContainsOtherVertex(ring, curr, prev, next) {
			continue
		}
		return curr
	}
	return -1
}

func earContainsOtherVertex(ring [][2]float64, curr int, prev, next [2]float64) bool {
	n := len(ring)
	for other := 0; other < n; other++ {
		if other == curr || other == (curr+n-1)%n || other == (curr+1)%n {
			continue
		}
		if geomhelp.PointInTriangle(ring[other], prev, ring[curr], next) {
			return true
		}
	}
	return false
}

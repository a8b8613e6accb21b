// Package hull builds 2D convex hulls with the monotone chain algorithm.
// https://en.wikibooks.org/wiki/Algorithm_Implementation/Geometry/Convex_hull/Monotone_chain
package hull

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/go-spatial/geom"

	"github.com/geosketch/geosketch/geomhelp"
	"github.com/geosketch/geosketch/processing"
)

var ErrTooFewPoints = errors.New("a hull needs at least 3 distinct points")

// ToHulls replaces every feature geometry read from source by the convex
// hull of its vertices and writes the hulls as Polygon features to target.
func ToHulls(source processing.Source, target processing.Target) {
	processing.ProcessFeatures(source, target, GeometryOp)
}

// GeometryOp computes the convex hull of a single feature geometry.
func GeometryOp(g geom.Geometry) (geom.Geometry, error) {
	points, err := vertices(g)
	if err != nil {
		return nil, err
	}
	h := ConvexHull(points)
	if len(h) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(points))
	}
	return geom.Polygon{h}, nil
}

// ConvexHull returns the convex hull boundary of the points, ordered
// counterclockwise. Fewer than 3 points are returned unchanged. Collinear
// points on a hull edge are excluded, so only strictly extremal points end
// up on the boundary. The input is not modified.
func ConvexHull(points [][2]float64) [][2]float64 {
	n := len(points)
	if n < 3 {
		return slices.Clone(points)
	}

	pts := slices.Clone(points)
	// lexicographic by x, ties by y
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] == pts[j][0] {
			return pts[i][1] < pts[j][1]
		}
		return pts[i][0] < pts[j][0]
	})

	lower := make([][2]float64, 0, n)
	for _, p := range pts {
		for len(lower) >= 2 && geomhelp.CrossProduct(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	upper := make([][2]float64, 0, n)
	for i := n - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && geomhelp.CrossProduct(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	// the endpoints of each chain are the other chain's starting points
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// Contains reports whether p lies in the counterclockwise hull boundary.
// Points on the boundary count as inside.
func Contains(hull [][2]float64, p [2]float64) bool {
	n := len(hull)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		if geomhelp.CrossProduct(hull[i], hull[(i+1)%n], p) < -geomhelp.Epsilon {
			return false
		}
	}
	return true
}

// vertices collects the distinct positions a geometry is made of.
func vertices(g geom.Geometry) ([][2]float64, error) {
	switch gg := g.(type) {
	case geom.Point:
		return [][2]float64{gg.XY()}, nil
	case geom.MultiPoint:
		return gg.Points(), nil
	case geom.LineString:
		return gg.Vertices(), nil
	case geom.MultiLineString:
		var points [][2]float64
		for _, ls := range gg.LineStrings() {
			points = append(points, ls...)
		}
		return points, nil
	case geom.Polygon:
		var points [][2]float64
		for _, ring := range gg.LinearRings() {
			points = append(points, ring...)
		}
		return points, nil
	case geom.MultiPolygon:
		var points [][2]float64
		for _, rings := range gg {
			for _, ring := range rings {
				points = append(points, ring...)
			}
		}
		return points, nil
	default:
		return nil, fmt.Errorf("cannot collect vertices of geometry type %T", g)
	}
}

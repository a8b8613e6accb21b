// Package intersect tests bounded segments for intersection and enumerates
// the pairwise intersections of a line arrangement within a window.
package intersect

import (
	"fmt"

	"github.com/go-spatial/geom"
	"github.com/umpc/go-sortedmap"
)

// Segments returns the point where the two bounded segments cross, if any.
// Each segment's carrying line is written in implicit form a*x + b*y = c
// and the 2x2 system is solved with Cramer's rule; the solution only counts
// when it lies within both segments' bounding boxes (inclusive).
//
// A determinant of exactly zero means parallel or coincident lines and
// yields no intersection; coincident overlap is not detected separately.
// A shared endpoint is a join, not a crossing, and yields no intersection
// either.
// ref: https://en.wikipedia.org/wiki/Line%E2%80%93line_intersection
func Segments(s1, s2 geom.Line) (geom.Point, bool) {
	if s1[0] == s2[0] || s1[0] == s2[1] || s1[1] == s2[0] || s1[1] == s2[1] {
		return geom.Point{}, false
	}

	a1 := s1[1][1] - s1[0][1]
	b1 := s1[0][0] - s1[1][0]
	c1 := a1*s1[0][0] + b1*s1[0][1]

	a2 := s2[1][1] - s2[0][1]
	b2 := s2[0][0] - s2[1][0]
	c2 := a2*s2[0][0] + b2*s2[0][1]

	det := a1*b2 - a2*b1
	if det == 0 {
		return geom.Point{}, false
	}

	pt := [2]float64{
		(c1*b2 - c2*b1) / det,
		(a1*c2 - a2*c1) / det,
	}
	if !s1.ContainsPoint(pt) || !s2.ContainsPoint(pt) {
		return geom.Point{}, false
	}
	return geom.Point(pt), true
}

// SlopeLine is an infinite line in slope-intercept form,
// y = Slope*x + Intercept. Vertical lines cannot be represented.
type SlopeLine struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// YAt returns the line's y ordinate at x.
func (l SlopeLine) YAt(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Arrangement returns every pairwise intersection point of the lines that
// falls within the window (edges inclusive), ordered by x then y.
//
// Slopes are compared exactly, not within a tolerance: nearly parallel
// lines still have a real intersection point, it just tends to fall outside
// the window. Coincident intersection points (three or more concurrent
// lines) are reported once. O(n^2) for n lines.
func Arrangement(lines []SlopeLine, window geom.Extent) []geom.Point {
	found := sortedmap.New(len(lines), func(x, y interface{}) bool {
		a := x.(geom.Point)
		b := y.(geom.Point)
		if a[0] == b[0] {
			return a[1] < b[1]
		}
		return a[0] < b[0]
	})

	for i := 0; i < len(lines); i++ {
		for j := i + 1; j < len(lines); j++ {
			if lines[i].Slope == lines[j].Slope {
				continue
			}
			x := (lines[j].Intercept - lines[i].Intercept) / (lines[i].Slope - lines[j].Slope)
			pt := [2]float64{x, lines[i].YAt(x)}
			if !window.ContainsPoint(pt) {
				continue
			}
			found.Insert(fmt.Sprintf("%v", pt), geom.Point(pt))
		}
	}

	points := make([]geom.Point, 0, found.Len())
	for _, key := range found.Keys() {
		points = append(points, found.Map()[key].(geom.Point))
	}
	return points
}

// Package sphere interpolates great-circle arcs between points on a sphere
// (spherical linear interpolation, SLERP).
package sphere

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"

	"github.com/geosketch/geosketch/mathhelp"
)

var (
	ErrAntipodal      = errors.New("antipodal points have no unique great-circle arc")
	ErrRadiusMismatch = errors.New("points lie on spheres of different radii")
)

// epsilonAngle is the central angle below which two points count as
// coincident, and within which of pi they count as antipodal.
const epsilonAngle = s1.Angle(1e-10)

// Point is a position on a sphere's surface. The Cartesian vector and the
// angular coordinates describe the same position and are derived from each
// other at construction.
type Point struct {
	Vector r3.Vector
	Lat    s1.Angle
	Lng    s1.Angle
}

// PointFromLatLng places a point at the given latitude and longitude on a
// sphere of the given radius, centered on the origin.
func PointFromLatLng(lat, lng s1.Angle, radius float64) Point {
	cosLat := math.Cos(lat.Radians())
	return Point{
		Vector: r3.Vector{
			X: radius * cosLat * math.Cos(lng.Radians()),
			Y: radius * cosLat * math.Sin(lng.Radians()),
			Z: radius * math.Sin(lat.Radians()),
		},
		Lat: lat,
		Lng: lng,
	}
}

// PointFromDegrees is PointFromLatLng with the angles in degrees.
func PointFromDegrees(lat, lng, radius float64) Point {
	return PointFromLatLng(s1.Angle(lat)*s1.Degree, s1.Angle(lng)*s1.Degree, radius)
}

// PointFromVector derives the angular coordinates from a Cartesian position.
func PointFromVector(v r3.Vector) Point {
	return Point{
		Vector: v,
		Lat:    s1.Angle(math.Atan2(v.Z, math.Sqrt(v.X*v.X+v.Y*v.Y))),
		Lng:    s1.Angle(math.Atan2(v.Y, v.X)),
	}
}

// Radius returns the distance of the point to the sphere's center.
func (p Point) Radius() float64 {
	return p.Vector.Norm()
}

// Path is a sampled great-circle arc from the first to the last point.
type Path struct {
	Points      []Point
	ArcLength   float64
	ChordLength float64
}

// GeodesicPath samples the great-circle arc between start and end at
// steps+1 evenly spaced parameters. The arc length is R times the central
// angle; the chord length is the straight-line distance between the
// endpoints.
//
// Coincident endpoints (central angle ~0) short-circuit to a two-point
// path. Antipodal endpoints have no unique arc and yield ErrAntipodal
// rather than a division by a vanishing sin(angle).
func GeodesicPath(start, end Point, steps int) (Path, error) {
	if steps < 1 {
		return Path{}, fmt.Errorf("steps must be at least 1, got %d", steps)
	}
	radius := start.Radius()
	if radius == 0 {
		return Path{}, fmt.Errorf("start point is the sphere's center")
	}
	if math.Abs(end.Radius()-radius) > 1e-10*radius {
		return Path{}, fmt.Errorf("%w: %v and %v", ErrRadiusMismatch, radius, end.Radius())
	}

	cosAngle := mathhelp.Clamp(start.Vector.Dot(end.Vector)/(radius*radius), -1, 1)
	angle := s1.Angle(math.Acos(cosAngle))
	chord := start.Vector.Sub(end.Vector).Norm()

	if angle < epsilonAngle {
		return Path{
			Points:      []Point{start, end},
			ArcLength:   radius * angle.Radians(),
			ChordLength: chord,
		}, nil
	}
	if math.Pi-angle.Radians() < epsilonAngle.Radians() {
		return Path{}, fmt.Errorf("%w: central angle %v", ErrAntipodal, angle)
	}

	sinAngle := math.Sin(angle.Radians())
	points := make([]Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		w1 := math.Sin((1-t)*angle.Radians()) / sinAngle
		w2 := math.Sin(t*angle.Radians()) / sinAngle
		points = append(points, PointFromVector(start.Vector.Mul(w1).Add(end.Vector.Mul(w2))))
	}

	return Path{
		Points:      points,
		ArcLength:   radius * angle.Radians(),
		ChordLength: chord,
	}, nil
}

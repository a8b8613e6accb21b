package geomhelp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShoelace(t *testing.T) {
	tests := []struct {
		name string
		pts  [][2]float64
		area float64
	}{
		{name: "rectangle", pts: [][2]float64{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}}, area: 100},
		{name: "triangle", pts: [][2]float64{{0, 0}, {5, 10}, {0, 10}, {0, 0}}, area: 25},
		{name: "missing official closing point", pts: [][2]float64{{0, 0}, {0, 10}, {10, 10}, {10, 0}}, area: 100},
		{name: "single point", pts: [][2]float64{{1234, 4321}}, area: 0},
		{name: "no points", pts: nil, area: 0},
		{name: "empty points", pts: [][2]float64{}, area: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.area, Shoelace(tt.pts))
		})
	}
}

func TestSignedArea(t *testing.T) {
	square := [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	assert.Equal(t, 100.0, SignedArea(square))

	reversed := [][2]float64{{0, 10}, {10, 10}, {10, 0}, {0, 0}}
	assert.Equal(t, -100.0, SignedArea(reversed))
}

func TestCrossProduct(t *testing.T) {
	tests := []struct {
		name    string
		o, a, b [2]float64
		sign    int
	}{
		{name: "counterclockwise", o: [2]float64{0, 0}, a: [2]float64{1, 0}, b: [2]float64{0, 1}, sign: 1},
		{name: "clockwise", o: [2]float64{0, 0}, a: [2]float64{0, 1}, b: [2]float64{1, 0}, sign: -1},
		{name: "collinear", o: [2]float64{0, 0}, a: [2]float64{1, 1}, b: [2]float64{2, 2}, sign: 0},
		{name: "collinear backwards", o: [2]float64{2, 2}, a: [2]float64{1, 1}, b: [2]float64{0, 0}, sign: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CrossProduct(tt.o, tt.a, tt.b)
			switch tt.sign {
			case 1:
				assert.Greater(t, got, Epsilon)
				assert.False(t, Collinear(tt.o, tt.a, tt.b))
			case -1:
				assert.Less(t, got, -Epsilon)
				assert.False(t, Collinear(tt.o, tt.a, tt.b))
			case 0:
				assert.InDelta(t, 0, got, Epsilon)
				assert.True(t, Collinear(tt.o, tt.a, tt.b))
			}
		})
	}
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, Distance([2]float64{0, 0}, [2]float64{3, 4}))
	assert.Equal(t, 0.0, Distance([2]float64{7, 7}, [2]float64{7, 7}))
}

func TestPointInTriangle(t *testing.T) {
	v1 := [2]float64{0, 0}
	v2 := [2]float64{10, 0}
	v3 := [2]float64{0, 10}
	tests := []struct {
		name string
		p    [2]float64
		want bool
	}{
		{name: "inside", p: [2]float64{2, 2}, want: true},
		{name: "outside", p: [2]float64{8, 8}, want: false},
		{name: "far outside", p: [2]float64{-5, -5}, want: false},
		{name: "on edge", p: [2]float64{5, 0}, want: true},
		{name: "on hypotenuse", p: [2]float64{5, 5}, want: true},
		{name: "vertex", p: [2]float64{0, 0}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointInTriangle(tt.p, v1, v2, v3))
		})
	}
}

func TestPointInRing(t *testing.T) {
	ring := [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	tests := []struct {
		name string
		pt   [2]float64
		want bool
	}{
		{name: "inside", pt: [2]float64{5, 5}, want: true},
		{name: "outside", pt: [2]float64{15, 5}, want: false},
		{name: "on boundary", pt: [2]float64{10, 5}, want: true},
		{name: "on vertex", pt: [2]float64{0, 0}, want: true},
		{name: "degenerate ring", pt: [2]float64{0, 0}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ring
			if tt.name == "degenerate ring" {
				r = ring[:2]
			}
			assert.Equal(t, tt.want, PointInRing(tt.pt, r))
		})
	}
}

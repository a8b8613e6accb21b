package scene

import (
	"encoding/json"
	"testing"

	"github.com/go-spatial/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedScene_showcase(t *testing.T) {
	s, err := LoadEmbeddedScene("showcase")
	require.NoError(t, err)
	assert.Equal(t, "showcase", s.ID)
	assert.Equal(t, "Showcase", s.Title)

	var order []string
	for pair := s.Canvases.Oldest(); pair != nil; pair = pair.Next() {
		order = append(order, pair.Key)
	}
	assert.Equal(t, []string{"hull", "triangulation", "crossings", "arrangement", "greatcircles"}, order)

	hull, ok := s.Canvases.Get("hull")
	require.True(t, ok)
	assert.Equal(t, Points, hull.Kind)
	assert.Len(t, hull.Points, 8)
	assert.Equal(t, geom.Extent{0, 0, 800, 500}, hull.Window.ToGeomExtent(), "window defaults apply when the document has none")

	greatcircles, ok := s.Canvases.Get("greatcircles")
	require.True(t, ok)
	assert.Equal(t, Sphere, greatcircles.Kind)
	assert.Equal(t, 200.0, greatcircles.Radius)
	assert.Equal(t, 64, greatcircles.Steps)
	require.Len(t, greatcircles.Pairs, 2)
	p := greatcircles.Pairs[1].End.OnSphere(greatcircles.Radius)
	assert.InDelta(t, 200, p.Radius(), 1e-9)
}

func TestLoadEmbeddedScene_unknownID(t *testing.T) {
	_, err := LoadEmbeddedScene("nope")
	assert.Error(t, err)
}

func TestEmbeddedSceneIDs(t *testing.T) {
	assert.Contains(t, EmbeddedSceneIDs(), "showcase")
}

func TestLoadJSONScene(t *testing.T) {
	s, err := LoadJSONScene("testdata/lonehull.json")
	require.NoError(t, err)
	assert.Equal(t, "lonehull", s.ID)
	require.Equal(t, 1, s.Canvases.Len())
	canvas, ok := s.Canvases.Get("only")
	require.True(t, ok)
	assert.Equal(t, Points, canvas.Kind)
	assert.Equal(t, 200.0, canvas.Radius, "radius defaults even on non-sphere canvases")
	assert.Equal(t, 64, canvas.Steps)
}

func TestLoadJSONScene_missingFile(t *testing.T) {
	_, err := LoadJSONScene("testdata/doesnotexist.json")
	assert.Error(t, err)
}

func TestSceneUnmarshal_invalidDocuments(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		errLike string
	}{
		{
			name:    "missing canvases",
			doc:     `{"id": "x"}`,
			errLike: `missing key "canvases"`,
		},
		{
			name:    "canvases not an array",
			doc:     `{"id": "x", "canvases": {"a": 1}}`,
			errLike: `should be an array`,
		},
		{
			name: "duplicate canvas id",
			doc: `{"id": "x", "canvases": [
				{"id": "a", "kind": "points", "points": [[0, 0]]},
				{"id": "a", "kind": "points", "points": [[1, 1]]}
			]}`,
			errLike: `duplicate canvas id "a"`,
		},
		{
			name:    "missing scene id",
			doc:     `{"canvases": [{"id": "a", "kind": "points", "points": [[0, 0]]}]}`,
			errLike: "required",
		},
		{
			name:    "unknown kind",
			doc:     `{"id": "x", "canvases": [{"id": "a", "kind": "squiggles"}]}`,
			errLike: "oneof",
		},
		{
			name:    "ring with too few points",
			doc:     `{"id": "x", "canvases": [{"id": "a", "kind": "ring", "points": [[0, 0], [1, 1]]}]}`,
			errLike: "at least 3 points",
		},
		{
			name:    "segments canvas with one segment",
			doc:     `{"id": "x", "canvases": [{"id": "a", "kind": "segments", "segments": [{"start": [0, 0], "end": [1, 1]}]}]}`,
			errLike: "at least 2 segments",
		},
		{
			name:    "lines canvas with one line",
			doc:     `{"id": "x", "canvases": [{"id": "a", "kind": "lines", "lines": [{"slope": 1, "intercept": 0}]}]}`,
			errLike: "at least 2 lines",
		},
		{
			name:    "sphere canvas without pairs",
			doc:     `{"id": "x", "canvases": [{"id": "a", "kind": "sphere"}]}`,
			errLike: "at least 1 pair",
		},
		{
			name:    "negative radius",
			doc:     `{"id": "x", "canvases": [{"id": "a", "kind": "sphere", "radius": -1, "pairs": [{"start": {"lat": 0, "lng": 0}, "end": {"lat": 1, "lng": 1}}]}]}`,
			errLike: "gt",
		},
		{
			name:    "latitude out of range",
			doc:     `{"id": "x", "canvases": [{"id": "a", "kind": "sphere", "pairs": [{"start": {"lat": 91, "lng": 0}, "end": {"lat": 0, "lng": 0}}]}]}`,
			errLike: "lte",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Scene
			err := json.Unmarshal([]byte(tt.doc), &s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errLike)
		})
	}
}

func TestSegmentToGeomLine(t *testing.T) {
	s := Segment{Start: [2]float64{1, 2}, End: [2]float64{3, 4}}
	assert.Equal(t, geom.Line{{1, 2}, {3, 4}}, s.ToGeomLine())
}

func TestWindowToGeomExtent(t *testing.T) {
	w := Window{Width: 640, Height: 480}
	assert.Equal(t, geom.Extent{0, 0, 640, 480}, w.ToGeomExtent())
}

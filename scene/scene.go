// Package scene loads and validates sketch scene documents: a scene is an
// ordered set of named canvases, each holding the input set (points, a ring,
// segments, lines or sphere point pairs) for one geometry operation.
package scene

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/go-spatial/geom"
	"github.com/perimeterx/marshmallow"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/geosketch/geosketch/intersect"
	"github.com/geosketch/geosketch/sphere"
)

var (
	//go:embed scenes/*.json
	embeddedScenesJSONFS embed.FS
	embeddedScenesCache  = make(map[string]*Scene)
)

// Kind tells which geometry operation a canvas feeds.
type Kind string

const (
	// Points is an unordered point set for convex hull building.
	Points Kind = "points"
	// Ring is an ordered simple polygon ring for triangulation.
	Ring Kind = "ring"
	// Segments is a set of bounded segments for pairwise intersection testing.
	Segments Kind = "segments"
	// Lines is a set of slope-intercept lines whose arrangement is
	// intersected within the canvas window.
	Lines Kind = "lines"
	// Sphere is a set of latitude/longitude pairs for geodesic interpolation.
	Sphere Kind = "sphere"
)

// Scene is a sketch document. Canvases keep their document order.
type Scene struct {
	ID          string `validate:"required" json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Canvases    *orderedmap.OrderedMap[string, Canvas] `validate:"required" json:"-"`
}

func (s *Scene) UnmarshalJSON(data []byte) error {
	err := defaults.Set(s)
	if err != nil {
		return err
	}

	specials, err := marshmallow.Unmarshal(data, s, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return err
	}

	rawCanvases, ok := specials["canvases"]
	if !ok {
		return fmt.Errorf(`missing key "canvases"`)
	}
	s.Canvases, err = unmarshalCanvases(rawCanvases)
	if err != nil {
		return err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	err = validate.Struct(s)
	if err != nil {
		return err
	}
	for pair := s.Canvases.Oldest(); pair != nil; pair = pair.Next() {
		canvas := pair.Value
		if err := canvas.validateInputSet(); err != nil {
			return fmt.Errorf("canvas %v: %w", pair.Key, err)
		}
	}
	return nil
}

// Canvas holds the input set for one geometry operation. Which fields are
// meaningful depends on the Kind; validateInputSet enforces the minimum
// input shape per kind.
type Canvas struct {
	ID   string `validate:"required" json:"id"`
	Kind Kind   `validate:"required,oneof=points ring segments lines sphere" json:"kind"`
	// Points carries the point set for points canvases and the vertex loop
	// for ring canvases.
	Points   [][2]float64          `json:"points,omitempty"`
	Segments []Segment             `json:"segments,omitempty"`
	Lines    []intersect.SlopeLine `json:"lines,omitempty"`
	// Window is the viewport arrangement intersections must fall in.
	Window Window `json:"window"`
	// Radius is the sphere radius for sphere canvases.
	Radius float64 `default:"200" validate:"gt=0" json:"radius,omitempty"`
	// Steps is the number of interpolation steps per geodesic path.
	Steps int    `default:"64" validate:"gte=1" json:"steps,omitempty"`
	Pairs []Pair `validate:"dive" json:"pairs,omitempty"`
}

func (c *Canvas) UnmarshalJSON(data []byte) error {
	return UnmarshalJSONMapUsingUnmarshalJSONFromMap(c, data)
}

func (c *Canvas) UnmarshalJSONFromMap(data interface{}) error {
	err := defaults.Set(c)
	if err != nil {
		return err
	}

	dataMap, ok := data.(map[string]interface{})
	if !ok {
		return fmt.Errorf(`data is not a map but a %T`, data)
	}

	_, err = marshmallow.UnmarshalFromJSONMap(dataMap, c, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	return validate.Struct(c)
}

// validateInputSet checks the minimum input shape per canvas kind.
func (c *Canvas) validateInputSet() error {
	switch c.Kind {
	case Points:
		if len(c.Points) < 1 {
			return fmt.Errorf(`a %q canvas needs at least 1 point`, c.Kind)
		}
	case Ring:
		if len(c.Points) < 3 {
			return fmt.Errorf(`a %q canvas needs at least 3 points, got %d`, c.Kind, len(c.Points))
		}
	case Segments:
		if len(c.Segments) < 2 {
			return fmt.Errorf(`a %q canvas needs at least 2 segments, got %d`, c.Kind, len(c.Segments))
		}
	case Lines:
		if len(c.Lines) < 2 {
			return fmt.Errorf(`a %q canvas needs at least 2 lines, got %d`, c.Kind, len(c.Lines))
		}
	case Sphere:
		if len(c.Pairs) < 1 {
			return fmt.Errorf(`a %q canvas needs at least 1 pair`, c.Kind)
		}
	}
	return nil
}

func unmarshalCanvases(rawCanvases interface{}) (*orderedmap.OrderedMap[string, Canvas], error) {
	rawCanvasesList, ok := rawCanvases.([]interface{})
	if !ok {
		return nil, fmt.Errorf(`"canvases" should be an array`)
	}
	canvases := orderedmap.New[string, Canvas](len(rawCanvasesList))
	for _, rawCanvas := range rawCanvasesList {
		var canvas Canvas
		err := canvas.UnmarshalJSONFromMap(rawCanvas)
		if err != nil {
			return nil, err
		}
		if _, exists := canvases.Get(canvas.ID); exists {
			return nil, fmt.Errorf(`duplicate canvas id %q`, canvas.ID)
		}
		canvases.Set(canvas.ID, canvas)
	}
	return canvases, nil
}

// Segment is a bounded segment with both endpoints set.
type Segment struct {
	Start [2]float64 `json:"start"`
	End   [2]float64 `json:"end"`
}

func (s Segment) ToGeomLine() geom.Line {
	return geom.Line{s.Start, s.End}
}

// Window is an axis-aligned viewport anchored at the origin.
type Window struct {
	Width  float64 `default:"800" validate:"gt=0" json:"width"`
	Height float64 `default:"500" validate:"gt=0" json:"height"`
}

func (w Window) ToGeomExtent() geom.Extent {
	return geom.Extent{0, 0, w.Width, w.Height}
}

// Pair is a start and end position for one geodesic path, in degrees.
type Pair struct {
	Start LatLng `json:"start"`
	End   LatLng `json:"end"`
}

// LatLng is a position on a sphere's surface in degrees.
type LatLng struct {
	Lat float64 `validate:"gte=-90,lte=90" json:"lat"`
	Lng float64 `validate:"gte=-180,lte=180" json:"lng"`
}

// OnSphere places the position on a sphere of the given radius.
func (ll LatLng) OnSphere(radius float64) sphere.Point {
	return sphere.PointFromDegrees(ll.Lat, ll.Lng, radius)
}

// LoadJSONScene loads and validates a scene document from disk.
func LoadJSONScene(path string) (Scene, error) {
	var s Scene
	sceneJSON, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	err = json.Unmarshal(sceneJSON, &s)
	if err != nil {
		return s, err
	}
	return s, nil
}

// LoadEmbeddedScene loads one of the built-in scene documents by id.
func LoadEmbeddedScene(id string) (Scene, error) {
	var s Scene
	cached, ok := embeddedScenesCache[id]
	if ok {
		return *cached, nil
	}
	sceneJSON, err := embeddedScenesJSONFS.ReadFile("scenes/" + id + ".json")
	if err != nil {
		return s, err
	}
	err = json.Unmarshal(sceneJSON, &s)
	if err != nil {
		return s, err
	}
	embeddedScenesCache[id] = &s
	return s, nil
}

// EmbeddedSceneIDs lists the ids of the built-in scene documents.
func EmbeddedSceneIDs() []string {
	entries, err := embeddedScenesJSONFS.ReadDir("scenes")
	if err != nil {
		panic(err)
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return ids
}

func UnmarshalJSONMapUsingUnmarshalJSONFromMap(target marshmallow.UnmarshalerFromJSONMap, data []byte) error {
	var dataMap map[string]interface{}
	err := json.Unmarshal(data, &dataMap)
	if err != nil {
		return err
	}
	return target.UnmarshalJSONFromMap(dataMap)
}

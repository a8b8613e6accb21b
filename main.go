package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/carlmjohnson/versioninfo"
	"github.com/go-spatial/geom"
	gpkgenc "github.com/go-spatial/geom/encoding/gpkg"
	"github.com/iancoleman/strcase"
	"github.com/urfave/cli/v2"

	"github.com/geosketch/geosketch/earclip"
	"github.com/geosketch/geosketch/geomhelp"
	"github.com/geosketch/geosketch/hull"
	"github.com/geosketch/geosketch/intersect"
	"github.com/geosketch/geosketch/mapslicehelp"
	"github.com/geosketch/geosketch/processing"
	"github.com/geosketch/geosketch/processing/gpkg"
	"github.com/geosketch/geosketch/scene"
	"github.com/geosketch/geosketch/sphere"
)

const SOURCE string = `sourceGpkg`
const TARGET string = `targetGpkg`
const OVERWRITE string = `overwrite`
const PAGESIZE string = `pagesize`
const SCENE string = `scene`
const CANVAS string = `canvas`
const STEPS string = `steps`

// wktMaxLen keeps logged geometries readable
const wktMaxLen = 120

//nolint:funlen
func main() {
	app := cli.NewApp()
	app.Name = "geosketch"
	app.Usage = "A Golang computational geometry sketching application"
	app.Version = versioninfo.Short()

	gpkgFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     SOURCE,
			Aliases:  []string{"s"},
			Usage:    "Source GPKG",
			Required: true,
			EnvVars:  []string{strcase.ToScreamingSnake(SOURCE)},
		},
		&cli.StringFlag{
			Name:     TARGET,
			Aliases:  []string{"t"},
			Usage:    "Target GPKG",
			Required: true,
			EnvVars:  []string{strcase.ToScreamingSnake(TARGET)},
		},
		&cli.BoolFlag{
			Name:     OVERWRITE,
			Aliases:  []string{"o"},
			Usage:    "Overwrite the target GPKG if it exists",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(OVERWRITE)},
		},
		&cli.IntFlag{
			Name:     PAGESIZE,
			Aliases:  []string{"p"},
			Usage:    "Page Size, how many features are written per transaction to the target GPKG",
			Value:    1000,
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(PAGESIZE)},
		},
	}

	sceneFlag := &cli.StringFlag{
		Name:     SCENE,
		Usage:    `Scene document: a path to a JSON file or the ID of a built-in scene. E.g.: showcase`,
		Required: true,
		EnvVars:  []string{strcase.ToScreamingSnake(SCENE)},
	}
	canvasFlag := &cli.StringFlag{
		Name:     CANVAS,
		Usage:    "ID of the canvas in the scene to run",
		Required: true,
		EnvVars:  []string{strcase.ToScreamingSnake(CANVAS)},
	}

	app.Commands = []*cli.Command{
		{
			Name:  "triangulate",
			Usage: "Triangulate the polygon features in a GeoPackage by ear clipping",
			Flags: gpkgFlags,
			Action: func(c *cli.Context) error {
				return runGeopackage(c, "triangulating", earclip.ToTriangles, gpkgenc.MultiPolygon)
			},
		},
		{
			Name:  "hull",
			Usage: "Replace the features in a GeoPackage by the convex hulls of their vertices",
			Flags: gpkgFlags,
			Action: func(c *cli.Context) error {
				return runGeopackage(c, "hulling", hull.ToHulls, gpkgenc.Polygon)
			},
		},
		{
			Name:  "intersect",
			Usage: "Report the pairwise intersections of a segments canvas",
			Flags: []cli.Flag{sceneFlag, canvasFlag},
			Action: func(c *cli.Context) error {
				canvas, err := loadCanvas(c, scene.Segments)
				if err != nil {
					return err
				}
				return runCanvas(canvas)
			},
		},
		{
			Name:  "arrange",
			Usage: "Report the arrangement intersections of a lines canvas within its window",
			Flags: []cli.Flag{sceneFlag, canvasFlag},
			Action: func(c *cli.Context) error {
				canvas, err := loadCanvas(c, scene.Lines)
				if err != nil {
					return err
				}
				return runCanvas(canvas)
			},
		},
		{
			Name:  "geodesic",
			Usage: "Interpolate the great-circle paths of a sphere canvas",
			Flags: []cli.Flag{sceneFlag, canvasFlag,
				&cli.IntFlag{
					Name:    STEPS,
					Usage:   "Number of interpolation steps per path, overrides the canvas' steps",
					EnvVars: []string{strcase.ToScreamingSnake(STEPS)},
				},
			},
			Action: func(c *cli.Context) error {
				canvas, err := loadCanvas(c, scene.Sphere)
				if err != nil {
					return err
				}
				if c.IsSet(STEPS) {
					canvas.Steps = c.Int(STEPS)
				}
				return runCanvas(canvas)
			},
		},
		{
			Name:  "sketch",
			Usage: "Run every canvas of a scene in document order",
			Flags: []cli.Flag{sceneFlag},
			Action: func(c *cli.Context) error {
				s, err := loadScene(c)
				if err != nil {
					return err
				}
				log.Printf("=== start sketching %s ===", s.ID)
				for pair := s.Canvases.Oldest(); pair != nil; pair = pair.Next() {
					// a failing canvas never takes the rest of the scene down
					if err := runCanvas(pair.Value); err != nil {
						log.Printf("  %s: skipped: %v", pair.Key, err)
					}
				}
				log.Printf("=== done sketching %s ===", s.ID)
				return nil
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

// runGeopackage streams every table of the source GeoPackage through the
// given per-feature operation into the target GeoPackage.
func runGeopackage(c *cli.Context, name string, run func(processing.Source, processing.Target), gtype gpkgenc.GeometryType) error {
	_, err := os.Stat(c.String(SOURCE))
	if os.IsNotExist(err) {
		log.Fatalf("error opening source GeoPackage: %s", err)
	}

	source := gpkg.SourceGeopackage{}
	source.Init(c.String(SOURCE))
	defer source.Close()

	if c.Bool(OVERWRITE) {
		removeIfExists(c.String(TARGET))
	}
	target := gpkg.TargetGeopackage{}
	target.Init(c.String(TARGET), c.Int(PAGESIZE))
	defer target.Close()

	tables := source.GetTableInfo()
	targetTables := make([]gpkg.Table, len(tables))
	for i, table := range tables {
		targetTables[i] = table.ForGeometryType(gtype)
	}
	err = target.CreateTables(targetTables)
	if err != nil {
		log.Fatalf("error initializing the target GeoPackage: %s", err)
	}

	log.Printf("=== start %s ===", name)

	for i, table := range tables {
		log.Printf("  %s %s", name, table.Name)
		source.Table = table
		target.Table = targetTables[i]
		run(source, target)
		log.Printf("  finished %s", table.Name)
	}

	log.Printf("=== done %s ===", name)
	return nil
}

func removeIfExists(path string) {
	err := os.Remove(path)
	var pathError *os.PathError
	if err != nil {
		if !(errors.As(err, &pathError) && errors.Is(pathError.Err, syscall.ENOENT)) {
			log.Fatalf("could not remove target file: %e", err)
		}
	}
}

func loadScene(c *cli.Context) (scene.Scene, error) {
	ref := c.String(SCENE)
	if _, err := os.Stat(ref); err == nil {
		return scene.LoadJSONScene(ref)
	}
	return scene.LoadEmbeddedScene(ref)
}

func loadCanvas(c *cli.Context, kind scene.Kind) (scene.Canvas, error) {
	s, err := loadScene(c)
	if err != nil {
		return scene.Canvas{}, err
	}
	id := c.String(CANVAS)
	canvas, ok := s.Canvases.Get(id)
	if !ok {
		return scene.Canvas{}, fmt.Errorf("no canvas %q in scene %q, have: %v",
			id, s.ID, strings.Join(mapslicehelp.OrderedMapKeys(s.Canvases), ", "))
	}
	if canvas.Kind != kind {
		return scene.Canvas{}, fmt.Errorf("canvas %q is of kind %q, need %q", id, canvas.Kind, kind)
	}
	return canvas, nil
}

// runCanvas computes and logs the derived structure of one canvas.
func runCanvas(canvas scene.Canvas) error {
	switch canvas.Kind {
	case scene.Points:
		h := hull.ConvexHull(canvas.Points)
		if len(h) < 3 {
			return fmt.Errorf("%w: %d points make no hull", hull.ErrTooFewPoints, len(canvas.Points))
		}
		log.Printf("  %s: hull of %d points: %s",
			canvas.ID, len(canvas.Points), geomhelp.WktMustEncode(geom.Polygon{h}, wktMaxLen))
	case scene.Ring:
		triangles, err := earclip.GeometryOp(geom.Polygon{canvas.Points})
		if err != nil {
			return err
		}
		log.Printf("  %s: %d triangles, area %v: %s",
			canvas.ID, len(triangles.(geom.MultiPolygon)), geomhelp.Shoelace(canvas.Points),
			geomhelp.WktMustEncode(triangles, wktMaxLen))
	case scene.Segments:
		var crossings geom.MultiPoint
		for i := 0; i < len(canvas.Segments); i++ {
			for j := i + 1; j < len(canvas.Segments); j++ {
				pt, ok := intersect.Segments(canvas.Segments[i].ToGeomLine(), canvas.Segments[j].ToGeomLine())
				if ok {
					crossings = append(crossings, pt)
				}
			}
		}
		if len(crossings) == 0 {
			log.Printf("  %s: no crossings among %d segments", canvas.ID, len(canvas.Segments))
			break
		}
		log.Printf("  %s: %d crossings: %s",
			canvas.ID, len(crossings), geomhelp.WktMustEncode(crossings, wktMaxLen))
	case scene.Lines:
		points := intersect.Arrangement(canvas.Lines, canvas.Window.ToGeomExtent())
		crossings := make(geom.MultiPoint, len(points))
		for i, pt := range points {
			crossings[i] = pt
		}
		log.Printf("  %s: %d arrangement intersections in window: %s",
			canvas.ID, len(points), geomhelp.WktMustEncode(crossings, wktMaxLen))
	case scene.Sphere:
		for _, pair := range canvas.Pairs {
			path, err := sphere.GeodesicPath(
				pair.Start.OnSphere(canvas.Radius), pair.End.OnSphere(canvas.Radius), canvas.Steps)
			if err != nil {
				return err
			}
			ls := make(geom.LineString, len(path.Points))
			for i, p := range path.Points {
				ls[i] = [2]float64{p.Lng.Degrees(), p.Lat.Degrees()}
			}
			log.Printf("  %s: arc %v, chord %v: %s",
				canvas.ID, path.ArcLength, path.ChordLength, geomhelp.WktMustEncode(ls, wktMaxLen))
		}
	default:
		return fmt.Errorf("unknown canvas kind %q", canvas.Kind)
	}
	return nil
}

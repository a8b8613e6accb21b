package processing

import (
	"github.com/go-spatial/geom"
)

type Feature interface {
	Columns() []interface{}
	Geometry() geom.Geometry
}

type Source interface {
	ReadFeatures(chan<- Feature)
}

type Target interface {
	WriteFeatures(<-chan Feature)
}

// OperateFunc derives a new geometry from a feature's geometry.
// An error drops the feature but never stops the pipeline.
type OperateFunc func(g geom.Geometry) (geom.Geometry, error)

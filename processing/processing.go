// Package processing takes care of the logistics around reading features
// from a Source, deriving new geometries and writing them to a Target.
// Not the geometry operation(s) itself.
package processing

import (
	"log"
	"sync"

	"github.com/go-spatial/geom"
)

// ProcessFeatures streams the source's features through the operate
// function into the target. Reading, processing and writing run in their
// own goroutines connected by channels; the call returns when the target
// has written the last feature.
func ProcessFeatures(source Source, target Target, operate OperateFunc) {
	featuresIn := make(chan Feature)
	featuresOut := make(chan Feature)

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		target.WriteFeatures(featuresOut)
	}()
	go processFeatures(featuresIn, featuresOut, operate)
	go source.ReadFeatures(featuresIn)

	wg.Wait()
}

// processFeatures derives a new geometry for each feature. Features whose
// derivation fails are logged and dropped; prior results stay untouched.
func processFeatures(featuresIn <-chan Feature, featuresOut chan<- Feature, operate OperateFunc) {
	var preCount, failedCount uint64
	for {
		feature, hasMore := <-featuresIn
		if !hasMore {
			break
		}
		preCount++
		newGeometry, err := operate(feature.Geometry())
		if err != nil {
			failedCount++
			log.Printf("    skipping feature: %v", err)
			continue
		}
		featuresOut <- wrapFeature(feature, newGeometry)
	}
	close(featuresOut)

	log.Printf("    total features: %d", preCount)
	if failedCount > 0 {
		log.Printf("           skipped: %d", failedCount)
	}
	log.Printf("              kept: %d", preCount-failedCount)
}

type featureWrapper struct {
	wrapped     Feature
	newGeometry geom.Geometry
}

func (f *featureWrapper) Columns() []interface{} {
	return f.wrapped.Columns()
}

func (f *featureWrapper) Geometry() geom.Geometry {
	if f.newGeometry == nil {
		return f.wrapped.Geometry()
	}
	return f.newGeometry
}

func wrapFeature(feature Feature, newGeometry geom.Geometry) Feature {
	return &featureWrapper{
		wrapped:     feature,
		newGeometry: newGeometry,
	}
}

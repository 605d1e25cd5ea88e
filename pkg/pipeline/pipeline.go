// Package pipeline loads heterogeneous sources into normalized,
// geometry-bearing record sets with a combined spatial extent. Per-source
// failures are isolated: one bad source never prevents its siblings from
// loading.
package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"gis-tools/pkg/geom"
	"gis-tools/pkg/recordset"
	"gis-tools/pkg/source"

	"golang.org/x/sync/errgroup"
)

// State tracks a source through the load lifecycle.
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateLoaded   State = "loaded"
	StateFailed   State = "failed"
	StateFiltered State = "filtered"
)

// Layer is one successfully loaded source: a record set plus its own
// spatial extent.
type Layer struct {
	Name    string
	Set     *recordset.RecordSet
	Bounds  geom.BoundingBox
	State   State
	Dropped int
}

// SourceFailure reports one failed source alongside its reason.
type SourceFailure struct {
	Source string
	Err    error
}

// Result aggregates a multi-source load: loaded layers in descriptor order,
// the failures, and the union of all layer bounds.
type Result struct {
	Layers   []Layer
	Failures []SourceFailure
	Bounds   geom.BoundingBox
}

// Options configures a Pipeline.
type Options struct {
	// Workers bounds the fan-out across sources. Zero means sequential.
	Workers int
	// FetchTimeout bounds each remote read.
	FetchTimeout time.Duration
}

// LoadOptions apply to a single Load call.
type LoadOptions struct {
	// LatColumn and LonColumn override inferred coordinate columns for
	// tabular sources. Empty means infer.
	LatColumn string
	LonColumn string
}

// Pipeline is a synchronous ingestion pipeline. Every stage is a pure
// function over immutable inputs; record sets and bounding boxes are value
// types safely shared read-only across the workers.
type Pipeline struct {
	reader  *source.Reader
	workers int
}

func New(opts Options) *Pipeline {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Pipeline{
		reader:  source.NewReader(opts.FetchTimeout),
		workers: workers,
	}
}

// Load reads every descriptor, builds point geometries for tabular sources,
// and computes the combined bounds. Failed sources are collected, not
// propagated; the returned error is non-nil only when the context is
// cancelled.
func (p *Pipeline) Load(ctx context.Context, descs []source.Descriptor, opts LoadOptions) (*Result, error) {
	type slot struct {
		layer Layer
		err   error
	}
	slots := make([]slot, len(descs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, d := range descs {
		g.Go(func() error {
			layer, err := p.loadOne(ctx, d, opts)
			slots[i] = slot{layer: layer, err: err}
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Bounds: geom.EmptyBox()}
	for i, s := range slots {
		if s.err != nil {
			log.Printf("source %s failed: %v", descs[i].Name, s.err)
			result.Failures = append(result.Failures, SourceFailure{
				Source: descs[i].Name,
				Err:    s.err,
			})
			continue
		}
		result.Layers = append(result.Layers, s.layer)
		result.Bounds = result.Bounds.Union(s.layer.Bounds)
	}

	return result, nil
}

// ErrNoCoordinateColumns is returned for a tabular source when neither
// inference nor an explicit override resolves both coordinate columns.
var ErrNoCoordinateColumns = errors.New("pipeline: latitude/longitude columns not found")

func (p *Pipeline) loadOne(ctx context.Context, d source.Descriptor, opts LoadOptions) (Layer, error) {
	layer := Layer{Name: d.Name, State: StateLoading}

	rs, err := p.reader.Read(ctx, d)
	if err != nil {
		layer.State = StateFailed
		return layer, err
	}

	// Tabular path: infer or override coordinate columns, then build
	// point geometries. Native geospatial sets pass through.
	if !rs.HasGeometry() {
		latCol, lonCol := source.InferCoordinateColumns(rs.Schema().Columns())
		if opts.LatColumn != "" {
			latCol = opts.LatColumn
		}
		if opts.LonColumn != "" {
			lonCol = opts.LonColumn
		}
		if latCol == "" || lonCol == "" {
			layer.State = StateFailed
			return layer, ErrNoCoordinateColumns
		}

		built, dropped, err := source.BuildPoints(rs, latCol, lonCol)
		if err != nil {
			layer.State = StateFailed
			return layer, err
		}
		if dropped > 0 {
			log.Printf("source %s: dropped %d rows with missing coordinates", d.Name, dropped)
		}
		rs = built
		layer.Dropped = dropped
	}

	bounds, err := rs.Bounds()
	if err != nil {
		layer.State = StateFailed
		return layer, err
	}

	layer.Set = rs
	layer.Bounds = bounds
	layer.State = StateLoaded
	return layer, nil
}

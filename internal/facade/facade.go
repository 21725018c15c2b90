// Package facade is the thin per-entity service surface chronograph
// exposes to callers (spec §4.6): one method per operation, each
// bracketed by a session via Runner so every call is atomic regardless
// of backend. The facade never contains cascade logic itself — every
// write delegates to internal/engine; every read-model query delegates
// to internal/graphview. Its only job is transaction bracketing and,
// for the graph queries, building a throwaway read-only snapshot.
package facade

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/chronograph-db/chronograph/internal/obslog"
	"github.com/chronograph-db/chronograph/internal/storage"
)

// Runner brackets one call to fn in a session acquired from factory,
// committing on success and rolling back otherwise. storage.RunInSession
// is the default; a caller can pass sqlstore.RunWithRetry instead for a
// backend that can report serialization conflicts worth retrying above
// the engine (spec §4.4 forbids retrying inside it). cmd/chronograph
// always uses the default.
type Runner func(ctx context.Context, factory storage.SessionFactory, fn func(storage.Session) error) error

// Facade bundles the Node, Edge, Component, and Graph service surfaces
// over one backend.
type Facade struct {
	Node      *NodeService
	Edge      *EdgeService
	Component *ComponentService
	Graph     *GraphService
}

// New builds a Facade over factory. A nil run defaults to
// storage.RunInSession. Every call made through the returned Facade is
// wrapped in a tracing span and an operation-duration metric (spec's
// ambient observability stack), regardless of which service method is
// invoked — one span per facade call, per SPEC_FULL.md.
func New(factory storage.SessionFactory, run Runner) *Facade {
	if run == nil {
		run = storage.RunInSession
	}
	run = instrument(run)
	return &Facade{
		Node:      &NodeService{factory: factory, run: run},
		Edge:      &EdgeService{factory: factory, run: run},
		Component: &ComponentService{factory: factory, run: run},
		Graph:     &GraphService{factory: factory, run: run},
	}
}

// instrument wraps run with a tracing span and a duration metric
// recording. Grounded on the teacher's internal/storage/dolt/store.go
// endSpan helper: record the error (if any) on the span and set its
// status, then always End it.
func instrument(run Runner) Runner {
	return func(ctx context.Context, factory storage.SessionFactory, fn func(storage.Session) error) error {
		ctx, span := obslog.Tracer().Start(ctx, "facade.call")
		start := time.Now()
		err := run(ctx, factory, fn)
		obslog.Metrics.OperationMs.Record(ctx, float64(time.Since(start).Milliseconds()),
			metric.WithAttributes(attribute.Bool("error", err != nil)))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		return err
	}
}

/*
Package compiler wires the lexer, grammar matcher, AST builder, and
two-stage resolver into a single driver (spec §4.8/§5/§6): a
configurable Options/Option pair, composable per-unit transforms, and a
Driver that schedules namespace discovery, loading, and resolution.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 dhickel

*/
package compiler

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/dhickel/lyra-sub000/env"
)

// Options configures a Driver via a small functional-options pattern: a
// zero-value Options is never constructed directly by a caller outside
// this package — NewDriver always takes a Loader plus zero or more
// Option values layered on top of sane defaults.
type Options struct {
	Loader         env.Loader
	MaxErrors      int
	WorkerPoolSize int
	TraceLevel     tracing.TraceLevel
}

// Option mutates an Options value being built up by NewDriver.
type Option func(*Options)

// WithLoader sets the single IO boundary the driver uses to fetch a
// namespace's compilation units (spec §6). Required — NewDriver panics
// without one, since every other transform in the pipeline is pure and
// has nothing to read from otherwise.
func WithLoader(l env.Loader) Option {
	return func(o *Options) { o.Loader = l }
}

// WithMaxErrors caps how many non-fatal errors the driver accumulates
// across a Compile run before it stops early. Zero (the default) means
// unbounded.
func WithMaxErrors(n int) Option {
	return func(o *Options) { o.MaxErrors = n }
}

// WithWorkerPoolSize bounds how many namespaces of one discovery level
// (Stage 1) or of one topological layer (Stage 2) the driver processes
// concurrently (spec §5); the layers themselves run one after another. A size
// of 1 runs everything sequentially, which is always a legal schedule
// per spec §1: "the core must not require concurrency of compilation."
func WithWorkerPoolSize(n int) Option {
	return func(o *Options) { o.WorkerPoolSize = n }
}

// WithTraceLevel sets the trace level every package's tracer() selects
// into, for the duration of a Compile run driven by this Driver.
func WithTraceLevel(level tracing.TraceLevel) Option {
	return func(o *Options) { o.TraceLevel = level }
}

func newOptions(opts ...Option) *Options {
	o := &Options{WorkerPoolSize: 1, TraceLevel: tracing.LevelInfo}
	for _, apply := range opts {
		apply(o)
	}
	if o.Loader == nil {
		panic("compiler: NewDriver requires a Loader (compiler.WithLoader)")
	}
	if o.WorkerPoolSize < 1 {
		o.WorkerPoolSize = 1
	}
	return o
}

package rig

import (
	"fmt"
	"io"
)

// Facade is the thin orchestration tying together a BlueprintReader, the
// Resolver, and the Assembler (spec.md §2: "Facade — thin orchestration
// tying loader → resolver → assembler → container").
type Facade struct {
	registry TypeRegistry
	reader   BlueprintReader
	opts     *facadeOptions
}

// NewFacade builds a Facade over a populated TypeRegistry and a
// BlueprintReader, applying the given Options.
func NewFacade(registry TypeRegistry, reader BlueprintReader, options ...Option) *Facade {
	opts := defaultFacadeOptions()
	for _, opt := range options {
		opt(opts)
	}
	return &Facade{registry: registry, reader: reader, opts: opts}
}

// Assemble reads every source with the configured reader, then resolves and
// assembles the union of the resulting blueprints against externals. It
// returns a partial Container even on failure — callers always see
// (container, aggregate-or-nil) per spec.md §7.
func (f *Facade) Assemble(sources []io.Reader, externals []*ExternalObject) (Container, *Aggregate) {
	agg := NewAggregate()
	sink := NewErrorSink()

	var blueprints []*Blueprint
	for _, source := range sources {
		parsed, err := f.reader.Read(source, sink)
		if err != nil {
			agg.Add(errDocument("reading blueprint source", err))
			return newMemContainer(), agg
		}
		blueprints = append(blueprints, parsed...)
	}

	if threshold := f.blockingSeverity(); hasSeverityAtLeast(sink, threshold) {
		for _, e := range sink.Entries() {
			if e.Severity >= threshold {
				agg.Add(errDocument(e.Message, e.Cause))
			}
		}
		return newMemContainer(), agg
	}

	if f.opts.maxParts > 0 {
		total := 0
		for _, bp := range blueprints {
			total += len(bp.Parts)
		}
		if total > f.opts.maxParts {
			agg.Add(errDocument(fmt.Sprintf("blueprint union declares %d parts, exceeding the configured maximum of %d", total, f.opts.maxParts), nil))
			return newMemContainer(), agg
		}
	}

	resolver := NewResolver(f.opts.logger)
	model, resolveDiags := resolver.Resolve(blueprints, externals)
	agg.Merge(resolveDiags)

	assembler := NewAssembler(f.registry, f.opts.coercer, f.opts.logger, f.opts.observers...)
	container, assembleDiags := assembler.Assemble(model)
	agg.Merge(assembleDiags)

	return container, agg
}

// blockingSeverity returns the minimum SinkEntry severity that aborts the
// read stage: SeverityWarning when WithStrict(true) was supplied, else the
// default SeverityError (spec.md §6: "warning never aborts... unless the
// facade was configured to treat warnings as blocking").
func (f *Facade) blockingSeverity() Severity {
	if f.opts.strict {
		return SeverityWarning
	}
	return SeverityError
}

func hasSeverityAtLeast(sink ErrorSink, threshold Severity) bool {
	for _, e := range sink.Entries() {
		if e.Severity >= threshold {
			return true
		}
	}
	return false
}

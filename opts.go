package rig

// Option configures a Facade using the functional-options convention,
// generalised here to facade-level tuning.
type Option func(*facadeOptions)

type facadeOptions struct {
	logger    Logger
	coercer   Coercer
	strict    bool
	maxParts  int
	observers []AssemblyObserver
}

func defaultFacadeOptions() *facadeOptions {
	return &facadeOptions{
		logger:   NewNopLogger(),
		coercer:  NewCoercer(),
		maxParts: 0, // 0 == unlimited
	}
}

// WithLogger wires a Logger the pipeline logs structured diagnostics through.
func WithLogger(logger Logger) Option {
	return func(o *facadeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCoercer overrides the default Coercer, e.g. to add parsers for
// house-specific scalar types before assembly runs.
func WithCoercer(coercer Coercer) Option {
	return func(o *facadeOptions) {
		if coercer != nil {
			o.coercer = coercer
		}
	}
}

// WithStrict makes the facade treat reader warnings as blocking, not just
// reader errors/fatals (spec.md §6 only requires aborting on
// error/fatal by default).
func WithStrict(strict bool) Option {
	return func(o *facadeOptions) {
		o.strict = strict
	}
}

// WithMaxParts caps the number of parts a single Assemble call will accept
// across the union of blueprints, guarding a host against an accidentally
// enormous or adversarial document set. Zero (the default) means unlimited.
func WithMaxParts(n int) Option {
	return func(o *facadeOptions) {
		o.maxParts = n
	}
}

// WithObserver adds an AssemblyObserver invoked around every node's
// construction attempt, in registration order.
func WithObserver(observer AssemblyObserver) Option {
	return func(o *facadeOptions) {
		if observer != nil {
			o.observers = append(o.observers, observer)
		}
	}
}

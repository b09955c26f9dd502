package rig

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// =============================================================================
// ERROR TAXONOMY (spec.md §7)
// =============================================================================

const (
	// CodeInvalidDescriptor indicates a host-type contract violation discovered
	// before any blueprint work (D1-D3 in spec.md §4.1).
	CodeInvalidDescriptor = "INVALID_DESCRIPTOR"

	// CodeDocumentError indicates a reader's syntax/schema issue.
	CodeDocumentError = "DOCUMENT_ERROR"

	// CodeReferenceError indicates an unresolved name/id/uri, a duplicate
	// scheme, a duplicate name/id, or an external-part mismatch.
	CodeReferenceError = "REFERENCE_ERROR"

	// CodeCycleError indicates the dependency graph is not a DAG.
	CodeCycleError = "CYCLE_ERROR"

	// CodeMissingValue indicates a required feature or property has no value.
	CodeMissingValue = "MISSING_VALUE"

	// CodeTypeMismatch indicates a value could not be coerced to the declared type.
	CodeTypeMismatch = "TYPE_MISMATCH"

	// CodeConstructionFailure indicates the host constructor raised.
	CodeConstructionFailure = "CONSTRUCTION_FAILURE"

	// CodePropertyFailure indicates a setter raised.
	CodePropertyFailure = "PROPERTY_FAILURE"

	// CodeNotificationFailure indicates the post-set notification raised.
	CodeNotificationFailure = "NOTIFICATION_FAILURE"
)

// =============================================================================
// DIAGNOSTIC
// =============================================================================

// Diagnostic is a single structural defect discovered during one stage of the
// assembly pipeline. Every public error constructor in this package returns a
// *Diagnostic so callers can switch on Code rather than parse messages.
type Diagnostic struct {
	Code    string
	Message string
	Cause   error
	Part    PartID // empty if the diagnostic is not attributable to one part
	Context map[string]any
}

// NewDiagnostic builds a diagnostic with no part attribution.
func NewDiagnostic(code, message string, cause error) *Diagnostic {
	return &Diagnostic{Code: code, Message: message, Cause: cause}
}

// WithPart attributes the diagnostic to a part and returns the receiver for chaining.
func (d *Diagnostic) WithPart(id PartID) *Diagnostic {
	d.Part = id
	return d
}

// WithContext adds a context key and returns the receiver for chaining.
func (d *Diagnostic) WithContext(key string, value any) *Diagnostic {
	if d.Context == nil {
		d.Context = make(map[string]any)
	}
	d.Context[key] = value
	return d
}

// Error implements error.
func (d *Diagnostic) Error() string {
	if d.Part != "" {
		return fmt.Sprintf("[%s] part %s: %s", d.Code, d.Part, d.Message)
	}
	return fmt.Sprintf("[%s] %s", d.Code, d.Message)
}

// Unwrap exposes the underlying cause, if any.
func (d *Diagnostic) Unwrap() error {
	return d.Cause
}

// =============================================================================
// DIAGNOSTIC CONSTRUCTORS
// =============================================================================

func errInvalidDescriptor(message string, cause error) *Diagnostic {
	return NewDiagnostic(CodeInvalidDescriptor, message, cause)
}

func errDocument(message string, cause error) *Diagnostic {
	return NewDiagnostic(CodeDocumentError, message, cause)
}

func errReference(part PartID, message string) *Diagnostic {
	return NewDiagnostic(CodeReferenceError, message, nil).WithPart(part)
}

func errCycle(participants []PartID) *Diagnostic {
	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = string(p)
	}
	return NewDiagnostic(CodeCycleError,
		fmt.Sprintf("circular dependency detected among: %s", strings.Join(names, ", ")), nil).
		WithContext("participants", participants)
}

func errMissingValue(part PartID, slot string) *Diagnostic {
	return NewDiagnostic(CodeMissingValue,
		fmt.Sprintf("required value %q is absent", slot), nil).
		WithPart(part).WithContext("slot", slot)
}

func errTypeMismatch(part PartID, slot string, cause error) *Diagnostic {
	return NewDiagnostic(CodeTypeMismatch,
		fmt.Sprintf("value for %q could not be coerced to the declared type", slot), cause).
		WithPart(part).WithContext("slot", slot)
}

func errConstruction(part PartID, cause error) *Diagnostic {
	return NewDiagnostic(CodeConstructionFailure, "constructor raised", cause).WithPart(part)
}

func errProperty(part PartID, name string, cause error) *Diagnostic {
	return NewDiagnostic(CodePropertyFailure,
		fmt.Sprintf("setter for property %q raised", name), cause).
		WithPart(part).WithContext("property", name)
}

func errNotification(part PartID, cause error) *Diagnostic {
	return NewDiagnostic(CodeNotificationFailure, "properties-set notification raised", cause).WithPart(part)
}

// =============================================================================
// AGGREGATE
// =============================================================================

// Aggregate collects every diagnostic raised during a stage without aborting
// the stage itself (spec.md §7: "All others are per-part and collected").
// It wraps go.uber.org/multierr so the underlying combination, flattening and
// formatting logic is never hand-rolled.
type Aggregate struct {
	combined error
}

// NewAggregate returns an empty aggregate.
func NewAggregate() *Aggregate {
	return &Aggregate{}
}

// Add appends a diagnostic to the aggregate. Nil diagnostics are ignored so
// call sites can add unconditionally: `agg.Add(maybeNilDiagnostic())`.
func (a *Aggregate) Add(d *Diagnostic) {
	if d == nil {
		return
	}
	a.combined = multierr.Append(a.combined, d)
}

// Merge folds another aggregate's diagnostics into this one.
func (a *Aggregate) Merge(other *Aggregate) {
	if other == nil {
		return
	}
	for _, d := range other.Diagnostics() {
		a.Add(d)
	}
}

// Empty reports whether the aggregate holds no diagnostics.
func (a *Aggregate) Empty() bool {
	return a == nil || a.combined == nil
}

// Diagnostics returns every collected diagnostic in insertion order.
func (a *Aggregate) Diagnostics() []*Diagnostic {
	if a == nil || a.combined == nil {
		return nil
	}
	errs := multierr.Errors(a.combined)
	out := make([]*Diagnostic, 0, len(errs))
	for _, e := range errs {
		if d, ok := e.(*Diagnostic); ok {
			out = append(out, d)
		} else {
			out = append(out, NewDiagnostic(CodeDocumentError, e.Error(), e))
		}
	}
	return out
}

// ErrorOrNil returns the aggregate as an error, or nil if it is empty — the
// idiomatic boundary between the collected-errors world and a plain `error`
// return value.
func (a *Aggregate) ErrorOrNil() error {
	if a.Empty() {
		return nil
	}
	return a
}

// Error implements error.
func (a *Aggregate) Error() string {
	if a.Empty() {
		return ""
	}
	return a.combined.Error()
}

// ForPart filters the aggregate down to diagnostics attributed to one part.
func (a *Aggregate) ForPart(id PartID) []*Diagnostic {
	var out []*Diagnostic
	for _, d := range a.Diagnostics() {
		if d.Part == id {
			out = append(out, d)
		}
	}
	return out
}

// Package reflectdescriptor builds a rig.ComponentDescriptor from a host
// constructor function and a zero-value struct by reflection, turning a
// plain Go function into registration metadata instead of asking the
// caller to spell it out by hand. The core rig package never imports this
// one — a host wires either this adapter or a hand-built
// rig.ComponentDescriptor, never both for the same type.
package reflectdescriptor

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/hexworks/rig"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// constructorSpec is one constructor to analyze: selector names it ("" for
// the default constructor), fn is the Go function, and features maps its
// formal parameters, in order, to feature names.
type constructorSpec struct {
	selector string
	fn       reflect.Value
	fnType   reflect.Type
	features []string
}

// Builder accumulates constructors and property rules before producing a
// rig.ComponentDescriptor.
type Builder struct {
	name         string
	constructors []constructorSpec
	scheme       string
	notify       bool
	err          error
}

// New starts a Builder for the component named name (used only in
// diagnostic messages).
func New(name string) *Builder {
	return &Builder{name: name}
}

// WithConstructor analyzes fn's signature and registers it under selector
// ("" for the default constructor). fn must be a function whose results are
// (T) or (T, error); featureNames must name one feature per non-receiver
// parameter, in declaration order (spec.md §3: "formal constructor
// arguments").
func (b *Builder) WithConstructor(selector string, fn any, featureNames ...string) *Builder {
	fnValue := reflect.ValueOf(fn)
	fnType := fnValue.Type()
	if fnType.Kind() != reflect.Func {
		b.err = fmt.Errorf("reflectdescriptor: %s constructor %q is not a function", b.name, selector)
		return b
	}
	if fnType.NumIn() != len(featureNames) {
		b.err = fmt.Errorf("reflectdescriptor: %s constructor %q takes %d parameters but %d feature names were given",
			b.name, selector, fnType.NumIn(), len(featureNames))
		return b
	}
	switch fnType.NumOut() {
	case 1:
	case 2:
		if !fnType.Out(1).Implements(errorType) {
			b.err = fmt.Errorf("reflectdescriptor: %s constructor %q second return value must be error", b.name, selector)
			return b
		}
	default:
		b.err = fmt.Errorf("reflectdescriptor: %s constructor %q must return (T) or (T, error)", b.name, selector)
		return b
	}
	b.constructors = append(b.constructors, constructorSpec{selector: selector, fn: fnValue, fnType: fnType, features: featureNames})
	return b
}

// WithScheme marks the component as a URI-scheme factory (spec.md §3:
// "role ∈ {ordinary, factory(scheme)}").
func (b *Builder) WithScheme(scheme string) *Builder {
	b.scheme = scheme
	return b
}

// WithNotify sets ParticipatesInNotify, so the assembler invokes
// PropertiesAware.OnPropertiesSet after property application.
func (b *Builder) WithNotify() *Builder {
	b.notify = true
	return b
}

// featureRequired is true unless name carries the optional suffix convention
// "name?" — mirrors the teacher's `optional:"true"` struct tag, expressed as
// part of the name since plain function parameters carry no tags of their
// own.
func featureRequired(name string) (string, bool) {
	if strings.HasSuffix(name, "?") {
		return strings.TrimSuffix(name, "?"), false
	}
	return name, true
}

func (b *Builder) buildConstructor(spec constructorSpec) *rig.ConstructorDescriptor {
	features := make([]rig.FeatureDescriptor, len(spec.features))
	for i, raw := range spec.features {
		name, required := featureRequired(raw)
		features[i] = rig.FeatureDescriptor{Name: name, Type: spec.fnType.In(i), Required: required}
	}
	hasError := spec.fnType.NumOut() == 2
	fn := spec.fn
	return &rig.ConstructorDescriptor{
		Name:     spec.selector,
		Features: features,
		Invoke: func(args []any) (any, error) {
			in := make([]reflect.Value, len(args))
			for i, a := range args {
				if a == nil {
					in[i] = reflect.Zero(spec.fnType.In(i))
					continue
				}
				in[i] = reflect.ValueOf(a)
			}
			out := fn.Call(in)
			if hasError {
				if errVal := out[1]; !errVal.IsNil() {
					return nil, errVal.Interface().(error)
				}
			}
			return out[0].Interface(), nil
		},
	}
}

// Describe assembles the final ComponentDescriptor. An error recorded by any
// prior With* call is returned here rather than at the call site, so a
// builder chain reads top to bottom without an err check after every step.
func (b *Builder) Describe() (*rig.ComponentDescriptor, error) {
	if b.err != nil {
		return nil, b.err
	}
	d := &rig.ComponentDescriptor{
		Name:                 b.name,
		Role:                 rig.RoleOrdinary,
		Scheme:               b.scheme,
		NamedConstructors:    make(map[string]*rig.ConstructorDescriptor),
		Properties:           make(map[string]*rig.PropertyDescriptor),
		ParticipatesInNotify: b.notify,
	}
	if b.scheme != "" {
		d.Role = rig.RoleFactory
	}
	for _, spec := range b.constructors {
		ctor := b.buildConstructor(spec)
		if spec.selector == "" {
			d.DefaultConstructor = ctor
		} else {
			d.NamedConstructors[spec.selector] = ctor
		}
	}
	return d, nil
}

// DescribeProperties reflects over zero — a pointer to a zero-valued
// instance of the target struct — collecting one PropertyDescriptor per
// exported field tagged `rig:"property"` (optionally `rig:"property,required"`
// or `rig:"property=customName"`), and merges them into d.Properties. Each
// descriptor's Set assigns directly into the corresponding field of the
// live instance by reflection, so a host using this adapter never writes
// its own setter closures.
func DescribeProperties(d *rig.ComponentDescriptor, zero any) error {
	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("reflectdescriptor: DescribeProperties needs a pointer to a struct, got %T", zero)
	}
	structType := t.Elem()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}
		tag, ok := field.Tag.Lookup("rig")
		if !ok {
			continue
		}
		name := strings.ToLower(field.Name)
		required := false
		isProperty := false
		for _, part := range strings.Split(tag, ",") {
			switch {
			case part == "property":
				isProperty = true
			case part == "required":
				required = true
			case strings.HasPrefix(part, "property="):
				isProperty = true
				name = strings.TrimPrefix(part, "property=")
			}
		}
		if !isProperty {
			continue
		}
		fieldIndex := i
		fieldType := field.Type
		d.Properties[name] = &rig.PropertyDescriptor{
			Type:     fieldType,
			Required: required,
			Set: func(instance any, value any) error {
				ptr := reflect.ValueOf(instance)
				if ptr.Kind() != reflect.Ptr || ptr.Elem().Type() != structType {
					return fmt.Errorf("reflectdescriptor: property %q expects *%s, got %T", name, structType.Name(), instance)
				}
				fv := ptr.Elem().Field(fieldIndex)
				if !fv.CanSet() {
					return fmt.Errorf("reflectdescriptor: field for property %q is not settable", name)
				}
				rv := reflect.ValueOf(value)
				if value != nil && !rv.Type().AssignableTo(fieldType) {
					return fmt.Errorf("reflectdescriptor: property %q cannot assign %T to %s", name, value, fieldType)
				}
				if value == nil {
					fv.Set(reflect.Zero(fieldType))
				} else {
					fv.Set(rv)
				}
				return nil
			},
		}
	}
	return nil
}

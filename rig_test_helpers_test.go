package rig

import "reflect"

// Widget is the plain host component most of the assembler/resolver/facade
// tests wire together: one required string feature and one optional label
// property, enough to exercise construction, property application, and
// PropertiesAware notification without a real host dependency graph.
type Widget struct {
	Dep   string
	Label string

	notified bool
}

func (w *Widget) OnPropertiesSet() error {
	w.notified = true
	return nil
}

func widgetTypeRef() TypeReference {
	return TypeReference{Name: "widget.Widget"}
}

// widgetDescriptor returns a ComponentDescriptor for *Widget with one
// required "dep" feature (string) and one optional "label" property,
// notifying PropertiesAware after property application.
func widgetDescriptor() *ComponentDescriptor {
	return &ComponentDescriptor{
		Name: "widget.Widget",
		Role: RoleOrdinary,
		DefaultConstructor: &ConstructorDescriptor{
			Features: []FeatureDescriptor{
				{Name: "dep", Type: reflect.TypeOf(""), Required: true},
			},
			Invoke: func(args []any) (any, error) {
				return &Widget{Dep: args[0].(string)}, nil
			},
		},
		Properties: map[string]*PropertyDescriptor{
			"label": {
				Type:     reflect.TypeOf(""),
				Required: false,
				Set: func(instance any, value any) error {
					instance.(*Widget).Label = value.(string)
					return nil
				},
			},
		},
		ParticipatesInNotify: true,
	}
}

// memFactory is a test Factory producing the URI string prefixed with
// "produced:", so tests can assert the assembler actually routed a ByURI/PropertyURI
// through it rather than treating it as a literal.
type memFactory struct{}

func (memFactory) Produce(uri string) (any, error) {
	return "produced:" + uri, nil
}

func memFactoryDescriptor() *ComponentDescriptor {
	return &ComponentDescriptor{
		Name:   "widget.MemFactory",
		Role:   RoleFactory,
		Scheme: "mem",
		DefaultConstructor: &ConstructorDescriptor{
			Invoke: func(args []any) (any, error) {
				return memFactory{}, nil
			},
		},
		Properties: map[string]*PropertyDescriptor{},
	}
}

func memFactoryTypeRef() TypeReference {
	return TypeReference{Name: "widget.MemFactory"}
}

// Linker wires to another Widget by reference, exercising a plain
// part-to-part feature dependency (ByID/ByName) rather than a coerced
// constant.
type Linker struct {
	Other *Widget
}

func linkerTypeRef() TypeReference { return TypeReference{Name: "widget.Linker"} }

func linkerDescriptor() *ComponentDescriptor {
	return &ComponentDescriptor{
		Name: "widget.Linker",
		Role: RoleOrdinary,
		DefaultConstructor: &ConstructorDescriptor{
			Features: []FeatureDescriptor{
				{Name: "other", Type: reflect.TypeOf(&Widget{}), Required: true},
			},
			Invoke: func(args []any) (any, error) {
				return &Linker{Other: args[0].(*Widget)}, nil
			},
		},
		Properties: map[string]*PropertyDescriptor{},
	}
}

// Picky exercises a part with several independent feature/property slots so
// a single malformed declaration can surface more than one distinct defect
// at once.
type Picky struct {
	Count     int
	Flag      bool
	Threshold int
	Level     int
}

func pickyTypeRef() TypeReference { return TypeReference{Name: "widget.Picky"} }

func pickyDescriptor() *ComponentDescriptor {
	return &ComponentDescriptor{
		Name: "widget.Picky",
		Role: RoleOrdinary,
		DefaultConstructor: &ConstructorDescriptor{
			Features: []FeatureDescriptor{
				{Name: "count", Type: reflect.TypeOf(0), Required: true},
				{Name: "flag", Type: reflect.TypeOf(false), Required: false},
			},
			Invoke: func(args []any) (any, error) {
				p := &Picky{}
				if args[0] != nil {
					p.Count = args[0].(int)
				}
				if args[1] != nil {
					p.Flag = args[1].(bool)
				}
				return p, nil
			},
		},
		Properties: map[string]*PropertyDescriptor{
			"threshold": {
				Type:     reflect.TypeOf(0),
				Required: true,
				Set: func(instance any, value any) error {
					instance.(*Picky).Threshold = value.(int)
					return nil
				},
			},
			"level": {
				Type:     reflect.TypeOf(0),
				Required: false,
				Set: func(instance any, value any) error {
					instance.(*Picky).Level = value.(int)
					return nil
				},
			},
		},
	}
}

func newTestRegistry() TypeRegistry {
	registry := NewTypeRegistry()
	registry.Register(widgetTypeRef(), widgetDescriptor())
	registry.Register(memFactoryTypeRef(), memFactoryDescriptor())
	registry.Register(linkerTypeRef(), linkerDescriptor())
	registry.Register(pickyTypeRef(), pickyDescriptor())
	return registry
}

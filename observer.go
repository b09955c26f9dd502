package rig

// AssemblyObserver hooks into the Assembler's per-part walk, for logging,
// metrics, or tests that want to assert on construction order, without the
// Assembler itself knowing about any of those concerns.
type AssemblyObserver interface {
	// BeforeAssemble is called just before a node's construction begins,
	// in topological order.
	BeforeAssemble(id PartID)

	// AfterAssemble is called once a node's construction attempt finishes,
	// successfully or not. err is nil on success.
	AfterAssemble(id PartID, err error)
}

// observerChain fans a hook out to every observer in registration order.
type observerChain struct {
	observers []AssemblyObserver
}

// NewObserverChain combines zero or more observers into one.
func NewObserverChain(observers ...AssemblyObserver) AssemblyObserver {
	return &observerChain{observers: observers}
}

func (c *observerChain) BeforeAssemble(id PartID) {
	for _, o := range c.observers {
		o.BeforeAssemble(id)
	}
}

func (c *observerChain) AfterAssemble(id PartID, err error) {
	for _, o := range c.observers {
		o.AfterAssemble(id, err)
	}
}

// ObserverFunc pair adapts two plain functions to AssemblyObserver for
// one-off hooks that don't warrant a named type.
type ObserverFunc struct {
	Before func(id PartID)
	After  func(id PartID, err error)
}

func (f ObserverFunc) BeforeAssemble(id PartID) {
	if f.Before != nil {
		f.Before(id)
	}
}

func (f ObserverFunc) AfterAssemble(id PartID, err error) {
	if f.After != nil {
		f.After(id, err)
	}
}

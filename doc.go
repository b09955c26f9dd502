// Package rig is a configuration-driven object composition engine: given a
// catalogue of component descriptors and one or more declarative blueprint
// documents, it constructs instances in dependency order, wires their
// features and properties, and exposes the result through a read-only
// Container indexed by identifier, symbolic name, and URI scheme.
//
// The core pipeline is Resolver -> Graph -> Assembler -> Container,
// orchestrated by Facade. Hosts supply a TypeRegistry (see
// rig/reflectdescriptor for a reflective adapter) and a BlueprintReader (see
// rig/xmlblueprint for the reference XML document shape).
package rig

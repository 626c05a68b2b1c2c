package resolve

import (
	"github.com/makinacorpus/xsdgen/lib/config"
	"github.com/makinacorpus/xsdgen/lib/ir"
)

type Status int

const (
	StatusPending Status = iota
	StatusResolved
	StatusDropped
)

func (self Status) String() string {
	switch self {
	case StatusResolved:
		return "resolved"
	case StatusDropped:
		return "dropped"
	}
	return "pending"
}

// Shape is how an emitter has to hold a property value
type Shape int

const (
	ShapeValue Shape = iota
	ShapeOptional
	ShapeList
)

func (self Shape) String() string {
	switch self {
	case ShapeOptional:
		return "optional"
	case ShapeList:
		return "list"
	}
	return "value"
}

// Property is the resolution of one declared property
type Property struct {
	Declared *ir.Property
	// target language name
	Name string
	// target value type, a scalar for builtins or a local type name
	ValueType string
	// module of ValueType, empty for builtins
	ValueModule   string
	Builtin       bool
	Shape         Shape
	ShadowsParent bool
	Status        Status
}

// SourceName is the name the property has in documents, used for hydration
func (self *Property) SourceName() string {
	return self.Declared.Name
}

func (self *Property) Collection() bool {
	return self.Declared.Collection
}

func (self *Property) Nullable() bool {
	return self.Declared.Nullable
}

// Type is the resolution of one registered type
type Type struct {
	Declared ir.Type
	Module   string
	Name     string

	// simple types only: the scalar kind at the end of the derivation chain
	// and its target value type
	Scalar    string
	ValueType string

	// complex types only
	Parent     *Type
	Properties []*Property
	Inherited  []*Property
}

func (self *Type) ID() ir.TypeId {
	return self.Declared.Id()
}

func (self *Type) IsComplex() bool {
	_, ok := self.Declared.(*ir.ComplexType)
	return ok
}

func (self *Type) Abstract() bool {
	if ct, ok := self.Declared.(*ir.ComplexType); ok {
		return ct.Abstract
	}
	return false
}

// OwnProperties are the resolved properties declared by the type itself
func (self *Type) OwnProperties() []*Property {
	out := []*Property{}
	for _, prop := range self.Properties {
		if prop.Status == StatusResolved {
			out = append(out, prop)
		}
	}
	return out
}

// AllProperties lists inherited properties first, root ancestor first,
// then own ones
func (self *Type) AllProperties() []*Property {
	out := make([]*Property, 0, len(self.Inherited)+len(self.Properties))
	out = append(out, self.Inherited...)
	return append(out, self.OwnProperties()...)
}

// Graph is the side table produced by Resolve. The registry it was built from
// is left untouched.
type Graph struct {
	Config *config.GeneratorConfig
	types  map[ir.TypeId]*Type
	order  []ir.TypeId
}

func newGraph(cfg *config.GeneratorConfig) *Graph {
	return &Graph{
		Config: cfg,
		types:  map[ir.TypeId]*Type{},
	}
}

func (self *Graph) add(t *Type) {
	self.types[t.ID()] = t
	self.order = append(self.order, t.ID())
}

func (self *Graph) Lookup(id ir.TypeId) (*Type, error) {
	if t, ok := self.types[id]; ok {
		return t, nil
	}
	return nil, &ir.NotResolvedError{ID: id}
}

// Types returns every resolved type in registration order
func (self *Graph) Types() []*Type {
	out := make([]*Type, len(self.order))
	for i, id := range self.order {
		out[i] = self.types[id]
	}
	return out
}

// ComplexTypes returns the resolved complex types in registration order
func (self *Graph) ComplexTypes() []*Type {
	out := []*Type{}
	for _, id := range self.order {
		if t := self.types[id]; t.IsComplex() {
			out = append(out, t)
		}
	}
	return out
}

package resolve

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/makinacorpus/xsdgen/lib/config"
	"github.com/makinacorpus/xsdgen/lib/ir"
)

// Resolve runs the name, inheritance and property passes over every type of
// the registry, in that order. Policy-permitted gaps are logged and the
// offending properties dropped; anything else fails the whole run.
func Resolve(registry *ir.TypeRegistry, cfg *config.GeneratorConfig, l *slog.Logger) (*Graph, error) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &resolver{
		registry: registry,
		cfg:      cfg,
		logger:   l,
		graph:    newGraph(cfg),
		state:    map[ir.TypeId]visit{},
	}
	if err := r.resolveNames(); err != nil {
		return nil, errors.Wrap(err, "name resolution")
	}
	if err := r.resolveInheritance(); err != nil {
		return nil, errors.Wrap(err, "inheritance resolution")
	}
	if err := r.resolveProperties(); err != nil {
		return nil, errors.Wrap(err, "property resolution")
	}
	return r.graph, nil
}

type visit int

const (
	unvisited visit = iota
	visiting
	visited
)

type resolver struct {
	registry *ir.TypeRegistry
	cfg      *config.GeneratorConfig
	logger   *slog.Logger
	graph    *Graph
	state    map[ir.TypeId]visit
}

// pass 1

func (self *resolver) resolveNames() error {
	for _, declared := range self.registry.All() {
		switch t := declared.(type) {
		case *ir.SimpleType:
			kind := self.scalarKind(t)
			value := ScalarValueType(self.cfg, kind)
			self.graph.add(&Type{
				Declared:  t,
				Name:      value,
				Scalar:    kind,
				ValueType: value,
			})

		case *ir.ComplexType:
			module, local := self.cfg.ResolveTypeName(t.ID.Namespace, t.ID.Name)
			rt := &Type{Declared: t, Module: module, Name: local}
			for _, prop := range t.Properties.Values() {
				rt.Properties = append(rt.Properties, &Property{
					Declared: prop,
					Name:     self.cfg.ResolvePropertyName(prop.Name),
				})
			}
			self.graph.add(rt)
			self.logger.Debug("resolved type name", "type", t.ID.String(), "module", module, "name", local)

		default:
			return fmt.Errorf("unexpected type %T for %s", declared, declared.Id())
		}
	}
	return nil
}

// scalarKind walks the derivation chain of a simple type down to a builtin
func (self *resolver) scalarKind(t *ir.SimpleType) string {
	seen := map[ir.TypeId]bool{}
	for cur := t; ; {
		if cur.Scalar != "" {
			return cur.Scalar
		}
		seen[cur.ID] = true
		if cur.Extends == nil {
			break
		}
		base := *cur.Extends
		if base.IsScalar() {
			return base.Name
		}
		if seen[base] {
			self.logger.Error("simple type derivation cycle, falling back to default scalar", "type", t.ID.String(), "base", base.String())
			break
		}
		next, err := self.registry.Get(base)
		if err != nil {
			self.logger.Warn("simple type base does not exist, falling back to default scalar", "type", t.ID.String(), "base", base.String())
			break
		}
		simple, ok := next.(*ir.SimpleType)
		if !ok {
			self.logger.Warn("simple type base is not a simple type, falling back to default scalar", "type", t.ID.String(), "base", base.String())
			break
		}
		cur = simple
	}
	return ir.DefaultScalar
}

// pass 2

func (self *resolver) resolveInheritance() error {
	for _, t := range self.graph.ComplexTypes() {
		if err := self.linearize(t); err != nil {
			return err
		}
	}
	return nil
}

// linearize resolves the ancestors of t before t itself
func (self *resolver) linearize(t *Type) error {
	if self.state[t.ID()] == visited {
		return nil
	}
	self.state[t.ID()] = visiting
	defer func() { self.state[t.ID()] = visited }()

	parent, err := self.parentOf(t)
	if err != nil {
		return err
	}
	if parent == nil {
		return nil
	}
	t.Parent = parent

	inherited := make([]*Property, 0, len(parent.Inherited)+len(parent.Properties))
	inherited = append(inherited, parent.Inherited...)
	for _, prop := range parent.Properties {
		if prop.Status != StatusDropped {
			inherited = append(inherited, prop)
		}
	}

	shadowDrop := self.cfg.PropertyPromotion && self.cfg.PropertyPublic
	for _, own := range t.Properties {
		idx := indexOfName(inherited, own.Name)
		if idx < 0 {
			continue
		}
		if shadowDrop {
			own.Status = StatusDropped
			self.logger.Warn("property shadows an inherited one and cannot be promoted, dropped",
				"type", t.ID().String(), "property", own.Name, "parent", parent.ID().String())
			continue
		}
		own.ShadowsParent = true
		inherited = append(inherited[:idx], inherited[idx+1:]...)
	}
	t.Inherited = inherited
	return nil
}

// parentOf returns the resolved parent of t, nil when t is a root or its
// base link has to be cut
func (self *resolver) parentOf(t *Type) (*Type, error) {
	base := t.Declared.Base()
	if base == nil {
		return nil, nil
	}
	parent, err := self.graph.Lookup(*base)
	if err != nil {
		if self.cfg.TypeMissingError {
			return nil, &ir.TypeDoesNotExistError{ID: *base, Referrer: t.ID().String()}
		}
		self.logger.Error("parent type does not exist, type is treated as a root", "type", t.ID().String(), "parent", base.String())
		return nil, nil
	}
	if !parent.IsComplex() {
		self.logger.Error("parent type is not a complex type, type is treated as a root", "type", t.ID().String(), "parent", base.String())
		return nil, nil
	}
	if self.state[parent.ID()] == visiting {
		self.logger.Error("inheritance cycle, base link cut", "type", t.ID().String(), "parent", base.String())
		return nil, nil
	}
	if err := self.linearize(parent); err != nil {
		return nil, err
	}
	return parent, nil
}

func indexOfName(props []*Property, name string) int {
	for i, prop := range props {
		if prop.Name == name {
			return i
		}
	}
	return -1
}

// pass 3

func (self *resolver) resolveProperties() error {
	var errs []error
	for _, t := range self.graph.ComplexTypes() {
		for _, prop := range t.Properties {
			if prop.Status != StatusPending {
				continue
			}
			if err := self.resolveProperty(t, prop); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return &multierror.Error{Errors: errs}
	}

	for _, t := range self.graph.ComplexTypes() {
		kept := t.Inherited[:0]
		for _, prop := range t.Inherited {
			if prop.Status == StatusResolved {
				kept = append(kept, prop)
			}
		}
		t.Inherited = kept
	}
	return nil
}

func (self *resolver) resolveProperty(t *Type, prop *Property) error {
	ref := prop.Declared.Type
	referent, err := self.graph.Lookup(ref)
	switch {
	case err == nil && referent.IsComplex():
		prop.ValueType = referent.Name
		prop.ValueModule = referent.Module
	case err == nil:
		prop.ValueType = referent.ValueType
		prop.Builtin = true
	case ref.IsScalar():
		// a builtin the reader never registered
		prop.ValueType = ScalarValueType(self.cfg, ref.Name)
		prop.Builtin = true
	case self.cfg.TypeMissingError:
		return &ir.TypeDoesNotExistError{ID: ref, Referrer: t.ID().String() + "." + prop.SourceName()}
	default:
		prop.Status = StatusDropped
		self.logger.Warn("property type does not exist, property dropped", "type", t.ID().String(), "property", prop.SourceName(), "missing", ref.String())
		return nil
	}

	switch {
	case prop.Collection():
		prop.Shape = ShapeList
	case prop.Nullable():
		prop.Shape = ShapeOptional
	default:
		prop.Shape = ShapeValue
	}
	prop.Status = StatusResolved
	return nil
}

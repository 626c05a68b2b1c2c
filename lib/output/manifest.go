package output

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/makinacorpus/xsdgen/lib/resolve"
)

// Manifest is the YAML description of a resolved graph written by the
// manifest emitter
type Manifest struct {
	Options ManifestOptions `yaml:"options"`
	Types   []ManifestType  `yaml:"types"`
}

type ManifestOptions struct {
	Constructor   bool `yaml:"constructor"`
	FactoryMethod bool `yaml:"factory_method"`
	Defaults      bool `yaml:"defaults"`
	Getters       bool `yaml:"getters"`
	Setters       bool `yaml:"setters"`
	Promotion     bool `yaml:"promotion"`
	Public        bool `yaml:"public"`
	Readonly      bool `yaml:"readonly"`
}

type ManifestType struct {
	Source     string             `yaml:"source"`
	Module     string             `yaml:"module"`
	Name       string             `yaml:"name"`
	File       string             `yaml:"file"`
	Abstract   bool               `yaml:"abstract,omitempty"`
	Annotation string             `yaml:"annotation,omitempty"`
	Parent     *ManifestRef       `yaml:"parent,omitempty"`
	Properties []ManifestProperty `yaml:"properties"`
}

type ManifestRef struct {
	Module string `yaml:"module"`
	Name   string `yaml:"name"`
}

type ManifestProperty struct {
	Name          string `yaml:"name"`
	SourceName    string `yaml:"source_name"`
	ValueType     string `yaml:"value_type"`
	ValueModule   string `yaml:"value_module,omitempty"`
	Builtin       bool   `yaml:"builtin"`
	Shape         string `yaml:"shape"`
	Collection    bool   `yaml:"collection"`
	Nullable      bool   `yaml:"nullable"`
	Attribute     bool   `yaml:"attribute,omitempty"`
	Inherited     bool   `yaml:"inherited,omitempty"`
	ShadowsParent bool   `yaml:"shadows_parent,omitempty"`
	Annotation    string `yaml:"annotation,omitempty"`
}

type ManifestEmitter struct{}

func NewManifestEmitter() Emitter {
	return &ManifestEmitter{}
}

func (self *ManifestEmitter) Emit(l *slog.Logger, g *resolve.Graph, w io.Writer) error {
	m := BuildManifest(g)
	l.Info("writing manifest", "types", len(m.Types))

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return errors.Wrap(err, "could not encode manifest")
	}
	return errors.Wrap(enc.Close(), "could not encode manifest")
}

// BuildManifest lists the complex types of g sorted by module then name
func BuildManifest(g *resolve.Graph) *Manifest {
	cfg := g.Config
	m := &Manifest{
		Options: ManifestOptions{
			Constructor:   cfg.ClassConstructor,
			FactoryMethod: cfg.ClassFactoryMethod,
			Defaults:      cfg.PropertyDefault,
			Getters:       cfg.PropertyGetter,
			Setters:       cfg.PropertySetter,
			Promotion:     cfg.PropertyPromotion,
			Public:        cfg.PropertyPublic,
			Readonly:      cfg.PropertyReadonly,
		},
		Types: []ManifestType{},
	}

	types := g.ComplexTypes()
	slices.SortStableFunc(types, func(a, b *resolve.Type) int {
		if c := strings.Compare(a.Module, b.Module); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	for _, t := range types {
		mt := ManifestType{
			Source:     t.ID().String(),
			Module:     t.Module,
			Name:       t.Name,
			File:       cfg.ResolveFileName(t.Module, t.Name),
			Abstract:   t.Abstract(),
			Annotation: t.Declared.Doc(),
			Properties: []ManifestProperty{},
		}
		if t.Parent != nil {
			mt.Parent = &ManifestRef{Module: t.Parent.Module, Name: t.Parent.Name}
		}
		for _, p := range t.Inherited {
			mt.Properties = append(mt.Properties, manifestProperty(p, true))
		}
		for _, p := range t.OwnProperties() {
			mt.Properties = append(mt.Properties, manifestProperty(p, false))
		}
		m.Types = append(m.Types, mt)
	}
	return m
}

func manifestProperty(p *resolve.Property, inherited bool) ManifestProperty {
	return ManifestProperty{
		Name:          p.Name,
		SourceName:    p.SourceName(),
		ValueType:     p.ValueType,
		ValueModule:   p.ValueModule,
		Builtin:       p.Builtin,
		Shape:         p.Shape.String(),
		Collection:    p.Collection(),
		Nullable:      p.Nullable(),
		Attribute:     p.Declared.Attribute,
		Inherited:     inherited,
		ShadowsParent: p.ShadowsParent,
		Annotation:    p.Declared.Annotation,
	}
}

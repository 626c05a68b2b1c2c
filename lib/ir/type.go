package ir

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/makinacorpus/xsdgen/lib/util"
)

// TypeId identifies a type in the registry. References between types always
// go through a TypeId, never a pointer, so a type may be referenced before it
// has been read.
type TypeId struct {
	Name      string
	Namespace string
}

func NewTypeId(namespace, name string) TypeId {
	return TypeId{Name: name, Namespace: namespace}
}

func ScalarTypeId(name string) TypeId {
	return TypeId{Name: name, Namespace: XmlSchemaNamespace}
}

func (id TypeId) String() string {
	return id.Namespace + ":" + id.Name
}

func (id TypeId) IsScalar() bool {
	return id.Namespace == XmlSchemaNamespace
}

func (id TypeId) IsZero() bool {
	return id.Name == "" && id.Namespace == ""
}

// Source locates a declaration in its document
type Source struct {
	File string
	Line int
	Path string
}

func (self Source) String() string {
	if self.File == "" {
		return "<builtin>"
	}
	return fmt.Sprintf("%s:%d (%s)", self.File, self.Line, self.Path)
}

// Type is either a *SimpleType or a *ComplexType
type Type interface {
	Id() TypeId
	Base() *TypeId
	Doc() string
	Origin() Source
	// Hash is the structural fingerprint used to reconcile redeclarations.
	// Documentation and source location do not contribute to it.
	Hash() string

	isType()
}

type TypeHeader struct {
	ID         TypeId
	Extends    *TypeId
	Annotation string
	Source     Source
}

func (self *TypeHeader) Id() TypeId     { return self.ID }
func (self *TypeHeader) Base() *TypeId  { return self.Extends }
func (self *TypeHeader) Doc() string    { return self.Annotation }
func (self *TypeHeader) Origin() Source { return self.Source }

func (self *TypeHeader) hashInto(w io.Writer, variant string) {
	fmt.Fprintf(w, "%s\x00%s\x00", variant, self.ID)
	if self.Extends != nil {
		fmt.Fprintf(w, "extends=%s\x00", *self.Extends)
	}
}

// SimpleType aliases a builtin scalar kind. Scalar is empty when the kind is
// inherited through Extends.
type SimpleType struct {
	TypeHeader
	Scalar string
}

func NewScalarType(name string) *SimpleType {
	return &SimpleType{
		TypeHeader: TypeHeader{ID: ScalarTypeId(name)},
		Scalar:     name,
	}
}

func (self *SimpleType) isType() {}

func (self *SimpleType) Hash() string {
	h := sha1.New()
	self.hashInto(h, "simple")
	fmt.Fprintf(h, "scalar=%s\x00", self.Scalar)
	return hex.EncodeToString(h.Sum(nil))
}

// ComplexType is a structured type with ordered, uniquely named properties
type ComplexType struct {
	TypeHeader
	Abstract   bool
	Properties *util.OrderedMap[string, *Property]
}

func NewComplexType(id TypeId, source Source) *ComplexType {
	return &ComplexType{
		TypeHeader: TypeHeader{ID: id, Source: source},
		Properties: util.NewOrderedMap[string, *Property](),
	}
}

func (self *ComplexType) isType() {}

func (self *ComplexType) AddProperty(prop *Property) error {
	if self.Properties.Has(prop.Name) {
		return &ReaderError{
			Source: self.Source,
			Msg:    fmt.Sprintf("property %q is declared twice in type %s", prop.Name, self.ID),
		}
	}
	prop.Parent = self.ID
	self.Properties.Set(prop.Name, prop)
	return nil
}

func (self *ComplexType) Hash() string {
	h := sha1.New()
	self.hashInto(h, "complex")
	fmt.Fprintf(h, "abstract=%t\x00", self.Abstract)
	for _, prop := range self.Properties.Values() {
		prop.hashInto(h)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Property is one member of a complex type
type Property struct {
	Parent     TypeId
	Name       string
	Type       TypeId
	Collection bool
	MinOccurs  uint32
	// None means unbounded
	MaxOccurs  util.Opt[uint32]
	Nullable   bool
	Attribute  bool
	Annotation string
}

func (self *Property) hashInto(w io.Writer) {
	max := "unbounded"
	if n, ok := self.MaxOccurs.Maybe(); ok {
		max = strconv.FormatUint(uint64(n), 10)
	}
	fmt.Fprintf(w, "prop=%s type=%s collection=%t min=%d max=%s nullable=%t attribute=%t\x00",
		self.Name, self.Type, self.Collection, self.MinOccurs, max, self.Nullable, self.Attribute)
}

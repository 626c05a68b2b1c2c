package xsd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/makinacorpus/xsdgen/lib/ir"
	"github.com/makinacorpus/xsdgen/lib/util"
)

// ReadFile reads a schema or WSDL file, and every file it imports, into the
// context registry. A file already read in this context is skipped.
func ReadFile(ctx *Context, path string) error {
	return readFile(ctx, path, "")
}

// ReadDocument reads an already parsed document. Relative imports are
// resolved against dir.
func ReadDocument(ctx *Context, doc *Document, dir string) error {
	r := &reader{ctx: ctx, doc: doc, dir: dir}
	return r.read(&frame{state: stateRoot}, []NodeID{doc.Root()}, ctx.Scopes.Root(""))
}

func readFile(ctx *Context, path, namespace string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "could not resolve %s", path)
	}
	if !ctx.markRead(abs) {
		ctx.Logger.Debug("file already read", "file", abs)
		return nil
	}
	doc, err := ctx.document(abs)
	if err != nil {
		return err
	}
	ctx.Logger.Info("reading schema", "file", abs)
	r := &reader{ctx: ctx, doc: doc, dir: filepath.Dir(abs)}
	return r.read(&frame{state: stateRoot}, []NodeID{doc.Root()}, ctx.Scopes.Root(namespace))
}

type reader struct {
	ctx *Context
	doc *Document
	dir string
}

// frame is what the productions of one grammar state write into
type frame struct {
	state   state
	complex *ir.ComplexType
	simple  *ir.SimpleType
	// members of an xs:choice are all optional
	choice bool
	// name given to an anonymous type declared under an element
	holder string
	// receives the id of that anonymous type
	anon *ir.TypeId
	// receives xs:documentation text
	doc *string
}

func (r *reader) readChildren(f *frame, parent NodeID, sc ScopeID) error {
	return r.read(f, r.doc.Children(parent), sc)
}

func (r *reader) read(f *frame, nodes []NodeID, sc ScopeID) error {
	for _, n := range nodes {
		nsc, err := r.openScope(n, sc)
		if err != nil {
			return err
		}
		prod, ok := lookup(f.state, r.symbolOf(n, nsc))
		if !ok {
			r.ctx.Logger.Warn(fmt.Sprintf("unexpected element <%s>", r.doc.QName(n)), "path", r.doc.Path(n), "file", r.doc.File, "line", r.doc.Line(n))
			continue
		}
		if err := r.dispatch(f, prod, n, nsc); err != nil {
			return err
		}
	}
	return nil
}

func (r *reader) dispatch(f *frame, prod production, n NodeID, sc ScopeID) error {
	switch prod {
	case prodIgnore:
		r.ctx.Logger.Debug("skipping element", "path", r.doc.Path(n))
		return nil

	case prodDefinitions:
		return r.readChildren(&frame{state: stateDefinitions}, n, sc)

	case prodTypes:
		return r.readChildren(&frame{state: stateTypes}, n, sc)

	case prodSchema:
		if tns := r.doc.Attr(n, "targetNamespace"); tns != "" {
			r.ctx.MarkImported(tns)
		}
		return r.readChildren(&frame{state: stateSchema}, n, sc)

	case prodImport:
		return r.readImport(n, sc)

	case prodInclude:
		return r.readInclude(n, sc)

	case prodTopElement:
		name := r.doc.Attr(n, "name")
		if name == "" {
			r.ctx.Logger.Warn("top level element has no name", "path", r.doc.Path(n), "file", r.doc.File)
			return nil
		}
		if r.doc.Attr(n, "type") != "" {
			// a named reference, nothing to declare
			return nil
		}
		return r.readChildren(&frame{state: stateElement, holder: name}, n, sc)

	case prodComplexType:
		return r.readComplexType(f, n, sc)

	case prodSimpleType:
		return r.readSimpleType(f, n, sc)

	case prodAnnotation:
		if f.doc != nil {
			*f.doc = r.documentation(n)
		}
		return nil

	case prodSequence:
		return r.readChildren(&frame{state: stateSequence, complex: f.complex, choice: f.choice}, n, sc)

	case prodChoice:
		return r.readChildren(&frame{state: stateChoice, complex: f.complex, choice: true}, n, sc)

	case prodComplexContent:
		return r.readChildren(&frame{state: stateComplexContent, complex: f.complex}, n, sc)

	case prodSimpleContent:
		r.ctx.Logger.Warn("simpleContent is not supported, type will have no properties", "type", f.complex.ID.String(), "path", r.doc.Path(n))
		return nil

	case prodDerivation:
		return r.readDerivation(f, n, sc)

	case prodList:
		f.simple.Scalar = ir.DefaultScalar
		return nil

	case prodProperty:
		return r.readProperty(f, n, sc)

	case prodAttribute:
		return r.readAttribute(f, n, sc)
	}
	return fmt.Errorf("no handler for production %d", prod)
}

// openScope opens a child scope when n declares namespace bindings or a
// target namespace, otherwise sc is returned unchanged
func (r *reader) openScope(n NodeID, sc ScopeID) (ScopeID, error) {
	tns, hasTns := r.doc.LookupAttr(n, "targetNamespace")
	opened := NoScope
	if hasTns {
		opened = r.ctx.Scopes.Child(sc, tns)
	}
	for _, a := range r.doc.Attrs(n) {
		alias := ""
		switch {
		case a.Prefix == "xmlns":
			alias = a.Local
		case a.Prefix == "" && a.Local == "xmlns":
		default:
			continue
		}
		if opened == NoScope {
			opened = r.ctx.Scopes.Child(sc, "")
		}
		if err := r.ctx.Scopes.Register(opened, alias, a.Value); err != nil {
			return sc, &ir.ReaderError{Source: r.doc.Source(n), Msg: "invalid namespace declaration", Err: err}
		}
	}
	if opened == NoScope {
		return sc, nil
	}
	return opened, nil
}

func (r *reader) symbolOf(n NodeID, sc ScopeID) symbol {
	uri, _ := r.ctx.Scopes.Lookup(sc, r.doc.Prefix(n))
	return symbol{namespace: uri, local: r.doc.LocalName(n)}
}

func (r *reader) readComplexType(f *frame, n NodeID, sc ScopeID) error {
	name := util.CoalesceStr(r.doc.Attr(n, "name"), f.holder)
	if name == "" {
		return &ir.ReaderError{Source: r.doc.Source(n), Msg: "complexType has no name attribute"}
	}
	ct := ir.NewComplexType(ir.NewTypeId(r.ctx.Scopes.Namespace(sc), name), r.doc.Source(n))
	ct.Abstract = util.IsTruthy(r.doc.Attr(n, "abstract"))

	if err := r.readChildren(&frame{state: stateComplexType, complex: ct, doc: &ct.Annotation}, n, sc); err != nil {
		return err
	}
	if err := r.ctx.Registry.Set(ct); err != nil {
		return err
	}
	if f.anon != nil {
		*f.anon = ct.ID
	}
	r.ctx.Logger.Debug("read complex type", "type", ct.ID.String(), "properties", ct.Properties.Len())
	return nil
}

func (r *reader) readSimpleType(f *frame, n NodeID, sc ScopeID) error {
	name := util.CoalesceStr(r.doc.Attr(n, "name"), f.holder)
	if name == "" {
		return &ir.ReaderError{Source: r.doc.Source(n), Msg: "simpleType has no name attribute"}
	}
	st := &ir.SimpleType{
		TypeHeader: ir.TypeHeader{
			ID:     ir.NewTypeId(r.ctx.Scopes.Namespace(sc), name),
			Source: r.doc.Source(n),
		},
	}

	if err := r.readChildren(&frame{state: stateSimpleType, simple: st, doc: &st.Annotation}, n, sc); err != nil {
		return err
	}
	if st.Scalar == "" && st.Extends == nil {
		st.Scalar = ir.DefaultScalar
	}
	if err := r.ctx.Registry.Set(st); err != nil {
		return err
	}
	if f.anon != nil {
		*f.anon = st.ID
	}
	return nil
}

// readDerivation handles extension and restriction, for complex content and
// simple types alike. Facets are not read.
func (r *reader) readDerivation(f *frame, n NodeID, sc ScopeID) error {
	base := r.doc.Attr(n, "base")

	if f.simple != nil {
		if base == "" {
			f.simple.Scalar = ir.DefaultScalar
			return nil
		}
		id := r.ctx.Scopes.TypeID(sc, base, "")
		if id.IsScalar() {
			f.simple.Scalar = id.Name
		} else {
			f.simple.Extends = &id
		}
		return nil
	}

	if base == "" {
		r.ctx.Logger.Warn(fmt.Sprintf("<%s> has no base", r.doc.LocalName(n)), "type", f.complex.ID.String(), "path", r.doc.Path(n))
	} else if id := r.ctx.Scopes.TypeID(sc, base, ""); id.IsScalar() {
		r.ctx.Logger.Warn("complex type should not extend a scalar type, ignoring base", "type", f.complex.ID.String(), "base", base)
	} else {
		f.complex.Extends = &id
	}
	return r.readChildren(&frame{state: stateDerivation, complex: f.complex}, n, sc)
}

func (r *reader) readProperty(f *frame, n NodeID, sc ScopeID) error {
	name := r.doc.Attr(n, "name")
	if name == "" {
		if ref := r.doc.Attr(n, "ref"); ref != "" {
			r.ctx.Logger.Warn("element references are not supported, property skipped", "ref", ref, "type", f.complex.ID.String(), "path", r.doc.Path(n))
		} else {
			r.ctx.Logger.Warn("element has no name, property skipped", "type", f.complex.ID.String(), "path", r.doc.Path(n))
		}
		return nil
	}

	prop := &ir.Property{Name: name}
	r.readOccurs(prop, n)
	if f.choice {
		prop.Nullable = true
	}

	var anon ir.TypeId
	holder := f.complex.ID.Name + "_" + name
	if err := r.readChildren(&frame{state: stateElement, holder: holder, anon: &anon, doc: &prop.Annotation}, n, sc); err != nil {
		return err
	}

	if raw := r.doc.Attr(n, "type"); raw != "" {
		id, err := r.typeRef(sc, raw)
		if err != nil {
			return err
		}
		prop.Type = id
	} else if !anon.IsZero() {
		prop.Type = anon
	} else {
		r.ctx.Logger.Warn("could not find type of property, property skipped", "property", name, "type", f.complex.ID.String(), "path", r.doc.Path(n))
		return nil
	}

	return f.complex.AddProperty(prop)
}

func (r *reader) readAttribute(f *frame, n NodeID, sc ScopeID) error {
	name := r.doc.Attr(n, "name")
	if name == "" {
		r.ctx.Logger.Warn("attribute has no name, skipped", "type", f.complex.ID.String(), "path", r.doc.Path(n))
		return nil
	}
	use := r.doc.Attr(n, "use")
	if use == "prohibited" {
		return nil
	}

	prop := &ir.Property{
		Name:      name,
		Attribute: true,
		MaxOccurs: util.Some[uint32](1),
		Nullable:  true,
	}
	if use == "required" {
		prop.MinOccurs = 1
		prop.Nullable = false
	}

	var anon ir.TypeId
	holder := f.complex.ID.Name + "_" + name
	if err := r.readChildren(&frame{state: stateElement, holder: holder, anon: &anon, doc: &prop.Annotation}, n, sc); err != nil {
		return err
	}

	var err error
	switch raw := r.doc.Attr(n, "type"); {
	case raw != "":
		prop.Type, err = r.typeRef(sc, raw)
	case !anon.IsZero():
		prop.Type = anon
	default:
		prop.Type, err = r.ctx.Scalar("anySimpleType")
	}
	if err != nil {
		return err
	}

	return f.complex.AddProperty(prop)
}

// readOccurs derives collection and nullability from minOccurs, maxOccurs
// and nillable
func (r *reader) readOccurs(prop *ir.Property, n NodeID) {
	prop.MinOccurs = 1
	prop.MaxOccurs = util.Some[uint32](1)

	if raw, ok := r.doc.LookupAttr(n, "minOccurs"); ok {
		min, err := util.ParseUint32(strings.TrimSpace(raw))
		if err != nil || !min.HasValue() {
			r.ctx.Logger.Warn("invalid minOccurs, ignored", "value", raw, "path", r.doc.Path(n))
		} else {
			prop.MinOccurs = min.Get()
		}
	}
	if prop.MinOccurs < 1 {
		prop.Nullable = true
	}

	maxGiven := false
	if raw, ok := r.doc.LookupAttr(n, "maxOccurs"); ok {
		raw = strings.TrimSpace(raw)
		if raw == "unbounded" {
			maxGiven = true
			prop.Collection = true
			prop.MaxOccurs = util.None[uint32]()
		} else if max, err := util.ParseUint32(raw); err != nil || !max.HasValue() {
			r.ctx.Logger.Warn("invalid maxOccurs, ignored", "value", raw, "path", r.doc.Path(n))
		} else {
			maxGiven = true
			prop.MaxOccurs = max
			prop.Collection = max.Get() > 1
		}
	}
	if !maxGiven && prop.MinOccurs > 1 {
		prop.Collection = true
		prop.MaxOccurs = util.None[uint32]()
	}

	if util.IsTruthy(r.doc.Attr(n, "nillable")) {
		prop.Nullable = true
	}
}

func (r *reader) typeRef(sc ScopeID, raw string) (ir.TypeId, error) {
	id := r.ctx.Scopes.TypeID(sc, raw, "")
	if id.IsScalar() {
		return r.ctx.Scalar(id.Name)
	}
	return id, nil
}

func (r *reader) readImport(n NodeID, sc ScopeID) error {
	namespace := r.doc.Attr(n, "namespace")
	location := r.doc.Attr(n, "schemaLocation")
	if location == "" {
		// wsdl:import
		location = r.doc.Attr(n, "location")
	}
	if namespace == "" && location == "" {
		r.ctx.Logger.Warn("import has neither namespace nor location, skipped", "path", r.doc.Path(n))
		return nil
	}

	key := location
	if namespace != "" {
		key = r.ctx.Scopes.Resolve(sc, namespace)
	}
	if r.ctx.WasImported(key) {
		r.ctx.Logger.Debug("namespace already imported", "namespace", key)
		return nil
	}
	r.ctx.MarkImported(key)

	if location != "" {
		if err := r.ctx.RegisterSchemaLocation(key, location); err != nil {
			return &ir.ReaderError{Source: r.doc.Source(n), Msg: "conflicting import", Err: err}
		}
	}

	path, err := r.ctx.FindResource(key, r.dir)
	if err != nil {
		return r.missing(err, n, key)
	}
	return readFile(r.ctx, path, "")
}

// readInclude reads another document into the current target namespace
func (r *reader) readInclude(n NodeID, sc ScopeID) error {
	location := r.doc.Attr(n, "schemaLocation")
	if location == "" {
		r.ctx.Logger.Warn("include has no schemaLocation, skipped", "path", r.doc.Path(n))
		return nil
	}
	uri := location
	if !strings.Contains(location, "://") && !filepath.IsAbs(location) {
		uri = filepath.Join(r.dir, location)
	}
	path, err := r.ctx.Locator.Locate(uri, "", r.dir)
	if err != nil {
		return r.missing(err, n, location)
	}
	return readFile(r.ctx, path, r.ctx.Scopes.Namespace(sc))
}

func (r *reader) missing(err error, n NodeID, what string) error {
	var notFound *ir.ResourceNotFoundError
	if errors.As(err, &notFound) && !r.ctx.Config.ImportMissingError {
		r.ctx.Logger.Warn("could not load imported schema, skipped", "import", what, "error", err.Error(), "path", r.doc.Path(n))
		return nil
	}
	return errors.Wrapf(err, "%s: could not load %s", r.doc.Source(n), what)
}

func (r *reader) documentation(n NodeID) string {
	parts := []string{}
	for _, c := range r.doc.Children(n) {
		if r.doc.LocalName(c) == "documentation" {
			if text := r.doc.Text(c); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, "\n")
}

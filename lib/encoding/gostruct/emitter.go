package gostruct

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/makinacorpus/xsdgen/lib/output"
	"github.com/makinacorpus/xsdgen/lib/resolve"
	"github.com/makinacorpus/xsdgen/lib/util"
)

const Format output.Format = "gostruct"

// Emitter prints the complex types of a resolved graph as Go structs carrying
// encoding/xml tags. A parent type is embedded, which gives shadowing
// properties precedence over the inherited ones.
type Emitter struct {
	Package string
}

func NewEmitter() output.Emitter {
	return &Emitter{Package: "types"}
}

var goScalars = map[string]string{
	"string":   "string",
	"bool":     "bool",
	"int":      "int64",
	"float":    "float64",
	"datetime": "time.Time",
	// xs:duration is ISO 8601, not something time.ParseDuration reads
	"duration": "string",
	"binary":   "[]byte",
	"any":      "string",
}

type typeKey struct {
	module string
	name   string
}

type emission struct {
	logger   *slog.Logger
	sep      string
	names    map[typeKey]string
	usesTime bool
}

func (self *Emitter) Emit(l *slog.Logger, g *resolve.Graph, w io.Writer) error {
	e := &emission{logger: l, sep: g.Config.ModuleSeparator}
	types := g.ComplexTypes()
	e.names = e.goNames(types)
	slices.SortStableFunc(types, func(a, b *resolve.Type) int {
		return strings.Compare(e.names[keyOf(a)], e.names[keyOf(b)])
	})

	var body bytes.Buffer
	for _, t := range types {
		if err := e.writeType(&body, t); err != nil {
			return err
		}
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by xsdgen. DO NOT EDIT.\n\npackage %s\n\n", self.Package)
	if e.usesTime {
		b.WriteString("import \"time\"\n\n")
	}
	b.Write(body.Bytes())

	src, err := format.Source(b.Bytes())
	if err != nil {
		return errors.Wrap(err, "generated Go code does not parse")
	}
	l.Info("writing Go structs", "types", len(types), "package", self.Package)
	_, err = w.Write(src)
	return err
}

func keyOf(t *resolve.Type) typeKey {
	return typeKey{module: t.Module, name: t.Name}
}

// goNames gives every type an exported identifier, qualified by its module
// when the bare name is taken more than once. Names that still clash, such as
// Basket_Tags next to BasketTags, are numbered in registration order.
func (e *emission) goNames(types []*resolve.Type) map[typeKey]string {
	count := map[string]int{}
	for _, t := range types {
		count[identifier(t.Name)]++
	}
	candidates := make([]string, len(types))
	taken := map[string]bool{}
	for i, t := range types {
		name := identifier(t.Name)
		if count[name] > 1 {
			name = identifier(strings.ReplaceAll(t.Module, e.sep, " ")) + name
		}
		candidates[i] = name
		taken[name] = true
	}

	out := make(map[typeKey]string, len(types))
	used := map[string]bool{}
	for i, t := range types {
		name := candidates[i]
		if used[name] {
			base := name
			for n := 2; used[name] || taken[name]; n++ {
				name = fmt.Sprintf("%s%d", base, n)
			}
			e.logger.Warn("Go type name already used, numbered", "type", t.ID().String(), "name", name)
		}
		used[name] = true
		out[keyOf(t)] = name
	}
	return out
}

func (e *emission) writeType(b *bytes.Buffer, t *resolve.Type) error {
	name := e.names[keyOf(t)]
	writeDoc(b, t.Declared.Doc())
	if t.Abstract() {
		fmt.Fprintf(b, "// %s is abstract.\n", name)
	}
	fmt.Fprintf(b, "type %s struct {\n", name)

	parent := ""
	if t.Parent != nil {
		parent = e.names[keyOf(t.Parent)]
		fmt.Fprintf(b, "\t%s\n", parent)
	}
	for _, p := range t.OwnProperties() {
		typ, err := e.fieldType(t, p)
		if err != nil {
			return err
		}
		field := identifier(p.Name)
		if field == parent {
			field += "_"
		}
		writeDoc(b, p.Declared.Annotation)
		fmt.Fprintf(b, "\t%s %s `xml:\"%s\"`\n", field, typ, tagOf(p))
	}
	b.WriteString("}\n\n")
	return nil
}

func (e *emission) fieldType(t *resolve.Type, p *resolve.Property) (string, error) {
	var typ string
	if p.Builtin {
		typ = e.scalar(t, p)
	} else {
		found, ok := e.names[typeKey{module: p.ValueModule, name: p.ValueType}]
		if !ok {
			return "", fmt.Errorf("property %s of %s references %s\\%s which is not in the graph", p.Name, t.ID(), p.ValueModule, p.ValueType)
		}
		typ = found
	}

	switch p.Shape {
	case resolve.ShapeList:
		return "[]" + typ, nil
	case resolve.ShapeOptional:
		if strings.HasPrefix(typ, "[]") {
			return typ, nil
		}
		return "*" + typ, nil
	}
	return typ, nil
}

func (e *emission) scalar(t *resolve.Type, p *resolve.Property) string {
	if typ, ok := goScalars[p.ValueType]; ok {
		if typ == "time.Time" {
			e.usesTime = true
		}
		return typ
	}
	// a configured override, usable when it names a Go type
	if token.IsIdentifier(p.ValueType) {
		return p.ValueType
	}
	e.logger.Warn("value type is not a Go identifier, using string", "type", t.ID().String(), "property", p.Name, "value_type", p.ValueType)
	return "string"
}

func tagOf(p *resolve.Property) string {
	parts := []string{p.SourceName()}
	if p.Declared.Attribute {
		parts = append(parts, "attr")
	}
	if p.Shape != resolve.ShapeValue {
		parts = append(parts, "omitempty")
	}
	return strings.Join(parts, ",")
}

func writeDoc(b *bytes.Buffer, doc string) {
	for _, line := range strings.Split(doc, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			fmt.Fprintf(b, "// %s\n", line)
		}
	}
}

// identifier turns any name into an exported Go identifier
func identifier(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := strings.Join(util.Map(words, util.UcFirst), "")
	if out == "" || !unicode.IsLetter([]rune(out)[0]) {
		out = "X" + out
	}
	return out
}

package gostruct

import (
	"bytes"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makinacorpus/xsdgen/lib/config"
	"github.com/makinacorpus/xsdgen/lib/encoding/xsd"
	"github.com/makinacorpus/xsdgen/lib/resolve"
	"github.com/makinacorpus/xsdgen/lib/util/testutil"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func compile(t *testing.T, cfg *config.GeneratorConfig, files ...string) *resolve.Graph {
	require.NoError(t, cfg.Validate(discard))
	ctx, err := xsd.NewContext(cfg, nil, nil, discard)
	require.NoError(t, err)
	for _, file := range files {
		require.NoError(t, xsd.ReadFile(ctx, file))
	}
	g, err := resolve.Resolve(ctx.Registry, cfg, discard)
	require.NoError(t, err)
	return g
}

// structs type-checks generated code and renders each struct field as
// "Name Type `tag`", embedded fields as their type alone
func structs(t *testing.T, src []byte) (string, []string, map[string][]string) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "types.go", src, parser.ParseComments)
	require.NoError(t, err)
	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	_, err = conf.Check("example.com/generated", fset, []*ast.File{file}, nil)
	require.NoError(t, err, string(src))

	var order []string
	out := map[string][]string{}
	ast.Inspect(file, func(n ast.Node) bool {
		spec, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}
		st, ok := spec.Type.(*ast.StructType)
		require.True(t, ok, spec.Name.Name)
		fields := []string{}
		for _, f := range st.Fields.List {
			typ := types.ExprString(f.Type)
			if len(f.Names) == 0 {
				fields = append(fields, typ)
				continue
			}
			fields = append(fields, f.Names[0].Name+" "+typ+" "+f.Tag.Value)
		}
		order = append(order, spec.Name.Name)
		out[spec.Name.Name] = fields
		return false
	})
	return file.Name.Name, order, out
}

func TestEmitter_Service(t *testing.T) {
	g := compile(t, config.Default(), "../../../example/service.wsdl", "../../../example/collection.xsd")

	var buf bytes.Buffer
	require.NoError(t, NewEmitter().Emit(discard, g, &buf))
	pkg, order, got := structs(t, buf.Bytes())

	assert.Equal(t, "types", pkg)
	testutil.AssertContainsSubseq(t, order, []string{"Address", "Basket", "BasketTags", "Customer"})
	testutil.AssertOrdered(t, order, []string{"FrenchAddress", "GetCustomerRequest", "Item"})
	assert.Contains(t, buf.String(), "// Code generated by xsdgen. DO NOT EDIT.")
	assert.Contains(t, buf.String(), "// A postal address.")
	assert.Contains(t, buf.String(), `import "time"`)

	assert.Equal(t, []string{
		"Street string `xml:\"Street\"`",
		"City string `xml:\"City\"`",
		"Country string `xml:\"Country\"`",
	}, got["Address"])
	assert.Equal(t, []string{"Address"}, got["FrenchAddress"])
	assert.Equal(t, []string{
		"FrenchAddress",
		"PhoneNumber string `xml:\"PhoneNumber\"`",
	}, got["FrenchAddressWithPhone"])

	assert.Equal(t, []string{
		"Id int64 `xml:\"Id\"`",
		"Name string `xml:\"Name\"`",
		"Address *FrenchAddressWithPhone `xml:\"Address,omitempty\"`",
		"Email *string `xml:\"Email,omitempty\"`",
		"Fax *string `xml:\"Fax,omitempty\"`",
	}, got["Customer"])

	assert.Equal(t, []string{
		"Required Item `xml:\"Required\"`",
		"Optional *Item `xml:\"Optional,omitempty\"`",
		"AtLeastOne []Item `xml:\"AtLeastOne,omitempty\"`",
		"Any []Item `xml:\"Any,omitempty\"`",
		"Bounded []Item `xml:\"Bounded,omitempty\"`",
		"Several []string `xml:\"Several,omitempty\"`",
		"Nillable *time.Time `xml:\"Nillable,omitempty\"`",
		"Tags BasketTags `xml:\"Tags\"`",
		"Id string `xml:\"id,attr\"`",
		"Currency *string `xml:\"currency,attr,omitempty\"`",
	}, got["Basket"])
	assert.Equal(t, []string{"Tag []string `xml:\"Tag,omitempty\"`"}, got["BasketTags"])
}

func TestEmitter_ShadowingViaEmbedding(t *testing.T) {
	cfg := config.Default()
	cfg.PropertyPromotion = false
	g := compile(t, cfg, "../../resolve/testdata/shadowing.xsd")

	var buf bytes.Buffer
	require.NoError(t, NewEmitter().Emit(discard, g, &buf))
	_, _, got := structs(t, buf.Bytes())

	assert.Equal(t, []string{
		"Animal",
		"Legs int64 `xml:\"Legs\"`",
		"Wingspan *float64 `xml:\"Wingspan,omitempty\"`",
		"Habitat *string `xml:\"Habitat,omitempty\"`",
	}, got["Bird"])
	assert.NotContains(t, buf.String(), `import "time"`)
}

func TestEmitter_CollidingNamesAreQualified(t *testing.T) {
	cfg := config.Default()
	cfg.Names.Static = map[string]string{
		"https://schemas.makina-corpus.com/testing/inheritance/FrenchAddress": `Geo\Address`,
	}
	cfg.ScalarTypes = map[string]string{"string": `\Stringable`}
	g := compile(t, cfg, "../../../example/inheritance.xsd")

	var buf bytes.Buffer
	require.NoError(t, (&Emitter{Package: "soap"}).Emit(discard, g, &buf))
	pkg, _, got := structs(t, buf.Bytes())

	assert.Equal(t, "soap", pkg)
	assert.Contains(t, got, "GeoAddress")
	assert.Contains(t, got, "SchemasMakinaCorpusComTestingInheritanceAddress")
	assert.Equal(t, []string{"GeoAddress", "PhoneNumber string `xml:\"PhoneNumber\"`"}, got["FrenchAddressWithPhone"])
}

func TestEmitter_SameNameAfterQualificationIsNumbered(t *testing.T) {
	g := compile(t, config.Default(), "testdata/collision.xsd")

	var buf bytes.Buffer
	require.NoError(t, NewEmitter().Emit(discard, g, &buf))
	_, order, got := structs(t, buf.Bytes())

	assert.Equal(t, []string{"Basket", "UrnCollisionBasketTags", "UrnCollisionBasketTags2"}, order)
	assert.Equal(t, []string{"Label string `xml:\"Label\"`"}, got["UrnCollisionBasketTags"])
	assert.Equal(t, []string{"Tag []string `xml:\"Tag,omitempty\"`"}, got["UrnCollisionBasketTags2"])
	assert.Equal(t, []string{
		"Tags UrnCollisionBasketTags2 `xml:\"Tags\"`",
		"Labels *UrnCollisionBasketTags `xml:\"Labels,omitempty\"`",
	}, got["Basket"])
}

func TestIdentifier(t *testing.T) {
	for in, want := range map[string]string{
		"Basket_Tags": "BasketTags",
		"phoneNumber": "PhoneNumber",
		"2fa":         "X2fa",
		"":            "X",
		"a-b.c":       "ABC",
	} {
		assert.Equal(t, want, identifier(in), in)
	}
}

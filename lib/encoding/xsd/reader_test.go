package xsd_test

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makinacorpus/xsdgen/lib/config"
	"github.com/makinacorpus/xsdgen/lib/encoding/xsd"
	"github.com/makinacorpus/xsdgen/lib/encoding/xsd/xsdtest"
	"github.com/makinacorpus/xsdgen/lib/ir"
	"github.com/makinacorpus/xsdgen/lib/util"
	"github.com/makinacorpus/xsdgen/lib/util/testutil"
)

const testNs = "https://schemas.makina-corpus.com/testing"

func newContext(t *testing.T, cfg *config.GeneratorConfig, locator xsd.Locator) (*xsd.Context, *testutil.LogRecorder) {
	if cfg == nil {
		cfg = config.Default()
	}
	l, rec := testutil.NewRecordingLogger()
	ctx, err := xsd.NewContext(cfg, locator, nil, l)
	require.NoError(t, err)
	return ctx, rec
}

func readString(ctx *xsd.Context, src string) error {
	doc, err := xsd.ParseDocument(strings.NewReader(src), "inline.xsd")
	if err != nil {
		return err
	}
	return xsd.ReadDocument(ctx, doc, "testdata")
}

func schema(body string) string {
	return `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" xmlns:tns="` + testNs + `" targetNamespace="` + testNs + `">` + body + `</xs:schema>`
}

func getComplex(t *testing.T, ctx *xsd.Context, name string) *ir.ComplexType {
	typ, err := ctx.Registry.Get(ir.NewTypeId(testNs, name))
	require.NoError(t, err)
	ct, ok := typ.(*ir.ComplexType)
	require.True(t, ok, "%s is a %T", name, typ)
	return ct
}

func TestReader_Multiplicity(t *testing.T) {
	tests := []struct {
		attrs      string
		collection bool
		nullable   bool
		min        uint32
		max        util.Opt[uint32]
	}{
		{``, false, false, 1, util.Some[uint32](1)},
		{`minOccurs="0" maxOccurs="1"`, false, true, 0, util.Some[uint32](1)},
		{`minOccurs="1" maxOccurs="unbounded"`, true, false, 1, util.None[uint32]()},
		{`minOccurs="0" maxOccurs="unbounded"`, true, true, 0, util.None[uint32]()},
		{`maxOccurs="5"`, true, false, 1, util.Some[uint32](5)},
		{`minOccurs="3"`, true, false, 3, util.None[uint32]()},
		{`minOccurs="3" maxOccurs="4"`, true, false, 3, util.Some[uint32](4)},
		{`nillable="true"`, false, true, 1, util.Some[uint32](1)},
		{`minOccurs="lots"`, false, false, 1, util.Some[uint32](1)},
		{`maxOccurs="many"`, false, false, 1, util.Some[uint32](1)},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("[%s]", tc.attrs), func(t *testing.T) {
			ctx, _ := newContext(t, nil, nil)
			err := readString(ctx, schema(`
				<xs:complexType name="Holder">
					<xs:sequence>
						<xs:element name="Value" type="xs:string" `+tc.attrs+`/>
					</xs:sequence>
				</xs:complexType>`))
			require.NoError(t, err)

			prop := getComplex(t, ctx, "Holder").Properties.Get("Value")
			require.NotNil(t, prop)
			assert.Equal(t, tc.collection, prop.Collection, "collection")
			assert.Equal(t, tc.nullable, prop.Nullable, "nullable")
			assert.Equal(t, tc.min, prop.MinOccurs, "minOccurs")
			assert.Equal(t, tc.max, prop.MaxOccurs, "maxOccurs")
		})
	}
}

func TestReader_InvalidOccursWarns(t *testing.T) {
	ctx, rec := newContext(t, nil, nil)
	require.NoError(t, readString(ctx, schema(`
		<xs:complexType name="Holder">
			<xs:sequence>
				<xs:element name="Value" type="xs:string" minOccurs="x" maxOccurs="y"/>
			</xs:sequence>
		</xs:complexType>`)))
	assert.Contains(t, rec.Messages(slog.LevelWarn), "invalid minOccurs, ignored")
	assert.Contains(t, rec.Messages(slog.LevelWarn), "invalid maxOccurs, ignored")
}

func TestReader_ExtensionAndAnonymousTypes(t *testing.T) {
	ctx, _ := newContext(t, nil, nil)
	require.NoError(t, readString(ctx, schema(`
		<xs:complexType name="Base" abstract="true">
			<xs:annotation><xs:documentation>  The base.  </xs:documentation></xs:annotation>
			<xs:sequence>
				<xs:element name="Id" type="xs:int"/>
			</xs:sequence>
		</xs:complexType>
		<xs:complexType name="Child">
			<xs:complexContent>
				<xs:extension base="tns:Base">
					<xs:sequence>
						<xs:element name="Meta">
							<xs:annotation><xs:documentation>Free form</xs:documentation></xs:annotation>
							<xs:complexType>
								<xs:sequence>
									<xs:element name="Key" type="xs:string"/>
								</xs:sequence>
							</xs:complexType>
						</xs:element>
						<xs:element name="Untyped"/>
					</xs:sequence>
				</xs:extension>
			</xs:complexContent>
		</xs:complexType>`)))

	base := getComplex(t, ctx, "Base")
	assert.True(t, base.Abstract)
	assert.Equal(t, "The base.", base.Annotation)
	assert.Equal(t, 2, base.Source.Line)
	assert.Equal(t, "/schema/complexType[Base]", base.Source.Path)

	child := getComplex(t, ctx, "Child")
	require.NotNil(t, child.Extends)
	assert.Equal(t, ir.NewTypeId(testNs, "Base"), *child.Extends)
	assert.Equal(t, []string{"Meta"}, child.Properties.Keys())

	meta := child.Properties.Get("Meta")
	assert.Equal(t, ir.NewTypeId(testNs, "Child_Meta"), meta.Type)
	assert.Equal(t, "Free form", meta.Annotation)
	anon := getComplex(t, ctx, "Child_Meta")
	assert.Equal(t, []string{"Key"}, anon.Properties.Keys())

	// builtins get registered once, on first use
	assert.True(t, ctx.Registry.Has(ir.ScalarTypeId("int")))
	assert.True(t, ctx.Registry.Has(ir.ScalarTypeId("string")))
}

func TestReader_ScalarBaseIsIgnored(t *testing.T) {
	ctx, rec := newContext(t, nil, nil)
	require.NoError(t, readString(ctx, schema(`
		<xs:complexType name="Odd">
			<xs:complexContent>
				<xs:extension base="xs:string"/>
			</xs:complexContent>
		</xs:complexType>`)))
	assert.Nil(t, getComplex(t, ctx, "Odd").Extends)
	assert.Contains(t, rec.Messages(slog.LevelWarn), "complex type should not extend a scalar type, ignoring base")
}

func TestReader_SimpleTypes(t *testing.T) {
	ctx, _ := newContext(t, nil, nil)
	require.NoError(t, readString(ctx, schema(`
		<xs:simpleType name="Code">
			<xs:restriction base="xs:int"><xs:minInclusive value="0"/></xs:restriction>
		</xs:simpleType>
		<xs:simpleType name="SubCode">
			<xs:restriction base="tns:Code"/>
		</xs:simpleType>
		<xs:simpleType name="Codes">
			<xs:list itemType="tns:Code"/>
		</xs:simpleType>`)))

	get := func(name string) *ir.SimpleType {
		typ, err := ctx.Registry.Get(ir.NewTypeId(testNs, name))
		require.NoError(t, err)
		return typ.(*ir.SimpleType)
	}
	assert.Equal(t, "int", get("Code").Scalar)
	assert.Equal(t, "", get("SubCode").Scalar)
	assert.Equal(t, ir.NewTypeId(testNs, "Code"), *get("SubCode").Extends)
	assert.Equal(t, "string", get("Codes").Scalar)
}

func TestReader_AttributesAndChoice(t *testing.T) {
	ctx, _ := newContext(t, nil, nil)
	require.NoError(t, readString(ctx, schema(`
		<xs:complexType name="Contact">
			<xs:choice>
				<xs:element name="Email" type="xs:string"/>
				<xs:element name="Phone" type="xs:string"/>
			</xs:choice>
			<xs:attribute name="id" type="xs:ID" use="required"/>
			<xs:attribute name="lang"/>
			<xs:attribute name="legacy" type="xs:string" use="prohibited"/>
		</xs:complexType>`)))

	ct := getComplex(t, ctx, "Contact")
	assert.Equal(t, []string{"Email", "Phone", "id", "lang"}, ct.Properties.Keys())
	assert.True(t, ct.Properties.Get("Email").Nullable)
	assert.True(t, ct.Properties.Get("Phone").Nullable)

	id := ct.Properties.Get("id")
	assert.True(t, id.Attribute)
	assert.False(t, id.Nullable)
	assert.Equal(t, ir.ScalarTypeId("ID"), id.Type)

	lang := ct.Properties.Get("lang")
	assert.True(t, lang.Nullable)
	assert.Equal(t, ir.ScalarTypeId("anySimpleType"), lang.Type)
}

func TestReader_UnexpectedElementsAreWarnings(t *testing.T) {
	ctx, rec := newContext(t, nil, nil)
	require.NoError(t, readString(ctx, schema(`
		<xs:group name="Ignored"/>
		<xs:complexType name="T">
			<xs:sequence>
				<xs:any/>
				<xs:element ref="tns:Other"/>
				<xs:element name="Ok" type="xs:string"/>
			</xs:sequence>
		</xs:complexType>`)))

	warnings := rec.Messages(slog.LevelWarn)
	assert.Contains(t, warnings, "unexpected element <xs:group>")
	assert.Contains(t, warnings, "unexpected element <xs:any>")
	assert.Contains(t, warnings, "element references are not supported, property skipped")
	assert.Contains(t, rec.Attr(slog.LevelWarn, "path"), "/schema/complexType[T]/sequence/any")
	assert.Equal(t, []string{"Ok"}, getComplex(t, ctx, "T").Properties.Keys())
}

func TestReader_UnprefixedDefaultNamespace(t *testing.T) {
	ctx, _ := newContext(t, nil, nil)
	require.NoError(t, readString(ctx, `
		<schema xmlns="http://www.w3.org/2001/XMLSchema" xmlns:tns="`+testNs+`" targetNamespace="`+testNs+`">
			<complexType name="Plain">
				<sequence>
					<element name="Name" type="string"/>
					<element name="Next" type="tns:Plain" minOccurs="0"/>
				</sequence>
			</complexType>
		</schema>`))

	ct := getComplex(t, ctx, "Plain")
	assert.Equal(t, ir.ScalarTypeId("string"), ct.Properties.Get("Name").Type)
	assert.Equal(t, ir.NewTypeId(testNs, "Plain"), ct.Properties.Get("Next").Type)
}

func TestReader_ConflictingRedeclaration(t *testing.T) {
	ctx, _ := newContext(t, nil, nil)
	err := readString(ctx, schema(`
		<xs:complexType name="Twice"><xs:sequence><xs:element name="A" type="xs:string"/></xs:sequence></xs:complexType>
		<xs:complexType name="Twice"><xs:sequence><xs:element name="B" type="xs:string"/></xs:sequence></xs:complexType>`))
	var conflict *ir.TypeConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestReader_ComplexTypeWithoutName(t *testing.T) {
	ctx, _ := newContext(t, nil, nil)
	err := readString(ctx, schema(`<xs:complexType><xs:sequence/></xs:complexType>`))
	var readerErr *ir.ReaderError
	assert.ErrorAs(t, err, &readerErr)
}

func TestReader_ImportCycleTerminates(t *testing.T) {
	ctx, _ := newContext(t, nil, nil)
	require.NoError(t, xsd.ReadFile(ctx, "testdata/cycle_a.xsd"))

	a := testNs + "/cycle/a"
	b := testNs + "/cycle/b"
	assert.True(t, ctx.WasImported(a))
	assert.True(t, ctx.WasImported(b))
	assert.True(t, ctx.Registry.Has(ir.NewTypeId(a, "Node")))
	assert.True(t, ctx.Registry.Has(ir.NewTypeId(b, "Node")))

	// reading again is a no-op
	before := ctx.Registry.Len()
	require.NoError(t, xsd.ReadFile(ctx, "testdata/cycle_b.xsd"))
	assert.Equal(t, before, ctx.Registry.Len())
}

func TestReader_MissingImportIsWarning(t *testing.T) {
	ctx, rec := newContext(t, nil, nil)
	require.NoError(t, xsd.ReadFile(ctx, "testdata/missing_import.xsd"))
	assert.True(t, ctx.Registry.Has(ir.NewTypeId(testNs+"/missing", "Lonely")))
	assert.Len(t, rec.Attr(slog.LevelWarn, "import"), 2)
}

func TestReader_MissingImportPolicy(t *testing.T) {
	cfg := config.Default()
	cfg.ImportMissingError = true
	ctx, _ := newContext(t, cfg, nil)
	err := xsd.ReadFile(ctx, "testdata/missing_import.xsd")
	var notFound *ir.ResourceNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestReader_MalformedImportIsFatal(t *testing.T) {
	ctx, _ := newContext(t, nil, nil)
	err := xsd.ReadFile(ctx, "testdata/imports_malformed.xsd")
	var readerErr *ir.ReaderError
	require.ErrorAs(t, err, &readerErr)
	assert.Contains(t, readerErr.Source.File, "malformed.xsd")
}

func TestReader_Include(t *testing.T) {
	ctx, _ := newContext(t, nil, nil)
	require.NoError(t, xsd.ReadFile(ctx, "testdata/include_main.xsd"))
	ns := testNs + "/include"
	assert.True(t, ctx.Registry.Has(ir.NewTypeId(ns, "Order")))
	assert.True(t, ctx.Registry.Has(ir.NewTypeId(ns, "OrderLine")))
}

func TestReader_ImportGoesThroughLocator(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	locator := xsdtest.NewMockLocator(ctrl)
	locator.EXPECT().
		Locate("urn:other", "other.xsd", "testdata").
		Return("", &ir.ResourceNotFoundError{URI: "urn:other", Location: "other.xsd", Reason: "mocked"}).
		Times(1)

	ctx, rec := newContext(t, nil, locator)
	require.NoError(t, readString(ctx, schema(`
		<xs:import namespace="urn:other" schemaLocation="other.xsd"/>
		<xs:import namespace="urn:other" schemaLocation="other.xsd"/>`)))
	assert.Equal(t, []string{"urn:other"}, rec.Attr(slog.LevelWarn, "import"))
	assert.Equal(t, []string{testNs, "urn:other"}, ctx.Imported())
}

func TestReader_ConflictingSchemaLocation(t *testing.T) {
	ctx, _ := newContext(t, nil, nil)
	require.NoError(t, ctx.RegisterSchemaLocation("urn:x", "x.xsd"))
	require.NoError(t, ctx.RegisterSchemaLocation("urn:x", "x.xsd"))
	var readerErr *ir.ReaderError
	assert.ErrorAs(t, ctx.RegisterSchemaLocation("urn:x", "y.xsd"), &readerErr)
}

func TestReader_Wsdl(t *testing.T) {
	ctx, rec := newContext(t, nil, nil)
	require.NoError(t, xsd.ReadFile(ctx, "../../../example/service.wsdl"))

	service := "https://schemas.makina-corpus.com/testing/service"
	inheritance := "https://schemas.makina-corpus.com/testing/inheritance"
	for _, id := range []ir.TypeId{
		ir.NewTypeId(service, "GetCustomerRequest"),
		ir.NewTypeId(service, "GetCustomerResponse"),
		ir.NewTypeId(service, "Customer"),
		ir.NewTypeId(inheritance, "FrenchAddressWithPhone"),
	} {
		assert.True(t, ctx.Registry.Has(id), id.String())
	}
	// messages and port types are not types
	assert.Empty(t, rec.Messages(slog.LevelWarn))
}

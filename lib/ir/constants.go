package ir

const (
	XmlSchemaNamespace = "http://www.w3.org/2001/XMLSchema"
	WsdlNamespace      = "http://schemas.xmlsoap.org/wsdl/"
	XmlnsNamespace     = "http://www.w3.org/2000/xmlns/"
)

// DefaultScalar is the scalar kind a simple type falls back to when its
// derivation chain does not end on a builtin
const DefaultScalar = "string"

// conventional prefixes that resolve to the schema namespace even when no
// xmlns binding is in scope
var ConventionalSchemaPrefixes = []string{"xs", "xsd"}

package xsd

import (
	"github.com/makinacorpus/xsdgen/lib/ir"
)

type state int

const (
	stateRoot state = iota
	stateDefinitions
	stateTypes
	stateSchema
	stateElement
	stateComplexType
	stateComplexContent
	stateDerivation
	stateSequence
	stateChoice
	stateSimpleType
)

type production int

const (
	prodIgnore production = iota
	prodDefinitions
	prodTypes
	prodSchema
	prodImport
	prodInclude
	prodTopElement
	prodComplexType
	prodSimpleType
	prodAnnotation
	prodSequence
	prodChoice
	prodComplexContent
	prodSimpleContent
	prodDerivation
	prodList
	prodProperty
	prodAttribute
)

type symbol struct {
	namespace string
	local     string
}

func xs(local string) symbol {
	return symbol{ir.XmlSchemaNamespace, local}
}

func wsdl(local string) symbol {
	return symbol{ir.WsdlNamespace, local}
}

// grammar lists, per state, the children that are understood. Anything else
// is reported as unexpected and skipped.
var grammar = map[state]map[symbol]production{
	stateRoot: {
		wsdl("definitions"): prodDefinitions,
		wsdl("types"):       prodTypes,
		xs("types"):         prodTypes,
		xs("schema"):        prodSchema,
		xs("import"):        prodImport,
	},
	stateDefinitions: {
		wsdl("types"):         prodTypes,
		xs("schema"):          prodSchema,
		xs("import"):          prodImport,
		wsdl("import"):        prodImport,
		wsdl("documentation"): prodIgnore,
		wsdl("message"):       prodIgnore,
		wsdl("portType"):      prodIgnore,
		wsdl("binding"):       prodIgnore,
		wsdl("service"):       prodIgnore,
	},
	stateTypes: {
		xs("schema"): prodSchema,
	},
	stateSchema: {
		xs("element"):     prodTopElement,
		xs("complexType"): prodComplexType,
		xs("simpleType"):  prodSimpleType,
		xs("import"):      prodImport,
		xs("include"):     prodInclude,
		xs("annotation"):  prodIgnore,
	},
	stateElement: {
		xs("annotation"):  prodAnnotation,
		xs("complexType"): prodComplexType,
		xs("simpleType"):  prodSimpleType,
	},
	stateComplexType: {
		xs("annotation"):     prodAnnotation,
		xs("sequence"):       prodSequence,
		xs("all"):            prodSequence,
		xs("choice"):         prodChoice,
		xs("complexContent"): prodComplexContent,
		xs("simpleContent"):  prodSimpleContent,
		xs("attribute"):      prodAttribute,
	},
	stateComplexContent: {
		xs("extension"):   prodDerivation,
		xs("restriction"): prodDerivation,
	},
	stateDerivation: {
		xs("sequence"):  prodSequence,
		xs("all"):       prodSequence,
		xs("choice"):    prodChoice,
		xs("attribute"): prodAttribute,
	},
	stateSequence: {
		xs("element"):  prodProperty,
		xs("sequence"): prodSequence,
		xs("choice"):   prodChoice,
	},
	stateChoice: {
		xs("element"):  prodProperty,
		xs("sequence"): prodSequence,
	},
	stateSimpleType: {
		xs("annotation"):  prodAnnotation,
		xs("restriction"): prodDerivation,
		xs("list"):        prodList,
		xs("union"):       prodList,
	},
}

// lookup finds the production for an element. An element whose prefix is
// unbound, or bound to the empty namespace, matches on its local name alone.
func lookup(st state, sym symbol) (production, bool) {
	productions := grammar[st]
	if prod, ok := productions[sym]; ok {
		return prod, true
	}
	if sym.namespace != "" {
		return prodIgnore, false
	}
	if prod, ok := productions[xs(sym.local)]; ok {
		return prod, true
	}
	prod, ok := productions[wsdl(sym.local)]
	return prod, ok
}

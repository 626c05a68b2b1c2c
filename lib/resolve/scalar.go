package resolve

import (
	"github.com/makinacorpus/xsdgen/lib/config"
)

// target neutral value types for the builtin XML Schema kinds
var scalarTable = map[string]string{}

func init() {
	register := func(target string, kinds ...string) {
		for _, kind := range kinds {
			scalarTable[kind] = target
		}
	}
	register("string",
		"string", "normalizedString", "token", "language", "Name", "NCName",
		"ID", "IDREF", "IDREFS", "ENTITY", "ENTITIES", "NMTOKEN", "NMTOKENS",
		"anyURI", "QName", "NOTATION", "time", "anySimpleType",
	)
	register("bool", "boolean")
	register("int",
		"integer", "int", "long", "short", "byte",
		"nonNegativeInteger", "positiveInteger", "nonPositiveInteger", "negativeInteger",
		"unsignedLong", "unsignedInt", "unsignedShort", "unsignedByte",
		"gYear", "gMonth", "gDay", "gYearMonth", "gMonthDay",
	)
	register("float", "decimal", "float", "double")
	register("datetime", "date", "dateTime")
	register("duration", "duration")
	register("binary", "base64Binary", "hexBinary")
	register("any", "anyType")
}

// ScalarValueType maps a builtin kind to its target value type. Configured
// overrides win, unknown kinds are returned unchanged.
func ScalarValueType(cfg *config.GeneratorConfig, kind string) string {
	if target, ok := cfg.ScalarOverride(kind); ok {
		return target
	}
	if target, ok := scalarTable[kind]; ok {
		return target
	}
	return kind
}

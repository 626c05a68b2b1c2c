package config

import (
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/makinacorpus/xsdgen/lib/ir"
	"github.com/makinacorpus/xsdgen/lib/util"
)

// GeneratorConfig drives naming and emission policy. Build it with Default or
// Load, then call Validate once before handing it to the reader.
type GeneratorConfig struct {
	// Module prefix prepended to every generated module path
	DefaultNamespace string `yaml:"default_namespace"`
	// Root directory for generated files
	DefaultDirectory string `yaml:"default_directory"`
	ModuleSeparator  string `yaml:"module_separator"`
	FileExtension    string `yaml:"file_extension"`

	// schema namespace (or converted module path) prefix -> module infix.
	// An empty value maps the prefix straight onto the default namespace.
	Namespaces map[string]string `yaml:"namespaces"`
	// module prefix -> directory
	Directories map[string]string `yaml:"directories"`

	Names         NameOverrides     `yaml:"names"`
	ReservedNames []string          `yaml:"reserved_names"`
	ScalarTypes   map[string]string `yaml:"scalar_types"`

	ClassConstructor   bool `yaml:"class_constructor"`
	ClassFactoryMethod bool `yaml:"class_factory_method"`
	PropertyCamelCase  bool `yaml:"property_camel_case"`
	PropertyDefault    bool `yaml:"property_default"`
	PropertyGetter     bool `yaml:"property_getter"`
	PropertySetter     bool `yaml:"property_setter"`
	// constructor-based initialization
	PropertyPromotion bool `yaml:"property_promotion"`
	PropertyPublic    bool `yaml:"property_public"`
	PropertyReadonly  bool `yaml:"property_readonly"`

	TypeMissingError   bool `yaml:"type_missing_error"`
	TypeOverrideError  bool `yaml:"type_override_error"`
	ImportMissingError bool `yaml:"import_missing_error"`
}

type NameOverrides struct {
	// "namespace/Name" or fully qualified target name -> target name
	Static map[string]string `yaml:"static"`
	// module path -> local schema name -> target name
	Modules map[string]map[string]string `yaml:"modules"`
	// schema namespace -> local schema name -> target name
	Namespaces map[string]map[string]string `yaml:"namespaces"`
}

func Default() *GeneratorConfig {
	return &GeneratorConfig{
		DefaultDirectory:   "src/Soap",
		ModuleSeparator:    `\`,
		FileExtension:      ".php",
		Namespaces:         map[string]string{},
		Directories:        map[string]string{},
		ReservedNames:      []string{"object"},
		ScalarTypes:        map[string]string{},
		ClassConstructor:   true,
		ClassFactoryMethod: false,
		PropertyCamelCase:  true,
		PropertyDefault:    true,
		PropertyGetter:     true,
		PropertySetter:     false,
		PropertyPromotion:  true,
		PropertyPublic:     true,
		PropertyReadonly:   true,
		TypeMissingError:   false,
		TypeOverrideError:  false,
		ImportMissingError: false,
	}
}

// Load reads a YAML configuration on top of the defaults. Unknown keys are
// rejected with a ConfigError.
func Load(r io.Reader) (*GeneratorConfig, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// empty document
			return cfg, nil
		}
		return nil, &ir.ConfigError{Msg: err.Error()}
	}
	return cfg, nil
}

// Validate checks the configuration and settles conflicting toggles. All
// problems are reported at once.
func (self *GeneratorConfig) Validate(l *slog.Logger) error {
	var errs []error
	if self.ModuleSeparator == "" {
		errs = append(errs, &ir.ConfigError{Key: "module_separator", Msg: "must not be empty"})
	}
	if self.DefaultDirectory == "" {
		errs = append(errs, &ir.ConfigError{Key: "default_directory", Msg: "must not be empty"})
	}
	for prefix := range self.Namespaces {
		if prefix == "" {
			errs = append(errs, &ir.ConfigError{Key: "namespaces", Msg: "namespace prefix must not be empty"})
		}
	}
	for kind, target := range self.ScalarTypes {
		if target == "" {
			errs = append(errs, &ir.ConfigError{Key: "scalar_types", Msg: "no target type for scalar " + kind})
		}
	}
	if len(errs) > 0 {
		return &multierror.Error{Errors: errs}
	}

	self.DefaultNamespace = strings.Trim(self.DefaultNamespace, self.ModuleSeparator)
	self.DefaultDirectory = strings.TrimRight(self.DefaultDirectory, "/")
	if self.FileExtension != "" && !strings.HasPrefix(self.FileExtension, ".") {
		self.FileExtension = "." + self.FileExtension
	}
	if self.PropertyReadonly && self.PropertySetter {
		l.Warn("setters cannot be written for readonly properties, disabling setters")
		self.PropertySetter = false
	}
	return nil
}

// ConvertName is the default schema-name-to-module conversion: the URI
// scheme is dropped, the remainder split into words, words that do not start
// with a letter discarded and the rest capitalized and joined with the module
// separator.
func (self *GeneratorConfig) ConvertName(name string) string {
	if _, rest, found := strings.Cut(name, "://"); found {
		name = rest
	}
	words := util.Filter(util.Words(name), util.StartsWithLetter)
	return strings.Join(util.Map(words, util.UcFirst), self.ModuleSeparator)
}

// ConvertLocalName converts a schema local name into a target local name.
// Words are filtered as in ConvertName but joined without a separator. A name
// left with no word starting with a letter is kept whole behind a "Type"
// prefix.
func (self *GeneratorConfig) ConvertLocalName(name string) string {
	words := util.Words(name)
	kept := util.Filter(words, util.StartsWithLetter)
	if len(kept) == 0 {
		return localNamePrefix + strings.Join(util.Map(words, util.UcFirst), "")
	}
	return strings.Join(util.Map(kept, util.UcFirst), "")
}

const localNamePrefix = "Type"

// ResolveModule computes the target module path for a schema namespace.
// Configured prefixes are tried longest first.
func (self *GeneratorConfig) ResolveModule(namespace string) string {
	sep := self.ModuleSeparator
	converted := self.ConvertName(namespace)

	for _, prefix := range self.namespacePrefixes() {
		target := strings.Trim(self.Namespaces[prefix], sep)
		switch {
		case namespace == prefix || converted == prefix:
			return self.join(self.DefaultNamespace, target)
		case strings.HasPrefix(namespace, prefix):
			suffix := strings.TrimLeft(self.ConvertName(namespace[len(prefix):]), sep)
			return self.join(self.DefaultNamespace, target, suffix)
		case strings.HasPrefix(converted, prefix):
			suffix := strings.TrimLeft(converted[len(prefix):], sep)
			return self.join(self.DefaultNamespace, target, suffix)
		}
	}

	return self.join(self.DefaultNamespace, converted)
}

// ResolveTypeName returns the target module path and local name of a schema type.
func (self *GeneratorConfig) ResolveTypeName(namespace, name string) (string, string) {
	module := self.ResolveModule(namespace)
	local := self.ConvertLocalName(name)

	if found, ok := self.Names.Static[namespace+"/"+name]; ok {
		return self.applyOverride(module, found)
	}

	if found, ok := self.Names.Static[self.join(module, local)]; ok {
		return self.applyOverride(module, found)
	}
	if found, ok := self.Names.Modules[module][name]; ok {
		return self.applyOverride(module, found)
	}
	if found, ok := self.Names.Namespaces[namespace][name]; ok {
		return self.applyOverride(module, found)
	}

	if util.IStrsContains(self.ReservedNames, local) {
		local += "_"
	}
	return module, local
}

// ResolvePropertyName returns the target name of a property
func (self *GeneratorConfig) ResolvePropertyName(name string) string {
	if self.PropertyCamelCase {
		return util.LcFirst(name)
	}
	return name
}

// ResolveFileName maps a target type to the file an emitter should write it to.
func (self *GeneratorConfig) ResolveFileName(module, local string) string {
	sep := self.ModuleSeparator
	module = strings.Trim(module, sep)

	dir := self.DefaultDirectory
	rest := module
	if self.DefaultNamespace != "" && strings.HasPrefix(module, self.DefaultNamespace) {
		rest = strings.TrimLeft(module[len(self.DefaultNamespace):], sep)
	}

	// an explicit directory mapping wins over the default one, longest first
	dirs := maps.Keys(self.Directories)
	sortLongestFirst(dirs)
	for _, prefix := range dirs {
		p := strings.Trim(prefix, sep)
		if module == p || strings.HasPrefix(module, p+sep) {
			dir = strings.TrimRight(self.Directories[prefix], "/")
			rest = strings.TrimLeft(module[len(p):], sep)
			break
		}
	}

	return path.Join(dir, strings.ReplaceAll(rest, sep, "/"), local+self.FileExtension)
}

// ScalarOverride returns the configured target for a scalar kind, if any
func (self *GeneratorConfig) ScalarOverride(kind string) (string, bool) {
	t, ok := self.ScalarTypes[kind]
	return t, ok
}

func (self *GeneratorConfig) join(parts ...string) string {
	return util.CondJoin(self.ModuleSeparator, parts...)
}

// an override is either a bare local name that keeps the computed module, or
// a fully qualified name that replaces both
func (self *GeneratorConfig) applyOverride(module, found string) (string, string) {
	sep := self.ModuleSeparator
	found = strings.Trim(found, sep)
	if i := strings.LastIndex(found, sep); i >= 0 {
		return found[:i], found[i+len(sep):]
	}
	return module, found
}

func (self *GeneratorConfig) namespacePrefixes() []string {
	prefixes := maps.Keys(self.Namespaces)
	sortLongestFirst(prefixes)
	return prefixes
}

func sortLongestFirst(s []string) {
	slices.SortFunc(s, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
}

package config

// Args is the command line, parsed by go-arg. Flags win over the config file.
type Args struct {
	Files []string `arg:"positional,required" help:"XSD or WSDL files to compile"`

	Config string `arg:"-c,--config" help:"YAML configuration file"`
	Format string `arg:"-f,--format" default:"manifest" help:"output format, manifest or gostruct"`
	Output string `arg:"-o,--output" default:"-" help:"output file, - for stdout"`

	DefaultNamespace string            `arg:"--default-namespace" help:"module prefix for every generated type"`
	DefaultDirectory string            `arg:"--default-directory" help:"root directory of generated files"`
	Namespaces       map[string]string `arg:"--namespace" help:"map a schema namespace prefix to a module, as ns=module"`

	TypeMissingError   bool `arg:"--type-missing-error" help:"fail on references to undeclared types instead of dropping the property"`
	TypeOverrideError  bool `arg:"--type-override-error" help:"fail on any type redeclaration"`
	ImportMissingError bool `arg:"--import-missing-error" help:"fail when an imported schema cannot be found"`

	// Global Switches and Flags
	Verbose []bool `arg:"-v" help:"see more detail (verbose). -vvv is not advised for normal use."`
	Quiet   []bool `arg:"-q" help:"see less detail (quiet)."`
	Debug   bool   `arg:"--debug" help:"display extended information about errors. Automatically implies -vv."`
}

func (Args) Description() string {
	return "compiles XML schemas and WSDL type sections into a resolved type graph"
}

// Apply overlays the flags that were given onto cfg
func (self *Args) Apply(cfg *GeneratorConfig) {
	if self.DefaultNamespace != "" {
		cfg.DefaultNamespace = self.DefaultNamespace
	}
	if self.DefaultDirectory != "" {
		cfg.DefaultDirectory = self.DefaultDirectory
	}
	if len(self.Namespaces) > 0 && cfg.Namespaces == nil {
		cfg.Namespaces = map[string]string{}
	}
	for ns, module := range self.Namespaces {
		cfg.Namespaces[ns] = module
	}
	cfg.TypeMissingError = cfg.TypeMissingError || self.TypeMissingError
	cfg.TypeOverrideError = cfg.TypeOverrideError || self.TypeOverrideError
	cfg.ImportMissingError = cfg.ImportMissingError || self.ImportMissingError
}

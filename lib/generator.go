package lib

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/makinacorpus/xsdgen/lib/config"
	"github.com/makinacorpus/xsdgen/lib/encoding/xsd"
	"github.com/makinacorpus/xsdgen/lib/output"
	"github.com/makinacorpus/xsdgen/lib/resolve"
	"github.com/makinacorpus/xsdgen/lib/util"
)

var Version = "1.0.0"

type Generator struct {
	logger zerolog.Logger

	// shared by every compilation run by this generator
	documents *xsd.DocumentCache
	locator   xsd.Locator
}

func NewGenerator() *Generator {
	return &Generator{
		logger: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger(),
	}
}

// WithLogOutput sends log lines to w, without colors
func (self *Generator) WithLogOutput(w io.Writer) *Generator {
	level := self.logger.GetLevel()
	self.logger = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).With().Timestamp().Logger().Level(level)
	return self
}

// WithLocator replaces the local file locator used for imports
func (self *Generator) WithLocator(locator xsd.Locator) *Generator {
	self.locator = locator
	return self
}

// Logger bridges slog to the generator zerolog logger
func (self *Generator) Logger() *slog.Logger {
	return slog.New(newLogHandler(self))
}

func (self *Generator) ArgParse() {
	args := &config.Args{}
	arg.MustParse(args)

	self.setVerbosity(args)
	self.Notice("xsdgen version %s", Version)

	cfg, err := self.loadConfig(args)
	if err != nil {
		self.Fatal("%s", err.Error())
	}

	constructor, err := GetEmitter(output.Format(args.Format))
	if err != nil {
		self.Fatal("%s", err.Error())
	}

	// nothing is written unless the whole run succeeds
	var buf bytes.Buffer
	if err := self.Generate(cfg, constructor(), &buf, args.Files...); err != nil {
		self.Fatal("%s", err.Error())
	}

	if args.Output == "" || args.Output == "-" {
		if _, err := io.Copy(os.Stdout, &buf); err != nil {
			self.Fatal("Failed to write output: %s", err.Error())
		}
		return
	}
	if err := util.WriteFile(buf.Bytes(), args.Output); err != nil {
		self.Fatal("Failed to save output to %s: %s", args.Output, err.Error())
	}
	self.Notice("Saved %s output to %s", args.Format, args.Output)
}

func (self *Generator) loadConfig(args *config.Args) (*config.GeneratorConfig, error) {
	cfg := config.Default()
	if args.Config != "" {
		f, err := os.Open(args.Config)
		if err != nil {
			return nil, errors.Wrapf(err, "could not open configuration %s", args.Config)
		}
		defer f.Close()
		if cfg, err = config.Load(f); err != nil {
			return nil, errors.Wrapf(err, "could not load configuration %s", args.Config)
		}
		self.Info("Loaded configuration %s", args.Config)
	}
	args.Apply(cfg)
	if err := cfg.Validate(self.Logger()); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Compile reads every file into one compilation context and resolves the
// result. cfg must have been validated.
func (self *Generator) Compile(cfg *config.GeneratorConfig, files ...string) (*resolve.Graph, error) {
	if len(files) == 0 {
		return nil, errors.New("no input file given")
	}
	if self.documents == nil {
		documents, err := xsd.NewDocumentCache(xsd.DefaultDocumentCacheSize)
		if err != nil {
			return nil, err
		}
		self.documents = documents
	}

	l := self.Logger()
	ctx, err := xsd.NewContext(cfg, self.locator, self.documents, l)
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		if err := xsd.ReadFile(ctx, file); err != nil {
			return nil, errors.Wrapf(err, "could not read %s", file)
		}
	}
	self.Info("Read %d types from %s", ctx.Registry.Len(), strings.Join(files, " "))
	self.Info("Imported namespaces: %s", strings.Join(ctx.Imported(), " "))

	return resolve.Resolve(ctx.Registry, cfg, l)
}

// Generate compiles files and hands the resolved graph to emitter
func (self *Generator) Generate(cfg *config.GeneratorConfig, emitter output.Emitter, w io.Writer, files ...string) error {
	g, err := self.Compile(cfg, files...)
	if err != nil {
		return err
	}
	self.Info("Resolved %d complex types", len(g.ComplexTypes()))
	return emitter.Emit(self.Logger(), g, w)
}

func (self *Generator) Fatal(s string, args ...interface{}) {
	self.logger.Fatal().Msgf(s, args...)
}

func (self *Generator) Warning(s string, args ...interface{}) {
	self.logger.Warn().Msgf(s, args...)
}
func (self *Generator) Notice(s string, args ...interface{}) {
	self.Info(s, args...)
}
func (self *Generator) Info(s string, args ...interface{}) {
	self.logger.Info().Msgf(s, args...)
}

func (self *Generator) setVerbosity(args *config.Args) {
	// zerolog levels are int8, lower is more verbose
	level := zerolog.InfoLevel

	if args.Debug {
		level = zerolog.TraceLevel
	}

	for _, v := range args.Verbose {
		if v {
			level -= 1
		} else {
			level += 1
		}
	}
	for _, q := range args.Quiet {
		if q {
			level += 1
		} else {
			level -= 1
		}
	}

	if level > zerolog.PanicLevel {
		level = zerolog.PanicLevel
	}
	if level < zerolog.TraceLevel {
		level = zerolog.TraceLevel
	}

	self.logger = self.logger.Level(level)
}

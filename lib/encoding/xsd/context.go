package xsd

import (
	"fmt"
	"io"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/makinacorpus/xsdgen/lib/config"
	"github.com/makinacorpus/xsdgen/lib/ir"
)

const DefaultDocumentCacheSize = 64

// DocumentCache keeps parsed documents by path. Documents are never mutated
// once parsed so a cache can outlive a single compilation.
type DocumentCache struct {
	docs *lru.Cache[string, *Document]
}

func NewDocumentCache(size int) (*DocumentCache, error) {
	docs, err := lru.New[string, *Document](size)
	if err != nil {
		return nil, errors.Wrap(err, "could not create document cache")
	}
	return &DocumentCache{docs: docs}, nil
}

func (self *DocumentCache) Load(path string) (*Document, error) {
	if doc, ok := self.docs.Get(path); ok {
		return doc, nil
	}
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	self.docs.Add(path, doc)
	return doc, nil
}

func (self *DocumentCache) Len() int {
	return self.docs.Len()
}

// Context is the state shared by every document read during one compilation:
// the registry, import bookkeeping and the parsed document cache.
type Context struct {
	Config   *config.GeneratorConfig
	Registry *ir.TypeRegistry
	Locator  Locator
	Logger   *slog.Logger
	Scopes   *Scopes

	imported        map[string]bool
	schemaLocations map[string]string
	read            map[string]bool
	documents       *DocumentCache
}

// NewContext builds a compilation context. A nil locator means local files
// only, a nil cache a private one, a nil logger discards diagnostics.
func NewContext(cfg *config.GeneratorConfig, locator Locator, documents *DocumentCache, l *slog.Logger) (*Context, error) {
	if locator == nil {
		locator = NewFileLocator()
	}
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if documents == nil {
		var err error
		if documents, err = NewDocumentCache(DefaultDocumentCacheSize); err != nil {
			return nil, err
		}
	}
	return &Context{
		Config:          cfg,
		Registry:        ir.NewTypeRegistry(cfg.TypeOverrideError),
		Locator:         locator,
		Logger:          l,
		Scopes:          NewScopes(),
		imported:        map[string]bool{},
		schemaLocations: map[string]string{},
		read:            map[string]bool{},
		documents:       documents,
	}, nil
}

func (self *Context) WasImported(namespace string) bool {
	return self.imported[namespace]
}

func (self *Context) MarkImported(namespace string) {
	self.imported[namespace] = true
}

// Imported lists every namespace marked imported, sorted
func (self *Context) Imported() []string {
	out := maps.Keys(self.imported)
	slices.Sort(out)
	return out
}

// RegisterSchemaLocation records where a namespace is loaded from. A
// namespace can only have one location.
func (self *Context) RegisterSchemaLocation(namespace, location string) error {
	if existing, ok := self.schemaLocations[namespace]; ok && existing != location {
		return &ir.ReaderError{Msg: fmt.Sprintf("schema location for %s is already %s, was given %s", namespace, existing, location)}
	}
	self.schemaLocations[namespace] = location
	return nil
}

// FindResource locates a namespace using its registered schema location
func (self *Context) FindResource(namespace, baseDir string) (string, error) {
	return self.Locator.Locate(namespace, self.schemaLocations[namespace], baseDir)
}

// Scalar returns the id of a builtin scalar, registering it on first use
func (self *Context) Scalar(name string) (ir.TypeId, error) {
	id := ir.ScalarTypeId(name)
	if self.Registry.Has(id) {
		return id, nil
	}
	return id, self.Registry.Set(ir.NewScalarType(name))
}

func (self *Context) document(path string) (*Document, error) {
	return self.documents.Load(path)
}

// markRead returns false when path was already read in this compilation
func (self *Context) markRead(path string) bool {
	if self.read[path] {
		return false
	}
	self.read[path] = true
	return true
}

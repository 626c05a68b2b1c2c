package xsd

import (
	"path/filepath"
	"strings"

	"github.com/makinacorpus/xsdgen/lib/ir"
	"github.com/makinacorpus/xsdgen/lib/util"
)

//go:generate mockgen -destination=xsdtest/locator_mock.go -package=xsdtest github.com/makinacorpus/xsdgen/lib/encoding/xsd Locator

// Locator maps a schema uri, its declared location and the directory of the
// importing document to a readable local file.
type Locator interface {
	Locate(uri, schemaLocation, baseDir string) (string, error)
}

// FileLocator only resolves local files. Results are cached per uri for the
// lifetime of the locator.
type FileLocator struct {
	cache map[string]string
}

func NewFileLocator() *FileLocator {
	return &FileLocator{cache: map[string]string{}}
}

func (self *FileLocator) Locate(uri, schemaLocation, baseDir string) (string, error) {
	if found, ok := self.cache[uri]; ok {
		return found, nil
	}

	where := util.CoalesceStr(schemaLocation, uri)
	if scheme, _, ok := strings.Cut(where, "://"); ok && scheme != "file" {
		return "", &ir.ResourceNotFoundError{URI: uri, Location: schemaLocation, Reason: "remote fetch unimplemented"}
	}
	where = strings.TrimPrefix(where, "file://")

	if !filepath.IsAbs(where) && baseDir != "" {
		where = filepath.Join(baseDir, where)
	}
	where = filepath.Clean(where)

	if !util.IsReadableFile(where) {
		return "", &ir.ResourceNotFoundError{URI: uri, Location: schemaLocation, Reason: "file " + where + " does not exist or is not readable"}
	}

	self.cache[uri] = where
	return where, nil
}

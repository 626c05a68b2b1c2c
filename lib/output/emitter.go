package output

import (
	"io"
	"log/slog"

	"github.com/makinacorpus/xsdgen/lib/resolve"
)

// Emitter prints a resolved graph. Every policy decision is already recorded
// in the graph and its config, an emitter only has to lay it out.
type Emitter interface {
	Emit(*slog.Logger, *resolve.Graph, io.Writer) error
}

type Format string

const FormatManifest Format = "manifest"

package main

import (
	"github.com/makinacorpus/xsdgen/lib"
	"github.com/makinacorpus/xsdgen/lib/encoding/gostruct"
	"github.com/makinacorpus/xsdgen/lib/output"
)

func main() {
	lib.RegisterEmitter(output.FormatManifest, output.NewManifestEmitter)
	lib.RegisterEmitter(gostruct.Format, gostruct.NewEmitter)

	generator := lib.NewGenerator()
	generator.ArgParse()
	generator.Notice("Done")
}

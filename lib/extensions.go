package lib

import (
	"fmt"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/makinacorpus/xsdgen/lib/output"
)

var extensionMutex sync.Mutex

var emitters = make(map[output.Format]func() output.Emitter)

func RegisterEmitter(id output.Format, constructor func() output.Emitter) {
	extensionMutex.Lock()
	defer extensionMutex.Unlock()
	emitters[id] = constructor
}

func GetEmitter(id output.Format) (func() output.Emitter, error) {
	extensionMutex.Lock()
	defer extensionMutex.Unlock()
	constructor, exists := emitters[id]
	if !exists {
		return nil, fmt.Errorf("no such output format as %s, known formats: %v", id, knownFormats())
	}
	return constructor, nil
}

func knownFormats() []output.Format {
	out := maps.Keys(emitters)
	slices.Sort(out)
	return out
}

package ir

// TypeRegistry holds every type discovered while reading, keyed by TypeId
type TypeRegistry struct {
	types         map[TypeId]Type
	order         []TypeId
	overrideError bool
}

// NewTypeRegistry creates an empty registry. When overrideError is set any
// redeclaration is a conflict, even a structurally identical one.
func NewTypeRegistry(overrideError bool) *TypeRegistry {
	return &TypeRegistry{
		types:         map[TypeId]Type{},
		overrideError: overrideError,
	}
}

func (self *TypeRegistry) Set(t Type) error {
	id := t.Id()
	existing, ok := self.types[id]
	if !ok {
		self.types[id] = t
		self.order = append(self.order, id)
		return nil
	}
	if self.overrideError {
		return &TypeConflictError{ID: id, Existing: existing.Origin(), Incoming: t.Origin(), Override: true}
	}
	if existing.Hash() != t.Hash() {
		return &TypeConflictError{ID: id, Existing: existing.Origin(), Incoming: t.Origin()}
	}
	return nil
}

func (self *TypeRegistry) Get(id TypeId) (Type, error) {
	if t, ok := self.types[id]; ok {
		return t, nil
	}
	return nil, &TypeDoesNotExistError{ID: id}
}

func (self *TypeRegistry) Has(id TypeId) bool {
	_, ok := self.types[id]
	return ok
}

// All returns the registered types in registration order
func (self *TypeRegistry) All() []Type {
	out := make([]Type, len(self.order))
	for i, id := range self.order {
		out[i] = self.types[id]
	}
	return out
}

func (self *TypeRegistry) Len() int {
	return len(self.order)
}

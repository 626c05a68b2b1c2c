package util

import (
	"fmt"
	"strconv"
)

// Opt is a value that may be absent. The zero Opt is None.
type Opt[T any] struct {
	hasValue bool
	value    T
}

func Some[T any](t T) Opt[T] {
	return Opt[T]{true, t}
}
func None[T any]() Opt[T] {
	return Opt[T]{hasValue: false}
}

func (self Opt[T]) HasValue() bool {
	return self.hasValue
}
func (self Opt[T]) Get() T {
	if self.hasValue {
		return self.value
	}
	panic("Opt.Get when no value")
}
func (self Opt[T]) Maybe() (T, bool) {
	return self.value, self.hasValue
}

func (self Opt[T]) String() string {
	if !self.hasValue {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", self.value)
}

// ParseUint32 turns a decimal attribute value into an Opt, None on empty input
func ParseUint32(s string) (Opt[uint32], error) {
	if s == "" {
		return None[uint32](), nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return None[uint32](), err
	}
	return Some(uint32(n)), nil
}

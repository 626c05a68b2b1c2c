package util

type EqualFunc[T comparable] func(l, r T) bool

func StrictEqual[T comparable](l, r T) bool {
	return l == r
}

// OrderedMap is a map that remembers insertion order. Properties are kept in
// one so that they come out in declaration order.
type OrderedMap[K comparable, V any] struct {
	data map[K]V
	keys []K
}

func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		data: make(map[K]V),
	}
}

func (self *OrderedMap[K, V]) Len() int {
	if self == nil {
		return 0
	}
	return len(self.keys)
}

// Set inserts or replaces the value at key. A replaced key keeps its original position.
func (self *OrderedMap[K, V]) Set(key K, val V) *OrderedMap[K, V] {
	if _, ok := self.data[key]; !ok {
		self.keys = append(self.keys, key)
	}
	self.data[key] = val
	return self
}

func (self *OrderedMap[K, V]) Has(key K) bool {
	_, ok := self.Lookup(key)
	return ok
}

func (self *OrderedMap[K, V]) Get(key K) V {
	v, _ := self.Lookup(key)
	return v
}

func (self *OrderedMap[K, V]) Lookup(key K) (V, bool) {
	if self == nil {
		var zero V
		return zero, false
	}
	v, ok := self.data[key]
	return v, ok
}

func (self *OrderedMap[K, V]) Keys() []K {
	if self == nil {
		return []K{}
	}
	out := make([]K, self.Len())
	copy(out, self.keys)
	return out
}

func (self *OrderedMap[K, V]) Values() []V {
	if self == nil {
		return []V{}
	}
	out := make([]V, self.Len())
	for i, k := range self.keys {
		out[i] = self.data[k]
	}
	return out
}

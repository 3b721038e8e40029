// Package hash implements the engine's property table: an
// insertion-ordered map used for object property storage (spec.md §4.6).
//
// Two levels back the single exported Table type: a small inline slice used
// while the table is short (the common case for object property lists),
// promoted to a Go map once the table grows past inlineCap. Both levels
// preserve insertion order via a parallel order slice, which is what makes
// for…in and Object.keys deterministic (spec.md §8 "Enumeration order").
package hash

// inlineCap is the number of entries kept in a flat slice before the table
// promotes to a map-backed index. Most JS objects have only a handful of
// own properties, so this avoids a map allocation for the common case.
const inlineCap = 8

type entry[V any] struct {
	key   string
	value V
	live  bool
}

// Table is an insertion-order-preserving string-keyed map.
type Table[V any] struct {
	entries []entry[V]
	index   map[string]int // nil until promoted past inlineCap
}

// New creates an empty Table.
func New[V any]() *Table[V] {
	return &Table[V]{}
}

func (t *Table[V]) find(key string) int {
	if t.index != nil {
		if i, ok := t.index[key]; ok {
			return i
		}
		return -1
	}
	for i := range t.entries {
		if t.entries[i].live && t.entries[i].key == key {
			return i
		}
	}
	return -1
}

// Insert implements spec.md §4.6's insert(K, V, replace) contract: it
// inserts if absent, replaces the value in place (preserving insertion
// position) if replace is true and the key exists, or declines (returns
// false, leaving the table untouched) if the key exists and replace is
// false.
func (t *Table[V]) Insert(key string, value V, replace bool) bool {
	if i := t.find(key); i >= 0 {
		if !replace {
			return false
		}
		t.entries[i].value = value
		return true
	}
	t.entries = append(t.entries, entry[V]{key: key, value: value, live: true})
	if t.index != nil {
		t.index[key] = len(t.entries) - 1
	} else if len(t.entries) > inlineCap {
		t.promote()
	}
	return true
}

func (t *Table[V]) promote() {
	t.index = make(map[string]int, len(t.entries)*2)
	for i, e := range t.entries {
		if e.live {
			t.index[e.key] = i
		}
	}
}

// Find returns the slot's value and true, or the zero value and false.
func (t *Table[V]) Find(key string) (V, bool) {
	if i := t.find(key); i >= 0 {
		return t.entries[i].value, true
	}
	var zero V
	return zero, false
}

// Delete removes key, returning true if it was present.
func (t *Table[V]) Delete(key string) bool {
	i := t.find(key)
	if i < 0 {
		return false
	}
	t.entries[i].live = false
	var zero V
	t.entries[i].value = zero
	if t.index != nil {
		delete(t.index, key)
	}
	return true
}

// Len returns the number of live entries.
func (t *Table[V]) Len() int {
	n := 0
	for _, e := range t.entries {
		if e.live {
			n++
		}
	}
	return n
}

// Each iterates live entries in insertion order, stopping early if fn
// returns false. This ordering guarantee is what spec.md §4.6 requires of
// each().
func (t *Table[V]) Each(fn func(key string, value V) bool) {
	for _, e := range t.entries {
		if !e.live {
			continue
		}
		if !fn(e.key, e.value) {
			return
		}
	}
}

// Keys returns live keys in insertion order.
func (t *Table[V]) Keys() []string {
	keys := make([]string, 0, t.Len())
	t.Each(func(k string, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Clone returns a shallow copy of t whose entries are independent of the
// original — used when cloning the shared world into a fresh VM (spec.md
// §3.5, §5).
func (t *Table[V]) Clone() *Table[V] {
	return t.CloneWith(func(v V) V { return v })
}

// CloneWith is Clone but passes each live value through fn first, letting
// the caller deep-copy a value that is itself a pointer to mutable state
// (e.g. value.Object.Clone() deep-copying the *Property records it holds,
// so mutating a property on one VM clone cannot reach another — spec.md
// §3.5, §5 "VM state does not leak across runs").
func (t *Table[V]) CloneWith(fn func(V) V) *Table[V] {
	c := &Table[V]{entries: make([]entry[V], len(t.entries))}
	for i, e := range t.entries {
		c.entries[i] = e
		if e.live {
			c.entries[i].value = fn(e.value)
		}
	}
	if t.index != nil {
		c.index = make(map[string]int, len(t.index))
		for k, v := range t.index {
			c.index[k] = v
		}
	}
	return c
}

package observable

import (
	"errors"
	"iter"
	"slices"
)

// ErrKeyExists is returned by Dict.Add when the key is already present.
var ErrKeyExists = errors.New("observable: key already exists")

// Dict is a key-unique mapping that keeps insertion order and notifies its
// observer around every mutation.
type Dict[K comparable, V any] struct {
	values   map[K]V
	keys     []K
	observer Observer[Entry[K, V]]
}

// NewDict creates an empty dictionary reporting to obs. obs may be nil.
func NewDict[K comparable, V any](obs Observer[Entry[K, V]]) *Dict[K, V] {
	return &Dict[K, V]{
		values:   make(map[K]V),
		observer: obs,
	}
}

// SetObserver replaces the observer.
func (d *Dict[K, V]) SetObserver(obs Observer[Entry[K, V]]) {
	d.observer = obs
}

// Len returns the number of entries.
func (d *Dict[K, V]) Len() int {
	return len(d.keys)
}

// Get returns the value stored under key.
func (d *Dict[K, V]) Get(key K) (V, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Contains reports whether key is present.
func (d *Dict[K, V]) Contains(key K) bool {
	_, ok := d.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (d *Dict[K, V]) Keys() []K {
	return slices.Clone(d.keys)
}

// Values returns the values in key insertion order.
func (d *Dict[K, V]) Values() []V {
	out := make([]V, 0, len(d.keys))
	for _, k := range d.keys {
		out = append(out, d.values[k])
	}
	return out
}

// All iterates over a snapshot of the entries.
func (d *Dict[K, V]) All() iter.Seq2[K, V] {
	keys := d.Keys()
	values := d.Values()
	return func(yield func(K, V) bool) {
		for i, k := range keys {
			if !yield(k, values[i]) {
				return
			}
		}
	}
}

// Add inserts a new entry. It fails with ErrKeyExists when key is present.
func (d *Dict[K, V]) Add(key K, value V) error {
	if _, ok := d.values[key]; ok {
		return ErrKeyExists
	}
	e := Entry[K, V]{Key: key, Value: value}
	if err := d.beforeAdd(e); err != nil {
		return err
	}
	d.values[key] = value
	d.keys = append(d.keys, key)
	d.afterAdd(e)
	return nil
}

// Set stores value under key, replacing any existing entry. The existing
// entry is only evicted once both Before checks pass.
func (d *Dict[K, V]) Set(key K, value V) error {
	old, ok := d.values[key]
	if !ok {
		return d.Add(key, value)
	}
	outgoing := Entry[K, V]{Key: key, Value: old}
	incoming := Entry[K, V]{Key: key, Value: value}
	if err := d.beforeRemove(outgoing); err != nil {
		return err
	}
	if err := d.beforeAdd(incoming); err != nil {
		return err
	}
	d.values[key] = value
	d.afterAdd(incoming)
	d.afterRemove(outgoing)
	return nil
}

// Remove deletes the entry under key. It returns false when the key is
// absent or the removal was vetoed.
func (d *Dict[K, V]) Remove(key K) bool {
	v, ok := d.values[key]
	if !ok {
		return false
	}
	e := Entry[K, V]{Key: key, Value: v}
	if err := d.beforeRemove(e); err != nil {
		return false
	}
	delete(d.values, key)
	d.keys = slices.DeleteFunc(d.keys, func(k K) bool { return k == key })
	d.afterRemove(e)
	return true
}

// RemoveAll removes each key in turn and returns how many were removed.
func (d *Dict[K, V]) RemoveAll(keys ...K) int {
	n := 0
	for _, k := range keys {
		if d.Remove(k) {
			n++
		}
	}
	return n
}

// Clear removes every entry one at a time. Vetoed entries remain.
func (d *Dict[K, V]) Clear() int {
	return d.RemoveAll(d.Keys()...)
}

func (d *Dict[K, V]) beforeAdd(e Entry[K, V]) error {
	if d.observer == nil {
		return nil
	}
	return d.observer.BeforeAdd(e)
}

func (d *Dict[K, V]) afterAdd(e Entry[K, V]) {
	if d.observer != nil {
		d.observer.AfterAdd(e)
	}
}

func (d *Dict[K, V]) beforeRemove(e Entry[K, V]) error {
	if d.observer == nil {
		return nil
	}
	return d.observer.BeforeRemove(e)
}

func (d *Dict[K, V]) afterRemove(e Entry[K, V]) {
	if d.observer != nil {
		d.observer.AfterRemove(e)
	}
}

package observable

import (
	"errors"
	"iter"
	"slices"
)

// ErrIndexOutOfRange is returned by Insert and Set for an invalid position.
var ErrIndexOutOfRange = errors.New("observable: index out of range")

// List is an ordered sequence that notifies its observer around every
// mutation. The zero value is an empty list without an observer.
type List[T comparable] struct {
	items    []T
	observer Observer[T]
}

// NewList creates an empty list reporting to obs. obs may be nil.
func NewList[T comparable](obs Observer[T]) *List[T] {
	return &List[T]{observer: obs}
}

// SetObserver replaces the observer. Passing nil silences notifications.
func (l *List[T]) SetObserver(obs Observer[T]) {
	l.observer = obs
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	return len(l.items)
}

// At returns the element at index i. It panics if i is out of range.
func (l *List[T]) At(i int) T {
	return l.items[i]
}

// Items returns a copy of the elements in order.
func (l *List[T]) Items() []T {
	return slices.Clone(l.items)
}

// All iterates over a snapshot of the list, so the loop body may mutate it.
func (l *List[T]) All() iter.Seq2[int, T] {
	snapshot := l.Items()
	return func(yield func(int, T) bool) {
		for i, item := range snapshot {
			if !yield(i, item) {
				return
			}
		}
	}
}

// IndexOf returns the position of the first occurrence of item, or -1.
func (l *List[T]) IndexOf(item T) int {
	return slices.Index(l.items, item)
}

// Contains reports whether item is in the list.
func (l *List[T]) Contains(item T) bool {
	return l.IndexOf(item) >= 0
}

// Add appends item.
func (l *List[T]) Add(item T) error {
	return l.Insert(len(l.items), item)
}

// AddRange appends each item in turn and stops at the first veto.
// Items appended before the veto stay in the list.
func (l *List[T]) AddRange(items ...T) error {
	for _, item := range items {
		if err := l.Add(item); err != nil {
			return err
		}
	}
	return nil
}

// Insert places item at index, shifting later elements.
func (l *List[T]) Insert(index int, item T) error {
	if index < 0 || index > len(l.items) {
		return ErrIndexOutOfRange
	}
	if err := l.beforeAdd(item); err != nil {
		return err
	}
	l.items = slices.Insert(l.items, index, item)
	l.afterAdd(item)
	return nil
}

// Set replaces the element at index with item.
func (l *List[T]) Set(index int, item T) error {
	if index < 0 || index >= len(l.items) {
		return ErrIndexOutOfRange
	}
	old := l.items[index]
	if err := l.beforeRemove(old); err != nil {
		return err
	}
	if err := l.beforeAdd(item); err != nil {
		return err
	}
	l.items[index] = item
	l.afterAdd(item)
	l.afterRemove(old)
	return nil
}

// Remove deletes the first occurrence of item. It returns false when the
// item is absent or the observer vetoed the removal.
func (l *List[T]) Remove(item T) bool {
	i := l.IndexOf(item)
	if i < 0 {
		return false
	}
	return l.RemoveAt(i)
}

// RemoveAt deletes the element at index. It returns false when the index is
// out of range or the observer vetoed the removal.
func (l *List[T]) RemoveAt(index int) bool {
	if index < 0 || index >= len(l.items) {
		return false
	}
	item := l.items[index]
	if err := l.beforeRemove(item); err != nil {
		return false
	}
	l.items = slices.Delete(l.items, index, index+1)
	l.afterRemove(item)
	return true
}

// RemoveAll removes each item in turn and returns how many were removed.
func (l *List[T]) RemoveAll(items ...T) int {
	n := 0
	for _, item := range items {
		if l.Remove(item) {
			n++
		}
	}
	return n
}

// Clear removes every element one at a time. Vetoed elements remain.
func (l *List[T]) Clear() int {
	return l.RemoveAll(l.Items()...)
}

func (l *List[T]) beforeAdd(item T) error {
	if l.observer == nil {
		return nil
	}
	return l.observer.BeforeAdd(item)
}

func (l *List[T]) afterAdd(item T) {
	if l.observer != nil {
		l.observer.AfterAdd(item)
	}
}

func (l *List[T]) beforeRemove(item T) error {
	if l.observer == nil {
		return nil
	}
	return l.observer.BeforeRemove(item)
}

func (l *List[T]) afterRemove(item T) {
	if l.observer != nil {
		l.observer.AfterRemove(item)
	}
}

// Package observable provides ordered and keyed containers that report every
// mutation to an Observer.
//
// Each insert, overwrite and removal passes through two phases. The Before
// phase may veto the mutation by returning an error; in that case nothing
// changes and no After notification is sent. The After phase runs once the
// change is committed and cannot undo it.
//
// Replacing an element runs BeforeRemove on the outgoing element, then
// BeforeAdd on the incoming one, commits, then AfterAdd and AfterRemove. A veto
// from either Before call leaves the outgoing element in place.
//
// Bulk operations (AddRange, RemoveAll, Clear) are repeated single-element
// calls and are not atomic: a vetoed element stays where it was while the
// rest of the batch proceeds.
//
// Containers are not safe for concurrent use.
package observable

import "errors"

// ErrVetoed is a generic veto for observers that have no more specific reason.
var ErrVetoed = errors.New("observable: mutation vetoed")

// Observer receives mutation notifications from a List or Dict.
type Observer[T any] interface {
	// BeforeAdd is called before item enters the container.
	// A non-nil error cancels the insertion.
	BeforeAdd(item T) error

	// AfterAdd is called once item is stored.
	AfterAdd(item T)

	// BeforeRemove is called before item leaves the container.
	// A non-nil error cancels the removal.
	BeforeRemove(item T) error

	// AfterRemove is called once item is gone.
	AfterRemove(item T)
}

// Funcs adapts plain functions to the Observer interface.
// Nil fields allow the mutation and ignore the notification.
type Funcs[T any] struct {
	OnBeforeAdd    func(item T) error
	OnAfterAdd     func(item T)
	OnBeforeRemove func(item T) error
	OnAfterRemove  func(item T)
}

// Compile-time check that Funcs implements Observer.
var _ Observer[int] = Funcs[int]{}

func (f Funcs[T]) BeforeAdd(item T) error {
	if f.OnBeforeAdd == nil {
		return nil
	}
	return f.OnBeforeAdd(item)
}

func (f Funcs[T]) AfterAdd(item T) {
	if f.OnAfterAdd != nil {
		f.OnAfterAdd(item)
	}
}

func (f Funcs[T]) BeforeRemove(item T) error {
	if f.OnBeforeRemove == nil {
		return nil
	}
	return f.OnBeforeRemove(item)
}

func (f Funcs[T]) AfterRemove(item T) {
	if f.OnAfterRemove != nil {
		f.OnAfterRemove(item)
	}
}

// Entry is a key/value pair as seen by a Dict observer.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

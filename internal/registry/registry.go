// Package registry maps client supplied logical ids to backend resources and
// native handles back to logical ids.
package registry

import (
	"errors"
	"sort"

	"cellwin/internal/platform"
)

var (
	ErrDuplicateID = errors.New("registry: duplicate id")
	ErrNotFound    = errors.New("registry: id not found")
	ErrHandleInUse = errors.New("registry: handle already registered")
)

type entry[T any] struct {
	value   T
	handles []platform.Handle
}

// Registry holds one kind of resource (widgets, menu entries, timers or
// pictures) for one window.
type Registry[T any] struct {
	byID     map[int]*entry[T]
	byHandle map[platform.Handle]int
}

func New[T any]() *Registry[T] {
	return &Registry[T]{
		byID:     make(map[int]*entry[T]),
		byHandle: make(map[platform.Handle]int),
	}
}

// Register adds v under id. A zero handle registers no handle mapping.
func (r *Registry[T]) Register(id int, h platform.Handle, v T) error {
	if _, ok := r.byID[id]; ok {
		return ErrDuplicateID
	}
	if h != 0 {
		if _, ok := r.byHandle[h]; ok {
			return ErrHandleInUse
		}
	}
	e := &entry[T]{value: v}
	r.byID[id] = e
	if h != 0 {
		e.handles = append(e.handles, h)
		r.byHandle[h] = id
	}
	return nil
}

// Alias maps an additional handle to an existing id. Composite widgets use it
// for the buddy control that accompanies the primary one.
func (r *Registry[T]) Alias(id int, h platform.Handle) error {
	e, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if owner, ok := r.byHandle[h]; ok && owner != id {
		return ErrHandleInUse
	}
	if _, ok := r.byHandle[h]; !ok {
		e.handles = append(e.handles, h)
		r.byHandle[h] = id
	}
	return nil
}

func (r *Registry[T]) Find(id int) (T, error) {
	e, ok := r.byID[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return e.value, nil
}

// FindByHandle returns the id and value a native handle belongs to.
func (r *Registry[T]) FindByHandle(h platform.Handle) (int, T, error) {
	id, ok := r.byHandle[h]
	if !ok {
		var zero T
		return 0, zero, ErrNotFound
	}
	return id, r.byID[id].value, nil
}

// Handles returns the native handles mapped to id, primary first.
func (r *Registry[T]) Handles(id int) []platform.Handle {
	e, ok := r.byID[id]
	if !ok {
		return nil
	}
	return append([]platform.Handle(nil), e.handles...)
}

// Set replaces the value stored under an existing id.
func (r *Registry[T]) Set(id int, v T) error {
	e, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	e.value = v
	return nil
}

// Remove deletes id and every handle mapped to it.
func (r *Registry[T]) Remove(id int) (T, error) {
	e, ok := r.byID[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	for _, h := range e.handles {
		delete(r.byHandle, h)
	}
	delete(r.byID, id)
	return e.value, nil
}

// IDs returns the registered ids in ascending order.
func (r *Registry[T]) IDs() []int {
	ids := make([]int, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (r *Registry[T]) Len() int { return len(r.byID) }

func (r *Registry[T]) Clear() {
	r.byID = make(map[int]*entry[T])
	r.byHandle = make(map[platform.Handle]int)
}

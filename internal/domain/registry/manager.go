package registry

import (
	"sort"
	"sync"
	"weak"

	"github.com/GriffinCanCode/windowscene/internal/shared/types"
)

type entry[T any] struct {
	persistentID int64
	ref          weak.Pointer[T]
}

// Registry indexes live sessions by window name and by parent persistent id.
// It never owns a session: entries are weak references and a lookup that
// finds nothing, or finds a collected session, is a normal outcome.
type Registry[T any] struct {
	mu       sync.RWMutex
	windows  map[string]entry[T]  // Protected by mu
	children map[int64][]entry[T] // Protected by mu
}

// New creates an empty registry
func New[T any]() *Registry[T] {
	return &Registry[T]{
		windows:  make(map[string]entry[T]),
		children: make(map[int64][]entry[T]),
	}
}

// Register indexes a session under its unique window name. A name that is
// already taken by a live session fails with ErrRepeatOperation.
func (r *Registry[T]) Register(name string, persistentID int64, s *T) error {
	if s == nil {
		return types.ErrNullptr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, exists := r.windows[name]; exists && e.ref.Value() != nil {
		return types.ErrRepeatOperation
	}
	r.windows[name] = entry[T]{persistentID: persistentID, ref: weak.Make(s)}
	return nil
}

// Contains reports whether a live session is registered under name.
func (r *Registry[T]) Contains(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Lookup returns the session registered under name
func (r *Registry[T]) Lookup(name string) (*T, bool) {
	r.mu.RLock()
	e, exists := r.windows[name]
	r.mu.RUnlock()

	if !exists {
		return nil, false
	}
	s := e.ref.Value()
	return s, s != nil
}

// PersistentID returns the persistent id registered for name
func (r *Registry[T]) PersistentID(name string) (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.windows[name]
	if !exists || e.ref.Value() == nil {
		return 0, false
	}
	return e.persistentID, true
}

// FindByID returns the session with the given persistent id
func (r *Registry[T]) FindByID(persistentID int64) (*T, bool) {
	if persistentID == 0 {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.windows {
		if e.persistentID != persistentID {
			continue
		}
		if s := e.ref.Value(); s != nil {
			return s, true
		}
	}
	return nil, false
}

// Remove drops the name entry and reports whether one existed.
func (r *Registry[T]) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.windows[name]; !exists {
		return false
	}
	delete(r.windows, name)
	return true
}

// AddChild appends a session to the ordered children of parentID.
func (r *Registry[T]) AddChild(parentID, childID int64, s *T) {
	if s == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.children[parentID] {
		if e.persistentID == childID {
			return
		}
	}
	r.children[parentID] = append(r.children[parentID], entry[T]{persistentID: childID, ref: weak.Make(s)})
}

// Children returns a snapshot of the live children of parentID in
// registration order. The slice is safe to iterate while the registry
// changes underneath.
func (r *Registry[T]) Children(parentID int64) []*T {
	r.mu.RLock()
	list := append([]entry[T](nil), r.children[parentID]...)
	r.mu.RUnlock()

	out := make([]*T, 0, len(list))
	for _, e := range list {
		if s := e.ref.Value(); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// RemoveChild drops one child entry and reports whether it existed.
func (r *Registry[T]) RemoveChild(parentID, childID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.children[parentID]
	for i, e := range list {
		if e.persistentID != childID {
			continue
		}
		list = append(list[:i:i], list[i+1:]...)
		if len(list) == 0 {
			delete(r.children, parentID)
		} else {
			r.children[parentID] = list
		}
		return true
	}
	return false
}

// RemoveChildren drops the whole child list of parentID.
func (r *Registry[T]) RemoveChildren(parentID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.children, parentID)
}

// Entry is a point-in-time view of one registered window.
type Entry[T any] struct {
	Name         string
	PersistentID int64
	Session      *T
}

// List returns the live entries sorted by persistent id.
func (r *Registry[T]) List() []Entry[T] {
	r.mu.RLock()
	out := make([]Entry[T], 0, len(r.windows))
	for name, e := range r.windows {
		if s := e.ref.Value(); s != nil {
			out = append(out, Entry[T]{Name: name, PersistentID: e.persistentID, Session: s})
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].PersistentID < out[j].PersistentID })
	return out
}

// Len returns the number of name entries, live or not.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.windows)
}

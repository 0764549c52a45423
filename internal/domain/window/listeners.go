package window

import (
	"slices"
	"sync"

	"github.com/GriffinCanCode/windowscene/internal/shared/types"
)

// LifecycleListener observes visibility and focus transitions.
type LifecycleListener interface {
	AfterForeground()
	AfterBackground()
	AfterFocused()
	AfterUnfocused()
	AfterDestroyed()
	ForegroundFailed(err error)
}

// LifecycleFuncs adapts optional functions to LifecycleListener.
type LifecycleFuncs struct {
	OnForeground       func()
	OnBackground       func()
	OnFocused          func()
	OnUnfocused        func()
	OnDestroyed        func()
	OnForegroundFailed func(err error)
}

func (f *LifecycleFuncs) AfterForeground() {
	if f.OnForeground != nil {
		f.OnForeground()
	}
}

func (f *LifecycleFuncs) AfterBackground() {
	if f.OnBackground != nil {
		f.OnBackground()
	}
}

func (f *LifecycleFuncs) AfterFocused() {
	if f.OnFocused != nil {
		f.OnFocused()
	}
}

func (f *LifecycleFuncs) AfterUnfocused() {
	if f.OnUnfocused != nil {
		f.OnUnfocused()
	}
}

func (f *LifecycleFuncs) AfterDestroyed() {
	if f.OnDestroyed != nil {
		f.OnDestroyed()
	}
}

func (f *LifecycleFuncs) ForegroundFailed(err error) {
	if f.OnForegroundFailed != nil {
		f.OnForegroundFailed(err)
	}
}

// WindowChangeListener observes geometry and mode changes.
type WindowChangeListener interface {
	OnSizeChange(rect types.Rect, reason types.SizeChangeReason)
	OnModeChange(mode types.WindowMode)
}

// WindowChangeFuncs adapts optional functions to WindowChangeListener.
type WindowChangeFuncs struct {
	OnSize func(rect types.Rect, reason types.SizeChangeReason)
	OnMode func(mode types.WindowMode)
}

func (f *WindowChangeFuncs) OnSizeChange(rect types.Rect, reason types.SizeChangeReason) {
	if f.OnSize != nil {
		f.OnSize(rect, reason)
	}
}

func (f *WindowChangeFuncs) OnModeChange(mode types.WindowMode) {
	if f.OnMode != nil {
		f.OnMode(mode)
	}
}

type listeners struct {
	mu            sync.Mutex
	lifecycle     []LifecycleListener
	change        []WindowChangeListener
	beforeDestroy []func()
}

func newListeners() *listeners {
	return &listeners{}
}

func (l *listeners) lifecycleSnapshot() []LifecycleListener {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.lifecycle)
}

func (l *listeners) changeSnapshot() []WindowChangeListener {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.change)
}

func (l *listeners) notifyForeground() {
	for _, ln := range l.lifecycleSnapshot() {
		ln.AfterForeground()
	}
}

func (l *listeners) notifyBackground() {
	for _, ln := range l.lifecycleSnapshot() {
		ln.AfterBackground()
	}
}

func (l *listeners) notifyFocus(focused bool) {
	for _, ln := range l.lifecycleSnapshot() {
		if focused {
			ln.AfterFocused()
		} else {
			ln.AfterUnfocused()
		}
	}
}

func (l *listeners) notifyDestroyed() {
	for _, ln := range l.lifecycleSnapshot() {
		ln.AfterDestroyed()
	}
}

func (l *listeners) notifyForegroundFailed(err error) {
	for _, ln := range l.lifecycleSnapshot() {
		ln.ForegroundFailed(err)
	}
}

func (l *listeners) notifySizeChange(rect types.Rect, reason types.SizeChangeReason) {
	for _, ln := range l.changeSnapshot() {
		ln.OnSizeChange(rect, reason)
	}
}

func (l *listeners) notifyModeChange(mode types.WindowMode) {
	for _, ln := range l.changeSnapshot() {
		ln.OnModeChange(mode)
	}
}

func (l *listeners) notifyBeforeDestroy() {
	l.mu.Lock()
	cbs := slices.Clone(l.beforeDestroy)
	l.mu.Unlock()

	for _, cb := range cbs {
		cb()
	}
}

func (l *listeners) clear() {
	l.mu.Lock()
	l.lifecycle = nil
	l.change = nil
	l.beforeDestroy = nil
	l.mu.Unlock()
}

// RegisterLifecycleListener adds a lifecycle listener. Adding the same
// listener twice has no effect.
func (s *SceneSession) RegisterLifecycleListener(ln LifecycleListener) error {
	if ln == nil {
		return types.ErrNullptr
	}
	s.listeners.mu.Lock()
	defer s.listeners.mu.Unlock()
	if !slices.Contains(s.listeners.lifecycle, ln) {
		s.listeners.lifecycle = append(s.listeners.lifecycle, ln)
	}
	return nil
}

func (s *SceneSession) UnregisterLifecycleListener(ln LifecycleListener) error {
	if ln == nil {
		return types.ErrNullptr
	}
	s.listeners.mu.Lock()
	defer s.listeners.mu.Unlock()
	s.listeners.lifecycle = slices.DeleteFunc(s.listeners.lifecycle, func(x LifecycleListener) bool { return x == ln })
	return nil
}

// RegisterWindowChangeListener adds a size and mode listener
func (s *SceneSession) RegisterWindowChangeListener(ln WindowChangeListener) error {
	if ln == nil {
		return types.ErrNullptr
	}
	s.listeners.mu.Lock()
	defer s.listeners.mu.Unlock()
	if !slices.Contains(s.listeners.change, ln) {
		s.listeners.change = append(s.listeners.change, ln)
	}
	return nil
}

func (s *SceneSession) UnregisterWindowChangeListener(ln WindowChangeListener) error {
	if ln == nil {
		return types.ErrNullptr
	}
	s.listeners.mu.Lock()
	defer s.listeners.mu.Unlock()
	s.listeners.change = slices.DeleteFunc(s.listeners.change, func(x WindowChangeListener) bool { return x == ln })
	return nil
}

// RegisterBeforeDestroyCallback runs fn at the start of Destroy
func (s *SceneSession) RegisterBeforeDestroyCallback(fn func()) error {
	if fn == nil {
		return types.ErrNullptr
	}
	s.listeners.mu.Lock()
	s.listeners.beforeDestroy = append(s.listeners.beforeDestroy, fn)
	s.listeners.mu.Unlock()
	return nil
}

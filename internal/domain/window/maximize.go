package window

import (
	"context"

	"github.com/GriffinCanCode/windowscene/internal/domain/property"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
)

// mainWindowHost is the shared precondition of the main-window session
// events. It returns a nil host without error when the call does not apply
// to this window.
func (s *SceneSession) mainWindowHost() (HostSession, error) {
	state, host := s.stateAndHost()
	switch {
	case state == types.StateDestroyed:
		return nil, types.ErrInvalidWindow
	case !s.isMainWindow():
		return nil, nil
	case host == nil:
		return nil, types.ErrNullptr
	}
	return host, nil
}

func (s *SceneSession) sendSessionEvent(ctx context.Context, host HostSession, event types.SessionEvent) error {
	return s.call("OnSessionEvent", func() error { return host.OnSessionEvent(ctx, event) })
}

// Maximize makes a main window full screen
func (s *SceneSession) Maximize(ctx context.Context) error {
	host, err := s.mainWindowHost()
	if err != nil || host == nil {
		return err
	}
	if err := s.sendSessionEvent(ctx, host, types.EventMaximize); err != nil {
		return err
	}

	s.property.SetMaximizeMode(types.MaximizeModeFullFill)
	s.setModeLocal(types.ModeFullscreen)
	s.notifyDecorChange()
	return nil
}

// MaximizeFloating maximizes a floating main window. Under the
// avoid-system-bar policy the window stays floating and fills the display
// minus the bars; otherwise it becomes full screen.
func (s *SceneSession) MaximizeFloating(ctx context.Context) error {
	host, err := s.mainWindowHost()
	if err != nil || host == nil {
		return err
	}

	global, err := s.GetGlobalMaximizeMode(ctx)
	if err != nil {
		return err
	}

	if global == types.MaximizeModeAvoidSystemBar {
		if err := s.sendSessionEvent(ctx, host, types.EventMaximizeFloating); err != nil {
			return err
		}
		s.property.SetMaximizeMode(types.MaximizeModeAvoidSystemBar)
		s.setModeLocal(types.ModeFloating)
	} else {
		if err := s.sendSessionEvent(ctx, host, types.EventMaximize); err != nil {
			return err
		}
		s.property.SetMaximizeMode(types.MaximizeModeFullFill)
		s.setModeLocal(types.ModeFullscreen)
	}
	s.notifyDecorChange()
	return s.syncProperty(ctx, host, property.ActionUpdateMaximizeState)
}

// Recover returns a maximized main window to floating
func (s *SceneSession) Recover(ctx context.Context) error {
	host, err := s.mainWindowHost()
	if err != nil || host == nil {
		return err
	}

	s.property.SetMaximizeMode(types.MaximizeModeRecover)
	s.setModeLocal(types.ModeFloating)
	if err := s.sendSessionEvent(ctx, host, types.EventRecover); err != nil {
		return err
	}
	s.notifyDecorChange()
	return nil
}

func (s *SceneSession) Minimize(ctx context.Context) error {
	host, err := s.mainWindowHost()
	if err != nil || host == nil {
		return err
	}
	return s.sendSessionEvent(ctx, host, types.EventMinimize)
}

func (s *SceneSession) Close(ctx context.Context) error {
	host, err := s.mainWindowHost()
	if err != nil || host == nil {
		return err
	}
	return s.sendSessionEvent(ctx, host, types.EventClose)
}

// StartMove begins a host-driven move of a main window
func (s *SceneSession) StartMove(ctx context.Context) error {
	host, err := s.mainWindowHost()
	if err != nil || host == nil {
		return err
	}
	return s.sendSessionEvent(ctx, host, types.EventStartMove)
}

// SetGlobalMaximizeMode sets the maximize policy for all windows
func (s *SceneSession) SetGlobalMaximizeMode(ctx context.Context, mode types.MaximizeMode) error {
	state, host := s.stateAndHost()
	switch {
	case state == types.StateDestroyed:
		return types.ErrInvalidWindow
	case host == nil:
		return types.ErrNullptr
	}
	return s.call("SetGlobalMaximizeMode", func() error { return host.SetGlobalMaximizeMode(ctx, mode) })
}

// GetGlobalMaximizeMode returns the maximize policy for all windows
func (s *SceneSession) GetGlobalMaximizeMode(ctx context.Context) (types.MaximizeMode, error) {
	state, host := s.stateAndHost()
	switch {
	case state == types.StateDestroyed:
		return 0, types.ErrInvalidWindow
	case host == nil:
		return 0, types.ErrNullptr
	}

	var mode types.MaximizeMode
	err := s.call("GetGlobalMaximizeMode", func() error {
		var cerr error
		mode, cerr = host.GetGlobalMaximizeMode(ctx)
		return cerr
	})
	return mode, err
}

// UpdateMaximizeMode applies a maximize mode pushed by the host
func (s *SceneSession) UpdateMaximizeMode(mode types.MaximizeMode) error {
	if s.isDestroyed() {
		return types.ErrInvalidWindow
	}
	s.property.SetMaximizeMode(mode)
	s.notifyDecorChange()
	return nil
}

func (s *SceneSession) setModeLocal(mode types.WindowMode) {
	if s.property.WindowMode() == mode {
		return
	}
	s.property.SetWindowMode(mode)
	s.listeners.notifyModeChange(mode)
}

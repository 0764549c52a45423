package window

import (
	"context"

	"github.com/GriffinCanCode/windowscene/internal/domain/property"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"go.uber.org/zap"
)

// API level from which immersive layout goes through the content's safe
// area handling instead of the host's avoid flag.
const safeAreaAPIVersion = 10

func (s *SceneSession) checkCreatedAlive() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == types.StateInitial || s.state == types.StateDestroyed {
		return types.ErrInvalidWindow
	}
	return nil
}

// SetSystemBarProperty sets the status or navigation bar requested by this
// window. An unchanged property is a no-op; otherwise the change is synced
// when the window is shown and staged until the next Show when it is not.
func (s *SceneSession) SetSystemBarProperty(ctx context.Context, typ types.WindowType, prop types.SystemBarProperty) error {
	if err := s.checkCreatedAlive(); err != nil {
		return err
	}
	if !types.IsSystemBarWindow(typ) {
		return types.ErrInvalidType
	}
	if !s.property.SetSystemBarProperty(typ, prop) {
		return nil
	}
	return s.syncOrStage(ctx, property.ActionUpdateOtherProps)
}

// GetSystemBarProperty returns the bar property stored for typ
func (s *SceneSession) GetSystemBarProperty(typ types.WindowType) (types.SystemBarProperty, bool) {
	return s.property.SystemBarProperty(typ)
}

// SetLayoutFullScreen lays the content out under the system bars.
// Windows outside the app hierarchy are left alone with ErrDoNothing.
func (s *SceneSession) SetLayoutFullScreen(ctx context.Context, status bool) error {
	if err := s.checkCreatedAlive(); err != nil {
		return err
	}
	if !types.IsAppWindow(s.property.WindowType()) {
		return types.ErrDoNothing
	}

	s.property.SetLayoutFullScreen(status)
	if s.property.APICompatibleVersion() >= safeAreaAPIVersion {
		s.mu.Lock()
		ui := s.uiContent
		if ui == nil {
			pending := status
			s.pendingIgnoreSafeArea = &pending
		}
		s.mu.Unlock()

		if ui != nil {
			ui.SetIgnoreViewSafeArea(status)
		} else {
			s.logger.Debug("Ignore safe area deferred until content is set")
		}
		return nil
	}
	return s.notifyWindowNeedAvoid(ctx, !status)
}

func (s *SceneSession) notifyWindowNeedAvoid(ctx context.Context, needAvoid bool) error {
	flags := s.property.Flags()
	if needAvoid {
		flags |= types.FlagNeedAvoid
	} else {
		flags &^= types.FlagNeedAvoid
	}
	s.property.SetFlags(flags)

	host := s.hostSession()
	if host == nil {
		return types.ErrNullptr
	}
	return s.call("OnNeedAvoid", func() error { return host.OnNeedAvoid(ctx, needAvoid) })
}

// SetFullScreen combines an immersive layout with hiding the status bar
func (s *SceneSession) SetFullScreen(ctx context.Context, status bool) error {
	if err := s.SetLayoutFullScreen(ctx, status); !types.IsSuccess(err) {
		s.logger.Warn("Set layout full screen failed", zap.Error(err))
		return err
	}

	bar, ok := s.property.SystemBarProperty(types.WindowTypeStatusBar)
	if !ok {
		bar = types.DefaultSystemBarProperty()
	}
	bar.Enable = !status
	return s.SetSystemBarProperty(ctx, types.WindowTypeStatusBar, bar)
}

// AddWindowFlag sets one flag bit
func (s *SceneSession) AddWindowFlag(ctx context.Context, flag types.WindowFlag) error {
	return s.SetWindowFlags(ctx, s.property.Flags()|flag)
}

// RemoveWindowFlag clears one flag bit
func (s *SceneSession) RemoveWindowFlag(ctx context.Context, flag types.WindowFlag) error {
	return s.SetWindowFlags(ctx, s.property.Flags()&^flag)
}

// SetWindowFlags replaces the flag set
func (s *SceneSession) SetWindowFlags(ctx context.Context, flags types.WindowFlag) error {
	if s.isDestroyed() {
		return types.ErrInvalidWindow
	}
	if flags >= types.FlagEnd {
		return types.ErrInvalidParam
	}
	if s.property.Flags() == flags {
		return nil
	}
	s.property.SetFlags(flags)
	return s.syncOrStage(ctx, property.ActionUpdateFlags)
}

func (s *SceneSession) SetFocusable(ctx context.Context, focusable bool) error {
	if s.isDestroyed() {
		return types.ErrInvalidWindow
	}
	s.property.SetFocusable(focusable)
	return s.syncOrStage(ctx, property.ActionUpdateFocusable)
}

func (s *SceneSession) SetTouchable(ctx context.Context, touchable bool) error {
	if s.isDestroyed() {
		return types.ErrInvalidWindow
	}
	s.property.SetTouchable(touchable)
	return s.syncOrStage(ctx, property.ActionUpdateTouchable)
}

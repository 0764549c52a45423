package window

import (
	"context"

	"github.com/GriffinCanCode/windowscene/internal/domain/property"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"go.uber.org/zap"
)

// IsDecorEnable reports whether the window manager draws decoration for
// this window in its current mode.
func (s *SceneSession) IsDecorEnable() bool {
	if !s.isMainWindow() {
		return false
	}
	cfg := s.GetSystemConfig()
	return cfg.DecorEnable && cfg.DecorModeSupport.Supports(s.property.WindowMode())
}

func (s *SceneSession) hasDecorPermission() bool {
	return s.caller.IsSystemCalling() || s.caller.IsStartByHdcd()
}

// DisableAppWindowDecor turns decoration off for this window. Only
// privileged callers may do this, and only for main windows.
func (s *SceneSession) DisableAppWindowDecor(ctx context.Context) error {
	switch {
	case s.isDestroyed():
		return types.ErrInvalidWindow
	case !s.isMainWindow():
		return types.ErrInvalidOperation
	case !s.hasDecorPermission():
		return types.ErrNotSystemApp
	}

	s.mu.Lock()
	s.cfg.DecorEnable = false
	s.mu.Unlock()

	s.property.SetDecorEnable(false)
	s.logger.Info("App window decor disabled")
	s.notifyDecorChange()
	return s.syncOrStage(ctx, property.ActionUpdateDecorEnable)
}

// SetDecorHeight sets the title bar height in virtual pixels
func (s *SceneSession) SetDecorHeight(height int32) error {
	switch {
	case s.isDestroyed():
		return types.ErrInvalidWindow
	case !s.isMainWindow():
		return types.ErrInvalidOperation
	}
	if err := s.checkDevice(opSetDecorHeight); err != nil {
		return err
	}
	if height < 0 {
		return types.ErrInvalidParam
	}

	s.mu.Lock()
	s.decorHeight = uint32(height)
	s.mu.Unlock()

	s.notifyDecorChange()
	return nil
}

// GetDecorHeight returns the title bar height in virtual pixels
func (s *SceneSession) GetDecorHeight() (int32, error) {
	if s.isDestroyed() {
		return 0, types.ErrInvalidWindow
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.decorHeight == 0 {
		return decorTitleVP, nil
	}
	return int32(s.decorHeight), nil
}

// ContentRect returns the window rect minus decoration
func (s *SceneSession) ContentRect() types.Rect {
	rect := s.property.WindowRect()
	frameW, frameH := s.decorInsets()
	if frameW == 0 && frameH == 0 {
		return rect
	}

	border := uint32(frameW / 2)
	rect.X += int32(border)
	rect.Y += int32(uint32(frameH) - border)
	rect.Width = subClamp(rect.Width, uint32(frameW))
	rect.Height = subClamp(rect.Height, uint32(frameH))
	return rect
}

func subClamp(a, b uint32) uint32 {
	if b >= a {
		return 0
	}
	return a - b
}

// notifyDecorChange recomputes the content rect after a decoration or
// mode change.
func (s *SceneSession) notifyDecorChange() {
	content := s.ContentRect()
	if ui := s.ui(); ui != nil {
		ui.UpdateViewportConfig(content, types.ReasonDecorChange)
	}
	s.listeners.notifySizeChange(content, types.ReasonDecorChange)
	s.logger.Debug("Decor recomputed", zap.Bool("enabled", s.IsDecorEnable()))
}

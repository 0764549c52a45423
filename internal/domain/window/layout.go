package window

import (
	"context"
	"math"

	"github.com/GriffinCanCode/windowscene/internal/domain/display"
	"github.com/GriffinCanCode/windowscene/internal/domain/property"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"go.uber.org/zap"
)

// Float camera minimum width as a share of the display width.
const (
	floatCameraSmallScreenDP = 600

	floatCameraSmallPortrait  = 0.3
	floatCameraSmallLandscape = 0.5
	floatCameraLargePortrait  = 0.12
	floatCameraLargeLandscape = 0.3
)

// geometryDeferred reports whether rect updates stay local in state.
func geometryDeferred(state types.WindowState) bool {
	return state == types.StateInitial || state == types.StateHidden
}

// MoveTo moves the window, keeping its size. The property is updated
// first; the host is told only once the window is created and not hidden.
func (s *SceneSession) MoveTo(ctx context.Context, x, y int32) error {
	state, host := s.stateAndHost()
	if state == types.StateDestroyed {
		return types.ErrInvalidWindow
	}

	rect := s.property.WindowRect()
	rect.X, rect.Y = x, y
	rect = s.property.SetRequestRect(rect)

	if geometryDeferred(state) {
		s.logger.Debug("Move recorded locally", zap.Stringer("state", state))
		return nil
	}
	return s.updateSessionRect(ctx, host, rect, types.ReasonMove)
}

// Resize resizes the window, keeping its position. Float camera windows
// are widened to a device-dependent minimum and keep the display aspect.
func (s *SceneSession) Resize(ctx context.Context, width, height uint32) error {
	state, host := s.stateAndHost()
	if state == types.StateDestroyed {
		return types.ErrInvalidWindow
	}

	if s.property.WindowType() == types.WindowTypeFloatCamera {
		width, height = s.floatCameraSize(width, height)
	}

	rect := s.property.WindowRect()
	rect.Width, rect.Height = width, height
	rect = s.property.SetRequestRect(rect)

	if geometryDeferred(state) {
		s.logger.Debug("Resize recorded locally", zap.Stringer("state", state))
		return nil
	}
	return s.updateSessionRect(ctx, host, rect, types.ReasonResize)
}

func (s *SceneSession) updateSessionRect(ctx context.Context, host HostSession, rect types.Rect, reason types.SizeChangeReason) error {
	if host == nil {
		return types.ErrNullptr
	}
	return s.call("UpdateSessionRect", func() error {
		return host.UpdateSessionRect(ctx, rect, reason)
	})
}

func (s *SceneSession) currentDisplay() (display.Display, bool) {
	if s.displays == nil {
		return display.Display{}, false
	}
	if d, err := s.displays.GetDisplayByID(s.property.DisplayID()); err == nil {
		return d, true
	}
	return s.displays.GetDefaultDisplay(), true
}

// FloatCameraMinWidth returns the smallest width a float camera window may
// have on d.
func FloatCameraMinWidth(d display.Display) uint32 {
	vpr := d.VPR()
	small := float32(d.ShortEdge()) <= floatCameraSmallScreenDP*vpr

	var ratio float32
	switch {
	case small && d.IsPortrait():
		ratio = floatCameraSmallPortrait
	case small:
		ratio = floatCameraSmallLandscape
	case d.IsPortrait():
		ratio = floatCameraLargePortrait
	default:
		ratio = floatCameraLargeLandscape
	}
	return uint32(float32(d.Width) * ratio)
}

func (s *SceneSession) floatCameraSize(width, height uint32) (uint32, uint32) {
	d, ok := s.currentDisplay()
	if !ok || d.Width <= 0 || d.Height <= 0 {
		return width, height
	}
	if minWidth := FloatCameraMinWidth(d); width < minWidth {
		width = minWidth
	}
	height = uint32(float64(width) * float64(d.Height) / float64(d.Width))
	return width, height
}

// Decoration insets in virtual pixels.
const (
	decorFrameVP = 5
	decorTitleVP = 37
)

func (s *SceneSession) displayVPR() float32 {
	if d, ok := s.currentDisplay(); ok {
		return d.VPR()
	}
	return 1
}

// decorInsets returns the horizontal and vertical space decoration takes
// from the window in physical pixels, or zero when decor is off.
func (s *SceneSession) decorInsets() (float64, float64) {
	if !s.IsDecorEnable() {
		return 0, 0
	}
	s.mu.Lock()
	title := float64(decorTitleVP)
	if s.decorHeight > 0 {
		title = float64(s.decorHeight)
	}
	s.mu.Unlock()

	vpr := float64(s.displayVPR())
	return 2 * decorFrameVP * vpr, (decorFrameVP + title) * vpr
}

// SetAspectRatio constrains the content aspect ratio of a main window. The
// ratio must be reachable within the window limits once decoration is
// taken off. The window is resized to fit before the host is told.
func (s *SceneSession) SetAspectRatio(ctx context.Context, ratio float32) error {
	state, host := s.stateAndHost()
	switch {
	case state == types.StateDestroyed:
		return types.ErrInvalidWindow
	case host == nil:
		return types.ErrNullptr
	case !s.isMainWindow():
		return types.ErrInvalidOperation
	case math.IsNaN(float64(ratio)) || ratio <= 0:
		return types.ErrInvalidParam
	}

	frameW, frameH := s.decorInsets()
	limits := s.property.WindowLimits()
	minW := math.Max(types.Bound(limits.MinWidth, false)-frameW, 0)
	maxW := types.Bound(limits.MaxWidth, true) - frameW
	minH := math.Max(types.Bound(limits.MinHeight, false)-frameH, 0)
	maxH := types.Bound(limits.MaxHeight, true) - frameH

	r := float64(ratio)
	if r < minW/maxH || r > maxW/minH {
		s.logger.Debug("Aspect ratio out of limits",
			zap.Float32("ratio", ratio),
			zap.Float64("min", minW/maxH),
			zap.Float64("max", maxW/minH))
		return types.ErrInvalidParam
	}

	s.property.SetAspectRatio(ratio)
	rect := fitAspectRatio(s.property.WindowRect(), r, frameW, frameH)
	if err := s.Resize(ctx, rect.Width, rect.Height); err != nil {
		return err
	}
	return s.call("SetAspectRatio", func() error { return host.SetAspectRatio(ctx, ratio) })
}

// fitAspectRatio adjusts one side of rect so that its content area has
// ratio, picking the side that yields the smaller content area.
func fitAspectRatio(rect types.Rect, ratio, frameW, frameH float64) types.Rect {
	contentW := math.Max(float64(rect.Width)-frameW, 0)
	contentH := math.Max(float64(rect.Height)-frameH, 0)
	if contentW == 0 || contentH == 0 {
		return rect
	}

	byWidthH := contentW / ratio
	byHeightW := contentH * ratio
	if contentW*byWidthH <= byHeightW*contentH {
		rect.Height = uint32(math.Round(byWidthH + frameH))
	} else {
		rect.Width = uint32(math.Round(byHeightW + frameW))
	}
	return rect
}

// ResetAspectRatio removes the ratio constraint
func (s *SceneSession) ResetAspectRatio(ctx context.Context) error {
	state, host := s.stateAndHost()
	switch {
	case state == types.StateDestroyed:
		return types.ErrInvalidWindow
	case host == nil:
		return types.ErrNullptr
	}
	s.property.SetAspectRatio(0)
	return s.call("SetAspectRatio", func() error { return host.SetAspectRatio(ctx, 0) })
}

// GetAvoidAreaByType asks the host which regions content should avoid
func (s *SceneSession) GetAvoidAreaByType(ctx context.Context, typ types.AvoidAreaType) (types.AvoidArea, error) {
	state, host := s.stateAndHost()
	switch {
	case state == types.StateDestroyed:
		return types.AvoidArea{}, types.ErrInvalidWindow
	case host == nil:
		return types.AvoidArea{}, types.ErrNullptr
	}

	var area types.AvoidArea
	err := s.call("GetAvoidAreaByType", func() error {
		var cerr error
		area, cerr = host.GetAvoidAreaByType(ctx, typ)
		return cerr
	})
	return area, err
}

// RaiseToAppTop raises a shown sub window above its siblings
func (s *SceneSession) RaiseToAppTop(ctx context.Context) error {
	s.mu.Lock()
	state := s.state
	visible := s.visibleStateLocked()
	host := s.host
	s.mu.Unlock()

	switch {
	case state == types.StateDestroyed:
		return types.ErrInvalidWindow
	case !types.IsSubWindow(s.property.WindowType()):
		return types.ErrInvalidCalling
	case visible != types.StateShown:
		return types.ErrInvalidOpInCurStatus
	case host == nil:
		return types.ErrNullptr
	}
	return s.call("RaiseToAppTop", func() error { return host.RaiseToAppTop(ctx) })
}

// UpdateRect applies geometry confirmed by the host. A drag start freezes
// the session until the matching drag end.
func (s *SceneSession) UpdateRect(rect types.Rect, reason types.SizeChangeReason) error {
	s.mu.Lock()
	if s.state == types.StateDestroyed {
		s.mu.Unlock()
		return types.ErrInvalidWindow
	}
	switch reason {
	case types.ReasonDragStart:
		if s.state != types.StateFrozen {
			s.frozenFrom = s.state
			s.setStateLocked(types.StateFrozen)
		}
	case types.ReasonDragEnd:
		if s.state == types.StateFrozen {
			s.setStateLocked(s.frozenFrom)
		}
	}
	ui := s.uiContent
	s.mu.Unlock()

	stored := s.property.SetWindowRect(rect)
	if ui != nil {
		ui.UpdateViewportConfig(stored, reason)
	}
	s.listeners.notifySizeChange(stored, reason)
	return nil
}

// SetWindowMode switches the layout mode
func (s *SceneSession) SetWindowMode(ctx context.Context, mode types.WindowMode) error {
	if s.isDestroyed() {
		return types.ErrInvalidWindow
	}
	cfg := s.GetSystemConfig()
	if !cfg.ModeSupport.Supports(mode) {
		return types.ErrInvalidParam
	}
	if s.property.WindowMode() == mode {
		return types.ErrDoNothing
	}

	s.property.SetWindowMode(mode)
	s.listeners.notifyModeChange(mode)
	return s.syncOrStage(ctx, property.ActionUpdateMode)
}

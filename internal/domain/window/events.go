package window

import (
	"context"
	"time"

	"github.com/GriffinCanCode/windowscene/internal/ipc"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"go.uber.org/zap"
)

// Host calls made from event handlers have no caller context.
const eventCallTimeout = 3 * time.Second

var _ ipc.EventHandler = (*SceneSession)(nil)

func (s *SceneSession) TransferKeyEvent(ev ipc.KeyEvent) error {
	_, err := s.TransferKeyEventForConsumed(ev)
	return err
}

// TransferKeyEventForConsumed hands a key event to the content. An
// unconsumed back key asks the host to go back.
func (s *SceneSession) TransferKeyEventForConsumed(ev ipc.KeyEvent) (bool, error) {
	if s.isDestroyed() {
		return false, types.ErrInvalidWindow
	}
	s.interaction.touch()

	consumed := false
	if ui := s.ui(); ui != nil {
		consumed = ui.ProcessKeyEvent(ev)
	}
	if !consumed && ev.IsBackKeyUp() {
		s.requestBack()
	}
	return consumed, nil
}

func (s *SceneSession) TransferPointerEvent(ev ipc.PointerEvent) error {
	if s.isDestroyed() {
		return types.ErrInvalidWindow
	}
	s.interaction.touch()

	ui := s.ui()
	if ui == nil {
		return types.ErrNullptr
	}
	ui.ProcessPointerEvent(ev)
	return nil
}

func (s *SceneSession) TransferFocusActiveEvent(active bool) error {
	ui := s.ui()
	if ui == nil {
		return types.ErrNullptr
	}
	ui.SetIsFocusActive(active)
	return nil
}

func (s *SceneSession) TransferFocusStateEvent(focused bool) error {
	return s.UpdateFocus(focused)
}

func (s *SceneSession) TransferBackpressedEvent() error {
	if s.isDestroyed() {
		return types.ErrInvalidWindow
	}
	if ui := s.ui(); ui != nil && ui.ProcessBackPressed() {
		return nil
	}
	s.requestBack()
	return nil
}

func (s *SceneSession) requestBack() {
	host := s.hostSession()
	if host == nil {
		s.logger.Debug("Back request dropped, no host session")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), eventCallTimeout)
	defer cancel()
	_ = s.call("RequestSessionBack", func() error { return host.RequestSessionBack(ctx) })
}

func (s *SceneSession) TransferSearchElementInfo(elementID int64, mode int32, baseParent int64) ([]ipc.AccessibilityElementInfo, error) {
	ui := s.ui()
	if ui == nil {
		return nil, types.ErrNullptr
	}
	return ui.SearchElementInfo(elementID, mode, baseParent)
}

func (s *SceneSession) TransferSearchElementInfoByText(elementID int64, text string, baseParent int64) ([]ipc.AccessibilityElementInfo, error) {
	ui := s.ui()
	if ui == nil {
		return nil, types.ErrNullptr
	}
	return ui.SearchElementInfoByText(elementID, text, baseParent)
}

func (s *SceneSession) TransferFindFocusedElementInfo(elementID int64, focusType int32, baseParent int64) (ipc.AccessibilityElementInfo, error) {
	ui := s.ui()
	if ui == nil {
		return ipc.AccessibilityElementInfo{}, types.ErrNullptr
	}
	return ui.FindFocusedElementInfo(elementID, focusType, baseParent)
}

func (s *SceneSession) TransferFocusMoveSearch(elementID int64, direction int32, baseParent int64) (ipc.AccessibilityElementInfo, error) {
	ui := s.ui()
	if ui == nil {
		return ipc.AccessibilityElementInfo{}, types.ErrNullptr
	}
	return ui.FocusMoveSearch(elementID, direction, baseParent)
}

func (s *SceneSession) TransferExecuteAction(elementID int64, action int32, args map[string]string, baseParent int64) error {
	ui := s.ui()
	if ui == nil {
		return types.ErrNullptr
	}
	return ui.ExecuteAction(elementID, action, args, baseParent)
}

func (s *SceneSession) TransferUpdateRect(rect types.Rect, reason types.SizeChangeReason) error {
	return s.UpdateRect(rect, reason)
}

// UpdateFocus applies a focus change pushed by the host
func (s *SceneSession) UpdateFocus(focused bool) error {
	s.mu.Lock()
	if s.state == types.StateDestroyed {
		s.mu.Unlock()
		return types.ErrInvalidWindow
	}
	changed := s.focused != focused
	s.focused = focused
	s.mu.Unlock()

	if changed {
		s.logger.Debug("Window focus changed", zap.Bool("focused", focused))
		s.listeners.notifyFocus(focused)
	}
	return nil
}

package window

import (
	"context"
	"errors"
	"fmt"

	"github.com/GriffinCanCode/windowscene/internal/ipc"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"go.uber.org/zap"
)

// windowClass names the hierarchy class for metrics
func windowClass(t types.WindowType) string {
	switch {
	case types.IsMainWindow(t):
		return "main"
	case types.IsSubWindow(t), types.IsSystemSubWindow(t):
		return "sub"
	case types.IsSystemWindow(t):
		return "system"
	default:
		return "other"
	}
}

func (s *SceneSession) createCheck() error {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	switch {
	case state == types.StateDestroyed:
		return types.ErrInvalidWindow
	case state != types.StateInitial:
		return types.ErrRepeatOperation
	}

	name := s.property.WindowName()
	if name == "" {
		return types.ErrInvalidParam
	}
	if s.registry.Contains(name) {
		s.logger.Warn("Window name already registered")
		return types.ErrRepeatOperation
	}
	return nil
}

// Create connects the session to the host. With a host handle the window
// is treated as a main window and connects directly. Without one, sub
// windows are created through their parent's session and system windows
// through the global session manager.
func (s *SceneSession) Create(ctx context.Context, ability AbilityContext, host HostSession) error {
	if ability == nil {
		s.logger.Warn("Create called without ability context")
	}
	if err := s.createCheck(); err != nil {
		return err
	}

	typ := s.property.WindowType()
	if host == nil && types.IsSystemWindow(typ) && !types.IsValidSystemWindowType(typ) {
		s.logger.Warn("System window type not allowed")
		return types.ErrInvalidType
	}

	endpoint, err := s.channels.Open(s)
	if err != nil {
		return fmt.Errorf("%w: open event channel: %v", types.ErrIPCFailed, err)
	}
	req := ConnectRequest{Property: s.property.Snapshot(), Channel: endpoint}

	var (
		persistentID int64
		rect         types.Rect
		remote       HostSession
	)
	if host != nil {
		var reply ConnectReply
		err = s.call("Connect", func() error {
			var cerr error
			reply, cerr = host.Connect(ctx, req)
			return cerr
		})
		persistentID, rect, remote = reply.PersistentID, reply.Rect, host
	} else {
		var specific SpecificSession
		specific, err = s.createSpecificSession(ctx, req)
		persistentID, rect, remote = specific.PersistentID, specific.Rect, specific.Session
	}
	if err == nil && (remote == nil || persistentID == 0) {
		err = types.ErrNullptr
	}
	if err != nil {
		s.channels.Close(endpoint.Token)
		return err
	}

	if err := s.property.SetPersistentID(persistentID); err != nil {
		s.channels.Close(endpoint.Token)
		return err
	}
	if !rect.IsEmpty() {
		s.property.SetWindowRect(rect)
	}

	s.mu.Lock()
	if s.state != types.StateInitial {
		s.mu.Unlock()
		s.channels.Close(endpoint.Token)
		return types.ErrInvalidWindow
	}
	s.host = remote
	s.channel = endpoint
	s.ability = ability
	s.setStateLocked(types.StateCreated)
	s.mu.Unlock()

	name := s.property.WindowName()
	if err := s.registry.Register(name, persistentID, s); err != nil {
		s.logger.Error("Failed to register window", zap.Error(err))
		_ = s.Destroy(ctx, host == nil, false)
		return err
	}
	if parentID := s.property.ParentPersistentID(); parentID != 0 && !types.IsMainWindow(typ) {
		s.registry.AddChild(parentID, persistentID, s)
	}

	if types.IsMainWindow(typ) {
		s.applyDefaultMode()
	}

	if s.metrics != nil {
		s.metrics.RecordSessionCreated(windowClass(typ))
	}
	s.logger.Info("Window created",
		zap.Int64("persistent_id", persistentID),
		zap.Stringer("mode", s.property.WindowMode()),
		zap.Int64("parent_id", s.property.ParentPersistentID()))
	return nil
}

func (s *SceneSession) createSpecificSession(ctx context.Context, req ConnectRequest) (SpecificSession, error) {
	typ := s.property.WindowType()

	var manager SpecificSessionManager
	switch {
	case types.IsSubWindow(typ), types.IsSystemSubWindow(typ):
		parent, ok := s.registry.FindByID(s.property.ParentPersistentID())
		if !ok || parent == nil {
			s.logger.Warn("Parent window not found",
				zap.Int64("parent_id", s.property.ParentPersistentID()))
			return SpecificSession{}, types.ErrNullptr
		}
		parentHost := parent.hostSession()
		if parentHost == nil {
			return SpecificSession{}, types.ErrNullptr
		}
		manager = parentHost
	case types.IsSystemWindow(typ):
		if s.manager == nil {
			return SpecificSession{}, types.ErrNullptr
		}
		manager = s.manager
	default:
		return SpecificSession{}, types.ErrNullptr
	}

	var specific SpecificSession
	err := s.call("CreateAndConnectSpecificSession", func() error {
		var cerr error
		specific, cerr = manager.CreateAndConnectSpecificSession(ctx, req)
		return cerr
	})
	return specific, err
}

// applyDefaultMode replaces an undefined or unsupported mode with the
// device default.
func (s *SceneSession) applyDefaultMode() {
	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()

	mode := s.property.WindowMode()
	if mode != types.ModeUndefined && cfg.ModeSupport.Supports(mode) {
		return
	}
	s.property.SetWindowMode(cfg.DefaultWindowMode)
	s.logger.Debug("Applied default window mode",
		zap.Stringer("requested", mode),
		zap.Stringer("mode", cfg.DefaultWindowMode))
}

// Show brings the window to the foreground. Showing a shown window is a
// no-op. For main windows, hidden sub windows follow.
func (s *SceneSession) Show(ctx context.Context, reason uint32, withAnimation bool) error {
	s.mu.Lock()
	visible := s.visibleStateLocked()
	host := s.host
	switch visible {
	case types.StateInitial, types.StateDestroyed:
		s.mu.Unlock()
		return types.ErrInvalidWindow
	case types.StateShown:
		s.setStateLocked(types.StateShown)
		s.mu.Unlock()
		s.logger.Debug("Window already shown", zap.Uint32("reason", reason))
		return nil
	}
	s.mu.Unlock()

	if host == nil {
		return types.ErrNullptr
	}
	s.property.SetAnimation(withAnimation)

	if err := s.call("Foreground", func() error { return host.Foreground(ctx) }); err != nil {
		s.listeners.notifyForegroundFailed(err)
		return err
	}

	s.mu.Lock()
	if s.state == types.StateDestroyed {
		s.mu.Unlock()
		return types.ErrInvalidWindow
	}
	s.setStateLocked(types.StateShown)
	staged := s.staged
	s.staged = 0
	s.mu.Unlock()

	if staged != 0 {
		if err := s.syncProperty(ctx, host, staged); err != nil {
			s.logger.Warn("Failed to flush staged property", zap.Error(err))
		}
	}

	s.listeners.notifyForeground()
	if s.isMainWindow() {
		s.updateSubWindowState(types.StateShown)
	}
	return nil
}

// Hide sends the window to the background. Hiding a hidden window is a
// no-op. Non-main windows are deactivated before they are backgrounded.
func (s *SceneSession) Hide(ctx context.Context, reason uint32, withAnimation, isFromInnerkits bool) error {
	s.mu.Lock()
	visible := s.visibleStateLocked()
	host := s.host
	switch visible {
	case types.StateInitial, types.StateDestroyed:
		s.mu.Unlock()
		return types.ErrInvalidWindow
	case types.StateHidden, types.StateCreated:
		s.setStateLocked(visible)
		s.mu.Unlock()
		s.logger.Debug("Window already hidden", zap.Uint32("reason", reason))
		return nil
	}
	s.mu.Unlock()

	if host == nil {
		return types.ErrNullptr
	}
	s.property.SetAnimation(withAnimation)

	if !s.isMainWindow() {
		if err := s.call("UpdateActiveStatus", func() error { return host.UpdateActiveStatus(ctx, false) }); err != nil {
			return err
		}
	}
	if err := s.call("Background", func() error { return host.Background(ctx) }); err != nil {
		return err
	}

	s.mu.Lock()
	if s.state == types.StateDestroyed {
		s.mu.Unlock()
		return types.ErrInvalidWindow
	}
	s.setStateLocked(types.StateHidden)
	s.mu.Unlock()

	s.logger.Debug("Window hidden", zap.Bool("from_innerkits", isFromInnerkits))
	s.listeners.notifyBackground()
	if s.isMainWindow() {
		s.updateSubWindowState(types.StateHidden)
	}
	return nil
}

// updateSubWindowState moves every sub window that is in the opposite
// visibility state to target. The host does not drive sub windows itself.
func (s *SceneSession) updateSubWindowState(target types.WindowState) {
	for _, child := range s.registry.Children(s.GetPersistentID()) {
		if child == nil {
			continue
		}
		child.followParent(target)
	}
}

func (s *SceneSession) followParent(target types.WindowState) {
	opposite := types.StateHidden
	if target == types.StateHidden {
		opposite = types.StateShown
	}

	s.mu.Lock()
	if s.visibleStateLocked() != opposite {
		s.mu.Unlock()
		return
	}
	s.setStateLocked(target)
	s.mu.Unlock()

	if target == types.StateShown {
		s.listeners.notifyForeground()
	} else {
		s.listeners.notifyBackground()
	}
}

// Destroy tears the session down. Sub windows are destroyed first. The
// session is always torn down locally; a failed destroy RPC is returned
// afterwards. Destroying a destroyed session is a no-op.
func (s *SceneSession) Destroy(ctx context.Context, needNotifyServer, needClearListener bool) error {
	s.mu.Lock()
	switch {
	case s.state == types.StateDestroyed || s.destroying:
		s.mu.Unlock()
		return nil
	case s.state == types.StateInitial:
		s.mu.Unlock()
		return types.ErrInvalidWindow
	}
	s.destroying = true
	endpoint := s.channel
	s.mu.Unlock()

	typ := s.property.WindowType()
	persistentID := s.property.PersistentID()
	parentID := s.property.ParentPersistentID()

	var rpcErr error
	if needNotifyServer && !types.IsMainWindow(typ) {
		rpcErr = s.destroySpecificSession(ctx, typ, persistentID, parentID)
	}

	s.listeners.notifyBeforeDestroy()
	if needClearListener {
		s.listeners.clear()
	}

	for _, child := range s.registry.Children(persistentID) {
		if child == nil {
			continue
		}
		if err := child.Destroy(ctx, needNotifyServer, needClearListener); err != nil {
			s.logger.Warn("Failed to destroy sub window",
				zap.String("child", child.GetWindowName()),
				zap.Error(err))
		}
	}
	s.registry.RemoveChildren(persistentID)
	if parentID != 0 {
		s.registry.RemoveChild(parentID, persistentID)
	}
	if id, ok := s.registry.PersistentID(s.property.WindowName()); ok && id == persistentID {
		s.registry.Remove(s.property.WindowName())
	}
	if endpoint.Token != "" {
		s.channels.Close(endpoint.Token)
	}
	s.interaction.closeAll()

	s.mu.Lock()
	s.host = nil
	s.uiContent = nil
	s.surface = nil
	s.channel = ipc.Endpoint{}
	s.setStateLocked(types.StateDestroyed)
	s.destroying = false
	s.mu.Unlock()

	s.listeners.notifyDestroyed()
	if s.metrics != nil {
		s.metrics.RecordSessionDestroyed()
	}
	s.logger.Info("Window destroyed", zap.Bool("notify_server", needNotifyServer))
	return rpcErr
}

func (s *SceneSession) destroySpecificSession(ctx context.Context, typ types.WindowType, persistentID, parentID int64) error {
	var manager SpecificSessionManager
	if types.IsSubWindow(typ) || types.IsSystemSubWindow(typ) {
		if parent, ok := s.registry.FindByID(parentID); ok && parent != nil {
			if h := parent.hostSession(); h != nil {
				manager = h
			}
		}
	}
	if manager == nil && s.manager != nil {
		manager = s.manager
	}
	if manager == nil {
		if host := s.hostSession(); host != nil {
			manager = host
		}
	}
	if manager == nil {
		return types.ErrNullptr
	}

	err := s.call("DestroyAndDisconnectSpecificSession", func() error {
		return manager.DestroyAndDisconnectSpecificSession(ctx, persistentID)
	})
	if errors.Is(err, types.ErrDoNothing) {
		return nil
	}
	return err
}

package window

import (
	"context"
	"sync"

	"github.com/GriffinCanCode/windowscene/internal/domain/property"
	"github.com/GriffinCanCode/windowscene/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/windowscene/internal/ipc"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"go.uber.org/zap"
)

// SceneSession is the client half of one window. It owns the window
// property and the handle to the remote session, and drives every
// lifecycle and layout transition.
//
// The session mutex is never held across a host call. State is re-read
// after each call so results that arrive after a contradicting request, or
// after Destroy, are not applied.
type SceneSession struct {
	mu         sync.Mutex
	state      types.WindowState // Protected by mu
	frozenFrom types.WindowState // Protected by mu
	destroying bool              // Protected by mu
	host       HostSession       // Protected by mu
	channel    ipc.Endpoint      // Protected by mu
	ability    AbilityContext    // Protected by mu
	uiContent  UIContent         // Protected by mu
	surface    Surface           // Protected by mu
	focused    bool              // Protected by mu
	staged     property.Action   // Protected by mu
	cfg        SystemConfig      // Protected by mu

	pendingIgnoreSafeArea *bool  // Protected by mu
	decorHeight           uint32 // Protected by mu

	property *property.WindowProperty
	registry *Registry
	manager  SpecificSessionManager
	displays DisplayProvider
	caller   Caller
	channels ChannelOpener
	logger   *zap.Logger
	metrics  *monitoring.Metrics

	listeners   *listeners
	interaction *interactionMonitors
}

// NewSceneSession creates a session in the INITIAL state.
func NewSceneSession(opt Option, deps Deps) *SceneSession {
	prop := property.New(opt.Name, opt.Type)
	prop.SetWindowMode(opt.Mode)
	prop.SetWindowLimits(opt.Limits)
	prop.SetRequestRect(opt.Rect)
	prop.SetParentPersistentID(opt.ParentID)
	prop.SetDisplayID(opt.DisplayID)
	prop.SetFlags(opt.Flags)
	for typ, bar := range opt.SystemBars {
		prop.SetSystemBarProperty(typ, bar)
	}
	version := opt.APICompatibleVersion
	if version == 0 {
		version = defaultAPICompatibleVersion
	}
	prop.SetAPICompatibleVersion(version)

	s := &SceneSession{
		state:       types.StateInitial,
		property:    prop,
		registry:    deps.Registry,
		manager:     deps.SessionManager,
		displays:    deps.Displays,
		caller:      deps.Caller,
		channels:    deps.Channels,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		listeners:   newListeners(),
		interaction: newInteractionMonitors(),
	}
	if s.registry == nil {
		s.registry = defaultRegistry
	}
	if s.caller == nil {
		s.caller = StaticCaller{}
	}
	if s.channels == nil {
		s.channels = defaultChannels
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.logger = s.logger.With(zap.String("window", opt.Name), zap.Stringer("type", opt.Type))
	if deps.Config != nil {
		s.cfg = *deps.Config
	} else {
		s.cfg = DefaultSystemConfig()
	}
	prop.SetDecorEnable(s.cfg.DecorEnable && types.IsMainWindow(opt.Type))
	return s
}

// Info is a point-in-time view of a session
type Info struct {
	Name         string     `json:"name"`
	PersistentID int64      `json:"persistent_id"`
	ParentID     int64      `json:"parent_id,omitempty"`
	Type         string     `json:"type"`
	Mode         string     `json:"mode"`
	State        string     `json:"state"`
	Rect         types.Rect `json:"rect"`
	Focused      bool       `json:"focused"`
}

// Info returns a snapshot for debugging endpoints
func (s *SceneSession) Info() Info {
	d := s.property.Snapshot()

	s.mu.Lock()
	state, focused := s.state, s.focused
	s.mu.Unlock()

	return Info{
		Name:         d.WindowName,
		PersistentID: d.PersistentID,
		ParentID:     d.ParentPersistentID,
		Type:         d.WindowType.String(),
		Mode:         d.WindowMode.String(),
		State:        state.String(),
		Rect:         d.WindowRect,
		Focused:      focused,
	}
}

func (s *SceneSession) GetWindowState() types.WindowState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SceneSession) GetPersistentID() int64 {
	return s.property.PersistentID()
}

func (s *SceneSession) GetWindowName() string {
	return s.property.WindowName()
}

func (s *SceneSession) GetType() types.WindowType {
	return s.property.WindowType()
}

func (s *SceneSession) GetMode() types.WindowMode {
	return s.property.WindowMode()
}

func (s *SceneSession) GetParentID() int64 {
	return s.property.ParentPersistentID()
}

// GetRect returns the latest requested or confirmed window rect
func (s *SceneSession) GetRect() types.Rect {
	return s.property.WindowRect()
}

// GetProperty returns a copy of the window property
func (s *SceneSession) GetProperty() property.Data {
	return s.property.Snapshot()
}

func (s *SceneSession) IsFocused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused
}

// GetSystemConfig returns the session's copy of the device configuration
func (s *SceneSession) GetSystemConfig() SystemConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// SetWindowLimits replaces the size limits and re-clamps the rect
func (s *SceneSession) SetWindowLimits(l types.WindowLimits) error {
	if s.isDestroyed() {
		return types.ErrInvalidWindow
	}
	s.property.SetWindowLimits(l)
	return nil
}

// SetUIContent attaches the content tree and applies a pending
// ignore-safe-area request.
func (s *SceneSession) SetUIContent(ui UIContent) error {
	s.mu.Lock()
	if s.state == types.StateDestroyed {
		s.mu.Unlock()
		return types.ErrInvalidWindow
	}
	s.uiContent = ui
	pending := s.pendingIgnoreSafeArea
	s.pendingIgnoreSafeArea = nil
	s.mu.Unlock()

	if ui != nil && pending != nil {
		ui.SetIgnoreViewSafeArea(*pending)
	}
	return nil
}

// SetSurface attaches the render node effects are applied to
func (s *SceneSession) SetSurface(surface Surface) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == types.StateDestroyed {
		return types.ErrInvalidWindow
	}
	s.surface = surface
	return nil
}

// SubWindows returns the live sub windows of this session
func (s *SceneSession) SubWindows() []*SceneSession {
	return s.registry.Children(s.GetPersistentID())
}

func (s *SceneSession) hostSession() HostSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.host
}

func (s *SceneSession) ui() UIContent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uiContent
}

func (s *SceneSession) isDestroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == types.StateDestroyed
}

// stateAndHost returns the state under any FROZEN overlay and the host
// handle.
func (s *SceneSession) stateAndHost() (types.WindowState, HostSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleStateLocked(), s.host
}

// visibleStateLocked looks through the FROZEN overlay.
func (s *SceneSession) visibleStateLocked() types.WindowState {
	if s.state == types.StateFrozen {
		return s.frozenFrom
	}
	return s.state
}

// setStateLocked must hold mu.
func (s *SceneSession) setStateLocked(to types.WindowState) {
	from := s.state
	if from == to {
		return
	}
	s.state = to
	if s.metrics != nil {
		s.metrics.RecordStateTransition(from.String(), to.String())
	}
	s.logger.Debug("Window state changed",
		zap.Stringer("from", from),
		zap.Stringer("to", to))
}

func (s *SceneSession) isMainWindow() bool {
	return types.IsMainWindow(s.property.WindowType())
}

// call runs a host RPC, mapping its result into the local error space.
func (s *SceneSession) call(name string, fn func() error) error {
	timer := monitoring.NewTimer(s.metrics, name)
	err := types.FromRemote(fn())
	timer.Stop(err)
	if err != nil {
		s.logger.Warn("Host call failed",
			zap.String("call", name),
			zap.Int64("persistent_id", s.GetPersistentID()),
			zap.Error(err))
	}
	return err
}

func (s *SceneSession) syncProperty(ctx context.Context, host HostSession, action property.Action) error {
	data := s.property.Snapshot()
	return s.call("UpdateProperty", func() error {
		return host.UpdateProperty(ctx, action, data)
	})
}

// syncOrStage pushes a property change when the window is shown and
// stages it for the next Show otherwise.
func (s *SceneSession) syncOrStage(ctx context.Context, action property.Action) error {
	s.mu.Lock()
	if s.state == types.StateDestroyed {
		s.mu.Unlock()
		return types.ErrInvalidWindow
	}
	if s.visibleStateLocked() != types.StateShown || s.host == nil {
		s.staged |= action
		s.mu.Unlock()
		return nil
	}
	host := s.host
	s.mu.Unlock()

	return s.syncProperty(ctx, host, action)
}

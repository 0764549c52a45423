package grpc

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/GriffinCanCode/windowscene/internal/domain/display"
	"github.com/GriffinCanCode/windowscene/internal/domain/property"
	"github.com/GriffinCanCode/windowscene/internal/domain/window"
	"github.com/GriffinCanCode/windowscene/internal/ipc"
	"github.com/GriffinCanCode/windowscene/internal/shared/id"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"go.uber.org/zap"
)

// SessionInfo is the host's view of one connected session.
type SessionInfo struct {
	PersistentID int64                `json:"persistent_id"`
	ParentID     int64                `json:"parent_id"`
	Name         string               `json:"name"`
	Type         types.WindowType     `json:"type"`
	Mode         types.WindowMode     `json:"mode"`
	Rect         types.Rect           `json:"rect"`
	Foreground   bool                 `json:"foreground"`
	Active       bool                 `json:"active"`
	NeedAvoid    bool                 `json:"need_avoid"`
	AspectRatio  float32              `json:"aspect_ratio"`
	ZOrder       int                  `json:"z_order"`
	BackRequests int                  `json:"back_requests"`
	Events       []types.SessionEvent `json:"events,omitempty"`
	Channel      ipc.Endpoint         `json:"-"`
}

// ChannelDialer opens a Remote to a session's event channel.
type ChannelDialer func(ctx context.Context, ep ipc.Endpoint) (ipc.Remote, func(), error)

// Host is an in-memory session host. It keeps one record per connected
// session and answers the session service on behalf of a real window
// manager, which makes it usable as a loopback server and in tests.
type Host struct {
	mu       sync.RWMutex
	sessions map[int64]*SessionInfo // Protected by mu
	maximize types.MaximizeMode     // Protected by mu
	zOrder   int                    // Protected by mu

	ids       *id.Allocator
	display   display.Display
	statusBar uint32
	dial      ChannelDialer
	logger    *zap.Logger
}

var _ SessionServer = (*Host)(nil)

// HostOption configures a Host
type HostOption func(*Host)

// WithHostLogger attaches a logger
func WithHostLogger(l *zap.Logger) HostOption {
	return func(h *Host) { h.logger = l }
}

// WithStatusBarHeight sets the height of the system avoid area in pixels
func WithStatusBarHeight(px uint32) HostOption {
	return func(h *Host) { h.statusBar = px }
}

// WithChannelDialer replaces how the host reaches session event channels
func WithChannelDialer(d ChannelDialer) HostOption {
	return func(h *Host) { h.dial = d }
}

// LocalDialer reaches in-process channels opened on channels.
func LocalDialer(channels *ipc.LocalChannels) ChannelDialer {
	return func(_ context.Context, ep ipc.Endpoint) (ipc.Remote, func(), error) {
		remote, ok := channels.Remote(ep.Token)
		if !ok {
			return nil, nil, fmt.Errorf("channel %s is not open", ep.Token)
		}
		return remote, func() {}, nil
	}
}

// WebsocketDialer reaches channels served by an ipc.Hub.
func WebsocketDialer(ctx context.Context, ep ipc.Endpoint) (ipc.Remote, func(), error) {
	if ep.URL == "" {
		return nil, nil, fmt.Errorf("channel %s has no url", ep.Token)
	}
	remote, err := ipc.DialRemote(ctx, ep.URL)
	if err != nil {
		return nil, nil, err
	}
	return remote, func() { _ = remote.Close() }, nil
}

// NewHost creates a host for a single display
func NewHost(d display.Display, opts ...HostOption) *Host {
	h := &Host{
		sessions: make(map[int64]*SessionInfo),
		maximize: types.MaximizeModeRecover,
		ids:      id.NewAllocator(1),
		display:  d,
		dial:     WebsocketDialer,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.Named("host")
	return h
}

// Sessions returns every connected session ordered by persistent id
func (h *Host) Sessions() []SessionInfo {
	h.mu.RLock()
	out := make([]SessionInfo, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, cloneInfo(s))
	}
	h.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].PersistentID < out[j].PersistentID })
	return out
}

// Session returns one session
func (h *Host) Session(persistentID int64) (SessionInfo, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, ok := h.sessions[persistentID]
	if !ok {
		return SessionInfo{}, false
	}
	return cloneInfo(s), true
}

func cloneInfo(s *SessionInfo) SessionInfo {
	c := *s
	c.Events = append([]types.SessionEvent(nil), s.Events...)
	return c
}

// Notify runs fn against a proxy for the session's event channel.
func (h *Host) Notify(ctx context.Context, persistentID int64, fn func(*ipc.Proxy) error) error {
	h.mu.RLock()
	s, ok := h.sessions[persistentID]
	var ep ipc.Endpoint
	if ok {
		ep = s.Channel
	}
	h.mu.RUnlock()
	if !ok {
		return types.WSErrInvalidSession
	}

	remote, closeFn, err := h.dial(ctx, ep)
	if err != nil {
		return fmt.Errorf("session %d: %w", persistentID, err)
	}
	defer closeFn()

	return fn(ipc.NewProxy(remote))
}

// update runs fn on a session under the write lock
func (h *Host) update(persistentID int64, fn func(s *SessionInfo) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[persistentID]
	if !ok {
		return types.WSErrInvalidSession
	}
	return fn(s)
}

func (h *Host) fullRect() types.Rect {
	return types.Rect{Width: uint32(h.display.Width), Height: uint32(h.display.Height)}
}

// addLocked records a new session. The caller holds mu.
func (h *Host) addLocked(parentID int64, req window.ConnectRequest) *SessionInfo {
	rect := req.Property.RequestRect
	if rect.Width == 0 || rect.Height == 0 {
		rect = h.fullRect()
	}
	s := &SessionInfo{
		PersistentID: h.ids.Next(),
		ParentID:     parentID,
		Name:         req.Property.WindowName,
		Type:         req.Property.WindowType,
		Mode:         req.Property.WindowMode,
		Rect:         rect,
		NeedAvoid:    req.Property.Flags&types.FlagNeedAvoid != 0,
		Channel:      req.Channel,
	}
	h.sessions[s.PersistentID] = s
	h.logger.Debug("session connected",
		zap.Int64("persistent_id", s.PersistentID),
		zap.Int64("parent_id", parentID),
		zap.String("window", s.Name),
	)
	return s
}

// removeLocked drops a session and every session below it. The caller
// holds mu.
func (h *Host) removeLocked(persistentID int64) {
	for childID, child := range h.sessions {
		if child.ParentID == persistentID {
			h.removeLocked(childID)
		}
	}
	delete(h.sessions, persistentID)
}

// Connect registers a main window. Id 0 asks for a new session; a known id
// reconnects it with a fresh channel.
func (h *Host) Connect(_ context.Context, persistentID int64, req window.ConnectRequest) (window.ConnectReply, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if persistentID == 0 {
		s := h.addLocked(0, req)
		return window.ConnectReply{PersistentID: s.PersistentID, Rect: s.Rect}, nil
	}

	s, ok := h.sessions[persistentID]
	if !ok {
		return window.ConnectReply{}, types.WSErrInvalidSession
	}
	s.Channel = req.Channel
	return window.ConnectReply{PersistentID: s.PersistentID, Rect: s.Rect}, nil
}

func (h *Host) Foreground(_ context.Context, persistentID int64) error {
	return h.update(persistentID, func(s *SessionInfo) error {
		s.Foreground = true
		return nil
	})
}

func (h *Host) Background(_ context.Context, persistentID int64) error {
	return h.update(persistentID, func(s *SessionInfo) error {
		s.Foreground = false
		s.Active = false
		return nil
	})
}

func (h *Host) Disconnect(_ context.Context, persistentID int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[persistentID]; !ok {
		return types.WSErrInvalidSession
	}
	h.removeLocked(persistentID)
	h.logger.Debug("session disconnected", zap.Int64("persistent_id", persistentID))
	return nil
}

func (h *Host) UpdateActiveStatus(_ context.Context, persistentID int64, active bool) error {
	return h.update(persistentID, func(s *SessionInfo) error {
		s.Active = active
		return nil
	})
}

func (h *Host) UpdateSessionRect(_ context.Context, persistentID int64, rect types.Rect, _ types.SizeChangeReason) error {
	return h.update(persistentID, func(s *SessionInfo) error {
		s.Rect = rect
		return nil
	})
}

// OnSessionEvent records the event. Maximize fills the display, leaving
// the status bar uncovered when the global mode asks for it.
func (h *Host) OnSessionEvent(_ context.Context, persistentID int64, event types.SessionEvent) error {
	return h.update(persistentID, func(s *SessionInfo) error {
		s.Events = append(s.Events, event)
		if event == types.EventMaximize {
			rect := h.fullRect()
			if h.maximize == types.MaximizeModeAvoidSystemBar {
				rect.Y = int32(h.statusBar)
				rect.Height -= min(h.statusBar, rect.Height)
			}
			s.Rect = rect
			s.Mode = types.ModeFullscreen
		}
		return nil
	})
}

func (h *Host) SetAspectRatio(_ context.Context, persistentID int64, ratio float32) error {
	return h.update(persistentID, func(s *SessionInfo) error {
		s.AspectRatio = ratio
		return nil
	})
}

// GetAvoidAreaByType reports the status bar as the system avoid area
func (h *Host) GetAvoidAreaByType(_ context.Context, persistentID int64, typ types.AvoidAreaType) (types.AvoidArea, error) {
	var area types.AvoidArea
	err := h.update(persistentID, func(s *SessionInfo) error {
		if typ == types.AvoidAreaSystem && h.statusBar > 0 {
			area.Top = types.Rect{Width: uint32(h.display.Width), Height: h.statusBar}
		}
		return nil
	})
	return area, err
}

func (h *Host) UpdateProperty(_ context.Context, persistentID int64, action property.Action, data property.Data) error {
	return h.update(persistentID, func(s *SessionInfo) error {
		if action&property.ActionUpdateMode != 0 {
			s.Mode = data.WindowMode
		}
		if action&property.ActionUpdateFlags != 0 {
			s.NeedAvoid = data.Flags&types.FlagNeedAvoid != 0
		}
		if action&property.ActionUpdateAspectRatio != 0 {
			s.AspectRatio = data.AspectRatio
		}
		return nil
	})
}

func (h *Host) OnNeedAvoid(_ context.Context, persistentID int64, status bool) error {
	return h.update(persistentID, func(s *SessionInfo) error {
		s.NeedAvoid = status
		return nil
	})
}

// RaiseToAppTop moves a sub window above its siblings
func (h *Host) RaiseToAppTop(_ context.Context, persistentID int64) error {
	return h.update(persistentID, func(s *SessionInfo) error {
		if s.ParentID == 0 {
			return types.WSErrInvalidCalling
		}
		h.zOrder++
		s.ZOrder = h.zOrder
		return nil
	})
}

// RequestSessionBack moves the window to the background
func (h *Host) RequestSessionBack(_ context.Context, persistentID int64) error {
	return h.update(persistentID, func(s *SessionInfo) error {
		s.BackRequests++
		s.Foreground = false
		return nil
	})
}

func (h *Host) SetGlobalMaximizeMode(_ context.Context, persistentID int64, mode types.MaximizeMode) error {
	return h.update(persistentID, func(*SessionInfo) error {
		h.maximize = mode
		return nil
	})
}

func (h *Host) GetGlobalMaximizeMode(_ context.Context, persistentID int64) (types.MaximizeMode, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.sessions[persistentID]; !ok {
		return types.MaximizeModeRecover, types.WSErrInvalidSession
	}
	return h.maximize, nil
}

// CreateAndConnectSpecificSession creates a sub window under parentID, or a
// system window when parentID is 0.
func (h *Host) CreateAndConnectSpecificSession(_ context.Context, parentID int64, req window.ConnectRequest) (window.ConnectReply, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if parentID != 0 {
		if _, ok := h.sessions[parentID]; !ok {
			return window.ConnectReply{}, types.WSErrInvalidSession
		}
	}
	s := h.addLocked(parentID, req)
	return window.ConnectReply{PersistentID: s.PersistentID, Rect: s.Rect}, nil
}

// DestroyAndDisconnectSpecificSession removes a session created through
// parentID together with its own sub windows.
func (h *Host) DestroyAndDisconnectSpecificSession(_ context.Context, parentID, persistentID int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[persistentID]
	if !ok || s.ParentID != parentID {
		return types.WSErrInvalidSession
	}
	h.removeLocked(persistentID)
	return nil
}

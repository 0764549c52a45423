package window

import (
	"context"

	"github.com/GriffinCanCode/windowscene/internal/domain/display"
	"github.com/GriffinCanCode/windowscene/internal/domain/property"
	"github.com/GriffinCanCode/windowscene/internal/domain/registry"
	"github.com/GriffinCanCode/windowscene/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/windowscene/internal/ipc"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"go.uber.org/zap"
)

// ConnectRequest is what a session sends when it connects to the host.
type ConnectRequest struct {
	Property property.Data
	Channel  ipc.Endpoint
}

// ConnectReply carries the host-assigned identity and initial geometry.
type ConnectReply struct {
	PersistentID int64
	Rect         types.Rect
}

// SpecificSession is a session created on behalf of a sub or system window.
type SpecificSession struct {
	PersistentID int64
	Session      HostSession
	Rect         types.Rect
}

// SpecificSessionManager creates and tears down linked sessions. A parent
// session plays this role for its sub windows; the global session manager
// plays it for system windows.
type SpecificSessionManager interface {
	CreateAndConnectSpecificSession(ctx context.Context, req ConnectRequest) (SpecificSession, error)
	DestroyAndDisconnectSpecificSession(ctx context.Context, persistentID int64) error
}

// HostSession is the remote half of a window session. Every call blocks
// until the host replies.
type HostSession interface {
	SpecificSessionManager

	Connect(ctx context.Context, req ConnectRequest) (ConnectReply, error)
	Foreground(ctx context.Context) error
	Background(ctx context.Context) error
	Disconnect(ctx context.Context) error
	UpdateActiveStatus(ctx context.Context, active bool) error
	UpdateSessionRect(ctx context.Context, rect types.Rect, reason types.SizeChangeReason) error
	OnSessionEvent(ctx context.Context, event types.SessionEvent) error
	SetAspectRatio(ctx context.Context, ratio float32) error
	GetAvoidAreaByType(ctx context.Context, typ types.AvoidAreaType) (types.AvoidArea, error)
	UpdateProperty(ctx context.Context, action property.Action, data property.Data) error
	OnNeedAvoid(ctx context.Context, status bool) error
	RaiseToAppTop(ctx context.Context) error
	RequestSessionBack(ctx context.Context) error
	SetGlobalMaximizeMode(ctx context.Context, mode types.MaximizeMode) error
	GetGlobalMaximizeMode(ctx context.Context) (types.MaximizeMode, error)
}

// UIContent is the application's drawable content tree.
type UIContent interface {
	SetIgnoreViewSafeArea(ignore bool)
	ProcessKeyEvent(ev ipc.KeyEvent) bool
	ProcessPointerEvent(ev ipc.PointerEvent)
	ProcessBackPressed() bool
	SetIsFocusActive(active bool)
	UpdateViewportConfig(rect types.Rect, reason types.SizeChangeReason)
	SearchElementInfo(elementID int64, mode int32, baseParent int64) ([]ipc.AccessibilityElementInfo, error)
	SearchElementInfoByText(elementID int64, text string, baseParent int64) ([]ipc.AccessibilityElementInfo, error)
	FindFocusedElementInfo(elementID int64, focusType int32, baseParent int64) (ipc.AccessibilityElementInfo, error)
	FocusMoveSearch(elementID int64, direction int32, baseParent int64) (ipc.AccessibilityElementInfo, error)
	ExecuteAction(elementID int64, action int32, args map[string]string, baseParent int64) error
}

// Surface is the render node a session draws effects on.
type Surface interface {
	SetCornerRadius(radius float32)
	SetShadowRadius(radius float32)
	SetShadowColor(argb uint32)
	SetShadowOffsetX(x float32)
	SetShadowOffsetY(y float32)
	SetBlurSigma(sigma float32)
	SetBackdropBlurSigma(sigma float32)
	SetBackdropBlurStyle(style types.BlurStyle)
}

// Caller reports the privileges of the calling process.
type Caller interface {
	IsSystemCalling() bool
	IsStartByHdcd() bool
}

// StaticCaller is a Caller with fixed answers.
type StaticCaller struct {
	System bool
	Hdcd   bool
}

func (c StaticCaller) IsSystemCalling() bool { return c.System }
func (c StaticCaller) IsStartByHdcd() bool   { return c.Hdcd }

// DisplayProvider supplies display geometry for layout decisions.
type DisplayProvider interface {
	GetDisplayByID(id uint64) (display.Display, error)
	GetDefaultDisplay() display.Display
}

// ChannelOpener opens the event channel a session receives input on.
type ChannelOpener interface {
	Open(handler ipc.EventHandler) (ipc.Endpoint, error)
	Close(token string)
}

// AbilityContext is the application context a window is created in.
type AbilityContext interface {
	Name() string
}

// SystemConfig is the device-level window configuration.
type SystemConfig struct {
	UIType            types.UIType      `json:"ui_type" toml:"ui_type" yaml:"ui_type"`
	DecorEnable       bool              `json:"decor_enable" toml:"decor_enable" yaml:"decor_enable"`
	DecorModeSupport  types.ModeSupport `json:"decor_mode_support" toml:"decor_mode_support" yaml:"decor_mode_support"`
	DefaultWindowMode types.WindowMode  `json:"default_window_mode" toml:"default_window_mode" yaml:"default_window_mode"`
	ModeSupport       types.ModeSupport `json:"mode_support" toml:"mode_support" yaml:"mode_support"`
}

// DefaultSystemConfig returns the phone configuration
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		UIType:            types.UITypePhone,
		DecorEnable:       false,
		DecorModeSupport:  types.ModeSupportFloating,
		DefaultWindowMode: types.ModeFullscreen,
		ModeSupport:       types.ModeSupportAll,
	}
}

const defaultAPICompatibleVersion = 12

// Option describes the window a session is created for.
type Option struct {
	Name                 string
	Type                 types.WindowType
	Mode                 types.WindowMode
	Rect                 types.Rect
	ParentID             int64
	DisplayID            uint64
	Flags                types.WindowFlag
	Limits               types.WindowLimits
	APICompatibleVersion uint32
	SystemBars           map[types.WindowType]types.SystemBarProperty
}

// Registry indexes live sessions by name and parent.
type Registry = registry.Registry[SceneSession]

var defaultRegistry = NewRegistry()

// NewRegistry returns an empty registry, mostly for tests.
func NewRegistry() *Registry {
	return registry.New[SceneSession]()
}

// DefaultRegistry returns the process-wide session registry
func DefaultRegistry() *Registry {
	return defaultRegistry
}

var defaultChannels = ipc.NewLocalChannels()

// Deps are the collaborators of a session. Zero fields get defaults.
type Deps struct {
	Registry       *Registry
	SessionManager SpecificSessionManager
	Displays       DisplayProvider
	Caller         Caller
	Channels       ChannelOpener
	Config         *SystemConfig
	Logger         *zap.Logger
	Metrics        *monitoring.Metrics
}

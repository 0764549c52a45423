// Package testutil provides mocks and fixtures for window session tests.
package testutil

import (
	"context"
	"slices"
	"testing"

	"github.com/GriffinCanCode/windowscene/internal/domain/display"
	"github.com/GriffinCanCode/windowscene/internal/domain/property"
	"github.com/GriffinCanCode/windowscene/internal/domain/window"
	"github.com/GriffinCanCode/windowscene/internal/ipc"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"github.com/stretchr/testify/mock"
)

// MockHostSession is a mock implementation of window.HostSession.
type MockHostSession struct {
	mock.Mock
}

var _ window.HostSession = (*MockHostSession)(nil)

func (m *MockHostSession) Connect(ctx context.Context, req window.ConnectRequest) (window.ConnectReply, error) {
	args := m.Called(ctx, req)
	if fn, ok := args.Get(0).(func(context.Context, window.ConnectRequest) (window.ConnectReply, error)); ok {
		return fn(ctx, req)
	}
	return args.Get(0).(window.ConnectReply), args.Error(1)
}

func (m *MockHostSession) Foreground(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockHostSession) Background(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockHostSession) Disconnect(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockHostSession) UpdateActiveStatus(ctx context.Context, active bool) error {
	return m.Called(ctx, active).Error(0)
}

func (m *MockHostSession) UpdateSessionRect(ctx context.Context, rect types.Rect, reason types.SizeChangeReason) error {
	return m.Called(ctx, rect, reason).Error(0)
}

func (m *MockHostSession) OnSessionEvent(ctx context.Context, event types.SessionEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockHostSession) SetAspectRatio(ctx context.Context, ratio float32) error {
	return m.Called(ctx, ratio).Error(0)
}

func (m *MockHostSession) GetAvoidAreaByType(ctx context.Context, typ types.AvoidAreaType) (types.AvoidArea, error) {
	args := m.Called(ctx, typ)
	return args.Get(0).(types.AvoidArea), args.Error(1)
}

func (m *MockHostSession) UpdateProperty(ctx context.Context, action property.Action, data property.Data) error {
	return m.Called(ctx, action, data).Error(0)
}

func (m *MockHostSession) OnNeedAvoid(ctx context.Context, status bool) error {
	return m.Called(ctx, status).Error(0)
}

func (m *MockHostSession) RaiseToAppTop(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockHostSession) RequestSessionBack(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockHostSession) SetGlobalMaximizeMode(ctx context.Context, mode types.MaximizeMode) error {
	return m.Called(ctx, mode).Error(0)
}

func (m *MockHostSession) GetGlobalMaximizeMode(ctx context.Context) (types.MaximizeMode, error) {
	args := m.Called(ctx)
	return args.Get(0).(types.MaximizeMode), args.Error(1)
}

func (m *MockHostSession) CreateAndConnectSpecificSession(ctx context.Context, req window.ConnectRequest) (window.SpecificSession, error) {
	args := m.Called(ctx, req)
	if fn, ok := args.Get(0).(func(context.Context, window.ConnectRequest) (window.SpecificSession, error)); ok {
		return fn(ctx, req)
	}
	return args.Get(0).(window.SpecificSession), args.Error(1)
}

func (m *MockHostSession) DestroyAndDisconnectSpecificSession(ctx context.Context, persistentID int64) error {
	return m.Called(ctx, persistentID).Error(0)
}

// NewMockHostSession creates a host session that accepts every call. It
// connects with persistentID and echoes the requested rect.
func NewMockHostSession(t *testing.T, persistentID int64) *MockHostSession {
	t.Helper()
	m := new(MockHostSession)

	m.On("Connect", mock.Anything, mock.Anything).
		Return(func(_ context.Context, req window.ConnectRequest) (window.ConnectReply, error) {
			return window.ConnectReply{PersistentID: persistentID, Rect: req.Property.RequestRect}, nil
		}).
		Maybe()

	for _, name := range []string{"Foreground", "Background", "Disconnect", "RaiseToAppTop", "RequestSessionBack"} {
		m.On(name, mock.Anything).Return(nil).Maybe()
	}
	for _, name := range []string{
		"UpdateActiveStatus", "OnSessionEvent", "SetAspectRatio", "OnNeedAvoid",
		"SetGlobalMaximizeMode", "DestroyAndDisconnectSpecificSession",
	} {
		m.On(name, mock.Anything, mock.Anything).Return(nil).Maybe()
	}
	m.On("UpdateSessionRect", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("UpdateProperty", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("GetAvoidAreaByType", mock.Anything, mock.Anything).Return(types.AvoidArea{}, nil).Maybe()
	m.On("GetGlobalMaximizeMode", mock.Anything).Return(types.MaximizeModeRecover, nil).Maybe()

	return m
}

// ExpectSpecificSession makes m create child sessions backed by child.
func ExpectSpecificSession(m *MockHostSession, persistentID int64, child window.HostSession) *mock.Call {
	return m.On("CreateAndConnectSpecificSession", mock.Anything, mock.Anything).
		Return(func(_ context.Context, req window.ConnectRequest) (window.SpecificSession, error) {
			return window.SpecificSession{
				PersistentID: persistentID,
				Session:      child,
				Rect:         req.Property.RequestRect,
			}, nil
		})
}

// MockUIContent is a mock implementation of window.UIContent.
type MockUIContent struct {
	mock.Mock
}

var _ window.UIContent = (*MockUIContent)(nil)

func (m *MockUIContent) SetIgnoreViewSafeArea(ignore bool) { m.Called(ignore) }

func (m *MockUIContent) ProcessKeyEvent(ev ipc.KeyEvent) bool {
	return m.Called(ev).Bool(0)
}

func (m *MockUIContent) ProcessPointerEvent(ev ipc.PointerEvent) { m.Called(ev) }

func (m *MockUIContent) ProcessBackPressed() bool {
	return m.Called().Bool(0)
}

func (m *MockUIContent) SetIsFocusActive(active bool) { m.Called(active) }

func (m *MockUIContent) UpdateViewportConfig(rect types.Rect, reason types.SizeChangeReason) {
	m.Called(rect, reason)
}

func (m *MockUIContent) SearchElementInfo(elementID int64, mode int32, baseParent int64) ([]ipc.AccessibilityElementInfo, error) {
	args := m.Called(elementID, mode, baseParent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ipc.AccessibilityElementInfo), args.Error(1)
}

func (m *MockUIContent) SearchElementInfoByText(elementID int64, text string, baseParent int64) ([]ipc.AccessibilityElementInfo, error) {
	args := m.Called(elementID, text, baseParent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ipc.AccessibilityElementInfo), args.Error(1)
}

func (m *MockUIContent) FindFocusedElementInfo(elementID int64, focusType int32, baseParent int64) (ipc.AccessibilityElementInfo, error) {
	args := m.Called(elementID, focusType, baseParent)
	return args.Get(0).(ipc.AccessibilityElementInfo), args.Error(1)
}

func (m *MockUIContent) FocusMoveSearch(elementID int64, direction int32, baseParent int64) (ipc.AccessibilityElementInfo, error) {
	args := m.Called(elementID, direction, baseParent)
	return args.Get(0).(ipc.AccessibilityElementInfo), args.Error(1)
}

func (m *MockUIContent) ExecuteAction(elementID int64, action int32, params map[string]string, baseParent int64) error {
	return m.Called(elementID, action, params, baseParent).Error(0)
}

// NewMockUIContent creates content that consumes nothing.
func NewMockUIContent(t *testing.T) *MockUIContent {
	t.Helper()
	m := new(MockUIContent)
	m.On("SetIgnoreViewSafeArea", mock.Anything).Maybe()
	m.On("ProcessKeyEvent", mock.Anything).Return(false).Maybe()
	m.On("ProcessPointerEvent", mock.Anything).Maybe()
	m.On("ProcessBackPressed").Return(false).Maybe()
	m.On("SetIsFocusActive", mock.Anything).Maybe()
	m.On("UpdateViewportConfig", mock.Anything, mock.Anything).Maybe()
	return m
}

// MockSurface is a mock implementation of window.Surface.
type MockSurface struct {
	mock.Mock
}

var _ window.Surface = (*MockSurface)(nil)

func (m *MockSurface) SetCornerRadius(radius float32)             { m.Called(radius) }
func (m *MockSurface) SetShadowRadius(radius float32)             { m.Called(radius) }
func (m *MockSurface) SetShadowColor(argb uint32)                 { m.Called(argb) }
func (m *MockSurface) SetShadowOffsetX(x float32)                 { m.Called(x) }
func (m *MockSurface) SetShadowOffsetY(y float32)                 { m.Called(y) }
func (m *MockSurface) SetBlurSigma(sigma float32)                 { m.Called(sigma) }
func (m *MockSurface) SetBackdropBlurSigma(sigma float32)         { m.Called(sigma) }
func (m *MockSurface) SetBackdropBlurStyle(style types.BlurStyle) { m.Called(style) }

// NewMockSurface creates a surface that accepts every effect.
func NewMockSurface(t *testing.T) *MockSurface {
	t.Helper()
	m := new(MockSurface)
	for _, name := range []string{
		"SetCornerRadius", "SetShadowRadius", "SetShadowColor", "SetShadowOffsetX",
		"SetShadowOffsetY", "SetBlurSigma", "SetBackdropBlurSigma", "SetBackdropBlurStyle",
	} {
		m.On(name, mock.Anything).Maybe()
	}
	return m
}

// StaticDisplays serves a fixed display list.
type StaticDisplays struct {
	Displays []display.Display
}

func (s StaticDisplays) GetDisplayByID(id uint64) (display.Display, error) {
	for _, d := range s.Displays {
		if d.ID == id {
			return d, nil
		}
	}
	return display.Display{}, types.ErrInvalidDisplay
}

func (s StaticDisplays) GetDefaultDisplay() display.Display {
	for _, d := range s.Displays {
		if d.Default {
			return d
		}
	}
	if len(s.Displays) > 0 {
		return s.Displays[0]
	}
	return display.Display{}
}

// PhoneDisplay returns a 1260x2720 portrait display at 3.5 vp.
func PhoneDisplay() display.Display {
	return display.Display{ID: 0, Name: "phone", Width: 1260, Height: 2720, VirtualPixelRatio: 3.5, DPI: 560, Default: true}
}

// PCDisplay returns a 2560x1600 landscape display at 2.0 vp.
func PCDisplay() display.Display {
	return display.Display{ID: 1, Name: "pc", Width: 2560, Height: 1600, VirtualPixelRatio: 2.0, DPI: 320, Default: true}
}

// NamedAbility is a fixed AbilityContext.
type NamedAbility string

func (a NamedAbility) Name() string { return string(a) }

// CreateTestSession builds an unconnected session with isolated registry
// and defaults for the collaborators deps leaves empty.
func CreateTestSession(t *testing.T, opt window.Option, deps window.Deps) *window.SceneSession {
	t.Helper()
	if deps.Registry == nil {
		deps.Registry = window.NewRegistry()
	}
	if deps.Displays == nil {
		deps.Displays = StaticDisplays{Displays: []display.Display{PhoneDisplay()}}
	}
	if deps.Channels == nil {
		deps.Channels = ipc.NewLocalChannels()
	}
	if opt.Name == "" {
		opt.Name = t.Name()
	}
	if opt.Type == 0 {
		opt.Type = types.WindowTypeAppMain
	}
	return window.NewSceneSession(opt, deps)
}

// Without drops the default expectations for methods so a test can
// register its own.
func (m *MockHostSession) Without(methods ...string) *MockHostSession {
	m.ExpectedCalls = slices.DeleteFunc(m.ExpectedCalls, func(c *mock.Call) bool {
		return slices.Contains(methods, c.Method)
	})
	return m
}

package window_test

import (
	"context"
	"testing"

	"github.com/GriffinCanCode/windowscene/internal/domain/window"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"github.com/GriffinCanCode/windowscene/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const ability = testutil.NamedAbility("com.example.app")

// newMain returns a created main window connected to a fresh mock host.
func newMain(t *testing.T, opt window.Option, deps window.Deps) (*window.SceneSession, *testutil.MockHostSession) {
	t.Helper()
	host := testutil.NewMockHostSession(t, 1)
	if opt.Type == 0 {
		opt.Type = types.WindowTypeAppMain
	}
	s := testutil.CreateTestSession(t, opt, deps)
	require.NoError(t, s.Create(context.Background(), ability, host))
	return s, host
}

// newSub creates a sub window under parent, backed by its own mock host.
func newSub(t *testing.T, parent *window.SceneSession, parentHost *testutil.MockHostSession, reg *window.Registry, id int64, name string) (*window.SceneSession, *testutil.MockHostSession) {
	t.Helper()
	childHost := testutil.NewMockHostSession(t, id)
	testutil.ExpectSpecificSession(parentHost, id, childHost).Once()

	s := testutil.CreateTestSession(t, window.Option{
		Name:     name,
		Type:     types.WindowTypeAppSub,
		ParentID: parent.GetPersistentID(),
		Rect:     types.Rect{Width: 200, Height: 100},
	}, window.Deps{Registry: reg})
	require.NoError(t, s.Create(context.Background(), ability, nil))
	return s, childHost
}

func TestCreateShowDestroyMainWindow(t *testing.T) {
	ctx := context.Background()
	reg := window.NewRegistry()
	host := testutil.NewMockHostSession(t, 7)

	s := testutil.CreateTestSession(t, window.Option{
		Name: "W1",
		Type: types.WindowTypeAppMain,
		Mode: types.ModeFloating,
	}, window.Deps{Registry: reg})
	assert.Equal(t, types.StateInitial, s.GetWindowState())

	require.NoError(t, s.Create(ctx, ability, host))
	assert.Equal(t, types.StateCreated, s.GetWindowState())
	assert.Equal(t, int64(7), s.GetPersistentID())
	assert.True(t, reg.Contains("W1"))

	require.NoError(t, s.Show(ctx, 0, false))
	assert.Equal(t, types.StateShown, s.GetWindowState())

	require.NoError(t, s.Destroy(ctx, true, true))
	assert.Equal(t, types.StateDestroyed, s.GetWindowState())
	assert.False(t, reg.Contains("W1"))
	host.AssertNotCalled(t, "DestroyAndDisconnectSpecificSession", mock.Anything, mock.Anything)
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	reg := window.NewRegistry()
	newMain(t, window.Option{Name: "dup"}, window.Deps{Registry: reg})

	second := testutil.CreateTestSession(t, window.Option{Name: "dup"}, window.Deps{Registry: reg})
	err := second.Create(context.Background(), ability, testutil.NewMockHostSession(t, 2))
	assert.ErrorIs(t, err, types.ErrRepeatOperation)
	assert.Equal(t, types.StateInitial, second.GetWindowState())
}

func TestCreateTwiceIsRepeatOperation(t *testing.T) {
	s, host := newMain(t, window.Option{}, window.Deps{})
	assert.ErrorIs(t, s.Create(context.Background(), ability, host), types.ErrRepeatOperation)
}

func TestCreateSubWindowWithUnknownParent(t *testing.T) {
	s := testutil.CreateTestSession(t, window.Option{
		Name:     "orphan",
		Type:     types.WindowTypeAppSub,
		ParentID: 99,
	}, window.Deps{})

	assert.ErrorIs(t, s.Create(context.Background(), ability, nil), types.ErrNullptr)
	assert.Equal(t, types.StateInitial, s.GetWindowState())
}

func TestCreateSystemWindow(t *testing.T) {
	manager := testutil.NewMockHostSession(t, 0)
	testutil.ExpectSpecificSession(manager, 30, testutil.NewMockHostSession(t, 30)).Once()

	s := testutil.CreateTestSession(t, window.Option{Type: types.WindowTypeFloat}, window.Deps{SessionManager: manager})
	require.NoError(t, s.Create(context.Background(), ability, nil))
	assert.Equal(t, int64(30), s.GetPersistentID())

	require.NoError(t, s.Destroy(context.Background(), true, false))
	manager.AssertCalled(t, "DestroyAndDisconnectSpecificSession", mock.Anything, int64(30))
}

func TestCreateSystemWindowTypeNotAllowed(t *testing.T) {
	s := testutil.CreateTestSession(t, window.Option{Type: types.WindowTypeKeyguard}, window.Deps{
		SessionManager: testutil.NewMockHostSession(t, 0),
	})
	assert.ErrorIs(t, s.Create(context.Background(), ability, nil), types.ErrInvalidType)
}

func TestCreateMapsRemoteError(t *testing.T) {
	host := testutil.NewMockHostSession(t, 1).Without("Connect")
	host.On("Connect", mock.Anything, mock.Anything).Return(window.ConnectReply{}, types.WSErrInvalidSession)

	s := testutil.CreateTestSession(t, window.Option{}, window.Deps{})
	assert.ErrorIs(t, s.Create(context.Background(), ability, host), types.ErrInvalidSession)
	assert.Equal(t, types.StateInitial, s.GetWindowState())
}

func TestCreateAppliesDefaultMode(t *testing.T) {
	s, _ := newMain(t, window.Option{}, window.Deps{})
	assert.Equal(t, types.ModeFullscreen, s.GetMode())
}

func TestShowAndHideAreIdempotent(t *testing.T) {
	ctx := context.Background()
	s, host := newMain(t, window.Option{}, window.Deps{})

	foreground, background := 0, 0
	require.NoError(t, s.RegisterLifecycleListener(&window.LifecycleFuncs{
		OnForeground: func() { foreground++ },
		OnBackground: func() { background++ },
	}))

	require.NoError(t, s.Show(ctx, 0, false))
	require.NoError(t, s.Show(ctx, 0, false))
	host.AssertNumberOfCalls(t, "Foreground", 1)
	assert.Equal(t, 1, foreground)

	require.NoError(t, s.Hide(ctx, 0, false, false))
	require.NoError(t, s.Hide(ctx, 0, false, false))
	host.AssertNumberOfCalls(t, "Background", 1)
	assert.Equal(t, 1, background)
	assert.Equal(t, types.StateHidden, s.GetWindowState())
}

func TestHideCreatedWindowIsNoop(t *testing.T) {
	s, host := newMain(t, window.Option{}, window.Deps{})
	require.NoError(t, s.Hide(context.Background(), 0, false, false))
	assert.Equal(t, types.StateCreated, s.GetWindowState())
	host.AssertNotCalled(t, "Background", mock.Anything)
}

func TestShowBeforeCreate(t *testing.T) {
	s := testutil.CreateTestSession(t, window.Option{}, window.Deps{})
	assert.ErrorIs(t, s.Show(context.Background(), 0, false), types.ErrInvalidWindow)
	assert.ErrorIs(t, s.Hide(context.Background(), 0, false, false), types.ErrInvalidWindow)
	assert.ErrorIs(t, s.Destroy(context.Background(), true, true), types.ErrInvalidWindow)
}

func TestShowForegroundFailure(t *testing.T) {
	ctx := context.Background()
	s, host := newMain(t, window.Option{}, window.Deps{})
	host.Without("Foreground").On("Foreground", mock.Anything).Return(types.WSErrInvalidSession)

	var failed error
	require.NoError(t, s.RegisterLifecycleListener(&window.LifecycleFuncs{
		OnForegroundFailed: func(err error) { failed = err },
	}))

	err := s.Show(ctx, 0, false)
	assert.ErrorIs(t, err, types.ErrInvalidSession)
	assert.ErrorIs(t, failed, types.ErrInvalidSession)
	assert.Equal(t, types.StateCreated, s.GetWindowState())
}

func TestDestroyedIsAbsorbing(t *testing.T) {
	ctx := context.Background()
	s, host := newMain(t, window.Option{}, window.Deps{})

	destroyed := 0
	require.NoError(t, s.RegisterLifecycleListener(&window.LifecycleFuncs{OnDestroyed: func() { destroyed++ }}))

	require.NoError(t, s.Destroy(ctx, true, false))
	require.NoError(t, s.Destroy(ctx, true, false))
	assert.Equal(t, 1, destroyed)

	assert.ErrorIs(t, s.Show(ctx, 0, false), types.ErrInvalidWindow)
	assert.ErrorIs(t, s.Hide(ctx, 0, false, false), types.ErrInvalidWindow)
	assert.ErrorIs(t, s.Create(ctx, ability, host), types.ErrInvalidWindow)
	assert.ErrorIs(t, s.MoveTo(ctx, 1, 1), types.ErrInvalidWindow)
	assert.ErrorIs(t, s.Resize(ctx, 10, 10), types.ErrInvalidWindow)
	assert.Equal(t, types.StateDestroyed, s.GetWindowState())
}

func TestDestroyedRejectsMutators(t *testing.T) {
	ctx := context.Background()
	s, host := newMain(t, window.Option{Mode: types.ModeFloating}, window.Deps{
		Caller: window.StaticCaller{System: true},
	})
	surface := testutil.NewMockSurface(t)
	require.NoError(t, s.SetSurface(surface))
	require.NoError(t, s.Show(ctx, 0, false))
	require.NoError(t, s.Destroy(ctx, true, false))
	host.Calls = nil

	tests := []struct {
		name string
		op   func() error
	}{
		{"SetSurface", func() error { return s.SetSurface(surface) }},
		{"SetUIContent", func() error { return s.SetUIContent(testutil.NewMockUIContent(t)) }},
		{"SetWindowLimits", func() error { return s.SetWindowLimits(types.WindowLimits{MaxWidth: 100, MaxHeight: 100}) }},
		{"SetAspectRatio", func() error { return s.SetAspectRatio(ctx, 1.5) }},
		{"ResetAspectRatio", func() error { return s.ResetAspectRatio(ctx) }},
		{"SetWindowMode", func() error { return s.SetWindowMode(ctx, types.ModeFullscreen) }},
		{"RaiseToAppTop", func() error { return s.RaiseToAppTop(ctx) }},
		{"UpdateRect", func() error { return s.UpdateRect(types.Rect{Width: 1, Height: 1}, types.ReasonResize) }},
		{"Maximize", func() error { return s.Maximize(ctx) }},
		{"MaximizeFloating", func() error { return s.MaximizeFloating(ctx) }},
		{"Recover", func() error { return s.Recover(ctx) }},
		{"Minimize", func() error { return s.Minimize(ctx) }},
		{"Close", func() error { return s.Close(ctx) }},
		{"StartMove", func() error { return s.StartMove(ctx) }},
		{"SetGlobalMaximizeMode", func() error { return s.SetGlobalMaximizeMode(ctx, types.MaximizeModeAvoidSystemBar) }},
		{"UpdateMaximizeMode", func() error { return s.UpdateMaximizeMode(types.MaximizeModeFullFill) }},
		{"SetSystemBarProperty", func() error {
			return s.SetSystemBarProperty(ctx, types.WindowTypeStatusBar, types.DefaultSystemBarProperty())
		}},
		{"SetLayoutFullScreen", func() error { return s.SetLayoutFullScreen(ctx, true) }},
		{"SetFullScreen", func() error { return s.SetFullScreen(ctx, true) }},
		{"AddWindowFlag", func() error { return s.AddWindowFlag(ctx, types.FlagNeedAvoid) }},
		{"SetFocusable", func() error { return s.SetFocusable(ctx, false) }},
		{"SetTouchable", func() error { return s.SetTouchable(ctx, false) }},
		{"DisableAppWindowDecor", func() error { return s.DisableAppWindowDecor(ctx) }},
		{"SetDecorHeight", func() error { return s.SetDecorHeight(40) }},
		{"SetCornerRadius", func() error { return s.SetCornerRadius(4) }},
		{"SetShadowRadius", func() error { return s.SetShadowRadius(4) }},
		{"SetShadowColor", func() error { return s.SetShadowColor("#FF0000") }},
		{"SetShadowOffsetX", func() error { return s.SetShadowOffsetX(1) }},
		{"SetShadowOffsetY", func() error { return s.SetShadowOffsetY(1) }},
		{"SetBlur", func() error { return s.SetBlur(2) }},
		{"SetBackdropBlur", func() error { return s.SetBackdropBlur(2) }},
		{"SetBackdropBlurStyle", func() error { return s.SetBackdropBlurStyle(types.BlurStyleThick) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.op(), types.ErrInvalidWindow)
		})
	}

	assert.Equal(t, types.StateDestroyed, s.GetWindowState())
	assert.Empty(t, host.Calls)
	assert.Empty(t, surface.Calls)
}

func TestDestroyClearsListeners(t *testing.T) {
	s, _ := newMain(t, window.Option{}, window.Deps{})

	calls := 0
	require.NoError(t, s.RegisterLifecycleListener(&window.LifecycleFuncs{OnDestroyed: func() { calls++ }}))
	require.NoError(t, s.RegisterBeforeDestroyCallback(func() { calls += 10 }))

	require.NoError(t, s.Destroy(context.Background(), false, true))
	// Before-destroy runs ahead of the clear; the destroyed listener is gone.
	assert.Equal(t, 10, calls)
}

func TestDestroyReturnsRPCErrorAfterTeardown(t *testing.T) {
	ctx := context.Background()
	reg := window.NewRegistry()
	parent, parentHost := newMain(t, window.Option{Name: "parent"}, window.Deps{Registry: reg})
	child, _ := newSub(t, parent, parentHost, reg, 2, "child")

	parentHost.Without("DestroyAndDisconnectSpecificSession").
		On("DestroyAndDisconnectSpecificSession", mock.Anything, int64(2)).
		Return(types.WSErrIPCFailed)

	assert.ErrorIs(t, child.Destroy(ctx, true, false), types.ErrIPCFailed)
	assert.Equal(t, types.StateDestroyed, child.GetWindowState())
	assert.False(t, reg.Contains("child"))
	assert.Empty(t, parent.SubWindows())
}

func TestSubWindowsFollowParent(t *testing.T) {
	ctx := context.Background()
	reg := window.NewRegistry()
	parent, parentHost := newMain(t, window.Option{Name: "parent"}, window.Deps{Registry: reg})
	child, childHost := newSub(t, parent, parentHost, reg, 2, "child")

	foreground, background := 0, 0
	require.NoError(t, child.RegisterLifecycleListener(&window.LifecycleFuncs{
		OnForeground: func() { foreground++ },
		OnBackground: func() { background++ },
	}))

	require.NoError(t, parent.Show(ctx, 0, false))
	require.NoError(t, child.Show(ctx, 0, false))
	assert.Equal(t, 1, foreground)

	require.NoError(t, parent.Hide(ctx, 0, false, false))
	require.NoError(t, parent.Hide(ctx, 0, false, false))
	assert.Equal(t, types.StateHidden, child.GetWindowState())
	assert.Equal(t, 1, background)

	require.NoError(t, parent.Show(ctx, 0, false))
	assert.Equal(t, types.StateShown, child.GetWindowState())
	assert.Equal(t, 2, foreground)

	// The host drives sub windows itself; the cascade is local.
	childHost.AssertNumberOfCalls(t, "Foreground", 1)
	childHost.AssertNotCalled(t, "Background", mock.Anything)
}

func TestSubWindowHideDeactivatesFirst(t *testing.T) {
	ctx := context.Background()
	reg := window.NewRegistry()
	parent, parentHost := newMain(t, window.Option{Name: "parent"}, window.Deps{Registry: reg})
	child, childHost := newSub(t, parent, parentHost, reg, 2, "child")

	require.NoError(t, child.Show(ctx, 0, false))
	require.NoError(t, child.Hide(ctx, 0, false, true))

	childHost.AssertCalled(t, "UpdateActiveStatus", mock.Anything, false)
	childHost.AssertCalled(t, "Background", mock.Anything)
}

func TestDestroyCascadesToSubWindows(t *testing.T) {
	ctx := context.Background()
	reg := window.NewRegistry()
	parent, parentHost := newMain(t, window.Option{Name: "parent"}, window.Deps{Registry: reg})
	child, _ := newSub(t, parent, parentHost, reg, 2, "child")
	require.Len(t, parent.SubWindows(), 1)

	require.NoError(t, parent.Destroy(ctx, true, true))

	assert.Equal(t, types.StateDestroyed, child.GetWindowState())
	assert.False(t, reg.Contains("child"))
	assert.False(t, reg.Contains("parent"))
	assert.Zero(t, reg.Len())
	parentHost.AssertCalled(t, "DestroyAndDisconnectSpecificSession", mock.Anything, int64(2))
}

func TestStagedPropertyFlushedOnShow(t *testing.T) {
	ctx := context.Background()
	s, host := newMain(t, window.Option{}, window.Deps{})

	require.NoError(t, s.SetFocusable(ctx, false))
	host.AssertNotCalled(t, "UpdateProperty", mock.Anything, mock.Anything, mock.Anything)

	require.NoError(t, s.Show(ctx, 0, false))
	host.AssertNumberOfCalls(t, "UpdateProperty", 1)
	assert.False(t, s.GetProperty().Focusable)
}

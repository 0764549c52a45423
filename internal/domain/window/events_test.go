package window_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GriffinCanCode/windowscene/internal/domain/window"
	"github.com/GriffinCanCode/windowscene/internal/ipc"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"github.com/GriffinCanCode/windowscene/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var backUp = ipc.KeyEvent{KeyCode: ipc.KeyCodeBack, Action: ipc.KeyActionUp}

func TestUnconsumedBackKeyRequestsBack(t *testing.T) {
	s, host := newMain(t, window.Option{}, window.Deps{})
	require.NoError(t, s.SetUIContent(testutil.NewMockUIContent(t)))

	consumed, err := s.TransferKeyEventForConsumed(backUp)
	require.NoError(t, err)
	assert.False(t, consumed)
	host.AssertNumberOfCalls(t, "RequestSessionBack", 1)

	// Only the release of the back key counts.
	require.NoError(t, s.TransferKeyEvent(ipc.KeyEvent{KeyCode: ipc.KeyCodeBack, Action: ipc.KeyActionDown}))
	host.AssertNumberOfCalls(t, "RequestSessionBack", 1)
}

func TestConsumedBackKeyStaysLocal(t *testing.T) {
	s, host := newMain(t, window.Option{}, window.Deps{})
	ui := new(testutil.MockUIContent)
	ui.On("ProcessKeyEvent", backUp).Return(true).Once()
	require.NoError(t, s.SetUIContent(ui))

	consumed, err := s.TransferKeyEventForConsumed(backUp)
	require.NoError(t, err)
	assert.True(t, consumed)
	host.AssertNotCalled(t, "RequestSessionBack", mock.Anything)
	ui.AssertExpectations(t)
}

func TestBackPressed(t *testing.T) {
	s, host := newMain(t, window.Option{}, window.Deps{})

	require.NoError(t, s.TransferBackpressedEvent())
	host.AssertNumberOfCalls(t, "RequestSessionBack", 1)

	ui := new(testutil.MockUIContent)
	ui.On("ProcessBackPressed").Return(true)
	require.NoError(t, s.SetUIContent(ui))
	require.NoError(t, s.TransferBackpressedEvent())
	host.AssertNumberOfCalls(t, "RequestSessionBack", 1)
}

func TestPointerEventNeedsContent(t *testing.T) {
	s, _ := newMain(t, window.Option{}, window.Deps{})
	ev := ipc.PointerEvent{PointerID: 1, Action: ipc.PointerActionDown}

	assert.ErrorIs(t, s.TransferPointerEvent(ev), types.ErrNullptr)

	ui := testutil.NewMockUIContent(t)
	require.NoError(t, s.SetUIContent(ui))
	require.NoError(t, s.TransferPointerEvent(ev))
	ui.AssertCalled(t, "ProcessPointerEvent", ev)
}

func TestFocusStateNotifiesOnChange(t *testing.T) {
	s, _ := newMain(t, window.Option{}, window.Deps{})

	focused, unfocused := 0, 0
	require.NoError(t, s.RegisterLifecycleListener(&window.LifecycleFuncs{
		OnFocused:   func() { focused++ },
		OnUnfocused: func() { unfocused++ },
	}))

	require.NoError(t, s.TransferFocusStateEvent(true))
	require.NoError(t, s.TransferFocusStateEvent(true))
	assert.True(t, s.IsFocused())
	require.NoError(t, s.TransferFocusStateEvent(false))

	assert.Equal(t, 1, focused)
	assert.Equal(t, 1, unfocused)
}

func TestAccessibilityForwardedToContent(t *testing.T) {
	s, _ := newMain(t, window.Option{}, window.Deps{})
	_, err := s.TransferSearchElementInfo(1, 0, -1)
	assert.ErrorIs(t, err, types.ErrNullptr)

	infos := []ipc.AccessibilityElementInfo{{ElementID: 1, Text: "ok"}}
	ui := new(testutil.MockUIContent)
	ui.On("SearchElementInfo", int64(1), int32(0), int64(-1)).Return(infos, nil)
	ui.On("ExecuteAction", int64(1), int32(16), map[string]string{"k": "v"}, int64(-1)).Return(nil)
	require.NoError(t, s.SetUIContent(ui))

	got, err := s.TransferSearchElementInfo(1, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, infos, got)
	require.NoError(t, s.TransferExecuteAction(1, 16, map[string]string{"k": "v"}, -1))
}

func TestEventsThroughLocalChannel(t *testing.T) {
	channels := ipc.NewLocalChannels()
	s, host := newMain(t, window.Option{}, window.Deps{Channels: channels})
	ui := testutil.NewMockUIContent(t)
	require.NoError(t, s.SetUIContent(ui))

	token := connectedToken(t, host)
	remote, ok := channels.Remote(token)
	require.True(t, ok)

	proxy := ipc.NewProxy(remote)
	rect := types.Rect{X: 3, Y: 4, Width: 500, Height: 400}
	require.NoError(t, proxy.TransferUpdateRect(context.Background(), rect, types.ReasonRotation))
	assert.Equal(t, rect, s.GetRect())
	ui.AssertCalled(t, "UpdateViewportConfig", rect, types.ReasonRotation)

	require.NoError(t, s.Destroy(context.Background(), false, false))
	_, ok = channels.Remote(token)
	assert.False(t, ok)
}

// connectedToken returns the channel token the session sent on Connect.
func connectedToken(t *testing.T, host *testutil.MockHostSession) string {
	t.Helper()
	for _, c := range host.Calls {
		if c.Method == "Connect" {
			return c.Arguments.Get(1).(window.ConnectRequest).Channel.Token
		}
	}
	t.Fatal("Connect was not called")
	return ""
}

func TestNoInteractionListenerFiresOncePerIdlePeriod(t *testing.T) {
	s, _ := newMain(t, window.Option{}, window.Deps{})
	require.NoError(t, s.SetUIContent(testutil.NewMockUIContent(t)))

	var fired atomic.Int32
	unregister, err := s.RegisterNoInteractionListener(30*time.Millisecond, func() { fired.Add(1) })
	require.NoError(t, err)
	defer unregister()

	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())

	require.NoError(t, s.TransferPointerEvent(ipc.PointerEvent{Action: ipc.PointerActionDown}))
	require.Eventually(t, func() bool { return fired.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestNoInteractionListenerStopsOnDestroy(t *testing.T) {
	s, _ := newMain(t, window.Option{}, window.Deps{})

	var fired atomic.Int32
	_, err := s.RegisterNoInteractionListener(50*time.Millisecond, func() { fired.Add(1) })
	require.NoError(t, err)

	require.NoError(t, s.Destroy(context.Background(), false, false))
	time.Sleep(120 * time.Millisecond)
	assert.Zero(t, fired.Load())

	_, err = s.RegisterNoInteractionListener(time.Second, func() {})
	assert.ErrorIs(t, err, types.ErrInvalidWindow)
}

func TestNoInteractionListenerValidation(t *testing.T) {
	s, _ := newMain(t, window.Option{}, window.Deps{})

	_, err := s.RegisterNoInteractionListener(0, func() {})
	assert.ErrorIs(t, err, types.ErrInvalidParam)
	_, err = s.RegisterNoInteractionListener(time.Second, nil)
	assert.ErrorIs(t, err, types.ErrNullptr)
}

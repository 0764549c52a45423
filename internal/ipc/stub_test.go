package ipc

import (
	"context"
	"testing"

	"github.com/GriffinCanCode/windowscene/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockHandler struct {
	mock.Mock
}

func (m *mockHandler) TransferKeyEvent(ev KeyEvent) error {
	return m.Called(ev).Error(0)
}

func (m *mockHandler) TransferKeyEventForConsumed(ev KeyEvent) (bool, error) {
	args := m.Called(ev)
	return args.Bool(0), args.Error(1)
}

func (m *mockHandler) TransferPointerEvent(ev PointerEvent) error {
	return m.Called(ev).Error(0)
}

func (m *mockHandler) TransferFocusActiveEvent(active bool) error {
	return m.Called(active).Error(0)
}

func (m *mockHandler) TransferFocusStateEvent(focused bool) error {
	return m.Called(focused).Error(0)
}

func (m *mockHandler) TransferBackpressedEvent() error {
	return m.Called().Error(0)
}

func (m *mockHandler) TransferSearchElementInfo(elementID int64, mode int32, baseParent int64) ([]AccessibilityElementInfo, error) {
	args := m.Called(elementID, mode, baseParent)
	infos, _ := args.Get(0).([]AccessibilityElementInfo)
	return infos, args.Error(1)
}

func (m *mockHandler) TransferSearchElementInfoByText(elementID int64, text string, baseParent int64) ([]AccessibilityElementInfo, error) {
	args := m.Called(elementID, text, baseParent)
	infos, _ := args.Get(0).([]AccessibilityElementInfo)
	return infos, args.Error(1)
}

func (m *mockHandler) TransferFindFocusedElementInfo(elementID int64, focusType int32, baseParent int64) (AccessibilityElementInfo, error) {
	args := m.Called(elementID, focusType, baseParent)
	return args.Get(0).(AccessibilityElementInfo), args.Error(1)
}

func (m *mockHandler) TransferFocusMoveSearch(elementID int64, direction int32, baseParent int64) (AccessibilityElementInfo, error) {
	args := m.Called(elementID, direction, baseParent)
	return args.Get(0).(AccessibilityElementInfo), args.Error(1)
}

func (m *mockHandler) TransferExecuteAction(elementID int64, action int32, a map[string]string, baseParent int64) error {
	return m.Called(elementID, action, a, baseParent).Error(0)
}

func (m *mockHandler) TransferUpdateRect(rect types.Rect, reason types.SizeChangeReason) error {
	return m.Called(rect, reason).Error(0)
}

func newLocalProxy(h EventHandler) *Proxy {
	return NewProxy(LocalRemote{Stub: NewStub(h)})
}

func TestProxyKeyEventRoundTrip(t *testing.T) {
	h := new(mockHandler)
	ev := KeyEvent{KeyCode: KeyCodeBack, Action: KeyActionUp, ActionTime: 99}
	h.On("TransferKeyEvent", ev).Return(nil).Once()
	h.On("TransferKeyEventForConsumed", ev).Return(true, nil).Once()

	p := newLocalProxy(h)
	require.NoError(t, p.TransferKeyEvent(context.Background(), ev))

	consumed, err := p.TransferKeyEventForConsumed(context.Background(), ev)
	require.NoError(t, err)
	assert.True(t, consumed)
	h.AssertExpectations(t)
}

func TestProxyHandlerStatusIsReturned(t *testing.T) {
	h := new(mockHandler)
	h.On("TransferPointerEvent", mock.Anything).Return(types.ErrInvalidWindow)
	h.On("TransferBackpressedEvent").Return(nil)
	h.On("TransferFocusStateEvent", true).Return(nil)
	h.On("TransferFocusActiveEvent", false).Return(types.ErrNullptr)

	p := newLocalProxy(h)
	ctx := context.Background()

	assert.ErrorIs(t, p.TransferPointerEvent(ctx, PointerEvent{Action: PointerActionDown}), types.ErrInvalidWindow)
	assert.NoError(t, p.TransferBackpressedEvent(ctx))
	assert.NoError(t, p.TransferFocusStateEvent(ctx, true))
	assert.ErrorIs(t, p.TransferFocusActiveEvent(ctx, false), types.ErrNullptr)
}

func TestProxyAccessibility(t *testing.T) {
	h := new(mockHandler)
	infos := []AccessibilityElementInfo{
		{ElementID: 1, WindowID: 3, ComponentType: "Button", Text: "OK", Children: []int64{4, 5}},
		{ElementID: 2, Rect: types.Rect{X: 1, Y: 2, Width: 3, Height: 4}, Focused: true},
	}
	h.On("TransferSearchElementInfo", int64(1), int32(2), int64(3)).Return(infos, nil)
	h.On("TransferSearchElementInfoByText", int64(1), "OK", int64(0)).Return(infos[:1], nil)
	h.On("TransferFindFocusedElementInfo", int64(0), int32(1), int64(0)).Return(infos[1], nil)
	h.On("TransferFocusMoveSearch", int64(2), int32(4), int64(0)).Return(AccessibilityElementInfo{}, types.ErrInvalidParam)
	h.On("TransferExecuteAction", int64(1), int32(16), map[string]string{"a": "1", "b": "2"}, int64(0)).Return(nil)

	p := newLocalProxy(h)
	ctx := context.Background()

	got, err := p.TransferSearchElementInfo(ctx, 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, infos, got)

	got, err = p.TransferSearchElementInfoByText(ctx, 1, "OK", 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	focused, err := p.TransferFindFocusedElementInfo(ctx, 0, 1, 0)
	require.NoError(t, err)
	assert.True(t, focused.Focused)

	_, err = p.TransferFocusMoveSearch(ctx, 2, 4, 0)
	assert.ErrorIs(t, err, types.ErrInvalidParam)

	assert.NoError(t, p.TransferExecuteAction(ctx, 1, 16, map[string]string{"b": "2", "a": "1"}, 0))
	h.AssertExpectations(t)
}

func TestProxyUpdateRect(t *testing.T) {
	h := new(mockHandler)
	rect := types.Rect{X: 10, Y: 20, Width: 300, Height: 400}
	h.On("TransferUpdateRect", rect, types.ReasonDragStart).Return(nil)

	require.NoError(t, newLocalProxy(h).TransferUpdateRect(context.Background(), rect, types.ReasonDragStart))
	h.AssertExpectations(t)
}

func TestStubShortPayloads(t *testing.T) {
	h := new(mockHandler)
	stub := NewStub(h)

	codes := []Code{
		TransKeyEvent, TransKeyEventForConsumed, TransPointerEvent,
		TransFocusActiveEvent, TransFocusStateEvent, TransSearchElementInfo,
		TransSearchElementInfoByText, TransFindFocusedElementInfo,
		TransFocusMoveSearch, TransExecuteAction, TransUpdateRect,
	}
	for _, code := range codes {
		t.Run(code.String(), func(t *testing.T) {
			data := NewParcel()
			data.WriteInterfaceToken(InterfaceToken)

			rc := stub.OnRemoteRequest(uint32(code), ParcelFrom(data.Bytes()), NewParcel())
			assert.Equal(t, ErrInvalidData, rc)
		})
	}
	h.AssertNotCalled(t, "TransferKeyEvent", mock.Anything)
}

func TestStubSearchElementInfoTriplet(t *testing.T) {
	h := new(mockHandler)
	h.On("TransferSearchElementInfo", int64(5), int32(1), int64(0)).Return([]AccessibilityElementInfo(nil), nil)
	stub := NewStub(h)

	data := NewParcel()
	data.WriteInterfaceToken(InterfaceToken)
	data.WriteInt64(5)
	data.WriteInt32(1)
	data.WriteInt64(0)
	reply := NewParcel()

	require.Equal(t, ErrNone, stub.OnRemoteRequest(uint32(TransSearchElementInfo), ParcelFrom(data.Bytes()), reply))

	r := ParcelFrom(reply.Bytes())
	n, err := r.ReadInt32()
	require.NoError(t, err)
	assert.Zero(t, n)
	status, err := r.ReadInt32()
	require.NoError(t, err)
	assert.Zero(t, status)
}

func TestStubExecuteActionMismatchedVectors(t *testing.T) {
	stub := NewStub(new(mockHandler))

	data := NewParcel()
	data.WriteInterfaceToken(InterfaceToken)
	data.WriteInt64(1)
	data.WriteInt32(2)
	data.WriteStringVector([]string{"k1", "k2"})
	data.WriteStringVector([]string{"v1"})
	data.WriteInt64(0)

	assert.Equal(t, ErrInvalidData, stub.OnRemoteRequest(uint32(TransExecuteAction), ParcelFrom(data.Bytes()), NewParcel()))
}

func TestStubUnknownCodeAndToken(t *testing.T) {
	m := monitoring.NewMetrics()
	stub := NewStub(new(mockHandler), WithStubMetrics(m))

	data := NewParcel()
	data.WriteInterfaceToken(InterfaceToken)
	assert.Equal(t, ErrUnknownTransaction, stub.OnRemoteRequest(999, ParcelFrom(data.Bytes()), NewParcel()))

	bad := NewParcel()
	bad.WriteInterfaceToken("someone.else")
	assert.Equal(t, ErrTransactionFailed, stub.OnRemoteRequest(uint32(TransBackpressedEvent), ParcelFrom(bad.Bytes()), NewParcel()))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsDispatched.WithLabelValues("unknown", "1")))
}

func TestProxyTransportFailureIsIPCFailed(t *testing.T) {
	p := NewProxy(LocalRemote{Stub: NewStub(new(mockHandler))})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.TransferBackpressedEvent(ctx), types.ErrIPCFailed)

	assert.ErrorIs(t, NewProxy(nil).TransferBackpressedEvent(context.Background()), types.ErrIPCFailed)
}

func TestLocalChannels(t *testing.T) {
	h := new(mockHandler)
	h.On("TransferBackpressedEvent").Return(nil).Once()
	ch := NewLocalChannels()

	ep, err := ch.Open(h)
	require.NoError(t, err)
	assert.Empty(t, ep.URL)
	assert.Equal(t, 1, ch.Len())

	remote, ok := ch.Remote(ep.Token)
	require.True(t, ok)
	require.NoError(t, NewProxy(remote).TransferBackpressedEvent(context.Background()))

	ch.Close(ep.Token)
	_, ok = ch.Remote(ep.Token)
	assert.False(t, ok)
	h.AssertExpectations(t)
}

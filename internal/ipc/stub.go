package ipc

import (
	"errors"

	"github.com/GriffinCanCode/windowscene/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"go.uber.org/zap"
)

// InterfaceToken is the descriptor every request must start with.
const InterfaceToken = "windowscene.IWindowEventChannel"

// Code is an event channel opcode.
type Code uint32

const (
	TransKeyEvent Code = iota + 1
	TransKeyEventForConsumed
	TransPointerEvent
	TransFocusActiveEvent
	TransFocusStateEvent
	TransBackpressedEvent
	TransSearchElementInfo
	TransSearchElementInfoByText
	TransFindFocusedElementInfo
	TransFocusMoveSearch
	TransExecuteAction
	TransUpdateRect
)

var codeNames = map[Code]string{
	TransKeyEvent:                "key_event",
	TransKeyEventForConsumed:     "key_event_for_consumed",
	TransPointerEvent:            "pointer_event",
	TransFocusActiveEvent:        "focus_active_event",
	TransFocusStateEvent:         "focus_state_event",
	TransBackpressedEvent:        "backpressed_event",
	TransSearchElementInfo:       "search_element_info",
	TransSearchElementInfoByText: "search_element_info_by_text",
	TransFindFocusedElementInfo:  "find_focused_element_info",
	TransFocusMoveSearch:         "focus_move_search",
	TransExecuteAction:           "execute_action",
	TransUpdateRect:              "update_rect",
}

// String returns the string representation of the opcode
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "unknown"
}

// Transport-level result codes returned by OnRemoteRequest.
const (
	ErrNone               int32 = 0
	ErrUnknownTransaction int32 = 1
	ErrTransactionFailed  int32 = 2
	ErrInvalidData        int32 = 5
)

// EventHandler receives the events pushed through the channel.
type EventHandler interface {
	TransferKeyEvent(ev KeyEvent) error
	TransferKeyEventForConsumed(ev KeyEvent) (bool, error)
	TransferPointerEvent(ev PointerEvent) error
	TransferFocusActiveEvent(active bool) error
	TransferFocusStateEvent(focused bool) error
	TransferBackpressedEvent() error
	TransferSearchElementInfo(elementID int64, mode int32, baseParent int64) ([]AccessibilityElementInfo, error)
	TransferSearchElementInfoByText(elementID int64, text string, baseParent int64) ([]AccessibilityElementInfo, error)
	TransferFindFocusedElementInfo(elementID int64, focusType int32, baseParent int64) (AccessibilityElementInfo, error)
	TransferFocusMoveSearch(elementID int64, direction int32, baseParent int64) (AccessibilityElementInfo, error)
	TransferExecuteAction(elementID int64, action int32, args map[string]string, baseParent int64) error
	TransferUpdateRect(rect types.Rect, reason types.SizeChangeReason) error
}

// Stub decodes requests and dispatches them to an EventHandler.
type Stub struct {
	handler EventHandler
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// StubOption configures a Stub
type StubOption func(*Stub)

// WithStubLogger attaches a logger
func WithStubLogger(l *zap.Logger) StubOption {
	return func(s *Stub) { s.logger = l }
}

// WithStubMetrics attaches a metrics collector
func WithStubMetrics(m *monitoring.Metrics) StubOption {
	return func(s *Stub) { s.metrics = m }
}

// NewStub creates a stub for handler
func NewStub(handler EventHandler, opts ...StubOption) *Stub {
	s := &Stub{handler: handler, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnRemoteRequest handles one request. The reply carries the handler's
// out-values followed by its status code.
func (s *Stub) OnRemoteRequest(code uint32, data, reply *Parcel) int32 {
	rc := s.dispatch(Code(code), data, reply)
	if s.metrics != nil {
		s.metrics.RecordEvent(Code(code).String(), rc)
	}
	return rc
}

func (s *Stub) dispatch(code Code, data, reply *Parcel) int32 {
	token, err := data.ReadInterfaceToken()
	if err != nil || token != InterfaceToken {
		s.logger.Warn("Event channel token mismatch", zap.Stringer("code", code))
		return ErrTransactionFailed
	}

	switch code {
	case TransKeyEvent:
		return s.handleKeyEvent(data, reply)
	case TransKeyEventForConsumed:
		return s.handleKeyEventForConsumed(data, reply)
	case TransPointerEvent:
		return s.handlePointerEvent(data, reply)
	case TransFocusActiveEvent:
		return s.handleBoolEvent(data, reply, s.handler.TransferFocusActiveEvent)
	case TransFocusStateEvent:
		return s.handleBoolEvent(data, reply, s.handler.TransferFocusStateEvent)
	case TransBackpressedEvent:
		writeStatus(reply, s.handler.TransferBackpressedEvent())
		return ErrNone
	case TransSearchElementInfo:
		return s.handleSearchElementInfo(data, reply)
	case TransSearchElementInfoByText:
		return s.handleSearchElementInfoByText(data, reply)
	case TransFindFocusedElementInfo:
		return s.handleSingleElement(data, reply, s.handler.TransferFindFocusedElementInfo)
	case TransFocusMoveSearch:
		return s.handleSingleElement(data, reply, s.handler.TransferFocusMoveSearch)
	case TransExecuteAction:
		return s.handleExecuteAction(data, reply)
	case TransUpdateRect:
		return s.handleUpdateRect(data, reply)
	default:
		s.logger.Debug("Unhandled event channel code", zap.Uint32("code", uint32(code)))
		return ErrUnknownTransaction
	}
}

func writeStatus(reply *Parcel, err error) {
	reply.WriteInt32(int32(types.Code(err)))
}

func statusError(code int32) error {
	if code == 0 {
		return nil
	}
	return types.WMError(code)
}

func (s *Stub) handleKeyEvent(data, reply *Parcel) int32 {
	ev, err := readKeyEvent(data)
	if err != nil {
		return ErrInvalidData
	}
	writeStatus(reply, s.handler.TransferKeyEvent(ev))
	return ErrNone
}

func (s *Stub) handleKeyEventForConsumed(data, reply *Parcel) int32 {
	ev, err := readKeyEvent(data)
	if err != nil {
		return ErrInvalidData
	}
	consumed, err := s.handler.TransferKeyEventForConsumed(ev)
	reply.WriteBool(consumed)
	writeStatus(reply, err)
	return ErrNone
}

func (s *Stub) handlePointerEvent(data, reply *Parcel) int32 {
	ev, err := readPointerEvent(data)
	if err != nil {
		return ErrInvalidData
	}
	writeStatus(reply, s.handler.TransferPointerEvent(ev))
	return ErrNone
}

func (s *Stub) handleBoolEvent(data, reply *Parcel, fn func(bool) error) int32 {
	v, err := data.ReadBool()
	if err != nil {
		return ErrInvalidData
	}
	writeStatus(reply, fn(v))
	return ErrNone
}

func readTriplet(data *Parcel) (int64, int32, int64, error) {
	elementID, err := data.ReadInt64()
	if err != nil {
		return 0, 0, 0, err
	}
	mode, err := data.ReadInt32()
	if err != nil {
		return 0, 0, 0, err
	}
	baseParent, err := data.ReadInt64()
	if err != nil {
		return 0, 0, 0, err
	}
	return elementID, mode, baseParent, nil
}

func (s *Stub) handleSearchElementInfo(data, reply *Parcel) int32 {
	elementID, mode, baseParent, err := readTriplet(data)
	if err != nil {
		return ErrInvalidData
	}
	infos, err := s.handler.TransferSearchElementInfo(elementID, mode, baseParent)
	writeElementInfos(reply, infos)
	writeStatus(reply, err)
	return ErrNone
}

func (s *Stub) handleSearchElementInfoByText(data, reply *Parcel) int32 {
	elementID, err := data.ReadInt64()
	if err != nil {
		return ErrInvalidData
	}
	text, err := data.ReadString()
	if err != nil {
		return ErrInvalidData
	}
	baseParent, err := data.ReadInt64()
	if err != nil {
		return ErrInvalidData
	}
	infos, err := s.handler.TransferSearchElementInfoByText(elementID, text, baseParent)
	writeElementInfos(reply, infos)
	writeStatus(reply, err)
	return ErrNone
}

func (s *Stub) handleSingleElement(data, reply *Parcel, fn func(int64, int32, int64) (AccessibilityElementInfo, error)) int32 {
	elementID, mode, baseParent, err := readTriplet(data)
	if err != nil {
		return ErrInvalidData
	}
	info, err := fn(elementID, mode, baseParent)
	info.writeTo(reply)
	writeStatus(reply, err)
	return ErrNone
}

func (s *Stub) handleExecuteAction(data, reply *Parcel) int32 {
	elementID, err := data.ReadInt64()
	if err != nil {
		return ErrInvalidData
	}
	action, err := data.ReadInt32()
	if err != nil {
		return ErrInvalidData
	}
	keys, err := data.ReadStringVector()
	if err != nil {
		return ErrInvalidData
	}
	values, err := data.ReadStringVector()
	if err != nil || len(values) != len(keys) {
		return ErrInvalidData
	}
	baseParent, err := data.ReadInt64()
	if err != nil {
		return ErrInvalidData
	}

	args := make(map[string]string, len(keys))
	for i, k := range keys {
		args[k] = values[i]
	}
	writeStatus(reply, s.handler.TransferExecuteAction(elementID, action, args, baseParent))
	return ErrNone
}

func (s *Stub) handleUpdateRect(data, reply *Parcel) int32 {
	rect, err := readRect(data)
	if err != nil {
		return ErrInvalidData
	}
	reason, err := data.ReadUint32()
	if err != nil {
		return ErrInvalidData
	}
	writeStatus(reply, s.handler.TransferUpdateRect(rect, types.SizeChangeReason(reason)))
	return ErrNone
}

// transactionError wraps a non-zero transport code.
func transactionError(code Code, rc int32) error {
	return &TransactionError{Code: code, Result: rc}
}

// TransactionError reports a request the stub refused to handle.
type TransactionError struct {
	Code   Code
	Result int32
}

func (e *TransactionError) Error() string {
	return "ipc: transaction " + e.Code.String() + " failed with " + resultName(e.Result)
}

// Unwrap maps every transport failure to ErrIPCFailed
func (e *TransactionError) Unwrap() error {
	return types.ErrIPCFailed
}

func resultName(rc int32) string {
	switch rc {
	case ErrUnknownTransaction:
		return "unknown transaction"
	case ErrTransactionFailed:
		return "transaction failed"
	case ErrInvalidData:
		return "invalid data"
	default:
		return "error"
	}
}

// IsTransactionError reports whether err is a refused transaction with rc.
func IsTransactionError(err error, rc int32) bool {
	var te *TransactionError
	return errors.As(err, &te) && te.Result == rc
}

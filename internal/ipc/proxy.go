package ipc

import (
	"context"
	"fmt"
	"sort"

	"github.com/GriffinCanCode/windowscene/internal/shared/types"
)

// Remote sends one request and blocks until the reply arrives.
type Remote interface {
	SendRequest(ctx context.Context, code Code, data *Parcel) (*Parcel, error)
}

// Proxy is the sending side of an event channel, used by the host to push
// events into a client session. Every method blocks for the reply. Any
// marshalling or transport failure is reported as ErrIPCFailed; a non-zero
// status from the handler is returned as the matching WMError.
type Proxy struct {
	remote Remote
}

// NewProxy creates a proxy over remote
func NewProxy(remote Remote) *Proxy {
	return &Proxy{remote: remote}
}

func (p *Proxy) send(ctx context.Context, code Code, write func(*Parcel)) (*Parcel, error) {
	if p.remote == nil {
		return nil, types.ErrIPCFailed
	}
	data := NewParcel()
	data.WriteInterfaceToken(InterfaceToken)
	if write != nil {
		write(data)
	}

	reply, err := p.remote.SendRequest(ctx, code, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrIPCFailed, code, err)
	}
	return reply, nil
}

func readStatus(code Code, reply *Parcel) error {
	status, err := reply.ReadInt32()
	if err != nil {
		return fmt.Errorf("%w: %s: read status: %v", types.ErrIPCFailed, code, err)
	}
	return statusError(status)
}

func (p *Proxy) TransferKeyEvent(ctx context.Context, ev KeyEvent) error {
	reply, err := p.send(ctx, TransKeyEvent, ev.writeTo)
	if err != nil {
		return err
	}
	return readStatus(TransKeyEvent, reply)
}

func (p *Proxy) TransferKeyEventForConsumed(ctx context.Context, ev KeyEvent) (bool, error) {
	reply, err := p.send(ctx, TransKeyEventForConsumed, ev.writeTo)
	if err != nil {
		return false, err
	}
	consumed, err := reply.ReadBool()
	if err != nil {
		return false, fmt.Errorf("%w: read consumed: %v", types.ErrIPCFailed, err)
	}
	return consumed, readStatus(TransKeyEventForConsumed, reply)
}

func (p *Proxy) TransferPointerEvent(ctx context.Context, ev PointerEvent) error {
	reply, err := p.send(ctx, TransPointerEvent, ev.writeTo)
	if err != nil {
		return err
	}
	return readStatus(TransPointerEvent, reply)
}

func (p *Proxy) TransferFocusActiveEvent(ctx context.Context, active bool) error {
	reply, err := p.send(ctx, TransFocusActiveEvent, func(d *Parcel) { d.WriteBool(active) })
	if err != nil {
		return err
	}
	return readStatus(TransFocusActiveEvent, reply)
}

func (p *Proxy) TransferFocusStateEvent(ctx context.Context, focused bool) error {
	reply, err := p.send(ctx, TransFocusStateEvent, func(d *Parcel) { d.WriteBool(focused) })
	if err != nil {
		return err
	}
	return readStatus(TransFocusStateEvent, reply)
}

func (p *Proxy) TransferBackpressedEvent(ctx context.Context) error {
	reply, err := p.send(ctx, TransBackpressedEvent, nil)
	if err != nil {
		return err
	}
	return readStatus(TransBackpressedEvent, reply)
}

func writeTriplet(elementID int64, mode int32, baseParent int64) func(*Parcel) {
	return func(d *Parcel) {
		d.WriteInt64(elementID)
		d.WriteInt32(mode)
		d.WriteInt64(baseParent)
	}
}

func (p *Proxy) TransferSearchElementInfo(ctx context.Context, elementID int64, mode int32, baseParent int64) ([]AccessibilityElementInfo, error) {
	reply, err := p.send(ctx, TransSearchElementInfo, writeTriplet(elementID, mode, baseParent))
	if err != nil {
		return nil, err
	}
	infos, err := readElementInfos(reply)
	if err != nil {
		return nil, fmt.Errorf("%w: read element infos: %v", types.ErrIPCFailed, err)
	}
	return infos, readStatus(TransSearchElementInfo, reply)
}

func (p *Proxy) TransferSearchElementInfoByText(ctx context.Context, elementID int64, text string, baseParent int64) ([]AccessibilityElementInfo, error) {
	reply, err := p.send(ctx, TransSearchElementInfoByText, func(d *Parcel) {
		d.WriteInt64(elementID)
		d.WriteString(text)
		d.WriteInt64(baseParent)
	})
	if err != nil {
		return nil, err
	}
	infos, err := readElementInfos(reply)
	if err != nil {
		return nil, fmt.Errorf("%w: read element infos: %v", types.ErrIPCFailed, err)
	}
	return infos, readStatus(TransSearchElementInfoByText, reply)
}

func (p *Proxy) singleElement(ctx context.Context, code Code, elementID int64, mode int32, baseParent int64) (AccessibilityElementInfo, error) {
	reply, err := p.send(ctx, code, writeTriplet(elementID, mode, baseParent))
	if err != nil {
		return AccessibilityElementInfo{}, err
	}
	info, err := readElementInfo(reply)
	if err != nil {
		return AccessibilityElementInfo{}, fmt.Errorf("%w: read element info: %v", types.ErrIPCFailed, err)
	}
	return info, readStatus(code, reply)
}

func (p *Proxy) TransferFindFocusedElementInfo(ctx context.Context, elementID int64, focusType int32, baseParent int64) (AccessibilityElementInfo, error) {
	return p.singleElement(ctx, TransFindFocusedElementInfo, elementID, focusType, baseParent)
}

func (p *Proxy) TransferFocusMoveSearch(ctx context.Context, elementID int64, direction int32, baseParent int64) (AccessibilityElementInfo, error) {
	return p.singleElement(ctx, TransFocusMoveSearch, elementID, direction, baseParent)
}

func (p *Proxy) TransferExecuteAction(ctx context.Context, elementID int64, action int32, args map[string]string, baseParent int64) error {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = args[k]
	}

	reply, err := p.send(ctx, TransExecuteAction, func(d *Parcel) {
		d.WriteInt64(elementID)
		d.WriteInt32(action)
		d.WriteStringVector(keys)
		d.WriteStringVector(values)
		d.WriteInt64(baseParent)
	})
	if err != nil {
		return err
	}
	return readStatus(TransExecuteAction, reply)
}

func (p *Proxy) TransferUpdateRect(ctx context.Context, rect types.Rect, reason types.SizeChangeReason) error {
	reply, err := p.send(ctx, TransUpdateRect, func(d *Parcel) {
		writeRect(d, rect)
		d.WriteUint32(uint32(reason))
	})
	if err != nil {
		return err
	}
	return readStatus(TransUpdateRect, reply)
}

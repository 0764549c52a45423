package ipc

import (
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
)

const (
	KeyCodeBack int32 = 2

	KeyActionCancel int32 = 1
	KeyActionDown   int32 = 2
	KeyActionUp     int32 = 3

	PointerActionCancel int32 = 1
	PointerActionDown   int32 = 2
	PointerActionMove   int32 = 3
	PointerActionUp     int32 = 4
)

// KeyEvent is a key press delivered by the host.
type KeyEvent struct {
	KeyCode    int32
	Action     int32
	DeviceID   int32
	ActionTime int64
}

// IsBackKeyUp reports whether the event releases the back key.
func (e KeyEvent) IsBackKeyUp() bool {
	return e.KeyCode == KeyCodeBack && e.Action == KeyActionUp
}

func (e KeyEvent) writeTo(p *Parcel) {
	p.WriteInt32(e.KeyCode)
	p.WriteInt32(e.Action)
	p.WriteInt32(e.DeviceID)
	p.WriteInt64(e.ActionTime)
}

func readKeyEvent(p *Parcel) (KeyEvent, error) {
	var (
		e   KeyEvent
		err error
	)
	if e.KeyCode, err = p.ReadInt32(); err != nil {
		return e, err
	}
	if e.Action, err = p.ReadInt32(); err != nil {
		return e, err
	}
	if e.DeviceID, err = p.ReadInt32(); err != nil {
		return e, err
	}
	e.ActionTime, err = p.ReadInt64()
	return e, err
}

// PointerEvent is a touch or mouse event in display coordinates.
type PointerEvent struct {
	PointerID  int32
	Action     int32
	SourceType int32
	DisplayX   int32
	DisplayY   int32
	ActionTime int64
}

func (e PointerEvent) writeTo(p *Parcel) {
	p.WriteInt32(e.PointerID)
	p.WriteInt32(e.Action)
	p.WriteInt32(e.SourceType)
	p.WriteInt32(e.DisplayX)
	p.WriteInt32(e.DisplayY)
	p.WriteInt64(e.ActionTime)
}

func readPointerEvent(p *Parcel) (PointerEvent, error) {
	var (
		e   PointerEvent
		err error
	)
	fields := []*int32{&e.PointerID, &e.Action, &e.SourceType, &e.DisplayX, &e.DisplayY}
	for _, f := range fields {
		if *f, err = p.ReadInt32(); err != nil {
			return e, err
		}
	}
	e.ActionTime, err = p.ReadInt64()
	return e, err
}

// AccessibilityElementInfo describes one node of the accessibility tree.
type AccessibilityElementInfo struct {
	ElementID     int64
	ParentID      int64
	WindowID      int32
	ComponentType string
	Text          string
	Rect          types.Rect
	Focused       bool
	Children      []int64
}

func (e AccessibilityElementInfo) writeTo(p *Parcel) {
	p.WriteInt64(e.ElementID)
	p.WriteInt64(e.ParentID)
	p.WriteInt32(e.WindowID)
	p.WriteString(e.ComponentType)
	p.WriteString(e.Text)
	writeRect(p, e.Rect)
	p.WriteBool(e.Focused)
	p.WriteInt32(int32(len(e.Children)))
	for _, c := range e.Children {
		p.WriteInt64(c)
	}
}

func readElementInfo(p *Parcel) (AccessibilityElementInfo, error) {
	var (
		e   AccessibilityElementInfo
		err error
	)
	if e.ElementID, err = p.ReadInt64(); err != nil {
		return e, err
	}
	if e.ParentID, err = p.ReadInt64(); err != nil {
		return e, err
	}
	if e.WindowID, err = p.ReadInt32(); err != nil {
		return e, err
	}
	if e.ComponentType, err = p.ReadString(); err != nil {
		return e, err
	}
	if e.Text, err = p.ReadString(); err != nil {
		return e, err
	}
	if e.Rect, err = readRect(p); err != nil {
		return e, err
	}
	if e.Focused, err = p.ReadBool(); err != nil {
		return e, err
	}
	n, err := p.ReadInt32()
	if err != nil {
		return e, err
	}
	if n < 0 || n > maxVectorSize {
		return e, ErrTooLarge
	}
	for i := int32(0); i < n; i++ {
		c, err := p.ReadInt64()
		if err != nil {
			return e, err
		}
		e.Children = append(e.Children, c)
	}
	return e, nil
}

func writeElementInfos(p *Parcel, infos []AccessibilityElementInfo) {
	p.WriteInt32(int32(len(infos)))
	for _, info := range infos {
		info.writeTo(p)
	}
}

func readElementInfos(p *Parcel) ([]AccessibilityElementInfo, error) {
	n, err := p.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 || n > maxVectorSize {
		return nil, ErrTooLarge
	}
	out := make([]AccessibilityElementInfo, 0, n)
	for i := int32(0); i < n; i++ {
		info, err := readElementInfo(p)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

func writeRect(p *Parcel, r types.Rect) {
	p.WriteInt32(r.X)
	p.WriteInt32(r.Y)
	p.WriteUint32(r.Width)
	p.WriteUint32(r.Height)
}

func readRect(p *Parcel) (types.Rect, error) {
	var (
		r   types.Rect
		err error
	)
	if r.X, err = p.ReadInt32(); err != nil {
		return r, err
	}
	if r.Y, err = p.ReadInt32(); err != nil {
		return r, err
	}
	if r.Width, err = p.ReadUint32(); err != nil {
		return r, err
	}
	r.Height, err = p.ReadUint32()
	return r, err
}

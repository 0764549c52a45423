package property

import (
	"fmt"
	"sync"

	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"github.com/bytedance/sonic"
)

// Action is a bitset naming which part of a property a sync carries.
type Action uint32

const (
	ActionUpdateRect Action = 1 << iota
	ActionUpdateMode
	ActionUpdateFlags
	ActionUpdateOtherProps
	ActionUpdateMaximizeState
	ActionUpdateDecorEnable
	ActionUpdateFocusable
	ActionUpdateTouchable
	ActionUpdateAspectRatio
)

// Data is the serializable view of a window property.
type Data struct {
	PersistentID         int64                                        `json:"persistent_id"`
	ParentPersistentID   int64                                        `json:"parent_persistent_id"`
	WindowName           string                                       `json:"window_name"`
	WindowType           types.WindowType                             `json:"window_type"`
	WindowMode           types.WindowMode                             `json:"window_mode"`
	RequestRect          types.Rect                                   `json:"request_rect"`
	WindowRect           types.Rect                                   `json:"window_rect"`
	WindowLimits         types.WindowLimits                           `json:"window_limits"`
	UserLimits           types.WindowLimits                           `json:"user_limits"`
	MaximizeMode         types.MaximizeMode                           `json:"maximize_mode"`
	DisplayID            uint64                                       `json:"display_id"`
	Flags                types.WindowFlag                             `json:"flags"`
	SystemBars           map[types.WindowType]types.SystemBarProperty `json:"system_bars"`
	Focusable            bool                                         `json:"focusable"`
	Touchable            bool                                         `json:"touchable"`
	DecorEnable          bool                                         `json:"decor_enable"`
	LayoutFullScreen     bool                                         `json:"layout_full_screen"`
	AspectRatio          float32                                      `json:"aspect_ratio"`
	Animation            bool                                         `json:"animation"`
	APICompatibleVersion uint32                                       `json:"api_compatible_version"`
}

// WindowProperty holds one window's geometry, type, mode, flags and limits.
// It is safe for concurrent use.
type WindowProperty struct {
	mu sync.RWMutex
	d  Data
}

// New creates a property with default bars and focus/touch enabled.
func New(name string, typ types.WindowType) *WindowProperty {
	return &WindowProperty{
		d: Data{
			WindowName:   name,
			WindowType:   typ,
			MaximizeMode: types.MaximizeModeRecover,
			SystemBars: map[types.WindowType]types.SystemBarProperty{
				types.WindowTypeStatusBar:     types.DefaultSystemBarProperty(),
				types.WindowTypeNavigationBar: types.DefaultSystemBarProperty(),
			},
			Focusable: true,
			Touchable: true,
		},
	}
}

// FromData builds a property from a snapshot.
func FromData(d Data) *WindowProperty {
	p := &WindowProperty{d: d}
	p.d.SystemBars = copyBars(d.SystemBars)
	return p
}

// Snapshot returns a deep copy of the current values.
func (p *WindowProperty) Snapshot() Data {
	p.mu.RLock()
	defer p.mu.RUnlock()

	d := p.d
	d.SystemBars = copyBars(p.d.SystemBars)
	return d
}

// Marshal encodes the property for a property-sync RPC.
func (p *WindowProperty) Marshal() ([]byte, error) {
	b, err := sonic.Marshal(p.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("marshal window property: %w", err)
	}
	return b, nil
}

// Unmarshal decodes a property produced by Marshal.
func Unmarshal(b []byte) (*WindowProperty, error) {
	var d Data
	if err := sonic.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("unmarshal window property: %w", err)
	}
	return FromData(d), nil
}

func copyBars(in map[types.WindowType]types.SystemBarProperty) map[types.WindowType]types.SystemBarProperty {
	out := make(map[types.WindowType]types.SystemBarProperty, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// PersistentID returns the host-assigned id, 0 until connected.
func (p *WindowProperty) PersistentID() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.PersistentID
}

// SetPersistentID assigns the id once. Reassigning a different id fails.
func (p *WindowProperty) SetPersistentID(id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.d.PersistentID != 0 && p.d.PersistentID != id {
		return types.ErrRepeatOperation
	}
	p.d.PersistentID = id
	return nil
}

func (p *WindowProperty) WindowName() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.WindowName
}

func (p *WindowProperty) WindowType() types.WindowType {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.WindowType
}

func (p *WindowProperty) WindowMode() types.WindowMode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.WindowMode
}

func (p *WindowProperty) SetWindowMode(m types.WindowMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.d.WindowMode = m
}

// WindowRect is the latest known geometry, requested or confirmed.
func (p *WindowProperty) WindowRect() types.Rect {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.WindowRect
}

// RequestRect is the latest geometry requested by the client.
func (p *WindowProperty) RequestRect() types.Rect {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.RequestRect
}

// SetRequestRect records a client request. The size is clamped into the
// window limits and the stored rect is returned.
func (p *WindowProperty) SetRequestRect(r types.Rect) types.Rect {
	p.mu.Lock()
	defer p.mu.Unlock()

	r = p.clampLocked(r)
	p.d.RequestRect = r
	p.d.WindowRect = r
	return r
}

// SetWindowRect records geometry confirmed by the host.
func (p *WindowProperty) SetWindowRect(r types.Rect) types.Rect {
	p.mu.Lock()
	defer p.mu.Unlock()

	r = p.clampLocked(r)
	p.d.WindowRect = r
	return r
}

func (p *WindowProperty) clampLocked(r types.Rect) types.Rect {
	r.Width = p.d.WindowLimits.ClampWidth(r.Width)
	r.Height = p.d.WindowLimits.ClampHeight(r.Height)
	return r
}

func (p *WindowProperty) WindowLimits() types.WindowLimits {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.WindowLimits
}

// SetWindowLimits replaces the limits and re-clamps the stored rects.
func (p *WindowProperty) SetWindowLimits(l types.WindowLimits) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.d.WindowLimits = l
	p.d.RequestRect = p.clampLocked(p.d.RequestRect)
	p.d.WindowRect = p.clampLocked(p.d.WindowRect)
}

func (p *WindowProperty) UserLimits() types.WindowLimits {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.UserLimits
}

func (p *WindowProperty) SetUserLimits(l types.WindowLimits) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.d.UserLimits = l
}

func (p *WindowProperty) MaximizeMode() types.MaximizeMode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.MaximizeMode
}

func (p *WindowProperty) SetMaximizeMode(m types.MaximizeMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.d.MaximizeMode = m
}

func (p *WindowProperty) DisplayID() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.DisplayID
}

func (p *WindowProperty) SetDisplayID(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.d.DisplayID = id
}

func (p *WindowProperty) ParentPersistentID() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.ParentPersistentID
}

func (p *WindowProperty) SetParentPersistentID(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.d.ParentPersistentID = id
}

func (p *WindowProperty) Flags() types.WindowFlag {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.Flags
}

func (p *WindowProperty) SetFlags(f types.WindowFlag) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.d.Flags = f
}

// HasFlag reports whether every bit of f is set.
func (p *WindowProperty) HasFlag(f types.WindowFlag) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.Flags&f == f
}

// SystemBarProperty returns the stored bar property for a bar type.
func (p *WindowProperty) SystemBarProperty(t types.WindowType) (types.SystemBarProperty, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.d.SystemBars[t]
	return v, ok
}

// SetSystemBarProperty stores a bar property and reports whether it changed.
func (p *WindowProperty) SetSystemBarProperty(t types.WindowType, v types.SystemBarProperty) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cur, ok := p.d.SystemBars[t]; ok && cur == v {
		return false
	}
	if p.d.SystemBars == nil {
		p.d.SystemBars = make(map[types.WindowType]types.SystemBarProperty)
	}
	p.d.SystemBars[t] = v
	return true
}

func (p *WindowProperty) Focusable() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.Focusable
}

func (p *WindowProperty) SetFocusable(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.d.Focusable = v
}

func (p *WindowProperty) Touchable() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.Touchable
}

func (p *WindowProperty) SetTouchable(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.d.Touchable = v
}

func (p *WindowProperty) DecorEnable() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.DecorEnable
}

func (p *WindowProperty) SetDecorEnable(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.d.DecorEnable = v
}

func (p *WindowProperty) LayoutFullScreen() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.LayoutFullScreen
}

func (p *WindowProperty) SetLayoutFullScreen(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.d.LayoutFullScreen = v
}

func (p *WindowProperty) AspectRatio() float32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.AspectRatio
}

func (p *WindowProperty) SetAspectRatio(r float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.d.AspectRatio = r
}

func (p *WindowProperty) Animation() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.Animation
}

func (p *WindowProperty) SetAnimation(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.d.Animation = v
}

func (p *WindowProperty) APICompatibleVersion() uint32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.d.APICompatibleVersion
}

func (p *WindowProperty) SetAPICompatibleVersion(v uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.d.APICompatibleVersion = v
}

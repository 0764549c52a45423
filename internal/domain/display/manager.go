package display

import (
	"context"
	"fmt"
	"image/color"
	"sort"
	"sync"

	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"go.uber.org/zap"
)

// Rotation is the clockwise rotation of a display.
type Rotation uint32

const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// Display describes one screen as seen by the window layer.
type Display struct {
	ID                uint64   `json:"id" toml:"id" yaml:"id"`
	Name              string   `json:"name" toml:"name" yaml:"name"`
	Width             int32    `json:"width" toml:"width" yaml:"width"`
	Height            int32    `json:"height" toml:"height" yaml:"height"`
	VirtualPixelRatio float32  `json:"virtual_pixel_ratio" toml:"virtual_pixel_ratio" yaml:"virtual_pixel_ratio"`
	Rotation          Rotation `json:"rotation" toml:"rotation" yaml:"rotation"`
	DPI               int32    `json:"dpi" toml:"dpi" yaml:"dpi"`
	Default           bool     `json:"default" toml:"default" yaml:"default"`
}

// ShortEdge returns the smaller side in physical pixels.
func (d Display) ShortEdge() int32 {
	if d.Width < d.Height {
		return d.Width
	}
	return d.Height
}

// IsPortrait reports whether the display is taller than it is wide.
func (d Display) IsPortrait() bool {
	return d.Width <= d.Height
}

// VPR returns the virtual pixel ratio, 1 when unset.
func (d Display) VPR() float32 {
	if d.VirtualPixelRatio <= 0 {
		return 1
	}
	return d.VirtualPixelRatio
}

// PixelFormat is the layout of a captured frame.
type PixelFormat int

const (
	FormatRGBA8888 PixelFormat = iota
	FormatRGB565
	FormatRGB888
)

// BytesPerPixel returns the pixel size of f, 0 for unknown formats.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatRGBA8888:
		return 4
	case FormatRGB565:
		return 2
	case FormatRGB888:
		return 3
	default:
		return 0
	}
}

// PixelMap is a captured frame.
type PixelMap struct {
	Width  int
	Height int
	Stride int
	Format PixelFormat
	Data   []byte
}

// Capturer produces frames for a display.
type Capturer interface {
	Capture(ctx context.Context, d Display) (*PixelMap, error)
}

// SolidCapturer returns a single-colour RGBA frame the size of the display.
type SolidCapturer struct {
	Color color.RGBA
}

// Capture implements Capturer
func (c SolidCapturer) Capture(_ context.Context, d Display) (*PixelMap, error) {
	if d.Width <= 0 || d.Height <= 0 {
		return nil, fmt.Errorf("display %d has no area", d.ID)
	}
	w, h := int(d.Width), int(d.Height)
	data := make([]byte, w*h*4)
	for i := 0; i < len(data); i += 4 {
		data[i] = c.Color.R
		data[i+1] = c.Color.G
		data[i+2] = c.Color.B
		data[i+3] = c.Color.A
	}
	return &PixelMap{Width: w, Height: h, Stride: w * 4, Format: FormatRGBA8888, Data: data}, nil
}

// Manager is a read-only geometry source over a fixed set of displays.
type Manager struct {
	mu        sync.RWMutex
	displays  map[uint64]Display // Protected by mu
	defaultID uint64
	capturer  Capturer
	logger    *zap.Logger
}

// Option configures a Manager
type Option func(*Manager)

// WithCapturer replaces the frame source used by GetScreenshot
func WithCapturer(c Capturer) Option {
	return func(m *Manager) { m.capturer = c }
}

// WithLogger attaches a logger
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a manager over displays. The display flagged Default,
// or else the lowest id, becomes the default display.
func NewManager(displays []Display, opts ...Option) (*Manager, error) {
	if len(displays) == 0 {
		return nil, fmt.Errorf("at least one display is required")
	}

	m := &Manager{
		displays: make(map[uint64]Display, len(displays)),
		capturer: SolidCapturer{Color: color.RGBA{A: 0xFF}},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	found := false
	for _, d := range displays {
		if d.Width <= 0 || d.Height <= 0 {
			return nil, fmt.Errorf("display %d: invalid size %dx%d", d.ID, d.Width, d.Height)
		}
		if _, dup := m.displays[d.ID]; dup {
			return nil, fmt.Errorf("display %d: duplicate id", d.ID)
		}
		m.displays[d.ID] = d
		if d.Default && !found {
			m.defaultID = d.ID
			found = true
		}
	}
	if !found {
		m.defaultID = m.ListDisplays()[0].ID
	}

	return m, nil
}

// GetDisplayByID returns the display with the given id
func (m *Manager) GetDisplayByID(id uint64) (Display, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.displays[id]
	if !ok {
		return Display{}, types.ErrInvalidDisplay
	}
	return d, nil
}

// GetDefaultDisplayID returns the id of the default display
func (m *Manager) GetDefaultDisplayID() uint64 {
	return m.defaultID
}

// GetDefaultDisplay returns the default display
func (m *Manager) GetDefaultDisplay() Display {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.displays[m.defaultID]
}

// ListDisplays returns all displays ordered by id
func (m *Manager) ListDisplays() []Display {
	m.mu.RLock()
	out := make([]Display, 0, len(m.displays))
	for _, d := range m.displays {
		out = append(out, d)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetRotation rotates a display, swapping its sides on quarter turns.
func (m *Manager) SetRotation(id uint64, r Rotation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.displays[id]
	if !ok {
		return types.ErrInvalidDisplay
	}
	if r%2 != d.Rotation%2 {
		d.Width, d.Height = d.Height, d.Width
	}
	d.Rotation = r % 4
	m.displays[id] = d

	m.logger.Debug("Display rotated",
		zap.Uint64("display_id", id),
		zap.Uint32("rotation", uint32(d.Rotation)))
	return nil
}

// GetScreenshot captures a frame of the display
func (m *Manager) GetScreenshot(ctx context.Context, id uint64) (*PixelMap, error) {
	d, err := m.GetDisplayByID(id)
	if err != nil {
		return nil, err
	}

	pm, err := m.capturer.Capture(ctx, d)
	if err != nil {
		m.logger.Warn("Screenshot failed", zap.Uint64("display_id", id), zap.Error(err))
		return nil, fmt.Errorf("capture display %d: %w", id, err)
	}
	return pm, nil
}

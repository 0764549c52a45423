package types

import "math"

// Rect is a window rectangle in physical pixels.
type Rect struct {
	X      int32  `json:"x"`
	Y      int32  `json:"y"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// IsEmpty reports whether the rect has no area.
func (r Rect) IsEmpty() bool {
	return r.Width == 0 || r.Height == 0
}

// WindowLimits bounds window size. A zero max means unconstrained.
type WindowLimits struct {
	MaxWidth  uint32  `json:"max_width"`
	MaxHeight uint32  `json:"max_height"`
	MinWidth  uint32  `json:"min_width"`
	MinHeight uint32  `json:"min_height"`
	MaxRatio  float32 `json:"max_ratio"`
	MinRatio  float32 `json:"min_ratio"`
	VPRatio   float32 `json:"vp_ratio"`
}

// ClampWidth returns w forced into [MinWidth, MaxWidth].
func (l WindowLimits) ClampWidth(w uint32) uint32 {
	if w < l.MinWidth {
		w = l.MinWidth
	}
	if l.MaxWidth != 0 && w > l.MaxWidth {
		w = l.MaxWidth
	}
	return w
}

// ClampHeight returns h forced into [MinHeight, MaxHeight].
func (l WindowLimits) ClampHeight(h uint32) uint32 {
	if h < l.MinHeight {
		h = l.MinHeight
	}
	if l.MaxHeight != 0 && h > l.MaxHeight {
		h = l.MaxHeight
	}
	return h
}

// Allows reports whether a size lies within the limits.
func (l WindowLimits) Allows(w, h uint32) bool {
	return l.ClampWidth(w) == w && l.ClampHeight(h) == h
}

// Bound returns a limit as float64, mapping an unconstrained max to +Inf.
func Bound(v uint32, isMax bool) float64 {
	if isMax && v == 0 {
		return math.Inf(1)
	}
	return float64(v)
}

// SystemBarProperty describes one system bar as requested by a window.
type SystemBarProperty struct {
	Enable          bool   `json:"enable"`
	BackgroundColor uint32 `json:"background_color"`
	ContentColor    uint32 `json:"content_color"`
}

const (
	SystemBarColorDefault   uint32 = 0x66000000
	SystemBarContentDefault uint32 = 0xE5FFFFFF
)

// DefaultSystemBarProperty returns the bar state a new window starts with.
func DefaultSystemBarProperty() SystemBarProperty {
	return SystemBarProperty{
		Enable:          true,
		BackgroundColor: SystemBarColorDefault,
		ContentColor:    SystemBarContentDefault,
	}
}

// AvoidArea lists the regions content should not render under.
type AvoidArea struct {
	Top    Rect `json:"top"`
	Left   Rect `json:"left"`
	Right  Rect `json:"right"`
	Bottom Rect `json:"bottom"`
}

// IsEmpty reports whether no region is set.
func (a AvoidArea) IsEmpty() bool {
	return a.Top.IsEmpty() && a.Left.IsEmpty() && a.Right.IsEmpty() && a.Bottom.IsEmpty()
}

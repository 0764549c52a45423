package window

import (
	"strconv"
	"strings"

	"github.com/GriffinCanCode/windowscene/internal/shared/types"
)

const blurRelatedRadiusScale = 0.57735

// ConvertRadiusToSigma maps a caller-facing blur radius to the sigma the
// render node expects.
func ConvertRadiusToSigma(radius float32) float32 {
	if radius > 0 {
		return blurRelatedRadiusScale*radius + 0.5
	}
	return 0
}

// effectSurface checks the shared preconditions of the effect setters.
func (s *SceneSession) effectSurface(needPermission bool) (Surface, error) {
	s.mu.Lock()
	state, surface := s.state, s.surface
	s.mu.Unlock()

	switch {
	case state == types.StateDestroyed:
		return nil, types.ErrInvalidWindow
	case surface == nil:
		return nil, types.ErrNullptr
	case needPermission && !s.caller.IsSystemCalling():
		return nil, types.ErrNotSystemApp
	}
	return surface, nil
}

func (s *SceneSession) SetCornerRadius(radius float32) error {
	surface, err := s.effectSurface(false)
	if err != nil {
		return err
	}
	if radius < 0 {
		return types.ErrInvalidParam
	}
	surface.SetCornerRadius(radius)
	return nil
}

func (s *SceneSession) SetShadowRadius(radius float32) error {
	surface, err := s.effectSurface(true)
	if err != nil {
		return err
	}
	if radius < 0 {
		return types.ErrInvalidParam
	}
	surface.SetShadowRadius(radius)
	return nil
}

// SetShadowColor accepts "#RRGGBB" or "#AARRGGBB"
func (s *SceneSession) SetShadowColor(color string) error {
	surface, err := s.effectSurface(true)
	if err != nil {
		return err
	}
	argb, ok := parseColor(color)
	if !ok {
		return types.ErrInvalidParam
	}
	surface.SetShadowColor(argb)
	return nil
}

func parseColor(color string) (uint32, bool) {
	if !strings.HasPrefix(color, "#") {
		return 0, false
	}
	hex := color[1:]
	if len(hex) != 6 && len(hex) != 8 {
		return 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, false
	}
	if len(hex) == 6 {
		v |= 0xFF000000
	}
	return uint32(v), true
}

func (s *SceneSession) SetShadowOffsetX(x float32) error {
	surface, err := s.effectSurface(true)
	if err != nil {
		return err
	}
	surface.SetShadowOffsetX(x)
	return nil
}

func (s *SceneSession) SetShadowOffsetY(y float32) error {
	surface, err := s.effectSurface(true)
	if err != nil {
		return err
	}
	surface.SetShadowOffsetY(y)
	return nil
}

func (s *SceneSession) SetBlur(radius float32) error {
	surface, err := s.effectSurface(true)
	if err != nil {
		return err
	}
	if radius < 0 {
		return types.ErrInvalidParam
	}
	surface.SetBlurSigma(ConvertRadiusToSigma(radius))
	return nil
}

func (s *SceneSession) SetBackdropBlur(radius float32) error {
	surface, err := s.effectSurface(true)
	if err != nil {
		return err
	}
	if radius < 0 {
		return types.ErrInvalidParam
	}
	surface.SetBackdropBlurSigma(ConvertRadiusToSigma(radius))
	return nil
}

func (s *SceneSession) SetBackdropBlurStyle(style types.BlurStyle) error {
	surface, err := s.effectSurface(true)
	if err != nil {
		return err
	}
	if style >= types.BlurStyleEnd {
		return types.ErrInvalidParam
	}
	surface.SetBackdropBlurStyle(style)
	return nil
}

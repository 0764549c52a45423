package display

import (
	"context"
	"errors"
	"image/color"
	"testing"

	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDisplays() []Display {
	return []Display{
		{ID: 2, Name: "external", Width: 3840, Height: 2160, VirtualPixelRatio: 2},
		{ID: 0, Name: "builtin", Width: 1080, Height: 2340, VirtualPixelRatio: 3},
	}
}

func TestNewManagerDefault(t *testing.T) {
	m, err := NewManager(testDisplays())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), m.GetDefaultDisplayID())
	assert.Equal(t, "builtin", m.GetDefaultDisplay().Name)

	ds := testDisplays()
	ds[0].Default = true
	m, err = NewManager(ds)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), m.GetDefaultDisplayID())
}

func TestNewManagerValidation(t *testing.T) {
	_, err := NewManager(nil)
	assert.Error(t, err)

	_, err = NewManager([]Display{{ID: 1, Width: 0, Height: 10}})
	assert.Error(t, err)

	_, err = NewManager([]Display{{ID: 1, Width: 1, Height: 1}, {ID: 1, Width: 2, Height: 2}})
	assert.Error(t, err)
}

func TestGetDisplayByID(t *testing.T) {
	m, err := NewManager(testDisplays())
	require.NoError(t, err)

	d, err := m.GetDisplayByID(2)
	require.NoError(t, err)
	assert.Equal(t, int32(2160), d.ShortEdge())
	assert.False(t, d.IsPortrait())

	_, err = m.GetDisplayByID(9)
	assert.ErrorIs(t, err, types.ErrInvalidDisplay)

	assert.Len(t, m.ListDisplays(), 2)
	assert.Equal(t, uint64(0), m.ListDisplays()[0].ID)
}

func TestSetRotationSwapsSides(t *testing.T) {
	m, err := NewManager(testDisplays())
	require.NoError(t, err)

	require.NoError(t, m.SetRotation(0, Rotation90))
	d, _ := m.GetDisplayByID(0)
	assert.Equal(t, int32(2340), d.Width)
	assert.Equal(t, int32(1080), d.Height)

	require.NoError(t, m.SetRotation(0, Rotation270))
	d, _ = m.GetDisplayByID(0)
	assert.Equal(t, int32(2340), d.Width, "90 -> 270 keeps orientation")

	require.NoError(t, m.SetRotation(0, Rotation0))
	d, _ = m.GetDisplayByID(0)
	assert.Equal(t, int32(1080), d.Width)

	assert.ErrorIs(t, m.SetRotation(5, Rotation90), types.ErrInvalidDisplay)
}

func TestGetScreenshot(t *testing.T) {
	m, err := NewManager([]Display{{ID: 0, Width: 4, Height: 2}},
		WithCapturer(SolidCapturer{Color: color.RGBA{R: 1, G: 2, B: 3, A: 4}}))
	require.NoError(t, err)

	pm, err := m.GetScreenshot(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 4, pm.Width)
	assert.Equal(t, 16, pm.Stride)
	assert.Len(t, pm.Data, 32)
	assert.Equal(t, []byte{1, 2, 3, 4}, pm.Data[:4])

	_, err = m.GetScreenshot(context.Background(), 3)
	assert.ErrorIs(t, err, types.ErrInvalidDisplay)
}

type failingCapturer struct{}

func (failingCapturer) Capture(context.Context, Display) (*PixelMap, error) {
	return nil, errors.New("device busy")
}

func TestGetScreenshotCaptureError(t *testing.T) {
	m, err := NewManager(testDisplays(), WithCapturer(failingCapturer{}))
	require.NoError(t, err)

	_, err = m.GetScreenshot(context.Background(), 0)
	assert.ErrorContains(t, err, "device busy")
}

package property

import (
	"sync"
	"testing"

	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	p := New("main", types.WindowTypeAppMain)

	assert.Equal(t, "main", p.WindowName())
	assert.Equal(t, types.WindowTypeAppMain, p.WindowType())
	assert.True(t, p.Focusable())
	assert.True(t, p.Touchable())
	assert.Equal(t, types.MaximizeModeRecover, p.MaximizeMode())

	bar, ok := p.SystemBarProperty(types.WindowTypeStatusBar)
	require.True(t, ok)
	assert.Equal(t, types.DefaultSystemBarProperty(), bar)
}

func TestPersistentIDAssignedOnce(t *testing.T) {
	p := New("w", types.WindowTypeAppMain)

	require.NoError(t, p.SetPersistentID(7))
	require.NoError(t, p.SetPersistentID(7))
	assert.ErrorIs(t, p.SetPersistentID(8), types.ErrRepeatOperation)
	assert.Equal(t, int64(7), p.PersistentID())
}

func TestRectClampedToLimits(t *testing.T) {
	p := New("w", types.WindowTypeAppMain)
	p.SetWindowLimits(types.WindowLimits{MinWidth: 100, MinHeight: 100, MaxWidth: 800, MaxHeight: 600})

	got := p.SetRequestRect(types.Rect{X: 1, Y: 2, Width: 10, Height: 9000})
	assert.Equal(t, types.Rect{X: 1, Y: 2, Width: 100, Height: 600}, got)
	assert.Equal(t, got, p.WindowRect())
	assert.Equal(t, got, p.RequestRect())

	p.SetWindowLimits(types.WindowLimits{MinWidth: 200, MinHeight: 100})
	assert.Equal(t, uint32(200), p.WindowRect().Width)
}

func TestSetSystemBarPropertyReportsChange(t *testing.T) {
	p := New("w", types.WindowTypeAppMain)
	bar := types.SystemBarProperty{Enable: false, BackgroundColor: 0xFF000000}

	assert.True(t, p.SetSystemBarProperty(types.WindowTypeStatusBar, bar))
	assert.False(t, p.SetSystemBarProperty(types.WindowTypeStatusBar, bar))
}

func TestMarshalRoundTrip(t *testing.T) {
	p := New("w", types.WindowTypeAppSub)
	require.NoError(t, p.SetPersistentID(42))
	p.SetParentPersistentID(41)
	p.SetRequestRect(types.Rect{X: 10, Y: 20, Width: 300, Height: 400})
	p.SetFlags(types.FlagNeedAvoid | types.FlagWatermark)

	b, err := p.Marshal()
	require.NoError(t, err)

	q, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, p.Snapshot(), q.Snapshot())
	assert.True(t, q.HasFlag(types.FlagWatermark))

	_, err = Unmarshal([]byte("{"))
	assert.Error(t, err)
}

func TestSnapshotIsIndependent(t *testing.T) {
	p := New("w", types.WindowTypeAppMain)
	snap := p.Snapshot()
	snap.SystemBars[types.WindowTypeStatusBar] = types.SystemBarProperty{}

	bar, _ := p.SystemBarProperty(types.WindowTypeStatusBar)
	assert.True(t, bar.Enable)
}

func TestConcurrentAccess(t *testing.T) {
	p := New("w", types.WindowTypeAppMain)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			p.SetRequestRect(types.Rect{Width: uint32(i + 1), Height: 1})
		}(i)
		go func() {
			defer wg.Done()
			_ = p.Snapshot()
		}()
	}
	wg.Wait()

	assert.NotZero(t, p.WindowRect().Width)
}

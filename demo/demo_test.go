package demo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galvo/frame"
	"galvo/geometry"
	"galvo/laser"
)

func TestRecorderLatchesOnY(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.SetRGB(10, 20, 30))

	fx, fy := laser.EncodeDACFrames(100, 4000)
	require.NoError(t, r.Tx(fx[:], nil))
	assert.Empty(t, r.Samples())
	require.NoError(t, r.Tx(fy[:], nil))

	require.Len(t, r.Samples(), 1)
	s := r.Samples()[0]
	assert.Equal(t, geometry.Pt(100, 4000), s.Code)
	assert.Equal(t, laser.Color{R: 10, G: 20, B: 30}, s.Color)
	assert.True(t, s.Lit())

	r.Reset()
	assert.Empty(t, r.Samples())
}

func TestRecorderErrors(t *testing.T) {
	r := &Recorder{}
	_, fy := laser.EncodeDACFrames(0, 0)
	assert.Error(t, r.Tx(fy[:], nil), "Y without X")
	assert.ErrorIs(t, r.Tx([]byte{0x00, 0x00}, nil), laser.ErrDACFrame)
	assert.ErrorIs(t, r.Tx([]byte{0x30}, nil), laser.ErrDACFrame)
}

func TestNewRigHeadCount(t *testing.T) {
	_, err := NewRig(0, 0)
	assert.Error(t, err)
	_, err = NewRig(laser.NumChannels+1, 0)
	assert.Error(t, err)

	rig, err := NewRig(laser.NumChannels, 0)
	require.NoError(t, err)
	assert.Len(t, rig.Outputs, laser.NumChannels)
	assert.Len(t, rig.Beams, laser.NumChannels)
}

func TestRigRender(t *testing.T) {
	rig, err := NewRig(2, 0)
	require.NoError(t, err)

	require.NoError(t, rig.Render(0))
	assert.False(t, rig.Manager.Pending())

	for i, b := range rig.Beams {
		samples := b.Samples()
		require.NotEmpty(t, samples, "head %d", i)
		lit := 0
		for _, s := range samples {
			assert.GreaterOrEqual(t, s.Code.X, 0.0)
			assert.LessOrEqual(t, s.Code.X, float64(geometry.DACMax))
			assert.GreaterOrEqual(t, s.Code.Y, 0.0)
			assert.LessOrEqual(t, s.Code.Y, float64(geometry.DACMax))
			if s.Lit() {
				lit++
			}
		}
		assert.Positive(t, lit, "head %d", i)
	}

	first := len(rig.Beams[0].Samples())
	require.NoError(t, rig.Render(1))
	assert.InDelta(t, first, len(rig.Beams[0].Samples()), float64(first)/2)
}

func TestPolygon(t *testing.T) {
	rig, err := NewRig(1, 0)
	require.NoError(t, err)

	assert.Error(t, Polygon(rig.Manager, 0, 2, 100, 0, laser.White))
	assert.ErrorIs(t, Polygon(rig.Manager, 1, 4, 100, 0, laser.White), frame.ErrNotAttached)

	require.NoError(t, Polygon(rig.Manager, 0, 4, 100, 0, laser.White))
	plans := rig.Manager.Balance()
	require.Len(t, plans, 1)
	last := plans[0].Points[len(plans[0].Points)-1]
	assert.True(t, geometry.Near(geometry.Pt(geometry.Center+100, geometry.Center), last.To, 1e-6))
	assert.False(t, last.On)
	lit := 0
	for _, p := range plans[0].Points {
		if p.On {
			lit++
		}
	}
	assert.Positive(t, lit)
}

func TestSceneUses3DOnThirdHead(t *testing.T) {
	rig, err := NewRig(3, 0)
	require.NoError(t, err)
	ch, _ := rig.Registry.Channel(2)

	require.NoError(t, rig.Render(0))
	flat := append([]Sample(nil), rig.Beams[2].Samples()...)
	require.NoError(t, rig.Render(15))
	tumbled := rig.Beams[2].Samples()

	assert.False(t, ch.Calibration().Enable3D)
	require.NotEmpty(t, flat)
	require.NotEmpty(t, tumbled)

	// rotated about X and Y the face is foreshortened, so its extent shrinks
	assert.Less(t, extent(tumbled), extent(flat))
}

func extent(samples []Sample) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range samples {
		if !s.Lit() {
			continue
		}
		lo = math.Min(lo, s.Code.X)
		hi = math.Max(hi, s.Code.X)
	}
	return hi - lo
}

func TestKeystone(t *testing.T) {
	ch := laser.NewChannel(0)
	require.NoError(t, Keystone(ch, 200))

	cal := ch.Calibration()
	assert.True(t, cal.WarpEnabled)
	top := cal.Warp(geometry.Pt(1000, 1000))
	assert.True(t, geometry.Near(geometry.Pt(1200, 1000), top, 1e-6))
	bottom := cal.Warp(geometry.Pt(1000, 3000))
	assert.True(t, geometry.Near(geometry.Pt(1000, 3000), bottom, 1e-6))

	assert.Error(t, Keystone(ch, 1000), "collapsed top edge")
	assert.True(t, geometry.Near(geometry.Pt(1200, 1000), ch.Calibration().Warp(geometry.Pt(1000, 1000)), 1e-6))
}

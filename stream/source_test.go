package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"galvo/laser"
)

func TestCircleSource(t *testing.T) {
	src := NewCircleSource()

	first := src.NextPoint()
	assert.Equal(t, SourcePoint{X: 2048, Y: 3048, R: 0, G: 60, B: 120}, first)

	second := src.NextPoint()
	assert.Equal(t, uint8(8), second.R)
	assert.Greater(t, second.X, first.X)

	// 45 steps of 8 degrees close the circle
	for i := 2; i < 45; i++ {
		src.NextPoint()
	}
	assert.Equal(t, first, src.NextPoint())
}

func TestSliceSource(t *testing.T) {
	a := SourcePoint{X: 1, Y: 2, R: 255}
	b := SourcePoint{X: 3, Y: 4}
	src := NewSliceSource(a, b)

	assert.Equal(t, a, src.NextPoint())
	assert.Equal(t, b, src.NextPoint())
	assert.Equal(t, a, src.NextPoint())

	assert.True(t, NewSliceSource().NextPoint().Idle())
}

func TestSourcePoint(t *testing.T) {
	assert.True(t, SourcePoint{}.Idle())
	assert.False(t, SourcePoint{X: 1}.Idle())
	assert.False(t, SourcePoint{X: 1}.Lit())

	p := SourcePoint{X: 1, G: 7}
	assert.True(t, p.Lit())
	assert.Equal(t, laser.Color{G: 7}, p.Color())
}

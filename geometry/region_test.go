package geometry

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clipTol = 1e-6

func TestRectClipDiagonal(t *testing.T) {
	r := NewRect(500, 500, 3500, 3500)
	q := ConvexQuad{Points: r.Quad()}

	for name, region := range map[string]Region{"rect": r, "quad": q} {
		t.Run(name, func(t *testing.T) {
			c0, c1, ok := region.Clip(Pt(0, 0), Pt(4096, 4096))
			require.True(t, ok)
			assert.True(t, Near(c0, Pt(500, 500), clipTol), "entry %v", c0)
			assert.True(t, Near(c1, Pt(3500, 3500), clipTol), "exit %v", c1)
		})
	}
}

func TestClipCases(t *testing.T) {
	r := NewRect(1000, 1000, 3000, 3000)

	tests := []struct {
		name   string
		p0, p1 Point
		ok     bool
		c0, c1 Point
	}{
		{"inside", Pt(1500, 1500), Pt(2500, 2000), true, Pt(1500, 1500), Pt(2500, 2000)},
		{"left of region", Pt(0, 1500), Pt(900, 2500), false, Point{}, Point{}},
		{"above region", Pt(1500, 3100), Pt(2500, 4000), false, Point{}, Point{}},
		{"leaves right", Pt(2000, 2000), Pt(4000, 2000), true, Pt(2000, 2000), Pt(3000, 2000)},
		{"enters bottom", Pt(2000, 0), Pt(2000, 2000), true, Pt(2000, 1000), Pt(2000, 2000)},
		{"crosses fully", Pt(0, 2000), Pt(4000, 2000), true, Pt(1000, 2000), Pt(3000, 2000)},
		{"along boundary", Pt(1000, 0), Pt(1000, 4000), true, Pt(1000, 1000), Pt(1000, 3000)},
		{"misses corner", Pt(0, 1900), Pt(1900, 0), false, Point{}, Point{}},
	}

	for _, tt := range tests {
		for name, region := range map[string]Region{"rect": r, "quad": ConvexQuad{Points: r.Quad()}} {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				c0, c1, ok := region.Clip(tt.p0, tt.p1)
				require.Equal(t, tt.ok, ok)
				if !ok {
					return
				}
				assert.True(t, Near(c0, tt.c0, clipTol), "entry got %v want %v", c0, tt.c0)
				assert.True(t, Near(c1, tt.c1, clipTol), "exit got %v want %v", c1, tt.c1)
			})
		}
	}
}

func TestRectAndQuadAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	r := NewRect(437.5, 812.25, 3120.75, 2999.5)
	wound := r.Quad()
	// Same rectangle wound the other way
	reversed := ConvexQuad{Points: Quad{wound[3], wound[2], wound[1], wound[0]}}

	for i := 0; i < 2000; i++ {
		p0 := Pt(rng.Float64()*4500-200, rng.Float64()*4500-200)
		p1 := Pt(rng.Float64()*4500-200, rng.Float64()*4500-200)

		a0, a1, aok := r.Clip(p0, p1)
		for _, q := range []ConvexQuad{{Points: wound}, reversed} {
			b0, b1, bok := q.Clip(p0, p1)
			require.Equal(t, aok, bok, "segment %v -> %v", p0, p1)
			if !aok {
				continue
			}
			assert.True(t, Near(a0, b0, clipTol), "entry rect %v quad %v", a0, b0)
			assert.True(t, Near(a1, b1, clipTol), "exit rect %v quad %v", a1, b1)
		}
	}
}

func TestConvexQuadTrapezoid(t *testing.T) {
	q := ConvexQuad{Points: Quad{{1000, 1000}, {3000, 1000}, {2500, 3000}, {1500, 3000}}}

	// Horizontal line through the middle is cut by the slanted sides
	c0, c1, ok := q.Clip(Pt(0, 2000), Pt(4000, 2000))
	require.True(t, ok)
	assert.InDelta(t, 1250, c0.X, clipTol)
	assert.InDelta(t, 2750, c1.X, clipTol)

	// A point-sized segment outside the top-right slant is rejected
	_, _, ok = q.Clip(Pt(2900, 2900), Pt(2950, 2950))
	assert.False(t, ok)
}

func TestNewQuadRegion(t *testing.T) {
	r := NewQuadRegion(Quad{{100, 200}, {900, 200}, {900, 800}, {100, 800}})
	assert.Equal(t, Rect{XMin: 100, YMin: 200, XMax: 900, YMax: 800}, r)

	skew := Quad{{100, 200}, {900, 250}, {900, 800}, {100, 800}}
	assert.Equal(t, ConvexQuad{Points: skew}, NewQuadRegion(skew))
}

package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var warpSquare = Quad{{1000, 1000}, {3000, 1000}, {3000, 3000}, {1000, 3000}}

func TestHomographyIdentity(t *testing.T) {
	h, err := ComputeHomography(FullQuad, FullQuad)
	require.NoError(t, err)

	for _, p := range []Point{{0, 0}, {4095, 4095}, {123, 3987}, {2048, 2048}, {4000, 17}} {
		got := h.Warp(p)
		assert.InDelta(t, p.X, got.X, 1, "x of %v", p)
		assert.InDelta(t, p.Y, got.Y, 1, "y of %v", p)
	}
}

func TestHomographyCorrespondence(t *testing.T) {
	dsts := []Quad{
		{{800, 1200}, {3300, 900}, {3100, 3400}, {700, 2900}},
		{{1500, 1000}, {2500, 1000}, {3000, 3000}, {1000, 3000}},
		{{0, 0}, {4095, 0}, {4095, 4095}, {0, 4095}},
	}

	for _, dst := range dsts {
		h, err := ComputeHomography(warpSquare, dst)
		require.NoError(t, err)
		assert.Equal(t, 1.0, h[8])

		for i := range warpSquare {
			got := h.Warp(warpSquare[i])
			assert.True(t, Near(got, dst[i], 0.01), "corner %d: got %v want %v", i, got, dst[i])
		}
	}
}

func TestHomographyMatchesGonumSolve(t *testing.T) {
	dst := Quad{{800, 1200}, {3300, 900}, {3100, 3400}, {700, 2900}}
	h, err := ComputeHomography(warpSquare, dst)
	require.NoError(t, err)

	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := 0; i < 4; i++ {
		sx, sy := warpSquare[i].X, warpSquare[i].Y
		dx, dy := dst[i].X, dst[i].Y
		a.SetRow(2*i, []float64{sx, sy, 1, 0, 0, 0, -dx * sx, -dx * sy})
		a.SetRow(2*i+1, []float64{0, 0, 0, sx, sy, 1, -dy * sx, -dy * sy})
		b.SetVec(2*i, dx)
		b.SetVec(2*i+1, dy)
	}

	var want mat.VecDense
	require.NoError(t, want.SolveVec(a, b))

	for i := 0; i < 8; i++ {
		assert.InDelta(t, want.AtVec(i), h[i], 1e-6*(1+abs(want.AtVec(i))), "h%d", i)
	}
}

func TestHomographyDegenerate(t *testing.T) {
	tests := []struct {
		name     string
		src, dst Quad
	}{
		{"collinear source", Quad{{0, 0}, {2000, 0}, {4000, 0}, {0, 4000}}, FullQuad},
		{"collinear destination", warpSquare, Quad{{1000, 1000}, {2000, 1000}, {3000, 1000}, {1000, 3000}}},
		{"coincident destination", warpSquare, Quad{{1000, 1000}, {1000, 1000}, {3000, 3000}, {1000, 3000}}},
		{"collapsed destination", warpSquare, Quad{{2000, 2000}, {2000, 2000}, {2000, 2000}, {2000, 2000}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeHomography(tt.src, tt.dst)
			assert.ErrorIs(t, err, ErrDegenerateGeometry)
		})
	}
}

func TestWarpZeroDenominator(t *testing.T) {
	h := Homography{1, 0, 0, 0, 1, 0, 1, 0, -100}
	p := Pt(100, 250)
	assert.Equal(t, p, h.Warp(p))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

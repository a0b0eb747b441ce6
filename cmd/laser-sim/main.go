//go:build !tinygo

// Command laser-sim renders the multi-head demo show in a desktop window.
// Every head writes to a recorder and the decoded beam path is drawn.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"galvo/demo"
	"galvo/geometry"
)

const screenSize = 512

var (
	heads    = flag.Int("heads", 4, "Number of laser heads to simulate")
	base     = flag.Float64("base", 0, "Base quality for the longest head (0 for default)")
	tps      = flag.Int("tps", 30, "Frames per second")
	keystone = flag.Float64("keystone", 0, "Narrow the top edge of head 0 by this many DAC codes per side")
)

type simGame struct {
	rig  *demo.Rig
	tick int
}

func (g *simGame) Update() error {
	g.tick++
	return g.rig.Render(g.tick)
}

func (g *simGame) Draw(screen *ebiten.Image) {
	for _, beam := range g.rig.Beams {
		drawBeam(screen, beam.Samples())
	}
}

func (g *simGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenSize, screenSize
}

// drawBeam strokes every lit segment of a head's path
func drawBeam(screen *ebiten.Image, samples []demo.Sample) {
	for i := 1; i < len(samples); i++ {
		s := samples[i]
		if !s.Lit() {
			continue
		}
		x0, y0 := toScreen(samples[i-1].Code)
		x1, y1 := toScreen(s.Code)
		c := color.RGBA{R: s.Color.R, G: s.Color.G, B: s.Color.B, A: 0xFF}
		vector.StrokeLine(screen, x0, y0, x1, y1, 1.5, c, true)
	}
}

// toScreen maps DAC codes to window pixels. The output stage already
// inverted Y, so codes grow downwards like screen rows.
func toScreen(p geometry.Point) (float32, float32) {
	const k = float32(screenSize) / float32(geometry.DACMax+1)
	return float32(p.X) * k, float32(p.Y) * k
}

func main() {
	flag.Parse()

	rig, err := demo.NewRig(*heads, *base)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *keystone > 0 {
		ch, err := rig.Registry.Channel(0)
		if err == nil {
			err = demo.Keystone(ch, *keystone)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: keystone: %v\n", err)
			os.Exit(1)
		}
	}

	ebiten.SetWindowTitle(fmt.Sprintf("laser-sim (%d heads)", *heads))
	ebiten.SetWindowSize(screenSize*2, screenSize*2)
	ebiten.SetTPS(*tps)
	if err := ebiten.RunGame(&simGame{rig: rig}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

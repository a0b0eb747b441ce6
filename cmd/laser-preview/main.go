// Command laser-preview renders frames of the demo show to PNG scatter
// plots, one file per head. Lit positions are drawn in the beam color and
// blanked travel in grey.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"galvo/demo"
	"galvo/geometry"
)

var (
	heads  = flag.Int("heads", 4, "Number of laser heads")
	base   = flag.Float64("base", 0, "Base quality for the longest head (0 for default)")
	tick   = flag.Int("tick", 0, "Animation tick of the frame to render")
	outDir = flag.String("out", ".", "Output directory")
)

var blankColor = color.RGBA{R: 0xB0, G: 0xB0, B: 0xB0, A: 0xFF}

// beamPlot builds the scatter plot of one head's recorded frame
func beamPlot(head int, samples []demo.Sample) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Head %d - %d points", head, len(samples))
	p.X.Label.Text = "X (DAC code)"
	p.Y.Label.Text = "Y (DAC code)"
	p.X.Min, p.X.Max = 0, geometry.DACMax
	p.Y.Min, p.Y.Max = 0, geometry.DACMax

	var blank plotter.XYs
	lit := make(map[color.RGBA]plotter.XYs)
	var order []color.RGBA
	for _, s := range samples {
		xy := plotter.XY{X: s.Code.X, Y: s.Code.Y}
		if !s.Lit() {
			blank = append(blank, xy)
			continue
		}
		c := color.RGBA{R: s.Color.R, G: s.Color.G, B: s.Color.B, A: 0xFF}
		if _, ok := lit[c]; !ok {
			order = append(order, c)
		}
		lit[c] = append(lit[c], xy)
	}

	if len(blank) > 0 {
		sc, err := plotter.NewScatter(blank)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = blankColor
		sc.GlyphStyle.Radius = vg.Points(1)
		p.Add(sc)
		p.Legend.Add("blanked", sc)
	}
	for _, c := range order {
		sc, err := plotter.NewScatter(lit[c])
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = c
		sc.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(sc)
	}
	return p, nil
}

// writePreviews renders one frame and saves frame_chN.png per head
func writePreviews(rig *demo.Rig, tick int, dir string) ([]string, error) {
	if err := rig.Render(tick); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	var files []string
	for i, beam := range rig.Beams {
		p, err := beamPlot(i, beam.Samples())
		if err != nil {
			return files, fmt.Errorf("head %d: %w", i, err)
		}
		file := filepath.Join(dir, fmt.Sprintf("frame_ch%d.png", i))
		if err := p.Save(6*vg.Inch, 6*vg.Inch, file); err != nil {
			return files, fmt.Errorf("save head %d plot: %w", i, err)
		}
		files = append(files, file)
	}
	return files, nil
}

func main() {
	flag.Parse()

	rig, err := demo.NewRig(*heads, *base)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	files, err := writePreviews(rig, *tick, *outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, f := range files {
		fmt.Println(f)
	}
}

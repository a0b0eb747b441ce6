package demo

import (
	"fmt"
	"math"
	"time"

	"galvo/frame"
	"galvo/geometry"
	"galvo/laser"
)

// Rig is a projector whose heads all write to recorders
type Rig struct {
	Registry *laser.Registry
	Manager  *frame.Manager
	Outputs  []*laser.Output
	Beams    []*Recorder
}

// NewRig attaches a recorder-backed output to the first heads channels.
// Toggle delays are skipped so frames render instantly.
func NewRig(heads int, base float64) (*Rig, error) {
	if heads < 1 || heads > laser.NumChannels {
		return nil, fmt.Errorf("demo: %d heads, want 1..%d", heads, laser.NumChannels)
	}
	reg := laser.NewRegistry()
	r := &Rig{
		Registry: reg,
		Manager:  frame.NewManager(reg, base),
	}
	for i := 0; i < heads; i++ {
		ch, err := reg.Channel(i)
		if err != nil {
			return nil, err
		}
		beam := &Recorder{}
		out := laser.NewOutput(ch, beam, beam)
		out.SetSleepFunc(func(time.Duration) {})
		if err := r.Manager.Attach(i, out); err != nil {
			return nil, err
		}
		r.Outputs = append(r.Outputs, out)
		r.Beams = append(r.Beams, beam)
	}
	return r, nil
}

// Render clears the recorders, queues one scene frame and draws it
func (r *Rig) Render(tick int) error {
	for _, b := range r.Beams {
		b.Reset()
	}
	if err := Scene(r.Manager, len(r.Beams), tick); err != nil {
		return err
	}
	return r.Manager.Draw()
}

// Scene inserts one frame of the demo show: a spinning pentagon on head 0,
// a square on head 1, a cube face tumbling through the 3D step on head 2
// and a circle on head 3. Shapes grow smaller with the head index so the
// paths differ in length.
func Scene(m *frame.Manager, heads, tick int) error {
	hue := (tick * 3) % 360
	spin := float64(tick) * math.Pi / 90
	shapes := []struct {
		sides  int
		radius float64
		spin   float64
	}{
		{5, 1400, spin},
		{4, 1000, math.Pi / 4},
		{4, 700, math.Pi / 4},
		{24, 400, 0},
	}
	for ch := 0; ch < heads && ch < len(shapes); ch++ {
		s := shapes[ch]
		color := laser.ColorFromHSL(hue+ch*90, 100, 50)
		var err error
		if ch == 2 {
			obj, _ := RegularObject(s.sides, s.radius, s.spin)
			rot := geometry.Rotation(float64(tick*2), float64(tick*3), 0)
			err = m.InsertObjectRotated3D(ch, obj, color, geometry.Center, geometry.Center, rot)
		} else {
			err = Polygon(m, ch, s.sides, s.radius, s.spin, color)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// RegularObject returns a closed regular polygon around the origin: a
// blanked vertex to start, then one lit edge per side.
func RegularObject(sides int, radius, phase float64) ([]laser.ObjectPoint, error) {
	if sides < 3 {
		return nil, fmt.Errorf("demo: polygon with %d sides", sides)
	}
	obj := make([]laser.ObjectPoint, 0, sides+1)
	for i := 0; i <= sides; i++ {
		a := phase + 2*math.Pi*float64(i%sides)/float64(sides)
		obj = append(obj, laser.ObjectPoint{
			X:  radius * math.Cos(a),
			Y:  radius * math.Sin(a),
			On: i > 0,
		})
	}
	return obj, nil
}

// Polygon inserts a closed regular polygon around the DAC center, ending
// blanked on the first vertex.
func Polygon(m *frame.Manager, ch, sides int, radius, phase float64, color laser.Color) error {
	obj, err := RegularObject(sides, radius, phase)
	if err != nil {
		return err
	}
	return m.InsertObject(ch, obj, color, geometry.Center, geometry.Center, 1)
}

// Keystone enables the warp on ch with the top edge of the reference quad
// pulled in by inset on both sides, the usual correction for a projector
// tilted upwards.
func Keystone(ch *laser.Channel, inset float64) error {
	q := laser.DefaultWarpQuad
	q[0].X += inset
	q[1].X -= inset
	if err := ch.SetWarpDestination(q); err != nil {
		return err
	}
	ch.SetWarpEnabled(true)
	return nil
}

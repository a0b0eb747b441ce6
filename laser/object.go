package laser

import "galvo/geometry"

// ObjectPoint is one vertex of a drawable polyline. On lights the segment
// that ends at the vertex.
type ObjectPoint struct {
	X, Y float64
	On   bool
}

// PlotFunc receives one placed vertex of an object
type PlotFunc func(x, y float64, color Color, on bool) error

// PlotObject scales every vertex of obj, translates it by (tx, ty) and
// hands it to plot. The last vertex is repeated blanked so the laser ends
// the object switched off.
func PlotObject(obj []ObjectPoint, color Color, tx, ty, scale float64, plot PlotFunc) error {
	if len(obj) == 0 {
		return nil
	}
	var x, y float64
	for _, p := range obj {
		x, y = p.X*scale+tx, p.Y*scale+ty
		if err := plot(x, y, color, p.On); err != nil {
			return err
		}
	}
	return plot(x, y, color, false)
}

// With3D runs fn with the 3D step enabled and the rotation set to m. The
// previous 3D state and matrix are restored afterwards.
func (c *Channel) With3D(m geometry.Matrix4, fn func() error) error {
	c.mu.Lock()
	prevEnabled, prevMatrix := c.cal.Enable3D, c.cal.Matrix
	c.cal.Enable3D, c.cal.Matrix = true, m
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.cal.Enable3D, c.cal.Matrix = prevEnabled, prevMatrix
		c.mu.Unlock()
	}()
	return fn()
}

// DrawObject draws obj scaled by scale and translated by (tx, ty)
func (t *Transform) DrawObject(obj []ObjectPoint, color Color, tx, ty, scale float64) error {
	return PlotObject(obj, color, tx, ty, scale, t.SendTo)
}

// DrawObjectRotated3D draws obj translated by (cx, cy) through the 3D step
// with rotation m, usually geometry.Rotation. The channel's 3D setting is only changed for the
// duration of the call.
func (t *Transform) DrawObjectRotated3D(obj []ObjectPoint, color Color, cx, cy float64, m geometry.Matrix4) error {
	return t.ch.With3D(m, func() error {
		return t.DrawObject(obj, color, cx, cy, 1)
	})
}

// Package laser owns the per-head state of the projector: calibration,
// the coordinate transform from virtual space to DAC codes, and the
// output stage that frames DAC writes and drives the diodes.
package laser

import (
	"errors"
	"sync"
	"time"

	"galvo/core"
	"galvo/geometry"
)

// Channel defaults
const (
	DefaultQuality     = 16
	DefaultToggleDelay = 500 * time.Microsecond
	DefaultZDist       = 10000
)

// DefaultWarpQuad is the reference quad used as the fixed warp source and
// as the initial warp destination.
var DefaultWarpQuad = geometry.QuadFromInts([8]int{1000, 1000, 3000, 1000, 3000, 3000, 1000, 3000})

// ErrChannelIndex is returned for a channel index outside 0..NumChannels-1
var ErrChannelIndex = errors.New("laser: channel index out of range")

// Mirroring holds the per-head axis flips applied at DAC conversion
type Mirroring struct {
	X      bool
	Y      bool
	SwapXY bool
}

// Calibration is a consistent copy of a channel's calibration fields.
type Calibration struct {
	ScaleX, ScaleY   float64
	OffsetX, OffsetY float64
	Mirror           Mirroring
	Clip             geometry.Region

	WarpEnabled bool
	WarpSource  geometry.Quad
	WarpDest    geometry.Quad
	Homography  geometry.Homography

	Quality     float64
	ToggleDelay time.Duration

	Enable3D bool
	Matrix   geometry.Matrix4
	ZDist    float64
}

// Place applies the optional 3D projection and then scale and offset,
// giving the unclipped target in DAC space.
func (c Calibration) Place(x, y float64) geometry.Point {
	p := geometry.Pt(x, y)
	if c.Enable3D {
		p = c.Matrix.Project(p, c.ZDist)
	}
	return geometry.Pt(p.X*c.ScaleX+c.OffsetX, p.Y*c.ScaleY+c.OffsetY)
}

// Warp maps p through the homography when warping is enabled
func (c Calibration) Warp(p geometry.Point) geometry.Point {
	if !c.WarpEnabled {
		return p
	}
	return c.Homography.Warp(p)
}

// Channel is one laser head. Calibration fields are written by a single
// calibration owner and read by the drawing path; every access goes
// through mu so readers always see a whole field group.
type Channel struct {
	index int

	mu  sync.RWMutex
	cal Calibration

	previous        geometry.Point // last unclipped target
	previousClipped geometry.Point // last emitted point
}

// NewChannel creates a channel with identity calibration and a full-range
// clip region.
func NewChannel(index int) *Channel {
	return &Channel{
		index: index,
		cal: Calibration{
			ScaleX:      1,
			ScaleY:      1,
			Clip:        geometry.FullRect,
			WarpSource:  DefaultWarpQuad,
			WarpDest:    DefaultWarpQuad,
			Homography:  geometry.IdentityHomography,
			Quality:     DefaultQuality,
			ToggleDelay: DefaultToggleDelay,
			Matrix:      geometry.Identity4(),
			ZDist:       DefaultZDist,
		},
	}
}

// Index returns the channel number
func (c *Channel) Index() int {
	return c.index
}

// Calibration returns a snapshot of the calibration fields
func (c *Channel) Calibration() Calibration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cal
}

// SetScale sets the per-axis scale factors
func (c *Channel) SetScale(sx, sy float64) {
	c.mu.Lock()
	c.cal.ScaleX, c.cal.ScaleY = sx, sy
	c.mu.Unlock()
}

// Scale returns the per-axis scale factors
func (c *Channel) Scale() (sx, sy float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cal.ScaleX, c.cal.ScaleY
}

// SetOffset sets the per-axis offsets, applied after scaling
func (c *Channel) SetOffset(ox, oy float64) {
	c.mu.Lock()
	c.cal.OffsetX, c.cal.OffsetY = ox, oy
	c.mu.Unlock()
}

// Offset returns the per-axis offsets
func (c *Channel) Offset() (ox, oy float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cal.OffsetX, c.cal.OffsetY
}

// SetMirroring sets the axis flips
func (c *Channel) SetMirroring(m Mirroring) {
	c.mu.Lock()
	c.cal.Mirror = m
	c.mu.Unlock()
}

// Mirroring returns the axis flips
func (c *Channel) Mirroring() Mirroring {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cal.Mirror
}

// SetClipRegion replaces the clip region. A nil region restores the full
// DAC range.
func (c *Channel) SetClipRegion(r geometry.Region) {
	if r == nil {
		r = geometry.FullRect
	}
	c.mu.Lock()
	c.cal.Clip = r
	c.mu.Unlock()
}

// ClipRegion returns the clip region
func (c *Channel) ClipRegion() geometry.Region {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cal.Clip
}

// SetClipQuad sets the clip region from four ordered corners
func (c *Channel) SetClipQuad(q geometry.Quad) {
	c.SetClipRegion(geometry.NewQuadRegion(q))
}

// SetClipTop replaces the first two clip corners
func (c *Channel) SetClipTop(p0, p1 geometry.Point) {
	c.mu.Lock()
	q := c.cal.Clip.Quad()
	q[0], q[1] = p0, p1
	c.cal.Clip = geometry.NewQuadRegion(q)
	c.mu.Unlock()
}

// SetClipBottom replaces the last two clip corners
func (c *Channel) SetClipBottom(p2, p3 geometry.Point) {
	c.mu.Lock()
	q := c.cal.Clip.Quad()
	q[2], q[3] = p2, p3
	c.cal.Clip = geometry.NewQuadRegion(q)
	c.mu.Unlock()
}

// SetWarpDestination sets the warp destination quad and re-derives the
// homography. On ErrDegenerateGeometry the previous quad and homography
// stay in effect.
func (c *Channel) SetWarpDestination(q geometry.Quad) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.installWarpLocked(q)
}

// SetWarpTop replaces the first two warp destination corners
func (c *Channel) SetWarpTop(p0, p1 geometry.Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.cal.WarpDest
	q[0], q[1] = p0, p1
	return c.installWarpLocked(q)
}

// SetWarpBottom replaces the last two warp destination corners
func (c *Channel) SetWarpBottom(p2, p3 geometry.Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.cal.WarpDest
	q[2], q[3] = p2, p3
	return c.installWarpLocked(q)
}

func (c *Channel) installWarpLocked(dst geometry.Quad) error {
	h, err := geometry.ComputeHomography(c.cal.WarpSource, dst)
	if err != nil {
		core.RecordTiming(core.EvtWarpRejected, uint8(c.index), core.GetTime(), 0, 0)
		return err
	}
	c.cal.WarpDest = dst
	c.cal.Homography = h
	return nil
}

// WarpDestination returns the warp destination quad
func (c *Channel) WarpDestination() geometry.Quad {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cal.WarpDest
}

// Homography returns the active warp homography
func (c *Channel) Homography() geometry.Homography {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cal.Homography
}

// SetWarpEnabled switches the perspective warp on or off
func (c *Channel) SetWarpEnabled(enabled bool) {
	c.mu.Lock()
	c.cal.WarpEnabled = enabled
	c.mu.Unlock()
}

// SetQuality sets the interpolation step size. Values below 1 are raised
// to 1.
func (c *Channel) SetQuality(q float64) {
	if q < 1 {
		q = 1
	}
	c.mu.Lock()
	c.cal.Quality = q
	c.mu.Unlock()
}

// Quality returns the interpolation step size
func (c *Channel) Quality() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cal.Quality
}

// SetToggleDelay sets the settle time waited when emission changes state
func (c *Channel) SetToggleDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.mu.Lock()
	c.cal.ToggleDelay = d
	c.mu.Unlock()
}

// ToggleDelay returns the laser toggle settle time
func (c *Channel) ToggleDelay() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cal.ToggleDelay
}

// Enable3D switches the rotation and perspective step on or off
func (c *Channel) Enable3D(enabled bool) {
	c.mu.Lock()
	c.cal.Enable3D = enabled
	c.mu.Unlock()
}

// SetMatrix sets the 3D rotation applied about the center of the range
func (c *Channel) SetMatrix(m geometry.Matrix4) {
	c.mu.Lock()
	c.cal.Matrix = m
	c.mu.Unlock()
}

// SetZDist sets the viewer distance used for the perspective divide
func (c *Channel) SetZDist(z float64) {
	c.mu.Lock()
	c.cal.ZDist = z
	c.mu.Unlock()
}

// SetPreviousPosition sets the last unclipped target
func (c *Channel) SetPreviousPosition(p geometry.Point) {
	c.mu.Lock()
	c.previous = p
	c.mu.Unlock()
}

// PreviousPosition returns the last unclipped target
func (c *Channel) PreviousPosition() geometry.Point {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.previous
}

// SetPreviousClippedPosition sets the last emitted point
func (c *Channel) SetPreviousClippedPosition(p geometry.Point) {
	c.mu.Lock()
	c.previousClipped = p
	c.mu.Unlock()
}

// PreviousClippedPosition returns the last emitted point
func (c *Channel) PreviousClippedPosition() geometry.Point {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.previousClipped
}

// ResetPosition places both positions at p, as after a blanked jump
func (c *Channel) ResetPosition(p geometry.Point) {
	c.mu.Lock()
	c.previous = p
	c.previousClipped = p
	c.mu.Unlock()
}

// advance clips the segment from the previous unclipped target to target
// against region and updates both positions. from is the previously
// emitted point. A rejected segment leaves previousClipped untouched.
func (c *Channel) advance(region geometry.Region, target geometry.Point) (from, entry, exit geometry.Point, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	from = c.previousClipped
	entry, exit, ok = region.Clip(c.previous, target)
	c.previous = target
	if ok {
		c.previousClipped = exit
	}
	return from, entry, exit, ok
}

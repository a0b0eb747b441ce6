package laser

import (
	"fmt"
	"time"

	"galvo/geometry"
)

// NumChannels is the number of laser heads the controller drives
const NumChannels = 4

// CalibrationStore is the calibration surface seen by the configuration
// side of the projector, addressed by channel index.
type CalibrationStore interface {
	Scale(ch int) (sx, sy float64, err error)
	SetScale(ch int, sx, sy float64) error
	Offset(ch int) (ox, oy float64, err error)
	SetOffset(ch int, ox, oy float64) error
	Mirroring(ch int) (Mirroring, error)
	SetMirroring(ch int, m Mirroring) error
	ClipRegion(ch int) (geometry.Region, error)
	SetClipRegion(ch int, r geometry.Region) error
	WarpDestination(ch int) (geometry.Quad, error)
	SetWarpDestination(ch int, q geometry.Quad) error
	Quality(ch int) (float64, error)
	SetQuality(ch int, q float64) error
	ToggleDelay(ch int) (time.Duration, error)
	SetToggleDelay(ch int, d time.Duration) error
}

// Registry owns the fixed set of channels for the life of the process
type Registry struct {
	channels [NumChannels]*Channel
}

var _ CalibrationStore = (*Registry)(nil)

// NewRegistry creates all channels with default calibration
func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.channels {
		r.channels[i] = NewChannel(i)
	}
	return r
}

// Channel returns the channel with the given index
func (r *Registry) Channel(ch int) (*Channel, error) {
	if ch < 0 || ch >= NumChannels {
		return nil, fmt.Errorf("%w: %d", ErrChannelIndex, ch)
	}
	return r.channels[ch], nil
}

// Channels returns every channel in index order
func (r *Registry) Channels() []*Channel {
	return r.channels[:]
}

// Scale implements CalibrationStore
func (r *Registry) Scale(ch int) (float64, float64, error) {
	c, err := r.Channel(ch)
	if err != nil {
		return 0, 0, err
	}
	sx, sy := c.Scale()
	return sx, sy, nil
}

// SetScale implements CalibrationStore
func (r *Registry) SetScale(ch int, sx, sy float64) error {
	c, err := r.Channel(ch)
	if err != nil {
		return err
	}
	c.SetScale(sx, sy)
	return nil
}

// Offset implements CalibrationStore
func (r *Registry) Offset(ch int) (float64, float64, error) {
	c, err := r.Channel(ch)
	if err != nil {
		return 0, 0, err
	}
	ox, oy := c.Offset()
	return ox, oy, nil
}

// SetOffset implements CalibrationStore
func (r *Registry) SetOffset(ch int, ox, oy float64) error {
	c, err := r.Channel(ch)
	if err != nil {
		return err
	}
	c.SetOffset(ox, oy)
	return nil
}

// Mirroring implements CalibrationStore
func (r *Registry) Mirroring(ch int) (Mirroring, error) {
	c, err := r.Channel(ch)
	if err != nil {
		return Mirroring{}, err
	}
	return c.Mirroring(), nil
}

// SetMirroring implements CalibrationStore
func (r *Registry) SetMirroring(ch int, m Mirroring) error {
	c, err := r.Channel(ch)
	if err != nil {
		return err
	}
	c.SetMirroring(m)
	return nil
}

// ClipRegion implements CalibrationStore
func (r *Registry) ClipRegion(ch int) (geometry.Region, error) {
	c, err := r.Channel(ch)
	if err != nil {
		return nil, err
	}
	return c.ClipRegion(), nil
}

// SetClipRegion implements CalibrationStore
func (r *Registry) SetClipRegion(ch int, region geometry.Region) error {
	c, err := r.Channel(ch)
	if err != nil {
		return err
	}
	c.SetClipRegion(region)
	return nil
}

// WarpDestination implements CalibrationStore
func (r *Registry) WarpDestination(ch int) (geometry.Quad, error) {
	c, err := r.Channel(ch)
	if err != nil {
		return geometry.Quad{}, err
	}
	return c.WarpDestination(), nil
}

// SetWarpDestination implements CalibrationStore
func (r *Registry) SetWarpDestination(ch int, q geometry.Quad) error {
	c, err := r.Channel(ch)
	if err != nil {
		return err
	}
	if err := c.SetWarpDestination(q); err != nil {
		return fmt.Errorf("channel %d warp: %w", ch, err)
	}
	return nil
}

// Quality implements CalibrationStore
func (r *Registry) Quality(ch int) (float64, error) {
	c, err := r.Channel(ch)
	if err != nil {
		return 0, err
	}
	return c.Quality(), nil
}

// SetQuality implements CalibrationStore
func (r *Registry) SetQuality(ch int, q float64) error {
	c, err := r.Channel(ch)
	if err != nil {
		return err
	}
	c.SetQuality(q)
	return nil
}

// ToggleDelay implements CalibrationStore
func (r *Registry) ToggleDelay(ch int) (time.Duration, error) {
	c, err := r.Channel(ch)
	if err != nil {
		return 0, err
	}
	return c.ToggleDelay(), nil
}

// SetToggleDelay implements CalibrationStore
func (r *Registry) SetToggleDelay(ch int, d time.Duration) error {
	c, err := r.Channel(ch)
	if err != nil {
		return err
	}
	c.SetToggleDelay(d)
	return nil
}

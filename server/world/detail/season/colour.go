package season

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Colour is an RGBA colour with channels in the range 0-1.
type Colour mgl64.Vec4

// RGB returns an opaque colour from 8-bit channels.
func RGB(r, g, b uint8) Colour {
	return Colour{float64(r) / 255, float64(g) / 255, float64(b) / 255, 1}
}

// ParseColour parses a colour in the #rrggbb or #rrggbbaa notation.
func ParseColour(s string) (Colour, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return Colour{}, fmt.Errorf("parse colour %q: expected #rrggbb or #rrggbbaa", s)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Colour{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return Colour{
		float64(v>>24&0xff) / 255,
		float64(v>>16&0xff) / 255,
		float64(v>>8&0xff) / 255,
		float64(v&0xff) / 255,
	}, nil
}

// Hex returns the colour in #rrggbbaa notation.
func (c Colour) Hex() string {
	b := func(f float64) uint8 {
		return uint8(mgl64.Clamp(f, 0, 1)*255 + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", b(c[0]), b(c[1]), b(c[2]), b(c[3]))
}

// Lerp linearly interpolates between c and o. t is clamped to 0-1.
func (c Colour) Lerp(o Colour, t float64) Colour {
	t = mgl64.Clamp(t, 0, 1)
	a := mgl64.Vec4(c)
	return Colour(a.Add(mgl64.Vec4(o).Sub(a).Mul(t)))
}

// ApproxEqual reports if c and o are equal within a small threshold.
func (c Colour) ApproxEqual(o Colour) bool {
	return mgl64.Vec4(c).ApproxEqualThreshold(mgl64.Vec4(o), 1e-9)
}

// Pair holds the healthy and dry variant of a colour. Renderers blend between
// the two using noise to avoid uniform patches of grass.
type Pair struct {
	Healthy, Dry Colour
}

// Lerp interpolates both colours of the pair.
func (p Pair) Lerp(o Pair, t float64) Pair {
	return Pair{Healthy: p.Healthy.Lerp(o.Healthy, t), Dry: p.Dry.Lerp(o.Dry, t)}
}

// Keyframes are the colours of a detail layer anchored to the seasons.
type Keyframes struct {
	Spring, Summer, Fall Pair
}

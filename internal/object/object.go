package object

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tomz197/shooter/internal/physics"
)

// Point is an alias for the physics package's Point type.
type Point = physics.Point

// Rand is the random source used for spawning and colors.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Bounds is the rectangular play area with its origin at the top-left corner.
type Bounds struct {
	Width  float64
	Height float64
}

// Contains reports whether p lies inside the play area (edges included).
func (b Bounds) Contains(p Point) bool {
	return p.X >= 0 && p.X <= b.Width && p.Y >= 0 && p.Y <= b.Height
}

// Clamp coerces p into the play area.
func (b Bounds) Clamp(p Point) Point {
	return Point{
		X: physics.Clamp(p.X, 0, b.Width),
		Y: physics.Clamp(p.Y, 0, b.Height),
	}
}

// Color is an 8-bit RGB color carried by entities for the renderers.
type Color struct {
	R, G, B uint8
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalText encodes the color as #rrggbb so snapshots carry CSS colors.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText decodes a #rrggbb color.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := colorful.Hex(string(text))
	if err != nil {
		return fmt.Errorf("color %q: %w", text, err)
	}
	c.R, c.G, c.B = parsed.RGB255()
	return nil
}

// Palette colors for entities that don't get a random hue.
var (
	ColorWhite = Color{R: 255, G: 255, B: 255}
	ColorGray  = Color{R: 128, G: 128, B: 128}
)

// RandomColor returns a saturated color with a random hue.
func RandomColor(rng Rand) Color {
	return hslColor(rng.Float64() * 360)
}

// hslColor converts a hue to the fixed saturation/lightness entity palette.
func hslColor(hue float64) Color {
	r, g, b := colorful.Hsl(hue, 0.8, 0.6).Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

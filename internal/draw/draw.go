// Package draw renders colored shapes to ANSI terminals using half-block
// characters for double vertical resolution.
package draw

import (
	"strconv"
	"strings"

	"github.com/tomz197/shooter/internal/object"
	"github.com/tomz197/shooter/internal/physics"
)

// Point represents a 2D coordinate in logical canvas space.
type Point = physics.Point

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ANSI style sequences.
const (
	StyleReset = "\033[0m"
	bgDefault  = "\033[49m"
)

// writeFg appends a 24-bit foreground color sequence.
func writeFg(b *strings.Builder, c object.Color) {
	writeRGB(b, "\033[38;2;", c)
}

// writeBg appends a 24-bit background color sequence.
func writeBg(b *strings.Builder, c object.Color) {
	writeRGB(b, "\033[48;2;", c)
}

func writeRGB(b *strings.Builder, prefix string, c object.Color) {
	var num [3]byte
	b.WriteString(prefix)
	b.Write(strconv.AppendUint(num[:0], uint64(c.R), 10))
	b.WriteByte(';')
	b.Write(strconv.AppendUint(num[:0], uint64(c.G), 10))
	b.WriteByte(';')
	b.Write(strconv.AppendUint(num[:0], uint64(c.B), 10))
	b.WriteByte('m')
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

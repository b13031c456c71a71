package draw

import (
	"math"

	"github.com/tomz197/shooter/internal/physics"
)

// FillCircle draws a filled circle in logical coordinates. Circles smaller
// than a pixel still set the pixel under their center.
func (c *Canvas) FillCircle(center Point, radius float64) {
	cx, cy := center.X*c.scaleX, center.Y*c.scaleY
	rx, ry := radius*c.scaleX, radius*c.scaleY
	if rx < 0.5 || ry < 0.5 {
		c.setPixel(int(math.Floor(cx)), int(math.Floor(cy)))
		return
	}

	yStart, yEnd := int(math.Floor(cy-ry)), int(math.Ceil(cy+ry))
	xStart, xEnd := int(math.Floor(cx-rx)), int(math.Ceil(cx+rx))
	drawn := false
	for y := max(yStart, 0); y <= min(yEnd, c.subPixelHeight-1); y++ {
		dy := (float64(y) + 0.5 - cy) / ry
		for x := max(xStart, 0); x <= min(xEnd, c.termWidth-1); x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			if dx*dx+dy*dy <= 1 {
				c.setPixel(x, y)
				drawn = true
			}
		}
	}
	if !drawn {
		c.setPixel(int(math.Floor(cx)), int(math.Floor(cy)))
	}
}

// StrokeCircle draws the outline of a circle in logical coordinates.
func (c *Canvas) StrokeCircle(center Point, radius float64) {
	rx, ry := radius*c.scaleX, radius*c.scaleY
	steps := max(12, int(2*math.Pi*max(rx, ry)*1.5))
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c.SetFloat(center.X+radius*math.Cos(a), center.Y+radius*math.Sin(a))
	}
}

// FillBar draws a filled bar of the given length and half width starting at
// from and pointing along angle (radians).
func (c *Canvas) FillBar(from Point, angle, length, halfWidth float64) {
	dir := physics.FromAngle(angle, 1)
	side := Point{X: -dir.Y, Y: dir.X}.Scale(halfWidth)
	to := from.Add(dir.Scale(length))

	quad := c.BorrowPoints(4)
	quad[0] = from.Add(side)
	quad[1] = to.Add(side)
	quad[2] = to.Sub(side)
	quad[3] = from.Sub(side)
	c.DrawPolygon(quad, true)
}

// DashedHLine draws a dashed horizontal line at logical height y.
func (c *Canvas) DashedHLine(y float64, dash int) {
	py := int(math.Floor(y * c.scaleY))
	dash = max(dash, 1)
	for x := 0; x < c.termWidth; x++ {
		if (x/dash)%2 == 0 {
			c.setPixel(x, py)
		}
	}
}

package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// Pen carries the colour, mix and width used by the outline primitives.
type Pen struct {
	Color color.RGBA
	Mix   Mix
	Width int
}

func (p Pen) width() int {
	if p.Width <= 0 {
		return 1
	}
	return p.Width
}

// dot paints a square pen centred at x, y.
func dot(fb *FrameBuffer, x, y int, p Pen) {
	w := p.width()
	if w == 1 {
		fb.SetPixel(x, y, p.Color, p.Mix)
		return
	}
	fb.FillRectMix(x-w/2, y-w/2, w, w, p.Color, p.Mix)
}

// Line draws from x1, y1 to x2, y2 inclusive.
func Line(fb *FrameBuffer, x1, y1, x2, y2 int, p Pen) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	for {
		dot(fb, x1, y1, p)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

// Rect outlines the rectangle with corners x1, y1 and x2, y2 inclusive.
func Rect(fb *FrameBuffer, x1, y1, x2, y2 int, p Pen) {
	x1, y1, x2, y2 = order(x1, y1, x2, y2)
	w := p.width()
	fb.FillRectMix(x1, y1, x2-x1+1, w, p.Color, p.Mix)
	fb.FillRectMix(x1, y2-w+1, x2-x1+1, w, p.Color, p.Mix)
	fb.FillRectMix(x1, y1+w, w, y2-y1+1-2*w, p.Color, p.Mix)
	fb.FillRectMix(x2-w+1, y1+w, w, y2-y1+1-2*w, p.Color, p.Mix)
}

func FillRect(fb *FrameBuffer, x1, y1, x2, y2 int, c color.RGBA, m Mix) {
	x1, y1, x2, y2 = order(x1, y1, x2, y2)
	fb.FillRectMix(x1, y1, x2-x1+1, y2-y1+1, c, m)
}

// Ellipse outlines the ellipse inscribed in the given box.
func Ellipse(fb *FrameBuffer, x1, y1, x2, y2 int, p Pen) {
	pts := ellipsePoints(x1, y1, x2, y2, 0, 360)
	polyline(fb, pts, p, true)
}

func FillEllipse(fb *FrameBuffer, x1, y1, x2, y2 int, c color.RGBA, m Mix) {
	FillPolygon(fb, ellipsePoints(x1, y1, x2, y2, 0, 360), c, m)
}

// Arc outlines the part of the inscribed ellipse between the two angles, in
// degrees clockwise from twelve o'clock.
func Arc(fb *FrameBuffer, x1, y1, x2, y2 int, start, end float64, p Pen) {
	polyline(fb, ellipsePoints(x1, y1, x2, y2, start, end), p, false)
}

// FillArc fills the pie wedge between the two angles.
func FillArc(fb *FrameBuffer, x1, y1, x2, y2 int, start, end float64, c color.RGBA, m Mix) {
	x1, y1, x2, y2 = order(x1, y1, x2, y2)
	pts := ellipsePoints(x1, y1, x2, y2, start, end)
	centre := image.Pt((x1+x2)/2, (y1+y2)/2)
	FillPolygon(fb, append([]image.Point{centre}, pts...), c, m)
}

// RoundRect outlines a rectangle whose corners are quarter ellipses with
// radii rx, ry.
func RoundRect(fb *FrameBuffer, x1, y1, x2, y2, rx, ry int, p Pen) {
	polyline(fb, roundRectPoints(x1, y1, x2, y2, rx, ry), p, true)
}

func FillRoundRect(fb *FrameBuffer, x1, y1, x2, y2, rx, ry int, c color.RGBA, m Mix) {
	FillPolygon(fb, roundRectPoints(x1, y1, x2, y2, rx, ry), c, m)
}

// FillPolygon rasterises the closed polygon and combines it into fb.
func FillPolygon(fb *FrameBuffer, pts []image.Point, c color.RGBA, m Mix) {
	if len(pts) < 3 || m == MixInvisible {
		return
	}
	r := image.Rectangle{Min: pts[0], Max: pts[0]}
	for _, pt := range pts[1:] {
		r = r.Union(image.Rectangle{Min: pt, Max: pt})
	}
	r.Max = r.Max.Add(image.Pt(1, 1))
	clip := r.Intersect(fb.Bounds())
	if clip.Empty() {
		return
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	fx := func(pt image.Point) (float32, float32) {
		return float32(pt.X-r.Min.X) + 0.5, float32(pt.Y-r.Min.Y) + 0.5
	}
	x, y := fx(pts[0])
	z.MoveTo(x, y)
	for _, pt := range pts[1:] {
		x, y = fx(pt)
		z.LineTo(x, y)
	}
	z.ClosePath()
	mask := image.NewAlpha(image.Rect(0, 0, r.Dx(), r.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	for yy := clip.Min.Y; yy < clip.Max.Y; yy++ {
		for xx := clip.Min.X; xx < clip.Max.X; xx++ {
			if mask.AlphaAt(xx-r.Min.X, yy-r.Min.Y).A >= 0x80 {
				fb.SetPixel(xx, yy, c, m)
			}
		}
	}
}

func polyline(fb *FrameBuffer, pts []image.Point, p Pen, closed bool) {
	if len(pts) == 0 {
		return
	}
	// xor must touch each pixel once, so plot into a mask first.
	if p.Mix == MixXor {
		mask := &FrameBuffer{W: fb.W, H: fb.H, Pixels: make([]uint8, len(fb.Pixels))}
		mp := Pen{Color: color.RGBA{A: 0xff}, Width: p.Width}
		polyline(mask, pts, mp, closed)
		for y := 0; y < mask.H; y++ {
			for x := 0; x < mask.W; x++ {
				if mask.Pixels[(y*mask.W+x)*4+3] != 0 {
					fb.SetPixel(x, y, p.Color, MixXor)
				}
			}
		}
		return
	}
	for i := 1; i < len(pts); i++ {
		Line(fb, pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, p)
	}
	if closed && len(pts) > 2 {
		last := pts[len(pts)-1]
		Line(fb, last.X, last.Y, pts[0].X, pts[0].Y, p)
	}
}

func ellipsePoints(x1, y1, x2, y2 int, start, end float64) []image.Point {
	x1, y1, x2, y2 = order(x1, y1, x2, y2)
	cx := float64(x1+x2) / 2
	cy := float64(y1+y2) / 2
	rx := float64(x2-x1) / 2
	ry := float64(y2-y1) / 2
	for end < start {
		end += 360
	}
	steps := int(math.Max(rx, ry)*(end-start)/45) + 8
	pts := make([]image.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		a := (start + (end-start)*float64(i)/float64(steps)) * math.Pi / 180
		x := cx + rx*math.Sin(a)
		y := cy - ry*math.Cos(a)
		pt := image.Pt(int(math.Round(x)), int(math.Round(y)))
		if len(pts) > 0 && pts[len(pts)-1] == pt {
			continue
		}
		pts = append(pts, pt)
	}
	return pts
}

func roundRectPoints(x1, y1, x2, y2, rx, ry int) []image.Point {
	x1, y1, x2, y2 = order(x1, y1, x2, y2)
	rx = min(rx, (x2-x1)/2)
	ry = min(ry, (y2-y1)/2)
	var pts []image.Point
	corner := func(cx, cy int, from float64) {
		pts = append(pts, ellipsePoints(cx-rx, cy-ry, cx+rx, cy+ry, from, from+90)...)
	}
	corner(x2-rx, y1+ry, 0)
	corner(x2-rx, y2-ry, 90)
	corner(x1+rx, y2-ry, 180)
	corner(x1+rx, y1+ry, 270)
	return pts
}

func order(x1, y1, x2, y2 int) (int, int, int, int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return x1, y1, x2, y2
}

package ui

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme holds the colours native controls are painted with.
type Theme struct {
	Face      color.RGBA
	Light     color.RGBA
	Shadow    color.RGBA
	Text      color.RGBA
	Field     color.RGBA
	Accent    color.RGBA
	Selection color.RGBA
	Border    color.RGBA
}

func DefaultTheme() Theme {
	return Theme{
		Face:      color.RGBA{0xE2, 0xE7, 0xEF, 0xFF},
		Light:     color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		Shadow:    color.RGBA{0xC8, 0xCF, 0xDB, 0xFF},
		Text:      color.RGBA{0x1A, 0x1F, 0x2B, 0xFF},
		Field:     color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		Accent:    color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		Selection: color.RGBA{0xB5, 0xCC, 0xEE, 0xFF},
		Border:    color.RGBA{0xB2, 0xBF, 0xD0, 0xFF},
	}
}

// DisabledText is the text colour blended halfway into the face colour.
func (t Theme) DisabledText() color.RGBA {
	return Blend(t.Text, t.Face, 0.5)
}

// Blend mixes a towards b by f in CIE L*a*b* space.
func Blend(a, b color.RGBA, f float64) color.RGBA {
	ca, _ := colorful.MakeColor(a)
	cb, _ := colorful.MakeColor(b)
	r, g, bl := ca.BlendLab(cb, f).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: bl, A: 0xff}
}

// Ratio builds a colour from red, green and blue ratios in [0, 1]. Values
// outside the range are clamped.
func Ratio(r, g, b float64) color.RGBA {
	c := colorful.Color{R: r, G: g, B: b}.Clamped()
	cr, cg, cb := c.RGB255()
	return color.RGBA{R: cr, G: cg, B: cb, A: 0xff}
}

// Named colours.
var palette = map[string]color.RGBA{
	"black":     {0x00, 0x00, 0x00, 0xff},
	"white":     {0xff, 0xff, 0xff, 0xff},
	"red":       {0xff, 0x00, 0x00, 0xff},
	"green":     {0x00, 0xff, 0x00, 0xff},
	"blue":      {0x00, 0x00, 0xff, 0xff},
	"cyan":      {0x00, 0xff, 0xff, 0xff},
	"yellow":    {0xff, 0xff, 0x00, 0xff},
	"magenta":   {0xff, 0x00, 0xff, 0xff},
	"backcolor": {0xE2, 0xE7, 0xEF, 0xff},
}

// Named returns the colour called name, or false.
func Named(name string) (color.RGBA, bool) {
	c, ok := palette[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

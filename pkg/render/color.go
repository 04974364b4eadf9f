package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses a style string: "#rrggbb" or "rgb(r, g, b)".
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
	}

	if strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")") {
		body := strings.ReplaceAll(s[len("rgb("):len(s)-1], " ", "")
		var r, g, b int
		if _, err := fmt.Sscanf(body, "%d,%d,%d", &r, &g, &b); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid rgb colour %q: %w", s, err)
		}
		for _, v := range []int{r, g, b} {
			if v < 0 || v > 255 {
				return color.RGBA{}, fmt.Errorf("rgb component out of range in %q", s)
			}
		}
		return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}, nil
	}

	return color.RGBA{}, fmt.Errorf("unsupported colour format %q", s)
}

// WithOpacity scales a colour's alpha (and, being premultiplied, its
// channels) by opacity.
func WithOpacity(c color.Color, opacity float64) color.RGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	r, g, b, a := c.RGBA()
	scale := func(v uint32) uint8 {
		return uint8(float64(v>>8) * opacity)
	}
	return color.RGBA{R: scale(r), G: scale(g), B: scale(b), A: scale(a)}
}

// Package csscolor parses the CSS color literals that appear in Tailwind
// class values and theme files.
package csscolor

import (
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA is an 8-bit color with straight alpha.
type RGBA struct {
	R, G, B, A uint8
}

// Opaque returns c with full alpha.
func Opaque(r, g, b uint8) RGBA {
	return RGBA{R: r, G: g, B: b, A: 255}
}

// Hex returns the #rrggbb form of c, ignoring alpha.
func (c RGBA) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// String returns a CSS literal: #rrggbb when opaque, rgb(r g b / a) otherwise.
func (c RGBA) String() string {
	if c.A == 255 {
		return c.Hex()
	}
	alpha := math.Round(float64(c.A)/255*100) / 100
	return "rgb(" + strconv.Itoa(int(c.R)) + " " + strconv.Itoa(int(c.G)) + " " +
		strconv.Itoa(int(c.B)) + " / " + strconv.FormatFloat(alpha, 'f', -1, 64) + ")"
}

// WithOpacity scales the alpha channel by opacity percent (0-100).
func (c RGBA) WithOpacity(opacity int) RGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 100 {
		opacity = 100
	}
	c.A = uint8(math.Round(float64(c.A) * float64(opacity) / 100))
	return c
}

// Parse accepts a hex literal or an rgb()/rgba() function.
func Parse(s string) (RGBA, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return ParseHex(s)
	}
	return ParseRGB(s)
}

// ParseHex parses #rgb, #rgba, #rrggbb and #rrggbbaa.
func ParseHex(s string) (RGBA, bool) {
	digits, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok {
		return RGBA{}, false
	}
	for i := 0; i < len(digits); i++ {
		if !isHexDigit(digits[i]) {
			return RGBA{}, false
		}
	}

	var rgb, alpha string
	switch len(digits) {
	case 3, 6:
		rgb = digits
	case 4:
		rgb, alpha = digits[:3], digits[3:]+digits[3:]
	case 8:
		rgb, alpha = digits[:6], digits[6:]
	default:
		return RGBA{}, false
	}

	col, err := colorful.Hex("#" + strings.ToLower(rgb))
	if err != nil {
		return RGBA{}, false
	}
	r, g, b := col.RGB255()
	out := Opaque(r, g, b)
	if alpha != "" {
		a, err := strconv.ParseUint(alpha, 16, 8)
		if err != nil {
			return RGBA{}, false
		}
		out.A = uint8(a)
	}
	return out, true
}

// ParseRGB parses rgb()/rgba() with space, comma or slash separators. The
// fourth component is either a 0-1 float or a percentage.
func ParseRGB(s string) (RGBA, bool) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	var inner string
	switch {
	case strings.HasPrefix(lower, "rgba(") && strings.HasSuffix(s, ")"):
		inner = s[len("rgba(") : len(s)-1]
	case strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(s, ")"):
		inner = s[len("rgb(") : len(s)-1]
	default:
		return RGBA{}, false
	}

	parts := strings.FieldsFunc(inner, func(r rune) bool {
		return r == ',' || r == '/' || r == ' ' || r == '\t'
	})
	if len(parts) != 3 && len(parts) != 4 {
		return RGBA{}, false
	}

	var channels [3]uint8
	for i := range 3 {
		v, ok := parseChannel(parts[i])
		if !ok {
			return RGBA{}, false
		}
		channels[i] = v
	}
	out := Opaque(channels[0], channels[1], channels[2])
	if len(parts) == 4 {
		a, ok := parseAlpha(parts[3])
		if !ok {
			return RGBA{}, false
		}
		out.A = a
	}
	return out, true
}

func parseChannel(s string) (uint8, bool) {
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil || v < 0 || v > 100 {
			return 0, false
		}
		return uint8(math.Round(v / 100 * 255)), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 255 {
		return 0, false
	}
	return uint8(math.Round(v)), true
}

func parseAlpha(s string) (uint8, bool) {
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil || v < 0 || v > 100 {
			return 0, false
		}
		return uint8(math.Round(v / 100 * 255)), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 1 {
		return 0, false
	}
	return uint8(math.Round(v * 255)), true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Package color holds the hex, RGB and HSL conversions shared by the site
// inspector and the branding extractor.
package color

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// RGB is a color with 8-bit channels.
type RGB struct {
	R, G, B int
}

// String formats the color as a CSS rgb() value.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex formats the color as a lowercase 6-digit hex code with a leading '#'.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.R), clamp(c.G), clamp(c.B))
}

// Fractions returns each channel scaled to [0,1].
func (c RGB) Fractions() (r, g, b float64) {
	return float64(clamp(c.R)) / 255, float64(clamp(c.G)) / 255, float64(clamp(c.B)) / 255
}

// HSL is a color in hue/saturation/lightness space.
// H is in degrees [0,360], S and L are percentages [0,100], all rounded.
type HSL struct {
	H, S, L int
}

// String formats the color as a CSS hsl() value.
func (c HSL) String() string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", c.H, c.S, c.L)
}

var (
	rgbPattern = regexp.MustCompile(`rgba?\((\d+),\s*(\d+),\s*(\d+)(?:,\s*[\d.]+)?\)`)
	hexPattern = regexp.MustCompile(`#([a-fA-F0-9]{3,8})`)
	sixDigit   = regexp.MustCompile(`^#?([a-fA-F\d]{2})([a-fA-F\d]{2})([a-fA-F\d]{2})$`)
)

// ParseCSS parses a computed-style color value. It accepts rgb()/rgba()
// and hex in 3, 4, 6 or 8 digit form. Alpha is ignored. The returned hex is
// normalized to lowercase 6-digit form.
func ParseCSS(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" || value == "transparent" || value == "none" {
		return "", false
	}

	if m := rgbPattern.FindStringSubmatch(value); m != nil {
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		return RGB{R: r, G: g, B: b}.Hex(), true
	}

	if m := hexPattern.FindStringSubmatch(value); m != nil {
		return NormalizeHex("#" + m[1])
	}

	return "", false
}

// NormalizeHex expands 3/4 digit shorthand, drops the alpha channel of 4/8
// digit forms and lowercases the result. Five and seven digit inputs are rejected.
func NormalizeHex(hex string) (string, bool) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	for _, ch := range h {
		if !isHexDigit(ch) {
			return "", false
		}
	}

	switch len(h) {
	case 3, 4:
		var b strings.Builder
		for _, ch := range h[:3] {
			b.WriteRune(ch)
			b.WriteRune(ch)
		}
		h = b.String()
	case 6, 8:
		h = h[:6]
	default:
		return "", false
	}

	return "#" + strings.ToLower(h), true
}

// HexToRGB converts a 6-digit hex code (leading '#' optional).
func HexToRGB(hex string) (RGB, bool) {
	m := sixDigit.FindStringSubmatch(strings.TrimSpace(hex))
	if m == nil {
		return RGB{}, false
	}
	r, _ := strconv.ParseInt(m[1], 16, 0)
	g, _ := strconv.ParseInt(m[2], 16, 0)
	b, _ := strconv.ParseInt(m[3], 16, 0)
	return RGB{R: int(r), G: int(g), B: int(b)}, true
}

// ToHSL converts to HSL with components rounded to whole numbers.
func (c RGB) ToHSL() HSL {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	l := (maxC + minC) / 2

	var h, s float64
	if maxC != minC {
		d := maxC - minC
		if l > 0.5 {
			s = d / (2 - maxC - minC)
		} else {
			s = d / (maxC + minC)
		}

		switch maxC {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		default:
			h = (r-g)/d + 4
		}
		h /= 6
	}

	return HSL{
		H: int(math.Round(h * 360)),
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// HexToHSL converts a 6-digit hex code. Invalid input yields the zero HSL.
func HexToHSL(hex string) HSL {
	rgb, ok := HexToRGB(hex)
	if !ok {
		return HSL{}
	}
	return rgb.ToHSL()
}

// IsVibrant reports whether saturation is above 50% and lightness is
// strictly between 30% and 80%.
func IsVibrant(hex string) bool {
	hsl := HexToHSL(hex)
	return hsl.S > 50 && hsl.L > 30 && hsl.L < 80
}

// Equal compares two hex codes ignoring case and a leading '#'.
func Equal(a, b string) bool {
	return strings.EqualFold(strings.TrimPrefix(a, "#"), strings.TrimPrefix(b, "#"))
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Package canvas implements the value types and per-canvas element store
// shared by every room: colors, elements, and the canvas they live on.
package canvas

import (
	"fmt"
	"math/rand"
	"strings"
)

// Color is a normalized #rrggbbaa hex color, always lower-case and always
// eight hex digits including alpha.
type Color string

// palette is offered to joining users who don't specify a color.
var palette = []Color{
	"#ef4444ff", "#f97316ff", "#eab308ff", "#84cc16ff", "#10b981ff",
	"#06b6d4ff", "#6366f1ff", "#a855f7ff", "#e879f9ff",
}

// ParseColor accepts #rgb, #rgba, #rrggbb, or #rrggbbaa (the leading hash is
// optional) and normalizes it to lower-case #rrggbbaa. A missing alpha
// channel defaults to ff (opaque).
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")

	var r, g, b, a string
	switch len(s) {
	case 3, 4:
		r, g, b = s[0:1]+s[0:1], s[1:2]+s[1:2], s[2:3]+s[2:3]
		if len(s) == 4 {
			a = s[3:4] + s[3:4]
		} else {
			a = "ff"
		}
	case 6, 8:
		r, g, b = s[0:2], s[2:4], s[4:6]
		if len(s) == 8 {
			a = s[6:8]
		} else {
			a = "ff"
		}
	default:
		return "", ErrInvalidColor
	}

	if !isHex(r) || !isHex(g) || !isHex(b) || !isHex(a) {
		return "", ErrInvalidColor
	}

	return Color(strings.ToLower(fmt.Sprintf("#%s%s%s%s", r, g, b, a))), nil
}

func isHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// ErrInvalidColor is returned by ParseColor when the input isn't a
// recognizable hex color.
var ErrInvalidColor = fmt.Errorf("color_invalid")

// RandomColor picks an arbitrary color from the default palette for a user
// who didn't request one.
func RandomColor() Color {
	return palette[rand.Intn(len(palette))]
}

// String satisfies fmt.Stringer so Color behaves like a plain string in logs.
func (c Color) String() string {
	return string(c)
}

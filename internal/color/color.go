// Package color parses CSS color strings and packs them for GPU upload.
package color

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/ggraph/internal/cache"
)

// ErrInvalid is returned for strings that are not a supported color.
var ErrInvalid = errors.New("color: invalid color string")

// RGBA is a non-premultiplied 8-bit color.
type RGBA struct {
	R, G, B, A uint8
}

// Black is opaque black, the fallback for unparseable input.
var Black = RGBA{A: 255}

// NRGBA converts c to the image/color type of the same layout.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// String formats c as #rrggbb, or rgba() when translucent.
func (c RGBA) String() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.3g)", c.R, c.G, c.B, float64(c.A)/255)
}

var named = map[string]RGBA{
	"transparent": {},
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"blue":        {0, 0, 255, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"orange":      {255, 165, 0, 255},
	"yellow":      {255, 255, 0, 255},
	"purple":      {128, 0, 128, 255},
}

// Parse reads #rgb, #rrggbb, #rrggbbaa, rgb(r,g,b), rgba(r,g,b,a) and a
// handful of color keywords. Alpha in rgba() is a fraction in [0, 1].
func Parse(s string) (RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := named[s]; ok {
		return c, nil
	}
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgb"):
		return parseFunc(s)
	}
	return Black, fmt.Errorf("%w: %q", ErrInvalid, s)
}

// MustParse is Parse with the opaque-black fallback.
func MustParse(s string) RGBA {
	c, err := Parse(s)
	if err != nil {
		return Black
	}
	return c
}

func parseHex(s string) (RGBA, error) {
	var alpha uint8 = 255
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Black, fmt.Errorf("%w: %q", ErrInvalid, s)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Black, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	r, g, b := c.RGB255()
	return RGBA{R: r, G: g, B: b, A: alpha}, nil
}

func parseFunc(s string) (RGBA, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return Black, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	name := strings.TrimSpace(s[:open])
	if name != "rgb" && name != "rgba" {
		return Black, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Black, fmt.Errorf("%w: %q", ErrInvalid, s)
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return Black, fmt.Errorf("%w: %q", ErrInvalid, s)
		}
		ch[i] = uint8(math.Round(clamp(v, 0, 255)))
	}
	alpha := 1.0
	if len(parts) == 4 {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return Black, fmt.Errorf("%w: %q", ErrInvalid, s)
		}
		alpha = clamp(v, 0, 1)
	}
	return RGBA{R: ch[0], G: ch[1], B: ch[2], A: uint8(alpha * 255)}, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Pack encodes c as little-endian RGBA in a uint32. The lowest bit of the
// alpha byte is cleared so the bit pattern never forms a float NaN when
// stored in a float32 vertex lane.
func Pack(c RGBA) uint32 {
	return (uint32(c.A)<<24 | uint32(c.B)<<16 | uint32(c.G)<<8 | uint32(c.R)) & 0xfeffffff
}

// Unpack is the inverse of Pack, up to the cleared alpha bit.
func Unpack(v uint32) RGBA {
	return RGBA{R: uint8(v), G: uint8(v >> 8), B: uint8(v >> 16), A: uint8(v >> 24)}
}

// PackFloat returns Pack(c) reinterpreted as a float32.
func PackFloat(c RGBA) float32 {
	return math.Float32frombits(Pack(c))
}

// Encoder memoizes Parse+Pack for repeated color strings.
type Encoder struct {
	memo *cache.Cache[string, float32]
}

// DefaultEncoderSize bounds the number of distinct strings an Encoder keeps.
const DefaultEncoderSize = 1024

// NewEncoder creates an encoder remembering up to size strings.
func NewEncoder(size int) *Encoder {
	if size <= 0 {
		size = DefaultEncoderSize
	}
	return &Encoder{memo: cache.New[string, float32](size)}
}

// Encode returns the packed float for s. Unparseable strings encode as
// opaque black.
func (e *Encoder) Encode(s string) float32 {
	return e.memo.GetOrCreate(s, func() float32 {
		return PackFloat(MustParse(s))
	})
}

// Stats reports memo statistics.
func (e *Encoder) Stats() cache.Stats {
	return e.memo.Stats()
}

package overlay

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/gogpu/ggraph/internal/cache"
)

// Font families bundled with the overlay. Any other family name falls back
// to FamilyGo.
const (
	FamilyGo     = "Go"
	FamilyGoMono = "Go Mono"
)

var fontData = map[string][2][]byte{
	FamilyGo:     {goregular.TTF, gobold.TTF},
	FamilyGoMono: {gomono.TTF, gomonobold.TTF},
}

type faceKey struct {
	family string
	bold   bool
	size   int // 1/64 px
}

// Faces resolves label styles to font faces, keeping recently used sizes.
type Faces struct {
	mu    sync.Mutex
	fonts map[faceKey]*opentype.Font
	faces *cache.Cache[faceKey, font.Face]
}

// NewFaces creates a face resolver remembering up to 32 faces.
func NewFaces() *Faces {
	return &Faces{
		fonts: make(map[faceKey]*opentype.Font),
		faces: cache.New[faceKey, font.Face](32),
	}
}

// Face returns the face of family at size pixels. Weight "bold" selects the
// bold variant.
func (f *Faces) Face(family, weight string, size float64) (font.Face, error) {
	if _, ok := fontData[family]; !ok {
		family = FamilyGo
	}
	key := faceKey{
		family: family,
		bold:   strings.EqualFold(weight, "bold"),
		size:   int(max(size, 1) * 64),
	}
	if face, ok := f.faces.Get(key); ok {
		return face, nil
	}

	fnt, err := f.font(key)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(key.size) / 64,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("overlay: face %s %.1fpx: %w", family, size, err)
	}
	f.faces.Set(key, face)
	return face, nil
}

func (f *Faces) font(key faceKey) (*opentype.Font, error) {
	key.size = 0
	f.mu.Lock()
	defer f.mu.Unlock()
	if fnt, ok := f.fonts[key]; ok {
		return fnt, nil
	}
	data := fontData[key.family][0]
	if key.bold {
		data = fontData[key.family][1]
	}
	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("overlay: parse font %s: %w", key.family, err)
	}
	f.fonts[key] = fnt
	return fnt, nil
}

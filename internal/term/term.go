// Package term draws renderer frames on a character terminal and feeds
// terminal mouse events to a captor.
//
// Every cell stands for a fixed block of viewport pixels, so the camera
// and captor work in the same units as on a pixel surface.
package term

import (
	"errors"
	"math"
	"slices"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/text/width"

	"github.com/gogpu/ggraph"
	"github.com/gogpu/ggraph/camera"
	"github.com/gogpu/ggraph/captor"
	"github.com/gogpu/ggraph/internal/color"
)

// Default cell size in viewport pixels.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// Glyphs used to draw a frame.
const (
	NodeRune  = '●'
	EdgeRune  = '·'
	ArrowRune = '▸'
)

var (
	// ErrNilHandler is returned when attaching a nil handler.
	ErrNilHandler = errors.New("term: nil mouse handler")

	// ErrAlreadyAttached is returned when a handler is attached twice.
	ErrAlreadyAttached = errors.New("term: mouse handler already attached")
)

// Option configures a Surface.
type Option func(*Surface)

// WithCellSize sets how many viewport pixels one cell covers.
func WithCellSize(w, h float64) Option {
	return func(s *Surface) {
		if w > 0 && h > 0 {
			s.cellW, s.cellH = w, h
		}
	}
}

// Surface is a tcell screen seen as a viewport. It implements
// captor.MouseSource and captor.Viewport.
type Surface struct {
	screen       tcell.Screen
	cellW, cellH float64
	handlers     []captor.MouseHandler

	seen         bool
	lastX, lastY float64
	down         captor.Button
}

// New wraps an initialized screen.
func New(screen tcell.Screen, opts ...Option) *Surface {
	s := &Surface{
		screen: screen,
		cellW:  DefaultCellWidth,
		cellH:  DefaultCellHeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Screen returns the wrapped screen.
func (s *Surface) Screen() tcell.Screen { return s.screen }

// CellSize returns the pixel size of one cell.
func (s *Surface) CellSize() (w, h float64) { return s.cellW, s.cellH }

// Dimensions returns the viewport size in pixels.
func (s *Surface) Dimensions() camera.Dimensions {
	cols, rows := s.screen.Size()
	return camera.Dimensions{Width: float64(cols) * s.cellW, Height: float64(rows) * s.cellH}
}

// AttachMouse implements captor.MouseSource.
func (s *Surface) AttachMouse(h captor.MouseHandler) error {
	if h == nil {
		return ErrNilHandler
	}
	if slices.Contains(s.handlers, h) {
		return ErrAlreadyAttached
	}
	s.handlers = append(s.handlers, h)
	return nil
}

// DetachMouse implements captor.MouseSource.
func (s *Surface) DetachMouse(h captor.MouseHandler) {
	s.handlers = slices.DeleteFunc(s.handlers, func(x captor.MouseHandler) bool {
		return x == h
	})
}

// HandleEvent translates a terminal event for the attached handlers. It
// reports whether the event was consumed.
func (s *Surface) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		s.mouse(ev)
		return true
	case *tcell.EventFocus:
		if !ev.Focused {
			s.leave()
		}
		return true
	}
	return false
}

func (s *Surface) mouse(ev *tcell.EventMouse) {
	cx, cy := ev.Position()
	e := captor.MouseEvent{
		X: (float64(cx) + 0.5) * s.cellW,
		Y: (float64(cy) + 0.5) * s.cellH,
	}
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		e.Delta = 1
		s.each(func(h captor.MouseHandler) { h.HandleWheel(e) })
		return
	case buttons&tcell.WheelDown != 0:
		e.Delta = -1
		s.each(func(h captor.MouseHandler) { h.HandleWheel(e) })
		return
	}

	if !s.seen || e.X != s.lastX || e.Y != s.lastY {
		s.seen = true
		s.lastX, s.lastY = e.X, e.Y
		move := e
		move.Button = s.down
		s.each(func(h captor.MouseHandler) { h.HandleMove(move) })
	}

	pressed := buttonOf(buttons)
	switch {
	case s.down == captor.ButtonNone && pressed != captor.ButtonNone:
		s.down = pressed
		e.Button = pressed
		s.each(func(h captor.MouseHandler) { h.HandleDown(e) })
	case s.down != captor.ButtonNone && pressed == captor.ButtonNone:
		e.Button = s.down
		s.down = captor.ButtonNone
		s.each(func(h captor.MouseHandler) { h.HandleUp(e) })
		s.each(func(h captor.MouseHandler) { h.HandleClick(e) })
	}
}

func (s *Surface) leave() {
	if !s.seen {
		return
	}
	e := captor.MouseEvent{X: s.lastX, Y: s.lastY}
	s.seen = false
	s.down = captor.ButtonNone
	s.each(func(h captor.MouseHandler) { h.HandleLeave(e) })
}

func (s *Surface) each(fn func(captor.MouseHandler)) {
	for _, h := range slices.Clone(s.handlers) {
		fn(h)
	}
}

func buttonOf(m tcell.ButtonMask) captor.Button {
	switch {
	case m&tcell.Button1 != 0:
		return captor.ButtonPrimary
	case m&tcell.Button2 != 0:
		return captor.ButtonSecondary
	case m&tcell.Button3 != 0:
		return captor.ButtonMiddle
	}
	return captor.ButtonNone
}

// Draw paints f over a background color. Labels are drawn right of their
// node when labels is set; the hovered node's label is always drawn.
func (s *Surface) Draw(f ggraph.Frame, background string, labels bool) {
	bg := tcellColor(background)
	base := tcell.StyleDefault.Background(bg)
	cols, rows := s.screen.Size()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			s.screen.SetContent(x, y, ' ', nil, base)
		}
	}

	for _, e := range f.Edges {
		style := base.Foreground(tcellColor(e.Color))
		x1, y1 := s.cell(e.X1, e.Y1)
		x2, y2 := s.cell(e.X2, e.Y2)
		line(x1, y1, x2, y2, func(x, y int) {
			s.screen.SetContent(x, y, EdgeRune, nil, style)
		})
		if e.Arrow {
			ax, ay := arrowCell(x1, y1, x2, y2)
			s.screen.SetContent(ax, ay, arrowRune(x2-x1, y2-y1), nil, style)
		}
	}

	for _, n := range f.Nodes {
		x, y := s.cell(n.X, n.Y)
		style := base.Foreground(tcellColor(n.Color))
		if n.ID == f.Hovered {
			style = style.Reverse(true)
		}
		s.screen.SetContent(x, y, NodeRune, nil, style)
		if n.Label != "" && (labels || n.ID == f.Hovered) {
			s.drawString(x+2, y, n.Label, style.Foreground(tcell.ColorDefault).Reverse(n.ID == f.Hovered))
		}
	}
	s.screen.Show()
}

func (s *Surface) cell(x, y float64) (int, int) {
	return int(math.Floor(x / s.cellW)), int(math.Floor(y / s.cellH))
}

// drawString writes str from column x and returns the column after it.
func (s *Surface) drawString(x, y int, str string, style tcell.Style) int {
	for _, r := range str {
		s.screen.SetContent(x, y, r, nil, style)
		x += RuneWidth(r)
	}
	return x
}

// RuneWidth is the number of cells r occupies.
func RuneWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// StringWidth is the number of cells str occupies.
func StringWidth(str string) int {
	n := 0
	for _, r := range str {
		n += RuneWidth(r)
	}
	return n
}

// line visits the cells of the segment between two cells, endpoints
// excluded.
func line(x1, y1, x2, y2 int, plot func(x, y int)) {
	dx, dy := abs(x2-x1), -abs(y2-y1)
	sx, sy := sign(x2-x1), sign(y2-y1)
	err := dx + dy
	x, y := x1, y1
	for x != x2 || y != y2 {
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
		if x == x2 && y == y2 {
			break
		}
		plot(x, y)
	}
}

// arrowCell is the cell just before the target along the edge.
func arrowCell(x1, y1, x2, y2 int) (int, int) {
	return x2 - sign(x2-x1), y2 - sign(y2-y1)
}

func arrowRune(dx, dy int) rune {
	if abs(dy) > abs(dx) {
		if dy > 0 {
			return '▾'
		}
		return '▴'
	}
	if dx < 0 {
		return '◂'
	}
	return ArrowRune
}

func tcellColor(s string) tcell.Color {
	c, err := color.Parse(s)
	if err != nil || c.A == 0 {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/gogpu/ggraph"
	"github.com/gogpu/ggraph/backend"
	"github.com/gogpu/ggraph/camera"
	"github.com/gogpu/ggraph/captor"
	"github.com/gogpu/ggraph/internal/term"
)

const viewFPS = 30

func viewCmd(gf *globalFlags) *cobra.Command {
	var src graphFlags
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Explore a graph in the terminal",
		Long: "Explore a graph in the terminal with the mouse: drag to pan, wheel\n" +
			"to zoom, double click to zoom in. Keys: arrows pan, +/- zoom,\n" +
			"r resets the camera, q quits.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := gf.loadSettings()
			if err != nil {
				return err
			}
			g := src.graph()
			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			defer screen.Fini()
			screen.EnableMouse()
			screen.EnableFocus()

			v, err := newViewer(screen, g, s, gf)
			if err != nil {
				return err
			}
			defer v.close()
			return v.run()
		},
	}
	src.bind(cmd, 200, 300)
	return cmd
}

type viewer struct {
	screen   tcell.Screen
	surface  *term.Surface
	ctx      backend.Context
	renderer *ggraph.Renderer
	captor   *captor.MouseCaptor
	settings ggraph.Settings
	status   string
}

func newViewer(screen tcell.Screen, g ggraph.Graph, s ggraph.Settings, gf *globalFlags) (*viewer, error) {
	v := &viewer{screen: screen, surface: term.New(screen), settings: s}
	d := v.surface.Dimensions()

	if gf.backend == "" {
		// The terminal draws from the frame alone.
		gf.backend = backend.Discard
	}
	ctx, _, err := gf.openBackend(int(d.Width), int(d.Height))
	if err != nil {
		return nil, err
	}
	v.ctx = ctx

	v.renderer, err = ggraph.New(g, ctx,
		ggraph.WithSettings(s),
		ggraph.WithDimensions(d.Width, d.Height),
	)
	if err != nil {
		ctx.Destroy()
		return nil, err
	}
	v.captor, err = captor.NewMouseCaptor(v.surface, v.renderer.Camera(), v.renderer,
		captor.WithConfig(s.CaptorConfig()),
		captor.WithClock(v.renderer.Clock()),
	)
	if err == nil {
		err = v.captor.Attach()
	}
	if err != nil {
		v.close()
		return nil, err
	}
	v.renderer.BindCaptor(v.captor)

	v.renderer.OnNodeEvent(ggraph.EventClickNode, func(e ggraph.NodeEvent) {
		v.status = "clicked " + v.nodeLabel(e.Node)
	})
	v.renderer.OnNodeEvent(ggraph.EventClickStage, func(ggraph.NodeEvent) {
		v.status = ""
	})
	return v, nil
}

func (v *viewer) nodeLabel(id string) string {
	for _, n := range v.renderer.Visible().Nodes {
		if n.ID == id && n.Label != "" {
			return n.Label
		}
	}
	return id
}

func (v *viewer) close() {
	if v.captor != nil {
		v.captor.Detach()
	}
	if v.renderer != nil {
		v.renderer.Kill()
	}
	v.ctx.Destroy()
}

func (v *viewer) run() error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTicker(time.Second / viewFPS)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				v.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	for {
		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			v.screen.Sync()
			d := v.surface.Dimensions()
			v.renderer.Resize(d.Width, d.Height)
		case *tcell.EventKey:
			if v.key(ev) {
				return nil
			}
		case *tcell.EventInterrupt:
			if err := v.draw(); err != nil {
				return err
			}
		default:
			v.surface.HandleEvent(ev)
		}
	}
}

// key handles a key press and reports whether the viewer should exit.
func (v *viewer) key(ev *tcell.EventKey) bool {
	cam := v.renderer.Camera()
	st := cam.State()
	step := 0.1 * st.Ratio
	opts := camera.AnimationOptions{Easing: v.settings.Easing(), Duration: v.settings.AnimationDuration}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		cam.SetState(camera.Pan(st.X-step, st.Y))
	case tcell.KeyRight:
		cam.SetState(camera.Pan(st.X+step, st.Y))
	case tcell.KeyUp:
		cam.SetState(camera.Pan(st.X, st.Y+step))
	case tcell.KeyDown:
		cam.SetState(camera.Pan(st.X, st.Y-step))
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'r':
			v.renderer.ResetCamera(true)
		case '+', '=':
			cam.Animate(camera.Zoom(st.Ratio/v.settings.MouseZoomingRatio), opts, nil)
		case '-':
			cam.Animate(camera.Zoom(st.Ratio*v.settings.MouseZoomingRatio), opts, nil)
		}
	}
	return false
}

func (v *viewer) draw() error {
	if err := v.renderer.Render(); err != nil {
		return err
	}
	f := v.renderer.Visible()
	v.surface.Draw(f, v.settings.BackgroundColor, v.settings.RenderLabels)

	_, rows := v.screen.Size()
	line := fmt.Sprintf(" %d nodes  %d edges  ratio %.2f ", len(f.Nodes), len(f.Edges), v.renderer.Camera().State().Ratio)
	if v.status != "" {
		line += " " + v.status + " "
	}
	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range line {
		v.screen.SetContent(x, rows-1, r, nil, style)
		x += term.RuneWidth(r)
	}
	v.screen.Show()
	return nil
}

package main

import (
	"fmt"
	"io"
	"math"
	"slices"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/gogpu/ggraph"
	"github.com/gogpu/ggraph/backend"
	"github.com/gogpu/ggraph/camera"
)

func benchCmd(gf *globalFlags) *cobra.Command {
	var (
		src    graphFlags
		frames int
		width  int
		height int
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure frame times while the camera flies over a graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if frames <= 0 {
				return fmt.Errorf("invalid frame count %d", frames)
			}
			s, err := gf.loadSettings()
			if err != nil {
				return err
			}
			g := src.graph()
			ctx, name, err := gf.openBackend(width, height)
			if err != nil {
				return err
			}
			defer ctx.Destroy()

			r, err := ggraph.New(g, ctx,
				ggraph.WithSettings(s),
				ggraph.WithDimensions(float64(width), float64(height)),
			)
			if err != nil {
				return err
			}
			defer r.Kill()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %d nodes, %d edges, %d frames on %s\n",
				brand.Sprint("bench"), g.Order(), g.Size(), frames, name)

			bar := progressbar.NewOptions(frames,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("rendering"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			times := make([]time.Duration, 0, frames)
			for i := range frames {
				r.Camera().SetState(flyover(i, frames))
				start := time.Now()
				if err := r.Render(); err != nil {
					return err
				}
				times = append(times, time.Since(start))
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			report(out, summarize(times))
			if d, ok := ctx.(*backend.DiscardContext); ok {
				st := d.Stats()
				subtle.Fprintf(out, "  draws %d, vertices %d, uploads %d (%d bytes)\n",
					st.Draws, st.Vertices, st.Uploads, st.UploadedBytes)
			}
			return nil
		},
	}
	src.bind(cmd, 10000, 20000)
	cmd.Flags().IntVarP(&frames, "frames", "n", 300, "frames to render")
	cmd.Flags().IntVar(&width, "width", 1280, "viewport width")
	cmd.Flags().IntVar(&height, "height", 720, "viewport height")
	return cmd
}

// flyover is the camera of frame i: one loop around the graph center
// while zooming in and back out.
func flyover(i, n int) camera.Partial {
	t := 2 * math.Pi * float64(i) / float64(n)
	return camera.PanZoom(
		0.5+0.25*math.Cos(t),
		0.5+0.25*math.Sin(t),
		0.2+0.8*(1+math.Cos(t))/2,
	)
}

type benchStats struct {
	frames        int
	mean          time.Duration
	p50, p95, max time.Duration
}

func summarize(times []time.Duration) benchStats {
	if len(times) == 0 {
		return benchStats{}
	}
	sorted := slices.Clone(times)
	slices.Sort(sorted)
	var total time.Duration
	for _, d := range sorted {
		total += d
	}
	pick := func(q float64) time.Duration {
		return sorted[int(math.Ceil(q*float64(len(sorted))))-1]
	}
	return benchStats{
		frames: len(sorted),
		mean:   total / time.Duration(len(sorted)),
		p50:    pick(0.5),
		p95:    pick(0.95),
		max:    sorted[len(sorted)-1],
	}
}

func report(w io.Writer, st benchStats) {
	fps := 0.0
	if st.mean > 0 {
		fps = float64(time.Second) / float64(st.mean)
	}
	fmt.Fprintf(w, "  mean %v  p50 %v  p95 %v  max %v\n", st.mean, st.p50, st.p95, st.max)
	c := good
	if fps < 30 {
		c = warn
	}
	c.Fprintf(w, "  %.1f fps\n", fps)
}

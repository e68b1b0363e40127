package main

import (
	"fmt"
	"image/png"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/ggraph"
	"github.com/gogpu/ggraph/overlay"
)

func snapshotCmd(gf *globalFlags) *cobra.Command {
	var (
		src        graphFlags
		output     string
		width      int
		height     int
		pixelRatio float64
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render one frame to a PNG file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || height <= 0 {
				return fmt.Errorf("invalid size %dx%d", width, height)
			}
			s, err := gf.loadSettings()
			if err != nil {
				return err
			}
			g := src.graph()

			pw := int(math.Ceil(float64(width) * pixelRatio))
			ph := int(math.Ceil(float64(height) * pixelRatio))
			ctx, name, err := gf.openBackend(pw, ph)
			if err != nil {
				return err
			}
			defer ctx.Destroy()

			labels := overlay.NewLayer(width, height)
			r, err := ggraph.New(g, ctx,
				ggraph.WithSettings(s),
				ggraph.WithDimensions(float64(width), float64(height)),
				ggraph.WithPixelRatio(pixelRatio),
				ggraph.WithLabelDrawer(labels),
			)
			if err != nil {
				return err
			}
			defer r.Kill()

			if err := r.Render(); err != nil {
				return err
			}
			if err := labels.Err(); err != nil {
				return err
			}
			frame := r.Visible()
			img := overlay.Compose(frame, s.BackgroundColor, labels)

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := png.Encode(f, img); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			good.Fprintf(cmd.OutOrStdout(), "wrote %s", output)
			subtle.Fprintf(cmd.OutOrStdout(), " (%dx%d, %d nodes, %d edges, %s)\n",
				width, height, len(frame.Nodes), len(frame.Edges), name)
			return nil
		},
	}
	src.bind(cmd, 1000, 2000)
	cmd.Flags().StringVarP(&output, "output", "o", "graph.png", "output PNG file")
	cmd.Flags().IntVar(&width, "width", 800, "viewport width")
	cmd.Flags().IntVar(&height, "height", 600, "viewport height")
	cmd.Flags().Float64Var(&pixelRatio, "pixel-ratio", 1, "device pixels per viewport pixel")
	return cmd
}

package ggraph

import (
	"github.com/gogpu/ggraph/clock"
	"github.com/gogpu/ggraph/program"
)

// NodeProgramFactory creates the program drawing nodes of one type.
type NodeProgramFactory func(ctx program.Context, opts ...program.Option) (program.NodeProcessor, error)

// EdgeProgramFactory creates the program drawing edges of one type.
type EdgeProgramFactory func(ctx program.Context, opts ...program.Option) (program.EdgeProcessor, error)

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := ggraph.New(g, ctx,
//	    ggraph.WithSettings(settings),
//	    ggraph.WithDimensions(800, 600),
//	)
type Option func(*options)

type options struct {
	settings     Settings
	clock        clock.Clock
	labels       LabelDrawer
	width        float64
	height       float64
	pixelRatio   float64
	workers      int
	nodePrograms map[string]NodeProgramFactory
	edgePrograms map[string]EdgeProgramFactory
}

func defaultOptions() options {
	return options{
		settings:   DefaultSettings(),
		width:      800,
		height:     600,
		pixelRatio: 1,
		nodePrograms: map[string]NodeProgramFactory{
			NodeTypeCircle: func(ctx program.Context, opts ...program.Option) (program.NodeProcessor, error) {
				p, err := program.NewNodeProgram(ctx, opts...)
				if err != nil {
					return nil, err
				}
				return p, nil
			},
		},
		edgePrograms: map[string]EdgeProgramFactory{
			EdgeTypeLine: func(ctx program.Context, opts ...program.Option) (program.EdgeProcessor, error) {
				p, err := program.NewEdgeProgram(ctx, opts...)
				if err != nil {
					return nil, err
				}
				return p, nil
			},
			EdgeTypeArrow: func(ctx program.Context, opts ...program.Option) (program.EdgeProcessor, error) {
				p, err := program.NewDirectedEdgeProgram(ctx, opts...)
				if err != nil {
					return nil, err
				}
				return p, nil
			},
		},
	}
}

// WithSettings replaces the default settings. They are normalized first.
func WithSettings(s Settings) Option {
	return func(o *options) {
		o.settings = s.Normalize()
	}
}

// WithClock drives camera animations and captor timers from clk.
// Without it the renderer owns a scheduler advanced to the wall clock at
// every Render, so every callback runs on the rendering goroutine.
func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		o.clock = clk
	}
}

// WithLabelDrawer draws labels and hover highlights after each frame.
func WithLabelDrawer(d LabelDrawer) Option {
	return func(o *options) {
		o.labels = d
	}
}

// WithDimensions sets the initial viewport size in pixels.
func WithDimensions(width, height float64) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithPixelRatio sets the number of device pixels per viewport pixel.
func WithPixelRatio(ratio float64) Option {
	return func(o *options) {
		if ratio > 0 {
			o.pixelRatio = ratio
		}
	}
}

// WithWorkers fills large program buffers on n goroutines. Programs must
// then accept concurrent Process calls at distinct offsets, as the
// built-in ones do. n <= 1 processes on the rendering goroutine.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithNodeProgram registers the program drawing nodes of type typ,
// replacing any built-in program of that type.
func WithNodeProgram(typ string, f NodeProgramFactory) Option {
	return func(o *options) {
		if typ != "" && f != nil {
			o.nodePrograms[typ] = f
		}
	}
}

// WithEdgeProgram registers the program drawing edges of type typ.
func WithEdgeProgram(typ string, f EdgeProgramFactory) Option {
	return func(o *options) {
		if typ != "" && f != nil {
			o.edgePrograms[typ] = f
		}
	}
}

package ggraph

import (
	"math"
	"time"

	"github.com/gogpu/ggraph/camera"
	"github.com/gogpu/ggraph/captor"
	"github.com/gogpu/ggraph/internal/color"
)

// Edge color modes.
const (
	EdgeColorDefault = "default"
	EdgeColorSource  = "source"
	EdgeColorTarget  = "target"
)

// Built-in program types.
const (
	NodeTypeCircle = "circle"
	EdgeTypeLine   = "line"
	EdgeTypeArrow  = "arrow"
)

// Settings are the display and interaction parameters of a Renderer.
//
// Out-of-range values are never rejected: Normalize replaces them with the
// defaults of DefaultSettings.
type Settings struct {
	// Camera zoom bounds.
	MinCameraRatio float64 `toml:"min_camera_ratio" yaml:"min_camera_ratio" envconfig:"MIN_CAMERA_RATIO"`
	MaxCameraRatio float64 `toml:"max_camera_ratio" yaml:"max_camera_ratio" envconfig:"MAX_CAMERA_RATIO"`

	// Camera transitions started by the renderer.
	AnimationDuration time.Duration `toml:"animation_duration" yaml:"animation_duration" envconfig:"ANIMATION_DURATION"`
	AnimationEasing   string        `toml:"animation_easing" yaml:"animation_easing" envconfig:"ANIMATION_EASING"`

	// Attribute defaults for nodes and edges that do not set them.
	DefaultNodeColor string  `toml:"default_node_color" yaml:"default_node_color" envconfig:"DEFAULT_NODE_COLOR"`
	DefaultEdgeColor string  `toml:"default_edge_color" yaml:"default_edge_color" envconfig:"DEFAULT_EDGE_COLOR"`
	DefaultNodeSize  float64 `toml:"default_node_size" yaml:"default_node_size" envconfig:"DEFAULT_NODE_SIZE"`
	DefaultEdgeSize  float64 `toml:"default_edge_size" yaml:"default_edge_size" envconfig:"DEFAULT_EDGE_SIZE"`
	DefaultNodeType  string  `toml:"default_node_type" yaml:"default_node_type" envconfig:"DEFAULT_NODE_TYPE"`
	DefaultEdgeType  string  `toml:"default_edge_type" yaml:"default_edge_type" envconfig:"DEFAULT_EDGE_TYPE"`

	// EdgeColorMode is "default" (edge color), "source" or "target" (color
	// of that endpoint).
	EdgeColorMode string `toml:"edge_color_mode" yaml:"edge_color_mode" envconfig:"EDGE_COLOR_MODE"`

	// BackgroundColor clears every frame.
	BackgroundColor string `toml:"background_color" yaml:"background_color" envconfig:"BACKGROUND_COLOR"`

	// Labels.
	RenderLabels               bool    `toml:"render_labels" yaml:"render_labels" envconfig:"RENDER_LABELS"`
	LabelFont                  string  `toml:"label_font" yaml:"label_font" envconfig:"LABEL_FONT"`
	LabelSize                  float64 `toml:"label_size" yaml:"label_size" envconfig:"LABEL_SIZE"`
	LabelWeight                string  `toml:"label_weight" yaml:"label_weight" envconfig:"LABEL_WEIGHT"`
	LabelColor                 string  `toml:"label_color" yaml:"label_color" envconfig:"LABEL_COLOR"`
	LabelRenderedSizeThreshold float64 `toml:"label_rendered_size_threshold" yaml:"label_rendered_size_threshold" envconfig:"LABEL_RENDERED_SIZE_THRESHOLD"`

	// CullingMargin extends the visible region, in pixels.
	CullingMargin float64 `toml:"culling_margin" yaml:"culling_margin" envconfig:"CULLING_MARGIN"`
	// PickingTolerance is added to node radii when picking, in pixels.
	PickingTolerance float64 `toml:"picking_tolerance" yaml:"picking_tolerance" envconfig:"PICKING_TOLERANCE"`

	// Pointer interaction.
	DragTimeout                time.Duration `toml:"drag_timeout" yaml:"drag_timeout" envconfig:"DRAG_TIMEOUT"`
	MouseInertiaRatio          float64       `toml:"mouse_inertia_ratio" yaml:"mouse_inertia_ratio" envconfig:"MOUSE_INERTIA_RATIO"`
	MouseInertiaDuration       time.Duration `toml:"mouse_inertia_duration" yaml:"mouse_inertia_duration" envconfig:"MOUSE_INERTIA_DURATION"`
	MouseZoomingRatio          float64       `toml:"mouse_zooming_ratio" yaml:"mouse_zooming_ratio" envconfig:"MOUSE_ZOOMING_RATIO"`
	MouseZoomDuration          time.Duration `toml:"mouse_zoom_duration" yaml:"mouse_zoom_duration" envconfig:"MOUSE_ZOOM_DURATION"`
	DoubleClickTimeout         time.Duration `toml:"double_click_timeout" yaml:"double_click_timeout" envconfig:"DOUBLE_CLICK_TIMEOUT"`
	DoubleClickZoomingRatio    float64       `toml:"double_click_zooming_ratio" yaml:"double_click_zooming_ratio" envconfig:"DOUBLE_CLICK_ZOOMING_RATIO"`
	DoubleClickZoomingDuration time.Duration `toml:"double_click_zooming_duration" yaml:"double_click_zooming_duration" envconfig:"DOUBLE_CLICK_ZOOMING_DURATION"`
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	mouse := captor.DefaultConfig()
	return Settings{
		MinCameraRatio:    camera.DefaultMinRatio,
		MaxCameraRatio:    camera.DefaultMaxRatio,
		AnimationDuration: 300 * time.Millisecond,
		AnimationEasing:   "quadraticInOut",

		DefaultNodeColor: "#999",
		DefaultEdgeColor: "#ccc",
		DefaultNodeSize:  3,
		DefaultEdgeSize:  1,
		DefaultNodeType:  NodeTypeCircle,
		DefaultEdgeType:  EdgeTypeLine,
		EdgeColorMode:    EdgeColorDefault,
		BackgroundColor:  "#fff",

		RenderLabels:               true,
		LabelFont:                  "Go",
		LabelSize:                  14,
		LabelWeight:                "normal",
		LabelColor:                 "#000",
		LabelRenderedSizeThreshold: 6,

		CullingMargin:    20,
		PickingTolerance: 2,

		DragTimeout:                mouse.DragTimeout,
		MouseInertiaRatio:          mouse.InertiaRatio,
		MouseInertiaDuration:       mouse.InertiaDuration,
		MouseZoomingRatio:          mouse.ZoomingRatio,
		MouseZoomDuration:          mouse.ZoomDuration,
		DoubleClickTimeout:         mouse.DoubleClickTimeout,
		DoubleClickZoomingRatio:    mouse.DoubleClickZoomingRatio,
		DoubleClickZoomingDuration: mouse.DoubleClickZoomingDuration,
	}
}

// Normalize returns s with every unusable value replaced by its default.
// Inverted camera ratio bounds are swapped.
func (s Settings) Normalize() Settings {
	d := DefaultSettings()

	s.MinCameraRatio, s.MaxCameraRatio = camera.NormalizeRatioBounds(s.MinCameraRatio, s.MaxCameraRatio)
	if s.AnimationDuration < 0 {
		s.AnimationDuration = d.AnimationDuration
	}
	if _, ok := camera.EasingByName(s.AnimationEasing); !ok {
		s.AnimationEasing = d.AnimationEasing
	}

	s.DefaultNodeColor = colorOr(s.DefaultNodeColor, d.DefaultNodeColor)
	s.DefaultEdgeColor = colorOr(s.DefaultEdgeColor, d.DefaultEdgeColor)
	s.BackgroundColor = colorOr(s.BackgroundColor, d.BackgroundColor)
	s.LabelColor = colorOr(s.LabelColor, d.LabelColor)
	s.DefaultNodeSize = positiveOr(s.DefaultNodeSize, d.DefaultNodeSize)
	s.DefaultEdgeSize = positiveOr(s.DefaultEdgeSize, d.DefaultEdgeSize)
	if s.DefaultNodeType == "" {
		s.DefaultNodeType = d.DefaultNodeType
	}
	if s.DefaultEdgeType == "" {
		s.DefaultEdgeType = d.DefaultEdgeType
	}
	switch s.EdgeColorMode {
	case EdgeColorDefault, EdgeColorSource, EdgeColorTarget:
	default:
		s.EdgeColorMode = d.EdgeColorMode
	}

	if s.LabelFont == "" {
		s.LabelFont = d.LabelFont
	}
	s.LabelSize = positiveOr(s.LabelSize, d.LabelSize)
	switch s.LabelWeight {
	case "normal", "bold":
	default:
		s.LabelWeight = d.LabelWeight
	}
	s.LabelRenderedSizeThreshold = nonNegativeOr(s.LabelRenderedSizeThreshold, d.LabelRenderedSizeThreshold)
	s.CullingMargin = nonNegativeOr(s.CullingMargin, d.CullingMargin)
	s.PickingTolerance = nonNegativeOr(s.PickingTolerance, d.PickingTolerance)

	mouse := s.CaptorConfig()
	s.DragTimeout = mouse.DragTimeout
	s.MouseInertiaRatio = mouse.InertiaRatio
	s.MouseInertiaDuration = mouse.InertiaDuration
	s.MouseZoomingRatio = mouse.ZoomingRatio
	s.MouseZoomDuration = mouse.ZoomDuration
	s.DoubleClickTimeout = mouse.DoubleClickTimeout
	s.DoubleClickZoomingRatio = mouse.DoubleClickZoomingRatio
	s.DoubleClickZoomingDuration = mouse.DoubleClickZoomingDuration
	return s
}

// CaptorConfig returns the pointer interaction settings as a captor
// configuration.
func (s Settings) CaptorConfig() captor.Config {
	return captor.Config{
		DragTimeout:                s.DragTimeout,
		InertiaRatio:               s.MouseInertiaRatio,
		InertiaDuration:            s.MouseInertiaDuration,
		ZoomingRatio:               s.MouseZoomingRatio,
		ZoomDuration:               s.MouseZoomDuration,
		DoubleClickTimeout:         s.DoubleClickTimeout,
		DoubleClickZoomingRatio:    s.DoubleClickZoomingRatio,
		DoubleClickZoomingDuration: s.DoubleClickZoomingDuration,
	}.Normalize()
}

// Easing returns the easing of renderer-initiated camera transitions.
func (s Settings) Easing() camera.Easing {
	e, ok := camera.EasingByName(s.AnimationEasing)
	if !ok {
		return camera.QuadraticInOut
	}
	return e
}

func colorOr(v, def string) string {
	if _, err := color.Parse(v); err != nil {
		return def
	}
	return v
}

func positiveOr(v, def float64) float64 {
	if !(v > 0) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func nonNegativeOr(v, def float64) float64 {
	if !(v >= 0) || math.IsInf(v, 0) {
		return def
	}
	return v
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gogpu/ggraph"
	"github.com/gogpu/ggraph/backend"
	"github.com/gogpu/ggraph/internal/config"
)

var version = "0.1.0"

var (
	brand  = color.New(color.FgHiCyan, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	warn   = color.New(color.FgYellow)
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	settings string
	backend  string
	verbose  bool
}

func (gf *globalFlags) loadSettings() (ggraph.Settings, error) {
	return config.Load(gf.settings)
}

// openBackend opens the named backend, or the best available one when
// name is empty.
func (gf *globalFlags) openBackend(width, height int) (backend.Context, string, error) {
	if gf.backend == "" {
		return backend.OpenDefault(width, height)
	}
	ctx, err := backend.Open(gf.backend, width, height)
	if err != nil {
		return nil, "", err
	}
	return ctx, gf.backend, nil
}

func newRootCmd() *cobra.Command {
	gf := &globalFlags{}
	root := &cobra.Command{
		Use:           "ggraph",
		Short:         "ggraph renders large graphs on the GPU",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if gf.verbose {
				h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})
				ggraph.SetLogger(slog.New(h))
			}
		},
	}
	root.SetVersionTemplate("ggraph {{ .Version }}\n")
	root.PersistentFlags().StringVar(&gf.settings, "settings", "", "settings file (.toml, .yaml, .yml)")
	root.PersistentFlags().StringVar(&gf.backend, "backend", "", "rendering backend (default: best available)")
	root.PersistentFlags().BoolVarP(&gf.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		viewCmd(gf),
		snapshotCmd(gf),
		benchCmd(gf),
		settingsCmd(gf),
		backendsCmd(),
	)
	return root
}

func backendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List the registered rendering backends",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			for _, name := range backend.Available() {
				fmt.Fprintf(w, "  %s\n", brand.Sprint(name))
			}
		},
	}
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/ggraph/internal/config"
)

func settingsCmd(gf *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Print the effective settings",
		Long: "Print the settings after applying the --settings file and the\n" +
			config.EnvPrefix + "_* environment variables.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := gf.loadSettings()
			if err != nil {
				return err
			}
			return config.Encode(cmd.OutOrStdout(), format, s)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", config.FormatTOML, "output format (toml, yaml)")
	return cmd
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-fileprobe/pkg/app"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration after merging defaults, the config file, FILEPROBE_*
environment variables and command line flags. The output is YAML unless
--output json is given, so it can be saved as a fileprobe.yaml starting point.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if appCtx.OutputFormat == app.FormatJSON {
			return app.WriteJSON(appCtx.Writer(), cfg)
		}
		return app.WriteYAML(appCtx.Writer(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

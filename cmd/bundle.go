package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-fileprobe/pkg/app/bundle"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle [app.ipa]",
	Short: "Read metadata from an .ipa app archive",
	Long: `Open an iOS app archive and report the bundle identifier, version and
display name from Info.plist, the minimum OS version, the number of Mach-O
executables and frameworks inside the bundle, and whether it carries a code
signature and provisioning profile. Both XML and binary property lists are read.

Examples:
  fileprobe bundle build/App.ipa
  fileprobe bundle build/App.ipa -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		response, err := bundle.Handle(appCtx, &bundle.Request{ArchivePath: args[0]})
		if err != nil {
			return err
		}
		return render(bundle.FormatOutput, response)
	},
}

func init() {
	rootCmd.AddCommand(bundleCmd)
}

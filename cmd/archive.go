package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-fileprobe/pkg/app/archive"
)

var (
	archiveOutput  string
	archiveDestDir string
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Create, extract or validate ZIP archives",
	Long: `Work with ZIP archives, including .ipa app archives. Extraction refuses
archives whose entries would be written outside the destination directory.
Gzip and 7z archives are recognised but not supported.`,
}

var archiveCreateCmd = &cobra.Command{
	Use:     "create [path...] --output FILE",
	Short:   "Create a ZIP archive from files and directories",
	Example: `  fileprobe archive create Payload --output App.ipa`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runArchive(&archive.Request{Action: archive.ActionCreate, Archive: archiveOutput, Sources: args})
	},
}

var archiveExtractCmd = &cobra.Command{
	Use:     "extract [archive] --dest DIR",
	Short:   "Extract a ZIP archive into a directory",
	Example: `  fileprobe archive extract App.ipa --dest ./unpacked`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runArchive(&archive.Request{Action: archive.ActionExtract, Archive: args[0], Destination: archiveDestDir})
	},
}

var archiveValidateCmd = &cobra.Command{
	Use:   "validate [archive]",
	Short: "Read every entry and verify its checksum",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runArchive(&archive.Request{Action: archive.ActionValidate, Archive: args[0]})
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveCreateCmd, archiveExtractCmd, archiveValidateCmd)

	archiveCreateCmd.Flags().StringVarP(&archiveOutput, "output-file", "f", "", "archive to create (required)")
	archiveCreateCmd.MarkFlagRequired("output-file")

	archiveExtractCmd.Flags().StringVarP(&archiveDestDir, "dest", "d", "", "destination directory (required)")
	archiveExtractCmd.MarkFlagRequired("dest")
}

func runArchive(request *archive.Request) error {
	response, err := archive.Handle(appCtx, request)
	if err != nil {
		return err
	}
	return render(archive.FormatOutput, response)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-fileprobe/pkg/app/analyze"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [file...]",
	Short: "Detect file types from content and extension",
	Long: `Classify files by matching their leading bytes against known signatures,
falling back to the file extension and a printable-text check.

Examples:
  fileprobe classify App.ipa libswiftCore.dylib Info.plist
  fileprobe classify ./build/* -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(analyze.ViewClassify, args)
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [path...]",
	Short: "Show type, size, permissions and signature bytes for paths",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(analyze.ViewInspect, args)
	},
}

var digestCmd = &cobra.Command{
	Use:   "digest [file...]",
	Short: "Compute MD5, SHA-1 and SHA-256 digests",
	Long: `Hash files in a single streaming pass per file. Several files are hashed
concurrently (digest.workers) and reported in argument order.

Examples:
  fileprobe digest App.ipa
  fileprobe digest *.dylib -o yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(analyze.ViewDigest, args)
	},
}

var machoCmd = &cobra.Command{
	Use:   "macho [file...]",
	Short: "Decode Mach-O and universal binary headers",
	Long: `Read the Mach-O or fat header of each file and report its architecture,
CPU, file kind, load command count, position independence and arm64e status.

Examples:
  fileprobe macho Payload/App.app/App
  fileprobe macho Frameworks/*.framework/* -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(analyze.ViewMachO, args)
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd, inspectCmd, digestCmd, machoCmd)
}

func runAnalyze(view analyze.View, paths []string) error {
	response, err := analyze.Handle(appCtx, &analyze.Request{Paths: paths, View: view})
	if err != nil {
		return err
	}

	if err := render(analyze.FormatOutput, response); err != nil {
		return err
	}

	if response.Failed > 0 {
		return fmt.Errorf("%d of %d paths could not be processed", response.Failed, len(paths))
	}
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-fileprobe/pkg/app/integrity"
)

var compareCmd = &cobra.Command{
	Use:   "compare [file1] [file2]",
	Short: "Compare two files byte by byte",
	Long: `Compare two files. Files of different sizes are reported as a size mismatch
without reading their contents; otherwise every differing byte is counted.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(args[0], args[1])
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify [file] [sha256]",
	Short: "Check a file against an expected SHA-256 digest",
	Example: `  fileprobe verify App.ipa 3a7bd3e2360a3d29eea436fcfb7e44c735d117c42d1c1835420b6b9942dd4f1b`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(compareCmd, verifyCmd)
}

func runCompare(path1, path2 string) error {
	response, err := integrity.HandleCompare(appCtx, &integrity.CompareRequest{Path1: path1, Path2: path2})
	if err != nil {
		return err
	}
	return render(integrity.FormatCompare, response)
}

func runVerify(path, expected string) error {
	response, err := integrity.HandleVerify(appCtx, &integrity.VerifyRequest{Path: path, Expected: expected})
	if err != nil {
		return err
	}
	if err := render(integrity.FormatVerify, response); err != nil {
		return err
	}
	if !response.Match {
		return fmt.Errorf("SHA-256 mismatch for %s", path)
	}
	return nil
}

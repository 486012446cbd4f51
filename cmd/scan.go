package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-fileprobe/pkg/app/scan"
)

var (
	// Traversal
	scanRecursive bool
	scanMaxDepth  int

	// File matching criteria
	namePattern   string
	nameRegex     string
	extensions    []string
	fileTypes     []string
	caseSensitive bool
	filesOnly     bool

	// Size criteria
	minSize string
	maxSize string

	// Date criteria
	modifiedAfter  string
	modifiedBefore string

	maxResults int

	analyzeBinaries bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [directory]",
	Short: "List a directory tree with file types, optionally filtered",
	Long: `Scan a directory and classify every entry. Symbolic link loops are reported
instead of followed, and unreadable subdirectories are skipped.

Examples:
  # List the top level of a directory
  fileprobe scan ./build

  # Find every Mach-O binary and dylib below a bundle and decode their headers
  fileprobe scan Payload/App.app -r --type executable_image,dynamic_library --analyze-binaries

  # Find large archives modified this year
  fileprobe scan ~/Downloads -r --ext ipa,zip --min-size 100MB --after 2024-01-01

  # Limit recursion depth and emit JSON
  fileprobe scan /Applications -r --max-depth 2 -o json`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVarP(&scanRecursive, "recursive", "r", false, "descend into subdirectories (default from scan.recursive)")
	scanCmd.Flags().IntVar(&scanMaxDepth, "max-depth", 0, "maximum depth below the root, 0 for unlimited (default from scan.max_depth)")

	scanCmd.Flags().StringVarP(&namePattern, "name", "n", "", "filename pattern (wildcards: *, ?)")
	scanCmd.Flags().StringVar(&nameRegex, "regex", "", "filename regex pattern")
	scanCmd.Flags().StringSliceVar(&extensions, "ext", nil, "file extensions (ipa,dylib,plist)")
	scanCmd.Flags().StringSliceVarP(&fileTypes, "type", "t", nil, "file types (executable_image,app_archive,...)")
	scanCmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "case-sensitive name matching")
	scanCmd.Flags().BoolVar(&filesOnly, "files-only", false, "omit directories from the results")

	scanCmd.Flags().StringVar(&minSize, "min-size", "", "minimum file size (10MB, 1GB)")
	scanCmd.Flags().StringVar(&maxSize, "max-size", "", "maximum file size (100MB, 2GB)")

	scanCmd.Flags().StringVar(&modifiedAfter, "after", "", "modified on or after (YYYY-MM-DD)")
	scanCmd.Flags().StringVar(&modifiedBefore, "before", "", "modified on or before (YYYY-MM-DD)")

	scanCmd.Flags().IntVar(&maxResults, "limit", 1000, "maximum results, 0 for unlimited")

	scanCmd.Flags().BoolVar(&analyzeBinaries, "analyze-binaries", false, "decode Mach-O headers of listed executables and dylibs")

	scanCmd.MarkFlagsMutuallyExclusive("name", "regex")
}

func runScan(cmd *cobra.Command, dir string) error {
	// Configuration supplies traversal defaults unless the flags are given
	defaults := appCtx.Engine.DefaultScanOptions()
	recursive := defaults.Recursive
	if cmd.Flags().Changed("recursive") {
		recursive = scanRecursive
	}
	maxDepth := defaults.MaxDepth
	if cmd.Flags().Changed("max-depth") {
		maxDepth = scanMaxDepth
	}

	request := &scan.Request{
		Path:           dir,
		Recursive:      recursive,
		MaxDepth:       maxDepth,
		NamePattern:    namePattern,
		NameRegex:      nameRegex,
		Extensions:     extensions,
		Types:          fileTypes,
		CaseSensitive:  caseSensitive,
		FilesOnly:      filesOnly,
		MinSize:        minSize,
		MaxSize:        maxSize,
		ModifiedAfter:  modifiedAfter,
		ModifiedBefore: modifiedBefore,
		MaxResults:     maxResults,

		AnalyzeBinaries: analyzeBinaries,
	}

	// Handle the request through application layer
	response, err := scan.Handle(appCtx, request)
	if err != nil {
		return err
	}

	// Format and display results
	return render(scan.FormatOutput, response)
}

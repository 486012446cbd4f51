package scan

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/deploymenttheory/go-fileprobe/pkg/app"
)

// FormatOutput formats scan results according to output format
func FormatOutput(w io.Writer, response *Response, format string) error {
	return app.Render(w, format, response, func(tw *tabwriter.Writer) error {
		return formatTable(w, tw, response)
	})
}

// formatTable formats results as a table
func formatTable(w io.Writer, tw *tabwriter.Writer, response *Response) error {
	if len(response.Files) == 0 {
		fmt.Fprintln(w, "No files found matching the scan criteria.")
		return nil
	}

	withArch := response.Query.AnalyzeBinaries
	if withArch {
		fmt.Fprintf(tw, "PATH\tTYPE\tSIZE\tMODIFIED\tSIGNATURE\tARCH\n")
		fmt.Fprintf(tw, "----\t----\t----\t--------\t---------\t----\n")
	} else {
		fmt.Fprintf(tw, "PATH\tTYPE\tSIZE\tMODIFIED\tSIGNATURE\n")
		fmt.Fprintf(tw, "----\t----\t----\t--------\t---------\n")
	}

	for _, file := range response.Files {
		modTime := file.Modified.Format("2006-01-02 15:04")
		name := file.Path
		switch {
		case file.LoopDetected:
			name += " (loop)"
		case file.DepthLimited:
			name += " (depth limit)"
		case file.Error != "":
			name += " (unreadable)"
		}
		size := app.FormatBytes(file.Size)
		if file.IsDirectory {
			size = "-"
		}
		if withArch {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", name, file.TypeName, size, modTime, file.Signature, archColumn(file))
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", name, file.TypeName, size, modTime, file.Signature)
	}

	// Summary
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, FormatSummary(response))
	return nil
}

func archColumn(file FileResult) string {
	switch {
	case file.Binary != nil:
		return file.Binary.Architectures
	case file.BinaryError != "":
		return "invalid"
	default:
		return "-"
	}
}

// FormatSummary provides a brief summary line
func FormatSummary(response *Response) string {
	if response.TotalFound == 0 {
		return fmt.Sprintf("No matches among %d entries", response.TotalScanned)
	}

	summary := fmt.Sprintf("Found %d of %d entries", response.TotalFound, response.TotalScanned)
	if response.Truncated {
		summary += fmt.Sprintf(" (showing %d)", len(response.Files))
	}

	var totalSize int64
	for _, file := range response.Files {
		if !file.IsDirectory {
			totalSize += file.Size
		}
	}
	summary += fmt.Sprintf(" totaling %s", app.FormatBytes(totalSize))

	if len(response.TypeCounts) > 0 {
		names := make([]string, 0, len(response.TypeCounts))
		for name := range response.TypeCounts {
			names = append(names, name)
		}
		sort.Strings(names)
		summary += " ["
		for i, name := range names {
			if i > 0 {
				summary += ", "
			}
			summary += fmt.Sprintf("%s: %d", name, response.TypeCounts[name])
		}
		summary += "]"
	}

	summary += fmt.Sprintf(" in %v", response.ScanTime)
	return summary
}

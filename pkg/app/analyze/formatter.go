package analyze

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/deploymenttheory/go-fileprobe/pkg/app"
)

// FormatOutput formats analysis results according to output format
func FormatOutput(w io.Writer, response *Response, format string) error {
	return app.Render(w, format, response, func(tw *tabwriter.Writer) error {
		switch response.View {
		case ViewInspect:
			formatInspect(tw, response)
		case ViewDigest:
			formatDigest(tw, response)
		case ViewMachO:
			formatMachO(tw, response)
		default:
			formatClassify(tw, response)
		}
		return nil
	})
}

func formatClassify(tw *tabwriter.Writer, response *Response) {
	fmt.Fprintf(tw, "PATH\tTYPE\n")
	fmt.Fprintf(tw, "----\t----\n")
	for _, file := range response.Files {
		fmt.Fprintf(tw, "%s\t%s\n", file.Path, typeColumn(file))
	}
}

func formatInspect(tw *tabwriter.Writer, response *Response) {
	fmt.Fprintf(tw, "PATH\tTYPE\tSIZE\tEXEC\tMODIFIED\tSIGNATURE\n")
	fmt.Fprintf(tw, "----\t----\t----\t----\t--------\t---------\n")
	for _, file := range response.Files {
		if file.Record == nil {
			fmt.Fprintf(tw, "%s\t%s\t\t\t\t\n", file.Path, typeColumn(file))
			continue
		}
		r := file.Record
		size := app.FormatBytes(r.Size)
		if r.IsDirectory {
			size = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Path, file.TypeName, size, app.YesNo(r.IsExecutable), r.ModTime.Format("2006-01-02 15:04"), r.Signature)
	}
}

func formatDigest(tw *tabwriter.Writer, response *Response) {
	fmt.Fprintf(tw, "PATH\tSHA256\tSHA1\tMD5\n")
	fmt.Fprintf(tw, "----\t------\t----\t---\n")
	for _, file := range response.Files {
		if file.Digests == nil {
			fmt.Fprintf(tw, "%s\terror: %s\t\t\n", file.Path, file.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", file.Path, file.Digests.SHA256, file.Digests.SHA1, file.Digests.MD5)
	}
}

func formatMachO(tw *tabwriter.Writer, response *Response) {
	fmt.Fprintf(tw, "PATH\tARCH\tCPU\tKIND\tSLICES\tNCMDS\tPIE\tARM64E\tBYTE ORDER\n")
	fmt.Fprintf(tw, "----\t----\t---\t----\t------\t-----\t---\t------\t----------\n")
	for _, file := range response.Files {
		if file.Binary == nil {
			fmt.Fprintf(tw, "%s\terror: %s\t\t\t\t\t\t\t\n", file.Path, file.Error)
			continue
		}
		b := file.Binary
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			file.Path, b.Architectures, dash(b.CPUType), dash(b.FileKind), b.ArchitectureCount,
			b.LoadCommandCount, app.YesNo(b.IsPositionIndependent), app.YesNo(b.IsArm64e), dash(b.ByteOrder))
	}
}

func typeColumn(file FileReport) string {
	if file.Error != "" {
		return "error: " + file.Error
	}
	return file.TypeName
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-fileprobe/pkg/app/fileops"
)

var (
	copyDest string
	moveDest string
)

var deleteCmd = &cobra.Command{
	Use:   "delete [path...]",
	Short: "Delete files, continuing past failures",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileOp(fileops.OpDelete, args, "")
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy [file...] --dest DIR",
	Short: "Copy files into a directory, preserving permissions",
	Example: `  fileprobe copy build/App.ipa build/App.dSYM.zip --dest /tmp/artifacts`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileOp(fileops.OpCopy, args, copyDest)
	},
}

var moveCmd = &cobra.Command{
	Use:   "move [file...] --dest DIR",
	Short: "Move files into a directory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileOp(fileops.OpMove, args, moveDest)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd, copyCmd, moveCmd)

	copyCmd.Flags().StringVarP(&copyDest, "dest", "d", "", "destination directory (required)")
	copyCmd.MarkFlagRequired("dest")

	moveCmd.Flags().StringVarP(&moveDest, "dest", "d", "", "destination directory (required)")
	moveCmd.MarkFlagRequired("dest")
}

func runFileOp(op fileops.Operation, paths []string, dest string) error {
	response, err := fileops.Handle(appCtx, &fileops.Request{Op: op, Paths: paths, Destination: dest})
	if err != nil {
		return err
	}

	if err := render(fileops.FormatOutput, response); err != nil {
		return err
	}

	if response.Failed > 0 {
		return fmt.Errorf("%s: %d of %d items failed", op, response.Failed, len(paths))
	}
	return nil
}

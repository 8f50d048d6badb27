package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mediabrowse/internal/filelist"
)

func init() {
	var lf listFlags
	var selected []string
	lsCmd := &cobra.Command{
		Use:   "ls [directory|storage]",
		Short: "List a directory or the storage volumes (headless)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := lf.options()
			if err != nil {
				return err
			}
			src, err := lf.source()
			if err != nil {
				return err
			}
			dir := startDir(args, filelist.StorageRoot)
			var entries []filelist.Entry
			if len(selected) > 0 {
				entries = filelist.NewMultiSelect(splitList(selected), dir, src, opts).Entries()
			} else {
				entries = filelist.New(dir, src, opts).Entries()
			}
			return printEntries(cmd.OutOrStdout(), entries, len(selected) > 0)
		},
	}
	lf.register(lsCmd)
	lsCmd.Flags().StringSliceVar(&selected, "selected", nil, "mark these paths as selected")
	rootCmd.AddCommand(lsCmd)
}

func kindLabel(e filelist.Entry) string {
	switch e.Kind {
	case filelist.KindStorageList:
		return "storage"
	case filelist.KindParent:
		return "parent"
	case filelist.KindPlaceholder:
		return "-"
	case filelist.KindDir:
		return "dir"
	}
	if e.Type != filelist.TypeNone {
		return string(e.Type)
	}
	return "file"
}

func printEntries(w io.Writer, entries []filelist.Entry, marks bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		mark := ""
		if marks {
			mark = "[ ] "
			if e.Selected {
				mark = "[x] "
			}
			if e.Synthetic() {
				mark = "    "
			}
		}
		if _, err := fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\n", mark, kindLabel(e), e.Name, e.Ref.Path(), e.Mountpoint); err != nil {
			return err
		}
	}
	return tw.Flush()
}

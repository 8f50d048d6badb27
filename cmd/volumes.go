package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mediabrowse/internal/volumes"
)

func init() {
	var (
		lf    listFlags
		watch bool
	)
	volumesCmd := &cobra.Command{
		Use:   "volumes",
		Short: "List mounted storage volumes, optionally watching for changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := lf.source()
			if err != nil {
				return err
			}
			table := volumes.NewMountTable(nil)
			if err := table.Refresh(src); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := printPartitions(out, table.Partitions()); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			w, err := volumes.NewWatcher(cfg.MediaRoot)
			if err != nil {
				return err
			}
			defer w.Close()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			err = w.Run(ctx, func(c volumes.Change) {
				if rerr := table.Refresh(src); rerr != nil {
					fmt.Fprintf(out, "%s %s (refresh failed: %v)\n", c.Action, c.Path, rerr)
					return
				}
				fmt.Fprintf(out, "%s %s\n", c.Action, c.Path)
				_ = printPartitions(out, table.Partitions())
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	volumesCmd.Flags().StringSliceVar(&lf.mounts, "mount", nil, "static volume as mountpoint=description instead of the mount table")
	volumesCmd.Flags().BoolVar(&watch, "watch", false, "keep running and report volumes coming and going")
	rootCmd.AddCommand(volumesCmd)
}

func printPartitions(w io.Writer, parts []volumes.Partition) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MOUNTPOINT\tDESCRIPTION\tDEVICE\tTYPE")
	for _, p := range parts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Mountpoint, p.Description, p.Device, p.FSType)
	}
	return tw.Flush()
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mediabrowse/internal/report"
	"mediabrowse/internal/settings"
	"mediabrowse/internal/tui"
)

func init() {
	var (
		lf          listFlags
		preselected []string
		jsonOut     string
		mdOut       string
	)
	pickCmd := &cobra.Command{
		Use:         "pick [directory|storage]",
		Short:       "Select several files and directories (TUI)",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{tuiAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := lf.options()
			if err != nil {
				return err
			}
			src, err := lf.source()
			if err != nil {
				return err
			}
			store := settings.NewStore(cfg.SettingsPath)
			last, _ := store.Get(settings.KeyLastDirectory)
			dir := startDir(args, last)

			startedAt := time.Now()
			res, err := tui.Browse(tui.BrowseOptions{
				Directory:   dir,
				Source:      src,
				Lister:      opts,
				Multi:       true,
				Preselected: splitList(preselected),
				WatchRoot:   watchRoot(),
			})
			if err != nil {
				return err
			}
			rememberDirectory(store, res.Directory)
			if res.Aborted {
				return nil
			}

			items := report.Items(res.Selected, res.OwnerOf)
			if jsonOut != "" {
				if err := report.WriteJSON(jsonOut, items); err != nil {
					return err
				}
			}
			if mdOut != "" {
				summary := report.Summary{
					StartDir:   dir,
					StartedAt:  startedAt,
					FinishedAt: time.Now(),
					Selected:   len(items),
					Dropped:    res.Dropped + len(res.Selected) - len(items),
					JSONPath:   jsonOut,
				}
				if _, err := report.WriteMarkdown(mdOut, items, summary); err != nil {
					return err
				}
			}
			for _, p := range res.Selected {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	lf.register(pickCmd)
	pickCmd.Flags().StringSliceVar(&preselected, "preselect", nil, "paths selected when the list opens")
	pickCmd.Flags().StringVar(&jsonOut, "json-out", "", "path to write the confirmed selection as JSON (array)")
	pickCmd.Flags().StringVar(&mdOut, "md-out", "", "path to write the confirmed selection as Markdown")
	rootCmd.AddCommand(pickCmd)
}

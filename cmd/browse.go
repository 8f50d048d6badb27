package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mediabrowse/internal/filelist"
	"mediabrowse/internal/logging"
	"mediabrowse/internal/settings"
	"mediabrowse/internal/tui"
)

func init() {
	var lf listFlags
	browseCmd := &cobra.Command{
		Use:         "browse [directory|storage]",
		Short:       "Browse volumes and pick one file (TUI)",
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

			res, err := tui.Browse(tui.BrowseOptions{
				Directory: startDir(args, last),
				Source:    src,
				Lister:    opts,
				WatchRoot: watchRoot(),
			})
			if err != nil {
				return err
			}
			rememberDirectory(store, res.Directory)
			if res.Picked != "" {
				fmt.Fprintln(cmd.OutOrStdout(), res.Picked)
			}
			return nil
		},
	}
	lf.register(browseCmd)
	rootCmd.AddCommand(browseCmd)
}

func watchRoot() string {
	if !cfg.Watch {
		return ""
	}
	return cfg.MediaRoot
}

func rememberDirectory(store *settings.Store, dir string) {
	if dir == filelist.StorageRoot {
		return
	}
	if err := store.Set(settings.KeyLastDirectory, dir); err != nil {
		logging.Named("cmd").Warn("could not remember directory", zap.Error(err))
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediabrowse/internal/settings"
	"mediabrowse/internal/skins"
	"mediabrowse/internal/tui"
)

func init() {
	var (
		display bool
		list    bool
		apply   string
		restart bool
	)
	skinsCmd := &cobra.Command{
		Use:         "skins",
		Short:       "Select the GUI or front-panel skin",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{tuiAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := skins.Primary(cfg.DataDir)
			if display {
				profile = skins.Display(cfg.DataDir)
			}
			store := settings.NewStore(cfg.SettingsPath)
			restarter := skins.CommandRestarter{Command: cfg.RestartCommand}
			out := cmd.OutOrStdout()

			switch {
			case list:
				found, err := profile.Discover()
				if err != nil {
					return err
				}
				current, err := store.Get(profile.ConfigKey)
				if err != nil {
					return err
				}
				for _, s := range found {
					mark := " "
					if profile.ConfigValue(s.Name) == current {
						mark = "*"
					}
					fmt.Fprintf(out, "%s %s\t%s\n", mark, s.Name, profile.PreviewPath(s.Name, cfg.GUISkinDir))
				}
				return nil
			case apply != "":
				var r skins.Restarter
				if restart {
					r = restarter
				}
				if err := profile.Apply(apply, store, r); err != nil {
					return err
				}
				fmt.Fprintln(out, profile.ConfigValue(apply))
				return nil
			}

			value, err := tui.SelectSkin(tui.SkinOptions{
				Profile:    profile,
				GUISkinDir: cfg.GUISkinDir,
				Store:      store,
				Restarter:  restarter,
			})
			if err != nil {
				return err
			}
			if value != "" {
				fmt.Fprintln(out, value)
			}
			return nil
		},
	}
	skinsCmd.Flags().BoolVar(&display, "display", false, "select the front-panel (LCD) skin")
	skinsCmd.Flags().BoolVar(&list, "list", false, "print the installed skins and exit")
	skinsCmd.Flags().StringVar(&apply, "apply", "", "store this skin without opening the selector")
	skinsCmd.Flags().BoolVar(&restart, "restart", false, "with --apply, restart the GUI afterwards")
	rootCmd.AddCommand(skinsCmd)
}

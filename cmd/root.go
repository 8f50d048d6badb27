package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mediabrowse/internal/config"
	"mediabrowse/internal/logging"
)

const tuiAnnotation = "tui"

var rootCmd = &cobra.Command{
	Use:   "mediabrowse",
	Short: "Mountpoint-aware media browser and skin selector",
	Long: "mediabrowse lists directories across mounted storage volumes, lets you pick one file " +
		"or a set of files in a TUI, and selects GUI and front-panel skins.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
}

var (
	cfg *config.Config

	logLevel   string
	logFormat  string
	logFile    string
	mediaRoot  string
	mountsFile string
	dataDir    string
	settingsAt string
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (env MEDIABROWSE_LOG_LEVEL)")
	pf.StringVar(&logFormat, "log-format", "", "log format: console or json (env MEDIABROWSE_LOG_FORMAT)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	pf.StringVar(&mediaRoot, "media-root", "", "directory under which volumes are mounted")
	pf.StringVar(&mountsFile, "mounts-file", "", "mount table to read")
	pf.StringVar(&dataDir, "data-dir", "", "data directory holding enigma2 skins")
	pf.StringVar(&settingsAt, "settings", "", "settings file")
}

// setup loads the environment config, applies flag overrides and starts logging.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	override(&c.LogLevel, logLevel)
	override(&c.LogFormat, logFormat)
	override(&c.LogFile, logFile)
	override(&c.MediaRoot, mediaRoot)
	override(&c.MountsFile, mountsFile)
	override(&c.SettingsPath, settingsAt)
	if dataDir != "" {
		c.DataDir = dataDir
		if os.Getenv("MEDIABROWSE_GUI_SKIN_DIR") == "" {
			c.GUISkinDir = filepath.Join(dataDir, "enigma2", "skin_default")
		}
	}
	// TUI commands log to a file
	if c.LogFile == "" && cmd.Annotations[tuiAnnotation] != "" {
		c.LogFile = filepath.Join(os.TempDir(), "mediabrowse.log")
	}
	if err := logging.Init(logging.Config{Level: c.LogLevel, Format: c.LogFormat, OutputPath: c.LogFile}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	cfg = c
	return nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

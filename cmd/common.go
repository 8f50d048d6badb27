package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediabrowse/internal/filelist"
	"mediabrowse/internal/volumes"
)

// listFlags are the listing options shared by ls, browse and pick.
type listFlags struct {
	pattern       string
	globs         []string
	inhibitDirs   []string
	inhibitMounts []string
	mounts        []string
	ignore        []string
	top           string
	noDirs        bool
	noFiles       bool
	noMounts      bool
	wrap          bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.pattern, "pattern", "", "regular expression a file path must match")
	fl.StringSliceVar(&f.globs, "glob", nil, "glob a file must match (repeatable, comma-separated)")
	fl.StringSliceVar(&f.inhibitDirs, "inhibit-dir", nil, "hide this directory and everything below it")
	fl.StringSliceVar(&f.inhibitMounts, "inhibit-mount", nil, "hide this mountpoint")
	fl.StringSliceVar(&f.mounts, "mount", nil, "static volume as mountpoint=description instead of the mount table")
	fl.StringSliceVar(&f.ignore, "ignore", nil, "gitignore-style line of entries to hide")
	fl.StringVar(&f.top, "top", "", "never navigate above this directory")
	fl.BoolVar(&f.noDirs, "no-dirs", false, "do not list directories")
	fl.BoolVar(&f.noFiles, "no-files", false, "do not list files")
	fl.BoolVar(&f.noMounts, "no-mounts", false, "hide the storage list and its links")
	fl.BoolVar(&f.wrap, "wrap", false, "wrap the cursor around the list ends")
}

func (f *listFlags) options() (filelist.Options, error) {
	opts := filelist.DefaultOptions()
	opts.ShowDirectories = !f.noDirs
	opts.ShowFiles = !f.noFiles
	opts.ShowMountpoints = !f.noMounts
	opts.EnableWrapAround = f.wrap
	opts.TopDir = f.top
	opts.IgnoreLines = f.ignore

	opts.InhibitDirs = append(append([]string(nil), cfg.InhibitDirs...), f.inhibitDirs...)
	for _, m := range append(append([]string(nil), cfg.InhibitMounts...), f.inhibitMounts...) {
		opts.InhibitMounts = append(opts.InhibitMounts, volumes.WithSlash(m))
	}

	switch {
	case f.pattern != "" && len(f.globs) > 0:
		return opts, fmt.Errorf("--pattern and --glob are mutually exclusive")
	case f.pattern != "":
		re, err := filelist.NewRegex(f.pattern)
		if err != nil {
			return opts, err
		}
		opts.Pattern = re
	case len(f.globs) > 0:
		g, err := filelist.NewGlob(splitList(f.globs)...)
		if err != nil {
			return opts, err
		}
		opts.Pattern = g
	}
	return opts, nil
}

func (f *listFlags) source() (volumes.Source, error) {
	if len(f.mounts) > 0 {
		return volumes.ParseStatic(f.mounts)
	}
	return volumes.ProcMounts{Path: cfg.MountsFile, MediaRoot: cfg.MediaRoot}, nil
}

// splitList allows comma-separated chunks inside repeated values.
func splitList(in []string) []string {
	var out []string
	for _, a := range in {
		for _, part := range strings.Split(a, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// startDir maps the "storage" keyword and an empty argument to the storage list.
func startDir(args []string, fallback string) string {
	if len(args) == 0 {
		return fallback
	}
	if args[0] == "storage" || args[0] == "" {
		return filelist.StorageRoot
	}
	return args[0]
}

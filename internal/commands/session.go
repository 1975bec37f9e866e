package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledgerlens-dev/ledgerlens/internal/aggregate"
	"github.com/ledgerlens-dev/ledgerlens/internal/config"
	"github.com/ledgerlens-dev/ledgerlens/internal/loader"
)

type globalOptions struct {
	configPath   string
	start        string
	end          string
	category     string
	noColor      bool
	useDatafiles bool
}

// session holds everything a subcommand needs after the ingestion phase:
// the loaded config and the frozen snapshot with its resolved date span.
type session struct {
	cfg      *config.Config
	snapshot *aggregate.Snapshot
	start    time.Time
	end      time.Time
	span     int // months between start and end, at least 1
}

// newSession loads the config, reads and deduplicates the input files
// within the requested window, and builds the snapshot. Unset window
// bounds fall back to the earliest/latest transaction in the data.
func newSession(opts *globalOptions, args []string) (*session, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	window, err := parseWindow(opts.start, opts.end)
	if err != nil {
		return nil, err
	}

	files := args
	if opts.useDatafiles && cfg.Datafiles != "" {
		files, err = expandGlob(cfg.Datafiles)
		if err != nil {
			return nil, err
		}
	}

	rows, err := loader.New(window).LoadAll(files)
	if err != nil {
		return nil, err
	}
	snapshot := aggregate.Build(rows, cfg.Normalizer())

	start, end := window.Start, window.End
	if start.IsZero() || end.IsZero() {
		first, last := snapshot.DateRange()
		if start.IsZero() {
			start = first
		}
		if end.IsZero() {
			end = last
		}
	}

	span := aggregate.MonthsBetween(start, end)
	if span < 1 {
		span = 1
	}

	return &session{cfg: cfg, snapshot: snapshot, start: start, end: end, span: span}, nil
}

// loadConfig reads the config at path. A missing file at the default
// location degrades to an empty config; an explicit path must exist.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg, err := config.Load(config.DefaultPath())
		if errors.Is(err, fs.ErrNotExist) {
			return &config.Config{}, nil
		}
		return cfg, err
	}
	return config.Load(path)
}

func parseWindow(start, end string) (loader.Window, error) {
	var w loader.Window
	var err error
	if start != "" {
		if w.Start, err = parseDate(start); err != nil {
			return loader.Window{}, fmt.Errorf("parsing --start: %w", err)
		}
	}
	if end != "" {
		if w.End, err = parseDate(end); err != nil {
			return loader.Window{}, fmt.Errorf("parsing --end: %w", err)
		}
	}
	return w, nil
}

// parseDate accepts YYYY-MM-DD plus the shorthands foy (first of this
// year) and fom (first of this month).
func parseDate(s string) (time.Time, error) {
	now := time.Now()
	switch s {
	case "foy":
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.Local), nil
	case "fom":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local), nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

// expandGlob resolves a datafiles glob, expanding a leading ~.
func expandGlob(pattern string) ([]string, error) {
	if strings.HasPrefix(pattern, "~"+string(os.PathSeparator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("expanding datafiles glob: %w", err)
		}
		pattern = filepath.Join(home, pattern[2:])
	}
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expanding datafiles glob: %w", err)
	}
	return files, nil
}

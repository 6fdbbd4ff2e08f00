package export

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Options controls RemoveOldFiles. The zero value removes files older than
// one day matching any name, without descending into subdirectories.
type Options struct {
	MaxAge  time.Duration
	Exclude []string
	Pattern string
	DryRun  bool
	Subdirs bool
}

// RemoveOldFiles deletes files under path whose modification time is older
// than MaxAge. Lock files and anything matching an exclusion glob are
// skipped, as is the content of .gdb directories. In dry-run mode the
// candidates are logged and kept. Removal failures are collected and
// reported but never escalate past the caller's logging.
func (e *Exporter) RemoveOldFiles(path string, opts Options) error {
	if opts.MaxAge <= 0 {
		opts.MaxAge = 24 * time.Hour
	}

	if opts.Pattern == "" {
		opts.Pattern = "*"
	}

	removeAfter := time.Now().Add(-opts.MaxAge)

	var errs error

	err := e.removeIn(path, removeAfter, opts)
	if err != nil && !os.IsNotExist(err) {
		errs = multierr.Append(errs, err)
	}

	return errs
}

func (e *Exporter) removeIn(dir string, removeAfter time.Time, opts Options) error {
	if strings.HasSuffix(dir, ".gdb") {
		e.Logger.Debug("excluded directory", zap.String("dir", dir))

		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var errs error

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if opts.Subdirs {
				errs = multierr.Append(errs, e.removeIn(full, removeAfter, opts))
			}

			continue
		}

		if !e.eligible(entry.Name(), opts) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			errs = multierr.Append(errs, err)

			continue
		}

		if !info.ModTime().Before(removeAfter) {
			e.Logger.Debug("skipped", zap.String("file", full))

			continue
		}

		if opts.DryRun {
			e.Logger.Info("would delete", zap.String("file", full))

			continue
		}

		if err := os.Remove(full); err != nil {
			e.Logger.Warn("could not delete", zap.String("file", full), zap.Error(err))
			errs = multierr.Append(errs, err)

			continue
		}

		e.Logger.Info("deleted", zap.String("file", full))
	}

	return errs
}

func (e *Exporter) eligible(name string, opts Options) bool {
	if strings.HasSuffix(strings.ToLower(name), ".lock") {
		return false
	}

	if match, _ := filepath.Match(opts.Pattern, name); !match {
		return false
	}

	for _, glob := range opts.Exclude {
		if match, _ := filepath.Match(glob, name); match {
			e.Logger.Debug("excluded", zap.String("file", name))

			return false
		}
	}

	return true
}

package compiler

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch recompiles a file each time it is written or recreated, until ctx
// is done. done is called after every recompilation.
//
// The parent directories are watched rather than the files, so editors
// that save by renaming a temporary file are still seen.
func (c *Compiler) Watch(ctx context.Context, files []string, done func(*Result, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	targets := make(map[string]string, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("watch %s: %w", f, err)
		}
		targets[abs] = f
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := w.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			dirs[dir] = true
		}
	}
	c.logger.Info("watching", "files", len(targets), "directories", len(dirs))

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			file, ok := targets[abs]
			if !ok {
				continue
			}
			c.logger.Info("recompiling", "file", file, "op", ev.Op.String())
			res, err := c.CompileFile(file)
			if err != nil {
				c.logger.Error("compile failed", "file", file, "error", err)
			}
			done(res, err)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("watch error", "error", err)
		}
	}
}

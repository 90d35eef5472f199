package workflow

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"harmonize/internal/config"
	"harmonize/internal/metrics"
	"harmonize/internal/progress"
)

// Prune removes target files no task produced and target directories with
// no source counterpart. It returns the removed paths in walk order. The
// target root itself is never removed, nor is the source root or any
// directory holding it.
func Prune(sourceRoot, targetRoot string, tasks []Task, reporter *progress.Reporter, run *metrics.Run) ([]string, error) {
	keep := make(map[string]struct{}, len(tasks))
	for _, task := range tasks {
		keep[filepath.Clean(task.TargetPath)] = struct{}{}
	}
	root := filepath.Clean(targetRoot)
	resolvedRoot, err := config.ResolvePath(root)
	if err != nil {
		return nil, fmt.Errorf("resolve target %s: %w", targetRoot, err)
	}
	resolvedSource, err := config.ResolvePath(sourceRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve source %s: %w", sourceRoot, err)
	}
	sep := string(filepath.Separator)

	var doomed []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if d.IsDir() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if info, err := os.Stat(filepath.Join(sourceRoot, rel)); err == nil && info.IsDir() {
				return nil
			}
			switch resolved := filepath.Join(resolvedRoot, rel); {
			case resolved == resolvedSource:
				return filepath.SkipDir
			case strings.HasPrefix(resolvedSource, resolved+sep):
				return nil
			}
			doomed = append(doomed, path)
			return filepath.SkipDir
		}
		if _, ok := keep[path]; !ok {
			doomed = append(doomed, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk target %s: %w", targetRoot, err)
	}

	removed := make([]string, 0, len(doomed))
	for _, path := range doomed {
		reporter.Deleting(path)
		if err := os.RemoveAll(path); err != nil {
			return removed, fmt.Errorf("delete %s: %w", path, err)
		}
		run.Pruned()
		removed = append(removed, path)
	}
	return removed, nil
}

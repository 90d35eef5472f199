package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Entry is one regular file discovered under the scan root.
type Entry struct {
	// SourcePath is the scan root as given joined with RelativePath.
	SourcePath string
	// RelativePath is slash-separated and relative to the scan root.
	RelativePath string
	Info         fs.FileInfo
}

// Snapshot is the fixed result of one scan.
type Snapshot struct {
	Root    string
	Entries []Entry
}

// Count reports the number of scanned entries.
func (s *Snapshot) Count() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// Options tunes which files a scan keeps.
type Options struct {
	// Exclude holds doublestar patterns matched against RelativePath.
	Exclude []string
}

// Error reports a failure to enumerate the source tree.
type Error struct {
	Root string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" && e.Path != e.Root {
		return fmt.Sprintf("scan %s: %s: %v", e.Root, e.Path, e.Err)
	}
	return fmt.Sprintf("scan %s: %v", e.Root, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Scan walks root recursively and returns every regular file, including
// symlinks that resolve to regular files. Directory symlinks are not
// followed. Entries are sorted by relative path.
func Scan(root string, opts Options) (*Snapshot, error) {
	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, &Error{Root: root, Err: fmt.Errorf("invalid exclude pattern %q", pattern)}
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, &Error{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &Error{Root: root, Err: errors.New("not a directory")}
	}

	var entries []Entry
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return &Error{Root: root, Path: path, Err: walkErr}
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return &Error{Root: root, Path: path, Err: err}
		}
		rel = filepath.ToSlash(rel)
		if excluded(rel, opts.Exclude) {
			return nil
		}

		info, err := fileInfo(path, d)
		if err != nil {
			return &Error{Root: root, Path: path, Err: err}
		}
		if info == nil {
			return nil
		}

		entries = append(entries, Entry{
			SourcePath:   filepath.Join(root, filepath.FromSlash(rel)),
			RelativePath: rel,
			Info:         info,
		})
		return nil
	})
	if err != nil {
		var scanErr *Error
		if errors.As(err, &scanErr) {
			return nil, scanErr
		}
		return nil, &Error{Root: root, Err: err}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RelativePath < entries[j].RelativePath
	})
	return &Snapshot{Root: root, Entries: entries}, nil
}

// fileInfo returns nil for anything that is not, or does not resolve to, a
// regular file.
func fileInfo(path string, d fs.DirEntry) (fs.FileInfo, error) {
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, nil
			}
			return nil, err
		}
		if !info.Mode().IsRegular() {
			return nil, nil
		}
		return info, nil
	}
	if !d.Type().IsRegular() {
		return nil, nil
	}
	return d.Info()
}

// excluded matches rel against each pattern. A pattern without a slash also
// matches the base name, so "*.log" excludes log files at any depth.
func excluded(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, path.Base(rel)); ok {
				return true
			}
		}
	}
	return false
}

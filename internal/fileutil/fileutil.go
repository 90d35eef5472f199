// Package fileutil holds the filesystem primitives the pipelines share:
// streaming copies and staged writes that land on the target path by rename.
package fileutil

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CopyFile streams src to dst using io.Copy with default permissions (0o644).
func CopyFile(src, dst string) error {
	return CopyFileMode(src, dst, 0o644)
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
// An existing dst is truncated.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// TempPath creates an empty hidden file next to target whose name keeps
// target's extension (".name.<random>.ext"), so tools that infer the output
// format from the extension still work. The caller owns the file.
func TempPath(target string) (string, error) {
	dir, base := filepath.Split(target)
	if dir == "" {
		dir = "."
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	file, err := os.CreateTemp(dir, "."+stem+".*"+ext)
	if err != nil {
		return "", err
	}
	name := file.Name()
	if err := file.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}

// ApplyAttributes copies the permission bits and modification time of
// source onto path. The access time is set to now.
func ApplyAttributes(path string, source fs.FileInfo) error {
	if err := os.Chmod(path, source.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(path, time.Now(), source.ModTime())
}

// WriteAtomic creates target's parent directories, lets write populate a
// temporary file beside target, applies source's attributes to it, and
// renames it over target. On failure the temporary file is removed and any
// existing target is left untouched.
func WriteAtomic(target string, source fs.FileInfo, write func(tmp string) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create target directory: %w", err)
	}
	tmp, err := TempPath(target)
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if err := write(tmp); err != nil {
		return err
	}
	if source != nil {
		if err := ApplyAttributes(tmp, source); err != nil {
			return fmt.Errorf("apply attributes: %w", err)
		}
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// Package runlock allows one harmonize run per target directory at a time.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrBusy reports that another run holds the lock for the same target.
var ErrBusy = errors.New("another harmonize run is using this target directory")

// Lock is a held run lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// PathFor returns the lock file used for target inside lockDir. The target
// is made absolute so different spellings of one directory share a lock.
func PathFor(lockDir, target string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolve target: %w", err)
	}
	sum := sha256.Sum256([]byte(abs))
	name := filepath.Base(abs) + "-" + hex.EncodeToString(sum[:6]) + ".lock"
	return filepath.Join(lockDir, name), nil
}

// Acquire takes the lock for target without blocking.
func Acquire(lockDir, target string) (*Lock, error) {
	path, err := PathFor(lockDir, target)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrBusy, path)
	}
	return &Lock{path: path, lock: lock}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release unlocks. The lock file is left in place for reuse.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}

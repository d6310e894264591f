package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/BjoernSchotte/atlcli/internal/syncerr"
)

// Lock is a held process-wide lock on a tracked root. Release must be called
// exactly once.
type Lock struct {
	path string
}

// LockPath returns the path to the .sync.lock file.
func (s *Store) LockPath() string {
	return filepath.Join(s.ControlPath(), lockFileName)
}

// AcquireLock takes the exclusive .sync.lock for this root. If the lock is
// already held by a live process, it returns a Usage error naming the
// holder's pid.
func (s *Store) AcquireLock() (*Lock, error) {
	path := s.LockPath()

	if pid, held := checkLock(path); held {
		return nil, syncerr.Usage("sync lock held by process %d (%s)", pid, path)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return nil, fmt.Errorf("write lock file: %w", err)
	}
	return &Lock{path: path}, nil
}

// Release removes the lock file.
func (l *Lock) Release() error {
	err := os.Remove(l.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

// checkLock reports whether the lock file names a process that is still
// alive.
func checkLock(path string) (pid int, held bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err = strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return 0, false
	}
	if err := process.Signal(syscall.Signal(0)); err != nil {
		return 0, false
	}
	return pid, true
}

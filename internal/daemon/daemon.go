// Package daemon tracks a background watch process through a PID file.
package daemon

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ErrNotRunning is returned when no live process owns the PID file
var ErrNotRunning = errors.New("watcher is not running")

// PIDFile is the path of a file holding the PID of a running watcher
type PIDFile string

// Write records the current process ID
func (f PIDFile) Write() error {
	path := string(f)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}

	content := fmt.Sprintf("%d\n", os.Getpid())
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	return nil
}

// Read returns the recorded PID
func (f PIDFile) Read() (int, error) {
	content, err := os.ReadFile(string(f))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, ErrNotRunning
		}
		return 0, fmt.Errorf("failed to read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}

	return pid, nil
}

// Remove deletes the PID file
func (f PIDFile) Remove() error {
	if err := os.Remove(string(f)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// IsRunning reports whether the recorded process is alive, its PID and
// approximately when it started. A stale PID file is removed.
func (f PIDFile) IsRunning() (bool, int, time.Time) {
	pid, err := f.Read()
	if err != nil {
		return false, 0, time.Time{}
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, 0, time.Time{}
	}

	// Signal 0 only checks that the process exists
	if err := process.Signal(syscall.Signal(0)); err != nil {
		_ = f.Remove() //nolint:errcheck // stale file, next Write overwrites it
		return false, 0, time.Time{}
	}

	var started time.Time
	if info, err := os.Stat(string(f)); err == nil {
		started = info.ModTime()
	}

	return true, pid, started
}

// Stop asks the running watcher to shut down
func (f PIDFile) Stop() error {
	running, pid, _ := f.IsRunning()
	if !running {
		return ErrNotRunning
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send SIGTERM: %w", err)
	}

	return nil
}

// Daemonize starts this executable again with args, detached from the
// terminal, and returns without waiting for it
func (f PIDFile) Daemonize(args []string) error {
	if running, pid, _ := f.IsRunning(); running {
		return fmt.Errorf("watcher already running with PID %d", pid)
	}

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	cmd := exec.Command(executable, args...)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("failed to release watcher process: %w", err)
	}

	return nil
}

// Package pidfile enforces single-instance daemons. The master station is
// the sole writer of the ledger journal and the sole durable consumer of the
// delta stream; a second instance would split the consumer cursor.
package pidfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// PIDFile guards a daemon instance through a file holding its process ID.
type PIDFile struct {
	path string
}

// New creates a PIDFile manager for the given path.
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Acquire writes the current PID, failing if another live process holds the
// file. Stale files left by dead processes are reclaimed.
func (p *PIDFile) Acquire() error {
	if _, err := os.Stat(p.path); err == nil {
		data, err := os.ReadFile(p.path)
		if err != nil {
			return fmt.Errorf("failed to read existing PID file: %w", err)
		}

		pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil {
			_ = os.Remove(p.path)
		} else if isProcessRunning(pid) {
			return fmt.Errorf("master station is already running (PID %d)", pid)
		} else {
			_ = os.Remove(p.path)
		}
	}

	pidData := fmt.Sprintf("%d\n", os.Getpid())
	if err := os.WriteFile(p.path, []byte(pidData), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Release removes the PID file. Missing files are not an error.
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// isProcessRunning probes a PID with signal 0.
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	if err == syscall.EPERM {
		// Alive but owned by someone else.
		return true
	}
	return false
}

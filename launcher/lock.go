package launcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/zhubert/forge-core/logger"
	"github.com/zhubert/forge-core/paths"
)

// defaultPollInterval is how often a blocked Acquire re-checks a contended lock.
const defaultPollInterval = 100 * time.Millisecond

// Local is the production Launcher. Its advisory locks are PID-stamped lock
// files, visible to every cooperating Forge process on the machine. A lock
// whose owning process is no longer alive is treated as stale and taken over.
type Local struct {
	appID        string
	version      string
	baseDir      string
	pollInterval time.Duration

	mu   sync.Mutex // guards held
	held map[string]string
}

// NewLocal returns a Launcher for the given base directory and runtime
// version, with a freshly minted application identity.
func NewLocal(baseDir, version string) *Local {
	l := &Local{
		appID:        newAppID(),
		version:      version,
		baseDir:      baseDir,
		pollInterval: defaultPollInterval,
		held:         make(map[string]string),
	}
	return l
}

// AppID returns the identity of this application instance.
func (l *Local) AppID() string { return l.appID }

// Version returns the runtime version the process was launched with.
func (l *Local) Version() string { return l.version }

// BaseDir returns the project base directory.
func (l *Local) BaseDir() string { return l.baseDir }

// lockPath resolves a resource identifier to a lock file path. Absolute
// resources are used as-is; relative ones live under the locks directory.
func (l *Local) lockPath(resource string) (string, error) {
	if filepath.IsAbs(resource) {
		return resource, nil
	}
	dir, err := paths.LocksDir()
	if err != nil {
		return "", err
	}
	// Flatten separators so a relative resource stays a single file name.
	name := strings.NewReplacer("/", "-", "\\", "-").Replace(resource)
	return filepath.Join(dir, name+".lock"), nil
}

// Acquire takes the advisory lock for resource, blocking until available.
// Stale locks left behind by dead processes are removed and taken over.
func (l *Local) Acquire(resource string) error {
	path, err := l.lockPath(resource)
	if err != nil {
		return err
	}

	l.mu.Lock()
	if _, ok := l.held[resource]; ok {
		l.mu.Unlock()
		return fmt.Errorf("lock %q already held by this process", resource)
	}
	l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	log := logger.WithComponent("launcher")
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d\n", os.Getpid())
			cerr := f.Close()
			if werr != nil || cerr != nil {
				os.Remove(path)
				return fmt.Errorf("failed to write lock file %s: %w", path, err2(werr, cerr))
			}
			l.mu.Lock()
			l.held[resource] = path
			l.mu.Unlock()
			log.Debug("lock acquired", "resource", resource, "path", path)
			return nil
		}
		if !os.IsExist(err) {
			return fmt.Errorf("failed to create lock file %s: %w", path, err)
		}

		// Contended. If the owner is dead, the lock is stale — take it over.
		if pid, ok := readLockPID(path); ok && !processAlive(pid) {
			log.Warn("removing stale lock", "resource", resource, "pid", pid)
			os.Remove(path)
			continue
		}

		time.Sleep(l.pollInterval)
	}
}

// Release gives up the advisory lock for resource.
func (l *Local) Release(resource string) error {
	l.mu.Lock()
	path, ok := l.held[resource]
	if ok {
		delete(l.held, resource)
	}
	l.mu.Unlock()

	if !ok {
		return fmt.Errorf("lock %q not held by this process", resource)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file %s: %w", path, err)
	}
	return nil
}

// readLockPID reads the owner PID from a lock file.
func readLockPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// processAlive reports whether a process with the given PID exists.
// Signal 0 performs the existence check without delivering a signal.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	// EPERM means the process exists but belongs to another user.
	return err == syscall.EPERM
}

// err2 returns the first non-nil error.
func err2(a, b error) error {
	if a != nil {
		return a
	}
	return b
}

package launcher

import (
	"fmt"
	"sync"
)

// Memory is an in-process Launcher for tests. Its locks coordinate
// goroutines rather than processes but follow the same blocking contract
// as Local: Acquire blocks until the resource is free, Release of an
// unheld resource is an error.
type Memory struct {
	appID   string
	version string
	baseDir string

	mu   sync.Mutex
	sems map[string]chan struct{}
}

// NewMemory returns an in-memory Launcher with a fresh application identity.
func NewMemory(baseDir, version string) *Memory {
	return &Memory{
		appID:   newAppID(),
		version: version,
		baseDir: baseDir,
		sems:    make(map[string]chan struct{}),
	}
}

// AppID returns the identity of this application instance.
func (m *Memory) AppID() string { return m.appID }

// Version returns the runtime version the process was launched with.
func (m *Memory) Version() string { return m.version }

// BaseDir returns the project base directory.
func (m *Memory) BaseDir() string { return m.baseDir }

// sem returns the one-token semaphore for resource, creating it on first use.
func (m *Memory) sem(resource string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sems[resource]
	if !ok {
		s = make(chan struct{}, 1)
		m.sems[resource] = s
	}
	return s
}

// Acquire takes the lock for resource, blocking until available.
func (m *Memory) Acquire(resource string) error {
	m.sem(resource) <- struct{}{}
	return nil
}

// Release gives up the lock for resource.
func (m *Memory) Release(resource string) error {
	select {
	case <-m.sem(resource):
		return nil
	default:
		return fmt.Errorf("lock %q not held", resource)
	}
}

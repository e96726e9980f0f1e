// Package launcher exposes the launch environment to the session core: the
// application identity, the runtime version the process was started with,
// the project base directory, and an advisory lock shared across
// cooperating processes.
//
// The session core receives a Launcher as an injected capability so tests
// can substitute the in-memory implementation.
package launcher

import "github.com/google/uuid"

// Launcher is the runtime-provider capability consumed by the session core.
type Launcher interface {
	// AppID returns the identity of this application instance.
	AppID() string

	// Version returns the runtime version the process was launched with.
	Version() string

	// BaseDir returns the project base directory.
	BaseDir() string

	// Acquire takes the advisory lock for resource, blocking until it is
	// available. At most one lock per resource may be held by a process.
	Acquire(resource string) error

	// Release gives up the advisory lock for resource.
	Release(resource string) error
}

// newAppID mints a fresh application identity.
func newAppID() string {
	return uuid.NewString()
}

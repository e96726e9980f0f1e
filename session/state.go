package session

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zhubert/forge-core/attr"
	"github.com/zhubert/forge-core/config"
	"github.com/zhubert/forge-core/launcher"
)

// FailureWall is the reserved sentinel command marking a recovery boundary
// in the command queue. Fail skips forward to the wall instead of
// terminating. Command dispatch guarantees ordinary command-name parsing
// can never produce this value.
const FailureWall = "---"

// Command is a registered command definition. Implementations must be
// comparable (pointer receivers are typical) so definitions and exit hooks
// can be deduplicated.
type Command interface {
	// Name is the leading word that selects this command.
	Name() string

	// Run applies the command to the session state. arg is the remainder of
	// the command string after the name.
	Run(arg string, s State) (State, error)
}

// Handler applies the head command to the session state. It is supplied by
// the command-dispatch collaborator; the session core knows nothing about
// what a handler does beyond its signature. Only *RebootError and
// lock-acquisition failures may flow through the error result.
type Handler func(cmd string, s State) (State, error)

// ExitHook is a deferred action run once when the session ends. Hooks are
// deduplicated by equality, so implementations must be comparable.
type ExitHook interface {
	Run() error
}

// State is the immutable snapshot of session progress. Operations return a
// new State and never mutate the receiver; slices and maps inside a State
// must be treated as shared and read-only.
type State struct {
	// Config is the launch-time configuration handle, read-only here.
	Config *config.Launch

	// Launcher is the injected runtime-provider capability.
	Launcher launcher.Launcher

	// Definitions is the ordered, deduplicated sequence of registered
	// command definitions.
	Definitions []Command

	// ExitHooks is the set of deferred actions to run at session end.
	ExitHooks map[ExitHook]struct{}

	// OnFailure is the pending one-shot failure-handler command, empty when
	// none is registered.
	OnFailure string

	// Remaining is the FIFO queue of command strings yet to execute.
	Remaining []string

	// History records executed commands, most recent first.
	History History

	// Attributes is the session's typed scratch space.
	Attributes attr.Map

	// Next is the signal the driver must act on before producing further
	// commands.
	Next Next
}

// New returns the initial state for a session: the configured boot commands
// queued, empty history at the configured bound, and Next set to Continue.
func New(cfg *config.Launch, l launcher.Launcher) State {
	return State{
		Config:    cfg,
		Launcher:  l,
		Remaining: slices.Clone(cfg.BootCommands),
		History:   NewHistory(cfg.HistorySize),
		Next:      Continue{},
	}
}

// Process advances the session by one command. An empty queue is an exit
// with success. Otherwise the head command is removed from the queue,
// prepended to history, and handed to h along with the updated state.
func (s State) Process(h Handler) (State, error) {
	if len(s.Remaining) == 0 {
		return s.Exit(true), nil
	}
	head := s.Remaining[0]
	s.History = s.History.Prepend(head)
	s.Remaining = s.Remaining[1:]
	return h(head, s)
}

// Prepend inserts commands at the front of the queue, preserving their
// relative order ahead of the existing queue.
func (s State) Prepend(cmds ...string) State {
	if len(cmds) == 0 {
		return s
	}
	remaining := make([]string, 0, len(cmds)+len(s.Remaining))
	remaining = append(remaining, cmds...)
	remaining = append(remaining, s.Remaining...)
	s.Remaining = remaining
	return s
}

// AddCommands appends definitions, deduplicating by equality while
// preserving first-occurrence order.
func (s State) AddCommands(defs ...Command) State {
	if len(defs) == 0 {
		return s
	}
	combined := make([]Command, 0, len(s.Definitions)+len(defs))
	seen := make(map[Command]struct{}, len(s.Definitions)+len(defs))
	for _, d := range s.Definitions {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		combined = append(combined, d)
	}
	for _, d := range defs {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		combined = append(combined, d)
	}
	s.Definitions = combined
	return s
}

// Continue clears any pending signal; the driver proceeds to the next
// command.
func (s State) Continue() State {
	s.Next = Continue{}
	return s
}

// Exit signals the driver to stop the loop with status 0 if ok, 1 otherwise.
func (s State) Exit(ok bool) State {
	code := 1
	if ok {
		code = 0
	}
	s.Next = Return{Result: Exit{Code: code}}
	return s
}

// Reload signals the driver to restart the process with the same runtime
// version, replaying the remaining commands.
func (s State) Reload() State {
	s.Next = Return{Result: Relaunch{
		Version:  s.Launcher.Version(),
		Commands: slices.Clone(s.Remaining),
		AppID:    s.Launcher.AppID(),
		BaseDir:  s.Launcher.BaseDir(),
	}}
	return s
}

// Reboot raises a restart request carrying the remaining command queue. The
// returned *RebootError must propagate past all failure-recovery logic to
// the outermost driver boundary; it is not a Fail case.
func (s State) Reboot(full bool) error {
	return &RebootError{
		Full:     full,
		Commands: slices.Clone(s.Remaining),
		AppID:    s.Launcher.AppID(),
		BaseDir:  s.Launcher.BaseDir(),
	}
}

// ClearGlobalLog signals the driver to discard accumulated global log
// output.
func (s State) ClearGlobalLog() State {
	s.Next = ClearGlobalLog{}
	return s
}

// KeepLastLog signals the driver to retain only the most recent log
// segment.
func (s State) KeepLastLog() State {
	s.Next = KeepLastLog{}
	return s
}

// WithOnFailure registers cmd as the one-shot failure handler. An empty cmd
// clears the registration.
func (s State) WithOnFailure(cmd string) State {
	s.OnFailure = cmd
	return s
}

// WithHistorySize replaces the history wholesale with the new bound,
// truncating existing entries to fit.
func (s State) WithHistorySize(maxSize int) State {
	s.History = s.History.Resize(maxSize)
	return s
}

// Fail handles a command failure:
//
//  1. The queue is scanned for the first failure wall; remaining is the
//     sub-queue from the wall (inclusive), or empty if there is none.
//  2. If a one-shot failure handler is registered, it is prepended to
//     remaining and consumed, whether or not a wall was found.
//  3. Otherwise, if a wall was found, everything before it is discarded.
//  4. Otherwise the session terminates with a failure result.
func (s State) Fail() State {
	var remaining []string
	if i := slices.Index(s.Remaining, FailureWall); i >= 0 {
		remaining = s.Remaining[i:]
	}
	if s.OnFailure != "" {
		handler := s.OnFailure
		s.OnFailure = ""
		queue := make([]string, 0, 1+len(remaining))
		queue = append(queue, handler)
		queue = append(queue, remaining...)
		s.Remaining = queue
		return s
	}
	if len(remaining) > 0 {
		s.Remaining = remaining
		return s
	}
	return s.Exit(false)
}

// AddExitHook inserts a hook into the exit-hook set. Re-adding an equal
// hook is a no-op.
func (s State) AddExitHook(h ExitHook) State {
	if _, ok := s.ExitHooks[h]; ok {
		return s
	}
	hooks := make(map[ExitHook]struct{}, len(s.ExitHooks)+1)
	for hook := range s.ExitHooks {
		hooks[hook] = struct{}{}
	}
	hooks[h] = struct{}{}
	s.ExitHooks = hooks
	return s
}

// RunExitHooks invokes every hook in the set (order unspecified) and
// returns a state with the set cleared. Every hook runs even if earlier
// ones fail; failures are collected into the returned error.
func (s State) RunExitHooks() (State, error) {
	var errs []error
	for h := range s.ExitHooks {
		if err := h.Run(); err != nil {
			errs = append(errs, err)
		}
	}
	s.ExitHooks = nil
	return s, errors.Join(errs...)
}

// Locked acquires the launcher's advisory lock for resource, runs fn while
// held, and releases on every exit path. The lock is shared across
// cooperating processes; Acquire may block until it is available.
func (s State) Locked(resource string, fn func() error) error {
	if err := s.Launcher.Acquire(resource); err != nil {
		return fmt.Errorf("failed to acquire lock %q: %w", resource, err)
	}
	err := fn()
	if rerr := s.Launcher.Release(resource); rerr != nil {
		return errors.Join(err, rerr)
	}
	return err
}

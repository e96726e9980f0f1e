// Package driver runs the session command loop.
//
// The driver repeatedly takes the head of the command queue, resolves it
// against the state's registered definitions, applies it, and acts on the
// session's Next signal: looping on Continue, applying log-retention
// signals, and unwinding on Return. A *session.RebootError is special-cased
// at this outermost boundary as a process-level restart, distinct from an
// ordinary Return.
package driver

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/zhubert/forge-core/logger"
	"github.com/zhubert/forge-core/session"
)

// validCommandName restricts command names to start with a letter, which
// guarantees ordinary parsing can never produce the failure wall sentinel.
var validCommandName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// command is the standard session.Command implementation: a name and a
// transformation.
type command struct {
	name string
	run  func(arg string, s session.State) (session.State, error)
}

func (c *command) Name() string { return c.name }

func (c *command) Run(arg string, s session.State) (session.State, error) {
	return c.run(arg, s)
}

// NewCommand returns a command definition with the given name. The name
// must start with a letter and contain only letters, digits, hyphens, and
// underscores.
func NewCommand(name string, run func(arg string, s session.State) (session.State, error)) (session.Command, error) {
	if !validCommandName.MatchString(name) {
		return nil, fmt.Errorf("invalid command name %q", name)
	}
	return &command{name: name, run: run}, nil
}

// mustCommand builds a built-in definition; names are compile-time constants.
func mustCommand(name string, run func(arg string, s session.State) (session.State, error)) session.Command {
	c, err := NewCommand(name, run)
	if err != nil {
		panic(err)
	}
	return c
}

// Builtins returns the driver's built-in command definitions.
func Builtins() []session.Command {
	return []session.Command{
		mustCommand("exit", func(arg string, s session.State) (session.State, error) {
			return s.Exit(true), nil
		}),
		mustCommand("reload", func(arg string, s session.State) (session.State, error) {
			return s.Reload(), nil
		}),
		mustCommand("reboot", func(arg string, s session.State) (session.State, error) {
			return s, s.Reboot(arg == "full")
		}),
		mustCommand("on-failure", func(arg string, s session.State) (session.State, error) {
			return s.WithOnFailure(arg), nil
		}),
		mustCommand("clear-log", func(arg string, s session.State) (session.State, error) {
			return s.ClearGlobalLog(), nil
		}),
		mustCommand("keep-last-log", func(arg string, s session.State) (session.State, error) {
			return s.KeepLastLog(), nil
		}),
	}
}

// Driver owns the run loop and the relaunch hand-off.
type Driver struct {
	relauncher Relauncher
}

// New returns a driver that hands restart requests to relauncher.
func New(relauncher Relauncher) *Driver {
	return &Driver{relauncher: relauncher}
}

// dispatch resolves and applies the head command. The failure wall sentinel
// is a no-op; an unknown command is a command failure handled by Fail.
func (d *Driver) dispatch(cmd string, s session.State) (session.State, error) {
	if cmd == session.FailureWall {
		return s, nil
	}

	name, arg, _ := strings.Cut(cmd, " ")
	for _, def := range s.Definitions {
		if def.Name() == name {
			return def.Run(strings.TrimSpace(arg), s)
		}
	}

	logger.WithComponent("driver").Error("unknown command", "name", name)
	return s.Fail(), nil
}

// Run drives the session to completion and returns the process exit code.
// Exit hooks run exactly once, whether the session ends in an exit or a
// relaunch; hook failures are reported but do not change the exit code.
func (d *Driver) Run(s session.State) (int, error) {
	log := logger.WithComponent("driver")
	for {
		var err error
		s, err = s.Process(d.dispatch)
		if err != nil {
			var reboot *session.RebootError
			if !errors.As(err, &reboot) {
				// Lock-acquisition failures and other typed interruptions
				// surface to the caller; recoverable command failures never
				// reach here.
				s.RunExitHooks()
				return 1, err
			}
			log.Info("reboot requested", "full", reboot.Full, "queued", len(reboot.Commands))
			version := s.Launcher.Version()
			if reboot.Full {
				// A full reboot rereads the configured provider; the
				// relauncher picks the version.
				version = ""
			}
			return d.finish(s, session.Relaunch{
				Version:  version,
				Commands: reboot.Commands,
				AppID:    reboot.AppID,
				BaseDir:  reboot.BaseDir,
			})
		}

		switch n := s.Next.(type) {
		case session.Continue:
			// Proceed to the next command.
		case session.ClearGlobalLog:
			if err := logger.ClearGlobal(); err != nil {
				log.Warn("failed to clear global log", "error", err)
			}
			s = s.Continue()
		case session.KeepLastLog:
			if err := logger.KeepLast(); err != nil {
				log.Warn("failed to truncate global log", "error", err)
			}
			s = s.Continue()
		case session.Return:
			switch r := n.Result.(type) {
			case session.Exit:
				var hookErr error
				if s, hookErr = s.RunExitHooks(); hookErr != nil {
					log.Warn("exit hook failed", "error", hookErr)
				}
				return r.Code, nil
			case session.Relaunch:
				return d.finish(s, r)
			default:
				return 1, fmt.Errorf("unhandled session result %T", n.Result)
			}
		default:
			return 1, fmt.Errorf("unhandled session signal %T", s.Next)
		}
	}
}

// finish runs the exit hooks and hands the relaunch request off.
func (d *Driver) finish(s session.State, r session.Relaunch) (int, error) {
	if _, hookErr := s.RunExitHooks(); hookErr != nil {
		logger.WithComponent("driver").Warn("exit hook failed", "error", hookErr)
	}
	if d.relauncher == nil {
		return 1, fmt.Errorf("relaunch requested but no relauncher configured")
	}
	if err := d.relauncher.Relaunch(r); err != nil {
		return 1, fmt.Errorf("relaunch failed: %w", err)
	}
	return 0, nil
}

package driver

import (
	"context"

	"github.com/zhubert/forge-core/exec"
	"github.com/zhubert/forge-core/logger"
	"github.com/zhubert/forge-core/session"
)

// Relauncher restarts the hosting process with a relaunch payload. The
// driver invokes it after exit hooks have run; the current process is
// expected to exit once Relaunch returns.
type Relauncher interface {
	Relaunch(r session.Relaunch) error
}

// ExecRelauncher starts a fresh process image via a CommandExecutor.
type ExecRelauncher struct {
	executor exec.CommandExecutor
	binary   string
}

// NewExecRelauncher returns a relauncher that starts binary with the
// payload's commands. An empty payload version lets the new process resolve
// its runtime from configuration.
func NewExecRelauncher(executor exec.CommandExecutor, binary string) *ExecRelauncher {
	return &ExecRelauncher{executor: executor, binary: binary}
}

// Relaunch starts the replacement process in the payload's base directory,
// replaying the remaining commands.
func (e *ExecRelauncher) Relaunch(r session.Relaunch) error {
	args := make([]string, 0, 2+len(r.Commands))
	if r.Version != "" {
		args = append(args, "--runtime", r.Version)
	}
	args = append(args, r.Commands...)

	logger.WithComponent("relaunch").Info("starting replacement process",
		"binary", e.binary, "version", r.Version, "commands", len(r.Commands))
	return e.executor.Start(context.Background(), r.BaseDir, e.binary, args...)
}

package session

import "fmt"

// Next is the closed set of terminal directives the driver loop must act on
// after a step. Implementations are Continue, Return, ClearGlobalLog, and
// KeepLastLog.
type Next interface {
	isNext()
}

// Continue means no terminal action; the driver proceeds to the next command.
type Continue struct{}

func (Continue) isNext() {}

// Return means the driver should stop the loop and report Result as the
// session's outcome.
type Return struct {
	Result Result
}

func (Return) isNext() {}

// ClearGlobalLog means the driver should discard accumulated global log
// output before continuing or exiting.
type ClearGlobalLog struct{}

func (ClearGlobalLog) isNext() {}

// KeepLastLog means the driver should retain only the most recent log
// segment.
type KeepLastLog struct{}

func (KeepLastLog) isNext() {}

// Result is the closed set of session outcomes carried by Return.
// Implementations are Exit and Relaunch.
type Result interface {
	isResult()
}

// Exit terminates the process with the given status code.
type Exit struct {
	Code int
}

func (Exit) isResult() {}

// Relaunch restarts the process with the given runtime version, replaying
// the carried commands.
type Relaunch struct {
	Version  string
	Commands []string
	AppID    string
	BaseDir  string
}

func (Relaunch) isResult() {}

// RebootError is the distinguished control-flow outcome raised by Reboot.
// It unwinds past all in-progress command processing and is matched only at
// the outermost driver boundary with errors.As; generic failure handling
// must never swallow it.
type RebootError struct {
	// Full requests a full restart (rereading launch configuration) rather
	// than a plain relaunch of the same runtime.
	Full bool

	// Commands is the remaining command queue to replay after restart.
	Commands []string

	// AppID identifies the application instance requesting the restart.
	AppID string

	// BaseDir is the project base directory.
	BaseDir string
}

func (e *RebootError) Error() string {
	return fmt.Sprintf("session reboot requested (full=%v, %d commands queued)", e.Full, len(e.Commands))
}

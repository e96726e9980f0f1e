// Package session implements the immutable session state machine that
// drives Forge's command loop.
//
// # Overview
//
// A State is a snapshot of session progress: the launch configuration
// handle, registered command definitions, the FIFO queue of remaining
// commands, the bounded history of executed commands, a typed attribute
// store for session-scoped data, exit hooks, an optional one-shot failure
// handler, and the Next signal the driver acts on after each step.
//
// Every operation returns a new State; nothing mutates in place. The driver
// loop is sequential by construction, so a single authoritative State is
// advanced one command at a time:
//
//	s, err := s.Process(dispatch)
//	var reboot *session.RebootError
//	if errors.As(err, &reboot) {
//	    // hand off to the relauncher — never folded into ordinary failure
//	}
//	switch s.Next.(type) { ... }
//
// # Failure handling
//
// Fail implements the failure-wall protocol: commands queued before the
// wall sentinel are fatal-unless-handled, and the one-shot OnFailure
// handler lets a caller register exactly one recovery command per failure.
//
// # Control-flow outcomes
//
// Ordinary operations never return errors. Only two things interrupt
// normal control flow: a *RebootError from Reboot, and lock-acquisition
// failures surfaced by Locked. Both are explicit, typed outcomes.
package session

package session

// History is the bounded record of executed command strings, most recent
// first. It is immutable: Prepend and Resize return a new History.
type History struct {
	executed []string
	maxSize  int
}

// NewHistory returns an empty history bounded by maxSize. Bounds below one
// are clamped to one.
func NewHistory(maxSize int) History {
	if maxSize < 1 {
		maxSize = 1
	}
	return History{maxSize: maxSize}
}

// Prepend records cmd as the most recently executed command, dropping the
// oldest entries past the bound.
func (h History) Prepend(cmd string) History {
	maxSize := h.maxSize
	if maxSize < 1 {
		// Zero-value History behaves as a bound of one.
		maxSize = 1
	}
	n := len(h.executed) + 1
	if n > maxSize {
		n = maxSize
	}
	executed := make([]string, 0, n)
	executed = append(executed, cmd)
	executed = append(executed, h.executed[:n-1]...)
	return History{executed: executed, maxSize: h.maxSize}
}

// Current returns the most recently executed command.
func (h History) Current() (string, bool) {
	if len(h.executed) == 0 {
		return "", false
	}
	return h.executed[0], true
}

// Previous returns the second most recently executed command.
func (h History) Previous() (string, bool) {
	if len(h.executed) < 2 {
		return "", false
	}
	return h.executed[1], true
}

// Commands returns a copy of the executed commands, most recent first.
func (h History) Commands() []string {
	out := make([]string, len(h.executed))
	copy(out, h.executed)
	return out
}

// Len returns the number of recorded commands.
func (h History) Len() int {
	return len(h.executed)
}

// MaxSize returns the history bound.
func (h History) MaxSize() int {
	return h.maxSize
}

// Resize returns a history with the new bound, truncating existing entries
// to fit. Bounds below one are clamped to one.
func (h History) Resize(maxSize int) History {
	if maxSize < 1 {
		maxSize = 1
	}
	n := len(h.executed)
	if n > maxSize {
		n = maxSize
	}
	executed := make([]string, n)
	copy(executed, h.executed[:n])
	return History{executed: executed, maxSize: maxSize}
}

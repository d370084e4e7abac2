package goless

import "errors"

// The five error kinds of §7, as sentinel roots every concrete error wraps
// with fmt.Errorf("%w: ...", ...) so callers can classify with errors.Is
// without a custom error interface.
var (
	// ErrInput covers a kernel I/O failure or a seek failure on a seekable
	// source: the operation is abandoned and the caller sees END/NoPos.
	ErrInput = errors.New("input error")

	// ErrMalformed covers bad UTF-8, a truncated multibyte sequence, or a
	// malformed CSI sequence: the renderer substitutes a binary rendering
	// and continues, it never aborts on this.
	ErrMalformed = errors.New("malformed input")

	// ErrUserInput covers an unknown key, unknown option name, or bad
	// search pattern: a message is shown and state is left unchanged.
	ErrUserInput = errors.New("user error")

	// ErrResourceExhausted covers an allocation failure: the feature that
	// wanted the resource (auto-buffering, line-number indexing) disables
	// itself and a warning surfaces; the pager never crashes over this.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrFatal covers a startup failure, an unusable terminal, or an
	// invariant violation severe enough that quit(QUIT_ERROR) is the only
	// reasonable response.
	ErrFatal = errors.New("fatal")
)

// QuitCode is the process exit status (§6 "Exit codes").
type QuitCode int

const (
	QuitOK        QuitCode = 0
	QuitInputErr  QuitCode = 1
	QuitInterrupt QuitCode = 2
)

package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies failures so callers can pick the documented fallback:
// guard checks fail open on upstream/parse kinds, retrieval degrades on
// refinement failures, and storage kinds are never recovered locally.
type Kind int

const (
	// KindStorage covers session/index I/O failures. These always propagate:
	// masking them would desynchronize conversational state silently.
	KindStorage Kind = iota

	// KindUpstream covers transient embedding/LLM/platform call failures,
	// including timeouts.
	KindUpstream

	// KindParse covers malformed upstream responses (e.g. a policy verdict
	// that is not valid JSON). Treated like a transient failure but kept
	// distinct for diagnosis.
	KindParse

	// KindCfg covers missing or invalid required configuration. Fatal at
	// startup, never degraded at runtime.
	KindCfg
)

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of err, or KindUpstream when err carries no
// classification (unclassified failures are treated as transient).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstream
}

func IsStorage(err error) bool {
	return err != nil && KindOf(err) == KindStorage
}

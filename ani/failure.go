package ani

import (
	"errors"
	"fmt"
)

// Kind classifies why a comparison produced no score.
type Kind int

const (
	Exec Kind = iota
	ToolMissing
	Timeout
	NonZeroExit
	Malformed
	Canceled
)

func (k Kind) String() string {
	switch k {
	case ToolMissing:
		return "tool missing"
	case Timeout:
		return "timeout"
	case NonZeroExit:
		return "non-zero exit"
	case Malformed:
		return "malformed output"
	case Canceled:
		return "canceled"
	default:
		return "exec error"
	}
}

// Failure is the error returned for every comparison that did not yield a
// score. Reason is meant to be read by a person.
type Failure struct {
	Kind   Kind
	Reason string
	Err    error
}

func (f *Failure) Error() string {
	if f.Reason == "" {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Reason)
}

func (f *Failure) Unwrap() error { return f.Err }

func newFailure(k Kind, err error, format string, args ...any) *Failure {
	return &Failure{Kind: k, Reason: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind of err, or Exec when err is not a *Failure.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return Exec
}

// IsKind reports whether err is a *Failure of kind k.
func IsKind(err error, k Kind) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == k
}

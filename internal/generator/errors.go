package generator

import "fmt"

// Kind classifies generation failures for the caller-facing shell.
type Kind string

const (
	// KindNotFound: the referenced configuration does not exist.
	// Raised before any side effect.
	KindNotFound Kind = "not_found"
	// KindCompilationFailed: the compiler produced no artifact after both
	// passes. Carries a bounded excerpt of the compiler log.
	KindCompilationFailed Kind = "compilation_failed"
	// KindIOFailure: a workspace/asset/output filesystem operation failed.
	KindIOFailure Kind = "io_failure"
)

// Error is the only error type the orchestrator surfaces. The assembler
// below it never fails; everything else maps onto one of the three kinds.
type Error struct {
	Kind   Kind
	Detail string
	Log    string // compiler log tail, only for KindCompilationFailed
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

func notFound(detail string) *Error {
	return &Error{Kind: KindNotFound, Detail: detail}
}

func compilationFailed(logTail string, err error) *Error {
	return &Error{Kind: KindCompilationFailed, Detail: "LaTeX compilation failed", Log: logTail, Err: err}
}

func ioFailure(detail string, err error) *Error {
	return &Error{Kind: KindIOFailure, Detail: detail, Err: err}
}

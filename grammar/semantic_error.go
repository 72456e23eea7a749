package grammar

import "fmt"

type GrammarErrorKind string

const (
	GrammarErrorKindConflict         = GrammarErrorKind("kind conflict")
	GrammarErrorUndefinedStart       = GrammarErrorKind("undefined start symbol")
	GrammarErrorDuplicateDeclaration = GrammarErrorKind("duplicate declaration")
	GrammarErrorInvalidLiteral       = GrammarErrorKind("invalid literal")
	GrammarErrorNoStartProduction    = GrammarErrorKind("no start production")
	GrammarErrorMissingProduction    = GrammarErrorKind("missing production")
)

type GrammarError struct {
	kind    GrammarErrorKind
	message string
}

func newGrammarError(kind GrammarErrorKind, format string, args ...interface{}) *GrammarError {
	return &GrammarError{
		kind:    kind,
		message: fmt.Sprintf(format, args...),
	}
}

func (e *GrammarError) Kind() GrammarErrorKind {
	return e.kind
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("%v: %v", e.kind, e.message)
}

// Is reports kind equality so callers can match with errors.Is
// against a bare kind sentinel.
func (e *GrammarError) Is(target error) bool {
	t, ok := target.(*GrammarError)
	if !ok {
		return false
	}
	return t.kind == e.kind && (t.message == "" || t.message == e.message)
}

// Kind sentinels for errors.Is.
var (
	ErrKindConflict         = &GrammarError{kind: GrammarErrorKindConflict}
	ErrUndefinedStart       = &GrammarError{kind: GrammarErrorUndefinedStart}
	ErrDuplicateDeclaration = &GrammarError{kind: GrammarErrorDuplicateDeclaration}
	ErrInvalidLiteral       = &GrammarError{kind: GrammarErrorInvalidLiteral}
	ErrNoStartProduction    = &GrammarError{kind: GrammarErrorNoStartProduction}
	ErrMissingProduction    = &GrammarError{kind: GrammarErrorMissingProduction}
)

// Diagnostic is a non-fatal finding collected during grammar
// construction or table generation. Generation continues.
type Diagnostic struct {
	Message string
	Row     int
}

func (d *Diagnostic) String() string {
	return d.Message
}

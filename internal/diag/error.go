package diag

import (
	"errors"
	"fmt"

	"github.com/tighterror/tighterror/internal/source"
)

// Error carries one fatal diagnostic through plain error returns.
type Error struct {
	Diag Diagnostic
}

// Errorf builds an *Error with SevError.
func Errorf(code Code, primary source.Span, format string, args ...any) *Error {
	return &Error{Diag: NewError(code, primary, fmt.Sprintf(format, args...))}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Diag.Code.ID(), e.Diag.Code.Name(), e.Diag.Message)
}

// Code returns the diagnostic code.
func (e *Error) Code() Code {
	return e.Diag.Code
}

// CodeOf extracts the code of the first *Error in err's chain.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Diag.Code
	}
	return UnknownCode
}

// Report forwards the diagnostic carried by err to r.
// Errors that are not *Error are reported as UnknownCode without span.
func Report(r Reporter, err error) {
	if r == nil || err == nil {
		return
	}
	var de *Error
	if errors.As(err, &de) {
		send(r, de.Diag)
		return
	}
	r.Report(UnknownCode, SevError, source.NoSpan, err.Error(), nil)
}

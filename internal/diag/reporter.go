package diag

import "github.com/tighterror/tighterror/internal/source"

// Reporter is the minimal sink phases emit diagnostics into.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// Pending is a diagnostic that has not reached its Reporter yet.
// Notes are attached first, then Emit hands it over once.
type Pending struct {
	to   Reporter
	d    Diagnostic
	sent bool
}

func pending(r Reporter, sev Severity, code Code, primary source.Span, msg string) *Pending {
	return &Pending{to: r, d: New(sev, code, primary, msg)}
}

// ReportError starts an error diagnostic for r.
func ReportError(r Reporter, code Code, primary source.Span, msg string) *Pending {
	return pending(r, SevError, code, primary, msg)
}

// ReportWarning starts a warning diagnostic for r.
func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *Pending {
	return pending(r, SevWarning, code, primary, msg)
}

func (p *Pending) WithNote(sp source.Span, msg string) *Pending {
	if p != nil && !p.sent {
		p.d = p.d.WithNote(sp, msg)
	}
	return p
}

// Emit is a no-op after the first call.
func (p *Pending) Emit() {
	if p == nil || p.sent {
		return
	}
	p.sent = true
	send(p.to, p.d)
}

func send(r Reporter, d Diagnostic) {
	if r != nil {
		r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
	}
}

// BagReporter writes into a *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag != nil {
		r.Bag.Add(Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes})
	}
}

// FirstErrorReporter keeps the first error and ignores everything after it,
// warnings included. Fail-fast validation is built on it.
type FirstErrorReporter struct {
	err *Error
}

func (r *FirstErrorReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.err == nil && sev >= SevError {
		r.err = &Error{Diag: Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes}}
	}
}

func (r *FirstErrorReporter) Failed() bool { return r != nil && r.err != nil }

// Err returns the captured *Error, or nil.
func (r *FirstErrorReporter) Err() error {
	if !r.Failed() {
		return nil
	}
	return r.err
}

// Dedup forwards each distinct diagnostic to next once. Two diagnostics
// are the same when code, severity, primary span and message match.
func Dedup(next Reporter) Reporter {
	return &dedup{next: next, seen: make(map[dedupKey]struct{})}
}

type dedupKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

type dedup struct {
	next Reporter
	seen map[dedupKey]struct{}
}

func (r *dedup) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	key := dedupKey{code: code, sev: sev, span: primary, msg: msg}
	if _, dup := r.seen[key]; dup || r.next == nil {
		return
	}
	r.seen[key] = struct{}{}
	r.next.Report(code, sev, primary, msg, notes)
}

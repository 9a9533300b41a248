package decoder

import "github.com/reoring/goshape/i18n"

// Outcome tags a Result.
type Outcome int

const (
	Success        Outcome = iota // A value without caveats.
	PartialSuccess                // A usable value plus non-empty warnings.
	Failure                       // Non-empty errors, no value.
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case PartialSuccess:
		return "partial_success"
	default:
		return "failure"
	}
}

// Result is the outcome of a decode: Success(value), PartialSuccess(value,
// warnings) or Failure(errors). The zero value is Success of the zero value.
type Result[A any] struct {
	outcome Outcome
	value   A
	// errors for Failure, warnings for PartialSuccess
	issues Errors
}

// Succeed returns Success(a).
func Succeed[A any](a A) Result[A] {
	return Result[A]{outcome: Success, value: a}
}

// Fail returns Failure with at least one error.
func Fail[A any](err Error, more ...Error) Result[A] {
	return Result[A]{outcome: Failure, issues: append(Errors{err}, more...)}
}

// Warn returns PartialSuccess(a) with at least one warning.
func Warn[A any](a A, warning Error, more ...Error) Result[A] {
	return Result[A]{outcome: PartialSuccess, value: a, issues: append(Errors{warning}, more...)}
}

// Outcome returns the result tag.
func (r Result[A]) Outcome() Outcome { return r.outcome }

// IsFailure reports whether r carries no value.
func (r Result[A]) IsFailure() bool { return r.outcome == Failure }

// Value returns the decoded value; ok is false for Failure.
func (r Result[A]) Value() (a A, ok bool) {
	if r.outcome == Failure {
		return a, false
	}
	return r.value, true
}

// Errors returns the errors of a Failure, nil otherwise.
func (r Result[A]) Errors() Errors {
	if r.outcome != Failure {
		return nil
	}
	return r.issues
}

// Warnings returns the warnings of a PartialSuccess, nil otherwise.
func (r Result[A]) Warnings() Errors {
	if r.outcome != PartialSuccess {
		return nil
	}
	return r.issues
}

// Err returns the errors of a Failure as an error, nil otherwise. Warnings
// never produce an error.
func (r Result[A]) Err() error {
	if r.outcome != Failure {
		return nil
	}
	return r.issues
}

// FlatMap sequences f after r. A Failure short-circuits. Warnings of r are
// prepended to the warnings of f's result; if f fails, only its errors are
// kept.
func FlatMap[A, B any](r Result[A], f func(A) Result[B]) Result[B] {
	switch r.outcome {
	case Failure:
		return Result[B]{outcome: Failure, issues: r.issues}
	case Success:
		return f(r.value)
	}
	next := f(r.value)
	switch next.outcome {
	case Failure:
		return next
	case Success:
		return Result[B]{outcome: PartialSuccess, value: next.value, issues: r.issues}
	default:
		return Result[B]{outcome: PartialSuccess, value: next.value, issues: concat(r.issues, next.issues)}
	}
}

// Map applies f to the value of r, keeping its warnings.
func Map[A, B any](r Result[A], f func(A) B) Result[B] {
	if r.outcome == Failure {
		return Result[B]{outcome: Failure, issues: r.issues}
	}
	return Result[B]{outcome: r.outcome, value: f(r.value), issues: r.issues}
}

func concat(a, b Errors) Errors {
	out := make(Errors, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}

// Accumulator collects the outcomes of independent decodes (struct fields,
// tuple slots, array items) so that every failure is reported, in order.
type Accumulator struct {
	errs  Errors
	warns Errors
}

// Collect records r, nesting its errors and warnings under seg (unless seg is
// empty). ok is false when r is a Failure.
func Collect[A any](acc *Accumulator, r Result[A], seg string) (a A, ok bool) {
	issues := r.issues
	if seg != "" && len(issues) > 0 {
		nested := make(Errors, len(issues))
		for i, e := range issues {
			nested[i] = e.At(seg)
		}
		issues = nested
	}
	switch r.outcome {
	case Failure:
		acc.errs = append(acc.errs, issues...)
		return a, false
	case PartialSuccess:
		acc.warns = append(acc.warns, issues...)
	}
	return r.value, true
}

// Failed reports whether any collected result was a Failure.
func (acc *Accumulator) Failed() bool { return len(acc.errs) > 0 }

// Finish builds the combined result: Failure with every collected error if any
// decode failed, otherwise a with the collected warnings (if any).
func Finish[A any](acc *Accumulator, a A) Result[A] {
	switch {
	case len(acc.errs) > 0:
		return Result[A]{outcome: Failure, issues: acc.errs}
	case len(acc.warns) > 0:
		return Result[A]{outcome: PartialSuccess, value: a, issues: acc.warns}
	}
	return Succeed(a)
}

// Report records an error that did not come from a nested decode.
func (acc *Accumulator) Report(e Error) { acc.errs = append(acc.errs, e) }

// Localize re-renders the messages of r's errors or warnings with tr.
func (r Result[A]) Localize(tr i18n.Translator) Result[A] {
	r.issues = Localize(r.issues, tr)
	return r
}

/*
Package result implements a first-class, generic result type, replacing
the repeated `if err != nil { return err }` chains the source encodes
result propagation with ad hoc (spec §9 Design Notes: "Result-propagating
control flow").

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 dhickel

*/
package result

// Result wraps either a value of type T or an error. It is intentionally
// a thin wrapper around (T, error) — Unwrap recovers the ordinary Go
// pair — so it composes with code that never imports this package.
type Result[T any] struct {
	val T
	err error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{val: v}
}

// Err wraps a failure. Panics if err is nil, since an Err with no error
// is a logic bug at the call site, not a representable state.
func Err[T any](err error) Result[T] {
	if err == nil {
		panic("result.Err called with nil error")
	}
	return Result[T]{err: err}
}

// From lifts an ordinary (value, error) pair into a Result.
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(v)
}

// IsOk reports whether the result carries a value.
func (r Result[T]) IsOk() bool { return r.err == nil }

// IsErr reports whether the result carries an error.
func (r Result[T]) IsErr() bool { return r.err != nil }

// Unwrap recovers the ordinary (value, error) pair.
func (r Result[T]) Unwrap() (T, error) { return r.val, r.err }

// Value returns the wrapped value, or the zero value of T if the result
// is an error. Callers that need to distinguish the two should use
// Unwrap or IsOk instead.
func (r Result[T]) Value() T { return r.val }

// Error returns the wrapped error, or nil if the result is ok.
func (r Result[T]) Error() error { return r.err }

// Map transforms a successful value, passing errors through unchanged.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return Ok(f(r.val))
}

// AndThen chains a fallible continuation onto a successful result — the
// single propagation operator spec §9 calls for in place of repeated
// manual error checks. If r is an error, f is never called and the
// error propagates unchanged.
func AndThen[T, U any](r Result[T], f func(T) Result[U]) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return f(r.val)
}

// MapErr transforms the error of a failed result, passing values through
// unchanged. Useful for attaching context as a Result crosses a package
// boundary.
func MapErr[T any](r Result[T], f func(error) error) Result[T] {
	if r.err == nil {
		return r
	}
	return Err[T](f(r.err))
}

// Collect turns a slice of results into a single result of a slice,
// short-circuiting (returning the first error encountered) — the
// pipeline-friendly analogue of checking every element of a loop body.
func Collect[T any](rs []Result[T]) Result[[]T] {
	out := make([]T, 0, len(rs))
	for _, r := range rs {
		if r.err != nil {
			return Err[[]T](r.err)
		}
		out = append(out, r.val)
	}
	return Ok(out)
}

package result

import (
	"errors"
	"testing"
)

func TestOkUnwrap(t *testing.T) {
	r := Ok(42)
	v, err := r.Unwrap()
	if err != nil || v != 42 {
		t.Fatalf("expected (42, nil), got (%v, %v)", v, err)
	}
	if !r.IsOk() || r.IsErr() {
		t.Errorf("expected IsOk true, IsErr false")
	}
}

func TestErrUnwrap(t *testing.T) {
	sentinel := errors.New("boom")
	r := Err[int](sentinel)
	v, err := r.Unwrap()
	if err != sentinel || v != 0 {
		t.Fatalf("expected (0, sentinel), got (%v, %v)", v, err)
	}
	if r.IsOk() || !r.IsErr() {
		t.Errorf("expected IsOk false, IsErr true")
	}
}

func TestErrPanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected Err(nil) to panic")
		}
	}()
	Err[int](nil)
}

func TestFromLiftsPair(t *testing.T) {
	sentinel := errors.New("boom")
	if r := From(1, error(nil)); !r.IsOk() || r.Value() != 1 {
		t.Errorf("expected From(1, nil) to be Ok(1)")
	}
	if r := From(0, sentinel); !r.IsErr() {
		t.Errorf("expected From(_, err) to be an Err")
	}
}

func TestMapTransformsOkPassesErrUnchanged(t *testing.T) {
	doubled := Map(Ok(21), func(v int) int { return v * 2 })
	if doubled.Value() != 42 {
		t.Errorf("expected Map to double the wrapped value, got %d", doubled.Value())
	}
	sentinel := errors.New("boom")
	errd := Map(Err[int](sentinel), func(v int) int { return v * 2 })
	if errd.Error() != sentinel {
		t.Errorf("expected Map on an Err to leave the error untouched")
	}
}

func TestAndThenShortCircuitsOnErr(t *testing.T) {
	sentinel := errors.New("boom")
	called := false
	r := AndThen(Err[int](sentinel), func(v int) Result[int] {
		called = true
		return Ok(v)
	})
	if called {
		t.Errorf("expected AndThen not to invoke its continuation on an Err")
	}
	if r.Error() != sentinel {
		t.Errorf("expected the original error to propagate unchanged")
	}
}

func TestAndThenChainsOnOk(t *testing.T) {
	r := AndThen(Ok(2), func(v int) Result[int] { return Ok(v + 1) })
	if r.Value() != 3 {
		t.Errorf("expected AndThen to chain through on Ok, got %d", r.Value())
	}
}

func TestCollectShortCircuitsOnFirstError(t *testing.T) {
	sentinel := errors.New("boom")
	rs := []Result[int]{Ok(1), Ok(2), Err[int](sentinel), Ok(3)}
	r := Collect(rs)
	if r.Error() != sentinel {
		t.Errorf("expected Collect to short-circuit on the first error")
	}
}

func TestCollectGathersAllValues(t *testing.T) {
	rs := []Result[int]{Ok(1), Ok(2), Ok(3)}
	r := Collect(rs)
	v, err := r.Unwrap()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v) != 3 || v[0] != 1 || v[2] != 3 {
		t.Errorf("expected [1 2 3], got %v", v)
	}
}

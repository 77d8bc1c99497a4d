package compiler

import (
	"errors"
	"testing"

	"github.com/dhickel/lyra-sub000/namespace"
)

func TestSummarySuccessRequiresNoErrorsAndFullyResolved(t *testing.T) {
	root := namespace.NewRoot()
	s := newSummary(root)
	if !s.Success() {
		t.Errorf("expected a fresh summary with no units and no errors to be Success")
	}

	s.unitStates["main#u1"] = namespace.FullyResolved
	if !s.Success() {
		t.Errorf("expected Success once every recorded unit is FullyResolved")
	}

	s.unitStates["main#u2"] = namespace.Parsed
	if s.Success() {
		t.Errorf("expected Success to be false while a unit hasn't reached FullyResolved")
	}
}

func TestSummarySuccessFalseWithErrors(t *testing.T) {
	root := namespace.NewRoot()
	s := newSummary(root)
	s.unitStates["main#u1"] = namespace.FullyResolved
	s.addErrors([]error{errors.New("boom")})
	if s.Success() {
		t.Errorf("expected Success to be false once an error was recorded")
	}
}

func TestSummaryErrorCountAccumulates(t *testing.T) {
	root := namespace.NewRoot()
	s := newSummary(root)
	s.addErrors([]error{errors.New("a"), errors.New("b")})
	s.addErrors(nil)
	s.addErrors([]error{errors.New("c")})
	if got := s.errorCount(); got != 3 {
		t.Errorf("expected errorCount 3, got %d", got)
	}
}

func TestSummaryRecordCycleAppends(t *testing.T) {
	root := namespace.NewRoot()
	s := newSummary(root)
	s.recordCycle([]string{"main.a", "main.b"})
	if len(s.BrokenCycles) != 1 {
		t.Fatalf("expected one recorded cycle, got %d", len(s.BrokenCycles))
	}
}

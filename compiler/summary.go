/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 dhickel

*/
package compiler

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pterm/pterm"

	"github.com/dhickel/lyra-sub000/namespace"
)

// Summary is a Compile run's aggregate result (SPEC_FULL.md §4 item 2):
// not a type spec.md names, but required for Driver.Compile to have an
// observable result distinct from mutating the Environment in place,
// and the natural home for the pterm rendering SPEC_FULL.md §2 wires in.
type Summary struct {
	mu           sync.Mutex
	root         *namespace.Namespace
	unitStates   map[string]namespace.UnitState
	Errors       []error
	BrokenCycles [][]string
}

func newSummary(root *namespace.Namespace) *Summary {
	return &Summary{root: root, unitStates: make(map[string]namespace.UnitState)}
}

func (s *Summary) recordUnits(ns *namespace.Namespace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range ns.CM.Units {
		s.unitStates[ns.Path()+"#"+u.ID] = u.State()
	}
}

func (s *Summary) addErrors(errs []error) {
	if len(errs) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors = append(s.Errors, errs...)
}

func (s *Summary) recordCycle(cycle []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.BrokenCycles = append(s.BrokenCycles, cycle)
}

func (s *Summary) errorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Errors)
}

// Success reports whether every recorded unit reached FullyResolved and
// no error was collected (spec §7: "the overall compilation is
// successful only if every unit reaches FullyResolved").
func (s *Summary) Success() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Errors) > 0 {
		return false
	}
	for _, st := range s.unitStates {
		if st != namespace.FullyResolved {
			return false
		}
	}
	return true
}

// UnitState reports the final pipeline state the unit identified by
// namespacePath+"#"+unitID reached, for callers that want per-unit
// detail beyond the pass/fail summary.
func (s *Summary) UnitState(namespacePath, unitID string) (namespace.UnitState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.unitStates[namespacePath+"#"+unitID]
	return st, ok
}

// Render renders a pterm-styled pass/fail count followed by a tree view
// of the namespace hierarchy the driver walked, each node that owns units
// annotated with how many it owns — adapted from
// terex/terexlang/trepl's "tree" REPL command, which builds a
// pterm.LeveledList from a recursive walk and hands it to
// pterm.DefaultTree, repurposed here for a namespace tree instead of an
// s-expression.
func (s *Summary) Render() string {
	s.mu.Lock()
	total, done := 0, 0
	for _, st := range s.unitStates {
		total++
		if st == namespace.FullyResolved {
			done++
		}
	}
	errCount := len(s.Errors)
	cycleCount := len(s.BrokenCycles)
	s.mu.Unlock()

	var b strings.Builder
	if errCount == 0 && done == total {
		b.WriteString(pterm.Success.Sprintf("compiled %d unit(s) across %s, 0 errors\n", total, s.root.Path()))
	} else {
		b.WriteString(pterm.Error.Sprintf("compiled %d/%d unit(s), %d error(s)\n", done, total, errCount))
	}
	if cycleCount > 0 {
		b.WriteString(pterm.Warning.Sprintf("%d circular dependency cycle(s) broken via forward declaration\n", cycleCount))
	}
	for _, e := range s.Errors {
		b.WriteString("  " + e.Error() + "\n")
	}

	ll := pterm.LeveledList{}
	s.leveledNamespace(s.root, &ll, 0)
	root := pterm.NewTreeFromLeveledList(ll)
	tree, err := pterm.DefaultTree.WithRoot(root).Srender()
	if err == nil {
		b.WriteString(tree)
	}
	return b.String()
}

func (s *Summary) leveledNamespace(ns *namespace.Namespace, ll *pterm.LeveledList, level int) {
	label := ns.Name
	if n := len(ns.CM.Units); n > 0 {
		label = fmt.Sprintf("%s (%d unit(s))", label, n)
	}
	*ll = append(*ll, pterm.LeveledListItem{Level: level, Text: label})
	names := make([]string, 0, len(ns.Children))
	for name := range ns.Children {
		names = append(names, name)
	}
	sortStrings(names)
	for _, name := range names {
		s.leveledNamespace(ns.Children[name], ll, level+1)
	}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

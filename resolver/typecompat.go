package resolver

import "github.com/dhickel/lyra-sub000/langtype"

// compatible reports whether a value of type actual may be used where
// expected is declared or required (spec §4.7 Type compatibility):
// exact match, or an implicit widening conversion.
func compatible(expected, actual langtype.LangType) bool {
	if expected.IsUndefined() || actual.IsUndefined() {
		return true
	}
	return expected.Equal(actual) || expected.IsSupertypeOf(actual)
}

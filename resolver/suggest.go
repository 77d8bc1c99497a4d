package resolver

import "sort"

// levenshtein computes the edit distance between a and b. Used only for
// short identifier suggestions (SPEC_FULL.md §4 item 1); no pack
// dependency offers a string-distance routine, so this is one of the
// few intentionally stdlib-only pieces of this module.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			cur[j] = m
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// suggestion pairs a candidate name with its distance from the name
// that failed to resolve, for ranking.
type suggestion struct {
	name     string
	distance int
}

// suggest ranks candidates within edit distance 2 of name, nearest
// first, ties broken alphabetically, capped at 3 — a total order, for
// reproducible diagnostics across runs.
func suggest(name string, candidates []string) []string {
	var ranked []suggestion
	for _, c := range candidates {
		if c == name {
			continue
		}
		d := levenshtein(name, c)
		if d <= 2 {
			ranked = append(ranked, suggestion{name: c, distance: d})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].distance != ranked[j].distance {
			return ranked[i].distance < ranked[j].distance
		}
		return ranked[i].name < ranked[j].name
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.name
	}
	return out
}

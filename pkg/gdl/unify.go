package gdl

// compareFact attempts to unify queryArgs against factArgs under the
// bindings already fixed by start, returning the extended bindings and
// true on success. A returned binding map of length zero signals that the
// match added no new bindings at all — i.e. the query was fully ground —
// which callers treat as an unconditional (total) match.
//
// Unlike a naive port of the reference implementation, a successful
// recursive match on a compound argument overlays its bindings back into
// the caller: nested compound terms can bind variables, not just top-level
// ones.
func compareFact(queryArgs, factArgs []*Term, start Bindings) (Bindings, bool) {
	matches := start.Copy()
	for i, q := range queryArgs {
		f := factArgs[i]
		switch {
		case q.IsVariable():
			if bound, ok := matches[q.Symbol]; ok {
				if !bound.Equal(f) {
					return nil, false
				}
			} else {
				matches[q.Symbol] = f.Copy()
			}

		case q.PredicateKey() == f.PredicateKey():
			sub, ok := compareFact(q.Children, f.Children, matches)
			if !ok {
				return nil, false
			}
			matches = sub

		default:
			return nil, false
		}
	}
	return matches, true
}

// findFacts scans table for rows matching query under the starting
// bindings in start, returning the list of resulting bindings. If any row
// matches with an empty binding map (start was empty and the query is fully
// ground), findFacts short-circuits and reports total=true; callers should
// treat that as an unconditional match rather than inspecting results.
func findFacts(table [][]*Term, query []*Term, start Bindings) (results []Bindings, total bool) {
	for _, row := range table {
		matches, ok := compareFact(query, row, start)
		if !ok {
			continue
		}
		if len(matches) == 0 {
			return nil, true
		}
		results = append(results, matches)
	}
	return results, false
}

// bindingsEqual reports whether a and b bind exactly the same variables to
// equal terms, used to dedup an or literal's two branches.
func bindingsEqual(a, b Bindings) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		ov, ok := b[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// bindingsContain reports whether any element of list is bindingsEqual to b.
func bindingsContain(list []Bindings, b Bindings) bool {
	for _, item := range list {
		if bindingsEqual(item, b) {
			return true
		}
	}
	return false
}

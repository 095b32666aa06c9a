package gdl

// reorderBody returns body with every literal that touches not or distinct
// anywhere in its subtree moved after the literals that don't, preserving
// relative order within each group. Evaluating purely positive literals
// first guarantees their variables are already bound by the time a
// negated or distinct literal (which spec.md's range-restriction rule
// requires to be otherwise bound) is evaluated.
func reorderBody(body []*Term) []*Term {
	var first, second []*Term
	for _, lit := range body {
		if containsNotOrDistinct(lit) {
			second = append(second, lit)
		} else {
			first = append(first, lit)
		}
	}
	out := make([]*Term, 0, len(body))
	out = append(out, first...)
	out = append(out, second...)
	return out
}

func containsNotOrDistinct(t *Term) bool {
	if t.isNot() || t.isDistinct() {
		return true
	}
	for _, c := range t.Children {
		if containsNotOrDistinct(c) {
			return true
		}
	}
	return false
}

// deriveFacts returns the bindings matching query against the fixpoint of
// pred's rules, computing and caching it on first use. A predicate with no
// rules at all returns (nil, false) immediately. If a computed fixpoint
// adds no rows for pred, nothing is cached for it and the next call
// recomputes — a predicate recursing on itself with no other positive
// literal converges instantly, so this costs nothing but a repeated
// computation, never a non-terminating loop.
func (db *Database) deriveFacts(pred PredicateKey, query []*Term) (results []Bindings, total bool) {
	if _, hasRules := db.rules[pred]; !hasRules {
		return nil, false
	}
	if cached, ok := db.derived[pred]; ok {
		return findFacts(cached, query, nil)
	}

	local := map[PredicateKey][][]*Term{}
	db.processRule(pred, local, nil)
	for key, rows := range local {
		db.derived[key] = rows
	}

	return findFacts(db.derived[pred], query, nil)
}

// processRule runs pred's rules to a fixpoint, accumulating newly derived
// rows into local (shared across the recursive calls triggered by pred's
// own body literals, so mutually recursive predicates converge together).
// stack holds the predicates currently being expanded, preventing infinite
// recursion into a predicate that is already being derived higher up the
// call chain; its own rules are simply evaluated against whatever rows
// already exist for it at that point, same as the reference semi-naive
// loop.
func (db *Database) processRule(pred PredicateKey, local map[PredicateKey][][]*Term, stack []PredicateKey) {
	defs := db.rules[pred]
	if len(defs) == 0 {
		return
	}
	nextStack := append(append([]PredicateKey{}, stack...), pred)

	count := -1
	for numFacts(local) > count {
		count = numFacts(local)
		for _, rd := range defs {
			assignments := db.evaluateBody(rd.body, local, nextStack)
			for _, b := range assignments {
				fact := instantiate(rd.args, b)
				if !containsFact(local[pred], fact) {
					local[pred] = append(local[pred], fact)
				}
			}
		}
	}
}

func numFacts(local map[PredicateKey][][]*Term) int {
	n := 0
	for _, rows := range local {
		n += len(rows)
	}
	return n
}

func containsFact(table [][]*Term, fact []*Term) bool {
	for _, row := range table {
		if len(row) != len(fact) {
			continue
		}
		match := true
		for i := range row {
			if !row[i].Equal(fact[i]) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func instantiate(args []*Term, b Bindings) []*Term {
	out := make([]*Term, len(args))
	for i, a := range args {
		out[i] = a.Substitute(b)
	}
	return out
}

// evaluateBody threads a list of candidate binding maps, starting as a
// single empty binding, through each body literal in order, narrowing or
// fanning out the candidates at each step.
func (db *Database) evaluateBody(body []*Term, local map[PredicateKey][][]*Term, stack []PredicateKey) []Bindings {
	candidates := []Bindings{{}}
	for _, lit := range body {
		candidates = db.processLiteral(lit, candidates, local, stack)
		if len(candidates) == 0 {
			return nil
		}
	}
	return candidates
}

func (db *Database) processLiteral(lit *Term, candidates []Bindings, local map[PredicateKey][][]*Term, stack []PredicateKey) []Bindings {
	switch {
	case lit.isNot():
		return db.evaluateNot(lit.Children[0], candidates, local, stack)
	case lit.isDistinct():
		return evaluateDistinct(lit.Children[0], lit.Children[1], candidates)
	case lit.isOr():
		return db.evaluateOr(lit, candidates, local, stack)
	default:
		return db.evaluatePositive(lit, candidates, local, stack)
	}
}

// ensureDerived makes sure key's own rules (if any, and if not already
// being expanded higher up stack) have contributed their rows to local
// before a literal referencing key is matched against it.
func (db *Database) ensureDerived(key PredicateKey, local map[PredicateKey][][]*Term, stack []PredicateKey) {
	if _, hasRules := db.rules[key]; !hasRules {
		return
	}
	if onStack(stack, key) {
		return
	}
	if _, cached := db.derived[key]; cached {
		return
	}
	db.processRule(key, local, stack)
}

func onStack(stack []PredicateKey, key PredicateKey) bool {
	for _, k := range stack {
		if k == key {
			return true
		}
	}
	return false
}

func (db *Database) tableFor(key PredicateKey, local map[PredicateKey][][]*Term) [][]*Term {
	var table [][]*Term
	table = append(table, db.facts[key]...)
	table = append(table, db.derived[key]...)
	table = append(table, local[key]...)
	return table
}

func (db *Database) evaluatePositive(lit *Term, candidates []Bindings, local map[PredicateKey][][]*Term, stack []PredicateKey) []Bindings {
	key := lit.PredicateKey()
	db.ensureDerived(key, local, stack)
	table := db.tableFor(key, local)

	var out []Bindings
	for _, b := range candidates {
		results, total := findFacts(table, lit.Children, b)
		if total {
			out = append(out, b)
			continue
		}
		out = append(out, results...)
	}
	return out
}

// evaluateNot keeps a candidate b iff lit fails to match anything given b
// (range-restriction guarantees lit's variables are already bound by an
// earlier positive literal).
func (db *Database) evaluateNot(lit *Term, candidates []Bindings, local map[PredicateKey][][]*Term, stack []PredicateKey) []Bindings {
	key := lit.PredicateKey()
	db.ensureDerived(key, local, stack)
	table := db.tableFor(key, local)

	var out []Bindings
	for _, b := range candidates {
		results, total := findFacts(table, lit.Children, b)
		if !total && len(results) == 0 {
			out = append(out, b)
		}
	}
	return out
}

func evaluateDistinct(a, b *Term, candidates []Bindings) []Bindings {
	var out []Bindings
	for _, bnd := range candidates {
		av := a.Substitute(bnd)
		bv := b.Substitute(bnd)
		if !av.Equal(bv) {
			out = append(out, bnd)
		}
	}
	return out
}

// evaluateOr is the union of both branches, evaluated independently
// against the same incoming candidates, with exact-duplicate bindings
// produced by both branches collapsed to one.
func (db *Database) evaluateOr(lit *Term, candidates []Bindings, local map[PredicateKey][][]*Term, stack []PredicateKey) []Bindings {
	first := db.processLiteral(lit.Children[0], candidates, local, stack)
	second := db.processLiteral(lit.Children[1], candidates, local, stack)

	out := append([]Bindings{}, first...)
	for _, b := range second {
		if !bindingsContain(first, b) {
			out = append(out, b)
		}
	}
	return out
}

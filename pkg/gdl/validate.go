package gdl

// validateFactArgs rejects a fact argument list containing a variable or a
// reserved keyword anywhere in its structure (spec.md §4.2: facts must be
// fully ground and free of not/distinct/or/<=/the GDL keywords).
func validateFactArgs(args []*Term) error {
	for _, a := range args {
		if err := validateFactTerm(a); err != nil {
			return err
		}
	}
	return nil
}

func validateFactTerm(t *Term) error {
	if t.IsVariable() {
		return NewError(ErrFactContainsVariable, t.token, "")
	}
	if isReservedWord(t.Symbol) {
		return NewError(ErrFactReservedWord, t.token,
			"reserved keyword '%s' is not allowed in facts", t.Symbol)
	}
	for _, c := range t.Children {
		if err := validateFactTerm(c); err != nil {
			return err
		}
	}
	return nil
}

// validateRuleHead rejects a rule whose head symbol, or any subterm of its
// arguments, is not/distinct/or/<=. Head arguments may contain variables;
// only facts require full groundness.
func validateRuleHead(head *Term) error {
	if isLogicalOperator(head.Symbol) {
		return NewError(ErrRuleHeadReservedWord, head.token,
			"reserved keyword '%s' is not allowed in the head of a rule", head.Symbol)
	}
	for _, c := range head.Children {
		if err := validateRuleHeadTerm(c); err != nil {
			return err
		}
	}
	return nil
}

func validateRuleHeadTerm(t *Term) error {
	if isLogicalOperator(t.Symbol) {
		return NewError(ErrRuleHeadReservedWord, t.token,
			"reserved keyword '%s' is not allowed in the head of a rule", t.Symbol)
	}
	for _, c := range t.Children {
		if err := validateRuleHeadTerm(c); err != nil {
			return err
		}
	}
	return nil
}

func isLogicalOperator(symbol string) bool {
	switch symbol {
	case "not", "distinct", "or", "<=":
		return true
	default:
		return false
	}
}

// validateRangeRestriction enforces spec.md §4.2's safety rule: every
// variable that appears in the head, or inside a not/distinct in the body,
// must also appear in some positive body literal.
func validateRangeRestriction(head *Term, body []*Term) error {
	positive := map[string]*Term{}
	negative := map[string]*Term{}

	for _, arg := range head.Children {
		collectVarsInto(arg, negative)
	}
	for _, lit := range body {
		collectLiteralVars(lit, positive, negative)
	}

	for v, occurrence := range negative {
		if _, ok := positive[v]; !ok {
			return NewError(ErrNegativeVariable, occurrence.token,
				"'%s' must appear in a positive literal in the body", v)
		}
	}
	return nil
}

func collectLiteralVars(lit *Term, positive, negative map[string]*Term) {
	switch {
	case lit.isNot():
		collectVarsInto(lit.Children[0], negative)
	case lit.isDistinct():
		collectVarsInto(lit.Children[0], negative)
		collectVarsInto(lit.Children[1], negative)
	case lit.isOr():
		collectLiteralVars(lit.Children[0], positive, negative)
		collectLiteralVars(lit.Children[1], positive, negative)
	default:
		collectVarsInto(lit, positive)
	}
}

func collectVarsInto(t *Term, set map[string]*Term) {
	if t.IsVariable() {
		if _, ok := set[t.Symbol]; !ok {
			set[t.Symbol] = t
		}
		return
	}
	for _, c := range t.Children {
		collectVarsInto(c, set)
	}
}

// requirementTargets computes the dependency-index edges a single body
// literal contributes, per spec.md §4.2: descend through not and or, and
// through the constant-headed children of distinct (distinct's operands
// are otherwise irrelevant to evaluation order, but the reference
// implementation's dependency index tracks them anyway, and spec.md
// preserves that for the invalidation graph specifically). A literal whose
// own predicate equals headKey (direct self-recursion) contributes no
// edge, matching requirements' use purely for invalidation of OTHER
// predicates.
func requirementTargets(lit *Term, headKey PredicateKey, out map[PredicateKey]bool) {
	switch {
	case lit.isNot():
		requirementTargets(lit.Children[0], headKey, out)
	case lit.isOr():
		requirementTargets(lit.Children[0], headKey, out)
		requirementTargets(lit.Children[1], headKey, out)
	case lit.isDistinct():
		for _, c := range lit.Children {
			if c.IsConstant() {
				requirementTargets(c, headKey, out)
			}
		}
	default:
		if lit.PredicateKey() != headKey {
			out[lit.PredicateKey()] = true
		}
	}
}

// stratEdge is one edge of the rule-dependency graph used for negative-cycle
// detection: head references to, negatively if neg is set.
type stratEdge struct {
	to  PredicateKey
	neg bool
}

// stratificationEdges computes the polarity-tagged edges a body literal
// contributes to the negative-cycle graph. Unlike requirementTargets,
// distinct contributes no edge here: it never references a predicate table,
// so it cannot participate in a negation cycle (spec.md §4.3).
func stratificationEdges(lit *Term) []stratEdge {
	switch {
	case lit.isNot():
		return []stratEdge{{to: lit.Children[0].PredicateKey(), neg: true}}
	case lit.isOr():
		return append(stratificationEdges(lit.Children[0]), stratificationEdges(lit.Children[1])...)
	case lit.isDistinct():
		return nil
	default:
		return []stratEdge{{to: lit.PredicateKey(), neg: false}}
	}
}

// wouldCreateNegativeCycle reports whether adding a rule headKey <= body,
// on top of every rule already stored in db, would create a cycle back to
// headKey that crosses at least one negative edge.
func (db *Database) wouldCreateNegativeCycle(headKey PredicateKey, body []*Term) bool {
	graph := map[PredicateKey][]stratEdge{}
	add := func(head PredicateKey, body []*Term) {
		for _, lit := range body {
			graph[head] = append(graph[head], stratificationEdges(lit)...)
		}
	}
	for key, defs := range db.rules {
		for _, rd := range defs {
			add(key, rd.body)
		}
	}
	add(headKey, body)

	onStack := map[PredicateKey]bool{headKey: true}
	var dfs func(node PredicateKey, negSoFar bool) bool
	dfs = func(node PredicateKey, negSoFar bool) bool {
		for _, e := range graph[node] {
			neg := negSoFar || e.neg
			if e.to == headKey {
				if neg {
					return true
				}
				continue
			}
			if onStack[e.to] {
				continue
			}
			onStack[e.to] = true
			found := dfs(e.to, neg)
			onStack[e.to] = false
			if found {
				return true
			}
		}
		return false
	}
	return dfs(headKey, false)
}

package gdl

// Database stores facts and rules keyed by predicate (symbol, arity) and
// answers queries against them, computing derived facts by a stratified
// semi-naive fixpoint when a predicate has rules.
//
// A Database is a single-owner value: it performs no internal locking, and
// callers must not share one across goroutines without external
// synchronization (spec.md's Non-goals exclude concurrent queries against a
// shared Database). Copy produces an independent snapshot suitable for
// evolving one branch — e.g. a game's next turn — without affecting the
// original; per-predicate tables are shared until a write touches them, at
// which point that predicate's table is reallocated rather than mutated in
// place (copy-on-write at predicate granularity).
type Database struct {
	facts        map[PredicateKey][][]*Term
	rules        map[PredicateKey][]*ruleDef
	derived      map[PredicateKey][][]*Term
	requirements map[PredicateKey]map[PredicateKey]struct{}
}

// ruleDef is a single stored rule: its head arguments and its body,
// reordered at insertion time so every literal touching not/distinct comes
// after the purely positive literals (spec.md §4.2).
type ruleDef struct {
	args []*Term
	body []*Term
}

// NewDatabase returns an empty Database.
func NewDatabase() *Database {
	return &Database{
		facts:        make(map[PredicateKey][][]*Term),
		rules:        make(map[PredicateKey][]*ruleDef),
		derived:      make(map[PredicateKey][][]*Term),
		requirements: make(map[PredicateKey]map[PredicateKey]struct{}),
	}
}

// DefineFact validates args and appends them as a fact under (symbol,
// arity), invalidating any cached derivation that transitively depends on
// this predicate.
func (db *Database) DefineFact(symbol string, arity int, args []*Term) error {
	if err := validateFactArgs(args); err != nil {
		return err
	}
	key := PredicateKey{Symbol: symbol, Arity: arity}
	db.facts[key] = appendCOW(db.facts[key], args)
	db.invalidate(key)
	return nil
}

// DefineRule validates head and body, reorders the body so not/distinct
// literals trail the purely positive ones, appends the rule under
// (symbol, arity), updates the dependency index, and invalidates any
// cached derivation that transitively depends on this predicate.
func (db *Database) DefineRule(symbol string, arity int, headArgs []*Term, body []*Term) error {
	head := &Term{Symbol: symbol, Children: headArgs}
	key := head.PredicateKey()

	if err := validateRuleHead(head); err != nil {
		return err
	}
	if err := validateRangeRestriction(head, body); err != nil {
		return err
	}
	if db.wouldCreateNegativeCycle(key, body) {
		return NewError(ErrNegativeCycle, bodyToken(body), "")
	}

	reordered := reorderBody(body)
	db.rules[key] = appendCOW(db.rules[key], &ruleDef{args: headArgs, body: reordered})

	for _, lit := range body {
		targets := map[PredicateKey]bool{}
		requirementTargets(lit, key, targets)
		for target := range targets {
			db.addRequirement(target, key)
		}
	}

	db.invalidate(key)
	return nil
}

// Query evaluates q (a single term whose children may contain variables)
// against facts and, if needed, the derived-fact fixpoint for q's
// predicate. It returns UnknownPredicate if q's predicate has neither
// facts nor rules defined.
func (db *Database) Query(q *Term) (QueryResult, error) {
	key := q.PredicateKey()
	_, hasFacts := db.facts[key]
	_, hasRules := db.rules[key]
	if !hasFacts && !hasRules {
		return QueryResult{}, NewError(ErrUnknownPredicate, q.token,
			"no such predicate '%s/%d'", key.Symbol, key.Arity)
	}

	factResults, totalFacts := findFacts(db.facts[key], q.Children, nil)
	if totalFacts {
		return trueResult(), nil
	}

	ruleResults, totalRules := db.deriveFacts(key, q.Children)
	if totalRules {
		return trueResult(), nil
	}

	if len(factResults) == 0 && len(ruleResults) == 0 {
		return falseResult(), nil
	}
	combined := make([]Bindings, 0, len(factResults)+len(ruleResults))
	combined = append(combined, factResults...)
	combined = append(combined, ruleResults...)
	return QueryResult{bindings: combined}, nil
}

// Copy returns an independent snapshot of db. See the Database doc comment
// for the copy-on-write discipline this relies on.
func (db *Database) Copy() *Database {
	cp := &Database{
		facts:        make(map[PredicateKey][][]*Term, len(db.facts)),
		rules:        make(map[PredicateKey][]*ruleDef, len(db.rules)),
		derived:      make(map[PredicateKey][][]*Term, len(db.derived)),
		requirements: make(map[PredicateKey]map[PredicateKey]struct{}, len(db.requirements)),
	}
	for k, v := range db.facts {
		cp.facts[k] = v
	}
	for k, v := range db.rules {
		cp.rules[k] = v
	}
	for k, v := range db.derived {
		cp.derived[k] = v
	}
	for k, v := range db.requirements {
		cp.requirements[k] = v
	}
	return cp
}

// Facts returns the stored ground facts for key, in insertion order. The
// returned slice must not be mutated by the caller.
func (db *Database) Facts(key PredicateKey) [][]*Term {
	return db.facts[key]
}

// HasPredicate reports whether key has any facts or rules defined.
func (db *Database) HasPredicate(key PredicateKey) bool {
	if _, ok := db.facts[key]; ok {
		return true
	}
	_, ok := db.rules[key]
	return ok
}

// appendCOW returns a new slice with row appended, never mutating table's
// backing array — so a predicate's table can be shared between a Database
// and its Copy until one of them writes to it.
func appendCOW[T any](table []T, row T) []T {
	out := make([]T, len(table)+1)
	copy(out, table)
	out[len(table)] = row
	return out
}

// addRequirement records that dependent's rules reference dependency,
// reallocating the target predicate's requirement set rather than mutating
// a map that may be shared with a Copy.
func (db *Database) addRequirement(dependency, dependent PredicateKey) {
	old := db.requirements[dependency]
	next := make(map[PredicateKey]struct{}, len(old)+1)
	for k := range old {
		next[k] = struct{}{}
	}
	next[dependent] = struct{}{}
	db.requirements[dependency] = next
}

// bodyToken returns a representative token for a rule body, used to anchor
// a NegativeCycle diagnostic to some part of the offending rule.
func bodyToken(body []*Term) *Token {
	for _, lit := range body {
		if lit.token != nil {
			return lit.token
		}
	}
	return nil
}

// QueryResult is the outcome of Database.Query: either a plain boolean
// (for ground queries, or queries an unconditional fact/rule match makes
// trivially true) or a list of variable bindings, one per satisfying
// assignment.
type QueryResult struct {
	isBool     bool
	boolResult bool
	bindings   []Bindings
}

// IsBool reports whether this result is a plain boolean rather than a
// binding list.
func (r QueryResult) IsBool() bool { return r.isBool }

// Bool returns the boolean value; only meaningful when IsBool is true.
func (r QueryResult) Bool() bool { return r.boolResult }

// Bindings returns the binding list; only meaningful when IsBool is false.
func (r QueryResult) Bindings() []Bindings { return r.bindings }

// Truthy reports whether the query succeeded at all, collapsing the
// boolean/bindings distinction for callers that only care about success.
func (r QueryResult) Truthy() bool {
	if r.isBool {
		return r.boolResult
	}
	return len(r.bindings) > 0
}

func trueResult() QueryResult  { return QueryResult{isBool: true, boolResult: true} }
func falseResult() QueryResult { return QueryResult{isBool: true, boolResult: false} }

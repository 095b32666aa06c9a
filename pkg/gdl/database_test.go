package gdl

import (
	"sort"
	"testing"
)

// newFixtureDB builds the same database as original_source's
// tests/test_database.py: fact tables foo/3 and bar/2, a path/link
// transitive-closure pair, a reverse-path rule (rpath), a negation rule
// (not-path), a cyclical
// p/q/s/t recursion, a distinct-based diff/2, an or-based valid?/2, and a
// pair of 0-arity rules (open, terminal).
func newFixtureDB(t *testing.T) *Database {
	t.Helper()
	db := NewDatabase()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("fixture setup: %v", err)
		}
	}

	must(db.DefineFact("foo", 3, c("a", "b", "c")))
	must(db.DefineFact("foo", 3, c("x", "y", "z")))
	must(db.DefineFact("foo", 3, c("x", "y", "x")))
	must(db.DefineFact("foo", 3, c("a", "a", "a")))
	must(db.DefineFact("bar", 2, []*Term{v("1"), NewTerm("x", v("2"), v("3"))}))

	// path(X,Y) :- path(X,Z), link(Z,Y).
	// path(X,Y) :- link(X,Y).
	must(db.DefineRule("path", 2, c("?x", "?y"), []*Term{
		NewTerm("path", v("?x"), v("?z")),
		NewTerm("link", v("?z"), v("?y")),
	}))
	must(db.DefineRule("path", 2, c("?x", "?y"), []*Term{
		NewTerm("link", v("?x"), v("?y")),
	}))
	must(db.DefineFact("link", 2, c("3", "4")))
	must(db.DefineFact("link", 2, c("2", "3")))
	must(db.DefineFact("link", 2, c("1", "2")))

	must(db.DefineFact("x", 1, c("1")))
	must(db.DefineFact("x", 1, c("2")))
	must(db.DefineFact("x", 1, c("3")))
	must(db.DefineFact("x", 1, c("4")))
	must(db.DefineRule("rpath", 2, c("?x", "?y"), []*Term{
		NewTerm("x", v("?x")),
		NewTerm("x", v("?y")),
		NewTerm("path", v("?y"), v("?x")),
	}))
	must(db.DefineRule("not-path", 2, c("?x", "?y"), []*Term{
		NewTerm("x", v("?x")),
		NewTerm("x", v("?y")),
		NewTerm("not", NewTerm("path", v("?x"), v("?y"))),
	}))

	must(db.DefineFact("s", 1, c("1")))
	must(db.DefineFact("s", 1, c("2")))
	must(db.DefineFact("t", 1, c("1")))
	must(db.DefineRule("p", 1, c("?x"), []*Term{
		NewTerm("q", v("?x")), NewTerm("s", v("?x")),
	}))
	must(db.DefineRule("q", 1, c("?x"), []*Term{
		NewTerm("p", v("?x")), NewTerm("t", v("?x")),
	}))
	must(db.DefineRule("q", 1, c("?x"), []*Term{
		NewTerm("t", v("?x")),
	}))

	must(db.DefineRule("diff", 2, c("?x", "?y"), []*Term{
		NewTerm("x", v("?x")),
		NewTerm("x", v("?y")),
		NewTerm("distinct", v("?x"), v("?y")),
	}))

	must(db.DefineRule("valid?", 2, c("?x", "?y"), []*Term{
		NewTerm("not-path", v("?x"), v("?y")),
		NewTerm("or",
			NewTerm("distinct", v("?y"), v("4")),
			NewTerm("distinct", v("?x"), v("4")),
		),
	}))

	must(db.DefineRule("open", 0, nil, []*Term{
		NewTerm("true", NewTerm("cell", v("?m"), v("?n"), v("b"))),
	}))
	must(db.DefineRule("terminal", 0, nil, []*Term{
		NewTerm("not", NewTerm("open")),
	}))

	return db
}

// c builds a slice of atomic constant terms from plain strings.
func c(symbols ...string) []*Term {
	out := make([]*Term, len(symbols))
	for i, s := range symbols {
		out[i] = NewTerm(s)
	}
	return out
}

// v builds a single variable term.
func v(symbol string) *Term { return NewTerm(symbol) }

func bindingStrings(t *testing.T, result QueryResult) []map[string]string {
	t.Helper()
	out := make([]map[string]string, 0, len(result.Bindings()))
	for _, b := range result.Bindings() {
		m := make(map[string]string, len(b))
		for k, val := range b {
			m[k] = val.Render()
		}
		out = append(out, m)
	}
	return out
}

func TestDatabaseFactQuerySuccess(t *testing.T) {
	db := newFixtureDB(t)
	result, err := db.Query(NewTerm("foo", c("x", "y", "z")...))
	if err != nil {
		t.Fatal(err)
	}
	if !result.Truthy() {
		t.Fatalf("expected foo(x,y,z) to match")
	}
}

func TestDatabaseFactQueryFailure(t *testing.T) {
	db := newFixtureDB(t)
	result, err := db.Query(NewTerm("foo", c("c", "b", "a")...))
	if err != nil {
		t.Fatal(err)
	}
	if result.Truthy() {
		t.Fatalf("expected foo(c,b,a) not to match")
	}
}

func TestDatabaseFactQueryMatch(t *testing.T) {
	db := newFixtureDB(t)
	result, err := db.Query(NewTerm("foo", v("a"), v("?b"), v("?c")))
	if err != nil {
		t.Fatal(err)
	}
	got := bindingStrings(t, result)
	want := []map[string]string{{"?b": "b", "?c": "c"}, {"?b": "a", "?c": "a"}}
	if !sameBindingSet(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDatabaseFactQueryMatchComplex(t *testing.T) {
	db := newFixtureDB(t)
	result, err := db.Query(NewTerm("bar", v("1"), v("?x")))
	if err != nil {
		t.Fatal(err)
	}
	got := bindingStrings(t, result)
	want := []map[string]string{{"?x": "(x 2 3)"}}
	if !sameBindingSet(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDatabaseFactQueryRepeatVariables(t *testing.T) {
	db := newFixtureDB(t)
	result, err := db.Query(NewTerm("foo", v("?1"), v("?2"), v("?1")))
	if err != nil {
		t.Fatal(err)
	}
	got := bindingStrings(t, result)
	want := []map[string]string{{"?1": "x", "?2": "y"}, {"?1": "a", "?2": "a"}}
	if !sameBindingSet(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDatabaseRuleSuccess(t *testing.T) {
	db := newFixtureDB(t)
	result, err := db.Query(NewTerm("path", v("1"), v("4")))
	if err != nil {
		t.Fatal(err)
	}
	if !result.Truthy() {
		t.Fatalf("expected path(1,4)")
	}
}

func TestDatabaseRuleSuccess2(t *testing.T) {
	db := newFixtureDB(t)
	result, err := db.Query(NewTerm("rpath", v("4"), v("1")))
	if err != nil {
		t.Fatal(err)
	}
	if !result.Truthy() {
		t.Fatalf("expected rpath(4,1)")
	}
}

func TestDatabaseRuleFailure(t *testing.T) {
	db := newFixtureDB(t)
	result, err := db.Query(NewTerm("path", v("4"), v("?x")))
	if err != nil {
		t.Fatal(err)
	}
	if result.Truthy() {
		t.Fatalf("expected path(4,?x) to fail")
	}
}

func TestDatabaseLiteralNegationSuccess(t *testing.T) {
	db := newFixtureDB(t)
	result, err := db.Query(NewTerm("not-path", v("4"), v("1")))
	if err != nil {
		t.Fatal(err)
	}
	if !result.Truthy() {
		t.Fatalf("expected not-path(4,1)")
	}
}

func TestDatabaseLiteralNegationFailure(t *testing.T) {
	db := newFixtureDB(t)
	result, err := db.Query(NewTerm("not-path", v("1"), v("3")))
	if err != nil {
		t.Fatal(err)
	}
	if result.Truthy() {
		t.Fatalf("expected not-path(1,3) to fail")
	}
}

func TestDatabaseRuleCyclicalRecursion(t *testing.T) {
	db := newFixtureDB(t)
	result, err := db.Query(NewTerm("p", v("?x")))
	if err != nil {
		t.Fatal(err)
	}
	got := bindingStrings(t, result)
	want := []map[string]string{{"?x": "1"}}
	if !sameBindingSet(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDatabaseRuleRedefinitionDeletesOldFacts(t *testing.T) {
	db := newFixtureDB(t)
	if _, err := db.Query(NewTerm("p", v("?x"))); err != nil {
		t.Fatal(err)
	}
	if err := db.DefineRule("p", 1, c("?x"), []*Term{NewTerm("s", v("?x"))}); err != nil {
		t.Fatal(err)
	}
	result, err := db.Query(NewTerm("p", v("?x")))
	if err != nil {
		t.Fatal(err)
	}
	got := bindingStrings(t, result)
	want := []map[string]string{{"?x": "1"}, {"?x": "2"}}
	if !sameBindingSet(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDatabaseDistinct(t *testing.T) {
	db := newFixtureDB(t)
	result, err := db.Query(NewTerm("diff", v("?x"), v("?y")))
	if err != nil {
		t.Fatal(err)
	}
	got := bindingStrings(t, result)
	if len(got) != 12 {
		t.Fatalf("got %d results, want 12", len(got))
	}
	for i := 1; i <= 4; i++ {
		for _, b := range got {
			s := itoaLike(i)
			if b["?x"] == s && b["?y"] == s {
				t.Fatalf("diff(%s,%s) should never hold", s, s)
			}
		}
	}
}

func TestDatabaseOr(t *testing.T) {
	db := newFixtureDB(t)
	result, err := db.Query(NewTerm("valid?", v("?x"), v("?y")))
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range bindingStrings(t, result) {
		if b["?x"] == "4" && b["?y"] == "4" {
			t.Fatalf("valid?(4,4) should never hold")
		}
	}
}

func TestDatabaseNegativeVariableError(t *testing.T) {
	db := newFixtureDB(t)
	err := db.DefineRule("diff2", 2, c("?x", "?y"), []*Term{
		NewTerm("path", v("?z"), v("?y")),
		NewTerm("distinct", v("?x"), v("?y")),
	})
	if err == nil {
		t.Fatalf("expected a range-restriction error")
	}
}

func TestDatabaseNegativeCycleError(t *testing.T) {
	db := newFixtureDB(t)
	if err := db.DefineRule("p_", 1, c("?x"), []*Term{NewTerm("q_", v("?x"))}); err != nil {
		t.Fatal(err)
	}
	if err := db.DefineRule("r_", 1, c("?x"), []*Term{NewTerm("p_", v("?x"))}); err != nil {
		t.Fatal(err)
	}
	err := db.DefineRule("q_", 1, c("?x"), []*Term{
		NewTerm("x_", v("?x")),
		NewTerm("not", NewTerm("r_", v("?x"))),
	})
	if err == nil {
		t.Fatalf("expected a negative-cycle error")
	}
}

func TestDatabaseReservedWordInFactError(t *testing.T) {
	db := newFixtureDB(t)
	err := db.DefineFact("x", 1, []*Term{NewTerm("not", v("4"))})
	if err == nil {
		t.Fatalf("expected a reserved-word error")
	}
}

func TestDatabaseReservedWordInRuleHeadError(t *testing.T) {
	db := newFixtureDB(t)
	err := db.DefineRule("p_", 1, []*Term{NewTerm("not", v("?x"))}, []*Term{NewTerm("q_", v("?x"))})
	if err == nil {
		t.Fatalf("expected a reserved-word error")
	}
}

func TestDatabaseZeroArityRules(t *testing.T) {
	db := newFixtureDB(t)

	result, err := db.Query(NewTerm("open"))
	if err != nil {
		t.Fatal(err)
	}
	if result.Truthy() {
		t.Fatalf("expected open to be false initially")
	}

	result, err = db.Query(NewTerm("terminal"))
	if err != nil {
		t.Fatal(err)
	}
	if !result.Truthy() {
		t.Fatalf("expected terminal to be true initially")
	}

	if err := db.DefineFact("true", 1, []*Term{NewTerm("cell", v("2"), v("2"), v("b"))}); err != nil {
		t.Fatal(err)
	}

	result, err = db.Query(NewTerm("open"))
	if err != nil {
		t.Fatal(err)
	}
	if !result.Truthy() {
		t.Fatalf("expected open to be true once a blank cell exists")
	}

	result, err = db.Query(NewTerm("terminal"))
	if err != nil {
		t.Fatal(err)
	}
	if result.Truthy() {
		t.Fatalf("expected terminal to be false once a blank cell exists")
	}
}

func TestDatabaseEvaluateNegativeLiteralsLast(t *testing.T) {
	db := newFixtureDB(t)
	err := db.DefineRule("not-y", 1, c("?x"), []*Term{
		NewTerm("not", NewTerm("s", v("?x"))),
		NewTerm("x", v("?x")),
	})
	if err != nil {
		t.Fatal(err)
	}
	result, err := db.Query(NewTerm("not-y", v("?x")))
	if err != nil {
		t.Fatal(err)
	}
	got := bindingStrings(t, result)
	want := []map[string]string{{"?x": "3"}, {"?x": "4"}}
	if !sameBindingSet(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func itoaLike(i int) string {
	return string(rune('0' + i))
}

// sameBindingSet compares two binding lists as unordered sets, since the
// fixpoint loop's iteration order over maps isn't guaranteed.
func sameBindingSet(a, b []map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	render := func(m map[string]string) string {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		s := ""
		for _, k := range keys {
			s += k + "=" + m[k] + ";"
		}
		return s
	}
	used := make([]bool, len(b))
	for _, x := range a {
		xs := render(x)
		found := false
		for i, y := range b {
			if used[i] {
				continue
			}
			if render(y) == xs {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

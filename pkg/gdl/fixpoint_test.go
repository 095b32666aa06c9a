package gdl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNegativeCycleDetection table-drives SPEC_FULL.md §8's three-predicate
// negative cycle (negative edge on the closing literal) alongside a direct
// self-negation, a two-predicate negative cycle, and a three-predicate
// cycle that is NOT negative (should be accepted).
func TestNegativeCycleDetection(t *testing.T) {
	type rule struct {
		symbol string
		args   []*Term
		body   []*Term
	}

	cases := []struct {
		name      string
		rules     []rule
		wantCycle bool
	}{
		{
			name: "direct self-negation",
			rules: []rule{
				{symbol: "p", args: c("?x"), body: []*Term{
					NewTerm("x", v("?x")),
					NewTerm("not", NewTerm("p", v("?x"))),
				}},
			},
			wantCycle: true,
		},
		{
			name: "two-predicate negative cycle",
			rules: []rule{
				{symbol: "a", args: c("?x"), body: []*Term{NewTerm("x", v("?x")), NewTerm("b", v("?x"))}},
				{symbol: "b", args: c("?x"), body: []*Term{NewTerm("x", v("?x")), NewTerm("not", NewTerm("a", v("?x")))}},
			},
			wantCycle: true,
		},
		{
			name: "three-predicate negative cycle",
			rules: []rule{
				{symbol: "p3", args: c("?x"), body: []*Term{NewTerm("q3", v("?x"))}},
				{symbol: "r3", args: c("?x"), body: []*Term{NewTerm("p3", v("?x"))}},
				{symbol: "q3", args: c("?x"), body: []*Term{
					NewTerm("x", v("?x")),
					NewTerm("not", NewTerm("r3", v("?x"))),
				}},
			},
			wantCycle: true,
		},
		{
			name: "three-predicate purely-positive cycle is allowed",
			rules: []rule{
				{symbol: "p4", args: c("?x"), body: []*Term{NewTerm("q4", v("?x"))}},
				{symbol: "r4", args: c("?x"), body: []*Term{NewTerm("p4", v("?x"))}},
				{symbol: "q4", args: c("?x"), body: []*Term{NewTerm("x", v("?x")), NewTerm("r4", v("?x"))}},
			},
			wantCycle: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := NewDatabase()
			require.NoError(t, db.DefineFact("x", 1, c("1")))

			var lastErr error
			for _, r := range tc.rules {
				lastErr = db.DefineRule(r.symbol, len(r.args), r.args, r.body)
				if lastErr != nil {
					break
				}
			}

			if tc.wantCycle {
				require.Error(t, lastErr)
				gdlErr, ok := lastErr.(*Error)
				require.True(t, ok, "expected a *gdl.Error")
				assert.Equal(t, ErrNegativeCycle, gdlErr.Kind)
			} else {
				require.NoError(t, lastErr)
			}
		})
	}
}

// TestDistinctTwoGraphSplit pins the split DESIGN.md records between the
// invalidation index and the negative-cycle graph: a distinct
// literal whose operand is a constant-headed compound term contributes a
// target to requirementTargets (invalidation still cares about it, matching
// the reference implementation's quirk) but contributes NO edge at all to
// stratificationEdges (distinct can never participate in a negation cycle).
func TestDistinctTwoGraphSplit(t *testing.T) {
	lit := NewTerm("distinct", NewTerm("k", v("?x")), v("?y"))

	targets := map[PredicateKey]bool{}
	requirementTargets(lit, PredicateKey{Symbol: "head", Arity: 1}, targets)
	assert.True(t, targets[PredicateKey{Symbol: "k", Arity: 1}],
		"requirementTargets should descend into distinct's constant-headed operand")

	assert.Nil(t, stratificationEdges(lit),
		"stratificationEdges must give distinct no edge regardless of its operands")
}

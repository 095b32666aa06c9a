package gdl

import (
	"strconv"
	"strings"
)

// Term is a node in the AST: a head symbol plus an ordered list of child
// terms. Facts, rule heads, rule-body literals, and queries are all Terms.
//
// Term's zero value is not useful; construct terms with NewTerm or the
// lexer/parser.
type Term struct {
	Symbol   string
	Children []*Term
	token    *Token // nil for programmatically constructed terms
}

// NewTerm creates a compound (or, with no children, atomic) term with the
// given symbol and children. The term carries no source location.
func NewTerm(symbol string, children ...*Term) *Term {
	return &Term{Symbol: symbol, Children: children}
}

// NewTermWithToken is like NewTerm but attaches a source token for
// diagnostics.
func NewTermWithToken(tok *Token, children ...*Term) *Term {
	return &Term{Symbol: tok.Value, Children: children, token: tok}
}

// Token returns the term's source token, or nil if it was built
// programmatically.
func (t *Term) Token() *Token { return t.token }

// Arity is the number of children.
func (t *Term) Arity() int { return len(t.Children) }

// PredicateKey is the (symbol, arity) pair that identifies this term's
// predicate signature.
func (t *Term) PredicateKey() PredicateKey {
	return PredicateKey{Symbol: t.Symbol, Arity: len(t.Children)}
}

// IsVariable reports whether the term's head symbol begins with '?'.
func (t *Term) IsVariable() bool {
	return len(t.Symbol) > 0 && t.Symbol[0] == '?'
}

// IsConstant reports whether the term's head symbol begins with neither
// '?', '(', nor ')'. Arity-0 constants are atoms; arity>0 are structured
// functor terms.
func (t *Term) IsConstant() bool {
	if t.Symbol == "" {
		return false
	}
	switch t.Symbol[0] {
	case '?', '(', ')':
		return false
	default:
		return true
	}
}

// IsReserved reports whether the term's head symbol is one of the reserved
// operators or GDL predicates.
func (t *Term) IsReserved() bool { return isReservedWord(t.Symbol) }

func (t *Term) isNot() bool      { return t.Symbol == "not" }
func (t *Term) isDistinct() bool { return t.Symbol == "distinct" }
func (t *Term) isOr() bool       { return t.Symbol == "or" }
func (t *Term) isRuleArrow() bool {
	return t.Symbol == "<="
}

// Copy produces a deep, independent clone of t, preserving source tokens.
func (t *Term) Copy() *Term {
	if t == nil {
		return nil
	}
	children := make([]*Term, len(t.Children))
	for i, c := range t.Children {
		children[i] = c.Copy()
	}
	return &Term{Symbol: t.Symbol, Children: children, token: t.token}
}

// Substitute produces a new term in which every variable v appearing in t
// with v present in bindings is replaced by a deep copy of bindings[v].
// Non-variable nodes recurse over their children.
func (t *Term) Substitute(bindings Bindings) *Term {
	if t.IsVariable() {
		if val, ok := bindings[t.Symbol]; ok {
			return val.Copy()
		}
		return t.Copy()
	}
	children := make([]*Term, len(t.Children))
	for i, c := range t.Children {
		children[i] = c.Substitute(bindings)
	}
	return &Term{Symbol: t.Symbol, Children: children, token: t.token}
}

// Equal reports structural equality: same head symbol, same arity, and
// recursively equal children. Source locations are ignored.
func (t *Term) Equal(other *Term) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Symbol != other.Symbol || len(t.Children) != len(other.Children) {
		return false
	}
	for i, c := range t.Children {
		if !c.Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// Render returns the canonical S-expression form of t: parentheses iff
// arity > 0, children separated by single spaces.
func (t *Term) Render() string {
	if t.Arity() == 0 {
		return t.Symbol
	}
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(t.Symbol)
	for _, c := range t.Children {
		b.WriteByte(' ')
		b.WriteString(c.Render())
	}
	b.WriteByte(')')
	return b.String()
}

func (t *Term) String() string { return t.Render() }

// PredicateKey identifies a predicate signature: a head symbol plus arity.
type PredicateKey struct {
	Symbol string
	Arity  int
}

func (k PredicateKey) String() string {
	return k.Symbol + "/" + strconv.Itoa(k.Arity)
}

// Bindings maps variable symbol (including the leading '?') to a ground
// term. A binding is cloned on branch in the fixpoint loop to avoid
// aliasing between candidate assignments.
type Bindings map[string]*Term

// Copy returns an independent copy of the binding map (shallow on the
// *Term values, which are treated as immutable once bound).
func (b Bindings) Copy() Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

package gdl

// Parse consumes a token stream into a list of top-level *Term trees (one
// per top-level S-expression), matching spec.md §4.5/§6:
//
//   - an unexpected close paren, a missing close paren, a non-constant
//     immediately following an open paren, a double "not" nesting, or a
//     reserved predicate used at the wrong arity are all rejected with a
//     *Error carrying the offending token.
//
// Unlike the reference Python parser (which defers all arity/shape checks
// to the database), this parser enforces reserved-word arity and
// double-not nesting as each tree closes, per spec.md §4.5.
func Parse(tokens []*Token) ([]*Term, error) {
	var roots []*Term
	var cur *frame
	newSentence := false

	for _, tok := range tokens {
		switch {
		case newSentence:
			if !tok.IsConstant() {
				return nil, NewError(ErrExpectedConstant, tok, "")
			}
			child := &Term{Symbol: tok.Value, token: tok}
			if cur != nil {
				cur.node.Children = append(cur.node.Children, child)
			}
			cur = &frame{node: child, parent: cur}
			newSentence = false

		case tok.IsOpenParen():
			newSentence = true

		case tok.IsCloseParen():
			if cur == nil {
				return nil, NewError(ErrUnexpectedClose, tok, "")
			}
			if err := closeCheck(cur.node); err != nil {
				return nil, err
			}
			closed := cur
			cur = cur.parent
			if cur == nil {
				roots = append(roots, closed.node)
			}

		default:
			child := &Term{Symbol: tok.Value, token: tok}
			if cur == nil {
				// A bare atom at top level with no enclosing parens.
				roots = append(roots, child)
				continue
			}
			cur.node.Children = append(cur.node.Children, child)
		}
	}

	if cur != nil {
		return nil, NewError(ErrMissingClose, lastToken(tokens), "")
	}
	return roots, nil
}

// frame tracks one nesting level of the shift/reduce parse: the term
// currently being built and its enclosing parent (nil at top level).
type frame struct {
	node   *Term
	parent *frame
}

// closeCheck validates a term as its closing paren is consumed: reserved
// words must appear at their declared arity, and "not" may not directly
// wrap another "not".
func closeCheck(n *Term) error {
	if isReservedWord(n.Symbol) && !reservedArityOK(n.Symbol, n.Arity()) {
		return NewError(ErrBadPredicateArity, n.token,
			"the built-in predicate '%s/%d' has the wrong arity", n.Symbol, n.Arity())
	}
	if n.isNot() && n.Arity() == 1 && n.Children[0].isNot() {
		return NewError(ErrDoubleNot, n.Children[0].token, "")
	}
	return nil
}

func lastToken(tokens []*Token) *Token {
	if len(tokens) == 0 {
		return nil
	}
	return tokens[len(tokens)-1]
}

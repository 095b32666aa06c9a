package gdl

// reservedArity centralizes reserved-word detection and their required
// arities in one table, rather than scattering string comparisons through
// the lexer, parser, and database.
var reservedArity = map[string]int{
	"<=":       -1, // rule arrow: arity is the head plus one-or-more body literals, checked specially
	"not":      1,
	"distinct": 2,
	"or":       2,
	"role":     1,
	"init":     1,
	"true":     1,
	"does":     2,
	"legal":    2,
	"next":     1,
	"goal":     2,
	"terminal": 0,
}

// isReservedWord reports whether sym is one of the reserved operators or
// GDL predicates.
func isReservedWord(sym string) bool {
	_, ok := reservedArity[sym]
	return ok
}

// reservedArityOK reports whether arity is legal for the reserved word sym.
// A required arity of -1 means "checked elsewhere" (the rule arrow has no
// single fixed arity: it is the head term plus one or more body literals).
func reservedArityOK(sym string, arity int) bool {
	want, ok := reservedArity[sym]
	if !ok {
		return true
	}
	if want == -1 {
		return true
	}
	return want == arity
}

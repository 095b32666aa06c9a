package gdl

import "fmt"

// ErrorKind classifies a failure raised by the lexer, parser, validator,
// query engine, or state machine.
type ErrorKind int

const (
	// Syntax errors, raised while lexing or parsing.
	ErrExpectedConstant ErrorKind = iota
	ErrUnexpectedClose
	ErrMissingClose
	ErrDoubleNot
	ErrBadPredicateArity

	// Validation errors, raised while defining facts or rules.
	ErrFactContainsVariable
	ErrFactReservedWord
	ErrRuleHeadReservedWord
	ErrNegativeVariable
	ErrNegativeCycle

	// Query errors.
	ErrUnknownPredicate

	// Game/state-machine errors.
	ErrNoPlayers
	ErrNoSuchPlayer
	ErrDoubleMove
	ErrIllegalMove
	ErrTrueNotAllowed
	ErrNoMoves
)

var errKindMessages = map[ErrorKind]string{
	ErrExpectedConstant:     "a constant was expected",
	ErrUnexpectedClose:      "unexpected closed parenthesis",
	ErrMissingClose:         "missing closed parenthesis",
	ErrDoubleNot:            "a negation may not itself contain a negation",
	ErrBadPredicateArity:    "the built-in predicate has the wrong arity",
	ErrFactContainsVariable: "variables are not allowed in facts",
	ErrFactReservedWord:     "reserved keyword is not allowed in facts",
	ErrRuleHeadReservedWord: "reserved keyword is not allowed in the head of a rule",
	ErrNegativeVariable:     "must appear in a positive literal in the body",
	ErrNegativeCycle:        "literal in rule creates a recursive cycle with at least one negative edge",
	ErrUnknownPredicate:     "no such predicate",
	ErrNoPlayers:            "players must be defined with role/1",
	ErrNoSuchPlayer:         "no such player",
	ErrDoubleMove:           "player has already moved this turn",
	ErrIllegalMove:          "not a legal move",
	ErrTrueNotAllowed:       "true/1 facts are not allowed at top level; use init/1",
	ErrNoMoves:              "not every player has moved this turn",
}

// Error is the single error type raised by this package. It carries a kind
// for programmatic dispatch, a human-readable message, and (when available)
// the offending token for a caret diagnostic.
type Error struct {
	Kind    ErrorKind
	Message string
	Token   *Token
}

// NewError builds an Error for kind with the given formatted detail message
// and offending token (nil if none is available, e.g. for errors raised
// against a programmatically constructed Term).
func NewError(kind ErrorKind, tok *Token, detail string, args ...interface{}) *Error {
	msg := errKindMessages[kind]
	if detail != "" {
		msg = fmt.Sprintf(detail, args...)
	}
	return &Error{Kind: kind, Message: msg, Token: tok}
}

// Error implements the error interface, rendering spec.md §6's diagnostic
// format: the message, then "<lineno>: <source-line>" and a caret aligned
// to the offending token's column.
func (e *Error) Error() string {
	if e.Token == nil {
		return e.Message
	}
	return e.Message + "\n" + e.Token.caretLine()
}

// Package gdl implements a Datalog-with-negation database and a Game
// Description Language (GDL) state-machine layer on top of it.
//
// A Database stores ground facts and variable-bearing rules keyed by
// predicate (symbol, arity). Queries are answered by unification against
// stored facts and, when a predicate has rules, by a stratified semi-naive
// fixpoint that memoizes derived facts until the predicates they depend on
// change. Negation (not), inequality (distinct), and disjunction (or) are
// supported in rule bodies under the usual stratification restriction: no
// rule-dependency cycle may pass through a negated edge.
//
// StateMachine lifts a Database into GDL's turn-based game semantics by
// interpreting the reserved predicates role, init, true, does, legal, next,
// goal, and terminal. Loading a game rewrites init facts to true facts,
// player moves are injected as does facts, and next() computes a successor
// Database by querying next/1 and replacing the true table.
//
// The package also contains a small lexer and parser for GDL's S-expression
// surface syntax, since the hard core (Database, StateMachine) only ever
// consumes already-built *Term trees and has no opinion on how they were
// produced.
package gdl

package gdl

import "strconv"

// StateMachine lifts a Database into GDL's turn-based game semantics: it
// tracks the set of players (from role/1) and which of them have moved in
// the current turn, and interprets the reserved predicates role, init,
// true, does, legal, next, goal, and terminal.
type StateMachine struct {
	db             *Database
	players        map[string]bool
	movesSubmitted map[string]bool
}

// NewStateMachine wraps db. If db already has role/1 facts (e.g. it was
// populated directly via DefineFact/DefineRule rather than through Store),
// players are loaded immediately; otherwise Players returns nil until the
// first successful Store call loads them.
func NewStateMachine(db *Database) (*StateMachine, error) {
	sm := &StateMachine{db: db, movesSubmitted: map[string]bool{}}
	if len(db.Facts(PredicateKey{Symbol: "role", Arity: 1})) > 0 {
		if err := sm.loadPlayers(); err != nil {
			return nil, err
		}
	}
	return sm, nil
}

func (sm *StateMachine) loadPlayers() error {
	rows := sm.db.Facts(PredicateKey{Symbol: "role", Arity: 1})
	if len(rows) == 0 {
		return NewError(ErrNoPlayers, nil, "")
	}
	players := make(map[string]bool, len(rows))
	for _, row := range rows {
		players[row[0].Render()] = true
	}
	sm.players = players
	return nil
}

// Database returns the state machine's underlying Database. The returned
// value must not be mutated directly; use Store to add facts and rules.
func (sm *StateMachine) Database() *Database { return sm.db }

// Players returns the set of player names, as rendered by role/1 facts.
func (sm *StateMachine) Players() map[string]bool { return sm.players }

// Store parses source (one or more top-level S-expressions) and adds each
// tree to the underlying Database: a tree headed by "<=" is a rule (its
// first child the head, the rest the body); anything else is a fact. A
// top-level "init" tree is rewritten to "true" before insertion, since
// init/1 is how the initial true/1 facts are written; a literal top-level
// "true" fact is rejected, since true/1 describes the current state and
// must never be asserted directly. If this is the first Store call (no
// players loaded yet), role/1 facts are required to be present afterward.
func (sm *StateMachine) Store(filename, source string) error {
	tokens := Lex(filename, source)
	trees, err := Parse(tokens)
	if err != nil {
		return err
	}
	for _, tree := range trees {
		if err := sm.storeTree(tree); err != nil {
			return err
		}
	}
	if sm.players == nil {
		return sm.loadPlayers()
	}
	return nil
}

func (sm *StateMachine) storeTree(tree *Term) error {
	return InsertTree(sm.db, tree)
}

// InsertTree adds a single parsed top-level form to db, applying the same
// rule/fact dispatch and init/true rewriting Store applies to every tree
// in a source file. Unlike Store, it has no notion of players and never
// checks for role/1; it's exposed for callers (such as a CLI's
// independent-file validation pass) that want to validate or load a
// single tree into a Database directly, without a StateMachine.
func InsertTree(db *Database, tree *Term) error {
	if tree.isRuleArrow() {
		if tree.Arity() < 2 {
			return NewError(ErrBadPredicateArity, tree.token,
				"a rule needs a head and at least one body literal")
		}
		head := tree.Children[0]
		body := tree.Children[1:]
		return db.DefineRule(head.Symbol, head.Arity(), head.Children, body)
	}

	symbol := tree.Symbol
	if symbol == "true" {
		return NewError(ErrTrueNotAllowed, tree.token, "")
	}
	if symbol == "init" {
		symbol = "true"
	}
	return db.DefineFact(symbol, tree.Arity(), tree.Children)
}

// Move records player's move for the current turn. It fails with
// NoSuchPlayer if player isn't a role, DoubleMove if player has already
// moved this turn, or IllegalMove if the move doesn't satisfy
// legal(player, move). On success, it asserts does(player, move).
func (sm *StateMachine) Move(playerName, moveSource string) error {
	if !sm.players[playerName] {
		return NewError(ErrNoSuchPlayer, nil, "no such player '%s'", playerName)
	}
	if sm.movesSubmitted[playerName] {
		return NewError(ErrDoubleMove, nil, "player '%s' has already moved this turn", playerName)
	}

	tokens := Lex("", moveSource)
	trees, err := Parse(tokens)
	if err != nil {
		return err
	}
	if len(trees) != 1 {
		return NewError(ErrExpectedConstant, nil, "a move must be a single term")
	}
	move := trees[0]

	player := NewTerm(playerName)
	legalQuery := NewTerm("legal", player, move)
	result, err := sm.db.Query(legalQuery)
	if err != nil {
		return err
	}
	if !result.Truthy() {
		return NewError(ErrIllegalMove, nil, "'%s' is not a legal move for '%s'", move.Render(), playerName)
	}

	if err := sm.db.DefineFact("does", 2, []*Term{player, move}); err != nil {
		return err
	}
	sm.movesSubmitted[playerName] = true
	return nil
}

// LegalMoves returns the rendered legal moves for player, derived from
// legal(player, ?move).
func (sm *StateMachine) LegalMoves(playerName string) ([]string, error) {
	q := NewTerm("legal", NewTerm(playerName), NewTerm("?move"))
	result, err := sm.db.Query(q)
	if err != nil {
		return nil, err
	}
	if result.IsBool() {
		if result.Bool() {
			return nil, NewError(ErrNoMoves, nil, "legal/2 matched but bound no move")
		}
		return nil, nil
	}
	moves := make([]string, 0, len(result.Bindings()))
	for _, b := range result.Bindings() {
		moves = append(moves, b["?move"].Render())
	}
	return moves, nil
}

// AllLegalMoves returns every player's legal moves, keyed by player name.
func (sm *StateMachine) AllLegalMoves() (map[string][]string, error) {
	out := make(map[string][]string, len(sm.players))
	for p := range sm.players {
		moves, err := sm.LegalMoves(p)
		if err != nil {
			return nil, err
		}
		out[p] = moves
	}
	return out, nil
}

// Score returns player's goal value, parsed as an integer from the sole
// binding of goal(player, ?score).
func (sm *StateMachine) Score(playerName string) (int, error) {
	q := NewTerm("goal", NewTerm(playerName), NewTerm("?score"))
	result, err := sm.db.Query(q)
	if err != nil {
		return 0, err
	}
	if result.IsBool() {
		return 0, NewError(ErrNoSuchPlayer, nil, "goal/2 produced no score for '%s'", playerName)
	}
	bindings := result.Bindings()
	score, convErr := strconv.Atoi(bindings[0]["?score"].Render())
	if convErr != nil {
		return 0, NewError(ErrNoSuchPlayer, nil, "goal/2's score for '%s' is not an integer", playerName)
	}
	return score, nil
}

// AllScores returns every player's score, keyed by player name.
func (sm *StateMachine) AllScores() (map[string]int, error) {
	out := make(map[string]int, len(sm.players))
	for p := range sm.players {
		score, err := sm.Score(p)
		if err != nil {
			return nil, err
		}
		out[p] = score
	}
	return out, nil
}

// IsTerminal reports whether terminal/0 holds in the current state.
func (sm *StateMachine) IsTerminal() (bool, error) {
	result, err := sm.db.Query(NewTerm("terminal"))
	if err != nil {
		return false, err
	}
	return result.Truthy(), nil
}

// Next computes the successor state: every player must have moved this
// turn, else NoMoves. It queries next(?state) for the set of next-state
// terms, builds a fresh Database that shares rules and derived-independent
// facts with the current one but replaces true/1 with the computed state
// and drops does/2 entirely, and returns a new StateMachine wrapping it
// with the same players and no moves submitted.
func (sm *StateMachine) Next() (*StateMachine, error) {
	for p := range sm.players {
		if !sm.movesSubmitted[p] {
			return nil, NewError(ErrNoMoves, nil, "")
		}
	}

	q := NewTerm("next", NewTerm("?state"))
	result, err := sm.db.Query(q)
	if err != nil {
		return nil, err
	}

	next := sm.db.Copy()
	next.derived = map[PredicateKey][][]*Term{}
	delete(next.facts, PredicateKey{Symbol: "true", Arity: 1})
	delete(next.facts, PredicateKey{Symbol: "does", Arity: 2})

	if !result.IsBool() {
		for _, b := range result.Bindings() {
			state := b["?state"]
			if err := next.DefineFact("true", 1, []*Term{state}); err != nil {
				return nil, err
			}
		}
	}

	return &StateMachine{
		db:             next,
		players:        sm.players,
		movesSubmitted: map[string]bool{},
	}, nil
}

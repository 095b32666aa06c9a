package gdl

import (
	"sort"

	"github.com/mitchellh/hashstructure"
)

// Digest computes a hash over the multiset of facts stored per predicate,
// independent of insertion order: two Databases holding the same facts,
// asserted in different orders, produce the same Digest. Each predicate's
// rows are rendered and sorted before hashing, so a fact asserted twice
// counts twice. Rules and derived facts are not part of the digest.
func (db *Database) Digest() (uint64, error) {
	perPredicate := make(map[string][]string, len(db.facts))
	for key, rows := range db.facts {
		rendered := make([]string, len(rows))
		for i, row := range rows {
			rendered[i] = NewTerm(key.Symbol, row...).Render()
		}
		sort.Strings(rendered)
		perPredicate[key.String()] = rendered
	}
	return hashstructure.Hash(perPredicate, nil)
}

// Digest computes a hash over the underlying Database's facts; see
// Database.Digest.
func (sm *StateMachine) Digest() (uint64, error) {
	return sm.db.Digest()
}

package gdl

import (
	"context"
	"os"

	"github.com/gitrdm/gdlogic/internal/parallel"
)

// parsedFile is the result of lexing and parsing one source file.
type parsedFile struct {
	filename string
	trees    []*Term
}

// StoreFiles reads, lexes, and parses every file in filenames, then
// inserts their trees into the Database in filenames order. When there is
// more than one file, reading/lexing/parsing run concurrently over a
// bounded worker pool, since each file is parsed independently with no
// shared mutable state; the Database insertion itself is always
// sequential, preserving the same per-call insertion order a series of
// single-file Store calls would produce.
//
// ctx only governs the concurrent read/lex/parse fan-out: cancelling it
// stops new files from starting, but in-flight ones still finish and
// their results are discarded. Fixpoint evaluation itself takes no
// Context, matching the rest of this package.
func (sm *StateMachine) StoreFiles(ctx context.Context, filenames []string) error {
	if len(filenames) == 0 {
		return nil
	}
	if len(filenames) == 1 {
		data, err := os.ReadFile(filenames[0])
		if err != nil {
			return err
		}
		return sm.Store(filenames[0], string(data))
	}

	pool := parallel.New(0)
	parsed, err := parallel.Map(pool, len(filenames), func(i int) (parsedFile, error) {
		if err := ctx.Err(); err != nil {
			return parsedFile{}, err
		}
		name := filenames[i]
		data, err := os.ReadFile(name)
		if err != nil {
			return parsedFile{}, err
		}
		tokens := Lex(name, string(data))
		trees, err := Parse(tokens)
		if err != nil {
			return parsedFile{}, err
		}
		return parsedFile{filename: name, trees: trees}, nil
	})
	if err != nil {
		return err
	}

	for _, file := range parsed {
		for _, tree := range file.trees {
			if err := sm.storeTree(tree); err != nil {
				return err
			}
		}
	}
	if sm.players == nil {
		return sm.loadPlayers()
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gitrdm/gdlogic/internal/logging"
	"github.com/gitrdm/gdlogic/pkg/gdl"
)

// resolveFiles maps each of paths through the active config's
// rules.search_path, per SPEC_FULL.md §9: a bare filename that isn't found
// relative to the working directory is looked up in each search_path entry
// in order. A path that already exists as given (relative or absolute) is
// returned unchanged.
func resolveFiles(paths []string) ([]string, error) {
	resolved := make([]string, len(paths))
	for i, p := range paths {
		r, err := cfg.ResolvePath(p)
		if err != nil {
			return nil, err
		}
		resolved[i] = r
	}
	return resolved, nil
}

// loadStateMachine resolves files against the configured search path, loads
// them into a fresh StateMachine, and, if history is non-empty, replays it
// via applyHistory. history encodes completed turns as "player=move" pairs,
// turns separated by ';' and players within a turn separated by ',', each
// move written as a GDL term: e.g. "x=(mark 1 1),o=(noop);x=(noop),o=(mark 2 2)".
//
// A real session would keep a *StateMachine alive across subcommand
// invocations; since each gdl invocation is a fresh process, --history lets
// a caller (such as a script) replay a known-good
// sequence of prior turns before asking a one-shot question about the
// state that results.
func loadStateMachine(ctx context.Context, files []string, history string) (*gdl.StateMachine, error) {
	resolved, err := resolveFiles(files)
	if err != nil {
		return nil, err
	}

	sm, err := gdl.NewStateMachine(gdl.NewDatabase())
	if err != nil {
		return nil, err
	}
	if err := sm.StoreFiles(ctx, resolved); err != nil {
		return nil, err
	}

	sessionLog := logging.NewSession(logger)
	sessionLog.Debug("loaded state machine", zap.Strings("files", resolved))

	if history == "" {
		return sm, nil
	}
	return applyHistory(sm, history)
}

func applyHistory(sm *gdl.StateMachine, history string) (*gdl.StateMachine, error) {
	for turnIdx, turn := range strings.Split(history, ";") {
		turn = strings.TrimSpace(turn)
		if turn == "" {
			continue
		}
		for _, mv := range strings.Split(turn, ",") {
			mv = strings.TrimSpace(mv)
			if mv == "" {
				continue
			}
			player, move, ok := strings.Cut(mv, "=")
			if !ok {
				return nil, fmt.Errorf("turn %d: malformed move %q, want player=move", turnIdx, mv)
			}
			if err := sm.Move(strings.TrimSpace(player), strings.TrimSpace(move)); err != nil {
				return nil, fmt.Errorf("turn %d: %w", turnIdx, err)
			}
		}
		next, err := sm.Next()
		if err != nil {
			return nil, fmt.Errorf("turn %d: %w", turnIdx, err)
		}
		sm = next
	}
	return sm, nil
}

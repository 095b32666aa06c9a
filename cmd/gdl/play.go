package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	moveHistory     string
	legalHistory    string
	legalPlayer     string
	scoreHistory    string
	scorePlayer     string
	nextHistory     string
	terminalHistory string
)

var moveCmd = &cobra.Command{
	Use:   "move <file...> <player> <move>",
	Short: "Submit player's move for the current turn; the last two arguments are player and move",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, player, move := args[:len(args)-2], args[len(args)-2], args[len(args)-1]
		sm, err := loadStateMachine(cmd.Context(), files, moveHistory)
		if err != nil {
			return err
		}
		if err := sm.Move(player, move); err != nil {
			return err
		}
		logger.Info("submitted move", zap.String("player", player), zap.String("move", move))
		fmt.Println("ok")
		return nil
	},
}

var legalCmd = &cobra.Command{
	Use:   "legal <file...>",
	Short: "List legal moves for one player (--player), or every player if omitted",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sm, err := loadStateMachine(cmd.Context(), args, legalHistory)
		if err != nil {
			return err
		}

		if legalPlayer != "" {
			moves, err := sm.LegalMoves(legalPlayer)
			if err != nil {
				return err
			}
			for _, m := range moves {
				fmt.Println(m)
			}
			return nil
		}

		all, err := sm.AllLegalMoves()
		if err != nil {
			return err
		}
		for p, moves := range all {
			fmt.Printf("%s: %v\n", p, moves)
		}
		return nil
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score <file...>",
	Short: "Print one player's goal score (--player), or every player's if omitted",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sm, err := loadStateMachine(cmd.Context(), args, scoreHistory)
		if err != nil {
			return err
		}

		if scorePlayer != "" {
			score, err := sm.Score(scorePlayer)
			if err != nil {
				return err
			}
			fmt.Println(score)
			return nil
		}

		all, err := sm.AllScores()
		if err != nil {
			return err
		}
		for p, score := range all {
			fmt.Printf("%s: %d\n", p, score)
		}
		return nil
	},
}

var nextCmd = &cobra.Command{
	Use:   "next <file...>",
	Short: "Advance to the successor state once every player has moved, printing its digest",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sm, err := loadStateMachine(cmd.Context(), args, nextHistory)
		if err != nil {
			return err
		}
		next, err := sm.Next()
		if err != nil {
			return err
		}
		digest, err := next.Digest()
		if err != nil {
			return err
		}
		logger.Info("advanced state", zap.Uint64("digest", digest))
		fmt.Printf("digest: %x\n", digest)
		return nil
	},
}

var terminalCmd = &cobra.Command{
	Use:   "terminal <file...>",
	Short: "Report whether the loaded state satisfies terminal/0",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sm, err := loadStateMachine(cmd.Context(), args, terminalHistory)
		if err != nil {
			return err
		}
		terminal, err := sm.IsTerminal()
		if err != nil {
			return err
		}
		fmt.Println(terminal)
		return nil
	},
}

func init() {
	moveCmd.Flags().StringVar(&moveHistory, "history", "", "prior turns to replay before moving")
	legalCmd.Flags().StringVar(&legalHistory, "history", "", "prior turns to replay before listing legal moves")
	legalCmd.Flags().StringVar(&legalPlayer, "player", "", "limit output to this player's legal moves")
	scoreCmd.Flags().StringVar(&scoreHistory, "history", "", "prior turns to replay before scoring")
	scoreCmd.Flags().StringVar(&scorePlayer, "player", "", "limit output to this player's score")
	nextCmd.Flags().StringVar(&nextHistory, "history", "", "prior turns to replay before advancing")
	terminalCmd.Flags().StringVar(&terminalHistory, "history", "", "prior turns to replay before checking terminal/0")
}

package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/gdlogic/pkg/gdl"
)

var storeCmd = &cobra.Command{
	Use:   "store <file...>",
	Short: "Load one or more GDL source files and report the roles and state digest",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolved, err := resolveFiles(args)
		if err != nil {
			return err
		}
		if err := validateFilesIndependently(resolved); err != nil {
			return err
		}

		sm, err := loadStateMachine(cmd.Context(), resolved, "")
		if err != nil {
			return err
		}

		digest, err := sm.Digest()
		if err != nil {
			return err
		}
		logger.Info("stored GDL source", zap.Strings("files", resolved), zap.Uint64("digest", digest))

		fmt.Printf("roles:\n")
		for role := range sm.Players() {
			fmt.Printf("  %s\n", role)
		}
		fmt.Printf("digest: %x\n", digest)
		return nil
	},
}

// validateFilesIndependently lexes, parses, and inserts each file into its
// own throwaway Database, so a syntax or rule-validation error in one file
// doesn't stop the others from being checked in the same run. Cross-file
// concerns (role/1 living in a different file than the rules that need
// it) are out of scope here; the combined load that follows catches those.
func validateFilesIndependently(files []string) error {
	var result *multierror.Error
	for _, f := range files {
		if err := validateOneFile(f); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", f, err))
		}
	}
	return result.ErrorOrNil()
}

func validateOneFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	tokens := gdl.Lex(path, string(data))
	trees, err := gdl.Parse(tokens)
	if err != nil {
		return err
	}
	db := gdl.NewDatabase()
	for _, tree := range trees {
		if err := gdl.InsertTree(db, tree); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/gdlogic/pkg/gdl"
)

// renderBinding formats a binding map as "?var=value, ?var2=value2" with
// variables in a stable, sorted order.
func renderBinding(b gdl.Bindings) string {
	vars := make([]string, 0, len(b))
	for v := range b {
		vars = append(vars, v)
	}
	sort.Strings(vars)

	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = fmt.Sprintf("%s=%s", v, b[v].Render())
	}
	return strings.Join(parts, ", ")
}

var (
	queryExpr    string
	queryHistory string
)

var queryCmd = &cobra.Command{
	Use:   "query <file...> --expr <term>",
	Short: "Run a one-shot boolean or binding query against a loaded database",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if queryExpr == "" {
			return fmt.Errorf("--expr is required")
		}
		sm, err := loadStateMachine(cmd.Context(), args, queryHistory)
		if err != nil {
			return err
		}

		tokens := gdl.Lex("", queryExpr)
		trees, err := gdl.Parse(tokens)
		if err != nil {
			return fmt.Errorf("parsing --expr: %w", err)
		}
		if len(trees) != 1 {
			return fmt.Errorf("--expr must be a single term, got %d", len(trees))
		}

		result, err := sm.Database().Query(trees[0])
		if err != nil {
			return err
		}
		logger.Info("ran query", zap.String("expr", queryExpr))

		if result.IsBool() {
			fmt.Println(result.Bool())
			return nil
		}
		for _, binding := range result.Bindings() {
			fmt.Println(renderBinding(binding))
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryExpr, "expr", "", "the term to query, e.g. \"(legal x (mark 1 1))\"")
	queryCmd.Flags().StringVar(&queryHistory, "history", "", "prior turns to replay before querying, see loadStateMachine")
}

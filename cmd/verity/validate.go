package main

import (
	"fmt"
	"strings"

	"github.com/soundprediction/verity/pkg/cypher"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <query>",
	Short: "Check whether a Cypher query would be allowed to run",
	Long: `Run a query through the read-only validator without touching the database.
Exits non-zero when the query is rejected.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	if err := cypher.Validate(query); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}

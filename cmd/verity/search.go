package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/soundprediction/verity/pkg/server/dto"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <prompt>",
	Short: "Run one natural-language search and print the results as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().Bool("raw", false, "include the raw completion reply")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	res, err := a.client.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	raw, _ := cmd.Flags().GetBool("raw")
	return writeJSON(cmd, dto.ResultsResponse{
		Results:   res.Results,
		QueryInfo: dto.NewQueryInfo(res.QueryInfo, raw),
	})
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

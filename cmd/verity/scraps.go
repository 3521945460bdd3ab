package main

import (
	"context"

	"github.com/soundprediction/verity/pkg/driver"
	"github.com/soundprediction/verity/pkg/server/dto"
	"github.com/spf13/cobra"
)

var scrapsCmd = &cobra.Command{
	Use:   "scraps [id]",
	Short: "List scraps, search them by keyword, or show one scrap",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScraps,
}

func init() {
	rootCmd.AddCommand(scrapsCmd)
	scrapsCmd.Flags().Int("limit", driver.DefaultListLimit, "maximum number of scraps to list")
	scrapsCmd.Flags().StringP("query", "q", "", "case-insensitive keyword to search content and tags")
	scrapsCmd.Flags().Bool("related", false, "with an id, list the scraps it relates to")
}

func runScraps(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	flags := cmd.Flags()
	if len(args) == 1 {
		if related, _ := flags.GetBool("related"); related {
			results, err := a.client.GetRelatedScraps(ctx, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, dto.NewScrapsResponse(results))
		}
		scrap, err := a.client.GetScrap(ctx, args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd, scrap)
	}

	if q, _ := flags.GetString("query"); q != "" {
		results, err := a.client.SearchScraps(ctx, q)
		if err != nil {
			return err
		}
		resp := dto.NewScrapsResponse(results)
		resp.Query = q
		return writeJSON(cmd, resp)
	}

	limit, _ := flags.GetInt("limit")
	limit = driver.ClampLimit(limit)
	results, err := a.client.ListScraps(ctx, limit)
	if err != nil {
		return err
	}
	resp := dto.NewScrapsResponse(results)
	resp.Limit = limit
	return writeJSON(cmd, resp)
}

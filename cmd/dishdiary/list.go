package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kitchenlog/dishdiary/internal/dishes"
	"github.com/kitchenlog/dishdiary/internal/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List dishes in the catalog",
	Long: `List all open dishes, newest first.

Examples:
  dishdiary list                    # everything
  dishdiary list --category 汤类    # one category
  dishdiary list -q 豆腐            # title/description search`,
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		query, _ := cmd.Flags().GetString("query")

		list, err := repo.List(context.Background(), dishes.Filter{
			Category: types.Category(category),
			Query:    query,
		})
		if err != nil {
			return err
		}

		if len(list) == 0 {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Printf("\n%s No dishes found\n\n", yellow("∅"))
			return nil
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan(fmt.Sprintf("=== Dishes (%d) ===", len(list))))
		for _, d := range list {
			fmt.Printf("  #%-4d %s %s\n", d.ID, d.Title, gray("["+string(d.Category)+"]"))
			fmt.Printf("        %s  %s\n",
				ratingSummary(d.Metadata),
				gray(fmt.Sprintf("%d orders, added %s", d.Metadata.OrderCount, d.Metadata.CreatedAt)))
		}
		fmt.Println()
		return nil
	},
}

// ratingSummary renders the average rating, or a placeholder when no rating
// exists yet (the average is undefined, never a division by zero).
func ratingSummary(m types.DishMetadata) string {
	avg, ok := m.AverageRating()
	if !ok {
		return color.New(color.FgHiBlack).Sprint("☆ -")
	}
	return color.New(color.FgYellow).Sprintf("★ %.1f (%d)", avg, m.RatingCount)
}

func init() {
	listCmd.Flags().StringP("category", "c", "", "Filter by category")
	listCmd.Flags().StringP("query", "q", "", "Case-insensitive title/description search")
	rootCmd.AddCommand(listCmd)
}

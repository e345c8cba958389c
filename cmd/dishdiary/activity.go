package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kitchenlog/dishdiary/internal/activity"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show the household order diary",
	Long: `Display every recorded order across all dishes, most recent
first, grouped by day. The feed is rebuilt from the tracker on every call;
nothing is cached.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		entries, err := feed.List(context.Background())
		if err != nil {
			return err
		}
		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}

		if len(entries) == 0 {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Printf("\n%s No orders recorded yet\n\n", yellow("∅"))
			return nil
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		now := time.Now()

		fmt.Println()
		for _, group := range activity.GroupByDay(entries, now) {
			fmt.Printf("%s\n", cyan(group.Key))
			for _, e := range group.Entries {
				line := fmt.Sprintf("  %s ordered %s", e.User, e.DishName)
				if e.Rating > 0 {
					line += color.New(color.FgYellow).Sprintf("  ★ %d", e.Rating)
				}
				fmt.Printf("%s  %s\n", line, gray(activity.RelativeTime(e.When(), now)))
				if e.Comment != "" {
					fmt.Printf("    %s\n", gray(fmt.Sprintf("%q", e.Comment)))
				}
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	activityCmd.Flags().IntP("limit", "n", 0, "Show at most this many entries (0 = all)")
	rootCmd.AddCommand(activityCmd)
}

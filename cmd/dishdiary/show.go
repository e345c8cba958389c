package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kitchenlog/dishdiary/internal/activity"
)

var showCmd = &cobra.Command{
	Use:   "show <dish-id>",
	Short: "Show one dish and its order history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid dish id %q", args[0])
		}

		detail, err := repo.Get(context.Background(), id)
		if err != nil {
			return err
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		d := detail.Dish
		fmt.Printf("\n%s %s\n", cyan(fmt.Sprintf("#%d", d.ID)), cyan(d.Title))
		fmt.Printf("  Category: %s\n", d.Category)
		if d.Metadata.Description != "" {
			fmt.Printf("  %s\n", d.Metadata.Description)
		}
		if d.Metadata.Image != "" {
			fmt.Printf("  Image: %s\n", gray(d.Metadata.Image))
		}
		fmt.Printf("  %s  %s\n", ratingSummary(d.Metadata),
			gray(fmt.Sprintf("%d orders, added %s", d.Metadata.OrderCount, d.Metadata.CreatedAt)))

		if len(detail.Orders) > 0 {
			fmt.Printf("\n  %s\n", cyan("Orders:"))
			now := time.Now()
			for _, o := range detail.Orders {
				line := fmt.Sprintf("    %s ordered", o.User)
				if o.Rating > 0 {
					line += fmt.Sprintf(", rated %d/5", o.Rating)
				}
				if o.Comment != "" {
					line += fmt.Sprintf(": %q", o.Comment)
				}
				fmt.Printf("%s %s\n", line, gray(activity.RelativeTime(o.Time(), now)))
			}
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

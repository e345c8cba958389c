package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var orderCmd = &cobra.Command{
	Use:   "order <dish-id>",
	Short: "Record that someone ordered a dish",
	Long: `Record an order: appends an order event to the dish and bumps its
aggregate counters. A rating of 0 (or no --rating) records the order without
rating it.

Example:
  dishdiary order 12 --user dad --rating 5 --comment "best batch yet"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid dish id %q", args[0])
		}
		user, _ := cmd.Flags().GetString("user")
		rating, _ := cmd.Flags().GetInt("rating")
		comment, _ := cmd.Flags().GetString("comment")

		if err := repo.RecordOrder(context.Background(), id, user, rating, comment); err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		if rating > 0 {
			fmt.Printf("%s Order recorded for dish #%d (rated %d/5)\n", green("✓"), id, rating)
		} else {
			fmt.Printf("%s Order recorded for dish #%d\n", green("✓"), id)
		}
		return nil
	},
}

func init() {
	orderCmd.Flags().StringP("user", "u", "", "Who ordered (required)")
	orderCmd.Flags().IntP("rating", "r", 0, "Rating 1-5, 0 for none")
	orderCmd.Flags().StringP("comment", "m", "", "Optional comment")
	rootCmd.AddCommand(orderCmd)
}

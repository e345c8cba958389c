package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <dish-id>",
	Short: "Remove a dish from the catalog",
	Long: `Remove a dish. This is a soft delete: the underlying document is
closed, not erased, so the order history stays in the tracker.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid dish id %q", args[0])
		}

		if err := repo.Delete(context.Background(), id); err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Dish #%d removed (document closed, history kept)\n", green("✓"), id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

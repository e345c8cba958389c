package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kitchenlog/dishdiary/internal/dishes"
	"github.com/kitchenlog/dishdiary/internal/types"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a dish to the catalog",
	Long: `Add a new dish. The category is required and must be one of the
known categories (see "dishdiary categories").

Example:
  dishdiary add 麻婆豆腐 --category 小炒素菜 --desc "numbing and hot"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		desc, _ := cmd.Flags().GetString("desc")
		image, _ := cmd.Flags().GetString("image")

		dish, err := repo.Create(context.Background(), dishes.CreateRequest{
			Title:       args[0],
			Description: desc,
			Category:    types.Category(category),
			Image:       image,
		})
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Added dish #%d: %s\n", green("✓"), dish.ID, dish.Title)
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Print the known dish categories",
	Run: func(cmd *cobra.Command, args []string) {
		for _, c := range types.Categories {
			fmt.Println(c)
		}
	},
}

func init() {
	addCmd.Flags().StringP("category", "c", "", "Dish category (required)")
	addCmd.Flags().StringP("desc", "d", "", "Description")
	addCmd.Flags().String("image", "", "Image URL")
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(categoriesCmd)
}

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kitchenlog/dishdiary/internal/dishes"
	"github.com/kitchenlog/dishdiary/internal/types"
)

// starterDishes is the seed catalog for a fresh tracker.
var starterDishes = []dishes.CreateRequest{
	{Title: "凉拌黄瓜", Category: types.CategoryColdDish, Description: "爽口开胃"},
	{Title: "红烧肉", Category: types.CategoryStirFried, Description: "肥而不腻"},
	{Title: "麻婆豆腐", Category: types.CategoryVegetable, Description: "麻辣鲜香"},
	{Title: "清蒸鲈鱼", Category: types.CategorySteamed, Description: "鲜嫩清淡"},
	{Title: "蛋炒饭", Category: types.CategoryStaple, Description: "粒粒分明"},
	{Title: "紫菜蛋花汤", Category: types.CategorySoup, Description: "清淡暖胃"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a starter set of dishes",
	Long: `Create a small starter catalog in an empty tracker. Dishes whose
title already exists are skipped, so the command is safe to re-run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		existing, err := repo.List(ctx, dishes.Filter{})
		if err != nil {
			return err
		}
		have := make(map[string]bool, len(existing))
		for _, d := range existing {
			have[d.Title] = true
		}

		green := color.New(color.FgGreen).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		created := 0
		for _, req := range starterDishes {
			if have[req.Title] {
				fmt.Printf("%s %s already exists\n", gray("·"), req.Title)
				continue
			}
			dish, err := repo.Create(ctx, req)
			if err != nil {
				var vErr *dishes.ValidationError
				if errors.As(err, &vErr) {
					return err
				}
				return fmt.Errorf("seed %s: %w", req.Title, err)
			}
			created++
			fmt.Printf("%s Created #%d %s\n", green("✓"), dish.ID, dish.Title)
		}

		fmt.Printf("\n%d created, %d skipped\n", created, len(starterDishes)-created)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

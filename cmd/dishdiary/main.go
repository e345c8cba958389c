// dishdiary is a household dish catalog and order diary, persisted entirely
// in a GitHub-style issue tracker: one issue per dish, one comment per
// order.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kitchenlog/dishdiary/internal/activity"
	"github.com/kitchenlog/dishdiary/internal/config"
	"github.com/kitchenlog/dishdiary/internal/dishes"
	"github.com/kitchenlog/dishdiary/internal/gitstore"
	"github.com/kitchenlog/dishdiary/internal/images"
)

// Shared state initialized by the root command before any subcommand runs.
var (
	cfg      *config.Config
	store    gitstore.Store
	repo     *dishes.Repository
	feed     *activity.Aggregator
	uploader *images.Uploader
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "dishdiary",
	Short: "Household dish catalog and order diary backed by an issue tracker",
	Long: `dishdiary keeps a family's dish catalog and order history in a
GitHub-style issue tracker: each dish is an issue with a metadata block in
its body, each order is a JSON comment on that issue, and the category is a
label.

Configuration comes from an optional YAML file plus environment variables;
DISHDIARY_TOKEN and DISHDIARY_REPO (owner/name) are required.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initDiary()
	},
}

// initDiary loads configuration and wires the store, repository, aggregator,
// and uploader. Fails fast on missing credentials, before any network call.
func initDiary() error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration: %w (set %s and %s)", err, config.EnvToken, config.EnvRepo)
	}

	client, err := gitstore.NewClient(gitstore.Options{
		Token:             cfg.Token,
		Repo:              cfg.Repo,
		BaseURL:           cfg.BaseURL,
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	store = client
	repo = dishes.New(store)
	feed = activity.New(store)
	uploader = images.New(store, client.Owner(), client.Repo(), cfg.UploadBranch)
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "dishdiary.yaml", "Path to the YAML config file (optional)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

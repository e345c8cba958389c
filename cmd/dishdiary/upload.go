package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <image-file>",
	Short: "Upload a dish photo and print its public URL",
	Long: `Upload an image into the tracker's backing repository and print
the stable raw-content URL, ready to pass to "dishdiary add --image".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		url, err := uploader.Upload(context.Background(), base64.StdEncoding.EncodeToString(data))
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Uploaded %s\n%s\n", green("✓"), args[0], url)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

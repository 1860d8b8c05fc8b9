package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the default knowledge base from the remote feeds",
	Long: `Sync reconciles the locally stored default knowledge against the remote
article and photo feeds: new items are indexed, changed items are
re-indexed, and items removed from the feed are deleted. User-added
documents are never touched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.syncer.SyncDefaultKnowledge(ctx)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		a.retriever.Invalidate()

		fmt.Fprintf(cmd.OutOrStdout(),
			"Sync complete: %d added, %d updated, %d deleted, %d failed (%s)\n",
			result.Added, result.Updated, result.Deleted, result.Failed,
			result.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the knowledge base",
	Long: `Search embeds the query and prints the stored chunks most similar to it,
ranked by cosine similarity. An empty result means no indexed content was
relevant; run "lumen sync" first if the knowledge base is empty.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		query := strings.Join(args, " ")
		results := a.retriever.Search(ctx, query)
		if len(results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No relevant content found.")
			return nil
		}

		out := cmd.OutOrStdout()
		for i, r := range results {
			fmt.Fprintf(out, "%d. [%.3f] %s\n", i+1, r.Similarity, r.DocumentTitle)
			fmt.Fprintf(out, "   %s\n", r.Chunk.Content)
			if i < len(results)-1 {
				fmt.Fprintln(out)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lumen-app/lumen/internal/knowledge"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage knowledge base documents",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		docs, err := a.store.FetchAllDocuments(ctx)
		if err != nil {
			return fmt.Errorf("listing documents: %w", err)
		}
		if len(docs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No documents indexed yet.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSOURCE\tDEFAULT\tUPDATED")
		for _, doc := range docs {
			source := string(doc.SourceType)
			if source == "" {
				source = "feed"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
				doc.ID, doc.Title, source, doc.IsDefault,
				doc.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var docsAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Index a local text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		doc, err := a.indexer.IndexFile(ctx, args[0])
		if err != nil {
			return fmt.Errorf("indexing file: %w", err)
		}
		a.retriever.Invalidate()

		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %q as %s (%d chunks)\n",
			doc.Title, doc.ID, len(doc.Chunks))
		return nil
	},
}

var docsNoteCmd = &cobra.Command{
	Use:   "note <title> <content>",
	Short: "Index a manually entered note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		doc, err := a.indexer.IndexText(ctx, args[0], args[1])
		if err != nil {
			return fmt.Errorf("indexing note: %w", err)
		}
		a.retriever.Invalidate()

		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %q as %s (%d chunks)\n",
			doc.Title, doc.ID, len(doc.Chunks))
		return nil
	},
}

var docsRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Remove a document and its chunks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		id := args[0]
		if _, err := a.store.FetchDocument(ctx, id); err != nil {
			if errors.Is(err, knowledge.ErrNotFound) {
				return fmt.Errorf("document %q not found", id)
			}
			return fmt.Errorf("looking up document %q: %w", id, err)
		}
		if err := a.store.DeleteDocument(ctx, id); err != nil {
			return fmt.Errorf("deleting document %q: %w", id, err)
		}
		a.retriever.Invalidate()

		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
		return nil
	},
}

var docsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		doc, err := a.store.FetchDocument(ctx, args[0])
		if err != nil {
			return fmt.Errorf("fetching document %q: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", doc.Title)
		fmt.Fprintf(out, "id: %s  default: %t  updated: %s\n\n",
			doc.ID, doc.IsDefault, doc.UpdatedAt.Format("2006-01-02 15:04"))
		for _, c := range doc.Chunks {
			embedded := "embedded"
			if c.Embedding == nil {
				embedded = "no vector"
			}
			fmt.Fprintf(out, "[%d] (%s) %s\n", c.ChunkIndex, embedded, c.Content)
		}
		return nil
	},
}

func init() {
	docsCmd.AddCommand(docsListCmd, docsAddCmd, docsNoteCmd, docsRemoveCmd, docsShowCmd)
	rootCmd.AddCommand(docsCmd)
}

// Package cmd implements the lumen command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lumen",
	Short: "Lumen photography knowledge engine",
	Long: `Lumen maintains a local photography knowledge base: it syncs articles
and photo metadata from the Lumen feed into PostgreSQL, indexes them as
embedded chunks, and answers free-text queries with the most relevant
passages.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var docsOutDir string

// docsCmd regenerates the Markdown command docs. Hidden: it's for
// maintainers, not users.
var docsCmd = &cobra.Command{
	Use:    "docs",
	Short:  "Generate Markdown documentation for every command",
	Hidden: true,
	Run: func(cmd *cobra.Command, args []string) {
		if err := os.MkdirAll(docsOutDir, 0755); err != nil {
			log.Fatalf("failed to create docs directory: %v", err)
		}
		if err := doc.GenMarkdownTree(RootCmd, docsOutDir); err != nil {
			log.Fatalf("failed to generate docs: %v", err)
		}
	},
}

func init() {
	RootCmd.AddCommand(docsCmd)

	docsCmd.Flags().StringVarP(&docsOutDir, "out", "o", "./docs", "directory to write Markdown docs into")
}

// Package cmd is for command line interactions with the dsrna application
package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "dsrna",
	Short: `Design dsRNA biopesticide candidates for a target pest species.
Match essential genes against the pest genome, design dsRNA windows,
screen them for off-target safety, and rank by efficacy and safety`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

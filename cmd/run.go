package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalyzeAI/dsrna-designer/internal/dsrna"
)

var (
	runGenomePath     string
	runCatalogPath    string
	runLiteraturePath string
	runOutDir         string
	runDBs            string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the whole pipeline from genome to ranked candidates",
	Long: `Run every stage in order: match essential genes against the genome,
design dsRNA candidates over the top genes, screen them off-target,
and rank what screening resolved.

Each stage's output is written into the output directory: genes.json,
candidates.json, screen.json and ranked.json.`,
	Run: dsrna.Run,
}

func init() {
	RootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runGenomePath, "genome", "g", "", "path to the target genome's CDS FASTA file")
	runCmd.Flags().StringVarP(&runCatalogPath, "catalog", "c", "", "path to the essential-gene catalog JSON")
	runCmd.Flags().StringVarP(&runLiteraturePath, "literature", "l", "", "path to literature-search JSON (optional)")
	runCmd.Flags().StringVarP(&runOutDir, "out", "o", "output", "directory to write stage outputs into")
	runCmd.Flags().StringVarP(&runDBs, "dbs", "d", "", "databases to screen against as name=path,name=path")

	runCmd.MarkFlagRequired("genome")
	runCmd.MarkFlagRequired("catalog")

	viper.BindPFlag("genome", runCmd.Flags().Lookup("genome"))
	viper.BindPFlag("catalog", runCmd.Flags().Lookup("catalog"))
}

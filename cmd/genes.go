package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalyzeAI/dsrna-designer/internal/dsrna"
)

var (
	genomePath     string
	catalogPath    string
	literaturePath string
	genesOutPath   string
)

// genesCmd represents the genes command
var genesCmd = &cobra.Command{
	Use:   "genes",
	Short: "Match the essential-gene catalog against the genome's CDS annotations",
	Long: `Match a curated catalog of essential genes (names, aliases, essentiality
evidence) against the descriptions of the genome's coding sequences.

Each (gene, sequence) pair gets an essentiality score built from the
annotation match, optional literature support, and the number of species
the gene is known essential in. The top matches are written as JSON,
ready for "dsrna design".`,
	Run: dsrna.IdentifyGenes,
}

func init() {
	RootCmd.AddCommand(genesCmd)

	genesCmd.Flags().StringVarP(&genomePath, "genome", "g", "", "path to the target genome's CDS FASTA file")
	genesCmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "path to the essential-gene catalog JSON")
	genesCmd.Flags().StringVarP(&literaturePath, "literature", "l", "", "path to literature-search JSON (optional)")
	genesCmd.Flags().StringVarP(&genesOutPath, "out", "o", "genes.json", "path to write scored gene matches to")

	genesCmd.MarkFlagRequired("genome")
	genesCmd.MarkFlagRequired("catalog")

	viper.BindPFlag("genome", genesCmd.Flags().Lookup("genome"))
	viper.BindPFlag("catalog", genesCmd.Flags().Lookup("catalog"))
}

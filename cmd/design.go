package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalyzeAI/dsrna-designer/internal/dsrna"
)

var (
	designGenesPath string
	designOutPath   string
	designFastaPath string
	designLength    int
	designCount     int
)

// designCmd represents the design command
var designCmd = &cobra.Command{
	Use:   "design",
	Short: "Design non-overlapping dsRNA candidates over the top matched genes",
	Long: `Slide fixed-length windows across each top gene's sequence, score every
window on GC content, homopolymer runs and distance from the volatile
CDS ends, and greedily keep the best non-overlapping windows.

Genes shorter than the window length yield no candidates. Pass --fasta
to also write each candidate's sense and antisense strands for synthesis.`,
	Run: dsrna.Design,
}

func init() {
	RootCmd.AddCommand(designCmd)

	designCmd.Flags().StringVarP(&designGenesPath, "genes", "g", "", "path to scored gene matches from \"dsrna genes\"")
	designCmd.Flags().StringVarP(&designOutPath, "out", "o", "candidates.json", "path to write designed candidates to")
	designCmd.Flags().StringVarP(&designFastaPath, "fasta", "f", "", "path to also write candidate strands as FASTA (optional)")
	designCmd.Flags().IntVarP(&designLength, "length", "L", 300, "dsRNA candidate length in bp")
	designCmd.Flags().IntVarP(&designCount, "candidates", "n", 3, "number of candidates kept per gene")

	designCmd.MarkFlagRequired("genes")

	viper.BindPFlag("design.length", designCmd.Flags().Lookup("length"))
	viper.BindPFlag("design.candidates", designCmd.Flags().Lookup("candidates"))
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/katalyzeAI/dsrna-designer/internal/dsrna"
)

var (
	rankCandidatesPath string
	rankScreenPath     string
	rankGenesPath      string
	rankOutPath        string
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank candidates by combined efficacy and safety",
	Long: `Merge designed candidates with their screening results and gene scores
into a final ranked list. Efficacy weighs GC fit, homopolymer runs, the
design score and gene essentiality; safety comes from the off-target
classification; the combined score is their product.

Candidates with unresolved screening are excluded and reported, and a
candidate without a screening result at all is an error.`,
	Run: dsrna.Rank,
}

func init() {
	RootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringVarP(&rankCandidatesPath, "candidates", "c", "", "path to designed candidates from \"dsrna design\"")
	rankCmd.Flags().StringVarP(&rankScreenPath, "screen", "s", "", "path to screening results from \"dsrna screen\"")
	rankCmd.Flags().StringVarP(&rankGenesPath, "genes", "g", "", "path to scored gene matches from \"dsrna genes\"")
	rankCmd.Flags().StringVarP(&rankOutPath, "out", "o", "ranked.json", "path to write the ranked candidates to")

	rankCmd.MarkFlagRequired("candidates")
	rankCmd.MarkFlagRequired("screen")
	rankCmd.MarkFlagRequired("genes")
}

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalyzeAI/dsrna-designer/internal/dsrna"
)

var (
	screenCandidatesPath string
	screenOutPath        string
	screenDBs            string
	screenWorkers        int
	screenTimeout        int
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Screen candidates for off-target matches with blastn",
	Long: `Run each candidate through blastn against every configured reference
database (human and honeybee transcript sets by default) with a short
word size, and classify the worst-case contiguous match:

  <15 bp   safe
  15-18 bp caution
  >=19 bp  reject

A screen that times out is reported as undetermined, never as safe.
blastn and the databases are checked before the first candidate runs.`,
	Run: dsrna.Screen,
}

func init() {
	RootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringVarP(&screenCandidatesPath, "candidates", "c", "", "path to designed candidates from \"dsrna design\"")
	screenCmd.Flags().StringVarP(&screenOutPath, "out", "o", "screen.json", "path to write screening results to")
	screenCmd.Flags().StringVarP(&screenDBs, "dbs", "d", "", "databases to screen against as name=path,name=path")
	screenCmd.Flags().IntVarP(&screenWorkers, "workers", "w", 4, "number of candidates screened concurrently")
	screenCmd.Flags().IntVarP(&screenTimeout, "timeout", "t", 60, "seconds before one blastn invocation is abandoned")

	screenCmd.MarkFlagRequired("candidates")

	viper.BindPFlag("screen.workers", screenCmd.Flags().Lookup("workers"))
	viper.BindPFlag("screen.timeout", screenCmd.Flags().Lookup("timeout"))
}

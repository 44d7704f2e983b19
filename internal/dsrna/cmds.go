package dsrna

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalyzeAI/dsrna-designer/config"
)

// IdentifyGenes is the root of the `dsrna genes` functionality: match
// the essential-gene catalog against a genome's CDS annotations and
// write the scored matches.
func IdentifyGenes(cmd *cobra.Command, args []string) {
	genome := mustFlag(cmd, "genome")
	catalogPath := mustFlag(cmd, "catalog")
	literature, _ := cmd.Flags().GetString("literature")
	out := mustFlag(cmd, "out")

	conf := config.New()

	seqs, err := ReadFasta(genome)
	if err != nil {
		stderr.Fatalf("failed to read genome at %s: %v", genome, err)
	}

	catalog, err := ReadCatalog(catalogPath)
	if err != nil {
		stderr.Fatal(err)
	}

	var lit *Literature
	if literature != "" {
		if lit, err = ReadLiterature(literature); err != nil {
			stderr.Fatal(err)
		}
	}

	matches := MatchGenes(seqs, catalog, lit, conf)
	if err := WriteJSON(out, matches); err != nil {
		stderr.Fatalf("failed to write gene matches to %s: %v", out, err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 3, ' ', 0)
	fmt.Fprintf(tw, "gene\tsequence\tscore\t\n")
	for _, m := range matches {
		fmt.Fprintf(tw, "%s\t%s\t%.3f\t\n", m.GeneName, m.GeneID, m.Score)
	}
	tw.Flush()
}

// Design is the root of the `dsrna design` functionality: design
// non-overlapping dsRNA candidates over the top matched genes.
func Design(cmd *cobra.Command, args []string) {
	genesPath := mustFlag(cmd, "genes")
	out := mustFlag(cmd, "out")
	fastaOut, _ := cmd.Flags().GetString("fasta")

	conf := config.New()

	matches, err := ReadGeneMatches(genesPath)
	if err != nil {
		stderr.Fatal(err)
	}

	var candidates []Candidate
	for _, m := range topGenes(matches, conf.Design.TopGenes) {
		candidates = append(candidates, DesignCandidates(m.Sequence, m.GeneName, m.GeneID, conf)...)
	}

	if err := WriteJSON(out, candidates); err != nil {
		stderr.Fatalf("failed to write candidates to %s: %v", out, err)
	}

	if fastaOut != "" {
		f, err := os.Create(fastaOut)
		if err != nil {
			stderr.Fatalf("failed to create %s: %v", fastaOut, err)
		}
		defer f.Close()

		if err := WriteCandidateFasta(f, candidates); err != nil {
			stderr.Fatalf("failed to write candidate FASTA: %v", err)
		}
	}

	stderr.Printf("designed %d candidates across %d genes\n", len(candidates), len(topGenes(matches, conf.Design.TopGenes)))
}

// Screen is the root of the `dsrna screen` functionality: off-target
// screen each candidate against the configured databases.
func Screen(cmd *cobra.Command, args []string) {
	candidatesPath := mustFlag(cmd, "candidates")
	out := mustFlag(cmd, "out")

	conf := config.New()
	applyDBFlag(cmd, conf)

	candidates, err := ReadCandidates(candidatesPath)
	if err != nil {
		stderr.Fatal(err)
	}

	results, err := ScreenCandidates(context.Background(), candidates, conf)
	if err != nil {
		stderr.Fatal(err)
	}

	if err := WriteJSON(out, NewScreenOutput(results, conf)); err != nil {
		stderr.Fatalf("failed to write screening results to %s: %v", out, err)
	}

	printScreenSummary(results)
}

// Rank is the root of the `dsrna rank` functionality: merge designed
// candidates with screening results and gene scores into the final
// ranked list.
func Rank(cmd *cobra.Command, args []string) {
	candidatesPath := mustFlag(cmd, "candidates")
	screenPath := mustFlag(cmd, "screen")
	genesPath := mustFlag(cmd, "genes")
	out := mustFlag(cmd, "out")

	conf := config.New()

	candidates, err := ReadCandidates(candidatesPath)
	if err != nil {
		stderr.Fatal(err)
	}

	screenOut, err := ReadScreenOutput(screenPath)
	if err != nil {
		stderr.Fatal(err)
	}

	matches, err := ReadGeneMatches(genesPath)
	if err != nil {
		stderr.Fatal(err)
	}

	// unresolved screens are reported, not ranked
	result := &PipelineResult{Candidates: candidates, Screens: screenOut.Results}
	resolvedCandidates, resolvedScreens := splitUnresolved(result)

	ranked, err := RankCandidates(resolvedCandidates, resolvedScreens, matches, conf)
	if err != nil {
		stderr.Fatal(err)
	}

	if err := WriteJSON(out, ranked); err != nil {
		stderr.Fatalf("failed to write ranked candidates to %s: %v", out, err)
	}

	printRankSummary(ranked, result.Unresolved)
}

// Run is the root of the `dsrna run` functionality: the whole pipeline
// from genome and catalog to the ranked candidate list, writing each
// stage's output into a directory.
func Run(cmd *cobra.Command, args []string) {
	genome := mustFlag(cmd, "genome")
	catalogPath := mustFlag(cmd, "catalog")
	literature, _ := cmd.Flags().GetString("literature")
	outDir := mustFlag(cmd, "out")

	conf := config.New()
	applyDBFlag(cmd, conf)

	result, err := RunPipeline(context.Background(), genome, catalogPath, literature, conf)
	if err != nil {
		stderr.Fatal(err)
	}

	outputs := map[string]interface{}{
		"genes.json":      result.Matches,
		"candidates.json": result.Candidates,
		"screen.json":     NewScreenOutput(result.Screens, conf),
		"ranked.json":     result.Ranked,
	}
	for name, v := range outputs {
		if err := WriteJSON(filepath.Join(outDir, name), v); err != nil {
			stderr.Fatalf("failed to write %s: %v", name, err)
		}
	}

	printScreenSummary(result.Screens)
	printRankSummary(result.Ranked, result.Unresolved)
}

// applyDBFlag overrides the configured databases from a
// "name=path,name=path" CLI flag when one was passed.
func applyDBFlag(cmd *cobra.Command, conf *config.Config) {
	flag, _ := cmd.Flags().GetString("dbs")
	if flag == "" {
		return
	}

	dbs, err := parseDatabases(flag)
	if err != nil {
		stderr.Fatal(err)
	}
	conf.Screen.Databases = dbs
}

// parseDatabases parses "human_cds=/path/human_cds,honeybee_cds=/path/honeybee_cds".
func parseDatabases(flag string) ([]config.Database, error) {
	var dbs []config.Database
	for _, entry := range strings.Split(flag, ",") {
		name, path, found := strings.Cut(strings.TrimSpace(entry), "=")
		if !found || name == "" || path == "" {
			return nil, fmt.Errorf("failed to parse database %q, expected name=path", entry)
		}
		dbs = append(dbs, config.Database{Name: name, Path: path})
	}
	return dbs, nil
}

func mustFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil || v == "" {
		stderr.Fatalf("failed without a --%s argument", name)
	}
	return v
}

func printScreenSummary(results []ScreenResult) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 3, ' ', 0)
	fmt.Fprintf(tw, "candidate\tmax match\tstatus\t\n")
	for _, r := range results {
		if r.Undetermined() {
			fmt.Fprintf(tw, "%s\t-\t%s\t\n", r.CandidateID, r.Status)
		} else {
			fmt.Fprintf(tw, "%s\t%d\t%s\t\n", r.CandidateID, r.MaxMatch, r.Status)
		}
	}
	tw.Flush()
}

func printRankSummary(ranked []RankedCandidate, unresolved []string) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 3, ' ', 0)
	fmt.Fprintf(tw, "rank\tcandidate\tefficacy\tsafety\tcombined\tstatus\t\n")
	for i, r := range ranked {
		fmt.Fprintf(tw, "%d\t%s\t%.3f\t%.3f\t%.3f\t%s\t\n", i+1, r.ID, r.EfficacyScore, r.SafetyScore, r.CombinedScore, r.SafetyStatus)
	}
	tw.Flush()

	if len(unresolved) > 0 {
		stderr.Printf("warning: screening unresolved for %s; excluded from ranking\n", strings.Join(unresolved, ", "))
	}
}

package dsrna

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalyzeAI/dsrna-designer/config"
)

func pipelineTestConfig(dbs ...config.Database) *config.Config {
	return &config.Config{
		Match:  config.MatchConfig{MaxMatches: 20},
		Design: config.DesignConfig{Length: 300, Step: 50, Candidates: 3, TopGenes: 5},
		Screen: config.ScreenConfig{
			Blastn:         fakeBlastn,
			WordSize:       7,
			EValue:         10,
			MaxTargetSeqs:  100,
			TimeoutSeconds: 10,
			Workers:        2,
			Databases:      dbs,
		},
		Rank: config.RankConfig{DefaultGeneScore: 0.5},
	}
}

func writePipelineInputs(t *testing.T) (genomePath, catalogPath string) {
	t.Helper()
	dir := t.TempDir()

	genomePath = filepath.Join(dir, "genome.fa")
	genome := ">gene1 vATPase pump\n" + strings.Repeat("ACTGA", 80) + "\n"
	require.NoError(t, os.WriteFile(genomePath, []byte(genome), 0644))

	catalogPath = filepath.Join(dir, "catalog.json")
	catalog := `{"genes": [
		{"name": "vATPase", "aliases": [], "function": "proton pump",
		 "essential_in": ["T. castaneum", "L. decemlineata"], "references": ["PMID:1"]}
	]}`
	require.NoError(t, os.WriteFile(catalogPath, []byte(catalog), 0644))

	return genomePath, catalogPath
}

func TestRunPipeline(t *testing.T) {
	genomePath, catalogPath := writePipelineInputs(t)
	conf := pipelineTestConfig(humanDB, honeybeeDB)

	result, err := RunPipeline(context.Background(), genomePath, catalogPath, "", conf)
	require.NoError(t, err)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "vATPase", result.Matches[0].GeneName)
	assert.Equal(t, "gene1", result.Matches[0].GeneID)
	assert.Equal(t, 0.6, result.Matches[0].Score)

	// a 400bp gene fits only one non-overlapping 300bp window
	require.Len(t, result.Candidates, 1)
	c := result.Candidates[0]
	assert.Equal(t, "vATPase_1", c.ID)
	assert.Equal(t, 0, c.Start)
	assert.Equal(t, 300, c.End)
	assert.Equal(t, 4, c.DesignScore)
	assert.InDelta(t, 0.4, c.GCContent, 1e-9)

	require.Len(t, result.Screens, 1)
	assert.Equal(t, 17, result.Screens[0].MaxMatch)
	assert.Equal(t, StatusCaution, result.Screens[0].Status)

	require.Len(t, result.Ranked, 1)
	r := result.Ranked[0]
	assert.Equal(t, "vATPase_1", r.ID)
	assert.Equal(t, 0.84, r.EfficacyScore)
	assert.Equal(t, 0.7, r.SafetyScore)
	assert.Equal(t, 0.588, r.CombinedScore)
	assert.Equal(t, StatusCaution, r.SafetyStatus)

	assert.Empty(t, result.Unresolved)
}

func TestRunPipeline_literatureBonus(t *testing.T) {
	genomePath, catalogPath := writePipelineInputs(t)

	litPath := filepath.Join(t.TempDir(), "papers.json")
	lit := `{"papers": [{"gene_names": ["vATPase"]}]}`
	require.NoError(t, os.WriteFile(litPath, []byte(lit), 0644))

	conf := pipelineTestConfig(honeybeeDB)
	result, err := RunPipeline(context.Background(), genomePath, catalogPath, litPath, conf)
	require.NoError(t, err)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, 0.9, result.Matches[0].Score)
	assert.True(t, result.Matches[0].Evidence.LiteratureSupport)
}

func TestRunPipeline_unresolvedExcludedFromRanking(t *testing.T) {
	genomePath, catalogPath := writePipelineInputs(t)
	conf := pipelineTestConfig(failDB)

	result, err := RunPipeline(context.Background(), genomePath, catalogPath, "", conf)
	require.NoError(t, err)

	require.Len(t, result.Screens, 1)
	assert.True(t, result.Screens[0].Undetermined())
	assert.Empty(t, result.Ranked)
	assert.Equal(t, []string{"vATPase_1"}, result.Unresolved)
}

func TestRunPipeline_noMatches(t *testing.T) {
	dir := t.TempDir()

	genomePath := filepath.Join(dir, "genome.fa")
	require.NoError(t, os.WriteFile(genomePath, []byte(">gene1 unrelated annotation\nACGTACGT\n"), 0644))

	catalogPath := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`{"genes": [{"name": "vATPase"}]}`), 0644))

	result, err := RunPipeline(context.Background(), genomePath, catalogPath, "", pipelineTestConfig(humanDB))
	require.NoError(t, err)

	assert.Empty(t, result.Matches)
	assert.Empty(t, result.Candidates)
	assert.Empty(t, result.Ranked)
	assert.Empty(t, result.Unresolved)
}

func Test_topGenes(t *testing.T) {
	matches := []GeneMatch{
		{GeneName: "vATPase", GeneID: "cds1", Score: 0.9},
		{GeneName: "vATPase", GeneID: "cds2", Score: 0.9},
		{GeneName: "Snf7", GeneID: "cds3", Score: 0.6},
		{GeneName: "chitin synthase", GeneID: "cds4", Score: 0.5},
	}

	top := topGenes(matches, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "cds1", top[0].GeneID)
	assert.Equal(t, "Snf7", top[1].GeneName)
}

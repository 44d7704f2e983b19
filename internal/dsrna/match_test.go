package dsrna

import (
	"testing"

	"github.com/katalyzeAI/dsrna-designer/config"
)

func matchTestConfig(maxMatches int) *config.Config {
	return &config.Config{Match: config.MatchConfig{MaxMatches: maxMatches}}
}

func Test_MatchGenes_scoring(t *testing.T) {
	seqs := []Sequence{
		{ID: "cds1", Description: "cds1 vATPase subunit A", Seq: "ACGT", Length: 4},
	}

	tests := []struct {
		name string
		gene ReferenceGene
		lit  *Literature
		want float64
	}{
		{
			"ortholog match alone",
			ReferenceGene{Name: "vATPase"},
			nil,
			0.5,
		},
		{
			"literature support adds its bonus",
			ReferenceGene{Name: "vATPase"},
			&Literature{Papers: []Paper{{GeneNames: []string{"vATPase"}}}},
			0.8,
		},
		{
			"two essential species",
			ReferenceGene{Name: "vATPase", EssentialIn: []string{"a", "b"}},
			nil,
			0.6,
		},
		{
			"species bonus caps so the total never exceeds 1.0",
			ReferenceGene{Name: "vATPase", EssentialIn: []string{"a", "b", "c", "d", "e", "f"}},
			&Literature{Papers: []Paper{{GeneNames: []string{"vATPase"}}}},
			1.0,
		},
		{
			"empty literature search is not support",
			ReferenceGene{Name: "vATPase"},
			&Literature{},
			0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &Catalog{Genes: []ReferenceGene{tt.gene}}
			matches := MatchGenes(seqs, catalog, tt.lit, matchTestConfig(20))

			if len(matches) != 1 {
				t.Fatalf("MatchGenes() = %d matches, want 1", len(matches))
			}
			if matches[0].Score != tt.want {
				t.Errorf("score = %f, want %f", matches[0].Score, tt.want)
			}
		})
	}
}

func Test_MatchGenes_aliases(t *testing.T) {
	catalog := &Catalog{Genes: []ReferenceGene{
		{Name: "vATPase", Aliases: []string{"V-ATPase"}},
	}}

	tests := []struct {
		name        string
		description string
		wantMatch   bool
	}{
		{"canonical name", "cds1 vATPase subunit A", true},
		{"case-insensitive", "cds1 VATPASE SUBUNIT A", true},
		{"hyphenated alias against unhyphenated annotation", "cds1 v atpase pump", true},
		{"unrelated annotation", "cds1 chitin synthase", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seqs := []Sequence{{ID: "cds1", Description: tt.description, Seq: "ACGT", Length: 4}}
			matches := MatchGenes(seqs, catalog, nil, matchTestConfig(20))

			if (len(matches) == 1) != tt.wantMatch {
				t.Errorf("MatchGenes(%q) = %d matches, want match %v", tt.description, len(matches), tt.wantMatch)
			}
		})
	}
}

func Test_MatchGenes_ordering(t *testing.T) {
	// one sequence annotated with both genes, one with only the second
	seqs := []Sequence{
		{ID: "cds1", Description: "cds1 vATPase and Snf7 fusion annotation", Seq: "ACGT", Length: 4},
		{ID: "cds2", Description: "cds2 Snf7 homolog", Seq: "ACGT", Length: 4},
	}
	catalog := &Catalog{Genes: []ReferenceGene{
		{Name: "vATPase", EssentialIn: []string{"a"}},
		{Name: "Snf7"},
	}}

	matches := MatchGenes(seqs, catalog, nil, matchTestConfig(20))

	if len(matches) != 3 {
		t.Fatalf("MatchGenes() = %d matches, want 3 (pairs are not deduplicated)", len(matches))
	}

	// vATPase scores 0.55; the Snf7 tie breaks on genome record order
	wantOrder := []struct {
		geneName string
		geneID   string
	}{
		{"vATPase", "cds1"},
		{"Snf7", "cds1"},
		{"Snf7", "cds2"},
	}
	for i, want := range wantOrder {
		if matches[i].GeneName != want.geneName || matches[i].GeneID != want.geneID {
			t.Errorf("matches[%d] = (%s, %s), want (%s, %s)",
				i, matches[i].GeneName, matches[i].GeneID, want.geneName, want.geneID)
		}
	}
}

func Test_MatchGenes_maxMatches(t *testing.T) {
	seqs := []Sequence{
		{ID: "cds1", Description: "cds1 vATPase", Seq: "ACGT", Length: 4},
		{ID: "cds2", Description: "cds2 vATPase", Seq: "ACGT", Length: 4},
		{ID: "cds3", Description: "cds3 vATPase", Seq: "ACGT", Length: 4},
	}
	catalog := &Catalog{Genes: []ReferenceGene{{Name: "vATPase"}}}

	matches := MatchGenes(seqs, catalog, nil, matchTestConfig(2))

	if len(matches) != 2 {
		t.Fatalf("MatchGenes() = %d matches, want the configured cap of 2", len(matches))
	}
	if matches[0].GeneID != "cds1" || matches[1].GeneID != "cds2" {
		t.Errorf("truncation kept (%s, %s), want the first two records", matches[0].GeneID, matches[1].GeneID)
	}
}

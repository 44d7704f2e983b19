package dsrna

import (
	"sort"
	"strings"

	"github.com/katalyzeAI/dsrna-designer/config"
)

// Match scoring. The base is awarded for any ortholog/annotation match;
// literature support and essentiality breadth add bonuses on top. The
// species bonus is capped so breadth can never outweigh literature.
const (
	orthologBaseScore = 0.5
	literatureBonus   = 0.3
	speciesBonus      = 0.05
	speciesBonusCap   = 0.2
)

// Evidence records why a gene was matched.
type Evidence struct {
	OrthologMatch      bool     `json:"ortholog_match"`
	LiteratureSupport  bool     `json:"literature_support"`
	EssentialInSpecies []string `json:"essential_in_species"`
	References         []string `json:"references"`
}

// GeneMatch is a scored (catalog gene, genome sequence) pair.
type GeneMatch struct {
	// GeneID is the matched genome sequence's id
	GeneID string `json:"gene_id"`

	// GeneName is the catalog gene's canonical name
	GeneName string `json:"gene_name"`

	// Function of the catalog gene
	Function string `json:"function"`

	// Score in [0, 1], rounded to 3 decimal places
	Score float64 `json:"score"`

	// Evidence behind the score
	Evidence Evidence `json:"evidence"`

	// Sequence is the matched CDS nucleotide sequence
	Sequence string `json:"sequence"`

	// SequenceLength of Sequence
	SequenceLength int `json:"sequence_length"`
}

// MatchGenes finds every catalog gene whose name or aliases appear in a
// genome sequence's description, scores each pair, and returns the top
// matches sorted by score.
//
// A sequence annotated with two catalog genes yields two matches; pairs
// are not deduplicated by sequence id. Ordering is deterministic: score
// descending, then catalog order, then genome record order. lit is
// optional; nil means no literature search was run and the literature
// bonus is simply never applied.
func MatchGenes(seqs []Sequence, catalog *Catalog, lit *Literature, conf *config.Config) []GeneMatch {
	var litGenes map[string]bool
	if lit != nil {
		litGenes = lit.mentions()
	}

	type indexedMatch struct {
		GeneMatch
		catalogIndex int
		seqIndex     int
	}

	var matches []indexedMatch
	for gi, gene := range catalog.Genes {
		names := append([]string{gene.Name}, gene.Aliases...)

		for si, seq := range seqs {
			if !matchesDescription(names, seq.Description) {
				continue
			}

			litSupport := false
			if litGenes != nil {
				for _, name := range names {
					if litGenes[strings.ToLower(name)] {
						litSupport = true
						break
					}
				}
			}

			score := orthologBaseScore
			if litSupport {
				score += literatureBonus
			}
			score += min(speciesBonusCap, speciesBonus*float64(len(gene.EssentialIn)))

			matches = append(matches, indexedMatch{
				GeneMatch: GeneMatch{
					GeneID:   seq.ID,
					GeneName: gene.Name,
					Function: gene.Function,
					Score:    round3(score),
					Evidence: Evidence{
						OrthologMatch:      true,
						LiteratureSupport:  litSupport,
						EssentialInSpecies: gene.EssentialIn,
						References:         gene.References,
					},
					Sequence:       seq.Seq,
					SequenceLength: seq.Length,
				},
				catalogIndex: gi,
				seqIndex:     si,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].catalogIndex != matches[j].catalogIndex {
			return matches[i].catalogIndex < matches[j].catalogIndex
		}
		return matches[i].seqIndex < matches[j].seqIndex
	})

	if len(matches) > conf.Match.MaxMatches {
		matches = matches[:conf.Match.MaxMatches]
	}

	result := make([]GeneMatch, len(matches))
	for i, m := range matches {
		result[i] = m.GeneMatch
	}
	return result
}

// matchesDescription reports whether any of the names appears in the
// description, case-insensitively. A second pass strips hyphens and
// spaces from both sides so "V-ATPase" matches "VATPase" annotations.
func matchesDescription(names []string, description string) bool {
	desc := strings.ToLower(description)
	descStripped := stripSeparators(desc)

	for _, name := range names {
		n := strings.ToLower(name)
		if n == "" {
			continue
		}
		if strings.Contains(desc, n) {
			return true
		}
		if strings.Contains(descStripped, stripSeparators(n)) {
			return true
		}
	}
	return false
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', ' ', '\t':
			return -1
		}
		return r
	}, s)
}

package dsrna

import (
	"context"

	"github.com/katalyzeAI/dsrna-designer/config"
)

// PipelineResult holds every stage's output for one end-to-end run.
type PipelineResult struct {
	// Matches from gene matching, score-ordered
	Matches []GeneMatch

	// Candidates designed over the top genes
	Candidates []Candidate

	// Screens per candidate, in candidate order
	Screens []ScreenResult

	// Ranked candidates with resolved screens, in final order
	Ranked []RankedCandidate

	// Unresolved candidate ids whose screening timed out or failed;
	// reported explicitly, never folded into Ranked
	Unresolved []string
}

// RunPipeline runs the whole design pipeline: parse the genome CDS set,
// match the essential-gene catalog (literature optional, pass "" to
// skip), design candidates over the top genes, screen them off-target,
// and rank what screening resolved.
//
// Candidates whose screening came back undetermined are excluded from
// ranking and listed in Unresolved; zero matches or zero candidates
// are valid empty results, not errors.
func RunPipeline(ctx context.Context, genomePath, catalogPath, literaturePath string, conf *config.Config) (*PipelineResult, error) {
	seqs, err := ReadFasta(genomePath)
	if err != nil {
		return nil, err
	}

	catalog, err := ReadCatalog(catalogPath)
	if err != nil {
		return nil, err
	}

	var lit *Literature
	if literaturePath != "" {
		if lit, err = ReadLiterature(literaturePath); err != nil {
			return nil, err
		}
	}

	matches := MatchGenes(seqs, catalog, lit, conf)

	result := &PipelineResult{Matches: matches}
	for _, m := range topGenes(matches, conf.Design.TopGenes) {
		result.Candidates = append(result.Candidates, DesignCandidates(m.Sequence, m.GeneName, m.GeneID, conf)...)
	}

	if len(result.Candidates) == 0 {
		result.Ranked = []RankedCandidate{}
		return result, nil
	}

	result.Screens, err = ScreenCandidates(ctx, result.Candidates, conf)
	if err != nil {
		return nil, err
	}

	resolvedCandidates, resolvedScreens := splitUnresolved(result)

	result.Ranked, err = RankCandidates(resolvedCandidates, resolvedScreens, matches, conf)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// topGenes picks the first n distinct genes from the score-ordered
// match list. Candidate ids are keyed by gene name, so a gene matched
// against several sequences is designed once, from its best match.
func topGenes(matches []GeneMatch, n int) []GeneMatch {
	var top []GeneMatch
	seen := make(map[string]bool)

	for _, m := range matches {
		if len(top) >= n {
			break
		}
		if seen[m.GeneName] {
			continue
		}
		seen[m.GeneName] = true
		top = append(top, m)
	}
	return top
}

// splitUnresolved partitions candidates with undetermined screens into
// result.Unresolved and returns the resolved remainder for ranking.
func splitUnresolved(result *PipelineResult) ([]Candidate, []ScreenResult) {
	unresolved := make(map[string]bool)
	var screens []ScreenResult
	for _, s := range result.Screens {
		if s.Undetermined() {
			unresolved[s.CandidateID] = true
			result.Unresolved = append(result.Unresolved, s.CandidateID)
		} else {
			screens = append(screens, s)
		}
	}

	var candidates []Candidate
	for _, c := range result.Candidates {
		if !unresolved[c.ID] {
			candidates = append(candidates, c)
		}
	}
	return candidates, screens
}

package dsrna

import (
	"math"
	"sort"

	"github.com/katalyzeAI/dsrna-designer/config"
)

// Efficacy component weights. GC fit and gene essentiality dominate;
// the design-score term carries the positional criteria.
const (
	gcWeight       = 0.3
	polyNWeight    = 0.2
	positionWeight = 0.2
	geneWeight     = 0.3
)

// Safety scores per classification.
const (
	safeScore    = 1.0
	cautionScore = 0.7
	rejectScore  = 0.0
)

// RankedCandidate is a Candidate merged with its screening result and
// final scores.
type RankedCandidate struct {
	Candidate

	// EfficacyScore in [0, 1], rounded to 3 decimal places
	EfficacyScore float64

	// SafetyScore from the safety classification
	SafetyScore float64

	// CombinedScore = efficacy * safety, rounded to 3 decimal places
	CombinedScore float64

	// Matches per database, carried over from screening
	Matches []DatabaseMatch

	// SafetyStatus carried over from screening
	SafetyStatus SafetyStatus
}

// RankCandidates merges candidates with their screening results and
// gene matches and returns them in final ranked order: combined score
// descending, efficacy descending, then candidate id ascending for
// full determinism.
//
// Every candidate must have a screening result: a missing one is an
// upstream pipeline bug surfaced as UnmatchedCandidateError, and an
// unresolved (timed out) one is refused with UndeterminedScreenError
// rather than scored. A candidate whose gene has no match record falls
// back to conf.Rank.DefaultGeneScore.
func RankCandidates(candidates []Candidate, screens []ScreenResult, matches []GeneMatch, conf *config.Config) ([]RankedCandidate, error) {
	screenByID := make(map[string]ScreenResult, len(screens))
	for _, s := range screens {
		screenByID[s.CandidateID] = s
	}

	// matches are score-sorted; the first record per gene wins
	geneScores := make(map[string]float64, len(matches))
	for _, m := range matches {
		if _, ok := geneScores[m.GeneName]; !ok {
			geneScores[m.GeneName] = m.Score
		}
	}

	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		screen, ok := screenByID[c.ID]
		if !ok {
			return nil, &UnmatchedCandidateError{CandidateID: c.ID}
		}
		if screen.Undetermined() {
			return nil, &UndeterminedScreenError{CandidateID: c.ID}
		}

		gcScore := gcBandScore(c.GCContent)

		polyNScore := 1.0
		if c.HasPolyN {
			polyNScore = 0.0
		}

		positionScore := min(float64(c.DesignScore)/5.0, 1.0)

		geneScore, ok := geneScores[c.GeneName]
		if !ok {
			geneScore = conf.Rank.DefaultGeneScore
		}

		efficacy := gcWeight*gcScore +
			polyNWeight*polyNScore +
			positionWeight*positionScore +
			geneWeight*geneScore

		safety := safetyScore(screen.Status)

		ranked = append(ranked, RankedCandidate{
			Candidate:     c,
			EfficacyScore: round3(efficacy),
			SafetyScore:   round3(safety),
			CombinedScore: round3(efficacy * safety),
			Matches:       screen.Matches,
			SafetyStatus:  screen.Status,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].CombinedScore != ranked[j].CombinedScore {
			return ranked[i].CombinedScore > ranked[j].CombinedScore
		}
		if ranked[i].EfficacyScore != ranked[j].EfficacyScore {
			return ranked[i].EfficacyScore > ranked[j].EfficacyScore
		}
		return ranked[i].ID < ranked[j].ID
	})

	return ranked, nil
}

// gcBandScore grades GC content on the same bands as window design.
func gcBandScore(gc float64) float64 {
	switch {
	case gc >= gcOptimalMin && gc <= gcOptimalMax:
		return 1.0
	case gc >= gcViableMin && gc <= gcViableMax:
		return 0.7
	default:
		return 0.3
	}
}

// safetyScore maps a concrete classification to its score. Callers
// must reject StatusUndetermined before scoring.
func safetyScore(status SafetyStatus) float64 {
	switch status {
	case StatusSafe:
		return safeScore
	case StatusCaution:
		return cautionScore
	default:
		return rejectScore
	}
}

// round3 rounds to 3 decimal places for reproducible scores.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

package dsrna

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalyzeAI/dsrna-designer/config"
)

func rankTestConfig() *config.Config {
	return &config.Config{Rank: config.RankConfig{DefaultGeneScore: 0.5}}
}

func safeScreen(candidateID string) ScreenResult {
	return ScreenResult{
		CandidateID: candidateID,
		Matches:     []DatabaseMatch{{Database: "human_cds", MaxMatch: 10}},
		MaxMatch:    10,
		Status:      StatusSafe,
	}
}

func TestRankCandidates_scores(t *testing.T) {
	candidates := []Candidate{{
		ID:          "vATPase_1",
		GeneName:    "vATPase",
		GCContent:   0.4,
		HasPolyN:    false,
		DesignScore: 5,
	}}
	matches := []GeneMatch{{GeneName: "vATPase", Score: 0.6}}

	screens := []ScreenResult{{
		CandidateID: "vATPase_1",
		Matches:     []DatabaseMatch{{Database: "human_cds", MaxMatch: 17}},
		MaxMatch:    17,
		Status:      StatusCaution,
	}}

	ranked, err := RankCandidates(candidates, screens, matches, rankTestConfig())
	require.NoError(t, err)
	require.Len(t, ranked, 1)

	// 0.3*1.0 + 0.2*1.0 + 0.2*1.0 + 0.3*0.6
	assert.Equal(t, 0.88, ranked[0].EfficacyScore)
	assert.Equal(t, 0.7, ranked[0].SafetyScore)
	assert.Equal(t, 0.616, ranked[0].CombinedScore)
	assert.Equal(t, StatusCaution, ranked[0].SafetyStatus)
	assert.Equal(t, screens[0].Matches, ranked[0].Matches)
}

func TestRankCandidates_combinedIsProduct(t *testing.T) {
	// efficacy lands on exactly 0.8 (homopolymer zeroes its term) and
	// the caution multiplier takes the product to 0.56
	candidates := []Candidate{{
		ID:          "Snf7_1",
		GeneName:    "Snf7",
		GCContent:   0.45,
		HasPolyN:    true,
		DesignScore: 5,
	}}
	matches := []GeneMatch{{GeneName: "Snf7", Score: 1.0}}
	screens := []ScreenResult{{CandidateID: "Snf7_1", MaxMatch: 16, Status: StatusCaution}}

	ranked, err := RankCandidates(candidates, screens, matches, rankTestConfig())
	require.NoError(t, err)

	assert.Equal(t, 0.8, ranked[0].EfficacyScore)
	assert.Equal(t, 0.56, ranked[0].CombinedScore)
}

func TestRankCandidates_defaultGeneScore(t *testing.T) {
	candidates := []Candidate{{
		ID:          "orphan_1",
		GeneName:    "orphan",
		GCContent:   0.4,
		DesignScore: 5,
	}}
	screens := []ScreenResult{{CandidateID: "orphan_1", Status: StatusSafe}}

	ranked, err := RankCandidates(candidates, screens, nil, rankTestConfig())
	require.NoError(t, err)

	// 0.3 + 0.2 + 0.2 + 0.3*0.5
	assert.Equal(t, 0.85, ranked[0].EfficacyScore)
	assert.Equal(t, 0.85, ranked[0].CombinedScore)
}

func TestRankCandidates_firstMatchPerGeneWins(t *testing.T) {
	candidates := []Candidate{{
		ID:          "vATPase_1",
		GeneName:    "vATPase",
		GCContent:   0.4,
		DesignScore: 5,
	}}
	// score-sorted matches: the 0.8 record is the gene's score
	matches := []GeneMatch{
		{GeneName: "vATPase", Score: 0.8},
		{GeneName: "vATPase", Score: 0.5},
	}
	screens := []ScreenResult{{CandidateID: "vATPase_1", Status: StatusSafe}}

	ranked, err := RankCandidates(candidates, screens, matches, rankTestConfig())
	require.NoError(t, err)

	// 0.3 + 0.2 + 0.2 + 0.3*0.8
	assert.Equal(t, 0.94, ranked[0].EfficacyScore)
}

func TestRankCandidates_ordering(t *testing.T) {
	base := Candidate{GeneName: "vATPase", GCContent: 0.4, DesignScore: 5}

	rejected := base
	rejected.ID = "vATPase_1"

	cautioned := base
	cautioned.ID = "vATPase_2"

	safeB := base
	safeB.ID = "vATPase_4"

	safeA := base
	safeA.ID = "vATPase_3"

	screens := []ScreenResult{
		{CandidateID: "vATPase_1", MaxMatch: 21, Status: StatusReject},
		{CandidateID: "vATPase_2", MaxMatch: 16, Status: StatusCaution},
		{CandidateID: "vATPase_4", MaxMatch: 3, Status: StatusSafe},
		{CandidateID: "vATPase_3", MaxMatch: 3, Status: StatusSafe},
	}

	ranked, err := RankCandidates(
		[]Candidate{rejected, cautioned, safeB, safeA}, screens, nil, rankTestConfig())
	require.NoError(t, err)
	require.Len(t, ranked, 4)

	// combined descending, with the safe tie broken by candidate id
	assert.Equal(t, "vATPase_3", ranked[0].ID)
	assert.Equal(t, "vATPase_4", ranked[1].ID)
	assert.Equal(t, "vATPase_2", ranked[2].ID)
	assert.Equal(t, "vATPase_1", ranked[3].ID)
	assert.Equal(t, 0.0, ranked[3].CombinedScore)
}

func TestRankCandidates_missingScreen(t *testing.T) {
	candidates := []Candidate{{ID: "vATPase_1", GeneName: "vATPase"}}

	_, err := RankCandidates(candidates, nil, nil, rankTestConfig())

	var unmatched *UnmatchedCandidateError
	require.ErrorAs(t, err, &unmatched)
	assert.Equal(t, "vATPase_1", unmatched.CandidateID)
}

func TestRankCandidates_undeterminedScreen(t *testing.T) {
	candidates := []Candidate{{ID: "vATPase_1", GeneName: "vATPase"}}
	screens := []ScreenResult{{
		CandidateID: "vATPase_1",
		MaxMatch:    MatchUndetermined,
		Status:      StatusUndetermined,
	}}

	_, err := RankCandidates(candidates, screens, nil, rankTestConfig())

	var undetermined *UndeterminedScreenError
	require.ErrorAs(t, err, &undetermined)
	assert.Equal(t, "vATPase_1", undetermined.CandidateID)
}

func TestGCBandScore(t *testing.T) {
	tests := []struct {
		gc   float64
		want float64
	}{
		{0.35, 1.0},
		{0.50, 1.0},
		{0.30, 0.7},
		{0.55, 0.7},
		{0.29, 0.3},
		{0.80, 0.3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gcBandScore(tt.gc), "gcBandScore(%v)", tt.gc)
	}
}

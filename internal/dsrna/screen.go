package dsrna

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/katalyzeAI/dsrna-designer/config"
)

// SafetyStatus is the EPA-style off-target classification of a
// candidate.
type SafetyStatus string

const (
	// StatusSafe is a worst-case match below the caution threshold
	StatusSafe SafetyStatus = "safe"

	// StatusCaution is a 15-18 bp worst-case match
	StatusCaution SafetyStatus = "caution"

	// StatusReject is a 19+ bp worst-case match
	StatusReject SafetyStatus = "reject"

	// StatusUndetermined is a screen that timed out or failed; never
	// reported as any of the three concrete classifications
	StatusUndetermined SafetyStatus = "undetermined"
)

// Classification thresholds on the worst-case contiguous match length,
// in bp. 19 is the EPA 19-bp shared-sequence trigger.
const (
	cautionMinMatch = 15
	rejectMinMatch  = 19
)

// Classify maps a worst-case match length to a safety status.
func Classify(maxMatch int) SafetyStatus {
	switch {
	case maxMatch < 0:
		return StatusUndetermined
	case maxMatch >= rejectMinMatch:
		return StatusReject
	case maxMatch >= cautionMinMatch:
		return StatusCaution
	default:
		return StatusSafe
	}
}

// DatabaseMatch is the longest contiguous alignment of a candidate
// against one reference database.
type DatabaseMatch struct {
	// Database name from configuration, eg "human_cds"
	Database string

	// MaxMatch in bp; 0 for no hits, MatchUndetermined on failure
	MaxMatch int
}

// ScreenResult is the off-target screening outcome for one candidate.
type ScreenResult struct {
	// CandidateID of the screened candidate
	CandidateID string

	// Matches per database, in configured database order
	Matches []DatabaseMatch

	// MaxMatch is the worst case across databases, or
	// MatchUndetermined if any database screen was unresolved
	MaxMatch int

	// Status derived from MaxMatch
	Status SafetyStatus
}

// Undetermined is whether this result carries the failure sentinel.
func (r *ScreenResult) Undetermined() bool {
	return r.MaxMatch == MatchUndetermined
}

// ScreenCandidates screens every candidate against every configured
// database and classifies each candidate's worst-case match.
//
// Dependencies are checked up front so a missing binary or database
// fails before the first candidate, not after the last. Candidates are
// screened concurrently by a bounded worker pool; each candidate's
// databases run sequentially. Results keep input order. A timeout or
// aligner failure on one database yields the sentinel for that
// candidate without aborting the rest of the batch; cancelling ctx
// kills in-flight blastn processes and returns the cancellation.
func ScreenCandidates(ctx context.Context, candidates []Candidate, conf *config.Config) ([]ScreenResult, error) {
	if err := checkScreeningDeps(conf); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "dsrna-blastn")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	results := make([]ScreenResult, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(conf.Screen.Workers)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			r, err := screenOne(ctx, c, dir, conf)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// screenOne screens a single candidate against each database in order.
func screenOne(ctx context.Context, c Candidate, dir string, conf *config.Config) (ScreenResult, error) {
	matches := make([]DatabaseMatch, 0, len(conf.Screen.Databases))
	maxMatch := 0
	undetermined := false

	for _, db := range conf.Screen.Databases {
		b := &blastExec{
			name:          c.ID,
			seq:           c.Seq,
			db:            db,
			blastn:        conf.Screen.Blastn,
			dir:           dir,
			wordSize:      conf.Screen.WordSize,
			evalue:        conf.Screen.EValue,
			maxTargetSeqs: conf.Screen.MaxTargetSeqs,
			timeout:       conf.Screen.Timeout(),
		}

		length, err := b.search(ctx)
		if err != nil {
			return ScreenResult{}, err
		}

		matches = append(matches, DatabaseMatch{Database: db.Name, MaxMatch: length})
		if length == MatchUndetermined {
			undetermined = true
		} else if length > maxMatch {
			maxMatch = length
		}
	}

	if undetermined {
		maxMatch = MatchUndetermined
	}

	return ScreenResult{
		CandidateID: c.ID,
		Matches:     matches,
		MaxMatch:    maxMatch,
		Status:      Classify(maxMatch),
	}, nil
}

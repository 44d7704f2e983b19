package dsrna

import (
	"fmt"
	"io"
	"sort"

	"github.com/bebop/poly/transform"

	"github.com/katalyzeAI/dsrna-designer/config"
)

// Window scoring. GC bands are checked in priority order: a window in
// the optimal band takes 2 points, a window only in the viable band
// takes 1, never both. The position points avoid the volatile 5' and
// 3' ends of the CDS.
const (
	gcOptimalMin = 0.35
	gcOptimalMax = 0.50
	gcViableMin  = 0.30
	gcViableMax  = 0.55

	polyRunLength    = 4
	fivePrimeMargin  = 75
	threePrimeMargin = 50
)

// Candidate is a single dsRNA design against one gene. Start/end,
// sequence and design score are fixed at design time; efficacy and
// safety are attached by later stages without mutating these.
type Candidate struct {
	// ID is "{gene name}_{1-based rank}" in selection order
	ID string `json:"id"`

	// GeneName of the originating gene
	GeneName string `json:"gene_name"`

	// GeneID is the originating genome sequence's id
	GeneID string `json:"gene_id"`

	// Seq is the candidate's sense-strand sequence
	Seq string `json:"sequence"`

	// Start offset within the gene (0-indexed)
	Start int `json:"start"`

	// End offset within the gene (0-indexed, exclusive)
	End int `json:"end"`

	// Length of the candidate
	Length int `json:"length"`

	// GCContent in [0, 1], rounded to 3 decimal places
	GCContent float64 `json:"gc_content"`

	// HasPolyN is whether the window holds a run of 4+ identical bases
	HasPolyN bool `json:"has_poly_n"`

	// DesignScore is the window score, an integer in [0, 5]
	DesignScore int `json:"design_score"`
}

// Antisense is the reverse complement of the sense strand: the second
// strand of the synthesized dsRNA duplex.
func (c *Candidate) Antisense() string {
	return transform.ReverseComplement(c.Seq)
}

// window is a scored design window before selection.
type window struct {
	start, end int
	gc         float64
	polyN      bool
	score      int
}

// DesignCandidates slides fixed-length windows across a gene's
// sequence at a fixed stride, scores each, and greedily selects up to
// conf.Design.Candidates non-overlapping windows by score.
//
// The stride trades exhaustiveness for speed and for spacing diversity
// between candidate starts. Selection order is exact: windows sort by
// score descending with the earlier start winning ties, and a window
// overlapping any already-selected window is skipped. A gene shorter
// than the window length yields an empty list, not an error.
func DesignCandidates(seq, geneName, geneID string, conf *config.Config) []Candidate {
	length := conf.Design.Length
	step := conf.Design.Step

	if len(seq) < length {
		return []Candidate{}
	}

	var windows []window
	for start := 0; start+length <= len(seq); start += step {
		windows = append(windows, scoreWindow(seq, start, start+length))
	}

	// stable: scan order (earlier start) breaks score ties
	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].score > windows[j].score
	})

	candidates := []Candidate{}
	var selected []window
	for _, w := range windows {
		if len(candidates) >= conf.Design.Candidates {
			break
		}
		if overlapsAny(w, selected) {
			continue
		}

		selected = append(selected, w)
		candidates = append(candidates, Candidate{
			ID:          fmt.Sprintf("%s_%d", geneName, len(candidates)+1),
			GeneName:    geneName,
			GeneID:      geneID,
			Seq:         seq[w.start:w.end],
			Start:       w.start,
			End:         w.end,
			Length:      length,
			GCContent:   round3(w.gc),
			HasPolyN:    w.polyN,
			DesignScore: w.score,
		})
	}

	return candidates
}

// scoreWindow scores one design window, 0 through 5.
func scoreWindow(seq string, start, end int) window {
	windowSeq := seq[start:end]
	gc := gcContent(windowSeq)
	polyN := hasPolyRun(windowSeq, polyRunLength)

	score := 0
	if gc >= gcOptimalMin && gc <= gcOptimalMax {
		score += 2
	} else if gc >= gcViableMin && gc <= gcViableMax {
		score++
	}
	if !polyN {
		score++
	}
	if start >= fivePrimeMargin {
		score++
	}
	if end <= len(seq)-threePrimeMargin {
		score++
	}

	return window{start: start, end: end, gc: gc, polyN: polyN, score: score}
}

// hasPolyRun reports a run of runLength or more identical A/C/G/T
// bases. Runs of ambiguity codes don't count.
func hasPolyRun(seq string, runLength int) bool {
	run := 1
	for i := 1; i < len(seq); i++ {
		if seq[i] == seq[i-1] && isACGT(seq[i]) {
			run++
			if run >= runLength {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

func isACGT(b byte) bool {
	return b == 'A' || b == 'C' || b == 'G' || b == 'T'
}

// overlapsAny is whether w shares any position with a selected window.
func overlapsAny(w window, selected []window) bool {
	for _, s := range selected {
		if w.start < s.end && s.start < w.end {
			return true
		}
	}
	return false
}

// WriteCandidateFasta writes candidates as FASTA for synthesis, both
// the sense strand and the antisense strand of each duplex.
func WriteCandidateFasta(w io.Writer, candidates []Candidate) error {
	for _, c := range candidates {
		if _, err := fmt.Fprintf(w, ">%s sense\n%s\n>%s antisense\n%s\n", c.ID, c.Seq, c.ID, c.Antisense()); err != nil {
			return err
		}
	}
	return nil
}

package dsrna

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/katalyzeAI/dsrna-designer/config"
)

// MatchUndetermined is the sentinel match length for a blastn
// invocation that timed out or failed: "could not determine", never to
// be read as zero off-target matches.
const MatchUndetermined = -1

// blastExec is a small utility object for executing one blastn search
// of a candidate against a database.
type blastExec struct {
	// the candidate id, used to name the temp query file
	name string

	// the candidate's sequence
	seq string

	// the database being searched
	db config.Database

	// path to the blastn executable
	blastn string

	// directory for temp query files
	dir string

	// blastn tuning. the short word size is what makes siRNA-scale
	// partial complementarity findable at all
	wordSize      int
	evalue        int
	maxTargetSeqs int

	// per-invocation deadline
	timeout time.Duration
}

// search runs blastn and returns the longest contiguous alignment
// length against the database, 0 when there are no hits, or
// MatchUndetermined when the invocation timed out or failed.
//
// The temp query file is removed on every exit path. A cancellation of
// ctx kills the subprocess and is returned as an error so the caller
// never reports a partial result as complete.
func (b *blastExec) search(ctx context.Context) (int, error) {
	in, err := os.CreateTemp(b.dir, b.name+"-in-*.fa")
	if err != nil {
		return MatchUndetermined, err
	}
	defer os.Remove(in.Name())

	if _, err := fmt.Fprintf(in, ">%s\n%s\n", b.name, b.seq); err != nil {
		in.Close()
		return MatchUndetermined, fmt.Errorf("failed to write blastn query file at %s: %w", in.Name(), err)
	}
	if err := in.Close(); err != nil {
		return MatchUndetermined, err
	}

	runCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	// https://www.ncbi.nlm.nih.gov/books/NBK279682/
	blastCmd := exec.CommandContext(
		runCtx,
		b.blastn,
		"-query", in.Name(),
		"-db", b.db.Path,
		"-word_size", strconv.Itoa(b.wordSize),
		"-outfmt", "6 qseqid sseqid length",
		"-max_target_seqs", strconv.Itoa(b.maxTargetSeqs),
		"-evalue", strconv.Itoa(b.evalue),
	)

	var out, errOut bytes.Buffer
	blastCmd.Stdout = &out
	blastCmd.Stderr = &errOut

	// a killed blastn can leave children holding the output pipe;
	// don't let Wait hang on them past the deadline
	blastCmd.WaitDelay = time.Second

	if err := blastCmd.Run(); err != nil {
		// the whole screening batch was aborted
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(ctxErr, context.DeadlineExceeded) {
			return MatchUndetermined, ctxErr
		}

		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			stderr.Printf("warning: blastn timed out for %s against %s\n", b.name, b.db.Name)
		} else {
			stderr.Printf("warning: blastn failed for %s against %s: %v: %s\n", b.name, b.db.Name, err, errOut.String())
		}
		return MatchUndetermined, nil
	}

	return maxAlignment(out.String()), nil
}

// maxAlignment parses tabular (outfmt 6) blastn output and returns the
// longest alignment length seen, 0 when there are no hits.
func maxAlignment(output string) int {
	maxLength := 0
	for _, line := range strings.Split(output, "\n") {
		// comment lines start with a #
		if strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Fields(line)
		if len(cols) < 3 {
			continue
		}

		length, err := strconv.Atoi(cols[2])
		if err != nil {
			continue
		}
		if length > maxLength {
			maxLength = length
		}
	}
	return maxLength
}

// dbExtensions are the file suffixes a makeblastdb-built nucleotide
// database may carry; at least one must exist.
var dbExtensions = []string{".nhr", ".nin", ".nsq", ".ndb", ".nto"}

// checkScreeningDeps fails fast, before any candidate is processed,
// when the blastn binary or a reference database is missing.
func checkScreeningDeps(conf *config.Config) error {
	if _, err := exec.LookPath(conf.Screen.Blastn); err != nil {
		return &ToolUnavailableError{Tool: "blastn", Path: conf.Screen.Blastn, Err: err}
	}

	for _, db := range conf.Screen.Databases {
		found := false
		for _, ext := range dbExtensions {
			if _, err := os.Stat(db.Path + ext); err == nil {
				found = true
				break
			}
		}
		if !found {
			return &ToolUnavailableError{Tool: "BLAST database " + db.Name, Path: db.Path}
		}
	}

	return nil
}

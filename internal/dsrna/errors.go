package dsrna

import "fmt"

// MalformedInputError is returned when a genome FASTA file or a gene
// catalog violates its structural invariants. It names the offending
// record so the caller can fix the input.
type MalformedInputError struct {
	// Record is the identifier of the record that failed, or the name
	// of the input when no single record is at fault
	Record string

	// Reason describes the violated invariant
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input at %q: %s", e.Record, e.Reason)
}

// ToolUnavailableError is returned before screening starts when the
// external aligner or one of its databases cannot be found.
type ToolUnavailableError struct {
	// Tool is what's missing: the blastn binary or a database name
	Tool string

	// Path that was checked
	Path string

	// Err is the underlying lookup error, if any
	Err error
}

func (e *ToolUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s unavailable at %s: %v", e.Tool, e.Path, e.Err)
	}
	return fmt.Sprintf("%s unavailable at %s", e.Tool, e.Path)
}

func (e *ToolUnavailableError) Unwrap() error { return e.Err }

// UnmatchedCandidateError is returned by ranking when a candidate has
// no corresponding screening result. It indicates a pipeline-ordering
// bug upstream and is never silently defaulted.
type UnmatchedCandidateError struct {
	CandidateID string
}

func (e *UnmatchedCandidateError) Error() string {
	return fmt.Sprintf("no screening result for candidate %q", e.CandidateID)
}

// UndeterminedScreenError is returned by ranking when a candidate's
// screening result is the timeout/failure sentinel. An unresolved
// screen must never be scored as if it were a concrete classification.
type UndeterminedScreenError struct {
	CandidateID string
}

func (e *UndeterminedScreenError) Error() string {
	return fmt.Sprintf("screening result for candidate %q is undetermined", e.CandidateID)
}

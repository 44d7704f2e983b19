// Package dsrna designs double-stranded RNA biopesticide candidates:
// it matches essential genes against a pest genome's CDS annotations,
// designs dsRNA windows over the top genes, screens every candidate
// against non-target transcriptomes with blastn, and ranks candidates
// by combined efficacy and safety.
package dsrna

import (
	"log"
	"os"
	"strings"
)

// stderr is for logging to Stderr (without an annoying timestamp)
var stderr = log.New(os.Stderr, "", 0)

// Sequence is a single annotated CDS record from the target genome.
// Immutable once parsed.
type Sequence struct {
	// ID is the first field of the FASTA header
	ID string `json:"id"`

	// Description is the full FASTA header (id included), the text
	// that gene matching runs against
	Description string `json:"description"`

	// Seq is the uppercase nucleotide sequence. Ambiguity codes (eg N)
	// are preserved
	Seq string `json:"sequence"`

	// Length of Seq
	Length int `json:"length"`
}

// ParseFasta parses FASTA text into an ordered list of Sequences.
//
// Record order is preserved: the genome's own ordering is the stable
// secondary key for downstream tie-breaking. A header with no sequence
// lines beneath it is a structural error, not an empty record.
func ParseFasta(contents string) ([]Sequence, error) {
	lines := strings.Split(contents, "\n")

	// find the headers
	var headerIndices []int
	var headers []string
	for i, line := range lines {
		if strings.HasPrefix(line, ">") {
			headerIndices = append(headerIndices, i)
			headers = append(headers, strings.TrimSpace(line[1:]))
		}
	}

	if len(headerIndices) < 1 {
		return nil, &MalformedInputError{Record: "genome", Reason: "no FASTA records found"}
	}

	// accumulate the sequences from between the headers
	var seqs []Sequence
	for i, headerIndex := range headerIndices {
		header := headers[i]
		if header == "" {
			return nil, &MalformedInputError{Record: ">", Reason: "record has an empty header"}
		}

		nextHeader := len(lines)
		if i < len(headerIndices)-1 {
			nextHeader = headerIndices[i+1]
		}

		var b strings.Builder
		for _, line := range lines[headerIndex+1 : nextHeader] {
			b.WriteString(strings.TrimSpace(line))
		}
		seq := strings.ToUpper(b.String())

		id := strings.Fields(header)[0]
		if seq == "" {
			return nil, &MalformedInputError{Record: id, Reason: "record has no sequence lines"}
		}

		seqs = append(seqs, Sequence{
			ID:          id,
			Description: header,
			Seq:         seq,
			Length:      len(seq),
		})
	}

	return seqs, nil
}

// ReadFasta reads and parses a FASTA file of CDS records.
func ReadFasta(path string) ([]Sequence, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFasta(string(dat))
}

// gcContent is the fraction of explicit G/C bases over the full
// window length. Ambiguity codes count toward length, not GC.
func gcContent(seq string) float64 {
	if len(seq) == 0 {
		return 0
	}

	gc := 0
	for i := 0; i < len(seq); i++ {
		if seq[i] == 'G' || seq[i] == 'C' {
			gc++
		}
	}
	return float64(gc) / float64(len(seq))
}

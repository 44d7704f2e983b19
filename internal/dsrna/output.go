package dsrna

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/katalyzeAI/dsrna-designer/config"
)

// Thresholds documents the classification bands in screening output.
type Thresholds struct {
	Safe    string `json:"safe"`
	Caution string `json:"caution"`
	Reject  string `json:"reject"`
}

// ScreenOutput is the screening result envelope written to disk and
// consumed by ranking.
type ScreenOutput struct {
	// Success is false only when the whole batch failed; individual
	// unresolved candidates are flagged per-result instead
	Success bool `json:"success"`

	// ScreeningDate, RFC 3339
	ScreeningDate string `json:"screening_date"`

	// DatabasesUsed in screen order; also keys per-result match fields
	DatabasesUsed []string `json:"databases_used"`

	// Thresholds applied to classify each result
	Thresholds Thresholds `json:"thresholds"`

	// Results per candidate, in candidate order
	Results []ScreenResult `json:"results"`
}

// NewScreenOutput wraps screening results in the output envelope.
func NewScreenOutput(results []ScreenResult, conf *config.Config) *ScreenOutput {
	if results == nil {
		results = []ScreenResult{}
	}

	dbs := make([]string, len(conf.Screen.Databases))
	for i, db := range conf.Screen.Databases {
		dbs[i] = db.Name
	}

	return &ScreenOutput{
		Success:       true,
		ScreeningDate: time.Now().Format(time.RFC3339),
		DatabasesUsed: dbs,
		Thresholds: Thresholds{
			Safe:    fmt.Sprintf("<%d bp", cautionMinMatch),
			Caution: fmt.Sprintf("%d-%d bp", cautionMinMatch, rejectMinMatch-1),
			Reject:  fmt.Sprintf(">=%d bp", rejectMinMatch),
		},
		Results: results,
	}
}

// MarshalJSON writes one screening result with a "<database>_max_match"
// field per screened database. The per-database keys follow screen
// order, which encoding/json's maps would not preserve.
func (r ScreenResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')
	writeJSONField(&buf, "candidate_id", r.CandidateID)
	for _, m := range r.Matches {
		buf.WriteByte(',')
		writeJSONField(&buf, m.Database+"_max_match", m.MaxMatch)
	}
	buf.WriteByte(',')
	writeJSONField(&buf, "max_match", r.MaxMatch)
	buf.WriteByte(',')
	writeJSONField(&buf, "safety_status", r.Status)
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON reads the envelope and rebuilds each result's
// per-database matches in databases_used order.
func (o *ScreenOutput) UnmarshalJSON(data []byte) error {
	var aux struct {
		Success       bool              `json:"success"`
		ScreeningDate string            `json:"screening_date"`
		DatabasesUsed []string          `json:"databases_used"`
		Thresholds    Thresholds        `json:"thresholds"`
		Results       []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	o.Success = aux.Success
	o.ScreeningDate = aux.ScreeningDate
	o.DatabasesUsed = aux.DatabasesUsed
	o.Thresholds = aux.Thresholds

	o.Results = make([]ScreenResult, 0, len(aux.Results))
	for _, raw := range aux.Results {
		var fields struct {
			CandidateID string       `json:"candidate_id"`
			MaxMatch    int          `json:"max_match"`
			Status      SafetyStatus `json:"safety_status"`
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return err
		}

		var asMap map[string]interface{}
		if err := json.Unmarshal(raw, &asMap); err != nil {
			return err
		}

		matches := make([]DatabaseMatch, 0, len(aux.DatabasesUsed))
		for _, db := range aux.DatabasesUsed {
			if n, ok := asMap[db+"_max_match"].(float64); ok {
				matches = append(matches, DatabaseMatch{Database: db, MaxMatch: int(n)})
			}
		}

		o.Results = append(o.Results, ScreenResult{
			CandidateID: fields.CandidateID,
			Matches:     matches,
			MaxMatch:    fields.MaxMatch,
			Status:      fields.Status,
		})
	}

	return nil
}

// MarshalJSON writes a ranked candidate as the flat record downstream
// consumers read: candidate fields, then scores, then the per-database
// match fields in screen order, then the safety status.
func (r RankedCandidate) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')
	writeJSONField(&buf, "id", r.ID)
	buf.WriteByte(',')
	writeJSONField(&buf, "gene_name", r.GeneName)
	buf.WriteByte(',')
	writeJSONField(&buf, "gene_id", r.GeneID)
	buf.WriteByte(',')
	writeJSONField(&buf, "sequence", r.Seq)
	buf.WriteByte(',')
	writeJSONField(&buf, "start", r.Start)
	buf.WriteByte(',')
	writeJSONField(&buf, "end", r.End)
	buf.WriteByte(',')
	writeJSONField(&buf, "length", r.Length)
	buf.WriteByte(',')
	writeJSONField(&buf, "gc_content", r.GCContent)
	buf.WriteByte(',')
	writeJSONField(&buf, "has_poly_n", r.HasPolyN)
	buf.WriteByte(',')
	writeJSONField(&buf, "design_score", r.DesignScore)
	buf.WriteByte(',')
	writeJSONField(&buf, "efficacy_score", r.EfficacyScore)
	buf.WriteByte(',')
	writeJSONField(&buf, "safety_score", r.SafetyScore)
	buf.WriteByte(',')
	writeJSONField(&buf, "combined_score", r.CombinedScore)
	for _, m := range r.Matches {
		buf.WriteByte(',')
		writeJSONField(&buf, m.Database+"_max_match", m.MaxMatch)
	}
	buf.WriteByte(',')
	writeJSONField(&buf, "safety_status", r.SafetyStatus)
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func writeJSONField(buf *bytes.Buffer, key string, value interface{}) {
	k, _ := json.Marshal(key)
	buf.Write(k)
	buf.WriteByte(':')

	v, err := json.Marshal(value)
	if err != nil {
		v = []byte("null")
	}
	buf.Write(v)
}

// WriteJSON writes v as indented JSON, creating parent directories.
func WriteJSON(path string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, b, 0644)
}

// ReadCandidates reads a designed-candidates JSON file.
func ReadCandidates(path string) ([]Candidate, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	if err := json.Unmarshal(dat, &candidates); err != nil {
		return nil, &MalformedInputError{Record: "candidates", Reason: err.Error()}
	}
	return candidates, nil
}

// ReadGeneMatches reads a gene-matches JSON file.
func ReadGeneMatches(path string) ([]GeneMatch, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var matches []GeneMatch
	if err := json.Unmarshal(dat, &matches); err != nil {
		return nil, &MalformedInputError{Record: "genes", Reason: err.Error()}
	}
	return matches, nil
}

// ReadScreenOutput reads a screening output JSON file.
func ReadScreenOutput(path string) (*ScreenOutput, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var out ScreenOutput
	if err := json.Unmarshal(dat, &out); err != nil {
		return nil, &MalformedInputError{Record: "screen results", Reason: err.Error()}
	}
	return &out, nil
}

package dsrna

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ReferenceGene is one entry of the curated essential-gene catalog.
// Loaded once, immutable.
type ReferenceGene struct {
	// Name is the canonical gene name, eg "vATPase"
	Name string `json:"name"`

	// Aliases are alternate names matched case-insensitively
	Aliases []string `json:"aliases"`

	// Function is a free-text functional description
	Function string `json:"function"`

	// EssentialIn lists species with experimentally confirmed essentiality
	EssentialIn []string `json:"essential_in"`

	// References are citation identifiers (eg PMIDs)
	References []string `json:"references"`
}

// Catalog is the essential-gene catalog. Gene order is the tie-break
// key for match ranking, so it's kept as loaded.
type Catalog struct {
	Genes []ReferenceGene `json:"genes"`
}

// catalogSchema is validated against the catalog JSON before decoding
// so a malformed catalog names its problem instead of half-loading.
const catalogSchema = `{
	"type": "object",
	"required": ["genes"],
	"properties": {
		"genes": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"aliases": {"type": "array", "items": {"type": "string"}},
					"function": {"type": "string"},
					"essential_in": {"type": "array", "items": {"type": "string"}},
					"references": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`

var compiledCatalogSchema = jsonschema.MustCompileString("catalog.schema.json", catalogSchema)

// ParseCatalog validates and decodes an essential-gene catalog.
//
// An empty gene list is valid: no genes to match is a degenerate input,
// not an error.
func ParseCatalog(data []byte) (*Catalog, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &MalformedInputError{Record: "catalog", Reason: err.Error()}
	}
	if err := compiledCatalogSchema.Validate(v); err != nil {
		return nil, &MalformedInputError{Record: "catalog", Reason: err.Error()}
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, &MalformedInputError{Record: "catalog", Reason: err.Error()}
	}
	return &c, nil
}

// ReadCatalog reads and parses an essential-gene catalog JSON file.
func ReadCatalog(path string) (*Catalog, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gene catalog at %s: %w", path, err)
	}
	return ParseCatalog(dat)
}

// Paper is one literature-search result carrying the gene names it
// mentions. Other fields from the search tooling are ignored.
type Paper struct {
	GeneNames []string `json:"gene_names"`
}

// Literature is the optional gene-mentions input from literature
// search. A nil *Literature means "not searched" and is distinct from
// a search that returned no papers.
type Literature struct {
	Papers []Paper `json:"papers"`
}

// ParseLiterature decodes literature-search output. Both a bare paper
// list and a {"papers": [...]} wrapper are accepted.
func ParseLiterature(data []byte) (*Literature, error) {
	trimmed := bytes.TrimSpace(data)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var papers []Paper
		if err := json.Unmarshal(trimmed, &papers); err != nil {
			return nil, &MalformedInputError{Record: "literature", Reason: err.Error()}
		}
		return &Literature{Papers: papers}, nil
	}

	var lit Literature
	if err := json.Unmarshal(trimmed, &lit); err != nil {
		return nil, &MalformedInputError{Record: "literature", Reason: err.Error()}
	}
	return &lit, nil
}

// ReadLiterature reads and parses a literature-search JSON file.
func ReadLiterature(path string) (*Literature, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read literature results at %s: %w", path, err)
	}
	return ParseLiterature(dat)
}

// mentions is the lower-cased set of gene names found in the papers.
func (l *Literature) mentions() map[string]bool {
	genes := make(map[string]bool)
	for _, p := range l.Papers {
		for _, g := range p.GeneNames {
			genes[strings.ToLower(g)] = true
		}
	}
	return genes
}

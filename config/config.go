// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Database is a named BLAST database to screen candidates against.
type Database struct {
	// Name of the organism/transcript set, eg "human_cds". Used as the
	// prefix of the per-database match field in screening output
	Name string `mapstructure:"name"`

	// Path to the BLAST database files (without the .n* extensions)
	Path string `mapstructure:"path"`
}

// MatchConfig is settings for essential-gene matching
type MatchConfig struct {
	// the maximum number of gene matches kept after ranking
	MaxMatches int `mapstructure:"max-matches"`
}

// DesignConfig is settings for sliding-window dsRNA design
type DesignConfig struct {
	// length of each dsRNA candidate in bp
	Length int `mapstructure:"length"`

	// step between window start offsets in bp
	Step int `mapstructure:"step"`

	// the number of non-overlapping candidates kept per gene
	Candidates int `mapstructure:"candidates"`

	// the number of top-scoring genes forwarded from matching to design
	TopGenes int `mapstructure:"top-genes"`
}

// ScreenConfig is settings for off-target BLAST screening
type ScreenConfig struct {
	// path to the blastn executable
	Blastn string `mapstructure:"blastn"`

	// blastn word size. kept short to catch siRNA-scale partial matches
	WordSize int `mapstructure:"word-size"`

	// blastn expect value threshold
	EValue int `mapstructure:"evalue"`

	// blastn max_target_seqs
	MaxTargetSeqs int `mapstructure:"max-target-seqs"`

	// seconds before a single blastn invocation is abandoned
	TimeoutSeconds int `mapstructure:"timeout"`

	// the number of candidates screened concurrently
	Workers int `mapstructure:"workers"`

	// the databases each candidate is screened against, in output order
	Databases []Database `mapstructure:"databases"`
}

// Timeout is the per-invocation blastn deadline.
func (s ScreenConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// RankConfig is settings for combined efficacy/safety ranking
type RankConfig struct {
	// the gene-essentiality score assumed for a candidate whose gene
	// has no match record
	DefaultGeneScore float64 `mapstructure:"default-gene-score"`
}

// Config is the root-level settings struct and is a mix of settings
// available in settings.yaml and those available from the command line
type Config struct {
	// Match is gene matching settings
	Match MatchConfig `mapstructure:"match"`

	// Design is candidate design settings
	Design DesignConfig `mapstructure:"design"`

	// Screen is off-target screening settings
	Screen ScreenConfig `mapstructure:"screen"`

	// Rank is scoring/ranking settings
	Rank RankConfig `mapstructure:"rank"`
}

// New returns a new Config populated by Viper (from settings.yaml
// and/or command line arguments)
func New() *Config {
	setDefaults()

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		log.Fatalf("failed to decode settings: %v", err)
	}

	return &c
}

func setDefaults() {
	viper.SetDefault("match.max-matches", 20)

	viper.SetDefault("design.length", 300)
	viper.SetDefault("design.step", 50)
	viper.SetDefault("design.candidates", 3)
	viper.SetDefault("design.top-genes", 5)

	viper.SetDefault("screen.blastn", "blastn")
	viper.SetDefault("screen.word-size", 7)
	viper.SetDefault("screen.evalue", 10)
	viper.SetDefault("screen.max-target-seqs", 100)
	viper.SetDefault("screen.timeout", 60)
	viper.SetDefault("screen.workers", 4)
	viper.SetDefault("screen.databases", []map[string]string{
		{"name": "human_cds", "path": "data/blast_db/human_cds"},
		{"name": "honeybee_cds", "path": "data/blast_db/honeybee_cds"},
	})

	viper.SetDefault("rank.default-gene-score", 0.5)
}

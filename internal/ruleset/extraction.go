package ruleset

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ExtractionProcedureRule is the extraction rule's procedure sub-rule:
// {pre_procedure, post_procedure, pattern, parts, extract}. pattern/parts/
// extract are reserved fields for a future procedure-local narrowing step;
// the current Procedure implementations (Default, NaverWebtoon) only
// consult PostProcedure, matching specific_procedure.rs.
type ExtractionProcedureRule struct {
	Parts         []string `toml:"parts"`
	Extract       string   `toml:"extract"`
	Pattern       string   `toml:"pattern"`
	PreProcedure  string   `toml:"pre_procedure"`
	PostProcedure string   `toml:"post_procedure"`
}

// UnitExtractionRule is one [[extraction]] entry.
type UnitExtractionRule struct {
	Name      string                   `toml:"name"`
	Links     []string                 `toml:"links"`
	LocalPath string                   `toml:"local_path"`
	Parts     []string                 `toml:"parts"`
	Extract   string                   `toml:"extract"`
	Procedure *ExtractionProcedureRule `toml:"procedure"`
}

// LocalPathPtr returns nil when LocalPath is unset, otherwise a pointer to
// it — BuildAbsPath treats "no local_path" and "empty local_path" the same
// way structurally, but callers need the optionality to match §4.3.
func (r *UnitExtractionRule) LocalPathPtr() *string {
	if r.LocalPath == "" {
		return nil
	}
	return &r.LocalPath
}

// ExtractionRules is the top-level extraction rule-file schema.
type ExtractionRules struct {
	Extraction []UnitExtractionRule `toml:"extraction"`
}

// ParseExtractionRules decodes a TOML-shaped extraction rule document.
func ParseExtractionRules(content string) (*ExtractionRules, error) {
	var rules ExtractionRules
	if err := toml.Unmarshal([]byte(content), &rules); err != nil {
		return nil, fmt.Errorf("ruleset: parse extraction rules: %w", err)
	}
	return &rules, nil
}

// LoadExtractionRules reads and parses an extraction rule file from disk.
func LoadExtractionRules(path string) (*ExtractionRules, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ruleset: read extraction rules %q: %w", path, err)
	}
	return ParseExtractionRules(string(content))
}

// PostProcedureName returns the configured post-procedure name for rule, or
// "" if none is set — unknown/absent names both fall back to the default
// procedure at the call site.
func (r *UnitExtractionRule) PostProcedureName() string {
	if r.Procedure == nil {
		return ""
	}
	return r.Procedure.PostProcedure
}

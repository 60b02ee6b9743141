// Package ruleset holds the TOML-shaped rule schema (§6 External
// Interfaces) and the Configure schema (§6), plus the loader helpers the
// Navigator/Extractor consume. Rule-file loading itself is treated as an
// external collaborator per spec.md §1 — only the semantic contents matter
// — but the schema and its decoding are part of this module's surface.
package ruleset

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// PagerRule is the navigation-only pager sub-rule: {pager-name, parts, extract}.
type PagerRule struct {
	Pager   string   `toml:"pager"`
	Parts   []string `toml:"parts"`
	Extract string   `toml:"extract"`
}

// NavigationProcedureRule carries the navigation rule's optional procedure
// hooks. Reserved for parity with the original schema; the Navigator itself
// has no use for pre/post procedures (only the Extractor does), but the
// field is kept so navigation rule files carrying them still decode. Only
// pre_procedure and post_procedure are read; other procedure keys are
// ignored.
type NavigationProcedureRule struct {
	PreProcedure  string `toml:"pre_procedure"`
	PostProcedure string `toml:"post_procedure"`
}

// UnitNavigationRule is one [[navigation]] entry.
type UnitNavigationRule struct {
	Name      string                   `toml:"name"`
	Entry     string                   `toml:"entry"`
	Parts     []string                 `toml:"parts"`
	Extract   string                   `toml:"extract"`
	Procedure *NavigationProcedureRule `toml:"procedure"`
	Pager     *PagerRule               `toml:"pager"`
}

// NavigationRules is the top-level navigation rule-file schema.
type NavigationRules struct {
	Navigation []UnitNavigationRule `toml:"navigation"`
}

// ParseNavigationRules decodes a TOML-shaped navigation rule document.
// Malformed TOML or an invalid regex discovered later at rule-application
// time is a rule-file bug (§4.1 "regex compilation errors are fatal");
// ParseNavigationRules itself only reports TOML decode errors.
func ParseNavigationRules(content string) (*NavigationRules, error) {
	var rules NavigationRules
	if err := toml.Unmarshal([]byte(content), &rules); err != nil {
		return nil, fmt.Errorf("ruleset: parse navigation rules: %w", err)
	}
	return &rules, nil
}

// LoadNavigationRules reads and parses a navigation rule file from disk.
func LoadNavigationRules(path string) (*NavigationRules, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ruleset: read navigation rules %q: %w", path, err)
	}
	return ParseNavigationRules(string(content))
}

// ByName looks up the first navigation rule named name, returning a pointer
// into r.Navigation and whether one was found.
func (r *NavigationRules) ByName(name string) (*UnitNavigationRule, bool) {
	for i := range r.Navigation {
		if r.Navigation[i].Name == name {
			return &r.Navigation[i], true
		}
	}
	return nil, false
}

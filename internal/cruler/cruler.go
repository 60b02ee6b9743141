// Package cruler wires the rule engine, HTTP driver, navigator, extractor
// and site-policy registry together behind the three entry points external
// callers use to run an extraction (§6): a fixed on-disk layout, a raw
// in-memory pair of rule documents, or an arbitrary root directory. The
// reference implementation exposed these as C ABI functions
// (#[no_mangle] extern fn) for embedding into a host process; this module
// has no such embedding target, so they're ordinary exported Go functions
// instead — grounded on original_source/src/lib.rs.
package cruler

import (
	"fmt"
	"path/filepath"

	"github.com/cruler-project/cruler/internal/extractor"
	"github.com/cruler-project/cruler/internal/logx"
	"github.com/cruler-project/cruler/internal/navigator"
	"github.com/cruler-project/cruler/internal/result"
	"github.com/cruler-project/cruler/internal/ruleset"
	"github.com/cruler-project/cruler/internal/sitepolicy"
	"github.com/cruler-project/cruler/internal/store"
)

// DefaultNavigationRulesPath, DefaultExtractionRulesPath and
// DefaultConfigurePath mirror the reference implementation's hardcoded
// "pack/" layout (Default impls in navigation_rules.rs / extraction_rules.rs
// / configure/mod.rs).
const (
	DefaultNavigationRulesPath = "pack/navigation_rules.toml"
	DefaultExtractionRulesPath = "pack/extraction_rules.toml"
	DefaultConfigurePath       = "pack/configure.toml"

	// DefaultStorePath is where ExtractAllFromRoot keeps its run ledger,
	// relative to rootPath.
	DefaultStorePath = "pack/cruler.db"
)

// Run holds everything one extraction pass needs once rule files and
// configuration are loaded.
type Run struct {
	navigationRules *ruleset.NavigationRules
	extractionRules *ruleset.ExtractionRules
	configure       *ruleset.Configure
	logger          *logx.Logger

	// Store, if set, gets one ExtractionRun row per rule plus one
	// DownloadedAsset row per saved artifact. Nil disables the ledger
	// (ExtractAllFromRaw has no durable root to keep a database under).
	Store *store.Store
}

// NewRun builds a Run from already-parsed rule sets. A nil configure falls
// back to httpdriver.DefaultPoolSize; a nil logger disables logging.
func NewRun(navRules *ruleset.NavigationRules, extRules *ruleset.ExtractionRules, cfg *ruleset.Configure, logger *logx.Logger) *Run {
	if logger == nil {
		logger, _ = logx.New("", logx.LevelInfo, false)
	}
	return &Run{navigationRules: navRules, extractionRules: extRules, configure: cfg, logger: logger}
}

// ExtractAll runs every extraction rule, resolving navigation-less rules'
// entry links through the Navigator when needed. A rule that fails is
// logged and skipped rather than aborting the remaining rules.
func (r *Run) ExtractAll() error {
	poolSize := r.configure.PoolSize()

	nav := navigator.New(poolSize, sitepolicy.GetPager, r.logger)

	entryLinks := func(navigationRuleName string) ([]string, error) {
		rule, ok := r.navigationRules.ByName(navigationRuleName)
		if !ok {
			return nil, fmt.Errorf("cruler: no navigation rule named %q", navigationRuleName)
		}
		return nav.Navigate(rule)
	}

	getProcedure := func(name string, handler *result.Handler) extractor.Procedure {
		return sitepolicy.GetProcedure(name, handler)
	}

	for i := range r.extractionRules.Extraction {
		rule := &r.extractionRules.Extraction[i]

		ext := extractor.New(poolSize, getProcedure, entryLinks, r.logger)

		var runID string
		if r.Store != nil {
			id, err := r.Store.BeginRun(rule.Name)
			if err != nil {
				return fmt.Errorf("cruler: begin run ledger for %q: %w", rule.Name, err)
			}
			runID = id
			ext.OnAssetSaved = func(sourceURL, localPath string) {
				if err := r.Store.RecordAsset(runID, rule.Name, sourceURL, localPath); err != nil {
					r.logger.Warn("cruler: record asset", map[string]any{"error": err.Error()})
				}
			}
		}

		runErr := ext.Extract(rule)

		if r.Store != nil {
			if err := r.Store.FinishRun(runID, runErr); err != nil {
				r.logger.Warn("cruler: finish run ledger", map[string]any{"error": err.Error()})
			}
		}

		if runErr != nil {
			r.logger.Error("cruler: rule failed", map[string]any{
				"rule":  rule.Name,
				"error": runErr.Error(),
			})
			continue
		}
	}

	return nil
}

// ExtractAllWithDefaultConfig runs an extraction using the fixed
// "pack/"-relative default file layout.
func ExtractAllWithDefaultConfig() error {
	return ExtractAllFromRoot("")
}

// ExtractAllFromRaw runs an extraction from in-memory TOML documents rather
// than files on disk. Navigation rules are not available in this mode
// (matching the reference: cruler_extract_all_from_raw only ever receives
// extraction rules + configure), so extraction rules that omit `links` and
// rely on a navigation rule will fail.
func ExtractAllFromRaw(extractionRulesTOML, configureTOML string) error {
	extRules, err := ruleset.ParseExtractionRules(extractionRulesTOML)
	if err != nil {
		return fmt.Errorf("cruler: parse extraction rules: %w", err)
	}
	cfg, err := ruleset.ParseConfigure(configureTOML)
	if err != nil {
		return fmt.Errorf("cruler: parse configure: %w", err)
	}

	noNavigation := func(name string) ([]string, error) {
		return nil, fmt.Errorf("cruler: navigation rule %q unavailable in raw mode", name)
	}

	logger, _ := logx.New("", logx.LevelInfo, true)
	ext := extractor.New(cfg.PoolSize(), func(name string, h *result.Handler) extractor.Procedure {
		return sitepolicy.GetProcedure(name, h)
	}, noNavigation, logger)

	return ext.ExtractAll(extRules)
}

// ExtractAllFromRoot runs an extraction using navigation_rules.toml,
// extraction_rules.toml and configure.toml found under rootPath (an empty
// rootPath means the process's current working directory, matching
// DefaultNavigationRulesPath et al.'s bare "pack/..." layout).
func ExtractAllFromRoot(rootPath string) error {
	navPath := filepath.Join(rootPath, DefaultNavigationRulesPath)
	extPath := filepath.Join(rootPath, DefaultExtractionRulesPath)
	cfgPath := filepath.Join(rootPath, DefaultConfigurePath)

	navRules, err := ruleset.LoadNavigationRules(navPath)
	if err != nil {
		return fmt.Errorf("cruler: load navigation rules: %w", err)
	}
	extRules, err := ruleset.LoadExtractionRules(extPath)
	if err != nil {
		return fmt.Errorf("cruler: load extraction rules: %w", err)
	}
	cfg, err := ruleset.LoadConfigure(cfgPath)
	if err != nil {
		return fmt.Errorf("cruler: load configure: %w", err)
	}

	logger, _ := logx.New("", logx.LevelInfo, true)

	st, err := store.Open(filepath.Join(rootPath, DefaultStorePath))
	if err != nil {
		return fmt.Errorf("cruler: open run ledger: %w", err)
	}
	defer st.Close()

	run := NewRun(navRules, extRules, cfg, logger)
	run.Store = st
	return run.ExtractAll()
}

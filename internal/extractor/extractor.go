package extractor

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cruler-project/cruler/internal/engine"
	"github.com/cruler-project/cruler/internal/httpdriver"
	"github.com/cruler-project/cruler/internal/logx"
	"github.com/cruler-project/cruler/internal/result"
	"github.com/cruler-project/cruler/internal/ruleset"
)

// ProcedureFactory resolves a rule's post-procedure name (possibly "") plus
// the handler that will own the built request to a concrete Procedure.
// Supplied by internal/sitepolicy.
type ProcedureFactory func(name string, handler *result.Handler) Procedure

// EntryLinks resolves a navigation rule by name into the ordered links a
// navigation-less extraction rule should fetch — an adapter over
// navigator.Navigator kept as a function value so Extractor doesn't need to
// know how navigation rules are looked up or pagers constructed.
type EntryLinks func(navigationRuleName string) ([]string, error)

// Extractor drives every [[extraction]] rule: fetch entries, extract
// content, then download every "store" link through a site-policy
// Procedure. Grounded on original_source/src/connector/extractor/mod.rs.
type Extractor struct {
	PoolSize     int
	GetProcedure ProcedureFactory
	EntryLinks   EntryLinks
	Logger       *logx.Logger

	// OnAssetSaved, if set, is called after each store link is
	// successfully downloaded and written to disk (source URL, on-disk
	// path). Used by internal/cruler to feed internal/store's ledger
	// without this package needing to know about persistence.
	OnAssetSaved func(sourceURL, localPath string)
}

// New builds an Extractor. A nil logger disables logging.
func New(poolSize int, getProcedure ProcedureFactory, entryLinks EntryLinks, logger *logx.Logger) *Extractor {
	if logger == nil {
		logger, _ = logx.New("", logx.LevelInfo, false)
	}
	return &Extractor{PoolSize: poolSize, GetProcedure: getProcedure, EntryLinks: entryLinks, Logger: logger}
}

// ExtractAll runs every rule in rules in order. A rule that fails is logged
// and skipped; the batch continues on to the remaining rules rather than
// aborting the run.
func (e *Extractor) ExtractAll(rules *ruleset.ExtractionRules) error {
	for i := range rules.Extraction {
		if err := e.Extract(&rules.Extraction[i]); err != nil {
			e.Logger.Error("extractor: rule failed", map[string]any{
				"rule":  rules.Extraction[i].Name,
				"error": err.Error(),
			})
			continue
		}
	}
	return nil
}

// Extract runs the entry→content→store pipeline for one rule.
func (e *Extractor) Extract(rule *ruleset.UnitExtractionRule) error {
	handlers, err := e.extractContent(rule)
	if err != nil {
		return err
	}
	return e.handleResults(rule, handlers)
}

// extractContent fetches every entry link and narrows+extracts content
// handlers from each response, flattening per-response handler groups into
// one slice (order doesn't matter downstream — only which "store" values
// exist matters).
func (e *Extractor) extractContent(rule *ruleset.UnitExtractionRule) ([]*result.Handler, error) {
	conn := httpdriver.New(e.PoolSize)

	links, err := e.entryLinksFor(rule)
	if err != nil {
		return nil, fmt.Errorf("entry links: %w", err)
	}
	for _, link := range links {
		req, err := http.NewRequest(http.MethodGet, link, nil)
		if err != nil {
			return nil, fmt.Errorf("build entry request %q: %w", link, err)
		}
		conn.Add(req)
	}

	requestURLs := conn.RequestURLs()

	perResponse, err := httpdriver.RunAll(conn, func(index int, resp *http.Response) ([]*result.Handler, error) {
		return e.extractOneResponse(rule, index, requestURLs[index], resp)
	})
	if err != nil {
		return nil, err
	}

	var flat []*result.Handler
	for _, hs := range perResponse {
		flat = append(flat, hs...)
	}
	return flat, nil
}

func (e *Extractor) entryLinksFor(rule *ruleset.UnitExtractionRule) ([]string, error) {
	if len(rule.Links) > 0 {
		return rule.Links, nil
	}
	return e.EntryLinks(rule.Name)
}

func (e *Extractor) extractOneResponse(rule *ruleset.UnitExtractionRule, index int, sourceURL string, resp *http.Response) ([]*result.Handler, error) {
	ct := httpdriver.GetContentType(resp)
	if ct.Kind != httpdriver.KindText {
		e.Logger.Warn("extractor: skipping non-text response", map[string]any{
			"rule":         rule.Name,
			"source_url":   sourceURL,
			"content_kind": ct.Value,
		})
		return nil, nil
	}

	cookies, _ := httpdriver.RawCookies(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if rule.Extract == "" {
		return nil, nil
	}

	docs := engine.Narrow(string(body), rule.Parts)
	rootPath := result.BuildAbsPath(rule.LocalPathPtr(), rule.Name, index)
	return engine.Handlers(docs, rule.Extract, &rootPath, sourceURL, cookies), nil
}

// handleResults builds one download request per "store" value across
// handlers, runs them, and writes each response body to disk. The on-disk
// path is rootPath + a per-handler sequence number + an extension derived
// from the response's content type.
func (e *Extractor) handleResults(rule *ruleset.UnitExtractionRule, handlers []*result.Handler) error {
	conn := httpdriver.New(e.PoolSize)

	postProcedureName := rule.PostProcedureName()

	pathByIndex := make(map[int]string)
	keyIndex := 0

	for _, h := range handlers {
		stores, ok := h.GetResult(engine.LabelStore.String())
		if !ok {
			continue
		}

		procedure := e.GetProcedure(postProcedureName, h)

		orderIndex := 0
		for _, link := range stores {
			path := ""
			if h.RootPath != nil {
				path = *h.RootPath
			}
			path += strconv.Itoa(orderIndex)

			req, err := procedure.BuildRequest(link)
			if err != nil {
				return fmt.Errorf("build store request %q: %w", link, err)
			}

			pathByIndex[keyIndex] = path
			conn.Add(req)

			orderIndex++
			keyIndex++
		}
	}

	_, err := httpdriver.RunAll(conn, func(index int, resp *http.Response) (struct{}, error) {
		return struct{}{}, e.saveResponse(pathByIndex[index], resp)
	})
	return err
}

func (e *Extractor) saveResponse(path string, resp *http.Response) error {
	ct := httpdriver.GetContentType(resp)
	ext := ct.Value
	if ct.Kind == httpdriver.KindOthers {
		ext = "unknown"
	}

	fileName := path + "." + ext

	if err := os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		return fmt.Errorf("create directory for %q: %w", fileName, err)
	}

	f, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("create file %q: %w", fileName, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("write file %q: %w", fileName, err)
	}

	if e.OnAssetSaved != nil {
		e.OnAssetSaved(resp.Request.URL.String(), fileName)
	}
	return nil
}

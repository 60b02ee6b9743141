package navigator

import (
	"fmt"
	"io"
	"net/http"

	"github.com/cruler-project/cruler/internal/engine"
	"github.com/cruler-project/cruler/internal/httpdriver"
	"github.com/cruler-project/cruler/internal/logx"
	"github.com/cruler-project/cruler/internal/result"
	"github.com/cruler-project/cruler/internal/ruleset"
)

// PagerFactory resolves a rule's pager-name (possibly "") to a concrete
// Pager. Supplied by internal/sitepolicy so this package has no knowledge of
// the closed set of named implementations.
type PagerFactory func(name string) Pager

// Navigator drives one navigation rule end to end: normalize the entry URL,
// repeatedly fetch a batch of pages, narrow+extract both the content and
// pager pipelines for each response, feed the pager pipeline back into the
// Pager to discover more pages, and accumulate every page's collected links
// into one ordered result (follow-up page links are deduplicated; collected
// links are kept as found, duplicates included). Grounded on
// original_source/src/connector/navigator/mod.rs::navigate.
type Navigator struct {
	PoolSize int
	GetPager PagerFactory
	Logger   *logx.Logger
}

// New builds a Navigator. A nil logger disables logging.
func New(poolSize int, getPager PagerFactory, logger *logx.Logger) *Navigator {
	if logger == nil {
		logger, _ = logx.New("", logx.LevelInfo, false)
	}
	return &Navigator{PoolSize: poolSize, GetPager: getPager, Logger: logger}
}

// pageOutcome is what one response in a batch contributes: its content- and
// pager-pipeline handlers, each carrying the response's own source URL.
type pageOutcome struct {
	contentHandlers []*result.Handler
	pagerHandlers   []*result.Handler
}

// Navigate runs rule's navigation algorithm (§4.4) and returns the ordered
// deque of links it collected, ready for the Extractor to consume.
func (n *Navigator) Navigate(rule *ruleset.UnitNavigationRule) ([]string, error) {
	pagerName := ""
	if rule.Pager != nil {
		pagerName = rule.Pager.Pager
	}
	pager := n.GetPager(pagerName)

	conn := httpdriver.New(n.PoolSize)

	entryURL, err := pager.NormalizeEntry(rule.Entry)
	if err != nil {
		return nil, fmt.Errorf("navigator: normalize entry: %w", err)
	}
	pager.SetRequested(entryURL)

	req, err := http.NewRequest(http.MethodGet, entryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("navigator: build entry request: %w", err)
	}
	conn.Add(req)

	var collected []string

	for pager.HasNext() {
		outcomes, err := httpdriver.RunAll(conn, func(index int, resp *http.Response) (pageOutcome, error) {
			return n.handleResponse(rule, resp)
		})
		if err != nil {
			return nil, fmt.Errorf("navigator: rule %q: %w", rule.Name, err)
		}

		for _, outcome := range outcomes {
			nextReqs, err := pager.MakeNextRequests(outcome.pagerHandlers)
			if err != nil {
				return nil, fmt.Errorf("navigator: rule %q: make next requests: %w", rule.Name, err)
			}
			conn.AddAll(nextReqs)

			links, err := pager.CollectOrdered(engine.LabelCollect.String(), outcome.contentHandlers)
			if err != nil {
				return nil, fmt.Errorf("navigator: rule %q: collect: %w", rule.Name, err)
			}
			collected = mergeOrdering(collected, links, pager.Ordering())
		}
	}

	return collected, nil
}

// handleResponse narrows+extracts both pipelines for one response. A
// non-text response is logged and skipped (contributes nothing) rather than
// failing the whole batch — only transport-level failures (handled inside
// httpdriver.RunAll itself) abort a batch.
func (n *Navigator) handleResponse(rule *ruleset.UnitNavigationRule, resp *http.Response) (pageOutcome, error) {
	sourceURL := resp.Request.URL.String()

	ct := httpdriver.GetContentType(resp)
	if ct.Kind != httpdriver.KindText {
		n.Logger.Warn("navigator: skipping non-text response", map[string]any{
			"rule":         rule.Name,
			"source_url":   sourceURL,
			"content_kind": ct.Value,
		})
		return pageOutcome{}, nil
	}

	cookies, _ := httpdriver.RawCookies(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return pageOutcome{}, fmt.Errorf("read body: %w", err)
	}
	content := string(body)

	var contentHandlers []*result.Handler
	if rule.Extract != "" {
		docs := engine.Narrow(content, rule.Parts)
		contentHandlers = engine.Handlers(docs, rule.Extract, nil, sourceURL, cookies)
	}

	var pagerHandlers []*result.Handler
	if rule.Pager != nil {
		docs := engine.Narrow(content, rule.Pager.Parts)
		pagerHandlers = engine.Handlers(docs, rule.Pager.Extract, nil, sourceURL, cookies)
	}

	return pageOutcome{contentHandlers: contentHandlers, pagerHandlers: pagerHandlers}, nil
}

// mergeOrdering folds one page's collected links (src) into the
// accumulating deque (dst) per ordering. Ascending appends; Descending
// prepends src as a whole block, preserving its internal order — see
// SPEC_FULL.md Open Questions #2a for why this departs from a literal,
// per-element port of the reference implementation's merge_vec.
func mergeOrdering(dst, src []string, ordering Ordering) []string {
	if ordering == Descending {
		merged := make([]string, 0, len(src)+len(dst))
		merged = append(merged, src...)
		merged = append(merged, dst...)
		return merged
	}
	return append(dst, src...)
}

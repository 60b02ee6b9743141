// Package navigator drives pager state machines, iteratively fetching
// pages and collecting an ordered deque of entry links for the Extractor to
// consume (duplicate collected links are kept). Grounded on
// original_source/src/connector/navigator/mod.rs.
package navigator

import (
	"net/http"

	"github.com/cruler-project/cruler/internal/result"
)

// Ordering controls how one page's collected links merge into the
// accumulating deque across pages.
type Ordering int

const (
	// Ascending appends each page's links at the tail — output preserves
	// page order.
	Ascending Ordering = iota
	// Descending prepends each page's links at the head as one block,
	// keeping their in-page order, so later pages come before earlier ones.
	Descending
)

// Pager is the site-policy plug-in surface driving multi-page traversal
// (§4.6). Implementations are stateful and owned single-threadedly by one
// Navigator driver loop.
type Pager interface {
	// NormalizeEntry adjusts the rule's seed URL before the first request
	// (e.g. injecting a default page number).
	NormalizeEntry(entryURL string) (string, error)
	// IsRequested reports whether link's canonical form has already been
	// recorded as requested.
	IsRequested(link string) bool
	// SetRequested records link's canonical form as requested.
	SetRequested(link string)
	// HasNext reports whether the pager expects more pages to fetch.
	HasNext() bool
	// MakeNextRequests inspects a page's pager-pipeline handlers, enqueues
	// GET requests for unseen "link" values, and latches HasNext false once
	// a page fails to show a "next" type marker.
	MakeNextRequests(pagerHandlers []*result.Handler) ([]*http.Request, error)
	// CollectOrdered extracts label's values from handlers, resolving each
	// through its own handler's MakeRequestableURI.
	CollectOrdered(label string, handlers []*result.Handler) ([]string, error)
	// Ordering reports how this pager's per-page results should merge into
	// the accumulating output deque.
	Ordering() Ordering
}

// DefaultPager is the no-op fallback used when a rule names no pager, or
// names one the site-policy registry doesn't recognize. It performs exactly
// one page fetch (the entry) and reports no further pages: a pager that
// never enqueues follow-up requests must still terminate (§7 "pager loops
// never infinite-loop"), so HasNext flips false the first time
// MakeNextRequests runs rather than staying true forever.
type DefaultPager struct {
	done bool
}

// NewDefaultPager constructs a fresh DefaultPager.
func NewDefaultPager() *DefaultPager {
	return &DefaultPager{}
}

func (p *DefaultPager) NormalizeEntry(entryURL string) (string, error) {
	return entryURL, nil
}

func (p *DefaultPager) IsRequested(link string) bool {
	return false
}

func (p *DefaultPager) SetRequested(link string) {}

func (p *DefaultPager) HasNext() bool {
	return !p.done
}

func (p *DefaultPager) MakeNextRequests(pagerHandlers []*result.Handler) ([]*http.Request, error) {
	p.done = true
	return nil, nil
}

func (p *DefaultPager) CollectOrdered(label string, handlers []*result.Handler) ([]string, error) {
	var out []string
	for _, h := range handlers {
		values, ok := h.GetResult(label)
		if !ok {
			continue
		}
		for _, link := range values {
			resolved, err := h.MakeRequestableURI(link)
			if err != nil {
				return nil, err
			}
			out = append(out, resolved)
		}
	}
	return out, nil
}

func (p *DefaultPager) Ordering() Ordering {
	return Ascending
}

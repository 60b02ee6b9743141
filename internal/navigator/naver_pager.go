package navigator

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/cruler-project/cruler/internal/engine"
	"github.com/cruler-project/cruler/internal/result"
)

// NaverWebtoonPager is the site-policy pager for comic.naver.com-shaped
// pagination: numbered "page" query parameter, reverse-chronological
// (Descending) ordering, and a "next" type marker on the pager-pipeline
// results that signals more pages remain. Grounded on
// original_source/src/connector/navigator/specific_pager.rs.
type NaverWebtoonPager struct {
	requested map[string]struct{}
	hasNext   bool
}

// NewNaverWebtoonPager constructs a fresh NaverWebtoonPager.
func NewNaverWebtoonPager() *NaverWebtoonPager {
	return &NaverWebtoonPager{
		requested: make(map[string]struct{}),
		hasNext:   true,
	}
}

// NormalizeEntry injects page=1 into entryURL's query if it has no "page"
// parameter; a URL that already names a page is returned unchanged.
func (p *NaverWebtoonPager) NormalizeEntry(entryURL string) (string, error) {
	u, err := url.Parse(entryURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	if q.Get("page") != "" {
		return entryURL, nil
	}
	q.Set("page", "1")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// IsRequested checks link's RAW form (as literally captured from a page,
// typically still HTML-entity-escaped) against history. This mirrors the
// reference implementation precisely: SetRequested canonicalizes (strips
// scheme/authority, then HTML-escapes) before inserting, while the
// follow-link dedup inside MakeNextRequests inserts the raw captured string
// as-is. Both paths share one history set, which works in practice because
// a normalized, escaped entry URL and a raw relative href captured from the
// page body end up in the same shape (escaped, schemeless, hostless).
func (p *NaverWebtoonPager) IsRequested(link string) bool {
	_, ok := p.requested[link]
	return ok
}

// SetRequested canonicalizes link (strip scheme/authority, then escape) and
// records it as requested.
func (p *NaverWebtoonPager) SetRequested(link string) {
	p.requested[canonicalize(link)] = struct{}{}
}

func (p *NaverWebtoonPager) insertRaw(link string) {
	p.requested[link] = struct{}{}
}

func (p *NaverWebtoonPager) HasNext() bool {
	return p.hasNext
}

// MakeNextRequests enqueues GET requests for unseen "link" values across
// one page's pagerHandlers and latches HasNext false when no handler of
// that page has "next" among its "type" results — once latched false it
// never flips back true.
func (p *NaverWebtoonPager) MakeNextRequests(pagerHandlers []*result.Handler) ([]*http.Request, error) {
	var out []*http.Request
	isNextShown := false

	for _, h := range pagerHandlers {
		if links, ok := h.GetResult(engine.LabelLink.String()); ok {
			for _, link := range links {
				if p.IsRequested(link) {
					continue
				}
				decoded := decodeEscapeChar(link)
				requestable, err := h.MakeRequestableURI(decoded)
				if err != nil {
					return nil, err
				}
				req, err := http.NewRequest(http.MethodGet, requestable, nil)
				if err != nil {
					return nil, err
				}
				out = append(out, req)
				p.insertRaw(link)
			}
		}

		if types, ok := h.GetResult(engine.LabelType.String()); ok {
			for _, t := range types {
				if t == "next" {
					isNextShown = true
				}
			}
		}
	}

	p.hasNext = p.hasNext && isNextShown
	return out, nil
}

// CollectOrdered mirrors DefaultPager's behavior: resolve every "collect"
// value on each handler through that handler's MakeRequestableURI.
func (p *NaverWebtoonPager) CollectOrdered(label string, handlers []*result.Handler) ([]string, error) {
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

func (p *NaverWebtoonPager) Ordering() Ordering {
	return Descending
}

// canonicalize strips scheme+authority from link (if absolute) and applies
// the fixed-order HTML escape substitution.
func canonicalize(link string) string {
	relative := relativeURIString(link)
	return encodeEscapeChar(relative)
}

func relativeURIString(link string) string {
	u, err := url.Parse(link)
	if err != nil || !u.IsAbs() {
		return link
	}
	rebuilt := u.Path
	if u.RawQuery != "" {
		rebuilt += "?" + u.RawQuery
	}
	return rebuilt
}

// encodeEscapeChar applies the fixed-order &/</>/"/ ' -> entity substitution.
func encodeEscapeChar(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}

// decodeEscapeChar reverses encodeEscapeChar.
func decodeEscapeChar(s string) string {
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", "\"")
	s = strings.ReplaceAll(s, "&apos;", "'")
	return s
}

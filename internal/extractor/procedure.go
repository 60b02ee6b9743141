// Package extractor drives the entry→content→store pipeline (§4.5): fetch
// every entry link, narrow+extract content handlers from each response, then
// build and run one download request per "store" value through a
// site-policy Procedure, writing each response body to disk. Grounded on
// original_source/src/connector/extractor/mod.rs.
package extractor

import (
	"net/http"
	"net/url"

	"github.com/cruler-project/cruler/internal/result"
)

// Procedure is the site-policy plug-in surface for building a download
// request out of one "store" link, given the result.Handler that produced
// it (for cookie replay and relative-link resolution).
type Procedure interface {
	BuildRequest(link string) (*http.Request, error)
}

// DefaultProcedure replays the handler's raw cookies (if any) on the
// request's "Set-Cookie" header — matching the reference implementation's
// header name choice exactly, odd as it is: it's a replay of a previously
// observed Set-Cookie value, not a client-side Cookie header.
type DefaultProcedure struct {
	handler *result.Handler
}

func NewDefaultProcedure(handler *result.Handler) *DefaultProcedure {
	return &DefaultProcedure{handler: handler}
}

func (p *DefaultProcedure) BuildRequest(link string) (*http.Request, error) {
	return buildRequest(p.handler, link)
}

// NaverWebtoonProcedure behaves like DefaultProcedure but additionally sets
// a Referer header equal to the source URL when that URL's host is exactly
// comic.naver.com, with or without cookies — needed because comic.naver.com's image CDN rejects
// requests without a same-site Referer.
type NaverWebtoonProcedure struct {
	handler *result.Handler
}

func NewNaverWebtoonProcedure(handler *result.Handler) *NaverWebtoonProcedure {
	return &NaverWebtoonProcedure{handler: handler}
}

func (p *NaverWebtoonProcedure) BuildRequest(link string) (*http.Request, error) {
	req, err := buildRequest(p.handler, link)
	if err != nil {
		return nil, err
	}

	sourceURL, ok := p.handler.GetExtra(result.ExtraSourceURL)
	if !ok {
		return req, nil
	}
	if sourceHost(sourceURL) == "comic.naver.com" {
		req.Header.Set("Referer", sourceURL)
	}
	return req, nil
}

func buildRequest(handler *result.Handler, link string) (*http.Request, error) {
	requestable, err := handler.MakeRequestableURI(link)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodGet, requestable, nil)
	if err != nil {
		return nil, err
	}
	if len(handler.RawCookies) > 0 {
		req.Header.Set("Set-Cookie", string(handler.RawCookies))
	}
	return req, nil
}

func sourceHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

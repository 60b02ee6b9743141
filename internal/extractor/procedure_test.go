package extractor

import (
	"testing"

	"github.com/cruler-project/cruler/internal/result"
)

func TestDefaultProcedureCookieReplay(t *testing.T) {
	h := result.NewHandler(nil, []byte("session=abc"))
	h.InsertExtra(result.ExtraSourceURL, "http://example.com/page")

	p := NewDefaultProcedure(h)
	req, err := p.BuildRequest("/image.png")
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}
	if got := req.Header.Get("Set-Cookie"); got != "session=abc" {
		t.Fatalf("Set-Cookie header = %q, want %q (preserved replay quirk)", got, "session=abc")
	}
}

func TestDefaultProcedureNoCookies(t *testing.T) {
	h := result.NewHandler(nil, nil)
	h.InsertExtra(result.ExtraSourceURL, "http://example.com/page")

	p := NewDefaultProcedure(h)
	req, err := p.BuildRequest("/image.png")
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}
	if got := req.Header.Get("Set-Cookie"); got != "" {
		t.Fatalf("Set-Cookie header = %q, want empty", got)
	}
}

func TestNaverWebtoonProcedureSetsRefererOnMatchingHost(t *testing.T) {
	h := result.NewHandler(nil, []byte("a=1"))
	h.InsertExtra(result.ExtraSourceURL, "http://comic.naver.com/webtoon/detail")

	p := NewNaverWebtoonProcedure(h)
	req, err := p.BuildRequest("/image.jpg")
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}
	if got := req.Header.Get("Referer"); got != "http://comic.naver.com/webtoon/detail" {
		t.Fatalf("Referer header = %q, want source url", got)
	}
}

func TestNaverWebtoonProcedureNoRefererOnOtherHost(t *testing.T) {
	h := result.NewHandler(nil, []byte("a=1"))
	h.InsertExtra(result.ExtraSourceURL, "http://other.example/page")

	p := NewNaverWebtoonProcedure(h)
	req, err := p.BuildRequest("/image.jpg")
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}
	if got := req.Header.Get("Referer"); got != "" {
		t.Fatalf("Referer header = %q, want empty on non-naver host", got)
	}
}

func TestNaverWebtoonProcedureSetsRefererWithoutCookies(t *testing.T) {
	h := result.NewHandler(nil, nil)
	h.InsertExtra(result.ExtraSourceURL, "http://comic.naver.com/webtoon/detail")

	p := NewNaverWebtoonProcedure(h)
	req, err := p.BuildRequest("/image.jpg")
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}
	if got := req.Header.Get("Referer"); got != "http://comic.naver.com/webtoon/detail" {
		t.Fatalf("Referer header = %q, want source url even when no cookies observed", got)
	}
}

func TestSourceHost(t *testing.T) {
	if got := sourceHost("http://comic.naver.com:443/a"); got != "comic.naver.com" {
		t.Fatalf("sourceHost() = %q, want comic.naver.com", got)
	}
	if got := sourceHost("://not a url"); got != "" {
		t.Fatalf("sourceHost() on unparsable input = %q, want empty", got)
	}
}

package httpdriver

import (
	"net/http"
	"testing"
)

func resp(headers ...string) *http.Response {
	h := make(http.Header)
	for _, v := range headers {
		h.Add("Content-Type", v)
	}
	return &http.Response{Header: h}
}

func TestGetContentTypeImage(t *testing.T) {
	ct := GetContentType(resp("image/png"))
	if ct.Kind != KindImage || ct.Value != "png" {
		t.Fatalf("GetContentType() = %+v, want Image(png)", ct)
	}
}

func TestGetContentTypeTextWithCharset(t *testing.T) {
	ct := GetContentType(resp("text/html; charset=utf-8"))
	if ct.Kind != KindText || ct.Value != "html" {
		t.Fatalf("GetContentType() = %+v, want Text(html)", ct)
	}
}

func TestGetContentTypeMissing(t *testing.T) {
	ct := GetContentType(resp())
	if ct.Kind != KindOthers || ct.Value != "no content-type" {
		t.Fatalf("GetContentType() = %+v, want Others(no content-type)", ct)
	}
}

func TestGetContentTypeMultipleValues(t *testing.T) {
	ct := GetContentType(resp("text/html", "application/json"))
	if ct.Kind != KindOthers || ct.Value != "content-type is more than 2" {
		t.Fatalf("GetContentType() = %+v, want the multi-value Others case", ct)
	}
}

func TestGetContentTypeOther(t *testing.T) {
	ct := GetContentType(resp("application/pdf"))
	if ct.Kind != KindOthers || ct.Value != "application/pdf" {
		t.Fatalf("GetContentType() = %+v, want Others(application/pdf)", ct)
	}
}

func TestRawCookies(t *testing.T) {
	r := resp("text/html")
	r.Header.Set("Set-Cookie", "session=abc; Path=/")

	cookies, ok := RawCookies(r)
	if !ok || string(cookies) != "session=abc; Path=/" {
		t.Fatalf("RawCookies() = %q, ok=%v", cookies, ok)
	}
}

func TestRawCookiesAbsent(t *testing.T) {
	if _, ok := RawCookies(resp("text/html")); ok {
		t.Fatal("RawCookies() should report ok=false when header is absent")
	}
}

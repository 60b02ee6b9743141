package httpdriver

import (
	"net/http"
	"strings"
)

// ContentTypeKind tags a response's Content-Type header into the three
// buckets the rest of the system cares about.
type ContentTypeKind int

const (
	KindImage ContentTypeKind = iota
	KindText
	KindOthers
)

// ContentType is the tagged {Image(ext), Text(ext), Others(raw)} union from
// §4.2: ext is the subtype token after "/" in the header value.
type ContentType struct {
	Kind  ContentTypeKind
	Value string // extension token for Image/Text, raw descriptor for Others
}

func imageType(ext string) ContentType  { return ContentType{Kind: KindImage, Value: ext} }
func textType(ext string) ContentType   { return ContentType{Kind: KindText, Value: ext} }
func othersType(raw string) ContentType { return ContentType{Kind: KindOthers, Value: raw} }

// GetContentType inspects resp's Content-Type header(s) and tags the
// response. A missing header yields Others("no content-type"); more than
// one value yields Others("content-type is more than 2"), matching the
// reference implementation's header-count check.
func GetContentType(resp *http.Response) ContentType {
	values := resp.Header.Values("Content-Type")

	if len(values) == 0 {
		return othersType("no content-type")
	}
	if len(values) > 1 {
		return othersType("content-type is more than 2")
	}

	return contentTypeFromString(values[0])
}

func contentTypeFromString(contentType string) ContentType {
	switch {
	case strings.HasPrefix(contentType, "image"):
		return imageType(subtype(contentType))
	case strings.HasPrefix(contentType, "text"):
		return textType(subtype(contentType))
	default:
		return othersType(contentType)
	}
}

// subtype returns the token after "/" in a content-type header value,
// stripping any ";charset=..." style parameters and matching the
// reference's split-on-"/" extraction (image/jpeg, text/html, ...).
func subtype(contentType string) string {
	parts := strings.SplitN(contentType, "/", 2)
	if len(parts) < 2 {
		return ""
	}
	sub := parts[1]
	if idx := strings.Index(sub, ";"); idx != -1 {
		sub = sub[:idx]
	}
	return strings.TrimSpace(sub)
}

// RawCookies returns the raw bytes of the Set-Cookie header, if present.
func RawCookies(resp *http.Response) ([]byte, bool) {
	v := resp.Header.Get("Set-Cookie")
	if v == "" {
		return nil, false
	}
	return []byte(v), true
}

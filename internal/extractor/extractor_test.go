package extractor

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/cruler-project/cruler/internal/logx"
	"github.com/cruler-project/cruler/internal/result"
	"github.com/cruler-project/cruler/internal/ruleset"
)

func TestExtractDownloadsStoreLinksAndNotifiesCallback(t *testing.T) {
	var assetPath string
	assetServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("fake-image-bytes"))
	}))
	defer assetServer.Close()

	entryServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<img src="%s/asset.png">`, assetServer.URL)
	}))
	defer entryServer.Close()

	tmp := t.TempDir()
	rule := &ruleset.UnitExtractionRule{
		Name:      "gallery",
		Links:     []string{entryServer.URL},
		LocalPath: tmp + string(filepath.Separator),
		Extract:   `src="(?P<store>[^"]+)"`,
	}

	logger, _ := logx.New("", logx.LevelInfo, false)
	getProcedure := func(name string, h *result.Handler) Procedure { return NewDefaultProcedure(h) }
	noEntryLinks := func(string) ([]string, error) { return nil, fmt.Errorf("no navigation rule in this test") }

	ext := New(2, getProcedure, noEntryLinks, logger)
	var savedSource, savedPath string
	ext.OnAssetSaved = func(sourceURL, localPath string) {
		savedSource, savedPath = sourceURL, localPath
	}

	if err := ext.Extract(rule); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if savedSource != assetServer.URL+"/asset.png" {
		t.Fatalf("OnAssetSaved source = %q, want %q", savedSource, assetServer.URL+"/asset.png")
	}
	assetPath = savedPath
	if _, err := os.Stat(assetPath); err != nil {
		t.Fatalf("expected saved file at %q: %v", assetPath, err)
	}
	data, err := os.ReadFile(assetPath)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "fake-image-bytes" {
		t.Fatalf("saved file contents = %q, want %q", data, "fake-image-bytes")
	}
	if filepath.Ext(assetPath) != ".png" {
		t.Fatalf("saved file extension = %q, want .png", filepath.Ext(assetPath))
	}
}

func TestExtractUsesRuleLinksWithoutEntryLinksCallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("no store links here"))
	}))
	defer srv.Close()

	rule := &ruleset.UnitExtractionRule{
		Name:    "no-store",
		Links:   []string{srv.URL},
		Extract: `(?P<store>never-matches-\d+)`,
	}

	logger, _ := logx.New("", logx.LevelInfo, false)
	getProcedure := func(name string, h *result.Handler) Procedure { return NewDefaultProcedure(h) }
	neverCalled := func(string) ([]string, error) {
		t.Fatal("EntryLinks should not be called when rule.Links is set")
		return nil, nil
	}

	ext := New(2, getProcedure, neverCalled, logger)
	if err := ext.Extract(rule); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
}

package sitepolicy

import (
	"testing"

	"github.com/cruler-project/cruler/internal/extractor"
	"github.com/cruler-project/cruler/internal/navigator"
	"github.com/cruler-project/cruler/internal/result"
)

func TestGetPagerDispatch(t *testing.T) {
	if _, ok := GetPager(NaverWebtoon).(*navigator.NaverWebtoonPager); !ok {
		t.Fatalf("GetPager(%q) did not return a NaverWebtoonPager", NaverWebtoon)
	}
	if _, ok := GetPager("unknown-site").(*navigator.DefaultPager); !ok {
		t.Fatal("GetPager() for an unrecognized name should fall back to DefaultPager")
	}
	if _, ok := GetPager("").(*navigator.DefaultPager); !ok {
		t.Fatal("GetPager(\"\") should fall back to DefaultPager")
	}
}

func TestGetProcedureDispatch(t *testing.T) {
	h := result.NewHandler(nil, nil)

	if _, ok := GetProcedure(NaverWebtoon, h).(*extractor.NaverWebtoonProcedure); !ok {
		t.Fatalf("GetProcedure(%q) did not return a NaverWebtoonProcedure", NaverWebtoon)
	}
	if _, ok := GetProcedure("unknown-site", h).(*extractor.DefaultProcedure); !ok {
		t.Fatal("GetProcedure() for an unrecognized name should fall back to DefaultProcedure")
	}
}

// Package sitepolicy is the closed-set registry of site-specific plug-ins:
// a rule names a pager or procedure by string, and this package is the only
// place that string gets resolved to a concrete implementation. Grounded on
// original_source/src/connector/navigator/specific_pager.rs (pager naming)
// and extraction_rules.rs::ProcedureRule::procedure_name (procedure naming).
package sitepolicy

import (
	"github.com/cruler-project/cruler/internal/extractor"
	"github.com/cruler-project/cruler/internal/navigator"
	"github.com/cruler-project/cruler/internal/result"
)

// NaverWebtoon is the one named site policy besides the default, matching
// the reference implementation's closed two-member enum.
const NaverWebtoon = "naver-webtoon"

// GetPager resolves a navigation rule's pager-name to a Pager. Any name
// other than NaverWebtoon — including "" — falls back to DefaultPager.
func GetPager(name string) navigator.Pager {
	switch name {
	case NaverWebtoon:
		return navigator.NewNaverWebtoonPager()
	default:
		return navigator.NewDefaultPager()
	}
}

// GetProcedure resolves an extraction rule's post-procedure name to a
// Procedure bound to handler. Any name other than NaverWebtoon — including
// "" — falls back to DefaultProcedure.
func GetProcedure(name string, handler *result.Handler) extractor.Procedure {
	switch name {
	case NaverWebtoon:
		return extractor.NewNaverWebtoonProcedure(handler)
	default:
		return extractor.NewDefaultProcedure(handler)
	}
}

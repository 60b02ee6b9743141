package engine

import "github.com/cruler-project/cruler/internal/result"

// Handlers builds one result.Handler per document in docs, capturing every
// named group of extractRule within that document. rootPath, sourceURL and
// cookies are copied onto every produced handler; extras[SourceUrl] is
// always set to sourceURL.
func Handlers(docs []string, extractRule string, rootPath *string, sourceURL string, cookies []byte) []*result.Handler {
	labels := FindLabels(extractRule)

	out := make([]*result.Handler, 0, len(docs))
	for _, doc := range docs {
		h := result.NewHandler(rootPath, cookies)
		for _, label := range labels {
			h.InsertResult(label, Matches(doc, extractRule, label))
		}
		h.InsertExtra(result.ExtraSourceURL, sourceURL)
		out = append(out, h)
	}
	return out
}

package engine

// Narrow runs content through the staged narrowing pipeline described by
// parts, one regex per stage. The output of stage k (everything captured
// under the reserved "part" label) becomes the input document set for
// stage k+1.
//
// Faithfully preserves a quirk of the reference implementation
// (original_source/src/configure/mod.rs::make_part_contents): within a
// stage, the per-label capture map is rebuilt once per input document and
// simply overwritten on each iteration, so only the LAST document's "part"
// captures survive into the next stage — earlier documents in the same
// stage are silently discarded rather than unioned together. This is
// preserved deliberately; see SPEC_FULL.md Open Questions #1.
func Narrow(content string, parts []string) []string {
	docs := []string{content}

	for _, stagePattern := range parts {
		labels := FindLabels(stagePattern)

		labelMatches := make(map[string][]string, len(labels))
		for _, doc := range docs {
			for _, label := range labels {
				labelMatches[label] = Matches(doc, stagePattern, label)
			}
		}

		docs = labelMatches[string(LabelPart)]
	}

	return docs
}

package engine

import "regexp"

// FindLabels returns every named capture group in pattern, in source order.
// Regex compilation failures are a rule-file bug and are fatal: callers that
// load rules at startup should let this panic surface immediately rather
// than limp along with a broken rule.
func FindLabels(pattern string) []string {
	re := regexp.MustCompile(pattern)
	names := re.SubexpNames()

	labels := make([]string, 0, len(names))
	for _, name := range names[1:] {
		if name == "" {
			continue
		}
		labels = append(labels, name)
	}
	return labels
}

// Matches returns every captured substring of label across all matches of
// pattern in content. A match that doesn't participate in the named group
// (e.g. an alternation branch that skips it) is silently excluded — that is
// not an error condition per the rule engine's design.
func Matches(content, pattern, label string) []string {
	re := regexp.MustCompile(pattern)
	groupIndex := -1
	for i, name := range re.SubexpNames() {
		if name == label {
			groupIndex = i
			break
		}
	}
	if groupIndex == -1 {
		return nil
	}

	var out []string
	for _, idx := range re.FindAllStringSubmatchIndex(content, -1) {
		start, end := idx[2*groupIndex], idx[2*groupIndex+1]
		if start == -1 || end == -1 {
			continue
		}
		out = append(out, content[start:end])
	}
	return out
}

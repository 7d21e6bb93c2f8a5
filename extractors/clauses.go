package extractors

import (
	"regexp"
	"strings"
)

// bulletSplitter trennt Listen, die mit "-" oder "•" aufgezählt sind.
var bulletSplitter = regexp.MustCompile(`[-•]\s*`)

// splitListItems zerlegt einen Abschnittstext in einzelne Einträge:
// zuerst über Aufzählungszeichen, sonst über Kommata. Leere Einträge fallen weg.
func splitListItems(text string) []string {
	var parts []string
	if bulletSplitter.MatchString(text) {
		parts = bulletSplitter.Split(text, -1)
	} else {
		parts = strings.Split(text, ",")
	}
	var items []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// splitCommaOrPeriod zerlegt einen Satz bevorzugt an Kommata, sonst an Punkten.
func splitCommaOrPeriod(text string) []string {
	sep := "."
	if strings.Contains(text, ",") {
		sep = ","
	}
	var items []string
	for _, p := range strings.Split(text, sep) {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// containsAnyFold prüft case-insensitiv, ob einer der Begriffe im Text vorkommt.
func containsAnyFold(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// compileClauseRegexps baut für jedes Label ein Muster "label … :|; Text bis zum Punkt".
// Die Muster laufen über bereits kleingeschriebenen Text.
func compileClauseRegexps(labels []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(labels))
	for _, label := range labels {
		res = append(res, regexp.MustCompile(`(?s)`+regexp.QuoteMeta(label)+`.*?[:;]([^.]+)`))
	}
	return res
}

// firstClause liefert die erste Clause, die eines der vorkompilierten Muster
// im (kleingeschriebenen) Text findet.
func firstClause(lowerText string, res []*regexp.Regexp, labels []string) string {
	for i, re := range res {
		if !strings.Contains(lowerText, labels[i]) {
			continue
		}
		if m := re.FindStringSubmatch(lowerText); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

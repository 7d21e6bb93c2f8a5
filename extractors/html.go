package extractors

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Flatten entfernt script/style aus einem HTML-Dokument und gibt den
// Text mit normalisiertem Whitespace zurück: eine nicht-leere Phrase pro Zeile.
// Reiner Text (kein HTML) läuft unverändert durch dieselbe Aufbereitung.
func Flatten(content string) string {
	text := content
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
		doc.Find("script, style").Remove()
		text = doc.Text()
	}

	var chunks []string
	for _, line := range strings.Split(text, "\n") {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			if phrase = strings.TrimSpace(phrase); phrase != "" {
				chunks = append(chunks, phrase)
			}
		}
	}
	return strings.Join(chunks, "\n")
}

// hasContainerClass prüft, ob das Dokument ein div mit der gegebenen Klasse enthält.
func hasContainerClass(content, class string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return false
	}
	return doc.Find("div." + class).Length() > 0
}

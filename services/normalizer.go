package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiPunctuation entspricht string.punctuation und wird vollständig entfernt.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// TextNormalizer kanonisiert vietnamesischen Text für das Matching:
// Kleinschreibung, Diakritika-Faltung nach ASCII (inkl. đ→d), Ziffern und
// Satzzeichen raus. Korpus- und Query-Text laufen durch exakt dieselbe Routine.
type TextNormalizer struct{}

// NewTextNormalizer erstellt eine neue Instanz des Normalizers.
func NewTextNormalizer() *TextNormalizer {
	return &TextNormalizer{}
}

// Normalize ist idempotent und hat keine Fehlerfälle; leerer Input bleibt leer.
func (tn *TextNormalizer) Normalize(text string) string {
	text = strings.ToLower(text)

	// NFD-Zerlegung, kombinierende Markierungen entfernen, wieder zusammensetzen.
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(folder, text); err == nil {
		text = folded
	}

	return strings.Map(func(r rune) rune {
		switch {
		case r == 'đ':
			// đ trägt keine kombinierende Markierung und faltet nicht über NFD.
			return 'd'
		case unicode.IsDigit(r):
			return -1
		case strings.ContainsRune(asciiPunctuation, r):
			return -1
		}
		return r
	}, text)
}

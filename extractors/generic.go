package extractors

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

var (
	genericKeywords       = []string{"bệnh", "viêm", "nhiễm", "sốt", "hội chứng"}
	genericContagionTerms = []string{"lây", "truyền nhiễm", "vi khuẩn", "virus"}
)

// GenericExtractor ist der Fallback für unbekannte Seitenlayouts: alle
// Überschriftsebenen nach Krankheits-Keywords absuchen, der direkt folgende
// Absatz ist die Beschreibung.
type GenericExtractor struct {
	logger *zap.Logger
}

// NewGenericExtractor erstellt eine neue Instanz des generischen Extractors.
func NewGenericExtractor(logger *zap.Logger) *GenericExtractor {
	return &GenericExtractor{logger: logger}
}

// Name gibt den Namen des Extractors zurück.
func (e *GenericExtractor) Name() string {
	return "generic"
}

// Extract baut je Keyword-Überschrift einen Record mit minimalen Feldern.
func (e *GenericExtractor) Extract(content string) []Record {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}

	var records []Record
	doc.Find("h1, h2, h3, h4").Each(func(_ int, heading *goquery.Selection) {
		name := strings.TrimSpace(heading.Text())
		if name == "" || !containsAnyFold(name, genericKeywords) {
			return
		}

		description := ""
		if next := heading.Next(); next.Is("p") {
			description = strings.TrimSpace(next.Text())
		}

		// Ansteckungs-Flag aus den bis zu 3 folgenden Absätzen bestimmen.
		var context strings.Builder
		heading.NextAllFiltered("p").EachWithBreak(func(i int, p *goquery.Selection) bool {
			if i >= 3 {
				return false
			}
			context.WriteString(p.Text())
			context.WriteString(" ")
			return true
		})

		records = append(records, Record{
			Name:         name,
			Description:  description,
			IsContagious: containsAnyFold(context.String(), genericContagionTerms),
		})
		e.logger.Debug("Generischer Eintrag extrahiert", zap.String("name", name))
	})
	return records
}

package extractors

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

var (
	longchauKeywords = []string{
		"bệnh", "viêm", "đau", "cảm", "sốt", "tiểu đường", "tim mạch", "sỏi", "khớp",
	}
	longchauContagionTerms = []string{
		"lây", "truyền nhiễm", "virus", "vi khuẩn", "nhiễm trùng",
		"vi-rút", "nhiễm", "lây lan", "lây truyền",
	}

	longchauSymptomLabels    = []string{"triệu chứng", "biểu hiện", "dấu hiệu", "nhận biết"}
	longchauCauseLabels      = []string{"nguyên nhân", "do", "gây ra bởi", "gây ra do"}
	longchauPreventionLabels = []string{"phòng ngừa", "ngăn chặn", "phòng bệnh", "dự phòng", "giảm thiểu"}

	longchauSymptomRes    = compileClauseRegexps(longchauSymptomLabels)
	longchauCauseRes      = compileClauseRegexps(longchauCauseLabels)
	longchauPreventionRes = compileClauseRegexps(longchauPreventionLabels)
)

// LongChauExtractor parst Artikelseiten der Long-Châu-Apotheke: Überschriften
// (h2/h3/strong) mit Krankheits-Keywords, Beschreibung aus den folgenden
// Absätzen, Detailfelder über label-präfixierte Clause-Muster in der Beschreibung.
type LongChauExtractor struct {
	logger *zap.Logger
}

// NewLongChauExtractor erstellt eine neue Instanz des Long-Châu-Extractors.
func NewLongChauExtractor(logger *zap.Logger) *LongChauExtractor {
	return &LongChauExtractor{logger: logger}
}

// Name gibt den Namen des Extractors zurück.
func (e *LongChauExtractor) Name() string {
	return "longchau"
}

// Extract sucht den Artikel-Container (zwei Kandidaten-Klassen) und baut je
// Krankheitsüberschrift einen Record.
func (e *LongChauExtractor) Extract(content string) []Record {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}

	article := doc.Find("div.article-detail").First()
	if article.Length() == 0 {
		article = doc.Find("div.post-content").First()
	}
	if article.Length() == 0 {
		e.logger.Debug("Kein Artikel-Container gefunden")
		return nil
	}

	var records []Record
	article.Find("h2, h3, strong").Each(func(_ int, heading *goquery.Selection) {
		name := strings.TrimSpace(heading.Text())
		if name == "" || !containsAnyFold(name, longchauKeywords) {
			return
		}

		description := followingParagraphs(heading)
		lower := strings.ToLower(description)

		rec := Record{
			Name:         name,
			Description:  description,
			Causes:       firstClause(lower, longchauCauseRes, longchauCauseLabels),
			IsContagious: containsAnyFold(description, longchauContagionTerms),
		}
		if clause := firstClause(lower, longchauSymptomRes, longchauSymptomLabels); clause != "" {
			rec.Symptoms = splitCommaOrPeriod(clause)
		}
		if clause := firstClause(lower, longchauPreventionRes, longchauPreventionLabels); clause != "" {
			rec.Preventions = splitCommaOrPeriod(clause)
		}

		records = append(records, rec)
		e.logger.Debug("Long-Châu-Eintrag extrahiert", zap.String("name", name))
	})
	return records
}

// followingParagraphs sammelt die p/div-Geschwister nach einer Überschrift ein,
// bis die nächste Überschrift (h2/h3/strong) beginnt.
func followingParagraphs(heading *goquery.Selection) string {
	var desc strings.Builder
	for sib := heading.Next(); sib.Length() > 0; sib = sib.Next() {
		if !sib.Is("p") && !sib.Is("div") {
			break
		}
		if sib.Find("h2, h3, strong").Length() > 0 {
			break
		}
		if text := strings.TrimSpace(sib.Text()); text != "" {
			desc.WriteString(text)
			desc.WriteString(" ")
		}
	}
	return strings.TrimSpace(desc.String())
}

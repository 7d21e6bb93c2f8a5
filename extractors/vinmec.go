package extractors

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

var (
	vinmecKeywords       = []string{"bệnh", "viêm", "nhiễm", "sốt", "hội chứng"}
	vinmecContagionTerms = []string{"lây", "truyền nhiễm", "vi khuẩn", "virus"}
	vinmecSymptomLabelRe = regexp.MustCompile(`(?i)triệu chứng|biểu hiện`)
)

// VinmecExtractor parst Vinmec-Artikelseiten: bekannter Content-Container,
// Krankheitsnamen aus h2/h3-Unterüberschriften, Beschreibung aus den
// direkt folgenden Absätzen.
type VinmecExtractor struct {
	logger *zap.Logger
}

// NewVinmecExtractor erstellt eine neue Instanz des Vinmec-Extractors.
func NewVinmecExtractor(logger *zap.Logger) *VinmecExtractor {
	return &VinmecExtractor{logger: logger}
}

// Name gibt den Namen des Extractors zurück.
func (e *VinmecExtractor) Name() string {
	return "vinmec"
}

// Extract enumeriert die Unterüberschriften des Containers und baut je Treffer
// einen Record. Fehlt der Container, ist das Ergebnis leer, kein Fehler.
func (e *VinmecExtractor) Extract(content string) []Record {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}

	article := doc.Find("div.detail-content").First()
	if article.Length() == 0 {
		return nil
	}

	// Die Symptomliste folgt einem Label-Element auf Artikelebene.
	symptoms := labeledSiblingList(article, vinmecSymptomLabelRe)

	var records []Record
	article.Find("h2, h3").Each(func(_ int, heading *goquery.Selection) {
		name := strings.TrimSpace(heading.Text())
		if !containsAnyFold(name, vinmecKeywords) {
			return
		}

		var desc strings.Builder
		for sib := heading.Next(); sib.Length() > 0; sib = sib.Next() {
			if !sib.Is("p") && !sib.Is("div") && !sib.Is("ul") {
				break
			}
			if sib.Is("p") {
				desc.WriteString(strings.TrimSpace(sib.Text()))
				desc.WriteString(" ")
			}
		}
		description := strings.TrimSpace(desc.String())

		records = append(records, Record{
			Name:         name,
			Description:  description,
			Symptoms:     symptoms,
			IsContagious: containsAnyFold(description, vinmecContagionTerms),
		})
		e.logger.Debug("Vinmec-Eintrag extrahiert", zap.String("name", name))
	})
	return records
}

// labeledSiblingList sucht das erste Element, dessen Text auf das Label passt,
// und sammelt die Einträge der nächsten ul-Liste in Dokumentreihenfolge ein.
// Die Liste muss kein direktes Geschwisterelement sein.
func labeledSiblingList(container *goquery.Selection, labelRe *regexp.Regexp) []string {
	var items []string
	container.Find("h2, h3, h4, p, strong").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !labelRe.MatchString(sel.Text()) {
			return true
		}
		list := nextElement(sel.Nodes[0], "ul")
		if list == nil {
			return false
		}
		goquery.NewDocumentFromNode(list).Find("li").Each(func(_ int, li *goquery.Selection) {
			if text := strings.TrimSpace(li.Text()); text != "" {
				items = append(items, text)
			}
		})
		return false
	})
	return items
}

// nextElement liefert das nächste Element mit dem gegebenen Tag nach start in
// Dokumentreihenfolge.
func nextElement(start *html.Node, tag string) *html.Node {
	for n := nextNode(start); n != nil; n = nextNode(n) {
		if n.Type == html.ElementNode && n.Data == tag {
			return n
		}
	}
	return nil
}

// nextNode ist der Nachfolger von n in einer Tiefensuche über das Dokument.
func nextNode(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

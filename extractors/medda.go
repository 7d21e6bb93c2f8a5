package extractors

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var (
	// "N. Name" gefolgt von Leerzeilen markiert den Beginn eines Krankheitsblocks.
	meddaHeaderRe = regexp.MustCompile(`(\d+)\.\s+([\p{L}\p{N}_ ,]+)\n+`)

	meddaSymptomRe    = regexp.MustCompile(`(?is)triệu chứng.*?[:;]([^.]*)`)
	meddaCauseRe      = regexp.MustCompile(`(?is)nguyên nhân.*?[:;]([^.]*)`)
	meddaPreventionRe = regexp.MustCompile(`(?is)(?:phòng ngừa|phòng chống|ngăn chặn).*?[:;]([^.]*)`)

	meddaContagionTerms = []string{"lây", "truyền nhiễm", "virus", "vi khuẩn", "nhiễm trùng"}
)

// MeddaExtractor parst Medda-Seiten: nummerierte Blöcke im geglätteten Text,
// der rohe Abschnitt zwischen zwei Headern ist die Beschreibung.
type MeddaExtractor struct {
	logger *zap.Logger
}

// NewMeddaExtractor erstellt eine neue Instanz des Medda-Extractors.
func NewMeddaExtractor(logger *zap.Logger) *MeddaExtractor {
	return &MeddaExtractor{logger: logger}
}

// Name gibt den Namen des Extractors zurück.
func (e *MeddaExtractor) Name() string {
	return "medda"
}

// Extract scannt den Text nach "N. Name"-Headern und schneidet die Blöcke
// zwischen aufeinanderfolgenden Headern als Beschreibung heraus.
func (e *MeddaExtractor) Extract(content string) []Record {
	text := Flatten(content) + "\n"

	heads := meddaHeaderRe.FindAllStringSubmatchIndex(text, -1)
	var records []Record
	for i, head := range heads {
		name := strings.TrimSpace(text[head[4]:head[5]])
		if name == "" {
			continue
		}

		end := len(text)
		if i+1 < len(heads) {
			end = heads[i+1][0]
		}
		description := strings.TrimSpace(text[head[1]:end])

		rec := Record{
			Name:         name,
			Description:  description,
			IsContagious: containsAnyFold(description, meddaContagionTerms),
		}
		if m := meddaSymptomRe.FindStringSubmatch(description); m != nil {
			rec.Symptoms = splitListItems(m[1])
		}
		if m := meddaCauseRe.FindStringSubmatch(description); m != nil {
			rec.Causes = strings.TrimSpace(m[1])
		}
		if m := meddaPreventionRe.FindStringSubmatch(description); m != nil {
			rec.Preventions = splitListItems(m[1])
		}

		records = append(records, rec)
		e.logger.Debug("Medda-Eintrag extrahiert", zap.String("name", name))
	}
	return records
}

package extractors

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var (
	// Begrenzte Sektion, in der VNVC die Krankheiten nummeriert auflistet.
	vnvcSectionRe = regexp.MustCompile(`(?s)Các bệnh truyền nhiễm thường gặp(.*?)Làm sao để phòng ngừa`)
	// Lockerer Fallback: irgendeine nummerierte Überschrift.
	vnvcHeadingRe = regexp.MustCompile(`(\d+)\.\s+`)

	vnvcDescRe  = regexp.MustCompile("là[^.\n]*")
	vnvcCauseRe = regexp.MustCompile("do ([^\n]*?) gây ra")

	vnvcSymptomRe      = regexp.MustCompile(`(?is)triệu chứng[^:]*:([^.]*)`)
	vnvcComplicationRe = regexp.MustCompile(`(?is)biến chứng[^:]*:([^.]*)`)
	vnvcVaccineRe      = regexp.MustCompile(`(?is)vắc[- ]?xin[^:]*:([^.]*)`)
	vnvcPreventionRe   = regexp.MustCompile(`(?is)phòng ngừa[^:]*:([^.]*)`)

	vnvcContagionRe = regexp.MustCompile("(?i)lây[^\n]*?(qua|bởi|từ)")
)

// VNVCExtractor parst die nummerierte Krankheitsliste der VNVC-Seiten
// ("1. Name … 2. Name …") aus dem geglätteten Seitentext.
type VNVCExtractor struct {
	logger *zap.Logger
}

// NewVNVCExtractor erstellt eine neue Instanz des VNVC-Extractors.
func NewVNVCExtractor(logger *zap.Logger) *VNVCExtractor {
	return &VNVCExtractor{logger: logger}
}

// Name gibt den Namen des Extractors zurück.
func (e *VNVCExtractor) Name() string {
	return "vnvc"
}

// Extract sucht die begrenzte Krankheitssektion und zerlegt sie in Einträge.
func (e *VNVCExtractor) Extract(content string) []Record {
	text := Flatten(content)

	section := ""
	if m := vnvcSectionRe.FindStringSubmatch(text); m != nil {
		section = m[1]
	} else if loc := vnvcHeadingRe.FindStringIndex(text); loc != nil {
		// Kein begrenzender Rahmen gefunden: ab der ersten nummerierten
		// Überschrift bis zum Textende parsen.
		section = text[loc[0]:]
	}
	if section == "" {
		return nil
	}

	var records []Record
	heads := vnvcHeadingRe.FindAllStringSubmatchIndex(section, -1)
	for i, head := range heads {
		number := section[head[2]:head[3]]
		end := len(section)
		if i+1 < len(heads) {
			end = heads[i+1][0]
		}
		entry := strings.TrimSpace(section[head[1]:end])
		if entry == "" {
			continue
		}

		rec := e.parseEntry(number, entry)
		e.logger.Debug("VNVC-Eintrag extrahiert", zap.String("name", rec.Name))
		records = append(records, rec)
	}
	return records
}

// parseEntry extrahiert alle Felder eines einzelnen nummerierten Eintrags.
func (e *VNVCExtractor) parseEntry(number, entry string) Record {
	rec := Record{Name: entryName(number, entry)}

	if m := vnvcDescRe.FindString(entry); m != "" {
		rec.Description = strings.TrimSpace(m)
	} else if paragraphs := strings.Split(entry, "\n\n"); len(paragraphs) > 1 {
		rec.Description = strings.TrimSpace(paragraphs[0])
	}

	if m := vnvcCauseRe.FindStringSubmatch(entry); m != nil {
		rec.Causes = strings.TrimSpace(m[1])
	}

	if m := vnvcSymptomRe.FindStringSubmatch(entry); m != nil {
		rec.Symptoms = splitListItems(m[1])
	}
	if m := vnvcComplicationRe.FindStringSubmatch(entry); m != nil {
		rec.Complications = splitListItems(m[1])
	}
	if m := vnvcVaccineRe.FindStringSubmatch(entry); m != nil {
		rec.Vaccines = splitListItems(m[1])
	}
	if m := vnvcPreventionRe.FindStringSubmatch(entry); m != nil {
		rec.Preventions = splitListItems(m[1])
	}

	rec.IsContagious = vnvcContagionRe.MatchString(entry)
	return rec
}

// entryName nimmt die erste Zeile des Eintrags als Namen und schneidet die
// Beschreibungs-Clause ("… là …") ab, damit nur der Krankheitsname bleibt.
func entryName(number, entry string) string {
	name := entry
	if i := strings.IndexByte(name, '\n'); i >= 0 {
		name = name[:i]
	}
	if i := strings.Index(name, " là "); i > 0 {
		name = name[:i]
	}
	if name = strings.TrimSpace(name); name == "" {
		name = fmt.Sprintf("Bệnh %s", number)
	}
	return name
}

package extractors

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Extractor ist das Interface, das jeder Site-Extractor implementieren muss.
type Extractor interface {
	// Extract wandelt den rohen Seiteninhalt in eine Liste von Records um.
	// Fehlende oder kaputte Struktur führt nie zu einem Fehler, nur zu leeren Feldern.
	Extract(content string) []Record

	// Name gibt den eindeutigen Namen des Extractors zurück (z.B. "vnvc").
	Name() string
}

// meddaBlockPattern erkennt nummerierte Krankheitsblöcke ("1. Name") im Fließtext.
var meddaBlockPattern = regexp.MustCompile(`\d+\.\s+[\p{L}\p{N}_ ,]+\n`)

// Dispatcher wählt anhand von URL und Inhalt den passenden Extractor aus.
// Die Auswahl schlägt nie fehl; schlimmstenfalls greift der generische Extractor.
type Dispatcher struct {
	logger *zap.Logger

	vnvc     Extractor
	vinmec   Extractor
	longchau Extractor
	medda    Extractor
	generic  Extractor
}

// NewDispatcher erstellt einen Dispatcher mit allen bekannten Site-Extractors.
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		logger:   logger,
		vnvc:     NewVNVCExtractor(logger),
		vinmec:   NewVinmecExtractor(logger),
		longchau: NewLongChauExtractor(logger),
		medda:    NewMeddaExtractor(logger),
		generic:  NewGenericExtractor(logger),
	}
}

// ForURL wählt den Extractor: zuerst über bekannte Domain-Substrings,
// bei unbekannter Domain über Struktur-Sniffing des Inhalts.
func (d *Dispatcher) ForURL(url, content string) Extractor {
	switch {
	case strings.Contains(url, "vnvc.vn"):
		return d.vnvc
	case strings.Contains(url, "vinmec.com"):
		return d.vinmec
	case strings.Contains(url, "nhathuoclongchau.com"), strings.Contains(url, "longchau.com"):
		return d.longchau
	case strings.Contains(url, "medda.vn"):
		return d.medda
	}

	d.logger.Debug("Unbekannte Domain, bestimme Extractor über Inhalt", zap.String("url", url))
	flat := Flatten(content)

	switch {
	case hasContainerClass(content, "article-detail"), strings.Contains(content, "Long Châu"):
		return d.longchau
	case meddaBlockPattern.MatchString(flat):
		return d.medda
	case strings.Contains(flat, "Các bệnh truyền nhiễm thường gặp"):
		return d.vnvc
	default:
		return d.generic
	}
}

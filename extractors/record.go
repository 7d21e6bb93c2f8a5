package extractors

// Record ist das standardisierte Ergebnis einer Extraktion: eine Krankheit
// mit allen Feldern, die eine Quellseite hergibt. Fehlende Felder bleiben leer.
type Record struct {
	Name         string
	Description  string
	Causes       string
	IsContagious bool

	Symptoms      []string
	Complications []string
	Preventions   []string
	Vaccines      []string
}

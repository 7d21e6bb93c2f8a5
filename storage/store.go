package storage

import (
	"medichat/models"
)

// Store ist die abstrakte Persistenzschicht, die Updater und Responder
// konsumieren. Alle Get-or-Create- und Link-Operationen sind idempotent.
type Store interface {
	AllSymptoms() ([]models.Symptom, error)
	// AllDiseases lädt die Krankheiten inklusive aller Verknüpfungen
	// (Symptome, Komplikationen, Präventionen, Impfstoffe).
	AllDiseases() ([]models.Disease, error)

	// UpsertDisease legt die Krankheit an oder aktualisiert ihre Felder;
	// Schlüssel ist der exakte Name. Das zweite Ergebnis meldet eine Neuanlage.
	UpsertDisease(name, description, causes string, contagious bool, sourceURL string) (*models.Disease, bool, error)

	GetOrCreateSymptom(name string) (*models.Symptom, error)
	GetOrCreateComplication(name string) (*models.Complication, error)
	GetOrCreatePrevention(method string) (*models.Prevention, error)
	GetOrCreateVaccine(name string) (*models.Vaccine, error)

	LinkDiseaseSymptom(diseaseID, symptomID uint) error
	AddComplication(diseaseID uint, c *models.Complication) error
	AddPrevention(diseaseID uint, p *models.Prevention) error
	AddVaccine(diseaseID uint, v *models.Vaccine) error

	// DiseasesForSymptom liefert alle Krankheiten, die mit dem Symptom
	// verknüpft sind.
	DiseasesForSymptom(symptomID uint) ([]models.Disease, error)

	GetOrCreateSource(url string) (*models.URLSource, error)
	SaveSource(src *models.URLSource) error
}

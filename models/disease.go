package models

import (
	"time"
)

// Disease repräsentiert eine Krankheit im Knowledge Base.
// Name ist der natürliche Schlüssel für Upserts (exakter String-Match).
type Disease struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string `json:"name" gorm:"uniqueIndex;not null"`
	Description  string `json:"description" gorm:"type:text"`
	Causes       string `json:"causes,omitempty" gorm:"type:text"`
	IsContagious bool   `json:"is_contagious"`
	SourceURL    string `json:"source_url,omitempty"`

	Symptoms      []Symptom      `json:"symptoms,omitempty" gorm:"many2many:disease_symptoms"`
	Complications []Complication `json:"complications,omitempty" gorm:"many2many:disease_complications"`
	Preventions   []Prevention   `json:"preventions,omitempty" gorm:"many2many:disease_preventions"`
	Vaccines      []Vaccine      `json:"vaccines,omitempty" gorm:"many2many:disease_vaccines"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Disease) TableName() string {
	return "diseases"
}

// DiseaseSymptom ist die explizite Join-Tabelle zwischen Disease und Symptom.
// Der zusammengesetzte Primärschlüssel verhindert doppelte Verknüpfungen.
type DiseaseSymptom struct {
	DiseaseID uint `json:"disease_id" gorm:"primaryKey"`
	SymptomID uint `json:"symptom_id" gorm:"primaryKey"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (DiseaseSymptom) TableName() string {
	return "disease_symptoms"
}

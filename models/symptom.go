package models

// Symptom repräsentiert ein einzelnes Symptom (eindeutig über den Namen).
type Symptom struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;not null"` // z.B. "sốt"
	Description string `json:"description,omitempty" gorm:"type:text"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Symptom) TableName() string {
	return "symptoms"
}

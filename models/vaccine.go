package models

// Vaccine repräsentiert einen Impfstoff gegen eine Krankheit.
type Vaccine struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	Description string `json:"description,omitempty" gorm:"type:text"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Vaccine) TableName() string {
	return "vaccines"
}

package models

// Complication repräsentiert eine mögliche Komplikation einer Krankheit.
type Complication struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	Description string `json:"description,omitempty" gorm:"type:text"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Complication) TableName() string {
	return "complications"
}

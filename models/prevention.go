package models

// Prevention repräsentiert eine Präventionsmethode (eindeutig über Method).
type Prevention struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Method      string `json:"method" gorm:"uniqueIndex;not null"`
	Description string `json:"description,omitempty" gorm:"type:text"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Prevention) TableName() string {
	return "preventions"
}

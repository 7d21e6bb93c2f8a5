package models

import (
	"time"
)

// URLSource repräsentiert eine Scrape-Quelle inkl. Bookkeeping des letzten Laufs.
type URLSource struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	URL         string     `json:"url" gorm:"uniqueIndex;not null"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	// SuccessCount ist die Anzahl der im letzten Lauf importierten Krankheiten.
	SuccessCount int  `json:"success_count"`
	Active       bool `json:"active" gorm:"default:true"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (URLSource) TableName() string {
	return "url_sources"
}

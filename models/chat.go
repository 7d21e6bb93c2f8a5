package models

import (
	"time"
)

// ChatSession gruppiert die Nachrichten eines Nutzers unter einer Session-ID.
type ChatSession struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID string    `json:"session_id" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`

	Messages []ChatMessage `json:"messages,omitempty" gorm:"foreignKey:SessionID;references:ID"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (ChatSession) TableName() string {
	return "chat_sessions"
}

// ChatMessage ist eine einzelne Nachricht (Nutzer oder Bot) innerhalb einer Session.
type ChatMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID uint      `json:"session_id" gorm:"index;not null"`
	Sender    string    `json:"sender" gorm:"not null"` // "user" oder "bot"
	Message   string    `json:"message" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (ChatMessage) TableName() string {
	return "chat_messages"
}

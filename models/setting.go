package models

import "time"

// Runtime-tunable key/value settings (bot credentials, recognition
// threshold). Defaults are seeded in database.Connect.
type Setting struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Key   string `json:"key" gorm:"uniqueIndex;size:60;not null"`
	Value string `json:"value" gorm:"size:255;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	SettingTelegramBotToken     = "telegram_bot_token"
	SettingTelegramChatID       = "telegram_chat_id"
	SettingRecognitionThreshold = "recognition_threshold"
)

package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aietlabs/faceattend/models"
)

func setSetting(t *testing.T, db *gorm.DB, key, value string) {
	t.Helper()
	require.NoError(t, db.Model(&models.Setting{}).
		Where("key = ?", key).
		Update("value", value).Error)
}

func getSetting(t *testing.T, db *gorm.DB, key string) string {
	t.Helper()
	var s models.Setting
	require.NoError(t, db.Where("key = ?", key).First(&s).Error)
	return s.Value
}

func TestSettingsListMasksToken(t *testing.T) {
	db := setupDB(t)
	setSetting(t, db, models.SettingTelegramBotToken, "123456:real-token")

	c, rec := newGETContext(t, "/admin/settings")
	h := NewSettingsHandler()
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, maskedToken, out[models.SettingTelegramBotToken])
	assert.NotContains(t, rec.Body.String(), "real-token")
}

func TestSettingsUpdateIgnoresMaskedToken(t *testing.T) {
	db := setupDB(t)
	setSetting(t, db, models.SettingTelegramBotToken, "123456:real-token")

	// echo the masked listing back, with a real threshold change alongside
	body := `{"telegram_bot_token":"********","recognition_threshold":"55"}`
	c, rec := newJSONContext(t, http.MethodPut, "/admin/settings", body)
	h := NewSettingsHandler()
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "123456:real-token", getSetting(t, db, models.SettingTelegramBotToken))
	assert.Equal(t, "55", getSetting(t, db, models.SettingRecognitionThreshold))
}

func TestSettingsUpdateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown key", body: `{"no_such_setting":"1"}`},
		{name: "threshold not a number", body: `{"recognition_threshold":"abc"}`},
		{name: "threshold not positive", body: `{"recognition_threshold":"-5"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupDB(t)
			c, rec := newJSONContext(t, http.MethodPut, "/admin/settings", tt.body)
			h := NewSettingsHandler()
			require.NoError(t, h.Update(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSettingsUpdateStoresRealToken(t *testing.T) {
	db := setupDB(t)

	body := `{"telegram_bot_token":"654321:new-token","telegram_chat_id":"-100200300"}`
	c, rec := newJSONContext(t, http.MethodPut, "/admin/settings", body)
	h := NewSettingsHandler()
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "654321:new-token", getSetting(t, db, models.SettingTelegramBotToken))
	assert.Equal(t, "-100200300", getSetting(t, db, models.SettingTelegramChatID))
}

package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aietlabs/faceattend/database"
	"github.com/aietlabs/faceattend/models"
)

// SettingsHandler exposes the runtime-tunable key/value settings
// (bot credentials, recognition threshold). Admin only.
type SettingsHandler struct{}

func NewSettingsHandler() *SettingsHandler { return &SettingsHandler{} }

var knownSettings = map[string]struct{}{
	models.SettingTelegramBotToken:     {},
	models.SettingTelegramChatID:       {},
	models.SettingRecognitionThreshold: {},
}

// maskedToken is what List returns in place of the stored bot token.
const maskedToken = "********"

// GET /admin/settings
func (h *SettingsHandler) List(c echo.Context) error {
	var rows []models.Setting
	if err := database.DB.Order("key ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	out := map[string]string{}
	for _, s := range rows {
		v := s.Value
		// never leak the bot token back to the UI
		if s.Key == models.SettingTelegramBotToken && v != "" {
			v = maskedToken
		}
		out[s.Key] = v
	}
	return c.JSON(http.StatusOK, out)
}

// PUT /admin/settings
func (h *SettingsHandler) Update(c echo.Context) error {
	var req map[string]string
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	for key, value := range req {
		key = strings.TrimSpace(key)
		if _, ok := knownSettings[key]; !ok {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "UNKNOWN_SETTING", "key": key})
		}
		if key == models.SettingRecognitionThreshold {
			t, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil || t <= 0 {
				return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_THRESHOLD"})
			}
		}
	}

	updated := 0
	for key, value := range req {
		key = strings.TrimSpace(key)
		// a client echoing the masked listing back must not clobber the
		// stored token
		if key == models.SettingTelegramBotToken && strings.TrimSpace(value) == maskedToken {
			continue
		}
		if err := database.DB.Model(&models.Setting{}).
			Where("key = ?", key).
			Update("value", strings.TrimSpace(value)).Error; err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
		}
		updated++
	}
	return c.JSON(http.StatusOK, map[string]any{"updated": updated})
}

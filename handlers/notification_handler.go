package handlers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aietlabs/faceattend/config"
	"github.com/aietlabs/faceattend/database"
	"github.com/aietlabs/faceattend/models"
	"github.com/aietlabs/faceattend/notify"
)

// NotificationHandler pushes attendance rows that never reached the bot
// channel (e.g. because credentials were unset at mark time).
type NotificationHandler struct {
	cfg *config.Config
}

func NewNotificationHandler(cfg *config.Config) *NotificationHandler {
	return &NotificationHandler{cfg: cfg}
}

// POST /faculty/notifications/sync
func (h *NotificationHandler) Sync(c echo.Context) error {
	token := database.GetSetting(models.SettingTelegramBotToken, "")
	chat := database.GetSetting(models.SettingTelegramChatID, "")
	notifier, err := notify.New(token, chat, h.cfg.NotifyTimeout)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_BOT_CONFIG"})
	}
	if !notifier.Enabled() {
		return c.JSON(http.StatusConflict, map[string]any{"error": "BOT_NOT_CONFIGURED"})
	}

	type unsyncedRow struct {
		ID          uint
		RollNo      string
		StudentName string
		SubjectCode string
		Date        string
		Time        string
		Status      string
	}
	var rows []unsyncedRow
	if err := database.DB.Table("attendances AS a").
		Select(`a.id, s.roll_no, s.name AS student_name, sub.code AS subject_code,
			a.date, a.time, a.status`).
		Joins("JOIN students s ON s.id = a.student_id").
		Joins("JOIN subjects sub ON sub.id = a.subject_id").
		Where("a.synced = ?", false).
		Order("a.date ASC, a.time ASC, a.id ASC").
		Scan(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	if len(rows) == 0 {
		return c.JSON(http.StatusOK, map[string]any{"synced": 0})
	}

	lines := make([]notify.SummaryLine, 0, len(rows))
	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, notify.SummaryLine{
			RollNo:      r.RollNo,
			StudentName: r.StudentName,
			SubjectCode: r.SubjectCode,
			Date:        r.Date,
			Time:        r.Time,
			Status:      r.Status,
		})
		ids = append(ids, r.ID)
	}

	if err := notifier.Send("Attendance sync", notify.AttendanceSummary(lines)); err != nil {
		// best effort: report the failure but leave rows unsynced for the next run
		log.Printf("[notify] sync failed: %v", err)
		return c.JSON(http.StatusBadGateway, map[string]any{"error": "NOTIFY_FAILED"})
	}

	if err := database.DB.Model(&models.Attendance{}).
		Where("id IN ?", ids).
		Update("synced", true).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"synced": len(ids)})
}

package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aietlabs/faceattend/config"
	"github.com/aietlabs/faceattend/database"
	"github.com/aietlabs/faceattend/models"
	"github.com/aietlabs/faceattend/notify"
	"github.com/aietlabs/faceattend/vision"
)

// RecognizeHandler runs the full pipeline for one captured image: detect
// faces, predict labels, apply the distance threshold, mark attendance and
// fire a best-effort notification.
type RecognizeHandler struct {
	engine *vision.Engine
	cfg    *config.Config
}

func NewRecognizeHandler(engine *vision.Engine, cfg *config.Config) *RecognizeHandler {
	return &RecognizeHandler{engine: engine, cfg: cfg}
}

type recognizedStudent struct {
	StudentID  uint    `json:"student_id"`
	RollNo     string  `json:"roll_no"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Marked     bool    `json:"marked"`
	NewRecord  bool    `json:"new_record"`
}

// threshold reads the runtime-tunable distance cutoff, falling back to the
// configured default.
func (h *RecognizeHandler) threshold() float64 {
	def := strconv.FormatFloat(h.cfg.Threshold, 'f', -1, 64)
	v := database.GetSetting(models.SettingRecognitionThreshold, def)
	t, err := strconv.ParseFloat(v, 64)
	if err != nil || t <= 0 {
		return h.cfg.Threshold
	}
	return t
}

// POST /faculty/attendance/recognize  (multipart: image; form: subject_id)
// Optional form field device=N recognizes from a local camera instead of an
// uploaded file.
func (h *RecognizeHandler) Recognize(c echo.Context) error {
	subjectID := uint(atoiOr(c.FormValue("subject_id"), 0))
	if subjectID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_SUBJECT"})
	}
	var subject models.Subject
	if err := database.DB.First(&subject, subjectID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "SUBJECT_NOT_FOUND"})
	}

	threshold := h.threshold()

	var (
		matches []vision.Match
		err     error
	)
	if dev := c.FormValue("device"); dev != "" {
		matches, err = h.engine.RecognizeDevice(atoiOr(dev, 0), threshold)
	} else {
		buf, rerr := readUpload(c)
		if rerr != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_IMAGE"})
		}
		matches, err = h.engine.Recognize(buf, threshold)
	}
	if err != nil {
		switch {
		case errors.Is(err, vision.ErrNoFace):
			return c.JSON(http.StatusUnprocessableEntity, map[string]any{"error": "NO_FACE_DETECTED"})
		case errors.Is(err, vision.ErrNotTrained):
			return c.JSON(http.StatusConflict, map[string]any{"error": "MODEL_NOT_TRAINED"})
		case errors.Is(err, vision.ErrBadImage):
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_IMAGE"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	notifier := h.buildNotifier()
	now := time.Now()

	recognized := make([]recognizedStudent, 0, len(matches))
	unknown := 0
	for _, m := range matches {
		if !m.Accepted {
			// below-threshold match never writes a row
			unknown++
			continue
		}

		var student models.Student
		if err := database.DB.First(&student, uint(m.Label)).Error; err != nil {
			// model label with no backing row; treat as unknown
			unknown++
			continue
		}

		rec, created, err := MarkAttendance(database.DB, student.ID, subject.ID, models.StatusPresent, now)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
		}
		recognized = append(recognized, recognizedStudent{
			StudentID:  student.ID,
			RollNo:     student.RollNo,
			Name:       student.Name,
			Confidence: m.Confidence,
			Marked:     true,
			NewRecord:  created,
		})

		if notifier.Enabled() && created {
			msg := notify.AttendanceMarked(student.Name, student.RollNo, subject.Name, subject.Code, rec.Date, rec.Time)
			if err := notifier.Send("Attendance", msg); err != nil {
				// best effort only
				log.Printf("[notify] send failed: %v", err)
			}
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"subject_id": subject.ID,
		"faces":      len(matches),
		"recognized": recognized,
		"unknown":    unknown,
		"threshold":  threshold,
	})
}

func (h *RecognizeHandler) buildNotifier() *notify.Notifier {
	token := database.GetSetting(models.SettingTelegramBotToken, "")
	chat := database.GetSetting(models.SettingTelegramChatID, "")
	n, err := notify.New(token, chat, h.cfg.NotifyTimeout)
	if err != nil {
		log.Printf("[notify] disabled: %v", err)
		return &notify.Notifier{}
	}
	return n
}

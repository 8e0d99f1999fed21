package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aietlabs/faceattend/database"
	"github.com/aietlabs/faceattend/models"
	"github.com/aietlabs/faceattend/vision"
)

// FaceHandler manages per-student face enrollment. Every change to the
// sample set retrains the shared LBPH model.
type FaceHandler struct {
	engine *vision.Engine
}

func NewFaceHandler(engine *vision.Engine) *FaceHandler {
	return &FaceHandler{engine: engine}
}

// readUpload pulls the "image" part out of a multipart form.
func readUpload(c echo.Context) ([]byte, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// retrainModel rebuilds the LBPH model from every stored face sample.
func retrainModel(engine *vision.Engine) error {
	var rows []models.FaceSample
	if err := database.DB.Find(&rows).Error; err != nil {
		return err
	}
	samples := make([]vision.Sample, 0, len(rows))
	for _, r := range rows {
		samples = append(samples, vision.Sample{Label: int(r.StudentID), Path: r.Path})
	}
	return engine.Recognizer.Train(samples)
}

// POST /faculty/students/:id/faces  (multipart: image)
func (h *FaceHandler) Enroll(c echo.Context) error {
	var s models.Student
	if err := database.DB.First(&s, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}

	buf, err := readUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_IMAGE"})
	}

	path, err := h.engine.EnrollSample(buf, s.ID)
	if err != nil {
		switch {
		case errors.Is(err, vision.ErrNoFace):
			return c.JSON(http.StatusUnprocessableEntity, map[string]any{"error": "NO_FACE_DETECTED"})
		case errors.Is(err, vision.ErrMultipleFaces):
			return c.JSON(http.StatusUnprocessableEntity, map[string]any{"error": "MULTIPLE_FACES"})
		case errors.Is(err, vision.ErrBadImage):
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_IMAGE"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	rec := models.FaceSample{StudentID: s.ID, Path: path}
	if err := database.DB.Create(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	if err := retrainModel(h.engine); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "RETRAIN_FAILED"})
	}

	var count int64
	database.DB.Model(&models.FaceSample{}).Where("student_id = ?", s.ID).Count(&count)
	return c.JSON(http.StatusCreated, map[string]any{
		"student_id": s.ID,
		"sample_id":  rec.ID,
		"samples":    count,
	})
}

// GET /faculty/students/:id/faces
func (h *FaceHandler) List(c echo.Context) error {
	var s models.Student
	if err := database.DB.First(&s, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	var rows []models.FaceSample
	if err := database.DB.Where("student_id = ?", s.ID).Order("id ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// DELETE /faculty/students/:id/faces drops all samples and retrains.
func (h *FaceHandler) Remove(c echo.Context) error {
	var s models.Student
	if err := database.DB.First(&s, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}

	if err := database.DB.Where("student_id = ?", s.ID).Delete(&models.FaceSample{}).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	if err := h.engine.RemoveSamples(s.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "SAMPLE_CLEANUP_FAILED"})
	}
	if err := retrainModel(h.engine); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "RETRAIN_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"student_id": s.ID, "samples": 0})
}

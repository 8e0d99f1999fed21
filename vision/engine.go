package vision

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gocv.io/x/gocv"
)

var (
	ErrNoFace        = errors.New("no face found")
	ErrMultipleFaces = errors.New("multiple faces detected")
)

// Match is one detected face with its recognition verdict. Label carries the
// student id the model was trained with; Accepted is false for unknown faces.
type Match struct {
	Label      int             `json:"label"`
	Confidence float64         `json:"confidence"`
	Accepted   bool            `json:"accepted"`
	Region     image.Rectangle `json:"-"`
}

// Engine bundles the detector and recognizer with the sample store on disk.
type Engine struct {
	Detector   *Detector
	Recognizer *Recognizer
	DataDir    string
}

func NewEngine(det *Detector, rec *Recognizer, dataDir string) *Engine {
	return &Engine{Detector: det, Recognizer: rec, DataDir: dataDir}
}

func (e *Engine) Close() {
	if e.Detector != nil {
		e.Detector.Close()
	}
}

// EnrollSample extracts exactly one face from the uploaded image and stores
// the prepared crop under the student's sample directory. Returns the stored
// path. Fails with ErrNoFace / ErrMultipleFaces on ambiguous input.
func (e *Engine) EnrollSample(imgBytes []byte, studentID uint) (string, error) {
	img, err := DecodeImage(imgBytes)
	if err != nil {
		return "", err
	}
	defer img.Close()

	faces := e.Detector.Detect(img)
	switch {
	case len(faces) == 0:
		return "", ErrNoFace
	case len(faces) > 1:
		return "", ErrMultipleFaces
	}

	face, err := PrepareFace(img, faces[0])
	if err != nil {
		return "", err
	}
	defer face.Close()

	dir := e.sampleDir(studentID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, uuid.NewString()+".png")
	if err := SaveFace(face, path); err != nil {
		return "", err
	}
	return path, nil
}

// Recognize detects every face in the uploaded image and predicts each one
// against the trained model. A prediction above the distance threshold is
// reported but not accepted.
func (e *Engine) Recognize(imgBytes []byte, threshold float64) ([]Match, error) {
	img, err := DecodeImage(imgBytes)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	return e.recognizeMat(img, threshold)
}

// RecognizeDevice captures a still frame from a local camera and runs the
// same pipeline as Recognize.
func (e *Engine) RecognizeDevice(deviceID int, threshold float64) ([]Match, error) {
	img, err := CaptureFrame(deviceID)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	return e.recognizeMat(img, threshold)
}

func (e *Engine) recognizeMat(img gocv.Mat, threshold float64) ([]Match, error) {
	faces := e.Detector.Detect(img)
	if len(faces) == 0 {
		return nil, ErrNoFace
	}

	matches := make([]Match, 0, len(faces))
	for _, r := range faces {
		face, err := PrepareFace(img, r)
		if err != nil {
			continue
		}
		pred, err := e.Recognizer.Predict(face)
		face.Close()
		if err != nil {
			return nil, err
		}
		matches = append(matches, Match{
			Label:      pred.Label,
			Confidence: pred.Confidence,
			Accepted:   Accepted(pred.Confidence, threshold),
			Region:     r,
		})
	}
	return matches, nil
}

// RemoveSamples deletes every stored crop for a student. The model must be
// retrained afterwards.
func (e *Engine) RemoveSamples(studentID uint) error {
	return os.RemoveAll(e.sampleDir(studentID))
}

func (e *Engine) sampleDir(studentID uint) string {
	return filepath.Join(e.DataDir, fmt.Sprintf("%d", studentID))
}

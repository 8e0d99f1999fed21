package vision

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

var (
	ErrNotTrained = errors.New("recognizer model not trained")
)

// Prediction is the raw LBPH answer for one probe face. Confidence is a
// distance: lower means a closer match.
type Prediction struct {
	Label      int     `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Accepted applies the match policy. LBPH reports distance, so a prediction
// is accepted only when the confidence does not exceed the threshold.
func Accepted(confidence, threshold float64) bool {
	return confidence <= threshold
}

// Sample is one labeled training image on disk.
type Sample struct {
	Label int
	Path  string
}

// Recognizer wraps the LBPH face recognizer. The model is a single opaque
// blob on disk, rebuilt from all stored samples whenever enrollment changes.
// Train holds the write lock; Predict may run concurrently between retrains.
type Recognizer struct {
	mu        sync.RWMutex
	rec       *contrib.LBPHFaceRecognizer
	modelPath string
	trained   bool
}

func NewRecognizer(modelPath string) *Recognizer {
	r := &Recognizer{
		rec:       contrib.NewLBPHFaceRecognizer(),
		modelPath: modelPath,
	}
	if _, err := os.Stat(modelPath); err == nil {
		r.rec.LoadFile(modelPath)
		r.trained = true
	}
	return r
}

func (r *Recognizer) Trained() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.trained
}

// Predict returns the nearest label and its distance for a prepared
// (grayscale, FaceSize x FaceSize) probe face.
func (r *Recognizer) Predict(face gocv.Mat) (Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.trained {
		return Prediction{}, ErrNotTrained
	}
	res := r.rec.PredictExtendedResponse(face)
	return Prediction{
		Label:      int(res.Label),
		Confidence: float64(res.Confidence),
	}, nil
}

// Train fits a fresh model from the given samples and persists it. An empty
// sample set removes the model file and leaves the recognizer untrained.
func (r *Recognizer) Train(samples []Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(samples) == 0 {
		r.trained = false
		if err := os.Remove(r.modelPath); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	images := make([]gocv.Mat, 0, len(samples))
	labels := make([]int, 0, len(samples))
	defer func() {
		for i := range images {
			images[i].Close()
		}
	}()
	for _, s := range samples {
		img := gocv.IMRead(s.Path, gocv.IMReadGrayScale)
		if img.Empty() {
			img.Close()
			return fmt.Errorf("unreadable face sample: %s", s.Path)
		}
		images = append(images, img)
		labels = append(labels, s.Label)
	}

	r.rec = contrib.NewLBPHFaceRecognizer()
	r.rec.Train(images, labels)
	r.rec.SaveFile(r.modelPath)
	r.trained = true
	return nil
}

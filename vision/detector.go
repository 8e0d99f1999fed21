package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Detector locates face regions with a pre-trained Haar cascade. Scale
// factor and minimum neighbor count are pass-through tuning for the
// underlying matcher.
type Detector struct {
	classifier   gocv.CascadeClassifier
	scaleFactor  float64
	minNeighbors int
	minSize      int
}

func NewDetector(cascadePath string, scaleFactor float64, minNeighbors, minSize int) (*Detector, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cascadePath) {
		classifier.Close()
		return nil, fmt.Errorf("failed to load face cascade classifier: %s", cascadePath)
	}
	if scaleFactor <= 1.0 {
		scaleFactor = 1.1
	}
	if minNeighbors <= 0 {
		minNeighbors = 4
	}
	if minSize <= 0 {
		minSize = 60
	}
	return &Detector{
		classifier:   classifier,
		scaleFactor:  scaleFactor,
		minNeighbors: minNeighbors,
		minSize:      minSize,
	}, nil
}

// Detect returns candidate face rectangles in img. Grayscale conversion and
// histogram equalization stabilize detection under varying lighting.
func (d *Detector) Detect(img gocv.Mat) []image.Rectangle {
	if img.Empty() {
		return nil
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	gocv.EqualizeHist(gray, &gray)

	faces := d.classifier.DetectMultiScaleWithParams(
		gray,
		d.scaleFactor,
		d.minNeighbors,
		0,
		image.Pt(d.minSize, d.minSize),
		image.Pt(0, 0),
	)

	// Drop detections with implausible proportions; real faces are roughly
	// square.
	valid := make([]image.Rectangle, 0, len(faces))
	for _, f := range faces {
		if f.Dx() == 0 || f.Dy() == 0 {
			continue
		}
		ratio := float64(f.Dx()) / float64(f.Dy())
		if ratio < 0.7 || ratio > 1.4 {
			continue
		}
		valid = append(valid, f)
	}
	return valid
}

func (d *Detector) Close() {
	d.classifier.Close()
}

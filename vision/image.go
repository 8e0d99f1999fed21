package vision

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// FaceSize is the canonical side length of a prepared face crop; both
// training samples and probe faces are normalized to it.
const FaceSize = 200

var ErrBadImage = errors.New("could not decode image")

// DecodeImage decodes uploaded JPEG/PNG bytes into a BGR Mat. The caller
// owns the returned Mat.
func DecodeImage(buf []byte) (gocv.Mat, error) {
	img, err := gocv.IMDecode(buf, gocv.IMReadColor)
	if err != nil {
		return gocv.Mat{}, ErrBadImage
	}
	if img.Empty() {
		img.Close()
		return gocv.Mat{}, ErrBadImage
	}
	return img, nil
}

// PrepareFace crops the detected region out of img and normalizes it to a
// FaceSize x FaceSize grayscale Mat. The caller owns the returned Mat.
func PrepareFace(img gocv.Mat, r image.Rectangle) (gocv.Mat, error) {
	bounds := image.Rect(0, 0, img.Cols(), img.Rows())
	r = r.Intersect(bounds)
	if r.Empty() {
		return gocv.Mat{}, fmt.Errorf("face region outside image bounds")
	}

	region := img.Region(r)
	defer region.Close()

	face := gocv.NewMat()
	gocv.CvtColor(region, &face, gocv.ColorBGRToGray)
	gocv.Resize(face, &face, image.Pt(FaceSize, FaceSize), 0, 0, gocv.InterpolationLinear)
	return face, nil
}

// SaveFace writes a prepared face crop to path.
func SaveFace(face gocv.Mat, path string) error {
	if ok := gocv.IMWrite(path, face); !ok {
		return fmt.Errorf("failed to write face sample: %s", path)
	}
	return nil
}

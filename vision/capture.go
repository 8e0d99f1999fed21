package vision

import (
	"fmt"

	"gocv.io/x/gocv"
)

// CaptureFrame grabs a single still frame from a camera device. The caller
// owns the returned Mat. The first frames after opening can be dark while
// the sensor adjusts, so a few are discarded.
func CaptureFrame(deviceID int) (gocv.Mat, error) {
	webcam, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("error opening video capture device %d: %w", deviceID, err)
	}
	defer webcam.Close()

	img := gocv.NewMat()
	for i := 0; i < 5; i++ {
		if ok := webcam.Read(&img); !ok {
			img.Close()
			return gocv.Mat{}, fmt.Errorf("cannot read frame from device %d", deviceID)
		}
	}
	if img.Empty() {
		img.Close()
		return gocv.Mat{}, fmt.Errorf("empty frame from device %d", deviceID)
	}
	return img, nil
}

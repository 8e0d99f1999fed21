package vision

import (
	"os"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"
)

const cascadeFile = "haarcascade_frontalface_default.xml"

// findCascade looks for the cascade next to the test binary and in the
// repository root; tests that need it skip when it is not installed.
func findCascade(t *testing.T) string {
	t.Helper()
	for _, p := range []string{cascadeFile, filepath.Join("..", cascadeFile)} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	t.Skipf("cascade file %s not available", cascadeFile)
	return ""
}

func TestNewDetectorMissingCascade(t *testing.T) {
	if _, err := NewDetector("no/such/cascade.xml", 1.1, 4, 60); err == nil {
		t.Fatal("expected error for missing cascade file")
	}
}

func TestDetectEmptyMat(t *testing.T) {
	path := findCascade(t)
	det, err := NewDetector(path, 1.1, 4, 60)
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}
	defer det.Close()

	empty := gocv.NewMat()
	defer empty.Close()
	if faces := det.Detect(empty); faces != nil {
		t.Errorf("Detect(empty) = %v, want nil", faces)
	}
}

func TestDetectBlankImageFindsNoFace(t *testing.T) {
	path := findCascade(t)
	det, err := NewDetector(path, 1.1, 4, 60)
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}
	defer det.Close()

	blank := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer blank.Close()
	if faces := det.Detect(blank); len(faces) != 0 {
		t.Errorf("Detect(blank) found %d faces, want 0", len(faces))
	}
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	if _, err := DecodeImage([]byte("definitely not an image")); err == nil {
		t.Fatal("expected decode error for garbage bytes")
	}
	if _, err := DecodeImage(nil); err == nil {
		t.Fatal("expected decode error for empty buffer")
	}
}

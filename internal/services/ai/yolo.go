//go:build gocv
// +build gocv

package ai

import (
	"bufio"
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"

	"cap-inspect/internal/logger"
)

const (
	// DetectionThreshold filters out low-confidence model output rows.
	DetectionThreshold = 0.5

	yoloInputSize = 640
)

// YOLODetector runs a YOLO ONNX network through the OpenCV DNN module.
type YOLODetector struct {
	net        gocv.Net
	classNames []string
	modelPath  string
	loaded     bool
	logger     *logger.Logger
}

// NewYOLODetector loads the network and class names. A load failure is
// not fatal: the detector is returned not-ready and every Detect call
// reports ErrModelUnavailable.
func NewYOLODetector(modelPath, classNamesPath string, logger *logger.Logger) *YOLODetector {
	d := &YOLODetector{
		modelPath: modelPath,
		logger:    logger,
	}

	if err := d.initialize(classNamesPath); err != nil {
		d.logger.Warning("Could not initialize detection network: %v", err)
		return d
	}

	d.logger.Info("Detection network initialized successfully")
	return d
}

func (d *YOLODetector) initialize(classNamesPath string) error {
	if _, err := os.Stat(d.modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", d.modelPath)
	}

	names, err := readClassNames(classNamesPath)
	if err != nil {
		return err
	}

	net := gocv.ReadNetFromONNX(d.modelPath)
	if net.Empty() {
		return fmt.Errorf("failed to load network from %s", d.modelPath)
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		return fmt.Errorf("failed to set network backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		return fmt.Errorf("failed to set network target: %w", err)
	}

	d.net = net
	d.classNames = names
	d.loaded = true
	return nil
}

// Ready reports whether the network was loaded.
func (d *YOLODetector) Ready() bool {
	return d.loaded
}

// Close releases the network.
func (d *YOLODetector) Close() {
	if d.loaded {
		d.net.Close()
		d.loaded = false
	}
}

// Detect decodes the JPEG frame and runs one forward pass. Output rows
// are kept in model order; no re-ranking between detections.
func (d *YOLODetector) Detect(frame []byte) ([]Detection, error) {
	if !d.loaded {
		return nil, ErrModelUnavailable
	}

	mat, err := gocv.IMDecode(frame, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("decoded frame is empty")
	}

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(yoloInputSize, yoloInputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	return d.parseOutput(output, mat.Cols(), mat.Rows()), nil
}

// parseOutput walks the YOLO output tensor. Each row holds a box
// (cx, cy, w, h) followed by one score per class.
func (d *YOLODetector) parseOutput(output gocv.Mat, imgWidth, imgHeight int) []Detection {
	cols := 4 + len(d.classNames)
	reshaped := output.Reshape(1, int(output.Total())/cols)
	defer reshaped.Close()

	scaleX := float32(imgWidth) / float32(yoloInputSize)
	scaleY := float32(imgHeight) / float32(yoloInputSize)

	var results []Detection
	for i := 0; i < reshaped.Rows(); i++ {
		classID, confidence := bestClass(reshaped, i, len(d.classNames))
		if confidence <= DetectionThreshold {
			continue
		}

		cx := reshaped.GetFloatAt(i, 0) * scaleX
		cy := reshaped.GetFloatAt(i, 1) * scaleY
		w := reshaped.GetFloatAt(i, 2) * scaleX
		h := reshaped.GetFloatAt(i, 3) * scaleY

		results = append(results, Detection{
			Label:      d.className(classID),
			Confidence: float64(confidence),
			X:          int(cx - w/2),
			Y:          int(cy - h/2),
			Width:      int(w),
			Height:     int(h),
		})
		d.logger.Info("Detected %s (%.2f%%)", results[len(results)-1].Label, confidence*100)
	}

	return results
}

func bestClass(rows gocv.Mat, row, numClasses int) (int, float32) {
	bestID := 0
	var bestScore float32
	for c := 0; c < numClasses; c++ {
		score := rows.GetFloatAt(row, 4+c)
		if score > bestScore {
			bestScore = score
			bestID = c
		}
	}
	return bestID, bestScore
}

func (d *YOLODetector) className(classID int) string {
	if classID >= 0 && classID < len(d.classNames) {
		return d.classNames[classID]
	}
	return fmt.Sprintf("unknown_%d", classID)
}

func readClassNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("class names file not found: %s", path)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			names = append(names, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read class names: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("class names file is empty: %s", path)
	}
	return names, nil
}

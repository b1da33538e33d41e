//go:build !js

package dolly

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/teranos/dolly/trip"
)

// Operator is a StageDirector that also films the view: each tracking shot
// rasterizes the current View into a PNG frame.
type Operator struct {
	*StageDirector
	renderingStage *RenderingStage
	frameCount     int
	filmDir        string
	frames         []string
}

// NewOperator creates an operator writing frames to outputDir.
func NewOperator(t testing.TB, model StageModel, outputDir string) *Operator {
	return &Operator{
		StageDirector:  NewStageDirector(t, model),
		renderingStage: NewRenderingStage(DefaultFrameConfig(outputDir)),
		filmDir:        outputDir,
	}
}

// WithConfig replaces the frame configuration.
func (op *Operator) WithConfig(config FrameConfig) *Operator {
	op.renderingStage = NewRenderingStage(config)
	op.filmDir = config.OutputDir
	return op
}

// WithTimeout wraps the base WithTimeout method to return *Operator.
func (op *Operator) WithTimeout(timeout time.Duration) *Operator {
	op.StageDirector.WithTimeout(timeout)
	return op
}

// Start wraps the base Start method to return *Operator.
func (op *Operator) Start() *Operator {
	op.StageDirector.Start()
	return op
}

// CaptureTrackingShot writes the current view as frame_NNN_<label>.png.
func (op *Operator) CaptureTrackingShot(label string) *Operator {
	op.renderingStage.RenderText(op.getCurrentView())

	filename := filepath.Join(op.filmDir, fmt.Sprintf("frame_%03d_%s.png", op.frameCount, label))
	if err := op.renderingStage.CaptureFrame(filename); err != nil {
		op.recordTrip(newStageTrip(tripCapture, "failed to capture frame", map[string]interface{}{
			"file":  filename,
			"error": err.Error(),
		}).WithSeverity(trip.Stumble))
		return op
	}

	op.frameCount++
	op.frames = append(op.frames, filename)
	op.recordStageAction("tracking_shot", filename)
	return op
}

// Frames returns the files written so far.
func (op *Operator) Frames() []string {
	return append([]string(nil), op.frames...)
}

// NextWithTrackingShot clicks next on target and films the result.
func (op *Operator) NextWithTrackingShot(target, label string) *Operator {
	op.Next(target)
	return op.CaptureTrackingShot(label)
}

// PrevWithTrackingShot clicks prev on target and films the result.
func (op *Operator) PrevWithTrackingShot(target, label string) *Operator {
	op.Prev(target)
	return op.CaptureTrackingShot(label)
}

// WaitForConditionWithTrackingShot waits for condition and films the result.
func (op *Operator) WaitForConditionWithTrackingShot(condition, label string) *Operator {
	op.WaitForCondition(condition)
	return op.CaptureTrackingShot(label)
}

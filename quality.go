//go:build !js

package dolly

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/dolly/trip"
)

// DefaultTolerance is the fraction of pixels a frame may differ from its
// baseline before it counts as a regression.
const DefaultTolerance = 0.05

// ErrVisualRegression is returned when a frame drifts from its baseline.
var ErrVisualRegression = errors.New("visual regression")

// ScriptSupervisor keeps frames consistent between runs. Baselines live in
// one directory as <label>.png; the first take of a label becomes its
// baseline.
type ScriptSupervisor struct {
	baselineDir string
	tolerance   float64
}

// NewScriptSupervisor compares against baselines in baselineDir.
func NewScriptSupervisor(baselineDir string) *ScriptSupervisor {
	return &ScriptSupervisor{baselineDir: baselineDir, tolerance: DefaultTolerance}
}

// WithTolerance sets the allowed fraction of differing pixels.
func (s *ScriptSupervisor) WithTolerance(tolerance float64) *ScriptSupervisor {
	s.tolerance = tolerance
	return s
}

func (s *ScriptSupervisor) baseline(label string) string {
	return filepath.Join(s.baselineDir, label+".png")
}

// Check compares the frame at framePath with the baseline for label. Without
// a baseline, the frame is recorded as one and Check passes. On a regression
// a diff image is written next to the frame as <frame>_diff.png.
func (s *ScriptSupervisor) Check(label, framePath string) error {
	current, err := loadImage(framePath)
	if err != nil {
		return fmt.Errorf("failed to load frame: %w", err)
	}

	baselinePath := s.baseline(label)
	baseline, err := loadImage(baselinePath)
	if errors.Is(err, os.ErrNotExist) {
		return s.SetBaseline(label, framePath)
	}
	if err != nil {
		return fmt.Errorf("failed to load baseline: %w", err)
	}

	difference := FrameDifference(baseline, current)
	if difference <= s.tolerance {
		return nil
	}

	diffPath := strings.TrimSuffix(framePath, filepath.Ext(framePath)) + "_diff.png"
	if err := writeDiffImage(baseline, current, diffPath); err != nil {
		return fmt.Errorf("%w: %.2f%% difference, and the diff image failed: %v", ErrVisualRegression, difference*100, err)
	}
	return fmt.Errorf("%w: %.2f%% difference (tolerance %.2f%%), see %s",
		ErrVisualRegression, difference*100, s.tolerance*100, diffPath)
}

// SetBaseline copies the frame at framePath over the baseline for label.
func (s *ScriptSupervisor) SetBaseline(label, framePath string) error {
	if err := os.MkdirAll(s.baselineDir, 0o755); err != nil {
		return fmt.Errorf("failed to create baseline directory: %w", err)
	}

	in, err := os.Open(framePath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(s.baseline(label))
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to write baseline: %w", err)
	}
	return out.Close()
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return png.Decode(f)
}

// FrameDifference is the fraction of pixels that differ between a and b.
// Frames of different size differ entirely.
func FrameDifference(a, b image.Image) float64 {
	bounds := a.Bounds()
	if bounds != b.Bounds() || bounds.Empty() {
		return 1
	}

	differing := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if !sameColor(a.At(x, y), b.At(x, y)) {
				differing++
			}
		}
	}
	return float64(differing) / float64(bounds.Dx()*bounds.Dy())
}

func sameColor(a, b color.Color) bool {
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}

// writeDiffImage marks differing pixels red over a dimmed baseline.
func writeDiffImage(baseline, current image.Image, path string) error {
	bounds := baseline.Bounds()
	diff := image.NewRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			base := baseline.At(x, y)
			if !sameColor(base, current.At(x, y)) {
				diff.Set(x, y, color.RGBA{255, 0, 0, 255})
				continue
			}
			r, g, b, _ := base.RGBA()
			diff.Set(x, y, color.RGBA{uint8(r >> 9), uint8(g >> 9), uint8(b >> 9), 255})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, diff); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// MatchBaseline checks the latest frame against the supervisor's baseline
// for label. A regression is recorded as an assertion trip.
func (op *Operator) MatchBaseline(s *ScriptSupervisor, label string) *Operator {
	if len(op.frames) == 0 {
		op.recordTrip(newStageTrip(tripAssertion, "no frame to compare with baseline "+label, nil))
		return op
	}

	frame := op.frames[len(op.frames)-1]
	if err := s.Check(label, frame); err != nil {
		severity := trip.Error
		if !errors.Is(err, ErrVisualRegression) {
			severity = trip.Stumble
		}
		op.recordTrip(newStageTrip(tripAssertion, err.Error(), map[string]interface{}{
			"label": label,
			"frame": frame,
		}).WithSeverity(severity))
		return op
	}
	op.recordStageAction("baseline", label)
	return op
}

//go:build !js

package dolly_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/dolly"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestFrameDifference(t *testing.T) {
	white := solid(10, 10, color.White)
	assert.Equal(t, 0.0, dolly.FrameDifference(white, solid(10, 10, color.White)))

	marked := solid(10, 10, color.White)
	for x := 0; x < 10; x++ {
		marked.Set(x, 0, color.Black)
	}
	assert.InDelta(t, 0.1, dolly.FrameDifference(white, marked), 1e-9)

	assert.Equal(t, 1.0, dolly.FrameDifference(white, solid(5, 10, color.White)))
}

func TestScriptSupervisor_Check(t *testing.T) {
	baselines := t.TempDir()
	frames := t.TempDir()
	s := dolly.NewScriptSupervisor(baselines)

	frame := filepath.Join(frames, "frame_000_start.png")
	writePNG(t, frame, solid(20, 20, color.White))

	require.NoError(t, s.Check("start", frame), "first take becomes the baseline")
	assert.FileExists(t, filepath.Join(baselines, "start.png"))
	require.NoError(t, s.Check("start", frame))

	// 2 of 20 rows changed is 10%, above the default 5%.
	drifted := solid(20, 20, color.White)
	for x := 0; x < 20; x++ {
		drifted.Set(x, 0, color.Black)
		drifted.Set(x, 1, color.Black)
	}
	writePNG(t, frame, drifted)

	err := s.Check("start", frame)
	assert.ErrorIs(t, err, dolly.ErrVisualRegression)
	assert.FileExists(t, filepath.Join(frames, "frame_000_start_diff.png"))

	assert.NoError(t, s.WithTolerance(0.2).Check("start", frame))

	require.NoError(t, s.SetBaseline("start", frame))
	assert.NoError(t, s.WithTolerance(0).Check("start", frame))
}

func TestScriptSupervisor_MissingFrame(t *testing.T) {
	s := dolly.NewScriptSupervisor(t.TempDir())
	err := s.Check("x", filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorContains(t, err, "failed to load frame")
	assert.NotErrorIs(t, err, dolly.ErrVisualRegression)
}

func TestOperator_MatchBaseline(t *testing.T) {
	baselines := t.TempDir()
	s := dolly.NewScriptSupervisor(baselines)
	film := func(dir string, steps int, s *dolly.ScriptSupervisor) *dolly.StageResult {
		cfg := quietConfig()
		cfg.DisableAutoPlay = true // a still progress bar keeps frames identical
		tp := newTestPage(t, wide, cfg)
		op := dolly.NewOperator(t, *tp.page, dir).WithTimeout(5 * time.Second).Start()
		for i := 0; i < steps; i++ {
			op.Next(dolly.SelectorMeshSlider)
		}
		return op.CaptureTrackingShot("carousel").MatchBaseline(s, "carousel").Stop()
	}

	first := film(t.TempDir(), 0, s)
	assert.True(t, first.Success, first.ErrorDetails)
	assert.FileExists(t, filepath.Join(baselines, "carousel.png"))

	same := film(t.TempDir(), 0, s)
	assert.True(t, same.Success, same.ErrorDetails)

	stepped := film(t.TempDir(), 2, dolly.NewScriptSupervisor(baselines).WithTolerance(0))
	assert.False(t, stepped.Success)
	assert.Contains(t, stepped.ErrorMessage, "visual regression")
}

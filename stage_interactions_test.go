//go:build !js

package dolly_test

import (
	"fmt"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/dolly"
)

func stageConfig() dolly.StageConfig {
	return dolly.StageConfig{
		Timeout:       5 * time.Second,
		SettleTimeout: time.Second,
		CaptureViews:  true,
	}
}

// TestStageDirector_Navigation drives both components through a running program.
func TestStageDirector_Navigation(t *testing.T) {
	tp := newTestPage(t, wide, fastConfig())

	result := dolly.NewStageDirectorWithConfig(t, *tp.page, stageConfig()).
		Start().
		TogglePause(dolly.SelectorVideoSlider).
		Next(dolly.SelectorVideoSlider).
		AssertCondition("#video-slider:index:1").
		Prev(dolly.SelectorVideoSlider).
		Prev(dolly.SelectorVideoSlider).
		AssertCondition("#video-slider:index:2").
		Next(dolly.SelectorMeshSlider).
		AssertCondition("#mesh-slider:index:1").
		Prev(dolly.SelectorMeshSlider).
		Prev(dolly.SelectorMeshSlider).
		AssertCondition("#mesh-slider:at-start").
		Stop()

	assert.True(t, result.Success, result.ErrorDetails)
	assert.NotEmpty(t, result.Snapshots)
}

// TestStageDirector_AutoAdvance waits for real timer ticks to rotate the slider.
func TestStageDirector_AutoAdvance(t *testing.T) {
	tp := newTestPage(t, wide, fastConfig())

	result := dolly.NewStageDirectorWithConfig(t, *tp.page, stageConfig()).
		Start().
		WaitForCondition("#video-slider:index:1").
		WaitForCondition("#video-slider:index:2").
		WaitForCondition("#video-slider:index:0").
		Stop()

	assert.True(t, result.Success, result.ErrorDetails)
}

// TestStageDirector_PauseHoldsThePane checks no advance happens while paused.
func TestStageDirector_PauseHoldsThePane(t *testing.T) {
	tp := newTestPage(t, wide, fastConfig())

	director := dolly.NewStageDirectorWithConfig(t, *tp.page, stageConfig()).Start()
	director.
		TogglePause(dolly.SelectorVideoSlider).
		AssertCondition("#video-slider:paused").
		Wait(300 * time.Millisecond).
		AssertCondition("#video-slider:index:0").
		TogglePause(dolly.SelectorVideoSlider).
		WaitForCondition("#video-slider:index:1")

	page := director.Model().(dolly.Page)
	s, ok := page.Slider(dolly.SelectorVideoSlider)
	require.True(t, ok)
	assert.True(t, s.Armed())

	result := director.Stop()
	assert.True(t, result.Success, result.ErrorDetails)
}

// TestStageDirector_RapidNavigationKeepsOneTimer hammers next while every
// arming's ticks are in flight. If a stale arming still counted, the next
// advance would come before a full dwell.
func TestStageDirector_RapidNavigationKeepsOneTimer(t *testing.T) {
	cfg := fastConfig()
	tp := newTestPage(t, wide, cfg)

	director := dolly.NewStageDirectorWithConfig(t, *tp.page, stageConfig()).
		WithViewCapture(false).
		Start()
	for i := 0; i < 19; i++ {
		director.Next(dolly.SelectorVideoSlider)
	}
	last := time.Now()
	director.Next(dolly.SelectorVideoSlider)
	page := director.Model().(dolly.Page)
	s, _ := page.Slider(dolly.SelectorVideoSlider)
	director.WaitForCondition(fmt.Sprintf("#video-slider:index:%d", (s.Index()+1)%s.Len()))

	assert.GreaterOrEqual(t, time.Since(last), cfg.Duration, "a full dwell follows the last click")

	page = director.Model().(dolly.Page)
	s, _ = page.Slider(dolly.SelectorVideoSlider)
	assert.True(t, s.Armed())
	assert.LessOrEqual(t, s.Progress(), s.Duration())

	result := director.Stop()
	assert.True(t, result.Success, result.ErrorDetails)
}

// TestStageDirector_ResizeAndLightbox covers the viewport-dependent features.
func TestStageDirector_ResizeAndLightbox(t *testing.T) {
	tp := newTestPage(t, wide, fastConfig())

	result := dolly.NewStageDirectorWithConfig(t, *tp.page, stageConfig()).
		Start().
		Zoom(dolly.Zoomable{Source: "teaser.png"}).
		AssertCondition("lightbox:open").
		PressEscape().
		Resize(narrow, 800).
		AssertMode("narrow").
		AssertCondition("#mesh-slider:single").
		Zoom(dolly.Zoomable{Source: "teaser.png"}).
		Scroll(0).
		Stop()

	assert.True(t, result.Success, result.ErrorDetails)
	assert.False(t, tp.overlay.IsOpen())
	assert.True(t, tp.sections[0].HasClass(dolly.ClassVisible))
}

// TestStageDirector_FailedAssertion checks failures land in the result.
func TestStageDirector_FailedAssertion(t *testing.T) {
	tp := newTestPage(t, wide, fastConfig())

	director := dolly.NewStageDirectorWithConfig(t, *tp.page, stageConfig()).Start()
	director.AssertCondition("#mesh-slider:at-end")
	result := director.Stop()

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "#mesh-slider:at-end")
	assert.Contains(t, result.TripReport, "stage_director")
	assert.Error(t, result.Error)
}

// TestStageDirector_WaitTimeout checks that an unmet wait is reported, not hung on.
func TestStageDirector_WaitTimeout(t *testing.T) {
	tp := newTestPage(t, wide, fastConfig())

	start := time.Now()
	result := dolly.NewStageDirectorWithConfig(t, *tp.page, stageConfig()).
		WithTimeout(300 * time.Millisecond).
		Start().
		WaitForCondition("#video-slider:index:7").
		Stop()

	assert.False(t, result.Success)
	assert.Less(t, time.Since(start), 2*time.Second)
}

// TestStageDirector_Actions checks interactions are recorded in order.
func TestStageDirector_Actions(t *testing.T) {
	tp := newTestPage(t, wide, fastConfig())

	director := dolly.NewStageDirectorWithConfig(t, *tp.page, stageConfig()).Start()
	director.Next(dolly.SelectorMeshSlider).Jump(dolly.SelectorVideoSlider, 2).Wait(10 * time.Millisecond)

	assert.Equal(t, 3, director.GetStageActionCount())
	assert.Contains(t, director.GetLatestSnapshot().View, dolly.SelectorMeshSlider)

	stats := director.GetSynchronizationStats()
	assert.Greater(t, stats["updates_processed"], int64(0))
	assert.Equal(t, int64(3), stats["sync_markers"], "one for start, one per message")

	result := director.Stop()
	require.Len(t, result.Actions, 3)
	assert.Equal(t, "nav", result.Actions[0].Type)
	assert.Equal(t, "jump", result.Actions[1].Type)
	assert.Equal(t, "wait", result.Actions[2].Type)
}

// TestOperator_CapturesFrames films the page to PNG.
func TestOperator_CapturesFrames(t *testing.T) {
	tp := newTestPage(t, wide, fastConfig())
	dir := t.TempDir()

	op := dolly.NewOperator(t, *tp.page, dir).
		WithTimeout(5 * time.Second).
		Start().
		CaptureTrackingShot("initial").
		NextWithTrackingShot(dolly.SelectorMeshSlider, "stepped")
	frames := op.Frames()
	result := op.Stop()

	assert.True(t, result.Success, result.ErrorDetails)
	require.Len(t, frames, 2)
	for _, name := range frames {
		f, err := os.Open(name)
		require.NoError(t, err)
		img, err := png.Decode(f)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, 80*7, img.Bounds().Dx())
	}
}

func TestRenderingStage_RenderText(t *testing.T) {
	stage := dolly.NewRenderingStage(dolly.FrameConfig{Width: 10, Height: 2})

	stage.RenderText("\x1b[1mbold\x1b[0m text that is clipped\nsecond\nthird")

	assert.Equal(t, "bold text\nsecond", stage.Text())
	assert.Equal(t, 70, stage.Image().Bounds().Dx())
	assert.Equal(t, 26, stage.Image().Bounds().Dy())
}

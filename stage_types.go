//go:build !js

package dolly

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teranos/dolly/trip"
)

// modelUpdate represents a timestamped model state change with sequence tracking.
// Used by syncModelUpdates() for ordered model synchronization.
type modelUpdate struct {
	model     StageModel // The updated model state
	sequence  int64      // Unique sequence number for ordering
	timestamp time.Time  // When the update was generated
	ack       int64      // Non-zero for the marker that follows a sent message
}

// stageSyncMsg follows every message the director sends. The program handles
// messages in order, so once the marker comes back the message before it has
// been applied.
type stageSyncMsg struct {
	n int64
}

// StageModel is a component, or a whole page, the director can drive.
//
// Page, Slider and Carousel all implement it.
//
//   - CurrentMode() names a coarse state: "running", "triple", "narrow"...
//   - CheckCondition() answers finer questions used by WaitForCondition,
//     such as "index:2" on a slider or "#mesh-slider:at-end" on a page.
type StageModel interface {
	tea.Model
	CurrentMode() string
	CheckCondition(condition string) bool
}

// StageDirector runs a StageModel headlessly inside a real tea.Program so
// timer ticks, load notifications and clicks interleave the way they do on a
// page. It provides a fluent API for sending events, waiting on conditions
// and asserting state.
//
// Errors are collected as trips and returned in the final StageResult rather
// than immediately failing the test.
//
// Example usage:
//
//	result := NewStageDirector(t, page).
//		WithTimeout(5 * time.Second).
//		Start().
//		Next("#video-slider").
//		WaitForCondition("#video-slider:index:1").
//		TogglePause("#video-slider").
//		AssertCondition("#video-slider:paused").
//		Stop()
//
//	assert.True(t, result.Success)
type StageDirector struct {
	t       testing.TB
	model   StageModel
	program *tea.Program
	ctx     context.Context
	cancel  context.CancelFunc

	// Interaction tracking
	interactions []StageAction
	snapshots    []StageSnapshot

	// Error tracking with trip package
	tripHandler *trip.Handler
	lastTrip    *trip.Trip
	failed      bool

	// Model synchronization with atomic sequence tracking
	modelChan        chan modelUpdate
	latestModel      StageModel
	modelMu          sync.RWMutex
	updateSeq        int64 // atomic counter for update ordering
	lastProcessedSeq int64 // atomic counter for processed updates
	syncSeq          int64 // atomic counter for sync markers sent
	ackedSeq         int64 // atomic, last sync marker applied
	droppedUpdates   int64

	updatesSent      int64
	updatesProcessed int64
	bufferOverflows  int64
	sequenceGaps     int64
	duplicateUpdates int64

	config  StageConfig
	started bool
}

// stageModelWrapper wraps the staged model to mirror every update to the director.
type stageModelWrapper struct {
	StageModel
	director *StageDirector
}

// StageAction records a single interaction during staging.
type StageAction struct {
	Timestamp time.Time
	Type      string      // "nav", "jump", "pause", "resize", "wait", "assertion"...
	Details   interface{} // Specific interaction details
}

// StageSnapshot captures the state of the model at one moment.
type StageSnapshot struct {
	Timestamp time.Time
	View      string
	Mode      string
}

// StageResult contains the results of a stage session.
//
// Success is false if any trip was recorded. TripReport carries the full
// trip log for debugging.
type StageResult struct {
	Actions      []StageAction
	Snapshots    []StageSnapshot
	Success      bool
	Duration     time.Duration
	ErrorMessage string
	Error        error
	ErrorDetails string
	TripReport   string
}

// Trip types raised by the director.
const (
	tripStartup   = "startup"
	tripTimeout   = "timeout"
	tripAssertion = "assertion"
	tripModel     = "model"
	tripCapture   = "capture"
)

// newStageTrip creates a new trip for stage errors.
func newStageTrip(errorType, message string, context map[string]interface{}) *trip.Trip {
	tripContext := make(trip.Context)
	for k, v := range context {
		tripContext[k] = v
	}
	return trip.NewTrip(errorType, message, tripContext)
}

// StageConfig configures the behavior of the StageDirector.
type StageConfig struct {
	// Timeout bounds the whole session and every wait.
	Timeout time.Duration
	// SettleTimeout bounds how long a sent message may take to be applied.
	SettleTimeout time.Duration
	// CaptureViews enables automatic view snapshots.
	CaptureViews bool
}

// DefaultStageConfig returns a 10s session with snapshots on.
func DefaultStageConfig() StageConfig {
	return StageConfig{
		Timeout:       10 * time.Second,
		SettleTimeout: time.Second,
		CaptureViews:  true,
	}
}

// NewStageDirector creates a StageDirector with the default configuration.
// Call Start before sending events and Stop to collect the result.
func NewStageDirector(t testing.TB, model StageModel) *StageDirector {
	return NewStageDirectorWithConfig(t, model, DefaultStageConfig())
}

// NewStageDirectorWithConfig creates a StageDirector with a custom configuration.
func NewStageDirectorWithConfig(t testing.TB, model StageModel, config StageConfig) *StageDirector {
	if config.Timeout <= 0 {
		config.Timeout = DefaultStageConfig().Timeout
	}
	if config.SettleTimeout <= 0 {
		config.SettleTimeout = DefaultStageConfig().SettleTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)

	director := &StageDirector{
		t:            t,
		model:        model,
		ctx:          ctx,
		cancel:       cancel,
		interactions: make([]StageAction, 0),
		snapshots:    make([]StageSnapshot, 0),
		config:       config,
		modelChan:    make(chan modelUpdate, 256),
		latestModel:  model,
		tripHandler:  trip.NewHandler("stage_director", trip.DefaultPolicy()),
	}

	return director
}

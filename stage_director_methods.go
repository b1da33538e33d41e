//go:build !js

package dolly

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// syncModelUpdates processes model updates in order with duplicate detection.
func (d *StageDirector) syncModelUpdates() {
	defer func() {
		if r := recover(); r != nil {
			d.t.Logf("model sync goroutine panicked: %v", r)
		}
	}()

	for {
		select {
		case update := <-d.modelChan:
			currentSeq := atomic.LoadInt64(&d.lastProcessedSeq)

			if update.sequence <= currentSeq {
				atomic.AddInt64(&d.duplicateUpdates, 1)
				continue
			}
			if update.sequence > currentSeq+1 {
				atomic.AddInt64(&d.sequenceGaps, 1)
			}

			d.modelMu.Lock()
			d.latestModel = update.model
			atomic.StoreInt64(&d.lastProcessedSeq, update.sequence)
			atomic.AddInt64(&d.updatesProcessed, 1)
			d.modelMu.Unlock()

			if update.ack > 0 {
				atomic.StoreInt64(&d.ackedSeq, update.ack)
			}

		case <-d.ctx.Done():
			return
		}
	}
}

// WithTimeout sets the session timeout. It must be called before Start.
func (d *StageDirector) WithTimeout(timeout time.Duration) *StageDirector {
	if d.started {
		d.t.Logf("cannot change timeout after director has started, ignoring WithTimeout(%v)", timeout)
		return d
	}

	if d.cancel != nil {
		d.cancel()
	}
	d.ctx, d.cancel = context.WithTimeout(context.Background(), timeout)
	d.config.Timeout = timeout
	return d
}

// WithViewCapture enables or disables automatic view snapshots. It must be
// called before Start.
func (d *StageDirector) WithViewCapture(enabled bool) *StageDirector {
	if d.started {
		d.t.Logf("cannot change view capture after director has started, ignoring WithViewCapture(%v)", enabled)
		return d
	}
	d.config.CaptureViews = enabled
	return d
}

// Start runs the model in a headless program and waits until it handles messages.
func (d *StageDirector) Start() *StageDirector {
	if d.started {
		d.t.Logf("StageDirector already started")
		return d
	}

	wrapped := stageModelWrapper{
		StageModel: d.model,
		director:   d,
	}

	d.program = tea.NewProgram(wrapped,
		tea.WithContext(d.ctx),
		tea.WithoutRenderer(),
		tea.WithInput(nil),
		tea.WithOutput(nil),
		tea.WithoutSignalHandler(),
	)

	go d.syncModelUpdates()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				d.t.Logf("program goroutine panicked: %v", r)
			}
		}()

		if _, err := d.program.Run(); err != nil && d.ctx.Err() == nil {
			d.t.Logf("program.Run() returned with error=%v", err)
		}
	}()

	if err := d.waitForProgramReady(); err != nil {
		d.recordTrip(newStageTrip(tripStartup, err.Error(), map[string]interface{}{
			"model_type": fmt.Sprintf("%T", d.model),
		}))
		return d
	}

	d.started = true
	d.captureSnapshot("start")
	return d
}

// Stop ends the session and returns its results.
func (d *StageDirector) Stop() *StageResult {
	startTime := time.Now()

	if d.started {
		d.captureSnapshot("stop")
	}

	if d.program != nil {
		d.program.Quit()
	}
	if d.cancel != nil {
		d.cancel()
	}

	success := !d.failed && d.lastTrip == nil

	var errorDetails strings.Builder
	var tripReport string

	if d.lastTrip != nil {
		tripReport = d.tripHandler.DetailedReport()

		errorDetails.WriteString(fmt.Sprintf("Trip Type: %s\n", d.lastTrip.Type))
		errorDetails.WriteString(fmt.Sprintf("Error: %s\n", d.lastTrip.Message))
		errorDetails.WriteString(fmt.Sprintf("Timestamp: %s\n", d.lastTrip.Timestamp.Format(time.RFC3339)))

		if len(d.lastTrip.Context) > 0 {
			keys := make([]string, 0, len(d.lastTrip.Context))
			for key := range d.lastTrip.Context {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			errorDetails.WriteString("Context:\n")
			for _, key := range keys {
				errorDetails.WriteString(fmt.Sprintf("  %s: %v\n", key, d.lastTrip.Context[key]))
			}
		}

		if d.HasDroppedUpdates() {
			errorDetails.WriteString("\nSynchronization Issues:\n")
			stats := d.GetSynchronizationStats()
			for _, key := range []string{"updates_dropped", "buffer_overflows", "sequence_gaps"} {
				if stats[key] > 0 {
					errorDetails.WriteString(fmt.Sprintf("  %s: %d\n", key, stats[key]))
				}
			}
		}
	}

	return &StageResult{
		Actions:      d.interactions,
		Snapshots:    d.snapshots,
		Success:      success,
		Duration:     time.Since(startTime),
		ErrorMessage: d.getErrorMessage(),
		Error:        d.getError(),
		ErrorDetails: errorDetails.String(),
		TripReport:   tripReport,
	}
}

// WaitForMode waits for the model to enter mode.
func (d *StageDirector) WaitForMode(mode string) *StageDirector {
	return d.waitFor("mode="+mode, func() bool { return d.getCurrentMode() == mode })
}

// WaitForCondition waits until the model's CheckCondition reports true.
//
// Example:
//
//	director.WaitForCondition("#video-slider:index:1")
func (d *StageDirector) WaitForCondition(condition string) *StageDirector {
	return d.waitFor("condition="+condition, func() bool { return d.checkCondition(condition) })
}

// WaitForText waits for text to appear in the view.
func (d *StageDirector) WaitForText(text string) *StageDirector {
	return d.waitFor("text="+text, func() bool { return strings.Contains(d.getCurrentView(), text) })
}

func (d *StageDirector) waitFor(what string, done func() bool) *StageDirector {
	if d.failed {
		return d
	}

	timeout := time.NewTimer(d.config.Timeout)
	defer timeout.Stop()

	start := time.Now()
	for {
		if done() {
			d.recordStageAction("wait", what)
			return d
		}
		select {
		case <-timeout.C:
			d.recordTrip(newStageTrip(tripTimeout, "timeout waiting for "+what, map[string]interface{}{
				"waited":       time.Since(start),
				"current_mode": d.getCurrentMode(),
				"current_view": d.truncateString(d.getCurrentView(), 200),
			}))
			return d
		case <-d.ctx.Done():
			d.recordTrip(newStageTrip(tripTimeout, "session ended waiting for "+what, nil))
			return d
		case <-time.After(5 * time.Millisecond):
		}
	}
}

// waitForProgramReady sends a sync marker and waits for it to be applied.
func (d *StageDirector) waitForProgramReady() error {
	if !d.settle() {
		return fmt.Errorf("program never became ready within %v", d.config.SettleTimeout)
	}
	return nil
}

// settle sends a sync marker and waits until the program has applied it,
// and with it every message sent before.
func (d *StageDirector) settle() bool {
	n := atomic.AddInt64(&d.syncSeq, 1)
	d.program.Send(stageSyncMsg{n: n})

	deadline := time.NewTimer(d.config.SettleTimeout)
	defer deadline.Stop()

	for atomic.LoadInt64(&d.ackedSeq) < n {
		select {
		case <-deadline.C:
			return false
		case <-d.ctx.Done():
			return false
		case <-time.After(time.Millisecond):
		}
	}
	return true
}

func (d *StageDirector) currentModel() StageModel {
	d.modelMu.RLock()
	defer d.modelMu.RUnlock()
	return d.latestModel
}

// Model returns the most recent model state.
func (d *StageDirector) Model() StageModel {
	return d.currentModel()
}

// getCurrentView safely retrieves the current view content.
func (d *StageDirector) getCurrentView() string {
	if model := d.currentModel(); model != nil {
		return model.View()
	}
	return ""
}

// getCurrentMode safely retrieves the current mode.
func (d *StageDirector) getCurrentMode() string {
	if model := d.currentModel(); model != nil {
		return model.CurrentMode()
	}
	return ""
}

func (d *StageDirector) checkCondition(condition string) bool {
	if model := d.currentModel(); model != nil {
		return model.CheckCondition(condition)
	}
	return false
}

// GetLatestSnapshot returns the most recent view snapshot.
func (d *StageDirector) GetLatestSnapshot() StageSnapshot {
	if len(d.snapshots) == 0 {
		return StageSnapshot{}
	}
	return d.snapshots[len(d.snapshots)-1]
}

// GetStageActionCount returns the number of recorded interactions.
func (d *StageDirector) GetStageActionCount() int {
	return len(d.interactions)
}

// getErrorMessage returns a human-readable error message.
func (d *StageDirector) getErrorMessage() string {
	if d.lastTrip != nil {
		return fmt.Sprintf("[%s] %s", strings.ToLower(d.lastTrip.Type), d.lastTrip.Message)
	}
	return ""
}

// getError returns the structured error.
func (d *StageDirector) getError() error {
	if d.lastTrip != nil {
		return d.lastTrip
	}
	return nil
}

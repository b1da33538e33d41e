//go:build !js

package dolly

import (
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teranos/dolly/trip"
)

// Update forwards msg to the staged model and mirrors the result to the director.
func (w stageModelWrapper) Update(msg tea.Msg) (next tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			if w.director != nil {
				w.director.handleModelPanic(r, msg)
			}
			next, cmd = w, nil
		}
	}()

	if marker, ok := msg.(stageSyncMsg); ok {
		w.director.publish(w.StageModel, marker.n)
		return w, nil
	}

	newModel, cmd := w.StageModel.Update(msg)
	if newModel == nil {
		w.director.handleInvalidModelState("Update returned nil model", msg)
		return w, cmd
	}

	staged, ok := newModel.(StageModel)
	if !ok {
		w.director.handleInvalidModelState(fmt.Sprintf("Update returned %T, which cannot be staged", newModel), msg)
		return w, cmd
	}

	w.director.publish(staged, 0)
	return stageModelWrapper{StageModel: staged, director: w.director}, cmd
}

// publish hands a model state to syncModelUpdates. Ordinary updates are
// dropped when the buffer is full; sync markers wait for room.
func (d *StageDirector) publish(model StageModel, ack int64) {
	if d == nil || d.modelChan == nil {
		return
	}

	update := modelUpdate{
		model:     model,
		sequence:  atomic.AddInt64(&d.updateSeq, 1),
		timestamp: time.Now(),
		ack:       ack,
	}

	if ack > 0 {
		select {
		case d.modelChan <- update:
			atomic.AddInt64(&d.updatesSent, 1)
		case <-d.ctx.Done():
		}
		return
	}

	select {
	case d.modelChan <- update:
		atomic.AddInt64(&d.updatesSent, 1)
	default:
		atomic.AddInt64(&d.bufferOverflows, 1)
		atomic.AddInt64(&d.droppedUpdates, 1)
	}
}

// GetSynchronizationStats returns detailed synchronization metrics.
func (d *StageDirector) GetSynchronizationStats() map[string]int64 {
	return map[string]int64{
		"updates_generated": atomic.LoadInt64(&d.updateSeq),
		"updates_sent":      atomic.LoadInt64(&d.updatesSent),
		"updates_processed": atomic.LoadInt64(&d.updatesProcessed),
		"buffer_overflows":  atomic.LoadInt64(&d.bufferOverflows),
		"sequence_gaps":     atomic.LoadInt64(&d.sequenceGaps),
		"duplicate_updates": atomic.LoadInt64(&d.duplicateUpdates),
		"updates_dropped":   atomic.LoadInt64(&d.droppedUpdates),
		"sync_markers":      atomic.LoadInt64(&d.syncSeq),
		"buffer_length":     int64(len(d.modelChan)),
		"buffer_capacity":   int64(cap(d.modelChan)),
	}
}

// HasDroppedUpdates returns true if any updates have been dropped.
func (d *StageDirector) HasDroppedUpdates() bool {
	return atomic.LoadInt64(&d.droppedUpdates) > 0 ||
		atomic.LoadInt64(&d.bufferOverflows) > 0 ||
		atomic.LoadInt64(&d.sequenceGaps) > 0
}

// GetBufferUtilization returns current buffer usage as a percentage.
func (d *StageDirector) GetBufferUtilization() float64 {
	if cap(d.modelChan) == 0 {
		return 0.0
	}
	return float64(len(d.modelChan)) / float64(cap(d.modelChan)) * 100.0
}

func (d *StageDirector) truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// handleModelPanic fails the session fast when the model panics in Update.
func (d *StageDirector) handleModelPanic(panicValue interface{}, msg tea.Msg) {
	d.t.Logf("model panic detected: %v", panicValue)

	d.captureErrorSnapshot("model_panic", fmt.Sprintf("Panic: %v", panicValue))

	t := newStageTrip(tripModel, fmt.Sprintf("model panic during Update: %v", panicValue), map[string]interface{}{
		"panic_value": panicValue,
		"tea_msg":     fmt.Sprintf("%T: %+v", msg, msg),
		"model_type":  fmt.Sprintf("%T", d.model),
	})
	d.recordTrip(t.WithSeverity(trip.Fall))

	if d.cancel != nil {
		d.cancel()
	}
}

// handleInvalidModelState fails the session fast when Update returns something unusable.
func (d *StageDirector) handleInvalidModelState(reason string, msg tea.Msg) {
	if d == nil {
		return
	}
	d.t.Logf("invalid model state detected: %s", reason)

	d.captureErrorSnapshot("invalid_model_state", reason)

	t := newStageTrip(tripModel, reason, map[string]interface{}{
		"tea_msg":    fmt.Sprintf("%T: %+v", msg, msg),
		"model_type": fmt.Sprintf("%T", d.model),
	})
	d.recordTrip(t.WithSeverity(trip.Fall))

	if d.cancel != nil {
		d.cancel()
	}
}

// captureErrorSnapshot records the view at the moment of a failure.
func (d *StageDirector) captureErrorSnapshot(errorType, errorMessage string) {
	var currentView string
	func() {
		defer func() {
			if r := recover(); r != nil {
				currentView = fmt.Sprintf("ERROR: Could not get view due to panic: %v", r)
			}
		}()
		currentView = d.getCurrentView()
	}()

	d.snapshots = append(d.snapshots, StageSnapshot{
		Timestamp: time.Now(),
		View:      fmt.Sprintf("ERROR STATE (%s)\n%s\n\nLast View:\n%s", errorType, errorMessage, currentView),
		Mode:      "error_" + errorType,
	})
}

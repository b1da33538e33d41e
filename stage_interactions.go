//go:build !js

package dolly

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teranos/dolly/trip"
)

// Next clicks the next control of target.
func (d *StageDirector) Next(target string) *StageDirector {
	d.sendMessage(NavMsg{Target: target, Dir: Next})
	d.recordStageAction("nav", target+" next")
	return d
}

// Prev clicks the prev control of target.
func (d *StageDirector) Prev(target string) *StageDirector {
	d.sendMessage(NavMsg{Target: target, Dir: Prev})
	d.recordStageAction("nav", target+" prev")
	return d
}

// Jump clicks the indicator for index on target.
func (d *StageDirector) Jump(target string, index int) *StageDirector {
	d.sendMessage(JumpMsg{Target: target, Index: index})
	d.recordStageAction("jump", fmt.Sprintf("%s %d", target, index))
	return d
}

// TogglePause clicks the pause/play control of target.
func (d *StageDirector) TogglePause(target string) *StageDirector {
	d.sendMessage(PauseMsg{Target: target})
	d.recordStageAction("pause", target)
	return d
}

// Resize changes the viewport size.
func (d *StageDirector) Resize(width, height float64) *StageDirector {
	d.sendMessage(ResizeMsg{Width: width, Height: height})
	d.recordStageAction("resize", fmt.Sprintf("%gx%g", width, height))
	return d
}

// Zoom clicks a zoomable image.
func (d *StageDirector) Zoom(z Zoomable) *StageDirector {
	d.sendMessage(ZoomMsg{Zoom: z})
	d.recordStageAction("zoom", z.Source)
	return d
}

// Scroll reports that the section at index entered the viewport.
func (d *StageDirector) Scroll(index int) *StageDirector {
	d.sendMessage(IntersectMsg{Index: index, Intersecting: true})
	d.recordStageAction("scroll", index)
	return d
}

// PressEscape simulates pressing the Escape key.
func (d *StageDirector) PressEscape() *StageDirector {
	d.sendMessage(tea.KeyMsg{Type: tea.KeyEsc})
	d.recordStageAction("keypress", "escape")
	return d
}

// Send delivers an arbitrary message and waits for it to be applied.
func (d *StageDirector) Send(msg tea.Msg) *StageDirector {
	d.sendMessage(msg)
	d.recordStageAction("send", fmt.Sprintf("%T", msg))
	return d
}

// Wait pauses stage execution for duration while timers keep running.
//
// For waiting on state changes prefer WaitForCondition or WaitForMode.
func (d *StageDirector) Wait(duration time.Duration) *StageDirector {
	time.Sleep(duration)
	d.recordStageAction("wait", duration)
	d.captureSnapshot("wait")
	return d
}

// AssertViewContains verifies that the current view contains text.
func (d *StageDirector) AssertViewContains(text string) *StageDirector {
	view := d.getCurrentView()
	if !strings.Contains(view, text) {
		d.recordTrip(newStageTrip(tripAssertion, "view does not contain expected text: "+text, map[string]interface{}{
			"expected":    text,
			"actual_view": view,
		}))
		return d
	}
	d.recordStageAction("assertion", "contains="+text)
	return d
}

// AssertMode verifies that the model is in mode.
func (d *StageDirector) AssertMode(mode string) *StageDirector {
	actual := d.getCurrentMode()
	if actual != mode {
		d.recordTrip(newStageTrip(tripAssertion, "expected mode "+mode+", got "+actual, map[string]interface{}{
			"expected": mode,
			"actual":   actual,
		}))
		return d
	}
	d.recordStageAction("assertion", "mode="+mode)
	return d
}

// AssertCondition verifies that CheckCondition(condition) holds right now.
func (d *StageDirector) AssertCondition(condition string) *StageDirector {
	if !d.checkCondition(condition) {
		d.recordTrip(newStageTrip(tripAssertion, "condition does not hold: "+condition, map[string]interface{}{
			"condition": condition,
			"mode":      d.getCurrentMode(),
		}))
		return d
	}
	d.recordStageAction("assertion", "condition="+condition)
	return d
}

// sendMessage delivers msg to the program and waits until it is applied.
func (d *StageDirector) sendMessage(msg tea.Msg) {
	if d.program == nil || d.failed {
		return
	}

	d.program.Send(msg)
	if !d.settle() {
		d.recordTrip(newStageTrip(tripTimeout, fmt.Sprintf("%T was not applied", msg), map[string]interface{}{
			"settle_timeout": d.config.SettleTimeout,
		}))
		return
	}
	d.captureSnapshot("interaction")
}

// recordStageAction logs an interaction step.
func (d *StageDirector) recordStageAction(actionType string, details interface{}) {
	d.interactions = append(d.interactions, StageAction{
		Timestamp: time.Now(),
		Type:      actionType,
		Details:   details,
	})
}

// captureSnapshot captures the current state of the model.
func (d *StageDirector) captureSnapshot(reason string) {
	if !d.config.CaptureViews {
		return
	}

	d.snapshots = append(d.snapshots, StageSnapshot{
		Timestamp: time.Now(),
		View:      d.getCurrentView(),
		Mode:      d.getCurrentMode(),
	})
}

// recordTrip records a trip and marks the stage failed if it cannot recover.
func (d *StageDirector) recordTrip(t *trip.Trip) {
	d.tripHandler.Record(t)
	d.lastTrip = t

	if !t.CanRecover() {
		d.failed = true
	}

	if d.t != nil {
		d.t.Helper()
		if t.IsFall() {
			d.t.Error(t)
		} else {
			d.t.Log(t.DetailedString())
		}
	}
}

// HasFailed returns true if the stage has hit an unrecoverable trip.
func (d *StageDirector) HasFailed() bool {
	return d.failed || !d.tripHandler.Healthy()
}

// GetError returns the last trip recorded, if any.
func (d *StageDirector) GetError() error {
	if d.lastTrip != nil {
		return d.lastTrip
	}
	return nil
}

// GetTripHandler returns the trip handler for detailed error analysis.
func (d *StageDirector) GetTripHandler() *trip.Handler {
	return d.tripHandler
}

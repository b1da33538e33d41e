package dolly

import "time"

// TimerState is the rotation state of a Slider.
type TimerState int

const (
	// Idle means no timer is armed. Sliders with autoplay off start here.
	Idle TimerState = iota
	// Running means a timer is armed and ticks accumulate progress.
	Running
	// Paused means a timer is armed but ticks are ignored.
	Paused
)

func (s TimerState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Disposition says what a transition did to the slider's timer.
type Disposition int

const (
	// TimerNone leaves an unarmed timer unarmed.
	TimerNone Disposition = iota
	// TimerKeep leaves the armed timer in place and schedules its next tick.
	TimerKeep
	// TimerRearm cancels the armed timer, if any, and arms a fresh one.
	TimerRearm
	// TimerDrop ignores a tick from a cancelled arming without scheduling anything.
	TimerDrop
)

func (d Disposition) String() string {
	switch d {
	case TimerNone:
		return "none"
	case TimerKeep:
		return "keep"
	case TimerRearm:
		return "rearm"
	case TimerDrop:
		return "drop"
	default:
		return "unknown"
	}
}

// Transition records one state change of a Slider.
type Transition struct {
	Event string
	From  TimerState
	To    TimerState
	Timer Disposition
}

// dwell is the timing half of a slider: how long the current slide has been
// showing and which timer arming is live. At most one arming is live; arming
// again invalidates every tick still in flight for the previous one.
type dwell struct {
	interval time.Duration
	duration time.Duration
	progress time.Duration
	paused   bool
	armed    bool
	gen      uint64
}

func (d *dwell) state() TimerState {
	switch {
	case !d.armed:
		return Idle
	case d.paused:
		return Paused
	default:
		return Running
	}
}

// arm cancels the current arming and starts a new one.
func (d *dwell) arm() uint64 {
	d.gen++
	d.armed = true
	return d.gen
}

// live reports whether a tick belongs to the current arming.
func (d *dwell) live(gen uint64) bool {
	return d.armed && gen == d.gen
}

// step accumulates one interval and reports whether the dwell is complete.
// Progress never runs past the duration.
func (d *dwell) step() bool {
	if d.paused {
		return false
	}
	d.progress = min(d.progress+d.interval, d.duration)
	return d.progress >= d.duration
}

// reset starts the dwell for a newly shown slide.
func (d *dwell) reset() {
	d.progress = 0
}

// fraction is progress over duration, capped at 1.
func (d *dwell) fraction() float64 {
	if d.duration <= 0 {
		return 0
	}
	return min(1, float64(d.progress)/float64(d.duration))
}

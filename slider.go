package dolly

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/teranos/dolly/trip"
)

var (
	// ErrNoWrapper is returned when a region has no slides wrapper.
	ErrNoWrapper = errors.New("dolly: region has no wrapper")
	// ErrNoPanes is returned when a region has nothing to rotate.
	ErrNoPanes = errors.New("dolly: region has no panes")
)

// Slider rotates a fixed set of panes one full pane at a time, advancing on
// its own after each dwell period and on prev/next/indicator clicks.
//
// The cursor wraps in both directions. Every cursor change resets the dwell
// and re-arms the timer, so a manual click always buys a full dwell period.
// Pausing freezes the dwell where it is; resuming continues from there.
//
// Handle routes messages addressed to its id; the pointer methods are the
// same transitions for direct use. Outside js/wasm a Slider is also a
// Bubble Tea model.
type Slider struct {
	id     string
	region SlideRegion
	bp     Breakpoint
	log    logrus.FieldLogger
	trips  *trip.Handler

	index        int
	timer        dwell
	width        float64
	awaitingLoad bool
	layout       SyncResult
	height       float64
	last         Transition
}

// NewSlider mounts a slider on region.
//
// A region without a wrapper or without panes does not mount; the caller is
// expected to leave the page as it is. Width is the viewport width at mount.
func NewSlider(id string, region SlideRegion, cfg Config, width float64) (*Slider, error) {
	if region.Wrapper == nil {
		return nil, ErrNoWrapper
	}
	if len(region.Panes) == 0 {
		return nil, ErrNoPanes
	}

	cfg = cfg.normalized()
	s := &Slider{
		id:     id,
		region: region,
		bp:     Breakpoint(cfg.Breakpoint),
		log:    cfg.Logger.WithFields(logrus.Fields{"component": "slider", "target": id}),
		trips:  trip.NewHandler("slider "+id, nil),
		width:  width,
		timer: dwell{
			interval: cfg.TickInterval,
			duration: cfg.Duration,
		},
	}

	s.render()
	if !cfg.DisableAutoPlay {
		s.timer.arm()
		s.record("mount", Idle, TimerRearm)
	} else {
		// Held until the visitor interacts.
		s.timer.paused = true
		s.record("mount", Idle, TimerNone)
	}
	s.renderPause()

	s.syncHeights()
	if first := region.Panes[0].Visual; first != nil && !first.Loaded() {
		s.awaitingLoad = true
	}

	s.log.WithFields(logrus.Fields{
		"panes":    len(region.Panes),
		"autoplay": !cfg.DisableAutoPlay,
		"duration": cfg.Duration,
	}).Debug("slider mounted")

	return s, nil
}

// Start schedules the first tick when autoplay is on and waits for the first
// visual to load if it has not yet.
func (s Slider) Start() Cmd {
	var cmds []Cmd
	if s.timer.armed {
		cmds = append(cmds, s.schedule())
	}
	if s.awaitingLoad {
		cmds = append(cmds, waitForLoad(s.id, s.region.Panes[0].Visual))
	}
	return Batch(cmds...)
}

// Handle applies messages addressed to this slider and viewport resizes.
func (s Slider) Handle(msg Msg) (Slider, Cmd) {
	var cmd Cmd

	switch msg := msg.(type) {
	case NavMsg:
		if msg.Target == s.id {
			cmd = s.Advance(msg.Dir)
		}
	case JumpMsg:
		if msg.Target == s.id {
			cmd = s.JumpTo(msg.Index)
		}
	case PauseMsg:
		if msg.Target == s.id {
			cmd = s.TogglePause()
		}
	case TickMsg:
		if msg.Target == s.id {
			cmd = s.Tick(msg.Gen)
		}
	case LoadedMsg:
		if msg.Target == s.id {
			s.Loaded()
		}
	case ResizeMsg:
		s.Resize(msg.Width)
	}

	return s, cmd
}

// Advance moves one pane forward or back, wrapping at either end.
func (s *Slider) Advance(dir Direction) Cmd {
	n := len(s.region.Panes)
	if dir == Prev {
		s.index = (s.index - 1 + n) % n
	} else {
		s.index = (s.index + 1) % n
	}
	return s.show(dir.String())
}

// JumpTo shows the pane at index. Indexes outside the pane set are ignored.
func (s *Slider) JumpTo(index int) Cmd {
	if index < 0 || index >= len(s.region.Panes) {
		s.trips.Record(trip.NewStumble(trip.Control, "jump target out of range", trip.Context{
			"index": index,
			"panes": len(s.region.Panes),
		}))
		s.log.WithField("index", index).Debug("jump ignored")
		return nil
	}
	s.index = index
	return s.show("jump")
}

// TogglePause flips the paused flag without touching the dwell progress.
// Resuming a slider that has no timer yet arms one.
func (s *Slider) TogglePause() Cmd {
	from := s.timer.state()
	s.timer.paused = !s.timer.paused
	s.renderPause()

	if !s.timer.paused && !s.timer.armed {
		s.timer.arm()
		s.record("resume", from, TimerRearm)
		return s.schedule()
	}

	event, disposition := "pause", TimerKeep
	if !s.timer.paused {
		event = "resume"
	}
	if !s.timer.armed {
		disposition = TimerNone
	}
	s.record(event, from, disposition)
	return nil
}

// Tick is one firing of the progress timer.
func (s *Slider) Tick(gen uint64) Cmd {
	from := s.timer.state()
	if !s.timer.live(gen) {
		s.record("tick", from, TimerDrop)
		return nil
	}

	if s.timer.step() {
		s.renderProgress()
		s.index = (s.index + 1) % len(s.region.Panes)
		return s.show("auto")
	}

	s.renderProgress()
	s.record("tick", from, TimerKeep)
	return s.schedule()
}

// Resize recomputes the pane layout for a new viewport width.
func (s *Slider) Resize(width float64) {
	s.width = width
	s.syncHeights()
}

// Loaded re-syncs heights once the first visual has its natural size.
func (s *Slider) Loaded() {
	if !s.awaitingLoad {
		return
	}
	s.awaitingLoad = false
	s.syncHeights()
}

// show renders the new cursor, resets the dwell and re-arms the timer.
func (s *Slider) show(event string) Cmd {
	from := s.timer.state()

	s.timer.reset()
	s.render()

	if !s.timer.armed && s.timer.paused {
		// First interaction with a held slider starts the rotation.
		s.timer.paused = false
		s.renderPause()
	}
	s.timer.arm()
	s.record(event, from, TimerRearm)

	return s.schedule()
}

func (s *Slider) schedule() Cmd {
	id, gen := s.id, s.timer.gen
	return Tick(s.timer.interval, func(t time.Time) Msg {
		return TickMsg{Target: id, Gen: gen, At: t}
	})
}

func waitForLoad(id string, v Visual) Cmd {
	done := v.LoadNotify()
	if done == nil {
		return nil
	}
	return func() Msg {
		<-done
		return LoadedMsg{Target: id}
	}
}

func (s *Slider) record(event string, from TimerState, disposition Disposition) {
	s.last = Transition{
		Event: event,
		From:  from,
		To:    s.timer.state(),
		Timer: disposition,
	}
	if event == "tick" {
		return
	}
	s.log.WithFields(logrus.Fields{
		"event": event,
		"index": s.index,
		"from":  from,
		"to":    s.last.To,
		"timer": disposition,
	}).Debug("slider transition")
}

func (s *Slider) syncHeights() {
	s.layout, s.height = SyncHeights(s.region.Panes, s.bp.Narrow(s.width))
	if s.layout == SyncNotReady {
		s.trips.Record(trip.NewStumble(trip.Layout, "first pane has no height yet", trip.Context{
			"width": s.width,
		}))
	}
}

func (s *Slider) render() {
	s.region.Wrapper.SetStyle("transform", translateX(-float64(s.index*100)))
	if s.region.ProgressBar != nil {
		s.region.ProgressBar.SetStyle("width", "0%")
	}
	for i, indicator := range s.region.Indicators {
		if indicator != nil {
			indicator.SetClass(ClassActive, i == s.index)
		}
	}
}

func (s *Slider) renderProgress() {
	if s.region.ProgressBar != nil {
		s.region.ProgressBar.SetStyle("width", percent(s.timer.fraction()*100))
	}
}

func (s *Slider) renderPause() {
	if s.region.Pause != nil {
		s.region.Pause.SetClass(ClassPaused, s.timer.paused)
	}
}

// ID returns the slider's target id.
func (s Slider) ID() string { return s.id }

// Index returns the cursor.
func (s Slider) Index() int { return s.index }

// Len returns the number of panes.
func (s Slider) Len() int { return len(s.region.Panes) }

// Progress returns how long the current pane has been showing.
func (s Slider) Progress() time.Duration { return s.timer.progress }

// Duration returns the dwell time per pane.
func (s Slider) Duration() time.Duration { return s.timer.duration }

// Paused reports the paused flag.
func (s Slider) Paused() bool { return s.timer.paused }

// State returns the timer state.
func (s Slider) State() TimerState { return s.timer.state() }

// Armed reports whether a timer is armed. Only ticks carrying TimerGen count.
func (s Slider) Armed() bool { return s.timer.armed }

// TimerGen identifies the live timer arming; ticks carrying another value are dropped.
func (s Slider) TimerGen() uint64 { return s.timer.gen }

// LastTransition returns the most recent state transition.
func (s Slider) LastTransition() Transition { return s.last }

// Layout returns the outcome and height of the last height sync.
func (s Slider) Layout() (SyncResult, float64) { return s.layout, s.height }

// Trips returns the slider's trip handler.
func (s Slider) Trips() *trip.Handler { return s.trips }

// CurrentMode returns the timer state name.
func (s Slider) CurrentMode() string { return s.timer.state().String() }

// CheckCondition answers "index:N", "paused", "layout:<result>" and timer state names.
func (s Slider) CheckCondition(condition string) bool {
	switch {
	case condition == "paused":
		return s.timer.paused
	case strings.HasPrefix(condition, "index:"):
		return condition == fmt.Sprintf("index:%d", s.index)
	case strings.HasPrefix(condition, "layout:"):
		return condition == "layout:"+s.layout.String()
	default:
		return condition == s.timer.state().String()
	}
}

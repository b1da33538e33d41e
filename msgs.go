package dolly

import "time"

// Direction of a navigation step.
type Direction int

const (
	Next Direction = iota
	Prev
)

func (d Direction) String() string {
	if d == Prev {
		return "prev"
	}
	return "next"
}

// NavMsg is a click on a previous/next control.
type NavMsg struct {
	Target string
	Dir    Direction
}

// JumpMsg is a click on the indicator for Index.
type JumpMsg struct {
	Target string
	Index  int
}

// PauseMsg is a click on the pause/play control.
type PauseMsg struct {
	Target string
}

// ResizeMsg reports the viewport size in CSS pixels. It is broadcast to every component.
type ResizeMsg struct {
	Width  float64
	Height float64
}

// LoadedMsg reports that the first pane's primary visual finished loading.
type LoadedMsg struct {
	Target string
}

// TickMsg is one firing of a slider's progress timer. Gen identifies the
// arming it belongs to; ticks from a cancelled arming are dropped.
type TickMsg struct {
	Target string
	Gen    uint64
	At     time.Time
}

// IntersectMsg reports that a revealable section entered or left the viewport.
// Unobserve, if set, is called once the section has been revealed.
type IntersectMsg struct {
	Index        int
	Intersecting bool
	Unobserve    func()
}

// ZoomMsg is a click on a zoomable image.
type ZoomMsg struct {
	Zoom Zoomable
}

// CloseMsg is a click on the lightbox close control or its backdrop.
type CloseMsg struct{}

// EscapeMsg is the Escape key pressed anywhere on the page.
type EscapeMsg struct{}

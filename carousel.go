package dolly

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/teranos/dolly/trip"
)

// Carousel shows a row of items a few at a time and slides by one item per
// click. It never wraps and has no timer: the prev control is disabled at the
// first position and the next control at the last position that still fills
// the view.
type Carousel struct {
	id     string
	region CarouselRegion
	bp     Breakpoint
	log    logrus.FieldLogger
	trips  *trip.Handler

	items   []Element
	index   int
	visible int
	width   float64
}

// NewCarousel mounts a carousel on region and builds one item per identifier
// through factory. The item set is frozen afterwards.
func NewCarousel(id string, region CarouselRegion, ids []string, factory ItemFactory, cfg Config, width float64) (*Carousel, error) {
	if region.Wrapper == nil {
		return nil, ErrNoWrapper
	}

	cfg = cfg.normalized()
	c := &Carousel{
		id:     id,
		region: region,
		bp:     Breakpoint(cfg.Breakpoint),
		log:    cfg.Logger.WithFields(logrus.Fields{"component": "carousel", "target": id}),
		trips:  trip.NewHandler("carousel "+id, nil),
		width:  width,
	}

	if region.Pagination != nil {
		// One-at-a-time stepping has no pages to show.
		region.Pagination.SetStyle("display", "none")
	}
	region.Wrapper.SetStyle("display", "flex")
	region.Wrapper.SetStyle("transition", "transform 0.5s ease-out")
	region.Wrapper.SetStyle("width", "100%")

	for i, itemID := range ids {
		if factory == nil {
			break
		}
		item := factory.Build(i, itemID)
		if item == nil {
			c.trips.Record(trip.NewStumble(trip.Mount, "item not built", trip.Context{"item": itemID}))
			continue
		}
		item.SetStyle("box-sizing", "border-box")
		c.items = append(c.items, item)
	}
	if len(c.items) == 0 {
		return nil, ErrNoPanes
	}

	c.recompute()

	c.log.WithFields(logrus.Fields{
		"items":   len(c.items),
		"visible": c.visible,
	}).Debug("carousel mounted")

	return c, nil
}

// Handle applies navigation addressed to this carousel and viewport resizes.
// A carousel has no timer, so it never returns a command.
func (c Carousel) Handle(msg Msg) (Carousel, Cmd) {
	switch msg := msg.(type) {
	case NavMsg:
		if msg.Target == c.id {
			c.Advance(msg.Dir)
		}
	case ResizeMsg:
		c.Resize(msg.Width)
	}
	return c, nil
}

// Advance steps one item in dir and reports whether the cursor moved.
// Stepping past either edge is a no-op.
func (c *Carousel) Advance(dir Direction) bool {
	target := c.index + 1
	if dir == Prev {
		target = c.index - 1
	}
	if target < 0 || target > c.MaxIndex() {
		return false
	}
	c.index = target
	c.render()
	return true
}

// Resize recomputes the visible count for width and clamps the cursor.
func (c *Carousel) Resize(width float64) {
	c.width = width
	c.recompute()
}

func (c *Carousel) recompute() {
	c.visible = c.bp.ItemsVisible(c.width)
	c.index = Clamp(c.index, c.MaxIndex())
	c.render()
}

func (c *Carousel) render() {
	c.region.Wrapper.SetStyle("transform", translateX(-float64(c.index)*(100/float64(c.visible))))
	setEnabled(c.region.Prev, c.index > 0)
	setEnabled(c.region.Next, c.index < c.MaxIndex())
}

func setEnabled(control Element, enabled bool) {
	if control == nil {
		return
	}
	if enabled {
		control.SetStyle("opacity", "1")
		control.SetStyle("pointer-events", "auto")
		control.SetStyle("cursor", "pointer")
		return
	}
	control.SetStyle("opacity", "0.3")
	control.SetStyle("pointer-events", "none")
	control.SetStyle("cursor", "default")
}

// ID returns the carousel's target id.
func (c Carousel) ID() string { return c.id }

// Index returns the cursor.
func (c Carousel) Index() int { return c.index }

// Len returns the number of items.
func (c Carousel) Len() int { return len(c.items) }

// Visible returns how many items are shown at once.
func (c Carousel) Visible() int { return c.visible }

// MaxIndex is the last cursor position that still fills the view.
func (c Carousel) MaxIndex() int { return MaxIndex(len(c.items), c.visible) }

// CanPrev reports whether the prev control is enabled.
func (c Carousel) CanPrev() bool { return c.index > 0 }

// CanNext reports whether the next control is enabled.
func (c Carousel) CanNext() bool { return c.index < c.MaxIndex() }

// Trips returns the carousel's trip handler.
func (c Carousel) Trips() *trip.Handler { return c.trips }

// CurrentMode is "single" below the breakpoint and "triple" above it.
func (c Carousel) CurrentMode() string {
	if c.visible == 1 {
		return "single"
	}
	return "triple"
}

// CheckCondition answers "index:N", "at-start", "at-end" and mode names.
func (c Carousel) CheckCondition(condition string) bool {
	switch {
	case condition == "at-start":
		return !c.CanPrev()
	case condition == "at-end":
		return !c.CanNext()
	case strings.HasPrefix(condition, "index:"):
		return condition == fmt.Sprintf("index:%d", c.index)
	default:
		return condition == c.CurrentMode()
	}
}

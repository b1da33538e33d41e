package dolly

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/teranos/dolly/trip"
)

// Page hosts every component mounted on one page and routes events to them.
//
// Messages carrying a target id go to the component with that id; resizes
// go to everyone. A component whose anchor is missing simply is not mounted:
// the failure is logged and recorded as a stumble, and the rest of the page
// carries on.
type Page struct {
	cfg    Config
	log    logrus.FieldLogger
	trips  *trip.Handler
	width  float64
	height float64

	sliders   []Slider
	carousels []Carousel
	reveal    *Reveal
	lightbox  *Lightbox
}

// NewPage creates an empty page for a viewport of the given size. cfg supplies
// the breakpoint and logger shared by the lightbox.
func NewPage(cfg Config, width, height float64) *Page {
	cfg = cfg.normalized()
	return &Page{
		cfg:    cfg,
		log:    cfg.Logger.WithField("component", "page"),
		trips:  trip.NewHandler("page", nil),
		width:  width,
		height: height,
	}
}

// MountSlider mounts a slider and reports whether it activated.
func (p *Page) MountSlider(id string, region SlideRegion, cfg Config) bool {
	s, err := NewSlider(id, region, cfg, p.width)
	if err != nil {
		p.mountFailed("slider", id, err)
		return false
	}
	p.sliders = append(p.sliders, *s)
	return true
}

// MountCarousel mounts a carousel and reports whether it activated.
func (p *Page) MountCarousel(id string, region CarouselRegion, ids []string, factory ItemFactory, cfg Config) bool {
	c, err := NewCarousel(id, region, ids, factory, cfg, p.width)
	if err != nil {
		p.mountFailed("carousel", id, err)
		return false
	}
	p.carousels = append(p.carousels, *c)
	return true
}

// MountReveal observes sections for scroll reveal.
func (p *Page) MountReveal(sections []Element) {
	if len(sections) == 0 {
		return
	}
	p.reveal = NewReveal(sections)
}

// AttachLightbox routes zoom clicks to overlay.
func (p *Page) AttachLightbox(overlay Overlay) {
	if overlay == nil {
		return
	}
	p.lightbox = NewLightbox(overlay, p.cfg, p.width)
}

func (p *Page) mountFailed(kind, id string, err error) {
	p.trips.Record(trip.NewStumble(trip.Mount, kind+" not mounted", trip.Context{
		"target": id,
		"reason": err.Error(),
	}))
	p.log.WithFields(logrus.Fields{"target": id, "kind": kind}).WithError(err).Debug("component not mounted")
}

// Start starts every mounted slider.
func (p Page) Start() Cmd {
	cmds := make([]Cmd, 0, len(p.sliders))
	for _, s := range p.sliders {
		cmds = append(cmds, s.Start())
	}
	return Batch(cmds...)
}

// Handle routes msg to the components it concerns and returns the next page.
// Earlier Page values are never modified.
func (p Page) Handle(msg Msg) (Page, Cmd) {
	switch msg := msg.(type) {
	case NavMsg:
		if cmd, ok := p.updateSlider(msg.Target, msg); ok {
			return p, cmd
		}
		p.updateCarousel(msg.Target, msg)
	case JumpMsg:
		cmd, _ := p.updateSlider(msg.Target, msg)
		return p, cmd
	case PauseMsg:
		cmd, _ := p.updateSlider(msg.Target, msg)
		return p, cmd
	case TickMsg:
		cmd, _ := p.updateSlider(msg.Target, msg)
		return p, cmd
	case LoadedMsg:
		cmd, _ := p.updateSlider(msg.Target, msg)
		return p, cmd
	case ResizeMsg:
		p.width, p.height = msg.Width, msg.Height
		p.broadcast(msg)
	case IntersectMsg:
		if p.reveal != nil {
			next, _ := p.reveal.Handle(msg)
			p.reveal = &next
		}
	case ZoomMsg, CloseMsg, EscapeMsg:
		if p.lightbox != nil {
			next, _ := p.lightbox.Handle(msg)
			p.lightbox = &next
		}
	}
	return p, nil
}

func (p *Page) updateSlider(id string, msg Msg) (Cmd, bool) {
	for i := range p.sliders {
		if p.sliders[i].id != id {
			continue
		}
		sliders := append([]Slider(nil), p.sliders...)
		next, cmd := sliders[i].Handle(msg)
		sliders[i] = next
		p.sliders = sliders
		return cmd, true
	}
	return nil, false
}

func (p *Page) updateCarousel(id string, msg Msg) bool {
	for i := range p.carousels {
		if p.carousels[i].id != id {
			continue
		}
		carousels := append([]Carousel(nil), p.carousels...)
		carousels[i], _ = carousels[i].Handle(msg)
		p.carousels = carousels
		return true
	}
	return false
}

func (p *Page) broadcast(msg ResizeMsg) {
	sliders := append([]Slider(nil), p.sliders...)
	for i := range sliders {
		sliders[i].Resize(msg.Width)
	}
	p.sliders = sliders

	carousels := append([]Carousel(nil), p.carousels...)
	for i := range carousels {
		carousels[i].Resize(msg.Width)
	}
	p.carousels = carousels

	if p.lightbox != nil {
		l := *p.lightbox
		l.width = msg.Width
		p.lightbox = &l
	}
}

// Slider returns the mounted slider with id.
func (p Page) Slider(id string) (Slider, bool) {
	for _, s := range p.sliders {
		if s.id == id {
			return s, true
		}
	}
	return Slider{}, false
}

// Carousel returns the mounted carousel with id.
func (p Page) Carousel(id string) (Carousel, bool) {
	for _, c := range p.carousels {
		if c.id == id {
			return c, true
		}
	}
	return Carousel{}, false
}

// Reveal returns the scroll reveal, if mounted.
func (p Page) Reveal() (Reveal, bool) {
	if p.reveal == nil {
		return Reveal{}, false
	}
	return *p.reveal, true
}

// Lightbox returns the lightbox, if attached.
func (p Page) Lightbox() (Lightbox, bool) {
	if p.lightbox == nil {
		return Lightbox{}, false
	}
	return *p.lightbox, true
}

// Mounted returns the ids of every mounted slider and carousel.
func (p Page) Mounted() []string {
	ids := make([]string, 0, len(p.sliders)+len(p.carousels))
	for _, s := range p.sliders {
		ids = append(ids, s.id)
	}
	for _, c := range p.carousels {
		ids = append(ids, c.id)
	}
	return ids
}

// Report returns the trip reports of the page and every component.
func (p Page) Report() string {
	var b strings.Builder
	b.WriteString(p.trips.DetailedReport())
	for _, s := range p.sliders {
		b.WriteString(s.trips.DetailedReport())
	}
	for _, c := range p.carousels {
		b.WriteString(c.trips.DetailedReport())
	}
	return b.String()
}

// Trips returns the page-level trip handler.
func (p Page) Trips() *trip.Handler { return p.trips }

// CurrentMode is "narrow" below the breakpoint and "wide" above it.
func (p Page) CurrentMode() string {
	if Breakpoint(p.cfg.Breakpoint).Narrow(p.width) {
		return "narrow"
	}
	return "wide"
}

// CheckCondition answers page-level conditions and delegates
// "<id>:<condition>" to the component with that id, e.g.
// "#video-slider:index:2" or "#mesh-slider:at-end".
func (p Page) CheckCondition(condition string) bool {
	switch condition {
	case "lightbox:open":
		return p.lightbox != nil && p.lightbox.open
	case "revealed":
		return p.reveal != nil && p.reveal.Pending() == 0
	case "narrow", "wide":
		return condition == p.CurrentMode()
	}

	id, rest, ok := strings.Cut(condition, ":")
	if !ok {
		return false
	}
	if s, found := p.Slider(id); found {
		return s.CheckCondition(rest)
	}
	if c, found := p.Carousel(id); found {
		return c.CheckCondition(rest)
	}
	return false
}

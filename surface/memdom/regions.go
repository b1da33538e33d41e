package memdom

import (
	"fmt"
	"sync"

	"github.com/teranos/dolly"
)

// Deck is an in-memory slider region with every control present.
type Deck struct {
	Wrapper     *Node
	Frames      []*Node
	Visuals     []*Image
	ProgressBar *Node
	Prev        *Node
	Next        *Node
	Pause       *Node
	Indicators  []*Node
}

// NewDeck builds n image panes whose visuals are loaded at height.
func NewDeck(n int, height float64) *Deck {
	d := &Deck{
		Wrapper:     NewNode(dolly.SelectorWrapper),
		ProgressBar: NewNode(dolly.SelectorProgressBar),
		Prev:        NewNode(dolly.SelectorPrev),
		Next:        NewNode(dolly.SelectorNext),
		Pause:       NewNode(dolly.SelectorPause),
	}
	for i := 0; i < n; i++ {
		d.Frames = append(d.Frames, NewNode(fmt.Sprintf("%s#%d", dolly.SelectorFrame, i)))
		d.Visuals = append(d.Visuals, NewLoadedImage(fmt.Sprintf("%s#%d", dolly.SelectorVisual, i), height))
		d.Indicators = append(d.Indicators, NewNode(fmt.Sprintf("%s#%d", dolly.SelectorIndicator, i)))
	}
	return d
}

// Region returns the deck as a slide region.
func (d *Deck) Region() dolly.SlideRegion {
	r := dolly.SlideRegion{
		Wrapper:     d.Wrapper,
		ProgressBar: d.ProgressBar,
		Prev:        d.Prev,
		Next:        d.Next,
		Pause:       d.Pause,
	}
	for i := range d.Frames {
		r.Panes = append(r.Panes, dolly.Pane{Frame: d.Frames[i], Visual: d.Visuals[i]})
	}
	for _, ind := range d.Indicators {
		r.Indicators = append(r.Indicators, ind)
	}
	return r
}

// ActiveIndicators returns the indexes of indicators carrying the active class.
func (d *Deck) ActiveIndicators() []int {
	var active []int
	for i, ind := range d.Indicators {
		if ind.HasClass(dolly.ClassActive) {
			active = append(active, i)
		}
	}
	return active
}

// Strip is an in-memory carousel region. Items are created through Factory.
type Strip struct {
	Wrapper    *Node
	Pagination *Node
	Prev       *Node
	Next       *Node

	mu    sync.Mutex
	items []*Node
}

// NewStrip builds an empty carousel region.
func NewStrip() *Strip {
	return &Strip{
		Wrapper:    NewNode(dolly.SelectorWrapper),
		Pagination: NewNode(dolly.SelectorPagination),
		Prev:       NewNode(dolly.SelectorPrev),
		Next:       NewNode(dolly.SelectorNext),
	}
}

// Region returns the strip as a carousel region.
func (s *Strip) Region() dolly.CarouselRegion {
	return dolly.CarouselRegion{
		Wrapper:    s.Wrapper,
		Pagination: s.Pagination,
		Prev:       s.Prev,
		Next:       s.Next,
	}
}

// Factory appends one node per item to the strip.
func (s *Strip) Factory() dolly.ItemFactory {
	return dolly.ItemFactoryFunc(func(index int, id string) dolly.Element {
		n := NewNode(id)
		s.mu.Lock()
		s.items = append(s.items, n)
		s.mu.Unlock()
		return n
	})
}

// Items returns the nodes built so far.
func (s *Strip) Items() []*Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Node(nil), s.items...)
}

// Overlay records what the lightbox asked it to show.
type Overlay struct {
	mu     sync.Mutex
	open   bool
	opened []dolly.Content
}

// Open implements dolly.Overlay.
func (o *Overlay) Open(c dolly.Content) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.open = true
	o.opened = append(o.opened, c)
}

// Close implements dolly.Overlay.
func (o *Overlay) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.open = false
}

// IsOpen reports whether the overlay is showing.
func (o *Overlay) IsOpen() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.open
}

// Last returns the most recently opened content.
func (o *Overlay) Last() (dolly.Content, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.opened) == 0 {
		return dolly.Content{}, false
	}
	return o.opened[len(o.opened)-1], true
}

var _ dolly.Overlay = (*Overlay)(nil)

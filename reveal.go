package dolly

// Reveal fades page sections in the first time they scroll into view.
// A revealed section stays revealed and is no longer observed.
type Reveal struct {
	sections []Element
	shown    []bool
}

// NewReveal observes sections in page order.
func NewReveal(sections []Element) *Reveal {
	return &Reveal{
		sections: sections,
		shown:    make([]bool, len(sections)),
	}
}

// Handle applies intersection reports.
func (r Reveal) Handle(msg Msg) (Reveal, Cmd) {
	if msg, ok := msg.(IntersectMsg); ok {
		if r.Intersect(msg.Index, msg.Intersecting) && msg.Unobserve != nil {
			msg.Unobserve()
		}
	}
	return r, nil
}

// Intersect records an intersection report and returns true when it revealed
// the section, which is the moment the caller should stop observing it.
func (r *Reveal) Intersect(index int, intersecting bool) bool {
	if !intersecting || index < 0 || index >= len(r.sections) || r.shown[index] {
		return false
	}
	// Copy on write so earlier model values keep their own view of the page.
	shown := append([]bool(nil), r.shown...)
	shown[index] = true
	r.shown = shown

	if r.sections[index] != nil {
		r.sections[index].SetClass(ClassVisible, true)
	}
	return true
}

// Observed reports whether section index is still waiting to be revealed.
func (r Reveal) Observed(index int) bool {
	return index >= 0 && index < len(r.shown) && !r.shown[index]
}

// Pending returns how many sections are still hidden.
func (r Reveal) Pending() int {
	n := 0
	for _, shown := range r.shown {
		if !shown {
			n++
		}
	}
	return n
}

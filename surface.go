package dolly

// Element is a node on the page the engine may style.
//
// The engine only ever writes: inline style properties and marker classes.
// An empty value removes the inline property so the stylesheet takes over
// again.
type Element interface {
	SetStyle(property, value string)
	SetClass(name string, on bool)
}

// Visual is the primary image of a pane.
type Visual interface {
	Element
	// Loaded reports whether the image has finished loading.
	Loaded() bool
	// LoadNotify returns a channel that is closed once loading completes.
	LoadNotify() <-chan struct{}
	// OffsetHeight is the current rendered height in CSS pixels; zero before layout.
	OffsetHeight() float64
	// NaturalSize is the intrinsic size of the image in pixels.
	NaturalSize() (width, height float64)
}

// CropSide selects which half of a side-by-side comparison image a crop shows.
type CropSide int

const (
	// CropLeft shows the image from its left edge.
	CropLeft CropSide = iota
	// CropRight shifts the visible window to begin at CropRightOffset of the natural width.
	CropRight
)

// CropRightOffset is the fraction of the natural width hidden by a right crop.
const CropRightOffset = 0.61

// ClassReader reports marker classes of a node.
type ClassReader interface {
	HasClass(name string) bool
}

// CropSideOf classifies a crop image. The side class sits on the image
// itself; a side class on the enclosing frame is honoured when the image has
// none. Either argument may be nil. ok is false when neither carries a side.
func CropSideOf(img, frame ClassReader) (side CropSide, ok bool) {
	for _, n := range []ClassReader{img, frame} {
		if n == nil {
			continue
		}
		switch {
		case n.HasClass(ClassCropRight):
			return CropRight, true
		case n.HasClass(ClassCropLeft):
			return CropLeft, true
		}
	}
	return CropLeft, false
}

// Crop is a fixed-height window onto one half of a comparison image.
type Crop struct {
	Frame Element
	Image Element
	Side  CropSide
}

// Pane is one rotating content unit.
//
// Frame and Visual are absent for panes holding an embedded 3D viewer; those
// are sized by the stylesheet and only have their explicit height cleared on
// narrow viewports.
type Pane struct {
	Frame  Element
	Visual Visual
	Crops  []Crop
	Viewer Element
}

// SlideRegion is everything a Slider needs from its root container.
// Any control may be nil, in which case that affordance is unavailable.
type SlideRegion struct {
	Wrapper     Element
	Panes       []Pane
	ProgressBar Element
	Prev        Element
	Next        Element
	Pause       Element
	Indicators  []Element
}

// ItemFactory creates carousel items. Build is called once per identifier,
// in order, at mount time; the factory is responsible for attaching the item
// to the carousel wrapper. A nil result skips the identifier.
type ItemFactory interface {
	Build(index int, id string) Element
}

// ItemFactoryFunc adapts a function to ItemFactory.
type ItemFactoryFunc func(index int, id string) Element

// Build calls f(index, id).
func (f ItemFactoryFunc) Build(index int, id string) Element {
	return f(index, id)
}

// CarouselRegion is everything a Carousel needs from its root container.
type CarouselRegion struct {
	Wrapper    Element
	Pagination Element
	Prev       Element
	Next       Element
}

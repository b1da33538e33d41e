//go:build js && wasm

package jsdom

import (
	"strings"
	"syscall/js"

	"github.com/teranos/dolly"
)

// Slides is a slider region found in the document. The raw controls are kept
// so the caller can attach click listeners.
type Slides struct {
	Root       js.Value
	Prev       js.Value
	Next       js.Value
	Pause      js.Value
	Indicators []js.Value
	Zoomables  []js.Value

	region dolly.SlideRegion
}

// FindSlides reads the slider rooted at selector. ok is false when the page
// has no such anchor.
func FindSlides(selector string) (*Slides, bool) {
	root, ok := Query(jsDocument, selector)
	if !ok {
		return nil, false
	}

	s := &Slides{Root: root}
	wrapper, _ := Query(root, dolly.SelectorWrapper)
	s.Prev, _ = Query(root, dolly.SelectorPrev)
	s.Next, _ = Query(root, dolly.SelectorNext)
	s.Pause, _ = Query(root, dolly.SelectorPause)
	s.Indicators = QueryAll(root, dolly.SelectorIndicator)

	s.region = dolly.SlideRegion{
		Wrapper: Wrap(wrapper),
		Prev:    Wrap(s.Prev),
		Next:    Wrap(s.Next),
		Pause:   Wrap(s.Pause),
	}
	if bar, ok := Query(root, dolly.SelectorProgressBar); ok {
		s.region.ProgressBar = Node{bar}
	}
	for _, ind := range s.Indicators {
		s.region.Indicators = append(s.region.Indicators, Node{ind})
	}

	for _, slide := range QueryAll(root, dolly.SelectorSlide) {
		s.region.Panes = append(s.region.Panes, s.pane(slide))
	}
	return s, true
}

func (s *Slides) pane(slide js.Value) dolly.Pane {
	var p dolly.Pane
	if frame, ok := Query(slide, dolly.SelectorFrame); ok {
		p.Frame = Node{frame}
	}
	if img, ok := Query(slide, dolly.SelectorVisual); ok {
		p.Visual = NewImage(img)
	}
	if viewer, ok := Query(slide, dolly.SelectorViewer); ok {
		p.Viewer = Node{viewer}
	}
	for _, frame := range QueryAll(slide, dolly.SelectorCropFrame) {
		img, ok := Query(frame, dolly.SelectorCropLeft+", "+dolly.SelectorCropRight)
		if !ok {
			if img, ok = Query(frame, "img"); !ok {
				continue
			}
		}
		side, _ := dolly.CropSideOf(Node{img}, Node{frame})
		p.Crops = append(p.Crops, dolly.Crop{Frame: Node{frame}, Image: Node{img}, Side: side})
	}
	s.Zoomables = append(s.Zoomables, QueryAll(slide, dolly.SelectorVisual)...)
	return p
}

// Region returns the slide region for mounting.
func (s *Slides) Region() dolly.SlideRegion { return s.region }

// Strip is a carousel region found in the document.
type Strip struct {
	Root    js.Value
	Wrapper js.Value
	Prev    js.Value
	Next    js.Value

	region dolly.CarouselRegion
}

// FindStrip reads the carousel rooted at selector.
func FindStrip(selector string) (*Strip, bool) {
	root, ok := Query(jsDocument, selector)
	if !ok {
		return nil, false
	}

	s := &Strip{Root: root}
	s.Wrapper, _ = Query(root, dolly.SelectorWrapper)
	s.Prev, _ = Query(root, dolly.SelectorPrev)
	s.Next, _ = Query(root, dolly.SelectorNext)
	pagination, _ := Query(jsDocument, dolly.SelectorPagination)

	s.region = dolly.CarouselRegion{
		Wrapper:    Wrap(s.Wrapper),
		Pagination: Wrap(pagination),
		Prev:       Wrap(s.Prev),
		Next:       Wrap(s.Next),
	}
	return s, true
}

// Region returns the carousel region for mounting.
func (s *Strip) Region() dolly.CarouselRegion { return s.region }

// Factory builds one mesh viewer per item and appends it to the wrapper:
//
//	<div class="mesh-carousel-item">
//	  <div class="render_wrapper"><model-viewer src="..."></model-viewer></div>
//	</div>
func (s *Strip) Factory(cfg dolly.CarouselConfig) dolly.ItemFactory {
	return dolly.ItemFactoryFunc(func(index int, id string) dolly.Element {
		if !present(s.Wrapper) {
			return nil
		}
		item := jsDocument.Call("createElement", "div")
		item.Get("classList").Call("add", "mesh-carousel-item")
		item.Get("dataset").Set("item", id)

		render := jsDocument.Call("createElement", "div")
		render.Get("classList").Call("add", strings.TrimPrefix(dolly.SelectorViewer, "."))

		viewer := jsDocument.Call("createElement", "model-viewer")
		viewer.Call("setAttribute", "src", cfg.URL(id))
		viewer.Call("setAttribute", "alt", id)
		viewer.Call("setAttribute", "camera-controls", "")
		viewer.Call("setAttribute", "auto-rotate", "")
		viewer.Call("setAttribute", "loading", "lazy")

		render.Call("appendChild", viewer)
		item.Call("appendChild", render)
		s.Wrapper.Call("appendChild", item)
		return Node{item}
	})
}

// Sections returns the reveal sections and their raw nodes.
func Sections() ([]dolly.Element, []js.Value) {
	raw := QueryAll(jsDocument, dolly.SelectorSection)
	elems := make([]dolly.Element, len(raw))
	for i, v := range raw {
		elems[i] = Node{v}
	}
	return elems, raw
}

// Zoomable describes a clicked image for the lightbox.
func Zoomable(img js.Value) dolly.Zoomable {
	z := dolly.Zoomable{
		Source:        img.Get("src").String(),
		NaturalWidth:  img.Get("naturalWidth").Float(),
		NaturalHeight: img.Get("naturalHeight").Float(),
	}

	var frame dolly.ClassReader
	if crop := img.Call("closest", dolly.SelectorCropFrame); present(crop) {
		frame = Node{crop}
	}
	side, ok := dolly.CropSideOf(Node{img}, frame)
	if !ok && frame == nil {
		return z
	}
	z.Crop = &side

	if frame := img.Call("closest", dolly.SelectorFrame); present(frame) {
		z.FrameWidth = frame.Get("offsetWidth").Float()
		z.FrameHeight = frame.Get("offsetHeight").Float()
	}
	return z
}

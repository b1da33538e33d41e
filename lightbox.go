package dolly

import "github.com/sirupsen/logrus"

// CanvasFrame tells an overlay how to draw one half of a split comparison
// image: a canvas of Width×Height filled with Fill, the image drawn at
// (OffsetX, 0) in natural pixels.
type CanvasFrame struct {
	Width   float64
	Height  float64
	OffsetX float64
	Fill    string
}

// Content is what the overlay shows: either an image source, or a canvas
// frame cut from Source.
type Content struct {
	Source string
	Canvas *CanvasFrame
}

// Overlay is the single page-wide zoom surface.
type Overlay interface {
	Open(content Content)
	Close()
}

// Zoomable describes a clicked image.
type Zoomable struct {
	Source        string
	NaturalWidth  float64
	NaturalHeight float64
	// Crop is set for split-view crop images.
	Crop *CropSide
	// FrameWidth and FrameHeight are the rendered size of the enclosing pane
	// frame; zero when the image is not inside one.
	FrameWidth  float64
	FrameHeight float64
}

// CropFrame computes the canvas for a crop image so the zoomed view keeps
// the pane's aspect ratio at the image's full natural height.
func CropFrame(z Zoomable) (CanvasFrame, bool) {
	if z.Crop == nil || z.FrameWidth <= 0 || z.FrameHeight <= 0 {
		return CanvasFrame{}, false
	}

	height := z.NaturalHeight
	frame := CanvasFrame{
		Width:  height * (z.FrameWidth / z.FrameHeight),
		Height: height,
		Fill:   "#FFFFFF",
	}
	if *z.Crop == CropRight {
		frame.OffsetX = -z.NaturalWidth * CropRightOffset
	}
	return frame, true
}

// Lightbox opens clicked images on the shared overlay. It is disabled on
// narrow viewports.
type Lightbox struct {
	overlay Overlay
	bp      Breakpoint
	log     logrus.FieldLogger
	width   float64
	open    bool
}

// NewLightbox binds a lightbox to overlay.
func NewLightbox(overlay Overlay, cfg Config, width float64) *Lightbox {
	cfg = cfg.normalized()
	return &Lightbox{
		overlay: overlay,
		bp:      Breakpoint(cfg.Breakpoint),
		log:     cfg.Logger.WithField("component", "lightbox"),
		width:   width,
	}
}

// Handle applies zoom clicks, closing and Escape.
func (l Lightbox) Handle(msg Msg) (Lightbox, Cmd) {
	switch msg := msg.(type) {
	case ZoomMsg:
		l.Zoom(msg.Zoom)
	case CloseMsg, EscapeMsg:
		l.Close()
	case ResizeMsg:
		l.width = msg.Width
	}
	return l, nil
}

// Zoom opens z on the overlay and reports whether it did.
func (l *Lightbox) Zoom(z Zoomable) bool {
	if l.overlay == nil || l.bp.Narrow(l.width) {
		return false
	}

	content := Content{Source: z.Source}
	if frame, ok := CropFrame(z); ok {
		content.Canvas = &frame
	}
	l.overlay.Open(content)
	l.open = true
	l.log.WithField("source", z.Source).Debug("lightbox opened")
	return true
}

// Close hides the overlay if it is open.
func (l *Lightbox) Close() bool {
	if !l.open {
		return false
	}
	l.overlay.Close()
	l.open = false
	return true
}

// IsOpen reports whether the overlay is showing.
func (l Lightbox) IsOpen() bool { return l.open }

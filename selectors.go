package dolly

// Selectors used by surface adapters to locate regions on a page. They match
// the markup of the project pages the engine was written for.
const (
	SelectorVideoSlider = "#video-slider"
	SelectorMeshSlider  = "#mesh-slider"
	SelectorPagination  = "#mesh-slider-pagination"

	SelectorWrapper     = ".slides-wrapper"
	SelectorSlide       = ".slide"
	SelectorProgressBar = ".progress-bar"
	SelectorPrev        = ".btn-prev"
	SelectorNext        = ".btn-next"
	SelectorPause       = ".btn-pause"
	SelectorIndicator   = ".nav-btn"

	SelectorFrame     = ".slider-image-container"
	SelectorVisual    = ".slider-img"
	SelectorCropFrame = ".img-crop-container"
	SelectorCropLeft  = ".img-pos-left"
	SelectorCropRight = ".img-pos-right"
	SelectorViewer    = ".render_wrapper"

	SelectorSection = ".paper-section"
	SelectorZoom    = ".method-image, .teaser-img, .result-item img, .slider-img"
)

// Marker classes toggled by the engine.
const (
	ClassActive  = "active"
	ClassPaused  = "is-paused"
	ClassVisible = "is-visible"
)

// Classes read from the page. The crop side classes sit on crop images.
const (
	ClassCropLeft  = "img-pos-left"
	ClassCropRight = "img-pos-right"
)

package dolly

import (
	"fmt"
	"strconv"
)

// Breakpoint is the viewport width, in CSS pixels, below which the page is
// treated as narrow (mobile).
type Breakpoint float64

// Narrow reports whether width falls below the breakpoint.
func (b Breakpoint) Narrow(width float64) bool {
	return width < float64(b)
}

// ItemsVisible is how many carousel items fit side by side at width.
func (b Breakpoint) ItemsVisible(width float64) int {
	if b.Narrow(width) {
		return 1
	}
	return 3
}

// MaxIndex is the last cursor position that still fills the view.
func MaxIndex(total, visible int) int {
	return max(0, total-visible)
}

// Clamp keeps i within [0, hi].
func Clamp(i, hi int) int {
	return max(0, min(i, hi))
}

// translateX formats a horizontal percentage transform. Negative zero is
// written as 0 so a carousel at rest reads "translateX(0%)".
func translateX(percent float64) string {
	if percent == 0 {
		percent = 0
	}
	return "translateX(" + strconv.FormatFloat(percent, 'f', -1, 64) + "%)"
}

// percent formats a CSS percentage length.
func percent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

// pixels formats a CSS pixel length.
func pixels(px float64) string {
	return strconv.FormatFloat(px, 'f', -1, 64) + "px"
}

// SyncResult describes what SyncHeights did.
type SyncResult int

const (
	// SyncApplied means a uniform height was applied to every pane.
	SyncApplied SyncResult = iota
	// SyncCleared means explicit sizing was removed for a narrow viewport.
	SyncCleared
	// SyncNoVisual means the first pane has no primary visual; the stylesheet governs.
	SyncNoVisual
	// SyncNotReady means the first visual has no height yet; nothing was applied.
	SyncNotReady
)

func (r SyncResult) String() string {
	switch r {
	case SyncApplied:
		return "applied"
	case SyncCleared:
		return "cleared"
	case SyncNoVisual:
		return "no-visual"
	case SyncNotReady:
		return "not-ready"
	default:
		return fmt.Sprintf("SyncResult(%d)", int(r))
	}
}

// SyncHeights gives every pane the rendered height of the first pane's
// primary visual so panes of differing aspect ratio line up without
// distortion. Normal visuals are contained; crop images cover their frame
// and are shifted to show their half of a comparison image.
//
// Below the breakpoint all explicit sizing is removed and the stylesheet
// takes over. The call reads metrics fresh and is safe to repeat in any
// order with other layout events.
func SyncHeights(panes []Pane, narrow bool) (SyncResult, float64) {
	if len(panes) == 0 {
		return SyncNoVisual, 0
	}

	if narrow {
		clearSizing(panes)
		return SyncCleared, 0
	}

	first := panes[0]
	if first.Visual == nil {
		return SyncNoVisual, 0
	}

	// Let the first visual fall back to its intrinsic height before measuring.
	if first.Frame != nil {
		first.Frame.SetStyle("height", "")
	}
	first.Visual.SetStyle("height", "")

	height := first.Visual.OffsetHeight()
	if height <= 0 {
		return SyncNotReady, 0
	}

	h := pixels(height)
	for _, pane := range panes {
		if pane.Frame != nil {
			pane.Frame.SetStyle("height", h)
			pane.Frame.SetStyle("display", "flex")
			pane.Frame.SetStyle("align-items", "center")
		}
		if pane.Visual != nil {
			pane.Visual.SetStyle("height", "100%")
			pane.Visual.SetStyle("object-fit", "contain")
		}
		for _, crop := range pane.Crops {
			if crop.Frame != nil {
				crop.Frame.SetStyle("height", h)
			}
			if crop.Image != nil {
				crop.Image.SetStyle("height", "100%")
				crop.Image.SetStyle("width", "auto")
				crop.Image.SetStyle("object-fit", "cover")
				crop.Image.SetStyle("transform", cropTransform(crop.Side))
			}
		}
	}

	return SyncApplied, height
}

func cropTransform(side CropSide) string {
	if side == CropRight {
		return translateX(-CropRightOffset * 100)
	}
	return translateX(0)
}

func clearSizing(panes []Pane) {
	for _, pane := range panes {
		if pane.Frame != nil {
			pane.Frame.SetStyle("height", "")
			pane.Frame.SetStyle("display", "")
			pane.Frame.SetStyle("align-items", "")
		}
		if pane.Visual != nil {
			pane.Visual.SetStyle("height", "")
			pane.Visual.SetStyle("width", "")
			pane.Visual.SetStyle("object-fit", "")
		}
		for _, crop := range pane.Crops {
			if crop.Frame != nil {
				crop.Frame.SetStyle("height", "")
				crop.Frame.SetStyle("display", "")
				crop.Frame.SetStyle("align-items", "")
			}
			if crop.Image != nil {
				crop.Image.SetStyle("height", "")
				crop.Image.SetStyle("width", "")
				crop.Image.SetStyle("object-fit", "")
				crop.Image.SetStyle("transform", "")
			}
		}
		if pane.Viewer != nil {
			pane.Viewer.SetStyle("height", "")
		}
	}
}

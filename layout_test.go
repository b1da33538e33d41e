package dolly_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/dolly"
	"github.com/teranos/dolly/surface/memdom"
)

type comparisonPane struct {
	frame     *memdom.Node
	visual    *memdom.Image
	cropFrame *memdom.Node
	left      *memdom.Node
	right     *memdom.Node
}

func newComparisonPane(height float64) comparisonPane {
	return comparisonPane{
		frame:     memdom.NewNode(dolly.SelectorFrame),
		visual:    memdom.NewLoadedImage(dolly.SelectorVisual, height),
		cropFrame: memdom.NewNode(dolly.SelectorCropFrame),
		left:      memdom.NewNode(dolly.SelectorCropLeft),
		right:     memdom.NewNode(dolly.SelectorCropRight),
	}
}

func (c comparisonPane) pane() dolly.Pane {
	return dolly.Pane{
		Frame:  c.frame,
		Visual: c.visual,
		Crops: []dolly.Crop{
			{Frame: c.cropFrame, Image: c.left, Side: dolly.CropLeft},
			{Frame: c.cropFrame, Image: c.right, Side: dolly.CropRight},
		},
	}
}

func TestBreakpoint(t *testing.T) {
	bp := dolly.Breakpoint(dolly.DefaultBreakpoint)

	tests := []struct {
		width   float64
		narrow  bool
		visible int
	}{
		{320, true, 1},
		{767.5, true, 1},
		{768, false, 3},
		{1920, false, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.narrow, bp.Narrow(tt.width), "width %v", tt.width)
		assert.Equal(t, tt.visible, bp.ItemsVisible(tt.width), "width %v", tt.width)
	}
}

func TestMaxIndexAndClamp(t *testing.T) {
	assert.Equal(t, 7, dolly.MaxIndex(10, 3))
	assert.Equal(t, 9, dolly.MaxIndex(10, 1))
	assert.Equal(t, 0, dolly.MaxIndex(2, 3), "fewer items than slots")
	assert.Equal(t, 0, dolly.MaxIndex(0, 1))

	assert.Equal(t, 0, dolly.Clamp(-2, 5))
	assert.Equal(t, 5, dolly.Clamp(9, 5))
	assert.Equal(t, 3, dolly.Clamp(3, 5))
	assert.Equal(t, 0, dolly.Clamp(3, 0))
}

func TestSyncHeights_AppliesFirstVisualHeight(t *testing.T) {
	deck := memdom.NewDeck(3, 480)
	deck.Visuals[1].SetOffsetHeight(700)

	result, height := dolly.SyncHeights(deck.Region().Panes, false)

	assert.Equal(t, dolly.SyncApplied, result)
	assert.Equal(t, 480.0, height)
	for i := range deck.Frames {
		assert.Equal(t, "480px", deck.Frames[i].Style("height"))
		assert.Equal(t, "flex", deck.Frames[i].Style("display"))
		assert.Equal(t, "center", deck.Frames[i].Style("align-items"))
		assert.Equal(t, "100%", deck.Visuals[i].Style("height"))
		assert.Equal(t, "contain", deck.Visuals[i].Style("object-fit"))
	}
}

func TestSyncHeights_CropsCoverTheirHalf(t *testing.T) {
	first := newComparisonPane(300)
	second := newComparisonPane(500)

	result, _ := dolly.SyncHeights([]dolly.Pane{first.pane(), second.pane()}, false)
	assert.Equal(t, dolly.SyncApplied, result)

	for _, c := range []comparisonPane{first, second} {
		assert.Equal(t, "300px", c.cropFrame.Style("height"))
		assert.Equal(t, "100%", c.left.Style("height"))
		assert.Equal(t, "auto", c.left.Style("width"))
		assert.Equal(t, "cover", c.left.Style("object-fit"))
		assert.Equal(t, "translateX(0%)", c.left.Style("transform"))
		assert.Equal(t, "translateX(-61%)", c.right.Style("transform"))
	}
}

func TestSyncHeights_NotReadyAppliesNothing(t *testing.T) {
	deck := memdom.NewDeck(3, 400)
	deck.Visuals[0].SetOffsetHeight(0)
	deck.Frames[2].SetStyle("height", "123px")

	result, height := dolly.SyncHeights(deck.Region().Panes, false)

	assert.Equal(t, dolly.SyncNotReady, result)
	assert.Zero(t, height)
	assert.Equal(t, "123px", deck.Frames[2].Style("height"))
	assert.False(t, deck.Frames[1].HasStyle("height"))
	assert.False(t, deck.Visuals[1].HasStyle("object-fit"))
}

func TestSyncHeights_NarrowClearsEverything(t *testing.T) {
	first := newComparisonPane(300)
	viewer := memdom.NewNode(dolly.SelectorViewer)
	viewer.SetStyle("height", "600px")
	panes := []dolly.Pane{first.pane(), {Viewer: viewer}}

	_, _ = dolly.SyncHeights(panes, false)
	result, _ := dolly.SyncHeights(panes, true)

	assert.Equal(t, dolly.SyncCleared, result)
	for _, node := range []*memdom.Node{first.frame, first.cropFrame, first.left, first.right, viewer} {
		assert.False(t, node.HasStyle("height"), node.String())
	}
	assert.False(t, first.frame.HasStyle("display"))
	assert.False(t, first.visual.HasStyle("object-fit"))
	assert.False(t, first.right.HasStyle("transform"))
	assert.False(t, first.left.HasStyle("object-fit"))
}

func TestSyncHeights_ViewerFirstPaneIsLeftToStylesheet(t *testing.T) {
	deck := memdom.NewDeck(2, 400)
	panes := append([]dolly.Pane{{Viewer: memdom.NewNode(dolly.SelectorViewer)}}, deck.Region().Panes...)

	result, _ := dolly.SyncHeights(panes, false)

	assert.Equal(t, dolly.SyncNoVisual, result)
	assert.False(t, deck.Frames[0].HasStyle("height"))
}

func TestSyncHeights_Idempotent(t *testing.T) {
	deck := memdom.NewDeck(3, 400)
	panes := deck.Region().Panes

	r1, h1 := dolly.SyncHeights(panes, false)
	snapshot := deck.Frames[2].String()
	r2, h2 := dolly.SyncHeights(panes, false)

	assert.Equal(t, r1, r2)
	assert.Equal(t, h1, h2)
	assert.Equal(t, snapshot, deck.Frames[2].String())
}

func TestSyncResult_String(t *testing.T) {
	assert.Equal(t, "applied", dolly.SyncApplied.String())
	assert.Equal(t, "cleared", dolly.SyncCleared.String())
	assert.Equal(t, "no-visual", dolly.SyncNoVisual.String())
	assert.Equal(t, "not-ready", dolly.SyncNotReady.String())
}

package dolly_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/dolly"
	"github.com/teranos/dolly/surface/memdom"
)

func TestCropFrame(t *testing.T) {
	left, right := dolly.CropLeft, dolly.CropRight

	frame, ok := dolly.CropFrame(dolly.Zoomable{
		NaturalWidth: 2000, NaturalHeight: 600,
		Crop:       &left,
		FrameWidth: 400, FrameHeight: 300,
	})
	require.True(t, ok)
	assert.Equal(t, 600.0, frame.Height)
	assert.Equal(t, 800.0, frame.Width)
	assert.Zero(t, frame.OffsetX)
	assert.Equal(t, "#FFFFFF", frame.Fill)

	frame, ok = dolly.CropFrame(dolly.Zoomable{
		NaturalWidth: 2000, NaturalHeight: 600,
		Crop:       &right,
		FrameWidth: 400, FrameHeight: 300,
	})
	require.True(t, ok)
	assert.InDelta(t, -1220.0, frame.OffsetX, 1e-9)

	_, ok = dolly.CropFrame(dolly.Zoomable{NaturalWidth: 2000, NaturalHeight: 600})
	assert.False(t, ok, "plain images have no canvas")

	_, ok = dolly.CropFrame(dolly.Zoomable{Crop: &left})
	assert.False(t, ok, "a crop outside any frame has no aspect ratio")
}

func TestLightbox_OpensAndCloses(t *testing.T) {
	overlay := &memdom.Overlay{}
	l := dolly.NewLightbox(overlay, quietConfig(), wide)

	assert.False(t, l.Close(), "closing a closed lightbox is a no-op")

	right := dolly.CropRight
	assert.True(t, l.Zoom(dolly.Zoomable{
		Source:       "compare.png",
		NaturalWidth: 1000, NaturalHeight: 500,
		Crop:       &right,
		FrameWidth: 300, FrameHeight: 300,
	}))
	assert.True(t, l.IsOpen())

	content, ok := overlay.Last()
	require.True(t, ok)
	assert.Equal(t, "compare.png", content.Source)
	require.NotNil(t, content.Canvas)
	assert.Equal(t, 500.0, content.Canvas.Width)

	m, _ := l.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.(dolly.Lightbox).IsOpen())
	assert.False(t, overlay.IsOpen())
}

func TestLightbox_HandleEscape(t *testing.T) {
	overlay := &memdom.Overlay{}
	l := *dolly.NewLightbox(overlay, quietConfig(), wide)

	l, _ = l.Handle(dolly.ZoomMsg{Zoom: dolly.Zoomable{Source: "teaser.png"}})
	require.True(t, l.IsOpen())

	l, cmd := l.Handle(dolly.EscapeMsg{})
	assert.Nil(t, cmd)
	assert.False(t, l.IsOpen())
	assert.False(t, overlay.IsOpen())
}

func TestLightbox_PlainImageHasNoCanvas(t *testing.T) {
	overlay := &memdom.Overlay{}
	l := dolly.NewLightbox(overlay, quietConfig(), wide)

	l.Zoom(dolly.Zoomable{Source: "teaser.png"})
	content, _ := overlay.Last()
	assert.Nil(t, content.Canvas)

	m, _ := l.Update(dolly.CloseMsg{})
	assert.False(t, m.(dolly.Lightbox).IsOpen())
}

func TestLightbox_DisabledWhenNarrow(t *testing.T) {
	overlay := &memdom.Overlay{}
	l := dolly.NewLightbox(overlay, quietConfig(), narrow)

	assert.False(t, l.Zoom(dolly.Zoomable{Source: "teaser.png"}))
	_, opened := overlay.Last()
	assert.False(t, opened)

	m, _ := l.Update(dolly.ResizeMsg{Width: wide})
	next := m.(dolly.Lightbox)
	assert.True(t, next.Zoom(dolly.Zoomable{Source: "teaser.png"}))
}

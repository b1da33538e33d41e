package dolly_test

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/dolly"
	"github.com/teranos/dolly/surface/memdom"
	"github.com/teranos/dolly/trip"
)

type testPage struct {
	page     *dolly.Page
	deck     *memdom.Deck
	strip    *memdom.Strip
	sections []*memdom.Node
	overlay  *memdom.Overlay
}

func newTestPage(t *testing.T, width float64, cfg dolly.Config) *testPage {
	t.Helper()

	tp := &testPage{
		page:    dolly.NewPage(cfg, width, 900),
		deck:    memdom.NewDeck(3, 400),
		strip:   memdom.NewStrip(),
		overlay: &memdom.Overlay{},
	}
	require.True(t, tp.page.MountSlider(dolly.SelectorVideoSlider, tp.deck.Region(), cfg))
	require.True(t, tp.page.MountCarousel(dolly.SelectorMeshSlider, tp.strip.Region(), itemIDs(10), tp.strip.Factory(), cfg))

	var sections []dolly.Element
	for i := 0; i < 3; i++ {
		n := memdom.NewNode(dolly.SelectorSection)
		tp.sections = append(tp.sections, n)
		sections = append(sections, n)
	}
	tp.page.MountReveal(sections)
	tp.page.AttachLightbox(tp.overlay)
	return tp
}

func (tp *testPage) send(msg tea.Msg) tea.Cmd {
	m, cmd := tp.page.Update(msg)
	p := m.(dolly.Page)
	tp.page = &p
	return cmd
}

func TestPage_MountsComponents(t *testing.T) {
	tp := newTestPage(t, wide, quietConfig())

	assert.Equal(t, []string{dolly.SelectorVideoSlider, dolly.SelectorMeshSlider}, tp.page.Mounted())
	assert.Equal(t, "wide", tp.page.CurrentMode())
	assert.False(t, tp.page.Trips().HasStumbles())
}

func TestPage_MissingAnchorIsNotFatal(t *testing.T) {
	page := dolly.NewPage(quietConfig(), wide, 900)

	ok := page.MountSlider("#missing", dolly.SlideRegion{}, quietConfig())
	assert.False(t, ok)
	ok = page.MountCarousel("#missing-too", dolly.CarouselRegion{}, itemIDs(3), nil, quietConfig())
	assert.False(t, ok)

	assert.Empty(t, page.Mounted())
	assert.Equal(t, 2, page.Trips().Count(trip.Mount))
	assert.Contains(t, page.Report(), "#missing")
	assert.Contains(t, page.View(), "nothing mounted")
}

func TestPage_RoutesByTarget(t *testing.T) {
	tp := newTestPage(t, wide, quietConfig())

	cmd := tp.send(dolly.NavMsg{Target: dolly.SelectorVideoSlider, Dir: dolly.Next})
	assert.NotNil(t, cmd, "slider navigation schedules a tick")
	tp.send(dolly.NavMsg{Target: dolly.SelectorMeshSlider, Dir: dolly.Next})
	tp.send(dolly.NavMsg{Target: dolly.SelectorMeshSlider, Dir: dolly.Next})

	s, ok := tp.page.Slider(dolly.SelectorVideoSlider)
	require.True(t, ok)
	c, ok := tp.page.Carousel(dolly.SelectorMeshSlider)
	require.True(t, ok)

	assert.Equal(t, 1, s.Index())
	assert.Equal(t, 2, c.Index())
	assert.True(t, tp.page.CheckCondition("#video-slider:index:1"))
	assert.True(t, tp.page.CheckCondition("#mesh-slider:index:2"))
	assert.False(t, tp.page.CheckCondition("#nowhere:index:0"))
}

func TestPage_TicksReachTheirSlider(t *testing.T) {
	tp := newTestPage(t, wide, quietConfig())

	for i := 0; i < 100; i++ {
		s, _ := tp.page.Slider(dolly.SelectorVideoSlider)
		tp.send(dolly.TickMsg{Target: dolly.SelectorVideoSlider, Gen: s.TimerGen()})
	}

	assert.True(t, tp.page.CheckCondition("#video-slider:index:1"))
}

func TestPage_EarlierValuesAreUnaffected(t *testing.T) {
	tp := newTestPage(t, wide, quietConfig())
	before := *tp.page

	tp.send(dolly.NavMsg{Target: dolly.SelectorMeshSlider, Dir: dolly.Next})

	c, _ := before.Carousel(dolly.SelectorMeshSlider)
	assert.Equal(t, 0, c.Index())
}

func TestPage_ResizeReachesEveryone(t *testing.T) {
	tp := newTestPage(t, wide, quietConfig())

	tp.send(dolly.ResizeMsg{Width: narrow, Height: 800})

	assert.Equal(t, "narrow", tp.page.CurrentMode())
	assert.True(t, tp.page.CheckCondition("#mesh-slider:single"))
	assert.True(t, tp.page.CheckCondition("#video-slider:layout:cleared"))
	assert.False(t, tp.deck.Frames[1].HasStyle("height"))

	tp.send(dolly.ZoomMsg{Zoom: dolly.Zoomable{Source: "teaser.png"}})
	assert.False(t, tp.overlay.IsOpen(), "zoom is disabled on narrow viewports")
}

func TestPage_RevealAndLightbox(t *testing.T) {
	tp := newTestPage(t, wide, quietConfig())

	tp.send(dolly.IntersectMsg{Index: 0, Intersecting: true})
	tp.send(dolly.IntersectMsg{Index: 1, Intersecting: true})
	tp.send(dolly.IntersectMsg{Index: 2, Intersecting: true})
	assert.True(t, tp.page.CheckCondition("revealed"))
	for _, s := range tp.sections {
		assert.True(t, s.HasClass(dolly.ClassVisible))
	}

	tp.send(dolly.ZoomMsg{Zoom: dolly.Zoomable{Source: "method.png"}})
	assert.True(t, tp.page.CheckCondition("lightbox:open"))
	assert.Contains(t, tp.page.View(), "lightbox open")

	tp.send(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, tp.page.CheckCondition("lightbox:open"))
	assert.False(t, tp.overlay.IsOpen())
}

func TestPage_HandleSchedulesEngineTicks(t *testing.T) {
	tp := newTestPage(t, wide, fastConfig())
	require.NotNil(t, tp.page.Start(), "autoplay schedules the first tick")

	page, cmd := tp.page.Handle(dolly.NavMsg{Target: dolly.SelectorVideoSlider, Dir: dolly.Next})
	require.NotNil(t, cmd)
	tick, ok := cmd().(dolly.TickMsg)
	require.True(t, ok)
	assert.Equal(t, dolly.SelectorVideoSlider, tick.Target)

	s, _ := page.Slider(dolly.SelectorVideoSlider)
	assert.Equal(t, s.TimerGen(), tick.Gen)

	page, _ = page.Handle(tick)
	s, _ = page.Slider(dolly.SelectorVideoSlider)
	assert.Equal(t, 10*time.Millisecond, s.Progress())

	page, _ = page.Handle(dolly.ZoomMsg{Zoom: dolly.Zoomable{Source: "method.png"}})
	page, _ = page.Handle(dolly.EscapeMsg{})
	assert.False(t, page.CheckCondition("lightbox:open"))
}

func TestPage_View(t *testing.T) {
	tp := newTestPage(t, wide, quietConfig())

	view := tp.page.View()
	assert.Contains(t, view, dolly.SelectorVideoSlider)
	assert.Contains(t, view, dolly.SelectorMeshSlider)
}

//go:build js && wasm

// Command dolly-wasm runs the slider engine in the browser. It reads the page
// settings from /config.json, mounts every component whose anchor exists and
// forwards DOM events into a dolly.Loop. The engine runs here without
// Bubble Tea, which does not build for js/wasm.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"syscall/js"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/teranos/dolly"
	"github.com/teranos/dolly/surface/jsdom"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})

	cfg, err := fetchConfig()
	if err != nil {
		log.WithError(err).Warn("using default page config")
		cfg = dolly.PageConfig{}
	}

	loop := mount(cfg, log)
	if err := loop.Run(context.Background()); err != nil {
		log.WithError(err).Error("loop stopped")
	}
}

func fetchConfig() (dolly.PageConfig, error) {
	var cfg dolly.PageConfig

	origin := jsdom.Window().Get("location").Get("origin").String()
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(origin + "/config.json")
	if err != nil {
		return cfg, fmt.Errorf("failed to fetch config: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return cfg, fmt.Errorf("failed to fetch config: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// mount builds the page and wires its listeners. Listeners live as long as
// the page, so they are never removed.
func mount(cfg dolly.PageConfig, log *logrus.Logger) *dolly.Loop {
	sliderCfg := cfg.ForSlider(log)
	width, height := jsdom.Viewport()
	page := dolly.NewPage(sliderCfg, width, height)

	var wire []func(loop *dolly.Loop)

	if slides, ok := jsdom.FindSlides(dolly.SelectorVideoSlider); ok &&
		page.MountSlider(dolly.SelectorVideoSlider, slides.Region(), sliderCfg) {
		wire = append(wire, func(loop *dolly.Loop) { wireSlider(loop, dolly.SelectorVideoSlider, slides) })
	}

	if strip, ok := jsdom.FindStrip(dolly.SelectorMeshSlider); ok {
		carouselCfg := cfg.ForCarousel(log)
		if page.MountCarousel(dolly.SelectorMeshSlider, strip.Region(), cfg.Carousel.Items, strip.Factory(cfg.Carousel), carouselCfg) {
			wire = append(wire, func(loop *dolly.Loop) { wireCarousel(loop, dolly.SelectorMeshSlider, strip) })
		}
	}

	sections, raw := jsdom.Sections()
	page.MountReveal(sections)

	overlay := jsdom.NewOverlay()
	page.AttachLightbox(overlay)

	log.Debug(page.Report())

	loop := dolly.NewLoop(*page)
	for _, w := range wire {
		w(loop)
	}
	wireReveal(loop, raw)
	wireLightbox(loop, overlay)

	jsdom.On(jsdom.Window(), "resize", func(js.Value, []js.Value) {
		w, h := jsdom.Viewport()
		loop.Send(dolly.ResizeMsg{Width: w, Height: h})
	})
	return loop
}

func click(target js.Value, fn func()) {
	jsdom.On(target, "click", func(_ js.Value, args []js.Value) {
		if len(args) > 0 {
			args[0].Call("preventDefault")
		}
		fn()
	})
}

func wireSlider(loop *dolly.Loop, id string, s *jsdom.Slides) {
	click(s.Prev, func() { loop.Send(dolly.NavMsg{Target: id, Dir: dolly.Prev}) })
	click(s.Next, func() { loop.Send(dolly.NavMsg{Target: id, Dir: dolly.Next}) })
	click(s.Pause, func() { loop.Send(dolly.PauseMsg{Target: id}) })
	for i, ind := range s.Indicators {
		click(ind, func() { loop.Send(dolly.JumpMsg{Target: id, Index: i}) })
	}
}

func wireCarousel(loop *dolly.Loop, id string, s *jsdom.Strip) {
	click(s.Prev, func() { loop.Send(dolly.NavMsg{Target: id, Dir: dolly.Prev}) })
	click(s.Next, func() { loop.Send(dolly.NavMsg{Target: id, Dir: dolly.Next}) })
}

// wireReveal observes every section with an IntersectionObserver at 10%
// visibility.
func wireReveal(loop *dolly.Loop, sections []js.Value) {
	if len(sections) == 0 {
		return
	}
	ctor := js.Global().Get("IntersectionObserver")
	if ctor.IsUndefined() {
		for i := range sections {
			loop.Send(dolly.IntersectMsg{Index: i, Intersecting: true})
		}
		return
	}

	var observer js.Value
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		entries := args[0]
		for i := 0; i < entries.Length(); i++ {
			entry := entries.Index(i)
			target := entry.Get("target")
			index := indexOf(sections, target)
			if index < 0 {
				continue
			}
			loop.Send(dolly.IntersectMsg{
				Index:        index,
				Intersecting: entry.Get("isIntersecting").Bool(),
				Unobserve:    func() { observer.Call("unobserve", target) },
			})
		}
		return nil
	})
	observer = ctor.New(cb, map[string]any{"threshold": 0.1})
	for _, s := range sections {
		observer.Call("observe", s)
	}
}

func indexOf(values []js.Value, v js.Value) int {
	for i, x := range values {
		if x.Equal(v) {
			return i
		}
	}
	return -1
}

func wireLightbox(loop *dolly.Loop, overlay *jsdom.Overlay) {
	for _, img := range jsdom.QueryAll(jsdom.Document(), dolly.SelectorZoom) {
		img.Get("style").Set("cursor", "zoom-in")
		click(img, func() { loop.Send(dolly.ZoomMsg{Zoom: jsdom.Zoomable(img)}) })
	}

	click(overlay.CloseButton, func() { loop.Send(dolly.CloseMsg{}) })
	jsdom.On(overlay.Root, "click", func(_ js.Value, args []js.Value) {
		// Only clicks on the backdrop itself close the lightbox.
		if len(args) > 0 && args[0].Get("target").Equal(overlay.Root) {
			loop.Send(dolly.CloseMsg{})
		}
	})
	jsdom.On(jsdom.Document(), "keydown", func(_ js.Value, args []js.Value) {
		if len(args) > 0 && args[0].Get("key").String() == "Escape" {
			loop.Send(dolly.EscapeMsg{})
		}
	})
}

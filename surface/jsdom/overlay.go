//go:build js && wasm

package jsdom

import (
	"syscall/js"

	"github.com/teranos/dolly"
)

// Overlay is the page-wide lightbox, created once and appended to <body>.
type Overlay struct {
	Root        js.Value
	CloseButton js.Value

	img    js.Value
	canvas js.Value
	source js.Value
}

// NewOverlay builds the lightbox markup:
//
//	<div class="lightbox">
//	  <button class="lightbox-close">×</button>
//	  <img class="lightbox-img"><canvas class="lightbox-canvas"></canvas>
//	</div>
func NewOverlay() *Overlay {
	create := func(tag, class string) js.Value {
		v := jsDocument.Call("createElement", tag)
		v.Get("classList").Call("add", class)
		return v
	}

	o := &Overlay{
		Root:        create("div", "lightbox"),
		CloseButton: create("button", "lightbox-close"),
		img:         create("img", "lightbox-img"),
		canvas:      create("canvas", "lightbox-canvas"),
		source:      jsGlobal.Get("Image").New(),
	}
	o.CloseButton.Set("textContent", "×")
	o.Root.Call("appendChild", o.CloseButton)
	o.Root.Call("appendChild", o.img)
	o.Root.Call("appendChild", o.canvas)
	jsDocument.Get("body").Call("appendChild", o.Root)
	return o
}

// Open shows c. Canvas content is drawn once its source has loaded.
func (o *Overlay) Open(c dolly.Content) {
	if c.Canvas == nil {
		o.img.Set("src", c.Source)
		o.img.Get("style").Set("display", "block")
		o.canvas.Get("style").Set("display", "none")
	} else {
		frame := *c.Canvas
		o.canvas.Set("width", frame.Width)
		o.canvas.Set("height", frame.Height)
		o.img.Get("style").Set("display", "none")
		o.canvas.Get("style").Set("display", "block")

		var release func()
		release = On(o.source, "load", func(js.Value, []js.Value) {
			ctx := o.canvas.Call("getContext", "2d")
			ctx.Set("fillStyle", frame.Fill)
			ctx.Call("fillRect", 0, 0, frame.Width, frame.Height)
			ctx.Call("drawImage", o.source, frame.OffsetX, 0)
			go release()
		})
		o.source.Set("src", c.Source)
	}

	o.Root.Get("classList").Call("add", dolly.ClassActive)
	jsDocument.Get("body").Get("style").Set("overflow", "hidden")
}

// Close hides the lightbox.
func (o *Overlay) Close() {
	o.Root.Get("classList").Call("remove", dolly.ClassActive)
	jsDocument.Get("body").Get("style").Set("overflow", "")
}

var _ dolly.Overlay = (*Overlay)(nil)

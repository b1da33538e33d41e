//go:build js && wasm

// Package jsdom adapts browser DOM nodes to the dolly surface through
// syscall/js.
package jsdom

import (
	"sync"
	"syscall/js"

	"github.com/teranos/dolly"
)

var (
	jsGlobal   js.Value
	jsDocument js.Value
	jsWindow   js.Value
)

func init() {
	jsGlobal = js.Global()
	jsWindow = jsGlobal.Get("window")
	jsDocument = jsGlobal.Get("document")
}

// Document returns the global document.
func Document() js.Value { return jsDocument }

// Window returns the global window.
func Window() js.Value { return jsWindow }

// Viewport returns the window's inner size in CSS pixels.
func Viewport() (width, height float64) {
	return jsWindow.Get("innerWidth").Float(), jsWindow.Get("innerHeight").Float()
}

func present(v js.Value) bool {
	return !v.IsNull() && !v.IsUndefined()
}

// Query returns the first match of selector under root.
func Query(root js.Value, selector string) (js.Value, bool) {
	if !present(root) {
		return js.Null(), false
	}
	v := root.Call("querySelector", selector)
	return v, present(v)
}

// QueryAll returns every match of selector under root, in document order.
func QueryAll(root js.Value, selector string) []js.Value {
	if !present(root) {
		return nil
	}
	list := root.Call("querySelectorAll", selector)
	out := make([]js.Value, list.Length())
	for i := range out {
		out[i] = list.Index(i)
	}
	return out
}

// On adds a listener for event on target and returns a function removing it.
// fn runs on the browser's event loop and must not block.
func On(target js.Value, event string, fn func(this js.Value, args []js.Value)) func() {
	if !present(target) {
		return func() {}
	}
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn(this, args)
		return nil
	})
	target.Call("addEventListener", event, cb)
	return func() {
		target.Call("removeEventListener", event, cb)
		cb.Release()
	}
}

// Node is a DOM element.
type Node struct {
	js.Value
}

// Wrap returns v as an Element, or nil when v is null or undefined.
func Wrap(v js.Value) dolly.Element {
	if !present(v) {
		return nil
	}
	return Node{v}
}

// SetStyle sets an inline style property; an empty value removes it.
func (n Node) SetStyle(property, value string) {
	style := n.Get("style")
	if value == "" {
		style.Call("removeProperty", property)
		return
	}
	style.Call("setProperty", property, value)
}

// SetClass toggles a class.
func (n Node) SetClass(name string, on bool) {
	n.Get("classList").Call("toggle", name, on)
}

// HasClass reports whether the element carries class name.
func (n Node) HasClass(name string) bool {
	return n.Get("classList").Call("contains", name).Bool()
}

// Image is an <img> element.
type Image struct {
	Node

	once sync.Once
	done chan struct{}
}

// NewImage wraps an <img>. Images that are already complete report loaded
// at once; otherwise the first load event closes LoadNotify.
func NewImage(v js.Value) *Image {
	img := &Image{Node: Node{v}, done: make(chan struct{})}
	if v.Get("complete").Bool() && v.Get("naturalWidth").Int() > 0 {
		img.finish()
		return img
	}

	var release func()
	release = On(v, "load", func(js.Value, []js.Value) {
		img.finish()
		// Released off the callback so the function is not freed while running.
		go release()
	})
	return img
}

func (i *Image) finish() {
	i.once.Do(func() { close(i.done) })
}

// Loaded reports whether the image has loaded.
func (i *Image) Loaded() bool {
	select {
	case <-i.done:
		return true
	default:
		return false
	}
}

// LoadNotify is closed once the image has loaded.
func (i *Image) LoadNotify() <-chan struct{} { return i.done }

// OffsetHeight is the rendered height.
func (i *Image) OffsetHeight() float64 {
	return i.Get("offsetHeight").Float()
}

// NaturalSize is the intrinsic size.
func (i *Image) NaturalSize() (width, height float64) {
	return i.Get("naturalWidth").Float(), i.Get("naturalHeight").Float()
}

var (
	_ dolly.Element = Node{}
	_ dolly.Visual  = (*Image)(nil)
)

// Package memdom is an in-memory page surface. It records the inline styles
// and marker classes the engine writes so tests and the terminal preview can
// inspect them without a browser.
package memdom

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/teranos/dolly"
)

// Node is an element with inline styles and a class list.
type Node struct {
	mu      sync.Mutex
	name    string
	styles  map[string]string
	classes map[string]bool
	writes  int
}

// NewNode creates an unstyled node. name is only used in String.
func NewNode(name string) *Node {
	return &Node{
		name:    name,
		styles:  make(map[string]string),
		classes: make(map[string]bool),
	}
}

// SetStyle implements dolly.Element. An empty value removes the property.
func (n *Node) SetStyle(property, value string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.writes++
	if value == "" {
		delete(n.styles, property)
		return
	}
	n.styles[property] = value
}

// SetClass implements dolly.Element.
func (n *Node) SetClass(name string, on bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.writes++
	if on {
		n.classes[name] = true
		return
	}
	delete(n.classes, name)
}

// Style returns the inline value of property, or "" if unset.
func (n *Node) Style(property string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.styles[property]
}

// HasStyle reports whether property has an inline value.
func (n *Node) HasStyle(property string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.styles[property]
	return ok
}

// HasClass reports whether the class is set.
func (n *Node) HasClass(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.classes[name]
}

// Writes counts style and class writes since creation.
func (n *Node) Writes() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.writes
}

func (n *Node) String() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	props := make([]string, 0, len(n.styles))
	for k, v := range n.styles {
		props = append(props, k+": "+v)
	}
	sort.Strings(props)

	classes := make([]string, 0, len(n.classes))
	for c := range n.classes {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	return fmt.Sprintf("%s[%s]{%s}", n.name, strings.Join(classes, " "), strings.Join(props, "; "))
}

// Image is a primary visual. Its rendered height is whatever the test or
// preview says it is.
type Image struct {
	*Node

	mu      sync.Mutex
	loaded  bool
	done    chan struct{}
	height  float64
	natural [2]float64
}

// NewImage creates an image that has not loaded yet and has no height.
func NewImage(name string, naturalWidth, naturalHeight float64) *Image {
	return &Image{
		Node:    NewNode(name),
		done:    make(chan struct{}),
		natural: [2]float64{naturalWidth, naturalHeight},
	}
}

// NewLoadedImage creates an image already laid out at height.
func NewLoadedImage(name string, height float64) *Image {
	img := NewImage(name, height*16/9, height)
	img.Finish(height)
	return img
}

// Finish marks the image loaded with a rendered height. It is safe to call more than once.
func (i *Image) Finish(height float64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.height = height
	if !i.loaded {
		i.loaded = true
		close(i.done)
	}
}

// SetOffsetHeight changes the rendered height, as a reflow would.
func (i *Image) SetOffsetHeight(height float64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.height = height
}

// Loaded implements dolly.Visual.
func (i *Image) Loaded() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.loaded
}

// LoadNotify implements dolly.Visual.
func (i *Image) LoadNotify() <-chan struct{} { return i.done }

// OffsetHeight implements dolly.Visual.
func (i *Image) OffsetHeight() float64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.height
}

// NaturalSize implements dolly.Visual.
func (i *Image) NaturalSize() (float64, float64) {
	return i.natural[0], i.natural[1]
}

var (
	_ dolly.Element = (*Node)(nil)
	_ dolly.Visual  = (*Image)(nil)
)

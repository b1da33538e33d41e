package dolly

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Defaults applied to any zero-valued Config field.
const (
	DefaultDuration     = 5 * time.Second
	DefaultTickInterval = 50 * time.Millisecond
	DefaultBreakpoint   = 768.0
)

// Config configures a Slider or Carousel at mount time.
//
// Zero fields take the defaults, so a zero Config dwells 5s with autoplay on.
//
// Example usage:
//
//	cfg := dolly.DefaultConfig()
//	cfg.DisableAutoPlay = true // video galleries wait for the visitor
//	slider, err := dolly.NewSlider("#video-slider", region, cfg, viewportWidth)
type Config struct {
	// Duration is the dwell time per slide.
	Duration time.Duration
	// DisableAutoPlay holds the rotation at mount until the visitor
	// interacts. The zero value autoplays.
	DisableAutoPlay bool
	// TickInterval is the period of the progress timer.
	TickInterval time.Duration
	// Breakpoint is the viewport width in CSS pixels below which layout
	// falls back to the stylesheet and the carousel shows one item.
	Breakpoint float64
	// Logger receives debug output; nil means logrus.StandardLogger().
	Logger logrus.FieldLogger
}

// DefaultConfig returns a 5s dwell with autoplay on, ticking every 50ms.
func DefaultConfig() Config {
	return Config{
		Duration:     DefaultDuration,
		TickInterval: DefaultTickInterval,
		Breakpoint:   DefaultBreakpoint,
	}
}

// normalized fills zero fields with defaults.
func (c Config) normalized() Config {
	if c.Duration <= 0 {
		c.Duration = DefaultDuration
	}
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.Breakpoint <= 0 {
		c.Breakpoint = DefaultBreakpoint
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return c
}

// PageConfig is the page-level configuration served to the browser as JSON.
type PageConfig struct {
	Breakpoint float64        `json:"breakpoint"`
	Slider     SliderConfig   `json:"slider"`
	Carousel   CarouselConfig `json:"carousel"`
}

// SliderConfig is the wire form of a slider's timing. Zero or absent fields
// take the defaults; an absent autoplay means on.
type SliderConfig struct {
	DurationMS int64 `json:"duration_ms"`
	TickMS     int64 `json:"tick_ms"`
	AutoPlay   *bool `json:"autoplay,omitempty"`
}

// AutoPlayEnabled reports the autoplay flag, defaulting to on.
func (c SliderConfig) AutoPlayEnabled() bool {
	return c.AutoPlay == nil || *c.AutoPlay
}

// CarouselConfig lists the carousel items. ItemURL is a pattern in which
// {id} is replaced by each identifier.
type CarouselConfig struct {
	Items   []string `json:"items"`
	ItemURL string   `json:"item_url"`
}

// URL returns the source of item id.
func (c CarouselConfig) URL(id string) string {
	return strings.ReplaceAll(c.ItemURL, "{id}", id)
}

// ForSlider converts p into a slider Config.
func (p PageConfig) ForSlider(logger logrus.FieldLogger) Config {
	return Config{
		Duration:        time.Duration(p.Slider.DurationMS) * time.Millisecond,
		DisableAutoPlay: !p.Slider.AutoPlayEnabled(),
		TickInterval:    time.Duration(p.Slider.TickMS) * time.Millisecond,
		Breakpoint:      p.Breakpoint,
		Logger:          logger,
	}.normalized()
}

// ForCarousel converts p into a carousel Config.
func (p PageConfig) ForCarousel(logger logrus.FieldLogger) Config {
	return Config{Breakpoint: p.Breakpoint, Logger: logger}.normalized()
}

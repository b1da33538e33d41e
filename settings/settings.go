// Package settings loads dolly.yaml for the dolly command.
package settings

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/teranos/dolly"
)

// EnvPrefix prefixes environment overrides, e.g. DOLLY_SERVER_ADDR.
const EnvPrefix = "DOLLY"

// Settings is the complete dolly configuration.
type Settings struct {
	Breakpoint float64
	Slider     *Slider
	Carousel   *Carousel
	Server     *Server
	Logger     *Logger

	// File is the config file that was read, empty when running on defaults.
	File string

	v *viper.Viper
}

// Slider configures the video slider.
type Slider struct {
	Duration     time.Duration
	TickInterval time.Duration
	AutoPlay     bool
	// Panes is how many panes the demo page and preview render.
	Panes int
}

// Carousel configures the mesh carousel.
type Carousel struct {
	Items   []string
	ItemURL string
}

// Server configures dolly serve.
type Server struct {
	Addr      string
	StaticDir string
	Timeout   time.Duration
	Title     string
}

// Logger configures the process logger.
type Logger struct {
	Level  string
	Format string
	Output string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("page.breakpoint", dolly.DefaultBreakpoint)

	v.SetDefault("slider.duration", dolly.DefaultDuration)
	v.SetDefault("slider.tick_interval", dolly.DefaultTickInterval)
	v.SetDefault("slider.autoplay", true)
	v.SetDefault("slider.panes", 4)

	v.SetDefault("carousel.items", []string{"bunny", "armadillo", "dragon", "lucy", "buddha", "horse"})
	v.SetDefault("carousel.item_url", "/static/meshes/{id}.glb")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.static_dir", "static")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("server.title", "dolly")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.output", "stderr")
}

// Load reads configuration from path. An empty path searches for dolly.yaml
// in ".", "$HOME/.dolly" and "/etc/dolly" and falls back to defaults when
// none exists; an explicit path must exist.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("dolly")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.dolly")
		v.AddConfigPath("/etc/dolly")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	s := fromViper(v)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func fromViper(v *viper.Viper) *Settings {
	return &Settings{
		Breakpoint: v.GetFloat64("page.breakpoint"),
		Slider: &Slider{
			Duration:     v.GetDuration("slider.duration"),
			TickInterval: v.GetDuration("slider.tick_interval"),
			AutoPlay:     v.GetBool("slider.autoplay"),
			Panes:        v.GetInt("slider.panes"),
		},
		Carousel: &Carousel{
			Items:   v.GetStringSlice("carousel.items"),
			ItemURL: v.GetString("carousel.item_url"),
		},
		Server: &Server{
			Addr:      v.GetString("server.addr"),
			StaticDir: v.GetString("server.static_dir"),
			Timeout:   v.GetDuration("server.timeout"),
			Title:     v.GetString("server.title"),
		},
		Logger: &Logger{
			Level:  v.GetString("logger.level"),
			Format: v.GetString("logger.format"),
			Output: v.GetString("logger.output"),
		},
		File: v.ConfigFileUsed(),
		v:    v,
	}
}

// Validate rejects settings no page could run with.
func (s *Settings) Validate() error {
	switch {
	case s.Breakpoint <= 0:
		return fmt.Errorf("page.breakpoint must be positive, got %v", s.Breakpoint)
	case s.Slider.Duration <= 0:
		return fmt.Errorf("slider.duration must be positive, got %v", s.Slider.Duration)
	case s.Slider.TickInterval <= 0 || s.Slider.TickInterval > s.Slider.Duration:
		return fmt.Errorf("slider.tick_interval must be in (0, %v], got %v", s.Slider.Duration, s.Slider.TickInterval)
	case s.Slider.Panes < 0:
		return fmt.Errorf("slider.panes must not be negative, got %d", s.Slider.Panes)
	}
	return nil
}

// Page returns the settings the browser needs.
func (s *Settings) Page() dolly.PageConfig {
	autoplay := s.Slider.AutoPlay
	return dolly.PageConfig{
		Breakpoint: s.Breakpoint,
		Slider: dolly.SliderConfig{
			DurationMS: s.Slider.Duration.Milliseconds(),
			TickMS:     s.Slider.TickInterval.Milliseconds(),
			AutoPlay:   &autoplay,
		},
		Carousel: dolly.CarouselConfig{
			Items:   append([]string(nil), s.Carousel.Items...),
			ItemURL: s.Carousel.ItemURL,
		},
	}
}

// Watcher reloads settings when the config file changes.
type Watcher struct {
	mu      sync.Mutex
	current *Settings
}

// Watch starts watching the file s was read from. onChange receives every
// successfully reloaded Settings; a reload that fails validation is logged
// and the previous settings stay current. Watch does nothing for settings
// running on defaults.
func Watch(s *Settings, log logrus.FieldLogger, onChange func(*Settings)) *Watcher {
	w := &Watcher{current: s}
	if s.v == nil || s.File == "" {
		return w
	}

	s.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		next := fromViper(s.v)
		if err := next.Validate(); err != nil {
			log.WithError(err).WithField("file", e.Name).Warn("ignoring invalid config change")
			return
		}

		w.mu.Lock()
		w.current = next
		w.mu.Unlock()

		log.WithField("file", e.Name).Info("config reloaded")
		if onChange != nil {
			onChange(next)
		}
	})
	s.v.WatchConfig()
	return w
}

// Current returns the latest valid settings.
func (w *Watcher) Current() *Settings {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

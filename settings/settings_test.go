package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dolly.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	s, err := Load("")
	require.NoError(t, err)

	assert.Empty(t, s.File)
	assert.Equal(t, 768.0, s.Breakpoint)
	assert.Equal(t, 5*time.Second, s.Slider.Duration)
	assert.Equal(t, 50*time.Millisecond, s.Slider.TickInterval)
	assert.True(t, s.Slider.AutoPlay)
	assert.Equal(t, ":8080", s.Server.Addr)
	assert.NotEmpty(t, s.Carousel.Items)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
page:
  breakpoint: 900
slider:
  duration: 8s
  tick_interval: 100ms
  autoplay: false
carousel:
  items: [a, b, c]
  item_url: /m/{id}.glb
server:
  addr: 127.0.0.1:9000
`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, s.File)
	assert.Equal(t, 900.0, s.Breakpoint)
	assert.Equal(t, 8*time.Second, s.Slider.Duration)
	assert.False(t, s.Slider.AutoPlay)
	assert.Equal(t, []string{"a", "b", "c"}, s.Carousel.Items)
	assert.Equal(t, "127.0.0.1:9000", s.Server.Addr)
	assert.Equal(t, "info", s.Logger.Level, "unset keys keep their defaults")
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: :9000\n")
	t.Setenv("DOLLY_SERVER_ADDR", ":7000")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", s.Server.Addr)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit path must exist")

	_, err = Load(writeConfig(t, "slider:\n  duration: 0s\n"))
	assert.ErrorContains(t, err, "slider.duration")

	_, err = Load(writeConfig(t, "slider:\n  duration: 1s\n  tick_interval: 2s\n"))
	assert.ErrorContains(t, err, "slider.tick_interval")

	_, err = Load(writeConfig(t, "page:\n  breakpoint: -1\n"))
	assert.ErrorContains(t, err, "page.breakpoint")
}

func TestSettings_Page(t *testing.T) {
	s, err := Load(writeConfig(t, "slider:\n  duration: 3s\n  tick_interval: 25ms\ncarousel:\n  item_url: /m/{id}.glb\n"))
	require.NoError(t, err)

	page := s.Page()
	assert.Equal(t, int64(3000), page.Slider.DurationMS)
	assert.Equal(t, int64(25), page.Slider.TickMS)
	assert.Equal(t, "/m/bunny.glb", page.Carousel.URL("bunny"))
	require.NotNil(t, page.Slider.AutoPlay)
	assert.True(t, *page.Slider.AutoPlay)

	cfg := page.ForSlider(logrus.StandardLogger())
	assert.Equal(t, 3*time.Second, cfg.Duration)
	assert.Equal(t, 25*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 768.0, cfg.Breakpoint)
	assert.False(t, cfg.DisableAutoPlay)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "slider:\n  duration: 3s\n")
	s, err := Load(path)
	require.NoError(t, err)

	changed := make(chan *Settings, 4)
	w := Watch(s, logrus.StandardLogger(), func(next *Settings) { changed <- next })

	require.NoError(t, os.WriteFile(path, []byte("slider:\n  duration: 7s\n"), 0o644))

	select {
	case next := <-changed:
		assert.Equal(t, 7*time.Second, next.Slider.Duration)
		assert.Equal(t, 7*time.Second, w.Current().Slider.Duration)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatch_DefaultsHaveNothingToWatch(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	s, err := Load("")
	require.NoError(t, err)

	w := Watch(s, logrus.StandardLogger(), nil)
	assert.Same(t, s, w.Current())
}

func TestNewLogger(t *testing.T) {
	l, cleanup, err := NewLogger(&Logger{Level: "debug", Format: "json", Output: "stdout"})
	require.NoError(t, err)
	defer cleanup()
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)

	file := filepath.Join(t.TempDir(), "dolly.log")
	l, cleanup, err = NewLogger(&Logger{Level: "info", Output: file})
	require.NoError(t, err)
	l.Info("hello")
	cleanup()
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")

	_, _, err = NewLogger(&Logger{Level: "loud"})
	assert.Error(t, err)
	_, _, err = NewLogger(&Logger{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

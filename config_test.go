package dolly_test

import (
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/dolly"
	"github.com/teranos/dolly/surface/memdom"
)

func TestConfig_ZeroValueAutoplays(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	deck := memdom.NewDeck(3, 400)
	s, err := dolly.NewSlider(dolly.SelectorVideoSlider, deck.Region(), dolly.Config{Logger: logger}, wide)
	require.NoError(t, err)

	assert.Equal(t, dolly.Running, s.State())
	assert.False(t, s.Paused())
	assert.Equal(t, dolly.DefaultDuration, s.Duration())
}

func TestPageConfig_AutoPlayDefaultsOn(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		disabled bool
	}{
		{"absent", `{"slider":{"duration_ms":5000}}`, false},
		{"no slider object", `{}`, false},
		{"explicit true", `{"slider":{"autoplay":true}}`, false},
		{"explicit false", `{"slider":{"autoplay":false}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p dolly.PageConfig
			require.NoError(t, json.Unmarshal([]byte(tt.json), &p))

			cfg := p.ForSlider(nil)
			assert.Equal(t, tt.disabled, cfg.DisableAutoPlay)
			assert.Equal(t, !tt.disabled, p.Slider.AutoPlayEnabled())
			assert.Equal(t, dolly.DefaultDuration, cfg.Duration)
			assert.Equal(t, dolly.DefaultTickInterval, cfg.TickInterval)
		})
	}
}

func TestPageConfig_OmitsUnsetAutoPlay(t *testing.T) {
	data, err := json.Marshal(dolly.PageConfig{Slider: dolly.SliderConfig{DurationMS: 3000}})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "autoplay")

	var back dolly.PageConfig
	require.NoError(t, json.Unmarshal(data, &back))
	cfg := back.ForSlider(nil)
	assert.False(t, cfg.DisableAutoPlay)
	assert.Equal(t, 3*time.Second, cfg.Duration)
}

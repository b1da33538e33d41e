package dolly_test

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/teranos/dolly"
)

const (
	wide   = 1280.0
	narrow = 390.0
)

// quietConfig is the default config with logging discarded.
func quietConfig() dolly.Config {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := dolly.DefaultConfig()
	cfg.Logger = logger
	return cfg
}

// fastConfig dwells 100ms per pane with 10ms ticks for staged runs.
func fastConfig() dolly.Config {
	cfg := quietConfig()
	cfg.Duration = 100 * time.Millisecond
	cfg.TickInterval = 10 * time.Millisecond
	return cfg
}

func itemIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	return ids
}

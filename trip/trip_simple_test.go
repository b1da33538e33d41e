package trip

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestTrip_Core tests core Trip functionality
func TestTrip_Core(t *testing.T) {
	context := Context{
		"target": "#video-slider",
		"reason": "no wrapper",
	}

	tr := NewTrip(Mount, "Slider did not mount", context)

	assert.Equal(t, Mount, tr.Type)
	assert.Equal(t, "Slider did not mount", tr.Message)
	assert.Equal(t, context, tr.Context)
	assert.Equal(t, Error, tr.Severity)
	assert.WithinDuration(t, time.Now(), tr.Timestamp, time.Second)

	assert.Contains(t, tr.Error(), "Slider did not mount")
	assert.Contains(t, tr.Error(), "mount")
	assert.Contains(t, tr.Error(), "error")
}

// TestTrip_Severities tests different severity levels
func TestTrip_Severities(t *testing.T) {
	stumble := NewStumble(Layout, "Pane not laid out", nil)
	error_ := NewTrip(Control, "Indicator out of range", nil)
	fall := NewFall("system", "Surface gone", nil)

	assert.Equal(t, Stumble, stumble.Severity)
	assert.Equal(t, Error, error_.Severity)
	assert.Equal(t, Fall, fall.Severity)

	assert.True(t, stumble.CanRecover())
	assert.False(t, error_.CanRecover())
	assert.False(t, fall.CanRecover())

	assert.False(t, stumble.IsFall())
	assert.False(t, error_.IsFall())
	assert.True(t, fall.IsFall())
}

func TestTrip_DetailedStringSortsContext(t *testing.T) {
	tr := NewStumble(Layout, "Height not ready", Context{"zeta": 1, "alpha": 2})

	val, exists := tr.GetContext("alpha")
	assert.True(t, exists)
	assert.Equal(t, 2, val)

	_, exists = tr.GetContext("missing")
	assert.False(t, exists)

	detailed := tr.DetailedString()
	assert.Contains(t, detailed, "Height not ready")
	assert.Less(t, strings.Index(detailed, "alpha: 2"), strings.Index(detailed, "zeta: 1"))
}

// TestHandler_Basic tests basic Handler functionality
func TestHandler_Basic(t *testing.T) {
	handler := NewHandler("page", DefaultPolicy())

	assert.True(t, handler.Healthy())
	assert.Contains(t, handler.Summary(), "No issues")

	handler.Record(NewStumble(Layout, "Minor issue", nil))
	assert.True(t, handler.Healthy())
	assert.True(t, handler.HasStumbles())
	assert.False(t, handler.HasTrips())

	handler.Record(NewFall("system", "Critical", nil))
	assert.False(t, handler.Healthy())
	assert.Equal(t, 1, handler.Count("system"))
	assert.Contains(t, handler.DetailedReport(), "Critical")
}

func TestHandler_StumbleLogIsBounded(t *testing.T) {
	handler := NewHandler("page", &Policy{MaxStumbles: 3})

	for i := 0; i < 5; i++ {
		handler.Record(NewStumble(Layout, fmt.Sprintf("resize %d", i), nil))
	}

	stumbles := handler.GetStumbles()
	assert.Len(t, stumbles, 3)
	assert.Equal(t, "resize 2", stumbles[0].Message)
	assert.Equal(t, "resize 4", stumbles[2].Message)
	assert.Contains(t, handler.Summary(), "2 older stumbles dropped")
}

// TestSeverity_String tests severity string representation
func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "stumble", Stumble.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "fall", Fall.String())
	assert.Equal(t, "unknown", Severity(9).String())
}

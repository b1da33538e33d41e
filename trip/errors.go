// Package trip records the non-fatal conditions a page engine runs into.
//
// Nothing on a content page is worth crashing for: a slider whose wrapper is
// missing stays inert, a pane measured before layout is retried on the next
// resize. Those situations "trip up" a component instead of failing it, and
// the Handler keeps a readable record of them for debugging.
package trip

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Well-known trip types raised by the engine.
const (
	Mount   = "mount"   // component did not activate
	Layout  = "layout"  // metrics not ready, styles skipped
	Control = "control" // an affordance was absent or ignored
)

// Trip represents a condition hit during page interaction with rich context.
//
// Example usage:
//
//	t := NewStumble(Mount, "slider has no wrapper", Context{"target": "#video-slider"})
//	handler.Record(t)
type Trip struct {
	Type      string    // Category, one of the constants above or a caller-defined one
	Message   string    // Human-readable description
	Context   Context   // Additional debugging information
	Timestamp time.Time // When the trip occurred
	Severity  Severity  // How serious this trip is
}

// Context provides structured debugging information for trips.
type Context map[string]interface{}

// Severity indicates how serious a trip is.
type Severity int

const (
	// Stumble is a degraded but expected state, e.g. an unlaid-out pane.
	Stumble Severity = iota

	// Error is an unexpected state that the component still survived.
	Error

	// Fall means the component can no longer be trusted.
	Fall
)

func (s Severity) String() string {
	switch s {
	case Stumble:
		return "stumble"
	case Error:
		return "error"
	case Fall:
		return "fall"
	default:
		return "unknown"
	}
}

// NewTrip creates a new trip with Error severity.
func NewTrip(tripType, message string, context Context) *Trip {
	return &Trip{
		Type:      tripType,
		Message:   message,
		Context:   context,
		Timestamp: time.Now(),
		Severity:  Error,
	}
}

// NewStumble creates a new trip with Stumble severity.
func NewStumble(tripType, message string, context Context) *Trip {
	return NewTrip(tripType, message, context).WithSeverity(Stumble)
}

// NewFall creates a new trip with Fall severity.
func NewFall(tripType, message string, context Context) *Trip {
	return NewTrip(tripType, message, context).WithSeverity(Fall)
}

// WithSeverity sets the severity level for this trip.
func (t *Trip) WithSeverity(severity Severity) *Trip {
	t.Severity = severity
	return t
}

// Error implements the error interface.
func (t *Trip) Error() string {
	return fmt.Sprintf("[%s:%s] %s", t.Type, t.Severity, t.Message)
}

// CanRecover returns true if the component keeps working despite this trip.
func (t *Trip) CanRecover() bool {
	return t.Severity == Stumble
}

// IsFall returns true if this trip invalidates the component.
func (t *Trip) IsFall() bool {
	return t.Severity == Fall
}

// GetContext returns a specific context value if it exists.
func (t *Trip) GetContext(key string) (interface{}, bool) {
	if t.Context == nil {
		return nil, false
	}
	val, exists := t.Context[key]
	return val, exists
}

// DetailedString returns a description with context, keys in sorted order.
func (t *Trip) DetailedString() string {
	var details strings.Builder

	details.WriteString(t.Error())
	details.WriteString(fmt.Sprintf("\n  Time: %s", t.Timestamp.Format("15:04:05.000")))

	if len(t.Context) > 0 {
		keys := make([]string, 0, len(t.Context))
		for key := range t.Context {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		details.WriteString("\n  Context:")
		for _, key := range keys {
			details.WriteString(fmt.Sprintf("\n    %s: %v", key, t.Context[key]))
		}
	}

	return details.String()
}

// Policy bounds how much a Handler remembers.
type Policy struct {
	// MaxStumbles caps the stumble log; the oldest entries are dropped first.
	// Resize storms on an unlaid-out page would otherwise grow it forever.
	MaxStumbles int
}

// DefaultPolicy keeps the last 64 stumbles.
func DefaultPolicy() *Policy {
	return &Policy{MaxStumbles: 64}
}

// Handler collects trips for one component.
// It is safe for concurrent use.
type Handler struct {
	mu        sync.Mutex
	component string
	trips     []*Trip
	stumbles  []*Trip
	dropped   int
	policy    *Policy
}

// NewHandler creates a handler for a named component.
func NewHandler(component string, policy *Policy) *Handler {
	if policy == nil {
		policy = DefaultPolicy()
	}

	return &Handler{
		component: component,
		trips:     make([]*Trip, 0),
		stumbles:  make([]*Trip, 0),
		policy:    policy,
	}
}

// Record adds a trip to the handler's collection.
func (h *Handler) Record(t *Trip) {
	if t == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if t.Severity != Stumble {
		h.trips = append(h.trips, t)
		return
	}

	h.stumbles = append(h.stumbles, t)
	if limit := h.policy.MaxStumbles; limit > 0 && len(h.stumbles) > limit {
		over := len(h.stumbles) - limit
		h.stumbles = append(h.stumbles[:0:0], h.stumbles[over:]...)
		h.dropped += over
	}
}

// Healthy is false once any fall has been recorded.
func (h *Handler) Healthy() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range h.trips {
		if t.IsFall() {
			return false
		}
	}
	return true
}

// HasTrips returns true if any non-stumble trips have been recorded.
func (h *Handler) HasTrips() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.trips) > 0
}

// HasStumbles returns true if any stumbles have been recorded.
func (h *Handler) HasStumbles() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stumbles) > 0
}

// GetTrips returns all recorded non-stumble trips.
func (h *Handler) GetTrips() []*Trip {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*Trip(nil), h.trips...)
}

// GetStumbles returns the retained stumbles, oldest first.
func (h *Handler) GetStumbles() []*Trip {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*Trip(nil), h.stumbles...)
}

// Count returns how many retained trips and stumbles have the given type.
func (h *Handler) Count(tripType string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, t := range h.trips {
		if t.Type == tripType {
			n++
		}
	}
	for _, t := range h.stumbles {
		if t.Type == tripType {
			n++
		}
	}
	return n
}

// Summary provides a concise overview of all trips and stumbles.
func (h *Handler) Summary() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.summary()
}

func (h *Handler) summary() string {
	if len(h.trips) == 0 && len(h.stumbles) == 0 {
		return fmt.Sprintf("[%s] No issues", h.component)
	}

	summary := fmt.Sprintf("[%s] %d trips, %d stumbles", h.component, len(h.trips), len(h.stumbles))
	if h.dropped > 0 {
		summary += fmt.Sprintf(" (%d older stumbles dropped)", h.dropped)
	}
	return summary
}

// DetailedReport provides a report of everything retained.
func (h *Handler) DetailedReport() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var report strings.Builder
	report.WriteString(fmt.Sprintf("=== %s Component Report ===\n", h.component))
	report.WriteString(h.summary() + "\n")

	if len(h.trips) > 0 {
		report.WriteString("\nTrips:\n")
		for i, t := range h.trips {
			report.WriteString(fmt.Sprintf("%d. %s\n", i+1, t.DetailedString()))
		}
	}

	if len(h.stumbles) > 0 {
		report.WriteString("\nStumbles:\n")
		for i, s := range h.stumbles {
			report.WriteString(fmt.Sprintf("%d. %s\n", i+1, s.DetailedString()))
		}
	}

	return report.String()
}

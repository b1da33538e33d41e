package dolly

import "time"

// Msg is an event delivered to a component.
type Msg = any

// Cmd is deferred work that produces a Msg. A nil Cmd does nothing.
//
// Cmd mirrors tea.Cmd so the engine also builds where Bubble Tea does not,
// such as js/wasm. The tea.Model methods convert between the two.
type Cmd func() Msg

// BatchMsg carries commands that run concurrently.
type BatchMsg []Cmd

// QuitMsg stops a Loop.
type QuitMsg struct{}

// Quit is a Cmd that stops a Loop.
func Quit() Msg { return QuitMsg{} }

// Batch combines cmds, dropping nils. It returns nil when nothing is left.
func Batch(cmds ...Cmd) Cmd {
	valid := make([]Cmd, 0, len(cmds))
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	default:
		return func() Msg { return BatchMsg(valid) }
	}
}

// Tick produces fn's message once d has elapsed.
func Tick(d time.Duration, fn func(time.Time) Msg) Cmd {
	return func() Msg {
		t := time.NewTimer(d)
		return fn(<-t.C)
	}
}

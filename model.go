//go:build !js

package dolly

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Bubble Tea does not build for js/wasm, so the tea.Model side of every
// component lives here and the browser drives the components through Loop.

var (
	activeDotStyle = lipgloss.NewStyle().Bold(true)
	headerStyle    = lipgloss.NewStyle().Bold(true)
)

// teaCmd adapts an engine command for a tea.Program. Batches are unpacked
// into tea.BatchMsg so the program runs each command itself.
func teaCmd(cmd Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		msg := cmd()
		switch msg := msg.(type) {
		case BatchMsg:
			cmds := make(tea.BatchMsg, 0, len(msg))
			for _, c := range msg {
				cmds = append(cmds, teaCmd(c))
			}
			return cmds
		case QuitMsg:
			return tea.QuitMsg{}
		}
		return msg
	}
}

// fromTea maps terminal input onto engine messages.
func fromTea(msg tea.Msg) Msg {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		return EscapeMsg{}
	}
	return msg
}

// Init implements tea.Model.
func (s Slider) Init() tea.Cmd { return teaCmd(s.Start()) }

// Update implements tea.Model.
func (s Slider) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := s.Handle(fromTea(msg))
	return next, teaCmd(cmd)
}

// View renders the slider state for a terminal.
func (s Slider) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(s.id))
	b.WriteString(fmt.Sprintf("  %d/%d  %s\n", s.index+1, len(s.region.Panes), s.timer.state()))

	for i := range s.region.Panes {
		if i == s.index {
			b.WriteString(activeDotStyle.Render("●"))
		} else {
			b.WriteString("○")
		}
	}
	b.WriteString("\n")

	const barWidth = 20
	filled := int(s.timer.fraction() * barWidth)
	b.WriteString("[")
	b.WriteString(strings.Repeat("█", filled))
	b.WriteString(strings.Repeat("░", barWidth-filled))
	b.WriteString(fmt.Sprintf("] %3.0f%%", s.timer.fraction()*100))

	return b.String()
}

// Init implements tea.Model. A carousel has nothing to schedule.
func (c Carousel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (c Carousel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, _ := c.Handle(msg)
	return next, nil
}

// View renders the visible window of items for a terminal.
func (c Carousel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(c.id))
	b.WriteString(fmt.Sprintf("  %d-%d of %d\n", c.index+1, min(c.index+c.visible, len(c.items)), len(c.items)))

	prev, next := "◀", "▶"
	if !c.CanPrev() {
		prev = " "
	}
	if !c.CanNext() {
		next = " "
	}
	b.WriteString(prev)
	for i := range c.items {
		if i >= c.index && i < c.index+c.visible {
			b.WriteString("■")
		} else {
			b.WriteString("·")
		}
	}
	b.WriteString(next)

	return b.String()
}

// Init implements tea.Model.
func (r Reveal) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (r Reveal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, _ := r.Handle(msg)
	return next, nil
}

// View implements tea.Model.
func (r Reveal) View() string { return "" }

// Init implements tea.Model.
func (l Lightbox) Init() tea.Cmd { return nil }

// Update implements tea.Model. Escape closes the lightbox.
func (l Lightbox) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, _ := l.Handle(fromTea(msg))
	return next, nil
}

// View implements tea.Model.
func (l Lightbox) View() string {
	if l.open {
		return "[lightbox open]"
	}
	return ""
}

// Init starts every mounted slider.
func (p Page) Init() tea.Cmd { return teaCmd(p.Start()) }

// Update routes msg to the components it concerns.
func (p Page) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := p.Handle(fromTea(msg))
	return next, teaCmd(cmd)
}

// View stacks the views of every mounted component.
func (p Page) View() string {
	views := make([]string, 0, len(p.sliders)+len(p.carousels)+1)
	for _, s := range p.sliders {
		views = append(views, s.View())
	}
	for _, c := range p.carousels {
		views = append(views, c.View())
	}
	if p.lightbox != nil && p.lightbox.open {
		views = append(views, p.lightbox.View())
	}
	if len(views) == 0 {
		return fmt.Sprintf("(nothing mounted, %s viewport)", p.CurrentMode())
	}
	return lipgloss.JoinVertical(lipgloss.Left, intersperse(views, "")...)
}

func intersperse(views []string, sep string) []string {
	out := make([]string, 0, 2*len(views))
	for i, v := range views {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, v)
	}
	return out
}

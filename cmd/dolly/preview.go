package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/teranos/dolly"
	"github.com/teranos/dolly/settings"
	"github.com/teranos/dolly/surface/memdom"
)

// pixelsPerCell converts terminal columns to CSS pixels so an 80 column
// terminal sits just above the default breakpoint.
const pixelsPerCell = 10

var helpStyle = lipgloss.NewStyle().Faint(true)

const helpText = "←/→ slider  ,/. carousel  space pause  1-9 jump  q quit"

func newPreviewCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Run the slider and carousel in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load()
			if err != nil {
				return err
			}
			log, cleanup, err := newLogger(s)
			if err != nil {
				return err
			}
			defer cleanup()
			if s.Logger.Output == "stdout" || s.Logger.Output == "stderr" {
				// The terminal belongs to the preview.
				log.SetOutput(io.Discard)
			}

			m, err := newPreview(s, log)
			if err != nil {
				return err
			}
			if _, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run(); err != nil {
				return fmt.Errorf("preview failed: %w", err)
			}
			return nil
		},
	}
}

// preview is a Page over in-memory regions, driven from the keyboard.
type preview struct {
	page  dolly.Page
	deck  *memdom.Deck
	strip *memdom.Strip
}

func newPreview(s *settings.Settings, log logrus.FieldLogger) (preview, error) {
	cfg := s.Page().ForSlider(log)
	width := 80.0 * pixelsPerCell

	p := preview{
		deck:  memdom.NewDeck(s.Slider.Panes, 400),
		strip: memdom.NewStrip(),
	}
	page := dolly.NewPage(cfg, width, 24*pixelsPerCell)
	if !page.MountSlider(dolly.SelectorVideoSlider, p.deck.Region(), cfg) {
		return preview{}, fmt.Errorf("failed to mount slider: %s", page.Report())
	}
	carousel := s.Page().ForCarousel(log)
	if !page.MountCarousel(dolly.SelectorMeshSlider, p.strip.Region(), s.Carousel.Items, p.strip.Factory(), carousel) {
		log.Warn("carousel not mounted")
	}
	page.AttachLightbox(&memdom.Overlay{})
	p.page = *page
	return p, nil
}

func (p preview) Init() tea.Cmd {
	return p.page.Init()
}

func (p preview) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if page, ok := keyMsg(msg); ok {
			return p.forward(page)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return p, tea.Quit
		}
	case tea.WindowSizeMsg:
		return p.forward(dolly.ResizeMsg{
			Width:  float64(msg.Width * pixelsPerCell),
			Height: float64(msg.Height * pixelsPerCell),
		})
	}
	return p.forward(msg)
}

func (p preview) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := p.page.Update(msg)
	p.page = m.(dolly.Page)
	return p, cmd
}

// keyMsg maps a key press to the page message it stands for.
func keyMsg(k tea.KeyMsg) (tea.Msg, bool) {
	switch key := k.String(); key {
	case "left", "h":
		return dolly.NavMsg{Target: dolly.SelectorVideoSlider, Dir: dolly.Prev}, true
	case "right", "l":
		return dolly.NavMsg{Target: dolly.SelectorVideoSlider, Dir: dolly.Next}, true
	case ",":
		return dolly.NavMsg{Target: dolly.SelectorMeshSlider, Dir: dolly.Prev}, true
	case ".":
		return dolly.NavMsg{Target: dolly.SelectorMeshSlider, Dir: dolly.Next}, true
	case " ":
		return dolly.PauseMsg{Target: dolly.SelectorVideoSlider}, true
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return dolly.JumpMsg{Target: dolly.SelectorVideoSlider, Index: int(key[0] - '1')}, true
	}
	return nil, false
}

func (p preview) View() string {
	return p.page.View() + "\n\n" + helpStyle.Render(helpText) + "\n"
}

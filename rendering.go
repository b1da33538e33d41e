//go:build !js

package dolly

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FrameConfig defines how terminal views are rasterized.
type FrameConfig struct {
	Width      int        // Width in character cells
	Height     int        // Height in character cells
	Background color.RGBA // Background color
	Foreground color.RGBA // Text color
	OutputDir  string     // Directory frames are written to
}

// DefaultFrameConfig is an 80×24 white-on-black terminal writing to dir.
func DefaultFrameConfig(dir string) FrameConfig {
	return FrameConfig{
		Width:      80,
		Height:     24,
		Background: color.RGBA{0, 0, 0, 255},
		Foreground: color.RGBA{255, 255, 255, 255},
		OutputDir:  dir,
	}
}

// RenderingStage renders terminal output into a character buffer and from
// there into PNG frames.
type RenderingStage struct {
	config     FrameConfig
	buffer     [][]rune
	charWidth  int
	charHeight int
	font       font.Face
}

// NewRenderingStage creates a rendering stage for config.
func NewRenderingStage(config FrameConfig) *RenderingStage {
	rs := &RenderingStage{
		config:     config,
		buffer:     make([][]rune, config.Height),
		charWidth:  7,
		charHeight: 13,
		font:       basicfont.Face7x13,
	}
	for i := range rs.buffer {
		rs.buffer[i] = make([]rune, config.Width)
	}
	return rs
}

// RenderText replaces the buffer with terminal output. ANSI styling is dropped;
// lines and columns beyond the frame are clipped.
func (rs *RenderingStage) RenderText(terminalOutput string) {
	for i := range rs.buffer {
		for j := range rs.buffer[i] {
			rs.buffer[i][j] = ' '
		}
	}

	for lineIdx, line := range strings.Split(ansi.Strip(terminalOutput), "\n") {
		if lineIdx >= rs.config.Height {
			break
		}
		for charIdx, char := range []rune(line) {
			if charIdx >= rs.config.Width {
				break
			}
			rs.buffer[lineIdx][charIdx] = char
		}
	}
}

// Text returns the buffer contents with trailing spaces trimmed.
func (rs *RenderingStage) Text() string {
	lines := make([]string, len(rs.buffer))
	for i, line := range rs.buffer {
		lines[i] = strings.TrimRight(string(line), " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// Image rasterizes the buffer.
func (rs *RenderingStage) Image() *image.RGBA {
	width := rs.config.Width * rs.charWidth
	height := rs.config.Height * rs.charHeight

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(rs.config.Background), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(rs.config.Foreground),
		Face: rs.font,
	}

	ascent := rs.font.Metrics().Ascent
	for lineIdx, line := range rs.buffer {
		for charIdx, char := range line {
			if char == ' ' || char == 0 {
				continue
			}
			drawer.Dot = fixed.Point26_6{
				X: fixed.I(charIdx * rs.charWidth),
				Y: fixed.I(lineIdx*rs.charHeight) + ascent,
			}
			drawer.DrawString(string(char))
		}
	}
	return img
}

// CaptureFrame writes the buffer as a PNG file.
func (rs *RenderingStage) CaptureFrame(filename string) error {
	if rs.config.OutputDir != "" {
		if err := os.MkdirAll(rs.config.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create frame directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create frame: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, rs.Image()); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	return nil
}

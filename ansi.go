//go:build !js

package dolly

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
)

// sgrState is the accumulated effect of SGR sequences seen so far.
type sgrState struct {
	fg, bg                         string
	bold, faint, italic, underline bool
}

func (s sgrState) css() string {
	var parts []string
	if s.fg != "" {
		parts = append(parts, "color: "+s.fg)
	}
	if s.bg != "" {
		parts = append(parts, "background: "+s.bg)
	}
	if s.bold {
		parts = append(parts, "font-weight: bold")
	}
	if s.faint {
		parts = append(parts, "opacity: 0.6")
	}
	if s.italic {
		parts = append(parts, "font-style: italic")
	}
	if s.underline {
		parts = append(parts, "text-decoration: underline")
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "; ") + ";"
}

// apply folds one SGR parameter list into s.
func (s sgrState) apply(params string) sgrState {
	if params == "" {
		return sgrState{}
	}
	codes := strings.Split(params, ";")
	for i := 0; i < len(codes); i++ {
		n, err := strconv.Atoi(codes[i])
		if err != nil {
			continue
		}
		switch {
		case n == 0:
			s = sgrState{}
		case n == 1:
			s.bold = true
		case n == 2:
			s.faint = true
		case n == 3:
			s.italic = true
		case n == 4:
			s.underline = true
		case n == 22:
			s.bold, s.faint = false, false
		case n == 23:
			s.italic = false
		case n == 24:
			s.underline = false
		case n >= 30 && n <= 37:
			s.fg = xterm256(n - 30)
		case n >= 90 && n <= 97:
			s.fg = xterm256(n - 90 + 8)
		case n == 39:
			s.fg = ""
		case n >= 40 && n <= 47:
			s.bg = xterm256(n - 40)
		case n >= 100 && n <= 107:
			s.bg = xterm256(n - 100 + 8)
		case n == 49:
			s.bg = ""
		case n == 38 || n == 48:
			color, used := extendedColor(codes[i+1:])
			i += used
			if n == 38 {
				s.fg = color
			} else {
				s.bg = color
			}
		}
	}
	return s
}

// extendedColor parses the arguments of a 38 or 48 code: "5;n" or
// "2;r;g;b". It returns the color and how many arguments it consumed.
func extendedColor(args []string) (string, int) {
	if len(args) >= 2 && args[0] == "5" {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 || n > 255 {
			return "", 2
		}
		return xterm256(n), 2
	}
	if len(args) >= 4 && args[0] == "2" {
		var rgb [3]int
		for i := range rgb {
			rgb[i], _ = strconv.Atoi(args[i+1])
		}
		return fmt.Sprintf("#%02x%02x%02x", rgb[0]&0xff, rgb[1]&0xff, rgb[2]&0xff), 4
	}
	return "", len(args)
}

var ansi16 = [16]string{
	"#000000", "#cd3131", "#0dbc79", "#e5e510", "#2472c8", "#bc3fbc", "#11a8cd", "#e5e5e5",
	"#666666", "#f14c4c", "#23d18b", "#f5f543", "#3b8eea", "#d670d6", "#29b8db", "#ffffff",
}

// xterm256 returns the hex color of palette entry n.
func xterm256(n int) string {
	switch {
	case n < 16:
		return ansi16[n]
	case n < 232:
		levels := [6]int{0, 95, 135, 175, 215, 255}
		n -= 16
		return fmt.Sprintf("#%02x%02x%02x", levels[n/36], levels[(n/6)%6], levels[n%6])
	default:
		g := 8 + 10*(n-232)
		return fmt.Sprintf("#%02x%02x%02x", g, g, g)
	}
}

// viewHTML converts a rendered view to HTML for reports. SGR sequences become
// styled spans; every other escape sequence is dropped. Newlines are kept, so
// the result belongs inside a <pre>.
func viewHTML(view string) template.HTML {
	var (
		b     strings.Builder
		state sgrState
		open  bool
		text  strings.Builder
	)

	flush := func() {
		if text.Len() > 0 {
			b.WriteString(template.HTMLEscapeString(text.String()))
			text.Reset()
		}
	}

	for i := 0; i < len(view); i++ {
		c := view[i]
		if c == '\r' {
			continue
		}
		if c != '\x1b' {
			text.WriteByte(c)
			continue
		}

		flush()
		if i+1 >= len(view) || view[i+1] != '[' {
			// Two-byte escape; skip the introducer and its follower.
			i++
			continue
		}

		j := i + 2
		for j < len(view) && (view[j] < 0x40 || view[j] > 0x7e) {
			j++
		}
		if j >= len(view) {
			break
		}
		if view[j] == 'm' {
			state = state.apply(view[i+2 : j])
			if open {
				b.WriteString("</span>")
				open = false
			}
			if css := state.css(); css != "" {
				fmt.Fprintf(&b, `<span style="%s">`, css)
				open = true
			}
		}
		i = j
	}

	flush()
	if open {
		b.WriteString("</span>")
	}
	return template.HTML(b.String())
}

// Package display renders the startup banner and the short help lines
// printed under it.
package display

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

// BannerStyle is the muted slate used for the banner and mode lines.
var BannerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#94a3b8"))

// RenderBanner returns the banner art horizontally centred for the
// current terminal width. To change the banner just replace banner.txt.
func RenderBanner() string {
	return renderBanner(termWidth())
}

func renderBanner(width int) string {
	lines := strings.Split(strings.TrimRight(bannerRaw, "\n"), "\n")

	// Find the widest line.
	maxW := 0
	for _, l := range lines {
		if len(l) > maxW {
			maxW = len(l)
		}
	}

	pad := 0
	if width > maxW {
		pad = (width - maxW) / 2
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(BannerStyle.Render(l))
		b.WriteByte('\n')
	}
	return b.String()
}

// ModeLines describes the active input and output backends, one line
// each, followed by how to quit.
func ModeLines(input, output string) []string {
	var listen string
	switch input {
	case "text":
		listen = "Type a command and press Enter."
	case "whisper":
		listen = "Listening through local Whisper. Speak after the prompt."
	default:
		listen = "Listening through Azure Speech. Speak after the prompt."
	}

	var speak string
	switch output {
	case "text":
		speak = "Replies are printed only."
	case "espeak":
		speak = "Replies are spoken with espeak."
	default:
		speak = "Replies are spoken with Azure Speech."
	}

	return []string{
		"  " + listen,
		"  " + speak,
		fmt.Sprintf("  Say %q for commands, %q to quit.", "help", "exit"),
	}
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"sixhats/internal/hats"

	"github.com/mattn/go-isatty"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorBold   = "\033[1m"
	ColorDim    = "\033[2m"
)

// colorEnabled is false when stdout is not a terminal or NO_COLOR is set.
var colorEnabled = os.Getenv("NO_COLOR") == "" &&
	(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))

// Agent emojis - auto-assigned based on index
var agentEmojis = []string{"🤖", "🎨", "🔧", "📊", "🧠", "✨", "🚀", "💡", "📝", "🎯", "⚙️", "🔍"}

var hatEmojis = map[hats.Hat]string{
	hats.White:  "⚪",
	hats.Red:    "🔴",
	hats.Black:  "⚫",
	hats.Yellow: "🟡",
	hats.Green:  "🟢",
	hats.Blue:   "🔵",
}

// GetAgentEmoji returns a unique emoji for each agent based on index
func GetAgentEmoji(index int) string {
	return agentEmojis[index%len(agentEmojis)]
}

// agentEmoji prefers the hat color for the six hat agents.
func agentEmoji(index int, agentID string) string {
	for _, h := range hats.All {
		if p, ok := hats.Lookup(h); ok && p.Name == agentID {
			return hatEmojis[h]
		}
	}
	return GetAgentEmoji(index)
}

// ColorText wraps text with ANSI color codes
func ColorText(text, color string) string {
	if !colorEnabled {
		return text
	}
	return color + text + ColorReset
}

// ProgressBar generates a text-based progress bar
func ProgressBar(current, total int, width int) string {
	if total == 0 {
		return ""
	}

	percent := float64(current) / float64(total)
	filled := min(int(percent*float64(width)), width)

	bar := "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
	return fmt.Sprintf("%s %d/%d (%.0f%%)", bar, current, total, percent*100)
}

// FormatDuration formats seconds into human readable string
func FormatDuration(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	mins := int(seconds) / 60
	secs := int(seconds) % 60
	return fmt.Sprintf("%dm %ds", mins, secs)
}

const bannerWidth = 78

// banner prints a boxed, centered title.
func banner(title, color string) {
	line := strings.Repeat("═", bannerWidth)
	pad := max(bannerWidth-displayWidth(title), 0)
	left := pad / 2
	body := strings.Repeat(" ", left) + title + strings.Repeat(" ", pad-left)

	fmt.Println(ColorText("╔"+line+"╗", color))
	fmt.Println(ColorText("║", color) + ColorText(body, ColorBold) + ColorText("║", color))
	fmt.Println(ColorText("╚"+line+"╝", color))
}

// displayWidth counts runes; close enough for the box-drawing here.
func displayWidth(s string) int {
	return len([]rune(s))
}

func truncateStr(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func wordWrap(s string, width int) []string {
	if len(s) <= width {
		return []string{s}
	}

	var result []string
	for len(s) > width {
		idx := strings.LastIndexByte(s[:width+1], ' ')
		if idx <= 0 {
			idx = width
		}
		result = append(result, s[:idx])
		s = strings.TrimPrefix(s[idx:], " ")
	}
	if len(s) > 0 {
		result = append(result, s)
	}
	return result
}

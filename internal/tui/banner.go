package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for the chat mode.
func PrintBanner() {
	p := termenv.ColorProfile()
	lines := []string{
		`                _        `,
		`  ___ ___  ___| |_ __ _ `,
		` / __/ _ \/ __| __/ _` + "`" + ` |`,
		`| (_|  __/\__ \ || (_| |`,
		` \___\___||___/\__\__,_|`,
	}
	colors := []string{"#34d399", "#2dd4bf", "#22d3ee", "#38bdf8", "#60a5fa"}

	fmt.Println()
	for i, line := range lines {
		fmt.Println(termenv.String(line).Foreground(p.Color(colors[i])))
	}
	fmt.Println()
}

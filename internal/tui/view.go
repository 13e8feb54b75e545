package tui

import "strings"

const displayWidth = 27

var keypad = [][]string{
	{"x²", "√", "x^y", "1/x"},
	{"7", "8", "9", "/"},
	{"4", "5", "6", "*"},
	{"1", "2", "3", "-"},
	{"0", ".", "=", "+"},
}

var bottomRow = []string{"C", "±"}

const help = "s x²  r √  ^ x^y  i 1/x  n ±  enter =  esc C  ctrl+c quit"

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("+" + strings.Repeat("-", displayWidth+2) + "+\n")
	b.WriteString("| " + fit(m.engine.Expression(), displayWidth) + " |\n")
	b.WriteString("+" + strings.Repeat("-", displayWidth+2) + "+\n")

	for _, row := range keypad {
		for _, label := range row {
			b.WriteString(button(label, 5))
		}
		b.WriteString("\n")
	}
	for _, label := range bottomRow {
		b.WriteString(button(label, 12))
	}
	b.WriteString("\n\n")

	b.WriteString(help)
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	return b.String()
}

// fit right-aligns s in width cells, keeping the tail when it overflows.
func fit(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return "<" + string(r[len(r)-width+1:])
	}
	return strings.Repeat(" ", width-len(r)) + s
}

func button(label string, width int) string {
	n := len([]rune(label))
	left := (width - n) / 2
	right := width - n - left
	return "[" + strings.Repeat(" ", left) + label + strings.Repeat(" ", right) + "]"
}

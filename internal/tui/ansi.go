package tui

import "fmt"

const csi = "\x1b["

// SGR foreground colors
const (
	Black = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

// Erase modes for EraseLine and EraseDisplay
const (
	EraseToEnd = iota
	EraseToStart
	EraseAll
)

func CursorPos(row, col int) string {
	return fmt.Sprintf("%s%d;%dH", csi, row, col)
}

func CursorColumn(col int) string {
	return fmt.Sprintf("%s%dG", csi, col)
}

func EraseLine(n int) string {
	return fmt.Sprintf("%s%dK", csi, n)
}

func EraseDisplay(n int) string {
	return fmt.Sprintf("%s%dJ", csi, n)
}

func Fg(color int) string {
	return fmt.Sprintf("%s3%dm", csi, color)
}

func Reset() string {
	return csi + "0m"
}

func HideCursor() string {
	return csi + "?25l"
}

func ShowCursor() string {
	return csi + "?25h"
}

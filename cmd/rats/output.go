package main

import (
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\x1b[0m"
	ansiGreen = "\x1b[32m"
)

// statusLine decorates a success summary when writing to a terminal.
func statusLine(message string, writer io.Writer) string {
	if shouldColorize(writer) {
		return ansiGreen + message + ansiReset
	}
	return message
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// formatFloat renders a threshold compactly without losing precision.
func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}

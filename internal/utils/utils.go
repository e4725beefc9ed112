package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Output is where the Print helpers write. It follows color.Output so
// colors are dropped when stdout is not a terminal.
var Output io.Writer = color.Output

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	infoColor    = color.New(color.FgCyan)
	warningColor = color.New(color.FgYellow)
	headerColor  = color.New(color.Bold)
)

// PrintSuccess prints a success message
func PrintSuccess(msg string, args ...interface{}) {
	successColor.Fprintf(Output, "✓ "+msg+"\n", args...)
}

// PrintError prints an error message
func PrintError(msg string, args ...interface{}) {
	errorColor.Fprintf(Output, "✗ "+msg+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(msg string, args ...interface{}) {
	infoColor.Fprintf(Output, "ℹ "+msg+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	warningColor.Fprintf(Output, "⚠ "+msg+"\n", args...)
}

// PrintHeader prints a bold line
func PrintHeader(msg string, args ...interface{}) {
	headerColor.Fprintf(Output, msg+"\n", args...)
}

// Println writes an uncolored line
func Println(a ...interface{}) {
	fmt.Fprintln(Output, a...)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

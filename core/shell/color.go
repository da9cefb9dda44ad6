package shell

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const (
	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

// ColorModes lists the accepted values for the color setting.
var ColorModes = []string{ColorAlways, ColorAuto, ColorNever}

var (
	ColorBoldBlue  = color.New(color.FgBlue, color.Bold)
	ColorBoldGreen = color.New(color.FgGreen, color.Bold)
	ColorBoldRed   = color.New(color.FgRed, color.Bold)
)

// ColorPrinter decides whether text written to a stream gets colored.
type ColorPrinter struct {
	mode string
	out  io.Writer
}

// NewColorPrinter creates a printer for out; an empty mode means auto.
func NewColorPrinter(mode string, out io.Writer) *ColorPrinter {
	if mode == "" {
		mode = ColorAuto
	}
	return &ColorPrinter{mode: mode, out: out}
}

// ShouldColor reports whether output should carry escape codes.
func (c *ColorPrinter) ShouldColor() bool {
	switch c.mode {
	case ColorNever:
		return false
	case ColorAlways:
		return true
	default:
		fd, ok := c.out.(*os.File)
		if !ok {
			return false
		}
		return isatty.IsTerminal(fd.Fd()) || isatty.IsCygwinTerminal(fd.Fd())
	}
}

// Sprint formats text with the given color when coloring is on.
func (c *ColorPrinter) Sprint(col *color.Color, text string) string {
	if !c.ShouldColor() {
		return text
	}

	// Copy so the package level colors aren't forced on for others.
	forced := *col
	forced.EnableColor()
	return forced.Sprint(text)
}

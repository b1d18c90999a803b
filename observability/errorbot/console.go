package errorbot

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Console prints one human-readable line per report outcome.
// A zero Console writes uncolored lines to stdout and stderr.
type Console struct {
	Out io.Writer
	Err io.Writer

	ok   *color.Color
	fail *color.Color
}

// NewConsole returns a console bound to stdout and stderr.
// Colors are used only when the streams are terminals.
func NewConsole() *Console {
	return &Console{
		Out:  color.Output,
		Err:  color.Error,
		ok:   color.New(color.FgGreen),
		fail: color.New(color.FgRed),
	}
}

// NewConsoleTo returns an uncolored console writing to out and errOut.
func NewConsoleTo(out, errOut io.Writer) *Console {
	c := &Console{
		Out:  out,
		Err:  errOut,
		ok:   color.New(color.FgGreen),
		fail: color.New(color.FgRed),
	}
	c.ok.DisableColor()
	c.fail.DisableColor()
	return c
}

// Success writes line to the output stream.
func (c *Console) Success(line string) {
	writeLine(c.Out, os.Stdout, c.ok, line)
}

// Failure writes line to the error stream.
func (c *Console) Failure(line string) {
	writeLine(c.Err, os.Stderr, c.fail, line)
}

func writeLine(w, fallback io.Writer, paint *color.Color, line string) {
	if w == nil {
		w = fallback
	}
	if paint != nil {
		line = paint.Sprint(line)
	}
	fmt.Fprintln(w, line)
}

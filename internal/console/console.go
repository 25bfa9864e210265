// Package console prints the human-facing progress lines of a run
package console

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ProjectURL is printed under the banner
const ProjectURL = "https://github.com/EthanC/Gamertag"

// Console writes coloured status lines. Colour is dropped automatically
// when the output is not a terminal
type Console struct {
	out     io.Writer
	printer *message.Printer

	cyan  *color.Color
	green *color.Color
	faint *color.Color
}

// New creates a console writing to out
func New(out io.Writer) *Console {
	return &Console{
		out:     out,
		printer: message.NewPrinter(language.English),
		cyan:    color.New(color.FgCyan),
		green:   color.New(color.FgGreen),
		faint:   color.New(color.FgHiBlack),
	}
}

// Banner prints the tool name and project URL
func (c *Console) Banner() {
	c.cyan.Fprintln(c.out, "Gamertag - Bulk Xbox Live Gamertag availability checker")
	c.cyan.Fprintln(c.out, ProjectURL)
	fmt.Fprintln(c.out)
}

// Checking announces how many gamertags were loaded
func (c *Console) Checking(total int) {
	fmt.Fprintln(c.out, c.printer.Sprintf("Checking availability of %d gamertags...", total))
}

// Skipped reports a candidate dropped by validation
func (c *Console) Skipped(gamertag, reason string) {
	c.faint.Fprintf(c.out, "Skipping gamertag %s, %s\n", gamertag, reason)
}

// Saved reports the number of available gamertags written, if any
func (c *Console) Saved(count int) {
	if count < 1 {
		return
	}
	c.green.Fprintln(c.out, c.printer.Sprintf("Saved %d available gamertag(s)", count))
}

// Completed prints the elapsed run time in whole seconds
func (c *Console) Completed(elapsed time.Duration) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, c.printer.Sprintf("Completed in %ds", int(elapsed.Seconds())))
}

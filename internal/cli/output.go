package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"fraudlabs-cli/internal/fraudlabs"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Progress is an indeterminate activity indicator.
type Progress interface {
	Start()
	Stop()
}

func newSpinner(w io.Writer, message string) Progress {
	return spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriter(w),
		spinner.WithSuffix(" "+message),
	)
}

type printer struct {
	stdout io.Writer
	stderr io.Writer

	green, red, yellow, cyan, gray, bold *color.Color
}

func newPrinter(stdout, stderr io.Writer, colorOn bool) *printer {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if colorOn {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return &printer{
		stdout: stdout,
		stderr: stderr,
		green:  mk(color.FgGreen),
		red:    mk(color.FgRed),
		yellow: mk(color.FgYellow),
		cyan:   mk(color.FgCyan),
		gray:   mk(color.FgHiBlack),
		bold:   mk(color.Bold),
	}
}

func (p *printer) Success(message string) {
	fmt.Fprintln(p.stdout, p.green.Sprint("✓")+" "+message)
}

func (p *printer) Error(message string) {
	fmt.Fprintln(p.stderr, p.red.Sprint("✗")+" "+message)
}

func (p *printer) Title(title string) {
	fmt.Fprintln(p.stdout)
	fmt.Fprintln(p.stdout, p.bold.Sprint(title))
	fmt.Fprintln(p.stdout)
}

// Row prints an aligned "label value" line.
func (p *printer) Row(label, value string) {
	fmt.Fprintf(p.stdout, "%-17s %s\n", label, value)
}

func (p *printer) Section(title string) {
	fmt.Fprintln(p.stdout)
	fmt.Fprintln(p.stdout, title)
}

func (p *printer) Blank() {
	fmt.Fprintln(p.stdout)
}

// Response prints the body verbatim, indented.
func (p *printer) Response(resp *fraudlabs.Response) error {
	out, err := resp.Pretty()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.stdout, string(out))
	return err
}

func (p *printer) JSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(p.stdout, string(out))
	return err
}

// YesNo colors a flag; yesIsBad marks flags like is_proxy where "Yes" is the warning.
func (p *printer) YesNo(v, yesIsBad bool) string {
	yes, no := p.green, p.red
	if yesIsBad {
		yes, no = p.red, p.green
	}
	if v {
		return yes.Sprint("Yes")
	}
	return no.Sprint("No")
}

// Package console prints human-facing progress lines, headings and banners.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
)

// Printer writes progress to a terminal. It satisfies loader.Progress.
type Printer struct {
	w        io.Writer
	renderer *lipgloss.Renderer
	theme    *Theme
	quiet    bool

	ok   *color.Color
	fail *color.Color
}

// Option configures a Printer.
type Option func(*Printer)

// WithQuiet suppresses section and step lines. Failures are still printed.
func WithQuiet(quiet bool) Option {
	return func(p *Printer) {
		p.quiet = quiet
	}
}

// WithoutColor disables ANSI styling on markers, headings and banners.
func WithoutColor() Option {
	return func(p *Printer) {
		p.ok.DisableColor()
		p.fail.DisableColor()
		p.renderer.SetColorProfile(termenv.Ascii)
	}
}

// NewPrinter creates a Printer writing to w, or stdout when w is nil.
func NewPrinter(w io.Writer, opts ...Option) *Printer {
	if w == nil {
		w = os.Stdout
	}
	p := &Printer{
		w:        w,
		renderer: lipgloss.NewRenderer(w),
		ok:       color.New(color.FgGreen, color.Bold),
		fail:     color.New(color.FgRed, color.Bold),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.theme = NewTheme(p.renderer)
	return p
}

// Section prints a phase heading.
func (p *Printer) Section(title string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.w, "\n%s\n", p.Heading(title))
}

// Step prints a success line.
func (p *Printer) Step(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.w, "  %s %s\n", p.ok.Sprint("✓"), fmt.Sprintf(format, args...))
}

// Fail prints a failure line.
func (p *Printer) Fail(format string, args ...any) {
	fmt.Fprintf(p.w, "  %s %s\n", p.fail.Sprint("✗"), fmt.Sprintf(format, args...))
}

// Heading renders title in the heading style.
func (p *Printer) Heading(title string) string {
	return p.theme.HeadingStyle.Render(title)
}

// Banner prints a boxed message, e.g. the completion banner.
func (p *Printer) Banner(title string, lines ...string) {
	p.box(p.theme.BannerStyle, title, lines)
}

// ErrorBanner prints a boxed failure message.
func (p *Printer) ErrorBanner(title string, lines ...string) {
	p.box(p.theme.ErrorStyle, title, lines)
}

func (p *Printer) box(style lipgloss.Style, title string, lines []string) {
	body := p.renderer.NewStyle().Bold(true).Render(title)
	if len(lines) > 0 {
		body += "\n" + strings.Join(lines, "\n")
	}
	fmt.Fprintf(p.w, "\n%s\n", style.Render(body))
}

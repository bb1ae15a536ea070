package console

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/zero-day-ai/toolgraph/internal/loader"
)

var _ loader.Progress = (*Printer)(nil)

func TestPrinter_StepAndFail(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewPrinter(buf, WithoutColor())

	p.Step("Provider %s (%s) %s", "Omie ERP", "omie", "created")
	p.Fail("Relationship %s skipped", "a -> b")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"  ✓ Provider Omie ERP (omie) created",
		"  ✗ Relationship a -> b skipped",
	}, lines)
}

func TestPrinter_Quiet(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewPrinter(buf, WithoutColor(), WithQuiet(true))

	p.Section("Providers")
	p.Step("hidden")
	p.Fail("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.NotContains(t, buf.String(), "Providers")
	assert.Contains(t, buf.String(), "✗ shown")
}

func TestPrinter_Section(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewPrinter(buf, WithoutColor())

	p.Section("Integrations (omie)")

	assert.Contains(t, buf.String(), "Integrations (omie)")
}

func TestPrinter_Banner(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewPrinter(buf, WithoutColor())

	p.Banner("Load complete", "Browser: http://localhost:7474")

	out := buf.String()
	assert.Contains(t, out, "Load complete")
	assert.Contains(t, out, "Browser: http://localhost:7474")
	assert.Contains(t, out, "╭", "rounded border")
}

func TestPrinter_ErrorBanner(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewPrinter(buf, WithoutColor())

	p.ErrorBanner("Load failed", "cannot reach bolt://localhost:7687")

	assert.Contains(t, buf.String(), "Load failed")
	assert.Contains(t, buf.String(), "cannot reach bolt://localhost:7687")
}

func TestNewPrinter_DefaultsToStdout(t *testing.T) {
	p := NewPrinter(nil)
	assert.Equal(t, os.Stdout, p.w)
}

func TestPrinter_ColorProfile(t *testing.T) {
	t.Run("styled when the renderer has colors", func(t *testing.T) {
		buf := &bytes.Buffer{}
		p := NewPrinter(buf)
		p.renderer.SetColorProfile(termenv.TrueColor)

		assert.Contains(t, p.Heading("Providers"), "\x1b[")
	})

	t.Run("without color strips headings and banners", func(t *testing.T) {
		buf := &bytes.Buffer{}
		p := NewPrinter(buf, WithoutColor())

		heading := p.Heading("Providers")
		p.Banner("Load complete", "Run run-1")
		p.ErrorBanner("Load finished with skipped items")

		assert.Equal(t, termenv.Ascii, p.renderer.ColorProfile())
		assert.Equal(t, "Providers", heading)
		assert.NotContains(t, buf.String(), "\x1b[")
		assert.Contains(t, buf.String(), "╭", "borders are not colors")
	})
}

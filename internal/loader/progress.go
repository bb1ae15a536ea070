package loader

// Progress receives one human-readable line per write. Implementations decide
// where the lines go; the loader only reports what it did.
type Progress interface {
	// Section announces a new phase.
	Section(title string)
	// Step reports a successful write.
	Step(format string, args ...any)
	// Fail reports an item that was skipped.
	Fail(format string, args ...any)
}

// NopProgress discards all progress lines.
type NopProgress struct{}

func (NopProgress) Section(string)      {}
func (NopProgress) Step(string, ...any) {}
func (NopProgress) Fail(string, ...any) {}

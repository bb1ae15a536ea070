package catalog

import (
	_ "embed"
)

// defaultCatalog is the Omie and Nibo tool catalog shipped with the binary.
//
//go:embed catalog.yaml
var defaultCatalog []byte

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// DefaultYAML returns the raw embedded catalog document.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultCatalog))
	copy(out, defaultCatalog)
	return out
}

package email

import (
	"embed"
	"fmt"
	"strings"

	"goerp/internal/services"
)

//go:embed templates/*
var templateFS embed.FS

// partialStore implements services.PartialStore using embedded partial files.
type partialStore struct{}

// NewPartialStore returns a PartialStore that loads skin partials from the
// embedded templates folder. Paths are slash-separated, e.g. "minty/button".
func NewPartialStore() services.PartialStore {
	return &partialStore{}
}

func (p *partialStore) Partial(path string) (string, error) {
	if strings.Contains(path, "..") {
		return "", fmt.Errorf("invalid partial path %q", path)
	}
	raw, err := templateFS.ReadFile("templates/partials/" + path + ".html")
	if err != nil {
		return "", fmt.Errorf("partial %q not found", path)
	}
	return string(raw), nil
}

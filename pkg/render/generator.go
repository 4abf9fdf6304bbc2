package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"starttls-hq/everywhere/pkg/policy/model"
)

// Generator renders a policy document for one MTA.
type Generator interface {
	// Name is the registry key, e.g. "postfix".
	Name() string

	// MTAName is the human-readable MTA name.
	MTAName() string

	// DefaultFilename is the file name of the generated configuration.
	DefaultFilename() string

	// Generate returns the configuration text.
	Generate(cfg *model.Config) (string, error)

	// Instructions explains how to install the file written to path.
	Instructions(path string) string
}

var generators = map[string]Generator{
	"postfix": Postfix{},
}

// Lookup returns the generator registered under name.
func Lookup(name string) (Generator, error) {
	g, ok := generators[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("no configuration generator exists for %q", name)
	}
	return g, nil
}

// Names returns the registered generator names, sorted.
func Names() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFile generates the configuration and writes it to path, followed
// by a newline.
func WriteFile(g Generator, cfg *model.Config, path string) error {
	out, err := g.Generate(cfg)
	if err != nil {
		return fmt.Errorf("failed to generate %s configuration: %w", g.Name(), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(out+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ManualInstructions returns the installation steps for path under a
// banner naming the MTA.
func ManualInstructions(g Generator, path string) string {
	line := "\n" + strings.Repeat("-", 50) + "\n"
	return line + "Manual installation instructions for " + g.MTAName() + line + g.Instructions(path)
}

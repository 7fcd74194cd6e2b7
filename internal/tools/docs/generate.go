// Package docs generates the Markdown module reference.
package docs

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/schema"
)

// Generator writes one page per module plus an index.
type Generator struct {
	outputDir string
	logger    zerolog.Logger
}

// Option is a functional option for configuring the Generator
type Option func(*Generator)

// WithOutputDir sets the output directory for generated documentation
func WithOutputDir(dir string) Option {
	return func(g *Generator) {
		g.outputDir = dir
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New creates a new documentation generator
func New(opts ...Option) *Generator {
	g := &Generator{
		outputDir: "./docs",
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate writes the reference for mods and returns the written paths.
func (g *Generator) Generate(mods []*schema.Module) ([]string, error) {
	modulesDir := filepath.Join(g.outputDir, "modules")
	if err := os.MkdirAll(modulesDir, 0o755); err != nil {
		return nil, errors.WrapIO("create", modulesDir, err)
	}

	var written []string
	for _, m := range mods {
		path := filepath.Join(modulesDir, m.Name+".md")
		if err := writeFile(path, func(f *os.File) error { return ModulePage(f, m) }); err != nil {
			return written, err
		}
		g.logger.Debug().Str("module", m.Name).Str("path", path).Msg("wrote module page")
		written = append(written, path)
	}

	index := filepath.Join(g.outputDir, "README.md")
	if err := writeFile(index, func(f *os.File) error { return IndexPage(f, mods) }); err != nil {
		return written, err
	}
	written = append(written, index)

	g.logger.Info().Int("modules", len(mods)).Str("dir", g.outputDir).Msg("generated module reference")
	return written, nil
}

func writeFile(path string, render func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return errors.WrapIO("write", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	return nil
}

package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"audiosort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Input and output directories exist; state and log directories are left for
// the code under test to create.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.InputDir = filepath.Join(base, "in")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Sorter.Workers = 2

	for _, dir := range []string{cfgVal.Paths.InputDir, cfgVal.Paths.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOverwrite enables replacing existing destination files.
func WithOverwrite() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Library.OverwriteExisting = true
	}
}

// WithExtensions overrides the accepted file extensions.
func WithExtensions(exts ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sorter.Extensions = exts
	}
}

// WithMaxNameLength overrides the sanitized name length cap.
func WithMaxNameLength(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sorter.MaxNameLength = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

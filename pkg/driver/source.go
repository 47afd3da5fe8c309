package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zojize/viz-list/pkg/programs"
)

// EmbeddedPrefix selects a bundled sample program.
const EmbeddedPrefix = "embedded:"

// Source is program text plus a name for messages.
type Source struct {
	Name string
	Data []byte
}

// LoadSource resolves the program selected by cfg.
func LoadSource(ctx context.Context, cfg Config) (Source, error) {
	if cfg.Git != nil {
		return FetchGit(ctx, *cfg.Git)
	}
	if cfg.Program == "" {
		return Source{}, fmt.Errorf("driver: no program configured")
	}
	return ReadProgram(cfg.Program)
}

// ReadProgram loads a file path or an "embedded:<name>" sample.
func ReadProgram(target string) (Source, error) {
	target = strings.TrimSpace(target)
	if name, ok := strings.CutPrefix(target, EmbeddedPrefix); ok {
		p, err := programs.Get(name)
		if err != nil {
			return Source{}, err
		}
		return Source{Name: EmbeddedPrefix + p.Name, Data: p.Source}, nil
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return Source{}, fmt.Errorf("driver: resolve %s: %w", target, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return Source{}, fmt.Errorf("driver: read %s: %w", target, err)
	}
	return Source{Name: abs, Data: data}, nil
}

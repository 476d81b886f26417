package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gprcli/internal/gather"
)

// Manager writes processed gathers into an output directory
type Manager struct {
	outDir string
}

// NewManager creates a manager rooted at outDir
func NewManager(outDir string) *Manager {
	return &Manager{outDir: outDir}
}

// OutputPath returns where the processed copy of the gather id is written
func (m *Manager) OutputPath(id string) string {
	return filepath.Join(m.outDir, id+GatherExt)
}

// EnsureDirectory creates the output directory
func (m *Manager) EnsureDirectory() error {
	if err := os.MkdirAll(m.outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", m.outDir, err)
	}
	return nil
}

// WriteGather saves g as the output document for id. The document is
// written to a temporary file and renamed so readers never see a partial file.
func (m *Manager) WriteGather(id string, g *gather.Gather) (string, error) {
	if err := m.EnsureDirectory(); err != nil {
		return "", err
	}

	dst := m.OutputPath(id)
	tmp, err := os.CreateTemp(m.outDir, "."+id+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := gather.Save(tmp, g); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write gather %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move gather into place: %w", err)
	}

	slog.Debug("gather_written",
		slog.String("id", id),
		slog.String("path", dst))

	return dst, nil
}

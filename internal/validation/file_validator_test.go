package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("{}"), 0644))
	return p
}

func TestFileValidator_ValidateInput(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "directory with gathers",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				write(t, dir, "line01.json")
				return dir
			},
		},
		{
			name: "empty directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
		},
		{
			name: "gather file",
			setupFunc: func(t *testing.T) string {
				return write(t, t.TempDir(), "line01.JSON")
			},
		},
		{
			name: "non-existent path",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "wrong extension",
			setupFunc: func(t *testing.T) string {
				return write(t, t.TempDir(), "line01.txt")
			},
			wantErr:       true,
			errorContains: "not a gather document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFileValidator(nil)
			err := v.ValidateInput(tt.setupFunc(t))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateFileDirectory(t *testing.T) {
	err := NewFileValidator(nil).ValidateFile(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, NewFileValidator(nil).ValidateOutputDirectory(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileValidator_ValidateReportPath(t *testing.T) {
	dir := t.TempDir()
	v := NewFileValidator(nil)

	assert.NoError(t, v.ValidateReportPath(filepath.Join(dir, "report.xlsx")))
	assert.NoError(t, v.ValidateReportPath(filepath.Join(dir, "sub", "report.CSV")))

	err := v.ValidateReportPath(filepath.Join(dir, "report.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".xlsx, .csv")
}

func TestFileValidator_CountGatherFiles(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.json")
	write(t, dir, "b.json")
	write(t, dir, "notes.txt")

	n, err := NewFileValidator(nil).CountGatherFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

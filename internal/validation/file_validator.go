package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gprcli/internal/files"
	"gprcli/internal/infrastructure"
)

// ReportExts are the accepted processing report formats
var ReportExts = []string{".xlsx", ".csv"}

// FileValidator checks the paths a batch run reads and writes before any
// gather is processed
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	return &FileValidator{
		logger: infrastructure.WithComponent(logger, "file_validator"),
	}
}

// ValidateInput accepts a gather file or a directory. A directory without
// gather files is valid; the run simply has nothing to do.
func (v *FileValidator) ValidateInput(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("input_missing", slog.String("path", path))
		return fmt.Errorf("input %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat input %s: %w", path, err)
	}

	if !info.IsDir() {
		return v.ValidateGatherFile(path)
	}

	n, err := v.CountGatherFiles(path)
	if err != nil {
		return err
	}
	if n == 0 {
		v.logger.Warn("input_empty", slog.String("directory", path))
	}
	return nil
}

// ValidateGatherFile checks that path is a readable gather document
func (v *FileValidator) ValidateGatherFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}
	ext := filepath.Ext(path)
	if !strings.EqualFold(ext, files.GatherExt) {
		v.logger.Error("input_not_gather",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("file %s is not a gather document (extension: %s)", path, ext)
	}
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("file_validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory creates dir if needed and verifies it is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		v.logger.Error("output_not_writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	name := tmp.Name()
	tmp.Close()
	os.Remove(name)
	return nil
}

// ValidateReportPath checks the report format and that its directory is
// writable
func (v *FileValidator) ValidateReportPath(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	ok := false
	for _, e := range ReportExts {
		if ext == e {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("report %s must end in one of %s", path, strings.Join(ReportExts, ", "))
	}
	return v.ValidateOutputDirectory(filepath.Dir(path))
}

// CountGatherFiles counts gather documents directly inside dir
func (v *FileValidator) CountGatherFiles(dir string) (int, error) {
	found, err := files.NewDiscovery("").FindGatherFiles(dir)
	if err != nil {
		return 0, err
	}
	v.logger.Debug("gather_files_counted",
		slog.String("directory", dir),
		slog.Int("count", len(found)))
	return len(found), nil
}

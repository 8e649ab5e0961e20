package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// OutputManager handles output file organization and path management
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// JobDir returns the directory holding a job's outputs.
func (om *OutputManager) JobDir(jobID string) string {
	return filepath.Join(om.BaseOutputDir, filepath.Base(jobID))
}

// CreateJobOutputDir creates the directory for a job's outputs
func (om *OutputManager) CreateJobOutputDir(jobID string) (string, error) {
	jobDir := om.JobDir(jobID)
	if err := os.MkdirAll(jobDir, 0755); err != nil {
		return "", eris.Wrapf(err, "output: create job dir %s", jobDir)
	}
	return jobDir, nil
}

// GetOutputFilePath generates a full path for an output file
func (om *OutputManager) GetOutputFilePath(jobID, fileName string) (string, error) {
	jobDir, err := om.CreateJobOutputDir(jobID)
	if err != nil {
		return "", err
	}

	// Clean the filename to remove any path separators
	return filepath.Join(jobDir, filepath.Base(fileName)), nil
}

// ResolveFile returns the path of an existing output file, refusing names
// that would escape the job directory.
func (om *OutputManager) ResolveFile(jobID, fileName string) (string, error) {
	clean := filepath.Base(fileName)
	if clean != fileName || clean == "." || clean == ".." {
		return "", eris.Errorf("output: invalid file name %q", fileName)
	}
	path := filepath.Join(om.JobDir(jobID), clean)
	if _, err := os.Stat(path); err != nil {
		return "", eris.Wrapf(err, "output: stat %s", path)
	}
	return path, nil
}

// RemoveJobDir deletes every output of a job.
func (om *OutputManager) RemoveJobDir(jobID string) error {
	return eris.Wrap(os.RemoveAll(om.JobDir(jobID)), "output: remove job dir")
}

// GetDownloadURL generates a download URL for a file
func (om *OutputManager) GetDownloadURL(jobID, fileName string) string {
	return fmt.Sprintf("/api/v1/download/%s/%s", jobID, filepath.Base(fileName))
}

// GetFileType determines the file type based on extension
func (om *OutputManager) GetFileType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	case ".xlsx":
		return "xlsx"
	case ".txt":
		return "txt"
	default:
		return "unknown"
	}
}

// GetFileSize returns the size of a file in bytes
func (om *OutputManager) GetFileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, eris.Wrap(err, "output: stat")
	}
	return fileInfo.Size(), nil
}

package listings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mavumo/jobbyist/internal/models"
)

// Read reads a JSON array of listings from path.
func Read(path string) ([]models.Listing, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []models.Listing{}, nil
	}

	var set []models.Listing
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, err
	}
	if set == nil {
		return []models.Listing{}, nil
	}
	return set, nil
}

// ReadAllowMissing reads listings and treats a missing file as an empty set,
// the state of the very first run.
func ReadAllowMissing(path string) ([]models.Listing, error) {
	set, err := Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.Listing{}, nil
		}
		return nil, err
	}
	return set, nil
}

// Write persists listings as pretty JSON. The write is atomic: a temp file in
// the same directory is renamed over the target, so a failed run never leaves
// a partially written state file behind.
func Write(path string, set []models.Listing) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is required")
	}
	if set == nil {
		set = []models.Listing{}
	}
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(path, append(data, '\n'))
}

// RunMetadata is the operational record written alongside the listing file
// after each pipeline run.
type RunMetadata struct {
	LastUpdate time.Time `json:"last_update"`
	JobsAdded  int       `json:"jobs_added_this_run"`
	TotalJobs  int       `json:"total_jobs"`
	Sources    []string  `json:"sources"`
}

// WriteMetadata persists run metadata next to the listing file.
func WriteMetadata(path string, meta RunMetadata) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is required")
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(path, append(data, '\n'))
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/piwi3910/AtlasGrid/internal/model"
)

// JobVersion is the current job file format version.
const JobVersion = "1.0.0"

// Job captures everything needed to repeat a grid generation run.
type Job struct {
	Version   string             `json:"version"`
	ID        uuid.UUID          `json:"id"`
	CreatedAt string             `json:"created_at"`
	Settings  model.GridSettings `json:"settings"`
	Extent    model.Extent       `json:"extent"`
	AoIPath   string             `json:"aoi_path,omitempty"`
	AoICRS    string             `json:"aoi_crs,omitempty"`
	Outputs   []string           `json:"outputs,omitempty"`
	Engine    string             `json:"engine,omitempty"`
}

// NewJob returns a job with a fresh ID and creation time.
func NewJob(settings model.GridSettings, extent model.Extent) Job {
	return Job{
		Version:   JobVersion,
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Settings:  settings,
		Extent:    extent,
	}
}

// SaveJob writes a job file to path.
func SaveJob(path string, job Job) error {
	if job.Version == "" {
		job.Version = JobVersion
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if err := writeJSON(path, job); err != nil {
		return fmt.Errorf("failed to write job file: %w", err)
	}
	return nil
}

// LoadJob reads a job file from path.
func LoadJob(path string) (Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Job{}, fmt.Errorf("failed to read job file: %w", err)
	}
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return Job{}, fmt.Errorf("failed to parse job file: %w", err)
	}
	if job.Version == "" {
		return Job{}, fmt.Errorf("invalid job file: missing version field")
	}
	if !job.Extent.IsValid() {
		return Job{}, fmt.Errorf("invalid job file: extent %s has no area", job.Extent)
	}
	return job, nil
}

package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/eduprobe-cli/internal/utils"
)

// FileName is the manifest's name inside the output directory.
const FileName = "manifest.json"

// Artifact is one file written by a run.
type Artifact struct {
	Role string `json:"role"`
	File string `json:"file"`
	// Rows counts data rows for tabular artifacts, header excluded; -1 otherwise.
	Rows int `json:"rows"`
}

// Counts are the row totals of the main stages.
type Counts struct {
	Ingested  int `json:"ingested"`
	Padded    int `json:"padded"`
	Truncated int `json:"truncated"`
	Kept      int `json:"kept"`
	Rejected  int `json:"rejected"`
	Outliers  int `json:"outliers"`
	Signals   int `json:"signals"`
}

// Manifest records what one run read, decided and wrote.
type Manifest struct {
	RunID      string     `json:"run_id"`
	Input      string     `json:"input"`
	Delimiter  string     `json:"delimiter,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
	Counts     Counts     `json:"counts"`
	Artifacts  []Artifact `json:"artifacts"`
	Warnings   []string   `json:"warnings,omitempty"`

	// Not serialized: output directory holding manifest.json
	dir string `json:"-"`
}

// New starts a manifest with a fresh run id. Call Save() to persist.
func New(input, dir string) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		Input:     input,
		StartedAt: time.Now().UTC(),
		Artifacts: []Artifact{},
		dir:       dir,
	}
}

// Load reads manifest.json from dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m.dir = dir
	return &m, nil
}

// Dir returns the output directory the manifest belongs to.
func (m *Manifest) Dir() string { return m.dir }

// Add records an artifact; a later entry for the same file replaces the earlier one.
func (m *Manifest) Add(role, file string, rows int) {
	for i := range m.Artifacts {
		if m.Artifacts[i].File == file {
			m.Artifacts[i] = Artifact{Role: role, File: file, Rows: rows}
			return
		}
	}
	m.Artifacts = append(m.Artifacts, Artifact{Role: role, File: file, Rows: rows})
}

// Warn appends a run-level note.
func (m *Manifest) Warn(msg string) { m.Warnings = append(m.Warnings, msg) }

// Save stamps FinishedAt and writes manifest.json using atomic write.
func (m *Manifest) Save() error {
	if m.dir == "" {
		return errors.New("manifest directory not set")
	}
	if err := utils.EnsureDir(m.dir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	m.FinishedAt = time.Now().UTC()
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(m.dir, FileName), data)
}

// File: internal/runctx/runctx.go (complete file)

package runctx

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	JSONFile = "report.json"
	TextFile = "report.txt"
)

type Context struct {
	RunID        string
	StartedAtUTC time.Time
	OutputDir    string
}

// NewID returns a sortable run id: the UTC start time plus a random suffix so
// two runs in the same second do not share a directory.
func NewID(now time.Time) string {
	return fmt.Sprintf("%s_%s", now.UTC().Format("20060102_150405"), uuid.NewString()[:8])
}

// New creates <baseDir>/run_<id>. An empty baseDir disables exports: the
// returned Context has an id but no OutputDir.
func New(baseDir string) (*Context, error) {
	now := time.Now().UTC()
	rc := &Context{RunID: NewID(now), StartedAtUTC: now}
	if baseDir == "" {
		return rc, nil
	}

	rc.OutputDir = filepath.Join(baseDir, "run_"+rc.RunID)
	if err := os.MkdirAll(rc.OutputDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create run directory")
	}
	return rc, nil
}

func (c *Context) Exports() bool { return c.OutputDir != "" }

func (c *Context) JSONPath() string { return filepath.Join(c.OutputDir, JSONFile) }

func (c *Context) TextPath() string { return filepath.Join(c.OutputDir, TextFile) }

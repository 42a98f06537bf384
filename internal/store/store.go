// Package store persists forecast runs so they can be listed, reopened and
// compared later.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/seo-forecast/internal/model"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = eris.New("store: run not found")

// DefaultListLimit caps ListRuns when no limit is given.
const DefaultListLimit = 100

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Category model.Category `json:"category,omitempty"`
	Name     string         `json:"name,omitempty"` // substring match
	Limit    int            `json:"limit,omitempty"`
	Offset   int            `json:"offset,omitempty"`
}

// Store defines the persistence interface for forecast runs.
type Store interface {
	SaveRun(ctx context.Context, name string, report *model.Report) (*model.Run, error)
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)
	DeleteRun(ctx context.Context, id string) error

	Migrate(ctx context.Context) error
	Close() error
}

// runName returns name, or a generated one for unnamed runs.
func runName(name string, report *model.Report, at time.Time) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s forecast %s", report.Settings.Category, at.Format("2006-01-02 15:04"))
}

func limitOf(f RunFilter) int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}

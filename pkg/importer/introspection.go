package importer

import (
	"time"

	"github.com/aretw0/introspection"
)

// ImporterState exposes internal state for observability.
type ImporterState struct {
	Runs        int        `json:"runs"`
	DryRun      bool       `json:"dry_run"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	LastAdded   int        `json:"last_added"`
	LastUpdated int        `json:"last_updated"`
	LastFailed  int        `json:"last_failed"`
}

// State implements introspection.Introspectable.
func (im *Importer) State() any {
	im.mu.Lock()
	defer im.mu.Unlock()

	s := ImporterState{
		Runs:    im.runs,
		DryRun:  im.dryRun,
		LastRun: im.lastRun,
	}
	if im.last != nil {
		s.LastAdded = im.last.Added
		s.LastUpdated = im.last.Updated
		s.LastFailed = im.last.Failed
	}
	return s
}

// ComponentType implements introspection.Component.
func (im *Importer) ComponentType() string {
	return "importer"
}

var _ introspection.Introspectable = (*Importer)(nil)
var _ introspection.Component = (*Importer)(nil)

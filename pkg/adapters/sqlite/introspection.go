package sqlite

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path        string    `json:"path"`
	Opened      time.Time `json:"opened"`
	Initialized bool      `json:"initialized"`
	Writes      int64     `json:"writes"`
	OpenConns   int       `json:"open_conns"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	return StoreState{
		Path:        s.path,
		Opened:      s.opened,
		Initialized: s.initialized.Load(),
		Writes:      s.writes.Load(),
		OpenConns:   s.conn.Stats().OpenConnections,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "collection"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
